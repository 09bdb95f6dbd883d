package producer

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/producer/entity"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/producer/repo"
	productentity "github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/product/entity"
)

// Store is the persistence the service needs; *repo.ProducerRepo implements it.
type Store interface {
	Create(ctx context.Context, p *entity.Producer) error
	Get(ctx context.Context, id int64) (*entity.Producer, bool, error)
	List(ctx context.Context) ([]entity.Producer, error)
	ListWithMinProducts(ctx context.Context, min int) ([]entity.CoolProducer, error)
	Update(ctx context.Context, id int64, patch repo.ProducerPatch) (*entity.Producer, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// ProductLister lists a producer's products; *productrepo.ProductRepo implements it.
type ProductLister interface {
	ListByProducer(ctx context.Context, producerID int64) ([]productentity.Product, error)
}

var ErrNotFound = errors.New("producer not found")

// Service implements producer catalogue operations.
type Service struct {
	store    Store
	products ProductLister
}

func NewService(store Store, products ProductLister) *Service {
	return &Service{store: store, products: products}
}

// CreateRequest request body for the producer creation endpoint.
type CreateRequest struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Country, validation.Required, validation.Length(1, 100)),
	)
}

// UpdateRequest carries a partial update; absent fields stay as they are.
type UpdateRequest struct {
	Name    *string `json:"name"`
	Country *string `json:"country"`
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Country, validation.NilOrNotEmpty, validation.Length(1, 100)),
	)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*entity.Producer, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Country = strings.TrimSpace(req.Country)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p := &entity.Producer{Name: req.Name, Country: req.Country}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.Producer, error) {
	p, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]entity.Producer, error) {
	return s.store.List(ctx)
}

// Cool returns producers that own at least level products.
func (s *Service) Cool(ctx context.Context, level int) ([]entity.CoolProducer, error) {
	if err := validation.Validate(level, validation.Min(0)); err != nil {
		return nil, validation.Errors{"cool_level": err}
	}
	return s.store.ListWithMinProducts(ctx, level)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*entity.Producer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p, ok, err := s.store.Update(ctx, id, repo.ProducerPatch{Name: req.Name, Country: req.Country})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// Delete removes the producer together with its products.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// WithProducts returns the producer and its products, cheapest first.
func (s *Service) WithProducts(ctx context.Context, id int64) (*entity.ProducerWithProducts, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.products.ListByProducer(ctx, id)
	if err != nil {
		return nil, err
	}
	return &entity.ProducerWithProducts{Producer: *p, Products: items}, nil
}
