package product

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/product/entity"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/product/repo"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/pkg/database"
)

// Store is the persistence the service needs; *repo.ProductRepo implements it.
type Store interface {
	Create(ctx context.Context, p *entity.Product) error
	Get(ctx context.Context, id int64) (*entity.Product, bool, error)
	List(ctx context.Context) ([]entity.Product, error)
	ListByPriceRange(ctx context.Context, min, max float64) ([]entity.Product, error)
	Update(ctx context.Context, id int64, patch repo.ProductPatch) (*entity.Product, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// ProducerChecker reports whether a producer exists; *producerrepo.ProducerRepo
// implements it.
type ProducerChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

var (
	ErrNotFound         = errors.New("product not found")
	ErrProducerNotFound = errors.New("producer not found")
)

// Service implements product catalogue operations.
type Service struct {
	store     Store
	producers ProducerChecker
}

func NewService(store Store, producers ProducerChecker) *Service {
	return &Service{store: store, producers: producers}
}

// CreateRequest request body for the product creation endpoint.
type CreateRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description *string `json:"description"`
	Producer    int64   `json:"producer"`
}

func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Price, validation.Min(0.0)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.Producer, validation.Required, validation.Min(int64(1))),
	)
}

// UpdateRequest carries a partial update; absent fields stay as they are.
type UpdateRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Producer    *int64   `json:"producer"`
}

func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 200)),
		validation.Field(&r.Price, validation.Min(0.0)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.Producer, validation.NilOrNotEmpty, validation.Min(int64(1))),
	)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*entity.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireProducer(ctx, req.Producer); err != nil {
		return nil, err
	}
	p := &entity.Product{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		ProducerID:  req.Producer,
	}
	if err := s.store.Create(ctx, p); err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, ErrProducerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.Product, error) {
	p, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]entity.Product, error) {
	return s.store.List(ctx)
}

// InPriceRange returns products priced between minimum and maximum inclusive.
func (s *Service) InPriceRange(ctx context.Context, minimum, maximum float64) ([]entity.Product, error) {
	if minimum > maximum {
		return nil, validation.Errors{"maximum": errors.New("must not be less than minimum")}
	}
	return s.store.ListByPriceRange(ctx, minimum, maximum)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*entity.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Producer != nil {
		if err := s.requireProducer(ctx, *req.Producer); err != nil {
			return nil, err
		}
	}
	p, ok, err := s.store.Update(ctx, id, repo.ProductPatch{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		ProducerID:  req.Producer,
	})
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, ErrProducerNotFound
		}
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

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

func (s *Service) requireProducer(ctx context.Context, id int64) error {
	ok, err := s.producers.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProducerNotFound
	}
	return nil
}
