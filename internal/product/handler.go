package product

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/pkg/utilities"
)

// Handler exposes HTTP endpoints for products.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, "list products", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, out)
}

// Average lists products whose price lies within [minimum, maximum].
func (h *Handler) Average(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	verrs := validation.Errors{}
	minimum, err := strconv.ParseFloat(q.Get("minimum"), 64)
	if err != nil {
		verrs["minimum"] = errors.New("must be a number")
	}
	maximum, err := strconv.ParseFloat(q.Get("maximum"), 64)
	if err != nil {
		verrs["maximum"] = errors.New("must be a number")
	}
	if len(verrs) > 0 {
		utilities.WriteDetail(w, http.StatusUnprocessableEntity, verrs)
		return
	}
	out, err := h.svc.InPriceRange(r.Context(), minimum, maximum)
	if err != nil {
		h.fail(w, "list products by price", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := utilities.PathID(r, "item_id")
	if !ok {
		utilities.WriteDetail(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get product", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utilities.WriteDetail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	p, err := h.svc.Create(r.Context(), req)
	if err != nil {
		h.fail(w, "create product", err)
		return
	}
	h.logger.Infow("product created", "id", p.ID, "producer", p.ProducerID)
	utilities.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := utilities.PathID(r, "item_id")
	if !ok {
		utilities.WriteDetail(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utilities.WriteDetail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	p, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		h.fail(w, "update product", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := utilities.PathID(r, "item_id")
	if !ok {
		utilities.WriteDetail(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete product", err)
		return
	}
	h.logger.Infow("product deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		utilities.WriteDetail(w, http.StatusUnprocessableEntity, verrs)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrProducerNotFound):
		utilities.WriteDetail(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Errorw(op+" failed", "err", err)
		utilities.WriteDetail(w, http.StatusInternalServerError, op+" failed")
	}
}
