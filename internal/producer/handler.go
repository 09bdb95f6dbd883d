package producer

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/pkg/utilities"
)

// Handler exposes HTTP endpoints for producers.
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
		h.fail(w, "list producers", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Cool(w http.ResponseWriter, r *http.Request) {
	level, err := strconv.Atoi(r.URL.Query().Get("cool_level"))
	if err != nil {
		utilities.WriteDetail(w, http.StatusUnprocessableEntity, validation.Errors{"cool_level": errors.New("must be an integer")})
		return
	}
	out, err := h.svc.Cool(r.Context(), level)
	if err != nil {
		h.fail(w, "list cool producers", err)
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
		h.fail(w, "get producer", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	id, ok := utilities.PathID(r, "item_id")
	if !ok {
		utilities.WriteDetail(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	out, err := h.svc.WithProducts(r.Context(), id)
	if err != nil {
		h.fail(w, "list producer products", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utilities.WriteDetail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	p, err := h.svc.Create(r.Context(), req)
	if err != nil {
		h.fail(w, "create producer", err)
		return
	}
	h.logger.Infow("producer created", "id", p.ID)
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
		h.fail(w, "update producer", err)
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
		h.fail(w, "delete producer", err)
		return
	}
	h.logger.Infow("producer deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		utilities.WriteDetail(w, http.StatusUnprocessableEntity, verrs)
	case errors.Is(err, ErrNotFound):
		utilities.WriteDetail(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Errorw(op+" failed", "err", err)
		utilities.WriteDetail(w, http.StatusInternalServerError, op+" failed")
	}
}
