package user

import (
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/security"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/pkg/utilities"
)

// Handler exposes HTTP endpoints for user operations.
type Handler struct {
	svc    *UserService
	logger *zap.SugaredLogger
}

func NewHandler(svc *UserService, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Item is an entry of the caller's item list.
type Item struct {
	ItemID string `json:"item_id"`
	Owner  string `json:"owner"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debugw("invalid signup payload", "err", err)
		utilities.WriteDetail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	u, err := h.svc.Signup(r.Context(), req)
	if err != nil {
		var verrs validation.Errors
		switch {
		case errors.As(err, &verrs):
			utilities.WriteDetail(w, http.StatusUnprocessableEntity, verrs)
		case errors.Is(err, security.ErrPasswordTooLong):
			utilities.WriteDetail(w, http.StatusUnprocessableEntity, validation.Errors{"password": err})
		case errors.Is(err, ErrUsernameTaken):
			utilities.WriteDetail(w, http.StatusConflict, "username already exists")
		default:
			h.logger.Warnw("signup failed", "err", err)
			utilities.WriteDetail(w, http.StatusInternalServerError, "signup failed")
		}
		return
	}
	h.logger.Infow("user created", "id", u.ID, "username", u.Username)
	utilities.WriteJSON(w, http.StatusCreated, u.Out())
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Errorw("list users failed", "err", err)
		utilities.WriteDetail(w, http.StatusInternalServerError, "list users failed")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, users)
}

// Me returns the profile of the authenticated caller.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		utilities.WriteDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, u.Out())
}

func (h *Handler) MyItems(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		utilities.WriteDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	utilities.WriteJSON(w, http.StatusOK, []Item{{ItemID: "Foo", Owner: u.Username}})
}
