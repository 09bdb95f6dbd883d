package auth

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/security"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/pkg/utilities"
)

// Client-facing messages. They never say which check failed.
const (
	msgIncorrectLogin   = "Incorrect username or password"
	msgInvalidToken     = "Could not validate credentials"
	msgNotAuthenticated = "Not authenticated"
	msgInactiveUser     = "Inactive user"
	msgInternal         = "Internal server error"
)

// Handler exposes the token endpoint.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Token implements the OAuth2 password flow: form-encoded username and
// password in, bearer token out.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		utilities.WriteDetail(w, http.StatusBadRequest, "invalid request")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		utilities.WriteDetail(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	resp, err := h.svc.Login(r.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, security.ErrUnknownUser), errors.Is(err, security.ErrBadCredentials):
			h.logger.Debugw("login rejected", "username", username, "reason", err)
			unauthorized(w, msgIncorrectLogin)
		default:
			h.logger.Errorw("login failed", "username", username, "err", err)
			utilities.WriteDetail(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}
	h.logger.Infow("token issued", "username", username)
	w.Header().Set("Cache-Control", "no-store")
	utilities.WriteJSON(w, http.StatusOK, resp)
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	utilities.WriteDetail(w, http.StatusUnauthorized, detail)
}
