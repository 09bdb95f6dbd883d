package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/security"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/pkg/utilities"
)

type ctxKey struct{}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, u *entity.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext returns the user stored by RequireActiveUser.
func UserFromContext(ctx context.Context) (*entity.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*entity.User)
	return u, ok && u != nil
}

// Authorizer resolves a bearer token to a user; *Service implements it.
type Authorizer interface {
	Authorize(ctx context.Context, bearer string) (*entity.User, error)
}

// Middleware guards routes that need an active user.
type Middleware struct {
	authz  Authorizer
	logger *zap.SugaredLogger
}

func NewMiddleware(authz Authorizer, logger *zap.SugaredLogger) *Middleware {
	return &Middleware{authz: authz, logger: logger}
}

// RequireActiveUser rejects the request unless it carries a valid bearer
// token for an existing, enabled user.
func (m *Middleware) RequireActiveUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w, msgNotAuthenticated)
			return
		}
		u, err := m.authz.Authorize(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, security.ErrInvalidToken), errors.Is(err, security.ErrUnknownUser):
				m.logger.Debugw("bearer rejected", "path", r.URL.Path, "reason", err)
				unauthorized(w, msgInvalidToken)
			case errors.Is(err, security.ErrDisabled):
				m.logger.Debugw("inactive user", "path", r.URL.Path)
				utilities.WriteDetail(w, http.StatusBadRequest, msgInactiveUser)
			default:
				m.logger.Errorw("authorization failed", "path", r.URL.Path, "err", err)
				utilities.WriteDetail(w, http.StatusInternalServerError, msgInternal)
			}
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

// RequireActiveUserFunc is RequireActiveUser for plain handler functions.
func (m *Middleware) RequireActiveUserFunc(next http.HandlerFunc) http.Handler {
	return m.RequireActiveUser(next)
}

// bearerToken extracts the credential from an "Authorization: Bearer x"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
