package router

import (
	"context"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/producer"
	producerrepo "github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/producer/repo"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/product"
	productrepo "github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/product/repo"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/pkg/utilities"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFromContext returns the id assigned by RequestIDMiddleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDMiddleware tags every request with an id, keeping one supplied by
// the client and echoing it back in the response.
func RequestIDMiddleware(ids *utilities.IDGenerator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" || len(id) > 128 {
				id = ids.Next()
			}
			w.Header().Set(requestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		})
	}
}

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware logs each request at debug level. The Authorization
// header is never logged.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"request_id", RequestIDFromContext(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'self';")
			}
			// HSTS only over TLS, 30 days
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Deps are the shared resources the routes are built from.
type Deps struct {
	DB   *sqlx.DB
	Auth *auth.Service
	IDs  *utilities.IDGenerator
}

// RegisterRoutes mounts every endpoint on an http.ServeMux and wraps it with
// the middleware chain RequestID -> Logging -> SecurityHeaders.
func RegisterRoutes(logger *zap.SugaredLogger, deps Deps) http.Handler {
	mux := http.NewServeMux()

	users := userrepo.NewUserRepo(deps.DB)
	producers := producerrepo.NewProducerRepo(deps.DB)
	products := productrepo.NewProductRepo(deps.DB)

	authHandler := auth.NewHandler(deps.Auth, logger)
	guard := auth.NewMiddleware(deps.Auth, logger)
	userHandler := user.NewHandler(user.NewUserService(users, deps.Auth.Hasher()), logger)
	producerHandler := producer.NewHandler(producer.NewService(producers, products), logger)
	productHandler := product.NewHandler(product.NewService(products, producers), logger)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// auth and users
	mux.HandleFunc("POST /token", authHandler.Token)
	mux.HandleFunc("POST /api/user/new", userHandler.Signup)
	mux.HandleFunc("GET /api/user", userHandler.List)
	mux.Handle("GET /users/me/{$}", guard.RequireActiveUserFunc(userHandler.Me))
	mux.Handle("GET /users/me/items/{$}", guard.RequireActiveUserFunc(userHandler.MyItems))

	// products; writes need an active user
	mux.HandleFunc("GET /api/products", productHandler.List)
	mux.HandleFunc("GET /api/product/get_average_products", productHandler.Average)
	mux.HandleFunc("GET /api/product/{item_id}", productHandler.Get)
	mux.Handle("POST /api/product/new", guard.RequireActiveUserFunc(productHandler.Create))
	mux.Handle("PUT /api/product/edit/{item_id}", guard.RequireActiveUserFunc(productHandler.Update))
	mux.Handle("DELETE /api/product/delete/{item_id}", guard.RequireActiveUserFunc(productHandler.Delete))

	// producers
	mux.HandleFunc("GET /api/producers", producerHandler.List)
	mux.HandleFunc("GET /api/producer/get_cool_producers", producerHandler.Cool)
	mux.HandleFunc("GET /api/producer/{item_id}", producerHandler.Get)
	mux.HandleFunc("GET /api/producer/{item_id}/products", producerHandler.Products)
	mux.HandleFunc("POST /api/producer/new", producerHandler.Create)
	mux.HandleFunc("PUT /api/producer/edit/{item_id}", producerHandler.Update)
	mux.HandleFunc("DELETE /api/producer/delete/{item_id}", producerHandler.Delete)

	return RequestIDMiddleware(deps.IDs)(LoggingMiddleware(logger)(SecurityHeadersMiddleware()(mux)))
}
