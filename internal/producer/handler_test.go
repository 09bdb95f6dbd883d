package producer

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestMux(m *memStore) *http.ServeMux {
	h := NewHandler(NewService(m, m), zap.NewNop().Sugar())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/producers", h.List)
	mux.HandleFunc("GET /api/producer/get_cool_producers", h.Cool)
	mux.HandleFunc("GET /api/producer/{item_id}", h.Get)
	mux.HandleFunc("GET /api/producer/{item_id}/products", h.Products)
	mux.HandleFunc("POST /api/producer/new", h.Create)
	mux.HandleFunc("PUT /api/producer/edit/{item_id}", h.Update)
	mux.HandleFunc("DELETE /api/producer/delete/{item_id}", h.Delete)
	return mux
}

func do(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Routes(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
		want   string
	}{
		{name: "list", method: http.MethodGet, target: "/api/producers", status: http.StatusOK,
			want: `[{"id":1,"name":"Acme","country":"DE"},{"id":2,"name":"Globex","country":"US"}]`},
		{name: "get", method: http.MethodGet, target: "/api/producer/2", status: http.StatusOK,
			want: `{"id":2,"name":"Globex","country":"US"}`},
		{name: "get missing", method: http.MethodGet, target: "/api/producer/9", status: http.StatusNotFound,
			want: `{"detail":"producer not found"}`},
		{name: "get bad id", method: http.MethodGet, target: "/api/producer/abc", status: http.StatusNotFound},
		{name: "cool", method: http.MethodGet, target: "/api/producer/get_cool_producers?cool_level=3", status: http.StatusOK,
			want: `[{"id":1,"name":"Acme","country":"DE","product_count":3}]`},
		{name: "cool bad level", method: http.MethodGet, target: "/api/producer/get_cool_producers?cool_level=x", status: http.StatusUnprocessableEntity},
		{name: "products", method: http.MethodGet, target: "/api/producer/2/products", status: http.StatusOK,
			want: `{"id":2,"name":"Globex","country":"US","products":[{"id":4,"name":"lamp","price":5,"description":null,"producer":2}]}`},
		{name: "create", method: http.MethodPost, target: "/api/producer/new", body: `{"name":"Initech","country":"US"}`, status: http.StatusCreated,
			want: `{"id":3,"name":"Initech","country":"US"}`},
		{name: "create invalid", method: http.MethodPost, target: "/api/producer/new", body: `{"name":"Initech"}`, status: http.StatusUnprocessableEntity},
		{name: "create bad json", method: http.MethodPost, target: "/api/producer/new", body: `nope`, status: http.StatusBadRequest},
		{name: "edit", method: http.MethodPut, target: "/api/producer/edit/1", body: `{"name":"Acme Corp"}`, status: http.StatusOK,
			want: `{"id":1,"name":"Acme Corp","country":"DE"}`},
		{name: "edit missing", method: http.MethodPut, target: "/api/producer/edit/9", body: `{"name":"X"}`, status: http.StatusNotFound},
		{name: "delete", method: http.MethodDelete, target: "/api/producer/delete/2", status: http.StatusNoContent},
		{name: "delete missing", method: http.MethodDelete, target: "/api/producer/delete/9", status: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newTestMux(seeded()), tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.want != "" {
				assert.JSONEq(t, tt.want, rec.Body.String())
			}
		})
	}
}

func TestHandler_StoreFailureIs500(t *testing.T) {
	m := seeded()
	m.err = errors.New("db down")

	rec := do(newTestMux(m), http.MethodGet, "/api/producer/1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}
