package utilities

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Detail is the error body used by every endpoint.
type Detail struct {
	Detail any `json:"detail"`
}

// WriteJSON writes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteDetail writes {"detail": detail}.
func WriteDetail(w http.ResponseWriter, status int, detail any) {
	WriteJSON(w, status, Detail{Detail: detail})
}

// PathID parses a positive int64 path value such as {item_id}.
func PathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
