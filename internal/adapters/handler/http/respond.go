package http

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const maxPageSize = 100

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// pagination reads limit/offset query parameters, clamping limit to maxPageSize.
func pagination(r *http.Request) (limit, offset int) {
	limit = maxPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v < maxPageSize {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
