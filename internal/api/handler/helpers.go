package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/recallwire/cms-api/internal/api/response"
	"github.com/recallwire/cms-api/internal/store"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// pagination reads limit/offset query parameters, clamping to sane bounds.
func pagination(r *http.Request) (limit, offset int) {
	limit = defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// decodeBody decodes the JSON request body into v, writing a 400 and
// returning false on malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.Error(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return false
	}
	return true
}

// storeError maps store sentinel errors onto the wire taxonomy. Anything
// unrecognized is the single 500 recovery point: the message is surfaced,
// the stack is not.
func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Not Found", "Resource not found")
	case errors.Is(err, store.ErrDuplicateKey):
		response.Error(w, http.StatusBadRequest, "Bad Request", "A resource with that identifier already exists")
	case errors.Is(err, store.ErrInvalidReference):
		response.Error(w, http.StatusBadRequest, "Bad Request", "Referenced resource does not exist")
	default:
		response.Error(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}

func deleted(w http.ResponseWriter, what string) {
	response.JSON(w, http.StatusOK, map[string]string{"message": what + " deleted"})
}
