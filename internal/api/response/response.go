package response

import (
	"encoding/json"
	"net/http"
)

type listEnvelope struct {
	Data   any `json:"data"`
	Count  int `json:"count"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type rateLimitedEnvelope struct {
	Error        string `json:"error"`
	Message      string `json:"message"`
	RetryAfterMs int64  `json:"retry_after_ms"`
}

// JSON writes v as the response body with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, v)
}

// List writes a collection body with its total count and the pagination
// window that produced it.
func List(w http.ResponseWriter, data any, count, limit, offset int) {
	writeJSON(w, http.StatusOK, listEnvelope{Data: data, Count: count, Limit: limit, Offset: offset})
}

// Error writes the uniform error shape. kind is the coarse taxonomy label
// ("Unauthorized", "Not Found", ...); message is the human explanation.
func Error(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorEnvelope{Error: kind, Message: message})
}

// RateLimited writes the 429 body with a machine-readable backoff hint.
func RateLimited(w http.ResponseWriter, message string, retryAfterMs int64) {
	writeJSON(w, http.StatusTooManyRequests, rateLimitedEnvelope{
		Error:        "Too Many Requests",
		Message:      message,
		RetryAfterMs: retryAfterMs,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
