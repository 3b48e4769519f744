// Package shared holds the response helpers every HTTP handler uses, so all
// endpoints speak one envelope.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "foodbridge/pkg/domain-errors"
)

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes v with the given status. Encoding failures are swallowed;
// by that point the status line is already on the wire.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError maps a coded domain error to its HTTP status and envelope.
// Errors without a code become 500 with a generic message so internals never
// leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)

	message := "internal server error"
	var de *dErrors.Error
	if errors.As(err, &de) && code != dErrors.CodeInternal {
		message = de.Message
	}

	WriteJSON(w, dErrors.ToHTTPStatus(code), ErrorBody{
		Error: ErrorDetail{Code: string(code), Message: message},
	})
}
