// Package httputil centralizes JSON envelopes and domain error translation
// for HTTP transports, so every handler returns consistent responses.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "rollcall/pkg/domain-errors"
)

// ToHTTPStatus maps a domain error code to an HTTP status.
func ToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeCorrupted:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into a JSON error envelope.
// Internal and corruption errors omit the description so store details never
// leak to callers; everything else includes it.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := ToHTTPStatus(code)

	body := map[string]string{"error": string(code)}
	if status < http.StatusInternalServerError {
		var de *dErrors.Error
		if errors.As(err, &de) && de.Desc != "" {
			body["error_description"] = de.Desc
		}
	}

	WriteJSON(w, status, body)
}
