/*
Package resp provides helper functions for the mock API server's HTTP responses.

The mock store mimics the hosted collection store the client was built
against: successful responses carry the resource itself (no envelope), and
error responses carry a {message, code} object, which is exactly what the
gateway's error normalization parses.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"eventbook/internal/pkg/logx"
)

// ErrorBody is the error envelope returned on non-2xx responses.
type ErrorBody struct {
	// Message is the client-facing error description.
	Message string `json:"message"`

	// Code is an optional machine-readable error identifier.
	Code string `json:"code,omitempty"`
}

// JSON writes payload as a JSON response with the given HTTP status.
func JSON(w http.ResponseWriter, httpStatus int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response, err := json.Marshal(payload)
	if err != nil {
		logx.Error(
			err,
			"Error encoding JSON response",
			"http_status", httpStatus,
		)

		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(httpStatus)
	w.Write(response)
}

// Data writes a successful 200 response carrying the resource directly.
func Data(w http.ResponseWriter, payload any) {
	JSON(w, http.StatusOK, payload)
}

// Error writes an error response with the {message, code} envelope.
func Error(w http.ResponseWriter, httpStatus int, message string, code string) {
	JSON(w, httpStatus, ErrorBody{
		Message: message,
		Code:    code,
	})
}
