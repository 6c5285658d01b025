/*
Package req provides helper functions for HTTP request parsing and data binding
in the mock API server.
*/
package req

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrUnsupportedMediaType indicates a request body with a non-JSON Content-Type.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrInvalidJSON indicates a request body that failed to decode.
	ErrInvalidJSON = errors.New("invalid JSON body")

	// ErrExtraContent indicates trailing content after the JSON document.
	ErrExtraContent = errors.New("unexpected content after JSON body")
)

// BindJSON binds the JSON request body to the destination struct dst.
func BindJSON(r *http.Request, dst any) error {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return ErrUnsupportedMediaType
	}

	decoder := json.NewDecoder(r.Body)

	if err := decoder.Decode(dst); err != nil {
		return ErrInvalidJSON
	}

	if decoder.More() {
		return ErrExtraContent
	}

	return nil
}
