package gatedchat

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/putto11262002/gatedchat/pkg/router"
)

// decodeJSON decodes the request body into v and validates it.
func decodeJSON(r *http.Request, v any) error {
	if err := decodeBody(r, v); err != nil {
		return err
	}
	if err := validate.Struct(v); err != nil {
		return router.NewJsonError(http.StatusBadRequest, FormatValidationErrors(err))
	}
	return nil
}

// decodeBody decodes the request body into v. An empty body decodes as an empty object.
func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return router.NewJsonError(http.StatusRequestEntityTooLarge, "Body too large")
		}
		return router.NewJsonError(http.StatusBadRequest, "Invalid JSON")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) error {
	return writeJSONWithStatusCode(w, v, http.StatusOK)
}

func writeJSONWithStatusCode(w http.ResponseWriter, v any, code int) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		return err
	}
	return nil
}
