package gatedchat

import (
	"net/http"

	"github.com/putto11262002/gatedchat/core"
	"github.com/putto11262002/gatedchat/pkg/router"
)

// registerErrorMappers maps the store's error kinds to responses.
// Store errors carry client-safe messages, so they are returned as is.
func registerErrorMappers(r *router.Router) {
	r.RegisterErrorMapper(core.ErrInvalidInput, func(err error) router.Error {
		return router.NewJsonError(http.StatusBadRequest, err.Error())
	})
	r.RegisterErrorMapper(core.ErrNotFound, func(err error) router.Error {
		return router.NewJsonError(http.StatusNotFound, err.Error())
	})
	r.RegisterErrorMapper(core.ErrUnauthorized, func(err error) router.Error {
		return router.NewJsonError(http.StatusUnauthorized, "Unauthorized app key")
	})
}
