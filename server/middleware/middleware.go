package middleware

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/kbukum/whispering/errors"
)

// Middleware wraps an http.Handler. The server applies the stack around the
// whole Gin engine so every route is covered.
type Middleware func(http.Handler) http.Handler

// Chain composes middlewares. The first in the list is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			if middlewares[i] != nil {
				final = middlewares[i](final)
			}
		}
		return final
	}
}

// writeError renders err in the canonical JSON shape. Handlers inside the
// Gin engine use server.RespondWithError instead.
func writeError(w http.ResponseWriter, err *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(err.HTTPStatus)
	_ = json.NewEncoder(w).Encode(err.ToResponse())
}
