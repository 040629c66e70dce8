// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/forgebridge/forgebridge/internal/auth"
	"github.com/forgebridge/forgebridge/internal/log"
)

// tokenCtxKey stores the resolved caller token in the request context.
type tokenCtxKey struct{}

// TokenFromContext returns the token resolved by authMiddleware.
func TokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenCtxKey{}).(string)
	return t, ok
}

// authMiddleware resolves the caller's Gitea token before the handler
// runs. Requests without a header token and without a configured
// fallback are rejected with 401; the resolver's ErrNoToken is the only
// expected failure and is never retried.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := s.resolver.Resolve(r.Context(), auth.FromRequest(r))
		if err != nil {
			logger := log.WithComponentFromContext(r.Context(), "auth")
			if errors.Is(err, auth.ErrNoToken) {
				recordAuthFailure()
				logger.Warn().
					Str(log.FieldEvent, "auth.missing_token").
					Str(log.FieldPath, r.URL.Path).
					Msg("no token in headers and no fallback configured")
				writeUnauthorized(w, r)
				return
			}
			logger.Error().
				Err(err).
				Str(log.FieldEvent, "auth.resolve_failed").
				Msg("token resolution failed")
			writeInternalError(w, r)
			return
		}

		source := "header"
		if auth.ExtractToken(auth.FromRequest(r)) == "" {
			source = "fallback"
		}
		recordAuthResolution(source)
		resolvedLogger := log.WithComponentFromContext(r.Context(), "auth")
		resolvedLogger.Debug().
			Str(log.FieldEvent, "auth.resolved").
			Str(log.FieldTokenSource, source).
			Msg("caller token resolved")

		ctx := context.WithValue(r.Context(), tokenCtxKey{}, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
