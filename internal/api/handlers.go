// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/forgebridge/forgebridge/internal/gitea"
	"github.com/forgebridge/forgebridge/internal/log"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"version":        s.cfg.Version,
		"uptime_seconds": int64(time.Since(s.startTime).Seconds()),
	})
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	token, ok := TokenFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r)
		return
	}

	user, err := s.gitea.CurrentUser(r.Context(), token)
	if err != nil {
		s.writeUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleListRepos(w http.ResponseWriter, r *http.Request) {
	token, ok := TokenFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, r)
		return
	}

	repos, err := s.gitea.ListRepos(r.Context(), token)
	if err != nil {
		s.writeUpstreamError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, repos)
}

// writeUpstreamError maps downstream Gitea failures onto this API's
// responses. An upstream 401 means the caller's token was rejected and
// passes through; everything else is a gateway failure.
func (s *Server) writeUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.WithComponentFromContext(r.Context(), "gitea")

	var apiErr *gitea.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		logger.Warn().
			Str(log.FieldEvent, "gitea.token_rejected").
			Msg("upstream rejected caller token")
		writeUnauthorized(w, r)
		return
	}

	logger.Error().
		Err(err).
		Str(log.FieldEvent, "gitea.upstream_error").
		Msg("upstream request failed")
	writeBadGateway(w, r)
}
