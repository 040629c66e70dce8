// SPDX-License-Identifier: MIT

// Package auth resolves Gitea API tokens from request headers, with an
// environment-configured fallback for requests that carry no credential.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Headers is a per-request mapping of header names to values, borrowed
// for the duration of one resolution. Name lookup is case-insensitive.
type Headers map[string]string

// FromRequest flattens an inbound request's header collection into
// Headers. For repeated headers the first value wins, matching the
// behavior of net/http's Header.Get.
func FromRequest(r *http.Request) Headers {
	if r == nil {
		return nil
	}
	h := make(Headers, len(r.Header))
	for name, values := range r.Header {
		if len(values) > 0 {
			h[strings.ToLower(name)] = values[0]
		}
	}
	return h
}

// ErrNoToken is returned when neither the request headers nor the
// configured fallback yield a token. Callers translate it into a
// protocol-level auth failure (HTTP 401), never a retry.
var ErrNoToken = errors.New("no token available from headers or configuration")

// ErrNoRequestContext is returned by ContextHeaderProvider when no
// request headers have been stored on the context.
var ErrNoRequestContext = errors.New("no request context available")

// Recognized authorization schemes. The scheme keyword is matched
// case-insensitively; the token value is never altered.
var schemes = []string{"bearer ", "token "}

// ExtractToken retrieves the API token from the authorization header.
// It accepts "Bearer <token>" and "Token <token>" forms and returns the
// credential after the single separating space verbatim, with no
// further trimming. It returns "" when the header is absent, empty, or
// does not start with a recognized scheme.
func ExtractToken(headers Headers) string {
	value, ok := headers["authorization"]
	if !ok {
		for name, v := range headers {
			if strings.EqualFold(name, "authorization") {
				value = v
				break
			}
		}
	}
	for _, scheme := range schemes {
		if len(value) > len(scheme) && strings.EqualFold(value[:len(scheme)], scheme) {
			return value[len(scheme):]
		}
	}
	return ""
}

// HeaderProvider supplies the headers of the request currently in
// flight, or fails when called outside of one. The hosting server
// injects its own implementation; see ContextHeaderProvider.
type HeaderProvider func(ctx context.Context) (Headers, error)

// Resolver resolves the API token to use for an outbound Gitea call.
// The fallback token is fixed at construction and read-only afterwards,
// so a single Resolver is safe for unsynchronized concurrent use.
type Resolver struct {
	fallback string
	provider HeaderProvider
}

// NewResolver returns a Resolver with the given fallback token (empty
// means no fallback is configured) and ambient-context provider (nil
// means ambient lookup is unavailable).
func NewResolver(fallback string, provider HeaderProvider) *Resolver {
	return &Resolver{fallback: fallback, provider: provider}
}

// Resolve returns the token for the current request.
//
// A non-nil headers map is consulted directly and wins over the
// fallback token. A nil map means "use ambient request context": the
// injected provider is asked for the current request's headers, and any
// provider failure is treated as "no headers available" rather than
// propagated, since non-HTTP invocations legitimately run outside a
// request. When neither path yields a token the fallback is returned,
// and if no fallback is configured Resolve fails with ErrNoToken.
func (res *Resolver) Resolve(ctx context.Context, headers Headers) (string, error) {
	if headers == nil && res.provider != nil {
		if ambient, err := res.provider(ctx); err == nil {
			headers = ambient
		}
	}
	if token := ExtractToken(headers); token != "" {
		return token, nil
	}
	if res.fallback != "" {
		return res.fallback, nil
	}
	return "", ErrNoToken
}

// HasFallback reports whether a fallback token is configured. Used for
// startup logging only; the token itself is never logged.
func (res *Resolver) HasFallback() bool {
	return res.fallback != ""
}
