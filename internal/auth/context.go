// SPDX-License-Identifier: MIT

package auth

import "context"

type headersCtxKey struct{}

// ContextWithHeaders stores the request's headers in the context so
// that code without access to the request itself can still resolve a
// caller token through the ambient-context path.
func ContextWithHeaders(ctx context.Context, headers Headers) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, headersCtxKey{}, headers)
}

// HeadersFromContext returns the headers previously stored with
// ContextWithHeaders, if any.
func HeadersFromContext(ctx context.Context) (Headers, bool) {
	if ctx == nil {
		return nil, false
	}
	h, ok := ctx.Value(headersCtxKey{}).(Headers)
	return h, ok
}

// ContextHeaderProvider is the production HeaderProvider: it reads the
// current request's headers from the context and fails with
// ErrNoRequestContext outside of a request (e.g. a direct invocation
// that never passed through the HTTP server).
func ContextHeaderProvider(ctx context.Context) (Headers, error) {
	h, ok := HeadersFromContext(ctx)
	if !ok {
		return nil, ErrNoRequestContext
	}
	return h, nil
}
