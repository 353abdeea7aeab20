package testutil

import (
	"context"
	"net/http"
	"time"

	"openbadges/pkg/domain"
	"openbadges/pkg/requestcontext"
)

// WithCaller injects an authenticated caller into the request context,
// simulating what the auth middleware does for a valid bearer token.
func WithCaller(req *http.Request, caller string) *http.Request {
	return req.WithContext(requestcontext.WithCaller(req.Context(), domain.Identity(caller)))
}

// ContextWithCaller builds a context carrying an authenticated caller for
// direct service calls.
func ContextWithCaller(caller string) context.Context {
	return requestcontext.WithCaller(context.Background(), domain.Identity(caller))
}

// WithTime pins the request-scoped clock so timestamps are deterministic.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
