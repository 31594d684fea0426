// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services read them. Keeping the package free
// of net/http lets domain code consume caller identity and request time
// without pulling transport code into its import graph.
//
// Usage in services (read values):
//
//	lenderID := requestcontext.LenderID(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithLenderID(ctx, lenderID)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//
// Usage in tests (inject a fixed clock):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "fundline/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	lenderIDKey    struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// LenderID retrieves the authenticated lender ID from the context.
// Returns the zero value (nil UUID) if not set.
func LenderID(ctx context.Context) id.LenderID {
	if lenderID, ok := ctx.Value(lenderIDKey{}).(id.LenderID); ok {
		return lenderID
	}
	return id.LenderID{}
}

// WithLenderID injects a lender ID into the context.
func WithLenderID(ctx context.Context, lenderID id.LenderID) context.Context {
	return context.WithValue(ctx, lenderIDKey{}, lenderID)
}

// RequestID retrieves the correlation ID assigned by middleware.
// Returns "" if not set.
func RequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return requestID
	}
	return ""
}

// WithRequestID injects a correlation ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now returns the request-scoped time when set, falling back to time.Now.
// Tests inject a fixed time to make calendar-day logic deterministic.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a fixed request time into the context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
