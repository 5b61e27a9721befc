// Package requestmeta carries per-request metadata (request id,
// idempotency key) through context.Context.
package requestmeta

import "context"

// contextKey is unexported so no other package can collide with our keys.
type contextKey string

const (
	// HeaderRequestID and HeaderIdempotencyKey are the HTTP headers the
	// metadata is read from.
	HeaderRequestID      = "X-Request-Id"
	HeaderIdempotencyKey = "X-Idempotency-Key"

	keyRequestID      contextKey = "request-id"
	keyIdempotencyKey contextKey = "idempotency-key"
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, keyIdempotencyKey, key)
}

// RequestID returns the request id on ctx, or "".
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(keyRequestID).(string)
	return v
}

// IdempotencyKey returns the caller-supplied idempotency key on ctx, or "".
func IdempotencyKey(ctx context.Context) string {
	v, _ := ctx.Value(keyIdempotencyKey).(string)
	return v
}
