package ctxutil

import "context"

type ctxKey string

const (
	identityKey  ctxKey = "identity"
	requestIDKey ctxKey = "request_id"
	channelKey   ctxKey = "channel"
)

// WithIdentity stores the verified user identity (phone number) in the context.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromCtx extracts the verified identity from the context.
// Returns "" and false if the value is missing, empty, or of a wrong type.
func IdentityFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(identityKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithChannel stores the delivery channel name ("http" or "ws") in the context.
func WithChannel(ctx context.Context, channel string) context.Context {
	return context.WithValue(ctx, channelKey, channel)
}

// ChannelFromCtx extracts the delivery channel name. Returns "" if absent.
func ChannelFromCtx(ctx context.Context) string {
	ch, _ := ctx.Value(channelKey).(string)
	return ch
}
