package logging

import "context"

type ctxKey struct{}

// WithRequestID returns a context whose log entries carry request_id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// contextArgs prepends context-scoped fields to args.
func contextArgs(ctx context.Context, args []any) []any {
	id := RequestID(ctx)
	if id == "" {
		return args
	}
	return append([]any{"request_id", id}, args...)
}
