package booking

import "context"

// Origin describes where a booking request came from. It travels in the
// context so listeners can attribute leads.
type Origin struct {
	Source   string // "chat" or "api"
	ThreadID string
}

type originKey struct{}

func WithOrigin(ctx context.Context, o Origin) context.Context {
	return context.WithValue(ctx, originKey{}, o)
}

// OriginFrom returns the origin stored in ctx, defaulting to source "api".
func OriginFrom(ctx context.Context) Origin {
	if o, ok := ctx.Value(originKey{}).(Origin); ok {
		return o
	}
	return Origin{Source: "api"}
}
