package logging

import "context"

type attrsKey struct{}

// ContextWith returns a copy of ctx carrying key-value pairs that every
// Logger appends to entries logged with that context. Pairs added to a
// context that already carries some are appended after them.
func ContextWith(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}
	prev := contextArgs(ctx)
	merged := make([]any, 0, len(prev)+len(args))
	merged = append(merged, prev...)
	merged = append(merged, args...)
	return context.WithValue(ctx, attrsKey{}, merged)
}

func contextArgs(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	args, _ := ctx.Value(attrsKey{}).([]any)
	return args
}

// withContextArgs returns args followed by the pairs carried by ctx.
func withContextArgs(ctx context.Context, args []any) []any {
	extra := contextArgs(ctx)
	if len(extra) == 0 {
		return args
	}
	out := make([]any, 0, len(args)+len(extra))
	out = append(out, args...)
	return append(out, extra...)
}
