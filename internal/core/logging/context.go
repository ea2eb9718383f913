package logging

import "context"

type scopeKey struct{}

// Scope identifies the project a command is working on.
type Scope struct {
	Command     string
	BaseDir     string
	StorageName string // legacy directory and storage file name
}

// WithScope attaches s to ctx. Events logged with .Ctx(ctx) through a logger
// carrying ContextHook get its non-empty fields.
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFrom returns the Scope attached to ctx, or the zero Scope.
func ScopeFrom(ctx context.Context) Scope {
	s, _ := ctx.Value(scopeKey{}).(Scope)
	return s
}
