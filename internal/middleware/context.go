package middleware

import (
	"context"

	"github.com/p28/portal/internal/auth"
)

type shellKey struct{}
type anonKey struct{}

func WithShell(ctx context.Context, shell auth.ShellContext) context.Context {
	return context.WithValue(ctx, shellKey{}, shell)
}

// ShellFromContext returns the dashboard shell context set by RequireSession.
func ShellFromContext(ctx context.Context) (auth.ShellContext, bool) {
	s, ok := ctx.Value(shellKey{}).(auth.ShellContext)
	return s, ok
}

// AnonSessionID returns the id set by AnonSession, or "" outside it.
func AnonSessionID(ctx context.Context) string {
	id, _ := ctx.Value(anonKey{}).(string)
	return id
}
