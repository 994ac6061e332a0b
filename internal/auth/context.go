package auth

import "context"

type contextKey struct{}

func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(*Session)
	return sess, ok && sess != nil
}

func UserID(ctx context.Context) string {
	sess, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return sess.User.ID
}

func Email(ctx context.Context) string {
	sess, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return sess.User.Email
}
