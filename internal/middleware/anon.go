package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/p28/portal/internal/tracking"
)

const anonSessionMaxAge = 365 * 24 * time.Hour

// AnonSession makes sure every visitor carries an anonymous session cookie
// and exposes its value through AnonSessionID.
func AnonSession(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			kv := tracking.NewCookieKV(w, r, anonSessionMaxAge, secure)
			id := tracking.GetOrCreateAnonSessionID(kv)
			ctx := context.WithValue(r.Context(), anonKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
