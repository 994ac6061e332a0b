package middleware

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/p28/portal/internal/auth"
)

// RequireSession gates a page area. Visitors the area does not admit are
// redirected; admitted requests carry the session in their context.
// HTMX-aware: returns HX-Redirect header instead of 303 redirect for HTMX requests.
func RequireSession(resolver auth.Resolver, area auth.Area) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := resolver.Resolve(r)
			if err != nil {
				sess = nil
			}

			d := auth.ResolveRouteAccess(sess, area)
			if !d.Allowed {
				target := d.RedirectTo
				if target == area.LoginPath {
					target = loginTarget(area.LoginPath, r)
				}
				redirect(w, r, target)
				return
			}

			ctx := auth.WithSession(r.Context(), sess)
			ctx = WithShell(ctx, d.Shell)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSessionAPI is RequireSession for JSON endpoints: it answers 401
// instead of redirecting.
func RequireSessionAPI(resolver auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := resolver.Resolve(r)
			if err != nil || sess == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), sess)))
		})
	}
}

func loginTarget(loginPath string, r *http.Request) string {
	if r.Method != http.MethodGet || r.URL.Path == "" || r.URL.Path == loginPath {
		return loginPath
	}
	return loginPath + "?redirect=" + url.QueryEscape(r.URL.RequestURI())
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
