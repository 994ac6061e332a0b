package handler

import (
	"net/http"
)

var loginErrors = map[string]string{
	"link_failed": "We could not attach your purchases to this account. Please sign in again.",
}

type MarketingHandler struct {
	renderer   *Renderer
	authCookie string
	secure     bool
}

func NewMarketingHandler(renderer *Renderer, authCookie string, secure bool) *MarketingHandler {
	return &MarketingHandler{renderer: renderer, authCookie: authCookie, secure: secure}
}

// LandingPage renders the homepage.
func (h *MarketingHandler) LandingPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, "index.html", map[string]any{"ActiveNav": "home"})
}

// LoginPage renders the sign-in page. The auth widget itself talks to the
// provider; this page only carries the return path and any error.
func (h *MarketingHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	redirect := r.URL.Query().Get("redirect")
	if !isValidRedirect(redirect) {
		redirect = "/app"
	}

	var errMsg string
	if code := r.URL.Query().Get("error"); code != "" {
		errMsg = loginErrors[code]
		if errMsg == "" {
			errMsg = "Sign-in failed. Please try again."
		}
	}

	h.renderer.Render(w, r, "login.html", map[string]any{
		"ActiveNav": "login",
		"Redirect":  redirect,
		"Error":     errMsg,
	})
}

// Logout clears the access token cookie.
func (h *MarketingHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.authCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
