package auth

import "strings"

// Area describes one protected route subtree.
type Area struct {
	// Variant selects the dashboard shell ("app", "admin").
	Variant string
	// LoginPath is where unauthenticated visitors are sent.
	LoginPath string
	// AllowedEmails restricts the area when non-empty.
	AllowedEmails []string
	// ForbiddenPath is where signed-in visitors outside AllowedEmails go.
	ForbiddenPath string
}

var (
	AppArea = Area{Variant: "app", LoginPath: "/login"}
	// AdminArea has no allowlist until one is configured with WithAllowedEmails.
	AdminArea = Area{Variant: "admin", LoginPath: "/login", ForbiddenPath: "/app"}
)

// WithAllowedEmails returns a copy of the area restricted to emails.
func (a Area) WithAllowedEmails(emails []string) Area {
	out := a
	out.AllowedEmails = nil
	for _, e := range emails {
		if e = normalizeEmail(e); e != "" {
			out.AllowedEmails = append(out.AllowedEmails, e)
		}
	}
	return out
}

// ShellContext is what the dashboard shell needs to render.
type ShellContext struct {
	Variant     string
	UserID      string
	Email       string
	DisplayName string
}

// Decision is the outcome of ResolveRouteAccess: either Allowed with a
// shell context, or denied with a redirect target.
type Decision struct {
	Allowed    bool
	Shell      ShellContext
	RedirectTo string
}

func Allow(shell ShellContext) Decision { return Decision{Allowed: true, Shell: shell} }

func Deny(target string) Decision { return Decision{RedirectTo: target} }

// ResolveRouteAccess decides whether a visitor with sess (nil when there is
// no valid session) may enter area.
func ResolveRouteAccess(sess *Session, area Area) Decision {
	if sess == nil || sess.User.ID == "" {
		return Deny(area.LoginPath)
	}
	if len(area.AllowedEmails) > 0 && !containsEmail(area.AllowedEmails, sess.User.Email) {
		target := area.ForbiddenPath
		if target == "" {
			target = area.LoginPath
		}
		return Deny(target)
	}
	return Allow(ShellContext{
		Variant:     area.Variant,
		UserID:      sess.User.ID,
		Email:       sess.User.Email,
		DisplayName: sess.User.DisplayName(),
	})
}

func containsEmail(list []string, email string) bool {
	email = normalizeEmail(email)
	for _, e := range list {
		if e == email {
			return true
		}
	}
	return false
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
