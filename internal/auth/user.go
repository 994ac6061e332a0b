package auth

import (
	"strings"
	"time"
)

// User is the subset of the auth provider's user record the portal reads.
type User struct {
	ID    string
	Email string
	// FullName comes from provider metadata and is often unset.
	FullName *string
}

// DisplayName is the profile name, or the local part of the email when no
// name is set.
func (u User) DisplayName() string {
	if u.FullName != nil {
		if name := strings.TrimSpace(*u.FullName); name != "" {
			return name
		}
	}
	if i := strings.IndexByte(u.Email, '@'); i >= 0 {
		return u.Email[:i]
	}
	return u.Email
}

type Session struct {
	User      User
	ExpiresAt time.Time
}
