// Package tracking holds the small visitor identifiers the portal keeps:
// an anonymous session id and the Meta pixel's browser/click cookies.
package tracking

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	// AnonSessionKey is the storage key and cookie name of the anonymous id.
	AnonSessionKey = "p28_anon_sid"
	// ServerSessionID is returned when no visitor storage is available.
	ServerSessionID = "server"

	fbpCookie = "_fbp"
	fbcCookie = "_fbc"
)

// GetOrCreateAnonSessionID returns the visitor's anonymous id, generating
// and storing one on first use. A nil store, including a nil *MemoryKV or
// *CookieKV, yields ServerSessionID.
func GetOrCreateAnonSessionID(kv KV) string {
	if isNilKV(kv) {
		return ServerSessionID
	}
	if id, ok := kv.Get(AnonSessionKey); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	kv.Set(AnonSessionKey, id)
	return id
}

// Attribution holds the Meta pixel cookies; nil means absent.
type Attribution struct {
	Fbp *string `json:"fbp"`
	Fbc *string `json:"fbc"`
}

// FbpFbc reads the _fbp and _fbc cookies from the request.
func FbpFbc(r *http.Request) Attribution {
	return Attribution{
		Fbp: cookieValue(r, fbpCookie),
		Fbc: cookieValue(r, fbcCookie),
	}
}

func cookieValue(r *http.Request, name string) *string {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return nil
	}
	v := c.Value
	return &v
}

func isNilKV(kv KV) bool {
	switch v := kv.(type) {
	case nil:
		return true
	case *MemoryKV:
		return v == nil
	case *CookieKV:
		return v == nil
	}
	return false
}
