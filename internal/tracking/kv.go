package tracking

import (
	"net/http"
	"sync"
	"time"
)

// KV is a small string store standing in for browser storage.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemoryKV keeps values in process memory.
type MemoryKV struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{m: make(map[string]string)}
}

func (kv *MemoryKV) Get(key string) (string, bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.m[key]
	return v, ok
}

func (kv *MemoryKV) Set(key, value string) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.m[key] = value
}

// CookieKV reads from the request's cookies and writes long-lived cookies
// to the response. Values written during the request are visible to later
// Gets on the same CookieKV.
type CookieKV struct {
	r       *http.Request
	w       http.ResponseWriter
	maxAge  time.Duration
	secure  bool
	pending map[string]string
}

func NewCookieKV(w http.ResponseWriter, r *http.Request, maxAge time.Duration, secure bool) *CookieKV {
	return &CookieKV{r: r, w: w, maxAge: maxAge, secure: secure, pending: make(map[string]string)}
}

func (kv *CookieKV) Get(key string) (string, bool) {
	if v, ok := kv.pending[key]; ok {
		return v, true
	}
	c, err := kv.r.Cookie(key)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (kv *CookieKV) Set(key, value string) {
	kv.pending[key] = value
	http.SetCookie(kv.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int(kv.maxAge.Seconds()),
		Secure:   kv.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
