package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/p28/portal/internal/tracking"
)

func TestAnonSessionSetsCookieOnce(t *testing.T) {
	var seen string
	handler := AnonSession(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = AnonSessionID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if seen == "" || seen == tracking.ServerSessionID {
		t.Fatalf("anon id = %q, want a generated id", seen)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != tracking.AnonSessionKey || cookies[0].Value != seen {
		t.Fatalf("cookies = %+v", cookies)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: tracking.AnonSessionKey, Value: seen})
	rec = httptest.NewRecorder()
	first := seen
	handler.ServeHTTP(rec, req)

	if seen != first {
		t.Errorf("anon id changed: %q -> %q", first, seen)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("cookie should not be rewritten when present")
	}
}

func TestRequestLoggerIncludesAnonSession(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := AnonSession(false)(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})))

	req := httptest.NewRequest("GET", "/missing", nil)
	req.AddCookie(&http.Cookie{Name: tracking.AnonSessionKey, Value: "sid-123"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{"level=WARN", "path=/missing", "status=404", "anon_sid=sid-123"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}
