package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/p28/portal/internal/auth"
	"github.com/p28/portal/internal/middleware"
	"github.com/p28/portal/internal/model"
	"github.com/p28/portal/internal/web"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeEntitlements struct {
	access     map[string]bool
	linkErr    error
	linked     []string
	courses    []string
	coursesErr error
}

func (f *fakeEntitlements) HasAccess(_ context.Context, userID, courseID string) bool {
	return f.access[userID+"/"+courseID]
}

func (f *fakeEntitlements) Link(_ context.Context, email, userID string) error {
	if f.linkErr != nil {
		return f.linkErr
	}
	f.linked = append(f.linked, email+"->"+userID)
	return nil
}

func (f *fakeEntitlements) ActiveCourses(_ context.Context, _ string) ([]string, error) {
	return f.courses, f.coursesErr
}

type fakeTiers struct {
	tiers []model.Tier
	err   error
}

func (f *fakeTiers) ListPublished(_ context.Context) ([]model.Tier, error) {
	return f.tiers, f.err
}

var errBoom = errors.New("boom")

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	tmpl, err := web.Templates()
	require.NoError(t, err)
	return NewRenderer(tmpl, "https://example.com", discardLogger())
}

func testSession() *auth.Session {
	name := "Alice Doe"
	return &auth.Session{User: auth.User{
		ID:       "11111111-1111-4111-8111-111111111111",
		Email:    "alice@example.com",
		FullName: &name,
	}}
}

// withSession builds a request as RequireSession would hand it on.
func withSession(r *http.Request, sess *auth.Session, area auth.Area) *http.Request {
	d := auth.ResolveRouteAccess(sess, area)
	ctx := auth.WithSession(r.Context(), sess)
	ctx = middleware.WithShell(ctx, d.Shell)
	return r.WithContext(ctx)
}

func serve(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, r)
	return rec
}
