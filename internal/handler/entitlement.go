package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/p28/portal/internal/auth"
	"github.com/p28/portal/internal/tracking"
)

// EntitlementService is the part of entitlement.Service the handlers use.
type EntitlementService interface {
	HasAccess(ctx context.Context, userID, courseID string) bool
	Link(ctx context.Context, email, userID string) error
	ActiveCourses(ctx context.Context, userID string) ([]string, error)
}

type EntitlementHandler struct {
	entitlements EntitlementService
	logger       *slog.Logger
}

func NewEntitlementHandler(es EntitlementService, logger *slog.Logger) *EntitlementHandler {
	return &EntitlementHandler{entitlements: es, logger: logger}
}

// CourseAccess serves GET /api/courses/{courseID}/access.
func (h *EntitlementHandler) CourseAccess(w http.ResponseWriter, r *http.Request) {
	courseID := r.PathValue("courseID")
	has := h.entitlements.HasAccess(r.Context(), auth.UserID(r.Context()), courseID)
	writeJSON(w, http.StatusOK, map[string]any{
		"course_id":  courseID,
		"has_access": has,
	})
}

// Link attaches purchases made with the signed-in email to the session user.
func (h *EntitlementHandler) Link(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}
	if err := h.entitlements.Link(r.Context(), sess.User.Email, sess.User.ID); err != nil {
		h.logger.Error("link entitlements", "user_id", sess.User.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// AuthCallback finishes sign-in: it links pending purchases and sends the
// visitor on to ?next, or /app when next is missing or unsafe.
func (h *EntitlementHandler) AuthCallback(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if sess.User.Email != "" {
		if err := h.entitlements.Link(r.Context(), sess.User.Email, sess.User.ID); err != nil {
			h.logger.Error("link entitlements on sign-in", "user_id", sess.User.ID, "error", err)
			http.Redirect(w, r, "/login?error="+url.QueryEscape("link_failed"), http.StatusSeeOther)
			return
		}
	}

	attr := tracking.FbpFbc(r)
	h.logger.Info("signup complete",
		"user_id", sess.User.ID,
		"fbp", deref(attr.Fbp),
		"fbc", deref(attr.Fbc),
	)

	next := r.URL.Query().Get("next")
	if !isValidRedirect(next) {
		next = "/app"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
