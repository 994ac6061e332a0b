package handler

import (
	"log/slog"
	"net/http"

	"github.com/p28/portal/internal/auth"
	"github.com/p28/portal/internal/middleware"
)

type DashboardHandler struct {
	entitlements EntitlementService
	tiers        TierLister
	renderer     *Renderer
	logger       *slog.Logger
}

func NewDashboardHandler(es EntitlementService, tiers TierLister, renderer *Renderer, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{entitlements: es, tiers: tiers, renderer: renderer, logger: logger}
}

// App renders the learner dashboard with the user's active courses.
func (h *DashboardHandler) App(w http.ResponseWriter, r *http.Request) {
	shell, _ := middleware.ShellFromContext(r.Context())

	courses, err := h.entitlements.ActiveCourses(r.Context(), shell.UserID)
	if err != nil {
		h.logger.Error("list active courses", "user_id", shell.UserID, "error", err)
	}

	h.renderer.Render(w, r, "dashboard.html", map[string]any{
		"ActiveNav": "app",
		"Shell":     shell,
		"Courses":   courses,
	})
}

// Admin renders the admin dashboard with the published tiers.
func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	shell, _ := middleware.ShellFromContext(r.Context())

	tiers, err := h.tiers.ListPublished(r.Context())
	if err != nil {
		h.logger.Error("list tiers for admin", "error", err)
	}

	h.renderer.Render(w, r, "dashboard.html", map[string]any{
		"ActiveNav": "admin",
		"Shell":     shell,
		"Tiers":     tiers,
	})
}

// CoursePage shows a course to entitled learners and sends everyone else
// to the pricing page.
func (h *DashboardHandler) CoursePage(w http.ResponseWriter, r *http.Request) {
	shell, _ := middleware.ShellFromContext(r.Context())
	courseID := r.PathValue("courseID")

	if !h.entitlements.HasAccess(r.Context(), auth.UserID(r.Context()), courseID) {
		http.Redirect(w, r, "/pricing", http.StatusSeeOther)
		return
	}

	h.renderer.Render(w, r, "course.html", map[string]any{
		"ActiveNav": "app",
		"Shell":     shell,
		"CourseID":  courseID,
	})
}
