package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/p28/portal/internal/model"
)

// TierLister reads the published subscription tiers in display order.
type TierLister interface {
	ListPublished(ctx context.Context) ([]model.Tier, error)
}

type TierHandler struct {
	tiers    TierLister
	renderer *Renderer
	logger   *slog.Logger
}

func NewTierHandler(tiers TierLister, renderer *Renderer, logger *slog.Logger) *TierHandler {
	return &TierHandler{tiers: tiers, renderer: renderer, logger: logger}
}

// List serves GET /api/package-subscriptions/tiers.
func (h *TierHandler) List(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.tiers.ListPublished(r.Context())
	if err != nil {
		h.logger.Error("list tiers", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if tiers == nil {
		tiers = []model.Tier{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tiers": tiers})
}

// PricingPage renders the public pricing page.
func (h *TierHandler) PricingPage(w http.ResponseWriter, r *http.Request) {
	tiers, err := h.tiers.ListPublished(r.Context())
	if err != nil {
		h.logger.Error("list tiers for pricing page", "error", err)
		tiers = nil
	}
	h.renderer.Render(w, r, "pricing.html", map[string]any{
		"ActiveNav": "pricing",
		"Tiers":     tiers,
	})
}
