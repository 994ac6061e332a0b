package handler

import (
	"net/http"
	"time"
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type HealthHandler struct {
	version string
	now     func() time.Time
}

func NewHealthHandler(version string) *HealthHandler {
	if version == "" {
		version = "local"
	}
	return &HealthHandler{version: version, now: time.Now}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": h.now().UTC().Format(isoMillis),
		"version":   h.version,
	})
}
