package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	// AttributionCookie holds the last captured ad/campaign payload.
	AttributionCookie = "p28_attrib"

	attributionMaxAge  = 30 * 24 * time.Hour
	maxAttributionBody = 64 << 10
)

type AttributionHandler struct {
	secure bool
	logger *slog.Logger
}

func NewAttributionHandler(secure bool, logger *slog.Logger) *AttributionHandler {
	return &AttributionHandler{secure: secure, logger: logger}
}

// Capture stores the posted JSON object in the attribution cookie. A missing
// or malformed body is stored as {}. It always answers {"ok":true}.
func (h *AttributionHandler) Capture(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxAttributionBody))
	if err != nil {
		h.logger.Debug("read attribution body", "error", err)
		body = nil
	}
	payload := attributionPayload(body)

	http.SetCookie(w, &http.Cookie{
		Name:     AttributionCookie,
		Value:    url.PathEscape(string(payload)),
		Path:     "/",
		MaxAge:   int(attributionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// attributionPayload returns body compacted if it is a JSON object, or {}.
func attributionPayload(body []byte) []byte {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' || !json.Valid(body) {
		return []byte("{}")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return []byte("{}")
	}
	return buf.Bytes()
}
