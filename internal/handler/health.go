// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/agrodirect/fos-web/internal/api"
	"github.com/agrodirect/fos-web/internal/model"
	"github.com/agrodirect/fos-web/internal/session"
)

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	db        *sql.DB
	api       *api.Client
	sm        *session.Manager
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sql.DB, apiClient *api.Client, sm *session.Manager) *HealthHandler {
	return &HealthHandler{
		db:        db,
		api:       apiClient,
		sm:        sm,
		startTime: time.Now(),
	}
}

// healthStatus is the full health report.
type healthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health handles GET /health. Anonymous callers get a minimal status;
// authenticated admins get the full check breakdown.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]string{
		"sessions": "ok",
		"backend":  "ok",
	}
	status := "healthy"

	if err := h.db.PingContext(ctx); err != nil {
		checks["sessions"] = "failed"
		status = "unhealthy"
		slog.Error("health check: session store unreachable", "error", err)
	}

	if err := h.api.Reachable(ctx); err != nil {
		checks["backend"] = "failed"
		status = "unhealthy"
		slog.Warn("health check: backend unreachable", "error", err)
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	resp := healthStatus{
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
	// Check details and uptime are operational data; only admins see them.
	if h.sm.UserType(ctx) == model.UserTypeAdmin {
		resp.Uptime = time.Since(h.startTime).Round(time.Second).String()
		resp.Checks = checks
	}

	writeJSON(w, code, resp)
}

// Live handles GET /health/live. The process is up if it can answer.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Ready handles GET /health/ready. Readiness requires the session store;
// the backend being down degrades pages but the frontend can still serve
// login forms and errors.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		slog.Error("readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode health response", "error", err)
	}
}
