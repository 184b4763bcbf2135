// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/agrodirect/fos-web/internal/render"
)

// SiteHandler serves pages that belong to neither role.
type SiteHandler struct {
	render *render.Renderer
}

// NewSiteHandler creates a new site handler.
func NewSiteHandler(renderer *render.Renderer) *SiteHandler {
	return &SiteHandler{render: renderer}
}

// NotFound renders the not-found page. It serves both the /not-found route
// (where role mismatches land) and unknown paths.
func (h *SiteHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	err := h.render.Render(w, r, "site/not_found", render.TemplateData{
		Title: "Page Not Found",
	})
	if err != nil {
		renderError(w, err)
	}
}
