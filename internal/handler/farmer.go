// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/agrodirect/fos-web/internal/api"
	"github.com/agrodirect/fos-web/internal/middleware"
	"github.com/agrodirect/fos-web/internal/model"
	"github.com/agrodirect/fos-web/internal/render"
	"github.com/agrodirect/fos-web/internal/session"
)

// FarmerHandler serves the farmer dashboard pages.
type FarmerHandler struct {
	api    *api.Client
	sm     *session.Manager
	render *render.Renderer
}

// NewFarmerHandler creates a new farmer handler.
func NewFarmerHandler(apiClient *api.Client, sm *session.Manager, renderer *render.Renderer) *FarmerHandler {
	return &FarmerHandler{
		api:    apiClient,
		sm:     sm,
		render: renderer,
	}
}

// farmerOrdersData is the template payload for the farmer dashboard.
type farmerOrdersData struct {
	User   *model.UserProfile
	Orders []model.Order
}

// newOrderData is the template payload for the new order page.
type newOrderData struct {
	User        *model.UserProfile
	Fertilizers []model.Fertilizer
	Selected    *model.Fertilizer
	Quantity    float64
}

// Dashboard handles GET /farmer-dashboard: the farmer's order history.
func (h *FarmerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(r)

	var errMsg string
	orders, err := h.api.MyOrders(ctx, h.sm.Token(ctx))
	if err != nil {
		msg, done := pageFetchError(w, r, h.sm, err, PathFarmerLogin, "Failed to load orders")
		if done {
			return
		}
		errMsg = msg
	}

	err = h.render.Render(w, r, "farmer/orders", render.TemplateData{
		Title:      "My Orders",
		Data:       farmerOrdersData{User: user, Orders: orders},
		FlashError: errMsg,
	})
	if err != nil {
		renderError(w, err)
	}
}

// NewOrder handles GET /farmer-dashboard/new-order. The fertilizer catalog
// is fetched together with a fresh profile so the quantity preview always
// uses the farmer's current land area.
func (h *FarmerHandler) NewOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := h.sm.Token(ctx)

	var errMsg string
	fertilizers, err := h.api.Fertilizers(ctx, token)
	if err != nil {
		msg, done := pageFetchError(w, r, h.sm, err, PathFarmerLogin, "Failed to load fertilizers")
		if done {
			return
		}
		errMsg = msg
	}

	user := middleware.GetUser(r)
	if profile, err := h.api.Profile(ctx, token); err == nil {
		user = &profile
		if err := h.sm.SetUser(ctx, profile); err != nil {
			slog.Warn("failed to store refreshed profile", "error", err)
		}
	} else {
		// A stale land area still renders a usable page; only a rejected
		// token is fatal here.
		if handled := isUnauthorized(err); handled {
			handleAPIError(w, r, h.sm, err, PathFarmerLogin, PathFarmerHome, "")
			return
		}
		slog.Warn("failed to refresh farmer profile", "error", err)
	}

	data := newOrderData{
		User:        user,
		Fertilizers: fertilizers,
	}

	if id := strings.TrimSpace(r.URL.Query().Get("fertilizer")); id != "" && user != nil {
		for i := range fertilizers {
			if fertilizers[i].ID == id {
				data.Selected = &fertilizers[i]
				data.Quantity = model.RequiredQuantity(user.LandArea, fertilizers[i].RatePerHectare)
				break
			}
		}
	}

	err = h.render.Render(w, r, "farmer/new_order", render.TemplateData{
		Title:      "New Order",
		Data:       data,
		FlashError: errMsg,
	})
	if err != nil {
		renderError(w, err)
	}
}

// SubmitOrder handles POST /farmer-dashboard/new-order.
func (h *FarmerHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fertilizerID := strings.TrimSpace(r.FormValue("fertilizerId"))
	if fertilizerID == "" {
		h.sm.SetFlashError(ctx, "Please select a fertilizer")
		http.Redirect(w, r, PathFarmerNewOrder, http.StatusSeeOther)
		return
	}

	if err := h.api.SubmitOrder(ctx, h.sm.Token(ctx), fertilizerID); err != nil {
		handleAPIError(w, r, h.sm, err, PathFarmerLogin, PathFarmerNewOrder, "Failed to submit order")
		return
	}

	h.sm.SetFlash(ctx, "Order submitted successfully!")
	http.Redirect(w, r, PathFarmerHome, http.StatusSeeOther)
}
