// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/agrodirect/fos-web/internal/api"
	"github.com/agrodirect/fos-web/internal/model"
	"github.com/agrodirect/fos-web/internal/render"
	"github.com/agrodirect/fos-web/internal/session"
)

// AdminHandler serves the admin dashboard pages.
type AdminHandler struct {
	api    *api.Client
	sm     *session.Manager
	render *render.Renderer
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(apiClient *api.Client, sm *session.Manager, renderer *render.Renderer) *AdminHandler {
	return &AdminHandler{
		api:    apiClient,
		sm:     sm,
		render: renderer,
	}
}

// adminDashboardData is the template payload for the metrics overview.
type adminDashboardData struct {
	Metrics model.Metrics
}

// adminOrdersData is the template payload for the order review queue.
type adminOrdersData struct {
	Orders     []model.Order
	Status     string
	Pagination Pagination
	// Query is the encoded list position, appended to review links so the
	// review page can lead back to the same list view.
	Query string
}

// reviewOrderData is the template payload for the single-order review page.
type reviewOrderData struct {
	Order   model.Order
	BackURL string
	// ActionQuery carries the list position through approve/decline posts.
	ActionQuery string
}

// fertilizersData is the template payload for the fertilizer catalog page.
type fertilizersData struct {
	Fertilizers []model.Fertilizer
	Units       []model.Unit
}

// fertilizerEditData is the template payload for the fertilizer edit page.
type fertilizerEditData struct {
	Fertilizer model.Fertilizer
	Units      []model.Unit
}

// Dashboard handles GET /admin-dashboard: the metrics overview.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var errMsg string
	metrics, err := h.api.Metrics(ctx, h.sm.Token(ctx))
	if err != nil {
		msg, done := pageFetchError(w, r, h.sm, err, PathAdminLogin, "Failed to load metrics")
		if done {
			return
		}
		errMsg = msg
	}

	err = h.render.Render(w, r, "admin/dashboard", render.TemplateData{
		Title:      "Admin Dashboard",
		Data:       adminDashboardData{Metrics: metrics},
		FlashError: errMsg,
	})
	if err != nil {
		renderError(w, err)
	}
}

// Orders handles GET /admin-dashboard/orders with optional status filter
// and page.
func (h *AdminHandler) Orders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status, page := listParams(r)

	var errMsg string
	orders, err := h.api.Orders(ctx, h.sm.Token(ctx), status, page)
	if err != nil {
		msg, done := pageFetchError(w, r, h.sm, err, PathAdminLogin, "Failed to load orders")
		if done {
			return
		}
		errMsg = msg
	}

	err = h.render.Render(w, r, "admin/orders", render.TemplateData{
		Title:      "Order Review",
		FlashError: errMsg,
		Data: adminOrdersData{
			Orders:     orders,
			Status:     status,
			Pagination: newOrdersPagination(page, len(orders), status),
			Query:      listQuery(status, page),
		},
	})
	if err != nil {
		renderError(w, err)
	}
}

// ReviewOrder handles GET /admin-dashboard/orders/{id}/review. The backend
// has no single-order endpoint, so the order is picked out of the list page
// the admin came from.
func (h *AdminHandler) ReviewOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "id")
	status, page := listParams(r)

	order, ok, err := h.findOrder(r, orderID, status, page)
	if err != nil {
		handleAPIError(w, r, h.sm, err, PathAdminLogin, ordersURL(status, page), "Failed to load order")
		return
	}
	if !ok {
		h.sm.SetFlashError(ctx, "Order not found")
		http.Redirect(w, r, ordersURL(status, page), http.StatusSeeOther)
		return
	}

	err = h.render.Render(w, r, "admin/review", render.TemplateData{
		Title: "Review Order",
		Data: reviewOrderData{
			Order:       order,
			BackURL:     ordersURL(status, page),
			ActionQuery: listQuery(status, page),
		},
	})
	if err != nil {
		renderError(w, err)
	}
}

// ApproveOrder handles POST /admin-dashboard/orders/{id}/approve. Remarks
// are optional on approval.
func (h *AdminHandler) ApproveOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "id")
	status, page := listParams(r)
	remarks := strings.TrimSpace(r.FormValue("remarks"))

	if err := h.api.ApproveOrder(ctx, h.sm.Token(ctx), orderID, remarks); err != nil {
		handleAPIError(w, r, h.sm, err, PathAdminLogin, reviewURL(orderID, status, page), "Failed to approve order")
		return
	}

	h.sm.SetFlash(ctx, "Order approved")
	http.Redirect(w, r, ordersURL(status, page), http.StatusSeeOther)
}

// DeclineOrder handles POST /admin-dashboard/orders/{id}/decline. Declines
// require remarks; a blank form never reaches the backend.
func (h *AdminHandler) DeclineOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "id")
	status, page := listParams(r)
	remarks := strings.TrimSpace(r.FormValue("remarks"))

	if msg := model.ValidateDeclineRemarks(remarks); msg != "" {
		h.sm.SetFlashError(ctx, msg)
		http.Redirect(w, r, reviewURL(orderID, status, page), http.StatusSeeOther)
		return
	}

	if err := h.api.DeclineOrder(ctx, h.sm.Token(ctx), orderID, remarks); err != nil {
		handleAPIError(w, r, h.sm, err, PathAdminLogin, reviewURL(orderID, status, page), "Failed to decline order")
		return
	}

	h.sm.SetFlash(ctx, "Order declined")
	http.Redirect(w, r, ordersURL(status, page), http.StatusSeeOther)
}

// Fertilizers handles GET /admin-dashboard/fertilizers: the catalog list
// with the add form.
func (h *AdminHandler) Fertilizers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var errMsg string
	fertilizers, err := h.api.AdminFertilizers(ctx, h.sm.Token(ctx))
	if err != nil {
		msg, done := pageFetchError(w, r, h.sm, err, PathAdminLogin, "Failed to load fertilizers")
		if done {
			return
		}
		errMsg = msg
	}

	err = h.render.Render(w, r, "admin/fertilizers", render.TemplateData{
		Title:      "Fertilizer Catalog",
		FlashError: errMsg,
		Data: fertilizersData{
			Fertilizers: fertilizers,
			Units:       model.Units(),
		},
	})
	if err != nil {
		renderError(w, err)
	}
}

// AddFertilizer handles POST /admin-dashboard/fertilizers.
func (h *AdminHandler) AddFertilizer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, msg := fertilizerForm(r)
	if msg != "" {
		h.sm.SetFlashError(ctx, msg)
		http.Redirect(w, r, PathAdminCatalog, http.StatusSeeOther)
		return
	}

	if err := h.api.AddFertilizer(ctx, h.sm.Token(ctx), params); err != nil {
		handleAPIError(w, r, h.sm, err, PathAdminLogin, PathAdminCatalog, "Failed to add fertilizer")
		return
	}

	h.sm.SetFlash(ctx, "Fertilizer added")
	http.Redirect(w, r, PathAdminCatalog, http.StatusSeeOther)
}

// EditFertilizer handles GET /admin-dashboard/fertilizers/{id}/edit.
func (h *AdminHandler) EditFertilizer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fertilizerID := chi.URLParam(r, "id")

	fertilizers, err := h.api.AdminFertilizers(ctx, h.sm.Token(ctx))
	if err != nil {
		handleAPIError(w, r, h.sm, err, PathAdminLogin, PathAdminCatalog, "Failed to load fertilizer")
		return
	}

	for _, f := range fertilizers {
		if f.ID == fertilizerID {
			err = h.render.Render(w, r, "admin/fertilizer_edit", render.TemplateData{
				Title: "Edit Fertilizer",
				Data: fertilizerEditData{
					Fertilizer: f,
					Units:      model.Units(),
				},
			})
			if err != nil {
				renderError(w, err)
			}
			return
		}
	}

	h.sm.SetFlashError(ctx, "Fertilizer not found")
	http.Redirect(w, r, PathAdminCatalog, http.StatusSeeOther)
}

// UpdateFertilizer handles POST /admin-dashboard/fertilizers/{id}.
func (h *AdminHandler) UpdateFertilizer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fertilizerID := chi.URLParam(r, "id")

	params, msg := fertilizerForm(r)
	if msg != "" {
		h.sm.SetFlashError(ctx, msg)
		http.Redirect(w, r, PathAdminCatalog+"/"+url.PathEscape(fertilizerID)+"/edit", http.StatusSeeOther)
		return
	}

	if err := h.api.UpdateFertilizer(ctx, h.sm.Token(ctx), fertilizerID, params); err != nil {
		handleAPIError(w, r, h.sm, err, PathAdminLogin, PathAdminCatalog, "Failed to update fertilizer")
		return
	}

	h.sm.SetFlash(ctx, "Fertilizer updated")
	http.Redirect(w, r, PathAdminCatalog, http.StatusSeeOther)
}

// fertilizerForm parses and validates the shared add/edit form. It returns
// a user-facing message when the input is invalid.
func fertilizerForm(r *http.Request) (api.FertilizerParams, string) {
	params := api.FertilizerParams{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Unit:        strings.TrimSpace(r.FormValue("unit")),
		Description: strings.TrimSpace(r.FormValue("description")),
		IsActive:    r.FormValue("isActive") != "",
	}

	rateStr := strings.TrimSpace(r.FormValue("ratePerHectare"))
	if params.Name == "" || rateStr == "" {
		return params, "Name and rate per hectare are required"
	}

	rate, err := strconv.ParseFloat(rateStr, 64)
	if err != nil || rate <= 0 {
		return params, "Please enter a valid rate per hectare"
	}
	params.RatePerHectare = rate

	if !model.Unit(params.Unit).Valid() {
		return params, "Please select a valid unit"
	}

	return params, ""
}

// listParams reads the status filter and page from the query string.
// Unknown statuses and bad pages fall back to the defaults.
func listParams(r *http.Request) (string, int) {
	status := r.URL.Query().Get("status")
	if !model.ValidStatusFilter(status) {
		status = ""
	}

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 1 {
		page = p
	}

	return status, page
}

// listQuery encodes the list position for links and form actions, without
// the leading "?".
func listQuery(status string, page int) string {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return q.Encode()
}

// reviewURL builds the review page URL for an order, preserving the list
// position.
func reviewURL(orderID, status string, page int) string {
	u := PathAdminOrders + "/" + url.PathEscape(orderID) + "/review"
	if q := listQuery(status, page); q != "" {
		u += "?" + q
	}
	return u
}

// findOrder fetches the list page the admin was viewing and picks out one
// order by ID.
func (h *AdminHandler) findOrder(r *http.Request, orderID, status string, page int) (model.Order, bool, error) {
	orders, err := h.api.Orders(r.Context(), h.sm.Token(r.Context()), status, page)
	if err != nil {
		return model.Order{}, false, err
	}
	for _, o := range orders {
		if o.ID == orderID {
			return o, true, nil
		}
	}
	return model.Order{}, false, nil
}
