// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers for the web frontend.
package handler

// Route paths. The auth and dashboard paths mirror what farmers and admins
// see in the address bar; keep them stable.
const (
	PathRoot           = "/"
	PathFarmerLogin    = "/farmer-login"
	PathFarmerRegister = "/farmer-register"
	PathFarmerHome     = "/farmer-dashboard"
	PathFarmerNewOrder = "/farmer-dashboard/new-order"
	PathFarmerOrders   = "/farmer-dashboard/orders"
	PathAdminLogin     = "/admin-login"
	PathAdminHome      = "/admin-dashboard"
	PathAdminOrders    = "/admin-dashboard/orders"
	PathAdminCatalog   = "/admin-dashboard/fertilizers"
	PathLogout         = "/logout"
	PathNotFound       = "/not-found"
)

// ordersPageSize is how many orders the backend returns per page.
const ordersPageSize = 20
