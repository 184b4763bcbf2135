// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Metrics is the server-side order aggregate shown on the admin dashboard.
// It is read-only here: the backend recomputes it and the dashboard simply
// refetches after every status change.
type Metrics struct {
	TotalOrders    int     `json:"totalOrders"`
	ApprovedOrders int     `json:"approvedOrders"`
	DeclinedOrders int     `json:"declinedOrders"`
	PendingOrders  int     `json:"pendingOrders"`
	ApprovalRate   float64 `json:"approvalRate"`
	DeclinedRate   float64 `json:"declinedRate"`
	PendingRate    float64 `json:"pendingRate"`
	WeeklyOrders   int     `json:"weeklyOrders"`
}
