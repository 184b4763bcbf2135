// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// OrderStatus is the review state of an order.
type OrderStatus string

// Order lifecycle: pending is the initial state, approved and declined are
// terminal. Once terminal, an order never changes status again.
const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusApproved OrderStatus = "approved"
	OrderStatusDeclined OrderStatus = "declined"
)

// Valid reports whether the status is a known order status.
func (s OrderStatus) Valid() bool {
	return s == OrderStatusPending || s == OrderStatusApproved || s == OrderStatusDeclined
}

// Terminal reports whether the order can no longer be reviewed.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusApproved || s == OrderStatusDeclined
}

// ValidStatusFilter reports whether the value is usable as an order list
// filter. The empty string means "all orders".
func ValidStatusFilter(s string) bool {
	return s == "" || OrderStatus(s).Valid()
}

// Order is a fertilizer order as returned by the backend. Quantity is the
// authoritative value computed server-side from landArea × ratePerHectare.
type Order struct {
	ID          string      `json:"id"`
	FarmerName  string      `json:"farmerName"`
	FarmerPhone string      `json:"farmerPhone"`
	LandArea    float64     `json:"landArea"`
	Fertilizer  string      `json:"fertilizer"`
	Quantity    float64     `json:"quantity"`
	RatePerUnit float64     `json:"ratePerUnit"`
	Status      OrderStatus `json:"status"`
	Remarks     string      `json:"remarks,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// ValidateDeclineRemarks checks the remarks entered when declining an order.
// Remarks are mandatory for a decline and optional for an approval.
// Returns a user-facing message, or empty string if valid.
func ValidateDeclineRemarks(remarks string) string {
	if strings.TrimSpace(remarks) == "" {
		return "Please provide remarks for declining"
	}
	return ""
}
