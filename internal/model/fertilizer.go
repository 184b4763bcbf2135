// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Unit is the measurement unit of a fertilizer rate.
type Unit string

// Supported fertilizer units.
const (
	UnitKg     Unit = "kg"
	UnitBags   Unit = "bags"
	UnitLiters Unit = "liters"
)

// Units lists all supported units in display order.
func Units() []Unit {
	return []Unit{UnitKg, UnitBags, UnitLiters}
}

// Valid reports whether the unit is one of the supported values.
func (u Unit) Valid() bool {
	return u == UnitKg || u == UnitBags || u == UnitLiters
}

// Fertilizer is a catalog entry maintained by admins. RatePerHectare is the
// coefficient used to compute order quantities.
type Fertilizer struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	RatePerHectare float64   `json:"ratePerHectare"`
	Unit           Unit      `json:"unit"`
	Description    string    `json:"description,omitempty"`
	IsActive       bool      `json:"isActive"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// RequiredQuantity computes the advisory order quantity for a land area and
// a fertilizer rate. The value shown to the farmer is a preview only; the
// backend recomputes the authoritative quantity at submission time.
func RequiredQuantity(landArea, ratePerHectare float64) float64 {
	return landArea * ratePerHectare
}
