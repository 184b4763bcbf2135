// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/url"
)

// Pagination drives the prev/next controls on the admin orders list. The
// backend does not report a total count, so a full page implies there may
// be another one.
type Pagination struct {
	Page    int
	HasPrev bool
	HasNext bool
	PrevURL string
	NextURL string
}

// newOrdersPagination builds pagination links that preserve the current
// status filter.
func newOrdersPagination(page, pageLen int, status string) Pagination {
	p := Pagination{
		Page:    page,
		HasPrev: page > 1,
		HasNext: pageLen == ordersPageSize,
	}
	if p.HasPrev {
		p.PrevURL = ordersURL(status, page-1)
	}
	if p.HasNext {
		p.NextURL = ordersURL(status, page+1)
	}
	return p
}

// ordersURL builds the admin orders list URL for a filter and page.
func ordersURL(status string, page int) string {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	if page > 1 {
		q.Set("page", fmt.Sprint(page))
	}
	if len(q) == 0 {
		return PathAdminOrders
	}
	return PathAdminOrders + "?" + q.Encode()
}
