// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/agrodirect/fos-web/internal/model"
)

// FertilizerParams is the payload for creating or updating a fertilizer.
type FertilizerParams struct {
	Name           string  `json:"name"`
	RatePerHectare float64 `json:"ratePerHectare"`
	Unit           string  `json:"unit"`
	Description    string  `json:"description,omitempty"`
	IsActive       bool    `json:"isActive"`
}

// Orders returns a page of orders, optionally filtered by status.
// status "" means all orders; page is 1-based.
func (c *Client) Orders(ctx context.Context, token, status string, page int) ([]model.Order, error) {
	q := url.Values{}
	q.Set("status", status)
	q.Set("page", fmt.Sprintf("%d", page))

	var result struct {
		Orders []model.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/orders?"+q.Encode(), token, nil, &result); err != nil {
		return nil, err
	}
	return result.Orders, nil
}

// ApproveOrder approves a pending order. Remarks are optional.
func (c *Client) ApproveOrder(ctx context.Context, token, orderID, remarks string) error {
	body := map[string]string{"remarks": remarks}
	return c.do(ctx, http.MethodPost, "/admin/approve-order/"+url.PathEscape(orderID), token, body, nil)
}

// DeclineOrder declines a pending order. The backend requires remarks;
// callers validate before reaching here.
func (c *Client) DeclineOrder(ctx context.Context, token, orderID, remarks string) error {
	body := map[string]string{"remarks": remarks}
	return c.do(ctx, http.MethodPost, "/admin/decline-order/"+url.PathEscape(orderID), token, body, nil)
}

// Metrics returns aggregate order statistics for the admin dashboard.
func (c *Client) Metrics(ctx context.Context, token string) (model.Metrics, error) {
	var result struct {
		Metrics model.Metrics `json:"metrics"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/metrics", token, nil, &result); err != nil {
		return model.Metrics{}, err
	}
	return result.Metrics, nil
}

// AdminFertilizers returns all fertilizers, including inactive ones.
func (c *Client) AdminFertilizers(ctx context.Context, token string) ([]model.Fertilizer, error) {
	var result struct {
		Fertilizers []model.Fertilizer `json:"fertilizers"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/fertilizers", token, nil, &result); err != nil {
		return nil, err
	}
	return result.Fertilizers, nil
}

// AddFertilizer creates a new fertilizer.
func (c *Client) AddFertilizer(ctx context.Context, token string, params FertilizerParams) error {
	return c.do(ctx, http.MethodPost, "/admin/fertilizers", token, params, nil)
}

// UpdateFertilizer updates an existing fertilizer's rate, unit, description
// or active flag.
func (c *Client) UpdateFertilizer(ctx context.Context, token, fertilizerID string, params FertilizerParams) error {
	return c.do(ctx, http.MethodPut, "/admin/fertilizers/"+url.PathEscape(fertilizerID), token, params, nil)
}
