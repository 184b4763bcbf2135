// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/agrodirect/fos-web/internal/model"
)

// SubmitOrder places an order for the selected fertilizer. The backend
// computes the quantity from the farmer's registered land area and the
// fertilizer's current rate; nothing client-side is authoritative.
func (c *Client) SubmitOrder(ctx context.Context, token, fertilizerID string) error {
	body := map[string]string{"fertilizerId": fertilizerID}
	return c.do(ctx, http.MethodPost, "/farmer/submit-order", token, body, nil)
}

// MyOrders returns the signed-in farmer's orders, newest first.
func (c *Client) MyOrders(ctx context.Context, token string) ([]model.Order, error) {
	var result struct {
		Orders []model.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/farmer/my-orders", token, nil, &result); err != nil {
		return nil, err
	}
	return result.Orders, nil
}

// Fertilizers returns the fertilizers available to farmers.
func (c *Client) Fertilizers(ctx context.Context, token string) ([]model.Fertilizer, error) {
	var result struct {
		Fertilizers []model.Fertilizer `json:"fertilizers"`
	}
	if err := c.do(ctx, http.MethodGet, "/farmer/fertilizers", token, nil, &result); err != nil {
		return nil, err
	}
	return result.Fertilizers, nil
}

// Profile returns the signed-in farmer's current profile.
func (c *Client) Profile(ctx context.Context, token string) (model.UserProfile, error) {
	var result struct {
		User model.UserProfile `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/farmer/profile", token, nil, &result); err != nil {
		return model.UserProfile{}, err
	}
	return result.User, nil
}
