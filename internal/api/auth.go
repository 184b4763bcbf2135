// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/agrodirect/fos-web/internal/model"
)

// AuthResult is the outcome of an authentication call. Token and User are
// set once the backend has established identity. OTP is populated only by
// development backends that echo the issued code instead of sending SMS.
type AuthResult struct {
	Token string            `json:"token"`
	OTP   string            `json:"otp"`
	User  model.UserProfile `json:"user"`
}

// RegisterFarmerParams is the registration payload. Email is optional.
type RegisterFarmerParams struct {
	FullName    string  `json:"fullName"`
	PhoneNumber string  `json:"phoneNumber"`
	LandArea    float64 `json:"landArea"`
	Email       string  `json:"email,omitempty"`
}

// RequestOTP asks the backend to issue a login code for the phone number.
// The returned string is the echoed code from development backends, "" when
// the code went out over SMS.
func (c *Client) RequestOTP(ctx context.Context, phoneNumber string) (string, error) {
	body := map[string]string{"phoneNumber": phoneNumber}

	var result struct {
		OTP string `json:"otp"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/request-otp", "", body, &result); err != nil {
		return "", err
	}
	return result.OTP, nil
}

// VerifyOTP exchanges a phone number and code for a backend token.
func (c *Client) VerifyOTP(ctx context.Context, phoneNumber, otp string) (AuthResult, error) {
	body := map[string]string{"phoneNumber": phoneNumber, "otp": otp}

	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/verify-otp", "", body, &result); err != nil {
		return AuthResult{}, err
	}
	return result, nil
}

// RegisterFarmer creates a farmer account. Development backends return a
// token directly (auto-login); otherwise OTP holds the verification code
// and the caller continues with VerifyOTP.
func (c *Client) RegisterFarmer(ctx context.Context, params RegisterFarmerParams) (AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register-farmer", "", params, &result); err != nil {
		return AuthResult{}, err
	}
	return result, nil
}

// AdminLogin authenticates an administrator with phone number and code.
func (c *Client) AdminLogin(ctx context.Context, phoneNumber, otp string) (AuthResult, error) {
	body := map[string]string{"phoneNumber": phoneNumber, "otp": otp}

	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/admin-login", "", body, &result); err != nil {
		return AuthResult{}, err
	}
	return result, nil
}
