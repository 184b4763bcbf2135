// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api is the HTTP client for the remote fertilizer ordering backend.
// All domain state lives behind this client; the web frontend only keeps
// session state locally.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ErrUnauthorized is returned when the backend rejects the bearer token.
// Callers must tear down the local session and send the user back to login.
var ErrUnauthorized = errors.New("backend rejected credentials")

// Error is a non-2xx response from the backend, carrying the user-facing
// message from the response envelope when one was provided.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend error (status %d)", e.StatusCode)
}

// Unwrap maps authentication failures onto ErrUnauthorized so callers can
// match with errors.Is.
func (e *Error) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Client calls the ordering backend. The zero value is not usable; use New.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a backend client. baseURL must be absolute with no trailing
// slash; timeout bounds every call including body read.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do performs a JSON request against the backend. token is attached as a
// Bearer credential when non-empty. The decoded response body is written
// into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}

		// The backend wraps error details in a {message} envelope.
		var envelope struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(respBody, &envelope); err == nil {
			apiErr.Message = envelope.Message
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode: %w", err)
		}
	}

	return nil
}

// Reachable reports whether the backend answers HTTP at all. Any response,
// including an error status, counts as reachable.
func (c *Client) Reachable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}
