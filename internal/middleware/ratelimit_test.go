// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGlobalRateLimiter_HTMLMiddleware(t *testing.T) {
	rl := NewGlobalRateLimiter(0.001, 1)

	h := rl.HTMLMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	get := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/farmer-login", nil)
		req.Header.Set("X-Real-IP", ip)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := get("10.0.0.1"); got != http.StatusOK {
		t.Errorf("first request status = %d, want 200", got)
	}
	if got := get("10.0.0.1"); got != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", got)
	}

	// Limits are per IP
	if got := get("10.0.0.2"); got != http.StatusOK {
		t.Errorf("other IP status = %d, want 200", got)
	}
}

func TestLimiterCache_ClearIfExceeds(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	lc.get("a")
	lc.get("b")

	if lc.clearIfExceeds(5) {
		t.Error("cleared below the threshold")
	}
	if !lc.clearIfExceeds(1) {
		t.Error("not cleared above the threshold")
	}
}

func TestLimiterCache_ReturnsSameLimiter(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	if lc.get("key") != lc.get("key") {
		t.Error("expected the same limiter instance for a key")
	}
}
