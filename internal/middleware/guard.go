// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for session gating,
// role-based access and request context handling.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/agrodirect/fos-web/internal/model"
	"github.com/agrodirect/fos-web/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request data.
const (
	ContextKeyUser        ContextKey = "user"
	ContextKeyRequestPath ContextKey = "request_path"
)

// RequireSession creates middleware that requires an authenticated session.
// Visitors without one are sent to the farmer login page, whatever route
// they asked for.
func RequireSession(sm *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sm.IsAuthenticated(r.Context()) {
				http.Redirect(w, r, "/farmer-login", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole creates middleware that requires the session user to have the
// given role. A signed-in user with the wrong role lands on the not-found
// page rather than a forbidden error, so protected admin paths are not
// advertised to farmers.
func RequireRole(sm *session.Manager, role model.UserType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sm.UserType(r.Context()) != role {
				http.Redirect(w, r, "/not-found", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// LoadUser creates middleware that loads the session user into the request
// context. Should run after RequireSession.
func LoadUser(sm *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := sm.User(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *model.UserProfile {
	user, ok := r.Context().Value(ContextKeyUser).(model.UserProfile)
	if !ok {
		return nil
	}
	return &user
}

// RequestPath creates middleware that stores the request path in the context.
// This is used by the logging handler to include the URL in error logs.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	// Check X-Real-IP header (set by reverse proxies)
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	// Check X-Forwarded-For header
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		// X-Forwarded-For can contain multiple IPs; take the first one
		first, _, _ := strings.Cut(ip, ",")
		return strings.TrimSpace(first)
	}

	// Fall back to RemoteAddr
	return r.RemoteAddr
}
