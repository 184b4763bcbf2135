// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/agrodirect/fos-web/internal/api"
	"github.com/agrodirect/fos-web/internal/middleware"
	"github.com/agrodirect/fos-web/internal/session"
)

// handleAPIError is the single funnel for backend call failures.
//
// A 401 means the backend no longer accepts the session's token, so the
// local session is stale by definition: it is destroyed and the user is
// sent back to the given login page. Every other failure keeps the session
// and surfaces the backend's message (or the fallback) as a flash error on
// the redirect target.
func handleAPIError(w http.ResponseWriter, r *http.Request, sm *session.Manager, err error, loginPath, backPath, fallbackMsg string) {
	if errors.Is(err, api.ErrUnauthorized) {
		slog.Warn("backend rejected session token, signing out",
			"path", middleware.GetRequestPath(r.Context()),
		)
		_ = sm.SignOut(r.Context())
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}

	msg := fallbackMsg
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}

	slog.Error("backend call failed",
		"error", err,
		"path", middleware.GetRequestPath(r.Context()),
	)

	sm.SetFlashError(r.Context(), msg)
	http.Redirect(w, r, backPath, http.StatusSeeOther)
}

// isUnauthorized reports whether err is a backend 401.
func isUnauthorized(err error) bool {
	return errors.Is(err, api.ErrUnauthorized)
}

// pageFetchError resolves a failed primary fetch on a GET page. A 401 goes
// through the teardown funnel and the request is finished. Anything else is
// logged and the backend's message (or the fallback) is returned so the
// caller renders its page in place with empty data. Redirecting a signed-in
// user away on these errors is not an option: the login pages bounce
// authenticated visitors straight back to the dashboard, which would refetch
// and loop.
func pageFetchError(w http.ResponseWriter, r *http.Request, sm *session.Manager, err error, loginPath, fallbackMsg string) (string, bool) {
	if errors.Is(err, api.ErrUnauthorized) {
		handleAPIError(w, r, sm, err, loginPath, loginPath, "")
		return "", true
	}

	msg := fallbackMsg
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}

	slog.Error("backend call failed",
		"error", err,
		"path", middleware.GetRequestPath(r.Context()),
	)

	return msg, false
}

// renderError logs a template failure and sends a plain 500. Template
// errors are programming mistakes, not user input problems.
func renderError(w http.ResponseWriter, err error) {
	slog.Error("template render failed", "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
