// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strings"
)

// StripTrailingSlash canonicalizes paths by 301-redirecting
// "/farmer-dashboard/" style requests to "/farmer-dashboard". The query
// string survives the redirect. Root stays as is.
func StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if p == "/" || !strings.HasSuffix(p, "/") {
			next.ServeHTTP(w, r)
			return
		}

		target := strings.TrimSuffix(p, "/")
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	})
}
