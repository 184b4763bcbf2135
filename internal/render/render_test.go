// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"io/fs"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrodirect/fos-web/web"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)

	r, err := New(Config{TemplatesFS: templatesFS, IsDev: true})
	require.NoError(t, err)
	return r
}

func TestNew_ParsesAllPages(t *testing.T) {
	r := newTestRenderer(t)

	for _, name := range []string{
		"auth/farmer_login",
		"auth/farmer_register",
		"auth/admin_login",
		"farmer/orders",
		"farmer/new_order",
		"admin/dashboard",
		"admin/orders",
		"admin/review",
		"admin/fertilizers",
		"admin/fertilizer_edit",
		"site/not_found",
	} {
		assert.Contains(t, r.templates, name)
	}
}

func TestRender_WritesHTML(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin-login", nil)

	err := r.Render(rec, req, "auth/admin_login", TemplateData{
		Title: "Admin Login",
		Data:  struct{ Phone string }{},
	})
	require.NoError(t, err)

	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Admin Login")
	assert.Contains(t, rec.Body.String(), "Demo credentials")
}

func TestRender_UnknownTemplate(t *testing.T) {
	r := newTestRenderer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)

	err := r.Render(rec, req, "missing/page", TemplateData{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "not found"))
}

func TestTemplateFuncs_Formatting(t *testing.T) {
	r := newTestRenderer(t)
	funcs := r.templateFuncs()

	formatQuantity := funcs["formatQuantity"].(func(float64) string)
	assert.Equal(t, "100.00", formatQuantity(100))
	assert.Equal(t, "1,234.50", formatQuantity(1234.5))

	percent := funcs["percent"].(func(float64) string)
	assert.Equal(t, "33%", percent(33.3))

	truncate := funcs["truncate"].(func(string, int) string)
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abcde...", truncate("abcdefgh", 5))
}
