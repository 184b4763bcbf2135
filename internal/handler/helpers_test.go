// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/agrodirect/fos-web/internal/api"
	"github.com/agrodirect/fos-web/internal/middleware"
	"github.com/agrodirect/fos-web/internal/model"
	"github.com/agrodirect/fos-web/internal/render"
	"github.com/agrodirect/fos-web/internal/session"
	"github.com/agrodirect/fos-web/web"
)

// testBackend is a fake ordering backend. Route handlers are registered per
// test; every request is recorded so tests can assert what was (not) called.
type testBackend struct {
	mux *http.ServeMux
	srv *httptest.Server

	mu    sync.Mutex
	calls []string
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()

	b := &testBackend{mux: http.NewServeMux()}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.srv.Close)

	return b
}

func (b *testBackend) handle(pattern string, fn http.HandlerFunc) {
	b.mux.HandleFunc(pattern, fn)
}

func (b *testBackend) called(call string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.calls {
		if c == call {
			return true
		}
	}
	return false
}

func respondJSON(t *testing.T, w http.ResponseWriter, code int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encoding backend response: %v", err)
	}
}

func decodeJSON(t *testing.T, r *http.Request, v any) {
	t.Helper()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		t.Errorf("decoding backend request: %v", err)
	}
}

// testApp wires the full handler stack against a fake backend, with an
// in-memory session store and the real embedded templates.
type testApp struct {
	srv     *httptest.Server
	backend *testBackend
}

func newTestApp(t *testing.T, backend *testBackend) *testApp {
	t.Helper()

	sm := &session.Manager{SessionManager: scs.New()}
	apiClient := api.New(backend.srv.URL, 5*time.Second)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("templates fs: %v", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	// High limits so tests never trip rate limiting or lockout
	protect := middleware.NewLoginProtection(middleware.LoginProtectionConfig{
		IPRateLimit:       1000,
		IPBurst:           1000,
		MaxFailedAttempts: 1000,
	})

	authHandler := NewAuthHandler(apiClient, sm, renderer, protect)
	farmerHandler := NewFarmerHandler(apiClient, sm, renderer)
	adminHandler := NewAdminHandler(apiClient, sm, renderer)
	siteHandler := NewSiteHandler(renderer)

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)

	r.Get(PathRoot, authHandler.Home)
	r.Get(PathFarmerLogin, authHandler.ShowFarmerLogin)
	r.Post(PathFarmerLogin+"/request-otp", authHandler.FarmerRequestOTP)
	r.Post(PathFarmerLogin+"/verify", authHandler.FarmerVerifyOTP)
	r.Post(PathFarmerLogin+"/back", authHandler.FarmerLoginBack)
	r.Get(PathFarmerRegister, authHandler.ShowFarmerRegister)
	r.Post(PathFarmerRegister, authHandler.FarmerRegister)
	r.Post(PathFarmerRegister+"/verify", authHandler.FarmerRegisterVerify)
	r.Post(PathFarmerRegister+"/back", authHandler.FarmerRegisterBack)
	r.Get(PathAdminLogin, authHandler.ShowAdminLogin)
	r.Post(PathAdminLogin, authHandler.AdminLogin)
	r.Post(PathLogout, authHandler.Logout)

	r.Route(PathFarmerHome, func(r chi.Router) {
		r.Use(middleware.RequireSession(sm))
		r.Use(middleware.RequireRole(sm, model.UserTypeFarmer))
		r.Use(middleware.LoadUser(sm))

		r.Get("/", farmerHandler.Dashboard)
		r.Get("/new-order", farmerHandler.NewOrder)
		r.Post("/new-order", farmerHandler.SubmitOrder)
	})

	r.Route(PathAdminHome, func(r chi.Router) {
		r.Use(middleware.RequireSession(sm))
		r.Use(middleware.RequireRole(sm, model.UserTypeAdmin))
		r.Use(middleware.LoadUser(sm))

		r.Get("/", adminHandler.Dashboard)
		r.Get("/orders", adminHandler.Orders)
		r.Get("/orders/{id}/review", adminHandler.ReviewOrder)
		r.Post("/orders/{id}/approve", adminHandler.ApproveOrder)
		r.Post("/orders/{id}/decline", adminHandler.DeclineOrder)
		r.Get("/fertilizers", adminHandler.Fertilizers)
		r.Post("/fertilizers", adminHandler.AddFertilizer)
		r.Get("/fertilizers/{id}/edit", adminHandler.EditFertilizer)
		r.Post("/fertilizers/{id}", adminHandler.UpdateFertilizer)
	})

	r.Get(PathNotFound, siteHandler.NotFound)
	r.NotFound(siteHandler.NotFound)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testApp{srv: srv, backend: backend}
}

// newBrowser returns a cookie-keeping client that does not follow redirects,
// so tests can assert on Location headers.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func get(t *testing.T, c *http.Client, url string) (*http.Response, string) {
	t.Helper()

	resp, err := c.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp, string(body)
}

func postForm(t *testing.T, c *http.Client, url string, form url.Values) (*http.Response, string) {
	t.Helper()

	resp, err := c.PostForm(url, form)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return resp, string(body)
}

func wantRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()

	if resp.StatusCode != http.StatusSeeOther && resp.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want redirect", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}

func wantContains(t *testing.T, body, substr string) {
	t.Helper()
	if !strings.Contains(body, substr) {
		t.Fatalf("body does not contain %q", substr)
	}
}

// Demo admin credentials accepted by registerAdminAuth.
const (
	testAdminPhone = "25078815000"
	testAdminOTP   = "0001"
)

// registerAdminAuth wires a backend admin-login endpoint accepting the demo
// credentials.
func registerAdminAuth(t *testing.T, b *testBackend) {
	b.handle("POST /auth/admin-login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PhoneNumber string `json:"phoneNumber"`
			OTP         string `json:"otp"`
		}
		decodeJSON(t, r, &req)

		if req.PhoneNumber != testAdminPhone || req.OTP != testAdminOTP {
			respondJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		respondJSON(t, w, http.StatusOK, map[string]any{
			"token": "admin-token",
			"user": model.UserProfile{
				ID:          "u-admin",
				FullName:    "System Admin",
				PhoneNumber: testAdminPhone,
				UserType:    model.UserTypeAdmin,
			},
		})
	})
}

// registerFarmerAuth wires the OTP login endpoints for a farmer account.
func registerFarmerAuth(t *testing.T, b *testBackend, farmer model.UserProfile, otp string) {
	b.handle("POST /auth/request-otp", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, http.StatusOK, map[string]string{"otp": otp})
	})
	b.handle("POST /auth/verify-otp", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PhoneNumber string `json:"phoneNumber"`
			OTP         string `json:"otp"`
		}
		decodeJSON(t, r, &req)

		if req.PhoneNumber != farmer.PhoneNumber || req.OTP != otp {
			respondJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "Invalid OTP"})
			return
		}
		respondJSON(t, w, http.StatusOK, map[string]any{
			"token": "farmer-token",
			"user":  farmer,
		})
	})
}

func loginAdmin(t *testing.T, app *testApp, c *http.Client) {
	t.Helper()

	resp, _ := postForm(t, c, app.srv.URL+PathAdminLogin, url.Values{
		"phoneNumber": {testAdminPhone},
		"otp":         {testAdminOTP},
	})
	wantRedirect(t, resp, PathAdminHome)
}

func loginFarmer(t *testing.T, app *testApp, c *http.Client, phone, otp string) {
	t.Helper()

	resp, _ := postForm(t, c, app.srv.URL+PathFarmerLogin+"/request-otp", url.Values{
		"phoneNumber": {phone},
	})
	wantRedirect(t, resp, PathFarmerLogin)

	resp, _ = postForm(t, c, app.srv.URL+PathFarmerLogin+"/verify", url.Values{
		"otp": {otp},
	})
	wantRedirect(t, resp, PathFarmerHome)
}

func testFarmer() model.UserProfile {
	return model.UserProfile{
		ID:          "u-farmer",
		FullName:    "Jean Mukamana",
		PhoneNumber: "250788150001",
		UserType:    model.UserTypeFarmer,
		LandArea:    2.5,
	}
}
