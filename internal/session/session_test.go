// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agrodirect/fos-web/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Create sessions table required by sqlite3store
	_, err = db.Exec(`
		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX sessions_expiry_idx ON sessions(expiry);
	`)
	if err != nil {
		t.Fatalf("failed to create sessions table: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// sessionCtx loads an empty session into a fresh context so Put/Get work.
func sessionCtx(t *testing.T, m *Manager) context.Context {
	t.Helper()
	ctx, err := m.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	return ctx
}

func TestNew_DevMode(t *testing.T) {
	db := setupTestDB(t)

	// Development mode
	sm := New(db, true)

	if sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = false in dev mode")
	}
	if sm.Cookie.Name == "__Host-session" {
		t.Error("expected default cookie name in dev mode")
	}
}

func TestNew_ProductionMode(t *testing.T) {
	db := setupTestDB(t)

	// Production mode
	sm := New(db, false)

	if !sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = true in production mode")
	}
	if sm.Cookie.Name != "__Host-session" {
		t.Errorf("expected __Host-session cookie name, got %q", sm.Cookie.Name)
	}
	if sm.Cookie.Path != "/" {
		t.Errorf("expected Cookie.Path = '/', got %q", sm.Cookie.Path)
	}
}

func TestNew_SessionSettings(t *testing.T) {
	db := setupTestDB(t)

	sm := New(db, true)

	// Check session lifetime
	if sm.Lifetime != 24*time.Hour {
		t.Errorf("Lifetime = %v, want 24h", sm.Lifetime)
	}

	// Check cookie settings
	if !sm.Cookie.HttpOnly {
		t.Error("expected Cookie.HttpOnly = true")
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("expected SameSite = Lax, got %v", sm.Cookie.SameSite)
	}
}

func TestSignIn(t *testing.T) {
	m := NewManager(setupTestDB(t), true)
	ctx := sessionCtx(t, m)

	user := model.UserProfile{
		ID:          "u-1",
		FullName:    "Jean Mutesi",
		PhoneNumber: "25078815001",
		UserType:    model.UserTypeFarmer,
		LandArea:    2.5,
	}

	if err := m.SignIn(ctx, "backend-token", user); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	if !m.IsAuthenticated(ctx) {
		t.Error("IsAuthenticated = false after SignIn")
	}
	if got := m.Token(ctx); got != "backend-token" {
		t.Errorf("Token = %q, want %q", got, "backend-token")
	}

	stored, ok := m.User(ctx)
	if !ok {
		t.Fatal("User() not found after SignIn")
	}
	if stored.FullName != "Jean Mutesi" {
		t.Errorf("FullName = %q, want %q", stored.FullName, "Jean Mutesi")
	}
	if stored.UserType != model.UserTypeFarmer {
		t.Errorf("UserType = %q, want %q", stored.UserType, model.UserTypeFarmer)
	}
	if got := m.UserType(ctx); got != model.UserTypeFarmer {
		t.Errorf("UserType = %q, want %q", got, model.UserTypeFarmer)
	}
}

func TestSignIn_ClearsFlowState(t *testing.T) {
	m := NewManager(setupTestDB(t), true)
	ctx := sessionCtx(t, m)

	if err := m.SetLoginFlow(ctx, LoginState{Step: StepOTP, PendingPhone: "25078815001"}); err != nil {
		t.Fatalf("SetLoginFlow: %v", err)
	}

	if err := m.SignIn(ctx, "tok", model.UserProfile{UserType: model.UserTypeFarmer}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	state := m.LoginFlow(ctx)
	if state.Step != StepPhone || state.PendingPhone != "" {
		t.Errorf("LoginFlow after SignIn = %+v, want reset to first step", state)
	}
}

func TestSignOut(t *testing.T) {
	m := NewManager(setupTestDB(t), true)
	ctx := sessionCtx(t, m)

	if err := m.SignIn(ctx, "tok", model.UserProfile{UserType: model.UserTypeAdmin}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := m.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	if m.IsAuthenticated(ctx) {
		t.Error("IsAuthenticated = true after SignOut")
	}
	if _, ok := m.User(ctx); ok {
		t.Error("User() still present after SignOut")
	}
}

func TestLoginFlow_Defaults(t *testing.T) {
	m := NewManager(setupTestDB(t), true)
	ctx := sessionCtx(t, m)

	state := m.LoginFlow(ctx)
	if state.Step != StepPhone {
		t.Errorf("Step = %q, want %q", state.Step, StepPhone)
	}
	if state.CanVerify() {
		t.Error("CanVerify = true for a fresh flow")
	}

	reg := m.RegisterFlow(ctx)
	if reg.Step != StepDetails {
		t.Errorf("register Step = %q, want %q", reg.Step, StepDetails)
	}
}

func TestLoginFlow_RoundTrip(t *testing.T) {
	m := NewManager(setupTestDB(t), true)
	ctx := sessionCtx(t, m)

	in := LoginState{Step: StepOTP, PendingPhone: "25078815001", IssuedOTP: "1234"}
	if err := m.SetLoginFlow(ctx, in); err != nil {
		t.Fatalf("SetLoginFlow: %v", err)
	}

	out := m.LoginFlow(ctx)
	if out != in {
		t.Errorf("LoginFlow = %+v, want %+v", out, in)
	}
	if !out.CanVerify() {
		t.Error("CanVerify = false at OTP step with a pending phone")
	}

	m.ClearLoginFlow(ctx)
	if got := m.LoginFlow(ctx); got.Step != StepPhone {
		t.Errorf("Step after clear = %q, want %q", got.Step, StepPhone)
	}
}

func TestCanVerify(t *testing.T) {
	tests := []struct {
		name  string
		state LoginState
		want  bool
	}{
		{"otp step with phone", LoginState{Step: StepOTP, PendingPhone: "0788150001"}, true},
		{"otp step without phone", LoginState{Step: StepOTP}, false},
		{"phone step", LoginState{Step: StepPhone, PendingPhone: "0788150001"}, false},
		{"zero value", LoginState{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.CanVerify(); got != tt.want {
				t.Errorf("CanVerify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFlashMessages(t *testing.T) {
	m := NewManager(setupTestDB(t), true)
	ctx := sessionCtx(t, m)

	m.SetFlash(ctx, "Order submitted successfully!")
	if got := m.PopFlash(ctx); got != "Order submitted successfully!" {
		t.Errorf("PopFlash = %q", got)
	}
	if got := m.PopFlash(ctx); got != "" {
		t.Errorf("second PopFlash = %q, want empty", got)
	}

	m.SetFlashError(ctx, "Failed to submit order")
	if got := m.PopFlashError(ctx); got != "Failed to submit order" {
		t.Errorf("PopFlashError = %q", got)
	}
}
