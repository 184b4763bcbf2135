// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/agrodirect/fos-web/internal/model"
)

// Session keys. The backend token and the user profile are the only
// authoritative auth state; everything else is transient flow state.
const (
	keyAuthToken    = "auth_token"
	keyAuthUser     = "auth_user"
	keyLoginFlow    = "login_flow"
	keyRegisterFlow = "register_flow"
	keyFlash        = "flash"
	keyFlashError   = "flash_error"
)

// Login flow steps. A flow always starts at the first step and only
// advances to StepOTP after the backend has issued a code.
const (
	StepPhone   = "phone"
	StepDetails = "details"
	StepOTP     = "otp"
)

// LoginState tracks a multi-step OTP flow across requests. IssuedOTP holds
// the code echoed by the backend in development setups so it can be shown
// on the verification page; production backends leave it empty and deliver
// the code over SMS.
type LoginState struct {
	Step         string `json:"step"`
	PendingPhone string `json:"pendingPhone"`
	IssuedOTP    string `json:"issuedOtp,omitempty"`
}

// CanVerify reports whether the flow has reached the OTP step with a phone
// number to verify against.
func (s LoginState) CanVerify() bool {
	return s.Step == StepOTP && s.PendingPhone != ""
}

// New creates a new session manager configured with SQLite store.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()

	// Use SQLite store
	sm.Store = sqlite3store.New(db)

	// Configure session
	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	if !isDev {
		// The __Host- prefix pins the cookie to this host over HTTPS.
		sm.Cookie.Name = "__Host-session"
		sm.Cookie.Path = "/"
	}

	return sm
}

// Store is the authentication state kept per visitor. Manager is the scs
// implementation; handlers that only read auth state can depend on this
// instead of the full manager.
type Store interface {
	SignIn(ctx context.Context, token string, user model.UserProfile) error
	SignOut(ctx context.Context) error
	Token(ctx context.Context) string
	IsAuthenticated(ctx context.Context) bool
	User(ctx context.Context) (model.UserProfile, bool)
	UserType(ctx context.Context) model.UserType
}

// Manager wraps the scs session manager with typed accessors for the
// authentication state this application keeps per visitor.
type Manager struct {
	*scs.SessionManager
}

var _ Store = (*Manager)(nil)

// NewManager creates a session manager with typed auth accessors.
func NewManager(db *sql.DB, isDev bool) *Manager {
	return &Manager{SessionManager: New(db, isDev)}
}

// SignIn stores the backend token and user profile in the session. The
// session token is renewed to prevent fixation, and any in-progress login
// flow state is discarded.
func (m *Manager) SignIn(ctx context.Context, token string, user model.UserProfile) error {
	if err := m.RenewToken(ctx); err != nil {
		return err
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}

	m.Put(ctx, keyAuthToken, token)
	m.Put(ctx, keyAuthUser, string(userJSON))
	m.Remove(ctx, keyLoginFlow)
	m.Remove(ctx, keyRegisterFlow)
	return nil
}

// SignOut destroys the session.
func (m *Manager) SignOut(ctx context.Context) error {
	return m.Destroy(ctx)
}

// Token returns the backend bearer token, or "" when not signed in.
func (m *Manager) Token(ctx context.Context) string {
	return m.GetString(ctx, keyAuthToken)
}

// IsAuthenticated reports whether the session holds a backend token.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	return m.Token(ctx) != ""
}

// User returns the signed-in user's profile.
func (m *Manager) User(ctx context.Context) (model.UserProfile, bool) {
	raw := m.GetString(ctx, keyAuthUser)
	if raw == "" {
		return model.UserProfile{}, false
	}

	var user model.UserProfile
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return model.UserProfile{}, false
	}
	return user, true
}

// SetUser replaces the stored user profile, keeping the token untouched.
// Used when a fresh profile is fetched from the backend.
func (m *Manager) SetUser(ctx context.Context, user model.UserProfile) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return err
	}
	m.Put(ctx, keyAuthUser, string(userJSON))
	return nil
}

// UserType returns the signed-in user's role, or "" when not signed in.
func (m *Manager) UserType(ctx context.Context) model.UserType {
	user, ok := m.User(ctx)
	if !ok {
		return ""
	}
	return user.UserType
}

// LoginFlow returns the state of the in-progress farmer login flow.
func (m *Manager) LoginFlow(ctx context.Context) LoginState {
	return m.flowState(ctx, keyLoginFlow, StepPhone)
}

// SetLoginFlow stores the farmer login flow state.
func (m *Manager) SetLoginFlow(ctx context.Context, state LoginState) error {
	return m.setFlowState(ctx, keyLoginFlow, state)
}

// ClearLoginFlow resets the farmer login flow to its first step.
func (m *Manager) ClearLoginFlow(ctx context.Context) {
	m.Remove(ctx, keyLoginFlow)
}

// RegisterFlow returns the state of the in-progress registration flow.
func (m *Manager) RegisterFlow(ctx context.Context) LoginState {
	return m.flowState(ctx, keyRegisterFlow, StepDetails)
}

// SetRegisterFlow stores the registration flow state.
func (m *Manager) SetRegisterFlow(ctx context.Context, state LoginState) error {
	return m.setFlowState(ctx, keyRegisterFlow, state)
}

// ClearRegisterFlow resets the registration flow to its first step.
func (m *Manager) ClearRegisterFlow(ctx context.Context) {
	m.Remove(ctx, keyRegisterFlow)
}

func (m *Manager) flowState(ctx context.Context, key, firstStep string) LoginState {
	raw := m.GetString(ctx, key)
	if raw == "" {
		return LoginState{Step: firstStep}
	}

	var state LoginState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return LoginState{Step: firstStep}
	}
	return state
}

func (m *Manager) setFlowState(ctx context.Context, key string, state LoginState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	m.Put(ctx, key, string(raw))
	return nil
}

// SetFlash stores a one-time success message shown on the next page render.
func (m *Manager) SetFlash(ctx context.Context, msg string) {
	m.Put(ctx, keyFlash, msg)
}

// PopFlash returns and clears the pending success message.
func (m *Manager) PopFlash(ctx context.Context) string {
	return m.PopString(ctx, keyFlash)
}

// SetFlashError stores a one-time error message shown on the next page render.
func (m *Manager) SetFlashError(ctx context.Context, msg string) {
	m.Put(ctx, keyFlashError, msg)
}

// PopFlashError returns and clears the pending error message.
func (m *Manager) PopFlashError(ctx context.Context) string {
	return m.PopString(ctx, keyFlashError)
}
