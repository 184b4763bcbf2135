// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/agrodirect/fos-web/internal/api"
	"github.com/agrodirect/fos-web/internal/middleware"
	"github.com/agrodirect/fos-web/internal/model"
	"github.com/agrodirect/fos-web/internal/render"
	"github.com/agrodirect/fos-web/internal/session"
)

// AuthHandler handles login, registration and logout.
type AuthHandler struct {
	api     *api.Client
	sm      *session.Manager
	render  *render.Renderer
	protect *middleware.LoginProtection
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(apiClient *api.Client, sm *session.Manager, renderer *render.Renderer, protect *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		api:     apiClient,
		sm:      sm,
		render:  renderer,
		protect: protect,
	}
}

// farmerLoginData is the template payload for the farmer login page.
type farmerLoginData struct {
	State session.LoginState
	Phone string
}

// registerData is the template payload for the registration page.
type registerData struct {
	State    session.LoginState
	FullName string
	Phone    string
	LandArea string
	Email    string
}

// adminLoginData is the template payload for the admin login page.
type adminLoginData struct {
	Phone string
}

// Home handles GET / by sending visitors to the farmer login page.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, PathFarmerLogin, http.StatusFound)
}

// ShowFarmerLogin handles GET /farmer-login.
func (h *AuthHandler) ShowFarmerLogin(w http.ResponseWriter, r *http.Request) {
	// Already signed in farmers go straight to their dashboard.
	if h.sm.UserType(r.Context()) == model.UserTypeFarmer {
		http.Redirect(w, r, PathFarmerHome, http.StatusSeeOther)
		return
	}

	h.renderFarmerLogin(w, r, farmerLoginData{State: h.sm.LoginFlow(r.Context())}, "")
}

func (h *AuthHandler) renderFarmerLogin(w http.ResponseWriter, r *http.Request, data farmerLoginData, errMsg string) {
	err := h.render.Render(w, r, "auth/farmer_login", render.TemplateData{
		Title:      "Farmer Login",
		Data:       data,
		FlashError: errMsg,
	})
	if err != nil {
		renderError(w, err)
	}
}

// FarmerRequestOTP handles POST /farmer-login/request-otp, the first step
// of the farmer login flow.
func (h *AuthHandler) FarmerRequestOTP(w http.ResponseWriter, r *http.Request) {
	phone := strings.TrimSpace(r.FormValue("phoneNumber"))

	data := farmerLoginData{
		State: session.LoginState{Step: session.StepPhone},
		Phone: phone,
	}

	if msg := model.ValidatePhone(phone); msg != "" {
		h.renderFarmerLogin(w, r, data, msg)
		return
	}

	if locked, remaining := h.protect.IsPhoneLocked(phone); locked {
		h.renderFarmerLogin(w, r, data, lockedMessage(remaining))
		return
	}

	otp, err := h.api.RequestOTP(r.Context(), phone)
	if err != nil {
		h.renderFarmerLogin(w, r, data, backendMessage(err, "Failed to send OTP"))
		return
	}

	state := session.LoginState{
		Step:         session.StepOTP,
		PendingPhone: phone,
		IssuedOTP:    otp,
	}
	if err := h.sm.SetLoginFlow(r.Context(), state); err != nil {
		renderError(w, err)
		return
	}

	http.Redirect(w, r, PathFarmerLogin, http.StatusSeeOther)
}

// FarmerVerifyOTP handles POST /farmer-login/verify, the second step of
// the farmer login flow.
func (h *AuthHandler) FarmerVerifyOTP(w http.ResponseWriter, r *http.Request) {
	state := h.sm.LoginFlow(r.Context())
	if !state.CanVerify() {
		// No pending phone means the flow was never started or has expired.
		http.Redirect(w, r, PathFarmerLogin, http.StatusSeeOther)
		return
	}

	data := farmerLoginData{State: state}
	otp := strings.TrimSpace(r.FormValue("otp"))

	if msg := model.ValidateOTP(otp); msg != "" {
		h.renderFarmerLogin(w, r, data, msg)
		return
	}

	if locked, remaining := h.protect.IsPhoneLocked(state.PendingPhone); locked {
		h.renderFarmerLogin(w, r, data, lockedMessage(remaining))
		return
	}

	result, err := h.api.VerifyOTP(r.Context(), state.PendingPhone, otp)
	if err != nil {
		h.protect.RecordFailedAttempt(state.PendingPhone)
		h.renderFarmerLogin(w, r, data, backendMessage(err, "OTP verification failed"))
		return
	}

	h.protect.RecordSuccessfulLogin(state.PendingPhone)
	if err := h.sm.SignIn(r.Context(), result.Token, result.User); err != nil {
		renderError(w, err)
		return
	}

	http.Redirect(w, r, PathFarmerHome, http.StatusSeeOther)
}

// FarmerLoginBack handles POST /farmer-login/back, returning from the OTP
// step to the phone step.
func (h *AuthHandler) FarmerLoginBack(w http.ResponseWriter, r *http.Request) {
	h.sm.ClearLoginFlow(r.Context())
	http.Redirect(w, r, PathFarmerLogin, http.StatusSeeOther)
}

// ShowFarmerRegister handles GET /farmer-register.
func (h *AuthHandler) ShowFarmerRegister(w http.ResponseWriter, r *http.Request) {
	if h.sm.UserType(r.Context()) == model.UserTypeFarmer {
		http.Redirect(w, r, PathFarmerHome, http.StatusSeeOther)
		return
	}

	h.renderFarmerRegister(w, r, registerData{State: h.sm.RegisterFlow(r.Context())}, "")
}

func (h *AuthHandler) renderFarmerRegister(w http.ResponseWriter, r *http.Request, data registerData, errMsg string) {
	err := h.render.Render(w, r, "auth/farmer_register", render.TemplateData{
		Title:      "Farmer Registration",
		Data:       data,
		FlashError: errMsg,
	})
	if err != nil {
		renderError(w, err)
	}
}

// FarmerRegister handles POST /farmer-register, the details step of the
// registration flow.
func (h *AuthHandler) FarmerRegister(w http.ResponseWriter, r *http.Request) {
	data := registerData{
		State:    session.LoginState{Step: session.StepDetails},
		FullName: strings.TrimSpace(r.FormValue("fullName")),
		Phone:    strings.TrimSpace(r.FormValue("phoneNumber")),
		LandArea: strings.TrimSpace(r.FormValue("landArea")),
		Email:    strings.TrimSpace(r.FormValue("email")),
	}

	if data.FullName == "" || data.Phone == "" || data.LandArea == "" {
		h.renderFarmerRegister(w, r, data, "Phone number, name, and land area are required")
		return
	}
	if msg := model.ValidatePhone(data.Phone); msg != "" {
		h.renderFarmerRegister(w, r, data, msg)
		return
	}

	landArea, err := model.ParseLandArea(data.LandArea)
	if err != nil {
		h.renderFarmerRegister(w, r, data, "Please enter a valid land area in hectares")
		return
	}

	result, err := h.api.RegisterFarmer(r.Context(), api.RegisterFarmerParams{
		FullName:    data.FullName,
		PhoneNumber: data.Phone,
		LandArea:    landArea,
		Email:       data.Email,
	})
	if err != nil {
		h.renderFarmerRegister(w, r, data, backendMessage(err, "Registration failed"))
		return
	}

	// Development backends return a token directly (auto-login).
	if result.Token != "" {
		if err := h.sm.SignIn(r.Context(), result.Token, result.User); err != nil {
			renderError(w, err)
			return
		}
		http.Redirect(w, r, PathFarmerHome, http.StatusSeeOther)
		return
	}

	state := session.LoginState{
		Step:         session.StepOTP,
		PendingPhone: data.Phone,
		IssuedOTP:    result.OTP,
	}
	if err := h.sm.SetRegisterFlow(r.Context(), state); err != nil {
		renderError(w, err)
		return
	}

	http.Redirect(w, r, PathFarmerRegister, http.StatusSeeOther)
}

// FarmerRegisterVerify handles POST /farmer-register/verify.
func (h *AuthHandler) FarmerRegisterVerify(w http.ResponseWriter, r *http.Request) {
	state := h.sm.RegisterFlow(r.Context())
	if !state.CanVerify() {
		http.Redirect(w, r, PathFarmerRegister, http.StatusSeeOther)
		return
	}

	data := registerData{State: state}
	otp := strings.TrimSpace(r.FormValue("otp"))

	if msg := model.ValidateOTP(otp); msg != "" {
		h.renderFarmerRegister(w, r, data, msg)
		return
	}

	if locked, remaining := h.protect.IsPhoneLocked(state.PendingPhone); locked {
		h.renderFarmerRegister(w, r, data, lockedMessage(remaining))
		return
	}

	result, err := h.api.VerifyOTP(r.Context(), state.PendingPhone, otp)
	if err != nil {
		h.protect.RecordFailedAttempt(state.PendingPhone)
		h.renderFarmerRegister(w, r, data, backendMessage(err, "OTP verification failed"))
		return
	}

	h.protect.RecordSuccessfulLogin(state.PendingPhone)
	if err := h.sm.SignIn(r.Context(), result.Token, result.User); err != nil {
		renderError(w, err)
		return
	}

	http.Redirect(w, r, PathFarmerHome, http.StatusSeeOther)
}

// FarmerRegisterBack handles POST /farmer-register/back, returning from
// the OTP step to the details step.
func (h *AuthHandler) FarmerRegisterBack(w http.ResponseWriter, r *http.Request) {
	h.sm.ClearRegisterFlow(r.Context())
	http.Redirect(w, r, PathFarmerRegister, http.StatusSeeOther)
}

// ShowAdminLogin handles GET /admin-login.
func (h *AuthHandler) ShowAdminLogin(w http.ResponseWriter, r *http.Request) {
	if h.sm.UserType(r.Context()) == model.UserTypeAdmin {
		http.Redirect(w, r, PathAdminHome, http.StatusSeeOther)
		return
	}

	h.renderAdminLogin(w, r, adminLoginData{}, "")
}

func (h *AuthHandler) renderAdminLogin(w http.ResponseWriter, r *http.Request, data adminLoginData, errMsg string) {
	err := h.render.Render(w, r, "auth/admin_login", render.TemplateData{
		Title:      "Admin Login",
		Data:       data,
		FlashError: errMsg,
	})
	if err != nil {
		renderError(w, err)
	}
}

// AdminLogin handles POST /admin-login. Admins authenticate with phone and
// OTP in a single step.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	phone := strings.TrimSpace(r.FormValue("phoneNumber"))
	otp := strings.TrimSpace(r.FormValue("otp"))

	data := adminLoginData{Phone: phone}

	if phone == "" || otp == "" {
		h.renderAdminLogin(w, r, data, "Phone number and OTP are required")
		return
	}

	if locked, remaining := h.protect.IsPhoneLocked(phone); locked {
		h.renderAdminLogin(w, r, data, lockedMessage(remaining))
		return
	}

	result, err := h.api.AdminLogin(r.Context(), phone, otp)
	if err != nil {
		h.protect.RecordFailedAttempt(phone)
		h.renderAdminLogin(w, r, data, backendMessage(err, "Invalid credentials"))
		return
	}

	h.protect.RecordSuccessfulLogin(phone)
	if err := h.sm.SignIn(r.Context(), result.Token, result.User); err != nil {
		renderError(w, err)
		return
	}

	http.Redirect(w, r, PathAdminHome, http.StatusSeeOther)
}

// Logout handles POST /logout for both roles. The session is destroyed and
// the user returns to the login page matching their former role.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	loginPath := PathFarmerLogin
	if h.sm.UserType(r.Context()) == model.UserTypeAdmin {
		loginPath = PathAdminLogin
	}

	if err := h.sm.SignOut(r.Context()); err != nil {
		renderError(w, err)
		return
	}

	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// backendMessage extracts the user-facing message from a backend error,
// falling back to the given default.
func backendMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// lockedMessage formats the lockout notice shown on auth pages.
func lockedMessage(remaining time.Duration) string {
	return fmt.Sprintf("Too many failed attempts. Try again in %s.", remaining.Round(time.Minute))
}
