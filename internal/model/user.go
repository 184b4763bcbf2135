// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types exchanged with the FOS backend
// and the client-side validation rules applied before any request is made.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// UserType identifies the role of an authenticated user.
type UserType string

// Supported user roles.
const (
	UserTypeFarmer UserType = "farmer"
	UserTypeAdmin  UserType = "admin"
)

// Valid reports whether the user type is one of the supported roles.
func (t UserType) Valid() bool {
	return t == UserTypeFarmer || t == UserTypeAdmin
}

// UserProfile is the backend's representation of an account. LandArea is
// only meaningful for farmers and is expressed in hectares.
type UserProfile struct {
	ID          string   `json:"id"`
	FullName    string   `json:"fullName"`
	PhoneNumber string   `json:"phoneNumber"`
	Email       string   `json:"email,omitempty"`
	UserType    UserType `json:"userType"`
	LandArea    float64  `json:"landArea,omitempty"`
}

// MinPhoneLength is the minimum accepted phone number length.
// Accepted formats: +250... or 25078815000.
const MinPhoneLength = 10

// MinOTPLength is the minimum accepted OTP length.
const MinOTPLength = 4

// ValidatePhone checks a phone number before it is sent to the backend.
// Returns a user-facing message, or empty string if valid.
func ValidatePhone(phone string) string {
	if len(strings.TrimSpace(phone)) < MinPhoneLength {
		return "Please enter a valid phone number"
	}
	return ""
}

// ValidateOTP checks an OTP before it is sent to the backend.
// Returns a user-facing message, or empty string if valid.
func ValidateOTP(otp string) string {
	if len(strings.TrimSpace(otp)) < MinOTPLength {
		return "Please enter a valid OTP"
	}
	return ""
}

// ParseLandArea parses a land area form value and requires it to be a
// positive, finite number of hectares.
func ParseLandArea(s string) (float64, error) {
	area, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid land area %q", s)
	}
	if area <= 0 {
		return 0, fmt.Errorf("land area must be greater than zero")
	}
	return area, nil
}
