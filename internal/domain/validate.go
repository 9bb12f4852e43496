package domain

import (
	"net/mail"
	"strings"
)

// MinPasswordLength is the shortest password the client will submit
const MinPasswordLength = 8

// ValidateEmail rejects addresses that are not a bare, well-formed
// user@domain.tld before any request is made.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &ValidationError{Field: "email", Message: "Email is required"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	at := strings.LastIndex(email, "@")
	domainPart := email[at+1:]
	if !strings.Contains(domainPart, ".") || strings.HasPrefix(domainPart, ".") || strings.HasSuffix(domainPart, ".") {
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	return nil
}

// ValidatePassword enforces the minimum length
func ValidatePassword(password string) error {
	if password == "" {
		return &ValidationError{Field: "password", Message: "Password is required"}
	}
	if len(password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "Password must be at least 8 characters"}
	}
	return nil
}

// ValidatePasswordPair checks length first, then confirmation equality
func ValidatePasswordPair(password, confirm string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if password != confirm {
		return &ValidationError{Field: "confirm_password", Message: "Passwords do not match"}
	}
	return nil
}

// Required rejects empty or whitespace-only values
func Required(field, label, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: label + " is required"}
	}
	return nil
}
