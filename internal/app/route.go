package app

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/riordanpawley/vantage/internal/types"
)

// Route selects the first screen and carries the link parameters that drive
// the verification, reset and invitation flows
type Route struct {
	Screen       types.Screen
	Token        string
	UID          string
	Verification string // "success" or "failed" after an email link was followed
	Message      string // shown as an info toast
	Error        string // shown as an error toast
}

// ParseLink turns a web link such as
// https://app.example.com/verify-email?token=abc into a Route
func ParseLink(raw string) (Route, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Route{}, fmt.Errorf("parse link: %w", err)
	}

	q := u.Query()
	r := Route{
		Token:        q.Get("token"),
		UID:          q.Get("uid"),
		Verification: q.Get("verification"),
		Message:      q.Get("message"),
		Error:        q.Get("error"),
	}

	path := strings.ToLower(u.Path)
	switch {
	case strings.Contains(path, "invit"):
		r.Screen = types.ScreenInvite
	case strings.Contains(path, "reset"):
		r.Screen = types.ScreenPasswordReset
	case strings.Contains(path, "verif"):
		r.Screen = types.ScreenVerify
	case strings.Contains(path, "register"), strings.Contains(path, "signup"):
		r.Screen = types.ScreenRegister
	default:
		r.Screen = types.ScreenLogin
	}
	return r, nil
}
