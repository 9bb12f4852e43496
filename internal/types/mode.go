// Package types contains shared types used across the application.
package types

// Screen identifies the page currently shown
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenPasswordReset
	ScreenVerify
	ScreenBoard
	ScreenAssessments
	ScreenWizard
	ScreenSettings
	ScreenInvite
	ScreenPortal
)

// String returns the status bar label of the screen
func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "LOGIN"
	case ScreenRegister:
		return "REGISTER"
	case ScreenPasswordReset:
		return "RESET"
	case ScreenVerify:
		return "VERIFY"
	case ScreenBoard:
		return "BOARD"
	case ScreenAssessments:
		return "ASSESSMENTS"
	case ScreenWizard:
		return "ASSESSMENT"
	case ScreenSettings:
		return "SETTINGS"
	case ScreenInvite:
		return "INVITE"
	case ScreenPortal:
		return "TEAM"
	default:
		return "UNKNOWN"
	}
}

// Public reports whether the screen is reachable without signing in
func (s Screen) Public() bool {
	switch s {
	case ScreenLogin, ScreenRegister, ScreenPasswordReset, ScreenVerify, ScreenInvite:
		return true
	}
	return false
}
