// Package invite drives team invitation acceptance: token validation, the
// password form and storing the issued credentials.
package invite

import (
	"fmt"
	"strings"

	"github.com/riordanpawley/vantage/internal/domain"
)

// Status is the stage of the acceptance flow
type Status string

const (
	StatusValidating Status = "validating"
	StatusValid      Status = "valid"
	StatusInvalid    Status = "invalid"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// State is the acceptance flow for one invitation token
type State struct {
	Token  string
	Status Status
	Info   domain.InvitationInfo
	// Error is the reason the invitation is invalid or the last submit failed
	Error string
}

// New starts validating a token. A missing token is invalid immediately.
func New(token string) State {
	token = strings.TrimSpace(token)
	if token == "" {
		return State{Status: StatusInvalid, Error: "This invitation link is missing its token"}
	}
	return State{Token: token, Status: StatusValidating}
}

// CanSubmit reports whether the form accepts a submission
func (s State) CanSubmit() bool {
	return s.Status == StatusValid || s.Status == StatusError
}

// Action is an acceptance flow event
type Action interface {
	Kind() string
}

// Validated carries the invitation details for a valid token
type Validated struct {
	Info domain.InvitationInfo
}

// ValidationFailed marks the token as unusable
type ValidationFailed struct {
	Err error
}

// Submit is the filled-in acceptance form
type Submit struct {
	FirstName       string
	LastName        string
	Password        string
	ConfirmPassword string
}

// Accepted means the account was created and credentials stored
type Accepted struct {
	Tokens domain.TokenPair
}

// Failed means the server rejected the submission
type Failed struct {
	Err error
}

func (Validated) Kind() string        { return "validated" }
func (ValidationFailed) Kind() string { return "validation_failed" }
func (Submit) Kind() string           { return "submit" }
func (Accepted) Kind() string         { return "accepted" }
func (Failed) Kind() string           { return "failed" }

// Effect is what the caller must do after a transition
type Effect struct {
	// Accept is the request to send, nil when nothing should be sent
	Accept *domain.InvitationAcceptance
	// Err is shown as an error notification
	Err error
	// Success is shown as a success notification
	Success string
	// Redirect asks for navigation to the team portal after the configured delay
	Redirect bool
}

// Reduce applies an action. Actions that do not fit the current status are
// ignored.
func Reduce(s State, action Action) (State, Effect) {
	switch a := action.(type) {
	case Validated:
		if s.Status != StatusValidating {
			return s, Effect{}
		}
		s.Status = StatusValid
		s.Info = a.Info
		s.Error = ""
		return s, Effect{}

	case ValidationFailed:
		if s.Status != StatusValidating {
			return s, Effect{}
		}
		s.Status = StatusInvalid
		s.Error = domain.UserMessage(a.Err)
		if s.Error == "" {
			s.Error = "This invitation is invalid or has expired"
		}
		return s, Effect{}

	case Submit:
		if !s.CanSubmit() {
			return s, Effect{}
		}
		if err := domain.ValidatePasswordPair(a.Password, a.ConfirmPassword); err != nil {
			return s, Effect{Err: err}
		}
		s.Status = StatusSubmitting
		return s, Effect{Accept: &domain.InvitationAcceptance{
			Token:           s.Token,
			FirstName:       strings.TrimSpace(a.FirstName),
			LastName:        strings.TrimSpace(a.LastName),
			Password:        a.Password,
			ConfirmPassword: a.ConfirmPassword,
		}}

	case Accepted:
		if s.Status != StatusSubmitting {
			return s, Effect{}
		}
		s.Status = StatusSuccess
		s.Error = ""
		msg := "Invitation accepted"
		if s.Info.EnterpriseName != "" {
			msg = fmt.Sprintf("Welcome to %s!", s.Info.EnterpriseName)
		}
		return s, Effect{Success: msg, Redirect: true}

	case Failed:
		if s.Status != StatusSubmitting {
			return s, Effect{}
		}
		s.Status = StatusError
		s.Error = domain.UserMessage(a.Err)
		return s, Effect{Err: a.Err}
	}
	return s, Effect{}
}
