package invite

import (
	"errors"
	"net/http"
	"testing"

	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var acme = domain.InvitationInfo{EnterpriseName: "Acme", InviterName: "Olivia Owner", Email: "mate@acme.io"}

func validState() State {
	s, _ := Reduce(New("tok-1"), Validated{Info: acme})
	return s
}

func TestNew(t *testing.T) {
	assert.Equal(t, State{Token: "tok-1", Status: StatusValidating}, New(" tok-1 "))

	s := New("")
	assert.Equal(t, StatusInvalid, s.Status)
	assert.NotEmpty(t, s.Error)
}

func TestReduce_Validation(t *testing.T) {
	s := validState()
	assert.Equal(t, StatusValid, s.Status)
	assert.Equal(t, acme, s.Info)

	bad, eff := Reduce(New("tok-1"), ValidationFailed{Err: &domain.APIError{
		Op: "validate invitation", Status: http.StatusNotFound, Message: "Invitation not found or expired",
	}})
	assert.Equal(t, StatusInvalid, bad.Status)
	assert.Equal(t, "Invitation not found or expired", bad.Error)
	assert.Equal(t, Effect{}, eff)
}

func TestReduce_InvalidIsPermanent(t *testing.T) {
	s, _ := Reduce(New("tok-1"), ValidationFailed{Err: errors.New("gone")})

	for _, a := range []Action{
		Validated{Info: acme},
		Submit{Password: "longenough", ConfirmPassword: "longenough"},
		Accepted{},
	} {
		next, eff := Reduce(s, a)
		assert.Equal(t, s, next, a.Kind())
		assert.Nil(t, eff.Accept, a.Kind())
	}
}

func TestReduce_SubmitRejectedClientSide(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		wantMsg  string
	}{
		{"short password", "short", "short", "Password must be at least 8 characters"},
		{"short with any confirmation", "short12", "different", "Password must be at least 8 characters"},
		{"empty", "", "", "Password is required"},
		{"mismatch", "longenough", "longenougH", "Passwords do not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validState()
			next, eff := Reduce(s, Submit{Password: tt.password, ConfirmPassword: tt.confirm})

			assert.Equal(t, s, next, "state must not change")
			assert.Nil(t, eff.Accept, "no request may be sent")
			var valErr *domain.ValidationError
			require.True(t, errors.As(eff.Err, &valErr))
			assert.Equal(t, tt.wantMsg, valErr.Message)
		})
	}
}

func TestReduce_SubmitSuccess(t *testing.T) {
	s, eff := Reduce(validState(), Submit{FirstName: " Mate ", Password: "longenough", ConfirmPassword: "longenough"})
	assert.Equal(t, StatusSubmitting, s.Status)
	require.NotNil(t, eff.Accept)
	assert.Equal(t, domain.InvitationAcceptance{
		Token: "tok-1", FirstName: "Mate", Password: "longenough", ConfirmPassword: "longenough",
	}, *eff.Accept)

	// double submit while in flight is ignored
	again, eff2 := Reduce(s, Submit{Password: "longenough", ConfirmPassword: "longenough"})
	assert.Equal(t, s, again)
	assert.Nil(t, eff2.Accept)

	done, eff := Reduce(s, Accepted{Tokens: domain.TokenPair{AccessToken: "a"}})
	assert.Equal(t, StatusSuccess, done.Status)
	assert.Equal(t, "Welcome to Acme!", eff.Success)
	assert.True(t, eff.Redirect)
}

func TestReduce_ServerErrorAllowsResubmit(t *testing.T) {
	s, _ := Reduce(validState(), Submit{Password: "longenough", ConfirmPassword: "longenough"})

	serverErr := &domain.APIError{Op: "accept invitation", Status: http.StatusBadRequest, Message: "Password is too common"}
	s, eff := Reduce(s, Failed{Err: serverErr})
	assert.Equal(t, StatusError, s.Status)
	assert.Equal(t, "Password is too common", s.Error)
	assert.Equal(t, serverErr, eff.Err)
	assert.False(t, eff.Redirect)

	s, eff = Reduce(s, Submit{Password: "much-better-pass", ConfirmPassword: "much-better-pass"})
	assert.Equal(t, StatusSubmitting, s.Status)
	assert.NotNil(t, eff.Accept)
}
