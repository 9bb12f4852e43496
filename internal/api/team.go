package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/riordanpawley/vantage/internal/domain"
)

// GetTeamPortal fetches the landing data for team members
func (c *Client) GetTeamPortal(ctx context.Context, token string) (domain.TeamPortal, error) {
	var portal domain.TeamPortal
	err := c.do(ctx, call{
		op:       "get team portal",
		method:   http.MethodGet,
		path:     "/team/portal",
		token:    token,
		fallback: "Failed to load team portal",
	}, &portal)
	return portal, err
}

// ListTeamMembers lists members of the owner's enterprise
func (c *Client) ListTeamMembers(ctx context.Context, token string) ([]domain.TeamMember, error) {
	var members []domain.TeamMember
	err := c.do(ctx, call{
		op:       "list team members",
		method:   http.MethodGet,
		path:     "/team/members",
		token:    token,
		fallback: "Failed to load team members",
	}, &members)
	return members, err
}

// RemoveTeamMember removes a member from the team
func (c *Client) RemoveTeamMember(ctx context.Context, token, memberID string) error {
	return c.do(ctx, call{
		op:       "remove team member",
		method:   http.MethodDelete,
		path:     "/team/members/" + url.PathEscape(memberID),
		token:    token,
		fallback: "Failed to remove team member",
	}, nil)
}

// SendInvitation invites someone to join the team
func (c *Client) SendInvitation(ctx context.Context, token string, req domain.InvitationRequest) (domain.Invitation, error) {
	var inv domain.Invitation
	err := c.do(ctx, call{
		op:       "send invitation",
		method:   http.MethodPost,
		path:     "/team/invitations",
		token:    token,
		body:     req,
		fallback: "Failed to send invitation",
	}, &inv)
	return inv, err
}

// ListInvitations lists pending invitations
func (c *Client) ListInvitations(ctx context.Context, token string) ([]domain.Invitation, error) {
	var invs []domain.Invitation
	err := c.do(ctx, call{
		op:       "list invitations",
		method:   http.MethodGet,
		path:     "/team/invitations",
		token:    token,
		fallback: "Failed to load invitations",
	}, &invs)
	return invs, err
}

// RevokeInvitation cancels a pending invitation
func (c *Client) RevokeInvitation(ctx context.Context, token, invitationID string) error {
	return c.do(ctx, call{
		op:       "revoke invitation",
		method:   http.MethodDelete,
		path:     "/team/invitations/" + url.PathEscape(invitationID),
		token:    token,
		fallback: "Failed to revoke invitation",
	}, nil)
}

// ValidateInvitation resolves an invitation token. No credential is needed.
func (c *Client) ValidateInvitation(ctx context.Context, invitationToken string) (domain.InvitationInfo, error) {
	var info domain.InvitationInfo
	err := c.do(ctx, call{
		op:       "validate invitation",
		method:   http.MethodGet,
		path:     "/team/invitations/validate",
		query:    url.Values{"token": {invitationToken}},
		fallback: "This invitation is invalid or has expired",
	}, &info)
	return info, err
}

// AcceptInvitation creates the invitee's account and returns its credentials
func (c *Client) AcceptInvitation(ctx context.Context, acceptance domain.InvitationAcceptance) (domain.TokenPair, error) {
	var pair domain.TokenPair
	err := c.do(ctx, call{
		op:       "accept invitation",
		method:   http.MethodPost,
		path:     "/team/invitations/accept",
		body:     acceptance,
		fallback: "Failed to accept invitation",
	}, &pair)
	return pair, err
}
