package invite

import (
	"context"
	"log/slog"

	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/riordanpawley/vantage/internal/session"
)

// Client is the part of the API client the flow calls
type Client interface {
	ValidateInvitation(ctx context.Context, token string) (domain.InvitationInfo, error)
	AcceptInvitation(ctx context.Context, acceptance domain.InvitationAcceptance) (domain.TokenPair, error)
}

// SessionSaver persists issued credentials
type SessionSaver interface {
	Save(sess session.Session) error
}

// Service performs the network side of the flow and reports the outcome as
// an Action to feed back into Reduce
type Service struct {
	client Client
	store  SessionSaver
	logger *slog.Logger
}

// NewService creates a new invitation service
func NewService(client Client, store SessionSaver, logger *slog.Logger) *Service {
	return &Service{client: client, store: store, logger: logger}
}

// Validate looks up the invitation behind a token
func (s *Service) Validate(ctx context.Context, token string) Action {
	info, err := s.client.ValidateInvitation(ctx, token)
	if err != nil {
		s.logger.Info("invitation rejected", "error", err)
		return ValidationFailed{Err: err}
	}
	s.logger.Debug("invitation valid", "enterprise", info.EnterpriseName)
	return Validated{Info: info}
}

// Accept submits the acceptance and stores the returned credentials
func (s *Service) Accept(ctx context.Context, acceptance domain.InvitationAcceptance) Action {
	pair, err := s.client.AcceptInvitation(ctx, acceptance)
	if err != nil {
		s.logger.Warn("invitation acceptance failed", "error", err)
		return Failed{Err: err}
	}
	if err := s.store.Save(session.FromTokens(pair)); err != nil {
		s.logger.Error("failed to store credentials", "error", err)
		return Failed{Err: err}
	}
	s.logger.Info("invitation accepted")
	return Accepted{Tokens: pair}
}
