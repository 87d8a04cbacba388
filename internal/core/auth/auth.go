// Package auth implements the client side of the authentication endpoints:
// login populates the session, logout tears it down.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/clinicore/crm_admin_app/internal/apperrors"
	"github.com/clinicore/crm_admin_app/internal/core/domain"
	"github.com/clinicore/crm_admin_app/internal/core/ports"
	"github.com/clinicore/crm_admin_app/internal/dto"
	"github.com/clinicore/crm_admin_app/internal/logging"
)

// Service drives the session lifecycle against the auth endpoints.
type Service struct {
	client   ports.RESTClient
	sessions ports.SessionWriter
	reader   ports.SessionReader
	validate *validator.Validate
}

// NewService creates an auth Service.
func NewService(client ports.RESTClient, sessions ports.SessionWriter, reader ports.SessionReader, validate *validator.Validate) *Service {
	return &Service{client: client, sessions: sessions, reader: reader, validate: validate}
}

// Login authenticates against POST /auth/login and installs the returned
// token and profile as the active session. The user's company becomes the
// active scope.
func (s *Service) Login(ctx context.Context, email, password string) (domain.UserProfile, error) {
	req := dto.LoginRequest{Email: email, Password: password}
	if err := s.validate.Struct(req); err != nil {
		return domain.UserProfile{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	var resp dto.LoginResponse
	if err := s.client.PostJSON(ctx, "/auth/login", req, &resp); err != nil {
		return domain.UserProfile{}, fmt.Errorf("login failed: %w", err)
	}
	if resp.Token == "" {
		return domain.UserProfile{}, fmt.Errorf("%w: login returned no token", apperrors.ErrBackend)
	}

	state := domain.SessionState{
		Token:     resp.Token,
		Profile:   resp.Profile,
		ScopeID:   resp.Profile.CompanyID,
		RoleGroup: resp.Profile.RoleGroup,
	}
	if err := s.sessions.Begin(state); err != nil {
		return domain.UserProfile{}, err
	}

	logging.FromCtx(ctx).Info("Logged in",
		slog.String("user_id", resp.Profile.UserID),
		slog.String("scope_id", state.ScopeID))
	return resp.Profile, nil
}

// ChangePassword calls POST /auth/change-password for the active session.
func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if !s.reader.Authenticated() {
		return apperrors.ErrNoSession
	}
	req := dto.ChangePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if err := s.client.PostJSON(ctx, "/auth/change-password", req, nil); err != nil {
		return fmt.Errorf("change password failed: %w", err)
	}
	return nil
}

// Logout clears the session; the session fans the reset out to every
// controller.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(); err != nil {
		return err
	}
	logging.FromCtx(ctx).Info("Logged out")
	return nil
}
