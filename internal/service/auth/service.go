// Package auth implements sign-in for the single site owner. Credentials
// live in configuration (email + bcrypt hash); a successful sign-in issues
// a session JWT that the admin middleware validates on every request.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/avoronkov/portfolio-backend/internal/config"
	"github.com/avoronkov/portfolio-backend/internal/domain"
)

type jwtManager interface {
	GenerateToken(subject uuid.UUID) (string, error)
	ValidateToken(token string) (uuid.UUID, error)
}

// Service verifies admin credentials and issues session tokens.
type Service struct {
	email        string
	passwordHash []byte
	adminID      uuid.UUID
	jwt          jwtManager
	log          *slog.Logger
}

// NewService creates the auth service. The admin subject ID is derived
// deterministically from the configured email so tokens stay valid across
// restarts.
func NewService(log *slog.Logger, cfg config.AuthConfig, jwt jwtManager) *Service {
	return &Service{
		email:        strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		passwordHash: []byte(cfg.AdminPasswordHash),
		adminID:      uuid.NewSHA1(uuid.NameSpaceURL, []byte("portfolio-admin:"+strings.ToLower(strings.TrimSpace(cfg.AdminEmail)))),
		jwt:          jwt,
		log:          log.With("service", "auth"),
	}
}

// SignInResult holds the outcome of a successful sign-in.
type SignInResult struct {
	Token   string
	AdminID uuid.UUID
}

// SignIn verifies the email/password pair and returns a session token.
// Both failure modes return domain.ErrUnauthorized without detail, so a
// caller cannot distinguish a wrong email from a wrong password.
func (s *Service) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	if strings.ToLower(strings.TrimSpace(email)) != s.email {
		// Burn a comparison anyway to keep timing roughly flat.
		_ = bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
		return nil, domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		s.log.WarnContext(ctx, "sign-in rejected", slog.String("email", email))
		return nil, domain.ErrUnauthorized
	}

	token, err := s.jwt.GenerateToken(s.adminID)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.log.InfoContext(ctx, "admin signed in", slog.String("admin_id", s.adminID.String()))

	return &SignInResult{Token: token, AdminID: s.adminID}, nil
}

// ValidateToken checks a bearer token and returns the admin subject ID.
func (s *Service) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	id, err := s.jwt.ValidateToken(token)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	if id != s.adminID {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return id, nil
}
