package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/civicdesk/complaint-service/internal/auth"
	"github.com/civicdesk/complaint-service/internal/config"
	"github.com/civicdesk/complaint-service/internal/domain"
	apperrors "github.com/civicdesk/complaint-service/pkg/util/errorutil"
)

// CitizenAccounts is the citizen storage used by auth.
type CitizenAccounts interface {
	Create(ctx context.Context, citizen *domain.Citizen) error
	GetByEmail(ctx context.Context, email string) (*domain.Citizen, error)
}

// OfficerAccounts is the officer storage used by auth.
type OfficerAccounts interface {
	GetByEmail(ctx context.Context, email string) (*domain.Officer, error)
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	citizens   CitizenAccounts
	officers   OfficerAccounts
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	CitizenRepo CitizenAccounts
	OfficerRepo OfficerAccounts
}

var errInvalidCredentials = apperrors.NewUnauthorized("invalid credentials")

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		citizens:   deps.CitizenRepo,
		officers:   deps.OfficerRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RegisterCitizen creates a citizen account and signs it in.
func (s *AuthService) RegisterCitizen(ctx context.Context, name, email, password string) (*domain.Citizen, string, time.Time, error) {
	email = strings.TrimSpace(email)
	if err := auth.ValidatePassword(password); err != nil {
		return nil, "", time.Time{}, apperrors.NewValidationError(err.Error(), nil)
	}
	if _, err := s.citizens.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	citizen := &domain.Citizen{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Status:       domain.CitizenStatusActive,
	}
	if err := s.citizens.Create(ctx, citizen); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(citizen.ID, domain.SubjectTypeCitizen, domain.RoleCitizen)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return citizen, token, exp, nil
}

// LoginCitizen authenticates a citizen.
func (s *AuthService) LoginCitizen(ctx context.Context, email, password string) (*domain.Citizen, string, time.Time, error) {
	citizen, err := s.citizens.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, errInvalidCredentials
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if citizen.Status != domain.CitizenStatusActive {
		return nil, "", time.Time{}, apperrors.NewForbidden("citizen account suspended")
	}
	if err := auth.ComparePassword(citizen.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errInvalidCredentials
	}
	token, exp, err := s.tokenMgr.GenerateToken(citizen.ID, domain.SubjectTypeCitizen, domain.RoleCitizen)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return citizen, token, exp, nil
}

// LoginOfficer authenticates an officer and returns a role-bearing token.
func (s *AuthService) LoginOfficer(ctx context.Context, email, password string) (*domain.Officer, string, time.Time, error) {
	officer, err := s.officers.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, errInvalidCredentials
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if !officer.Active {
		return nil, "", time.Time{}, apperrors.NewForbidden("officer inactive")
	}
	if err := auth.ComparePassword(officer.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errInvalidCredentials
	}
	token, exp, err := s.tokenMgr.GenerateToken(officer.ID, domain.SubjectTypeOfficer, domain.Role(officer.Role))
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return officer, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
