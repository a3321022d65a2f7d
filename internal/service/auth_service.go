package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"

	"github.com/lagoon/bookings/internal/domain"
	"github.com/lagoon/bookings/internal/repo/postgres"
	"github.com/lagoon/bookings/pkg/auth"
	"github.com/lagoon/bookings/pkg/config"
	"github.com/lagoon/bookings/pkg/logger"
)

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	Role        auth.Role `json:"role"`
	Name        string    `json:"name"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	UpdateRole(ctx context.Context, callerID, adminID int64, role auth.Role) error
	SeedAdmin(ctx context.Context) error
}

type authService struct {
	admins postgres.AdminRepository
	cfg    *config.Config
}

func NewAuthService(admins postgres.AdminRepository, cfg *config.Config) AuthService {
	return &authService{admins: admins, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, &domain.AuthError{Message: "invalid credentials"}
	}

	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	if admin == nil {
		return nil, &domain.AuthError{Message: "invalid credentials"}
	}

	valid, err := argon2id.ComparePasswordAndHash(password, admin.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, &domain.AuthError{Message: "invalid credentials"}
	}

	role, ok := auth.ParseRole(admin.Role)
	if !ok {
		return nil, &domain.AuthError{Message: "invalid credentials"}
	}

	token, err := auth.NewAccessToken(admin.ID, admin.Email, role, s.cfg.Auth.JWTSecret, s.cfg.Auth.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.cfg.Auth.AccessTokenTTL.Seconds()),
		Role:        role,
		Name:        admin.Name,
	}, nil
}

// UpdateRole re-checks the caller's stored role before mutating; the JWT
// alone is not trusted for role assignment.
func (s *authService) UpdateRole(ctx context.Context, callerID, adminID int64, role auth.Role) error {
	caller, err := s.admins.FindByID(ctx, callerID)
	if err != nil {
		return fmt.Errorf("failed to load caller: %w", err)
	}
	if caller == nil {
		return &domain.AuthError{Message: "permission denied"}
	}
	callerRole, ok := auth.ParseRole(caller.Role)
	if !ok || !callerRole.Has(auth.PermAdminsManage) {
		return &domain.AuthError{Message: "permission denied"}
	}

	target, err := s.admins.FindByID(ctx, adminID)
	if err != nil {
		return fmt.Errorf("failed to load admin: %w", err)
	}
	if target == nil {
		return domain.ErrNotFound
	}

	return s.admins.UpdateRole(ctx, adminID, string(role))
}

// SeedAdmin bootstraps the configured owner account on startup so a fresh
// deployment is reachable. No-op when unconfigured or already present.
func (s *authService) SeedAdmin(ctx context.Context) error {
	email := s.cfg.Auth.SeedAdminEmail
	pass := s.cfg.Auth.SeedAdminPass
	if email == "" || pass == "" {
		return nil
	}

	existing, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check seed admin: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := argon2id.CreateHash(pass, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	if _, err := s.admins.Create(ctx, email, "Owner", hash, string(auth.RoleOwner)); err != nil {
		return fmt.Errorf("failed to create seed admin: %w", err)
	}

	logger.Info("seeded owner account", "email", email)
	return nil
}
