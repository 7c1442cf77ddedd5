package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/print-expert/repair-service/internal/auth"
	"github.com/print-expert/repair-service/internal/config"
	"github.com/print-expert/repair-service/internal/domain"
	"github.com/print-expert/repair-service/internal/storage"
	apperrors "github.com/print-expert/repair-service/pkg/util"
)

type account struct {
	user         domain.User
	passwordHash string
}

// AuthService handles the demo login flow. Accounts come from config and
// are not a security boundary; the session state is mirrored into the auth
// slot the same way the ticket list is mirrored into its own.
type AuthService struct {
	byEmail  map[string]*account
	byID     map[string]*domain.User
	tokenMgr *auth.TokenManager
	slot     storage.Slot
	slotKey  string
	logger   *zap.Logger
}

// NewAuthService seeds the demo client and admin accounts, hashing their
// configured passwords at startup.
func NewAuthService(cfg config.Config, slot storage.Slot, logger *zap.Logger) (*AuthService, error) {
	s := &AuthService{
		byEmail:  make(map[string]*account),
		byID:     make(map[string]*domain.User),
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		slot:     slot,
		slotKey:  cfg.Storage.AuthSlotKey,
		logger:   logger,
	}

	seeds := []struct {
		user     domain.User
		password string
	}{
		{
			user: domain.User{
				ID:    "u1",
				Email: cfg.Auth.ClientEmail,
				Name:  cfg.Auth.ClientName,
				Role:  domain.RoleClient,
			},
			password: cfg.Auth.ClientPassword,
		},
		{
			user: domain.User{
				ID:    "admin",
				Email: cfg.Auth.AdminEmail,
				Name:  cfg.Auth.AdminName,
				Role:  domain.RoleAdmin,
			},
			password: cfg.Auth.AdminPassword,
		},
	}
	for _, seed := range seeds {
		hash, err := auth.HashPassword(seed.password, cfg.Auth.BcryptCost)
		if err != nil {
			return nil, err
		}
		acct := &account{user: seed.user, passwordHash: hash}
		s.byEmail[seed.user.Email] = acct
		s.byID[seed.user.ID] = &acct.user
	}
	return s, nil
}

// Login verifies credentials and issues a bearer token. The resulting
// session is persisted to the auth slot; a slot write failure only logs a
// warning, the session itself is carried by the token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	acct, ok := s.byEmail[email]
	if !ok {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(acct.passwordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokenMgr.GenerateToken(acct.user.ID, acct.user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}

	s.persistAuthState(ctx, domain.AuthState{User: &acct.user, IsAuthenticated: true})
	return &acct.user, token, expiresAt, nil
}

// Logout clears the persisted session state.
func (s *AuthService) Logout(ctx context.Context) {
	s.persistAuthState(ctx, domain.AuthState{User: nil, IsAuthenticated: false})
}

// UserByID resolves accounts for the auth middleware.
func (s *AuthService) UserByID(id string) (*domain.User, bool) {
	user, ok := s.byID[id]
	return user, ok
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) persistAuthState(ctx context.Context, state domain.AuthState) {
	data, err := json.Marshal(state)
	if err != nil {
		s.logger.Warn("marshal auth state", zap.Error(err))
		return
	}
	if err := s.slot.Set(ctx, s.slotKey, string(data)); err != nil {
		s.logger.Warn("auth slot write failed", zap.Error(err))
	}
}
