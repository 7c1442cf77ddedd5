package service

import (
	"context"
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/print-expert/repair-service/internal/config"
	"github.com/print-expert/repair-service/internal/domain"
	"github.com/print-expert/repair-service/internal/storage"
)

func testAuthConfig() config.Config {
	return config.Config{
		Storage: config.StorageConfig{AuthSlotKey: "auth_test"},
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
			ClientEmail:           "jan.kowalski@example.pl",
			ClientPassword:        "client",
			ClientName:            "Jan Kowalski",
			AdminEmail:            "admin",
			AdminPassword:         "admin",
			AdminName:             "System Administrator",
		},
	}
}

func TestLoginPersistsSessionToAuthSlot(t *testing.T) {
	slot := storage.NewMemorySlot()
	svc, err := NewAuthService(testAuthConfig(), slot, zap.NewNop())
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	ctx := context.Background()

	user, token, _, err := svc.Login(ctx, "admin", "admin")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Role != domain.RoleAdmin || token == "" {
		t.Errorf("user = %+v token = %q", user, token)
	}

	raw, err := slot.Get(ctx, "auth_test")
	if err != nil {
		t.Fatalf("auth slot not written: %v", err)
	}
	var state domain.AuthState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		t.Fatalf("auth slot unparsable: %v", err)
	}
	if !state.IsAuthenticated || state.User == nil || state.User.ID != "admin" {
		t.Errorf("auth state = %+v", state)
	}

	svc.Logout(ctx)
	raw, _ = slot.Get(ctx, "auth_test")
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		t.Fatalf("auth slot unparsable after logout: %v", err)
	}
	if state.IsAuthenticated || state.User != nil {
		t.Errorf("auth state after logout = %+v", state)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, err := NewAuthService(testAuthConfig(), storage.NewMemorySlot(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	if _, _, _, err := svc.Login(context.Background(), "admin", "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
	if _, _, _, err := svc.Login(context.Background(), "nobody@example.pl", "x"); err == nil {
		t.Error("unknown email accepted")
	}
}

func TestTokenResolvesBackToUser(t *testing.T) {
	svc, err := NewAuthService(testAuthConfig(), storage.NewMemorySlot(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	_, token, _, err := svc.Login(context.Background(), "jan.kowalski@example.pl", "client")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	user, ok := svc.UserByID(claims.UserID)
	if !ok || user.Role != domain.RoleClient {
		t.Errorf("resolved user = %+v", user)
	}
}
