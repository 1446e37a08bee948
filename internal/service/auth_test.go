package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
	"github.com/masareefy/masareefy-engine-go/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockAuthStore struct {
	cred    *domain.AuthCredential
	credErr error

	profile *domain.UserProfile

	tokens  map[string]*domain.AuthRefreshToken
	revoked []string
}

func newMockAuthStore() *mockAuthStore {
	return &mockAuthStore{tokens: make(map[string]*domain.AuthRefreshToken)}
}

func (m *mockAuthStore) GetCredentialsByEmail(_ context.Context, _ string) (*domain.AuthCredential, error) {
	if m.credErr != nil {
		return nil, m.credErr
	}
	if m.cred == nil {
		return nil, &domain.ErrUnauthorized{Message: "invalid credentials"}
	}
	return m.cred, nil
}

func (m *mockAuthStore) GetProfile(_ context.Context, userID string) (*domain.UserProfile, error) {
	if m.profile != nil {
		return m.profile, nil
	}
	return &domain.UserProfile{UserID: userID}, nil
}

func (m *mockAuthStore) StoreRefreshToken(_ context.Context, userID, tokenHash string, expiresAt time.Time) error {
	m.tokens[tokenHash] = &domain.AuthRefreshToken{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	}
	return nil
}

func (m *mockAuthStore) GetRefreshToken(_ context.Context, tokenHash string) (*domain.AuthRefreshToken, error) {
	tok, ok := m.tokens[tokenHash]
	if !ok {
		return nil, &domain.ErrUnauthorized{Message: "invalid refresh token"}
	}
	return tok, nil
}

func (m *mockAuthStore) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	m.revoked = append(m.revoked, tokenHash)
	if tok, ok := m.tokens[tokenHash]; ok {
		tok.Revoked = true
	}
	return nil
}

func (m *mockAuthStore) RevokeAllRefreshTokens(_ context.Context, userID string) error {
	for _, tok := range m.tokens {
		if tok.UserID == userID {
			tok.Revoked = true
		}
	}
	return nil
}

func newAuthService(store *mockAuthStore) *service.AuthService {
	return service.NewAuthService(store, "test-secret", 15*time.Minute, 24*time.Hour, zap.NewNop())
}

// --- Tests ---

func TestLogin_Success(t *testing.T) {
	hash, err := service.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	store := newMockAuthStore()
	store.cred = &domain.AuthCredential{UserID: "user-1", Email: "omar@example.com", PasswordHash: hash}
	store.profile = &domain.UserProfile{UserID: "user-1", Name: "Omar"}

	svc := newAuthService(store)

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "Omar@Example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if resp.UserID != "user-1" {
		t.Errorf("expected user-1, got %s", resp.UserID)
	}
	if resp.Name != "Omar" {
		t.Errorf("expected name Omar, got %s", resp.Name)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected a token pair")
	}
	if len(store.tokens) != 1 {
		t.Errorf("expected 1 stored refresh token, got %d", len(store.tokens))
	}

	claims, err := svc.ValidateAccessToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("issued access token did not validate: %v", err)
	}
	if claims.Sub != "user-1" {
		t.Errorf("expected sub user-1, got %s", claims.Sub)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, _ := service.HashPassword("correct-password")

	store := newMockAuthStore()
	store.cred = &domain.AuthCredential{UserID: "user-1", Email: "omar@example.com", PasswordHash: hash}

	svc := newAuthService(store)

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "omar@example.com",
		Password: "wrong-password",
	})

	var unauth *domain.ErrUnauthorized
	if !errors.As(err, &unauth) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newAuthService(newMockAuthStore())

	_, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})

	var unauth *domain.ErrUnauthorized
	if !errors.As(err, &unauth) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	svc := newAuthService(newMockAuthStore())

	_, err := svc.Login(context.Background(), &domain.LoginRequest{})

	var validationErr *domain.ErrValidation
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRefresh_RotatesToken(t *testing.T) {
	hash, _ := service.HashPassword("hunter22")
	store := newMockAuthStore()
	store.cred = &domain.AuthCredential{UserID: "user-1", Email: "omar@example.com", PasswordHash: hash}

	svc := newAuthService(store)

	login, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "omar@example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), &domain.RefreshRequest{
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if refreshed.RefreshToken == login.RefreshToken {
		t.Error("expected a rotated refresh token")
	}
	if len(store.revoked) == 0 {
		t.Error("expected the presented token to be revoked")
	}

	// The old token is single-use; a second redemption must fail.
	_, err = svc.Refresh(context.Background(), &domain.RefreshRequest{
		RefreshToken: login.RefreshToken,
	})
	var unauth *domain.ErrUnauthorized
	if !errors.As(err, &unauth) {
		t.Fatalf("expected unauthorized on token reuse, got %v", err)
	}
}

func TestRefresh_UnknownToken(t *testing.T) {
	svc := newAuthService(newMockAuthStore())

	_, err := svc.Refresh(context.Background(), &domain.RefreshRequest{
		RefreshToken: "deadbeef",
	})

	var unauth *domain.ErrUnauthorized
	if !errors.As(err, &unauth) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	svc := newAuthService(newMockAuthStore())

	_, err := svc.ValidateAccessToken("not.a.jwt")
	var unauth *domain.ErrUnauthorized
	if !errors.As(err, &unauth) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
