package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
	"github.com/masareefy/masareefy-engine-go/internal/infra/resilience"

	"go.opentelemetry.io/otel/attribute"
)

// supabaseCredential maps the auth_credentials table.
type supabaseCredential struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// supabaseRefreshToken maps the auth_refresh_tokens table.
type supabaseRefreshToken struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
}

// GetCredentialsByEmail looks up a stored credential row by email.
// A miss returns ErrUnauthorized rather than ErrNotFound so callers
// cannot distinguish unknown emails from wrong passwords.
func (c *Client) GetCredentialsByEmail(ctx context.Context, email string) (*domain.AuthCredential, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetCredentialsByEmail")
	defer span.End()

	var cred *domain.AuthCredential

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("auth_credentials?email=eq.%s&limit=1", email)
			body, err := c.doRequest(ctx, http.MethodGet, path, nil)
			if err != nil {
				return err
			}

			if body == nil || string(body) == "[]" {
				return &domain.ErrUnauthorized{Message: "invalid credentials"}
			}

			var rows []supabaseCredential
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode credentials: %w", err)
			}
			if len(rows) == 0 {
				return &domain.ErrUnauthorized{Message: "invalid credentials"}
			}

			cred = &domain.AuthCredential{
				UserID:       rows[0].UserID,
				Email:        rows[0].Email,
				PasswordHash: rows[0].PasswordHash,
			}
			return nil
		})
	})

	if err != nil {
		if unauth, ok := err.(*domain.ErrUnauthorized); ok {
			return nil, unauth
		}
		return nil, &domain.ErrExternalService{Service: "supabase/auth", Err: err}
	}

	return cred, nil
}

// StoreRefreshToken persists a hashed refresh token.
func (c *Client) StoreRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	ctx, span := tracer.Start(ctx, "Supabase.StoreRefreshToken")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	payload := supabaseRefreshToken{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	}

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			_, err := c.doRequest(ctx, http.MethodPost, "auth_refresh_tokens", payload)
			return err
		})
	})

	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/auth", Err: err}
	}
	return nil
}

// GetRefreshToken fetches a refresh token row by its hash.
func (c *Client) GetRefreshToken(ctx context.Context, tokenHash string) (*domain.AuthRefreshToken, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetRefreshToken")
	defer span.End()

	var token *domain.AuthRefreshToken

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("auth_refresh_tokens?token_hash=eq.%s&limit=1", tokenHash)
			body, err := c.doRequest(ctx, http.MethodGet, path, nil)
			if err != nil {
				return err
			}

			if body == nil || string(body) == "[]" {
				return &domain.ErrUnauthorized{Message: "invalid refresh token"}
			}

			var rows []supabaseRefreshToken
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode refresh token: %w", err)
			}
			if len(rows) == 0 {
				return &domain.ErrUnauthorized{Message: "invalid refresh token"}
			}

			token = &domain.AuthRefreshToken{
				ID:        rows[0].ID,
				UserID:    rows[0].UserID,
				TokenHash: rows[0].TokenHash,
				ExpiresAt: rows[0].ExpiresAt,
				Revoked:   rows[0].Revoked,
			}
			return nil
		})
	})

	if err != nil {
		if unauth, ok := err.(*domain.ErrUnauthorized); ok {
			return nil, unauth
		}
		return nil, &domain.ErrExternalService{Service: "supabase/auth", Err: err}
	}

	return token, nil
}

// RevokeRefreshToken marks a single refresh token revoked.
func (c *Client) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	ctx, span := tracer.Start(ctx, "Supabase.RevokeRefreshToken")
	defer span.End()

	payload := map[string]bool{"revoked": true}

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("auth_refresh_tokens?token_hash=eq.%s", tokenHash)
			_, err := c.doRequest(ctx, http.MethodPatch, path, payload)
			return err
		})
	})

	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/auth", Err: err}
	}
	return nil
}

// RevokeAllRefreshTokens revokes every live refresh token for a user.
func (c *Client) RevokeAllRefreshTokens(ctx context.Context, userID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.RevokeAllRefreshTokens")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	payload := map[string]bool{"revoked": true}

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("auth_refresh_tokens?user_id=eq.%s&revoked=eq.false", userID)
			_, err := c.doRequest(ctx, http.MethodPatch, path, payload)
			return err
		})
	})

	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/auth", Err: err}
	}
	return nil
}
