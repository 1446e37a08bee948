// Package client contains HTTP clients for the standalone data APIs used
// when the service runs without Supabase (local development and tests).
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
	"github.com/masareefy/masareefy-engine-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("client")

// ProfileClient fetches user profile data from the Profile API.
type ProfileClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewProfileClient creates a new ProfileClient.
func NewProfileClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *ProfileClient {
	return &ProfileClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

// GetProfile fetches a user profile with retry, circuit breaker, and tracing.
func (c *ProfileClient) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "ProfileClient.GetProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var profile domain.UserProfile

	result, err := c.cb.Execute(func() (any, error) {
		var innerErr error
		innerErr = resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/v1/users/%s/profile", c.baseURL, userID)
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNotFound {
				return &domain.ErrNotFound{Resource: "profile", ID: userID}
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("profile API returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&profile)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return &profile, nil
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "profile", Err: err}
	}

	return result.(*domain.UserProfile), nil
}
