// Package supabase provides a client for Supabase (PostgREST + Auth).
// Used as the real data backend for user profiles, recurring bills,
// transactions and credentials.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
	"github.com/masareefy/masareefy-engine-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("supabase")

// Client wraps HTTP calls to Supabase PostgREST API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	serviceRoleKey string
	cb             *gobreaker.CircuitBreaker
	cfg            resilience.Config
	logger         *zap.Logger
}

// NewClient creates a Supabase client.
func NewClient(httpClient *http.Client, baseURL, apiKey, serviceRoleKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         apiKey,
		serviceRoleKey: serviceRoleKey,
		cb:             cb,
		cfg:            cfg,
		logger:         logger,
	}
}

// doRequest executes an authenticated request to Supabase PostgREST.
// A nil payload sends no body.
func (c *Client) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	url := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, path)

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		c.logger.Error("supabase: failed to create request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.serviceRoleKey))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("supabase: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("supabase: failed to read response body",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return nil, nil // no data
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("supabase: non-2xx response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return nil, fmt.Errorf("supabase returned status %d: %s", resp.StatusCode, string(body))
	}

	c.logger.Debug("supabase: request OK",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	return body, nil
}

// --- Profile API (implements port.ProfileFetcher) ---

// supabaseProfile maps Supabase table columns to our domain.
type supabaseProfile struct {
	ID                 string  `json:"id"`
	UserID             string  `json:"user_id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	CurrentBalance     float64 `json:"current_balance"`
	SavingsBalance     float64 `json:"savings_balance"`
	NextSalaryDate     string  `json:"next_salary_date"`
	SalaryIntervalDays int     `json:"salary_interval_days"`
	Language           string  `json:"language"`
	Currency           string  `json:"currency"`
	SelectedPlanType   string  `json:"selected_plan_type"`
	SelectedDailyLimit float64 `json:"selected_daily_limit"`
}

func (p supabaseProfile) toDomain() *domain.UserProfile {
	profile := &domain.UserProfile{
		UserID:             p.UserID,
		Name:               p.Name,
		Email:              p.Email,
		CurrentBalance:     p.CurrentBalance,
		SavingsBalance:     p.SavingsBalance,
		SalaryIntervalDays: p.SalaryIntervalDays,
		Language:           p.Language,
		Currency:           p.Currency,
		SelectedPlanType:   domain.PlanType(p.SelectedPlanType),
		SelectedDailyLimit: p.SelectedDailyLimit,
	}
	if p.NextSalaryDate != "" {
		if t, err := parseISODate(p.NextSalaryDate); err == nil {
			profile.NextSalaryDate = &t
		}
	}
	return profile
}

// GetProfile fetches a user's financial profile from Supabase.
func (c *Client) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var profile *domain.UserProfile

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("user_profiles?user_id=eq.%s&limit=1", userID)
			body, err := c.doRequest(ctx, http.MethodGet, path, nil)
			if err != nil {
				return err
			}

			if body == nil || string(body) == "[]" {
				return &domain.ErrNotFound{Resource: "profile", ID: userID}
			}

			var profiles []supabaseProfile
			if err := json.Unmarshal(body, &profiles); err != nil {
				return fmt.Errorf("failed to decode profile: %w", err)
			}

			if len(profiles) == 0 {
				return &domain.ErrNotFound{Resource: "profile", ID: userID}
			}

			profile = profiles[0].toDomain()
			return nil
		})
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/profile", Err: err}
	}

	return profile, nil
}

// --- Transactions API (implements port.TransactionsFetcher) ---

// supabaseTransaction maps Supabase table columns.
type supabaseTransaction struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Vendor      string  `json:"vendor"`
	Note        string  `json:"note"`
	Wallet      string  `json:"wallet"`
	IsRecurring bool    `json:"is_recurring"`
}

// GetTransactions fetches a user's transactions from Supabase, most recent first.
func (c *Client) GetTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetTransactions")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var transactions []domain.Transaction

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("user_transactions?user_id=eq.%s&order=date.desc&limit=200", userID)
			body, err := c.doRequest(ctx, http.MethodGet, path, nil)
			if err != nil {
				return err
			}

			if body == nil || string(body) == "[]" {
				transactions = []domain.Transaction{}
				return nil
			}

			var rows []supabaseTransaction
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode transactions: %w", err)
			}

			transactions = make([]domain.Transaction, 0, len(rows))
			for _, r := range rows {
				t, err := parseISODate(r.Date)
				if err != nil {
					return &domain.ErrValidation{Field: "date", Message: fmt.Sprintf("malformed transaction date %q", r.Date)}
				}
				transactions = append(transactions, domain.Transaction{
					ID:          r.ID,
					Date:        t,
					Amount:      r.Amount,
					Type:        r.Type,
					Category:    r.Category,
					Vendor:      r.Vendor,
					Note:        r.Note,
					Wallet:      r.Wallet,
					IsRecurring: r.IsRecurring,
				})
			}
			return nil
		})
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/transactions", Err: err}
	}

	return transactions, nil
}

// parseISODate accepts RFC3339 datetimes or bare calendar dates.
func parseISODate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
