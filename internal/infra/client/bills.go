package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
	"github.com/masareefy/masareefy-engine-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
)

// BillsClient fetches recurring bills from the Bills API. It only covers
// reads; bill mutations always go through the Supabase store.
type BillsClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewBillsClient creates a new BillsClient.
func NewBillsClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *BillsClient {
	return &BillsClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

// GetBills fetches recurring bills with retry, circuit breaker, and tracing.
func (c *BillsClient) GetBills(ctx context.Context, userID string) ([]domain.RecurringBill, error) {
	ctx, span := tracer.Start(ctx, "BillsClient.GetBills")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var bills []domain.RecurringBill

	result, err := c.cb.Execute(func() (any, error) {
		var innerErr error
		innerErr = resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/v1/users/%s/bills", c.baseURL, userID)
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
				bills = []domain.RecurringBill{}
				return nil
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("bills API returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&bills)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return bills, nil
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "bills", Err: err}
	}

	return result.([]domain.RecurringBill), nil
}
