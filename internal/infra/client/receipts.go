package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
	"github.com/masareefy/masareefy-engine-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
)

// ReceiptAgentClient calls the receipt-parsing agent service. The agent is
// opaque: it receives the raw image payload and returns a structured record.
type ReceiptAgentClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewReceiptAgentClient creates a new ReceiptAgentClient.
func NewReceiptAgentClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *ReceiptAgentClient {
	return &ReceiptAgentClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

// Parse sends the receipt to the agent and returns its structured result.
func (c *ReceiptAgentClient) Parse(ctx context.Context, req *domain.ReceiptParseRequest) (*domain.ReceiptParseResult, error) {
	ctx, span := tracer.Start(ctx, "ReceiptAgentClient.Parse")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", req.UserID))

	var parsed domain.ReceiptParseResult

	result, err := c.cb.Execute(func() (any, error) {
		var innerErr error
		innerErr = resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := json.Marshal(req)
			if err != nil {
				return err
			}

			url := fmt.Sprintf("%s/v1/receipts/parse", c.baseURL)
			httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
			if err != nil {
				return err
			}
			httpReq.Header.Set("Content-Type", "application/json")

			resp, err := c.httpClient.Do(httpReq)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusUnprocessableEntity {
				return &domain.ErrValidation{Field: "image_data", Message: "agent could not read the receipt"}
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("receipt agent returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&parsed)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return &parsed, nil
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "receipt-agent", Err: err}
	}

	return result.(*domain.ReceiptParseResult), nil
}
