package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
	"github.com/masareefy/masareefy-engine-go/internal/infra/resilience"

	"go.opentelemetry.io/otel/attribute"
)

// supabaseBill maps the recurring_bills table.
type supabaseBill struct {
	ID           string  `json:"id,omitempty"`
	UserID       string  `json:"user_id,omitempty"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	LastPaidDate string  `json:"last_paid_date,omitempty"`
}

func (b supabaseBill) toDomain() domain.RecurringBill {
	return domain.RecurringBill{
		ID:           b.ID,
		Name:         b.Name,
		Amount:       b.Amount,
		LastPaidDate: b.LastPaidDate,
	}
}

// GetBills fetches a user's recurring bills.
func (c *Client) GetBills(ctx context.Context, userID string) ([]domain.RecurringBill, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetBills")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var bills []domain.RecurringBill

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("recurring_bills?user_id=eq.%s&order=name.asc", userID)
			body, err := c.doRequest(ctx, http.MethodGet, path, nil)
			if err != nil {
				return err
			}

			if body == nil || string(body) == "[]" {
				bills = []domain.RecurringBill{}
				return nil
			}

			var rows []supabaseBill
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode bills: %w", err)
			}

			bills = make([]domain.RecurringBill, 0, len(rows))
			for _, r := range rows {
				bills = append(bills, r.toDomain())
			}
			return nil
		})
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/bills", Err: err}
	}

	return bills, nil
}

// CreateBill inserts a recurring bill and returns the stored row.
func (c *Client) CreateBill(ctx context.Context, userID string, bill *domain.RecurringBill) (*domain.RecurringBill, error) {
	ctx, span := tracer.Start(ctx, "Supabase.CreateBill")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	payload := supabaseBill{
		UserID: userID,
		Name:   bill.Name,
		Amount: bill.Amount,
	}

	var created *domain.RecurringBill

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := c.doRequest(ctx, http.MethodPost, "recurring_bills", payload)
			if err != nil {
				return err
			}

			var rows []supabaseBill
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode created bill: %w", err)
			}
			if len(rows) == 0 {
				return fmt.Errorf("supabase returned empty representation for created bill")
			}

			b := rows[0].toDomain()
			created = &b
			return nil
		})
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "supabase/bills", Err: err}
	}

	return created, nil
}

// MarkBillPaid stamps last_paid_date on a bill. The user filter guards
// against cross-user updates.
func (c *Client) MarkBillPaid(ctx context.Context, userID, billID, paidDate string) (*domain.RecurringBill, error) {
	ctx, span := tracer.Start(ctx, "Supabase.MarkBillPaid")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("bill.id", billID),
	)

	payload := map[string]string{"last_paid_date": paidDate}

	var updated *domain.RecurringBill

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("recurring_bills?id=eq.%s&user_id=eq.%s", billID, userID)
			body, err := c.doRequest(ctx, http.MethodPatch, path, payload)
			if err != nil {
				return err
			}

			if body == nil || string(body) == "[]" {
				return &domain.ErrNotFound{Resource: "bill", ID: billID}
			}

			var rows []supabaseBill
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("failed to decode updated bill: %w", err)
			}
			if len(rows) == 0 {
				return &domain.ErrNotFound{Resource: "bill", ID: billID}
			}

			b := rows[0].toDomain()
			updated = &b
			return nil
		})
	})

	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil, notFound
		}
		return nil, &domain.ErrExternalService{Service: "supabase/bills", Err: err}
	}

	return updated, nil
}

// DeleteBill removes a bill owned by the user.
func (c *Client) DeleteBill(ctx context.Context, userID, billID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteBill")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("bill.id", billID),
	)

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("recurring_bills?id=eq.%s&user_id=eq.%s", billID, userID)
			_, err := c.doRequest(ctx, http.MethodDelete, path, nil)
			return err
		})
	})

	if err != nil {
		return &domain.ErrExternalService{Service: "supabase/bills", Err: err}
	}

	return nil
}
