package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
	"github.com/masareefy/masareefy-engine-go/internal/infra/resilience"

	"go.opentelemetry.io/otel/attribute"
)

// SaveSelectedPlan writes the chosen posture and its daily limit onto the
// user's profile row. Generated plans themselves are never persisted.
func (c *Client) SaveSelectedPlan(ctx context.Context, userID string, planType domain.PlanType, dailyLimit float64) error {
	ctx, span := tracer.Start(ctx, "Supabase.SaveSelectedPlan")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("plan.type", string(planType)),
	)

	payload := map[string]any{
		"selected_plan_type":   string(planType),
		"selected_daily_limit": dailyLimit,
	}

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			path := fmt.Sprintf("user_profiles?user_id=eq.%s", userID)
			body, err := c.doRequest(ctx, http.MethodPatch, path, payload)
			if err != nil {
				return err
			}
			if body == nil || string(body) == "[]" {
				return &domain.ErrNotFound{Resource: "profile", ID: userID}
			}
			return nil
		})
	})

	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return notFound
		}
		return &domain.ErrExternalService{Service: "supabase/profile", Err: err}
	}

	return nil
}
