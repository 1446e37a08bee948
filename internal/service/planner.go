package service

import (
	"context"
	"fmt"
	"time"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
	"github.com/masareefy/masareefy-engine-go/internal/engine"
	"github.com/masareefy/masareefy-engine-go/internal/infra/observability"
	"github.com/masareefy/masareefy-engine-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/planner")

// Planner orchestrates snapshot assembly and the budget computations.
// All money math lives in the engine package; this layer only fetches,
// caches and wires.
type Planner struct {
	profileClient      port.ProfileFetcher
	transactionsClient port.TransactionsFetcher
	billsClient        port.BillsFetcher
	planStore          port.PlanStore
	cache              port.Cache[*domain.Snapshot]
	metrics            *observability.Metrics
	logger             *zap.Logger

	burnWindowDays int
	now            func() time.Time
}

// NewPlanner creates the planner service with all dependencies injected.
func NewPlanner(
	profile port.ProfileFetcher,
	transactions port.TransactionsFetcher,
	bills port.BillsFetcher,
	planStore port.PlanStore,
	cache port.Cache[*domain.Snapshot],
	metrics *observability.Metrics,
	logger *zap.Logger,
	burnWindowDays int,
) *Planner {
	if burnWindowDays <= 0 {
		burnWindowDays = engine.DefaultBurnWindowDays
	}
	return &Planner{
		profileClient:      profile,
		transactionsClient: transactions,
		billsClient:        bills,
		planStore:          planStore,
		cache:              cache,
		metrics:            metrics,
		logger:             logger,
		burnWindowDays:     burnWindowDays,
		now:                time.Now,
	}
}

// snapshotKey builds the cache key for a user's snapshot.
func snapshotKey(userID string) string {
	return fmt.Sprintf("snapshot:%s", userID)
}

// fetchSnapshot assembles the user snapshot, fetching profile, bills and
// transactions concurrently. Snapshots are cached for the configured TTL;
// writes that change the inputs invalidate the entry.
func (p *Planner) fetchSnapshot(ctx context.Context, userID string) (*domain.Snapshot, error) {
	ctx, span := tracer.Start(ctx, "Planner.fetchSnapshot")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	key := snapshotKey(userID)
	if cached, ok := p.cache.Get(key); ok {
		p.metrics.IncrCacheHit("snapshot")
		return cached, nil
	}
	p.metrics.IncrCacheMiss("snapshot")

	snapshot := &domain.Snapshot{}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := p.profileClient.GetProfile(gCtx, userID)
		if err != nil {
			p.logger.Error("failed to fetch profile",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			p.metrics.IncrExternalError("profile")
			return fmt.Errorf("profile fetch: %w", err)
		}
		snapshot.Profile = profile
		return nil
	})

	g.Go(func() error {
		bills, err := p.billsClient.GetBills(gCtx, userID)
		if err != nil {
			p.logger.Error("failed to fetch bills",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			p.metrics.IncrExternalError("bills")
			return fmt.Errorf("bills fetch: %w", err)
		}
		snapshot.Bills = bills
		return nil
	})

	g.Go(func() error {
		transactions, err := p.transactionsClient.GetTransactions(gCtx, userID)
		if err != nil {
			p.logger.Error("failed to fetch transactions",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			p.metrics.IncrExternalError("transactions")
			return fmt.Errorf("transactions fetch: %w", err)
		}
		snapshot.Transactions = transactions
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.cache.Set(key, snapshot)
	return snapshot, nil
}

// InvalidateSnapshot drops the cached snapshot so the next read recomputes.
func (p *Planner) InvalidateSnapshot(userID string) {
	p.cache.Delete(snapshotKey(userID))
}

// GetPlans computes the budget plans offered to the user right now.
// Plans are derived values and are never persisted.
func (p *Planner) GetPlans(ctx context.Context, userID string) (*domain.PlansResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "Planner.GetPlans")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	start := p.now()
	defer func() {
		p.metrics.RecordRequestDuration("plans", time.Since(start))
	}()

	snapshot, err := p.fetchSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := snapshot.Profile
	today := p.now()
	conv := domain.ConventionForLanguage(profile.Language)

	window := engine.ComputeCalendarWindow(today, profile.NextSalaryDate, profile.SalaryIntervalDays, conv)
	unpaid := engine.ComputeUnpaidBills(snapshot.Bills, engine.MonthKey(today))
	disp := engine.ComputeDisposable(profile.CurrentBalance, unpaid)

	plans := engine.GeneratePlans(
		disp,
		profile.CurrentBalance,
		unpaid,
		window,
		engine.IsWeekendDay(today, conv),
		profile.Language,
	)
	for _, plan := range plans {
		p.metrics.IncrPlanGenerated(plan.Type)
	}

	p.logger.Info("plans generated",
		zap.String("user_id", userID),
		zap.Float64("net_disposable", disp.NetDisposable),
		zap.Bool("is_critical", disp.IsCritical),
		zap.Int("plan_count", len(plans)),
	)

	return &domain.PlansResponse{
		UserID:        userID,
		NetDisposable: disp.NetDisposable,
		IsCritical:    disp.IsCritical,
		Calendar:      &window,
		Plans:         plans,
		GeneratedAt:   today,
	}, nil
}

// SelectPlan persists the user's chosen posture and daily limit, then
// invalidates the snapshot so the dashboard reflects the choice.
func (p *Planner) SelectPlan(ctx context.Context, userID string, req *domain.SelectPlanRequest) error {
	ctx, span := tracer.Start(ctx, "Planner.SelectPlan")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.String("plan.type", string(req.PlanType)),
	)

	if !req.PlanType.Valid() {
		return &domain.ErrValidation{Field: "plan_type", Message: fmt.Sprintf("unknown plan type %q", req.PlanType)}
	}
	if req.DailyLimit < 0 {
		return &domain.ErrValidation{Field: "daily_limit", Message: "must not be negative"}
	}

	if err := p.planStore.SaveSelectedPlan(ctx, userID, req.PlanType, req.DailyLimit); err != nil {
		p.metrics.IncrExternalError("plan-store")
		return err
	}

	p.InvalidateSnapshot(userID)

	p.logger.Info("plan selected",
		zap.String("user_id", userID),
		zap.String("plan_type", string(req.PlanType)),
		zap.Float64("daily_limit", req.DailyLimit),
	)
	return nil
}

// GetDashboard assembles the summary view: balances, disposable position,
// calendar window, burn-rate runway and the low-funds warning.
func (p *Planner) GetDashboard(ctx context.Context, userID string) (*domain.Dashboard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "Planner.GetDashboard")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	start := p.now()
	defer func() {
		p.metrics.RecordRequestDuration("dashboard", time.Since(start))
	}()

	snapshot, err := p.fetchSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := snapshot.Profile
	today := p.now()
	conv := domain.ConventionForLanguage(profile.Language)

	window := engine.ComputeCalendarWindow(today, profile.NextSalaryDate, profile.SalaryIntervalDays, conv)
	unpaid := engine.ComputeUnpaidBills(snapshot.Bills, engine.MonthKey(today))
	disp := engine.ComputeDisposable(profile.CurrentBalance, unpaid)

	runway, err := engine.ComputeBurnRate(snapshot.Transactions, profile.CurrentBalance, today, p.burnWindowDays)
	if err != nil {
		return nil, err
	}

	warn := engine.ShouldWarnLowFunds(runway, window.DaysRemaining)
	if warn {
		p.metrics.IncrLowFundsWarning()
		p.logger.Warn("low funds warning",
			zap.String("user_id", userID),
			zap.Float64("daily_burn", runway.DailyBurn),
			zap.Float64("days_to_zero", runway.DaysToZero),
			zap.Int("days_until_salary", window.DaysRemaining),
		)
	}

	return &domain.Dashboard{
		UserID:          userID,
		GrossBalance:    profile.CurrentBalance,
		SavingsBalance:  profile.SavingsBalance,
		UnpaidBills:     unpaid,
		NetDisposable:   disp.NetDisposable,
		IsCritical:      disp.IsCritical,
		Calendar:        &window,
		Runway:          runway,
		LowFundsWarning: warn,
		Currency:        profile.Currency,
	}, nil
}

// GetTransactions returns the user's transaction history. Reads go through
// the snapshot so the dashboard and the list view agree.
func (p *Planner) GetTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "Planner.GetTransactions")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	snapshot, err := p.fetchSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snapshot.Transactions, nil
}
