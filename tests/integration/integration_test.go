package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
	"github.com/masareefy/masareefy-engine-go/internal/handler"
	"github.com/masareefy/masareefy-engine-go/internal/infra/cache"
	"github.com/masareefy/masareefy-engine-go/internal/infra/client"
	"github.com/masareefy/masareefy-engine-go/internal/infra/observability"
	"github.com/masareefy/masareefy-engine-go/internal/infra/resilience"
	"github.com/masareefy/masareefy-engine-go/internal/service"

	"go.uber.org/zap"
)

type testBackends struct {
	profile      *httptest.Server
	transactions *httptest.Server
	bills        *httptest.Server
}

func (b *testBackends) close() {
	b.profile.Close()
	b.transactions.Close()
	b.bills.Close()
}

// startBackends spins up mock Profile, Transactions and Bills APIs.
func startBackends(t *testing.T, profile domain.UserProfile, transactions []domain.Transaction, bills []domain.RecurringBill) *testBackends {
	t.Helper()
	return &testBackends{
		profile: httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(profile)
		})),
		transactions: httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(transactions)
		})),
		bills: httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(bills)
		})),
	}
}

func newTestRouter(backends *testBackends) http.Handler {
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cb := resilience.NewCircuitBreaker("test")
	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: 10 * time.Millisecond, MaxConcurrency: 10}
	httpClient := &http.Client{Timeout: 5 * time.Second}

	planner := service.NewPlanner(
		client.NewProfileClient(httpClient, backends.profile.URL, cb, cfg),
		client.NewTransactionsClient(httpClient, backends.transactions.URL, cb, cfg),
		client.NewBillsClient(httpClient, backends.bills.URL, cb, cfg),
		noopPlanStore{},
		cache.New[*domain.Snapshot](5*time.Minute),
		metrics,
		logger,
		10,
	)

	return handler.NewRouter(planner, nil, nil, nil, metrics, logger)
}

type noopPlanStore struct{}

func (noopPlanStore) SaveSelectedPlan(_ context.Context, _ string, _ domain.PlanType, _ float64) error {
	return nil
}

// TestIntegration_PlansFlow exercises the full plans request against mocked
// upstream services.
func TestIntegration_PlansFlow(t *testing.T) {
	nextSalary := time.Now().AddDate(0, 0, 10)
	profile := domain.UserProfile{
		UserID:         "user-int-1",
		Name:           "Laila",
		CurrentBalance: 5000,
		SavingsBalance: 2000,
		NextSalaryDate: &nextSalary,
		Language:       "en",
		Currency:       "EGP",
	}
	bills := []domain.RecurringBill{
		{ID: "b-1", Name: "Rent", Amount: 2000}, // unpaid this month
	}

	backends := startBackends(t, profile, nil, bills)
	defer backends.close()

	router := newTestRouter(backends)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/user-int-1/plans", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	var result domain.PlansResponse
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result.NetDisposable != 3000 {
		t.Errorf("expected net disposable 3000, got %f", result.NetDisposable)
	}
	if result.IsCritical {
		t.Error("expected non-critical position")
	}
	if len(result.Plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(result.Plans))
	}
	if result.Plans[0].Type != domain.PlanAusterity {
		t.Errorf("expected austerity first, got %s", result.Plans[0].Type)
	}
	if result.Calendar == nil || result.Calendar.DaysRemaining < 1 {
		t.Error("expected a calendar window with at least one day")
	}
}

// TestIntegration_DashboardFlow exercises the dashboard including burn rate.
func TestIntegration_DashboardFlow(t *testing.T) {
	nextSalary := time.Now().AddDate(0, 0, 10)
	profile := domain.UserProfile{
		UserID:         "user-int-2",
		CurrentBalance: 300,
		SavingsBalance: 1000,
		NextSalaryDate: &nextSalary,
		Language:       "en",
		Currency:       "EGP",
	}
	transactions := []domain.Transaction{
		{ID: "tx-1", Amount: 500, Type: "expense", Date: time.Now().AddDate(0, 0, -2)},
	}

	backends := startBackends(t, profile, transactions, nil)
	defer backends.close()

	router := newTestRouter(backends)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/user-int-2/dashboard", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}

	var dash domain.Dashboard
	if err := json.NewDecoder(rec.Body).Decode(&dash); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if dash.Runway == nil {
		t.Fatal("expected runway")
	}
	if dash.Runway.DailyBurn != 50 {
		t.Errorf("expected daily burn 50, got %f", dash.Runway.DailyBurn)
	}
	if !dash.LowFundsWarning {
		t.Error("expected a low funds warning")
	}
}

// TestIntegration_SelectPlan exercises the plan selection endpoint.
func TestIntegration_SelectPlan(t *testing.T) {
	nextSalary := time.Now().AddDate(0, 0, 10)
	profile := domain.UserProfile{
		UserID:         "user-int-3",
		CurrentBalance: 4000,
		NextSalaryDate: &nextSalary,
	}

	backends := startBackends(t, profile, nil, nil)
	defer backends.close()

	router := newTestRouter(backends)

	body, _ := json.Marshal(domain.SelectPlanRequest{PlanType: domain.PlanBalanced, DailyLimit: 120})
	req := httptest.NewRequest(http.MethodPost, "/v1/users/user-int-3/plans/select", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d. Body: %s", rec.Code, rec.Body.String())
	}
}

// TestIntegration_ProfileNotFound tests 404 handling from the Profile API.
func TestIntegration_ProfileNotFound(t *testing.T) {
	backends := &testBackends{
		profile: httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})),
		transactions: httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]domain.Transaction{})
		})),
		bills: httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]domain.RecurringBill{})
		})),
	}
	defer backends.close()

	router := newTestRouter(backends)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/nonexistent/plans", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d. Body: %s", rec.Code, rec.Body.String())
	}
}
