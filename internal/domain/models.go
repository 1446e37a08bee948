package domain

import "time"

// ============================================================
// Plan postures
// ============================================================

// PlanType is the closed set of budget postures the engine can produce.
type PlanType string

const (
	PlanAusterity PlanType = "austerity"
	PlanBalanced  PlanType = "balanced"
	PlanComfort   PlanType = "comfort"
)

// Valid reports whether t is one of the known postures.
func (t PlanType) Valid() bool {
	switch t {
	case PlanAusterity, PlanBalanced, PlanComfort:
		return true
	}
	return false
}

// WeekendConvention selects which days count as weekend for the calendar window.
type WeekendConvention int

const (
	// WeekendSatSun is the default Saturday/Sunday weekend.
	WeekendSatSun WeekendConvention = iota
	// WeekendFriSat is the Friday/Saturday weekend used by Arabic locales.
	WeekendFriSat
)

// ConventionForLanguage maps a profile language to its weekend convention.
func ConventionForLanguage(language string) WeekendConvention {
	if language == "ar" {
		return WeekendFriSat
	}
	return WeekendSatSun
}

// ============================================================
// Snapshot (read-only input to the engine)
// ============================================================

// RecurringBill is a fixed monthly obligation.
// A bill counts as paid for a month when LastPaidDate falls inside that
// calendar month (YYYY-MM prefix match on the ISO date).
type RecurringBill struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	LastPaidDate string  `json:"last_paid_date,omitempty"` // YYYY-MM-DD, empty = never paid
}

// Transaction is a single income or expense record. Amount is always stored
// positive; the sign is derived from Type at aggregation time. The engine
// never mutates transactions.
type Transaction struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Vendor      string    `json:"vendor,omitempty"`
	Note        string    `json:"note,omitempty"`
	Type        string    `json:"type"` // income | expense
	Wallet      string    `json:"wallet,omitempty"`
	IsRecurring bool      `json:"is_recurring"`
}

// IsExpense reports whether the transaction reduces the spending balance.
func (t Transaction) IsExpense() bool { return t.Type == "expense" }

// UserProfile is the subset of the user's financial profile the engine reads.
type UserProfile struct {
	UserID              string     `json:"user_id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	CurrentBalance      float64    `json:"current_balance"`
	SavingsBalance      float64    `json:"savings_balance"`
	NextSalaryDate      *time.Time `json:"next_salary_date,omitempty"`
	SalaryIntervalDays  int        `json:"salary_interval_days,omitempty"`
	Language            string     `json:"language"` // "en" | "ar"
	Currency            string     `json:"currency"` // display only
	SelectedPlanType    PlanType   `json:"selected_plan_type,omitempty"`
	SelectedDailyLimit  float64    `json:"selected_daily_limit,omitempty"`
}

// Snapshot bundles everything the planner needs for one computation.
// It is assembled by the snapshot provider and passed by value into the
// pure engine functions; the engine never writes it back.
type Snapshot struct {
	Profile      *UserProfile
	Bills        []RecurringBill
	Transactions []Transaction
}

// ============================================================
// Engine outputs
// ============================================================

// CalendarWindow describes the days between today and the next salary.
type CalendarWindow struct {
	DaysRemaining int `json:"days_remaining"`
	WeekdayCount  int `json:"weekday_count"`
	WeekendCount  int `json:"weekend_count"`
}

// Disposable is the net spendable position after unpaid bills.
type Disposable struct {
	NetDisposable float64 `json:"net_disposable"`
	IsCritical    bool    `json:"is_critical"`
}

// BudgetPlan is one posture's daily allowance and savings projection.
// Plans are recomputed on demand and never persisted; only the selected
// plan type and its daily limit are written back to the profile.
type BudgetPlan struct {
	Type                    PlanType `json:"type"`
	DailyLimit              float64  `json:"daily_limit"`
	MonthlySavingsProjected float64  `json:"monthly_savings_projected"`
	Title                   string   `json:"title"`
	Description             string   `json:"description"`
}

// Runway is the burn-rate projection over the trailing spend window.
type Runway struct {
	DailyBurn  float64 `json:"daily_burn"`
	DaysToZero float64 `json:"days_to_zero"`
}

// ============================================================
// API payloads
// ============================================================

// PlansResponse is returned by GET /v1/users/{userId}/plans.
type PlansResponse struct {
	UserID        string       `json:"user_id"`
	NetDisposable float64      `json:"net_disposable"`
	IsCritical    bool         `json:"is_critical"`
	Calendar      *CalendarWindow `json:"calendar"`
	Plans         []BudgetPlan `json:"plans"`
	GeneratedAt   time.Time    `json:"generated_at"`
}

// SelectPlanRequest persists the user's chosen posture.
type SelectPlanRequest struct {
	PlanType   PlanType `json:"plan_type"`
	DailyLimit float64  `json:"daily_limit"`
}

// Dashboard is returned by GET /v1/users/{userId}/dashboard.
type Dashboard struct {
	UserID          string          `json:"user_id"`
	GrossBalance    float64         `json:"gross_balance"`
	SavingsBalance  float64         `json:"savings_balance"`
	UnpaidBills     float64         `json:"unpaid_bills"`
	NetDisposable   float64         `json:"net_disposable"`
	IsCritical      bool            `json:"is_critical"`
	Calendar        *CalendarWindow `json:"calendar"`
	Runway          *Runway         `json:"runway,omitempty"`
	LowFundsWarning bool            `json:"low_funds_warning"`
	Currency        string          `json:"currency"`
}

// CreateBillRequest creates a recurring bill.
type CreateBillRequest struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// PayBillRequest marks a bill paid. Date defaults to today when empty.
type PayBillRequest struct {
	PaidDate string `json:"paid_date,omitempty"` // YYYY-MM-DD
}

// ============================================================
// Receipt parsing (opaque external agent)
// ============================================================

// ReceiptParseRequest carries the uploaded receipt payload to the agent.
type ReceiptParseRequest struct {
	UserID    string `json:"user_id"`
	ImageData string `json:"image_data"` // base64
	MimeType  string `json:"mime_type"`
	Language  string `json:"language,omitempty"`
}

// ReceiptParseResult is the structured record returned by the agent.
type ReceiptParseResult struct {
	Amount     float64 `json:"amount"`
	Vendor     string  `json:"vendor"`
	Category   string  `json:"category"`
	Date       string  `json:"date"` // YYYY-MM-DD
	Note       string  `json:"note,omitempty"`
	Confidence float64 `json:"confidence"`
}

// TransactionDraft is a parsed receipt promoted to a transaction-shaped
// record awaiting user confirmation in the presentation layer.
type TransactionDraft struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Amount     float64   `json:"amount"`
	Vendor     string    `json:"vendor"`
	Category   string    `json:"category"`
	Date       time.Time `json:"date"`
	Note       string    `json:"note,omitempty"`
	Type       string    `json:"type"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// ============================================================
// Auth
// ============================================================

// LoginRequest authenticates with email and password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest exchanges a refresh token for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse carries the issued token pair.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
}

// AuthCredential is the stored credential row for a user.
type AuthCredential struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}

// AuthRefreshToken is a stored (hashed) refresh token.
type AuthRefreshToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
}

// ============================================================
// Operational
// ============================================================

// SuccessResponse is a generic ok payload.
type SuccessResponse struct {
	Message string `json:"message"`
}

// ServiceHealth describes one dependency's health.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"` // healthy | degraded | unhealthy
	LatencyMs   int64  `json:"latency_ms"`
	LastChecked string `json:"last_checked"`
}

// HealthStatus is the /healthz payload.
type HealthStatus struct {
	Status   string          `json:"status"`
	Services []ServiceHealth `json:"services"`
}

// EngineMetrics is the aggregated snapshot for GET /v1/metrics/engine.
type EngineMetrics struct {
	TotalRequests    int64              `json:"total_requests"`
	ErrorRate        float64            `json:"error_rate"`
	CacheHitRate     float64            `json:"cache_hit_rate"`
	PlansByPosture   map[string]float64 `json:"plans_by_posture"`
	LowFundsWarnings float64            `json:"low_funds_warnings"`
	Period           string             `json:"period"`
}
