// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the engine/service
// layer from concrete implementations.
package port

import (
	"context"
	"time"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
)

// ProfileFetcher retrieves the user's financial profile.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)
}

// TransactionsFetcher retrieves the user's transaction history.
type TransactionsFetcher interface {
	GetTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
}

// BillsFetcher retrieves the user's recurring bills.
type BillsFetcher interface {
	GetBills(ctx context.Context, userID string) ([]domain.RecurringBill, error)
}

// ReceiptParser invokes the opaque receipt-parsing agent.
type ReceiptParser interface {
	Parse(ctx context.Context, req *domain.ReceiptParseRequest) (*domain.ReceiptParseResult, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// PlanStore persists the user's selected plan. Only the selected type and
// its daily limit are written; generated plans are never stored.
type PlanStore interface {
	SaveSelectedPlan(ctx context.Context, userID string, planType domain.PlanType, dailyLimit float64) error
}

// BillStore defines the bill mutation operations.
type BillStore interface {
	BillsFetcher
	CreateBill(ctx context.Context, userID string, bill *domain.RecurringBill) (*domain.RecurringBill, error)
	MarkBillPaid(ctx context.Context, userID, billID, paidDate string) (*domain.RecurringBill, error)
	DeleteBill(ctx context.Context, userID, billID string) error
}

// AuthStore defines the data operations for the token layer.
type AuthStore interface {
	GetCredentialsByEmail(ctx context.Context, email string) (*domain.AuthCredential, error)
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)

	StoreRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*domain.AuthRefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID string) error
}
