package engine

import (
	"time"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
)

// DefaultBurnWindowDays is the trailing window for burn-rate estimation.
const DefaultBurnWindowDays = 10

// lowFundsHorizonDays bounds how far ahead a runway warning may look.
const lowFundsHorizonDays = 10.0

// ComputeBurnRate estimates the average daily spend over the trailing
// windowDays and projects how many days the spending balance lasts at
// that rate. Only expense transactions in the spending wallet count;
// transactions with no wallet tag are treated as spending-wallet.
//
// A nil result means no signal: there were no qualifying expenses in the
// window, so no projection is possible. A non-positive windowDays is a
// caller error and returns a validation error rather than dividing by zero.
func ComputeBurnRate(transactions []domain.Transaction, spendingBalance float64, now time.Time, windowDays int) (*domain.Runway, error) {
	if windowDays <= 0 {
		return nil, &domain.ErrValidation{Field: "window_days", Message: "must be positive"}
	}

	cutoff := now.AddDate(0, 0, -windowDays)

	var spent float64
	for _, t := range transactions {
		if !t.IsExpense() {
			continue
		}
		if t.Wallet != "" && t.Wallet != "spending" {
			continue
		}
		if t.Date.Before(cutoff) {
			continue
		}
		spent += t.Amount
	}

	dailyBurn := spent / float64(windowDays)
	if dailyBurn == 0 {
		return nil, nil
	}

	return &domain.Runway{
		DailyBurn:  dailyBurn,
		DaysToZero: spendingBalance / dailyBurn,
	}, nil
}

// ShouldWarnLowFunds decides whether the presentation layer should surface
// a low-funds alert: the user is projected to hit zero within the next ten
// days and strictly before the next salary arrives.
func ShouldWarnLowFunds(runway *domain.Runway, daysUntilSalary int) bool {
	if runway == nil {
		return false
	}
	return runway.DaysToZero < lowFundsHorizonDays && runway.DaysToZero < float64(daysUntilSalary)
}
