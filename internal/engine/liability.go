package engine

import (
	"strings"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
)

// ComputeUnpaidBills sums the bills not yet paid in the month identified by
// monthKey (YYYY-MM). A bill with no last-paid date is always unpaid; one
// paid in a prior month counts at its full amount.
func ComputeUnpaidBills(bills []domain.RecurringBill, monthKey string) float64 {
	var total float64
	for _, b := range bills {
		if b.LastPaidDate == "" || !strings.HasPrefix(b.LastPaidDate, monthKey) {
			total += b.Amount
		}
	}
	return total
}
