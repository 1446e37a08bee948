package engine

import "github.com/masareefy/masareefy-engine-go/internal/domain"

// ComputeDisposable derives the net spendable position from the gross
// balance and the unpaid-bill total. A negative stored balance is treated
// as zero funds available, never negative disposable. IsCritical flags the
// state where obligations alone exceed the balance; it gates which plans
// are offered downstream.
func ComputeDisposable(grossBalance, unpaidBillsTotal float64) domain.Disposable {
	if grossBalance < 0 {
		grossBalance = 0
	}

	net := grossBalance - unpaidBillsTotal
	if net < 0 {
		net = 0
	}

	return domain.Disposable{
		NetDisposable: net,
		IsCritical:    grossBalance < unpaidBillsTotal,
	}
}
