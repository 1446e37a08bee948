package engine_test

import (
	"testing"

	"github.com/masareefy/masareefy-engine-go/internal/engine"
)

func TestComputeDisposable_Basic(t *testing.T) {
	d := engine.ComputeDisposable(1000, 200)

	if d.NetDisposable != 800 {
		t.Errorf("expected net 800, got %f", d.NetDisposable)
	}
	if d.IsCritical {
		t.Error("expected non-critical state")
	}
}

func TestComputeDisposable_CriticalDeficit(t *testing.T) {
	d := engine.ComputeDisposable(100, 300)

	if d.NetDisposable != 0 {
		t.Errorf("expected net 0, got %f", d.NetDisposable)
	}
	if !d.IsCritical {
		t.Error("expected critical state when bills exceed balance")
	}
}

func TestComputeDisposable_NegativeBalanceClamped(t *testing.T) {
	d := engine.ComputeDisposable(-250, 100)

	if d.NetDisposable != 0 {
		t.Errorf("expected net 0 for negative balance, got %f", d.NetDisposable)
	}
	if !d.IsCritical {
		t.Error("negative balance with unpaid bills should be critical")
	}
}

func TestComputeDisposable_NeverNegative(t *testing.T) {
	cases := []struct{ gross, unpaid float64 }{
		{0, 0}, {0, 500}, {500, 0}, {500, 500}, {1, 10000},
	}
	for _, c := range cases {
		if d := engine.ComputeDisposable(c.gross, c.unpaid); d.NetDisposable < 0 {
			t.Errorf("gross=%f unpaid=%f: net went negative: %f", c.gross, c.unpaid, d.NetDisposable)
		}
	}
}

func TestComputeDisposable_ZeroBillsNotCritical(t *testing.T) {
	if d := engine.ComputeDisposable(0, 0); d.IsCritical {
		t.Error("zero balance with zero bills should not be critical")
	}
}
