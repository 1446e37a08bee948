package engine_test

import (
	"reflect"
	"testing"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
	"github.com/masareefy/masareefy-engine-go/internal/engine"
)

func TestGeneratePlan_Austerity(t *testing.T) {
	// net 800 after 200 of unpaid bills out of a 1000 balance, ten-day
	// window with two weekend days, computed on a weekday.
	plan := engine.GeneratePlan(domain.PlanAusterity, 800, 1000, 200, 8, 2, false, "en")

	// 800 * 0.8 = 640 after buffer, 640 * 0.7 = 448 spendable,
	// divisor 8 + 2*1.0 = 10, floor(44.8) = 44.
	if plan.DailyLimit != 44 {
		t.Errorf("expected daily limit 44, got %f", plan.DailyLimit)
	}
	// (800 - 448) + (1000 - 800 - 200) = 352.
	if plan.MonthlySavingsProjected != 352 {
		t.Errorf("expected projected savings 352, got %f", plan.MonthlySavingsProjected)
	}
}

func TestGeneratePlan_Balanced(t *testing.T) {
	plan := engine.GeneratePlan(domain.PlanBalanced, 800, 1000, 200, 8, 2, false, "en")

	// 800 * 0.9 = 720, 720 * 0.85 = 612, divisor 8 + 2*1.3 = 10.6,
	// floor(612 / 10.6) = floor(57.73...) = 57.
	if plan.DailyLimit != 57 {
		t.Errorf("expected daily limit 57, got %f", plan.DailyLimit)
	}
	if plan.MonthlySavingsProjected != 188 {
		t.Errorf("expected projected savings 188, got %f", plan.MonthlySavingsProjected)
	}
}

func TestGeneratePlan_Comfort(t *testing.T) {
	plan := engine.GeneratePlan(domain.PlanComfort, 800, 1000, 200, 8, 2, false, "en")

	// 800 * 0.95 = 760, no savings cut, divisor 8 + 2*1.6 = 11.2,
	// floor(760 / 11.2) = floor(67.85...) = 67.
	if plan.DailyLimit != 67 {
		t.Errorf("expected daily limit 67, got %f", plan.DailyLimit)
	}
	if plan.MonthlySavingsProjected != 40 {
		t.Errorf("expected projected savings 40, got %f", plan.MonthlySavingsProjected)
	}
}

func TestGeneratePlan_WeekendMultiplierAfterFloor(t *testing.T) {
	plan := engine.GeneratePlan(domain.PlanBalanced, 800, 1000, 200, 8, 2, true, "en")

	// Weekend limit is floor(floor(base) * multiplier): floor(57 * 1.3) = 74,
	// not floor(57.73 * 1.3) = 75.
	if plan.DailyLimit != 74 {
		t.Errorf("expected weekend daily limit 74, got %f", plan.DailyLimit)
	}
}

func TestGeneratePlan_ZeroDisposable(t *testing.T) {
	plan := engine.GeneratePlan(domain.PlanAusterity, 0, 100, 300, 20, 10, false, "en")

	if plan.DailyLimit != 0 {
		t.Errorf("expected daily limit 0, got %f", plan.DailyLimit)
	}
	// The clamp slack term surfaces here: 0 + (100 - 0 - 300) = -200.
	if plan.MonthlySavingsProjected != -200 {
		t.Errorf("expected projected savings -200, got %f", plan.MonthlySavingsProjected)
	}
}

func TestGeneratePlan_ZeroDivisorGuard(t *testing.T) {
	plan := engine.GeneratePlan(domain.PlanComfort, 500, 500, 0, 0, 0, false, "en")

	// Divisor floors at 1, so the whole pool becomes the day's limit.
	if plan.DailyLimit != 475 {
		t.Errorf("expected daily limit 475, got %f", plan.DailyLimit)
	}
}

func TestGeneratePlans_AllThreeInOrder(t *testing.T) {
	disp := engine.ComputeDisposable(1000, 200)

	plans := engine.GeneratePlans(disp, 1000, 200, domain.CalendarWindow{DaysRemaining: 10, WeekdayCount: 8, WeekendCount: 2}, false, "en")

	if len(plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(plans))
	}
	want := []domain.PlanType{domain.PlanAusterity, domain.PlanBalanced, domain.PlanComfort}
	for i, p := range plans {
		if p.Type != want[i] {
			t.Errorf("plan %d: expected %s, got %s", i, want[i], p.Type)
		}
	}
	if !(plans[0].DailyLimit < plans[1].DailyLimit && plans[1].DailyLimit < plans[2].DailyLimit) {
		t.Errorf("expected ascending limits, got %f %f %f",
			plans[0].DailyLimit, plans[1].DailyLimit, plans[2].DailyLimit)
	}
}

func TestGeneratePlans_CriticalOffersOnlyAusterity(t *testing.T) {
	disp := engine.ComputeDisposable(100, 300)

	plans := engine.GeneratePlans(disp, 100, 300, domain.CalendarWindow{DaysRemaining: 10, WeekdayCount: 8, WeekendCount: 2}, false, "en")

	if len(plans) != 1 {
		t.Fatalf("expected 1 plan under critical deficit, got %d", len(plans))
	}
	if plans[0].Type != domain.PlanAusterity {
		t.Errorf("expected austerity, got %s", plans[0].Type)
	}
	if plans[0].DailyLimit != 0 {
		t.Errorf("expected daily limit 0, got %f", plans[0].DailyLimit)
	}
}

func TestGeneratePlans_Deterministic(t *testing.T) {
	disp := engine.ComputeDisposable(1234.56, 321.09)
	window := domain.CalendarWindow{DaysRemaining: 17, WeekdayCount: 12, WeekendCount: 5}

	a := engine.GeneratePlans(disp, 1234.56, 321.09, window, true, "ar")
	b := engine.GeneratePlans(disp, 1234.56, 321.09, window, true, "ar")

	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs must produce identical plans")
	}
}

func TestGeneratePlan_LocalizedText(t *testing.T) {
	en := engine.GeneratePlan(domain.PlanAusterity, 100, 100, 0, 5, 2, false, "en")
	ar := engine.GeneratePlan(domain.PlanAusterity, 100, 100, 0, 5, 2, false, "ar")

	if en.Title == "" || ar.Title == "" {
		t.Fatal("expected localized titles")
	}
	if en.Title == ar.Title {
		t.Error("expected different titles per language")
	}

	// Unknown languages fall back to English.
	fr := engine.GeneratePlan(domain.PlanAusterity, 100, 100, 0, 5, 2, false, "fr")
	if fr.Title != en.Title {
		t.Errorf("expected english fallback, got %q", fr.Title)
	}
}
