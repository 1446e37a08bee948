package engine

import (
	"math"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
)

// posturePolicy holds the fixed knobs for one budget posture.
type posturePolicy struct {
	BufferPct         float64 // safety buffer removed before anything else
	WeekendMultiplier float64 // weekend allowance relative to a weekday
	SavingsPct        float64 // share of the buffered pool reserved as savings
}

// policies is the constant posture table. Order of application matters:
// buffer first, then savings aggression, and the weekend multiplier is
// applied to the already-floored base daily figure.
var policies = map[domain.PlanType]posturePolicy{
	domain.PlanAusterity: {BufferPct: 0.20, WeekendMultiplier: 1.0, SavingsPct: 0.30},
	domain.PlanBalanced:  {BufferPct: 0.10, WeekendMultiplier: 1.3, SavingsPct: 0.15},
	domain.PlanComfort:   {BufferPct: 0.05, WeekendMultiplier: 1.6, SavingsPct: 0.0},
}

// planText holds the localized title and description per posture.
type planText struct {
	Title       string
	Description string
}

var planTexts = map[domain.PlanType]map[string]planText{
	domain.PlanAusterity: {
		"en": {"Austerity", "Keeps a large safety buffer and saves aggressively. Best when money is tight."},
		"ar": {"خطة التقشف", "تحتفظ بهامش أمان كبير وتدّخر بقوة. الأنسب عندما يكون المال ضيقًا."},
	},
	domain.PlanBalanced: {
		"en": {"Balanced", "Moderate buffer with steady savings and extra room on weekends."},
		"ar": {"الخطة المتوازنة", "هامش معتدل مع ادخار منتظم ومساحة إضافية في عطلة نهاية الأسبوع."},
	},
	domain.PlanComfort: {
		"en": {"Comfort", "Minimal buffer, no forced savings, generous weekend allowance."},
		"ar": {"خطة الراحة", "هامش بسيط دون ادخار إلزامي ومصروف سخي في عطلة نهاية الأسبوع."},
	},
}

func textFor(t domain.PlanType, language string) planText {
	texts := planTexts[t]
	if txt, ok := texts[language]; ok {
		return txt
	}
	return texts["en"]
}

// GeneratePlan produces one posture's daily allowance and projected
// monthly savings from the disposable position and calendar weighting.
//
// The projected savings keeps the historical two-term formula: the share
// deliberately reserved from disposable income, plus any balance slack
// left over by the disposable clamp (zero for well-formed inputs).
func GeneratePlan(t domain.PlanType, netDisposable, grossBalance, unpaidBillsTotal float64, weekdayCount, weekendCount int, todayIsWeekend bool, language string) domain.BudgetPlan {
	p := policies[t]

	afterBuffer := netDisposable * (1 - p.BufferPct)
	spendablePool := afterBuffer * (1 - p.SavingsPct)
	projectedSavings := (netDisposable - spendablePool) + (grossBalance - netDisposable - unpaidBillsTotal)

	weightedDivisor := float64(weekdayCount) + float64(weekendCount)*p.WeekendMultiplier
	if weightedDivisor < 1 {
		weightedDivisor = 1
	}

	baseDaily := math.Floor(spendablePool / weightedDivisor)
	todayLimit := baseDaily
	if todayIsWeekend {
		todayLimit = math.Floor(baseDaily * p.WeekendMultiplier)
	}
	if todayLimit < 0 {
		todayLimit = 0
	}

	txt := textFor(t, language)
	return domain.BudgetPlan{
		Type:                    t,
		DailyLimit:              todayLimit,
		MonthlySavingsProjected: projectedSavings,
		Title:                   txt.Title,
		Description:             txt.Description,
	}
}

// GeneratePlans returns the plans on offer for the current position.
// Under a critical deficit only the austerity plan is produced; otherwise
// all three postures are returned in austerity, balanced, comfort order.
// The gating lives here so callers cannot accidentally surface lifestyle
// plans while obligations exceed funds.
func GeneratePlans(disp domain.Disposable, grossBalance, unpaidBillsTotal float64, window domain.CalendarWindow, todayIsWeekend bool, language string) []domain.BudgetPlan {
	order := []domain.PlanType{domain.PlanAusterity, domain.PlanBalanced, domain.PlanComfort}
	if disp.IsCritical {
		order = order[:1]
	}

	plans := make([]domain.BudgetPlan, 0, len(order))
	for _, t := range order {
		plans = append(plans, GeneratePlan(
			t,
			disp.NetDisposable,
			grossBalance,
			unpaidBillsTotal,
			window.WeekdayCount,
			window.WeekendCount,
			todayIsWeekend,
			language,
		))
	}
	return plans
}
