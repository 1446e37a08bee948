// Package engine implements the budget-planning core: calendar weighting,
// unpaid-bill liability, disposable income, posture plans and burn-rate
// runway. Every function is pure and total over well-typed input; "today"
// is always injected so results are deterministic and testable.
package engine

import (
	"math"
	"time"

	"github.com/masareefy/masareefy-engine-go/internal/domain"
)

// DefaultSalaryIntervalDays is used when the profile has no salary interval.
const DefaultSalaryIntervalDays = 30

// IsWeekendDay classifies a single day under the given weekend convention.
func IsWeekendDay(day time.Time, conv domain.WeekendConvention) bool {
	wd := day.Weekday()
	if conv == domain.WeekendFriSat {
		return wd == time.Friday || wd == time.Saturday
	}
	return wd == time.Saturday || wd == time.Sunday
}

// MonthKey returns the YYYY-MM key of t, used for paid-this-month checks.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// ComputeCalendarWindow counts the days between today and the next salary
// and splits them into weekdays and weekend days.
//
// A missing or stale next-salary date (not strictly after today) is
// synthesized as today + intervalDays. DaysRemaining is floored at 1 so a
// payday-today snapshot still yields a one-day budget window and downstream
// divisors are never zero.
func ComputeCalendarWindow(today time.Time, nextSalary *time.Time, intervalDays int, conv domain.WeekendConvention) domain.CalendarWindow {
	if intervalDays <= 0 {
		intervalDays = DefaultSalaryIntervalDays
	}

	salary := today.AddDate(0, 0, intervalDays)
	if nextSalary != nil && nextSalary.After(today) {
		salary = *nextSalary
	}

	days := int(math.Ceil(salary.Sub(today).Hours() / 24))
	if days < 1 {
		days = 1
	}

	window := domain.CalendarWindow{DaysRemaining: days}
	for offset := 0; offset < days; offset++ {
		if IsWeekendDay(today.AddDate(0, 0, offset), conv) {
			window.WeekendCount++
		} else {
			window.WeekdayCount++
		}
	}
	return window
}
