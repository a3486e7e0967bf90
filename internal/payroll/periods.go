package payroll

import (
	"fmt"
	"time"

	"github.com/arudra/payslipgen/internal/models"
)

// Mode selects which pay periods a run considers.
type Mode string

const (
	// ModeCurrentMonthOnly processes only the month containing the as-of date.
	ModeCurrentMonthOnly Mode = "current-month-only"
	// ModeAllSinceJoining processes every month from the employee's join
	// month through the month containing the as-of date.
	ModeAllSinceJoining Mode = "all-since-joining"
)

// ParseMode validates a mode string from configuration or flags.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCurrentMonthOnly, ModeAllSinceJoining:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid mode %q (must be %s or %s)", s, ModeCurrentMonthOnly, ModeAllSinceJoining)
}

// PeriodsFor enumerates the periods to consider for one employee, ascending.
// A join date falling mid-month counts that whole month as the first period.
// An employee whose join month is after the as-of month yields no periods.
// The result is recomputed identically on every call; there is no hidden
// state.
func PeriodsFor(rec models.EmployeeRecord, mode Mode, asOf time.Time) []models.Period {
	joined := models.PeriodOf(rec.JoinDate)
	current := models.PeriodOf(asOf)
	if joined.After(current) {
		return nil
	}

	switch mode {
	case ModeCurrentMonthOnly:
		return []models.Period{current}
	case ModeAllSinceJoining:
		var periods []models.Period
		for p := joined; !p.After(current); p = p.Next() {
			periods = append(periods, p)
		}
		return periods
	}
	return nil
}
