package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/arudra/payslipgen/internal/models"
)

// hundred is the divisor for percentage components.
var hundred = decimal.NewFromInt(100)

// Compute derives the payslip breakdown for one employee and period. It is
// a pure function: no side effects, no dependency on prior runs, and the
// same inputs always yield byte-identical amounts.
//
// Evaluation is two-pass: earnings are evaluated and summed first, then
// deductions, so percent-of-gross deductions see the final gross. Every
// amount is rounded to two minor units with round-half-to-even at the point
// of final component evaluation, never earlier.
func Compute(rec models.EmployeeRecord, period models.Period) (models.Breakdown, error) {
	if rec.BaseSalary.IsNegative() {
		return models.Breakdown{}, &RecordError{EmployeeID: rec.ID, Period: period, Err: ErrNegativeBaseSalary}
	}

	b := models.Breakdown{
		EmployeeID: rec.ID,
		Period:     period,
		Gross:      decimal.Zero,
	}

	for _, c := range rec.Earnings {
		var amount decimal.Decimal
		switch c.Kind {
		case models.ComponentFlat:
			amount = c.Value
		case models.ComponentPercentOfBase:
			amount = rec.BaseSalary.Mul(c.Value).Div(hundred)
		case models.ComponentPercentOfGross:
			return models.Breakdown{}, &RecordError{EmployeeID: rec.ID, Period: period, Component: c.Name, Err: ErrGrossPercentEarning}
		default:
			return models.Breakdown{}, &RecordError{EmployeeID: rec.ID, Period: period, Component: c.Name, Err: ErrUnknownComponentKind}
		}
		amount = amount.RoundBank(2)
		b.Earnings = append(b.Earnings, models.Line{Label: c.Name, Amount: amount})
		b.Gross = b.Gross.Add(amount)
	}

	b.TotalDeductions = decimal.Zero
	for _, c := range rec.Deductions {
		var amount decimal.Decimal
		switch c.Kind {
		case models.ComponentFlat:
			amount = c.Value
		case models.ComponentPercentOfBase:
			amount = rec.BaseSalary.Mul(c.Value).Div(hundred)
		case models.ComponentPercentOfGross:
			amount = b.Gross.Mul(c.Value).Div(hundred)
		default:
			return models.Breakdown{}, &RecordError{EmployeeID: rec.ID, Period: period, Component: c.Name, Err: ErrUnknownComponentKind}
		}
		amount = amount.RoundBank(2)
		b.Deductions = append(b.Deductions, models.Line{Label: c.Name, Amount: amount})
		b.TotalDeductions = b.TotalDeductions.Add(amount)
	}

	b.Net = b.Gross.Sub(b.TotalDeductions)
	return b, nil
}
