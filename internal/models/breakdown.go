package models

import "github.com/shopspring/decimal"

// Line is one labelled amount on a payslip. Order follows the configured
// component order and is also the rendering order.
type Line struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Breakdown is the computed earnings/deductions/net for one employee and
// period. It is derived on every run and never stored beyond the rendered
// document.
type Breakdown struct {
	EmployeeID string `json:"employee_id"`
	Period     Period `json:"period"`

	Earnings   []Line `json:"earnings"`
	Deductions []Line `json:"deductions"`

	Gross           decimal.Decimal `json:"gross"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	// Net = Gross - TotalDeductions, exactly. Negative only when deductions
	// legitimately exceed earnings; never clamped.
	Net decimal.Decimal `json:"net"`
}
