package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComponentKind selects how a pay component is evaluated.
type ComponentKind string

const (
	// ComponentFlat is a fixed monetary amount.
	ComponentFlat ComponentKind = "flat"
	// ComponentPercentOfBase is a percentage of the employee's base salary.
	ComponentPercentOfBase ComponentKind = "percent_of_base"
	// ComponentPercentOfGross is a percentage of total earnings. Valid for
	// deductions only; it is evaluated after all earnings are summed.
	ComponentPercentOfGross ComponentKind = "percent_of_gross"
)

// Component is one configured earning or deduction. Value holds the flat
// amount for ComponentFlat and the percentage (e.g. 20 for 20%) otherwise.
type Component struct {
	Name  string          `json:"name"`
	Kind  ComponentKind   `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// EmployeeRecord is one normalized row of the employee spreadsheet. It is
// immutable for the duration of a run; edits happen in the spreadsheet
// between runs.
type EmployeeRecord struct {
	ID         string          `json:"id"`
	FullName   string          `json:"full_name"`
	Email      string          `json:"email,omitempty"` // empty disables dispatch
	JoinDate   time.Time       `json:"join_date"`
	BaseSalary decimal.Decimal `json:"base_salary"`

	Earnings   []Component `json:"earnings"`
	Deductions []Component `json:"deductions"`

	// Display-only fields carried onto the rendered payslip.
	Department    string `json:"department,omitempty"`
	SubDepartment string `json:"sub_department,omitempty"`
	Designation   string `json:"designation,omitempty"`
	PaymentMode   string `json:"payment_mode,omitempty"`
	Bank          string `json:"bank,omitempty"`
	BankIFSC      string `json:"bank_ifsc,omitempty"`
	BankAccount   string `json:"bank_account,omitempty"`
	PAN           string `json:"pan,omitempty"`
	UAN           string `json:"uan,omitempty"`
	PFNumber      string `json:"pf_number,omitempty"`

	TotalWorkingDays decimal.Decimal `json:"total_working_days"`
	PayableDays      decimal.Decimal `json:"payable_days"`
}
