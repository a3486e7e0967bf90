package models

import "time"

// SendStatus is the processing state of one (employee, period) key in the
// send-ledger.
type SendStatus string

const (
	// StatusGenerated means the payslip PDF exists but dispatch has not been
	// confirmed. Entries left here are re-attempted on the next run.
	StatusGenerated SendStatus = "generated"
	// StatusSent means dispatch was confirmed. Sent entries are never
	// reprocessed.
	StatusSent SendStatus = "sent"
)

// LedgerEntry records what has happened for one employee and period. The
// ledger holds at most one entry per (EmployeeID, Period) key; a later
// write for the same key overwrites status and timestamp.
type LedgerEntry struct {
	EmployeeID string     `json:"employee_id"`
	Period     Period     `json:"period"`
	Status     SendStatus `json:"status"`
	RecordedAt time.Time  `json:"recorded_at"`
}

// LedgerKey is the canonical string key for an entry, "employeeID|YYYY-MM".
func LedgerKey(employeeID string, period Period) string {
	return employeeID + "|" + period.String()
}
