// Package ledger tracks which payslips have been generated and sent, so a
// re-run never double-emails an employee. Entries are keyed by
// (employee, period); the store must survive process restart.
package ledger

import (
	"errors"

	"github.com/arudra/payslipgen/internal/models"
)

// ErrCorrupt marks an unreadable or malformed ledger at startup. The run
// must abort rather than risk duplicate sends.
var ErrCorrupt = errors.New("send-ledger is corrupt")

// Store is the durable keyed set of processed (employee, period) pairs.
// The model is single-writer, single-process; every Record call is flushed
// durably before it returns.
type Store interface {
	// IsPending reports whether work remains for the key: true when no entry
	// exists, or when the entry is generated but not yet sent.
	IsPending(employeeID string, period models.Period) bool

	// Record upserts the entry for the key. Writing sent after generated
	// transitions the status; writing the same status again, or generated
	// after sent, leaves the ledger unchanged.
	Record(employeeID string, period models.Period, status models.SendStatus) error

	// Entries returns a snapshot of all entries, for inspection and reports.
	Entries() []models.LedgerEntry

	Close() error
}
