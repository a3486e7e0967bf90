package ledger

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arudra/payslipgen/internal/models"
	"github.com/arudra/payslipgen/pkg/database"
)

// SQLStore keeps the ledger in a sqlite table with a unique
// (employee_id, period) key. Durability comes from sqlite itself; each
// Record commits before returning.
type SQLStore struct {
	db     *database.DB
	logger *zap.Logger
}

// OpenSQL wraps an already-migrated database as a ledger store.
func OpenSQL(db *database.DB, logger *zap.Logger) (*SQLStore, error) {
	// A missing table means migrations did not run; treat it like a corrupt
	// ledger and abort rather than guess.
	var name string
	err := db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'sent_ledger'",
	).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: sent_ledger table missing", ErrCorrupt)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &SQLStore{db: db, logger: logger}, nil
}

// IsPending implements Store.
func (s *SQLStore) IsPending(employeeID string, period models.Period) bool {
	var status string
	err := s.db.QueryRow(
		"SELECT status FROM sent_ledger WHERE employee_id = ? AND period = ?",
		employeeID, period.String(),
	).Scan(&status)
	if err == sql.ErrNoRows {
		return true
	}
	if err != nil {
		s.logger.Error("Send-ledger lookup failed",
			zap.String("employee_id", employeeID),
			zap.String("period", period.String()),
			zap.Error(err))
		// Treating a failed lookup as pending risks a duplicate send;
		// treating it as done risks silence. Pending work is re-checked
		// before dispatch, so pending is the safer answer.
		return true
	}
	return models.SendStatus(status) != models.StatusSent
}

// Record implements Store. Same monotonic upsert rules as the file store:
// sent is never downgraded and same-status writes leave the row unchanged.
func (s *SQLStore) Record(employeeID string, period models.Period, status models.SendStatus) error {
	query := `
		INSERT INTO sent_ledger (employee_id, period, status, recorded_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(employee_id, period) DO UPDATE SET
			status = excluded.status,
			recorded_at = excluded.recorded_at
		WHERE sent_ledger.status != excluded.status
		  AND sent_ledger.status != 'sent'
	`
	_, err := s.db.Exec(query, employeeID, period.String(), string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record ledger entry for %s %s: %w", employeeID, period, err)
	}
	return nil
}

// Entries implements Store.
func (s *SQLStore) Entries() []models.LedgerEntry {
	rows, err := s.db.Query(
		"SELECT employee_id, period, status, recorded_at FROM sent_ledger ORDER BY employee_id, period",
	)
	if err != nil {
		s.logger.Error("Send-ledger scan failed", zap.Error(err))
		return nil
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		var periodStr, statusStr string
		if err := rows.Scan(&e.EmployeeID, &periodStr, &statusStr, &e.RecordedAt); err != nil {
			s.logger.Error("Send-ledger row scan failed", zap.Error(err))
			return entries
		}
		period, err := models.ParsePeriod(periodStr)
		if err != nil {
			s.logger.Error("Send-ledger row has bad period", zap.String("period", periodStr))
			continue
		}
		e.Period = period
		e.Status = models.SendStatus(statusStr)
		entries = append(entries, e)
	}
	return entries
}

// Close implements Store. The caller owns the underlying database handle.
func (s *SQLStore) Close() error { return nil }
