package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/arudra/payslipgen/internal/models"
)

// FileStore keeps the ledger as a single human-inspectable JSON file, one
// entry per (employee, period) key. Writes go to a temp file in the same
// directory and are renamed into place, so a crash mid-write never leaves a
// corrupt ledger behind.
type FileStore struct {
	path    string
	entries map[string]models.LedgerEntry
	logger  *zap.Logger
}

// OpenFile loads the ledger at path, creating an empty store when the file
// does not exist yet. An unreadable or malformed file is fatal.
func OpenFile(path string, logger *zap.Logger) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		entries: make(map[string]models.LedgerEntry),
		logger:  logger,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Info("Send-ledger not found, starting empty", zap.String("path", path))
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrCorrupt, path, err)
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrCorrupt, path, err)
	}

	logger.Info("Send-ledger loaded",
		zap.String("path", path),
		zap.Int("entries", len(s.entries)))
	return s, nil
}

// IsPending implements Store.
func (s *FileStore) IsPending(employeeID string, period models.Period) bool {
	entry, ok := s.entries[models.LedgerKey(employeeID, period)]
	if !ok {
		return true
	}
	return entry.Status != models.StatusSent
}

// Record implements Store. The upsert is monotonic: generated never
// overwrites sent, and rewriting the current status is a no-op.
func (s *FileStore) Record(employeeID string, period models.Period, status models.SendStatus) error {
	key := models.LedgerKey(employeeID, period)
	if existing, ok := s.entries[key]; ok {
		if existing.Status == status || existing.Status == models.StatusSent {
			return nil
		}
	}

	s.entries[key] = models.LedgerEntry{
		EmployeeID: employeeID,
		Period:     period,
		Status:     status,
		RecordedAt: time.Now().UTC(),
	}
	return s.flush()
}

// Entries implements Store. Entries are ordered by key for stable output.
func (s *FileStore) Entries() []models.LedgerEntry {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]models.LedgerEntry, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.entries[k])
	}
	return out
}

// Close implements Store. All writes are flushed eagerly, so Close has
// nothing left to persist.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode send-ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp ledger file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write send-ledger: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync send-ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp ledger file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace send-ledger: %w", err)
	}
	return nil
}
