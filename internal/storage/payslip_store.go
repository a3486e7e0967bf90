// Package storage lays out rendered payslips on disk as
// payslips/<employee>/<year>/<month>/<employee>-payslip-<month>-<year>.pdf.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/arudra/payslipgen/internal/models"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9 ._-]`)

// PayslipStore writes rendered documents into the per-employee folder tree.
type PayslipStore struct {
	baseDir string
	logger  *zap.Logger
}

// NewPayslipStore creates a store rooted at baseDir.
func NewPayslipStore(baseDir string, logger *zap.Logger) *PayslipStore {
	return &PayslipStore{baseDir: baseDir, logger: logger}
}

// Path returns where the payslip for this employee and period lives,
// without creating anything.
func (s *PayslipStore) Path(rec models.EmployeeRecord, period models.Period) string {
	name := SanitizeName(rec.FullName)
	file := fmt.Sprintf("%s-payslip-%s-%d.pdf", name, period.MonthName(), period.Year)
	return filepath.Join(s.baseDir, name, fmt.Sprintf("%d", period.Year), period.MonthName(), file)
}

// Save writes the rendered document to its canonical path, creating parent
// folders as needed, and returns that path.
func (s *PayslipStore) Save(rec models.EmployeeRecord, period models.Period, data []byte) (string, error) {
	path := s.Path(rec, period)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create payslip folder: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write payslip: %w", err)
	}

	s.logger.Debug("Payslip written",
		zap.String("employee_id", rec.ID),
		zap.String("path", path))
	return path, nil
}

// SanitizeName makes an employee name safe as a folder and file name
// component. Path separators and traversal sequences are stripped.
func SanitizeName(name string) string {
	safe := unsafeNameChars.ReplaceAllString(name, "")
	safe = strings.Trim(safe, ". ")
	if safe == "" {
		return "unnamed"
	}
	return safe
}
