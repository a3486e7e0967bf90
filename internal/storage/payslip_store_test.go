package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arudra/payslipgen/internal/models"
)

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"Arun Kumar":        "Arun Kumar",
		"../../etc/passwd":  "etcpasswd",
		"a/b\\c":            "abc",
		"  Priya  Singh  ":  "Priya  Singh",
		"":                  "unnamed",
		"...":               "unnamed",
		"O'Brien (Interim)": "OBrien Interim",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeName(in), "in=%q", in)
	}
}

func TestPayslipStore(t *testing.T) {
	logger := zap.NewNop()
	base := t.TempDir()
	store := NewPayslipStore(base, logger)

	period, err := models.ParsePeriod("2023-06")
	require.NoError(t, err)
	rec := models.EmployeeRecord{ID: "AA001", FullName: "Arun Kumar"}

	path, err := store.Save(rec, period, []byte("%PDF-stub"))
	require.NoError(t, err)

	want := filepath.Join(base, "Arun Kumar", "2023", "June", "Arun Kumar-payslip-June-2023.pdf")
	assert.Equal(t, want, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-stub", string(data))

	// Saving again overwrites in place; re-render is idempotent.
	_, err = store.Save(rec, period, []byte("%PDF-stub2"))
	require.NoError(t, err)
}
