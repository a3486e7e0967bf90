package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arudra/payslipgen/internal/models"
)

func testPeriod(t *testing.T, s string) models.Period {
	t.Helper()
	p, err := models.ParsePeriod(s)
	require.NoError(t, err)
	return p
}

func TestFileStore(t *testing.T) {
	logger := zap.NewNop()

	t.Run("missing file starts empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.json")

		store, err := OpenFile(path, logger)
		require.NoError(t, err)

		assert.True(t, store.IsPending("AA001", testPeriod(t, "2023-06")))
		assert.Empty(t, store.Entries())
	})

	t.Run("corrupt file aborts", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		_, err := OpenFile(path, logger)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("pending transitions with status", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.json")
		store, err := OpenFile(path, logger)
		require.NoError(t, err)

		p := testPeriod(t, "2023-06")
		assert.True(t, store.IsPending("AA001", p))

		require.NoError(t, store.Record("AA001", p, models.StatusGenerated))
		assert.True(t, store.IsPending("AA001", p), "generated alone does not satisfy done")

		require.NoError(t, store.Record("AA001", p, models.StatusSent))
		assert.False(t, store.IsPending("AA001", p))
	})

	t.Run("entries survive reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.json")
		store, err := OpenFile(path, logger)
		require.NoError(t, err)

		p := testPeriod(t, "2023-07")
		require.NoError(t, store.Record("AA001", p, models.StatusSent))
		require.NoError(t, store.Record("AA002", p, models.StatusGenerated))
		require.NoError(t, store.Close())

		reopened, err := OpenFile(path, logger)
		require.NoError(t, err)

		assert.False(t, reopened.IsPending("AA001", p))
		assert.True(t, reopened.IsPending("AA002", p), "crash between render and send must be re-attempted")

		entries := reopened.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "AA001", entries[0].EmployeeID)
		assert.Equal(t, models.StatusSent, entries[0].Status)
	})

	t.Run("same-status write leaves ledger unchanged", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.json")
		store, err := OpenFile(path, logger)
		require.NoError(t, err)

		p := testPeriod(t, "2023-08")
		require.NoError(t, store.Record("AA001", p, models.StatusSent))
		first := store.Entries()[0].RecordedAt

		require.NoError(t, store.Record("AA001", p, models.StatusSent))
		assert.Equal(t, first, store.Entries()[0].RecordedAt)
	})

	t.Run("sent is never downgraded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.json")
		store, err := OpenFile(path, logger)
		require.NoError(t, err)

		p := testPeriod(t, "2023-08")
		require.NoError(t, store.Record("AA001", p, models.StatusSent))
		require.NoError(t, store.Record("AA001", p, models.StatusGenerated))

		assert.Equal(t, models.StatusSent, store.Entries()[0].Status)
		assert.False(t, store.IsPending("AA001", p))
	})

	t.Run("no stray temp files after writes", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "ledger.json")
		store, err := OpenFile(path, logger)
		require.NoError(t, err)

		require.NoError(t, store.Record("AA001", testPeriod(t, "2023-06"), models.StatusGenerated))
		require.NoError(t, store.Record("AA001", testPeriod(t, "2023-07"), models.StatusGenerated))

		files, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "ledger.json", files[0].Name())
	})
}
