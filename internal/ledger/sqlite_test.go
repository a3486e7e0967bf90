package ledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arudra/payslipgen/internal/models"
	"github.com/arudra/payslipgen/pkg/database"
)

func openTestSQL(t *testing.T) *SQLStore {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(filepath.Join(t.TempDir(), "ledger.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrator := database.NewMigrator(db, logger)
	require.NoError(t, migrator.Run(filepath.Join("..", "..", "migrations")))

	store, err := OpenSQL(db, logger)
	require.NoError(t, err)
	return store
}

func TestSQLStore(t *testing.T) {
	t.Run("missing table aborts", func(t *testing.T) {
		logger := zap.NewNop()
		db, err := database.New(filepath.Join(t.TempDir(), "empty.db"), logger)
		require.NoError(t, err)
		defer db.Close()

		_, err = OpenSQL(db, logger)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("upsert and pending semantics", func(t *testing.T) {
		store := openTestSQL(t)
		p := testPeriod(t, "2023-06")

		assert.True(t, store.IsPending("AA001", p))

		require.NoError(t, store.Record("AA001", p, models.StatusGenerated))
		assert.True(t, store.IsPending("AA001", p))

		require.NoError(t, store.Record("AA001", p, models.StatusSent))
		assert.False(t, store.IsPending("AA001", p))

		// Downgrade attempt leaves the row at sent.
		require.NoError(t, store.Record("AA001", p, models.StatusGenerated))
		assert.False(t, store.IsPending("AA001", p))

		entries := store.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, models.StatusSent, entries[0].Status)
		assert.Equal(t, "2023-06", entries[0].Period.String())
	})

	t.Run("one row per key", func(t *testing.T) {
		store := openTestSQL(t)
		p := testPeriod(t, "2023-07")

		require.NoError(t, store.Record("AA001", p, models.StatusGenerated))
		require.NoError(t, store.Record("AA001", p, models.StatusGenerated))
		require.NoError(t, store.Record("AA001", p, models.StatusSent))

		assert.Len(t, store.Entries(), 1)
	})
}
