package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arudra/payslipgen/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("all-since-joining")
	require.NoError(t, err)
	assert.Equal(t, ModeAllSinceJoining, m)

	_, err = ParseMode("everything")
	assert.Error(t, err)
}

func TestPeriodsFor(t *testing.T) {
	t.Run("all since joining is inclusive on both ends", func(t *testing.T) {
		rec := models.EmployeeRecord{ID: "AA001", JoinDate: date(2023, time.June, 15)}

		periods := PeriodsFor(rec, ModeAllSinceJoining, date(2023, time.August, 1))

		require.Len(t, periods, 3)
		assert.Equal(t, "2023-06", periods[0].String())
		assert.Equal(t, "2023-07", periods[1].String())
		assert.Equal(t, "2023-08", periods[2].String())
	})

	t.Run("mid-month join counts the whole month", func(t *testing.T) {
		rec := models.EmployeeRecord{ID: "AA001", JoinDate: date(2023, time.June, 30)}

		periods := PeriodsFor(rec, ModeAllSinceJoining, date(2023, time.June, 1))

		require.Len(t, periods, 1)
		assert.Equal(t, "2023-06", periods[0].String())
	})

	t.Run("current month only", func(t *testing.T) {
		rec := models.EmployeeRecord{ID: "AA001", JoinDate: date(2023, time.January, 2)}

		periods := PeriodsFor(rec, ModeCurrentMonthOnly, date(2023, time.August, 20))

		require.Len(t, periods, 1)
		assert.Equal(t, "2023-08", periods[0].String())
	})

	t.Run("not yet joined yields nothing", func(t *testing.T) {
		rec := models.EmployeeRecord{ID: "AA001", JoinDate: date(2023, time.September, 1)}

		assert.Empty(t, PeriodsFor(rec, ModeCurrentMonthOnly, date(2023, time.August, 1)))
		assert.Empty(t, PeriodsFor(rec, ModeAllSinceJoining, date(2023, time.August, 1)))
	})

	t.Run("spans a year boundary", func(t *testing.T) {
		rec := models.EmployeeRecord{ID: "AA001", JoinDate: date(2022, time.November, 5)}

		periods := PeriodsFor(rec, ModeAllSinceJoining, date(2023, time.February, 28))

		require.Len(t, periods, 4)
		assert.Equal(t, "2022-11", periods[0].String())
		assert.Equal(t, "2023-02", periods[3].String())
	})

	t.Run("recomputed identically on each call", func(t *testing.T) {
		rec := models.EmployeeRecord{ID: "AA001", JoinDate: date(2023, time.March, 10)}
		asOf := date(2023, time.July, 4)

		first := PeriodsFor(rec, ModeAllSinceJoining, asOf)
		second := PeriodsFor(rec, ModeAllSinceJoining, asOf)

		assert.Equal(t, first, second)
	})
}
