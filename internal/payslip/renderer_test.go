package payslip

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arudra/payslipgen/internal/models"
)

func sampleBreakdown(t *testing.T) (models.EmployeeRecord, models.Breakdown) {
	t.Helper()
	period, err := models.ParsePeriod("2023-08")
	require.NoError(t, err)

	rec := models.EmployeeRecord{
		ID:               "AA001",
		FullName:         "Arun Kumar",
		Email:            "arun@example.com",
		JoinDate:         time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC),
		BaseSalary:       decimal.NewFromInt(50000),
		Department:       "Design",
		Designation:      "Graphic Designer",
		TotalWorkingDays: decimal.NewFromInt(20),
		PayableDays:      decimal.NewFromInt(19),
	}
	b := models.Breakdown{
		EmployeeID: "AA001",
		Period:     period,
		Earnings: []models.Line{
			{Label: "Basic", Amount: decimal.NewFromInt(50000)},
			{Label: "HRA", Amount: decimal.NewFromInt(10000)},
		},
		Deductions: []models.Line{
			{Label: "Tax", Amount: decimal.NewFromInt(6000)},
		},
		Gross:           decimal.NewFromInt(60000),
		TotalDeductions: decimal.NewFromInt(6000),
		Net:             decimal.NewFromInt(54000),
	}
	return rec, b
}

func TestRender(t *testing.T) {
	logger := zap.NewNop()

	t.Run("produces a PDF document", func(t *testing.T) {
		rec, b := sampleBreakdown(t)
		r := NewRenderer(Branding{
			CompanyName:    "Arun Arudra",
			CompanyAddress: "Arudra Nagar\nBengaluru - 560 000",
		}, logger)

		data, err := r.Render(rec, b)
		require.NoError(t, err)
		require.NotEmpty(t, data)
		assert.Equal(t, "%PDF", string(data[:4]))
	})

	t.Run("missing logo is skipped, not fatal", func(t *testing.T) {
		rec, b := sampleBreakdown(t)
		r := NewRenderer(Branding{
			CompanyName: "Arun Arudra",
			LogoPath:    "does/not/exist.png",
		}, logger)

		data, err := r.Render(rec, b)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		rec, b := sampleBreakdown(t)
		r := NewRenderer(Branding{CompanyName: "Arun Arudra"}, logger)

		first, err := r.Render(rec, b)
		require.NoError(t, err)
		second, err := r.Render(rec, b)
		require.NoError(t, err)
		assert.Equal(t, len(first), len(second))
	})
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"54000", "54,000.00"},
		{"578400.5", "578,400.50"},
		{"1234567.89", "1,234,567.89"},
		{"-500", "-500.00"},
		{"999", "999.00"},
	}
	for _, tc := range cases {
		d, err := decimal.NewFromString(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, formatAmount(d), "in=%s", tc.in)
	}
}
