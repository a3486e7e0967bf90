package models

import (
	"fmt"
	"time"
)

// Period identifies one calendar month, the payroll billing unit.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses the canonical "YYYY-MM" form used in the ledger.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// String returns the canonical "YYYY-MM" form.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Label returns the human form used on payslips and in emails, e.g. "May 2023".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.Month.String(), p.Year)
}

// MonthName returns the English month name, e.g. "May".
func (p Period) MonthName() string {
	return p.Month.String()
}

// Next returns the following calendar month.
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Before reports whether p is strictly earlier than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// After reports whether p is strictly later than other.
func (p Period) After(other Period) bool {
	return other.Before(p)
}

// MarshalText implements encoding.TextMarshaler so periods serialize as
// "YYYY-MM" in JSON, including when used as map keys.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Period) UnmarshalText(text []byte) error {
	parsed, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
