// Package roster reads the employee spreadsheet and normalizes each row
// into an EmployeeRecord. Rows are rejected, never coerced: a bad cell is
// reported with its sheet, row and column and that employee is skipped.
package roster

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/arudra/payslipgen/internal/models"
	"github.com/arudra/payslipgen/internal/payroll"
)

// Column names shared with the template writer. The required set must be
// present in the header row; the rest are optional.
const (
	colEmployeeID  = "Employee ID"
	colFullName    = "FullName"
	colJoinDate    = "Date of Joining"
	colEmail       = "Email"
	colBasic       = "Basic"
	colWorkingDays = "Total Working Days"
	colPayableDays = "Actual Payable Days"
)

var requiredColumns = []string{colEmployeeID, colFullName, colJoinDate, colBasic}

// Display-only columns copied straight onto the payslip.
var displayColumns = map[string]func(*models.EmployeeRecord, string){
	"Department":     func(r *models.EmployeeRecord, v string) { r.Department = v },
	"Sub Department": func(r *models.EmployeeRecord, v string) { r.SubDepartment = v },
	"Designation":    func(r *models.EmployeeRecord, v string) { r.Designation = v },
	"Payment Mode":   func(r *models.EmployeeRecord, v string) { r.PaymentMode = v },
	"Bank":           func(r *models.EmployeeRecord, v string) { r.Bank = v },
	"Bank IFSC":      func(r *models.EmployeeRecord, v string) { r.BankIFSC = v },
	"Bank Account":   func(r *models.EmployeeRecord, v string) { r.BankAccount = v },
	"PAN":            func(r *models.EmployeeRecord, v string) { r.PAN = v },
	"UAN":            func(r *models.EmployeeRecord, v string) { r.UAN = v },
	"PF Number":      func(r *models.EmployeeRecord, v string) { r.PFNumber = v },
}

// Join dates are operator-entered; accept the formats seen in real sheets.
var joinDateLayouts = []string{
	"02-01-2006",
	"2006-01-02",
	"02/01/2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"1-2-06",
}

// Config controls which spreadsheet columns become pay components.
type Config struct {
	Path  string
	Sheet string // empty means the first sheet

	// Ordered column lists; the order here is the payslip rendering order.
	EarningColumns   []string
	DeductionColumns []string
	// ProratedColumns are flat earnings scaled by payable/working days
	// before they reach the calculator.
	ProratedColumns []string
}

// DefaultEarningColumns mirrors the standard payslip layout.
func DefaultEarningColumns() []string {
	return []string{
		"Basic", "HRA", "Special Allowance", "Medical Allowance",
		"Transport Allowance", "Professional Allowance", "Performance Pay",
		"Courier Reimb", "Performance Bonus",
	}
}

// DefaultDeductionColumns mirrors the standard payslip layout.
func DefaultDeductionColumns() []string {
	return []string{"Professional Tax", "PF", "Performance Bonus Recovery"}
}

// DefaultProratedColumns are the salary items tied to days worked.
func DefaultProratedColumns() []string {
	return []string{"Basic", "HRA", "Special Allowance"}
}

// RowError reports exactly which cell made a row unusable.
type RowError struct {
	Sheet  string
	Row    int // 1-based spreadsheet row
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("sheet %q row %d column %q: %v", e.Sheet, e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return payroll.ErrInvalidRecord }

// Loader reads employee records from an xlsx workbook.
type Loader struct {
	cfg    Config
	logger *zap.Logger
}

// NewLoader creates a loader, filling unset column lists with the defaults.
func NewLoader(cfg Config, logger *zap.Logger) *Loader {
	if len(cfg.EarningColumns) == 0 {
		cfg.EarningColumns = DefaultEarningColumns()
	}
	if len(cfg.DeductionColumns) == 0 {
		cfg.DeductionColumns = DefaultDeductionColumns()
	}
	if len(cfg.ProratedColumns) == 0 {
		cfg.ProratedColumns = DefaultProratedColumns()
	}
	return &Loader{cfg: cfg, logger: logger}
}

// Load parses the workbook. It returns the ordered records that parsed
// cleanly, the per-row rejections, and a fatal error when the workbook
// itself is unusable (missing file, missing required column).
func (l *Loader) Load() ([]models.EmployeeRecord, []*RowError, error) {
	f, err := excelize.OpenFile(l.cfg.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open employee workbook %s: %w", l.cfg.Path, err)
	}
	defer f.Close()

	sheet := l.cfg.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, fmt.Errorf("workbook %s has no sheets", l.cfg.Path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	header := make(map[string]int, len(rows[0]))
	for idx, name := range rows[0] {
		header[strings.TrimSpace(name)] = idx
	}
	for _, col := range requiredColumns {
		if _, ok := header[col]; !ok {
			return nil, nil, fmt.Errorf("sheet %q is missing required column %q", sheet, col)
		}
	}

	var (
		records []models.EmployeeRecord
		rejects []*RowError
	)
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header
		if isBlank(row) {
			continue
		}

		rec, rowErr := l.parseRow(sheet, rowNum, header, row)
		if rowErr != nil {
			rejects = append(rejects, rowErr)
			continue
		}
		records = append(records, rec)
	}

	l.logger.Info("Employee roster loaded",
		zap.String("path", l.cfg.Path),
		zap.String("sheet", sheet),
		zap.Int("records", len(records)),
		zap.Int("rejected_rows", len(rejects)))
	return records, rejects, nil
}

func (l *Loader) parseRow(sheet string, rowNum int, header map[string]int, row []string) (models.EmployeeRecord, *RowError) {
	cell := func(col string) string {
		idx, ok := header[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	fail := func(col string, err error) (models.EmployeeRecord, *RowError) {
		return models.EmployeeRecord{}, &RowError{Sheet: sheet, Row: rowNum, Column: col, Err: err}
	}

	rec := models.EmployeeRecord{
		ID:       cell(colEmployeeID),
		FullName: cell(colFullName),
		Email:    cell(colEmail),
	}
	if rec.ID == "" {
		return fail(colEmployeeID, fmt.Errorf("employee ID is empty"))
	}
	if rec.FullName == "" {
		return fail(colFullName, fmt.Errorf("full name is empty"))
	}

	joinDate, err := parseJoinDate(cell(colJoinDate))
	if err != nil {
		return fail(colJoinDate, err)
	}
	rec.JoinDate = joinDate

	base, err := parseAmount(cell(colBasic))
	if err != nil {
		return fail(colBasic, err)
	}
	rec.BaseSalary = base
	if rec.BaseSalary.IsNegative() {
		return fail(colBasic, fmt.Errorf("base salary is negative"))
	}

	rec.TotalWorkingDays, err = parseOptionalAmount(cell(colWorkingDays))
	if err != nil {
		return fail(colWorkingDays, err)
	}
	rec.PayableDays, err = parseOptionalAmount(cell(colPayableDays))
	if err != nil {
		return fail(colPayableDays, err)
	}

	prorated := make(map[string]bool, len(l.cfg.ProratedColumns))
	for _, col := range l.cfg.ProratedColumns {
		prorated[col] = true
	}

	for _, col := range l.cfg.EarningColumns {
		comp, err := parseComponent(col, cell(col))
		if err != nil {
			return fail(col, err)
		}
		if comp == nil {
			continue
		}
		if comp.Kind == models.ComponentPercentOfGross {
			return fail(col, fmt.Errorf("earning component cannot be a percentage of gross"))
		}
		if prorated[col] && comp.Kind == models.ComponentFlat {
			comp.Value = prorate(comp.Value, rec.TotalWorkingDays, rec.PayableDays)
		}
		rec.Earnings = append(rec.Earnings, *comp)
	}

	for _, col := range l.cfg.DeductionColumns {
		comp, err := parseComponent(col, cell(col))
		if err != nil {
			return fail(col, err)
		}
		if comp == nil {
			continue
		}
		rec.Deductions = append(rec.Deductions, *comp)
	}

	for col, set := range displayColumns {
		if v := cell(col); v != "" {
			set(&rec, v)
		}
	}
	return rec, nil
}

// prorate scales a monthly amount by payable/working days. Zero or missing
// working days means no proration.
func prorate(amount, workingDays, payableDays decimal.Decimal) decimal.Decimal {
	if workingDays.IsZero() || !workingDays.IsPositive() {
		return amount
	}
	return amount.Div(workingDays).Mul(payableDays)
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseJoinDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("join date is empty")
	}
	for _, layout := range joinDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized join date %q", s)
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unparsable amount %q", s)
	}
	return d, nil
}

func parseOptionalAmount(s string) (decimal.Decimal, error) {
	if s == "" || strings.EqualFold(s, "N/A") {
		return decimal.Zero, nil
	}
	return parseAmount(s)
}

// parseComponent turns one cell into a pay component. Supported forms:
// a plain number (flat amount), "20% of base", "10% of gross". Empty,
// "N/A" and zero-valued cells yield no component.
func parseComponent(name, s string) (*models.Component, error) {
	if s == "" || strings.EqualFold(s, "N/A") {
		return nil, nil
	}

	if pct, ref, ok := splitPercent(s); ok {
		value, err := parseAmount(pct)
		if err != nil {
			return nil, fmt.Errorf("unparsable percentage %q", s)
		}
		kind := models.ComponentPercentOfBase
		if strings.EqualFold(ref, "gross") {
			kind = models.ComponentPercentOfGross
		}
		return &models.Component{Name: name, Kind: kind, Value: value}, nil
	}

	value, err := parseAmount(s)
	if err != nil {
		return nil, err
	}
	if value.IsZero() {
		return nil, nil
	}
	return &models.Component{Name: name, Kind: models.ComponentFlat, Value: value}, nil
}

// splitPercent matches "<number>% of <base|gross>" and returns the number
// and the reference.
func splitPercent(s string) (pct, ref string, ok bool) {
	idx := strings.Index(s, "%")
	if idx < 0 {
		return "", "", false
	}
	pct = strings.TrimSpace(s[:idx])
	rest := strings.TrimSpace(s[idx+1:])
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "of"))
	switch strings.ToLower(rest) {
	case "base", "gross":
		return pct, strings.ToLower(rest), true
	}
	return "", "", false
}
