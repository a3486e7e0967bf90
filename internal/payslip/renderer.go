// Package payslip renders a computed breakdown into the payslip PDF.
package payslip

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arudra/payslipgen/internal/models"
)

// Branding is the static company identity printed on every payslip.
type Branding struct {
	CompanyName    string
	CompanyAddress string // newline-separated lines
	LogoPath       string // optional PNG/JPG; absent logo is skipped
	Currency       string // e.g. "INR"
}

// RenderError reports a failed render with enough context to act on.
type RenderError struct {
	EmployeeID string
	Period     models.Period
	Err        error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render failed for employee %s period %s: %v", e.EmployeeID, e.Period, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Renderer draws payslips in the company layout.
type Renderer struct {
	branding Branding
	logger   *zap.Logger
}

// NewRenderer creates a renderer for the given branding.
func NewRenderer(branding Branding, logger *zap.Logger) *Renderer {
	if branding.Currency == "" {
		branding.Currency = "INR"
	}
	return &Renderer{branding: branding, logger: logger}
}

// Layout constants, all in millimetres on A4 portrait.
const (
	pageWidth  = 210.0
	marginLeft = 14.0
	marginTop  = 16.0
	usableW    = pageWidth - 2*marginLeft
)

// Render draws the payslip for one breakdown and returns the PDF bytes.
func (r *Renderer) Render(rec models.EmployeeRecord, b models.Breakdown) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	y := marginTop

	// Header: "PAYSLIP AUGUST 2023"
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Text(marginLeft, y, "PAYSLIP")
	titleW := pdf.GetStringWidth("PAYSLIP")
	pdf.SetTextColor(0x50, 0x50, 0x50)
	pdf.SetFont("Helvetica", "", 18)
	pdf.Text(marginLeft+titleW, y, " "+strings.ToUpper(b.Period.Label()))
	y += 7

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(marginLeft, y, strings.ToUpper(r.branding.CompanyName))
	y += 5
	pdf.SetFont("Helvetica", "", 8)
	for _, line := range strings.Split(r.branding.CompanyAddress, "\n") {
		pdf.Text(marginLeft, y, strings.TrimSpace(line))
		y += 4
	}

	r.drawLogo(pdf)
	y += 8

	// Employee name over a heavy rule.
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(marginLeft, y, strings.ToUpper(rec.FullName))
	y += 3
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, y, marginLeft+usableW, y)
	y += 6

	y = r.drawDetailGrid(pdf, y, [4]string{"Employee Number", "Date Joined", "Department", "Sub Department"}, [4]string{
		rec.ID,
		strings.ToUpper(rec.JoinDate.Format("02 Jan 2006")),
		orNA(rec.Department),
		orNA(rec.SubDepartment),
	})
	y = r.drawDetailGrid(pdf, y, [4]string{"Designation", "Payment Mode", "Bank", "Bank IFSC"}, [4]string{
		orNA(rec.Designation), orNA(rec.PaymentMode), orNA(rec.Bank), orNA(rec.BankIFSC),
	})
	y = r.drawDetailGrid(pdf, y, [4]string{"Bank Account", "PAN", "UAN", "PF Number"}, [4]string{
		orNA(rec.BankAccount), orNA(rec.PAN), orNA(rec.UAN), orNA(rec.PFNumber),
	})
	y += 4

	y = r.drawDaysTable(pdf, y, rec)
	y += 6

	y = r.drawColumns(pdf, y, b)

	// Net payable over a heavy rule.
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, y, marginLeft+usableW, y)
	y += 6

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(marginLeft, y, "Net Salary Payable (A-C)")
	r.textRight(pdf, marginLeft+usableW, y, formatAmount(b.Net))
	y += 7

	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(marginLeft, y, "Net Salary in words")
	words := AmountInWords(b.Net.RoundBank(0).IntPart()) + " only"
	r.textRight(pdf, marginLeft+usableW, y, words)
	y += 14

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(0x50, 0x50, 0x50)
	pdf.Text(marginLeft, y, fmt.Sprintf("Note: All amounts displayed in this payslip are in %s", r.branding.Currency))
	pdf.Text(marginLeft, y+5, "This is computer generated statement, does not require signature.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{EmployeeID: rec.ID, Period: b.Period, Err: err}
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawLogo(pdf *gofpdf.Fpdf) {
	if r.branding.LogoPath == "" {
		return
	}
	if _, err := os.Stat(r.branding.LogoPath); err != nil {
		r.logger.Warn("Logo not found, rendering without it",
			zap.String("path", r.branding.LogoPath))
		return
	}
	opts := gofpdf.ImageOptions{ReadDpi: true}
	pdf.ImageOptions(r.branding.LogoPath, pageWidth-marginLeft-30, marginTop-6, 30, 0, false, opts, 0, "")
}

func (r *Renderer) drawDetailGrid(pdf *gofpdf.Fpdf, y float64, labels, values [4]string) float64 {
	colW := usableW / 4

	pdf.SetTextColor(0x85, 0x85, 0x85)
	pdf.SetFont("Helvetica", "", 7)
	for i, label := range labels {
		pdf.Text(marginLeft+float64(i)*colW, y, label)
	}
	y += 4

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 9)
	for i, value := range values {
		pdf.Text(marginLeft+float64(i)*colW, y, value)
	}
	y += 3

	pdf.SetDrawColor(0xDC, 0xDC, 0xDC)
	pdf.SetLineWidth(0.2)
	pdf.Line(marginLeft, y, marginLeft+usableW, y)
	return y + 5
}

func (r *Renderer) drawDaysTable(pdf *gofpdf.Fpdf, y float64, rec models.EmployeeRecord) float64 {
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, y, marginLeft+usableW, y)
	y += 5

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(marginLeft, y, "SALARY DETAILS")
	y += 3
	pdf.SetLineWidth(0.2)
	pdf.SetDrawColor(0xDC, 0xDC, 0xDC)
	pdf.Line(marginLeft, y, marginLeft+usableW, y)
	y += 5

	lossOfPay := rec.TotalWorkingDays.Sub(rec.PayableDays)
	headers := []string{"Actual Payable Days", "Total Working Days", "Loss of Pay Days", "Days Payable"}
	values := []string{
		rec.PayableDays.String(),
		rec.TotalWorkingDays.String(),
		lossOfPay.String(),
		rec.PayableDays.String(),
	}

	colW := usableW / float64(len(headers))
	pdf.SetTextColor(0x85, 0x85, 0x85)
	pdf.SetFont("Helvetica", "", 7)
	for i, h := range headers {
		pdf.Text(marginLeft+float64(i)*colW, y, h)
	}
	y += 4
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 9)
	for i, v := range values {
		pdf.Text(marginLeft+float64(i)*colW, y, v)
	}
	y += 3
	pdf.SetDrawColor(0xDC, 0xDC, 0xDC)
	pdf.Line(marginLeft, y, marginLeft+usableW, y)
	return y + 5
}

// drawColumns draws the EARNINGS and TAXES & DEDUCTIONS columns and returns
// the y position below the taller of the two.
func (r *Renderer) drawColumns(pdf *gofpdf.Fpdf, y float64, b models.Breakdown) float64 {
	colW := usableW / 2
	leftX := marginLeft
	rightX := marginLeft + colW + 5

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(leftX, y, "EARNINGS")
	pdf.Text(rightX, y, "TAXES & DEDUCTIONS")

	divTop := y + 2
	yEarn := y + 7
	pdf.SetFont("Helvetica", "", 8.5)
	for _, line := range b.Earnings {
		pdf.Text(leftX, yEarn, line.Label)
		r.textRight(pdf, leftX+colW-4, yEarn, formatAmount(line.Amount))
		yEarn += 5
	}
	pdf.SetFont("Helvetica", "B", 9)
	yEarn += 3
	pdf.Text(leftX, yEarn, "Total Earnings (A)")
	r.textRight(pdf, leftX+colW-4, yEarn, formatAmount(b.Gross))

	yDed := y + 7
	pdf.SetFont("Helvetica", "", 8.5)
	for _, line := range b.Deductions {
		pdf.Text(rightX, yDed, line.Label)
		r.textRight(pdf, marginLeft+usableW-4, yDed, formatAmount(line.Amount))
		yDed += 5
	}
	pdf.SetFont("Helvetica", "B", 9)
	yDed += 3
	pdf.Text(rightX, yDed, "Total Deductions (C)")
	r.textRight(pdf, marginLeft+usableW-4, yDed, formatAmount(b.TotalDeductions))

	bottom := yEarn
	if yDed > bottom {
		bottom = yDed
	}

	pdf.SetDrawColor(0xDC, 0xDC, 0xDC)
	pdf.SetLineWidth(0.3)
	pdf.Line(marginLeft+colW, divTop, marginLeft+colW, bottom)

	return bottom + 8
}

func (r *Renderer) textRight(pdf *gofpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s), y, s)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// formatAmount renders a decimal as "1,234.56".
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, ",") + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
