package payroll

import (
	"errors"
	"fmt"

	"github.com/arudra/payslipgen/internal/models"
)

// Domain errors for payroll computation

var (
	// ErrInvalidRecord marks bad input data. Processing of that employee
	// stops; the batch continues.
	ErrInvalidRecord = errors.New("invalid employee record")

	ErrNegativeBaseSalary   = fmt.Errorf("%w: negative base salary", ErrInvalidRecord)
	ErrUnknownComponentKind = fmt.Errorf("%w: unknown component kind", ErrInvalidRecord)
	// ErrGrossPercentEarning rejects percent-of-gross earning components;
	// gross does not exist until earnings are summed.
	ErrGrossPercentEarning = fmt.Errorf("%w: earning component cannot reference gross", ErrInvalidRecord)
)

// RecordError wraps a computation failure with enough context to act on it
// without re-running with added diagnostics.
type RecordError struct {
	EmployeeID string
	Period     models.Period
	Component  string
	Err        error
}

func (e *RecordError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("employee %s period %s component %q: %v", e.EmployeeID, e.Period, e.Component, e.Err)
	}
	return fmt.Sprintf("employee %s period %s: %v", e.EmployeeID, e.Period, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
