// Package workflow drives one payslip batch run: every employee times every
// pending period, gated by the send-ledger.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/arudra/payslipgen/internal/ledger"
	"github.com/arudra/payslipgen/internal/mailer"
	"github.com/arudra/payslipgen/internal/models"
	"github.com/arudra/payslipgen/internal/payroll"
	"github.com/arudra/payslipgen/internal/roster"
)

// Loader supplies the ordered employee records for a run.
type Loader interface {
	Load() ([]models.EmployeeRecord, []*roster.RowError, error)
}

// Renderer turns a breakdown into a finished document.
type Renderer interface {
	Render(rec models.EmployeeRecord, b models.Breakdown) ([]byte, error)
}

// Saver persists a rendered document and returns its path.
type Saver interface {
	Save(rec models.EmployeeRecord, period models.Period, data []byte) (string, error)
}

// Dispatcher delivers one rendered payslip to its employee.
type Dispatcher interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// Options are the per-run processing switches.
type Options struct {
	Mode            payroll.Mode
	DispatchEnabled bool
	AsOf            time.Time
	CompanyName     string
	FromName        string
}

// Summary counts what a run did.
type Summary struct {
	Employees        int
	RejectedRows     int
	Generated        int
	Sent             int
	Skipped          int
	InvalidRecords   int
	RenderFailures   int
	DispatchFailures int
}

// Runner composes loader, calculator, ledger, renderer and dispatcher into
// the sequential batch. Execution is single-threaded by design; the ledger
// is the only shared mutable state.
type Runner struct {
	loader     Loader
	ledger     ledger.Store
	renderer   Renderer
	saver      Saver
	dispatcher Dispatcher
	opts       Options
	logger     *zap.Logger
}

// NewRunner wires a runner from its collaborators.
func NewRunner(
	loader Loader,
	store ledger.Store,
	renderer Renderer,
	saver Saver,
	dispatcher Dispatcher,
	opts Options,
	logger *zap.Logger,
) *Runner {
	return &Runner{
		loader:     loader,
		ledger:     store,
		renderer:   renderer,
		saver:      saver,
		dispatcher: dispatcher,
		opts:       opts,
		logger:     logger,
	}
}

// Run processes the whole batch. It returns an error only for conditions
// that make continuing unsafe (unreadable roster, ledger write failure);
// per-employee failures are logged, counted and skipped.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	records, rejects, err := r.loader.Load()
	if err != nil {
		return sum, fmt.Errorf("failed to load employee roster: %w", err)
	}
	sum.RejectedRows = len(rejects)
	for _, reject := range rejects {
		r.logger.Warn("Employee row rejected", zap.String("reason", reject.Error()))
	}

	r.logger.Info("Starting payslip run",
		zap.String("mode", string(r.opts.Mode)),
		zap.Time("as_of", r.opts.AsOf),
		zap.Bool("dispatch_enabled", r.opts.DispatchEnabled),
		zap.Int("employees", len(records)))

	for _, rec := range records {
		// Cancellation granularity is one employee.
		if err := ctx.Err(); err != nil {
			r.logger.Warn("Run cancelled, stopping before next employee", zap.Error(err))
			return sum, err
		}

		sum.Employees++
		if err := r.processEmployee(ctx, rec, &sum); err != nil {
			return sum, err
		}
	}

	r.logger.Info("Payslip run completed",
		zap.Int("generated", sum.Generated),
		zap.Int("sent", sum.Sent),
		zap.Int("skipped", sum.Skipped),
		zap.Int("invalid_records", sum.InvalidRecords),
		zap.Int("render_failures", sum.RenderFailures),
		zap.Int("dispatch_failures", sum.DispatchFailures))
	return sum, nil
}

func (r *Runner) processEmployee(ctx context.Context, rec models.EmployeeRecord, sum *Summary) error {
	log := r.logger.With(zap.String("employee_id", rec.ID))

	dispatchable := r.opts.DispatchEnabled
	if dispatchable && rec.Email == "" {
		// A configuration condition, not an error; logged once per employee.
		log.Info("No email address, payslips will be generated but not sent")
		dispatchable = false
	}

	for _, period := range payroll.PeriodsFor(rec, r.opts.Mode, r.opts.AsOf) {
		plog := log.With(zap.String("period", period.String()))

		if !r.ledger.IsPending(rec.ID, period) {
			sum.Skipped++
			plog.Debug("Already sent, skipping")
			continue
		}

		breakdown, err := payroll.Compute(rec, period)
		if err != nil {
			// Bad input halts this employee only; the batch continues.
			sum.InvalidRecords++
			plog.Error("Invalid record, skipping employee", zap.Error(err))
			return nil
		}

		data, err := r.renderer.Render(rec, breakdown)
		if err != nil {
			// The ledger stays untouched so the render is retried next run.
			sum.RenderFailures++
			plog.Error("Render failed", zap.Error(err))
			continue
		}

		path, err := r.saver.Save(rec, period, data)
		if err != nil {
			sum.RenderFailures++
			plog.Error("Failed to store payslip", zap.Error(err))
			continue
		}

		if err := r.ledger.Record(rec.ID, period, models.StatusGenerated); err != nil {
			// An unwritable ledger makes duplicate sends possible; abort.
			return fmt.Errorf("send-ledger write failed: %w", err)
		}
		sum.Generated++
		plog.Info("Payslip generated", zap.String("path", path))

		if !dispatchable {
			continue
		}

		msg := mailer.Message{
			To:             rec.Email,
			Subject:        buildSubject(period, r.opts.CompanyName),
			Body:           buildBody(rec.FullName, period, r.opts.FromName),
			AttachmentName: filepath.Base(path),
			Attachment:     data,
		}
		if err := r.dispatcher.Send(ctx, msg); err != nil {
			sum.DispatchFailures++
			if errors.Is(err, mailer.ErrPermanent) {
				plog.Error("Permanent dispatch failure, excluding employee from dispatch", zap.Error(err))
				dispatchable = false
			} else {
				plog.Warn("Transient dispatch failure, will retry next run", zap.Error(err))
			}
			continue
		}

		if err := r.ledger.Record(rec.ID, period, models.StatusSent); err != nil {
			return fmt.Errorf("send-ledger write failed: %w", err)
		}
		sum.Sent++
		plog.Info("Payslip sent", zap.String("to", rec.Email))
	}
	return nil
}

func buildSubject(period models.Period, companyName string) string {
	return fmt.Sprintf("Payslip For %s - %s", period.Label(), companyName)
}

func buildBody(fullName string, period models.Period, fromName string) string {
	return fmt.Sprintf(`Dear %s,

Please find enclosed Payslip for the month of %s. We suggest that you save it in your personal records for any future reference.

Important:
- Please ensure that you check the entries in your payslip and for any queries or concerns, you may approach your HR Manager or Payroll Admin.

Regards,
%s`, fullName, period.Label(), fromName)
}
