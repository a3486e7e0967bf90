// Package main provides the CLI entry point for payslipgen.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/arudra/payslipgen/internal/config"
	"github.com/arudra/payslipgen/internal/ledger"
	"github.com/arudra/payslipgen/internal/mailer"
	"github.com/arudra/payslipgen/internal/models"
	"github.com/arudra/payslipgen/internal/payroll"
	"github.com/arudra/payslipgen/internal/payslip"
	"github.com/arudra/payslipgen/internal/roster"
	"github.com/arudra/payslipgen/internal/storage"
	"github.com/arudra/payslipgen/internal/workflow"
	"github.com/arudra/payslipgen/pkg/database"
	"github.com/arudra/payslipgen/pkg/utils"
)

var (
	configPath    string
	modeFlag      string
	asOfFlag      string
	noEmail       bool
	employeesFlag string
)

func main() {
	// Credentials live in .env during local runs; missing file is fine.
	_ = gotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "payslipgen",
		Short: "Generate and email monthly payslips from an employee spreadsheet",
		Long: `payslipgen reads the employee roster workbook, computes each month's
salary breakdown, renders PDF payslips and optionally emails them.
A durable send-ledger makes repeated runs safe: periods already sent
are never re-dispatched.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the config file")
	rootCmd.Flags().StringVar(&modeFlag, "mode", "", "Period selection: current-month-only or all-since-joining")
	rootCmd.Flags().StringVar(&asOfFlag, "as-of", "", "Run as of this date (YYYY-MM-DD, default today)")
	rootCmd.Flags().BoolVar(&noEmail, "no-email", false, "Generate payslips without sending email")
	rootCmd.Flags().StringVar(&employeesFlag, "employees", "", "Comma-separated employee IDs to process (default all)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Flags override the config file for one-off runs.
	if modeFlag != "" {
		cfg.Run.Mode = modeFlag
	}
	if asOfFlag != "" {
		cfg.Run.AsOf = asOfFlag
	}
	if noEmail {
		cfg.Run.DispatchEnabled = false
	}

	mode, err := payroll.ParseMode(cfg.Run.Mode)
	if err != nil {
		return err
	}
	asOf, err := cfg.AsOfDate(time.Now())
	if err != nil {
		return err
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Starting payslipgen",
		zap.String("config", configPath),
		zap.String("mode", string(mode)),
		zap.Time("as_of", asOf))

	store, cleanup, err := openLedger(cfg, logger)
	if err != nil {
		logger.Error("Failed to open send-ledger", zap.Error(err))
		return err
	}
	defer cleanup()

	if err := roster.EnsureWorkbook(cfg.Roster.Path, logger); err != nil {
		return err
	}
	var loader workflow.Loader = roster.NewLoader(roster.Config{
		Path:             cfg.Roster.Path,
		Sheet:            cfg.Roster.Sheet,
		EarningColumns:   cfg.Roster.EarningColumns,
		DeductionColumns: cfg.Roster.DeductionColumns,
		ProratedColumns:  cfg.Roster.ProratedColumns,
	}, logger)
	if employeesFlag != "" {
		loader = &filteredLoader{inner: loader, ids: strings.Split(employeesFlag, ",")}
	}

	renderer := payslip.NewRenderer(payslip.Branding{
		CompanyName:    cfg.Company.Name,
		CompanyAddress: cfg.Company.Address,
		LogoPath:       cfg.Company.LogoPath,
		Currency:       cfg.Company.Currency,
	}, logger)

	saver := storage.NewPayslipStore(cfg.Payslips.OutputDir, logger)

	dispatcher := mailer.New(mailer.Config{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		StartTLS:  cfg.SMTP.StartTLS,
		Timeout:   cfg.SMTP.Timeout,
	}, logger)

	fromName := cfg.SMTP.FromName
	if fromName == "" {
		fromName = cfg.Company.Name
	}
	runner := workflow.NewRunner(loader, store, renderer, saver, dispatcher, workflow.Options{
		Mode:            mode,
		DispatchEnabled: cfg.Run.DispatchEnabled,
		AsOf:            asOf,
		CompanyName:     cfg.Company.Name,
		FromName:        fromName,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sum, err := runner.Run(ctx)
	if err != nil {
		logger.Error("Run aborted", zap.Error(err))
		return err
	}

	fmt.Printf("Processed %d employees: %d generated, %d sent, %d skipped, %d failures\n",
		sum.Employees, sum.Generated, sum.Sent, sum.Skipped,
		sum.InvalidRecords+sum.RenderFailures+sum.DispatchFailures)
	return nil
}

// filteredLoader narrows a run to the employee IDs given on the command
// line.
type filteredLoader struct {
	inner workflow.Loader
	ids   []string
}

func (f *filteredLoader) Load() ([]models.EmployeeRecord, []*roster.RowError, error) {
	records, rejects, err := f.inner.Load()
	if err != nil {
		return nil, nil, err
	}

	want := make(map[string]bool, len(f.ids))
	for _, id := range f.ids {
		want[strings.TrimSpace(id)] = true
	}

	var filtered []models.EmployeeRecord
	for _, rec := range records {
		if want[rec.ID] {
			filtered = append(filtered, rec)
		}
	}
	return filtered, rejects, nil
}

// openLedger selects the configured ledger backend. The cleanup closes the
// store and, for sqlite, the underlying database.
func openLedger(cfg *config.Config, logger *zap.Logger) (ledger.Store, func(), error) {
	switch cfg.Ledger.Backend {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Ledger.DBPath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
		db, err := database.New(cfg.Ledger.DBPath, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := database.NewMigrator(db, logger).Run(cfg.Ledger.MigrationsDir); err != nil {
			db.Close()
			return nil, nil, err
		}
		store, err := ledger.OpenSQL(db, logger)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() {
			_ = store.Close()
			_ = db.Close()
		}, nil
	default:
		store, err := ledger.OpenFile(cfg.Ledger.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}
}
