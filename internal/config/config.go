package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/arudra/payslipgen/internal/payroll"
)

// Config holds all application configuration
type Config struct {
	Company  CompanyConfig  `mapstructure:"company"`
	Roster   RosterConfig   `mapstructure:"roster"`
	Payslips PayslipsConfig `mapstructure:"payslips"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Run      RunConfig      `mapstructure:"run"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// CompanyConfig holds the branding printed on every payslip
type CompanyConfig struct {
	Name     string `mapstructure:"name"`
	Address  string `mapstructure:"address"`
	LogoPath string `mapstructure:"logo_path"`
	Currency string `mapstructure:"currency"`
}

// RosterConfig holds the employee spreadsheet settings
type RosterConfig struct {
	Path             string   `mapstructure:"path"`
	Sheet            string   `mapstructure:"sheet"`
	EarningColumns   []string `mapstructure:"earning_columns"`
	DeductionColumns []string `mapstructure:"deduction_columns"`
	ProratedColumns  []string `mapstructure:"prorated_columns"`
}

// PayslipsConfig holds rendered document output settings
type PayslipsConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// LedgerConfig holds send-ledger storage settings
type LedgerConfig struct {
	Backend       string `mapstructure:"backend"` // json or sqlite
	Path          string `mapstructure:"path"`
	DBPath        string `mapstructure:"db_path"`
	MigrationsDir string `mapstructure:"migrations_dir"`
}

// SMTPConfig holds outbound email settings
type SMTPConfig struct {
	Host      string        `mapstructure:"host"`
	Port      int           `mapstructure:"port"`
	Username  string        `mapstructure:"username"`
	Password  string        `mapstructure:"password"`
	FromName  string        `mapstructure:"from_name"`
	FromEmail string        `mapstructure:"from_email"`
	StartTLS  bool          `mapstructure:"start_tls"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// RunConfig holds the per-run processing switches
type RunConfig struct {
	Mode            string `mapstructure:"mode"`
	DispatchEnabled bool   `mapstructure:"dispatch_enabled"`
	AsOf            string `mapstructure:"as_of"` // YYYY-MM-DD, empty means today
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("company.currency", "INR")

	viper.SetDefault("roster.path", "employees.xlsx")

	viper.SetDefault("payslips.output_dir", "payslips")

	viper.SetDefault("ledger.backend", "json")
	viper.SetDefault("ledger.path", ".payslip_sent_log.json")
	viper.SetDefault("ledger.db_path", "data/payslips.db")
	viper.SetDefault("ledger.migrations_dir", "migrations")

	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("smtp.start_tls", true)
	viper.SetDefault("smtp.timeout", 30*time.Second)

	viper.SetDefault("run.mode", string(payroll.ModeCurrentMonthOnly))
	viper.SetDefault("run.dispatch_enabled", true)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "console")
}

func bindEnvVars() {
	// Credentials stay out of the config file.
	viper.BindEnv("smtp.host", "SMTP_HOST")
	viper.BindEnv("smtp.username", "SMTP_USERNAME")
	viper.BindEnv("smtp.password", "SMTP_PASSWORD")
	viper.BindEnv("smtp.from_email", "SMTP_FROM_EMAIL")
	viper.BindEnv("company.name", "COMPANY_NAME")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Company.Name == "" {
		return fmt.Errorf("company.name is required")
	}
	if c.Roster.Path == "" {
		return fmt.Errorf("roster.path is required")
	}

	switch c.Ledger.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("ledger.backend must be json or sqlite, got %q", c.Ledger.Backend)
	}

	if _, err := payroll.ParseMode(c.Run.Mode); err != nil {
		return err
	}
	if c.Run.AsOf != "" {
		if _, err := time.Parse("2006-01-02", c.Run.AsOf); err != nil {
			return fmt.Errorf("run.as_of must be YYYY-MM-DD: %w", err)
		}
	}

	if c.Run.DispatchEnabled {
		if c.SMTP.Host == "" {
			return fmt.Errorf("smtp.host is required when dispatch is enabled")
		}
		if c.SMTP.FromEmail == "" {
			return fmt.Errorf("smtp.from_email is required when dispatch is enabled")
		}
	}
	return nil
}

// AsOfDate resolves the effective as-of date for the run.
func (c *Config) AsOfDate(now time.Time) (time.Time, error) {
	if c.Run.AsOf == "" {
		return now, nil
	}
	return time.Parse("2006-01-02", c.Run.AsOf)
}
