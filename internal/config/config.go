// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"

	"github.com/bher20/expensemanager/internal/logging"
	"github.com/bher20/expensemanager/internal/notification"
	"github.com/bher20/expensemanager/internal/storage"
)

const (
	DefaultPort            = 8000
	DefaultDriver          = "file"
	DefaultConnectAttempts = 5
	DefaultConnectDelay    = time.Second
	DefaultExchange        = "expenses"
	DefaultReportSchedule  = "0 8 * * *"
)

var drivers = []string{"memory", "file", "sqlite", "postgres", "postgrespool"}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// Port is the HTTP listen port.
	// Environment variable: EXPENSES_PORT
	Port int `koanf:"EXPENSES_PORT"`

	// StorageDriver is one of memory, file, sqlite, postgres, postgrespool.
	// Environment variable: EXPENSES_STORAGE_DRIVER
	StorageDriver string `koanf:"EXPENSES_STORAGE_DRIVER"`

	// StorageDSN is the database connection string for database drivers.
	// Environment variable: EXPENSES_STORAGE_DSN
	StorageDSN string `koanf:"EXPENSES_STORAGE_DSN"`

	// DataFile is the JSON file used by the file driver.
	// Environment variable: EXPENSES_DATA_FILE
	DataFile string `koanf:"EXPENSES_DATA_FILE"`

	ConnectAttempts uint          `koanf:"EXPENSES_DB_CONNECT_ATTEMPTS"`
	ConnectDelay    time.Duration `koanf:"EXPENSES_DB_CONNECT_DELAY"`

	// AMQPURL enables event publishing when set.
	// Environment variable: EXPENSES_AMQP_URL
	AMQPURL      string `koanf:"EXPENSES_AMQP_URL"`
	AMQPExchange string `koanf:"EXPENSES_AMQP_EXCHANGE"`

	ReportEnabled  bool   `koanf:"EXPENSES_REPORT_ENABLED"`
	ReportSchedule string `koanf:"EXPENSES_REPORT_SCHEDULE"`
	ReportFrom     string `koanf:"EXPENSES_REPORT_FROM"`
	ReportTo       string `koanf:"EXPENSES_REPORT_TO"`
	SendGridAPIKey string `koanf:"SENDGRID_API_KEY"`

	// ReportWebhookURL posts the summary to Slack, Discord or a generic endpoint.
	// Environment variable: EXPENSES_REPORT_WEBHOOK_URL
	ReportWebhookURL  string `koanf:"EXPENSES_REPORT_WEBHOOK_URL"`
	ReportWebhookType string `koanf:"EXPENSES_REPORT_WEBHOOK_TYPE"`

	LogLevel string `koanf:"EXPENSES_LOG_LEVEL"`
	LogJSON  bool   `koanf:"EXPENSES_LOG_JSON"`
}

// Load reads .env (if present) and the process environment, applies
// defaults and validates the result.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	if c.StorageDriver == "" {
		c.StorageDriver = DefaultDriver
	}
	if c.DataFile == "" {
		c.DataFile = storage.DefaultFilePath
	}
	if c.ConnectAttempts == 0 {
		c.ConnectAttempts = DefaultConnectAttempts
	}
	if c.ConnectDelay <= 0 {
		c.ConnectDelay = DefaultConnectDelay
	}
	if c.AMQPExchange == "" {
		c.AMQPExchange = DefaultExchange
	}
	if c.ReportSchedule == "" {
		c.ReportSchedule = DefaultReportSchedule
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("EXPENSES_PORT out of range: %d", c.Port)
	}
	if !slices.Contains(drivers, c.StorageDriver) {
		return fmt.Errorf("EXPENSES_STORAGE_DRIVER %q not one of %s", c.StorageDriver, strings.Join(drivers, ", "))
	}
	if c.ReportEnabled {
		if _, err := cron.ParseStandard(c.ReportSchedule); err != nil {
			return fmt.Errorf("EXPENSES_REPORT_SCHEDULE: %w", err)
		}
	}
	switch c.ReportWebhookType {
	case "", "slack", "discord", "generic":
	default:
		return fmt.Errorf("EXPENSES_REPORT_WEBHOOK_TYPE %q not one of slack, discord, generic", c.ReportWebhookType)
	}
	if c.SendGridAPIKey != "" && (c.ReportFrom == "" || c.ReportTo == "") {
		return errors.New("SENDGRID_API_KEY requires EXPENSES_REPORT_FROM and EXPENSES_REPORT_TO")
	}
	return nil
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c Config) Storage() storage.Config {
	return storage.Config{
		Driver:          c.StorageDriver,
		DSN:             c.StorageDSN,
		Path:            c.DataFile,
		ConnectAttempts: c.ConnectAttempts,
		ConnectDelay:    c.ConnectDelay,
	}
}

func (c Config) Notification() notification.Config {
	return notification.Config{
		SendGridAPIKey: c.SendGridAPIKey,
		FromAddress:    c.ReportFrom,
		To:             c.ReportTo,
		WebhookURL:     c.ReportWebhookURL,
		WebhookType:    c.ReportWebhookType,
	}
}

func (c Config) Logging() logging.Config {
	return logging.Config{Level: logging.ParseLevel(c.LogLevel), JSON: c.LogJSON}
}

// LogValue keeps secrets out of startup logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("port", c.Port),
		slog.String("storage_driver", c.StorageDriver),
		slog.String("data_file", c.DataFile),
		slog.Bool("events", c.AMQPURL != ""),
		slog.Bool("report_enabled", c.ReportEnabled),
		slog.String("report_schedule", c.ReportSchedule),
		slog.Bool("sendgrid", c.SendGridAPIKey != ""),
		slog.Bool("webhook", c.ReportWebhookURL != ""),
	)
}
