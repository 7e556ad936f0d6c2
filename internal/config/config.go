package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/farxc/vendas_sync/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Sync   SyncConfig
	Source DBConfig
	Dest   DBConfig
	Lock   LockConfig
	Log    LogConfig
	API    APIConfig
}

type SyncConfig struct {
	Interval          time.Duration
	OrderWindowDays   int
	ExpenseWindowDays int
	CashWindowDays    int
}

type DBConfig struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  string
}

type LockConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Options maps the log settings onto the logger both binaries build.
func (c LogConfig) Options() logger.Options {
	return logger.Options{
		Level:      logger.ParseLevel(c.Level),
		Format:     c.Format,
		File:       c.File,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
	}
}

type APIConfig struct {
	Addr string
}

// Keys double as environment variable names (upper-cased by viper) and
// as flat keys in an optional config file.
var defaults = map[string]any{
	"sync_interval_seconds": 30,
	"order_window_days":     7,
	"expense_window_days":   30,
	"cash_window_days":      30,

	"source_driver": "sqlserver",
	"source_dsn":    "",
	"dest_driver":   "postgres",
	"dest_dsn":      "",

	"db_max_open_conns": 10,
	"db_max_idle_conns": 5,
	"db_max_idle_time":  "15m",

	"redis_addr":     "",
	"redis_password": "",
	"redis_db":       0,
	"lock_ttl":       "5m",

	"log_level":        "info",
	"log_format":       "text",
	"log_file":         "",
	"log_max_size_mb":  50,
	"log_max_backups":  5,
	"log_max_age_days": 28,

	"api_addr": ":8080",
}

// Load reads .env files (a missing file is fine), then environment variables
// and, when configFile is set, that file through viper.
func Load(configFile string, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	return FromViper(v)
}

// FromViper builds and validates a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	lockTTL, err := time.ParseDuration(v.GetString("lock_ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOCK_TTL: %w", err)
	}

	cfg := &Config{
		Sync: SyncConfig{
			Interval:          time.Duration(v.GetInt("sync_interval_seconds")) * time.Second,
			OrderWindowDays:   v.GetInt("order_window_days"),
			ExpenseWindowDays: v.GetInt("expense_window_days"),
			CashWindowDays:    v.GetInt("cash_window_days"),
		},
		Source: DBConfig{
			Driver:       v.GetString("source_driver"),
			DSN:          v.GetString("source_dsn"),
			MaxOpenConns: v.GetInt("db_max_open_conns"),
			MaxIdleConns: v.GetInt("db_max_idle_conns"),
			MaxIdleTime:  v.GetString("db_max_idle_time"),
		},
		Dest: DBConfig{
			Driver:       v.GetString("dest_driver"),
			DSN:          v.GetString("dest_dsn"),
			MaxOpenConns: v.GetInt("db_max_open_conns"),
			MaxIdleConns: v.GetInt("db_max_idle_conns"),
			MaxIdleTime:  v.GetString("db_max_idle_time"),
		},
		Lock: LockConfig{
			RedisAddr:     v.GetString("redis_addr"),
			RedisPassword: v.GetString("redis_password"),
			RedisDB:       v.GetInt("redis_db"),
			TTL:           lockTTL,
		},
		Log: LogConfig{
			Level:      v.GetString("log_level"),
			Format:     v.GetString("log_format"),
			File:       v.GetString("log_file"),
			MaxSizeMB:  v.GetInt("log_max_size_mb"),
			MaxBackups: v.GetInt("log_max_backups"),
			MaxAgeDays: v.GetInt("log_max_age_days"),
		},
		API: APIConfig{
			Addr: v.GetString("api_addr"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the worker cannot start with. Connection strings are
// not checked here: an empty DSN fails the task that needs it.
func (c *Config) Validate() error {
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("SYNC_INTERVAL_SECONDS must be positive, got %s", c.Sync.Interval)
	}
	if c.Sync.OrderWindowDays <= 0 || c.Sync.ExpenseWindowDays <= 0 || c.Sync.CashWindowDays <= 0 {
		return errors.New("window days must be positive")
	}
	if c.Lock.TTL <= 0 {
		return fmt.Errorf("LOCK_TTL must be positive, got %s", c.Lock.TTL)
	}
	if _, err := time.ParseDuration(c.Source.MaxIdleTime); err != nil {
		return fmt.Errorf("invalid DB_MAX_IDLE_TIME: %w", err)
	}
	switch c.Source.Driver {
	case "sqlserver", "mysql", "postgres", "csv":
	default:
		return fmt.Errorf("unsupported SOURCE_DRIVER %q", c.Source.Driver)
	}
	if c.Dest.Driver != "postgres" {
		return fmt.Errorf("unsupported DEST_DRIVER %q: the reporting store is postgres", c.Dest.Driver)
	}
	return nil
}
