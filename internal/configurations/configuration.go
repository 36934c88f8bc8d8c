package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/zdziszkee/swiftcodes/internal/database"
)

type Config struct {
	AppName  string          `koanf:"app_name"`
	Server   ServerConfig    `koanf:"server"`
	Log      LogConfig       `koanf:"log"`
	Database database.Config `koanf:"database"`
	Data     DataConfig      `koanf:"data"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	BasePath        string        `koanf:"base_path"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Address returns host:port for the listener
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// DataConfig controls the bulk import of the SWIFT codes dataset
type DataConfig struct {
	SwiftCodesFile string `koanf:"swift_codes_file"`
	AutoLoad       bool   `koanf:"auto_load"`
	BatchSize      int    `koanf:"batch_size"`
}

// DefaultConfig returns the default configuration for swift-codes
func DefaultConfig() *Config {
	return &Config{
		AppName: "swift-codes",
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			BasePath:        "/v1/swift-codes",
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Database: database.Config{
			Type:              database.TypeSQLite,
			DSN:               "./data/database.sqlite",
			ServerURI:         "http://trino@trino:8080",
			Catalog:           "iceberg",
			TableName:         "swift_codes",
			MaxOpenConns:      5,
			MaxIdleConns:      2,
			ConnMaxLifetime:   1 * time.Hour,
			ConnectRetries:    10,
			ConnectRetryDelay: 2 * time.Second,
		},
		Data: DataConfig{
			SwiftCodesFile: "./data/swift_codes.csv",
			AutoLoad:       false,
			BatchSize:      1000,
		},
	}
}

// Load loads the configuration from defaults, a TOML file and environment
// variables, in that order. Variables from a .env file in the working
// directory are exported first without overriding the real environment.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	var k = koanf.New(".")

	// Load default values.
	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	// Load from config file if specified.
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
				return nil, fmt.Errorf("error loading TOML config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error checking config file: %w", err)
		}
	} else {
		commonPaths := []string{
			"./config.toml",
			"./config/config.toml",
			"/etc/swift-codes/config.toml",
		}
		for _, path := range commonPaths {
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
					return nil, fmt.Errorf("error loading TOML config file from %s: %w", path, err)
				}
				break
			}
		}
	}

	// APP_DATABASE__MAX_OPEN_CONNS becomes database.max_open_conns
	callback := func(s string) string {
		s = strings.TrimPrefix(s, "APP_")
		parts := strings.Split(s, "__")
		for i, part := range parts {
			parts[i] = strings.ToLower(part)
		}
		return strings.Join(parts, ".")
	}
	if err := k.Load(env.Provider("APP_", ".", callback), nil); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

// validateConfig checks required fields.
func validateConfig(config *Config) error {
	if err := validateDatabase(&config.Database); err != nil {
		return err
	}

	// Server config validations.
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", config.Server.Port)
	}
	if !strings.HasPrefix(config.Server.BasePath, "/") {
		return fmt.Errorf("server base_path must start with '/', got '%s'", config.Server.BasePath)
	}
	if config.Server.ShutdownTimeout < 0 {
		return errors.New("server shutdown_timeout cannot be negative")
	}

	// Log config validations.
	if config.Log.Level == "" {
		return errors.New("log level cannot be empty")
	}
	if level, err := zerolog.ParseLevel(strings.ToLower(config.Log.Level)); err != nil || level == zerolog.NoLevel {
		return fmt.Errorf("invalid log level '%s': must be one of trace, debug, info, warn, error, fatal, panic, disabled", config.Log.Level)
	}
	switch strings.ToLower(config.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format '%s': must be text or json", config.Log.Format)
	}

	// Data config validations.
	if config.Data.AutoLoad && config.Data.SwiftCodesFile == "" {
		return errors.New("data.swift_codes_file cannot be empty when auto_load is enabled")
	}
	if config.Data.BatchSize <= 0 {
		return errors.New("data.batch_size must be positive")
	}

	return nil
}

func validateDatabase(db *database.Config) error {
	switch db.Type {
	case database.TypeSQLite, database.TypePostgres:
		if db.DSN == "" {
			return fmt.Errorf("database dsn cannot be empty for %s", db.Type)
		}
	case database.TypeTrino:
		if db.ServerURI == "" {
			return errors.New("database server_uri cannot be empty")
		}
		if !strings.HasPrefix(db.ServerURI, "http://") && !strings.HasPrefix(db.ServerURI, "https://") {
			return fmt.Errorf("database server_uri must start with 'http://' or 'https://', got '%s'", db.ServerURI)
		}
		if db.Catalog == "" {
			return errors.New("database catalog cannot be empty")
		}
		if db.Schema == "" {
			return errors.New("database schema cannot be empty")
		}
	default:
		return fmt.Errorf("unsupported database type '%s': must be sqlite, postgres or trino", db.Type)
	}

	if db.TableName == "" {
		return errors.New("database table_name cannot be empty")
	}

	// Connection pool validations.
	if db.MaxOpenConns < 0 {
		return errors.New("max open connections cannot be negative")
	}
	if db.MaxIdleConns < 0 {
		return errors.New("max idle connections cannot be negative")
	}
	if db.ConnMaxLifetime < 0 {
		return errors.New("connection max lifetime cannot be negative")
	}
	if db.ConnectRetries < 0 {
		return errors.New("connect retries cannot be negative")
	}
	return nil
}
