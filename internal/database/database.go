package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/rs/zerolog/log"
	"github.com/trinodb/trino-go-client/trino"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeTrino    = "trino"
)

// Config holds configuration for the database connection
type Config struct {
	Type              string        `koanf:"type"`
	DSN               string        `koanf:"dsn"`
	ServerURI         string        `koanf:"server_uri"`
	Catalog           string        `koanf:"catalog"`
	Schema            string        `koanf:"schema"`
	TableName         string        `koanf:"table_name"`
	SchemaFile        string        `koanf:"schema_file"`
	MaxOpenConns      int           `koanf:"max_open_conns"`
	MaxIdleConns      int           `koanf:"max_idle_conns"`
	ConnMaxLifetime   time.Duration `koanf:"conn_max_lifetime"`
	ConnectRetries    int           `koanf:"connect_retries"`
	ConnectRetryDelay time.Duration `koanf:"connect_retry_delay"`
}

// QualifiedTableName returns the table name as it must appear in queries.
func (c Config) QualifiedTableName() string {
	table := c.TableName
	if table == "" {
		table = "swift_codes"
	}
	switch c.Type {
	case TypeTrino:
		return fmt.Sprintf("%s.%s.%s", c.Catalog, c.Schema, table)
	case TypePostgres:
		if c.Schema != "" {
			return c.Schema + "." + table
		}
	}
	return table
}

// Database wraps a database/sql connection to PostgreSQL or Trino
type Database struct {
	*sql.DB
	Config Config
}

// New opens a PostgreSQL or Trino connection, waits for it to answer and
// executes the configured schema file.
func New(ctx context.Context, config Config) (*Database, error) {
	driverName, dsn, err := driverDSN(config)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", config.Type, err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err := pingWithRetry(ctx, db, config); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", config.Type, err)
	}

	database := &Database{DB: db, Config: config}

	if config.SchemaFile != "" {
		if err := database.ExecuteSchema(ctx, config.SchemaFile); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute schema: %w", err)
		}
	}

	return database, nil
}

func driverDSN(config Config) (string, string, error) {
	switch config.Type {
	case TypePostgres:
		return "pgx", config.DSN, nil
	case TypeTrino:
		trinoConfig := &trino.Config{
			ServerURI: config.ServerURI,
			Catalog:   config.Catalog,
			Schema:    config.Schema,
		}
		dsn, err := trinoConfig.FormatDSN()
		if err != nil {
			return "", "", fmt.Errorf("failed to build Trino DSN: %w", err)
		}
		return "trino", dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported database type: %s", config.Type)
	}
}

func pingWithRetry(ctx context.Context, db *sql.DB, config Config) error {
	var err error
	for attempt := 0; attempt <= config.ConnectRetries; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if attempt == config.ConnectRetries {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt+1).Msgf("%s not ready, retrying in %v", config.Type, config.ConnectRetryDelay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(config.ConnectRetryDelay):
		}
	}
	return err
}

// Rebind converts ? placeholders to $n for PostgreSQL and leaves them as is otherwise.
func Rebind(dbType, query string) string {
	if dbType != TypePostgres {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// ExecuteSchema loads and executes a schema file statement by statement
func (db *Database) ExecuteSchema(ctx context.Context, filePath string) error {
	log.Info().Str("file", filePath).Msg("executing schema")

	schemaSQL, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	// Trino does not support multi-statement execution
	for _, query := range SplitStatements(string(schemaSQL)) {
		log.Debug().Str("query", query).Msg("executing schema statement")
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s, error: %w", query, err)
		}
	}

	log.Info().Str("file", filePath).Msg("schema successfully executed")
	return nil
}

// SplitStatements splits a SQL script on semicolons, dropping comment lines
// and empty statements.
func SplitStatements(script string) []string {
	var statements []string
	for _, chunk := range strings.Split(script, ";") {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		statement := strings.TrimSpace(strings.Join(lines, "\n"))
		if statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}
