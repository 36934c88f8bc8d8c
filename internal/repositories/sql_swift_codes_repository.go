package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"github.com/zdziszkee/swiftcodes/internal/database"
	"github.com/zdziszkee/swiftcodes/internal/models"
)

const (
	swiftCodeColumns  = "swift_code, bank_name, address, country_iso2, country_name, is_headquarter, swift_code_base"
	pgUniqueViolation = "23505"
)

// SQLSwiftCodeRepository implements SwiftCodeRepository over database/sql
// for PostgreSQL and Trino
type SQLSwiftCodeRepository struct {
	db     *sql.DB
	dbType string
	table  string

	// Trino tables have no primary key: writes are serialized and checked here
	writeMu sync.Mutex
}

// NewSQLSwiftCodeRepository creates a new repository on an open connection
func NewSQLSwiftCodeRepository(db *database.Database) SwiftCodeRepository {
	return &SQLSwiftCodeRepository{
		db:     db.DB,
		dbType: db.Config.Type,
		table:  db.Config.QualifiedTableName(),
	}
}

// GetByCode retrieves a row by its exact code
func (r *SQLSwiftCodeRepository) GetByCode(ctx context.Context, code string) (*models.SwiftCode, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE swift_code = ?", swiftCodeColumns, r.table)
	row := r.db.QueryRowContext(ctx, r.rebind(query), code)
	swiftCode, err := scanSwiftCode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s query failed: %w", r.dbType, err)
	}
	return swiftCode, nil
}

// ListByCountry retrieves all rows for an uppercase ISO2 country code
func (r *SQLSwiftCodeRepository) ListByCountry(ctx context.Context, countryISO2 string) ([]models.SwiftCode, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE country_iso2 = ?", swiftCodeColumns, r.table)
	return r.query(ctx, query, countryISO2)
}

// ListBranches retrieves every row sharing the group key except excludeCode
func (r *SQLSwiftCodeRepository) ListBranches(ctx context.Context, swiftCodeBase, excludeCode string) ([]models.SwiftCode, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE swift_code_base = ? AND swift_code <> ?", swiftCodeColumns, r.table)
	return r.query(ctx, query, swiftCodeBase, excludeCode)
}

// ListFirst retrieves up to limit rows ordered by code
func (r *SQLSwiftCodeRepository) ListFirst(ctx context.Context, limit int) ([]models.SwiftCode, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY swift_code ASC LIMIT %d", swiftCodeColumns, r.table, limit)
	return r.query(ctx, query)
}

// Insert adds a single row; duplicates are rejected by the primary key, or by
// an existence check under the write lock on Trino
func (r *SQLSwiftCodeRepository) Insert(ctx context.Context, code *models.SwiftCode) error {
	if r.dbType == database.TypeTrino {
		r.writeMu.Lock()
		defer r.writeMu.Unlock()

		fresh, err := r.withoutExisting(ctx, []*models.SwiftCode{code})
		if err != nil {
			return err
		}
		if len(fresh) == 0 {
			return ErrDuplicate
		}
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?)", r.table, swiftCodeColumns)
	_, err := r.db.ExecContext(ctx, r.rebind(query), insertArgs(code)...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("%s insert failed: %w", r.dbType, err)
	}
	return nil
}

// InsertBatch inserts rows in batches using parameterized multi-row inserts.
// Rows whose code already exists are skipped.
func (r *SQLSwiftCodeRepository) InsertBatch(ctx context.Context, codes []*models.SwiftCode) (int64, error) {
	var inserted int64

	if r.dbType == database.TypeTrino {
		r.writeMu.Lock()
		defer r.writeMu.Unlock()
	}

	for i := 0; i < len(codes); i += batchSize {
		endIdx := min(i+batchSize, len(codes))
		batch := codes[i:endIdx]
		if r.dbType == database.TypeTrino {
			fresh, err := r.withoutExisting(ctx, batch)
			if err != nil {
				return inserted, err
			}
			if len(fresh) == 0 {
				continue
			}
			batch = fresh
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("INSERT INTO %s (%s) VALUES ", r.table, swiftCodeColumns))
		placeholders := make([]string, 0, len(batch))
		args := make([]interface{}, 0, len(batch)*7)
		for _, code := range batch {
			placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args, insertArgs(code)...)
		}
		sb.WriteString(strings.Join(placeholders, ","))
		if r.dbType == database.TypePostgres {
			sb.WriteString(" ON CONFLICT (swift_code) DO NOTHING")
		}

		start := time.Now()
		result, err := r.db.ExecContext(ctx, r.rebind(sb.String()), args...)
		if err != nil {
			return inserted, fmt.Errorf("%s batch insert failed for rows %d-%d: %w", r.dbType, i+1, endIdx, err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			rowsAffected = int64(len(batch))
		}
		inserted += rowsAffected
		log.Debug().Int("rows", len(batch)).Dur("took", time.Since(start)).Msg("batch insert completed")
	}

	return inserted, nil
}

// DeleteByCode removes the row with the exact code and reports how many rows went away
func (r *SQLSwiftCodeRepository) DeleteByCode(ctx context.Context, code string) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE swift_code = ?", r.table)
	result, err := r.db.ExecContext(ctx, r.rebind(query), code)
	if err != nil {
		return 0, fmt.Errorf("%s delete failed: %w", r.dbType, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s delete result unavailable: %w", r.dbType, err)
	}
	return deleted, nil
}

// Helper methods

func (r *SQLSwiftCodeRepository) rebind(query string) string {
	return database.Rebind(r.dbType, query)
}

// withoutExisting drops codes already stored and repeats within codes
func (r *SQLSwiftCodeRepository) withoutExisting(ctx context.Context, codes []*models.SwiftCode) ([]*models.SwiftCode, error) {
	placeholders := make([]string, 0, len(codes))
	args := make([]interface{}, 0, len(codes))
	for _, code := range codes {
		placeholders = append(placeholders, "?")
		args = append(args, code.SwiftCode)
	}
	query := fmt.Sprintf("SELECT swift_code FROM %s WHERE swift_code IN (%s)", r.table, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("%s duplicate check failed: %w", r.dbType, err)
	}
	defer rows.Close()

	seen := make(map[string]bool, len(codes))
	for rows.Next() {
		var existing string
		if err := rows.Scan(&existing); err != nil {
			return nil, fmt.Errorf("%s duplicate check failed: %w", r.dbType, err)
		}
		seen[existing] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s duplicate check failed: %w", r.dbType, err)
	}

	fresh := make([]*models.SwiftCode, 0, len(codes))
	for _, code := range codes {
		if seen[code.SwiftCode] {
			continue
		}
		seen[code.SwiftCode] = true
		fresh = append(fresh, code)
	}
	return fresh, nil
}

func (r *SQLSwiftCodeRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.SwiftCode, error) {
	rows, err := r.db.QueryContext(ctx, r.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("%s query failed: %w", r.dbType, err)
	}
	defer rows.Close()

	var codes []models.SwiftCode
	for rows.Next() {
		code, err := scanSwiftCode(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan failed: %w", r.dbType, err)
		}
		codes = append(codes, *code)
	}

	return codes, rows.Err()
}

func insertArgs(code *models.SwiftCode) []interface{} {
	return []interface{}{
		code.SwiftCode,
		code.BankName,
		code.Address,
		code.CountryISO2,
		code.CountryName,
		boolToInt(code.IsHeadquarter),
		code.SwiftCodeBase,
	}
}

func scanSwiftCode(scanner interface {
	Scan(dest ...any) error
}) (*models.SwiftCode, error) {
	var code models.SwiftCode
	var isHeadquarter int64

	err := scanner.Scan(
		&code.SwiftCode,
		&code.BankName,
		&code.Address,
		&code.CountryISO2,
		&code.CountryName,
		&isHeadquarter,
		&code.SwiftCodeBase,
	)
	if err != nil {
		return nil, err
	}
	code.IsHeadquarter = isHeadquarter != 0

	return &code, nil
}

// is_headquarter is stored as 0/1
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
