package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/zdziszkee/swiftcodes/internal/models"
)

// GormSwiftCodeRepository implements SwiftCodeRepository on the embedded SQLite database
type GormSwiftCodeRepository struct {
	db    *gorm.DB
	table string
}

// NewGormSwiftCodeRepository migrates the table and returns a repository on it
func NewGormSwiftCodeRepository(db *gorm.DB, table string) (SwiftCodeRepository, error) {
	if table == "" {
		table = models.SwiftCode{}.TableName()
	}
	if err := db.Table(table).AutoMigrate(&models.SwiftCode{}); err != nil {
		return nil, fmt.Errorf("failed to migrate %s: %w", table, err)
	}
	return &GormSwiftCodeRepository{db: db, table: table}, nil
}

// GetByCode retrieves a row by its exact code
func (r *GormSwiftCodeRepository) GetByCode(ctx context.Context, code string) (*models.SwiftCode, error) {
	var swiftCode models.SwiftCode
	err := r.tx(ctx).Where("swift_code = ?", code).Take(&swiftCode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite query failed: %w", err)
	}
	return &swiftCode, nil
}

// ListByCountry retrieves all rows for an uppercase ISO2 country code
func (r *GormSwiftCodeRepository) ListByCountry(ctx context.Context, countryISO2 string) ([]models.SwiftCode, error) {
	var codes []models.SwiftCode
	if err := r.tx(ctx).Where("country_iso2 = ?", countryISO2).Find(&codes).Error; err != nil {
		return nil, fmt.Errorf("sqlite query failed: %w", err)
	}
	return codes, nil
}

// ListBranches retrieves every row sharing the group key except excludeCode
func (r *GormSwiftCodeRepository) ListBranches(ctx context.Context, swiftCodeBase, excludeCode string) ([]models.SwiftCode, error) {
	var codes []models.SwiftCode
	err := r.tx(ctx).
		Where("swift_code_base = ?", swiftCodeBase).
		Where("swift_code <> ?", excludeCode).
		Find(&codes).Error
	if err != nil {
		return nil, fmt.Errorf("sqlite query failed: %w", err)
	}
	return codes, nil
}

// ListFirst retrieves up to limit rows ordered by code
func (r *GormSwiftCodeRepository) ListFirst(ctx context.Context, limit int) ([]models.SwiftCode, error) {
	var codes []models.SwiftCode
	if err := r.tx(ctx).Order("swift_code ASC").Limit(limit).Find(&codes).Error; err != nil {
		return nil, fmt.Errorf("sqlite query failed: %w", err)
	}
	return codes, nil
}

// Insert adds a single row; the primary key rejects duplicates
func (r *GormSwiftCodeRepository) Insert(ctx context.Context, code *models.SwiftCode) error {
	if err := r.tx(ctx).Create(code).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("sqlite insert failed: %w", err)
	}
	return nil
}

// InsertBatch inserts rows in batches, skipping codes that already exist
func (r *GormSwiftCodeRepository) InsertBatch(ctx context.Context, codes []*models.SwiftCode) (int64, error) {
	if len(codes) == 0 {
		return 0, nil
	}
	result := r.tx(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(codes, batchSize)
	if result.Error != nil {
		return 0, fmt.Errorf("sqlite batch insert failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteByCode removes the row with the exact code and reports how many rows went away
func (r *GormSwiftCodeRepository) DeleteByCode(ctx context.Context, code string) (int64, error) {
	result := r.tx(ctx).Where("swift_code = ?", code).Delete(&models.SwiftCode{})
	if result.Error != nil {
		return 0, fmt.Errorf("sqlite delete failed: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *GormSwiftCodeRepository) tx(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table)
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// drivers without error translation report the raw constraint failure
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
