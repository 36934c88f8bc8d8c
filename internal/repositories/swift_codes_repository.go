package repository

import (
	"context"
	"errors"

	"github.com/zdziszkee/swiftcodes/internal/models"
)

var (
	ErrNotFound  = errors.New("swift code not found")
	ErrDuplicate = errors.New("swift code already exists")
)

// SwiftCodeRepository defines the data operations on the swift_codes table
type SwiftCodeRepository interface {
	GetByCode(ctx context.Context, code string) (*models.SwiftCode, error)
	ListByCountry(ctx context.Context, countryISO2 string) ([]models.SwiftCode, error)
	ListBranches(ctx context.Context, swiftCodeBase, excludeCode string) ([]models.SwiftCode, error)
	ListFirst(ctx context.Context, limit int) ([]models.SwiftCode, error)
	Insert(ctx context.Context, code *models.SwiftCode) error
	InsertBatch(ctx context.Context, codes []*models.SwiftCode) (int64, error)
	DeleteByCode(ctx context.Context, code string) (int64, error)
}

const batchSize = 100
