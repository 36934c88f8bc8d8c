package mocks

import (
	"context"
	"errors"

	"github.com/zdziszkee/swiftcodes/internal/models"
)

// MockSwiftCodeRepository implements the SwiftCodeRepository interface for testing
type MockSwiftCodeRepository struct {
	GetByCodeFunc     func(ctx context.Context, code string) (*models.SwiftCode, error)
	ListByCountryFunc func(ctx context.Context, countryISO2 string) ([]models.SwiftCode, error)
	ListBranchesFunc  func(ctx context.Context, swiftCodeBase, excludeCode string) ([]models.SwiftCode, error)
	ListFirstFunc     func(ctx context.Context, limit int) ([]models.SwiftCode, error)
	InsertFunc        func(ctx context.Context, code *models.SwiftCode) error
	InsertBatchFunc   func(ctx context.Context, codes []*models.SwiftCode) (int64, error)
	DeleteByCodeFunc  func(ctx context.Context, code string) (int64, error)
}

func (m *MockSwiftCodeRepository) GetByCode(ctx context.Context, code string) (*models.SwiftCode, error) {
	return m.GetByCodeFunc(ctx, code)
}

func (m *MockSwiftCodeRepository) ListByCountry(ctx context.Context, countryISO2 string) ([]models.SwiftCode, error) {
	return m.ListByCountryFunc(ctx, countryISO2)
}

func (m *MockSwiftCodeRepository) ListBranches(ctx context.Context, swiftCodeBase, excludeCode string) ([]models.SwiftCode, error) {
	if m.ListBranchesFunc != nil {
		return m.ListBranchesFunc(ctx, swiftCodeBase, excludeCode)
	}
	return nil, errors.New("ListBranches not implemented")
}

func (m *MockSwiftCodeRepository) ListFirst(ctx context.Context, limit int) ([]models.SwiftCode, error) {
	return m.ListFirstFunc(ctx, limit)
}

func (m *MockSwiftCodeRepository) Insert(ctx context.Context, code *models.SwiftCode) error {
	return m.InsertFunc(ctx, code)
}

func (m *MockSwiftCodeRepository) InsertBatch(ctx context.Context, codes []*models.SwiftCode) (int64, error) {
	if m.InsertBatchFunc != nil {
		return m.InsertBatchFunc(ctx, codes)
	}
	return 0, errors.New("InsertBatch not implemented")
}

func (m *MockSwiftCodeRepository) DeleteByCode(ctx context.Context, code string) (int64, error) {
	return m.DeleteByCodeFunc(ctx, code)
}
