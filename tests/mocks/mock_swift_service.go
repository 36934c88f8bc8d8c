package mocks

import (
	"context"

	"github.com/zdziszkee/swiftcodes/internal/models"
)

// MockSwiftService implements service.SwiftService.
type MockSwiftService struct {
	GetInitialSwiftCodesFunc   func(ctx context.Context) ([]models.SwiftCodeDetails, error)
	GetSwiftCodeDetailsFunc    func(ctx context.Context, code string) (*models.SwiftCodeDetails, error)
	GetSwiftCodesByCountryFunc func(ctx context.Context, countryISO2 string) (*models.CountrySwiftCodes, error)
	CreateSwiftCodeFunc        func(ctx context.Context, req *models.CreateSwiftCodeRequest) (*models.SwiftCode, error)
	DeleteSwiftCodeFunc        func(ctx context.Context, code string) error
}

func (m *MockSwiftService) GetInitialSwiftCodes(ctx context.Context) ([]models.SwiftCodeDetails, error) {
	return m.GetInitialSwiftCodesFunc(ctx)
}

func (m *MockSwiftService) GetSwiftCodeDetails(ctx context.Context, code string) (*models.SwiftCodeDetails, error) {
	return m.GetSwiftCodeDetailsFunc(ctx, code)
}

func (m *MockSwiftService) GetSwiftCodesByCountry(ctx context.Context, countryISO2 string) (*models.CountrySwiftCodes, error) {
	return m.GetSwiftCodesByCountryFunc(ctx, countryISO2)
}

func (m *MockSwiftService) CreateSwiftCode(ctx context.Context, req *models.CreateSwiftCodeRequest) (*models.SwiftCode, error) {
	return m.CreateSwiftCodeFunc(ctx, req)
}

func (m *MockSwiftService) DeleteSwiftCode(ctx context.Context, code string) error {
	return m.DeleteSwiftCodeFunc(ctx, code)
}
