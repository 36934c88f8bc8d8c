package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/zdziszkee/swiftcodes/internal/models"
	repository "github.com/zdziszkee/swiftcodes/internal/repositories"
)

// InitialListSize is the number of codes returned by the initial listing
const InitialListSize = 5

// stored codes are upper case ASCII letters and digits
var swiftCodeRegex = regexp.MustCompile(`^[A-Z0-9]+$`)

// SwiftService handles business logic for SWIFT codes
type SwiftService interface {
	GetInitialSwiftCodes(ctx context.Context) ([]models.SwiftCodeDetails, error)
	GetSwiftCodeDetails(ctx context.Context, code string) (*models.SwiftCodeDetails, error)
	GetSwiftCodesByCountry(ctx context.Context, countryISO2 string) (*models.CountrySwiftCodes, error)
	CreateSwiftCode(ctx context.Context, req *models.CreateSwiftCodeRequest) (*models.SwiftCode, error)
	DeleteSwiftCode(ctx context.Context, code string) error
}

// swiftService implements SwiftService
type swiftService struct {
	repo     repository.SwiftCodeRepository
	validate *validator.Validate
}

// NewSwiftService creates a new instance of the Swift service
func NewSwiftService(repo repository.SwiftCodeRepository) SwiftService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = validate.RegisterValidation("swiftcode", func(fl validator.FieldLevel) bool {
		return swiftCodeRegex.MatchString(fl.Field().String())
	})
	return &swiftService{repo: repo, validate: validate}
}

// GetInitialSwiftCodes returns the first codes in ascending order. An empty
// store is reported as ErrNoData.
func (s *swiftService) GetInitialSwiftCodes(ctx context.Context) ([]models.SwiftCodeDetails, error) {
	codes, err := s.repo.ListFirst(ctx, InitialListSize)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, ErrNoData
	}

	result := make([]models.SwiftCodeDetails, 0, len(codes))
	for _, code := range codes {
		result = append(result, models.NewSwiftCodeDetails(code))
	}
	return result, nil
}

// GetSwiftCodeDetails retrieves a code by exact match. Headquarters come
// with every other code sharing their first eight characters.
func (s *swiftService) GetSwiftCodeDetails(ctx context.Context, code string) (*models.SwiftCodeDetails, error) {
	if code == "" {
		return nil, ErrInvalidInput
	}

	bank, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Debug().Str("swift_code", code).Msg("swift code not found")
			return nil, ErrNotFound
		}
		return nil, err
	}

	details := models.NewSwiftCodeDetails(*bank)
	if !bank.IsHeadquarter {
		return &details, nil
	}

	branches, err := s.repo.ListBranches(ctx, bank.SwiftCodeBase, bank.SwiftCode)
	if err != nil {
		return nil, fmt.Errorf("fetch branches of %s: %w", bank.SwiftCode, err)
	}
	entries := make([]models.SwiftCodeEntry, 0, len(branches))
	for _, branch := range branches {
		entries = append(entries, models.NewSwiftCodeEntry(branch))
	}
	details.Branches = &entries

	log.Debug().Str("swift_code", code).Int("branches", len(entries)).Msg("retrieved headquarter details")
	return &details, nil
}

// GetSwiftCodesByCountry retrieves all SWIFT codes for a country, matching
// the ISO2 code case-insensitively
func (s *swiftService) GetSwiftCodesByCountry(ctx context.Context, countryISO2 string) (*models.CountrySwiftCodes, error) {
	countryISO2 = strings.ToUpper(countryISO2)

	codes, err := s.repo.ListByCountry(ctx, countryISO2)
	if err != nil {
		return nil, err
	}
	if len(codes) == 0 {
		return nil, ErrCountryNotFound
	}

	result := &models.CountrySwiftCodes{
		CountryISO2: countryISO2,
		CountryName: codes[0].CountryName,
		SwiftCodes:  make([]models.SwiftCodeEntry, 0, len(codes)),
	}
	for _, code := range codes {
		result.SwiftCodes = append(result.SwiftCodes, models.NewSwiftCodeEntry(code))
	}
	return result, nil
}

// CreateSwiftCode validates and normalizes a request and stores it
func (s *swiftService) CreateSwiftCode(ctx context.Context, req *models.CreateSwiftCodeRequest) (*models.SwiftCode, error) {
	if req == nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "body", Reason: "is required"}}}
	}
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}

	code := normalize(req)
	if err := s.validateStruct(code); err != nil {
		return nil, err
	}

	_, err := s.repo.GetByCode(ctx, code.SwiftCode)
	if err == nil {
		return nil, ErrAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// the primary key still decides when two creates race past the check above
	if err := s.repo.Insert(ctx, code); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}

	log.Info().Str("swift_code", code.SwiftCode).Bool("headquarter", code.IsHeadquarter).Msg("swift code created")
	return code, nil
}

// DeleteSwiftCode removes a SWIFT code by exact match. Branches of a deleted
// headquarter stay in place.
func (s *swiftService) DeleteSwiftCode(ctx context.Context, code string) error {
	if code == "" {
		return ErrInvalidInput
	}

	deleted, err := s.repo.DeleteByCode(ctx, code)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotFound
	}

	log.Info().Str("swift_code", code).Msg("swift code deleted")
	return nil
}

func normalize(req *models.CreateSwiftCodeRequest) *models.SwiftCode {
	swiftCode := strings.TrimSpace(*req.SwiftCode)
	return &models.SwiftCode{
		SwiftCode:     swiftCode,
		BankName:      strings.TrimSpace(*req.BankName),
		Address:       strings.TrimSpace(*req.Address),
		CountryISO2:   strings.ToUpper(strings.TrimSpace(*req.CountryISO2)),
		CountryName:   strings.ToUpper(strings.TrimSpace(*req.CountryName)),
		IsHeadquarter: *req.IsHeadquarter,
		SwiftCodeBase: models.SwiftCodeBaseOf(swiftCode),
	}
}

func (s *swiftService) validateStruct(v interface{}) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	result := &ValidationError{}
	for _, fe := range validationErrors {
		result.Fields = append(result.Fields, FieldError{Field: fe.Field(), Reason: reason(fe)})
	}
	return result
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "swiftcode":
		return "must contain only upper case letters and digits"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
