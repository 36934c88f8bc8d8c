package models

// SwiftCodeEntry is a code listed inside another response. It carries no
// country name: branches and country listings report it once at the top.
type SwiftCodeEntry struct {
	Address       string `json:"address"`
	BankName      string `json:"bankName"`
	CountryISO2   string `json:"countryISO2"`
	IsHeadquarter bool   `json:"isHeadquarter"`
	SwiftCode     string `json:"swiftCode"`
}

// SwiftCodeDetails is the response for a single code.
//
// Branches is a pointer so that a headquarter without branches still renders
// "branches": [] while a branch renders no branches key at all.
type SwiftCodeDetails struct {
	Address       string            `json:"address"`
	BankName      string            `json:"bankName"`
	CountryISO2   string            `json:"countryISO2"`
	CountryName   string            `json:"countryName"`
	IsHeadquarter bool              `json:"isHeadquarter"`
	SwiftCode     string            `json:"swiftCode"`
	Branches      *[]SwiftCodeEntry `json:"branches,omitempty"`
}

// CountrySwiftCodes holds all SWIFT codes for a specific country
type CountrySwiftCodes struct {
	CountryISO2 string           `json:"countryISO2"`
	CountryName string           `json:"countryName"`
	SwiftCodes  []SwiftCodeEntry `json:"swiftCodes"`
}

// CreateSwiftCodeRequest is the body of a create request. Fields are pointers
// so a missing or null field can be told apart from a zero value.
type CreateSwiftCodeRequest struct {
	Address       *string `json:"address" validate:"required"`
	BankName      *string `json:"bankName" validate:"required"`
	CountryISO2   *string `json:"countryISO2" validate:"required"`
	CountryName   *string `json:"countryName" validate:"required"`
	IsHeadquarter *bool   `json:"isHeadquarter" validate:"required"`
	SwiftCode     *string `json:"swiftCode" validate:"required"`
}

// NewSwiftCodeDetails shapes a stored row without branches.
func NewSwiftCodeDetails(code SwiftCode) SwiftCodeDetails {
	return SwiftCodeDetails{
		Address:       code.Address,
		BankName:      code.BankName,
		CountryISO2:   code.CountryISO2,
		CountryName:   code.CountryName,
		IsHeadquarter: code.IsHeadquarter,
		SwiftCode:     code.SwiftCode,
	}
}

// NewSwiftCodeEntry shapes a stored row as a list entry.
func NewSwiftCodeEntry(code SwiftCode) SwiftCodeEntry {
	return SwiftCodeEntry{
		Address:       code.Address,
		BankName:      code.BankName,
		CountryISO2:   code.CountryISO2,
		IsHeadquarter: code.IsHeadquarter,
		SwiftCode:     code.SwiftCode,
	}
}
