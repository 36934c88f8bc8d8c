package models

// HeadquarterSuffix marks a headquarter code in the imported dataset.
const HeadquarterSuffix = "XXX"

// SwiftCodeBaseLength is the length of the prefix shared by a headquarter and its branches.
const SwiftCodeBaseLength = 8

// SwiftCode represents a row in the swift_codes table
type SwiftCode struct {
	SwiftCode     string `db:"swift_code" gorm:"column:swift_code;primaryKey" json:"swiftCode" validate:"required,min=8,swiftcode"`
	BankName      string `db:"bank_name" gorm:"column:bank_name;not null" json:"bankName" validate:"required"`
	Address       string `db:"address" gorm:"column:address;not null" json:"address" validate:"required"`
	CountryISO2   string `db:"country_iso2" gorm:"column:country_iso2;not null;index" json:"countryISO2" validate:"required"`
	CountryName   string `db:"country_name" gorm:"column:country_name;not null" json:"countryName" validate:"required"`
	IsHeadquarter bool   `db:"is_headquarter" gorm:"column:is_headquarter;not null" json:"isHeadquarter"`
	SwiftCodeBase string `db:"swift_code_base" gorm:"column:swift_code_base;not null;index" json:"-"`
}

// TableName is the default table used when no table name is configured.
func (SwiftCode) TableName() string {
	return "swift_codes"
}

// SwiftCodeBaseOf returns the group key of a code: its first eight characters,
// or the whole code when it is shorter.
func SwiftCodeBaseOf(code string) string {
	runes := []rune(code)
	if len(runes) < SwiftCodeBaseLength {
		return code
	}
	return string(runes[:SwiftCodeBaseLength])
}
