package reader

import (
	"fmt"
	"io"
	"strings"
)

// Columns of the SWIFT codes dataset, in file order
const (
	ColumnCountryISO2 = "COUNTRY ISO2 CODE"
	ColumnSwiftCode   = "SWIFT CODE"
	ColumnCodeType    = "CODE TYPE"
	ColumnName        = "NAME"
	ColumnAddress     = "ADDRESS"
	ColumnTownName    = "TOWN NAME"
	ColumnCountryName = "COUNTRY NAME"
	ColumnTimeZone    = "TIME ZONE"
)

// Header is the exact column layout expected in the first row
var Header = []string{
	ColumnCountryISO2,
	ColumnSwiftCode,
	ColumnCodeType,
	ColumnName,
	ColumnAddress,
	ColumnTownName,
	ColumnCountryName,
	ColumnTimeZone,
}

// SwiftCodeRecord is one raw row of the dataset, trimmed but otherwise unchanged
type SwiftCodeRecord struct {
	Index       int
	CountryISO2 string // COUNTRY ISO2 CODE
	SwiftCode   string // SWIFT CODE
	CodeType    string // CODE TYPE
	BankName    string // NAME
	Address     string // ADDRESS
	TownName    string // TOWN NAME
	CountryName string // COUNTRY NAME
	TimeZone    string // TIME ZONE
}

// SwiftCodesReader reads dataset rows from a file in one format
type SwiftCodesReader interface {
	ReadSwiftCodes(reader io.Reader) ([]SwiftCodeRecord, error)
}

// ValidateHeader checks a header row against Header, ignoring case and surrounding spaces
func ValidateHeader(header []string) error {
	if len(header) != len(Header) {
		return fmt.Errorf("invalid header length: expected %d, got %d", len(Header), len(header))
	}
	for i, col := range header {
		if !strings.EqualFold(strings.TrimSpace(col), Header[i]) {
			return fmt.Errorf("invalid header: expected '%s' at index %d, got '%s'", Header[i], i, col)
		}
	}
	return nil
}

// NewRecord builds a record from a row laid out as Header. Missing trailing
// cells are read as empty.
func NewRecord(index int, row []string) SwiftCodeRecord {
	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	return SwiftCodeRecord{
		Index:       index,
		CountryISO2: cell(0),
		SwiftCode:   cell(1),
		CodeType:    cell(2),
		BankName:    cell(3),
		Address:     cell(4),
		TownName:    cell(5),
		CountryName: cell(6),
		TimeZone:    cell(7),
	}
}
