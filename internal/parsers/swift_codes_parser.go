package parser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"

	"github.com/zdziszkee/swiftcodes/internal/models"
	reader "github.com/zdziszkee/swiftcodes/internal/readers"
)

const (
	maxBankNameLength    = 255
	maxAddressLength     = 512
	maxCountryNameLength = 100
)

var (
	bicRegex         = regexp.MustCompile(`^[A-Z]{6}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
	countryCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)
)

// SwiftCodesParser turns raw dataset rows into storable SWIFT codes
type SwiftCodesParser interface {
	ParseSwiftCodes(records []reader.SwiftCodeRecord) []*models.SwiftCode
}

// DefaultSwiftCodesParser skips invalid rows and repeated codes, logging each one
type DefaultSwiftCodesParser struct{}

func (p DefaultSwiftCodesParser) ParseSwiftCodes(records []reader.SwiftCodeRecord) []*models.SwiftCode {
	codes := make([]*models.SwiftCode, 0, len(records))
	seen := make(map[string]int, len(records))

	for _, record := range records {
		code, reason := p.parse(record)
		if code == nil {
			log.Warn().Int("row", record.Index).Str("swift_code", record.SwiftCode).Msgf("skipping row: %s", reason)
			continue
		}
		if first, ok := seen[code.SwiftCode]; ok {
			log.Warn().Int("row", record.Index).Int("first_row", first).Str("swift_code", code.SwiftCode).Msg("skipping row: duplicate swift code")
			continue
		}
		seen[code.SwiftCode] = record.Index
		codes = append(codes, code)
	}

	return codes
}

func (p DefaultSwiftCodesParser) parse(record reader.SwiftCodeRecord) (*models.SwiftCode, string) {
	swiftCode := strings.TrimSpace(record.SwiftCode)
	countryISO2 := strings.ToUpper(strings.TrimSpace(record.CountryISO2))
	countryName := strings.ToUpper(strings.TrimSpace(record.CountryName))
	bankName := sanitize(record.BankName)
	address := fullAddress(record.Address, record.TownName)

	switch {
	case swiftCode == "":
		return nil, "swift code cannot be empty"
	case !bicRegex.MatchString(swiftCode):
		return nil, "swift code does not match BIC format"
	case bankName == "":
		return nil, "bank name cannot be empty"
	case len(bankName) > maxBankNameLength:
		return nil, "bank name exceeds maximum length"
	case !countryCodeRegex.MatchString(countryISO2):
		return nil, "country ISO2 code does not match ISO2 format"
	case address == "":
		return nil, "address and town name cannot both be empty"
	case len(address) > maxAddressLength:
		return nil, "address exceeds maximum length"
	case countryName == "":
		return nil, "country name cannot be empty"
	case len(countryName) > maxCountryNameLength:
		return nil, "country name exceeds maximum length"
	}

	return &models.SwiftCode{
		SwiftCode:     swiftCode,
		BankName:      bankName,
		Address:       address,
		CountryISO2:   countryISO2,
		CountryName:   countryName,
		IsHeadquarter: strings.HasSuffix(swiftCode, models.HeadquarterSuffix),
		SwiftCodeBase: models.SwiftCodeBaseOf(swiftCode),
	}, ""
}

// fullAddress appends the town to the street address when there is one
func fullAddress(address, town string) string {
	address = sanitize(address)
	town = sanitize(town)
	switch {
	case town == "":
		return address
	case address == "":
		return town
	default:
		return address + ", " + town
	}
}

// sanitize collapses runs of whitespace and drops control characters
func sanitize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
