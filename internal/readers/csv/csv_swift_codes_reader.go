package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	reader "github.com/zdziszkee/swiftcodes/internal/readers"
)

type CSVSwiftCodesReader struct {
}

func (c *CSVSwiftCodesReader) ReadSwiftCodes(r io.Reader) ([]reader.SwiftCodeRecord, error) {
	csvReader := csv.NewReader(r)
	csvReader.TrimLeadingSpace = true
	csvReader.ReuseRecord = true

	header, err := csvReader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []reader.SwiftCodeRecord{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := reader.ValidateHeader(header); err != nil {
		return nil, err
	}

	var records []reader.SwiftCodeRecord
	rowNum := 1
	for {
		row, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		if len(row) != len(reader.Header) {
			return nil, fmt.Errorf("row %d: invalid length", rowNum)
		}

		records = append(records, reader.NewRecord(rowNum, row))
		rowNum++
	}

	return records, nil
}
