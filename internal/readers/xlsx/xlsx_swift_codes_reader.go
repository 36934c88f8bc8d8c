package xlsx

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	reader "github.com/zdziszkee/swiftcodes/internal/readers"
)

// XLSXSwiftCodesReader reads the first sheet of a workbook
type XLSXSwiftCodesReader struct {
}

func (x *XLSXSwiftCodesReader) ReadSwiftCodes(r io.Reader) ([]reader.SwiftCodeRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.Rows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return []reader.SwiftCodeRecord{}, rows.Error()
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := reader.ValidateHeader(header); err != nil {
		return nil, err
	}

	var records []reader.SwiftCodeRecord
	rowNum := 1
	for rows.Next() {
		// trailing empty cells are not returned, NewRecord reads them as ""
		row, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		if len(row) == 0 {
			continue
		}
		if len(row) > len(reader.Header) {
			return nil, fmt.Errorf("row %d: invalid length", rowNum)
		}

		records = append(records, reader.NewRecord(rowNum, row))
		rowNum++
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	return records, nil
}
