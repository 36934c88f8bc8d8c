package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	parser "github.com/zdziszkee/swiftcodes/internal/parsers"
	reader "github.com/zdziszkee/swiftcodes/internal/readers"
	"github.com/zdziszkee/swiftcodes/internal/readers/csv"
	"github.com/zdziszkee/swiftcodes/internal/readers/xlsx"
	repository "github.com/zdziszkee/swiftcodes/internal/repositories"
)

const DefaultBatchSize = 1000

// Result summarizes one import run
type Result struct {
	Rows     int
	Valid    int
	Inserted int64
	Failed   int
	Duration time.Duration
}

// Skipped counts rows that were invalid, repeated in the file or already stored
func (r Result) Skipped() int {
	return r.Rows - int(r.Inserted) - r.Failed
}

// Importer loads the SWIFT codes dataset into a repository
type Importer struct {
	repo      repository.SwiftCodeRepository
	parser    parser.SwiftCodesParser
	batchSize int
}

func New(repo repository.SwiftCodeRepository, batchSize int) *Importer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Importer{
		repo:      repo,
		parser:    parser.DefaultSwiftCodesParser{},
		batchSize: batchSize,
	}
}

// ReaderFor picks a reader from the file extension
func ReaderFor(path string) (reader.SwiftCodesReader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return &csv.CSVSwiftCodesReader{}, nil
	case ".xlsx":
		return &xlsx.XLSXSwiftCodesReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q: expected .csv or .xlsx", filepath.Ext(path))
	}
}

// ImportFile loads a CSV or XLSX file
func (i *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	rdr, err := ReaderFor(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	log.Info().Str("file", path).Msg("importing swift codes")
	return i.Import(ctx, file, rdr)
}

// Import reads, validates and stores every row. A failing batch is logged
// and the remaining batches are still attempted.
func (i *Importer) Import(ctx context.Context, r io.Reader, rdr reader.SwiftCodesReader) (*Result, error) {
	startTime := time.Now()

	records, err := rdr.ReadSwiftCodes(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read swift codes: %w", err)
	}
	codes := i.parser.ParseSwiftCodes(records)

	result := &Result{Rows: len(records), Valid: len(codes)}
	var errs []error
	for start := 0; start < len(codes); start += i.batchSize {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			result.Failed += len(codes) - start
			break
		}

		end := min(start+i.batchSize, len(codes))
		batch := codes[start:end]

		inserted, err := i.repo.InsertBatch(ctx, batch)
		if err != nil {
			log.Error().Err(err).Int("from", start).Int("to", end-1).Msg("failed to insert batch")
			errs = append(errs, fmt.Errorf("rows %d-%d: %w", start, end-1, err))
			result.Failed += len(batch)
			continue
		}
		result.Inserted += inserted
		log.Debug().Int("batch", len(batch)).Int64("inserted", inserted).Msg("batch stored")
	}

	result.Duration = time.Since(startTime)
	log.Info().
		Int("rows", result.Rows).
		Int("valid", result.Valid).
		Int64("inserted", result.Inserted).
		Int("skipped", result.Skipped()).
		Dur("duration", result.Duration).
		Msg("swift codes import finished")

	return result, errors.Join(errs...)
}
