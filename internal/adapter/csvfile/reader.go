// Package csvfile reads the bike-sharing dataset from a delimited text file.
package csvfile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/bikeshare-dashboard/internal/domain"
)

// ctxCheckEvery is how many rows are read between context checks.
const ctxCheckEvery = 4096

// Reader loads raw records from a file on disk.
// It implements pipeline.Extractor.
type Reader struct {
	path   string
	logger *slog.Logger
}

// NewReader creates a Reader for the file at path.
func NewReader(path string, logger *slog.Logger) *Reader {
	return &Reader{path: path, logger: logger}
}

// Source returns the file path the reader loads from.
func (r *Reader) Source() string { return r.path }

// Extract reads every data row of the file.
func (r *Reader) Extract(ctx context.Context) ([]domain.RawRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	raws, err := ReadRecords(ctx, f)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("dataset read", "path", r.path, "rows", len(raws))
	return raws, nil
}

// ReadRecords parses a header row followed by data rows. The delimiter is
// detected from the header line. A source with no header at all fails with a
// *domain.SchemaError; a header with no rows yields no records.
func ReadRecords(ctx context.Context, src io.Reader) ([]domain.RawRecord, error) {
	br := bufio.NewReader(src)

	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &domain.SchemaError{Missing: domain.RequiredColumns()}
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	schema, err := domain.NewSchema(header)
	if err != nil {
		return nil, err
	}

	raws := make([]domain.RawRecord, 0, 1024)
	for n := 0; ; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset: %w", err)
		}
		if isBlank(fields) {
			continue
		}

		line, _ := cr.FieldPos(0)
		raw, err := schema.ParseRow(fields, line)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// sniffDelimiter picks ',', ';' or '\t' by counting occurrences in the first
// line without consuming it. Comma wins ties.
func sniffDelimiter(br *bufio.Reader) rune {
	peek, _ := br.Peek(4096)
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		peek = peek[:i]
	}

	best, bestCount := ',', bytes.Count(peek, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if c := bytes.Count(peek, []byte{byte(d)}); c > bestCount {
			best, bestCount = d, c
		}
	}
	return best
}

func isBlank(fields []string) bool {
	return len(fields) == 1 && fields[0] == ""
}

// Prepare loads the file at path and prepares it into a table.
func Prepare(ctx context.Context, path string, opts domain.PrepareOptions) (domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	raws, err := ReadRecords(ctx, f)
	if err != nil {
		return domain.Table{}, err
	}
	return domain.Prepare(raws, opts)
}
