package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tastelens/backend/internal/domain"
	"github.com/tastelens/backend/internal/logging"
)

// CSVLoader reads comma-separated files with a header row
type CSVLoader struct {
	Comma rune // default ','
}

// Load reads the file at path
func (l CSVLoader) Load(ctx context.Context, path string) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	table, err := l.Read(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	logging.Ctx(ctx).Debug().
		Str("path", path).
		Int("rows", table.Len()).
		Int("columns", len(table.Columns())).
		Msg("CSV loaded")
	return table, nil
}

// Read parses CSV content from r
func (l CSVLoader) Read(ctx context.Context, r io.Reader) (*domain.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false
	if l.Comma != 0 {
		reader.Comma = l.Comma
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", domain.ErrMalformedValue)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedValue, err)
	}

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedValue, err)
		}
		if isBlank(record) {
			continue
		}
		rows = append(rows, record)
	}

	return tableFromRecords(header, rows)
}

// WriteCSV writes a table with a header row. Null cells are written empty.
func WriteCSV(w io.Writer, table *domain.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(table.ColumnNames()); err != nil {
		return err
	}

	cols := table.Columns()
	record := make([]string, len(cols))
	for row := 0; row < table.Len(); row++ {
		for c, col := range cols {
			record[c] = col.Values[row].String()
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
