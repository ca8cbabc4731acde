package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tastelens/backend/internal/domain"
)

// LoaderFor picks a table loader from the file extension
func LoaderFor(path, sheet string) (domain.TableLoader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return CSVLoader{}, nil
	case ".xlsx", ".xlsm":
		return XLSXLoader{Sheet: sheet}, nil
	}
	return nil, fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidRequest, filepath.Ext(path))
}

// Load reads a table with the loader matching the file extension
func Load(ctx context.Context, path, sheet string) (*domain.Table, error) {
	loader, err := LoaderFor(path, sheet)
	if err != nil {
		return nil, err
	}
	return loader.Load(ctx, path)
}

// tableFromRecords builds a table from a header row and data rows. Short
// rows are padded with empty cells; blank header names become "Unnamed: i"
// and repeated names get a ".n" suffix.
func tableFromRecords(header []string, rows [][]string) (*domain.Table, error) {
	names := headerNames(header)

	cells := make([][]string, len(names))
	for c := range cells {
		cells[c] = make([]string, len(rows))
	}
	for r, row := range rows {
		if len(row) > len(names) {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d", domain.ErrMalformedValue, r+2, len(row), len(names))
		}
		for c := range row {
			cells[c][r] = row[c]
		}
	}

	table := domain.NewTable()
	for c, name := range names {
		if err := table.AddColumn(domain.NewColumnFromStrings(name, cells[c])); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func headerNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}
	return names
}

// isBlank reports whether every field of a row is empty
func isBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
