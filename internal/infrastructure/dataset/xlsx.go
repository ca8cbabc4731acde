package dataset

import (
	"context"
	"fmt"

	"github.com/tastelens/backend/internal/domain"
	"github.com/tastelens/backend/internal/logging"
	"github.com/xuri/excelize/v2"
)

// XLSXLoader reads one worksheet of an Excel workbook; the first row is the header
type XLSXLoader struct {
	Sheet string // default: first sheet
}

// Load reads the workbook at path
func (l XLSXLoader) Load(ctx context.Context, path string) (*domain.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	table, err := l.read(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	logging.Ctx(ctx).Debug().
		Str("path", path).
		Str("sheet", l.Sheet).
		Int("rows", table.Len()).
		Msg("Workbook loaded")
	return table, nil
}

func (l XLSXLoader) read(ctx context.Context, f *excelize.File) (*domain.Table, error) {
	sheet := l.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", domain.ErrMalformedValue)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", domain.ErrDatasetNotFound, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", domain.ErrMalformedValue, sheet)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		data = append(data, row)
	}
	return tableFromRecords(rows[0], data)
}
