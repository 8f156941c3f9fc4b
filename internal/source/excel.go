package source

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExcelSource reads registration rows from a local XLSX workbook. Used for
// offline development and testing without Google credentials; the cell
// contract is the same as the Sheets source.
type ExcelSource struct {
	path   string
	sheet  string
	logger *zap.Logger
}

// NewExcelSource builds a source reading from the given workbook. When
// sheet is empty, the workbook's first sheet is used.
func NewExcelSource(path, sheet string, logger *zap.Logger) *ExcelSource {
	return &ExcelSource{path: path, sheet: sheet, logger: logger}
}

// Fetch opens the workbook and returns the header and data rows of the
// configured sheet. The rangeName argument is ignored; a workbook sheet is
// already a single rectangular block.
func (s *ExcelSource) Fetch(ctx context.Context, rangeName string) ([]string, [][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("excel: failed to open %q: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	sheet := s.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("excel: failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("excel: no data found in sheet %q", sheet)
	}

	s.logger.Info("fetched workbook data",
		zap.String("path", s.path),
		zap.String("sheet", sheet),
		zap.Int("rows", len(rows)-1),
	)

	return rows[0], rows[1:], nil
}
