package excel

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"school-management-api/internal/model"
	"school-management-api/pkg/errors"

	"github.com/xuri/excelize/v2"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes the first worksheet of an xlsx workbook. Row 1 is the header;
// every non-blank row after it becomes an ImportRow numbered index+2.
func (p *Parser) Parse(ctx context.Context, data []byte) ([]model.ImportRow, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidFileFormat, err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ErrEmptySheet
	}

	rows, err := file.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	if len(rows) == 0 {
		return []model.ImportRow{}, nil
	}

	header := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		header[i] = strings.TrimSpace(col)
	}

	result := make([]model.ImportRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		cells := make(map[string]string, len(header))
		blank := true
		for i, name := range header {
			if name == "" || i >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[i])
			if value != "" {
				blank = false
			}
			cells[name] = value
		}
		if blank {
			continue
		}

		result = append(result, model.ImportRow{
			Number: len(result) + 2,
			Cells:  cells,
		})
	}

	return result, nil
}
