package source

import (
	"github.com/tealeg/xlsx"

	"github.com/matzehuels/hexgrid/pkg/errors"
)

// ReadXLSX reads records from the first worksheet of an Excel workbook.
// The first row is the header.
func ReadXLSX(path string, opts Options) ([]Record, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open workbook %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "workbook %s has no sheets", path)
	}

	table := sheetValues(f.Sheets[0])
	if len(table) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sheet %q is empty", f.Sheets[0].Name)
	}
	return readTable(table[0], table[1:], opts, 2)
}

// sheetValues returns the raw cell values of s row by row.
func sheetValues(s *xlsx.Sheet) [][]string {
	out := make([][]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		if row == nil {
			out = append(out, nil)
			continue
		}
		values := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			if cell != nil {
				values[i] = cell.Value
			}
		}
		out = append(out, values)
	}
	return out
}
