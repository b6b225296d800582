// Package tabular loads roster spreadsheets into plain cell grids.
package tabular

import (
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// Read dispatches on the file extension. sheet is ignored for CSV files.
func Read(path, sheet string) (*Workbook, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		rows, err := ReadCSV(path)
		if err != nil {
			return nil, err
		}
		return &Workbook{Rows: rows}, nil
	case ".xlsx", ".xlsm":
		return ReadXLSX(path, sheet)
	default:
		return nil, errors.Wrap(ErrUnsupportedFormat, filepath.Base(path))
	}
}
