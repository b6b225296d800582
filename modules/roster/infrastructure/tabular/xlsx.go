package tabular

import (
	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"
)

var ErrSheetNotFound = errors.New("sheet not found")

// Workbook is the cell grid of one worksheet plus the date system the
// workbook uses for numeric dates.
type Workbook struct {
	Sheet    string
	Rows     [][]string
	Date1904 bool
}

// ReadXLSX reads one sheet, or the first one when sheet is empty. Cells are
// returned raw so that date cells arrive as serial day counts.
func ReadXLSX(path, sheet string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "open xlsx")
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.Wrap(ErrSheetNotFound, path)
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, errors.Wrapf(ErrSheetNotFound, "%q", sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", sheet)
	}
	wb := &Workbook{Sheet: sheet, Rows: rows}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.Date1904 = *props.Date1904
	}
	return wb, nil
}
