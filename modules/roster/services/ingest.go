package services

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/orgportal/modules/org/domain/keywords"
	"github.com/iota-uz/orgportal/modules/roster/domain/employee"
)

// DefaultHeaderScanRows bounds the search for the header row.
const DefaultHeaderScanRows = 20

var (
	ErrNoDataRows      = errors.New("no data rows")
	ErrHeaderNotFound  = errors.New("header row not found")
	ErrRequiredColumns = errors.New("required columns not recognized")
)

// ImportResult is a parsed roster awaiting confirmation. Parsed always equals
// len(Employees).
type ImportResult struct {
	ID         uuid.UUID       `json:"id"`
	Employees  employee.Roster `json:"employees"`
	Parsed     int             `json:"parsed"`
	Skipped    int             `json:"skipped"`
	Duplicates int             `json:"duplicates"`
	HeaderRow  int             `json:"headerRow"`
	Columns    map[Field]int   `json:"columns"`
}

type IngesterOption func(*Ingester)

func WithHeaderScanRows(n int) IngesterOption {
	return func(i *Ingester) {
		if n > 0 {
			i.headerScanRows = n
		}
	}
}

// With1904Dates reads numeric dates in the 1904 spreadsheet date system.
func With1904Dates(v bool) IngesterOption {
	return func(i *Ingester) { i.use1904 = v }
}

func WithIngestLogger(log *logrus.Entry) IngesterOption {
	return func(i *Ingester) { i.log = log }
}

// Ingester turns rows of cells into roster records. It holds configuration
// only; Parse has no side effects.
type Ingester struct {
	headerScanRows int
	use1904        bool
	log            *logrus.Entry
}

func NewIngester(opts ...IngesterOption) *Ingester {
	i := &Ingester{headerScanRows: DefaultHeaderScanRows}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Parse detects the header, resolves columns and converts every data row.
// Rows without an id or a name are skipped; file-level problems abort the
// whole parse and nothing is returned.
func (in *Ingester) Parse(rows [][]string) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}

	header := -1
	for i := 0; i < len(rows) && i < in.headerScanRows; i++ {
		if looksLikeHeader(rows[i]) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, errors.Wrapf(ErrHeaderNotFound, "searched first %d rows", min(len(rows), in.headerScanRows))
	}

	cols := ResolveColumns(rows[header])
	var missing []string
	for _, f := range []Field{FieldID, FieldName} {
		if _, ok := cols[f]; !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return nil, errors.Wrapf(ErrRequiredColumns, "header row %d lacks %s", header+1, strings.Join(missing, ", "))
	}

	res := &ImportResult{
		ID:        uuid.New(),
		HeaderRow: header,
		Columns:   cols,
	}
	at := make(map[string]int)
	company := ""
	for lineNo, row := range rows[header+1:] {
		cell := func(f Field) string {
			i, ok := cols[f]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if c := cell(FieldCompany); c != "" {
			company = c
		}

		id, name := cell(FieldID), cell(FieldName)
		if id == "" || name == "" {
			if !blankRow(row) {
				res.Skipped++
				in.debugf("row %d skipped: missing id or name", header+lineNo+2)
			}
			continue
		}

		e := in.toEmployee(id, name, company, cell)
		if err := employee.Validate(e); err != nil {
			res.Skipped++
			in.debugf("row %d skipped: %v", header+lineNo+2, err)
			continue
		}
		if i, dup := at[e.ID]; dup {
			res.Employees[i] = e
			res.Duplicates++
			continue
		}
		at[e.ID] = len(res.Employees)
		res.Employees = append(res.Employees, e)
	}

	res.Parsed = len(res.Employees)
	if res.Parsed == 0 {
		return nil, errors.Wrap(ErrNoDataRows, "no row carried both id and name")
	}
	return res, nil
}

func (in *Ingester) toEmployee(id, name, company string, cell func(Field) string) employee.Employee {
	e := employee.Employee{
		ID:              id,
		Name:            name,
		EnglishName:     cell(FieldEnglishName),
		PrimaryCompany:  company,
		Division:        cell(FieldDivision),
		Department:      cell(FieldDepartment),
		Team:            cell(FieldTeam),
		Position:        cell(FieldPosition),
		Duty:            cell(FieldDuty),
		Email:           cell(FieldEmail),
		Phone:           cell(FieldPhone),
		ExtensionNumber: cell(FieldExtension),
		Status:          employee.ParseStatus(cell(FieldStatus)),
	}
	if d, ok := ParseDate(cell(FieldJoinedDate), in.use1904); ok {
		e.JoinedDate = d
	}
	if b, ok := BirthDateFromNationalID(cell(FieldNationalID)); ok {
		e.BirthDate = b
	}
	e.IsHead = keywords.IsHead(e.Duty, e.Position)
	e.Normalize()
	return e
}

func (in *Ingester) debugf(format string, args ...any) {
	if in.log != nil {
		in.log.Debugf(format, args...)
	}
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
