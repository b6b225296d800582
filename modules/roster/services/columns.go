package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

type Field string

const (
	FieldID          Field = "id"
	FieldName        Field = "name"
	FieldEnglishName Field = "englishName"
	FieldCompany     Field = "company"
	FieldDivision    Field = "division"
	FieldDepartment  Field = "department"
	FieldTeam        Field = "team"
	FieldPosition    Field = "position"
	FieldDuty        Field = "duty"
	FieldNationalID  Field = "nationalId"
	FieldPhone       Field = "phone"
	FieldExtension   Field = "extension"
	FieldEmail       Field = "email"
	FieldJoinedDate  Field = "joinedDate"
	FieldStatus      Field = "status"
)

// ColumnAliases lists, per field, the header labels that identify its column.
// Exact aliases must equal the normalized header; Contains aliases may appear
// anywhere in it.
type ColumnAliases struct {
	Field    Field
	Exact    []string
	Contains []string
}

// Columns is ordered from the most specific field to the most generic one.
// A header cell is claimed by the first field that matches it, so "English
// name" goes to FieldEnglishName before FieldName can see it.
var Columns = []ColumnAliases{
	{
		Field:    FieldID,
		Exact:    []string{"id", "사번"},
		Contains: []string{"사번", "사원번호", "직원번호", "employeeno", "employeenumber", "employeeid", "empno", "empid", "staffno", "staffid", "personnelno", "pernr"},
	},
	{
		Field:    FieldNationalID,
		Exact:    []string{"주민번호", "주민등록번호", "nationalid", "ssn", "rrn"},
		Contains: []string{"주민", "nationalid", "residentno", "residentnumber", "ssn"},
	},
	{
		Field:    FieldEnglishName,
		Exact:    []string{"englishname", "영문이름", "영문명", "영문성명"},
		Contains: []string{"english", "영문", "engname"},
	},
	{
		Field:    FieldExtension,
		Exact:    []string{"extension", "ext", "내선", "내선번호"},
		Contains: []string{"extension", "내선", "ext"},
	},
	{
		Field:    FieldEmail,
		Exact:    []string{"email", "메일", "이메일"},
		Contains: []string{"mail", "메일"},
	},
	{
		Field:    FieldPhone,
		Exact:    []string{"phone", "mobile", "휴대폰", "연락처", "전화번호", "핸드폰"},
		Contains: []string{"phone", "mobile", "휴대", "연락처", "전화", "핸드폰", "tel"},
	},
	{
		Field:    FieldJoinedDate,
		Exact:    []string{"joineddate", "joindate", "hiredate", "입사일", "입사일자"},
		Contains: []string{"입사", "joined", "joindate", "hire", "startdate"},
	},
	{
		Field:    FieldCompany,
		Exact:    []string{"company", "회사", "법인", "소속회사", "companyname"},
		Contains: []string{"company", "회사", "법인", "corp"},
	},
	{
		Field:    FieldDivision,
		Exact:    []string{"division", "본부", "부문", "사업부"},
		Contains: []string{"division", "본부", "부문"},
	},
	{
		Field:    FieldDepartment,
		Exact:    []string{"department", "dept", "부서", "부서명", "실"},
		Contains: []string{"department", "dept", "부서"},
	},
	{
		Field:    FieldTeam,
		Exact:    []string{"team", "팀", "팀명", "teamname"},
		Contains: []string{"team", "팀"},
	},
	{
		Field:    FieldPosition,
		Exact:    []string{"position", "grade", "rank", "직급", "직위"},
		Contains: []string{"position", "grade", "직급", "직위"},
	},
	{
		Field:    FieldDuty,
		Exact:    []string{"duty", "title", "jobtitle", "role", "직책", "직무"},
		Contains: []string{"duty", "jobtitle", "직책", "직무", "title"},
	},
	{
		Field:    FieldStatus,
		Exact:    []string{"status", "재직상태", "상태"},
		Contains: []string{"status", "재직", "상태"},
	},
	{
		Field:    FieldName,
		Exact:    []string{"name", "성명", "이름", "fullname", "displayname", "employeename", "한글이름", "한글성명"},
		Contains: []string{"성명", "이름", "fullname", "name"},
	},
}

// NormalizeHeader folds width and case and drops whitespace and the
// punctuation commonly used inside header labels.
func NormalizeHeader(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		switch r {
		case '_', '-', '.', '(', ')', '/', ':', '*':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (c ColumnAliases) matchesExact(normalized string) bool {
	for _, a := range c.Exact {
		if normalized == NormalizeHeader(a) {
			return true
		}
	}
	return false
}

func (c ColumnAliases) matchesContains(normalized string) bool {
	for _, a := range c.Contains {
		if strings.Contains(normalized, NormalizeHeader(a)) {
			return true
		}
	}
	return false
}

func (c ColumnAliases) Matches(header string) bool {
	n := NormalizeHeader(header)
	if n == "" {
		return false
	}
	return c.matchesExact(n) || c.matchesContains(n)
}

func aliasesOf(f Field) ColumnAliases {
	for _, c := range Columns {
		if c.Field == f {
			return c
		}
	}
	return ColumnAliases{Field: f}
}

// looksLikeHeader reports whether some cell names the id column and some cell
// names the name column.
func looksLikeHeader(row []string) bool {
	id, name := aliasesOf(FieldID), aliasesOf(FieldName)
	var hasID, hasName bool
	for _, cell := range row {
		hasID = hasID || id.Matches(cell)
		hasName = hasName || name.Matches(cell)
	}
	return hasID && hasName
}

// ResolveColumns maps fields to column indexes. Exact matches are claimed
// before substring matches; within a pass, fields claim in Columns order and
// each field takes the left-most free column. Unmatched fields are absent.
func ResolveColumns(header []string) map[Field]int {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = NormalizeHeader(h)
	}
	out := make(map[Field]int, len(Columns))
	claimed := make(map[int]struct{}, len(header))

	claim := func(match func(ColumnAliases, string) bool) {
		for _, c := range Columns {
			if _, done := out[c.Field]; done {
				continue
			}
			for i, n := range normalized {
				if n == "" {
					continue
				}
				if _, taken := claimed[i]; taken {
					continue
				}
				if match(c, n) {
					out[c.Field] = i
					claimed[i] = struct{}{}
					break
				}
			}
		}
	}
	claim(ColumnAliases.matchesExact)
	claim(ColumnAliases.matchesContains)
	return out
}
