package services

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/orgportal/modules/roster/domain/employee"
)

func sheet() [][]string {
	return [][]string{
		{"Acme Holdings staff roster"},
		{},
		{"사번", "성명", "English Name", "회사", "부서", "팀", "직책", "입사일", "주민번호"},
		{"1001", "김철수", "Chulsoo Kim", "Acme", "Sales", "Field", "팀장", "2023-03-15", "900101-1234567"},
		{"1002", "", "Nobody", "", "Sales"},
		{"1003", "이영희", "", "", "Sales", "", "사원", "45000", ""},
		{"", "", "", "", "", "", "", "", ""},
		{"2001", "박민수", "", "Beta", "Ops"},
	}
}

func TestIngester_Parse(t *testing.T) {
	res, err := NewIngester().Parse(sheet())
	require.NoError(t, err)

	require.Equal(t, 2, res.HeaderRow)
	require.Equal(t, 3, res.Parsed)
	require.Len(t, res.Employees, res.Parsed)
	require.Equal(t, 1, res.Skipped)
	require.Zero(t, res.Duplicates)

	kim := res.Employees[0]
	require.Equal(t, "1001", kim.ID)
	require.Equal(t, "김철수", kim.Name)
	require.Equal(t, "Chulsoo Kim", kim.EnglishName)
	require.Equal(t, "Acme", kim.PrimaryCompany)
	require.Equal(t, "900101", kim.BirthDate)
	require.Equal(t, employee.StatusActive, kim.Status)
	require.True(t, kim.IsHead)

	lee := res.Employees[1]
	require.Equal(t, "Acme", lee.PrimaryCompany, "company carries forward")
	require.Equal(t, kim.JoinedDate, lee.JoinedDate)
	require.False(t, lee.IsHead)

	require.Equal(t, "Beta", res.Employees[2].PrimaryCompany)
}

func TestIngester_DuplicateIDsKeepFirstPosition(t *testing.T) {
	res, err := NewIngester().Parse([][]string{
		{"ID", "Name", "Department"},
		{"1", "Ann", "Sales"},
		{"2", "Bob", "Sales"},
		{"1", "Ann", "Marketing"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.Parsed)
	require.Equal(t, 1, res.Duplicates)
	require.Equal(t, "1", res.Employees[0].ID)
	require.Equal(t, "Marketing", res.Employees[0].Department)
}

func TestIngester_Errors(t *testing.T) {
	in := NewIngester()

	_, err := in.Parse(nil)
	require.True(t, errors.Is(err, ErrNoDataRows))

	_, err = in.Parse([][]string{{"a", "b"}, {"1", "2"}})
	require.True(t, errors.Is(err, ErrHeaderNotFound))

	_, err = in.Parse([][]string{{"사번", "English Name"}, {"1", "Ann"}})
	require.True(t, errors.Is(err, ErrRequiredColumns))

	_, err = in.Parse([][]string{{"사번", "성명"}, {"", "Ann"}, {"2", ""}})
	require.True(t, errors.Is(err, ErrNoDataRows))
}

func TestIngester_HeaderScanLimit(t *testing.T) {
	rows := make([][]string, 0, 30)
	for i := 0; i < 25; i++ {
		rows = append(rows, []string{"note"})
	}
	rows = append(rows, []string{"사번", "성명"}, []string{"1", "Ann"})

	_, err := NewIngester().Parse(rows)
	require.True(t, errors.Is(err, ErrHeaderNotFound))

	res, err := NewIngester(WithHeaderScanRows(30)).Parse(rows)
	require.NoError(t, err)
	require.Equal(t, 25, res.HeaderRow)
	require.Equal(t, 1, res.Parsed)
}

func TestIngester_StatusColumn(t *testing.T) {
	res, err := NewIngester().Parse([][]string{
		{"사번", "성명", "상태"},
		{"1", "Ann", "휴직"},
		{"2", "Bob", ""},
	})
	require.NoError(t, err)
	require.Equal(t, employee.StatusLeave, res.Employees[0].Status)
	require.Equal(t, employee.StatusActive, res.Employees[1].Status)
}
