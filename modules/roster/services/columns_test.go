package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	require.Equal(t, "englishname", NormalizeHeader(" English_Name "))
	require.Equal(t, "입사일자", NormalizeHeader("입사 일자(*)"))
	require.Equal(t, "empno", NormalizeHeader("ＥＭＰ.No"))
}

func TestResolveColumns_EnglishNameDoesNotStealName(t *testing.T) {
	cols := ResolveColumns([]string{"English Name", "Name", "Employee ID"})
	require.Equal(t, 0, cols[FieldEnglishName])
	require.Equal(t, 1, cols[FieldName])
	require.Equal(t, 2, cols[FieldID])
}

func TestResolveColumns_ExactBeatsSubstring(t *testing.T) {
	// "팀" is an exact team header; "팀장" only contains it.
	cols := ResolveColumns([]string{"사번", "성명", "팀장", "팀"})
	require.Equal(t, 3, cols[FieldTeam])
}

func TestResolveColumns_UnmatchedFieldsAbsent(t *testing.T) {
	cols := ResolveColumns([]string{"사번", "성명", "비고"})
	require.Len(t, cols, 2)
	_, ok := cols[FieldEmail]
	require.False(t, ok)
}

func TestLooksLikeHeader(t *testing.T) {
	require.True(t, looksLikeHeader([]string{"사번", "성명"}))
	require.True(t, looksLikeHeader([]string{"Employee No", "Full Name"}))
	require.False(t, looksLikeHeader([]string{"2024 roster"}))
	require.False(t, looksLikeHeader([]string{"1001", "김철수"}))
}
