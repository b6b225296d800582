package nodekey

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	require.Equal(t, Key("CEO:Acme"), CEO("Acme"))
	require.Equal(t, Key("DIV:Commercial"), Division(" Commercial "))
	require.Equal(t, Key("DEPT:Sales"), Department("Sales"))
	require.Equal(t, Key("TEAM:Field"), Team("Field"))
	require.Equal(t, Key("MEMBER:E-1"), Member("E-1"))
}

func TestParse(t *testing.T) {
	cases := []struct {
		raw   string
		level Level
		label string
		ok    bool
	}{
		{"DIV:Tech", LevelDivision, "Tech", true},
		{"DEPT:R&D: Lab", LevelDepartment, "R&D: Lab", true},
		{"CEO:", LevelCEO, "", true},
		{"GROUP:x", "", "", false},
		{"no-separator", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			lvl, label, ok := Parse(tc.raw)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.level, lvl)
			require.Equal(t, tc.label, label)
		})
	}
	require.Equal(t, LevelTeam, Team("Ops").Level())
	require.Equal(t, "Ops", Team("Ops").Label())
}
