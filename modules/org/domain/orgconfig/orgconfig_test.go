package orgconfig

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/orgportal/modules/org/domain/nodekey"
	"github.com/iota-uz/orgportal/modules/roster/domain/employee"
)

func TestGrouping_DivisionFor(t *testing.T) {
	g := Grouping{"Sales": "Commercial", "Field": "Operations"}

	div, ok := g.DivisionFor("Sales", "Field")
	require.True(t, ok)
	require.Equal(t, "Commercial", div)

	div, ok = g.DivisionFor("Unmapped", "Field")
	require.True(t, ok)
	require.Equal(t, "Operations", div)

	_, ok = g.DivisionFor("", "")
	require.False(t, ok)
}

func TestGrouping_WithDoesNotMutateReceiver(t *testing.T) {
	g := Grouping{"Sales": "Commercial"}
	g2 := g.With("Support", "Commercial").Without("Sales")

	require.Equal(t, Grouping{"Sales": "Commercial"}, g)
	require.Equal(t, Grouping{"Support": "Commercial"}, g2)
}

func TestSortOrder_PriorityOf(t *testing.T) {
	s := SortOrder{}.With(nodekey.Division("A"), 1)
	require.Equal(t, 1, s.PriorityOf(nodekey.Division("A"), DefaultPriority))
	require.Equal(t, DefaultPriority, s.PriorityOf(nodekey.Division("B"), DefaultPriority))
	require.Empty(t, s.Without(nodekey.Division("A")))
}

func TestLeadership_DanglingBehavesAsAbsent(t *testing.T) {
	index := employee.Roster{{ID: "1", Name: "Kim"}}.Index()
	l := Leadership{}.With(nodekey.Department("Sales"), "404")

	_, ok := l.Resolve(nodekey.Department("Sales"), index)
	require.False(t, ok)
	require.True(t, l.Dangling(nodekey.Department("Sales"), index))

	l = l.With(nodekey.Department("Sales"), "1")
	e, ok := l.Resolve(nodekey.Department("Sales"), index)
	require.True(t, ok)
	require.Equal(t, "Kim", e.Name)

	_, ok = l.Without(nodekey.Department("Sales")).Resolve(nodekey.Department("Sales"), index)
	require.False(t, ok)
}

func TestCrossUnit_MembersOf(t *testing.T) {
	index := employee.Roster{{ID: "1", Name: "A"}, {ID: "2", Name: "B"}}.Index()
	key := nodekey.Division("B")
	c := CrossUnit{}.With(key, "2").With(key, "missing").With(key, "1").With(key, "2")

	require.Equal(t, []string{"2", "missing", "1"}, c[key])
	members := c.MembersOf(key, index)
	require.Len(t, members, 2)
	require.Equal(t, "2", members[0].ID)
	require.Equal(t, "1", members[1].ID)

	c = c.Without(key, "2").Without(key, "missing").Without(key, "1")
	require.NotContains(t, c, key)
}

func TestCrossUnit_UnitsOf(t *testing.T) {
	c := CrossUnit{
		nodekey.Team("T"):     {"x"},
		nodekey.Division("D"): {"x", "y"},
	}
	require.Equal(t, []nodekey.Key{nodekey.Division("D"), nodekey.Team("T")}, c.UnitsOf("x"))
}

func TestTables_ConfiguredKeys(t *testing.T) {
	tables := Tables{
		SortOrder:  SortOrder{nodekey.Division("Z"): 2, nodekey.Department("Ops"): 1},
		Leadership: Leadership{nodekey.Division("A"): "1"},
		CrossUnit:  CrossUnit{nodekey.Division("M"): {"1"}, nodekey.Division("Empty"): {}},
	}
	require.Equal(t,
		[]nodekey.Key{nodekey.Division("A"), nodekey.Division("M"), nodekey.Division("Z")},
		tables.ConfiguredKeys(nodekey.LevelDivision),
	)
	require.True(t, tables.HasEntry(nodekey.Department("Ops")))
	require.False(t, tables.HasEntry(nodekey.Division("Empty")))
}
