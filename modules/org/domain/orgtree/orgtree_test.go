package orgtree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/orgportal/modules/org/domain/nodekey"
)

func sampleTree() *OrgNode {
	return &OrgNode{
		ID:   nodekey.CEO("Acme"),
		Type: TypeCEO,
		Children: []*OrgNode{
			{
				ID: nodekey.Division("A"), Type: TypeDivision, ManagerID: "1",
				Children: []*OrgNode{
					{ID: nodekey.Member("2"), Type: TypeMember},
					{ID: nodekey.Department("D"), Type: TypeDepartment},
				},
			},
			{ID: nodekey.Division("B"), Type: TypeDivision},
		},
	}
}

func TestOrgNode_WalkPreOrder(t *testing.T) {
	var got []nodekey.Key
	var depths []int
	sampleTree().Walk(func(n *OrgNode, depth int) bool {
		got = append(got, n.ID)
		depths = append(depths, depth)
		return true
	})
	require.Equal(t, []nodekey.Key{"CEO:Acme", "DIV:A", "MEMBER:2", "DEPT:D", "DIV:B"}, got)
	require.Equal(t, []int{0, 1, 2, 2, 1}, depths)
}

func TestOrgNode_FindAndPartition(t *testing.T) {
	tree := sampleTree()
	div := tree.Find(nodekey.Division("A"))
	require.NotNil(t, div)
	require.False(t, div.Vacant())
	require.True(t, tree.Find(nodekey.Division("B")).Vacant())
	require.Nil(t, tree.Find(nodekey.Team("missing")))

	require.Len(t, div.Members(), 1)
	require.Len(t, div.Units(), 1)
}
