package orgtree

import (
	"github.com/iota-uz/orgportal/modules/org/domain/nodekey"
	"github.com/iota-uz/orgportal/modules/roster/domain/employee"
)

type NodeType string

const (
	TypeCEO        NodeType = "CEO"
	TypeDivision   NodeType = "DIVISION"
	TypeDepartment NodeType = "DEPARTMENT"
	TypeTeam       NodeType = "TEAM"
	TypeMember     NodeType = "MEMBER"
)

// OrgNode is one position of a synthesized tree. Unit nodes carry their
// resolved leader in Manager/ManagerID; an empty ManagerID means vacant.
// MEMBER nodes have no children and carry the raw employee record instead.
type OrgNode struct {
	ID        nodekey.Key        `json:"id" yaml:"id"`
	Name      string             `json:"name" yaml:"name"`
	Type      NodeType           `json:"type" yaml:"type"`
	Manager   string             `json:"manager,omitempty" yaml:"manager,omitempty"`
	ManagerID string             `json:"managerId,omitempty" yaml:"managerId,omitempty"`
	Children  []*OrgNode         `json:"children,omitempty" yaml:"children,omitempty"`
	Employee  *employee.Employee `json:"employee,omitempty" yaml:"employee,omitempty"`

	// External marks a member shown under a unit it does not formally belong to.
	External bool `json:"external,omitempty" yaml:"external,omitempty"`
	// ManagerExternal is the same flag for the resolved leader.
	ManagerExternal bool `json:"managerExternal,omitempty" yaml:"managerExternal,omitempty"`
	// MemberCount counts MEMBER leaves in the subtree.
	MemberCount int `json:"memberCount" yaml:"memberCount"`
}

func (n *OrgNode) Vacant() bool {
	return n.Type != TypeMember && n.ManagerID == ""
}

// Walk visits n and its descendants depth-first, pre-order. Returning false
// from fn skips the node's children.
func (n *OrgNode) Walk(fn func(node *OrgNode, depth int) bool) {
	var walk func(node *OrgNode, depth int)
	walk = func(node *OrgNode, depth int) {
		if node == nil || !fn(node, depth) {
			return
		}
		for _, c := range node.Children {
			walk(c, depth+1)
		}
	}
	walk(n, 0)
}

// Find returns the first node with the given key in pre-order.
func (n *OrgNode) Find(key nodekey.Key) *OrgNode {
	var found *OrgNode
	n.Walk(func(node *OrgNode, _ int) bool {
		if found != nil {
			return false
		}
		if node.ID == key {
			found = node
			return false
		}
		return true
	})
	return found
}

// Members returns the MEMBER children of n, in order.
func (n *OrgNode) Members() []*OrgNode {
	var out []*OrgNode
	for _, c := range n.Children {
		if c.Type == TypeMember {
			out = append(out, c)
		}
	}
	return out
}

// Units returns the non-MEMBER children of n, in order.
func (n *OrgNode) Units() []*OrgNode {
	var out []*OrgNode
	for _, c := range n.Children {
		if c.Type != TypeMember {
			out = append(out, c)
		}
	}
	return out
}
