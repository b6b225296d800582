package orglabels

import (
	"strings"

	"github.com/iota-uz/orgportal/modules/org/domain/nodekey"
	"github.com/iota-uz/orgportal/modules/org/domain/orgtree"
)

const separator = " / "

// LongNames maps every unit of the tree to its path from the root, e.g.
// "Acme / Commercial / Sales". With keys given, only those are returned and
// keys absent from the tree map to "".
func LongNames(root *orgtree.OrgNode, keys ...nodekey.Key) map[nodekey.Key]string {
	all := make(map[nodekey.Key]string)
	if root != nil {
		var path []string
		root.Walk(func(node *orgtree.OrgNode, depth int) bool {
			if node.Type == orgtree.TypeMember {
				return false
			}
			path = append(path[:depth], partName(node))
			all[node.ID] = strings.Join(path, separator)
			return true
		})
	}
	if len(keys) == 0 {
		return all
	}
	out := make(map[nodekey.Key]string, len(keys))
	for _, k := range keys {
		out[k] = all[k]
	}
	return out
}

func partName(n *orgtree.OrgNode) string {
	if name := strings.TrimSpace(n.Name); name != "" {
		return name
	}
	return n.ID.Label()
}
