package domain

import (
	"fmt"
	"sort"
)

// Diagnostic codes reported by Network.Validate.
const (
	DiagIsolatedNode     = "isolated-node"
	DiagCoincidentNodes  = "coincident-nodes"
	DiagDanglingCategory = "dangling-category-pattern"
)

// Diagnostic is an advisory finding. Diagnostics never block a mutation;
// they describe conditions worth the operator's attention.
type Diagnostic struct {
	Code     string `json:"code"`
	EntityID string `json:"entity_id"`
	Message  string `json:"message"`
}

// Validate inspects the network and returns advisory diagnostics:
// nodes not touched by any link, distinct nodes sharing coordinates, and
// secondary demand categories naming patterns that do not exist.
func (n *Network) Validate() []Diagnostic {
	var diags []Diagnostic

	touched := make(map[string]bool, len(n.Nodes))
	for _, link := range n.Links {
		touched[link.FromNode] = true
		touched[link.ToNode] = true
	}

	ids := make([]string, 0, len(n.Nodes))
	for id := range n.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if !touched[id] {
			diags = append(diags, Diagnostic{
				Code:     DiagIsolatedNode,
				EntityID: id,
				Message:  fmt.Sprintf("node %q is not connected to any link", id),
			})
		}
	}

	type coord struct{ x, y float64 }
	seen := make(map[coord]string, len(n.Nodes))
	for _, id := range ids {
		node := n.Nodes[id]
		c := coord{node.X, node.Y}
		if other, dup := seen[c]; dup {
			diags = append(diags, Diagnostic{
				Code:     DiagCoincidentNodes,
				EntityID: id,
				Message:  fmt.Sprintf("node %q shares coordinates with node %q", id, other),
			})
			continue
		}
		seen[c] = id
	}

	for _, id := range ids {
		node := n.Nodes[id]
		if node.Junction == nil {
			continue
		}
		for _, cat := range node.Junction.Categories {
			if cat.Pattern == "" {
				continue
			}
			if _, ok := n.Patterns[cat.Pattern]; !ok {
				diags = append(diags, Diagnostic{
					Code:     DiagDanglingCategory,
					EntityID: id,
					Message:  fmt.Sprintf("junction %q demand category references unknown pattern %q", id, cat.Pattern),
				})
			}
		}
	}

	return diags
}
