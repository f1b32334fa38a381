package rollover

import (
	"tableflip.dev/carry/pkg/marker"
	"tableflip.dev/carry/pkg/outline"
)

// Group is a run of consecutive non-empty top-level nodes.
type Group struct {
	Nodes []*outline.Node

	// HasIncomplete is set when any node in the group's subtrees carries a
	// pending marker.
	HasIncomplete bool
	// HasAnyDone is set when any node in the group's subtrees is done.
	HasAnyDone bool
}

// Groups splits roots at empty top-level nodes. Separators belong to no group.
func Groups(roots []*outline.Node) []Group {
	var (
		groups []Group
		cur    *Group
	)
	for _, n := range roots {
		if n.IsEmpty() {
			cur = nil
			continue
		}
		if cur == nil {
			groups = append(groups, Group{})
			cur = &groups[len(groups)-1]
		}
		cur.Nodes = append(cur.Nodes, n)
		n.Walk(func(d *outline.Node) bool {
			m := marker.Extract(d.Content)
			cur.HasIncomplete = cur.HasIncomplete || m.Pending()
			cur.HasAnyDone = cur.HasAnyDone || m.Terminal()
			return true
		})
	}
	return groups
}
