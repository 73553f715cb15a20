package emission

import (
	"github.com/flowsql/core/plangraph"
	"github.com/flowsql/core/typedef"
)

// collectStructs walks every node's PlanType and every edge's PlanType, collecting each
// reachable StructDef exactly once (deduped by NormalizedName, §4.7/§8 property 4) and marking
// KeyParticipant on every struct that appears as a Key anywhere in the graph.
func collectStructs(g *plangraph.PlanGraph) []*typedef.StructDef {
	seen := make(map[string]*typedef.StructDef)
	var order []string

	visit := func(pt plangraph.PlanType) {
		mark := func(s *typedef.StructDef, isKey bool) {
			if s == nil {
				return
			}
			name := s.NormalizedName()
			existing, ok := seen[name]
			if !ok {
				seen[name] = s
				order = append(order, name)
				existing = s
			}
			if isKey {
				existing.KeyParticipant = true
			}
		}
		mark(pt.Key, true)
		mark(pt.Value, false)
		mark(pt.LeftValue, false)
		mark(pt.RightValue, false)
	}

	for i := 0; i < g.NodeCount(); i++ {
		visit(g.Node(plangraph.NodeIndex(i)).OutputType)
	}
	for _, e := range g.Edges() {
		visit(e.Data.DataType)
	}

	out := make([]*typedef.StructDef, 0, len(order))
	for _, name := range order {
		out = append(out, seen[name])
	}
	return out
}
