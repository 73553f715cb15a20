package optimizer

import (
	"sort"

	"github.com/flowsql/core/cerr"
	"github.com/flowsql/core/plangraph"
	"github.com/flowsql/core/typedef"
)

// Validate checks every edge's carried PlanType against its source node's declared output type
// (§4.6). It is non-recovering: every mismatch found is collected and returned together, never
// just the first. Edges are visited in deterministic (src_index, dst_index) order regardless of
// the order fusion/two-phase rewrites left them in.
func Validate(g *plangraph.PlanGraph) error {
	edges := append([]plangraph.EdgeRef(nil), g.Edges()...)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Src != edges[j].Src {
			return edges[i].Src < edges[j].Src
		}
		return edges[i].Dst < edges[j].Dst
	})

	var mismatches []cerr.EdgeMismatch
	for _, e := range edges {
		srcType := g.Node(e.Src).OutputType
		if reason, ok := planTypeMismatch(srcType, e.Data.DataType); !ok {
			mismatches = append(mismatches, cerr.EdgeMismatch{
				SrcIndex: int(e.Src),
				DstIndex: int(e.Dst),
				Reason:   reason,
			})
		}
	}
	if len(mismatches) > 0 {
		return &cerr.PlanValidationError{Mismatches: mismatches}
	}
	return nil
}

// planTypeMismatch reports why edge does not match the type its source node declares, or ok=true
// if they agree.
func planTypeMismatch(source, edge plangraph.PlanType) (string, bool) {
	if source.Kind != edge.Kind {
		return "edge data type kind does not match source node output kind", false
	}
	switch source.Kind {
	case plangraph.Unkeyed:
		if !structsEqual(source.Value, edge.Value) {
			return "unkeyed value struct does not match source output", false
		}
	case plangraph.Keyed:
		if !structsEqual(source.Key, edge.Key) {
			return "key struct does not match source output", false
		}
		if !structsEqual(source.Value, edge.Value) {
			return "value struct does not match source output", false
		}
	case plangraph.KeyedPair, plangraph.KeyedListPair:
		if !structsEqual(source.Key, edge.Key) {
			return "key struct does not match source output", false
		}
		if !structsEqual(source.LeftValue, edge.LeftValue) {
			return "left value struct does not match source output", false
		}
		if !structsEqual(source.RightValue, edge.RightValue) {
			return "right value struct does not match source output", false
		}
	case plangraph.KeyedLiteralTypeValue:
		if !structsEqual(source.Key, edge.Key) {
			return "key struct does not match source output", false
		}
		if source.LiteralValue != edge.LiteralValue {
			return "literal value type does not match source output", false
		}
	}
	return "", true
}

func structsEqual(a, b *typedef.StructDef) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.StructurallyEqual(b)
}
