package optimizer

import (
	"github.com/flowsql/core/pipeline"
	"github.com/flowsql/core/plangraph"
)

// Fuse collapses adjacent RecordTransform nodes connected only by a forward edge into a single
// FusedRecordTransformOp (§4.6 rule 1), running to a fixpoint. At each round the
// earliest-indexed eligible pair is fused first; "no branching interposes" means the upstream
// node has exactly one outgoing edge and the downstream node exactly one incoming edge.
func Fuse(g *plangraph.PlanGraph) {
	for {
		if !fuseOnce(g) {
			return
		}
	}
}

func fuseOnce(g *plangraph.PlanGraph) bool {
	edges := g.Edges()
	outDegree, inDegree := degrees(edges)

	for i, e := range edges {
		if e.Data.EdgeType.Kind != plangraph.Forward {
			continue
		}
		srcOp := g.Node(e.Src).Operator
		dstOp := g.Node(e.Dst).Operator
		if !isFusable(srcOp) {
			continue
		}
		dstTransform, ok := dstOp.(*plangraph.RecordTransformOp)
		if !ok {
			continue
		}
		if outDegree[e.Src] != 1 || inDegree[e.Dst] != 1 {
			continue
		}

		fuseInto(g, e.Src, e.Dst, dstTransform)
		removeEdge(g, i)
		return true
	}
	return false
}

func isFusable(op plangraph.PlanOperator) bool {
	switch op.(type) {
	case *plangraph.RecordTransformOp, *plangraph.FusedRecordTransformOp:
		return true
	default:
		return false
	}
}

// fuseInto absorbs src's components into dst's node in place: dst keeps its own output type
// (the chain's overall output never changes), but its operator becomes the fused composite.
func fuseInto(g *plangraph.PlanGraph, src, dst plangraph.NodeIndex, dstTransform *plangraph.RecordTransformOp) {
	srcNode := g.Node(src)
	components, outputTypes := componentsOf(srcNode.Operator, srcNode.OutputType)
	components = append(components, dstTransform)
	outputTypes = append(outputTypes, g.Node(dst).OutputType)

	*g.Node(dst) = plangraph.PlanNode{
		Operator: &plangraph.FusedRecordTransformOp{
			Components:  components,
			OutputTypes: outputTypes,
			ReturnKind:  deriveReturnKind(components),
		},
		OutputType: g.Node(dst).OutputType,
	}

	redirectInboundEdges(g, src, dst)
}

func componentsOf(op plangraph.PlanOperator, outputType plangraph.PlanType) ([]*plangraph.RecordTransformOp, []plangraph.PlanType) {
	if fused, ok := op.(*plangraph.FusedRecordTransformOp); ok {
		components := make([]*plangraph.RecordTransformOp, len(fused.Components))
		copy(components, fused.Components)
		outputTypes := make([]plangraph.PlanType, len(fused.OutputTypes))
		copy(outputTypes, fused.OutputTypes)
		return components, outputTypes
	}
	return []*plangraph.RecordTransformOp{op.(*plangraph.RecordTransformOp)}, []plangraph.PlanType{outputType}
}

func deriveReturnKind(components []*plangraph.RecordTransformOp) plangraph.FusedReturnKind {
	anyFilter, allFilter := false, true
	for _, c := range components {
		if c.Kind == pipeline.TransformFilter {
			anyFilter = true
		} else {
			allFilter = false
		}
	}
	switch {
	case anyFilter && allFilter:
		return plangraph.ReturnPredicate
	case anyFilter:
		return plangraph.ReturnOptionalRecord
	default:
		return plangraph.ReturnRecord
	}
}

// redirectInboundEdges points every edge that fed into src at dst instead, since dst's fused
// operator now starts processing from src's original input. src is left as an unreferenced,
// dead arena slot rather than removed, keeping every other NodeIndex stable.
func redirectInboundEdges(g *plangraph.PlanGraph, src, dst plangraph.NodeIndex) {
	edges := g.Edges()
	for i := range edges {
		if edges[i].Dst == src {
			edges[i].Dst = dst
		}
	}
	g.SetEdges(edges)
}

func removeEdge(g *plangraph.PlanGraph, i int) {
	edges := g.Edges()
	edges = append(edges[:i], edges[i+1:]...)
	g.SetEdges(edges)
}

func degrees(edges []plangraph.EdgeRef) (out, in map[plangraph.NodeIndex]int) {
	out = make(map[plangraph.NodeIndex]int, len(edges))
	in = make(map[plangraph.NodeIndex]int, len(edges))
	for _, e := range edges {
		out[e.Src]++
		in[e.Dst]++
	}
	return out, in
}
