package optimizer

import (
	"github.com/flowsql/core/plangraph"
	"github.com/flowsql/core/typedef"
	"github.com/flowsql/core/window"
)

// TwoPhaseSplit rewrites every tumbling/sliding WindowAggregate whose aggregate functions are
// all associative+commutative (§4.6 rule 2) into a local (forward-edge) partial aggregator
// feeding a shuffled two-phase combiner. Session-windowed and non-eligible aggregates are left
// untouched: their bucket boundaries depend on the data itself, so they can't be partially
// pre-aggregated ahead of the shuffle.
func TwoPhaseSplit(g *plangraph.PlanGraph) {
	// NodeCount is snapshotted before the loop: splitAggregate appends one local-aggregator
	// node per split, and those new nodes are never themselves WindowAggregateOp candidates.
	n := g.NodeCount()
	for i := 0; i < n; i++ {
		idx := plangraph.NodeIndex(i)
		node := g.Node(idx)
		agg, ok := node.Operator.(*plangraph.WindowAggregateOp)
		if !ok || !eligibleForSplit(agg) {
			continue
		}
		splitAggregate(g, idx, agg, node.OutputType)
	}
}

func eligibleForSplit(agg *plangraph.WindowAggregateOp) bool {
	if !agg.Window.IsTwoPhaseEligible() {
		return false
	}
	for _, f := range agg.Aggregates {
		if !f.Eligible() {
			return false
		}
	}
	return len(agg.Aggregates) > 0
}

// splitAggregate replaces aggIdx's WindowAggregateOp in place with the two-phase combiner, and
// inserts a new local-aggregator node upstream of it. The local aggregator's output is the
// partial-aggregate bin struct (one field per aggregate, via aggregate.Field.PartialBinField);
// the two-phase combiner keeps the aggregate's original KeyedType output since WindowMerge
// downstream is unchanged.
func splitAggregate(g *plangraph.PlanGraph, aggIdx plangraph.NodeIndex, agg *plangraph.WindowAggregateOp, aggOutputType plangraph.PlanType) {
	inEdgeIdx, inEdge, ok := findInboundEdge(g, aggIdx)
	if !ok {
		return
	}

	binFields := make([]typedef.StructField, len(agg.Aggregates))
	for i, f := range agg.Aggregates {
		binFields[i] = f.PartialBinField()
	}
	binStruct := &typedef.StructDef{Anonymous: true, Fields: binFields}
	localType := plangraph.KeyedType(aggOutputType.Key, binStruct)

	var localOp, twoPhaseOp plangraph.PlanOperator
	switch agg.Window.Type {
	case window.TypeTumbling:
		localOp = &plangraph.TumblingLocalAggregatorOp{Width: agg.Window.Size, Aggregates: agg.Aggregates}
		twoPhaseOp = &plangraph.TumblingWindowTwoPhaseAggregatorOp{Width: agg.Window.Size, Aggregates: agg.Aggregates}
	case window.TypeSliding:
		localOp = &plangraph.SlidingLocalAggregatorOp{Width: agg.Window.Size, Slide: agg.Window.Slide, Aggregates: agg.Aggregates}
		twoPhaseOp = &plangraph.SlidingWindowTwoPhaseAggregatorOp{Width: agg.Window.Size, Slide: agg.Window.Slide, Aggregates: agg.Aggregates}
	default:
		return
	}

	localIdx := g.InsertOperator(localOp, localType)

	edges := g.Edges()
	edges[inEdgeIdx] = plangraph.EdgeRef{
		Src:  inEdge.Src,
		Dst:  localIdx,
		Data: plangraph.PlanEdge{DataType: inEdge.Data.DataType, EdgeType: plangraph.ForwardEdge()},
	}
	edges = append(edges, plangraph.EdgeRef{
		Src:  localIdx,
		Dst:  aggIdx,
		Data: plangraph.PlanEdge{DataType: localType, EdgeType: plangraph.ShuffleEdge()},
	})
	g.SetEdges(edges)

	*g.Node(aggIdx) = plangraph.PlanNode{Operator: twoPhaseOp, OutputType: aggOutputType}
}

func findInboundEdge(g *plangraph.PlanGraph, dst plangraph.NodeIndex) (int, plangraph.EdgeRef, bool) {
	for i, e := range g.Edges() {
		if e.Dst == dst {
			return i, e, true
		}
	}
	return 0, plangraph.EdgeRef{}, false
}
