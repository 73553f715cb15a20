package optimizer

import (
	"testing"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsql/core/aggregate"
	"github.com/flowsql/core/pipeline"
	"github.com/flowsql/core/plangraph"
	"github.com/flowsql/core/typedef"
	"github.com/flowsql/core/window"
)

// TestSumIsAssociativeOverPartialBins grounds aggregate.IsAssociativeCommutative(Sum, ...)'s
// eligibility claim: splitting a sum into partial bins and summing the partials must equal
// summing the whole input directly, which is exactly what makes the two-phase split sound.
func TestSumIsAssociativeOverPartialBins(t *testing.T) {
	full := stats.Float64Data{1, 2, 3, 4, 5, 6}
	want, err := stats.Sum(full)
	require.NoError(t, err)

	partialA, err := stats.Sum(stats.Float64Data{1, 2, 3})
	require.NoError(t, err)
	partialB, err := stats.Sum(stats.Float64Data{4, 5, 6})
	require.NoError(t, err)
	got, err := stats.Sum(stats.Float64Data{partialA, partialB})
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func keyStruct() *typedef.StructDef {
	return &typedef.StructDef{Anonymous: true, Fields: []typedef.StructField{{Name: "k", Type: typedef.Leaf(typedef.Int64)}}}
}

func sourceType() *typedef.StructDef {
	return &typedef.StructDef{Anonymous: true, Fields: []typedef.StructField{
		{Name: "k", Type: typedef.Leaf(typedef.Int64)},
		{Name: "v", Type: typedef.Leaf(typedef.Float64)},
	}}
}

func TestTwoPhaseSplitRewritesEligibleAggregate(t *testing.T) {
	g := plangraph.New(nil, false)

	keyedInput := plangraph.KeyedType(keyStruct(), sourceType())
	inputIdx := g.InsertOperator(
		&plangraph.RecordTransformOp{Kind: pipeline.TransformKeyProjection},
		keyedInput,
	)

	sumField := aggregate.Field{Function: aggregate.Sum, ArgExpr: "v", OutputName: "total", ResultType: typedef.Leaf(typedef.Float64)}
	aggOutputStruct := &typedef.StructDef{Anonymous: true, Fields: []typedef.StructField{{Name: "total", Type: typedef.Leaf(typedef.Float64)}}}
	aggType := plangraph.KeyedType(keyStruct(), aggOutputStruct)

	win, err := window.NewTumbling(5*time.Second, "event_time")
	require.NoError(t, err)

	aggIdx := g.InsertOperator(&plangraph.WindowAggregateOp{Window: win, Aggregates: []aggregate.Field{sumField}}, aggType)
	g.AddEdge(inputIdx, aggIdx, plangraph.PlanEdge{DataType: keyedInput, EdgeType: plangraph.ShuffleEdge()})

	mergeIdx := g.InsertOperator(&plangraph.WindowMergeOp{Key: keyStruct(), Value: aggOutputStruct}, aggType)
	g.AddEdge(aggIdx, mergeIdx, plangraph.PlanEdge{DataType: aggType, EdgeType: plangraph.ForwardEdge()})

	nodesBefore := g.NodeCount()
	TwoPhaseSplit(g)

	require.Equal(t, nodesBefore+1, g.NodeCount(), "expected one new local-aggregator node")
	assert.IsType(t, &plangraph.TumblingWindowTwoPhaseAggregatorOp{}, g.Node(aggIdx).Operator)

	var sawLocal bool
	for i := 0; i < g.NodeCount(); i++ {
		if _, ok := g.Node(plangraph.NodeIndex(i)).Operator.(*plangraph.TumblingLocalAggregatorOp); ok {
			sawLocal = true
		}
	}
	assert.True(t, sawLocal, "expected a TumblingLocalAggregatorOp feeding the two-phase combiner")

	require.NoError(t, Validate(g))
}

func TestTwoPhaseSplitSkipsNonAssociativeAggregate(t *testing.T) {
	g := plangraph.New(nil, false)

	inputIdx := g.InsertOperator(&plangraph.SourceOp{Name: "t", Schema: sourceType()}, plangraph.UnkeyedType(sourceType()))
	keyedInput := plangraph.KeyedType(keyStruct(), sourceType())

	avgField := aggregate.Field{Function: aggregate.Avg, ArgExpr: "v", OutputName: "average", ResultType: typedef.Leaf(typedef.Float64)}
	aggOutputStruct := &typedef.StructDef{Anonymous: true, Fields: []typedef.StructField{{Name: "average", Type: typedef.Leaf(typedef.Float64)}}}
	aggType := plangraph.KeyedType(keyStruct(), aggOutputStruct)

	win, err := window.NewTumbling(5*time.Second, "event_time")
	require.NoError(t, err)

	aggIdx := g.InsertOperator(&plangraph.WindowAggregateOp{Window: win, Aggregates: []aggregate.Field{avgField}}, aggType)
	g.AddEdge(inputIdx, aggIdx, plangraph.PlanEdge{DataType: keyedInput, EdgeType: plangraph.ShuffleEdge()})

	nodesBefore := g.NodeCount()
	TwoPhaseSplit(g)

	assert.Equal(t, nodesBefore, g.NodeCount(), "avg is not associative over partial bins and must not be split")
	assert.IsType(t, &plangraph.WindowAggregateOp{}, g.Node(aggIdx).Operator)
}
