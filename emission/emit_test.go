package emission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsql/core/aggregate"
	"github.com/flowsql/core/pipeline"
	"github.com/flowsql/core/plangraph"
	"github.com/flowsql/core/rsql"
	"github.com/flowsql/core/typedef"
)

func eventSchema() *typedef.StructDef {
	return &typedef.StructDef{Name: "event", Fields: []typedef.StructField{
		{Name: "id", Type: typedef.Leaf(typedef.Int64)},
		{Name: "price", Type: typedef.Leaf(typedef.Float64)},
	}}
}

// TestEmitFilterProjectionChain builds Source -> Filter -> Projection -> Sink and checks
// operator-id naming, KeyType/ValueType rendering, and that each RecordTransform's expression
// compiles from its formatted SQL-ish text.
func TestEmitFilterProjectionChain(t *testing.T) {
	g := plangraph.New(nil, false)
	rowType := plangraph.UnkeyedType(eventSchema())

	srcIdx := g.InsertOperator(&plangraph.SourceOp{Name: "events", Schema: eventSchema()}, rowType)

	filterExpr := &rsql.ComparisonExpr{Left: &rsql.ColumnRef{Name: "id"}, Op: ">", Right: &rsql.NumberLiteral{Val: "0"}}
	filterIdx := g.InsertOperator(&plangraph.RecordTransformOp{Kind: pipeline.TransformFilter, Expr: filterExpr}, rowType)
	g.AddEdge(srcIdx, filterIdx, plangraph.PlanEdge{DataType: rowType, EdgeType: plangraph.ForwardEdge()})

	projOutput := plangraph.UnkeyedType(&typedef.StructDef{Anonymous: true, Fields: []typedef.StructField{
		{Name: "id", Type: typedef.Leaf(typedef.Int64)},
	}})
	projection := &plangraph.RecordTransformOp{
		Kind:   pipeline.TransformValueProjection,
		Fields: []pipeline.ProjectedField{{Name: "id", Expr: &rsql.ColumnRef{Name: "id"}}},
	}
	projIdx := g.InsertOperator(projection, projOutput)
	g.AddEdge(filterIdx, projIdx, plangraph.PlanEdge{DataType: rowType, EdgeType: plangraph.ForwardEdge()})

	sinkIdx := g.InsertOperator(&plangraph.StreamOperatorOp{Name: "out", Connector: pipeline.ConnectorSpec{Name: "out"}}, projOutput)
	g.AddEdge(projIdx, sinkIdx, plangraph.PlanEdge{DataType: projOutput, EdgeType: plangraph.ForwardEdge()})

	program, err := Emit(g, 2)
	require.NoError(t, err)
	require.Len(t, program.Nodes, 4)

	assert.Equal(t, "events_0", program.Nodes[0].OperatorID)
	assert.Equal(t, "filter_1", program.Nodes[1].OperatorID)
	assert.Equal(t, "value_projection_2", program.Nodes[2].OperatorID)
	assert.Equal(t, "out_3", program.Nodes[3].OperatorID)

	for _, n := range program.Nodes {
		assert.Equal(t, 2, n.Parallelism)
	}

	require.Len(t, program.Nodes[1].Expressions, 1)
	assert.Equal(t, "id > 0", program.Nodes[1].Expressions[0].Source)
	assert.NotNil(t, program.Nodes[1].Expressions[0].Program)

	require.Len(t, program.Nodes[2].Expressions, 1)
	assert.Equal(t, "id", program.Nodes[2].Expressions[0].Name)
	assert.Equal(t, "id", program.Nodes[2].Expressions[0].Source)

	require.Len(t, program.Edges, 3)
	assert.Equal(t, "events_0", program.Edges[0].Src)
	assert.Equal(t, "filter_1", program.Edges[0].Dst)
}

// TestEmitWindowAggregateTupleTypes checks KeyedPair/KeyedListPair tuple-string rendering and
// that an aggregate's ArgExpr compiles directly (it is already plain expr-lang-ish text, never
// passed through rsql.FormatNode).
func TestEmitWindowAggregateTupleTypes(t *testing.T) {
	g := plangraph.New(nil, false)
	keyStruct := &typedef.StructDef{Name: "key", Fields: []typedef.StructField{
		{Name: "id", Type: typedef.Leaf(typedef.Int64)},
	}}
	inputType := plangraph.KeyedType(keyStruct, eventSchema())

	srcIdx := g.InsertOperator(&plangraph.RecordTransformOp{Kind: pipeline.TransformKeyProjection}, inputType)

	mergedValue := &typedef.StructDef{Anonymous: true, Fields: []typedef.StructField{
		{Name: "total_price", Type: typedef.Leaf(typedef.Float64)},
	}}
	outputType := plangraph.KeyedType(keyStruct, mergedValue)
	agg := &plangraph.WindowAggregateOp{
		Aggregates: []aggregate.Field{
			{Function: aggregate.Sum, ArgExpr: "price", OutputName: "total_price", ResultType: typedef.Leaf(typedef.Float64)},
		},
	}
	aggIdx := g.InsertOperator(agg, outputType)
	g.AddEdge(srcIdx, aggIdx, plangraph.PlanEdge{DataType: inputType, EdgeType: plangraph.ShuffleEdge()})

	pairType := plangraph.KeyedPairType(keyStruct, eventSchema(), mergedValue)
	joinIdx := g.InsertOperator(&plangraph.JoinPairFlattenOp{Left: eventSchema(), Right: mergedValue}, pairType)
	g.AddEdge(aggIdx, joinIdx, plangraph.PlanEdge{DataType: outputType, EdgeType: plangraph.ForwardEdge()})

	listPairType := plangraph.KeyedListPairType(keyStruct, eventSchema(), mergedValue)
	flattenIdx := g.InsertOperator(&plangraph.JoinListFlattenOp{Left: eventSchema(), Right: mergedValue}, listPairType)
	g.AddEdge(joinIdx, flattenIdx, plangraph.PlanEdge{DataType: pairType, EdgeType: plangraph.ForwardEdge()})

	program, err := Emit(g, 1)
	require.NoError(t, err)

	var aggNode, joinNode, flattenNode StreamNode
	for _, n := range program.Nodes {
		switch n.Kind {
		case "window_aggregate":
			aggNode = n
		case "join_pair_flatten":
			joinNode = n
		case "join_list_flatten":
			flattenNode = n
		}
	}

	assert.Equal(t, "key", aggNode.KeyType)
	assert.Equal(t, "anon(total_price:float64)", aggNode.ValueType)
	require.Len(t, aggNode.Expressions, 1)
	assert.Equal(t, "total_price", aggNode.Expressions[0].Name)
	assert.Equal(t, "price", aggNode.Expressions[0].Source)

	assert.Equal(t, "(event,anon(total_price:float64))", joinNode.ValueType)
	assert.Equal(t, "(list<event>,list<anon(total_price:float64)>)", flattenNode.ValueType)
}

// TestEmitDropsDeadNodes ensures a node fusion/splitting left unreferenced by any edge is
// excluded from the emitted Program, rather than surfacing a dangling operator.
func TestEmitDropsDeadNodes(t *testing.T) {
	g := plangraph.New(nil, false)
	rowType := plangraph.UnkeyedType(eventSchema())

	srcIdx := g.InsertOperator(&plangraph.SourceOp{Name: "events", Schema: eventSchema()}, rowType)
	deadIdx := g.InsertOperator(&plangraph.RecordTransformOp{Kind: pipeline.TransformFilter, Expr: &rsql.ColumnRef{Name: "id"}}, rowType)
	_ = deadIdx
	sinkIdx := g.InsertOperator(&plangraph.StreamOperatorOp{Name: "out", Connector: pipeline.ConnectorSpec{Name: "out"}}, rowType)
	g.AddEdge(srcIdx, sinkIdx, plangraph.PlanEdge{DataType: rowType, EdgeType: plangraph.ForwardEdge()})

	program, err := Emit(g, 1)
	require.NoError(t, err)
	require.Len(t, program.Nodes, 2)
	for _, n := range program.Nodes {
		assert.NotEqual(t, "filter_1", n.OperatorID)
	}
}
