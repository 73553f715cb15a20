package plangraph

import (
	"time"

	"github.com/flowsql/core/pipeline"
	"github.com/flowsql/core/rsql"
	"github.com/flowsql/core/typedef"
)

const joinExpiration = 24 * time.Hour

// addJoin lowers a JoinOperator (§4.5): each side is independently key-projected (forward
// edges), then joined — InstantJoin/KeyedListPair when both sides are windowed, otherwise
// JoinWithExpiration/KeyedPair — via ShuffleJoin(0)/ShuffleJoin(1) edges, followed by the
// matching flatten node back to Unkeyed.
func (g *PlanGraph) addJoin(t *pipeline.JoinOperator) (NodeIndex, error) {
	leftIdx, err := g.AddSqlOperator(t.Left)
	if err != nil {
		return 0, err
	}
	rightIdx, err := g.AddSqlOperator(t.Right)
	if err != nil {
		return 0, err
	}
	leftType := g.Nodes[leftIdx].OutputType
	rightType := g.Nodes[rightIdx].OutputType
	if leftType.Kind != Unkeyed || rightType.Kind != Unkeyed {
		return 0, &unkeyedJoinSideRequired{}
	}

	keyStruct := g.joinKeyStruct(t.LeftKey, leftType.Value)

	leftKeyIdx := g.InsertOperator(
		&RecordTransformOp{Kind: pipeline.TransformKeyProjection, Fields: keyProjectedFields(t.LeftKey)},
		KeyedType(keyStruct, leftType.Value),
	)
	g.AddEdge(leftIdx, leftKeyIdx, PlanEdge{DataType: leftType, EdgeType: ForwardEdge()})

	rightKeyIdx := g.InsertOperator(
		&RecordTransformOp{Kind: pipeline.TransformKeyProjection, Fields: keyProjectedFields(t.RightKey)},
		KeyedType(keyStruct, rightType.Value),
	)
	g.AddEdge(rightIdx, rightKeyIdx, PlanEdge{DataType: rightType, EdgeType: ForwardEdge()})

	var joinOp PlanOperator
	var joinType PlanType
	var postJoinOp PlanOperator
	if t.Windowed {
		joinType = KeyedListPairType(keyStruct, leftType.Value, rightType.Value)
		joinOp = &InstantJoinOp{JoinType: t.Type}
		postJoinOp = &JoinListFlattenOp{JoinType: t.Type, Left: leftType.Value, Right: rightType.Value}
	} else {
		joinType = KeyedPairType(keyStruct, leftType.Value, rightType.Value)
		joinOp = &JoinWithExpirationOp{LeftExpiration: joinExpiration, RightExpiration: joinExpiration, JoinType: t.Type}
		postJoinOp = &JoinPairFlattenOp{JoinType: t.Type, Left: leftType.Value, Right: rightType.Value}
	}
	joinIdx := g.InsertOperator(joinOp, joinType)

	g.AddEdge(leftKeyIdx, joinIdx, PlanEdge{
		DataType: KeyedType(keyStruct, leftType.Value),
		EdgeType: ShuffleJoinEdge(0),
	})
	g.AddEdge(rightKeyIdx, joinIdx, PlanEdge{
		DataType: KeyedType(keyStruct, rightType.Value),
		EdgeType: ShuffleJoinEdge(1),
	})

	postJoinStruct := joinOutputStruct(leftType.Value, rightType.Value)
	postJoinIdx := g.InsertOperator(postJoinOp, UnkeyedType(postJoinStruct))
	g.AddEdge(joinIdx, postJoinIdx, PlanEdge{DataType: joinType, EdgeType: ForwardEdge()})

	return postJoinIdx, nil
}

type unkeyedJoinSideRequired struct{}

func (e *unkeyedJoinSideRequired) Error() string { return "join input must be unkeyed" }

// joinKeyStruct builds the shared key struct for a join's two key-projections, named after the
// left side's key expressions (the equi-join invariant guarantees the right side's key values
// line up positionally, so only one name per key column is needed).
func (g *PlanGraph) joinKeyStruct(keys []rsql.Expression, leftRow *typedef.StructDef) *typedef.StructDef {
	fields := make([]typedef.StructField, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, typedef.StructField{Name: rsql.FormatNode(k), Type: g.inferExprType(k, leftRow)})
	}
	return &typedef.StructDef{Anonymous: true, Fields: fields}
}

func keyProjectedFields(keys []rsql.Expression) []pipeline.ProjectedField {
	fields := make([]pipeline.ProjectedField, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, pipeline.ProjectedField{Name: rsql.FormatNode(k), Expr: k})
	}
	return fields
}

func joinOutputStruct(left, right *typedef.StructDef) *typedef.StructDef {
	fields := make([]typedef.StructField, 0, len(left.Fields)+len(right.Fields))
	fields = append(fields, left.Fields...)
	fields = append(fields, right.Fields...)
	return &typedef.StructDef{Anonymous: true, Fields: fields}
}
