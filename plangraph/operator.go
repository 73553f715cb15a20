package plangraph

import (
	"time"

	"github.com/flowsql/core/aggregate"
	"github.com/flowsql/core/pipeline"
	"github.com/flowsql/core/rsql"
	"github.com/flowsql/core/typedef"
	"github.com/flowsql/core/window"
)

// PlanOperator is one physical node variant in the plan graph (§3).
type PlanOperator interface {
	planOperator()
	prefix() string
}

type SourceOp struct {
	Name   string
	Schema *typedef.StructDef
}

func (*SourceOp) planOperator() {}
func (s *SourceOp) prefix() string { return s.Name }

type WatermarkOp struct {
	Spec window.PeriodicWatermarkSpec
}

func (*WatermarkOp) planOperator()  {}
func (*WatermarkOp) prefix() string { return "watermark" }

type RecordTransformOp struct {
	Kind   pipeline.TransformKind
	Expr   rsql.Expression
	Fields []pipeline.ProjectedField
}

func (*RecordTransformOp) planOperator() {}
func (t *RecordTransformOp) prefix() string {
	switch t.Kind {
	case pipeline.TransformFilter:
		return "filter"
	case pipeline.TransformKeyProjection:
		return "key_projection"
	default:
		return "value_projection"
	}
}

type FusedRecordTransformOp struct {
	Components  []*RecordTransformOp
	OutputTypes []PlanType
	ReturnKind  FusedReturnKind
}

type FusedReturnKind int

const (
	ReturnPredicate FusedReturnKind = iota
	ReturnRecord
	ReturnOptionalRecord
)

func (*FusedRecordTransformOp) planOperator()  {}
func (*FusedRecordTransformOp) prefix() string { return "fused" }

type WindowAggregateOp struct {
	Window     window.Spec
	Aggregates []aggregate.Field
}

func (*WindowAggregateOp) planOperator()  {}
func (*WindowAggregateOp) prefix() string { return "window_aggregate" }

type WindowMergeOp struct {
	Key       *typedef.StructDef
	Value     *typedef.StructDef
	MergeKind pipeline.GroupByKind
}

func (*WindowMergeOp) planOperator()  {}
func (*WindowMergeOp) prefix() string { return "window_merge" }

type TumblingWindowTwoPhaseAggregatorOp struct {
	Width      time.Duration
	Aggregates []aggregate.Field
}

func (*TumblingWindowTwoPhaseAggregatorOp) planOperator() {}
func (*TumblingWindowTwoPhaseAggregatorOp) prefix() string {
	return "tumbling_window_two_phase_aggregator"
}

type SlidingWindowTwoPhaseAggregatorOp struct {
	Width, Slide time.Duration
	Aggregates   []aggregate.Field
}

func (*SlidingWindowTwoPhaseAggregatorOp) planOperator() {}
func (*SlidingWindowTwoPhaseAggregatorOp) prefix() string {
	return "sliding_window_two_phase_aggregator"
}

type TumblingLocalAggregatorOp struct {
	Width      time.Duration
	Aggregates []aggregate.Field
}

func (*TumblingLocalAggregatorOp) planOperator()  {}
func (*TumblingLocalAggregatorOp) prefix() string { return "tumbling_local_aggregator" }

type SlidingLocalAggregatorOp struct {
	Width, Slide time.Duration
	Aggregates   []aggregate.Field
}

func (*SlidingLocalAggregatorOp) planOperator()  {}
func (*SlidingLocalAggregatorOp) prefix() string { return "sliding_local_aggregator" }

type InstantJoinOp struct {
	JoinType rsql.JoinType
}

func (*InstantJoinOp) planOperator()  {}
func (*InstantJoinOp) prefix() string { return "instant_join" }

type JoinWithExpirationOp struct {
	LeftExpiration, RightExpiration time.Duration
	JoinType                        rsql.JoinType
}

func (*JoinWithExpirationOp) planOperator()  {}
func (*JoinWithExpirationOp) prefix() string { return "join_with_expiration" }

type JoinListFlattenOp struct {
	JoinType    rsql.JoinType
	Left, Right *typedef.StructDef
}

func (*JoinListFlattenOp) planOperator()  {}
func (*JoinListFlattenOp) prefix() string { return "join_list_flatten" }

type JoinPairFlattenOp struct {
	JoinType    rsql.JoinType
	Left, Right *typedef.StructDef
}

func (*JoinPairFlattenOp) planOperator()  {}
func (*JoinPairFlattenOp) prefix() string { return "join_pair_flatten" }

type WindowFunctionOp struct {
	Func         pipeline.WindowFuncKind
	OrderBy      []rsql.OrderByItem
	FieldName    string
	ResultStruct *typedef.StructDef
}

func (*WindowFunctionOp) planOperator()  {}
func (*WindowFunctionOp) prefix() string { return "window_function" }

type UnkeyOp struct{}

func (*UnkeyOp) planOperator()  {}
func (*UnkeyOp) prefix() string { return "unkey" }

// StreamOperatorOp is an opaque terminal node — in practice always a sink, the only external
// (non-SQL-derived) operator the plan graph attaches.
type StreamOperatorOp struct {
	Name      string
	Connector pipeline.ConnectorSpec
}

func (*StreamOperatorOp) planOperator()  {}
func (s *StreamOperatorOp) prefix() string { return s.Name }

// PlanNode is one node in the flat arena: an operator plus the PlanType describing its output
// edges.
type PlanNode struct {
	Operator   PlanOperator
	OutputType PlanType
}

// Prefix returns the operator-id prefix used when emitting this node, before the graph-index
// suffix is appended (§4.7: `operator_id = "<prefix>_<graph_index>"`).
func (n PlanNode) Prefix() string { return n.Operator.prefix() }

// PlanEdge is one directed edge in the arena: the PlanType both endpoints must agree on, and
// its transport kind.
type PlanEdge struct {
	DataType PlanType
	EdgeType EdgeType
}
