// Package pipeline lowers a bound SQL statement into an SqlOperator tree (§4.4): the logical
// streaming-operator shape the plan-graph builder traverses bottom-up to produce a typed DAG.
// An SqlOperator tree is built once per query and discarded after lowering; it carries no
// PlanType or edge information, only the shape of the computation.
package pipeline

import (
	"github.com/flowsql/core/aggregate"
	"github.com/flowsql/core/rsql"
	"github.com/flowsql/core/typedef"
	"github.com/flowsql/core/window"
)

// SqlOperator is a node in the logical operator tree (§3).
type SqlOperator interface {
	sqlOperator()
}

// Source scans a catalog table by name.
type Source struct {
	TableName string
	Schema    *typedef.StructDef
}

func (*Source) sqlOperator() {}

// GroupByKind records whether an Aggregator's post-aggregation step re-merges the key fields
// with the aggregate value (WindowOutput, when the group key includes a window function) or
// leaves them as a separate key (Basic).
type GroupByKind int

const (
	GroupByBasic GroupByKind = iota
	GroupByWindowOutput
)

// Aggregator computes aggregate.Field values over a window, grouped by Key.
type Aggregator struct {
	Input      SqlOperator
	Key        []rsql.Expression
	Window     window.Spec
	Aggregates []aggregate.Field
	MergeKind  GroupByKind
}

func (*Aggregator) sqlOperator() {}

// JoinType mirrors rsql.JoinType for the logical plan.
type JoinType = rsql.JoinType

// JoinOperator joins Left and Right on LeftKey/RightKey. Windowed is true when both sides
// terminate in a windowed aggregate, which plan lowering uses to choose InstantJoin over
// JoinWithExpiration (§4.5).
type JoinOperator struct {
	Left, Right       SqlOperator
	LeftKey, RightKey []rsql.Expression
	Type              JoinType
	Windowed          bool
}

func (*JoinOperator) sqlOperator() {}

// WindowFuncKind names the supported OVER()-windowed scalar functions.
type WindowFuncKind int

const (
	WindowFuncRowNumber WindowFuncKind = iota
)

// Window is a row_number()-style windowed function over Input, partitioned and ordered.
type Window struct {
	Input       SqlOperator
	Partition   []rsql.Expression
	OrderBy     []rsql.OrderByItem
	Func        WindowFuncKind
	FieldName   string
	ResultField typedef.StructField
}

func (*Window) sqlOperator() {}

// TransformKind distinguishes a filter from a projection within a RecordTransform.
type TransformKind int

const (
	TransformFilter TransformKind = iota
	TransformKeyProjection
	TransformValueProjection
)

// RecordTransform is a single stateless row transform: a predicate or a projection.
type RecordTransform struct {
	Input SqlOperator
	Kind  TransformKind
	Expr  rsql.Expression
	// Fields is set for TransformValueProjection/TransformKeyProjection: the output field
	// list, each an (alias, expression) pair.
	Fields []ProjectedField
}

func (*RecordTransform) sqlOperator() {}

// ProjectedField is one output column of a projection.
type ProjectedField struct {
	Name string
	Expr rsql.Expression
}

// ConnectorSpec describes a sink's destination connector, resolved against the catalog.
type ConnectorSpec struct {
	Name       string
	ConfigBlob string
}

// Sink is the terminal node of a statement's operator tree.
type Sink struct {
	Input     SqlOperator
	Connector ConnectorSpec
}

func (*Sink) sqlOperator() {}
