package emission

import (
	"github.com/expr-lang/expr/vm"

	"github.com/flowsql/core/typedef"
)

// CompiledExpr pairs an expr-lang-syntax expression string with its compiled form, so an
// emission consumer can re-render the source for debugging without recompiling. Name is the
// projected output column for a projection's field expression, or "" for a bare predicate
// (a filter, or one aggregate's argument expression).
type CompiledExpr struct {
	Name    string
	Source  string
	Program *vm.Program
}

// StreamNode is one operator in the emitted Program (§4.7): OperatorID is
// "<prefix>_<graph_index>", stable across re-emission of the same plan graph as long as the
// node's position in the arena doesn't change.
type StreamNode struct {
	OperatorID  string
	Parallelism int
	Kind        string
	Expressions []CompiledExpr
	KeyType     string
	ValueType   string
}

// StreamEdge is one directed edge between two StreamNodes, carrying the string-typed key/value
// representation derived from the source PlanType (§4.7).
type StreamEdge struct {
	Src, Dst  string
	KeyType   string
	ValueType string
}

// Program is the compiled output: every StreamNode and StreamEdge, plus the struct-definition
// closure reachable from any node's PlanType, each emitted exactly once.
type Program struct {
	Nodes   []StreamNode
	Edges   []StreamEdge
	Structs []*typedef.StructDef
}
