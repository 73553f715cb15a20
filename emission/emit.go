package emission

import (
	"fmt"
	"time"

	"github.com/expr-lang/expr"

	"github.com/flowsql/core/cerr"
	"github.com/flowsql/core/pipeline"
	"github.com/flowsql/core/plangraph"
	"github.com/flowsql/core/rsql"
	"github.com/flowsql/core/typedef"
)

// Emit serializes an optimized PlanGraph into a Program (§4.7). defaultParallelism fills every
// StreamNode's Parallelism when positive; otherwise every node gets parallelism 1.
func Emit(g *plangraph.PlanGraph, defaultParallelism int) (*Program, error) {
	if defaultParallelism <= 0 {
		defaultParallelism = 1
	}

	referenced := make(map[plangraph.NodeIndex]bool, g.NodeCount())
	for _, e := range g.Edges() {
		referenced[e.Src] = true
		referenced[e.Dst] = true
	}

	var nodes []StreamNode
	for i := 0; i < g.NodeCount(); i++ {
		idx := plangraph.NodeIndex(i)
		if g.NodeCount() > 1 && !referenced[idx] {
			// Dead arena slot: fused away or otherwise unreferenced, never reachable from the
			// sink. Skip it; operatorID() is still stable for every node that does survive.
			continue
		}
		sn, err := emitNode(g, idx, defaultParallelism)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, sn)
	}

	edges := make([]StreamEdge, 0, len(g.Edges()))
	for _, e := range g.Edges() {
		keyType, valueType := typeStrings(e.Data.DataType)
		edges = append(edges, StreamEdge{
			Src:       operatorID(g, e.Src),
			Dst:       operatorID(g, e.Dst),
			KeyType:   keyType,
			ValueType: valueType,
		})
	}

	return &Program{Nodes: nodes, Edges: edges, Structs: collectStructs(g)}, nil
}

func operatorID(g *plangraph.PlanGraph, idx plangraph.NodeIndex) string {
	return fmt.Sprintf("%s_%d", g.Node(idx).Prefix(), int(idx))
}

func emitNode(g *plangraph.PlanGraph, idx plangraph.NodeIndex, parallelism int) (StreamNode, error) {
	node := g.Node(idx)
	id := operatorID(g, idx)

	exprs, err := compileNodeExpressions(g, idx, node)
	if err != nil {
		return StreamNode{}, err
	}

	keyType, valueType := typeStrings(node.OutputType)
	return StreamNode{
		OperatorID:  id,
		Parallelism: parallelism,
		Kind:        node.Prefix(),
		Expressions: exprs,
		KeyType:     keyType,
		ValueType:   valueType,
	}, nil
}

// typeStrings renders a PlanType's key/value shape as the string forms §4.7 specifies: for
// KeyedPair the value is the literal tuple "(L,R)"; for KeyedListPair it is "(list<L>,list<R>)".
func typeStrings(pt plangraph.PlanType) (key, value string) {
	switch pt.Kind {
	case plangraph.Unkeyed:
		return "", structName(pt.Value)
	case plangraph.Keyed:
		return structName(pt.Key), structName(pt.Value)
	case plangraph.KeyedPair:
		return structName(pt.Key), fmt.Sprintf("(%s,%s)", structName(pt.LeftValue), structName(pt.RightValue))
	case plangraph.KeyedListPair:
		return structName(pt.Key), fmt.Sprintf("(list<%s>,list<%s>)", structName(pt.LeftValue), structName(pt.RightValue))
	case plangraph.KeyedLiteralTypeValue:
		return structName(pt.Key), pt.LiteralValue
	default:
		return "", ""
	}
}

func structName(s *typedef.StructDef) string {
	if s == nil {
		return ""
	}
	return s.NormalizedName()
}

// compileNodeExpressions extracts and compiles every expr-lang expression an operator carries.
// Operator kinds with no freestanding expression (sources, watermarks, merges, joins, flattens,
// unkey, the two-phase/local aggregators, the terminal sink) return a nil slice: their behavior
// is structural, not expression-driven, so there is nothing here for expr.Compile to catch.
func compileNodeExpressions(g *plangraph.PlanGraph, idx plangraph.NodeIndex, node *plangraph.PlanNode) ([]CompiledExpr, error) {
	switch op := node.Operator.(type) {
	case *plangraph.RecordTransformOp:
		env := envFor(inputStruct(g, idx))
		return compileRecordTransform(operatorID(g, idx), op, env)
	case *plangraph.FusedRecordTransformOp:
		env := envFor(inputStruct(g, idx))
		id := operatorID(g, idx)
		var out []CompiledExpr
		for _, c := range op.Components {
			ces, err := compileRecordTransform(id, c, env)
			if err != nil {
				return nil, err
			}
			out = append(out, ces...)
		}
		return out, nil
	case *plangraph.WindowAggregateOp:
		env := envFor(inputStruct(g, idx))
		id := operatorID(g, idx)
		var out []CompiledExpr
		for _, agg := range op.Aggregates {
			ce, err := compileExpr(id, agg.OutputName, agg.ArgExpr, env)
			if err != nil {
				return nil, err
			}
			out = append(out, ce)
		}
		return out, nil
	default:
		return nil, nil
	}
}

func compileRecordTransform(operatorID string, op *plangraph.RecordTransformOp, env map[string]interface{}) ([]CompiledExpr, error) {
	if op.Kind == pipeline.TransformFilter {
		ce, err := compileExpr(operatorID, "", rsql.FormatNode(op.Expr), env)
		if err != nil {
			return nil, err
		}
		return []CompiledExpr{ce}, nil
	}
	out := make([]CompiledExpr, 0, len(op.Fields))
	for _, f := range op.Fields {
		ce, err := compileExpr(operatorID, f.Name, rsql.FormatNode(f.Expr), env)
		if err != nil {
			return nil, err
		}
		out = append(out, ce)
	}
	return out, nil
}

var likeMatchOption = expr.Function("like_match", func(params ...interface{}) (interface{}, error) {
	if len(params) != 2 {
		return false, fmt.Errorf("like_match requires 2 parameters")
	}
	text, ok1 := params[0].(string)
	pattern, ok2 := params[1].(string)
	if !ok1 || !ok2 {
		return false, fmt.Errorf("like_match requires string parameters")
	}
	return likeMatch(text, pattern), nil
})

func compileExpr(operatorID, name, source string, env map[string]interface{}) (CompiledExpr, error) {
	rewritten := rewriteTemplates(source)
	program, err := expr.Compile(rewritten, expr.Env(env), likeMatchOption, expr.AllowUndefinedVariables())
	if err != nil {
		return CompiledExpr{}, &cerr.ExpressionCompileError{OperatorID: operatorID, Expression: source, Cause: err}
	}
	return CompiledExpr{Name: name, Source: rewritten, Program: program}, nil
}

// inputStruct finds idx's single inbound (non-join) edge and returns the row struct it carries:
// the plain row for an Unkeyed edge, or the grouped value for a Keyed edge. Returns nil when no
// such edge exists (a source node, which has no expressions to compile anyway).
func inputStruct(g *plangraph.PlanGraph, idx plangraph.NodeIndex) *typedef.StructDef {
	for _, e := range g.Edges() {
		if e.Dst != idx {
			continue
		}
		switch e.Data.DataType.Kind {
		case plangraph.Unkeyed, plangraph.Keyed:
			return e.Data.DataType.Value
		default:
			continue
		}
	}
	return nil
}

// envFor builds a type-checking-only environment for expr.Compile: one zero value per field of
// row. The like_match function is supplied separately, as a compile option.
func envFor(row *typedef.StructDef) map[string]interface{} {
	env := map[string]interface{}{}
	if row == nil {
		return env
	}
	for _, f := range row.Fields {
		env[f.Name] = zeroValueFor(f.Type)
	}
	return env
}

func zeroValueFor(t typedef.TypeDef) interface{} {
	switch t.Physical {
	case typedef.Boolean:
		return false
	case typedef.Int8, typedef.Int16, typedef.Int32, typedef.Int64:
		return int64(0)
	case typedef.UInt8, typedef.UInt16, typedef.UInt32, typedef.UInt64:
		return uint64(0)
	case typedef.Float32, typedef.Float64:
		return float64(0)
	case typedef.Utf8, typedef.Binary:
		return ""
	case typedef.Date32, typedef.Timestamp:
		return time.Time{}
	case typedef.Interval:
		return time.Duration(0)
	case typedef.List:
		return []interface{}{}
	case typedef.Struct:
		return map[string]interface{}{}
	default:
		return nil
	}
}
