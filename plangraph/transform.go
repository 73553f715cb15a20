package plangraph

import (
	"strings"

	"github.com/flowsql/core/cerr"
	"github.com/flowsql/core/pipeline"
	"github.com/flowsql/core/rsql"
	"github.com/flowsql/core/typedef"
)

func (g *PlanGraph) addRecordTransform(t *pipeline.RecordTransform) (NodeIndex, error) {
	inputIdx, err := g.AddSqlOperator(t.Input)
	if err != nil {
		return 0, err
	}
	inputType := g.Nodes[inputIdx].OutputType
	if inputType.Kind != Unkeyed {
		return 0, &cerr.InternalError{Message: "record transform requires an unkeyed input"}
	}

	outputStruct, err := g.transformOutputStruct(t, inputType.Value)
	if err != nil {
		return 0, err
	}
	outputType := UnkeyedType(outputStruct)
	if t.Kind == pipeline.TransformKeyProjection {
		outputType = KeyedType(outputStruct, inputType.Value)
	}

	idx := g.InsertOperator(&RecordTransformOp{Kind: t.Kind, Expr: t.Expr, Fields: t.Fields}, outputType)
	g.AddEdge(inputIdx, idx, PlanEdge{DataType: inputType, EdgeType: ForwardEdge()})
	return idx, nil
}

// transformOutputStruct computes the output row shape of a RecordTransform. A filter preserves
// its input shape; a projection builds a new struct from its projected fields.
func (g *PlanGraph) transformOutputStruct(t *pipeline.RecordTransform, input *typedef.StructDef) (*typedef.StructDef, error) {
	if t.Kind == pipeline.TransformFilter {
		return input, nil
	}
	fields := make([]typedef.StructField, 0, len(t.Fields))
	for _, f := range t.Fields {
		fields = append(fields, typedef.StructField{Name: f.Name, Type: g.inferExprType(f.Expr, input)})
	}
	if err := typedef.ValidateUniqueFieldNames(fields); err != nil {
		return nil, err
	}
	return &typedef.StructDef{Anonymous: true, Fields: fields}, nil
}

// inferExprType resolves a projected expression's TypeDef against input's row shape. A bare
// column reference takes its source field's type verbatim; anything else (a function call, an
// arithmetic expression, a literal) is typed by the shallow rules below rather than full
// expression type-checking, since emission validates the expression text itself via
// expr-lang/expr at compile time.
func (g *PlanGraph) inferExprType(e rsql.Expression, input *typedef.StructDef) typedef.TypeDef {
	switch v := e.(type) {
	case *rsql.ColumnRef:
		if input != nil {
			if f, ok := input.FieldByName(v.Name); ok {
				return f.Type
			}
		}
		return typedef.Leaf(typedef.Utf8)
	case *rsql.NumberLiteral:
		if strings.Contains(v.Val, ".") {
			return typedef.Leaf(typedef.Float64)
		}
		return typedef.Leaf(typedef.Int64)
	case *rsql.StringLiteral:
		return typedef.Leaf(typedef.Utf8)
	case *rsql.BoolLiteral:
		return typedef.Leaf(typedef.Boolean)
	case *rsql.NullLiteral:
		return typedef.Optional(typedef.Leaf(typedef.Utf8))
	case *rsql.IntervalLiteral:
		return typedef.Leaf(typedef.Interval)
	case *rsql.FunctionCall:
		if g.cat != nil {
			if sig, ok := g.cat.Functions().Lookup(v.Name); ok {
				return sig.Return
			}
		}
		return typedef.Leaf(typedef.Utf8)
	default:
		return typedef.Leaf(typedef.Utf8)
	}
}
