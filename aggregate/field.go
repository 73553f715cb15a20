package aggregate

import "github.com/flowsql/core/typedef"

// Field is one aggregate entry in a SELECT list: the function applied, the argument
// expression it runs over (already bound, rendered as a string by rsql.FormatNode), the
// output column name, and — for array_agg — whether duplicates are suppressed.
type Field struct {
	Function   Type
	ArgExpr    string
	OutputName string
	Dedup      bool
	ResultType typedef.TypeDef
}

// Eligible reports whether f can participate in the optimizer's two-phase aggregation split.
func (f Field) Eligible() bool {
	return IsAssociativeCommutative(f.Function, f.Dedup)
}

// PartialBinField returns the struct field this aggregate contributes to a two-phase split's
// partial-aggregate bin type: count's partial is always an int64 regardless of its declared
// result type, every other eligible aggregate keeps its own result type.
func (f Field) PartialBinField() typedef.StructField {
	t := f.ResultType
	if f.Function == Count {
		t = typedef.Leaf(typedef.Int64)
	}
	return typedef.StructField{Name: f.OutputName, Type: t}
}
