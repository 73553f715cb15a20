package pipeline

import (
	"github.com/flowsql/core/cerr"
	"github.com/flowsql/core/rsql"
	"github.com/flowsql/core/typedef"
)

// findWindowFuncCall returns the single WindowFuncCall in a SELECT list, if any.
func findWindowFuncCall(fields []rsql.Field) (*rsql.WindowFuncCall, string, error) {
	var found *rsql.WindowFuncCall
	var alias string
	for _, f := range fields {
		wf, ok := f.Expr.(*rsql.WindowFuncCall)
		if !ok {
			continue
		}
		if found != nil {
			return nil, "", &cerr.UnsupportedFeature{Feature: "multiple OVER() window functions in one SELECT list"}
		}
		found = wf
		alias = f.Alias
	}
	return found, alias, nil
}

// buildWindowFunc lowers a row_number()-style OVER() call into a Window operator:
// key-projection on PARTITION BY columns, the windowed function itself, then Unkey back to
// unkeyed output (§4.5).
func buildWindowFunc(input SqlOperator, wf *rsql.WindowFuncCall, alias string) (SqlOperator, error) {
	if wf.Call.Name != "row_number" {
		return nil, &cerr.UnsupportedFeature{Feature: "window function " + wf.Call.Name}
	}
	fieldName := alias
	if fieldName == "" {
		fieldName = "row_number"
	}
	keyed := buildKeyProjection(input, wf.PartitionBy)
	return &Window{
		Input:       keyed,
		Partition:   wf.PartitionBy,
		OrderBy:     wf.OrderBy,
		Func:        WindowFuncRowNumber,
		FieldName:   fieldName,
		ResultField: typedef.StructField{Name: fieldName, Type: typedef.Leaf(typedef.UInt64)},
	}, nil
}

// AddWindowAggregateTopN always fails: sliding/tumbling top-N over a window is an explicitly
// unsupported lowering path (§4.5, §9).
func AddWindowAggregateTopN(SqlOperator, int) (SqlOperator, error) {
	return nil, &cerr.UnsupportedFeature{Feature: "window top-n is not implemented"}
}
