package pipeline

import "github.com/flowsql/core/rsql"

// buildFilter wraps input in a Filter RecordTransform when where is non-nil.
func buildFilter(input SqlOperator, where rsql.Expression) SqlOperator {
	if where == nil {
		return input
	}
	return &RecordTransform{Input: input, Kind: TransformFilter, Expr: where}
}
