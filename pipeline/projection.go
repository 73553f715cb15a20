package pipeline

import "github.com/flowsql/core/rsql"

// buildProjection wraps input in a ValueProjection RecordTransform from a SELECT field list,
// unless it is a bare `SELECT *` (in which case the source rows pass through unchanged).
func buildProjection(input SqlOperator, fields []rsql.Field) SqlOperator {
	if len(fields) == 0 {
		return input
	}
	if len(fields) == 1 && fields[0].Star {
		return input
	}
	projected := make([]ProjectedField, 0, len(fields))
	for _, f := range fields {
		if f.Star {
			continue
		}
		name := f.Alias
		if name == "" {
			name = rsql.FormatNode(f.Expr)
		}
		projected = append(projected, ProjectedField{Name: name, Expr: f.Expr})
	}
	return &RecordTransform{Input: input, Kind: TransformValueProjection, Fields: projected}
}

// buildKeyProjection wraps input in a KeyProjection RecordTransform over the given key
// expressions, inserted ahead of an Aggregator/Join/Window per §4.5's lowering rules.
func buildKeyProjection(input SqlOperator, keys []rsql.Expression) SqlOperator {
	fields := make([]ProjectedField, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, ProjectedField{Name: rsql.FormatNode(k), Expr: k})
	}
	return &RecordTransform{Input: input, Kind: TransformKeyProjection, Fields: fields}
}
