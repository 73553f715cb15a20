package plangraph

import (
	"github.com/flowsql/core/aggregate"
	"github.com/flowsql/core/pipeline"
	"github.com/flowsql/core/typedef"
)

// addAggregator lowers a windowed/grouped Aggregator (§4.5). t.Input is already a key-projected
// RecordTransform (the pipeline builder inserts it, pipeline/build.go's buildAggregateSink), so
// lowering it yields a Keyed{K,V} node directly — no separate key-projection step is needed
// here, only the windowed aggregate itself (shuffle edge) and the post-aggregate merge (forward
// edge).
func (g *PlanGraph) addAggregator(t *pipeline.Aggregator) (NodeIndex, error) {
	inputIdx, err := g.AddSqlOperator(t.Input)
	if err != nil {
		return 0, err
	}
	inputType := g.Nodes[inputIdx].OutputType

	resolved := make([]aggregate.Field, len(t.Aggregates))
	aggFields := make([]typedef.StructField, len(t.Aggregates))
	for i, a := range t.Aggregates {
		a.ResultType = resolveAggregateType(a, inputType.Value)
		resolved[i] = a
		aggFields[i] = typedef.StructField{Name: a.OutputName, Type: a.ResultType}
	}
	aggregateStruct := &typedef.StructDef{Anonymous: true, Fields: aggFields}

	aggregateType := KeyedType(inputType.Key, aggregateStruct)
	aggregateIdx := g.InsertOperator(&WindowAggregateOp{Window: t.Window, Aggregates: resolved}, aggregateType)
	g.AddEdge(inputIdx, aggregateIdx, PlanEdge{DataType: inputType, EdgeType: ShuffleEdge()})

	mergedStruct := mergedOutputStruct(inputType.Key, aggregateStruct, t.MergeKind)
	mergeType := KeyedType(inputType.Key, mergedStruct)
	mergeIdx := g.InsertOperator(&WindowMergeOp{Key: inputType.Key, Value: aggregateStruct, MergeKind: t.MergeKind}, mergeType)
	g.AddEdge(aggregateIdx, mergeIdx, PlanEdge{DataType: aggregateType, EdgeType: ForwardEdge()})

	return mergeIdx, nil
}

// mergedOutputStruct builds the row shape WindowMerge produces: key fields followed by the
// aggregate fields, with window_start/window_end spliced in ahead of the aggregate fields when
// the grouping came from a windowed GROUP BY (GroupByWindowOutput).
func mergedOutputStruct(key, aggregateStruct *typedef.StructDef, kind pipeline.GroupByKind) *typedef.StructDef {
	var fields []typedef.StructField
	if key != nil {
		fields = append(fields, key.Fields...)
	}
	if kind == pipeline.GroupByWindowOutput {
		fields = append(fields, typedef.WindowStructDef().Fields...)
	}
	fields = append(fields, aggregateStruct.Fields...)
	return &typedef.StructDef{Anonymous: true, Fields: fields}
}

// resolveAggregateType computes an aggregate.Field's result TypeDef from its classified
// function kind and (where relevant) the input row's argument column type. This is a shallow
// rule set, not a full expression type-checker: an argument expression that isn't a bare column
// reference falls back to the function's conventional default type.
func resolveAggregateType(f aggregate.Field, input *typedef.StructDef) typedef.TypeDef {
	switch f.Function {
	case aggregate.Count:
		return typedef.Leaf(typedef.Int64)
	case aggregate.WindowStart, aggregate.WindowEnd:
		return typedef.TypeDef{Physical: typedef.Timestamp, TimestampUnit: typedef.Millisecond}
	case aggregate.HadChanged:
		return typedef.Leaf(typedef.Boolean)
	case aggregate.ArrayAgg, aggregate.Collect:
		return typedef.OfList(argColumnType(f.ArgExpr, input))
	case aggregate.Sum, aggregate.Avg, aggregate.StdDev, aggregate.StdDevS, aggregate.Median,
		aggregate.Percentile, aggregate.Var, aggregate.VarS:
		if t := argColumnType(f.ArgExpr, input); t.Physical != typedef.Null {
			return t
		}
		return typedef.Leaf(typedef.Float64)
	case aggregate.Max, aggregate.Min, aggregate.FirstValue, aggregate.LastValue, aggregate.Latest,
		aggregate.Lag, aggregate.MergeAgg, aggregate.Deduplicate, aggregate.ChangedCol,
		aggregate.Expression, aggregate.PostAggregation, aggregate.BitAnd, aggregate.BitOr:
		if t := argColumnType(f.ArgExpr, input); t.Physical != typedef.Null {
			return t
		}
		return typedef.Leaf(typedef.Utf8)
	default:
		return typedef.Leaf(typedef.Utf8)
	}
}

func argColumnType(argExpr string, input *typedef.StructDef) typedef.TypeDef {
	if input == nil {
		return typedef.TypeDef{}
	}
	if f, ok := input.FieldByName(argExpr); ok {
		return f.Type
	}
	return typedef.TypeDef{}
}
