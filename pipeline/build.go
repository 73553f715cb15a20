package pipeline

import (
	"github.com/flowsql/core/catalog"
	"github.com/flowsql/core/rsql"
)

// Build lowers one bound INSERT/SELECT statement into its SqlOperator tree, rooted at the
// terminal Sink. sinkName is "" for an anonymous insert (§4.3); preview forces the web sink
// regardless of sinkName (§6).
func Build(sel *rsql.Select, sinkName string, preview bool, cat *catalog.Catalog) (*Sink, error) {
	if len(sel.From) != 1 {
		return nil, &multiFromUnsupported{}
	}
	op, err := buildFrom(sel.From[0], cat)
	if err != nil {
		return nil, err
	}

	op = buildFilter(op, sel.Where)

	if wf, alias, err := findWindowFuncCall(sel.SelectExprs); err != nil {
		return nil, err
	} else if wf != nil {
		op, err = buildWindowFunc(op, wf, alias)
		if err != nil {
			return nil, err
		}
		return buildSink(op, sinkName, preview), nil
	}

	if len(sel.GroupBy) > 0 {
		return buildAggregateSink(op, sel, sinkName, preview)
	}

	op = buildProjection(op, sel.SelectExprs)
	return buildSink(op, sinkName, preview), nil
}

func buildAggregateSink(input SqlOperator, sel *rsql.Select, sinkName string, preview bool) (*Sink, error) {
	nonWindowKeys, spec, err := extractWindow(sel.GroupBy)
	if err != nil {
		return nil, err
	}
	aggs, _, err := extractAggregates(sel.SelectExprs)
	if err != nil {
		return nil, err
	}
	mergeKind := GroupByBasic
	if spec.Type != "" {
		mergeKind = GroupByWindowOutput
	}
	agg := &Aggregator{
		Input:      buildKeyProjection(input, fieldKeyExprs(nonWindowKeys)),
		Key:        nonWindowKeys,
		Window:     spec,
		Aggregates: aggs,
		MergeKind:  mergeKind,
	}
	return buildSink(agg, sinkName, preview), nil
}

type multiFromUnsupported struct{}

func (e *multiFromUnsupported) Error() string {
	return "FROM clause must name exactly one table or join tree"
}
