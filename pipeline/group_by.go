package pipeline

import (
	"fmt"
	"time"

	"github.com/flowsql/core/aggregate"
	"github.com/flowsql/core/cerr"
	"github.com/flowsql/core/rsql"
	"github.com/flowsql/core/window"
)

// extractWindow scans a GROUP BY list for a tumble/hop/session call and returns the remaining
// (non-window) grouping expressions alongside the window spec it names. A GROUP BY with no
// window call returns a zero window.Spec (not eligible for windowed aggregation).
func extractWindow(groupBy []rsql.Expression) ([]rsql.Expression, window.Spec, error) {
	var keep []rsql.Expression
	var spec window.Spec
	found := false
	for _, e := range groupBy {
		fc, ok := e.(*rsql.FunctionCall)
		if !ok {
			keep = append(keep, e)
			continue
		}
		switch fc.Name {
		case "tumble":
			if found {
				return nil, window.Spec{}, &cerr.UnsupportedFeature{Feature: "multiple window functions in GROUP BY"}
			}
			d, tsField, err := tumbleArgs(fc.Args)
			if err != nil {
				return nil, window.Spec{}, err
			}
			spec, err = window.NewTumbling(d, tsField)
			if err != nil {
				return nil, window.Spec{}, err
			}
			found = true
		case "hop":
			if found {
				return nil, window.Spec{}, &cerr.UnsupportedFeature{Feature: "multiple window functions in GROUP BY"}
			}
			size, slide, tsField, err := hopArgs(fc.Args)
			if err != nil {
				return nil, window.Spec{}, err
			}
			spec, err = window.NewSliding(size, slide, tsField)
			if err != nil {
				return nil, window.Spec{}, err
			}
			found = true
		case "session":
			if found {
				return nil, window.Spec{}, &cerr.UnsupportedFeature{Feature: "multiple window functions in GROUP BY"}
			}
			gap, tsField, err := sessionArgs(fc.Args)
			if err != nil {
				return nil, window.Spec{}, err
			}
			spec, err = window.NewSession(gap, tsField)
			if err != nil {
				return nil, window.Spec{}, err
			}
			found = true
		default:
			keep = append(keep, e)
		}
	}
	return keep, spec, nil
}

func intervalArg(e rsql.Expression) (time.Duration, error) {
	switch v := e.(type) {
	case *rsql.IntervalLiteral:
		return intervalDuration(v.Amount, v.Unit)
	default:
		return 0, &cerr.UnsupportedFeature{Feature: "window duration argument must be an interval literal"}
	}
}

func intervalDuration(amount int64, unit string) (time.Duration, error) {
	switch unit {
	case "second", "seconds":
		return time.Duration(amount) * time.Second, nil
	case "minute", "minutes":
		return time.Duration(amount) * time.Minute, nil
	case "hour", "hours":
		return time.Duration(amount) * time.Hour, nil
	case "millisecond", "milliseconds":
		return time.Duration(amount) * time.Millisecond, nil
	default:
		return 0, fmt.Errorf("unsupported interval unit %q", unit)
	}
}

func columnArg(e rsql.Expression) (string, error) {
	cr, ok := e.(*rsql.ColumnRef)
	if !ok {
		return "", &cerr.UnsupportedFeature{Feature: "window timestamp argument must be a column reference"}
	}
	return cr.Name, nil
}

func tumbleArgs(args []rsql.Expression) (time.Duration, string, error) {
	if len(args) < 1 {
		return 0, "", &cerr.UnsupportedFeature{Feature: "tumble() requires an interval argument"}
	}
	d, err := intervalArg(args[len(args)-1])
	if err != nil {
		return 0, "", err
	}
	tsField := "event_time"
	if len(args) >= 2 {
		tsField, err = columnArg(args[0])
		if err != nil {
			return 0, "", err
		}
	}
	return d, tsField, nil
}

func hopArgs(args []rsql.Expression) (time.Duration, time.Duration, string, error) {
	if len(args) < 2 {
		return 0, 0, "", &cerr.UnsupportedFeature{Feature: "hop() requires size and slide interval arguments"}
	}
	size, err := intervalArg(args[len(args)-2])
	if err != nil {
		return 0, 0, "", err
	}
	slide, err := intervalArg(args[len(args)-1])
	if err != nil {
		return 0, 0, "", err
	}
	tsField := "event_time"
	if len(args) >= 3 {
		tsField, err = columnArg(args[0])
		if err != nil {
			return 0, 0, "", err
		}
	}
	return size, slide, tsField, nil
}

func sessionArgs(args []rsql.Expression) (time.Duration, string, error) {
	if len(args) < 1 {
		return 0, "", &cerr.UnsupportedFeature{Feature: "session() requires a gap interval argument"}
	}
	gap, err := intervalArg(args[len(args)-1])
	if err != nil {
		return 0, "", err
	}
	tsField := "event_time"
	if len(args) >= 2 {
		tsField, err = columnArg(args[0])
		if err != nil {
			return 0, "", err
		}
	}
	return gap, tsField, nil
}

// extractAggregates scans a SELECT list for aggregate function calls, returning the
// aggregate.Field list and the remaining (non-aggregate) simple fields.
func extractAggregates(fields []rsql.Field) ([]aggregate.Field, []rsql.Field, error) {
	var aggs []aggregate.Field
	var simple []rsql.Field
	for _, f := range fields {
		fc, ok := f.Expr.(*rsql.FunctionCall)
		if !ok || !fc.IsAggregate {
			simple = append(simple, f)
			continue
		}
		typ, ok := aggregate.ParseType(fc.Name)
		if !ok {
			return nil, nil, &cerr.UnsupportedFeature{Feature: "aggregate function " + fc.Name}
		}
		name := f.Alias
		if name == "" {
			name = fc.Name
		}
		argExpr := ""
		if len(fc.Args) > 0 {
			argExpr = rsql.FormatNode(fc.Args[0])
		}
		dedup := typ == aggregate.ArrayAgg && fc.Name == "array_agg_distinct"
		aggs = append(aggs, aggregate.Field{Function: typ, ArgExpr: argExpr, OutputName: name, Dedup: dedup})
	}
	return aggs, simple, nil
}

// fieldKeyExprs converts a set of GROUP BY expressions into the parallel key expression list
// an Aggregator carries.
func fieldKeyExprs(groupBy []rsql.Expression) []rsql.Expression { return groupBy }
