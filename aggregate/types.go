// Package aggregate describes the SELECT-list aggregate functions the planner and optimizer
// reason about: their names, result arity, and — critically for the optimizer's two-phase
// split — whether they are associative and commutative over partial results. It holds no
// execution logic: a downstream runtime evaluates the expression strings this compiler emits.
package aggregate

import "strings"

// Type enumerates every aggregate function name the planner recognizes in a SELECT list.
// Names and values mirror the teacher's functions/aggregator_types.go enumeration; this
// package re-expresses it as plain classification data with no accumulator behind it.
type Type int

const (
	Sum Type = iota
	Count
	Avg
	Max
	Min
	StdDev
	StdDevS
	Median
	Percentile
	WindowStart
	WindowEnd
	Collect
	FirstValue
	LastValue
	MergeAgg
	Deduplicate
	Var
	VarS
	Lag
	Latest
	ChangedCol
	HadChanged
	Expression
	PostAggregation
	BitAnd
	BitOr
	ArrayAgg
)

var names = map[Type]string{
	Sum: "sum", Count: "count", Avg: "avg", Max: "max", Min: "min",
	StdDev: "stddev", StdDevS: "stddevs", Median: "median", Percentile: "percentile",
	WindowStart: "window_start", WindowEnd: "window_end", Collect: "collect",
	FirstValue: "first_value", LastValue: "last_value", MergeAgg: "merge_agg",
	Deduplicate: "deduplicate", Var: "var", VarS: "vars", Lag: "lag", Latest: "latest",
	ChangedCol: "changed_col", HadChanged: "had_changed", Expression: "expression",
	PostAggregation: "post_aggregation", BitAnd: "bit_and", BitOr: "bit_or",
	ArrayAgg: "array_agg",
}

func (t Type) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return "unknown"
}

// ParseType resolves a case-insensitive function name to a Type.
func ParseType(name string) (Type, bool) {
	lower := strings.ToLower(name)
	for t, n := range names {
		if n == lower {
			return t, true
		}
	}
	return 0, false
}

// associativeCommutative lists the aggregate functions eligible for the optimizer's two-phase
// split (§4.6): a local partial aggregate per key per subtask, merged by a second, shuffled
// aggregator. Grounded on the teacher's builtin.go wiring of montanaflynn/stats — those are
// exactly the functions whose partial results can be re-combined (sum of sums, max of maxes,
// count of counts) without re-reading the original rows. Deduplicate is excluded outright:
// deduplication is not associative over partial bins. ArrayAgg is conditionally eligible, see
// IsAssociativeCommutative.
var associativeCommutative = map[Type]bool{
	Sum:    true,
	Count:  true,
	Max:    true,
	Min:    true,
	BitAnd: true,
	BitOr:  true,
}

// IsAssociativeCommutative reports whether t's partial results over disjoint input subsets can
// be merged by re-applying t, making it eligible for the optimizer's two-phase aggregation
// split. array_agg only qualifies when its dedup flag is off: a dedup'd collect must see every
// row once, which a two-phase split cannot guarantee.
func IsAssociativeCommutative(t Type, dedup bool) bool {
	if t == ArrayAgg {
		return !dedup
	}
	return associativeCommutative[t]
}

// MergeKind describes how a GroupByKind-style aggregate merges partial bins in a two-phase
// split: the local phase emits partials, and the second phase folds them as the kind names.
type MergeKind int

const (
	// MergeIdentity folds partials with the same function (e.g. sum-of-sums).
	MergeIdentity MergeKind = iota
	// MergeCount folds count-of-counts with sum.
	MergeCount
)

// MergeKindFor returns the merge kind a two-phase split uses for t's local-phase output.
func MergeKindFor(t Type) MergeKind {
	if t == Count {
		return MergeCount
	}
	return MergeIdentity
}
