package optimizer

import "github.com/flowsql/core/plangraph"

// Optimize runs both optimizer passes in order — fusion, then the two-phase aggregation split —
// and validates the result (§4.6). Fusion runs first so a two-phase split's new local-aggregator
// node never itself becomes a fusion candidate in the same pass.
func Optimize(g *plangraph.PlanGraph) error {
	Fuse(g)
	TwoPhaseSplit(g)
	return Validate(g)
}
