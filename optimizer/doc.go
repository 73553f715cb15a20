// Package optimizer rewrites a plangraph.PlanGraph after lowering (§4.6): fusing adjacent
// stateless RecordTransforms, splitting eligible tumbling/sliding aggregates into a local
// partial plus a shuffled combine, and validating every edge's type agreement before emission.
package optimizer
