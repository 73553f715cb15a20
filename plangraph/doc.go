// Package plangraph lowers a pipeline.SqlOperator tree into a typed operator DAG (§4.5): a flat
// arena of PlanNodes connected by PlanEdges, each edge carrying the PlanType both its endpoints
// must agree on. NodeIndex is a plain int into the arena rather than a pointer or a graph
// library handle, so the optimizer can splice nodes in and out by index.
package plangraph
