// Package emission serializes an optimized plangraph.PlanGraph into a Program (§4.7): one
// StreamNode per PlanNode, one StreamEdge per PlanEdge, and the struct-definition closure every
// node's PlanType reaches. Expression strings embedded in operators are rewritten from their
// SQL-ish bound form into expr-lang/expr syntax and pre-compiled, so a malformed expression
// fails the compile rather than surfacing at runtime.
package emission
