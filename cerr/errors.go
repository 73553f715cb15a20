// Package cerr defines the compiler core's error taxonomy. Every error the core can return
// implements error and is one of the kinds listed here; none of them are retried internally.
package cerr

import (
	"fmt"
	"strings"
)

// Class is the two-bucket user-visible classification every error kind maps to.
type Class int

const (
	ClassInvalidArgument Class = iota
	ClassInternal
)

// UnknownTable is raised when binding references a table absent from the catalog.
type UnknownTable struct{ Name string }

func (e *UnknownTable) Error() string { return fmt.Sprintf("unknown table %q", e.Name) }

// UnknownColumn is raised when binding references a column absent from its source schema.
type UnknownColumn struct {
	Table, Name string
}

func (e *UnknownColumn) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("unknown column %q on table %q", e.Name, e.Table)
	}
	return fmt.Sprintf("unknown column %q", e.Name)
}

// TypeMismatch is raised when type unification fails.
type TypeMismatch struct {
	Context     string
	Left, Right string
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch in %s: %s vs %s", e.Context, e.Left, e.Right)
}

// UnsupportedFeature is raised by the planner/lowerer for constructs it will never implement.
type UnsupportedFeature struct{ Feature string }

func (e *UnsupportedFeature) Error() string { return fmt.Sprintf("unsupported feature: %s", e.Feature) }

// UdfError is raised during UDF registration.
type UdfError struct {
	Name    string
	Message string
}

func (e *UdfError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("udf %q: %s", e.Name, e.Message)
	}
	return e.Message
}

// ConfigError is raised when a connector config/table blob fails to parse.
type ConfigError struct{ Message string }

func (e *ConfigError) Error() string { return fmt.Sprintf("config error: %s", e.Message) }

// UnknownOption is raised when a required connector option key is missing.
type UnknownOption struct{ Key string }

func (e *UnknownOption) Error() string { return fmt.Sprintf("unknown or missing option %q", e.Key) }

// EdgeMismatch is one entry of an aggregated PlanValidationError.
type EdgeMismatch struct {
	SrcIndex, DstIndex int
	Reason             string
}

// PlanValidationError aggregates every edge-type mismatch found by the post-optimize
// validation pass (§4.6). It is never partial: all mismatches are reported together.
type PlanValidationError struct {
	Mismatches []EdgeMismatch
}

func (e *PlanValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "plan validation failed with %d mismatch(es):", len(e.Mismatches))
	for _, m := range e.Mismatches {
		fmt.Fprintf(&b, "\n  edge (%d -> %d): %s", m.SrcIndex, m.DstIndex, m.Reason)
	}
	return b.String()
}

// InternalError wraps an unreachable-invariant violation. Surfaced as 500-class.
type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("internal error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("internal error: %s", e.Message)
}

func (e *InternalError) Unwrap() error { return e.Cause }

// ExpressionCompileError is raised during emission when an emitted expression string fails to
// compile (§4.7): a syntax or type error is caught here rather than deferred to the runtime.
type ExpressionCompileError struct {
	OperatorID string
	Expression string
	Cause      error
}

func (e *ExpressionCompileError) Error() string {
	return fmt.Sprintf("operator %q: failed to compile expression %q: %v", e.OperatorID, e.Expression, e.Cause)
}

func (e *ExpressionCompileError) Unwrap() error { return e.Cause }

// UnsupportedUdfLanguage is raised by the compile entry point when a UDF declares a language
// other than "rust" (the only one ever recognized, per §6).
type UnsupportedUdfLanguage struct{ Language string }

func (e *UnsupportedUdfLanguage) Error() string {
	return fmt.Sprintf("unsupported udf language %q", e.Language)
}

// ClassOf classifies any error produced by the core into the API layer's two buckets.
func ClassOf(err error) Class {
	if _, ok := err.(*InternalError); ok {
		return ClassInternal
	}
	return ClassInvalidArgument
}
