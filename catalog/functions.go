package catalog

import (
	"strings"

	"github.com/flowsql/core/typedef"
)

// FuncKind distinguishes a scalar function from an aggregate one in the registry.
type FuncKind int

const (
	FuncScalar FuncKind = iota
	FuncAggregate
	FuncWindow
)

// FuncSignature is a built-in or UDF function's registered shape: enough for the SQL frontend
// and pipeline builder to validate call arity and resolve a result type.
type FuncSignature struct {
	Name   string
	Kind   FuncKind
	Args   []typedef.TypeDef
	Return typedef.TypeDef
	// Variadic marks functions like tumble/hop that accept a fixed prefix plus a trailing
	// optional offset argument; callers should not enforce exact arity for these.
	Variadic bool
}

// FunctionRegistry is the catalog's name-keyed scalar/aggregate/window function table,
// pre-seeded with the built-ins named in §4.2: tumble, hop, session (each returning the
// opaque window struct {window_start, window_end}), unnest, and JSON accessors.
type FunctionRegistry struct {
	entries map[string]FuncSignature
}

func NewFunctionRegistry() *FunctionRegistry {
	r := &FunctionRegistry{entries: make(map[string]FuncSignature)}
	windowStruct := typedef.OfStruct(typedef.WindowStructDef())

	r.register(FuncSignature{Name: "tumble", Kind: FuncScalar, Return: windowStruct, Variadic: true})
	r.register(FuncSignature{Name: "hop", Kind: FuncScalar, Return: windowStruct, Variadic: true})
	r.register(FuncSignature{Name: "session", Kind: FuncScalar, Return: windowStruct, Variadic: true})
	r.register(FuncSignature{
		Name: "unnest", Kind: FuncScalar,
		Args:   []typedef.TypeDef{typedef.OfList(typedef.Leaf(typedef.Utf8))},
		Return: typedef.Leaf(typedef.Utf8),
	})
	r.register(FuncSignature{
		Name: "json_get", Kind: FuncScalar,
		Args:   []typedef.TypeDef{typedef.Leaf(typedef.Utf8), typedef.Leaf(typedef.Utf8)},
		Return: typedef.Optional(typedef.Leaf(typedef.Utf8)),
	})
	r.register(FuncSignature{
		Name: "json_get_int", Kind: FuncScalar,
		Args:   []typedef.TypeDef{typedef.Leaf(typedef.Utf8), typedef.Leaf(typedef.Utf8)},
		Return: typedef.Optional(typedef.Leaf(typedef.Int64)),
	})
	r.register(FuncSignature{
		Name: "json_get_float", Kind: FuncScalar,
		Args:   []typedef.TypeDef{typedef.Leaf(typedef.Utf8), typedef.Leaf(typedef.Utf8)},
		Return: typedef.Optional(typedef.Leaf(typedef.Float64)),
	})

	for _, name := range []string{"sum", "avg", "min", "max", "count", "stddev", "median", "array_agg"} {
		r.register(FuncSignature{Name: name, Kind: FuncAggregate, Variadic: true})
	}
	r.register(FuncSignature{Name: "row_number", Kind: FuncWindow, Return: typedef.Leaf(typedef.UInt64)})
	return r
}

func (r *FunctionRegistry) register(sig FuncSignature) {
	r.entries[strings.ToLower(sig.Name)] = sig
}

// RegisterUDF adds def to the registry under its own name, available to the frontend as
// either a scalar or aggregate function call depending on def.IsAggregate.
func (r *FunctionRegistry) RegisterUDF(def *UdfDef) {
	kind := FuncScalar
	if def.IsAggregate {
		kind = FuncAggregate
	}
	r.register(FuncSignature{Name: def.Name, Kind: kind, Args: def.Args, Return: def.Return})
}

// Lookup resolves a function name case-insensitively.
func (r *FunctionRegistry) Lookup(name string) (FuncSignature, bool) {
	sig, ok := r.entries[strings.ToLower(name)]
	return sig, ok
}

func (r *FunctionRegistry) clone() *FunctionRegistry {
	c := &FunctionRegistry{entries: make(map[string]FuncSignature, len(r.entries))}
	for k, v := range r.entries {
		c.entries[k] = v
	}
	return c
}
