/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package typedef implements the algebraic type system over which every schema, UDF
// signature, and plan-graph edge in the compiler core is expressed: TypeDef, StructDef, and
// the underlying Arrow-like physical type lattice (DataType).
package typedef

import (
	"fmt"
	"strings"
)

// DataType is a physical leaf type drawn from a fixed lattice. There is no widening between
// members: two DataType leaves unify only if physically identical.
type DataType int

const (
	Null DataType = iota
	Boolean
	Int8
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	Float32
	Float64
	Utf8
	Binary
	Date32
	// Timestamp carries its unit/timezone out of band via TypeDef.TimestampUnit/TimestampTZ.
	Timestamp
	Interval
	// List is a homogeneous sequence of TypeDef.Elem.
	List
	// Struct indicates the TypeDef carries a *StructDef instead of a bare DataType.
	Struct
)

func (d DataType) String() string {
	switch d {
	case Null:
		return "null"
	case Boolean:
		return "bool"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case UInt8:
		return "uint8"
	case UInt16:
		return "uint16"
	case UInt32:
		return "uint32"
	case UInt64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Utf8:
		return "utf8"
	case Binary:
		return "binary"
	case Date32:
		return "date32"
	case Timestamp:
		return "timestamp"
	case Interval:
		return "interval"
	case List:
		return "list"
	case Struct:
		return "struct"
	default:
		return "unknown"
	}
}

// TimeUnit is the resolution of a Timestamp DataType.
type TimeUnit int

const (
	Millisecond TimeUnit = iota
	Microsecond
	Nanosecond
)

// TypeDef is the algebraic type: either a physical leaf (DataType, nullable) or a named
// StructDef (nullable). Nullability is always explicit; there is no implicit null.
type TypeDef struct {
	Physical      DataType
	Nullable      bool
	Struct        *StructDef // non-nil iff Physical == Struct
	Elem          *TypeDef   // non-nil iff Physical == List
	TimestampUnit TimeUnit
	TimestampTZ   string // "" means no timezone (local/naive)
}

// TypeError is raised when a value's declared type cannot be converted to a TypeDef.
type TypeError struct {
	Input string
}

func (e *TypeError) Error() string { return fmt.Sprintf("cannot convert to TypeDef: %s", e.Input) }

// Optional wraps td as nullable, per ToOptional semantics.
func Optional(td TypeDef) TypeDef {
	td.Nullable = true
	return td
}

// ToOptional sets the nullable flag on td in place of creating a new binding; kept as a
// function (not a method) so call sites read the same way the original's to_optional(td) does.
func ToOptional(td TypeDef) TypeDef { return Optional(td) }

// Leaf builds a non-nullable physical TypeDef.
func Leaf(d DataType) TypeDef { return TypeDef{Physical: d} }

// OfStruct builds a non-nullable struct TypeDef.
func OfStruct(s *StructDef) TypeDef { return TypeDef{Physical: Struct, Struct: s} }

// OfList builds a non-nullable list TypeDef with the given element type.
func OfList(elem TypeDef) TypeDef { return TypeDef{Physical: List, Elem: &elem} }

// AsDataType returns the physical leaf type, failing for struct types.
func (t TypeDef) AsDataType() (DataType, error) {
	if t.Physical == Struct {
		return 0, &TypeError{Input: "struct types have no single physical leaf"}
	}
	return t.Physical, nil
}

// IsStruct reports whether t carries a StructDef.
func (t TypeDef) IsStruct() bool { return t.Physical == Struct && t.Struct != nil }

// Unify checks whether two TypeDefs are the same type (ignoring nullability): DataType leaves
// unify only if physically equal (no widening), and StructDefs unify only if structurally
// identical after alias-stripping.
func Unify(a, b TypeDef) bool {
	if a.Physical != b.Physical {
		return false
	}
	switch a.Physical {
	case Struct:
		if a.Struct == nil || b.Struct == nil {
			return a.Struct == b.Struct
		}
		return a.Struct.StructurallyEqual(b.Struct)
	case List:
		if a.Elem == nil || b.Elem == nil {
			return a.Elem == b.Elem
		}
		return Unify(*a.Elem, *b.Elem)
	case Timestamp:
		return a.TimestampUnit == b.TimestampUnit && a.TimestampTZ == b.TimestampTZ
	default:
		return true
	}
}

// StructField is one field of a StructDef.
type StructField struct {
	Name string
	// Alias is the qualification path (e.g. the source table alias) this field was bound
	// through, if any.
	Alias string
	Type  TypeDef
	// Rename is set when emission must use a different wire name than Name.
	Rename string
	// Original marks the field's physical type as a text encoding of a richer logical type,
	// e.g. "json" for a Utf8 field that really carries a JSON document.
	Original string
}

// EffectiveName returns Rename if set, else Name.
func (f StructField) EffectiveName() string {
	if f.Rename != "" {
		return f.Rename
	}
	return f.Name
}

// StructDef is a named record type: optional fully-qualified name, anonymous flag, ordered
// fields. Two StructDefs with identical field sequences but different names are distinct
// types; anonymous structs with identical field sequences are interchangeable.
type StructDef struct {
	Name      string
	Anonymous bool
	Fields    []StructField
	// KeyParticipant marks this struct as used as a Keyed{K,...} key, which means emission
	// must generate hashing/equality support for it (§4.7).
	KeyParticipant bool
}

// NormalizedName is the case-folded name used for struct-definition dedup (§4.7/§8 property 4).
func (s *StructDef) NormalizedName() string {
	if s.Anonymous {
		return s.anonymousSignature()
	}
	return strings.ToLower(s.Name)
}

func (s *StructDef) anonymousSignature() string {
	var b strings.Builder
	b.WriteString("anon(")
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(strings.ToLower(f.Name))
		b.WriteString(":")
		b.WriteString(f.Type.Physical.String())
	}
	b.WriteString(")")
	return b.String()
}

// FieldByName does a case-insensitive lookup, per the catalog's case-folding rule (§9).
func (s *StructDef) FieldByName(name string) (StructField, bool) {
	lname := strings.ToLower(name)
	for _, f := range s.Fields {
		if strings.ToLower(f.Name) == lname {
			return f, true
		}
	}
	return StructField{}, false
}

// StructurallyEqual compares two struct defs field-by-field: field order, field name
// (case-folded), type, and field nullability must match. When neither struct is anonymous,
// their names must also match, case-folded.
func (s *StructDef) StructurallyEqual(o *StructDef) bool {
	if !s.Anonymous && !o.Anonymous && !strings.EqualFold(s.Name, o.Name) {
		return false
	}
	if len(s.Fields) != len(o.Fields) {
		return false
	}
	for i := range s.Fields {
		a, b := s.Fields[i], o.Fields[i]
		if !strings.EqualFold(a.Name, b.Name) {
			return false
		}
		if !Unify(a.Type, b.Type) || a.Type.Nullable != b.Type.Nullable {
			return false
		}
	}
	return true
}

// ValidateUniqueFieldNames enforces the StructDef invariant that field names are unique after
// case-normalization.
func ValidateUniqueFieldNames(fields []StructField) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		key := strings.ToLower(f.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate field name %q after case-folding", f.Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}
