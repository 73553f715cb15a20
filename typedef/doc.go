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
// signature, and plan-graph edge in the compiler core is expressed.
//
// TypeDef is either a physical leaf (DataType, nullable) or a named StructDef (nullable).
// DataType is a fixed lattice of Arrow-like physical types with no implicit widening: two
// leaves unify only if physically identical. StructDef is an ordered, named field list;
// Unify treats two struct types as the same type when they are structurally identical after
// alias-stripping, regardless of the aliases or renames carried on individual fields.
//
// StructDefFromAvro and StructDefFromJSONSchema map external schema documents onto this
// lattice so catalog tables and UDF signatures can be declared from Avro/JSON sources. The
// mapping favors a fixed physical type per source primitive/logical-type pair; any shape the
// lattice cannot represent natively (most unions, nested free-form objects) is carried through
// as Utf8 with its field's Original marker set to "json".
package typedef
