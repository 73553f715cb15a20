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

// Package rsql holds the bound expression-template AST: Select, Insert, CreateTable,
// expressions, and the positioned ParseError type. Nodes render back to a stable string via
// Format, which the emission package compiles through expr-lang to validate it. The sqlfrontend
// package is what actually parses SQL text (via pg_query_go) and constructs these nodes; this
// package owns only the node shapes and their formatting.
package rsql
