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

/*
Package flowsql is a SQL-to-streaming-dataflow compiler core: it turns a SQL query, a catalog
of tables and UDFs, and compile options into a typed Program a streaming runtime can execute.
It performs no query execution itself — no window ever fires, no row is ever read.

# Getting Started

	package main

	import (
		"context"
		"fmt"

		"github.com/flowsql/core/catalog"
		"github.com/flowsql/core/compiler"
	)

	func main() {
		cat := catalog.New()
		cat.AddConnectorTable(catalog.Table{
			Name: "events",
			Schema: catalog.TableSchema{
				Fields: []catalog.Field{
					{Name: "device_id", Type: "utf8"},
					{Name: "temperature", Type: "float64"},
					{Name: "event_time", Type: "timestamp"},
				},
			},
		})

		sql := `SELECT device_id, AVG(temperature) AS avg_temp
			FROM events
			GROUP BY device_id, TUMBLE(event_time, INTERVAL '5' SECOND)`

		program, connections, err := compiler.CompileSQL(context.Background(), sql, nil, cat,
			compiler.WithDefaultParallelism(4))
		if err != nil {
			panic(err)
		}
		fmt.Printf("compiled %d stream nodes, %d connections\n", len(program.Nodes), len(connections))
	}

# Pipeline

A compile runs catalog binding, logical planning (pipeline), typed plan-graph construction
(plangraph), optimization (optimizer), and emission (emission) in sequence; any stage failing
aborts the whole compile — cerr's error taxonomy classifies every failure, and no partial
Program is ever returned.

# Scope

flowsql compiles. It does not execute: there is no window trigger, no join state, no watermark
clock running inside this module. Those concerns belong to whatever runtime consumes the
emitted Program.
*/
package flowsql
