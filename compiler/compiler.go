package compiler

import (
	"context"

	"github.com/flowsql/core/catalog"
	"github.com/flowsql/core/cerr"
	"github.com/flowsql/core/connector"
	"github.com/flowsql/core/emission"
	"github.com/flowsql/core/optimizer"
	"github.com/flowsql/core/pipeline"
	"github.com/flowsql/core/plangraph"
	"github.com/flowsql/core/rsql"
	"github.com/flowsql/core/sqlfrontend"
)

// ConnectionID names a catalog.Connection created while compiling a query. Preview compiles
// never produce one (§6: preview mode disables persistence of connection linkage).
type ConnectionID string

// CompileSQL parses query, registers udfs and any CREATE TABLE statements it declares against a
// clone of cat, lowers its terminal INSERT/SELECT statement through pipeline, plangraph, and
// optimizer, and emits a Program. cat itself is never mutated: every compile binds against its
// own Catalog.Clone(), so concurrent compiles against the same catalog share no mutable state.
func CompileSQL(ctx context.Context, query string, udfs []UDFSource, cat *catalog.Catalog, opts ...Option) (*emission.Program, []ConnectionID, error) {
	cfg := newConfig(opts)
	working := cat.Clone()

	if err := registerUDFs(working, udfs); err != nil {
		return nil, nil, err
	}

	stmts, err := sqlfrontend.Parse(query)
	if err != nil {
		return nil, nil, err
	}

	var connections []ConnectionID
	var sink *pipeline.Sink

	for _, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		switch stmt.Kind {
		case sqlfrontend.KindCreateTable:
			connID, err := registerCreateTable(working, stmt.Create, cfg)
			if err != nil {
				return nil, nil, err
			}
			if connID != "" {
				connections = append(connections, connID)
			}
		case sqlfrontend.KindInsert, sqlfrontend.KindAnonymousInsert:
			if sink != nil {
				return nil, nil, &cerr.UnsupportedFeature{Feature: "more than one terminal INSERT/SELECT statement per compile"}
			}
			cfg.Logger.Debug("lowering statement into operator tree: sink=%q preview=%v", stmt.Insert.Sink, cfg.Preview)
			s, err := pipeline.Build(stmt.Insert.Source, stmt.Insert.Sink, cfg.Preview, working)
			if err != nil {
				return nil, nil, err
			}
			sink = s
		}
	}

	if sink == nil {
		return nil, nil, &cerr.UnsupportedFeature{Feature: "query contains no terminal INSERT/SELECT statement"}
	}

	graph, _, err := plangraph.Build(sink, working, cfg.Preview)
	if err != nil {
		return nil, nil, err
	}
	cfg.Logger.Info("lowered plan graph: %d nodes", graph.NodeCount())

	if err := optimizer.Optimize(graph); err != nil {
		return nil, nil, err
	}
	cfg.Logger.Debug("optimization complete")

	program, err := emission.Emit(graph, cfg.DefaultParallelism)
	if err != nil {
		return nil, nil, err
	}
	cfg.Logger.Info("compiled %d stream nodes, %d edges", len(program.Nodes), len(program.Edges))

	return program, connections, nil
}

func registerUDFs(cat *catalog.Catalog, udfs []UDFSource) error {
	defs := make([]*catalog.UdfDef, 0, len(udfs))
	for _, u := range udfs {
		if u.Language != "rust" {
			return &cerr.UnsupportedUdfLanguage{Language: u.Language}
		}
		def, err := catalog.ParseUDF(u.Definition)
		if err != nil {
			return err
		}
		defs = append(defs, def)
	}
	if catalog.HasDuplicateUDFNames(defs) {
		return &cerr.UdfError{Message: "duplicate udf name"}
	}
	for _, def := range defs {
		if err := cat.AddUDFDef(def); err != nil {
			return err
		}
	}
	return nil
}

// registerCreateTable binds ct's WITH-clause options into a connector connection and registers
// the resulting table into cat, returning the generated ConnectionID (empty in preview mode).
func registerCreateTable(cat *catalog.Catalog, ct *rsql.CreateTable, cfg *Config) (ConnectionID, error) {
	opts, err := sqlfrontend.ResolveWithTable(ct)
	if err != nil {
		return "", &cerr.ConfigError{Message: err.Error()}
	}
	connectorName, err := connector.PullOption("connector", opts)
	if err != nil {
		return "", err
	}

	erased, ok := connector.Lookup(connectorName)
	if !ok {
		return "", &cerr.UnsupportedFeature{Feature: "connector " + connectorName}
	}

	schema := catalog.TableSchema{Fields: make([]catalog.Field, 0, len(ct.Columns))}
	for _, col := range ct.Columns {
		schema.Fields = append(schema.Fields, catalog.Field{Name: col.Name, Type: col.TypeName, Nullable: col.Nullable})
	}
	structDef, err := schema.ToStructDef(ct.Name)
	if err != nil {
		return "", err
	}

	conn, err := erased.FromOptions(ct.Name, opts, structDef)
	if err != nil {
		return "", err
	}

	cfg.Logger.Debug("registered connector table %q via %q", ct.Name, connectorName)

	if err := cat.AddConnectorTable(catalog.Table{Name: ct.Name, Schema: schema, Connection: &conn}); err != nil {
		return "", err
	}

	if cfg.Preview {
		return "", nil
	}
	return ConnectionID(conn.ID), nil
}
