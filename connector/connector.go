package connector

import (
	"context"

	"github.com/flowsql/core/catalog"
	"github.com/flowsql/core/cerr"
	"github.com/flowsql/core/typedef"
)

// Metadata is the capability record a connector publishes about itself.
type Metadata struct {
	Name          string
	Description   string
	SourceCapable bool
	SinkCapable   bool
}

// TableType reports whether a connector-backed table may be read, written, or both.
type TableType int

const (
	TableTypeSource TableType = iota
	TableTypeSink
	TableTypeSourceSink
)

// TestSourceMessage is one progress update streamed by Connector.Test while it probes
// reachability of the configured external system.
type TestSourceMessage struct {
	OK      bool
	Message string
	Done    bool
}

// Connector is implemented once per connector kind, typed over its own config (WITH-clause
// profile) and table (per-table) option structs.
type Connector[C any, T any] interface {
	Name() string
	Metadata() Metadata
	TableType(config C, table T) TableType
	Test(ctx context.Context, name string, config C, table T, schema *typedef.StructDef, progress chan<- TestSourceMessage)
	FromOptions(name string, opts map[string]string, schema *typedef.StructDef) (catalog.Connection, error)
	FromConfig(id, name string, config C, table T, schema *typedef.StructDef) (catalog.Connection, error)
}

// PullOption removes and returns a required option key, failing with UnknownOption if absent.
// Deleting the key as it's consumed lets a caller flag any options left unrecognized once every
// required key has been pulled.
func PullOption(name string, opts map[string]string) (string, error) {
	v, ok := opts[name]
	if !ok {
		return "", &cerr.UnknownOption{Key: name}
	}
	delete(opts, name)
	return v, nil
}
