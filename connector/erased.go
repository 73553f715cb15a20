package connector

import (
	"context"
	"encoding/json"

	"github.com/flowsql/core/catalog"
	"github.com/flowsql/core/cerr"
	"github.com/flowsql/core/typedef"
)

// ErasedConnector is the type-erased interface the registry stores: config/table option values
// cross this boundary as JSON blobs (the Go analog of serde_json's dynamic value), parsed
// internally before reaching the typed Connector.
type ErasedConnector interface {
	Name() string
	Metadata() Metadata
	TableType(configBlob, tableBlob string) (TableType, error)
	Test(ctx context.Context, name, configBlob, tableBlob string, schema *typedef.StructDef, progress chan<- TestSourceMessage) error
	FromOptions(name string, opts map[string]string, schema *typedef.StructDef) (catalog.Connection, error)
	FromConfig(id, name, configBlob, tableBlob string, schema *typedef.StructDef) (catalog.Connection, error)
}

// erasedAdapter wraps a typed Connector[C,T] to satisfy ErasedConnector.
type erasedAdapter[C any, T any] struct {
	inner Connector[C, T]
}

// Erase wraps a typed connector for storage in the global registry.
func Erase[C any, T any](c Connector[C, T]) ErasedConnector {
	return &erasedAdapter[C, T]{inner: c}
}

func (a *erasedAdapter[C, T]) Name() string       { return a.inner.Name() }
func (a *erasedAdapter[C, T]) Metadata() Metadata { return a.inner.Metadata() }

func parseBlob[V any](blob string) (V, error) {
	var v V
	if blob == "" {
		return v, nil
	}
	if err := json.Unmarshal([]byte(blob), &v); err != nil {
		return v, &cerr.ConfigError{Message: err.Error()}
	}
	return v, nil
}

func (a *erasedAdapter[C, T]) TableType(configBlob, tableBlob string) (TableType, error) {
	cfg, err := parseBlob[C](configBlob)
	if err != nil {
		return 0, err
	}
	tbl, err := parseBlob[T](tableBlob)
	if err != nil {
		return 0, err
	}
	return a.inner.TableType(cfg, tbl), nil
}

func (a *erasedAdapter[C, T]) Test(ctx context.Context, name, configBlob, tableBlob string, schema *typedef.StructDef, progress chan<- TestSourceMessage) error {
	cfg, err := parseBlob[C](configBlob)
	if err != nil {
		return err
	}
	tbl, err := parseBlob[T](tableBlob)
	if err != nil {
		return err
	}
	a.inner.Test(ctx, name, cfg, tbl, schema, progress)
	return nil
}

func (a *erasedAdapter[C, T]) FromOptions(name string, opts map[string]string, schema *typedef.StructDef) (catalog.Connection, error) {
	return a.inner.FromOptions(name, opts, schema)
}

func (a *erasedAdapter[C, T]) FromConfig(id, name, configBlob, tableBlob string, schema *typedef.StructDef) (catalog.Connection, error) {
	cfg, err := parseBlob[C](configBlob)
	if err != nil {
		return catalog.Connection{}, err
	}
	tbl, err := parseBlob[T](tableBlob)
	if err != nil {
		return catalog.Connection{}, err
	}
	return a.inner.FromConfig(id, name, cfg, tbl, schema)
}
