package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsql/core/catalog"
	"github.com/flowsql/core/cerr"
)

func kafkaSrcCatalog() *catalog.Catalog {
	cat := catalog.New()
	cat.AddConnectorTable(catalog.Table{
		Name: "kafka_src",
		Schema: catalog.TableSchema{
			Fields: []catalog.Field{
				{Name: "id", Type: "int64"},
				{Name: "msg", Type: "utf8"},
			},
		},
	})
	return cat
}

// TestCompileSQLPassThrough covers scenario 1: a bare SELECT * lowers to a 3-node,
// 2-forward-edge graph terminating at the implicit web sink.
func TestCompileSQLPassThrough(t *testing.T) {
	cat := kafkaSrcCatalog()
	program, connections, err := CompileSQL(context.Background(), "SELECT * FROM kafka_src", nil, cat)
	require.NoError(t, err)
	assert.Empty(t, connections)
	assert.Len(t, program.Nodes, 3)
	assert.Len(t, program.Edges, 2)
}

// TestCompileSQLFilterProjectFusion covers scenario 2: a filtered, projected SELECT fuses into
// one record-transform node between the source and sink.
func TestCompileSQLFilterProjectFusion(t *testing.T) {
	cat := kafkaSrcCatalog()
	program, _, err := CompileSQL(context.Background(), "SELECT msg FROM kafka_src WHERE id > 10", nil, cat)
	require.NoError(t, err)

	var fused bool
	var kinds []string
	for _, n := range program.Nodes {
		kinds = append(kinds, n.Kind)
		if n.Kind == "fused" {
			fused = true
			require.Len(t, n.Expressions, 2)
		}
	}
	assert.True(t, fused, "expected a fused record-transform node, got kinds: %v", kinds)
}

func TestCompileSQLRejectsNonRustUDF(t *testing.T) {
	cat := kafkaSrcCatalog()
	udfs := []UDFSource{{Language: "python", Definition: "def f(x): return x"}}
	_, _, err := CompileSQL(context.Background(), "SELECT * FROM kafka_src", udfs, cat)
	require.Error(t, err)
	var unsupported *cerr.UnsupportedUdfLanguage
	assert.ErrorAs(t, err, &unsupported)
}

func TestCompileSQLRejectsDuplicateTerminalStatement(t *testing.T) {
	cat := kafkaSrcCatalog()
	_, _, err := CompileSQL(context.Background(), "SELECT * FROM kafka_src; SELECT msg FROM kafka_src", nil, cat)
	require.Error(t, err)
	var unsupported *cerr.UnsupportedFeature
	assert.ErrorAs(t, err, &unsupported)
}

func TestCompileSQLCreateTableRegistersConnection(t *testing.T) {
	cat := catalog.New()
	sql := `CREATE TABLE events (id int8, msg text) WITH (connector = 'kafka', bootstrap_servers = 'localhost:9092', topic = 'events');
		SELECT * FROM events`
	program, connections, err := CompileSQL(context.Background(), sql, nil, cat)
	require.NoError(t, err)
	require.Len(t, connections, 1)
	assert.NotEmpty(t, connections[0])
	assert.Len(t, program.Nodes, 3)
}

func TestCompileSQLPreviewModeSkipsConnectionPersistence(t *testing.T) {
	cat := catalog.New()
	sql := `CREATE TABLE events (id int8, msg text) WITH (connector = 'kafka', bootstrap_servers = 'localhost:9092', topic = 'events');
		SELECT * FROM events`
	_, connections, err := CompileSQL(context.Background(), sql, nil, cat, WithPreview(true))
	require.NoError(t, err)
	assert.Empty(t, connections)
}

func TestCompileSQLUnknownConnectorFails(t *testing.T) {
	cat := catalog.New()
	sql := `CREATE TABLE events (id int8) WITH (connector = 'nope'); SELECT * FROM events`
	_, _, err := CompileSQL(context.Background(), sql, nil, cat)
	require.Error(t, err)
}

// TestCompileSQLRejectsUDFWithMixedListAndScalarArgs covers scenario 6: a UDF mixing
// list<T> and scalar argument forms must fail at registration time, before any parsing of the
// query itself.
func TestCompileSQLRejectsUDFWithMixedListAndScalarArgs(t *testing.T) {
	cat := kafkaSrcCatalog()
	udfs := []UDFSource{{Language: "rust", Definition: `func f(a []int64, b int64) int64 { return b }`}}
	_, _, err := CompileSQL(context.Background(), "SELECT * FROM kafka_src", udfs, cat)
	require.Error(t, err)
	var udfErr *cerr.UdfError
	require.ErrorAs(t, err, &udfErr)
	assert.Contains(t, udfErr.Message, "arguments must be vectors or none")
}

func TestCompileSQLRejectsUnknownTable(t *testing.T) {
	cat := catalog.New()
	_, _, err := CompileSQL(context.Background(), "SELECT * FROM missing", nil, cat)
	require.Error(t, err)
	var unknown *cerr.UnknownTable
	assert.ErrorAs(t, err, &unknown)
}
