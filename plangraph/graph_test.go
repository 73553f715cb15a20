package plangraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsql/core/catalog"
	"github.com/flowsql/core/pipeline"
	"github.com/flowsql/core/sqlfrontend"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat := catalog.New()
	err := cat.AddConnectorTable(catalog.Table{
		Name: "kafka_src",
		Schema: catalog.TableSchema{
			Fields: []catalog.Field{
				{Name: "id", Type: "int64"},
				{Name: "price", Type: "float64"},
				{Name: "event_time", Type: "timestamp"},
			},
		},
	})
	require.NoError(t, err)
	return cat
}

func buildSink(t *testing.T, cat *catalog.Catalog, sql string) *pipeline.Sink {
	t.Helper()
	stmts, err := sqlfrontend.Parse(sql)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	sink, err := pipeline.Build(stmts[0].Insert.Source, "", false, cat)
	require.NoError(t, err)
	return sink
}

func TestBuildSourceWatermarkSink(t *testing.T) {
	cat := testCatalog(t)
	sink := buildSink(t, cat, "SELECT * FROM kafka_src")

	g, sinkIdx, err := Build(sink, cat, false)
	require.NoError(t, err)

	require.Equal(t, 3, g.NodeCount(), "expected source, watermark, sink")
	assert.IsType(t, &SourceOp{}, g.Node(0).Operator)
	assert.IsType(t, &WatermarkOp{}, g.Node(1).Operator)
	assert.IsType(t, &StreamOperatorOp{}, g.Node(sinkIdx).Operator)

	edges := g.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, Forward, edges[0].Data.EdgeType.Kind)
	assert.Equal(t, Forward, edges[1].Data.EdgeType.Kind)
}

func TestBuildTumblingCountShufflesIntoAggregate(t *testing.T) {
	cat := testCatalog(t)
	sink := buildSink(t, cat, "SELECT count(*) FROM kafka_src GROUP BY tumble(interval '5' second)")

	g, sinkIdx, err := Build(sink, cat, false)
	require.NoError(t, err)

	var sawShuffle bool
	for _, e := range g.Edges() {
		if e.Data.EdgeType.Kind == Shuffle {
			sawShuffle = true
		}
	}
	assert.True(t, sawShuffle, "expected a shuffle edge into the windowed aggregate")

	sinkType := g.Node(sinkIdx).OutputType
	require.Equal(t, Keyed, sinkType.Kind)
	_, ok := sinkType.Value.FieldByName("count")
	assert.True(t, ok, "merged output should carry the aggregate's output column")
}

func TestDedupesRepeatedSource(t *testing.T) {
	cat := testCatalog(t)
	sink := buildSink(t, cat, "SELECT id FROM kafka_src WHERE price > 1")

	g := New(cat, false)
	idx1 := g.addSource(&pipeline.Source{TableName: "kafka_src", Schema: nil})
	idx2 := g.addSource(&pipeline.Source{TableName: "kafka_src", Schema: nil})
	assert.Equal(t, idx1, idx2)

	_ = sink
}
