package sqlfrontend

import (
	"testing"

	"github.com/flowsql/core/cerr"
	"github.com/flowsql/core/rsql"
	"github.com/stretchr/testify/require"
)

func TestParseCreateTableWithOptions(t *testing.T) {
	stmts, err := Parse(`CREATE TABLE events (
		device_id TEXT NOT NULL,
		temperature DOUBLE PRECISION
	) WITH (connector = 'kafka', topic = 'events')`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	require.Equal(t, KindCreateTable, stmts[0].Kind)

	ct := stmts[0].Create
	require.Equal(t, "events", ct.Name)
	require.Len(t, ct.Columns, 2)
	require.Equal(t, "device_id", ct.Columns[0].Name)
	require.False(t, ct.Columns[0].Nullable)
	require.True(t, ct.Columns[1].Nullable)

	opts, err := ResolveWithTable(ct)
	require.NoError(t, err)
	require.Equal(t, "kafka", opts["connector"])
	require.Equal(t, "events", opts["topic"])
}

func TestResolveWithTableRejectsDuplicateKeys(t *testing.T) {
	ct := &rsql.CreateTable{With: []rsql.WithOption{
		{Key: "connector", Value: "kafka"},
		{Key: "connector", Value: "web"},
	}}
	_, err := ResolveWithTable(ct)
	require.Error(t, err)
}

func TestParseBareSelectIsAnonymousInsert(t *testing.T) {
	stmts, err := Parse(`SELECT device_id FROM events WHERE temperature > 10`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	require.Equal(t, KindAnonymousInsert, stmts[0].Kind)
	require.True(t, stmts[0].Insert.Anonymous)
	require.Empty(t, stmts[0].Insert.Sink)

	sel := stmts[0].Insert.Source
	require.Len(t, sel.SelectExprs, 1)
	require.NotNil(t, sel.Where)
}

func TestParseInsertIntoSinkSelect(t *testing.T) {
	stmts, err := Parse(`INSERT INTO out SELECT device_id FROM events`)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	require.Equal(t, KindInsert, stmts[0].Kind)
	require.Equal(t, "out", stmts[0].Insert.Sink)
	require.False(t, stmts[0].Insert.Anonymous)
}

func TestParseSelectStarProducesStarField(t *testing.T) {
	stmts, err := Parse(`SELECT * FROM events`)
	require.NoError(t, err)
	sel := stmts[0].Insert.Source
	require.Len(t, sel.SelectExprs, 1)
	require.True(t, sel.SelectExprs[0].Star)
}

func TestParseFullClauseSet(t *testing.T) {
	stmts, err := Parse(`SELECT device_id, AVG(temperature) AS avg_temp
		FROM events
		WHERE temperature > 0
		GROUP BY device_id
		HAVING AVG(temperature) > 10
		ORDER BY device_id DESC
		LIMIT 5`)
	require.NoError(t, err)
	sel := stmts[0].Insert.Source
	require.NotNil(t, sel.Where)
	require.Len(t, sel.GroupBy, 1)
	require.NotNil(t, sel.Having)
	require.Len(t, sel.OrderBy, 1)
	require.True(t, sel.OrderBy[0].Desc)
	require.NotNil(t, sel.Limit)
}

func TestParseJoinTypes(t *testing.T) {
	cases := map[string]rsql.JoinType{
		"INNER JOIN": rsql.JoinInner,
		"LEFT JOIN":  rsql.JoinLeft,
		"RIGHT JOIN": rsql.JoinRight,
		"FULL JOIN":  rsql.JoinFull,
	}
	for clause, want := range cases {
		sql := "SELECT a.id FROM a " + clause + " b ON a.id = b.id"
		stmts, err := Parse(sql)
		require.NoError(t, err, clause)
		sel := stmts[0].Insert.Source
		require.Len(t, sel.From, 1)
		join, ok := sel.From[0].(*rsql.Join)
		require.True(t, ok, clause)
		require.Equal(t, want, join.Type, clause)
		require.NotNil(t, join.On)
	}
}

func TestParseWindowFunctionCall(t *testing.T) {
	stmts, err := Parse(`SELECT ROW_NUMBER() OVER (PARTITION BY device_id ORDER BY event_time) FROM events`)
	require.NoError(t, err)
	sel := stmts[0].Insert.Source
	require.Len(t, sel.SelectExprs, 1)
	wf, ok := sel.SelectExprs[0].Expr.(*rsql.WindowFuncCall)
	require.True(t, ok)
	require.Len(t, wf.PartitionBy, 1)
	require.Len(t, wf.OrderBy, 1)
	require.True(t, wf.Call.IsWindow)
}

func TestParseIntervalCastWithTypmodUnit(t *testing.T) {
	stmts, err := Parse(`SELECT TUMBLE(event_time, INTERVAL '5' SECOND) FROM events`)
	require.NoError(t, err)
	sel := stmts[0].Insert.Source
	call, ok := sel.SelectExprs[0].Expr.(*rsql.FunctionCall)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
	iv, ok := call.Args[1].(*rsql.IntervalLiteral)
	require.True(t, ok)
	require.Equal(t, int64(5), iv.Amount)
	require.Equal(t, "second", iv.Unit)
}

func TestParseIntervalCastWithInlineUnit(t *testing.T) {
	stmts, err := Parse(`SELECT TUMBLE(event_time, INTERVAL '5 seconds') FROM events`)
	require.NoError(t, err)
	sel := stmts[0].Insert.Source
	call := sel.SelectExprs[0].Expr.(*rsql.FunctionCall)
	iv, ok := call.Args[1].(*rsql.IntervalLiteral)
	require.True(t, ok)
	require.Equal(t, int64(5), iv.Amount)
	require.Equal(t, "second", iv.Unit)
}

func TestParseRejectsUnsupportedStatementKind(t *testing.T) {
	_, err := Parse(`DELETE FROM events WHERE device_id = 'x'`)
	require.Error(t, err)
	var unsupported *cerr.UnsupportedFeature
	require.ErrorAs(t, err, &unsupported)
}

func TestParsePropagatesSyntaxError(t *testing.T) {
	_, err := Parse(`SELECT FROM FROM FROM`)
	require.Error(t, err)
	var parseErr *rsql.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseExpressionUnwrapsSingleExpression(t *testing.T) {
	expr, err := ParseExpression(`device_id = 'sensor-1'`)
	require.NoError(t, err)
	cmp, ok := expr.(*rsql.ComparisonExpr)
	require.True(t, ok)
	require.Equal(t, "=", cmp.Op)
}
