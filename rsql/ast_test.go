package rsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNodeColumnRefQualified(t *testing.T) {
	assert.Equal(t, "t.id", FormatNode(&ColumnRef{Table: "t", Name: "id"}))
	assert.Equal(t, "id", FormatNode(&ColumnRef{Name: "id"}))
}

func TestFormatNodeStringLiteralEscapesSpecialChars(t *testing.T) {
	assert.Equal(t, `'it\'s'`, FormatNode(&StringLiteral{Val: "it's"}))
}

func TestFormatNodeNumberLiteral(t *testing.T) {
	assert.Equal(t, "42", FormatNode(&NumberLiteral{Val: "42"}))
}

func TestFormatNodeBoolAndNullLiterals(t *testing.T) {
	assert.Equal(t, "true", FormatNode(&BoolLiteral{Val: true}))
	assert.Equal(t, "false", FormatNode(&BoolLiteral{Val: false}))
	assert.Equal(t, "null", FormatNode(&NullLiteral{}))
}

func TestFormatNodeIntervalLiteral(t *testing.T) {
	assert.Equal(t, "interval '5' second", FormatNode(&IntervalLiteral{Amount: 5, Unit: "second"}))
}

func TestFormatNodeComparisonExpr(t *testing.T) {
	expr := &ComparisonExpr{Left: &ColumnRef{Name: "id"}, Op: ">", Right: &NumberLiteral{Val: "10"}}
	assert.Equal(t, "id > 10", FormatNode(expr))
}

func TestFormatNodeUnaryExprPrefixAndPostfix(t *testing.T) {
	not := &UnaryExpr{Op: "not", Operand: &BoolLiteral{Val: true}}
	assert.Equal(t, "not true", FormatNode(not))

	isNull := &UnaryExpr{Op: "is null", Operand: &ColumnRef{Name: "x"}, Postfix: true}
	assert.Equal(t, "x is null", FormatNode(isNull))
}

func TestFormatNodeParenExpr(t *testing.T) {
	p := &ParenExpr{Expr: &ComparisonExpr{Left: &ColumnRef{Name: "a"}, Op: "+", Right: &ColumnRef{Name: "b"}}}
	assert.Equal(t, "(a + b)", FormatNode(p))
}

func TestFormatNodeFunctionCall(t *testing.T) {
	fc := &FunctionCall{Name: "avg", Args: []Expression{&ColumnRef{Name: "temperature"}}}
	assert.Equal(t, "avg(temperature)", FormatNode(fc))
}

func TestFormatNodeWindowFuncCall(t *testing.T) {
	wf := &WindowFuncCall{
		Call:        &FunctionCall{Name: "row_number"},
		PartitionBy: []Expression{&ColumnRef{Name: "k"}},
		OrderBy:     []OrderByItem{{Expr: &ColumnRef{Name: "ts"}}},
	}
	assert.Equal(t, "row_number() OVER (PARTITION BY k ORDER BY ts)", FormatNode(wf))
}

func TestFormatNodeFieldStarAndAliased(t *testing.T) {
	assert.Equal(t, "*", FormatNode(&Field{Star: true}))
	assert.Equal(t, "temperature AS t", FormatNode(&Field{Expr: &ColumnRef{Name: "temperature"}, Alias: "t"}))
}

func TestFormatNodeOrderByItemDescending(t *testing.T) {
	assert.Equal(t, "ts DESC", FormatNode(&OrderByItem{Expr: &ColumnRef{Name: "ts"}, Desc: true}))
	assert.Equal(t, "ts", FormatNode(&OrderByItem{Expr: &ColumnRef{Name: "ts"}}))
}

func TestFormatNodeNamedTableWithAlias(t *testing.T) {
	assert.Equal(t, "events", FormatNode(&NamedTable{Name: "events"}))
	assert.Equal(t, "events AS e", FormatNode(&NamedTable{Name: "events", Alias: "e"}))
}

func TestFormatNodeJoin(t *testing.T) {
	j := &Join{
		Left:  &NamedTable{Name: "a"},
		Right: &NamedTable{Name: "b"},
		Type:  JoinLeft,
		On:    &ComparisonExpr{Left: &ColumnRef{Table: "a", Name: "k"}, Op: "=", Right: &ColumnRef{Table: "b", Name: "k"}},
	}
	assert.Equal(t, "a LEFT JOIN b ON a.k = b.k", FormatNode(j))
}

func TestJoinTypeStringDefaultsToInner(t *testing.T) {
	assert.Equal(t, "INNER", JoinInner.String())
	assert.Equal(t, "LEFT", JoinLeft.String())
	assert.Equal(t, "RIGHT", JoinRight.String())
	assert.Equal(t, "FULL", JoinFull.String())
}

func TestFormatNodeColumnDefinitionNotNull(t *testing.T) {
	cd := &ColumnDefinition{Name: "id", TypeName: "int8", Nullable: false}
	assert.Equal(t, "id int8 NOT NULL", FormatNode(cd))

	cd2 := &ColumnDefinition{Name: "msg", TypeName: "text", Nullable: true}
	assert.Equal(t, "msg text", FormatNode(cd2))
}

func TestFormatNodeCreateTableWithOptions(t *testing.T) {
	ct := &CreateTable{
		Name:    "events",
		Columns: []ColumnDefinition{{Name: "id", TypeName: "int8", Nullable: false}},
		With:    []WithOption{{Key: "connector", Value: "kafka"}},
	}
	assert.Equal(t, `CREATE TABLE events (id int8 NOT NULL) WITH (connector = "kafka")`, FormatNode(ct))
}

func TestFormatNodeInsertAnonymousOmitsSink(t *testing.T) {
	sel := &Select{SelectExprs: []Field{{Star: true}}, From: []TableRef{&NamedTable{Name: "events"}}}
	anon := &Insert{Source: sel, Anonymous: true}
	assert.Equal(t, "SELECT * FROM events", FormatNode(anon))

	named := &Insert{Sink: "out", Source: sel}
	assert.Equal(t, "INSERT INTO out SELECT * FROM events", FormatNode(named))
}

func TestFormatNodeSelectFullClause(t *testing.T) {
	sel := &Select{
		Distinct:    true,
		SelectExprs: []Field{{Expr: &ColumnRef{Name: "id"}}},
		From:        []TableRef{&NamedTable{Name: "events"}},
		Where:       &ComparisonExpr{Left: &ColumnRef{Name: "id"}, Op: ">", Right: &NumberLiteral{Val: "1"}},
		GroupBy:     []Expression{&ColumnRef{Name: "id"}},
		Having:      &ComparisonExpr{Left: &ColumnRef{Name: "id"}, Op: "<", Right: &NumberLiteral{Val: "100"}},
		OrderBy:     []OrderByItem{{Expr: &ColumnRef{Name: "id"}}},
		Limit:       &Limit{RowCount: &NumberLiteral{Val: "10"}},
		Offset:      &NumberLiteral{Val: "5"},
	}
	want := "SELECT DISTINCT id FROM events WHERE id > 1 GROUP BY id HAVING id < 100 ORDER BY id LIMIT 10 OFFSET 5"
	assert.Equal(t, want, FormatNode(sel))
}
