// Package sqlfrontend parses SQL text with a real PostgreSQL grammar (pg_query_go) and binds
// the result into the rsql expression-template AST, classifying each statement as a table
// registration, a sinked insert, or an anonymous (bare SELECT) insert, per SPEC_FULL.md §4.3.
package sqlfrontend

import (
	"fmt"
	"strconv"
	"strings"

	pgquery "github.com/pganalyze/pg_query_go/v5"

	"github.com/flowsql/core/cerr"
	"github.com/flowsql/core/rsql"
)

// intervalFieldMask maps the Postgres interval fields bitmask (the INTERVAL_MASK bit of the unit
// keyword, which the grammar stores as the interval type's first typmod constant) to the unit
// name rsql.IntervalLiteral expects. Only the single-field productions this grammar supports
// (`INTERVAL '5' SECOND`-style) are covered; a mask with no entry here falls back to the string's
// own inline unit, if any.
var intervalFieldMask = map[int32]string{
	1 << 1:  "month",
	1 << 2:  "year",
	1 << 3:  "day",
	1 << 10: "hour",
	1 << 11: "minute",
	1 << 12: "second",
}

// StatementKind classifies a parsed top-level statement.
type StatementKind int

const (
	// KindCreateTable is a CREATE TABLE ... [WITH (...)] connector table registration.
	KindCreateTable StatementKind = iota
	// KindInsert is an INSERT INTO sink SELECT ... statement.
	KindInsert
	// KindAnonymousInsert is a bare SELECT with no target table; its sink is filled in later
	// by the pipeline builder (the implicit web/preview sink, §4.5).
	KindAnonymousInsert
)

// Statement is one bound top-level SQL statement.
type Statement struct {
	Kind   StatementKind
	Create *rsql.CreateTable
	Insert *rsql.Insert
}

// Parse parses sql (which may contain multiple ;-separated statements) via pg_query_go and
// binds each into a Statement.
func Parse(sql string) ([]Statement, error) {
	result, err := pgquery.Parse(sql)
	if err != nil {
		return nil, &rsql.ParseError{Type: rsql.ErrorTypeSyntax, Message: err.Error(), Position: -1}
	}
	stmts := make([]Statement, 0, len(result.Stmts))
	for _, raw := range result.Stmts {
		node := raw.Stmt
		switch {
		case node.GetCreateStmt() != nil:
			ct, err := bindCreateTable(node.GetCreateStmt())
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, Statement{Kind: KindCreateTable, Create: ct})
		case node.GetInsertStmt() != nil:
			ins, err := bindInsert(node.GetInsertStmt())
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, Statement{Kind: KindInsert, Insert: ins})
		case node.GetSelectStmt() != nil:
			sel, err := bindSelect(node.GetSelectStmt())
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, Statement{Kind: KindAnonymousInsert, Insert: &rsql.Insert{Source: sel, Anonymous: true}})
		default:
			return nil, &cerr.UnsupportedFeature{Feature: "top-level statement kind"}
		}
	}
	return stmts, nil
}

// ParseExpression parses a single scalar expression fragment by wrapping it in a synthetic
// SELECT and unwrapping the single projected expression.
func ParseExpression(expr string) (rsql.Expression, error) {
	wrapped := "SELECT " + expr
	result, err := pgquery.Parse(wrapped)
	if err != nil {
		return nil, &rsql.ParseError{Type: rsql.ErrorTypeInvalidExpression, Message: err.Error(), Position: -1}
	}
	if len(result.Stmts) != 1 {
		return nil, &rsql.ParseError{Type: rsql.ErrorTypeInvalidExpression, Message: "expected a single expression"}
	}
	sel := result.Stmts[0].Stmt.GetSelectStmt()
	if sel == nil || len(sel.TargetList) != 1 {
		return nil, &rsql.ParseError{Type: rsql.ErrorTypeInvalidExpression, Message: "expected a single expression"}
	}
	rt := sel.TargetList[0].GetResTarget()
	return convertExpr(rt.Val)
}

func bindCreateTable(ct *pgquery.CreateStmt) (*rsql.CreateTable, error) {
	out := &rsql.CreateTable{Name: ct.Relation.Relname}
	for _, el := range ct.TableElts {
		cd := el.GetColumnDef()
		if cd == nil {
			continue
		}
		out.Columns = append(out.Columns, rsql.ColumnDefinition{
			Name:     cd.Colname,
			TypeName: typeNameString(cd.TypeName),
			Nullable: !hasNotNullConstraint(cd),
		})
	}
	for _, opt := range ct.Options {
		de := opt.GetDefElem()
		if de == nil {
			continue
		}
		out.With = append(out.With, rsql.WithOption{Key: de.Defname, Value: defElemValue(de)})
	}
	return out, nil
}

func hasNotNullConstraint(cd *pgquery.ColumnDef) bool {
	for _, c := range cd.Constraints {
		if cons := c.GetConstraint(); cons != nil && cons.Contype == pgquery.ConstrType_CONSTR_NOTNULL {
			return true
		}
	}
	return false
}

func typeNameString(tn *pgquery.TypeName) string {
	if tn == nil || len(tn.Names) == 0 {
		return ""
	}
	parts := make([]string, 0, len(tn.Names))
	for _, n := range tn.Names {
		if s := n.GetString_(); s != nil {
			parts = append(parts, s.Sval)
		}
	}
	return strings.Join(parts, ".")
}

func defElemValue(de *pgquery.DefElem) string {
	if de.Arg == nil {
		return ""
	}
	if s := de.Arg.GetString_(); s != nil {
		return s.Sval
	}
	if v, err := convertExpr(de.Arg); err == nil {
		return rsql.FormatNode(v)
	}
	return ""
}

func bindInsert(ins *pgquery.InsertStmt) (*rsql.Insert, error) {
	selNode := ins.SelectStmt
	if selNode == nil || selNode.GetSelectStmt() == nil {
		return nil, &cerr.UnsupportedFeature{Feature: "INSERT without a SELECT source"}
	}
	sel, err := bindSelect(selNode.GetSelectStmt())
	if err != nil {
		return nil, err
	}
	return &rsql.Insert{Sink: ins.Relation.Relname, Source: sel}, nil
}

func bindSelect(sel *pgquery.SelectStmt) (*rsql.Select, error) {
	out := &rsql.Select{}
	if len(sel.DistinctClause) > 0 {
		out.Distinct = true
	}

	for _, t := range sel.TargetList {
		rt := t.GetResTarget()
		if rt == nil {
			continue
		}
		if cr := rt.Val.GetColumnRef(); cr != nil && isStarRef(cr) {
			out.SelectExprs = append(out.SelectExprs, rsql.Field{Star: true})
			continue
		}
		expr, err := convertExpr(rt.Val)
		if err != nil {
			return nil, err
		}
		out.SelectExprs = append(out.SelectExprs, rsql.Field{Expr: expr, Alias: rt.Name})
	}

	for _, f := range sel.FromClause {
		ref, err := convertTableRef(f)
		if err != nil {
			return nil, err
		}
		out.From = append(out.From, ref)
	}

	if sel.WhereClause != nil {
		w, err := convertExpr(sel.WhereClause)
		if err != nil {
			return nil, err
		}
		out.Where = w
	}

	for _, g := range sel.GroupClause {
		e, err := convertExpr(g)
		if err != nil {
			return nil, err
		}
		out.GroupBy = append(out.GroupBy, e)
	}

	if sel.HavingClause != nil {
		h, err := convertExpr(sel.HavingClause)
		if err != nil {
			return nil, err
		}
		out.Having = h
	}

	for _, s := range sel.SortClause {
		sb := s.GetSortBy()
		if sb == nil {
			continue
		}
		e, err := convertExpr(sb.Node)
		if err != nil {
			return nil, err
		}
		out.OrderBy = append(out.OrderBy, rsql.OrderByItem{Expr: e, Desc: sb.SortbyDir == pgquery.SortByDir_SORTBY_DESC})
	}

	if sel.LimitCount != nil {
		e, err := convertExpr(sel.LimitCount)
		if err != nil {
			return nil, err
		}
		out.Limit = &rsql.Limit{RowCount: e}
	}

	return out, nil
}

func isStarRef(cr *pgquery.ColumnRef) bool {
	for _, f := range cr.Fields {
		if f.GetAStar() != nil {
			return true
		}
	}
	return false
}

func convertTableRef(n *pgquery.Node) (rsql.TableRef, error) {
	switch {
	case n.GetRangeVar() != nil:
		rv := n.GetRangeVar()
		alias := ""
		if rv.Alias != nil {
			alias = rv.Alias.Aliasname
		}
		return &rsql.NamedTable{Name: rv.Relname, Alias: alias}, nil
	case n.GetJoinExpr() != nil:
		je := n.GetJoinExpr()
		left, err := convertTableRef(je.Larg)
		if err != nil {
			return nil, err
		}
		right, err := convertTableRef(je.Rarg)
		if err != nil {
			return nil, err
		}
		jt, err := convertJoinType(je.Jointype)
		if err != nil {
			return nil, err
		}
		var on rsql.Expression
		if je.Quals != nil {
			on, err = convertExpr(je.Quals)
			if err != nil {
				return nil, err
			}
		}
		return &rsql.Join{Left: left, Right: right, Type: jt, On: on}, nil
	default:
		return nil, &cerr.UnsupportedFeature{Feature: "FROM clause item"}
	}
}

func convertJoinType(jt pgquery.JoinType) (rsql.JoinType, error) {
	switch jt {
	case pgquery.JoinType_JOIN_INNER:
		return rsql.JoinInner, nil
	case pgquery.JoinType_JOIN_LEFT:
		return rsql.JoinLeft, nil
	case pgquery.JoinType_JOIN_RIGHT:
		return rsql.JoinRight, nil
	case pgquery.JoinType_JOIN_FULL:
		return rsql.JoinFull, nil
	default:
		return 0, &cerr.UnsupportedFeature{Feature: "join type"}
	}
}

func convertExpr(n *pgquery.Node) (rsql.Expression, error) {
	if n == nil {
		return nil, nil
	}
	switch {
	case n.GetColumnRef() != nil:
		return convertColumnRef(n.GetColumnRef())
	case n.GetAConst() != nil:
		return convertAConst(n.GetAConst())
	case n.GetFuncCall() != nil:
		return convertFuncCall(n.GetFuncCall())
	case n.GetAExpr() != nil:
		return convertAExpr(n.GetAExpr())
	case n.GetBoolExpr() != nil:
		return convertBoolExpr(n.GetBoolExpr())
	case n.GetTypeCast() != nil:
		return convertTypeCast(n.GetTypeCast())
	case n.GetNullTest() != nil:
		nt := n.GetNullTest()
		arg, err := convertExpr(nt.Arg)
		if err != nil {
			return nil, err
		}
		op := "is null"
		if nt.Nulltesttype == pgquery.NullTestType_IS_NOT_NULL {
			op = "is not null"
		}
		return &rsql.UnaryExpr{Op: op, Operand: arg, Postfix: true}, nil
	default:
		return nil, &cerr.UnsupportedFeature{Feature: "expression kind"}
	}
}

func convertColumnRef(cr *pgquery.ColumnRef) (rsql.Expression, error) {
	var parts []string
	for _, f := range cr.Fields {
		if s := f.GetString_(); s != nil {
			parts = append(parts, s.Sval)
		}
	}
	if len(parts) == 0 {
		return nil, &cerr.UnsupportedFeature{Feature: "column reference"}
	}
	if len(parts) == 1 {
		return &rsql.ColumnRef{Name: parts[0]}, nil
	}
	return &rsql.ColumnRef{Table: strings.Join(parts[:len(parts)-1], "."), Name: parts[len(parts)-1]}, nil
}

func convertAConst(c *pgquery.A_Const) (rsql.Expression, error) {
	if c.Isnull {
		return &rsql.NullLiteral{}, nil
	}
	switch v := c.Val.(type) {
	case *pgquery.A_Const_Ival:
		return &rsql.NumberLiteral{Val: strconv.FormatInt(int64(v.Ival.Ival), 10)}, nil
	case *pgquery.A_Const_Fval:
		return &rsql.NumberLiteral{Val: v.Fval.Fval}, nil
	case *pgquery.A_Const_Sval:
		return &rsql.StringLiteral{Val: v.Sval.Sval}, nil
	case *pgquery.A_Const_Boolval:
		return &rsql.BoolLiteral{Val: v.Boolval.Boolval}, nil
	default:
		return nil, &cerr.UnsupportedFeature{Feature: "constant literal kind"}
	}
}

func convertFuncCall(fc *pgquery.FuncCall) (rsql.Expression, error) {
	var name string
	for _, n := range fc.Funcname {
		if s := n.GetString_(); s != nil {
			name = s.Sval
		}
	}
	var args []rsql.Expression
	if fc.AggStar {
		args = append(args, &rsql.ColumnRef{Name: "*"})
	}
	for _, a := range fc.Args {
		e, err := convertExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	call := &rsql.FunctionCall{Name: name, Args: args, IsAggregate: fc.AggStar || fc.AggWithinGroup}

	if fc.Over != nil {
		wf := &rsql.WindowFuncCall{Call: call}
		for _, p := range fc.Over.PartitionClause {
			e, err := convertExpr(p)
			if err != nil {
				return nil, err
			}
			wf.PartitionBy = append(wf.PartitionBy, e)
		}
		for _, s := range fc.Over.OrderClause {
			sb := s.GetSortBy()
			if sb == nil {
				continue
			}
			e, err := convertExpr(sb.Node)
			if err != nil {
				return nil, err
			}
			wf.OrderBy = append(wf.OrderBy, rsql.OrderByItem{Expr: e, Desc: sb.SortbyDir == pgquery.SortByDir_SORTBY_DESC})
		}
		call.IsWindow = true
		return wf, nil
	}
	return call, nil
}

func convertAExpr(ae *pgquery.A_Expr) (rsql.Expression, error) {
	var op string
	for _, n := range ae.Name {
		if s := n.GetString_(); s != nil {
			op = s.Sval
		}
	}
	left, err := convertExpr(ae.Lexpr)
	if err != nil {
		return nil, err
	}
	right, err := convertExpr(ae.Rexpr)
	if err != nil {
		return nil, err
	}
	if ae.Kind == pgquery.A_Expr_Kind_AEXPR_LIKE {
		op = "like"
	}
	return &rsql.ComparisonExpr{Left: left, Op: op, Right: right}, nil
}

func convertBoolExpr(be *pgquery.BoolExpr) (rsql.Expression, error) {
	exprs := make([]rsql.Expression, 0, len(be.Args))
	for _, a := range be.Args {
		e, err := convertExpr(a)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	switch be.Boolop {
	case pgquery.BoolExprType_NOT_EXPR:
		return &rsql.UnaryExpr{Op: "not", Operand: exprs[0]}, nil
	case pgquery.BoolExprType_AND_EXPR:
		return foldBinary("and", exprs), nil
	case pgquery.BoolExprType_OR_EXPR:
		return foldBinary("or", exprs), nil
	default:
		return nil, &cerr.UnsupportedFeature{Feature: "boolean expression kind"}
	}
}

func foldBinary(op string, exprs []rsql.Expression) rsql.Expression {
	acc := exprs[0]
	for _, e := range exprs[1:] {
		acc = &rsql.ComparisonExpr{Left: acc, Op: op, Right: e}
	}
	return acc
}

func convertTypeCast(tc *pgquery.TypeCast) (rsql.Expression, error) {
	arg, err := convertExpr(tc.Arg)
	if err != nil {
		return nil, err
	}
	typeName := typeNameString(tc.TypeName)
	if isIntervalType(typeName) {
		return convertIntervalCast(tc.TypeName, arg)
	}
	return &rsql.FunctionCall{Name: "cast_" + typeName, Args: []rsql.Expression{arg}}, nil
}

func isIntervalType(name string) bool {
	n := strings.ToLower(name)
	return n == "interval" || strings.HasSuffix(n, ".interval")
}

// convertIntervalCast binds an INTERVAL literal cast, supporting both `INTERVAL '5 seconds'`
// (the unit embedded in the string) and `INTERVAL '5' SECOND` (the unit encoded in the type's
// typmod by the grammar). Whichever form names the unit wins; decode failure is reported as an
// unsupported feature rather than silently defaulting a window size.
func convertIntervalCast(tn *pgquery.TypeName, arg rsql.Expression) (rsql.Expression, error) {
	lit, ok := arg.(*rsql.StringLiteral)
	if !ok {
		return nil, &cerr.UnsupportedFeature{Feature: "interval literal must be a string constant"}
	}
	amount, inlineUnit, err := parseIntervalString(lit.Val)
	if err != nil {
		return nil, err
	}
	unit := intervalUnitFromTypmod(tn)
	if unit == "" {
		unit = inlineUnit
	}
	if unit == "" {
		return nil, &cerr.UnsupportedFeature{Feature: "interval literal without a recognized unit"}
	}
	return &rsql.IntervalLiteral{Amount: amount, Unit: unit}, nil
}

func intervalUnitFromTypmod(tn *pgquery.TypeName) string {
	if tn == nil || len(tn.Typmods) == 0 {
		return ""
	}
	c := tn.Typmods[0].GetAConst()
	if c == nil {
		return ""
	}
	iv, ok := c.Val.(*pgquery.A_Const_Ival)
	if !ok {
		return ""
	}
	return intervalFieldMask[iv.Ival.Ival]
}

func parseIntervalString(s string) (int64, string, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return 0, "", &cerr.UnsupportedFeature{Feature: "empty interval literal"}
	}
	amount, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, "", &cerr.UnsupportedFeature{Feature: "interval literal amount must be an integer"}
	}
	unit := ""
	if len(parts) >= 2 {
		unit = normalizeIntervalUnit(parts[1])
	}
	return amount, unit, nil
}

func normalizeIntervalUnit(u string) string {
	u = strings.ToLower(strings.TrimSuffix(u, "s"))
	switch u {
	case "second", "minute", "hour", "day", "month", "year", "millisecond":
		return u
	default:
		return ""
	}
}

// ResolveWithTable collects a CreateTable statement's WITH options into a key/value map,
// rejecting a repeated key. The caller (compiler package) resolves the connector from that map
// when registering connector-backed tables.
func ResolveWithTable(ct *rsql.CreateTable) (map[string]string, error) {
	opts := make(map[string]string, len(ct.With))
	for _, w := range ct.With {
		if _, dup := opts[w.Key]; dup {
			return nil, fmt.Errorf("duplicate WITH option %q", w.Key)
		}
		opts[w.Key] = w.Value
	}
	return opts, nil
}
