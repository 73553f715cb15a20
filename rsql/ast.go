/*
 * Copyright 2024 The RuleGo Authors.
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

// Package rsql defines the bound expression-template AST produced by the SQL frontend.
// Nodes are kept deliberately opaque at formatting time: Format renders a node back to a
// stable string that the emission package hands to expr-lang for compilation.
package rsql

import (
	"bytes"
	"fmt"
)

// Node is the base interface every AST node implements.
type Node interface {
	Format(buf *bytes.Buffer)
}

// Statement distinguishes a top-level SQL statement from an expression.
type Statement interface {
	Node
}

// Expression is any node that produces a scalar or row value.
type Expression interface {
	Node
}

// Literal is a constant-valued expression.
type Literal interface {
	Expression
}

// Select is a bound SELECT statement (also used for the body of INSERT ... SELECT).
type Select struct {
	Distinct    bool
	SelectExprs []Field
	From        []TableRef
	Where       Expression
	GroupBy     []Expression
	Having      Expression
	OrderBy     []OrderByItem
	Limit       *Limit
	Offset      Expression
}

func (s *Select) Format(buf *bytes.Buffer) {
	buf.WriteString("SELECT ")
	if s.Distinct {
		buf.WriteString("DISTINCT ")
	}
	for i, expr := range s.SelectExprs {
		if i > 0 {
			buf.WriteString(", ")
		}
		expr.Format(buf)
	}
	if len(s.From) > 0 {
		buf.WriteString(" FROM ")
		for i, t := range s.From {
			if i > 0 {
				buf.WriteString(", ")
			}
			t.Format(buf)
		}
	}
	if s.Where != nil {
		buf.WriteString(" WHERE ")
		s.Where.Format(buf)
	}
	if len(s.GroupBy) > 0 {
		buf.WriteString(" GROUP BY ")
		for i, expr := range s.GroupBy {
			if i > 0 {
				buf.WriteString(", ")
			}
			expr.Format(buf)
		}
	}
	if s.Having != nil {
		buf.WriteString(" HAVING ")
		s.Having.Format(buf)
	}
	if len(s.OrderBy) > 0 {
		buf.WriteString(" ORDER BY ")
		for i, item := range s.OrderBy {
			if i > 0 {
				buf.WriteString(", ")
			}
			item.Format(buf)
		}
	}
	if s.Limit != nil {
		buf.WriteString(" LIMIT ")
		s.Limit.Format(buf)
	}
	if s.Offset != nil {
		buf.WriteString(" OFFSET ")
		s.Offset.Format(buf)
	}
}

// Insert is a bound INSERT INTO <sink> SELECT ... statement, or the implicit form produced
// by a bare SELECT with no target (Sink == "").
type Insert struct {
	Sink      string
	Source    *Select
	Anonymous bool
}

func (n *Insert) Format(buf *bytes.Buffer) {
	if n.Anonymous {
		n.Source.Format(buf)
		return
	}
	fmt.Fprintf(buf, "INSERT INTO %s ", n.Sink)
	n.Source.Format(buf)
}

// CreateTable is a bound CREATE TABLE ... WITH (...) statement registering a connector table.
type CreateTable struct {
	Name    string
	Columns []ColumnDefinition
	With    []WithOption
}

func (n *CreateTable) Format(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "CREATE TABLE %s (", n.Name)
	for i, c := range n.Columns {
		if i > 0 {
			buf.WriteString(", ")
		}
		c.Format(buf)
	}
	buf.WriteString(")")
	if len(n.With) > 0 {
		buf.WriteString(" WITH (")
		for i, w := range n.With {
			if i > 0 {
				buf.WriteString(", ")
			}
			fmt.Fprintf(buf, "%s = %q", w.Key, w.Value)
		}
		buf.WriteString(")")
	}
}

// WithOption is a single key/value pair from a WITH (...) clause.
type WithOption struct {
	Key   string
	Value string
}

// ColumnDefinition is a single column in a CREATE TABLE statement.
type ColumnDefinition struct {
	Name     string
	TypeName string
	Nullable bool
}

func (c *ColumnDefinition) Format(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "%s %s", c.Name, c.TypeName)
	if !c.Nullable {
		buf.WriteString(" NOT NULL")
	}
}

// TableRef is a FROM-clause entry: either a plain table name or a JOIN.
type TableRef interface {
	Node
	tableRef()
}

// NamedTable references a catalog table, optionally aliased.
type NamedTable struct {
	Name  string
	Alias string
}

func (t *NamedTable) tableRef() {}
func (t *NamedTable) Format(buf *bytes.Buffer) {
	buf.WriteString(t.Name)
	if t.Alias != "" {
		fmt.Fprintf(buf, " AS %s", t.Alias)
	}
}

// JoinType enumerates the supported join kinds.
type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
)

func (jt JoinType) String() string {
	switch jt {
	case JoinLeft:
		return "LEFT"
	case JoinRight:
		return "RIGHT"
	case JoinFull:
		return "FULL"
	default:
		return "INNER"
	}
}

// Join is a bound JOIN between two table references.
type Join struct {
	Left  TableRef
	Right TableRef
	Type  JoinType
	On    Expression
}

func (j *Join) tableRef() {}
func (j *Join) Format(buf *bytes.Buffer) {
	j.Left.Format(buf)
	fmt.Fprintf(buf, " %s JOIN ", j.Type)
	j.Right.Format(buf)
	if j.On != nil {
		buf.WriteString(" ON ")
		j.On.Format(buf)
	}
}

// Field is a single projected expression in a SELECT list, with an optional alias.
// Expr == nil and Star == true represents `*`.
type Field struct {
	Expr  Expression
	Alias string
	Star  bool
}

func (f *Field) Format(buf *bytes.Buffer) {
	if f.Star {
		buf.WriteString("*")
		return
	}
	f.Expr.Format(buf)
	if f.Alias != "" {
		buf.WriteString(" AS " + f.Alias)
	}
}

// OrderByItem is a single ORDER BY entry.
type OrderByItem struct {
	Expr Expression
	Desc bool
}

func (o *OrderByItem) Format(buf *bytes.Buffer) {
	o.Expr.Format(buf)
	if o.Desc {
		buf.WriteString(" DESC")
	}
}

// Limit is a LIMIT clause.
type Limit struct {
	RowCount Expression
}

func (l *Limit) Format(buf *bytes.Buffer) {
	l.RowCount.Format(buf)
}

// ColumnRef is a (possibly table-qualified) column reference.
type ColumnRef struct {
	Table string
	Name  string
}

func (c *ColumnRef) Format(buf *bytes.Buffer) {
	if c.Table != "" {
		fmt.Fprintf(buf, "%s.%s", c.Table, c.Name)
		return
	}
	buf.WriteString(c.Name)
}

// StringLiteral is a quoted string constant.
type StringLiteral struct {
	Val string
}

func (s *StringLiteral) Format(buf *bytes.Buffer) {
	buf.WriteString("'")
	for _, r := range s.Val {
		switch r {
		case '\n':
			buf.WriteString("\\n")
		case '\r':
			buf.WriteString("\\r")
		case '\t':
			buf.WriteString("\\t")
		case '\'':
			buf.WriteString("\\'")
		case '\\':
			buf.WriteString("\\\\")
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteString("'")
}

// NumberLiteral is an integer or floating-point constant.
type NumberLiteral struct {
	Val string
}

func (n *NumberLiteral) Format(buf *bytes.Buffer) { buf.WriteString(n.Val) }

// BoolLiteral is a TRUE/FALSE constant.
type BoolLiteral struct {
	Val bool
}

func (b *BoolLiteral) Format(buf *bytes.Buffer) {
	if b.Val {
		buf.WriteString("true")
	} else {
		buf.WriteString("false")
	}
}

// NullLiteral is the NULL constant.
type NullLiteral struct{}

func (n *NullLiteral) Format(buf *bytes.Buffer) { buf.WriteString("null") }

// IntervalLiteral is an INTERVAL 'n' unit constant (e.g. interval '5' second).
type IntervalLiteral struct {
	Amount int64
	Unit   string // second, minute, hour, day, millisecond
}

func (i *IntervalLiteral) Format(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "interval '%d' %s", i.Amount, i.Unit)
}

// ComparisonExpr is a binary comparison or arithmetic expression.
type ComparisonExpr struct {
	Left  Expression
	Op    string
	Right Expression
}

func (c *ComparisonExpr) Format(buf *bytes.Buffer) {
	c.Left.Format(buf)
	buf.WriteString(" ")
	buf.WriteString(c.Op)
	buf.WriteString(" ")
	c.Right.Format(buf)
}

// UnaryExpr is a prefix unary expression (NOT, -, IS NULL / IS NOT NULL as a postfix form).
type UnaryExpr struct {
	Op      string
	Operand Expression
	Postfix bool
}

func (u *UnaryExpr) Format(buf *bytes.Buffer) {
	if u.Postfix {
		u.Operand.Format(buf)
		buf.WriteString(" ")
		buf.WriteString(u.Op)
		return
	}
	buf.WriteString(u.Op)
	buf.WriteString(" ")
	u.Operand.Format(buf)
}

// ParenExpr wraps a sub-expression in parentheses.
type ParenExpr struct {
	Expr Expression
}

func (p *ParenExpr) Format(buf *bytes.Buffer) {
	buf.WriteString("(")
	p.Expr.Format(buf)
	buf.WriteString(")")
}

// FunctionCall is a scalar, aggregate, or window-producing function invocation.
type FunctionCall struct {
	Name        string
	Args        []Expression
	IsAggregate bool
	IsWindow    bool
}

func (f *FunctionCall) Format(buf *bytes.Buffer) {
	buf.WriteString(f.Name)
	buf.WriteString("(")
	for i, a := range f.Args {
		if i > 0 {
			buf.WriteString(", ")
		}
		a.Format(buf)
	}
	buf.WriteString(")")
}

// WindowFuncCall is a function invoked with an OVER (...) clause, e.g. row_number() OVER (...).
type WindowFuncCall struct {
	Call       *FunctionCall
	PartitionBy []Expression
	OrderBy     []OrderByItem
}

func (w *WindowFuncCall) Format(buf *bytes.Buffer) {
	w.Call.Format(buf)
	buf.WriteString(" OVER (")
	if len(w.PartitionBy) > 0 {
		buf.WriteString("PARTITION BY ")
		for i, e := range w.PartitionBy {
			if i > 0 {
				buf.WriteString(", ")
			}
			e.Format(buf)
		}
	}
	if len(w.OrderBy) > 0 {
		if len(w.PartitionBy) > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString("ORDER BY ")
		for i, o := range w.OrderBy {
			if i > 0 {
				buf.WriteString(", ")
			}
			o.Format(buf)
		}
	}
	buf.WriteString(")")
}

// FormatNode is a small helper returning the stable string form of any Node.
func FormatNode(n Node) string {
	var buf bytes.Buffer
	n.Format(&buf)
	return buf.String()
}
