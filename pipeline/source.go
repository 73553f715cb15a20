package pipeline

import (
	"github.com/flowsql/core/catalog"
	"github.com/flowsql/core/rsql"
)

// buildFrom lowers a statement's FROM clause into a Source or JoinOperator tree.
func buildFrom(ref rsql.TableRef, cat *catalog.Catalog) (SqlOperator, error) {
	switch t := ref.(type) {
	case *rsql.NamedTable:
		tbl, err := cat.Table(t.Name)
		if err != nil {
			return nil, err
		}
		return &Source{TableName: t.Name, Schema: tbl.StructDef()}, nil
	case *rsql.Join:
		left, err := buildFrom(t.Left, cat)
		if err != nil {
			return nil, err
		}
		right, err := buildFrom(t.Right, cat)
		if err != nil {
			return nil, err
		}
		leftKey, rightKey := joinKeys(t.On)
		return &JoinOperator{
			Left: left, Right: right,
			LeftKey: leftKey, RightKey: rightKey,
			Type:     t.Type,
			Windowed: isWindowedSide(left) && isWindowedSide(right),
		}, nil
	default:
		return nil, &unsupportedTableRef{}
	}
}

type unsupportedTableRef struct{}

func (e *unsupportedTableRef) Error() string { return "unsupported FROM clause shape" }

// isWindowedSide reports whether op's chain already terminates in a windowed Aggregator,
// which determines whether the enclosing join lowers to an instant (list-pair) join or an
// expiring (pair) join (§4.5).
func isWindowedSide(op SqlOperator) bool {
	switch t := op.(type) {
	case *Aggregator:
		return t.Window.Type != "" && t.Window.Type != "instant"
	case *RecordTransform:
		return isWindowedSide(t.Input)
	default:
		return false
	}
}

// joinKeys splits an ON clause of the form `l.a = r.b [AND l.c = r.d ...]` into parallel key
// expression lists for the left and right sides.
func joinKeys(on rsql.Expression) (left, right []rsql.Expression) {
	var walk func(e rsql.Expression)
	walk = func(e rsql.Expression) {
		cmp, ok := e.(*rsql.ComparisonExpr)
		if !ok {
			return
		}
		if cmp.Op == "and" {
			walk(cmp.Left)
			walk(cmp.Right)
			return
		}
		if cmp.Op == "=" {
			left = append(left, cmp.Left)
			right = append(right, cmp.Right)
		}
	}
	if on != nil {
		walk(on)
	}
	return left, right
}
