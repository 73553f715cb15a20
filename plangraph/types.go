package plangraph

import "github.com/flowsql/core/typedef"

// PlanTypeKind discriminates the shape a PlanType describes.
type PlanTypeKind int

const (
	Unkeyed PlanTypeKind = iota
	Keyed
	KeyedPair
	KeyedListPair
	KeyedLiteralTypeValue
)

// PlanType is the typed shape an edge in the plan graph carries (§4.5/§3). Only the fields
// relevant to Kind are populated; the rest are left zero.
type PlanType struct {
	Kind PlanTypeKind

	Key        *typedef.StructDef
	Value      *typedef.StructDef
	LeftValue  *typedef.StructDef
	RightValue *typedef.StructDef

	// LiteralValue is set only for KeyedLiteralTypeValue, a value whose shape is named by a
	// literal type string rather than a StructDef (e.g. a primitive count accumulator).
	LiteralValue string
}

func UnkeyedType(v *typedef.StructDef) PlanType {
	return PlanType{Kind: Unkeyed, Value: v}
}

func KeyedType(key, value *typedef.StructDef) PlanType {
	return PlanType{Kind: Keyed, Key: key, Value: value}
}

func KeyedPairType(key, left, right *typedef.StructDef) PlanType {
	return PlanType{Kind: KeyedPair, Key: key, LeftValue: left, RightValue: right}
}

func KeyedListPairType(key, left, right *typedef.StructDef) PlanType {
	return PlanType{Kind: KeyedListPair, Key: key, LeftValue: left, RightValue: right}
}

func KeyedLiteralType(key *typedef.StructDef, literal string) PlanType {
	return PlanType{Kind: KeyedLiteralTypeValue, Key: key, LiteralValue: literal}
}

// KeyStructNames returns the names of every keyed struct this type carries, used by the
// emission pass to decide which struct definitions need key-struct treatment.
func (t PlanType) KeyStructNames() []string {
	if t.Kind == Unkeyed || t.Key == nil {
		return nil
	}
	return []string{t.Key.NormalizedName()}
}

// AllStructs returns every StructDef reachable from t, used to build the emitted program's
// struct-definition closure.
func (t PlanType) AllStructs() []*typedef.StructDef {
	var out []*typedef.StructDef
	add := func(s *typedef.StructDef) {
		if s != nil {
			out = append(out, s)
		}
	}
	add(t.Key)
	add(t.Value)
	add(t.LeftValue)
	add(t.RightValue)
	return out
}

// EdgeKind discriminates the transport behavior of a PlanEdge (§3).
type EdgeKind int

const (
	Forward EdgeKind = iota
	Shuffle
	ShuffleJoin
)

// EdgeType is a PlanEdge's transport descriptor. JoinSide is meaningful only when Kind is
// ShuffleJoin, naming which side of a join (0 = left, 1 = right) the edge feeds.
type EdgeType struct {
	Kind     EdgeKind
	JoinSide int
}

func ForwardEdge() EdgeType        { return EdgeType{Kind: Forward} }
func ShuffleEdge() EdgeType        { return EdgeType{Kind: Shuffle} }
func ShuffleJoinEdge(side int) EdgeType { return EdgeType{Kind: ShuffleJoin, JoinSide: side} }
