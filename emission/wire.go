package emission

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/flowsql/core/typedef"
)

// Marshal encodes p into a protowire byte stream. The compiled expr-lang *vm.Program on each
// CompiledExpr is not carried over the wire — only Name and Source are — since a downstream
// consumer recompiles from Source rather than deserializing bytecode (§4.7: "emitted expression
// strings are stable").
func (p *Program) Marshal() []byte {
	var b []byte
	for _, n := range p.Nodes {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalStreamNode(n))
	}
	for _, e := range p.Edges {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalStreamEdge(e))
	}
	for _, s := range p.Structs {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalStructDef(s))
	}
	return b
}

// UnmarshalProgram decodes a byte stream produced by Program.Marshal.
func UnmarshalProgram(data []byte) (*Program, error) {
	p := &Program{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("emission: malformed program: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case 1:
			msg, m, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[m:]
			node, err := unmarshalStreamNode(msg)
			if err != nil {
				return nil, err
			}
			p.Nodes = append(p.Nodes, node)
		case 2:
			msg, m, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[m:]
			edge, err := unmarshalStreamEdge(msg)
			if err != nil {
				return nil, err
			}
			p.Edges = append(p.Edges, edge)
		case 3:
			msg, m, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[m:]
			s, err := unmarshalStructDef(msg)
			if err != nil {
				return nil, err
			}
			p.Structs = append(p.Structs, s)
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return nil, fmt.Errorf("emission: malformed program field %d: %w", num, protowire.ParseError(m))
			}
			data = data[m:]
		}
	}
	return p, nil
}

func consumeBytes(data []byte, typ protowire.Type) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, fmt.Errorf("emission: expected length-delimited field, got wire type %d", typ)
	}
	v, n := protowire.ConsumeBytes(data)
	if n < 0 {
		return nil, 0, fmt.Errorf("emission: malformed length-delimited field: %w", protowire.ParseError(n))
	}
	return v, n, nil
}

func marshalCompiledExpr(e CompiledExpr) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, e.Name)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, e.Source)
	return b
}

func unmarshalCompiledExpr(data []byte) (CompiledExpr, error) {
	var e CompiledExpr
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return e, fmt.Errorf("emission: malformed compiled expr: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return e, fmt.Errorf("emission: malformed compiled expr name: %w", protowire.ParseError(m))
			}
			e.Name = v
			data = data[m:]
		case 2:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return e, fmt.Errorf("emission: malformed compiled expr source: %w", protowire.ParseError(m))
			}
			e.Source = v
			data = data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return e, fmt.Errorf("emission: malformed compiled expr field %d: %w", num, protowire.ParseError(m))
			}
			data = data[m:]
		}
	}
	return e, nil
}

func marshalStreamNode(n StreamNode) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, n.OperatorID)
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(n.Parallelism))
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendString(b, n.Kind)
	for _, e := range n.Expressions {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalCompiledExpr(e))
	}
	b = protowire.AppendTag(b, 5, protowire.BytesType)
	b = protowire.AppendString(b, n.KeyType)
	b = protowire.AppendTag(b, 6, protowire.BytesType)
	b = protowire.AppendString(b, n.ValueType)
	return b
}

func unmarshalStreamNode(data []byte) (StreamNode, error) {
	var n StreamNode
	for len(data) > 0 {
		num, typ, tn := protowire.ConsumeTag(data)
		if tn < 0 {
			return n, fmt.Errorf("emission: malformed stream node: %w", protowire.ParseError(tn))
		}
		data = data[tn:]
		switch num {
		case 1:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return n, fmt.Errorf("emission: malformed operator id: %w", protowire.ParseError(m))
			}
			n.OperatorID = v
			data = data[m:]
		case 2:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return n, fmt.Errorf("emission: malformed parallelism: %w", protowire.ParseError(m))
			}
			n.Parallelism = int(v)
			data = data[m:]
		case 3:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return n, fmt.Errorf("emission: malformed kind: %w", protowire.ParseError(m))
			}
			n.Kind = v
			data = data[m:]
		case 4:
			msg, m, err := consumeBytes(data, typ)
			if err != nil {
				return n, err
			}
			data = data[m:]
			ce, err := unmarshalCompiledExpr(msg)
			if err != nil {
				return n, err
			}
			n.Expressions = append(n.Expressions, ce)
		case 5:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return n, fmt.Errorf("emission: malformed key type: %w", protowire.ParseError(m))
			}
			n.KeyType = v
			data = data[m:]
		case 6:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return n, fmt.Errorf("emission: malformed value type: %w", protowire.ParseError(m))
			}
			n.ValueType = v
			data = data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return n, fmt.Errorf("emission: malformed stream node field %d: %w", num, protowire.ParseError(m))
			}
			data = data[m:]
		}
	}
	return n, nil
}

func marshalStreamEdge(e StreamEdge) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, e.Src)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, e.Dst)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendString(b, e.KeyType)
	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendString(b, e.ValueType)
	return b
}

func unmarshalStreamEdge(data []byte) (StreamEdge, error) {
	var e StreamEdge
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return e, fmt.Errorf("emission: malformed stream edge: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return e, fmt.Errorf("emission: malformed edge src: %w", protowire.ParseError(m))
			}
			e.Src = v
			data = data[m:]
		case 2:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return e, fmt.Errorf("emission: malformed edge dst: %w", protowire.ParseError(m))
			}
			e.Dst = v
			data = data[m:]
		case 3:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return e, fmt.Errorf("emission: malformed edge key type: %w", protowire.ParseError(m))
			}
			e.KeyType = v
			data = data[m:]
		case 4:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return e, fmt.Errorf("emission: malformed edge value type: %w", protowire.ParseError(m))
			}
			e.ValueType = v
			data = data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return e, fmt.Errorf("emission: malformed stream edge field %d: %w", num, protowire.ParseError(m))
			}
			data = data[m:]
		}
	}
	return e, nil
}

func marshalTypeDef(t typedef.TypeDef) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(t.Physical))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, boolToVarint(t.Nullable))
	if t.Struct != nil {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalStructDef(t.Struct))
	}
	if t.Elem != nil {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalTypeDef(*t.Elem))
	}
	b = protowire.AppendTag(b, 5, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(t.TimestampUnit))
	b = protowire.AppendTag(b, 6, protowire.BytesType)
	b = protowire.AppendString(b, t.TimestampTZ)
	return b
}

func unmarshalTypeDef(data []byte) (typedef.TypeDef, error) {
	var t typedef.TypeDef
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return t, fmt.Errorf("emission: malformed type def: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return t, fmt.Errorf("emission: malformed physical type: %w", protowire.ParseError(m))
			}
			t.Physical = typedef.DataType(v)
			data = data[m:]
		case 2:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return t, fmt.Errorf("emission: malformed nullable flag: %w", protowire.ParseError(m))
			}
			t.Nullable = v != 0
			data = data[m:]
		case 3:
			msg, m, err := consumeBytes(data, typ)
			if err != nil {
				return t, err
			}
			data = data[m:]
			s, err := unmarshalStructDef(msg)
			if err != nil {
				return t, err
			}
			t.Struct = s
		case 4:
			msg, m, err := consumeBytes(data, typ)
			if err != nil {
				return t, err
			}
			data = data[m:]
			elem, err := unmarshalTypeDef(msg)
			if err != nil {
				return t, err
			}
			t.Elem = &elem
		case 5:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return t, fmt.Errorf("emission: malformed timestamp unit: %w", protowire.ParseError(m))
			}
			t.TimestampUnit = typedef.TimeUnit(v)
			data = data[m:]
		case 6:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return t, fmt.Errorf("emission: malformed timestamp tz: %w", protowire.ParseError(m))
			}
			t.TimestampTZ = v
			data = data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return t, fmt.Errorf("emission: malformed type def field %d: %w", num, protowire.ParseError(m))
			}
			data = data[m:]
		}
	}
	return t, nil
}

func marshalStructField(f typedef.StructField) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, f.Name)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, f.Alias)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, marshalTypeDef(f.Type))
	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendString(b, f.Rename)
	b = protowire.AppendTag(b, 5, protowire.BytesType)
	b = protowire.AppendString(b, f.Original)
	return b
}

func unmarshalStructField(data []byte) (typedef.StructField, error) {
	var f typedef.StructField
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return f, fmt.Errorf("emission: malformed struct field: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return f, fmt.Errorf("emission: malformed field name: %w", protowire.ParseError(m))
			}
			f.Name = v
			data = data[m:]
		case 2:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return f, fmt.Errorf("emission: malformed field alias: %w", protowire.ParseError(m))
			}
			f.Alias = v
			data = data[m:]
		case 3:
			msg, m, err := consumeBytes(data, typ)
			if err != nil {
				return f, err
			}
			data = data[m:]
			td, err := unmarshalTypeDef(msg)
			if err != nil {
				return f, err
			}
			f.Type = td
		case 4:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return f, fmt.Errorf("emission: malformed field rename: %w", protowire.ParseError(m))
			}
			f.Rename = v
			data = data[m:]
		case 5:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return f, fmt.Errorf("emission: malformed field original: %w", protowire.ParseError(m))
			}
			f.Original = v
			data = data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return f, fmt.Errorf("emission: malformed struct field field %d: %w", num, protowire.ParseError(m))
			}
			data = data[m:]
		}
	}
	return f, nil
}

func marshalStructDef(s *typedef.StructDef) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, s.Name)
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, boolToVarint(s.Anonymous))
	for _, f := range s.Fields {
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalStructField(f))
	}
	b = protowire.AppendTag(b, 4, protowire.VarintType)
	b = protowire.AppendVarint(b, boolToVarint(s.KeyParticipant))
	return b
}

func unmarshalStructDef(data []byte) (*typedef.StructDef, error) {
	s := &typedef.StructDef{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("emission: malformed struct def: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch num {
		case 1:
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return nil, fmt.Errorf("emission: malformed struct name: %w", protowire.ParseError(m))
			}
			s.Name = v
			data = data[m:]
		case 2:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, fmt.Errorf("emission: malformed anonymous flag: %w", protowire.ParseError(m))
			}
			s.Anonymous = v != 0
			data = data[m:]
		case 3:
			msg, m, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[m:]
			f, err := unmarshalStructField(msg)
			if err != nil {
				return nil, err
			}
			s.Fields = append(s.Fields, f)
		case 4:
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return nil, fmt.Errorf("emission: malformed key participant flag: %w", protowire.ParseError(m))
			}
			s.KeyParticipant = v != 0
			data = data[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return nil, fmt.Errorf("emission: malformed struct def field %d: %w", num, protowire.ParseError(m))
			}
			data = data[m:]
		}
	}
	return s, nil
}

func boolToVarint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
