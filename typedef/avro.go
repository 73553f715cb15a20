package typedef

import (
	"encoding/json"
	"fmt"
)

// avroSchema is the minimal shape of an Avro schema document needed to derive a StructDef.
// Grounded on original_source/arroyo-sql/src/avro.rs: to_typedef/get_defs.
type avroSchema struct {
	Type    json.RawMessage   `json:"type"`
	Name    string            `json:"name"`
	Fields  []avroField       `json:"fields"`
	Items   json.RawMessage   `json:"items"`
	Symbols []string          `json:"symbols"`
	LogicalType string        `json:"logicalType"`
}

type avroField struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
}

// rootStructName mirrors the original's ROOT_NAME constant for a schema's top-level record.
const rootStructName = "ArroyoAvroRoot"

// StructDefFromAvro converts a JSON-encoded Avro schema document into a StructDef, following
// the mapping table in SPEC_FULL.md §4.1 verbatim.
func StructDefFromAvro(schemaJSON string) (*StructDef, error) {
	var raw json.RawMessage = json.RawMessage(schemaJSON)
	td, _, err := avroTypeDefFromRaw(raw, rootStructName)
	if err != nil {
		return nil, err
	}
	if !td.IsStruct() {
		return nil, fmt.Errorf("top-level avro schema must be a record")
	}
	return td.Struct, nil
}

// avroTypeDefFromRaw converts one Avro schema fragment to a TypeDef, plus the StructField
// "original" marker (non-empty only when the fallback union path collapses an unrepresentable
// shape to a JSON-encoded string, mirroring jsonPropertyType's return shape).
func avroTypeDefFromRaw(raw json.RawMessage, nameHint string) (TypeDef, string, error) {
	// A bare string type name, e.g. "string", "null", "long".
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		td, err := avroPrimitive(name)
		return td, "", err
	}

	// A union, represented as a JSON array of schemas.
	var union []json.RawMessage
	if err := json.Unmarshal(raw, &union); err == nil {
		return avroUnion(union, nameHint)
	}

	// A record/enum/fixed/array/map object, or a primitive object form {"type": "long",
	// "logicalType": "timestamp-millis"}.
	var obj avroSchema
	if err := json.Unmarshal(raw, &obj); err != nil {
		return TypeDef{}, "", fmt.Errorf("invalid avro schema fragment: %w", err)
	}

	var typeName string
	if err := json.Unmarshal(obj.Type, &typeName); err != nil {
		return TypeDef{}, "", fmt.Errorf("avro schema object missing string 'type': %w", err)
	}

	switch typeName {
	case "record":
		fields := make([]StructField, 0, len(obj.Fields))
		for _, f := range obj.Fields {
			ftd, original, err := avroTypeDefFromRaw(f.Type, f.Name)
			if err != nil {
				return TypeDef{}, "", err
			}
			fields = append(fields, StructField{Name: f.Name, Type: ftd, Original: original})
		}
		recName := obj.Name
		if recName == "" {
			recName = nameHint
		}
		return OfStruct(&StructDef{Name: recName, Fields: fields}), "", nil
	case "enum":
		return Leaf(Utf8), "", nil
	case "fixed":
		return Leaf(Binary), "", nil
	case "array":
		elem, _, err := avroTypeDefFromRaw(obj.Items, nameHint+"Item")
		if err != nil {
			return TypeDef{}, "", err
		}
		return OfList(elem), "", nil
	case "int":
		return Leaf(Int32), "", nil
	case "long":
		return Leaf(Int64), "", nil
	case "bytes":
		return Leaf(Binary), "", nil
	case "string":
		return Leaf(Utf8), "", nil
	case "boolean":
		return Leaf(Boolean), "", nil
	case "float":
		return Leaf(Float32), "", nil
	case "double":
		return Leaf(Float64), "", nil
	case "null":
		return Leaf(Null), "", nil
	default:
		td, err := avroPrimitive(typeName)
		return td, "", err
	}
}

func avroPrimitive(name string) (TypeDef, error) {
	switch name {
	case "null":
		return Leaf(Null), nil
	case "boolean":
		return Leaf(Boolean), nil
	case "int", "time-millis":
		return Leaf(Int32), nil
	case "long", "time-micros", "timestamp-millis", "local-timestamp-millis", "local-timestamp-micros":
		return Leaf(Int64), nil
	case "float":
		return Leaf(Float32), nil
	case "double":
		return Leaf(Float64), nil
	case "bytes", "fixed", "decimal":
		return Leaf(Binary), nil
	case "string", "enum", "uuid":
		return Leaf(Utf8), nil
	default:
		return TypeDef{}, fmt.Errorf("unsupported avro primitive type %q", name)
	}
}

// avroUnion maps an Avro union (a JSON array of alternative schemas) to a TypeDef: exactly two
// variants where one is null becomes optional(other); any other union becomes Utf8 marked
// original="json" (the schema is carried through as a JSON-encoded string).
func avroUnion(variants []json.RawMessage, nameHint string) (TypeDef, string, error) {
	if len(variants) == 2 {
		var nullIdx = -1
		for i, v := range variants {
			var s string
			if err := json.Unmarshal(v, &s); err == nil && s == "null" {
				nullIdx = i
				break
			}
		}
		if nullIdx >= 0 {
			other := variants[1-nullIdx]
			td, original, err := avroTypeDefFromRaw(other, nameHint)
			if err != nil {
				return TypeDef{}, "", err
			}
			return Optional(td), original, nil
		}
	}
	// Any other union shape: represented as a JSON-encoded string, marked so downstream readers
	// know the value is still JSON-encoded rather than a genuine Utf8 field.
	return Leaf(Utf8), jsonOriginalMarker, nil
}

const jsonOriginalMarker = "json"

// StructDefFromJSONSchema maps a (draft-07-subset) JSON Schema document to a StructDef, reusing
// the same physical-type mapping table as Avro wherever the vocabularies overlap.
func StructDefFromJSONSchema(schemaJSON string, rootName string) (*StructDef, error) {
	var doc struct {
		Type       string                     `json:"type"`
		Properties map[string]json.RawMessage `json:"properties"`
		Required   []string                   `json:"required"`
		Items      json.RawMessage            `json:"items"`
	}
	if err := json.Unmarshal([]byte(schemaJSON), &doc); err != nil {
		return nil, fmt.Errorf("invalid json schema: %w", err)
	}
	if doc.Type != "" && doc.Type != "object" {
		return nil, fmt.Errorf("top-level json schema must describe an object")
	}
	required := make(map[string]struct{}, len(doc.Required))
	for _, r := range doc.Required {
		required[r] = struct{}{}
	}
	fields := make([]StructField, 0, len(doc.Properties))
	for name, raw := range doc.Properties {
		td, original, err := jsonPropertyType(raw)
		if err != nil {
			return nil, err
		}
		if _, isRequired := required[name]; !isRequired {
			td = Optional(td)
		}
		fields = append(fields, StructField{Name: name, Type: td, Original: original})
	}
	return &StructDef{Name: rootName, Fields: fields}, nil
}

func jsonPropertyType(raw json.RawMessage) (TypeDef, string, error) {
	var prop struct {
		Type  string          `json:"type"`
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(raw, &prop); err != nil {
		return TypeDef{}, "", fmt.Errorf("invalid json schema property: %w", err)
	}
	switch prop.Type {
	case "null":
		return Leaf(Null), "", nil
	case "boolean":
		return Leaf(Boolean), "", nil
	case "integer":
		return Leaf(Int64), "", nil
	case "number":
		return Leaf(Float64), "", nil
	case "string":
		return Leaf(Utf8), "", nil
	case "array":
		elem, _, err := jsonPropertyType(prop.Items)
		if err != nil {
			return TypeDef{}, "", err
		}
		return OfList(elem), "", nil
	case "object":
		// Nested objects are not further destructured here; represented opaquely as JSON text,
		// matching the any-other-union fallback used for Avro.
		return Leaf(Utf8), jsonOriginalMarker, nil
	default:
		return Leaf(Utf8), jsonOriginalMarker, nil
	}
}
