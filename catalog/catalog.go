// Package catalog holds everything a compile needs to know about the world outside the SQL
// text itself: declared tables (backed by connectors), reusable connection profiles, UDF
// definitions, and the built-in scalar/aggregate function registry. A Catalog is consumed
// by-value per compile: Clone() snapshots it so no compile mutates another's view.
package catalog

import (
	"strings"

	"github.com/flowsql/core/cerr"
	"github.com/flowsql/core/typedef"
)

// Field is a column declaration used when registering a table from a literal schema (as
// opposed to deriving one from Avro/JSON via typedef.StructDefFromAvro).
type Field struct {
	Name     string
	Type     string // one of typedef.DataType's String() names, e.g. "utf8", "int64"
	Nullable bool
}

// TableSchema is the ordered field list backing a catalog table.
type TableSchema struct {
	Fields []Field
}

// ToStructDef converts a literal TableSchema into the algebraic StructDef the rest of the
// compiler operates on.
func (s TableSchema) ToStructDef(name string) (*typedef.StructDef, error) {
	fields := make([]typedef.StructField, 0, len(s.Fields))
	for _, f := range s.Fields {
		dt, ok := parseDataTypeName(f.Name, f.Type)
		if !ok {
			return nil, &cerr.TypeMismatch{Context: "table schema field " + f.Name, Left: f.Type, Right: "typedef.DataType"}
		}
		td := typedef.Leaf(dt)
		if f.Nullable {
			td = typedef.Optional(td)
		}
		fields = append(fields, typedef.StructField{Name: f.Name, Type: td})
	}
	if err := typedef.ValidateUniqueFieldNames(fields); err != nil {
		return nil, err
	}
	return &typedef.StructDef{Name: name, Fields: fields}, nil
}

func parseDataTypeName(_ string, name string) (typedef.DataType, bool) {
	switch strings.ToLower(name) {
	case "null":
		return typedef.Null, true
	case "bool", "boolean":
		return typedef.Boolean, true
	case "int8":
		return typedef.Int8, true
	case "int16":
		return typedef.Int16, true
	case "int32":
		return typedef.Int32, true
	case "int64":
		return typedef.Int64, true
	case "uint8":
		return typedef.UInt8, true
	case "uint16":
		return typedef.UInt16, true
	case "uint32":
		return typedef.UInt32, true
	case "uint64":
		return typedef.UInt64, true
	case "float32":
		return typedef.Float32, true
	case "float64":
		return typedef.Float64, true
	case "utf8", "string", "text":
		return typedef.Utf8, true
	case "binary", "bytes":
		return typedef.Binary, true
	case "date32", "date":
		return typedef.Date32, true
	case "timestamp":
		return typedef.Timestamp, true
	case "interval":
		return typedef.Interval, true
	default:
		return 0, false
	}
}

// ConnectionType distinguishes a source connection from a sink connection (§3).
type ConnectionType int

const (
	ConnectionSource ConnectionType = iota
	ConnectionSink
)

// Connection is a configured data source/sink, as registered into the catalog by a table
// declaration or a CREATE TABLE ... WITH (...) statement.
type Connection struct {
	ID          string
	Name        string
	Type        ConnectionType
	Schema      *typedef.StructDef
	Operator    string // serialized operator descriptor, opaque to the catalog
	ConfigBlob  string // serialized connector config, opaque to the catalog
	Description string
}

// Table is a catalog entry: a name, its row schema, and (for connector-backed tables) the
// connection that produces/consumes its rows.
type Table struct {
	Name       string
	Schema     TableSchema
	structDef  *typedef.StructDef
	Connection *Connection
}

// Catalog is the case-insensitive table/UDF/connection-profile registry a compile binds
// against.
type Catalog struct {
	tables   map[string]*Table
	udfs     map[string]*UdfDef
	profiles map[string]Connection
	funcs    *FunctionRegistry
}

// New returns an empty catalog pre-seeded with the built-in scalar/aggregate function
// registry.
func New() *Catalog {
	return &Catalog{
		tables:   make(map[string]*Table),
		udfs:     make(map[string]*UdfDef),
		profiles: make(map[string]Connection),
		funcs:    NewFunctionRegistry(),
	}
}

func key(name string) string { return strings.ToLower(name) }

// AddConnectorTable registers t, deriving its StructDef from its literal schema. Returns
// UdfError-free; a duplicate name overwrites the previous entry, matching the reference
// engine's "last declaration wins" table registration behavior.
func (c *Catalog) AddConnectorTable(t Table) error {
	sd, err := t.Schema.ToStructDef(t.Name)
	if err != nil {
		return err
	}
	t.structDef = sd
	c.tables[key(t.Name)] = &t
	return nil
}

// AddConnectionProfile registers a reusable named connector profile.
func (c *Catalog) AddConnectionProfile(name string, conn Connection) {
	c.profiles[key(name)] = conn
}

// ResolveProfile looks up a connection profile by name, case-insensitively.
func (c *Catalog) ResolveProfile(name string) (Connection, error) {
	conn, ok := c.profiles[key(name)]
	if !ok {
		return Connection{}, &cerr.UnknownTable{Name: name}
	}
	return conn, nil
}

// Table looks up a registered table by name, case-insensitively.
func (c *Catalog) Table(name string) (*Table, error) {
	t, ok := c.tables[key(name)]
	if !ok {
		return nil, &cerr.UnknownTable{Name: name}
	}
	return t, nil
}

// StructDef returns the row schema for a registered table.
func (t *Table) StructDef() *typedef.StructDef { return t.structDef }

// Functions exposes the catalog's built-in + UDF function registry.
func (c *Catalog) Functions() *FunctionRegistry { return c.funcs }

// AddUDFDef registers an already-parsed UDF definition, rejecting a duplicate name to
// preserve the "no partial registration" invariant described in §4.2.
func (c *Catalog) AddUDFDef(def *UdfDef) error {
	k := key(def.Name)
	if _, exists := c.udfs[k]; exists {
		return &cerr.UdfError{Name: def.Name, Message: "duplicate udf name"}
	}
	c.udfs[k] = def
	c.funcs.RegisterUDF(def)
	return nil
}

// UDF looks up a registered UDF by name.
func (c *Catalog) UDF(name string) (*UdfDef, bool) {
	d, ok := c.udfs[key(name)]
	return d, ok
}

// HasDuplicateUDFNames reports whether defs contains two definitions (case-insensitively)
// sharing a name, used by the compile entry point to reject a UDF batch before any partial
// registration happens.
func HasDuplicateUDFNames(defs []*UdfDef) bool {
	seen := make(map[string]struct{}, len(defs))
	for _, d := range defs {
		k := key(d.Name)
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
	}
	return false
}

// Clone returns a snapshot of c safe for a single compile to bind against without affecting
// any other concurrent compile or the original catalog.
func (c *Catalog) Clone() *Catalog {
	clone := &Catalog{
		tables:   make(map[string]*Table, len(c.tables)),
		udfs:     make(map[string]*UdfDef, len(c.udfs)),
		profiles: make(map[string]Connection, len(c.profiles)),
		funcs:    c.funcs.clone(),
	}
	for k, v := range c.tables {
		tc := *v
		clone.tables[k] = &tc
	}
	for k, v := range c.udfs {
		clone.udfs[k] = v
	}
	for k, v := range c.profiles {
		clone.profiles[k] = v
	}
	return clone
}
