// Package connector implements the connector abstraction (§4.8): each connector kind declares
// its own typed config/table option structs, and a type-erased adapter lets the compiler core
// drive any registered connector by name without knowing its concrete option types. A global
// registry maps a connector name to its erased form, the way a CREATE TABLE ... WITH (...)
// statement's "connector" option is resolved during a compile.
package connector
