package compiler

// UDFSource is one UDF definition handed to CompileSQL. Language names the UDF's source
// language; "rust" is the only value ever recognized (the field name is inherited from the
// upstream system's wire format), and Definition is the UDF's literal source text, parsed the
// way catalog.Catalog.AddUDF already parses every UDF body.
type UDFSource struct {
	Language   string
	Definition string
}
