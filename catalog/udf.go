package catalog

import (
	"go/ast"
	"go/parser"
	"go/token"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/flowsql/core/cerr"
	"github.com/flowsql/core/typedef"
)

// UdfDef is a registered user-defined function: its argument/return TypeDefs, calling
// convention flags, and the original source/options text it was parsed from (§3).
type UdfDef struct {
	Name              string
	Args              []typedef.TypeDef
	Return            typedef.TypeDef
	Async             bool
	HasContext        bool
	IsAggregate       bool
	Source            string
	DependenciesText  string
	AsyncResultsOrdered bool
}

var blockCommentRe = regexp.MustCompile(`(?s)/\*(.*?)\*/`)

// AddUDF parses body as a single Go UDF source file fragment (one top-level function
// declaration, optionally preceded by a block-comment options/dependency table) and registers
// it into c.
func (c *Catalog) AddUDF(body string) (*UdfDef, error) {
	def, err := ParseUDF(body)
	if err != nil {
		return nil, err
	}
	if err := c.AddUDFDef(def); err != nil {
		return nil, err
	}
	return def, nil
}

// ParseUDF parses a Go source fragment into a UdfDef without registering it, per the rules in
// §4.2: exactly one top-level function; a `context.Context` first parameter (named "context")
// marks the UDF async with a context; if every remaining parameter's type is `list<T>` (with
// at least one such parameter) it is registered as an aggregate UDF.
func ParseUDF(body string) (*UdfDef, error) {
	fset := token.NewFileSet()
	// go/parser requires a package clause; UDF fragments are submitted bodiless, so wrap them.
	src := body
	if !strings.Contains(src, "package ") {
		src = "package udf\n" + src
	}
	file, err := parser.ParseFile(fset, "", src, parser.ParseComments)
	if err != nil {
		return nil, &cerr.UdfError{Message: "parse error: " + err.Error()}
	}

	var fns []*ast.FuncDecl
	for _, decl := range file.Decls {
		if fd, ok := decl.(*ast.FuncDecl); ok && fd.Recv == nil {
			fns = append(fns, fd)
		} else if fd, ok := decl.(*ast.FuncDecl); ok && fd.Recv != nil {
			return nil, &cerr.UdfError{Message: "receiver-style function parameters are not supported"}
		}
	}
	if len(fns) == 0 {
		return nil, &cerr.UdfError{Message: "udf source must contain exactly one top-level function, found none"}
	}
	if len(fns) > 1 {
		return nil, &cerr.UdfError{Message: "udf source must contain exactly one top-level function, found multiple"}
	}
	fn := fns[0]

	if fn.Type.Results == nil || len(fn.Type.Results.List) == 0 {
		return nil, &cerr.UdfError{Name: fn.Name.Name, Message: "function has no return type"}
	}

	def := &UdfDef{Name: fn.Name.Name, Source: body}

	params := fn.Type.Params.List
	startIdx := 0
	if len(params) > 0 {
		if isContextParam(params[0]) {
			def.HasContext = true
			def.Async = true
			startIdx = 1
		}
	}

	var argTypes []typedef.TypeDef
	listCount := 0
	scalarCount := 0
	for _, p := range params[startIdx:] {
		td, isList, err := goTypeToTypeDef(p.Type)
		if err != nil {
			return nil, &cerr.UdfError{Name: def.Name, Message: err.Error()}
		}
		n := len(p.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			argTypes = append(argTypes, td)
			if isList {
				listCount++
			} else {
				scalarCount++
			}
		}
	}
	if listCount > 0 && scalarCount > 0 {
		return nil, &cerr.UdfError{Name: def.Name, Message: "arguments must be vectors or none"}
	}
	def.IsAggregate = listCount > 0
	def.Args = argTypes

	retType := fn.Type.Results.List[0].Type
	retTd, _, err := goTypeToTypeDef(retType)
	if err != nil {
		return nil, &cerr.UdfError{Name: def.Name, Message: err.Error()}
	}
	def.Return = retTd

	opts, deps, err := parseUDFOptions(file)
	if err != nil {
		return nil, &cerr.UdfError{Name: def.Name, Message: err.Error()}
	}
	def.AsyncResultsOrdered = opts.AsyncResultsOrdered
	def.DependenciesText = deps

	return def, nil
}

func isContextParam(p *ast.Field) bool {
	if len(p.Names) != 1 || p.Names[0].Name != "context" {
		return false
	}
	sel, ok := p.Type.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && pkg.Name == "context" && sel.Sel.Name == "Context"
}

// goTypeToTypeDef maps a Go AST type expression to a TypeDef, reporting whether it was a
// list<T> (Go slice) form.
func goTypeToTypeDef(expr ast.Expr) (typedef.TypeDef, bool, error) {
	switch t := expr.(type) {
	case *ast.ArrayType:
		elem, _, err := goTypeToTypeDef(t.Elt)
		if err != nil {
			return typedef.TypeDef{}, false, err
		}
		return typedef.OfList(elem), true, nil
	case *ast.Ident:
		dt, ok := goIdentToDataType(t.Name)
		if !ok {
			return typedef.TypeDef{}, false, &typedef.TypeError{Input: t.Name}
		}
		return typedef.Leaf(dt), false, nil
	case *ast.StarExpr:
		td, isList, err := goTypeToTypeDef(t.X)
		if err != nil {
			return typedef.TypeDef{}, false, err
		}
		return typedef.Optional(td), isList, nil
	default:
		return typedef.TypeDef{}, false, &typedef.TypeError{Input: "unsupported udf argument/return type expression"}
	}
}

func goIdentToDataType(name string) (typedef.DataType, bool) {
	switch name {
	case "bool":
		return typedef.Boolean, true
	case "int8":
		return typedef.Int8, true
	case "int16":
		return typedef.Int16, true
	case "int32", "rune":
		return typedef.Int32, true
	case "int", "int64":
		return typedef.Int64, true
	case "uint8", "byte":
		return typedef.UInt8, true
	case "uint16":
		return typedef.UInt16, true
	case "uint32":
		return typedef.UInt32, true
	case "uint", "uint64":
		return typedef.UInt64, true
	case "float32":
		return typedef.Float32, true
	case "float64":
		return typedef.Float64, true
	case "string":
		return typedef.Utf8, true
	default:
		return 0, false
	}
}

type udfOptions struct {
	AsyncResultsOrdered bool   `toml:"async_results_ordered"`
	Dependencies        string `toml:"dependencies"`
}

// parseUDFOptions extracts a single TOML options/dependency table from one block comment in
// the UDF source file. Multiple such comments are rejected, mirroring the original's
// single-options-block requirement.
func parseUDFOptions(file *ast.File) (udfOptions, string, error) {
	var blocks []string
	for _, cg := range file.Comments {
		for _, c := range cg.List {
			text := (&ast.CommentGroup{List: []*ast.Comment{c}}).Text()
			if looksLikeTOMLTable(text) {
				blocks = append(blocks, text)
			}
		}
	}
	if len(blocks) == 0 {
		return udfOptions{}, "", nil
	}
	if len(blocks) > 1 {
		return udfOptions{}, "", errMultipleOptionBlocks
	}
	var opts udfOptions
	if _, err := toml.Decode(blocks[0], &opts); err != nil {
		return udfOptions{}, "", err
	}
	return opts, opts.Dependencies, nil
}

var errMultipleOptionBlocks = &cerr.UdfError{Message: "multiple udf option/dependency comment blocks found, expected at most one"}

func looksLikeTOMLTable(text string) bool {
	return strings.Contains(text, "=") && (strings.Contains(text, "async_results_ordered") || strings.Contains(text, "dependencies"))
}

// extractBlockComment returns the inner text of the first block comment in src matched by
// blockCommentRe, independent of go/ast's own comment grouping.
func extractBlockComment(src string) (string, bool) {
	m := blockCommentRe.FindStringSubmatch(src)
	if m == nil {
		return "", false
	}
	return m[1], true
}
