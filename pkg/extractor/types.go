// Package extractor parses a source file once and records its top-level
// module facts: imports, exports and declarations.
package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uicontext/pkg/parser"
)

// Module is one parsed source file. It owns its tree; nodes referenced by
// Declarations are valid until Close.
type Module struct {
	Path     string
	Language parser.Language
	Source   []byte

	Imports []ImportInfo
	Exports []ExportInfo

	// Declarations maps a top-level name to its first declaration.
	Declarations map[string]*Declaration
	// Order lists declared names in source order.
	Order []string

	tree *ts.Tree
}

// DeclKind identifies what a top-level declaration declares.
type DeclKind string

const (
	DeclInterface DeclKind = "interface"
	DeclTypeAlias DeclKind = "type"
	DeclEnum      DeclKind = "enum"
	DeclFunction  DeclKind = "function"
	DeclClass     DeclKind = "class"
	DeclVariable  DeclKind = "variable"
)

// IsType reports whether the declaration only exists at the type level.
func (k DeclKind) IsType() bool {
	return k == DeclInterface || k == DeclTypeAlias
}

// Declaration is a named top-level declaration.
type Declaration struct {
	Name string
	Kind DeclKind

	// Node is the declaring node: interface_declaration, type_alias_declaration,
	// enum_declaration, function_declaration, class_declaration, or the
	// variable_declarator for const/let/var.
	Node *ts.Node

	// Statement is the enclosing top-level statement, including any export
	// keyword. Its text is what gets reported as a declaration snippet.
	Statement *ts.Node

	Exported bool
	Location Location
}

// ImportKind is the binding form of an import.
type ImportKind string

const (
	ImportNamed      ImportKind = "named"       // import { a as b } from './mod'
	ImportDefault    ImportKind = "default"     // import a from './mod'
	ImportNamespace  ImportKind = "namespace"   // import * as a from './mod'
	ImportSideEffect ImportKind = "side-effect" // import './styles.css'
)

// ImportInfo is one binding introduced by an import statement.
type ImportInfo struct {
	Source   string // module specifier as written
	Local    string // name bound in this module
	Imported string // name exported by Source; "default" or "*" for those forms
	Kind     ImportKind
	TypeOnly bool
	Location Location
}

// ExportKind is the form of an export.
type ExportKind string

const (
	ExportLocal     ExportKind = "local"     // export const a / export { a }
	ExportReExport  ExportKind = "re-export" // export { a } from './mod'
	ExportStar      ExportKind = "star"      // export * from './mod'
	ExportNamespace ExportKind = "namespace" // export * as ns from './mod'
	ExportDefault   ExportKind = "default"   // export default a
)

// ExportInfo is one name made public by a module.
type ExportInfo struct {
	// Name is the public name. Empty for ExportStar.
	Name string
	// Local is the name inside this module (ExportLocal, ExportDefault) or
	// inside Source (ExportReExport).
	Local    string
	Source   string
	Kind     ExportKind
	TypeOnly bool
	Location Location
}

// Location is a span in a source file. Lines and columns are 1-based.
type Location struct {
	StartLine   uint32 `json:"start_line"`
	StartColumn uint32 `json:"start_column"`
	EndLine     uint32 `json:"end_line"`
	EndColumn   uint32 `json:"end_column"`
	StartByte   uint32 `json:"start_byte"`
	EndByte     uint32 `json:"end_byte"`
}
