package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// extractImports returns one ImportInfo per binding of an import statement.
//
//	import Foo, { a, type B as C } from './mod'
//	import type { D } from './types'
//	import * as ns from 'lib'
//	import './side-effect'
func extractImports(stmt *ts.Node, source []byte) []ImportInfo {
	src := Unquote(Text(Field(stmt, "source"), source))
	if src == "" {
		return nil
	}
	loc := nodeLocation(stmt)
	stmtTypeOnly := HasToken(stmt, "type")

	clause := ChildOfKind(stmt, "import_clause")
	if clause == nil {
		return []ImportInfo{{Source: src, Kind: ImportSideEffect, Location: loc}}
	}

	var out []ImportInfo
	for _, c := range NamedChildren(clause) {
		switch c.Kind() {
		case "identifier":
			out = append(out, ImportInfo{
				Source: src, Local: Text(c, source), Imported: "default",
				Kind: ImportDefault, TypeOnly: stmtTypeOnly, Location: loc,
			})
		case "namespace_import":
			id := ChildOfKind(c, "identifier")
			out = append(out, ImportInfo{
				Source: src, Local: Text(id, source), Imported: "*",
				Kind: ImportNamespace, TypeOnly: stmtTypeOnly, Location: loc,
			})
		case "named_imports":
			for _, spec := range NamedChildren(c) {
				if spec.Kind() != "import_specifier" {
					continue
				}
				imported := Unquote(Text(Field(spec, "name"), source))
				local := imported
				if alias := Field(spec, "alias"); alias != nil {
					local = Text(alias, source)
				}
				out = append(out, ImportInfo{
					Source:   src,
					Local:    local,
					Imported: imported,
					Kind:     ImportNamed,
					TypeOnly: stmtTypeOnly || HasToken(spec, "type"),
					Location: loc,
				})
			}
		}
	}
	return out
}
