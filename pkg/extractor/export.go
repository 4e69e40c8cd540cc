package extractor

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

var declKinds = map[string]DeclKind{
	"interface_declaration":          DeclInterface,
	"type_alias_declaration":         DeclTypeAlias,
	"enum_declaration":               DeclEnum,
	"function_declaration":           DeclFunction,
	"generator_function_declaration": DeclFunction,
	"function_signature":             DeclFunction,
	"class_declaration":              DeclClass,
	"abstract_class_declaration":     DeclClass,
}

func (m *Module) addExportStatement(stmt *ts.Node) {
	loc := nodeLocation(stmt)
	typeOnly := HasToken(stmt, "type")
	source := Unquote(m.Text(Field(stmt, "source")))

	if HasToken(stmt, "default") {
		m.addDefaultExport(stmt, loc)
		return
	}

	if decl := Field(stmt, "declaration"); decl != nil {
		for _, d := range m.addDeclarations(decl, stmt, true) {
			m.Exports = append(m.Exports, ExportInfo{
				Name:     d.Name,
				Local:    d.Name,
				Kind:     ExportLocal,
				TypeOnly: d.Kind.IsType(),
				Location: loc,
			})
		}
		return
	}

	if clause := ChildOfKind(stmt, "export_clause"); clause != nil {
		for _, spec := range NamedChildren(clause) {
			if spec.Kind() != "export_specifier" {
				continue
			}
			local := Unquote(m.Text(Field(spec, "name")))
			name := local
			if alias := Field(spec, "alias"); alias != nil {
				name = Unquote(m.Text(alias))
			}
			kind := ExportLocal
			if source != "" {
				kind = ExportReExport
			}
			m.Exports = append(m.Exports, ExportInfo{
				Name:     name,
				Local:    local,
				Source:   source,
				Kind:     kind,
				TypeOnly: typeOnly || HasToken(spec, "type"),
				Location: loc,
			})
		}
		return
	}

	if source == "" {
		return
	}
	if ns := ChildOfKind(stmt, "namespace_export"); ns != nil {
		// export * as ns from './mod'
		name := m.Text(ChildOfKind(ns, "identifier", "string"))
		m.Exports = append(m.Exports, ExportInfo{
			Name: Unquote(name), Local: "*", Source: source,
			Kind: ExportNamespace, TypeOnly: typeOnly, Location: loc,
		})
		return
	}
	if HasToken(stmt, "*") {
		m.Exports = append(m.Exports, ExportInfo{
			Source: source, Kind: ExportStar, TypeOnly: typeOnly, Location: loc,
		})
	}
}

// addDefaultExport handles `export default X`, `export default function X()`
// and anonymous defaults.
func (m *Module) addDefaultExport(stmt *ts.Node, loc Location) {
	exp := ExportInfo{Name: "default", Kind: ExportDefault, Location: loc}
	if decl := Field(stmt, "declaration"); decl != nil {
		for _, d := range m.addDeclarations(decl, stmt, true) {
			exp.Local = d.Name
			exp.TypeOnly = d.Kind.IsType()
		}
	} else if val := Field(stmt, "value"); val != nil && val.Kind() == "identifier" {
		exp.Local = m.Text(val)
	}
	m.Exports = append(m.Exports, exp)
}

// addDeclarations records the names declared by node. stmt is the enclosing
// top-level statement. Returns the declarations added, in order.
func (m *Module) addDeclarations(node, stmt *ts.Node, exported bool) []*Declaration {
	var added []*Declaration
	record := func(name string, kind DeclKind, declNode *ts.Node) {
		if name == "" {
			return
		}
		d := &Declaration{
			Name:      name,
			Kind:      kind,
			Node:      declNode,
			Statement: stmt,
			Exported:  exported,
			Location:  nodeLocation(declNode),
		}
		added = append(added, d)
		if prev, dup := m.Declarations[name]; dup {
			// Overloads and merged interfaces: the first declaration stays,
			// but a later export still marks the name exported.
			prev.Exported = prev.Exported || exported
			return
		}
		m.Declarations[name] = d
		m.Order = append(m.Order, name)
	}

	if kind, ok := declKinds[node.Kind()]; ok {
		record(m.Text(Field(node, "name")), kind, node)
		return added
	}

	switch node.Kind() {
	case "lexical_declaration", "variable_declaration":
		for _, declarator := range NamedChildren(node) {
			if declarator.Kind() != "variable_declarator" {
				continue
			}
			name := Field(declarator, "name")
			if name == nil || name.Kind() != "identifier" {
				continue
			}
			record(m.Text(name), DeclVariable, declarator)
		}
	}
	return added
}
