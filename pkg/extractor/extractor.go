package extractor

import (
	"fmt"
	"log/slog"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uicontext/pkg/parser"
)

// Extractor parses files and collects their module facts in one pass over
// the top-level statements.
//
// Usage:
//
//	ext := NewExtractor(parserManager, logger)
//	mod, err := ext.Extract(path, source)
//	if err != nil {
//	    return err
//	}
//	defer mod.Close()
type Extractor struct {
	parserManager *parser.ParserManager
	logger        *slog.Logger
}

// NewExtractor creates an extractor backed by pm.
func NewExtractor(pm *parser.ParserManager, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{parserManager: pm, logger: logger}
}

// Extract parses source and returns its facts. The caller must Close the
// returned module. source must outlive the module.
func (e *Extractor) Extract(filePath string, source []byte) (*Module, error) {
	lang := parser.DetectLanguage(filePath)
	if lang == parser.LanguageUnknown {
		return nil, fmt.Errorf("unsupported language for file: %s", filePath)
	}
	tree, err := e.parserManager.ParseFile(source, filePath)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}

	m := &Module{
		Path:         filePath,
		Language:     lang,
		Source:       source,
		Declarations: make(map[string]*Declaration),
		tree:         tree,
	}
	for _, stmt := range Children(tree.RootNode()) {
		switch stmt.Kind() {
		case "import_statement":
			m.Imports = append(m.Imports, extractImports(stmt, source)...)
		case "export_statement":
			m.addExportStatement(stmt)
		case "ambient_declaration":
			// declare const x: T; declare function f(): T;
			for _, inner := range NamedChildren(stmt) {
				m.addDeclarations(inner, stmt, false)
			}
		default:
			m.addDeclarations(stmt, stmt, false)
		}
	}

	e.logger.Debug("extracted module",
		"file", filePath,
		"imports", len(m.Imports),
		"exports", len(m.Exports),
		"declarations", len(m.Order))
	return m, nil
}

// Root returns the program node.
func (m *Module) Root() *ts.Node {
	if m.tree == nil {
		return nil
	}
	return m.tree.RootNode()
}

// Text returns the source text of a node in this module.
func (m *Module) Text(n *ts.Node) string {
	return Text(n, m.Source)
}

// Close frees the parse tree.
func (m *Module) Close() {
	if m.tree != nil {
		m.tree.Close()
		m.tree = nil
	}
}

// Declaration returns the top-level declaration for name, optionally
// restricted to kinds.
func (m *Module) Declaration(name string, kinds ...DeclKind) (*Declaration, bool) {
	d, ok := m.Declarations[name]
	if !ok {
		return nil, false
	}
	if len(kinds) == 0 {
		return d, true
	}
	for _, k := range kinds {
		if d.Kind == k {
			return d, true
		}
	}
	return nil, false
}

// Import returns the import binding for a local name.
func (m *Module) Import(local string) (ImportInfo, bool) {
	for _, imp := range m.Imports {
		if imp.Local == local {
			return imp, true
		}
	}
	return ImportInfo{}, false
}

// Export returns the non-star export with the given public name. When the
// name is exported more than once the last export wins.
func (m *Module) Export(name string) (ExportInfo, bool) {
	var found ExportInfo
	ok := false
	for _, exp := range m.Exports {
		if exp.Kind != ExportStar && exp.Name == name {
			found, ok = exp, true
		}
	}
	return found, ok
}

// StarSources lists the specifiers of `export * from` statements.
func (m *Module) StarSources() []string {
	var out []string
	for _, exp := range m.Exports {
		if exp.Kind == ExportStar {
			out = append(out, exp.Source)
		}
	}
	return out
}

// DeclarationText returns the snippet reported for a declaration: the full
// statement for single-name statements, otherwise the declarator.
func (m *Module) DeclarationText(d *Declaration) string {
	if d == nil {
		return ""
	}
	if d.Kind == DeclVariable && d.Statement != nil && len(NamedChildren(declarationList(d.Statement))) > 1 {
		return m.Text(d.Node)
	}
	if d.Statement != nil {
		return m.Text(d.Statement)
	}
	return m.Text(d.Node)
}

func declarationList(stmt *ts.Node) *ts.Node {
	if stmt.Kind() == "export_statement" {
		if decl := Field(stmt, "declaration"); decl != nil {
			return decl
		}
	}
	return stmt
}
