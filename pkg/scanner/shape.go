package scanner

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uicontext/pkg/extractor"
	"github.com/gnana997/uicontext/pkg/parser"
	"github.com/gnana997/uicontext/pkg/parser/queries"
)

// uiReturnTypes are declared return types that mean "renders UI".
var uiReturnTypes = []string{"JSX.Element", "ReactElement", "ReactNode", "ReactPortal"}

// ShapeOf inspects a declaration. A nil declaration is unknown.
func ShapeOf(qm *queries.QueryManager, mod *extractor.Module, d *extractor.Declaration) Shape {
	if mod == nil || d == nil {
		return Shape{Decl: ShapeUnknown, Return: ReturnUnknown}
	}
	switch d.Kind {
	case extractor.DeclInterface, extractor.DeclTypeAlias, extractor.DeclEnum:
		return Shape{Decl: ShapeTypeDecl, Return: ReturnUnknown}
	case extractor.DeclClass:
		return Shape{Decl: ShapeClass, Return: ReturnUnknown}
	case extractor.DeclFunction:
		return Shape{Decl: ShapeFunction, Return: returnShape(qm, mod, d.Node)}
	}

	init := extractor.Initializer(d)
	switch {
	case init == nil:
		return Shape{Decl: ShapeUnknown, Return: ReturnUnknown}
	case extractor.IsFunctionNode(init):
		return Shape{Decl: ShapeArrow, Return: returnShape(qm, mod, init)}
	case mod.WrapperName(init) != "":
		return Shape{Decl: ShapeWrapped, Return: ReturnUI}
	case isLiteral(init):
		return Shape{Decl: ShapeValue, Return: ReturnUnknown}
	}
	// Calls, tagged templates and aliases could be anything.
	return Shape{Decl: ShapeUnknown, Return: ReturnUnknown}
}

func isLiteral(n *ts.Node) bool {
	switch n.Kind() {
	case "object", "array", "string", "template_string", "number", "true", "false",
		"null", "undefined", "regex", "new_expression", "unary_expression", "binary_expression":
		return true
	}
	return false
}

// returnShape decides whether fn produces a UI tree: a UI return type, JSX
// in its body, or a createElement call.
func returnShape(qm *queries.QueryManager, mod *extractor.Module, fn *ts.Node) ReturnShape {
	if fn == nil {
		return ReturnUnknown
	}
	if rt := mod.ReturnType(fn); rt != "" {
		for _, ui := range uiReturnTypes {
			if strings.Contains(rt, ui) {
				return ReturnUI
			}
		}
	}
	body := extractor.Field(fn, "body")
	if body == nil {
		return ReturnUnknown
	}
	if containsJSX(qm, mod, body) || callsCreateElement(qm, mod, body) {
		return ReturnUI
	}
	return ReturnOther
}

func containsJSX(qm *queries.QueryManager, mod *extractor.Module, body *ts.Node) bool {
	q, err := qm.GetQuery(mod.Language, parser.IsTSXFile(mod.Path), queries.QueryTypeJSX)
	if err != nil {
		// .ts files cannot contain JSX.
		return false
	}
	return len(qm.Captures(body, q, mod.Source)) > 0 || containsJSXNode(body)
}

func callsCreateElement(qm *queries.QueryManager, mod *extractor.Module, body *ts.Node) bool {
	q, err := qm.GetQuery(mod.Language, parser.IsTSXFile(mod.Path), queries.QueryTypeCalls)
	if err != nil {
		return false
	}
	for _, c := range qm.Captures(body, q, mod.Source) {
		if c.Text == "createElement" || strings.HasSuffix(c.Text, ".createElement") {
			return true
		}
	}
	return false
}

// containsJSXNode recursively checks for fragments, which the JSX query
// leaves out.
func containsJSXNode(node *ts.Node) bool {
	found := false
	extractor.Walk(node, func(n *ts.Node) bool {
		if found {
			return false
		}
		if n.Kind() == "jsx_fragment" {
			found = true
			return false
		}
		return true
	})
	return found
}
