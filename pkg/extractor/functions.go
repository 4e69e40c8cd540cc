package extractor

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// Param is one declared function parameter.
type Param struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional"`
}

var functionKinds = map[string]bool{
	"function_declaration":           true,
	"generator_function_declaration": true,
	"function_signature":             true,
	"function_expression":            true,
	"function":                       true,
	"arrow_function":                 true,
}

// IsFunctionNode reports whether n is a function or arrow.
func IsFunctionNode(n *ts.Node) bool {
	return n != nil && functionKinds[n.Kind()]
}

// Initializer returns the value of a variable declaration, unwrapping
// parentheses and `as`/`satisfies` expressions.
func Initializer(d *Declaration) *ts.Node {
	if d == nil || d.Kind != DeclVariable {
		return nil
	}
	return unwrapExpression(Field(d.Node, "value"))
}

func unwrapExpression(n *ts.Node) *ts.Node {
	for n != nil {
		switch n.Kind() {
		case "parenthesized_expression", "as_expression", "satisfies_expression", "non_null_expression":
			inner := NamedChildren(n)
			if len(inner) == 0 {
				return n
			}
			n = inner[0]
		default:
			return n
		}
	}
	return nil
}

// WrapperName returns the callee of a component wrapper call such as
// forwardRef(...) or React.memo(...), or "".
func (m *Module) WrapperName(call *ts.Node) string {
	if call == nil || call.Kind() != "call_expression" {
		return ""
	}
	callee := m.Text(Field(call, "function"))
	// Strip generic arguments: forwardRef<HTMLDivElement, Props>
	if i := strings.IndexByte(callee, '<'); i >= 0 {
		callee = callee[:i]
	}
	switch strings.TrimPrefix(callee, "React.") {
	case "forwardRef", "memo":
		return callee
	}
	return ""
}

// WrappedFunction digs the inner function out of wrapper calls, following
// memo(forwardRef(fn)) nesting and identifier arguments declared locally.
func (m *Module) WrappedFunction(call *ts.Node) *ts.Node {
	for depth := 0; call != nil && depth < 4; depth++ {
		args := NamedChildren(Field(call, "arguments"))
		if len(args) == 0 {
			return nil
		}
		arg := unwrapExpression(args[0])
		switch {
		case IsFunctionNode(arg):
			return arg
		case m.WrapperName(arg) != "":
			call = arg
		case arg.Kind() == "identifier":
			d, ok := m.Declaration(m.Text(arg))
			if !ok {
				return nil
			}
			if d.Kind == DeclFunction {
				return d.Node
			}
			if init := Initializer(d); IsFunctionNode(init) {
				return init
			}
			return nil
		default:
			return nil
		}
	}
	return nil
}

// Callable returns the function node behind a declaration: the function
// itself, an arrow/function initializer, or the function wrapped by
// forwardRef/memo. Returns nil for anything else.
func (m *Module) Callable(d *Declaration) *ts.Node {
	if d == nil {
		return nil
	}
	if d.Kind == DeclFunction {
		return d.Node
	}
	init := Initializer(d)
	if IsFunctionNode(init) {
		return init
	}
	if m.WrapperName(init) != "" {
		return m.WrappedFunction(init)
	}
	return nil
}

// WrapperPropsTypeNames reads the props type from the generic arguments of
// a wrapper call: the last argument of forwardRef<Ref, Props>, the first of
// memo<Props>. It returns the type identifiers of that argument.
func (m *Module) WrapperPropsTypeNames(d *Declaration) []string {
	call := Initializer(d)
	name := m.WrapperName(call)
	if name == "" {
		return nil
	}
	typeArgs := Field(call, "type_arguments")
	if typeArgs == nil {
		typeArgs = ChildOfKind(call, "type_arguments")
	}
	args := NamedChildren(typeArgs)
	if len(args) == 0 {
		return nil
	}
	arg := args[0]
	if strings.HasSuffix(name, "forwardRef") {
		arg = args[len(args)-1]
	}
	var names []string
	Walk(arg, func(n *ts.Node) bool {
		if n.Kind() == "type_identifier" {
			names = append(names, m.Text(n))
			return false
		}
		return true
	})
	return names
}

// Parameters lists the parameters of a function node.
func (m *Module) Parameters(fn *ts.Node) []Param {
	if fn == nil {
		return nil
	}
	params := Field(fn, "parameters")
	if params == nil {
		// x => ... has a bare identifier parameter.
		if p := Field(fn, "parameter"); p != nil {
			return []Param{{Name: m.Text(p)}}
		}
		return nil
	}
	var out []Param
	for _, p := range NamedChildren(params) {
		switch p.Kind() {
		case "required_parameter", "optional_parameter":
			name := Field(p, "pattern")
			if name == nil {
				name = Field(p, "name")
			}
			out = append(out, Param{
				Name:     m.Text(name),
				Type:     TypeAnnotationText(Field(p, "type"), m.Source),
				Optional: p.Kind() == "optional_parameter" || Field(p, "value") != nil,
			})
		case "identifier", "assignment_pattern", "object_pattern", "array_pattern", "rest_pattern":
			// JavaScript parameters carry no types.
			out = append(out, Param{Name: m.Text(p), Optional: p.Kind() == "assignment_pattern"})
		}
	}
	return out
}

// ReturnType returns the declared return type of fn, or "".
func (m *Module) ReturnType(fn *ts.Node) string {
	return TypeAnnotationText(Field(fn, "return_type"), m.Source)
}

// FirstParamTypeName returns the leading type identifier of the first
// parameter's annotation: `({a}: ButtonProps)` gives "ButtonProps",
// `(p: Readonly<CardProps>)` gives "Readonly".
func (m *Module) FirstParamTypeName(fn *ts.Node) string {
	if names := m.FirstParamTypeNames(fn); len(names) > 0 {
		return names[0]
	}
	return ""
}

// FirstParamTypeNames returns every type identifier in the first
// parameter's annotation, in source order.
func (m *Module) FirstParamTypeNames(fn *ts.Node) []string {
	params := NamedChildren(Field(fn, "parameters"))
	if len(params) == 0 {
		return nil
	}
	var names []string
	Walk(Field(params[0], "type"), func(n *ts.Node) bool {
		if n.Kind() == "type_identifier" {
			names = append(names, m.Text(n))
			return false
		}
		return true
	})
	return names
}

// TypeAnnotationText returns a type annotation without its leading colon.
func TypeAnnotationText(n *ts.Node, source []byte) string {
	text := strings.TrimSpace(Text(n, source))
	text = strings.TrimPrefix(text, ":")
	return strings.TrimSpace(text)
}
