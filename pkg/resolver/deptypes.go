package resolver

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gnana997/uicontext/pkg/catalog"
	"github.com/gnana997/uicontext/pkg/extractor"
)

var (
	typeDelimiters = regexp.MustCompile(`[|&<>()\[\]{},\s;]+`)
	identToken     = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	caseTransition = regexp.MustCompile(`[a-z0-9][A-Z]`)
)

// builtinTypes are never resolved. Compared lowercased.
var builtinTypes = map[string]bool{
	"string": true, "number": true, "boolean": true, "null": true,
	"undefined": true, "any": true, "void": true, "object": true,
	"never": true, "unknown": true, "bigint": true, "symbol": true,
	"react": true, "mutablerefobject": true, "htmldivelement": true,
	"cssproperties": true, "function": true, "true": true, "false": true,
	"array": true, "record": true, "promise": true, "readonly": true,
	"partial": true, "required": true, "pick": true, "omit": true,
	"reactnode": true, "reactelement": true, "jsx": true,
}

func isBuiltinType(name string) bool {
	return builtinTypes[strings.ToLower(name)]
}

// ExtractTypeNames returns the distinct type-like identifiers referenced by
// the given type texts, in first-seen order.
func ExtractTypeNames(texts ...string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, text := range texts {
		for _, tok := range typeDelimiters.Split(text, -1) {
			tok = strings.TrimSuffix(strings.TrimPrefix(tok, "?"), ":")
			if tok == "" || seen[tok] || !looksLikeTypeName(tok) {
				continue
			}
			seen[tok] = true
			out = append(out, tok)
		}
	}
	return out
}

func looksLikeTypeName(tok string) bool {
	if strings.Contains(tok, "/") || !identToken.MatchString(tok) || isBuiltinType(tok) {
		return false
	}
	first := rune(tok[0])
	return unicode.IsUpper(first) || caseTransition.MatchString(tok)
}

// DependentTypes resolves every type name referenced by typeTexts, as seen
// from the module at fromFile, and then the names referenced by each
// resolved declaration in turn. Unresolvable names are omitted.
func (r *Resolver) DependentTypes(fromFile string, typeTexts []string) map[string]catalog.DependentType {
	out := make(map[string]catalog.DependentType)
	r.collectDependent(fromFile, typeTexts, make(map[visitKey]bool), out)
	return out
}

// PropsDependentTypes resolves the dependent types of flattened props. Each
// field's type text is resolved from the module that declares the field, so
// inherited fields see their own imports. The first resolution of a name
// wins.
func (r *Resolver) PropsDependentTypes(p PropsResult) map[string]catalog.DependentType {
	out := make(map[string]catalog.DependentType)
	visited := make(map[visitKey]bool)
	files, texts := p.TypeTextsByFile()
	for _, file := range files {
		r.collectDependent(file, texts[file], visited, out)
	}
	return out
}

func (r *Resolver) collectDependent(fromFile string, typeTexts []string, visited map[visitKey]bool, out map[string]catalog.DependentType) {
	mod, err := r.cache.Module(fromFile)
	if err != nil {
		return
	}
	for _, name := range ExtractTypeNames(typeTexts...) {
		r.resolveDependent(mod, name, 0, visited, out)
	}
}

func (r *Resolver) resolveDependent(mod *extractor.Module, name string, depth int, visited map[visitKey]bool, out map[string]catalog.DependentType) {
	if _, done := out[name]; done {
		return
	}
	key := visitKey{name: name, file: mod.Path}
	if visited[key] {
		return
	}
	visited[key] = true

	if depth > r.maxDepth {
		out[name] = catalog.DependentType{Kind: catalog.DepTruncated}
		return
	}

	l := r.find(mod, name, depKinds, 0, make(map[visitKey]bool))
	switch {
	case l.found():
		text := l.mod.DeclarationText(l.decl)
		out[name] = catalog.DependentType{Kind: depKind(l.decl.Kind), Text: text}
		for _, ref := range ExtractTypeNames(declarationTypeText(l.mod, l.decl)) {
			if ref != name {
				r.resolveDependent(l.mod, ref, depth+1, visited, out)
			}
		}
	case l.truncated:
		out[name] = catalog.DependentType{Kind: catalog.DepTruncated}
	case l.from != "":
		out[name] = catalog.DependentType{Kind: catalog.DepImport, From: l.from}
	}
}

// declarationTypeText returns the part of a declaration that can reference
// other types: an alias value, or an interface's body and extends clause.
// Enums reference nothing.
func declarationTypeText(mod *extractor.Module, d *extractor.Declaration) string {
	switch d.Kind {
	case extractor.DeclTypeAlias:
		return mod.Text(extractor.Field(d.Node, "value"))
	case extractor.DeclInterface:
		var b strings.Builder
		if ext := extractor.ChildOfKind(d.Node, "extends_type_clause"); ext != nil {
			b.WriteString(mod.Text(ext))
			b.WriteByte(' ')
		}
		body := extractor.Field(d.Node, "body")
		for _, m := range extractor.NamedChildren(body) {
			switch m.Kind() {
			case "property_signature":
				b.WriteString(extractor.TypeAnnotationText(extractor.Field(m, "type"), mod.Source))
				b.WriteByte(' ')
			case "method_signature":
				b.WriteString(methodType(mod, m))
				b.WriteByte(' ')
			}
		}
		return b.String()
	}
	return ""
}

func depKind(k extractor.DeclKind) catalog.DependentTypeKind {
	switch k {
	case extractor.DeclEnum:
		return catalog.DepEnum
	case extractor.DeclInterface:
		return catalog.DepInterface
	default:
		return catalog.DepType
	}
}
