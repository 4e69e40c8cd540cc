package resolver

import (
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uicontext/pkg/catalog"
	"github.com/gnana997/uicontext/pkg/extractor"
)

// PropsResult is the flattened view of a props declaration.
type PropsResult struct {
	Fields []catalog.PropField
	// Raw is the located declaration text, or the text of the declaration a
	// bare alias forwards to.
	Raw string
	// File is the module that declares the located type.
	File string
	// Origins holds, per field, the module declaring it. Inherited fields
	// can come from other files than File.
	Origins []string
	// Truncated is set when a nested reference hit the depth limit.
	Truncated bool
}

// TypeTexts returns the type text of every field.
func (p PropsResult) TypeTexts() []string {
	out := make([]string, 0, len(p.Fields))
	for _, f := range p.Fields {
		out = append(out, f.Type)
	}
	return out
}

// TypeTextsByFile groups field type texts by declaring module, in the
// order the modules first contribute a field.
func (p PropsResult) TypeTextsByFile() (files []string, texts map[string][]string) {
	texts = make(map[string][]string)
	for i, f := range p.Fields {
		file := p.File
		if i < len(p.Origins) && p.Origins[i] != "" {
			file = p.Origins[i]
		}
		if _, ok := texts[file]; !ok {
			files = append(files, file)
		}
		texts[file] = append(texts[file], f.Type)
	}
	return files, texts
}

// utility types whose first argument carries the fields.
var passThroughGenerics = map[string]bool{
	"Omit":     true,
	"Pick":     true,
	"Partial":  true,
	"Required": true,
	"Readonly": true,
}

type flattenState struct {
	fields    []catalog.PropField
	origins   []string
	seen      map[string]bool
	visited   map[visitKey]bool
	truncated bool
}

func (st *flattenState) add(f catalog.PropField, file string) {
	if st.seen[f.Name] {
		return
	}
	st.seen[f.Name] = true
	st.fields = append(st.fields, f)
	st.origins = append(st.origins, file)
}

// Flatten turns a located declaration into an ordered field list. The first
// occurrence of a field name wins.
func (r *Resolver) Flatten(loc *Located) PropsResult {
	if loc == nil {
		return PropsResult{}
	}
	st := &flattenState{seen: make(map[string]bool), visited: make(map[visitKey]bool)}
	r.flattenDecl(loc.Module, loc.Decl, st, 0)

	return PropsResult{
		Fields:    st.fields,
		Raw:       r.passThroughRaw(loc),
		File:      loc.Module.Path,
		Origins:   st.origins,
		Truncated: st.truncated,
	}
}

func (r *Resolver) flattenDecl(mod *extractor.Module, decl *extractor.Declaration, st *flattenState, depth int) {
	key := visitKey{name: decl.Name, file: mod.Path}
	if st.visited[key] {
		return
	}
	st.visited[key] = true
	if depth > r.maxDepth {
		st.truncated = true
		return
	}

	switch decl.Kind {
	case extractor.DeclInterface:
		r.collectMembers(mod, extractor.Field(decl.Node, "body"), st, depth)
		// Own members first, then inherited ones.
		if ext := extractor.ChildOfKind(decl.Node, "extends_type_clause"); ext != nil {
			for _, base := range extractor.NamedChildren(ext) {
				r.flattenType(mod, base, st, depth+1)
			}
		}
	case extractor.DeclTypeAlias:
		r.flattenType(mod, extractor.Field(decl.Node, "value"), st, depth)
	}
}

// flattenType handles one type expression.
func (r *Resolver) flattenType(mod *extractor.Module, n *ts.Node, st *flattenState, depth int) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "object_type", "interface_body":
		r.collectMembers(mod, n, st, depth)

	case "intersection_type", "union_type", "parenthesized_type":
		// Binary nodes nest to the left, so child order is source order.
		for _, c := range extractor.NamedChildren(n) {
			r.flattenType(mod, c, st, depth)
		}

	case "type_identifier":
		r.flattenNamed(mod, mod.Text(n), st, depth+1)

	case "generic_type":
		name := mod.Text(extractor.Field(n, "name"))
		if passThroughGenerics[name] {
			args := extractor.NamedChildren(extractor.Field(n, "type_arguments"))
			if len(args) > 0 {
				r.flattenUtility(mod, name, args, st, depth)
			}
			return
		}
		r.flattenNamed(mod, name, st, depth+1)
	}
}

// flattenUtility merges the fields of a utility type's first argument.
// Omit drops and Pick keeps the string-literal keys of the second argument.
// Without literal keys both merge every field. Partial and Required rewrite
// optionality.
func (r *Resolver) flattenUtility(mod *extractor.Module, name string, args []*ts.Node, st *flattenState, depth int) {
	sub := &flattenState{seen: make(map[string]bool), visited: st.visited}
	r.flattenType(mod, args[0], sub, depth)
	if sub.truncated {
		st.truncated = true
	}

	var keys map[string]bool
	if len(args) > 1 && (name == "Omit" || name == "Pick") {
		keys = literalKeys(mod, args[1])
	}
	for i, f := range sub.fields {
		switch name {
		case "Omit":
			if keys[f.Name] {
				continue
			}
		case "Pick":
			if len(keys) > 0 && !keys[f.Name] {
				continue
			}
		case "Partial":
			f.Optional, f.Required = true, false
		case "Required":
			f.Optional, f.Required = false, true
		}
		st.add(f, sub.origins[i])
	}
}

// literalKeys collects the string literals of a key type such as
// 'a' | "b".
func literalKeys(mod *extractor.Module, n *ts.Node) map[string]bool {
	keys := make(map[string]bool)
	extractor.Walk(n, func(c *ts.Node) bool {
		if c.Kind() == "string" {
			keys[extractor.Unquote(mod.Text(c))] = true
			return false
		}
		return true
	})
	return keys
}

// flattenNamed resolves a type name through the same-file and import walk
// and merges its fields.
func (r *Resolver) flattenNamed(mod *extractor.Module, name string, st *flattenState, depth int) {
	if depth > r.maxDepth {
		st.truncated = true
		return
	}
	l := r.find(mod, name, typeKinds, 0, make(map[visitKey]bool))
	if l.truncated {
		st.truncated = true
	}
	if !l.found() {
		return
	}
	r.flattenDecl(l.mod, l.decl, st, depth)
}

func (r *Resolver) collectMembers(mod *extractor.Module, body *ts.Node, st *flattenState, depth int) {
	if body == nil {
		return
	}
	count := body.ChildCount()
	for i := uint(0); i < count; i++ {
		member := body.Child(i)
		if member == nil {
			continue
		}
		var f catalog.PropField
		switch member.Kind() {
		case "property_signature":
			f.Name = extractor.Unquote(mod.Text(extractor.Field(member, "name")))
			f.Type = extractor.TypeAnnotationText(extractor.Field(member, "type"), mod.Source)
			f.Optional = extractor.HasToken(member, "?")
		case "method_signature":
			f.Name = extractor.Unquote(mod.Text(extractor.Field(member, "name")))
			f.Type = methodType(mod, member)
			f.Optional = extractor.HasToken(member, "?")
		default:
			continue
		}
		if f.Name == "" {
			continue
		}
		if f.Type == "" {
			f.Type = "any"
		}
		f.Required = !f.Optional
		f.Description, f.Deprecated = leadingDoc(body, i, mod.Source)
		st.add(f, mod.Path)
	}
}

// methodType renders `onClick(e: Event): void` as `(e: Event) => void`.
func methodType(mod *extractor.Module, m *ts.Node) string {
	params := mod.Text(extractor.Field(m, "parameters"))
	ret := extractor.TypeAnnotationText(extractor.Field(m, "return_type"), mod.Source)
	if ret == "" {
		ret = "void"
	}
	return strings.TrimSpace(params) + " => " + ret
}

// passThroughRaw follows `type A = B` forwarding one name at a time and
// returns the text of the last declaration reached.
func (r *Resolver) passThroughRaw(loc *Located) string {
	mod, decl := loc.Module, loc.Decl
	raw := mod.DeclarationText(decl)
	visited := map[visitKey]bool{{name: decl.Name, file: mod.Path}: true}

	for depth := 0; depth < r.maxDepth && decl.Kind == extractor.DeclTypeAlias; depth++ {
		value := extractor.Field(decl.Node, "value")
		if value == nil || value.Kind() != "type_identifier" {
			break
		}
		target := mod.Text(value)
		if target == decl.Name {
			break
		}
		l := r.find(mod, target, typeKinds, 0, make(map[visitKey]bool))
		if !l.found() {
			break
		}
		key := visitKey{name: l.decl.Name, file: l.mod.Path}
		if visited[key] {
			break
		}
		visited[key] = true
		mod, decl = l.mod, l.decl
		raw = mod.DeclarationText(decl)
	}
	return raw
}
