package resolver

import (
	"github.com/gnana997/uicontext/pkg/catalog"
	"github.com/gnana997/uicontext/pkg/extractor"
)

// SignatureResult is the signature of a hook or helper and the types it
// references.
type SignatureResult struct {
	Signature      *catalog.Signature
	DependentTypes map[string]catalog.DependentType
	File           string
}

// Signature reads the declared signature of an exported function, variable
// or class. ok is false when the export cannot be resolved.
func (r *Resolver) Signature(modulePath, exportName string) (SignatureResult, bool) {
	exp, ok, _ := r.FindExport(modulePath, exportName)
	if !ok {
		return SignatureResult{}, false
	}
	mod, decl := exp.Module, exp.Decl
	res := SignatureResult{File: mod.Path}

	switch decl.Kind {
	case extractor.DeclClass:
		res.Signature = &catalog.Signature{Kind: "class"}
		res.DependentTypes = map[string]catalog.DependentType{}
		return res, true
	}

	if fn := mod.Callable(decl); fn != nil {
		sig := &catalog.Signature{Kind: "function", ReturnType: mod.ReturnType(fn)}
		texts := []string{sig.ReturnType}
		for _, p := range mod.Parameters(fn) {
			sig.Parameters = append(sig.Parameters, catalog.Param{Name: p.Name, Type: p.Type, Optional: p.Optional})
			texts = append(texts, p.Type)
		}
		res.Signature = sig
		res.DependentTypes = r.DependentTypes(mod.Path, texts)
		return res, true
	}

	// Variables: report the declared type, if any.
	sig := &catalog.Signature{Kind: "variable"}
	if decl.Kind == extractor.DeclVariable {
		sig.Raw = extractor.TypeAnnotationText(extractor.Field(decl.Node, "type"), mod.Source)
	}
	res.Signature = sig
	res.DependentTypes = r.DependentTypes(mod.Path, []string{sig.Raw})
	return res, true
}
