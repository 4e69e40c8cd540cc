package resolver

import (
	"github.com/gnana997/uicontext/pkg/extractor"
)

// PublicExport is one name exported by an entry module, after expanding
// `export * from` barrels.
type PublicExport struct {
	Name string
	// Local is the name to look up in ModulePath.
	Local string
	// ModuleSpec is the specifier written in the entry module, or the star
	// source that contributed the name. Empty for local declarations.
	ModuleSpec string
	// ModulePath is the file the specifier resolves to, or the entry module
	// itself for local declarations. Empty when unresolved.
	ModulePath string
	// TypeOnly is set for `export type` forms and for names whose
	// declaration only exists at the type level.
	TypeOnly bool
	// Truncated is set when star expansion hit the depth limit.
	Truncated bool
}

// PublicExports lists the names exported by modulePath in export order. Star
// exports are expanded recursively with the usual depth and visited guards.
func (r *Resolver) PublicExports(modulePath string) ([]PublicExport, error) {
	mod, err := r.cache.Module(modulePath)
	if err != nil {
		return nil, err
	}
	var out []PublicExport
	r.collectExports(mod, "", 0, make(map[string]bool), &out)
	return out, nil
}

func (r *Resolver) collectExports(mod *extractor.Module, viaSpec string, depth int, seen map[string]bool, out *[]PublicExport) {
	if seen[mod.Path] {
		return
	}
	seen[mod.Path] = true

	for _, exp := range mod.Exports {
		switch exp.Kind {
		case extractor.ExportStar:
			spec := exp.Source
			if viaSpec != "" {
				spec = viaSpec
			}
			res := r.paths.Resolve(mod.Path, exp.Source)
			if !res.Found() {
				continue
			}
			if depth >= r.maxDepth {
				*out = append(*out, PublicExport{ModuleSpec: spec, ModulePath: res.Path, Truncated: true})
				continue
			}
			target, err := r.cache.Module(res.Path)
			if err != nil {
				continue
			}
			r.collectExports(target, spec, depth+1, seen, out)

		case extractor.ExportDefault, extractor.ExportNamespace:
			// Default and namespace exports are not catalogue items.

		default:
			pe := PublicExport{Name: exp.Name, Local: exp.Local, TypeOnly: exp.TypeOnly}
			switch {
			case viaSpec != "":
				pe.ModuleSpec = viaSpec
				pe.ModulePath = mod.Path
				pe.Local = exp.Name
			case exp.Kind == extractor.ExportReExport:
				pe.ModuleSpec = exp.Source
				pe.ModulePath = r.paths.Resolve(mod.Path, exp.Source).Path
			default:
				pe.ModulePath = mod.Path
			}
			*out = append(*out, pe)
		}
	}
}
