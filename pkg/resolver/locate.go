package resolver

import (
	"github.com/gnana997/uicontext/pkg/extractor"
)

// Located is a props declaration found by the locator.
type Located struct {
	Module *extractor.Module
	Decl   *extractor.Declaration
	Kind   extractor.DeclKind // DeclInterface or DeclTypeAlias
}

// PropsCandidates returns the conventional props names for an export.
func PropsCandidates(exportName string) []string {
	return []string{"Props", exportName + "Props"}
}

// Locate finds the first candidate declared as an interface or type alias in
// modulePath or in a module it imports. Returns nil when nothing matches.
func (r *Resolver) Locate(modulePath string, candidates []string) *Located {
	mod, err := r.cache.Module(modulePath)
	if err != nil {
		return nil
	}
	return r.locateIn(mod, candidates)
}

func (r *Resolver) locateIn(mod *extractor.Module, candidates []string) *Located {
	for _, name := range candidates {
		l := r.find(mod, name, typeKinds, 0, make(map[visitKey]bool))
		if l.found() {
			return &Located{Module: l.mod, Decl: l.decl, Kind: l.decl.Kind}
		}
	}
	return nil
}

// LocateForExport locates the props of an exported component or hook. It
// tries the conventional names first, then falls back to the type of the
// export's first parameter or the generic arguments of its wrapper call.
func (r *Resolver) LocateForExport(modulePath, exportName string) *Located {
	mod, err := r.cache.Module(modulePath)
	if err != nil {
		return nil
	}
	if loc := r.locateIn(mod, PropsCandidates(exportName)); loc != nil {
		return loc
	}

	// The declaring module may be further down a barrel chain.
	decl := r.find(mod, exportName, nil, 0, make(map[visitKey]bool))
	if !decl.found() {
		return nil
	}
	if decl.mod != mod {
		if loc := r.locateIn(decl.mod, PropsCandidates(exportName)); loc != nil {
			return loc
		}
	}
	var names []string
	if fn := decl.mod.Callable(decl.decl); fn != nil {
		names = decl.mod.FirstParamTypeNames(fn)
	}
	names = append(names, decl.mod.WrapperPropsTypeNames(decl.decl)...)
	for _, name := range names {
		if isBuiltinType(name) {
			continue
		}
		if loc := r.locateIn(decl.mod, []string{name}); loc != nil {
			return loc
		}
	}
	return nil
}

// Export is a resolved export: the module that declares it and the
// declaration itself.
type Export struct {
	Module *extractor.Module
	Decl   *extractor.Declaration
}

// FindExport follows name from modulePath through re-exports to its
// declaration. ok is false when the chain cannot be resolved; truncated is
// set when the depth limit stopped it.
func (r *Resolver) FindExport(modulePath, name string) (exp Export, ok bool, truncated bool) {
	mod, err := r.cache.Module(modulePath)
	if err != nil {
		return Export{}, false, false
	}
	l := r.find(mod, name, nil, 0, make(map[visitKey]bool))
	if !l.found() {
		return Export{}, false, l.truncated
	}
	return Export{Module: l.mod, Decl: l.decl}, true, false
}
