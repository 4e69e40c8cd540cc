// Package resolver follows names across module boundaries: it locates props
// declarations, flattens them into fields, resolves dependent types and
// reads hook/helper signatures.
//
// Every walk shares one guard: a visited set keyed by (name, file) plus a
// maximum depth. Hitting the depth limit is reported, never fatal.
package resolver

import (
	"log/slog"

	"github.com/gnana997/uicontext/pkg/extractor"
)

// DefaultMaxDepth bounds import, re-export and type-reference chains.
const DefaultMaxDepth = 8

// Options configures a Resolver.
type Options struct {
	MaxDepth int
	Logger   *slog.Logger
}

// Resolver answers lookups against a module cache. Like the cache it wraps,
// a Resolver belongs to one goroutine.
type Resolver struct {
	cache    *Cache
	paths    *PathResolver
	maxDepth int
	logger   *slog.Logger
}

// New creates a resolver over cache.
func New(cache *Cache, paths *PathResolver, opts Options) *Resolver {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Resolver{cache: cache, paths: paths, maxDepth: opts.MaxDepth, logger: opts.Logger}
}

// Paths returns the specifier resolver.
func (r *Resolver) Paths() *PathResolver { return r.paths }

// Module opens a module through the cache.
func (r *Resolver) Module(path string) (*extractor.Module, error) {
	return r.cache.Module(path)
}

type visitKey struct {
	name string
	file string
}

var (
	typeKinds = []extractor.DeclKind{extractor.DeclInterface, extractor.DeclTypeAlias}
	depKinds  = []extractor.DeclKind{extractor.DeclEnum, extractor.DeclTypeAlias, extractor.DeclInterface}
)

// lookup is the result of following a name through imports and re-exports.
type lookup struct {
	mod  *extractor.Module
	decl *extractor.Declaration

	// from is the specifier of the first import or re-export hop when the
	// chain left the project or ended without a declaration.
	from string
	// truncated is set when the depth limit stopped the walk.
	truncated bool
}

func (l lookup) found() bool { return l.decl != nil }

// find resolves name as seen from mod. It checks local declarations of the
// given kinds (any kind when empty), then import bindings, then re-exports
// and star exports, recursing one module at a time.
func (r *Resolver) find(mod *extractor.Module, name string, kinds []extractor.DeclKind, depth int, visited map[visitKey]bool) lookup {
	if mod == nil || name == "" {
		return lookup{}
	}
	key := visitKey{name: name, file: mod.Path}
	if visited[key] {
		return lookup{}
	}
	visited[key] = true
	if depth > r.maxDepth {
		return lookup{truncated: true}
	}

	if d, ok := mod.Declaration(name, kinds...); ok {
		return lookup{mod: mod, decl: d}
	}
	// A local declaration of another kind shadows imports of the same name.
	if _, ok := mod.Declaration(name); ok {
		return lookup{}
	}

	if imp, ok := mod.Import(name); ok && imp.Kind != extractor.ImportNamespace {
		return r.follow(mod, imp.Source, imp.Imported, kinds, depth, visited)
	}

	if exp, ok := mod.Export(name); ok {
		switch exp.Kind {
		case extractor.ExportReExport:
			return r.follow(mod, exp.Source, exp.Local, kinds, depth, visited)
		case extractor.ExportLocal, extractor.ExportDefault:
			if exp.Local != "" && exp.Local != name {
				return r.find(mod, exp.Local, kinds, depth+1, visited)
			}
		}
	}

	var truncated bool
	for _, spec := range mod.StarSources() {
		res := r.paths.Resolve(mod.Path, spec)
		if !res.Found() {
			continue
		}
		target, err := r.cache.Module(res.Path)
		if err != nil {
			continue
		}
		if l := r.find(target, name, kinds, depth+1, visited); l.found() {
			return l
		} else if l.truncated {
			truncated = true
		}
	}
	return lookup{truncated: truncated}
}

// follow continues a lookup into the module named by spec.
func (r *Resolver) follow(from *extractor.Module, spec, name string, kinds []extractor.DeclKind, depth int, visited map[visitKey]bool) lookup {
	res := r.paths.Resolve(from.Path, spec)
	if !res.Found() {
		return lookup{from: spec}
	}
	target, err := r.cache.Module(res.Path)
	if err != nil {
		return lookup{from: spec}
	}
	if name == "default" {
		if exp, ok := target.Export("default"); ok && exp.Local != "" {
			name = exp.Local
		}
	}
	l := r.find(target, name, kinds, depth+1, visited)
	if !l.found() && l.from == "" && !l.truncated {
		l.from = spec
	}
	return l
}
