package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/gnana997/uicontext/pkg/catalog"
	"github.com/gnana997/uicontext/pkg/extractor"
	"github.com/gnana997/uicontext/pkg/parser/queries"
	"github.com/gnana997/uicontext/pkg/resolver"
)

var (
	hookName     = regexp.MustCompile(`^use[A-Z0-9]`)
	constantName = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
	lookupMapName = regexp.MustCompile(`[a-z0-9]Map$`)
)

// ClassifyName applies the naming conventions: hooks start with "use"
// followed by a capital or digit. Services, ALL_CAPS constants and lookup
// tables ending in a lowercase letter plus "Map" (iconMap, AvatarIconMap)
// are excluded.
func ClassifyName(name string) (catalog.Kind, Verdict) {
	switch {
	case hookName.MatchString(name):
		return catalog.KindHook, Include
	case strings.HasSuffix(name, "Service") || strings.HasSuffix(name, "service"):
		return "", Exclude
	case isAllCaps(name):
		return "", Exclude
	case lookupMapName.MatchString(name):
		return "", Exclude
	}
	return "", Inconclusive
}

// isAllCaps is true for names of two or more characters with no lowercase
// letter, like "API" or "DEFAULT_SIZE".
func isAllCaps(name string) bool {
	return len(name) > 1 && constantName.MatchString(name)
}

// ClassifyShape maps a declaration shape to a kind. Wrappers and functions
// producing UI are components, other functions are helpers, and classes,
// values and type declarations are excluded.
func ClassifyShape(s Shape) (catalog.Kind, Verdict) {
	switch s.Decl {
	case ShapeClass, ShapeValue, ShapeTypeDecl:
		return "", Exclude
	case ShapeWrapped:
		return catalog.KindComponent, Include
	case ShapeFunction, ShapeArrow:
		if s.Return == ReturnUI {
			return catalog.KindComponent, Include
		}
		return catalog.KindHelper, Include
	}
	return "", Inconclusive
}

// ClassifyPath is the last resort: hooks and helpers live in their own
// directories, everything else is assumed to be a component.
func ClassifyPath(path string) catalog.Kind {
	p := strings.ToLower(strings.ReplaceAll(path, "\\", "/"))
	switch {
	case strings.Contains(p, "/hooks/") || strings.HasPrefix(p, "hooks/") || strings.Contains(p, "custom-hooks"):
		return catalog.KindHook
	case strings.Contains(p, "/helpers/") || strings.HasPrefix(p, "helpers/") || strings.HasPrefix(p, "@helpers"):
		return catalog.KindHelper
	}
	return catalog.KindComponent
}

// Classifier sorts the public exports of an entry module into components,
// hooks and helpers.
type Classifier struct {
	r   *resolver.Resolver
	qm  *queries.QueryManager
	log *slog.Logger
}

// NewClassifier creates a classifier over r.
func NewClassifier(r *resolver.Resolver, qm *queries.QueryManager, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{r: r, qm: qm, log: logger}
}

// Classify reads entryPath and classifies every exported name.
func (c *Classifier) Classify(ctx context.Context, entryPath string) (*Classification, error) {
	exports, err := c.r.PublicExports(entryPath)
	if err != nil {
		return nil, fmt.Errorf("read entry module: %w", err)
	}

	var order []string
	entries := make(map[string]ExportEntry)
	skipped := 0
	for _, pe := range exports {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if pe.Truncated {
			c.log.Warn("export chain truncated", "spec", pe.ModuleSpec, "path", pe.ModulePath)
			continue
		}
		entry, ok := c.classifyExport(pe)
		if !ok {
			skipped++
			continue
		}
		if _, dup := entries[entry.Name]; !dup {
			order = append(order, entry.Name)
		}
		entries[entry.Name] = entry
	}

	out := &Classification{All: entries, Skipped: skipped}
	for _, name := range order {
		e := entries[name]
		switch e.Kind {
		case catalog.KindComponent:
			out.Components = append(out.Components, e)
		case catalog.KindHook:
			out.Hooks = append(out.Hooks, e)
		case catalog.KindHelper:
			out.Helpers = append(out.Helpers, e)
		}
	}
	c.log.Debug("classified exports",
		"components", len(out.Components), "hooks", len(out.Hooks),
		"helpers", len(out.Helpers), "skipped", skipped)
	return out, nil
}

func (c *Classifier) classifyExport(pe resolver.PublicExport) (ExportEntry, bool) {
	entry := ExportEntry{
		Name:       pe.Name,
		Local:      pe.Local,
		ModuleSpec: pe.ModuleSpec,
		ModulePath: pe.ModulePath,
		IsTypeOnly: pe.TypeOnly,
		Shape:      Shape{Decl: ShapeUnknown, Return: ReturnUnknown},
	}
	if pe.TypeOnly {
		return entry, false
	}

	var (
		mod  *extractor.Module
		decl *extractor.Declaration
	)
	if pe.ModulePath != "" {
		if exp, ok, _ := c.r.FindExport(pe.ModulePath, pe.Local); ok {
			mod, decl = exp.Module, exp.Decl
			entry.SourcePath = c.r.Paths().Rel(mod.Path)
		}
	}
	if decl != nil && (decl.Kind.IsType() || decl.Kind == extractor.DeclEnum) {
		return entry, false
	}

	kind, v := ClassifyName(pe.Name)
	switch v {
	case Include:
		entry.Kind = kind
		return entry, true
	case Exclude:
		return entry, false
	}

	if decl == nil {
		// Unresolvable exports are assumed to be components.
		entry.Kind = catalog.KindComponent
		return entry, true
	}

	entry.Shape = ShapeOf(c.qm, mod, decl)
	kind, v = ClassifyShape(entry.Shape)
	switch v {
	case Include:
		entry.Kind = kind
		return entry, true
	case Exclude:
		return entry, false
	}

	path := entry.SourcePath
	if pe.ModuleSpec != "" {
		path = pe.ModuleSpec + " " + path
	}
	entry.Kind = ClassifyPath(path)
	return entry, true
}
