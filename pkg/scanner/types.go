// Package scanner turns a component library into catalogue artifacts. It
// classifies the entry module's public exports, analyzes each one through
// the resolver, merges author overlays and story files, and writes
// catalogue.json, index.json and one detail file per item.
package scanner

import (
	"io"
	"time"

	"github.com/gnana997/uicontext/pkg/catalog"
)

// Config configures one generation run. Paths are relative to Root unless
// absolute.
type Config struct {
	// Root is the library root directory.
	Root string
	// Entry is the barrel module whose exports form the public surface.
	Entry string
	// OutDir receives catalogue.json, index.json and items/.
	OutDir string
	// MetaDir holds one overlay JSON file per export. Optional.
	MetaDir string
	// Aliases maps import prefixes to root-relative directories. Nil selects
	// the resolver defaults.
	Aliases map[string]string
	// Workers is the analysis worker count. Zero picks one per CPU pair,
	// one or less runs sequentially.
	Workers int
	// MaxDepth bounds import and type-reference chains.
	MaxDepth int
	// Progress receives the step-by-step run summary. Nil discards it.
	Progress io.Writer
	// Now stamps generatedAt. Nil means time.Now.
	Now func() time.Time
}

// DefaultConfig returns the conventional layout of a library checkout.
func DefaultConfig() Config {
	return Config{
		Root:    ".",
		Entry:   "src/index.ts",
		OutDir:  ".uicontext/data",
		MetaDir: "src/exports-meta",
	}
}

// DeclShape is the syntactic form of an export's declaration.
type DeclShape string

const (
	ShapeFunction DeclShape = "function"
	ShapeArrow    DeclShape = "arrow"
	// ShapeWrapped is a forwardRef or memo call.
	ShapeWrapped  DeclShape = "wrapped"
	ShapeClass    DeclShape = "class"
	ShapeValue    DeclShape = "value"
	ShapeTypeDecl DeclShape = "typeDecl"
	ShapeUnknown  DeclShape = "unknown"
)

// ReturnShape says whether a function produces a UI tree.
type ReturnShape string

const (
	ReturnUI      ReturnShape = "ui"
	ReturnOther   ReturnShape = "other"
	ReturnUnknown ReturnShape = "unknown"
)

// Shape is what the classifier learned from a declaration.
type Shape struct {
	Decl   DeclShape
	Return ReturnShape
}

// Verdict is the outcome of one classification rule.
type Verdict int

const (
	// Inconclusive passes the export on to the next rule.
	Inconclusive Verdict = iota
	Include
	Exclude
)

// ExportEntry is one classified public export.
type ExportEntry struct {
	Name string
	// Local is the name to look up in ModulePath.
	Local string
	// ModuleSpec is the specifier the entry module exports it through.
	ModuleSpec string
	// ModulePath is the absolute file ModuleSpec resolves to.
	ModulePath string
	Kind       catalog.Kind
	IsTypeOnly bool
	// SourcePath is the root-relative declaring file, when resolved.
	SourcePath string
	Shape      Shape
}

// Classification is the classifier's output. The three lists are disjoint
// and keep the entry module's export order.
type Classification struct {
	Components []ExportEntry
	Hooks      []ExportEntry
	Helpers    []ExportEntry
	// All maps each classified name to its entry. Later duplicates win.
	All map[string]ExportEntry
	// Skipped counts exports dropped as type-only or by the name and shape
	// rules.
	Skipped int
}

// Entries returns components, hooks and helpers in catalogue order.
func (c *Classification) Entries() []ExportEntry {
	out := make([]ExportEntry, 0, len(c.Components)+len(c.Hooks)+len(c.Helpers))
	out = append(out, c.Components...)
	out = append(out, c.Hooks...)
	return append(out, c.Helpers...)
}

// Analysis is everything learned about one export.
type Analysis struct {
	Entry   ExportEntry
	Props   *catalog.PropsInfo
	Sig     *catalog.Signature
	SigDeps map[string]catalog.DependentType
	Stories []catalog.Story
	// Truncated is set when a walk stopped at the depth limit.
	Truncated bool
}

// Artifacts are the in-memory outputs of a run.
type Artifacts struct {
	Catalogue *catalog.Catalogue
	Index     *catalog.UnifiedIndex
	Details   []*catalog.Detail
}

// WriteSummary counts what the writer did.
type WriteSummary struct {
	Written   int
	Unchanged int
	Failed    int
}

// Stats records a run.
type Stats struct {
	Exports         int   `json:"exports"`
	Components      int   `json:"components"`
	Hooks           int   `json:"hooks"`
	Helpers         int   `json:"helpers"`
	Skipped         int   `json:"skipped"`
	Overlays        int   `json:"overlays"`
	WithProps       int   `json:"withProps"`
	WithStories     int   `json:"withStories"`
	Truncated       int   `json:"truncated"`
	Written         int   `json:"written"`
	Unchanged       int   `json:"unchanged"`
	Failed          int   `json:"failed"`
	ClassifyTimeMs  int64 `json:"classifyTimeMs"`
	AnalyzeTimeMs   int64 `json:"analyzeTimeMs"`
	WriteTimeMs     int64 `json:"writeTimeMs"`
	TotalTimeMs     int64 `json:"totalTimeMs"`
}

// Result is the outcome of Run.
type Result struct {
	Artifacts
	Stats Stats
}
