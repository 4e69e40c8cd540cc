package resolver

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gnana997/uicontext/pkg/parser"
)

// DefaultAliases maps the library's path-alias prefixes to root-relative
// directories.
var DefaultAliases = map[string]string{
	"@vanguard": "src/core",
	"@common":   "src/common",
	"@helpers":  "src/helpers",
	"@services": "src/services",
	"@stores":   "src/stores",
}

// Resolution is the outcome of resolving a module specifier.
type Resolution struct {
	// Path is the absolute file path. Empty when the module is external or
	// no file matched.
	Path string
	// External is set for bare package specifiers and targets outside Root.
	External bool
}

// Found reports whether a project file was found.
func (r Resolution) Found() bool { return r.Path != "" }

// PathResolver turns module specifiers into project files.
type PathResolver struct {
	Root string

	aliases []alias
}

type alias struct {
	prefix string
	dir    string
}

// NewPathResolver creates a resolver for root. A nil alias map selects
// DefaultAliases.
func NewPathResolver(root string, aliases map[string]string) *PathResolver {
	if aliases == nil {
		aliases = DefaultAliases
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	pr := &PathResolver{Root: abs}
	for prefix, dir := range aliases {
		pr.aliases = append(pr.aliases, alias{prefix: strings.TrimSuffix(prefix, "/"), dir: dir})
	}
	// Longest prefix first so @common/x never matches @com.
	sort.Slice(pr.aliases, func(i, j int) bool {
		if len(pr.aliases[i].prefix) != len(pr.aliases[j].prefix) {
			return len(pr.aliases[i].prefix) > len(pr.aliases[j].prefix)
		}
		return pr.aliases[i].prefix < pr.aliases[j].prefix
	})
	return pr
}

// Resolve resolves spec as imported from the file fromFile.
func (pr *PathResolver) Resolve(fromFile, spec string) Resolution {
	var base string
	switch {
	case strings.HasPrefix(spec, "./"), strings.HasPrefix(spec, "../"), spec == ".", spec == "..":
		base = filepath.Join(filepath.Dir(fromFile), filepath.FromSlash(spec))
	case strings.HasPrefix(spec, "/"):
		base = filepath.Join(pr.Root, filepath.FromSlash(spec))
	default:
		dir, ok := pr.expandAlias(spec)
		if !ok {
			return Resolution{External: true}
		}
		base = dir
	}

	if !pr.inside(base) {
		return Resolution{External: true}
	}
	if path, ok := probe(base); ok {
		return Resolution{Path: path}
	}
	return Resolution{}
}

func (pr *PathResolver) expandAlias(spec string) (string, bool) {
	for _, a := range pr.aliases {
		if spec == a.prefix {
			return filepath.Join(pr.Root, filepath.FromSlash(a.dir)), true
		}
		if strings.HasPrefix(spec, a.prefix+"/") {
			rest := strings.TrimPrefix(spec, a.prefix+"/")
			return filepath.Join(pr.Root, filepath.FromSlash(a.dir), filepath.FromSlash(rest)), true
		}
	}
	return "", false
}

func (pr *PathResolver) inside(path string) bool {
	rel, err := filepath.Rel(pr.Root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Rel returns path relative to Root using forward slashes.
func (pr *PathResolver) Rel(path string) string {
	rel, err := filepath.Rel(pr.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// probe tries base as a file, then with each source extension, then as a
// directory index.
func probe(base string) (string, bool) {
	if isFile(base) && parser.IsSourceFile(base) {
		return base, true
	}
	for _, ext := range parser.SourceExtensions {
		if isFile(base + ext) {
			return base + ext, true
		}
	}
	for _, ext := range parser.SourceExtensions {
		index := filepath.Join(base, "index"+ext)
		if isFile(index) {
			return index, true
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
