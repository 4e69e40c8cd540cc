package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Patterns selects files below a directory. Paths are matched relative to
// that directory with forward slashes.
type Patterns struct {
	Include []string
	Exclude []string
}

// overlayPatterns picks up every overlay file under the metadata directory.
var overlayPatterns = Patterns{
	Include: []string{"**/*.json"},
	Exclude: []string{"**/node_modules/**", "**/.*/**"},
}

// storyPatterns picks up individual story files next to a component.
var storyPatterns = Patterns{
	Include: []string{"stories/*.story.tsx", "stories/*.story.jsx"},
}

// DiscoverFiles walks dir applying include/exclude globs. Returns a sorted
// slice of absolute file paths for deterministic output. A missing dir
// yields no files.
func DiscoverFiles(dir string, p Patterns) ([]string, error) {
	for _, pattern := range p.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range p.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	if _, err := os.Stat(absDir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Continue walking on errors.
		}

		relPath, err := filepath.Rel(absDir, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)
		if relPath == "." {
			return nil
		}

		for _, pattern := range p.Exclude {
			if matched, _ := doublestar.Match(pattern, relPath); matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}

		if len(p.Include) > 0 {
			matched := false
			for _, pattern := range p.Include {
				if m, _ := doublestar.Match(pattern, relPath); m {
					matched = true
					break
				}
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
