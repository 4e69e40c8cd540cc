package scanner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gnana997/uicontext/pkg/catalog"
	"github.com/gnana997/uicontext/pkg/util"
)

// WriteArtifacts writes the detail files, the unified index and the
// catalogue under outDir. Files whose bytes would not change are left alone;
// a detail record that only differs in generatedAt counts as unchanged.
// Failing to write the catalogue is an error; detail and index failures are
// logged and counted.
func WriteArtifacts(outDir string, art *Artifacts, logger *slog.Logger) (WriteSummary, error) {
	var sum WriteSummary
	itemsDir := filepath.Join(outDir, catalog.ItemsDir)
	if err := os.MkdirAll(itemsDir, 0o755); err != nil {
		return sum, fmt.Errorf("create output directory: %w", err)
	}

	for _, d := range art.Details {
		_, slug := catalog.SplitItemID(d.ID)
		path := filepath.Join(itemsDir, catalog.DetailFileName(d.Kind, slug))
		changed, err := writeDetail(path, d)
		if err != nil {
			sum.Failed++
			logger.Error("failed to write detail", "item", d.ID, "path", path, "error", err)
			continue
		}
		sum.count(changed)
	}

	if art.Index != nil {
		changed, err := writeArtifact(filepath.Join(outDir, catalog.IndexFile), art.Index)
		if err != nil {
			sum.Failed++
			logger.Error("failed to write index", "error", err)
		} else {
			sum.count(changed)
		}
	}

	changed, err := writeArtifact(filepath.Join(outDir, catalog.CatalogueFile), art.Catalogue)
	if err != nil {
		return sum, fmt.Errorf("write catalogue: %w", err)
	}
	sum.count(changed)
	return sum, nil
}

func (s *WriteSummary) count(changed bool) {
	if changed {
		s.Written++
	} else {
		s.Unchanged++
	}
}

// writeDetail keeps the previous generatedAt when nothing else changed, so
// an unchanged item is not rewritten.
func writeDetail(path string, d *catalog.Detail) (bool, error) {
	if prev, err := catalog.LoadDetailFile(path); err == nil && prev.GeneratedAt != "" {
		same := *d
		same.GeneratedAt = prev.GeneratedAt
		data, err := catalog.MarshalArtifact(&same)
		if err != nil {
			return false, err
		}
		if util.SameContent(path, data) {
			return false, nil
		}
	}
	return writeArtifact(path, d)
}

// writeArtifact writes v as JSON unless the file already holds those bytes.
func writeArtifact(path string, v any) (bool, error) {
	data, err := catalog.MarshalArtifact(v)
	if err != nil {
		return false, err
	}
	if util.SameContent(path, data) {
		return false, nil
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return false, err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return false, err
	}
	return true, nil
}
