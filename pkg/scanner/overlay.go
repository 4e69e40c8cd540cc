package scanner

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnana997/uicontext/pkg/catalog"
)

// Overlays holds the author metadata found under the metadata directory.
type Overlays struct {
	byName map[string]*catalog.Overlay
	// withID keeps overlays carrying an id in load order, which is sorted
	// file order.
	withID []idOverlay
	count  int
}

type idOverlay struct {
	slug    string
	overlay *catalog.Overlay
}

// LoadOverlays reads every JSON file under dir. Unreadable or malformed
// files are logged and skipped; a missing dir is empty.
func LoadOverlays(dir string, logger *slog.Logger) (*Overlays, error) {
	o := &Overlays{byName: map[string]*catalog.Overlay{}}
	if dir == "" {
		return o, nil
	}
	files, err := DiscoverFiles(dir, overlayPatterns)
	if err != nil {
		return nil, fmt.Errorf("discover overlays: %w", err)
	}
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			logger.Warn("skipping unreadable overlay", "path", f, "error", err)
			continue
		}
		var ov catalog.Overlay
		if err := json.Unmarshal(data, &ov); err != nil {
			logger.Warn("skipping malformed overlay", "path", f, "error", err)
			continue
		}
		if ov.Name == "" && ov.ID == "" {
			ov.Name = strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		}
		o.add(&ov)
	}
	return o, nil
}

func (o *Overlays) add(ov *catalog.Overlay) {
	o.count++
	if ov.Name != "" {
		o.byName[ov.Name] = ov
	}
	if ov.ID != "" {
		_, slug := catalog.SplitItemID(ov.ID)
		o.withID = append(o.withID, idOverlay{slug: slug, overlay: ov})
	}
}

// Len returns the number of overlays loaded.
func (o *Overlays) Len() int {
	if o == nil {
		return 0
	}
	return o.count
}

// For returns the overlay of an export: by exact name, otherwise by an id
// whose slug reverses to the name, the first loaded winning. Nil when there
// is none.
func (o *Overlays) For(name string, kind catalog.Kind) *catalog.Overlay {
	if o == nil {
		return nil
	}
	if ov, ok := o.byName[name]; ok {
		return ov
	}
	for _, e := range o.withID {
		if catalog.DenormalizeID(e.slug, kind) == name {
			return e.overlay
		}
	}
	return nil
}
