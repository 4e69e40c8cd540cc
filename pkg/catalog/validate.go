package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Report is the outcome of a validation pass. It never mutates the artifacts
// it inspects.
type Report struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Items    int      `json:"items"`
	Details  int      `json:"details"`
}

// OK reports whether no errors were found. Warnings do not fail a report.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

// Err joins the errors into one, or returns nil.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for _, e := range r.Errors {
		errs = append(errs, errors.New(e))
	}
	return errors.Join(errs...)
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// rawItem keeps array fields untyped so shape errors are reported instead of
// failing the decode.
type rawItem struct {
	ID         string          `json:"id"`
	Kind       Kind            `json:"kind"`
	Name       string          `json:"name"`
	Summary    string          `json:"summary"`
	Keywords   json.RawMessage `json:"keywords"`
	Tags       json.RawMessage `json:"tags"`
	DetailsRef string          `json:"detailsRef"`
}

type rawCatalogue struct {
	Version     string          `json:"version"`
	GeneratedAt string          `json:"generatedAt"`
	Stats       *Stats          `json:"stats"`
	Items       json.RawMessage `json:"items"`
}

// ValidateArtifacts checks the catalogue in dataDir and every detail file it
// references.
func ValidateArtifacts(dataDir string) *Report {
	r := &Report{}

	data, err := os.ReadFile(filepath.Join(dataDir, CatalogueFile))
	if err != nil {
		r.errorf("catalogue not readable: %v", err)
		return r
	}
	var cat rawCatalogue
	if err := json.Unmarshal(data, &cat); err != nil {
		r.errorf("catalogue is not valid JSON: %v", err)
		return r
	}
	if cat.Version == "" {
		r.errorf("catalogue: missing version")
	}
	if cat.GeneratedAt == "" {
		r.errorf("catalogue: missing generatedAt")
	}
	if cat.Stats == nil {
		r.errorf("catalogue: missing stats")
	}

	var rawItems []json.RawMessage
	if !isArray(cat.Items) || json.Unmarshal(cat.Items, &rawItems) != nil {
		r.errorf("catalogue: items must be an array")
		return r
	}
	r.Items = len(rawItems)

	counts := map[Kind]int{}
	withMeta := 0
	ids := make(map[string]int, len(rawItems))
	for i, raw := range rawItems {
		var it rawItem
		if err := json.Unmarshal(raw, &it); err != nil {
			r.errorf("items[%d]: %v", i, err)
			continue
		}
		label := it.ID
		if label == "" {
			label = fmt.Sprintf("items[%d]", i)
			r.errorf("%s: missing id", label)
		} else if prev, dup := ids[it.ID]; dup {
			r.errorf("%s: duplicate id (first at items[%d])", label, prev)
		} else {
			ids[it.ID] = i
		}
		if !it.Kind.Valid() {
			r.errorf("%s: invalid kind %q", label, it.Kind)
		} else {
			counts[it.Kind]++
		}
		if it.Name == "" {
			r.errorf("%s: missing name", label)
		}

		var keywords []string
		if !isArray(it.Keywords) || json.Unmarshal(it.Keywords, &keywords) != nil {
			r.errorf("%s: keywords must be an array", label)
		}
		if !isArray(it.Tags) {
			r.errorf("%s: tags must be an array", label)
		}
		if it.Summary != "" || len(keywords) > 0 {
			withMeta++
		}

		if it.DetailsRef == "" {
			r.warnf("%s: missing detailsRef", label)
			continue
		}
		r.checkDetail(dataDir, label, it.DetailsRef)
	}

	if cat.Stats != nil {
		s := cat.Stats
		if s.TotalItems != s.TotalComponents+s.TotalHooks+s.TotalHelpers {
			r.errorf("stats: totalItems %d != %d + %d + %d", s.TotalItems, s.TotalComponents, s.TotalHooks, s.TotalHelpers)
		}
		if s.TotalComponents != counts[KindComponent] {
			r.errorf("stats: totalComponents %d but %d component items", s.TotalComponents, counts[KindComponent])
		}
		if s.TotalHooks != counts[KindHook] {
			r.errorf("stats: totalHooks %d but %d hook items", s.TotalHooks, counts[KindHook])
		}
		if s.TotalHelpers != counts[KindHelper] {
			r.errorf("stats: totalHelpers %d but %d helper items", s.TotalHelpers, counts[KindHelper])
		}
		if s.ItemsWithMetadata != withMeta {
			r.warnf("stats: itemsWithMetadata %d but %d items carry metadata", s.ItemsWithMetadata, withMeta)
		}
		if want := coverage(withMeta, len(rawItems)); math.Abs(s.CoveragePercent-want) > 0.01 {
			r.warnf("stats: coveragePercent %.2f, expected %.2f", s.CoveragePercent, want)
		}
	}
	return r
}

func (r *Report) checkDetail(dataDir, label, ref string) {
	path := filepath.Join(dataDir, filepath.FromSlash(ref))
	data, err := os.ReadFile(path)
	if err != nil {
		r.errorf("%s: detail file %s missing", label, ref)
		return
	}
	var d map[string]any
	if err := json.Unmarshal(data, &d); err != nil {
		r.errorf("%s: detail file %s is not valid JSON: %v", label, ref, err)
		return
	}
	r.Details++
}

func isArray(raw json.RawMessage) bool {
	for _, c := range raw {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}
