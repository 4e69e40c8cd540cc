package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Artifact names inside the data directory.
const (
	CatalogueFile = "catalogue.json"
	IndexFile     = "index.json"
	ItemsDir      = "items"
)

// Validate checks the catalogue for internal consistency.
// Returns a slice of validation errors (empty slice if valid).
func (c *Catalogue) Validate() []error {
	var errs []error

	if c.Version == "" {
		errs = append(errs, fmt.Errorf("catalogue version is required"))
	}
	if c.GeneratedAt == "" {
		errs = append(errs, fmt.Errorf("catalogue generatedAt is required"))
	}

	ids := make(map[string]bool, len(c.Items))
	for i, it := range c.Items {
		if it.ID == "" {
			errs = append(errs, fmt.Errorf("items[%d]: id is required", i))
			continue
		}
		if ids[it.ID] {
			errs = append(errs, fmt.Errorf("items[%d]: duplicate id %q", i, it.ID))
		}
		ids[it.ID] = true
		if !it.Kind.Valid() {
			errs = append(errs, fmt.Errorf("item %q: invalid kind %q", it.ID, it.Kind))
		}
		if it.Name == "" {
			errs = append(errs, fmt.Errorf("item %q: name is required", it.ID))
		}
	}

	want := ComputeStats(c.Items)
	if c.Stats.TotalItems != c.Stats.TotalComponents+c.Stats.TotalHooks+c.Stats.TotalHelpers {
		errs = append(errs, fmt.Errorf("stats: totalItems %d is not the sum of per-kind counts", c.Stats.TotalItems))
	}
	if c.Stats.TotalComponents != want.TotalComponents || c.Stats.TotalHooks != want.TotalHooks || c.Stats.TotalHelpers != want.TotalHelpers {
		errs = append(errs, fmt.Errorf("stats: per-kind counts %d/%d/%d do not match items %d/%d/%d",
			c.Stats.TotalComponents, c.Stats.TotalHooks, c.Stats.TotalHelpers,
			want.TotalComponents, want.TotalHooks, want.TotalHelpers))
	}

	return errs
}

// LoadCatalogueFile reads and validates catalogue.json.
func LoadCatalogueFile(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue file: %w", err)
	}
	return LoadCatalogueBytes(data)
}

// LoadCatalogueBytes parses a catalogue from raw JSON bytes and validates it.
func LoadCatalogueBytes(data []byte) (*Catalogue, error) {
	var cat Catalogue
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue JSON: %w", err)
	}
	if errs := cat.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("catalogue validation failed: %w", errors.Join(errs...))
	}
	return &cat, nil
}

// LoadIndexFile reads index.json.
func LoadIndexFile(path string) (*UnifiedIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index file: %w", err)
	}
	var idx UnifiedIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("failed to parse index JSON: %w", err)
	}
	return &idx, nil
}

// LoadDetailFile reads one items/<kind>__<slug>.json record.
func LoadDetailFile(path string) (*Detail, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read detail file: %w", err)
	}
	var d Detail
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse detail JSON %s: %w", path, err)
	}
	if d.Name == "" || !d.Kind.Valid() {
		return nil, fmt.Errorf("detail %s: missing name or kind", path)
	}
	return &d, nil
}

// MarshalArtifact renders v as 2-space indented JSON with a trailing newline.
// HTML characters are left unescaped so type texts stay readable.
func MarshalArtifact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
