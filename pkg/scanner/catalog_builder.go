package scanner

import (
	"strings"

	"github.com/gnana997/uicontext/pkg/catalog"
)

// BuildArtifacts assembles the catalogue, the detail records and the unified
// index from analyzed exports. Analyses are expected in catalogue order:
// components, hooks, helpers. Stats are computed from the built items.
func BuildArtifacts(analyses []Analysis, overlays *Overlays, generatedAt string) *Artifacts {
	items := make([]catalog.Item, 0, len(analyses))
	details := make([]*catalog.Detail, 0, len(analyses))
	index := &catalog.UnifiedIndex{
		Version:     catalog.IndexVersion,
		GeneratedAt: generatedAt,
		Components:  []catalog.IndexComponent{},
		Hooks:       []catalog.IndexFunction{},
		Helpers:     []catalog.IndexFunction{},
	}

	for _, an := range analyses {
		e := an.Entry
		ov := overlays.For(e.Name, e.Kind)
		item := buildItem(e, ov)
		detail := buildDetail(item, an, ov, generatedAt)
		items = append(items, item)
		details = append(details, detail)

		switch e.Kind {
		case catalog.KindComponent:
			index.Components = append(index.Components, catalog.IndexComponent{
				ID:            catalog.NormalizeID(e.Name),
				Name:          e.Name,
				DisplayName:   e.Name,
				ComponentPath: e.SourcePath,
				StoryCount:    detail.StoryCount,
				HasStorybook:  detail.HasStorybook,
				Category:      detail.Category,
				Tags:          item.Tags,
			})
		case catalog.KindHook:
			index.Hooks = append(index.Hooks, indexFunction(e, an))
		case catalog.KindHelper:
			index.Helpers = append(index.Helpers, indexFunction(e, an))
		}
	}

	index.Stats = indexStats(index)
	cat := &catalog.Catalogue{
		Version:     catalog.CatalogueVersion,
		GeneratedAt: generatedAt,
		Stats:       catalog.ComputeStats(items),
		Items:       items,
	}
	return &Artifacts{Catalogue: cat, Index: index, Details: details}
}

func buildItem(e ExportEntry, ov *catalog.Overlay) catalog.Item {
	item := catalog.Item{
		ID:         catalog.ItemID(e.Kind, e.Name),
		Kind:       e.Kind,
		Name:       e.Name,
		Keywords:   []string{},
		Tags:       []string{},
		Source:     catalog.Source{Path: e.SourcePath, ModuleSpec: e.ModuleSpec},
		DetailsRef: catalog.DetailsRef(e.Kind, e.Name),
	}
	if ov != nil {
		item.Summary = ov.Summary
		if ov.Keywords != nil {
			item.Keywords = ov.Keywords
		}
		if ov.Tags != nil {
			item.Tags = ov.Tags
		}
	}
	return item
}

func buildDetail(item catalog.Item, an Analysis, ov *catalog.Overlay, generatedAt string) *catalog.Detail {
	d := &catalog.Detail{
		ID:          item.ID,
		Kind:        item.Kind,
		Name:        item.Name,
		DisplayName: item.Name,
		Summary:     item.Summary,
		Keywords:    item.Keywords,
		Tags:        item.Tags,
		Source:      item.Source,
		Props:       an.Props,
		Signature:   an.Sig,
		Stories:     an.Stories,
		StoryCount:  len(an.Stories),
		GeneratedAt: generatedAt,
	}
	d.HasStorybook = d.StoryCount > 0
	if len(an.SigDeps) > 0 {
		d.DependentTypes = an.SigDeps
	}
	if item.Kind == catalog.KindComponent {
		d.Category = Category(an.Entry)
	}
	if ov != nil {
		d.Description = ov.Description
		d.RelatedComponents = ov.RelatedComponents
	}
	return d
}

func indexFunction(e ExportEntry, an Analysis) catalog.IndexFunction {
	return catalog.IndexFunction{
		ID:        catalog.NormalizeID(e.Name),
		Name:      e.Name,
		FilePath:  e.SourcePath,
		Signature: an.Sig,
	}
}

// Category places a component in "common" when its module specifier or
// declaring file sits under a common directory, otherwise in "core".
func Category(e ExportEntry) string {
	for _, p := range []string{e.ModuleSpec, e.SourcePath} {
		p = strings.ToLower(p)
		if strings.HasPrefix(p, "@common") || strings.Contains(p, "/common/") || strings.HasPrefix(p, "common/") {
			return catalog.CategoryCommon
		}
	}
	return catalog.CategoryCore
}

func indexStats(idx *catalog.UnifiedIndex) catalog.IndexStats {
	s := catalog.IndexStats{
		TotalComponents: len(idx.Components),
		TotalHooks:      len(idx.Hooks),
		TotalHelpers:    len(idx.Helpers),
	}
	for _, c := range idx.Components {
		if c.Category == catalog.CategoryCommon {
			s.CommonComponents++
		} else {
			s.CoreComponents++
		}
		if c.HasStorybook {
			s.ComponentsWithStorybook++
		}
	}
	return s
}
