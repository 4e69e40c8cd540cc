package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uicontext/pkg/util"
)

// --- Helpers ---

const testGeneratedAt = "2026-01-01T00:00:00Z"

func testItem(kind Kind, name, summary string, keywords, tags []string, path string) Item {
	if keywords == nil {
		keywords = []string{}
	}
	if tags == nil {
		tags = []string{}
	}
	return Item{
		ID:         ItemID(kind, name),
		Kind:       kind,
		Name:       name,
		Summary:    summary,
		Keywords:   keywords,
		Tags:       tags,
		Source:     Source{Path: path, ModuleSpec: "./" + filepath.Dir(path)},
		DetailsRef: DetailsRef(kind, name),
	}
}

func testItems() []Item {
	return []Item{
		testItem(KindComponent, "Button", "A clickable button", []string{"click", "action"}, []string{"forms", "actions"}, "src/core/Button/Button.tsx"),
		testItem(KindComponent, "IconButton", "Button with an icon", []string{"click", "icon"}, []string{"actions"}, "src/core/IconButton/IconButton.tsx"),
		testItem(KindComponent, "FileUpload", "Upload files by drag and drop", []string{"upload", "file"}, []string{"forms", "files"}, "src/common/FileUpload/FileUpload.tsx"),
		testItem(KindComponent, "Card", "", nil, nil, "src/core/Card/Card.tsx"),
		testItem(KindHook, "useToggle", "Boolean state", []string{"state"}, nil, "src/hooks/useToggle.ts"),
		testItem(KindHelper, "formatDate", "", nil, nil, "src/helpers/formatDate.ts"),
	}
}

func testCatalogue() *Catalogue {
	items := testItems()
	return &Catalogue{
		Version:     CatalogueVersion,
		GeneratedAt: testGeneratedAt,
		Stats:       ComputeStats(items),
		Items:       items,
	}
}

func testIndex() *UnifiedIndex {
	return &UnifiedIndex{
		Version:     IndexVersion,
		GeneratedAt: testGeneratedAt,
		Components: []IndexComponent{
			{ID: "button", Name: "Button", ComponentPath: "src/core/Button/Button.tsx", StoryCount: 2, HasStorybook: true, Category: CategoryCore},
			{ID: "icon-button", Name: "IconButton", ComponentPath: "src/core/IconButton/IconButton.tsx", Category: CategoryCore},
			{ID: "file-upload", Name: "FileUpload", ComponentPath: "src/common/FileUpload/FileUpload.tsx", Category: CategoryCommon},
			{ID: "card", Name: "Card", ComponentPath: "src/core/Card/Card.tsx", Category: CategoryCore},
		},
		Hooks:   []IndexFunction{{ID: "use-toggle", Name: "useToggle", FilePath: "src/hooks/useToggle.ts"}},
		Helpers: []IndexFunction{{ID: "format-date", Name: "formatDate", FilePath: "src/helpers/formatDate.ts"}},
	}
}

func testDetails() []*Detail {
	return []*Detail{
		{
			ID: "component:button", Kind: KindComponent, Name: "Button", DisplayName: "Button",
			Summary: "A clickable button", Description: "Triggers an action when pressed",
			Keywords: []string{"click", "action"}, Tags: []string{"forms", "actions"},
			Source:   Source{Path: "src/core/Button/Button.tsx"},
			Category: CategoryCore,
			Props: &PropsInfo{
				Fields: []PropField{
					{Name: "label", Type: "string", Required: true},
					{Name: "size", Type: "ButtonSize", Optional: true},
				},
				Raw: "interface ButtonProps { label: string; size?: ButtonSize }",
				DependentTypes: map[string]DependentType{
					"ButtonSize": {Kind: DepType, Text: "type ButtonSize = 'sm' | 'lg';"},
				},
			},
			Stories: []Story{
				{ID: "button--default", Name: "Default", FilePath: "src/core/Button/stories/Default.story.tsx"},
				{ID: "button--primary", Name: "Primary", FilePath: "src/core/Button/_Button.stories.tsx"},
			},
			StoryCount: 2, HasStorybook: true,
			GeneratedAt: testGeneratedAt,
		},
		{
			ID: "component:icon-button", Kind: KindComponent, Name: "IconButton", DisplayName: "IconButton",
			Source: Source{Path: "src/core/IconButton/IconButton.tsx"}, Category: CategoryCore,
			GeneratedAt: testGeneratedAt,
		},
		{
			ID: "component:file-upload", Kind: KindComponent, Name: "FileUpload", DisplayName: "FileUpload",
			Source: Source{Path: "src/common/FileUpload/FileUpload.tsx"}, Category: CategoryCommon,
			GeneratedAt: testGeneratedAt,
		},
		{
			ID: "hook:use-toggle", Kind: KindHook, Name: "useToggle", DisplayName: "useToggle",
			Source: Source{Path: "src/hooks/useToggle.ts"},
			Signature: &Signature{
				Kind:       "function",
				Parameters: []Param{{Name: "initial", Type: "boolean", Optional: true}},
				ReturnType: "[boolean, () => void]",
			},
			GeneratedAt: testGeneratedAt,
		},
		{
			ID: "helper:format-date", Kind: KindHelper, Name: "formatDate", DisplayName: "formatDate",
			Source:      Source{Path: "src/helpers/formatDate.ts"},
			GeneratedAt: testGeneratedAt,
		},
	}
}

const sharedStories = `import type { Story } from './stories/_Button.default';

export const Primary: Story = {
  // a comment with a stray }
  args: { label: "close }", onPress: () => {} },
};

export const Aliased: Story = _Aliased;
`

const defaultStory = `export const Default = { args: { label: "x" } };
`

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := MarshalArtifact(v)
	require.NoError(t, err)
	writeFile(t, path, data)
}

// writeTestProject lays out a project root with artifacts under
// .uicontext/data and returns (root, dataDir). Card has no detail file.
func writeTestProject(t *testing.T) (string, string) {
	t.Helper()
	root := t.TempDir()
	dataDir := filepath.Join(root, ".uicontext", "data")

	writeJSON(t, filepath.Join(dataDir, CatalogueFile), testCatalogue())
	writeJSON(t, filepath.Join(dataDir, IndexFile), testIndex())
	for _, d := range testDetails() {
		_, slug := SplitItemID(d.ID)
		writeJSON(t, filepath.Join(dataDir, ItemsDir, DetailFileName(d.Kind, slug)), d)
	}

	writeFile(t, filepath.Join(root, "src", "core", "Button", "_Button.stories.tsx"), []byte(sharedStories))
	writeFile(t, filepath.Join(root, "src", "core", "Button", "stories", "Default.story.tsx"), []byte(defaultStory))
	return root, dataDir
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	root, dataDir := writeTestProject(t)
	store, err := NewStore(StoreConfig{DataDir: dataDir, Root: root, DetailCacheSize: 4, Logger: util.NopLogger()})
	require.NoError(t, err)
	return store
}

// --- Slugs ---

func TestNormalizeID(t *testing.T) {
	cases := map[string]string{
		"AIOrb":       "a-i-orb",
		"Button":      "button",
		"PageSection": "page-section",
		"useToggle":   "use-toggle",
		"formatDate":  "format-date",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeID(in), in)
	}
}

func TestDenormalizeID(t *testing.T) {
	assert.Equal(t, "AIOrb", DenormalizeID("a-i-orb", KindComponent))
	assert.Equal(t, "PageSection", DenormalizeID("page-section", KindComponent))
	assert.Equal(t, "useToggle", DenormalizeID("use-toggle", KindHook))
	assert.Equal(t, "FormatDate", DenormalizeID("format-date", KindHelper))
}

func TestItemIDAndRefs(t *testing.T) {
	assert.Equal(t, "component:page-section", ItemID(KindComponent, "PageSection"))
	assert.Equal(t, "items/hook__use-toggle.json", DetailsRef(KindHook, "useToggle"))

	kind, slug := SplitItemID("hook:use-toggle")
	assert.Equal(t, KindHook, kind)
	assert.Equal(t, "use-toggle", slug)

	kind, slug = SplitItemID("use-toggle")
	assert.Empty(t, kind)
	assert.Equal(t, "use-toggle", slug)

	assert.True(t, ValidSlug("a-i-orb"))
	assert.False(t, ValidSlug("../secrets"))
	assert.False(t, ValidSlug(""))
}

// --- Stats ---

func TestComputeStats(t *testing.T) {
	s := ComputeStats(testItems())
	assert.Equal(t, 4, s.TotalComponents)
	assert.Equal(t, 1, s.TotalHooks)
	assert.Equal(t, 1, s.TotalHelpers)
	assert.Equal(t, s.TotalComponents+s.TotalHooks+s.TotalHelpers, s.TotalItems)
	assert.Equal(t, 4, s.ItemsWithMetadata)
	assert.Equal(t, 66.67, s.CoveragePercent)

	assert.Equal(t, Stats{}, ComputeStats(nil))
}

// --- Loading ---

func TestLoadCatalogueBytes_Valid(t *testing.T) {
	data, err := MarshalArtifact(testCatalogue())
	require.NoError(t, err)

	cat, err := LoadCatalogueBytes(data)
	require.NoError(t, err)
	assert.Len(t, cat.Items, 6)
}

func TestLoadCatalogueBytes_InvalidJSON(t *testing.T) {
	_, err := LoadCatalogueBytes([]byte("{not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse catalogue JSON")
}

func TestLoadCatalogueBytes_CountMismatch(t *testing.T) {
	cat := testCatalogue()
	cat.Stats.TotalHooks = 3
	data, err := MarshalArtifact(cat)
	require.NoError(t, err)

	_, err = LoadCatalogueBytes(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "totalItems")
	assert.Contains(t, err.Error(), "per-kind counts")
}

func TestCatalogueValidate_DuplicateID(t *testing.T) {
	cat := testCatalogue()
	cat.Items = append(cat.Items, cat.Items[0])
	cat.Stats = ComputeStats(cat.Items)

	errs := cat.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "duplicate id")
}

func TestMarshalArtifact_KeepsTypeText(t *testing.T) {
	data, err := MarshalArtifact(PropField{Name: "ref", Type: "Ref<HTMLDivElement> & {a: 1}"})
	require.NoError(t, err)
	assert.Contains(t, string(data), "Ref<HTMLDivElement> & {a: 1}")
	assert.Contains(t, string(data), "\n  \"name\"")
	assert.Equal(t, byte('\n'), data[len(data)-1])
}

// --- Validation pass ---

func TestValidateArtifacts_Valid(t *testing.T) {
	_, dataDir := writeTestProject(t)
	// Card has no detail file in the shared fixture.
	writeJSON(t, filepath.Join(dataDir, ItemsDir, DetailFileName(KindComponent, "card")),
		&Detail{ID: "component:card", Kind: KindComponent, Name: "Card"})

	r := ValidateArtifacts(dataDir)
	assert.True(t, r.OK(), "%v", r.Errors)
	assert.NoError(t, r.Err())
	assert.Empty(t, r.Warnings)
	assert.Equal(t, 6, r.Items)
	assert.Equal(t, 6, r.Details)
}

func TestValidateArtifacts_ReportsProblems(t *testing.T) {
	_, dataDir := writeTestProject(t)

	cat := testCatalogue()
	cat.Items = append(cat.Items, cat.Items[1])
	cat.Items[2].DetailsRef = ""
	cat.Stats.TotalItems = 99
	cat.Stats.CoveragePercent = 10
	writeJSON(t, filepath.Join(dataDir, CatalogueFile), cat)

	r := ValidateArtifacts(dataDir)
	require.False(t, r.OK())
	assert.Error(t, r.Err())

	joined := func(list []string) string {
		out := ""
		for _, s := range list {
			out += s + "\n"
		}
		return out
	}
	errs := joined(r.Errors)
	assert.Contains(t, errs, "duplicate id")
	assert.Contains(t, errs, "totalItems 99")
	assert.Contains(t, errs, "totalComponents 4 but 5")
	assert.Contains(t, errs, "detail file items/component__card.json missing")

	warnings := joined(r.Warnings)
	assert.Contains(t, warnings, "missing detailsRef")
	assert.Contains(t, warnings, "coveragePercent")
}

func TestValidateArtifacts_Shape(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, CatalogueFile), []byte(`{"version":"1.0.0","items":{}}`))

	r := ValidateArtifacts(dir)
	assert.Contains(t, r.Errors, "catalogue: missing generatedAt")
	assert.Contains(t, r.Errors, "catalogue: missing stats")
	assert.Contains(t, r.Errors, "catalogue: items must be an array")
}

func TestValidateArtifacts_Missing(t *testing.T) {
	r := ValidateArtifacts(t.TempDir())
	require.Len(t, r.Errors, 1)
	assert.Contains(t, r.Errors[0], "catalogue not readable")
}
