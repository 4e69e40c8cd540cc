package catalog

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uicontext/pkg/util"
)

func testQueryService(t *testing.T) *QueryService {
	t.Helper()
	return NewQueryService(newTestStore(t))
}

func resultNames(results []SearchResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Name)
	}
	return out
}

// --- Store ---

func TestStore_LazyLoadAndClear(t *testing.T) {
	store := newTestStore(t)
	assert.False(t, store.Ready())

	assert.Len(t, store.Catalogue().Items, 6)
	assert.True(t, store.Ready())

	store.ClearCache()
	assert.False(t, store.Ready())
	assert.Len(t, store.Index().Components, 4)
}

func TestStore_ConcurrentFirstAccess(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	cats := make([]*Catalogue, 8)
	details := make([]*Detail, 8)
	for i := range cats {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cats[i] = store.Catalogue()
			details[i] = store.Detail(KindComponent, "button")
		}(i)
	}
	wg.Wait()

	for i := range cats {
		assert.Same(t, cats[0], cats[i])
		require.NotNil(t, details[i])
		assert.Same(t, details[0], details[i])
	}
	assert.Equal(t, 1, store.CachedDetails())
}

func TestStore_MalformedArtifactsAreAbsent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, CatalogueFile), []byte("{broken"))
	writeFile(t, filepath.Join(dir, ItemsDir, "component__bad.json"), []byte("[]"))

	store, err := NewStore(StoreConfig{DataDir: dir, Logger: util.NopLogger()})
	require.NoError(t, err)

	assert.Empty(t, store.Catalogue().Items)
	assert.Empty(t, store.Index().Components)
	assert.Nil(t, store.Detail(KindComponent, "bad"))
}

func TestStore_ItemLookup(t *testing.T) {
	store := newTestStore(t)

	it, ok := store.Item(KindComponent, "IconButton")
	require.True(t, ok)
	assert.Equal(t, "component:icon-button", it.ID)

	it, ok = store.Item(KindComponent, "iconbutton")
	require.True(t, ok)
	assert.Equal(t, "IconButton", it.Name)

	_, ok = store.Item(KindHook, "IconButton")
	assert.False(t, ok)
	assert.Equal(t, CategoryCommon, store.Category("FileUpload"))
}

// --- Detail ---

func TestDetail(t *testing.T) {
	qs := testQueryService(t)

	d := qs.Detail(KindComponent, "button")
	require.NotNil(t, d)
	assert.Equal(t, "Button", d.Name)
	assert.Len(t, d.Props.Fields, 2)

	assert.NotNil(t, qs.Detail(KindComponent, "component:button"))
	assert.NotNil(t, qs.Detail(KindHook, "use-toggle"))
}

func TestDetail_MissIsNil(t *testing.T) {
	qs := testQueryService(t)

	assert.Nil(t, qs.Detail(KindComponent, "does-not-exist"))
	assert.Nil(t, qs.Detail(KindHook, "button"))
	assert.Nil(t, qs.Detail(KindComponent, "hook:use-toggle"))
	assert.Nil(t, qs.Detail(KindComponent, "../../catalogue"))
	assert.Nil(t, qs.Detail("widget", "button"))
}

// --- Search ---

func TestSearch_NameMode(t *testing.T) {
	qs := testQueryService(t)

	results := qs.Search(SearchOptions{Query: "button", Mode: ModeName})
	assert.Equal(t, []string{"Button", "IconButton"}, resultNames(results))
	for _, r := range results {
		assert.Equal(t, 1.0, r.Relevance)
		assert.Equal(t, "Matched name", r.MatchReason)
	}
	assert.Equal(t, 2, results[0].StoryCount)
	assert.Equal(t, CategoryCore, results[0].Category)
}

func TestSearch_ExactNameRanksFirst(t *testing.T) {
	qs := testQueryService(t)

	results := qs.Search(SearchOptions{Query: "Card", Mode: ModeName})
	require.NotEmpty(t, results)
	assert.Equal(t, "Card", results[0].Name)
	for _, r := range results[1:] {
		assert.LessOrEqual(t, r.Relevance, results[0].Relevance)
	}

	// In every mode an exact name scores at least as high as items that do
	// not contain it in their name.
	for _, mode := range SearchModes {
		results := qs.Search(SearchOptions{Query: "FileUpload", Mode: mode})
		var exact float64
		for _, r := range results {
			if r.Name == "FileUpload" {
				exact = r.Relevance
			}
		}
		for _, r := range results {
			if r.Name != "FileUpload" {
				assert.LessOrEqual(t, r.Relevance, exact, mode)
			}
		}
	}
}

func TestSearch_KeywordWeights(t *testing.T) {
	qs := testQueryService(t)

	results := qs.Search(SearchOptions{Query: "click", Mode: ModeKeyword})
	assert.Equal(t, []string{"Button", "IconButton"}, resultNames(results))
	assert.Equal(t, 0.5, results[0].Relevance)

	// name 10 + tag "files" 3 + summary 2, capped at 1.
	results = qs.Search(SearchOptions{Query: "file"})
	require.NotEmpty(t, results)
	assert.Equal(t, "FileUpload", results[0].Name)
	assert.Equal(t, 1.0, results[0].Relevance)
}

func TestSearch_DescriptionOnlyWhenSummaryMisses(t *testing.T) {
	qs := testQueryService(t)

	results := qs.Search(SearchOptions{Query: "triggers", Mode: ModeSemantic})
	require.Len(t, results, 1)
	assert.Equal(t, "Button", results[0].Name)
	assert.InDelta(t, 0.1, results[0].Relevance, 1e-9)
	assert.Equal(t, "Matched description", results[0].MatchReason)

	// "clickable" hits the summary, so the description adds nothing.
	results = qs.Search(SearchOptions{Query: "clickable", Mode: ModeSemantic})
	require.Len(t, results, 1)
	assert.InDelta(t, 0.2, results[0].Relevance, 1e-9)
}

func TestSearch_Filters(t *testing.T) {
	qs := testQueryService(t)

	results := qs.Search(SearchOptions{Query: "u", Tags: []string{"FORM"}})
	assert.Equal(t, []string{"Button", "FileUpload"}, resultNames(results))

	results = qs.Search(SearchOptions{Query: "u", Category: "Common"})
	assert.Equal(t, []string{"FileUpload"}, resultNames(results))

	results = qs.Search(SearchOptions{Query: "use", Kind: KindHook})
	assert.Equal(t, []string{"useToggle"}, resultNames(results))

	results = qs.Search(SearchOptions{Query: "button", Limit: 1})
	assert.Len(t, results, 1)
}

func TestSearch_NoMatch(t *testing.T) {
	qs := testQueryService(t)

	results := qs.Search(SearchOptions{Query: "zzz-nonexistent-zzz"})
	assert.NotNil(t, results)
	assert.Empty(t, results)
	assert.Empty(t, qs.Search(SearchOptions{Query: "   "}))
}

// --- Related ---

func TestRelated_All(t *testing.T) {
	qs := testQueryService(t)

	rel := qs.Related("Button", "", 0)
	require.NotNil(t, rel)
	assert.Equal(t, "Button", rel.Component)
	require.Len(t, rel.Related, 3)

	// category 10 + tag 5 + keyword 3 = 18
	assert.Equal(t, "IconButton", rel.Related[0].Name)
	assert.InDelta(t, 0.9, rel.Related[0].Score, 1e-9)
	assert.Equal(t, "Card", rel.Related[1].Name)
	assert.InDelta(t, 0.5, rel.Related[1].Score, 1e-9)
	assert.Equal(t, "FileUpload", rel.Related[2].Name)
	assert.InDelta(t, 0.25, rel.Related[2].Score, 1e-9)
}

func TestRelated_Types(t *testing.T) {
	qs := testQueryService(t)

	rel := qs.Related("button", RelSameTags, 10)
	require.NotNil(t, rel)
	names := []string{}
	for _, r := range rel.Related {
		names = append(names, r.Name)
		assert.InDelta(t, 0.25, r.Score, 1e-9)
	}
	assert.Equal(t, []string{"IconButton", "FileUpload"}, names)

	rel = qs.Related("Button", RelSameCategory, 1)
	require.Len(t, rel.Related, 1)
	assert.Equal(t, "IconButton", rel.Related[0].Name)
	assert.Contains(t, rel.Related[0].Reason, "Same category: core")
}

func TestRelated_UnknownIsNil(t *testing.T) {
	qs := testQueryService(t)
	assert.Nil(t, qs.Related("Nope", RelAll, 5))
	assert.Nil(t, qs.Related("useToggle", RelAll, 5))
}

// --- Component views ---

func TestComponentDetails(t *testing.T) {
	qs := testQueryService(t)

	d := qs.ComponentDetails("Button", true)
	require.NotNil(t, d)
	assert.Equal(t, "Triggers an action when pressed", d.Description)
	assert.Len(t, d.Related, 3)

	d = qs.ComponentDetails("Button", false)
	assert.Empty(t, d.Related)

	// Listed without a detail file.
	d = qs.ComponentDetails("Card", false)
	require.NotNil(t, d)
	assert.Equal(t, "component:card", d.ID)
	assert.Equal(t, CategoryCore, d.Category)

	assert.Nil(t, qs.ComponentDetails("Missing", true))
}

func TestComponentProps(t *testing.T) {
	qs := testQueryService(t)

	props := qs.ComponentProps("Button")
	require.NotNil(t, props)
	assert.Equal(t, "Button", props.ComponentName)
	assert.Len(t, props.Fields, 2)
	assert.Contains(t, props.DependentTypes, "ButtonSize")

	assert.Nil(t, qs.ComponentProps("IconButton"))
	assert.Nil(t, qs.ComponentProps("Nope"))
}

func TestHooksAndHelpers(t *testing.T) {
	qs := testQueryService(t)

	hook := qs.Hook("useToggle")
	require.NotNil(t, hook)
	assert.Equal(t, "[boolean, () => void]", hook.Signature.ReturnType)
	assert.Nil(t, qs.Hook("formatDate"))

	assert.NotNil(t, qs.Helper("formatDate"))
	assert.Nil(t, qs.Helper("useToggle"))

	assert.Equal(t, []FunctionMatch{{Name: "useToggle", FilePath: "src/hooks/useToggle.ts"}}, qs.SearchHooks("TOG"))
	assert.Empty(t, qs.SearchHooks("date"))
	assert.Len(t, qs.SearchHelpers("date"), 1)
}

// --- Examples ---

func TestExample_PrefersIndividualFile(t *testing.T) {
	qs := testQueryService(t)

	ex := qs.Example("Button", "Default")
	require.NotNil(t, ex)
	require.Len(t, ex.Stories, 1)
	assert.Equal(t, `export const Default = { args: { label: "x" } }`, ex.Stories[0].Code)
	assert.Equal(t, "src/core/Button/stories/Default.story.tsx", ex.Stories[0].FilePath)
}

func TestExample_SharedFileAndAllStories(t *testing.T) {
	qs := testQueryService(t)

	ex := qs.Example("Button", "")
	require.NotNil(t, ex)
	require.Len(t, ex.Stories, 2)

	primary := ex.Stories[1]
	assert.Equal(t, "Primary", primary.Name)
	assert.Equal(t, "src/core/Button/_Button.stories.tsx", primary.FilePath)
	assert.Contains(t, primary.Code, `onPress: () => {} }`)
	assert.Equal(t, byte('}'), primary.Code[len(primary.Code)-1])
}

func TestExample_Misses(t *testing.T) {
	qs := testQueryService(t)

	ex := qs.Example("Button", "Ghost")
	require.NotNil(t, ex)
	require.Len(t, ex.Stories, 1)
	assert.Empty(t, ex.Stories[0].Code)

	ex = qs.Example("Card", "")
	require.NotNil(t, ex)
	assert.Empty(t, ex.Stories)

	assert.Nil(t, qs.Example("Nope", ""))
}

func TestExtractStoryCode(t *testing.T) {
	code, ok := ExtractStoryCode(`export const Default = { args: { label: "x" } };`, "Default")
	require.True(t, ok)
	assert.Equal(t, `export const Default = { args: { label: "x" } }`, code)

	content := "export const DefaultLong = {};\nexport const Default: Story = {\n  args: { text: '{', tpl: `}` },\n};\n"
	code, ok = ExtractStoryCode(content, "Default")
	require.True(t, ok)
	assert.Equal(t, "export const Default: Story = {\n  args: { text: '{', tpl: `}` },\n}", code)

	code, ok = ExtractStoryCode(sharedStories, "Aliased")
	require.True(t, ok)
	assert.Equal(t, "export const Aliased: Story = _Aliased;", code)

	content = "export const Default = (args) => {\n  const x = 1;\n  return <Foo {...args} />;\n};\nexport const Next = {};"
	code, ok = ExtractStoryCode(content, "Default")
	require.True(t, ok)
	assert.Equal(t, "export const Default = (args) => {\n  const x = 1;\n  return <Foo {...args} />;\n}", code)

	code, ok = ExtractStoryCode("export const Bound = Template.bind({});\nexport const Other = {};", "Bound")
	require.True(t, ok)
	assert.Equal(t, "export const Bound = Template.bind({});", code)

	code, ok = ExtractStoryCode("export const Plain = _Plain\nexport const Other = { a: 1 };", "Plain")
	require.True(t, ok)
	assert.Equal(t, "export const Plain = _Plain", code)

	_, ok = ExtractStoryCode(`export const Broken = { args: {`, "Broken")
	assert.False(t, ok)
	_, ok = ExtractStoryCode(sharedStories, "Missing")
	assert.False(t, ok)
}

func TestExtractStoryCode_Balanced(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "stories", "_Mixed.stories.tsx"))
	require.NoError(t, err)

	for _, name := range []string{"Default", "WithRender", "Nested", "Arrow"} {
		code, ok := ExtractStoryCode(string(data), name)
		require.True(t, ok, name)
		assert.Equal(t, countUnquoted(code, '{'), countUnquoted(code, '}'), name)
	}
}

// countUnquoted counts c outside string literals.
func countUnquoted(s string, c byte) int {
	n := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\'', '`':
			i = skipString(s, i, s[i])
		case c:
			n++
		}
	}
	return n
}

// --- Use-case search ---

func TestUseCaseTerms(t *testing.T) {
	terms := UseCaseTerms("I need a file upload for uploading files!")
	var texts, matches []string
	for _, term := range terms {
		texts = append(texts, term.Text)
		matches = append(matches, term.Match)
	}
	assert.Equal(t, []string{"file upload", "file", "upload", "uploading", "files"}, texts)
	assert.Equal(t, []string{"file upload", "file", "upload", "upload", "file"}, matches)

	assert.Empty(t, UseCaseTerms("I need a"))
}

func TestSearchByUseCase(t *testing.T) {
	qs := testQueryService(t)

	res := qs.SearchByUseCase("something for uploading files", 0)
	require.NotEmpty(t, res.Results)
	assert.Equal(t, "FileUpload", res.Results[0].Name)
	assert.Equal(t, 1.0, res.Results[0].Relevance)
	assert.Contains(t, res.Suggestions, `Try searching for: "forms"`)

	res = qs.SearchByUseCase("I need a", 5)
	assert.Empty(t, res.Results)
	require.Len(t, res.Suggestions, 1)
	assert.Contains(t, res.Suggestions[0], "more specific")

	res = qs.SearchByUseCase("quantum entanglement", 5)
	assert.Empty(t, res.Results)
	assert.Empty(t, res.Suggestions)
}

// --- Suggestions ---

func TestSuggest(t *testing.T) {
	qs := testQueryService(t)

	got := qs.Suggest("Buton", KindComponent)
	require.NotEmpty(t, got)
	assert.Equal(t, "Button", got[0])
	assert.LessOrEqual(t, len(got), 3)

	assert.Equal(t, []string{"useToggle"}, qs.Suggest("useToggel", KindHook))
	assert.Empty(t, qs.Suggest("zzzzzz", ""))
	assert.Nil(t, qs.Suggest("", ""))
}
