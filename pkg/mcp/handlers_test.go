package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uicontext/pkg/catalog"
	"github.com/gnana997/uicontext/pkg/mcplog"
	"github.com/gnana997/uicontext/pkg/util"
)

// --- helpers ---

const generatedAt = "2026-01-01T00:00:00Z"

func item(kind catalog.Kind, name, summary string, keywords, tags []string, path string) catalog.Item {
	if keywords == nil {
		keywords = []string{}
	}
	if tags == nil {
		tags = []string{}
	}
	return catalog.Item{
		ID:         catalog.ItemID(kind, name),
		Kind:       kind,
		Name:       name,
		Summary:    summary,
		Keywords:   keywords,
		Tags:       tags,
		Source:     catalog.Source{Path: path},
		DetailsRef: catalog.DetailsRef(kind, name),
	}
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := catalog.MarshalArtifact(v)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// writeProject lays out generated artifacts for a small library. Card is
// listed without a detail file.
func writeProject(t *testing.T) (root, dataDir string) {
	t.Helper()
	root = t.TempDir()
	dataDir = filepath.Join(root, ".uicontext", "data")

	items := []catalog.Item{
		item(catalog.KindComponent, "Button", "A clickable button", []string{"click", "action"}, []string{"forms", "actions"}, "src/core/Button/Button.tsx"),
		item(catalog.KindComponent, "IconButton", "Button with an icon", []string{"click", "icon"}, []string{"actions"}, "src/core/IconButton/IconButton.tsx"),
		item(catalog.KindComponent, "DatePicker", "Pick a date from a calendar", []string{"date", "calendar"}, []string{"forms"}, "src/common/DatePicker/DatePicker.tsx"),
		item(catalog.KindComponent, "Card", "", nil, nil, "src/core/Card/Card.tsx"),
		item(catalog.KindHook, "useToggle", "Boolean state", []string{"state"}, nil, "src/hooks/useToggle.ts"),
		item(catalog.KindHelper, "formatDate", "", nil, nil, "src/helpers/formatDate.ts"),
	}
	writeJSON(t, filepath.Join(dataDir, catalog.CatalogueFile), &catalog.Catalogue{
		Version:     catalog.CatalogueVersion,
		GeneratedAt: generatedAt,
		Stats:       catalog.ComputeStats(items),
		Items:       items,
	})
	writeJSON(t, filepath.Join(dataDir, catalog.IndexFile), &catalog.UnifiedIndex{
		Version:     catalog.IndexVersion,
		GeneratedAt: generatedAt,
		Components: []catalog.IndexComponent{
			{ID: "button", Name: "Button", ComponentPath: "src/core/Button/Button.tsx", StoryCount: 1, HasStorybook: true, Category: catalog.CategoryCore},
			{ID: "icon-button", Name: "IconButton", ComponentPath: "src/core/IconButton/IconButton.tsx", Category: catalog.CategoryCore},
			{ID: "date-picker", Name: "DatePicker", ComponentPath: "src/common/DatePicker/DatePicker.tsx", Category: catalog.CategoryCommon},
			{ID: "card", Name: "Card", ComponentPath: "src/core/Card/Card.tsx", Category: catalog.CategoryCore},
		},
		Hooks:   []catalog.IndexFunction{{ID: "use-toggle", Name: "useToggle", FilePath: "src/hooks/useToggle.ts"}},
		Helpers: []catalog.IndexFunction{{ID: "format-date", Name: "formatDate", FilePath: "src/helpers/formatDate.ts"}},
	})

	details := []*catalog.Detail{
		{
			ID: "component:button", Kind: catalog.KindComponent, Name: "Button", DisplayName: "Button",
			Summary: "A clickable button", Keywords: []string{"click", "action"}, Tags: []string{"forms", "actions"},
			Source: catalog.Source{Path: "src/core/Button/Button.tsx"}, Category: catalog.CategoryCore,
			Props: &catalog.PropsInfo{
				Fields: []catalog.PropField{
					{Name: "label", Type: "string", Required: true},
					{Name: "size", Type: "ButtonSize", Optional: true},
				},
				DependentTypes: map[string]catalog.DependentType{
					"ButtonSize": {Kind: catalog.DepType, Text: "type ButtonSize = 'sm' | 'lg';"},
				},
			},
			Stories:    []catalog.Story{{ID: "button--primary", Name: "Primary"}},
			StoryCount: 1, HasStorybook: true, GeneratedAt: generatedAt,
		},
		{
			ID: "component:icon-button", Kind: catalog.KindComponent, Name: "IconButton", DisplayName: "IconButton",
			Source: catalog.Source{Path: "src/core/IconButton/IconButton.tsx"}, GeneratedAt: generatedAt,
		},
		{
			ID: "component:date-picker", Kind: catalog.KindComponent, Name: "DatePicker", DisplayName: "DatePicker",
			Source: catalog.Source{Path: "src/common/DatePicker/DatePicker.tsx"}, GeneratedAt: generatedAt,
		},
		{
			ID: "hook:use-toggle", Kind: catalog.KindHook, Name: "useToggle", DisplayName: "useToggle",
			Signature: &catalog.Signature{
				Kind:       "function",
				Parameters: []catalog.Param{{Name: "initial", Type: "boolean", Optional: true}},
				ReturnType: "[boolean, () => void]",
			},
			GeneratedAt: generatedAt,
		},
		{
			ID: "helper:format-date", Kind: catalog.KindHelper, Name: "formatDate", DisplayName: "formatDate",
			GeneratedAt: generatedAt,
		},
	}
	for _, d := range details {
		_, slug := catalog.SplitItemID(d.ID)
		writeJSON(t, filepath.Join(dataDir, catalog.ItemsDir, catalog.DetailFileName(d.Kind, slug)), d)
	}

	stories := "export const Primary = {\n  args: { label: \"Go }\" },\n};\n"
	storyPath := filepath.Join(root, "src", "core", "Button", "_Button.stories.tsx")
	require.NoError(t, os.MkdirAll(filepath.Dir(storyPath), 0o755))
	require.NoError(t, os.WriteFile(storyPath, []byte(stories), 0o644))
	return root, dataDir
}

func testQueryService(t *testing.T) *catalog.QueryService {
	t.Helper()
	root, dataDir := writeProject(t)
	store, err := catalog.NewStore(catalog.StoreConfig{DataDir: dataDir, Root: root, Logger: util.NopLogger()})
	require.NoError(t, err)
	return catalog.NewQueryService(store)
}

func testServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(testQueryService(t), nil)
}

func callTool(t *testing.T, s *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := s.HandleToolCall(context.Background(), name, args)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

func decode(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &out))
	return out
}

// --- registration ---

func TestToolNames(t *testing.T) {
	s := testServer(t)
	assert.Equal(t, []string{
		ToolSearch, ToolGetRelated, ToolGetDetail, ToolGetComponentDetails, ToolGetComponentProps,
		ToolGetExamples, ToolGetHookDetails, ToolGetHelperDetails, ToolSearchHooks, ToolSearchHelpers,
		ToolSearchByUseCase,
	}, s.ToolNames())
	assert.NotNil(t, s.MCPServer())
}

func TestHandleToolCall_UnknownTool(t *testing.T) {
	s := testServer(t)
	_, err := s.HandleToolCall(context.Background(), "list_everything", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool")
}

// --- validation ---

func TestValidation_RejectsBadArguments(t *testing.T) {
	cases := []struct {
		name string
		tool string
		args map[string]any
	}{
		{"missing required", ToolSearch, nil},
		{"wrong type", ToolSearch, map[string]any{"query": 42}},
		{"bad enum", ToolSearch, map[string]any{"query": "button", "mode": "fuzzy"}},
		{"zero limit", ToolSearch, map[string]any{"query": "button", "limit": 0}},
		{"tags not array", ToolSearch, map[string]any{"query": "button", "tags": "forms"}},
		{"bad kind", ToolGetDetail, map[string]any{"kind": "widget", "id": "button"}},
		{"missing id", ToolGetDetail, map[string]any{"kind": "component"}},
		{"bad relationship", ToolGetRelated, map[string]any{"name": "Button", "relationshipType": "cousins"}},
		{"boolean as string", ToolGetComponentDetails, map[string]any{"name": "Button", "includeRelated": "yes"}},
		{"missing use case", ToolSearchByUseCase, map[string]any{}},
	}
	s := testServer(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := callTool(t, s, tc.tool, tc.args)
			assert.True(t, result.IsError)
			assert.Contains(t, resultJSON(t, result), "invalid arguments for "+tc.tool)
		})
	}
	assert.Equal(t, 0, s.query.Store().CachedDetails(), "rejected calls must not reach the store")
}

func TestValidation_AcceptsOptionalArguments(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, ToolSearch, map[string]any{
		"query": "button", "mode": "all", "tags": []any{"actions"}, "kind": "component", "limit": 5,
	})
	assert.False(t, result.IsError, resultJSON(t, result))
}

// --- search ---

func TestHandleSearch(t *testing.T) {
	s := testServer(t)
	out := decode(t, callTool(t, s, ToolSearch, map[string]any{"query": "button"}))

	results := out["results"].([]any)
	require.NotEmpty(t, results)
	first := results[0].(map[string]any)
	assert.Equal(t, "Button", first["name"])
	assert.Equal(t, float64(len(results)), out["totalResults"])
	assert.LessOrEqual(t, first["relevanceScore"].(float64), 1.0)
}

func TestHandleSearch_NoMatchIsEmpty(t *testing.T) {
	s := testServer(t)
	out := decode(t, callTool(t, s, ToolSearch, map[string]any{"query": "zzzqqq"}))
	assert.Empty(t, out["results"])
	assert.Equal(t, float64(0), out["totalResults"])
}

func TestHandleSearch_Filters(t *testing.T) {
	s := testServer(t)
	out := decode(t, callTool(t, s, ToolSearch, map[string]any{"query": "date", "kind": "helper"}))
	results := out["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "formatDate", results[0].(map[string]any)["name"])

	out = decode(t, callTool(t, s, ToolSearch, map[string]any{"query": "date", "category": "common"}))
	results = out["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "DatePicker", results[0].(map[string]any)["name"])
}

// --- related ---

func TestHandleGetRelated(t *testing.T) {
	s := testServer(t)
	out := decode(t, callTool(t, s, ToolGetRelated, map[string]any{"name": "Button"}))
	assert.Equal(t, "Button", out["component"])

	related := out["related"].([]any)
	require.NotEmpty(t, related)
	assert.Equal(t, "IconButton", related[0].(map[string]any)["name"])
}

func TestHandleGetRelated_NotFound(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, ToolGetRelated, map[string]any{"name": "Buton"})
	assert.True(t, result.IsError)

	out := decode(t, result)
	assert.Equal(t, "Buton not found", out["error"])
	assert.Contains(t, out["suggestions"], "Button")
}

// --- detail ---

func TestHandleGetDetail(t *testing.T) {
	s := testServer(t)
	for _, id := range []string{"hook:use-toggle", "use-toggle"} {
		out := decode(t, callTool(t, s, ToolGetDetail, map[string]any{"kind": "hook", "id": id}))
		assert.Equal(t, "useToggle", out["name"], id)
	}
}

func TestHandleGetDetail_Miss(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, ToolGetDetail, map[string]any{"kind": "component", "id": "does-not-exist"})
	assert.True(t, result.IsError)
	assert.Equal(t, "component does-not-exist not found", decode(t, result)["error"])

	result = callTool(t, s, ToolGetDetail, map[string]any{"kind": "component", "id": "../../etc/passwd"})
	assert.True(t, result.IsError)
}

func TestHandleGetComponentDetails(t *testing.T) {
	s := testServer(t)
	out := decode(t, callTool(t, s, ToolGetComponentDetails, map[string]any{"name": "button", "includeRelated": true}))
	assert.Equal(t, "Button", out["name"])
	assert.NotNil(t, out["props"])
	assert.NotEmpty(t, out["related"])
}

func TestHandleGetComponentDetails_FallbackWithoutDetailFile(t *testing.T) {
	s := testServer(t)
	result := callTool(t, s, ToolGetComponentDetails, map[string]any{"name": "Card"})
	assert.False(t, result.IsError)

	out := decode(t, result)
	assert.Equal(t, "Card", out["name"])
	assert.Equal(t, "core", out["category"])
}

// --- props ---

func TestHandleGetComponentProps(t *testing.T) {
	s := testServer(t)
	out := decode(t, callTool(t, s, ToolGetComponentProps, map[string]any{"name": "Button"}))
	assert.Equal(t, "Button", out["componentName"])
	assert.Len(t, out["fields"], 2)
	assert.Contains(t, out["dependentTypes"], "ButtonSize")
}

func TestHandleGetComponentProps_Misses(t *testing.T) {
	s := testServer(t)

	result := callTool(t, s, ToolGetComponentProps, map[string]any{"name": "Nope"})
	assert.True(t, result.IsError)
	assert.Equal(t, "Nope not found", decode(t, result)["error"])

	result = callTool(t, s, ToolGetComponentProps, map[string]any{"name": "IconButton"})
	assert.True(t, result.IsError)
	assert.Equal(t, "Props for IconButton not found", decode(t, result)["error"])
}

// --- examples ---

func TestHandleGetExamples(t *testing.T) {
	s := testServer(t)
	out := decode(t, callTool(t, s, ToolGetExamples, map[string]any{"name": "Button"}))
	stories := out["stories"].([]any)
	require.Len(t, stories, 1)

	story := stories[0].(map[string]any)
	assert.Equal(t, "Primary", story["name"])
	code := story["code"].(string)
	assert.True(t, strings.HasPrefix(code, "export const Primary"))
	assert.True(t, strings.HasSuffix(code, "}"))
	assert.Contains(t, code, `"Go }"`)
}

func TestHandleGetExamples_UnknownStory(t *testing.T) {
	s := testServer(t)
	out := decode(t, callTool(t, s, ToolGetExamples, map[string]any{"name": "Button", "storyName": "Ghost"}))
	stories := out["stories"].([]any)
	require.Len(t, stories, 1)
	assert.Nil(t, stories[0].(map[string]any)["code"])
}

// --- hooks & helpers ---

func TestHandleGetHookDetails(t *testing.T) {
	s := testServer(t)
	out := decode(t, callTool(t, s, ToolGetHookDetails, map[string]any{"name": "useToggle"}))
	sig := out["signature"].(map[string]any)
	assert.Equal(t, "[boolean, () => void]", sig["returnType"])

	result := callTool(t, s, ToolGetHookDetails, map[string]any{"name": "useToggel"})
	assert.True(t, result.IsError)
	assert.Contains(t, decode(t, result)["suggestions"], "useToggle")
}

func TestHandleGetHelperDetails(t *testing.T) {
	s := testServer(t)
	out := decode(t, callTool(t, s, ToolGetHelperDetails, map[string]any{"name": "formatDate"}))
	assert.Equal(t, "helper:format-date", out["id"])

	// Hooks are not helpers.
	result := callTool(t, s, ToolGetHelperDetails, map[string]any{"name": "useToggle"})
	assert.True(t, result.IsError)
}

func TestHandleSearchHooksAndHelpers(t *testing.T) {
	s := testServer(t)

	out := decode(t, callTool(t, s, ToolSearchHooks, map[string]any{"query": "TOGGLE"}))
	assert.Equal(t, float64(1), out["totalResults"])

	out = decode(t, callTool(t, s, ToolSearchHelpers, map[string]any{"query": "date"}))
	results := out["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "src/helpers/formatDate.ts", results[0].(map[string]any)["filePath"])

	out = decode(t, callTool(t, s, ToolSearchHelpers, map[string]any{"query": "toggle"}))
	assert.Empty(t, out["results"])
}

// --- use case ---

func TestHandleSearchByUseCase(t *testing.T) {
	s := testServer(t)
	out := decode(t, callTool(t, s, ToolSearchByUseCase, map[string]any{"useCase": "I need a date picker for a form"}))
	results := out["results"].([]any)
	require.NotEmpty(t, results)
	assert.Equal(t, "DatePicker", results[0].(map[string]any)["name"])
	assert.NotEmpty(t, out["suggestions"])
}

// --- logging ---

func TestLoggingMiddleware_RecordsCalls(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "mcp.jsonl")
	logger, err := mcplog.NewLogger(logPath)
	require.NoError(t, err)

	s := NewServer(testQueryService(t), logger)
	callTool(t, s, ToolSearch, map[string]any{"query": "button"})
	callTool(t, s, ToolGetComponentDetails, map[string]any{"name": "Nope"})
	callTool(t, s, ToolSearch, map[string]any{"query": "button", "limit": 0})
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)

	var entries []mcplog.LogEntry
	for _, line := range lines {
		var e mcplog.LogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		entries = append(entries, e)
	}

	assert.Equal(t, ToolSearch, entries[0].Tool)
	assert.False(t, entries[0].Miss)
	assert.Greater(t, entries[0].ResponseBytes, 0)
	assert.Equal(t, entries[0].ResponseBytes/4, entries[0].TokensEst)

	assert.Equal(t, ToolGetComponentDetails, entries[1].Tool)
	assert.True(t, entries[1].Miss)

	// Rejected arguments are logged as misses too.
	assert.True(t, entries[2].Miss)
	assert.Nil(t, entries[2].Error)
}
