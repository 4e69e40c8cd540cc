package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/uicontext/pkg/catalog"
)

// notFoundPayload is returned, with IsError set, when a lookup misses.
type notFoundPayload struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type searchPayload struct {
	Results      []catalog.SearchResult `json:"results"`
	TotalResults int                    `json:"totalResults"`
}

type functionSearchPayload struct {
	Results      []catalog.FunctionMatch `json:"results"`
	TotalResults int                     `json:"totalResults"`
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// notFound reports a miss on name, with close names of the same kind.
func (s *Server) notFound(name string, kind catalog.Kind) (*mcp.CallToolResult, error) {
	return s.missing(name+" not found", name, kind)
}

func (s *Server) missing(msg, name string, kind catalog.Kind) (*mcp.CallToolResult, error) {
	result, err := jsonResult(notFoundPayload{Error: msg, Suggestions: s.query.Suggest(name, kind)})
	if err != nil {
		return nil, err
	}
	result.IsError = true
	return result, nil
}

func (s *Server) handleSearch(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	results := s.query.Search(catalog.SearchOptions{
		Query:    req.GetString("query", ""),
		Mode:     req.GetString("mode", catalog.ModeAll),
		Tags:     req.GetStringSlice("tags", nil),
		Category: req.GetString("category", ""),
		Kind:     catalog.Kind(req.GetString("kind", "")),
		Limit:    req.GetInt("limit", catalog.DefaultSearchLimit),
	})
	return jsonResult(searchPayload{Results: results, TotalResults: len(results)})
}

func (s *Server) handleGetRelated(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	related := s.query.Related(name,
		req.GetString("relationshipType", catalog.RelAll),
		req.GetInt("limit", catalog.DefaultRelatedLimit))
	if related == nil {
		return s.notFound(name, catalog.KindComponent)
	}
	return jsonResult(related)
}

func (s *Server) handleGetDetail(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := catalog.Kind(req.GetString("kind", ""))
	id := req.GetString("id", "")
	d := s.query.Detail(kind, id)
	if d == nil {
		_, slug := catalog.SplitItemID(id)
		return s.missing(fmt.Sprintf("%s %s not found", kind, id), catalog.DenormalizeID(slug, kind), kind)
	}
	return jsonResult(d)
}

func (s *Server) handleGetComponentDetails(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	d := s.query.ComponentDetails(name, req.GetBool("includeRelated", false))
	if d == nil {
		return s.notFound(name, catalog.KindComponent)
	}
	return jsonResult(d)
}

func (s *Server) handleGetComponentProps(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if _, ok := s.query.Store().Item(catalog.KindComponent, name); !ok {
		return s.notFound(name, catalog.KindComponent)
	}
	props := s.query.ComponentProps(name)
	if props == nil {
		return s.missing("Props for "+name+" not found", name, catalog.KindComponent)
	}
	return jsonResult(props)
}

func (s *Server) handleGetExamples(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	ex := s.query.Example(name, req.GetString("storyName", ""))
	if ex == nil {
		return s.notFound(name, catalog.KindComponent)
	}
	return jsonResult(ex)
}

func (s *Server) handleGetHookDetails(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	d := s.query.Hook(name)
	if d == nil {
		return s.notFound(name, catalog.KindHook)
	}
	return jsonResult(d)
}

func (s *Server) handleGetHelperDetails(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	d := s.query.Helper(name)
	if d == nil {
		return s.notFound(name, catalog.KindHelper)
	}
	return jsonResult(d)
}

func (s *Server) handleSearchHooks(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	matches := s.query.SearchHooks(req.GetString("query", ""))
	return jsonResult(functionSearchPayload{Results: matches, TotalResults: len(matches)})
}

func (s *Server) handleSearchHelpers(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	matches := s.query.SearchHelpers(req.GetString("query", ""))
	return jsonResult(functionSearchPayload{Results: matches, TotalResults: len(matches)})
}

func (s *Server) handleSearchByUseCase(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res := s.query.SearchByUseCase(req.GetString("useCase", ""), req.GetInt("limit", catalog.DefaultUseCaseLimit))
	return jsonResult(res)
}
