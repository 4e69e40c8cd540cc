package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/uicontext/pkg/catalog"
)

// Tool names.
const (
	ToolSearch              = "search"
	ToolGetRelated          = "get_related"
	ToolGetDetail           = "get_detail"
	ToolGetComponentDetails = "get_component_details"
	ToolGetComponentProps   = "get_component_props"
	ToolGetExamples         = "get_examples"
	ToolGetHookDetails      = "get_hook_details"
	ToolGetHelperDetails    = "get_helper_details"
	ToolSearchHooks         = "search_hooks"
	ToolSearchHelpers       = "search_helpers"
	ToolSearchByUseCase     = "search_by_use_case"
)

func kindNames() []string {
	out := make([]string, 0, len(catalog.Kinds))
	for _, k := range catalog.Kinds {
		out = append(out, string(k))
	}
	return out
}

func searchTool() mcp.Tool {
	return mcp.NewTool(ToolSearch,
		mcp.WithDescription("Search components, hooks and helpers by name, keywords, tags and summary. Results are ranked by relevance (0-1)."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
		mcp.WithString("mode", mcp.Enum(catalog.SearchModes...),
			mcp.Description("Fields to match: name, keyword, semantic (summary and description) or all (default)")),
		mcp.WithArray("tags", mcp.WithStringItems(), mcp.Description("Only items carrying every tag")),
		mcp.WithString("category", mcp.Description("Only components in this category (core, common)")),
		mcp.WithString("kind", mcp.Enum(kindNames()...), mcp.Description("Only items of this kind")),
		mcp.WithNumber("limit", mcp.Min(1), mcp.Description("Maximum results (default 20)")),
	)
}

func getRelatedTool() mcp.Tool {
	return mcp.NewTool(ToolGetRelated,
		mcp.WithDescription("Find components related to a component by category, tags and keywords."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Component name")),
		mcp.WithString("relationshipType", mcp.Enum(catalog.RelationshipTypes...),
			mcp.Description("similar, same-category, same-tags or all (default)")),
		mcp.WithNumber("limit", mcp.Min(1), mcp.Description("Maximum results (default 10)")),
	)
}

func getDetailTool() mcp.Tool {
	return mcp.NewTool(ToolGetDetail,
		mcp.WithDescription("Get the full detail record of an item by kind and id."),
		mcp.WithString("kind", mcp.Required(), mcp.Enum(kindNames()...), mcp.Description("Item kind")),
		mcp.WithString("id", mcp.Required(), mcp.Description(`Item id, either "kind:slug" or the bare slug`)),
	)
}

func getComponentDetailsTool() mcp.Tool {
	return mcp.NewTool(ToolGetComponentDetails,
		mcp.WithDescription("Get a component's props, dependent types, stories and metadata."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Component name")),
		mcp.WithBoolean("includeRelated", mcp.Description("Include up to five related components")),
	)
}

func getComponentPropsTool() mcp.Tool {
	return mcp.NewTool(ToolGetComponentProps,
		mcp.WithDescription("Get only the flattened props and dependent types of a component."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Component name")),
	)
}

func getExamplesTool() mcp.Tool {
	return mcp.NewTool(ToolGetExamples,
		mcp.WithDescription("Get story source snippets of a component."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Component name")),
		mcp.WithString("storyName", mcp.Description("Only this story")),
	)
}

func getHookDetailsTool() mcp.Tool {
	return mcp.NewTool(ToolGetHookDetails,
		mcp.WithDescription("Get a hook's signature and dependent types."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Hook name")),
	)
}

func getHelperDetailsTool() mcp.Tool {
	return mcp.NewTool(ToolGetHelperDetails,
		mcp.WithDescription("Get a helper's signature and dependent types."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Helper name")),
	)
}

func searchHooksTool() mcp.Tool {
	return mcp.NewTool(ToolSearchHooks,
		mcp.WithDescription("List hooks whose name contains the query."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Name fragment")),
	)
}

func searchHelpersTool() mcp.Tool {
	return mcp.NewTool(ToolSearchHelpers,
		mcp.WithDescription("List helpers whose name contains the query."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Name fragment")),
	)
}

func searchByUseCaseTool() mcp.Tool {
	return mcp.NewTool(ToolSearchByUseCase,
		mcp.WithDescription(`Find components for a natural-language need, e.g. "I need a date picker with time".`),
		mcp.WithString("useCase", mcp.Required(), mcp.Description("What the UI should do")),
		mcp.WithNumber("limit", mcp.Min(1), mcp.Description("Maximum results (default 10)")),
	)
}
