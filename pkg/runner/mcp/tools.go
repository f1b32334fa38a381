package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerCreateJournalTool(srv, svc)
	registerAddNodeTool(srv, svc)
	registerToggleMarkerTool(srv, svc)
	registerToggleHighlightTool(srv, svc)
	registerRolloverTool(srv, svc)
	registerShowPageTool(srv, svc)
}

func registerCreateJournalTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"create_journal",
		mcp.WithDescription("Create the journal page for a day. Unfinished work from the previous journal is carried into it."),
		mcp.WithString("date",
			mcp.Description("Day as YYYY-MM-DD. Defaults to today."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := svc.CreateJournal(ctx, request.GetString("date", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(result)
	})
}

func registerAddNodeTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_node",
		mcp.WithDescription("Add a node to a page. Prefix content with LATER, NOW, TODO, DOING or DONE to make it a task."),
		mcp.WithString("page",
			mcp.Required(),
			mcp.Description("Page name, YYYY-MM-DD, or today."),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Text of the node."),
		),
		mcp.WithString("parent",
			mcp.Description("Append as the last child of this node id."),
		),
		mcp.WithString("after",
			mcp.Description("Insert right after this node id."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Page    string `json:"page"`
			Content string `json:"content"`
			Parent  string `json:"parent"`
			After   string `json:"after"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.AddNode(ctx, AddNodeOptions{
			Page:    args.Page,
			Content: args.Content,
			Parent:  args.Parent,
			After:   args.After,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func idsTool(name, description string) mcp.Tool {
	return mcp.NewTool(
		name,
		mcp.WithDescription(description),
		mcp.WithArray("ids",
			mcp.Required(),
			mcp.Description("Node ids to act on."),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

func bindIDs(request mcp.CallToolRequest) ([]string, error) {
	var args struct {
		IDs []string `json:"ids"`
	}
	if err := request.BindArguments(&args); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if len(args.IDs) == 0 {
		return nil, fmt.Errorf("ids is required")
	}
	return args.IDs, nil
}

func registerToggleMarkerTool(srv *server.MCPServer, svc *Service) {
	tool := idsTool("toggle_marker",
		"Advance the task marker of the nodes. A selection with differing markers is cleared.")

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := bindIDs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		nodes, err := svc.ToggleMarker(ctx, ids)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"nodes": nodes})
	})
}

func registerToggleHighlightTool(srv *server.MCPServer, svc *Service) {
	tool := idsTool("toggle_highlight",
		"Wrap the nodes in highlight delimiters, or unwrap them when already highlighted.")

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := bindIDs(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		nodes, err := svc.ToggleHighlight(ctx, ids)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"nodes": nodes})
	})
}

func registerRolloverTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"rollover",
		mcp.WithDescription("Carry unfinished work from the previous journal into a journal page."),
		mcp.WithString("page",
			mcp.Required(),
			mcp.Description("Target journal page, YYYY-MM-DD, or today."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		page, err := request.RequireString("page")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		report, err := svc.Rollover(ctx, page)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(report)
	})
}

func registerShowPageTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"show_page",
		mcp.WithDescription("Return a page and its outline."),
		mcp.WithString("page",
			mcp.Description("Page name, YYYY-MM-DD, or today. Defaults to today."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.ShowPage(ctx, request.GetString("page", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
