package mcp

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/entrybook/pkg/entry"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerCreateEntryTool(srv, svc)
	registerUpdateEntryTool(srv, svc)
	registerDeleteEntryTool(srv, svc)
	registerListEntriesTool(srv, svc)
	registerSearchEntriesTool(srv, svc)
	registerGetEntryTool(srv, svc)
}

// fieldOptions describes the form fields shared by create and update.
func fieldOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("firstName", mcp.Description("First name. Required on create.")),
		mcp.WithString("lastName", mcp.Description("Last name.")),
		mcp.WithString("dob", mcp.Description("Date of birth as YYYY-MM-DD.")),
		mcp.WithString("gender", mcp.Enum(entry.Genders...)),
		mcp.WithString("country", mcp.Enum(entry.Countries...)),
		mcp.WithString("email", mcp.Description("Email address. Required on create.")),
		mcp.WithString("phone", mcp.Description("Phone number with exactly ten digits. Required on create.")),
		mcp.WithString("feedback", mcp.Description("Free text feedback.")),
		mcp.WithNumber("rating",
			mcp.Description("Rating from 1 to 5, 0 to clear."),
			mcp.Min(0),
			mcp.Max(5),
		),
		mcp.WithArray("topics",
			mcp.Description("Selected topics. Replaces the current selection."),
			mcp.Items(map[string]any{"type": "string", "enum": entry.Topics}),
		),
	}
}

func registerCreateEntryTool(srv *server.MCPServer, svc *Service) {
	opts := append([]mcp.ToolOption{mcp.WithDescription("Submit a new form entry.")}, fieldOptions()...)
	tool := mcp.NewTool("create_entry", opts...)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args Fields
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.CreateEntry(ctx, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerUpdateEntryTool(srv *server.MCPServer, svc *Service) {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Change fields of an existing entry. Omitted fields keep their stored value."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier to modify."),
		),
	}
	tool := mcp.NewTool("update_entry", append(opts, fieldOptions()...)...)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		var args Fields
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		dto, err := svc.UpdateEntry(ctx, id, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerDeleteEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_entry",
		mcp.WithDescription("Delete an entry."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier to delete."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.DeleteEntry(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]string{"deleted": id})
	})
}

func registerListEntriesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_entries",
		mcp.WithDescription("List every entry, in the backend's order."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		results, err := svc.ListEntries(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"entries": results,
			"count":   len(results),
		})
	})
}

func registerSearchEntriesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"search_entries",
		mcp.WithDescription("Search entries by substring match across name, email and feedback."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive search text."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of entries to return (default 20)."),
			mcp.Min(1),
			mcp.Max(100),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := request.GetInt("limit", 20)

		results, err := svc.SearchEntries(ctx, query, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"query":   query,
			"limit":   limit,
			"results": results,
			"count":   len(results),
		})
	})
}

func registerGetEntryTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_entry",
		mcp.WithDescription("Fetch a single entry by identifier."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Entry identifier to fetch."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dto, err := svc.EntryByID(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
