package mcp

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerEntriesResource(srv, svc)
	registerEntryTemplate(srv, svc)
}

func registerEntriesResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"entrybook://entries",
		"Entries",
		mcp.WithResourceDescription("Every form entry, newest first."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		entries, err := svc.ListEntries(ctx)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"entries": entries,
			"count":   len(entries),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerEntryTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"entrybook://entries/{id}",
		"Entry Details",
		mcp.WithTemplateDescription("Every field of a single entry."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := templateArg(request.Params.Arguments["id"])
		if id == "" {
			return nil, fmt.Errorf("entry id is required")
		}

		dto, err := svc.EntryByID(ctx, id)
		if err != nil {
			return nil, err
		}

		payload := map[string]any{
			"entry": dto,
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

// templateArg reads a URI template variable, which may arrive as a string or
// as a single-element list.
func templateArg(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		if len(t) > 0 {
			return t[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
