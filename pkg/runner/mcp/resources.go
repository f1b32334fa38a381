package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerJournalsResource(srv, svc)
	registerPageTemplate(srv, svc)
}

func registerJournalsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"carry://journals",
		"Journals",
		mcp.WithResourceDescription("All journal pages with open and finished task counts."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		journals, err := svc.ListJournals(ctx)
		if err != nil {
			return nil, err
		}
		payload := map[string]any{
			"journals": journals,
			"count":    len(journals),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerPageTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"carry://pages/{name}",
		"Page Outline",
		mcp.WithTemplateDescription("A page and its outline. Journal pages may be named by YYYY-MM-DD."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		name := templateArg(request.Params.Arguments, "name")
		if name == "" {
			return nil, fmt.Errorf("page name is required")
		}
		page, err := svc.ShowPage(ctx, name)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{"page": page})
	})
}

func templateArg(args map[string]any, key string) string {
	var raw string
	switch v := args[key].(type) {
	case string:
		raw = v
	case []string:
		if len(v) > 0 {
			raw = v[0]
		}
	}
	if unescaped, err := url.PathUnescape(raw); err == nil {
		return unescaped
	}
	return raw
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
