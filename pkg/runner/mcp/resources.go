package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/journal/pkg/query"
)

const (
	categoriesURI = "journal://categories"
	entriesURI    = "journal://entries"
	questionsURI  = "journal://questions"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerCategoriesResource(srv, svc)
	registerQuestionsResource(srv, svc)
	registerCategoryTemplate(srv, svc)
	registerEntryTemplate(srv, svc)
}

func registerCategoriesResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		categoriesURI,
		"Categories",
		mcp.WithResourceDescription("Journal categories with entry counts and the latest entry."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		summaries, err := svc.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"categories": summaries,
			"count":      len(summaries),
		})
	})
}

func registerQuestionsResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		questionsURI,
		"Questions",
		mcp.WithResourceDescription("The question catalogue used to seed structured entries."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		qs, err := svc.Questions(ctx, "")
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"questions": qs,
			"count":     len(qs),
		})
	})
}

func registerCategoryTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		categoriesURI+"/{category}",
		"Category Entries",
		mcp.WithTemplateDescription("Entries shown in a category view, newest first."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		name := templateArg(request, "category", categoriesURI+"/")
		if name == "" {
			return nil, fmt.Errorf("category is required")
		}

		entries, err := svc.ListEntries(ctx, query.Params{Category: name}, 0)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"category": strings.ToUpper(name),
			"count":    len(entries),
			"entries":  entries,
		})
	})
}

func registerEntryTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		entriesURI+"/{id}",
		"Entry Details",
		mcp.WithTemplateDescription("A single entry with its answers."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id := templateArg(request, "id", entriesURI+"/")
		if id == "" {
			return nil, fmt.Errorf("entry id is required")
		}

		dto, err := svc.EntryByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, map[string]any{
			"entry": dto,
		})
	})
}

// templateArg reads a matched template variable, falling back to the uri
// suffix after prefix.
func templateArg(request mcp.ReadResourceRequest, name, prefix string) string {
	switch v := request.Params.Arguments[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return strings.TrimPrefix(request.Params.URI, prefix)
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
