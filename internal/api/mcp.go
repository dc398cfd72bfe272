package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mpcoutinho/vitae/internal/content"
	"github.com/mpcoutinho/vitae/internal/prefs"
	"github.com/mpcoutinho/vitae/internal/search"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Library *content.Library
	Prefs   *prefs.Manager
	Version string
}

// NewMCPServer creates an MCP server exposing the résumé and project
// data as tools and resources, so assistants can query it directly.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"vitae",
		deps.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("vitae — structured access to a bilingual résumé: profile, experience, and a filterable project portfolio."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("get_resume",
			mcp.WithDescription("Return the full structured résumé for a language."),
			mcp.WithString("lang", mcp.Description("Language code (e.g. en, pt); defaults to the site default")),
		),
		mcpGetResume(deps),
	)

	s.AddTool(
		mcp.NewTool("search_projects",
			mcp.WithDescription("Filter the project portfolio by facets and free-text query."),
			mcp.WithString("lang", mcp.Description("Language code; defaults to the site default")),
			mcp.WithString("query", mcp.Description("Free-text query matched against titles, narratives and tags")),
			mcp.WithArray("industries", mcp.Description("Industry facet values (OR within the facet)")),
			mcp.WithArray("technologies", mcp.Description("Technology facet values")),
			mcp.WithArray("project_types", mcp.Description("Project type facet values")),
			mcp.WithArray("client_types", mcp.Description("Client type facet values")),
			mcp.WithArray("business_units", mcp.Description("Business unit facet values")),
		),
		mcpSearchProjects(deps),
	)

	s.AddTool(
		mcp.NewTool("list_facets",
			mcp.WithDescription("List the selectable facet values for projects and experience."),
			mcp.WithString("lang", mcp.Description("Language code; defaults to the site default")),
		),
		mcpListFacets(deps),
	)

	for _, lang := range deps.Library.Languages() {
		s.AddResource(
			mcp.NewResource(
				fmt.Sprintf("resume://%s", lang),
				fmt.Sprintf("Résumé (%s)", lang),
				mcp.WithResourceDescription("Structured résumé data as JSON"),
				mcp.WithMIMEType("application/json"),
			),
			mcpResourceResume(deps, lang),
		)
	}

	return s
}

func (d MCPDeps) bundleFor(lang string) (content.Bundle, error) {
	if lang == "" {
		def, err := d.Prefs.DefaultLang()
		if err != nil {
			return content.Bundle{}, err
		}
		lang = def
	}
	if !d.Prefs.Valid(lang) {
		return content.Bundle{}, fmt.Errorf("%w: %q", prefs.ErrUnknownLanguage, lang)
	}
	return d.Library.Bundle(lang)
}

func mcpGetResume(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b, err := deps.bundleFor(req.GetString("lang", ""))
		if err != nil {
			return mcpError(fmt.Sprintf("loading résumé: %v", err)), nil
		}
		out, err := json.Marshal(b.Resume)
		if err != nil {
			return mcpError(fmt.Sprintf("marshaling résumé: %v", err)), nil
		}
		return mcpText(string(out)), nil
	}
}

func mcpSearchProjects(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b, err := deps.bundleFor(req.GetString("lang", ""))
		if err != nil {
			return mcpError(fmt.Sprintf("loading projects: %v", err)), nil
		}

		f := search.ProjectFilter{
			Query:         req.GetString("query", ""),
			Industries:    req.GetStringSlice("industries", nil),
			Technologies:  req.GetStringSlice("technologies", nil),
			ProjectTypes:  req.GetStringSlice("project_types", nil),
			ClientTypes:   req.GetStringSlice("client_types", nil),
			BusinessUnits: req.GetStringSlice("business_units", nil),
		}
		matched := search.FilterProjects(b.Projects, f)

		out, err := json.Marshal(map[string]any{
			"projects": matched,
			"facets":   search.CollectProjectFacets(b.Projects),
			"total":    len(matched),
		})
		if err != nil {
			return mcpError(fmt.Sprintf("marshaling results: %v", err)), nil
		}
		return mcpText(string(out)), nil
	}
}

func mcpListFacets(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b, err := deps.bundleFor(req.GetString("lang", ""))
		if err != nil {
			return mcpError(fmt.Sprintf("loading content: %v", err)), nil
		}
		out, err := json.Marshal(map[string]any{
			"projects":   search.CollectProjectFacets(b.Projects),
			"experience": search.CollectExperienceFacets(b.Resume.Experience),
		})
		if err != nil {
			return mcpError(fmt.Sprintf("marshaling facets: %v", err)), nil
		}
		return mcpText(string(out)), nil
	}
}

func mcpResourceResume(deps MCPDeps, lang string) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := deps.Library.Bundle(lang)
		if err != nil {
			return nil, fmt.Errorf("loading résumé for %s: %w", lang, err)
		}
		out, err := json.Marshal(b.Resume)
		if err != nil {
			return nil, fmt.Errorf("marshaling résumé: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(out),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
