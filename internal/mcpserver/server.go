// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Berkano tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/thornmoor/berkano/internal/libservice"
	"github.com/thornmoor/berkano/internal/reconcile"
)

// Server wraps the MCP server with Berkano tools.
type Server struct {
	mcp *server.MCPServer
	svc *libservice.Service
}

// New creates a new MCP server with all Berkano tools registered.
func New(svc *libservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Berkano",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notebooks",
		mcp.WithDescription("Return the library record: every notebook with its metadata and note count."),
	), s.listNotebooks)

	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("Return the table of contents of one notebook: every page with title, preview, tags, and word count."),
		mcp.WithString("notebook", mcp.Required(), mcp.Description("Notebook id (directory name)")),
	), s.listPages)

	s.mcp.AddTool(mcp.NewTool("reconcile",
		mcp.WithDescription("Rescan the directory tree and merge it into the records. "+
			"Pass a notebook id to reconcile a single notebook, or omit it for a full pass."),
		mcp.WithString("notebook", mcp.Description("Optional notebook id to reconcile (empty for the whole library)")),
	), s.reconcile)

	s.mcp.AddTool(mcp.NewTool("update_notebook",
		mcp.WithDescription("Update a notebook's user-editable metadata. Omitted fields keep their value."),
		mcp.WithString("notebook", mcp.Required(), mcp.Description("Notebook id (directory name)")),
		mcp.WithString("display_name", mcp.Description("New display name")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags (replaces the existing set)")),
		mcp.WithString("icon", mcp.Description("New icon name")),
		mcp.WithString("color", mcp.Description("New color, e.g. #007AFF")),
	), s.updateNotebook)

	s.mcp.AddTool(mcp.NewTool("tag_page",
		mcp.WithDescription("Replace the tags of one page."),
		mcp.WithString("notebook", mcp.Required(), mcp.Description("Notebook id (directory name)")),
		mcp.WithString("page", mcp.Required(), mcp.Description("Page id (file name)")),
		mcp.WithString("tags", mcp.Required(), mcp.Description("Comma-separated tags (empty clears all tags)")),
	), s.tagPage)

	// Resource: library layout contract.
	s.mcp.AddResource(
		mcp.NewResource("berkano://library-layout", "Library Layout Contract",
			mcp.WithResourceDescription("The on-disk layout Berkano indexes and the record ownership rules."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readLayoutResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listNotebooks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := s.svc.Library(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("notebook")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.Notebook(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) reconcile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := ""
	if v, err := req.RequireString("notebook"); err == nil {
		id = v
	}

	var (
		stats reconcile.Stats
		err   error
	)
	if id == "" {
		stats, err = s.svc.ReconcileLibrary(ctx)
	} else {
		stats, err = s.svc.ReconcileNotebook(ctx, id)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.Marshal(stats)
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) updateNotebook(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("notebook")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var patch reconcile.NotebookPatch
	if v, vErr := req.RequireString("display_name"); vErr == nil {
		patch.DisplayName = &v
	}
	if v, vErr := req.RequireString("description"); vErr == nil {
		patch.Description = &v
	}
	if v, vErr := req.RequireString("tags"); vErr == nil {
		tags := splitTags(v)
		patch.Tags = &tags
	}
	if v, vErr := req.RequireString("icon"); vErr == nil {
		patch.Icon = &v
	}
	if v, vErr := req.RequireString("color"); vErr == nil {
		patch.Color = &v
	}

	entry, err := s.svc.UpdateNotebook(ctx, id, patch)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(entry, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) tagPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notebook, err := req.RequireString("notebook")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := req.RequireString("page")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := req.RequireString("tags")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, err := s.svc.UpdatePageTags(ctx, notebook, page, splitTags(raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(entry, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readLayoutResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "berkano://library-layout",
			MIMEType: "text/markdown",
			Text:     LibraryLayoutContract,
		},
	}, nil
}

func splitTags(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
