// Package mcpserver exposes larder's quantity, icon and catalog operations as
// Model Context Protocol tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/teranos/larder/am"
	"github.com/teranos/larder/catalog"
	"github.com/teranos/larder/errors"
	"github.com/teranos/larder/icon"
	"github.com/teranos/larder/logger"
	"github.com/teranos/larder/match"
	"github.com/teranos/larder/quantity"
	"github.com/teranos/larder/version"
)

// MCPServer serves larder tools to an MCP client
type MCPServer struct {
	store     *catalog.Store
	engine    *match.Engine
	formatter quantity.Formatter
	resolver  *icon.Resolver
	logger    *zap.SugaredLogger
	server    *server.MCPServer
	tools     []server.ServerTool
}

// NewMCPServer creates an MCP server over store configured by cfg
func NewMCPServer(store *catalog.Store, cfg *am.Config, resolver *icon.Resolver, log *zap.SugaredLogger) (*MCPServer, error) {
	if store == nil {
		return nil, errors.New("catalog store cannot be nil")
	}
	engine, err := cfg.NewEngine()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build match engine")
	}
	if resolver == nil {
		resolver = icon.NewResolver(nil)
	}
	if log == nil {
		log = logger.ComponentLogger("mcp")
	}

	s := &MCPServer{
		store:     store,
		engine:    engine,
		formatter: quantity.Formatter{Placeholder: cfg.Quantity.Placeholder},
		resolver:  resolver,
		logger:    log,
	}

	// Create MCP server with tool capabilities
	s.server = server.NewMCPServer(
		"larder",
		version.Get().Version,
		server.WithToolCapabilities(true),
	)
	s.tools = s.buildTools()
	s.server.AddTools(s.tools...)

	return s, nil
}

// buildTools declares every tool with its handler
func (s *MCPServer) buildTools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("parse_quantity",
				mcp.WithDescription("Parse recipe quantity text such as 2, 1.5, 1/2 or 1 1/2 into an exact fraction"),
				mcp.WithString("text",
					mcp.Required(),
					mcp.Description("Quantity text as typed"),
				),
			),
			Handler: s.handleParseQuantity,
		},
		{
			Tool: mcp.NewTool("format_quantity",
				mcp.WithDescription("Render a fraction the way larder displays quantities"),
				mcp.WithNumber("numerator",
					mcp.Description("Numerator; omit for an absent quantity"),
				),
				mcp.WithNumber("denominator",
					mcp.Description("Denominator (default: 1)"),
				),
			),
			Handler: s.handleFormatQuantity,
		},
		{
			Tool: mcp.NewTool("resolve_icon",
				mcp.WithDescription("Pick the icon or emoji for an ingredient"),
				mcp.WithString("name",
					mcp.Required(),
					mcp.Description("Ingredient name"),
				),
				mcp.WithString("category",
					mcp.Description("Optional ingredient category, e.g. dairy"),
				),
			),
			Handler: s.handleResolveIcon,
		},
		{
			Tool: mcp.NewTool("suggest_ingredients",
				mcp.WithDescription("Suggest catalog ingredients matching typed text"),
				mcp.WithString("query",
					mcp.Description("Typed text; may be empty"),
				),
				mcp.WithString("empty",
					mcp.Description("What an empty query shows: all or none (default: configured mode)"),
				),
			),
			Handler: s.handleSuggestIngredients,
		},
		{
			Tool: mcp.NewTool("add_ingredient",
				mcp.WithDescription("Add an ingredient to the catalog"),
				mcp.WithString("name",
					mcp.Required(),
					mcp.Description("Ingredient name"),
				),
				mcp.WithString("category",
					mcp.Description("Optional category"),
				),
			),
			Handler: s.handleAddIngredient,
		},
	}
}

// ToolNames lists the registered tools in registration order
func (s *MCPServer) ToolNames() []string {
	names := make([]string, len(s.tools))
	for i, t := range s.tools {
		names[i] = t.Tool.Name
	}
	return names
}

// Serve runs the server on stdin/stdout until the client disconnects
func (s *MCPServer) Serve() error {
	s.logger.Infow("Serving MCP over stdio", logger.FieldCount, len(s.tools))
	return server.ServeStdio(s.server)
}

// handleParseQuantity handles parse_quantity tool calls
func (s *MCPServer) handleParseQuantity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(text) == "" {
		return jsonResult(map[string]interface{}{
			"absent":  true,
			"display": s.formatter.Format(nil),
		})
	}

	q, err := quantity.Parse(text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%v (quantities look like %s)", err, quantity.AcceptedForms)), nil
	}
	return jsonResult(map[string]interface{}{
		"numerator":   q.Num(),
		"denominator": q.Den(),
		"display":     s.formatter.Format(&q),
	})
}

// handleFormatQuantity handles format_quantity tool calls
func (s *MCPServer) handleFormatQuantity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, ok := request.GetArguments()["numerator"]; !ok {
		return mcp.NewToolResultText(s.formatter.Format(nil)), nil
	}
	num, err := request.RequireInt("numerator")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	den := request.GetInt("denominator", 1)

	q, err := quantity.New(int64(num), int64(den))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(s.formatter.Format(&q)), nil
}

// handleResolveIcon handles resolve_icon tool calls
func (s *MCPServer) handleResolveIcon(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tok := s.resolver.Resolve(name, request.GetString("category", ""))
	return jsonResult(map[string]string{
		"kind":     tok.Kind.String(),
		"value":    tok.Value,
		"fallback": icon.FallbackGlyph,
	})
}

// suggestion is one suggest_ingredients row
type suggestion struct {
	Kind     string `json:"kind"`
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Exact    bool   `json:"exact,omitempty"`
}

// handleSuggestIngredients handles suggest_ingredients tool calls
func (s *MCPServer) handleSuggestIngredients(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	engine := s.engine
	if raw := request.GetString("empty", ""); raw != "" {
		mode, err := match.ParseEmptyQueryMode(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if engine, err = match.NewEngine(mode, match.WithMaxResults(s.engine.MaxResults())); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	candidates, err := s.store.Candidates(ctx)
	if err != nil {
		s.logger.Errorw("Failed to load candidates", logger.FieldError, err)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to load catalog: %v", err)), nil
	}

	result := engine.Query(candidates, request.GetString("query", ""))
	rows := make([]suggestion, 0, len(result.Items))
	for _, it := range result.Items {
		row := suggestion{Kind: it.Kind.String(), Name: it.Label()}
		if it.Kind == match.ItemExisting {
			row.ID = it.Candidate.ID
			row.Category = it.Candidate.Category
			row.Exact = result.Exact != nil && result.Exact.ID == it.Candidate.ID
		}
		rows = append(rows, row)
	}
	return jsonResult(rows)
}

// handleAddIngredient handles add_ingredient tool calls
func (s *MCPServer) handleAddIngredient(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ing, err := s.store.Create(ctx, name, request.GetString("category", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.logger.Debugw("Ingredient added via MCP", logger.FieldIngredient, ing.Name)
	return jsonResult(ing)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode tool result")
	}
	return mcp.NewToolResultText(string(data)), nil
}
