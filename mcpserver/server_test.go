package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/larder/am"
	"github.com/teranos/larder/catalog"
	lardertest "github.com/teranos/larder/internal/testing"
)

func newTestServer(t *testing.T) (*MCPServer, *catalog.Store) {
	t.Helper()
	log := zaptest.NewLogger(t).Sugar()
	store := catalog.NewStore(lardertest.CreateTestDB(t), log)
	cfg := &am.Config{
		Autocomplete: am.AutocompleteConfig{EmptyQuery: "none"},
		Quantity:     am.QuantityConfig{Placeholder: "Qty"},
	}
	s, err := NewMCPServer(store, cfg, nil, log)
	require.NoError(t, err)
	return s, store
}

func call(t *testing.T, s *MCPServer, name string, args map[string]interface{}) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	for _, tool := range s.tools {
		if tool.Tool.Name != name {
			continue
		}
		res, err := tool.Handler(context.Background(), req)
		require.NoError(t, err)
		require.NotEmpty(t, res.Content)
		text, ok := res.Content[0].(mcp.TextContent)
		require.True(t, ok)
		return text.Text, res.IsError
	}
	t.Fatalf("tool %q not registered", name)
	return "", false
}

func TestToolNames(t *testing.T) {
	s, _ := newTestServer(t)
	assert.Equal(t, []string{
		"parse_quantity",
		"format_quantity",
		"resolve_icon",
		"suggest_ingredients",
		"add_ingredient",
	}, s.ToolNames())
}

func TestNewMCPServerRejectsBadConfig(t *testing.T) {
	store := catalog.NewStore(lardertest.CreateTestDB(t), nil)
	_, err := NewMCPServer(store, &am.Config{}, nil, nil)
	assert.Error(t, err)

	_, err = NewMCPServer(nil, &am.Config{Autocomplete: am.AutocompleteConfig{EmptyQuery: "all"}}, nil, nil)
	assert.Error(t, err)
}

func TestParseQuantityTool(t *testing.T) {
	s, _ := newTestServer(t)

	text, isErr := call(t, s, "parse_quantity", map[string]interface{}{"text": "1-1/2"})
	require.False(t, isErr, text)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	assert.Equal(t, float64(3), got["numerator"])
	assert.Equal(t, float64(2), got["denominator"])
	assert.Equal(t, "1 1/2", got["display"])

	text, isErr = call(t, s, "parse_quantity", map[string]interface{}{"text": "a pinch"})
	assert.True(t, isErr)
	assert.Contains(t, text, "quantities look like")

	text, isErr = call(t, s, "parse_quantity", map[string]interface{}{"text": " "})
	assert.False(t, isErr)
	assert.Contains(t, text, `"absent": true`)

	_, isErr = call(t, s, "parse_quantity", map[string]interface{}{})
	assert.True(t, isErr)
}

func TestFormatQuantityTool(t *testing.T) {
	s, _ := newTestServer(t)

	text, isErr := call(t, s, "format_quantity", map[string]interface{}{"numerator": float64(7), "denominator": float64(4)})
	assert.False(t, isErr)
	assert.Equal(t, "1 3/4", text)

	text, _ = call(t, s, "format_quantity", map[string]interface{}{"numerator": float64(2)})
	assert.Equal(t, "2", text)

	text, _ = call(t, s, "format_quantity", map[string]interface{}{})
	assert.Equal(t, "Qty", text)

	_, isErr = call(t, s, "format_quantity", map[string]interface{}{"numerator": float64(1), "denominator": float64(0)})
	assert.True(t, isErr)
}

func TestResolveIconTool(t *testing.T) {
	s, _ := newTestServer(t)

	text, isErr := call(t, s, "resolve_icon", map[string]interface{}{"name": "Extra Virgin Olive Oil"})
	require.False(t, isErr)
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	assert.Equal(t, "icon", got["kind"])
	assert.Equal(t, "olive-oil", got["value"])
}

func suggest(t *testing.T, s *MCPServer, args map[string]interface{}) []suggestion {
	t.Helper()
	text, isErr := call(t, s, "suggest_ingredients", args)
	require.False(t, isErr, text)
	var rows []suggestion
	require.NoError(t, json.Unmarshal([]byte(text), &rows))
	return rows
}

func TestSuggestAndAddIngredientTools(t *testing.T) {
	s, store := newTestServer(t)

	text, isErr := call(t, s, "add_ingredient", map[string]interface{}{"name": "Cumin", "category": "Spices"})
	require.False(t, isErr, text)
	_, err := store.FindByName(context.Background(), "cumin")
	require.NoError(t, err)

	_, isErr = call(t, s, "add_ingredient", map[string]interface{}{"name": "CUMIN"})
	assert.True(t, isErr)

	rows := suggest(t, s, map[string]interface{}{"query": "cum"})
	require.Len(t, rows, 2)
	assert.Equal(t, "Cumin", rows[0].Name)
	assert.Equal(t, "spices", rows[0].Category)
	assert.Equal(t, "create_new", rows[1].Kind)

	rows = suggest(t, s, map[string]interface{}{"query": "cumin"})
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Exact)

	assert.Empty(t, suggest(t, s, map[string]interface{}{}))
	assert.Len(t, suggest(t, s, map[string]interface{}{"empty": "all"}), 1)

	_, isErr = call(t, s, "suggest_ingredients", map[string]interface{}{"empty": "some"})
	assert.True(t, isErr)
}
