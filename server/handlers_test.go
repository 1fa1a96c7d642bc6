package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/larder/am"
	"github.com/teranos/larder/catalog"
	"github.com/teranos/larder/icon"
	"github.com/teranos/larder/quantity"
)

func seed(t *testing.T, store *catalog.Store, names ...string) []catalog.Ingredient {
	t.Helper()
	out := make([]catalog.Ingredient, 0, len(names))
	for _, name := range names {
		ing, err := store.Create(context.Background(), name, "")
		require.NoError(t, err)
		out = append(out, ing)
	}
	return out
}

func TestHandleHealth(t *testing.T) {
	srv, store := newTestServer(t)
	seed(t, store, "Salt", "Pepper")

	var resp HealthResponse
	rec := do(t, srv, http.MethodGet, "/health", nil, &resp)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "running", resp.ServerState)
	assert.Equal(t, 2, resp.Ingredients)
	assert.Equal(t, "none", resp.EmptyQuery)
	assert.Equal(t, icon.EmbeddedTable().Version().String(), resp.IconTable)

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, srv, http.MethodPost, "/health", nil, nil).Code)
}

func TestHandleQuantityParse(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		text    string
		valid   bool
		absent  bool
		num     int64
		den     int64
		display string
	}{
		{text: "1 1/2", valid: true, num: 3, den: 2, display: "1 1/2"},
		{text: "1.5", valid: true, num: 3, den: 2, display: "1 1/2"},
		{text: "1-1/2", valid: true, num: 3, den: 2, display: "1 1/2"},
		{text: " 2 ", valid: true, num: 2, den: 1, display: "2"},
		{text: "0", valid: true, num: 0, den: 1, display: "0"},
		{text: "", absent: true, display: "Qty"},
		{text: "   ", absent: true, display: "Qty"},
		{text: "abc"},
		{text: "1/0"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.text), func(t *testing.T) {
			var resp ParseQuantityResponse
			rec := do(t, srv, http.MethodPost, "/api/quantity/parse", ParseQuantityRequest{Text: tt.text}, &resp)
			require.Equal(t, http.StatusOK, rec.Code)

			assert.Equal(t, tt.valid, resp.Valid)
			assert.Equal(t, tt.absent, resp.Absent)
			if tt.valid {
				assert.Equal(t, tt.num, resp.Numerator)
				assert.Equal(t, tt.den, resp.Denominator)
				assert.Empty(t, resp.Error)
			}
			if !tt.valid && !tt.absent {
				assert.NotEmpty(t, resp.Error)
				assert.Contains(t, resp.Hints, "quantities look like "+quantity.AcceptedForms)
			}
			if tt.display != "" {
				assert.Equal(t, tt.display, resp.Display)
			}
		})
	}
}

func TestHandleQuantityParseRejectsBadBody(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/quantity/parse", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, srv, http.MethodGet, "/api/quantity/parse", nil, nil).Code)
}

func TestHandleQuantityFormat(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		req  FormatQuantityRequest
		want string
	}{
		{name: "absent", req: FormatQuantityRequest{}, want: "Qty"},
		{name: "whole", req: FormatQuantityRequest{Numerator: int64Ptr(5)}, want: "5"},
		{name: "mixed", req: FormatQuantityRequest{Numerator: int64Ptr(3), Denominator: int64Ptr(2)}, want: "1 1/2"},
		{name: "proper", req: FormatQuantityRequest{Numerator: int64Ptr(2), Denominator: int64Ptr(4)}, want: "1/2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp FormatQuantityResponse
			rec := do(t, srv, http.MethodPost, "/api/quantity/format", tt.req, &resp)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, resp.Text)
		})
	}

	var errResp ErrorResponse
	rec := do(t, srv, http.MethodPost, "/api/quantity/format",
		FormatQuantityRequest{Numerator: int64Ptr(1), Denominator: int64Ptr(0)}, &errResp)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, errResp.Error)
}

func TestHandleIcon(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		query string
		kind  string
		value string
	}{
		{query: "name=smoked+salmon", kind: "icon", value: "salmon"},
		{query: "name=xyzzy&category=dairy", kind: "icon", value: "dairy"},
		{query: "name=xyzzy", kind: "emoji", value: icon.DefaultGlyph},
		{query: "", kind: "emoji", value: icon.DefaultGlyph},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var resp IconResponse
			rec := do(t, srv, http.MethodGet, "/api/icon?"+tt.query, nil, &resp)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.kind, resp.Kind)
			assert.Equal(t, tt.value, resp.Value)
			assert.Equal(t, icon.FallbackGlyph, resp.Fallback)
		})
	}
}

func TestHandleIngredients(t *testing.T) {
	srv, _ := newTestServer(t)

	var created catalog.Ingredient
	rec := do(t, srv, http.MethodPost, "/api/ingredients",
		CreateIngredientRequest{Name: "  Olive Oil ", Category: "Pantry"}, &created)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Olive Oil", created.Name)
	assert.Equal(t, "pantry", created.Category)
	assert.NotZero(t, created.ID)

	var errResp ErrorResponse
	rec = do(t, srv, http.MethodPost, "/api/ingredients", CreateIngredientRequest{Name: "olive oil"}, &errResp)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NotEmpty(t, errResp.Error)

	rec = do(t, srv, http.MethodPost, "/api/ingredients", CreateIngredientRequest{Name: "   "}, &errResp)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var list []catalog.Ingredient
	rec = do(t, srv, http.MethodGet, "/api/ingredients", nil, &list)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, srv, http.MethodPut, "/api/ingredients", nil, nil).Code)
}

func TestHandleIngredient(t *testing.T) {
	srv, store := newTestServer(t)
	ing := seed(t, store, "Garlic")[0]
	path := fmt.Sprintf("/api/ingredients/%d", ing.ID)

	var got catalog.Ingredient
	rec := do(t, srv, http.MethodGet, path, nil, &got)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Garlic", got.Name)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, path, nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, path, nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodDelete, path, nil, nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/api/ingredients/abc", nil, nil).Code)
}

func TestHandleSuggest(t *testing.T) {
	srv, store := newTestServer(t)
	items := seed(t, store, "Olive Oil", "Olive", "Garlic")

	t.Run("partial text offers create-new", func(t *testing.T) {
		var resp SuggestResponse
		rec := do(t, srv, http.MethodGet, "/api/ingredients/suggest?q=oli", nil, &resp)
		require.Equal(t, http.StatusOK, rec.Code)

		require.Len(t, resp.Items, 3)
		assert.Equal(t, "Olive Oil", resp.Items[0].Name)
		assert.Equal(t, "Olive", resp.Items[1].Name)
		assert.Equal(t, "create_new", resp.Items[2].Kind)
		assert.Equal(t, "oli", resp.Items[2].Name)
		assert.Equal(t, 0, resp.Highlighted)
		assert.Nil(t, resp.Exact)
	})

	t.Run("exact match suppresses create-new", func(t *testing.T) {
		var resp SuggestResponse
		do(t, srv, http.MethodGet, "/api/ingredients/suggest?q=OLIVE", nil, &resp)

		require.Len(t, resp.Items, 2)
		require.NotNil(t, resp.Exact)
		assert.Equal(t, items[1].ID, resp.Exact.ID)
		for _, it := range resp.Items {
			assert.Equal(t, "existing", it.Kind)
			assert.NotEmpty(t, it.Icon.Value)
		}
	})

	t.Run("empty text follows configured mode", func(t *testing.T) {
		var resp SuggestResponse
		do(t, srv, http.MethodGet, "/api/ingredients/suggest?q=", nil, &resp)
		assert.Empty(t, resp.Items)
		assert.Equal(t, -1, resp.Highlighted)

		do(t, srv, http.MethodGet, "/api/ingredients/suggest?empty=all", nil, &resp)
		assert.Len(t, resp.Items, 3)
	})

	t.Run("bad empty mode", func(t *testing.T) {
		var resp ErrorResponse
		rec := do(t, srv, http.MethodGet, "/api/ingredients/suggest?empty=sometimes", nil, &resp)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, resp.Hints)
	})
}

func TestCORS(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/ingredients", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestApplyConfig(t *testing.T) {
	srv, store := newTestServer(t)
	seed(t, store, "Salt", "Pepper")

	next := testConfig()
	next.Autocomplete.EmptyQuery = "all"
	next.Autocomplete.MaxResults = 1
	next.Quantity.Placeholder = "?"
	require.NoError(t, srv.ApplyConfig(next))

	var suggest SuggestResponse
	do(t, srv, http.MethodGet, "/api/ingredients/suggest", nil, &suggest)
	assert.Len(t, suggest.Items, 1)

	var format FormatQuantityResponse
	do(t, srv, http.MethodPost, "/api/quantity/format", FormatQuantityRequest{}, &format)
	assert.Equal(t, "?", format.Text)

	bad := testConfig()
	bad.Server.Port = -1
	require.Error(t, srv.ApplyConfig(bad))
	assert.Equal(t, "?", srv.current().formatter.Placeholder)
}

func TestApplyConfigKeepsEmbeddedTableOnBadFile(t *testing.T) {
	srv, _ := newTestServer(t, func(cfg *am.Config) {
		cfg.Icons.TableFile = t.TempDir() + "/missing.toml"
	})
	assert.Equal(t, icon.EmbeddedSource, srv.current().resolver.Table().Source())
}

func int64Ptr(v int64) *int64 { return &v }
