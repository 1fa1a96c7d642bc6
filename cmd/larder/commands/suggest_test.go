package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/larder/icon"
	"github.com/teranos/larder/logger"
)

func TestRunSuggest(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, "Olive Oil", "Olive", "Garlic")
	engine := newPickEngine(t)
	resolver := icon.NewResolver(nil)

	var buf bytes.Buffer
	require.NoError(t, runSuggest(ctx, &buf, store, engine, resolver, "olive", false))
	out := buf.String()
	assert.Contains(t, out, "> ")
	assert.Contains(t, out, "Olive (exact)")
	assert.NotContains(t, out, "Create")
	assert.NotContains(t, out, "Garlic")

	buf.Reset()
	require.NoError(t, runSuggest(ctx, &buf, store, engine, resolver, "oli", true))
	var rows []suggestionRow
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "Olive Oil", rows[0].Name)
	assert.Equal(t, "create_new", rows[2].Kind)
	assert.Equal(t, "oli", rows[2].Name)

	buf.Reset()
	require.NoError(t, runSuggest(ctx, &buf, store, engine, resolver, "", false))
	assert.Contains(t, buf.String(), "(no suggestions)")
}

func TestReportTiming(t *testing.T) {
	var buf bytes.Buffer
	reportTiming(&buf, logger.VerbosityInfo, "suggest", 12*time.Millisecond)
	assert.Empty(t, buf.String())

	reportTiming(&buf, logger.VerbosityDebug, "suggest", 12*time.Millisecond)
	assert.Contains(t, buf.String(), "suggest took 12ms")
}
