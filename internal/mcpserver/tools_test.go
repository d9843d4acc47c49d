package mcpserver_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finops-claw-gang/infracost-comment/internal/comment"
	"github.com/finops-claw-gang/infracost-comment/internal/mcpserver"
	"github.com/finops-claw-gang/infracost-comment/internal/storage"
)

const diffDoc = `{"currency":"USD","projects":[{"name":"app","diff":{"pastTotalMonthlyCost":"100","totalMonthlyCost":"120","diffTotalMonthlyCost":"20"}}]}`

func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "v1"}, nil)
	mcpserver.RegisterTools(server, comment.New(storage.FileStore{}))

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func callText(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text, res.IsError
}

func TestRegisterTools_Lists(t *testing.T) {
	cs := connect(t)

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"resolve_totals", "render_comment"}, names)
}

func TestResolveTotals(t *testing.T) {
	dir := t.TempDir()
	diffPath := filepath.Join(dir, "infracost.out.json")
	require.NoError(t, os.WriteFile(diffPath, []byte(diffDoc), 0o644))

	cs := connect(t)
	text, isErr := callText(t, cs, "resolve_totals", map[string]any{"diff": diffPath})
	require.False(t, isErr, text)

	var out struct {
		Totals   map[string]float64 `json:"totals"`
		Strategy string             `json:"strategy"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, "project-diff", out.Strategy)
	assert.Equal(t, map[string]float64{"past": 100, "future": 120, "delta": 20}, out.Totals)
}

func TestResolveTotals_NoInput(t *testing.T) {
	cs := connect(t)
	text, isErr := callText(t, cs, "resolve_totals", map[string]any{"diff": filepath.Join(t.TempDir(), "missing.json")})
	assert.True(t, isErr)
	assert.Contains(t, text, "no input document found")
}

func TestRenderComment_WritesOutput(t *testing.T) {
	dir := t.TempDir()
	diffPath := filepath.Join(dir, "infracost.out.json")
	outPath := filepath.Join(dir, "comment.md")
	require.NoError(t, os.WriteFile(diffPath, []byte(diffDoc), 0o644))

	cs := connect(t)
	text, isErr := callText(t, cs, "render_comment", map[string]any{
		"diff":           diffPath,
		"output":         outPath,
		"author":         "octocat",
		"mention_author": false,
		"currency":       "GBP",
	})
	require.False(t, isErr, text)

	var out comment.Outcome
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, "GBP", out.Currency.Code)
	assert.NotContains(t, out.Markdown, "@octocat")

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, out.Markdown, string(written))
}

func TestRenderComment_PreviewDoesNotWrite(t *testing.T) {
	dir := t.TempDir()
	diffPath := filepath.Join(dir, "infracost.out.json")
	require.NoError(t, os.WriteFile(diffPath, []byte(diffDoc), 0o644))

	cs := connect(t)
	text, isErr := callText(t, cs, "render_comment", map[string]any{"diff": diffPath, "title": "Preview"})
	require.False(t, isErr, text)
	assert.Contains(t, text, "### Preview")

	_, err := os.Stat(filepath.Join(dir, comment.DefaultOutputName))
	assert.True(t, os.IsNotExist(err))
}
