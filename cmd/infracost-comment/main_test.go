package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finops-claw-gang/infracost-comment/internal/report"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{
		"INFRACOST_OUT_PATH", "INFRACOST_BASE_PATH", "INFRACOST_PR_PATH", "INFRACOST_COMMENT_PATH",
		"PR_AUTHOR", "MENTION_HANDLES", "MENTION_AUTHOR", "MENTION_LIST", "COMMENT_TITLE",
		"CURRENCY", "CURRENCY_FLAG", "COMMENT_MARKER", "OTEL_ENABLED",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func TestRun_DefaultPaths(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "infracost"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "infracost", "infracost.out.json"), []byte(
		`{"projects":[{"diff":{"pastTotalMonthlyCost":"100","totalMonthlyCost":"120","diffTotalMonthlyCost":"20"}}]}`,
	), 0o644))
	t.Setenv("PR_AUTHOR", "octocat")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), nil, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	md, err := os.ReadFile(filepath.Join("infracost", "infracost_comment.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "@octocat")
	assert.Contains(t, string(md), "🔴 ↑ Monthly delta: 🇺🇸 $20.00")
	assert.Contains(t, stdout.String(), "strategy: project-diff")
	assert.Contains(t, stdout.String(), "(created)")
}

func TestRun_FlagsOverrideEnv(t *testing.T) {
	dir := isolate(t)
	base := filepath.Join(dir, "b.json")
	pr := filepath.Join(dir, "p.json")
	out := filepath.Join(dir, "nested", "out.md")
	require.NoError(t, os.WriteFile(base, []byte(`{"projects":[{"breakdown":{"totalMonthlyCost":"50"}}]}`), 0o644))
	require.NoError(t, os.WriteFile(pr, []byte(`{"projects":[{"breakdown":{"totalMonthlyCost":"50"}}]}`), 0o644))
	t.Setenv("CURRENCY", "GBP")
	t.Setenv("COMMENT_TITLE", "from env")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"--base", base, "--pr", pr, "--out", out,
		"--currency", "eur", "--title", "From flag", "--marker", "<!-- cost -->",
	}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	md, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(md), "### From flag")
	assert.Contains(t, string(md), "€0.00")
	assert.Contains(t, string(md), "<!-- cost -->\n")
	assert.NotContains(t, string(md), report.DefaultMarker)
	assert.Contains(t, stdout.String(), "strategy: breakdown-pair")
}

func TestRun_NoInputExitsNonZero(t *testing.T) {
	dir := isolate(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), nil, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "no infracost JSON found")
	assert.Contains(t, stderr.String(), "infracost.out.json")
	assert.Contains(t, stderr.String(), "infracost/infracost-pr.json")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no Markdown file may be written")
}

func TestRun_BadFlag(t *testing.T) {
	isolate(t)
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), []string{"--nope"}, &stdout, &stderr))
}
