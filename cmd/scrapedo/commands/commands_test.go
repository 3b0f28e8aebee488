package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/scrapedo-mcp/desktop"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	initFlags.force, initFlags.path = false, ""
	estimateFlags.render, estimateFlags.super = false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestEstimate(t *testing.T) {
	out, err := run(t, "estimate", "--render", "--super", "https://www.linkedin.com/in/x", "https://example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "https://www.linkedin.com/in/x")
	assert.Contains(t, out, "30")
	assert.Contains(t, out, "25")
}

func TestEstimateRejectsBadURL(t *testing.T) {
	_, err := run(t, "estimate", "not a url")
	assert.Error(t, err)
}

func TestInitAndConfig(t *testing.T) {
	t.Setenv("SCRAPEDO_API_KEY", "tok123")
	path := filepath.Join(t.TempDir(), "claude.json")

	out, err := run(t, "config", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "not configured")

	out, err = run(t, "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "configuration updated")

	entry, err := desktop.Entry(path)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "tok123", entry.Env["SCRAPEDO_API_KEY"])
	assert.Equal(t, []string{"mcp"}, entry.Args)

	out, err = run(t, "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "already configured")
	assert.Contains(t, out, "--force")

	out, err = run(t, "config", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"SCRAPEDO_API_KEY": "tok123"`)
}

func TestServeRequiresToken(t *testing.T) {
	t.Setenv("SCRAPEDO_API_KEY", "")
	_, err := run(t, "serve")
	assert.ErrorContains(t, err, "SCRAPEDO_API_KEY")
}
