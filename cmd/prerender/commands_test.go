package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shell = `<!doctype html><html><head><title>App</title></head><body><div id="root"></div></body></html>`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DB_HOST", "")
	t.Setenv("MINIO_ENDPOINT", "")
	t.Setenv("CATALOG_API_URL", "")
	t.Setenv("SITE_TIMEZONE", "UTC")
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func newDist(t *testing.T) string {
	t.Helper()
	dist := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dist, "index.html"), []byte(shell), 0o644))
	return dist
}

func TestBuildCmd(t *testing.T) {
	dist := newDist(t)

	out, err := run(t, "build", "--dist", dist, "--site-url", "https://www.example.com")
	require.NoError(t, err)

	assert.Contains(t, out, "rendered ")
	assert.Contains(t, out, "(0 skipped)")
	assert.FileExists(t, filepath.Join(dist, "menu", "index.html"))
	assert.FileExists(t, filepath.Join(dist, "sitemap.xml"))

	sitemap, err := os.ReadFile(filepath.Join(dist, "sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(sitemap), "<loc>https://www.example.com/menu/</loc>")
}

func TestBuildCmd_MissingTemplate(t *testing.T) {
	_, err := run(t, "build", "--dist", t.TempDir())
	assert.Error(t, err)
}

func TestPublishCmd_RequiresDatabase(t *testing.T) {
	_, err := run(t, "publish", "--dist", newDist(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
}

func TestRoutesCmd(t *testing.T) {
	out, err := run(t, "routes", "--dist", t.TempDir())
	require.NoError(t, err)

	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "/menu/hot-coffee/")
	assert.Contains(t, out, "/locations/springfield-main-street/")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "routes", "--log-level", "loud")
	assert.Error(t, err)
}
