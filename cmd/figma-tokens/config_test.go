package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", defaultConfigFile, "")
	fs.String("url", "", "")
	fs.String("database", "", "")
	fs.String("branch", "main", "")
	fs.String("addr", ":5000", "")
	fs.Duration("timeout", 30*time.Second, "")
	return fs
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := writeConfig(t, `
file_url: https://www.figma.com/design/FROMFILE/x
database: file.db
publish_timeout: 45s
github:
  owner: acme
  repo: design
  branch: develop
archive:
  endpoint: minio:9000
  bucket: tokens
  access_key: key
`)
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("PORT", "8080")
	t.Setenv("ARCHIVE_S3_USE_SSL", "true")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--config", path, "--url", "https://www.figma.com/design/FROMFLAG/x", "--branch", "release"}))

	cfg, err := loadConfig(fs)
	require.NoError(t, err)

	assert.Equal(t, "https://www.figma.com/design/FROMFLAG/x", cfg.FileURL, "flag beats file")
	assert.Equal(t, "postgres://env/db", cfg.Database, "env beats file")
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 45*time.Second, cfg.PublishTimeout)
	assert.Equal(t, "acme", cfg.GitHub.Owner)
	assert.Equal(t, "release", cfg.GitHub.Branch)
	assert.Equal(t, "tokens/design-tokens.json", cfg.GitHub.FilePath, "default kept")
	assert.Equal(t, "design-tokens.json", cfg.Output)
	assert.True(t, cfg.Archive.Enabled())
	assert.True(t, cfg.Archive.UseSSL)
	assert.Equal(t, "key", cfg.Archive.AccessKey)
}

func TestLoadConfigFileOptional(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := loadConfig(testFlags())
	require.NoError(t, err)
	assert.Equal(t, defaultConfig().Addr, cfg.Addr)

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--config", "missing.yaml"}))
	_, err = loadConfig(fs)
	assert.Error(t, err, "an explicit config file must exist")
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	fs := testFlags()
	require.NoError(t, fs.Parse([]string{"--config", writeConfig(t, "github: [")}))
	_, err := loadConfig(fs)
	assert.ErrorContains(t, err, "parse ")
}

func TestNewRootCmd(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"extract", "push", "token", "snapshot", "serve", "version"})
}

func TestOpenSourceRequiresInput(t *testing.T) {
	_, err := openSource(Config{})
	assert.EqualError(t, err, "a Figma file URL (--url) or a snapshot (--snapshot) is required")

	_, err = openSource(Config{FileURL: "https://www.figma.com/design/ABC/x"})
	assert.EqualError(t, err, "a Figma access token (--token or FIGMA_TOKEN) is required")

	_, err = openSource(Config{FileURL: "https://example.com/x", FigmaToken: "t"})
	assert.ErrorContains(t, err, "extract file key")
}
