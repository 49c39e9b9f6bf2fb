package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Minify)
	assert.Empty(t, cfg.Partials)
	assert.Equal(t, "", cfg.Dir())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "neon.yaml", `
addr: "127.0.0.1:9000"
minify: true
log_level: debug
partials:
  header: partials/header.html
`)

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.True(t, cfg.Minify)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, map[string]string{"header": "partials/header.html"}, cfg.Partials)
	assert.Equal(t, dir, cfg.Dir())
}

func TestLoad_SearchesWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "neon.yaml", "addr: \":7000\"\n")
	t.Chdir(dir)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "neon.yaml", "addr: \":7000\"\n")
	t.Setenv("NEON_ADDR", ":9090")
	t.Setenv("NEON_LOG_LEVEL", "warn")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad level", "log_level: loud\n", "log_level"},
		{"bad addr", "addr: nowhere\n", "addr"},
		{"empty partial path", "partials:\n  header: \"\"\n", "partials"},
		{"bad yaml", "addr: [\n", "failed to read config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, "neon.yaml", tt.content)
			_, err := Load(viper.New(), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Load(viper.New(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "an explicit config file must exist")
}

func TestLoadPartials(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "partials"), 0o755))
	writeFile(t, filepath.Join(dir, "partials"), "header.html", "<h1>{title}</h1>")
	path := writeFile(t, dir, "neon.yaml", "partials:\n  header: partials/header.html\n")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	partials, err := cfg.LoadPartials()
	require.NoError(t, err)
	src, ok := partials.Lookup("header")
	assert.True(t, ok)
	assert.Equal(t, "<h1>{title}</h1>", src)

	cfg.Partials["missing"] = "nope.html"
	_, err = cfg.LoadPartials()
	assert.ErrorContains(t, err, `partial "missing"`)
}

func TestLoadData(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "data.yaml", `
name: Al
count: 3
tags: [a, b]
user:
  email: al@example.com
`)

	data, err := LoadData(path)
	require.NoError(t, err)

	assert.Equal(t, "Al", data["name"])
	assert.Equal(t, 3, data["count"])
	assert.Equal(t, []any{"a", "b"}, data["tags"])
	assert.Equal(t, map[string]any{"email": "al@example.com"}, data["user"])

	empty, err := LoadData("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	blank, err := LoadData(writeFile(t, dir, "blank.yaml", ""))
	require.NoError(t, err)
	assert.NotNil(t, blank)

	_, err = LoadData(writeFile(t, dir, "list.yaml", "- a\n- b\n"))
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}
