package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "text", cfg.Output.Format)
	assert.True(t, cfg.Output.Color)
	assert.Equal(t, 4096, cfg.Runtime.CacheSize)
	assert.False(t, cfg.Runtime.Disabled)
	assert.Empty(t, cfg.Archives)
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "apitree.toml", `
archives = ["lib/api.jar"]
supplementary = ["lib/dep.jar", "lib/other.jar"]

[runtime]
packages = ["java/", "javax/"]
cache_size = 10

[output]
format = "json"
color = false

[log]
verbosity = 2
`},
		{"yaml", "apitree.yaml", `
archives: [lib/api.jar]
supplementary:
  - lib/dep.jar
  - lib/other.jar
runtime:
  packages: ["java/", "javax/"]
  cache_size: 10
output:
  format: json
  color: false
log:
  verbosity: 2
`},
		{"json", "apitree.json", `{
  "archives": ["lib/api.jar"],
  "supplementary": ["lib/dep.jar", "lib/other.jar"],
  "runtime": {"packages": ["java/", "javax/"], "cache_size": 10},
  "output": {"format": "json", "color": false},
  "log": {"verbosity": 2}
}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, []string{"lib/api.jar"}, cfg.Archives)
			assert.Equal(t, []string{"lib/dep.jar", "lib/other.jar"}, cfg.Supplementary)
			assert.Equal(t, []string{"java/", "javax/"}, cfg.Runtime.Packages)
			assert.Equal(t, 10, cfg.Runtime.CacheSize)
			assert.Equal(t, "json", cfg.Output.Format)
			assert.False(t, cfg.Output.Color)
			assert.Equal(t, 2, cfg.Log.Verbosity)
		})
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "apitree.yml", "archives: [a.jar]\n"))
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, 4096, cfg.Runtime.CacheSize)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	_, err := Load(writeConfig(t, "apitree.yaml", "output:\n  format: xml\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Format")

	_, err = Load(writeConfig(t, "apitree.toml", "[runtime]\ncache_size = -1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CacheSize")

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, Find(dir))

	hidden := filepath.Join(dir, ".apitree.json")
	require.NoError(t, os.WriteFile(hidden, []byte("{}"), 0o644))
	assert.Equal(t, hidden, Find(dir))

	plain := filepath.Join(dir, "apitree.yaml")
	require.NoError(t, os.WriteFile(plain, []byte("{}"), 0o644))
	assert.Equal(t, plain, Find(dir))
}

func TestLoadOrDefault(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadOrDefault()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	require.NoError(t, os.WriteFile("apitree.toml", []byte("archives = [\"x.jar\"]\n"), 0o644))
	cfg, err = LoadOrDefault()
	require.NoError(t, err)
	assert.Equal(t, []string{"x.jar"}, cfg.Archives)
}
