// Package config loads the settings of an apitree scan from a TOML, YAML
// or JSON file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all scan configuration.
type Config struct {
	// Archives are the jars or class files whose API is extracted.
	Archives []string `koanf:"archives"`
	// Supplementary archives only resolve types the API refers to.
	Supplementary []string      `koanf:"supplementary"`
	Runtime       RuntimeConfig `koanf:"runtime"`
	Output        OutputConfig  `koanf:"output"`
	Log           LogConfig     `koanf:"log"`
}

// RuntimeConfig selects the platform classes that need not be supplied by
// any archive.
type RuntimeConfig struct {
	// JavaHome is searched for rt.jar, jmods or src.zip. Empty means
	// $JAVA_HOME or the java launcher on the PATH.
	JavaHome string `koanf:"java_home"`
	// Jars are additional boot class path jars, e.g. android.jar.
	Jars []string `koanf:"jars"`
	// Packages are binary name prefixes treated as provided, e.g. "java/".
	Packages  []string `koanf:"packages" validate:"dive,required"`
	Disabled  bool     `koanf:"disabled"`
	CacheSize int      `koanf:"cache_size" validate:"gte=0"`
}

type OutputConfig struct {
	Format string `koanf:"format" validate:"oneof=text json yaml"`
	Color  bool   `koanf:"color"`
}

type LogConfig struct {
	// Verbosity follows commonlog: 0 errors only, 1 adds warnings and
	// notices, 2 info, 3 and above debug.
	Verbosity int    `koanf:"verbosity" validate:"gte=0,lte=5"`
	File      string `koanf:"file"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			CacheSize: 4096,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
		Log: LogConfig{
			Verbosity: 0,
		},
	}
}

// Load reads the file at path on top of DefaultConfig. The parser is
// chosen by extension; unknown extensions are read as TOML.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

var configNames = []string{
	"apitree.toml",
	"apitree.yaml",
	"apitree.yml",
	"apitree.json",
	".apitree.toml",
	".apitree.yaml",
	".apitree.yml",
	".apitree.json",
}

// Find returns the first configuration file present in dir, or "".
func Find(dir string) string {
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadOrDefault loads the first configuration file of the working
// directory. Without one it returns DefaultConfig.
func LoadOrDefault() (*Config, error) {
	path := Find(".")
	if path == "" {
		return DefaultConfig(), nil
	}
	return Load(path)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return err
	}
	msgs := make([]string, len(invalid))
	for i, fe := range invalid {
		msgs[i] = fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.ActualTag(), fe.Value())
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
