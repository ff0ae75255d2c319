// Package config loads the user configuration of the quill command from
// config.yml or config.toml.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/quill-lang/quill/internal/interp"
)

var DEFAULT_YAML_FILE string = `# quill configuration
color: true
log_level: warn
max_call_depth: 1024
repl:
  prompt: "quill> "
  history_file: ""
`

type Config struct {
	Color        bool   `yaml:"color" toml:"color"`
	LogLevel     string `yaml:"log_level" toml:"log_level"`
	MaxCallDepth int    `yaml:"max_call_depth" toml:"max_call_depth"`
	Repl         Repl   `yaml:"repl" toml:"repl"`

	// where the configuration was read from, empty for the defaults
	Path string `yaml:"-" toml:"-"`
}

type Repl struct {
	Prompt string `yaml:"prompt" toml:"prompt"`
	// Empty means history.txt inside the configuration directory.
	HistoryFile string `yaml:"history_file" toml:"history_file"`
}

func Default() *Config {
	cfg := new(Config)
	cfg.applyDefaults()
	cfg.Color = true
	return cfg
}

// Load reads path, picking the decoder from its extension. Keys missing from
// the file keep their default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	switch ext := filepath.Ext(path); ext {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err = toml.Decode(string(data), cfg)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.Path = path
	if _, err := cfg.SlogLevel(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromDir loads the configuration file of dir, see FindFile.
func LoadFromDir(dir string) (*Config, error) {
	path, err := FindFile(dir)
	if err != nil {
		return nil, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if cfg.Repl.HistoryFile == "" {
		cfg.Repl.HistoryFile = filepath.Join(dir, "history.txt")
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.MaxCallDepth <= 0 {
		c.MaxCallDepth = interp.DEFAULT_MAX_CALL_DEPTH
	}
	if c.Repl.Prompt == "" {
		c.Repl.Prompt = "quill> "
	}
}

func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// ShowAll writes every setting as `key='value'`, nested keys joined by dots.
func (c *Config) ShowAll(w io.Writer) error {
	return showStruct(w, "", reflect.ValueOf(c).Elem())
}

func showStruct(w io.Writer, prefix string, v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		key := strings.Split(field.Tag.Get("yaml"), ",")[0]
		if key == "" || key == "-" {
			continue
		}
		key = prefix + key

		fieldValue := v.Field(i)
		if fieldValue.Kind() == reflect.Struct {
			if err := showStruct(w, key+".", fieldValue); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%s='%v'\n", key, fieldValue.Interface()); err != nil {
			return err
		}
	}
	return nil
}
