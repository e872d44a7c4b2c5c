package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"
)

// ErrUnsupportedFormat is returned for config files that are neither YAML
// nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Topics holds the MQTT topic prefixes. The sequence name is appended to
// each, e.g. "cardtx/progress/services".
type Topics struct {
	Progress string `yaml:"progress" toml:"progress"`
	States   string `yaml:"states" toml:"states"`
}

// MQTT holds broker connection settings.
type MQTT struct {
	Enabled  bool   `yaml:"enabled" toml:"enabled"`
	URL      string `yaml:"url" toml:"url"`
	Username string `yaml:"username" toml:"username"`
	Password string `yaml:"password" toml:"password"`
	ClientID string `yaml:"client_id" toml:"client_id"`
	QoS      byte   `yaml:"qos" toml:"qos"`
	Topics   Topics `yaml:"topics" toml:"topics"`
}

// HTTP holds the API server settings.
type HTTP struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled"`
	Addr      string `yaml:"addr" toml:"addr"`
	StaticDir string `yaml:"static_dir" toml:"static_dir"`
}

// Sequence describes one pinned stack of cards. Zero numeric values take
// the defaults.
type Sequence struct {
	Name      string  `yaml:"name" toml:"name"`
	Cards     int     `yaml:"cards" toml:"cards"`
	OffsetMax float64 `yaml:"offset_max" toml:"offset_max"`
	ScaleMin  float64 `yaml:"scale_min" toml:"scale_min"`
	Easing    string  `yaml:"easing" toml:"easing"`
	// LutSize > 0 reads the easing through a sampled table.
	LutSize          int      `yaml:"lut_size" toml:"lut_size"`
	Palette          []string `yaml:"palette" toml:"palette"`
	Background       string   `yaml:"background" toml:"background"`
	PublishUnchanged bool     `yaml:"publish_unchanged" toml:"publish_unchanged"`
}

// Config is the top level configuration.
type Config struct {
	LogLevel  string     `yaml:"log_level" toml:"log_level"`
	MQTT      MQTT       `yaml:"mqtt" toml:"mqtt"`
	HTTP      HTTP       `yaml:"http" toml:"http"`
	Sequences []Sequence `yaml:"sequences" toml:"sequences"`
}

type format int

const (
	formatYAML format = iota
	formatTOML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

// Load reads, normalises and validates the config at path. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		cfg.normalize()
		return &cfg, cfg.Validate()
	}

	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	// Sequences in the file replace the defaults rather than merging.
	cfg.Sequences = nil
	switch f {
	case formatYAML:
		err = yaml.UnmarshalStrict(data, &cfg)
	case formatTOML:
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(cfg.Sequences) == 0 {
		cfg.Sequences = Default().Sequences
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Encode renders the config in the format implied by path's extension.
func (c *Config) Encode(path string) ([]byte, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	if f == formatTOML {
		return toml.Marshal(c)
	}
	return yaml.Marshal(c)
}

// Sequence returns the named sequence.
func (c *Config) Sequence(name string) (Sequence, bool) {
	for _, s := range c.Sequences {
		if s.Name == name {
			return s, true
		}
	}
	return Sequence{}, false
}
