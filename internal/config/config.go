package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/spektr-org/spektr-viz/engine"
)

const (
	SupportedSchema = "v1"
	EnvPrefix       = "SPEKTR_VIZ__"
)

type LogCfg struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

type ServerCfg struct {
	Addr    string `koanf:"addr"`
	Metrics bool   `koanf:"metrics"`
}

// ChartCfg holds defaults applied to every chart request.
type ChartCfg struct {
	Compact   bool             `koanf:"compact"`
	Title     string           `koanf:"title"`
	LineStyle engine.LineStyle `koanf:"line_style"`
	LineShape engine.LineShape `koanf:"line_shape"`
}

type Config struct {
	SchemaVersion string    `koanf:"schema_version"`
	Log           LogCfg    `koanf:"log"`
	Server        ServerCfg `koanf:"server"`
	Chart         ChartCfg  `koanf:"chart"`
}

// ---------------------------------------------------------------------------
// Loader
// ---------------------------------------------------------------------------

// Load merges YAML (if present) with env-vars
// (prefix `SPEKTR_VIZ__`, nesting delimiter `__`), then applies defaults.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}
	// schema version check (only when YAML is present)
	sv := k.String("schema_version")
	if sv != "" && sv != SupportedSchema {
		return Config{}, fmt.Errorf("config schema_version %q not supported (want %s)", sv, SupportedSchema)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// envKey maps SPEKTR_VIZ__SERVER__ADDR to server.addr.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// ---------------------------------------------------------------------------
// defaults
// ---------------------------------------------------------------------------

func applyDefaults(c *Config) {
	if c.SchemaVersion == "" {
		c.SchemaVersion = SupportedSchema
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Chart.LineStyle == "" {
		c.Chart.LineStyle = engine.LineSolid
	}
	if c.Chart.LineShape == "" {
		c.Chart.LineShape = engine.ShapePolyline
	}
}

// EngineOptions converts chart defaults into engine options.
func (c ChartCfg) EngineOptions() []engine.Option {
	var opts []engine.Option
	if c.Compact {
		opts = append(opts, engine.WithCompactLayout())
	}
	if c.Title != "" {
		opts = append(opts, engine.WithTitle(c.Title))
	}
	return opts
}

// ApplyTo fills line style/shape on a chart config that left them empty.
func (c ChartCfg) ApplyTo(chart engine.ChartConfig) engine.ChartConfig {
	if chart.LineStyle == "" {
		chart.LineStyle = c.LineStyle
	}
	if chart.LineShape == "" {
		chart.LineShape = c.LineShape
	}
	return chart
}
