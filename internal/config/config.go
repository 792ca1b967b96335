// Package config handles configuration loading for benchgraph.
// It supports an optional YAML config file with environment variable
// overrides; with neither present the defaults reproduce the reference
// benchmark graph.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/sdj7072/masked4j/internal/chart"
)

const envPrefix = "BENCHGRAPH"

// DefaultOutputPath is where the graph is written when nothing overrides it.
const DefaultOutputPath = "docs/images/benchmark_graph.svg"

// Config represents the complete application configuration.
type Config struct {
	Output  OutputConfig  `mapstructure:"output"  yaml:"output"`
	Chart   ChartConfig   `mapstructure:"chart"   yaml:"chart"`
	Data    []PointConfig `mapstructure:"data"    yaml:"data"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Source is the config file that was read, empty when only defaults
	// and environment apply.
	Source string `mapstructure:"-" yaml:"-"`
	// EnvOverrides lists the BENCHGRAPH_* variables present at load time.
	EnvOverrides []string `mapstructure:"-" yaml:"-"`
}

// OutputConfig holds the destination of the rendered document.
type OutputConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// ChartConfig holds the chart geometry and styling.
type ChartConfig struct {
	Title            string   `mapstructure:"title"              yaml:"title"`
	TitleX           float64  `mapstructure:"title_x"            yaml:"title_x"`
	TitleY           float64  `mapstructure:"title_y"            yaml:"title_y"`
	Width            float64  `mapstructure:"width"              yaml:"width"`
	Height           float64  `mapstructure:"height"             yaml:"height"`
	BarHeight        float64  `mapstructure:"bar_height"         yaml:"bar_height"`
	BarGap           float64  `mapstructure:"bar_gap"            yaml:"bar_gap"`
	StartY           float64  `mapstructure:"start_y"            yaml:"start_y"`
	LabelColumnWidth float64  `mapstructure:"label_column_width" yaml:"label_column_width"`
	MarginRight      float64  `mapstructure:"margin_right"       yaml:"margin_right"`
	LabelGap         float64  `mapstructure:"label_gap"          yaml:"label_gap"`
	ValueGap         float64  `mapstructure:"value_gap"          yaml:"value_gap"`
	TextBaseline     float64  `mapstructure:"text_baseline"      yaml:"text_baseline"`
	CornerRadius     float64  `mapstructure:"corner_radius"      yaml:"corner_radius"`
	FontFamily       string   `mapstructure:"font_family"        yaml:"font_family"`
	FontSize         float64  `mapstructure:"font_size"          yaml:"font_size"`
	TitleFontSize    float64  `mapstructure:"title_font_size"    yaml:"title_font_size"`
	TrackColor       string   `mapstructure:"track_color"        yaml:"track_color"`
	LabelColor       string   `mapstructure:"label_color"        yaml:"label_color"`
	ValueColor       string   `mapstructure:"value_color"        yaml:"value_color"`
	TitleColor       string   `mapstructure:"title_color"        yaml:"title_color"`
	BarColors        []string `mapstructure:"bar_colors"         yaml:"bar_colors"`
}

// PointConfig is one bar of the chart.
type PointConfig struct {
	Label string  `mapstructure:"label" yaml:"label"`
	Value float64 `mapstructure:"value" yaml:"value"`
	Color string  `mapstructure:"color" yaml:"color"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/benchgraph.yaml (project root)
//  2. ~/.benchgraph/benchgraph.yaml (home directory)
//
// Environment variables override config file values.
// Format: BENCHGRAPH_<SECTION>_<KEY>, e.g., BENCHGRAPH_OUTPUT_PATH
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("benchgraph")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".benchgraph"))

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()
	cfg.EnvOverrides = envOverrides()
	return &cfg, nil
}

// envOverrides returns the names of set BENCHGRAPH_* variables, sorted.
func envOverrides() []string {
	var names []string
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix+"_") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// setDefaults registers the reference graph: two single-threaded
// serialization runs on the default layout.
func setDefaults(v *viper.Viper) {
	v.SetDefault("output.path", DefaultOutputPath)

	l := chart.DefaultLayout()
	v.SetDefault("chart.title", l.Title)
	v.SetDefault("chart.title_x", l.TitleX)
	v.SetDefault("chart.title_y", l.TitleY)
	v.SetDefault("chart.width", l.Width)
	v.SetDefault("chart.height", l.Height)
	v.SetDefault("chart.bar_height", l.BarHeight)
	v.SetDefault("chart.bar_gap", l.BarGap)
	v.SetDefault("chart.start_y", l.StartY)
	v.SetDefault("chart.label_column_width", l.LabelColumnWidth)
	v.SetDefault("chart.margin_right", l.MarginRight)
	v.SetDefault("chart.label_gap", l.LabelGap)
	v.SetDefault("chart.value_gap", l.ValueGap)
	v.SetDefault("chart.text_baseline", l.TextBaseline)
	v.SetDefault("chart.corner_radius", l.CornerRadius)
	v.SetDefault("chart.font_family", l.FontFamily)
	v.SetDefault("chart.font_size", l.FontSize)
	v.SetDefault("chart.title_font_size", l.TitleFontSize)
	v.SetDefault("chart.track_color", l.TrackColor)
	v.SetDefault("chart.label_color", l.LabelColor)
	v.SetDefault("chart.value_color", l.ValueColor)
	v.SetDefault("chart.title_color", l.TitleColor)
	v.SetDefault("chart.bar_colors", l.BarColors)

	v.SetDefault("data", []map[string]any{
		{"label": "Vanilla (Single)", "value": 6300000},
		{"label": "Masked (Single)", "value": 1800000},
	})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Layout converts the chart section into a renderer layout.
func (c *Config) Layout() chart.Layout {
	ch := c.Chart
	return chart.Layout{
		Title:            ch.Title,
		TitleX:           ch.TitleX,
		TitleY:           ch.TitleY,
		Width:            ch.Width,
		Height:           ch.Height,
		BarHeight:        ch.BarHeight,
		BarGap:           ch.BarGap,
		StartY:           ch.StartY,
		LabelColumnWidth: ch.LabelColumnWidth,
		MarginRight:      ch.MarginRight,
		LabelGap:         ch.LabelGap,
		ValueGap:         ch.ValueGap,
		TextBaseline:     ch.TextBaseline,
		CornerRadius:     ch.CornerRadius,
		FontFamily:       ch.FontFamily,
		FontSize:         ch.FontSize,
		TitleFontSize:    ch.TitleFontSize,
		TrackColor:       ch.TrackColor,
		LabelColor:       ch.LabelColor,
		ValueColor:       ch.ValueColor,
		TitleColor:       ch.TitleColor,
		BarColors:        append([]string(nil), ch.BarColors...),
	}
}

// Points returns the configured data in order.
func (c *Config) Points() []chart.DataPoint {
	points := make([]chart.DataPoint, len(c.Data))
	for i, d := range c.Data {
		points[i] = chart.DataPoint{Label: d.Label, Value: d.Value, Color: d.Color}
	}
	return points
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
