// Package config holds the configuration of the qeplotter command. Values come, in
// increasing order of precedence, from the defaults, a YAML or TOML file, QEPLOT_ environment
// variables and command-line flags (the last ones are applied by the command itself).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	qe "github.com/shubics/qeplotter"
	"github.com/shubics/qeplotter/qeplot"
)

// EnvPrefix is the prefix of the environment variables read by Load.
const EnvPrefix = "QEPLOT_"

// Config is the whole configuration.
type Config struct {
	Plot PlotConfig `yaml:"plot" toml:"plot" envPrefix:"PLOT_"`
	Log  LogConfig  `yaml:"log" toml:"log" envPrefix:"LOG_"`
}

// PlotConfig controls the plots. Sizes are in centimeters, energies in eV.
// The energy window is used only if EMin < EMax. An unset EMax (0) is not checked
// against EMin, so a positive EMin alone leaves the range to the data.
type PlotConfig struct {
	Title      string  `yaml:"title" toml:"title" env:"TITLE"`
	EMin       float64 `yaml:"emin" toml:"emin" env:"EMIN"`
	EMax       float64 `yaml:"emax" toml:"emax" env:"EMAX" validate:"omitempty,gtefield=EMin"`
	ShiftFermi bool    `yaml:"shift_fermi" toml:"shift_fermi" env:"SHIFT_FERMI"`
	Width      float64 `yaml:"width" toml:"width" env:"WIDTH" validate:"gt=0"`
	Height     float64 `yaml:"height" toml:"height" env:"HEIGHT" validate:"gt=0"`
	LineWidth  float64 `yaml:"line_width" toml:"line_width" env:"LINE_WIDTH" validate:"gte=0"`
	Color      string  `yaml:"color" toml:"color" env:"COLOR"`
	DownColor  string  `yaml:"down_color" toml:"down_color" env:"DOWN_COLOR"`
	Fill       bool    `yaml:"fill" toml:"fill" env:"FILL"`
	Legend     bool    `yaml:"legend" toml:"legend" env:"LEGEND"`
	Sigma      float64 `yaml:"sigma" toml:"sigma" env:"SIGMA" validate:"gte=0"`
	GroupBy    string  `yaml:"group_by" toml:"group_by" env:"GROUP_BY"`
	Format     string  `yaml:"format" toml:"format" env:"FORMAT"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level" toml:"level" env:"LEVEL" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	JSON  bool   `yaml:"json" toml:"json" env:"JSON"`
}

var formats = []string{"png", "svg", "pdf", "eps", "jpg", "jpeg", "tif", "tiff"}

var validate = validator.New()

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Plot: PlotConfig{
			ShiftFermi: true,
			Width:      12,
			Height:     10,
			LineWidth:  1.2,
			Color:      "black",
			DownColor:  "red",
			Legend:     true,
			GroupBy:    qe.ByElement.String(),
			Format:     "png",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load returns the default configuration updated with the file in path (if path
// is not empty) and then with the environment. Files ending in .toml are read as TOML,
// anything else as YAML. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		parse := cfg.parseYAML
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			parse = cfg.parseTOML
		}
		if err := parse(data); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) parseYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(c)
	if errors.Is(err, io.EOF) {
		return nil //empty file
	}
	return err
}

func (c *Config) parseTOML(data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(c)
}

// Validate checks that the configuration makes sense. Numeric ranges and the log level
// are checked with the validate tags, the rest by hand.
func (c *Config) Validate() error {
	p := c.Plot
	var errs []error
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs = append(errs, fmt.Errorf("%s: value %v fails %s%s", fe.Namespace(), fe.Value(), fe.Tag(), param(fe.Param())))
		}
	}
	if !isIn(formats, strings.ToLower(p.Format)) {
		errs = append(errs, fmt.Errorf("unknown format %q", p.Format))
	}
	if _, err := qe.ParseGroupBy(p.GroupBy); err != nil {
		errs = append(errs, err)
	}
	for _, col := range []string{p.Color, p.DownColor} {
		if _, ok := qeplot.ParseColor(col); !ok {
			errs = append(errs, fmt.Errorf("unknown color %q", col))
		}
	}
	return errors.Join(errs...)
}

// PlotOptions converts the configuration into options for the qeplot package.
// The energy label depends on whether energies are shifted to the Fermi level.
func (c *Config) PlotOptions() qeplot.Options {
	o := qeplot.DefaultOptions()
	p := c.Plot
	o.Title = p.Title
	o.EMin, o.EMax = p.EMin, p.EMax
	o.LineWidth = p.LineWidth
	o.Fill = p.Fill
	o.Legend = p.Legend
	if col, ok := qeplot.ParseColor(p.Color); ok {
		o.Color = col
	}
	if col, ok := qeplot.ParseColor(p.DownColor); ok {
		o.DownColor = col
	}
	if p.ShiftFermi {
		o.EnergyLabel = "E - E_F (eV)"
	}
	return o
}

func param(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}

func isIn(container []string, test string) bool {
	for _, v := range container {
		if v == test {
			return true
		}
	}
	return false
}
