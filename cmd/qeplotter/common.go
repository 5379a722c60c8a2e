package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/plot/vg"

	qe "github.com/shubics/qeplotter"
	"github.com/shubics/qeplotter/internal/config"
	"github.com/shubics/qeplotter/internal/logger"
	"github.com/shubics/qeplotter/qeplot"
)

// errUsage is returned when the command line is wrong. The flag package already
// printed the reason.
var errUsage = errors.New("usage error")

// common holds the flags shared by all the plotting commands, and what they produce.
type common struct {
	fs         *flag.FlagSet
	configPath string
	output     string
	fermiFile  string
	ef         *float64
	logLevel   string
	logJSON    bool

	//these only override the configuration if given.
	title           string
	emin, emax      float64
	width, height   float64
	sigma           float64
	format, groupBy string
	noShift, fill   bool

	cfg *config.Config
	log *logger.Logger
}

func newCommon(name, args string) *common {
	c := &common{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	fs := c.fs
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: qeplotter %s [options] %s\n\nOptions:\n", name, args)
		fs.PrintDefaults()
	}
	fs.StringVar(&c.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&c.output, "o", "", "output file (default: "+name+".<format>)")
	fs.StringVar(&c.fermiFile, "fermi", "", "pw.x output to read the Fermi energy from")
	fs.Func("ef", "Fermi energy in eV (overrides -fermi and file headers)", func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		c.ef = &v
		return nil
	})
	fs.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.BoolVar(&c.logJSON, "log-json", false, "log in JSON format")
	fs.StringVar(&c.title, "title", "", "plot title")
	fs.Float64Var(&c.emin, "emin", 0, "lower limit of the energy window (eV)")
	fs.Float64Var(&c.emax, "emax", 0, "upper limit of the energy window (eV)")
	fs.Float64Var(&c.width, "width", 0, "plot width (cm)")
	fs.Float64Var(&c.height, "height", 0, "plot height (cm)")
	fs.Float64Var(&c.sigma, "sigma", 0, "Gaussian broadening for densities of states (eV)")
	fs.StringVar(&c.format, "format", "", "output format when -o is not given: png, svg, pdf, eps, jpg, tiff")
	fs.StringVar(&c.groupBy, "group", "", "PDOS grouping: element, orbital, atom, channel")
	fs.BoolVar(&c.noShift, "no-shift", false, "don't shift energies so the Fermi level is at zero")
	fs.BoolVar(&c.fill, "fill", false, "fill the area under DOS curves")
	return c
}

// parse parses the arguments, loads the configuration, applies the flags given on top of it,
// and sets up logging. It returns the positional arguments.
func (c *common) parse(args []string) ([]string, error) {
	if err := c.fs.Parse(args); err != nil {
		return nil, errUsage
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	p := &cfg.Plot
	c.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			p.Title = c.title
		case "emin":
			p.EMin = c.emin
		case "emax":
			p.EMax = c.emax
		case "width":
			p.Width = c.width
		case "height":
			p.Height = c.height
		case "sigma":
			p.Sigma = c.sigma
		case "format":
			p.Format = c.format
		case "group":
			p.GroupBy = c.groupBy
		case "no-shift":
			p.ShiftFermi = !c.noShift
		case "fill":
			p.Fill = c.fill
		case "log-level":
			cfg.Log.Level = c.logLevel
		case "log-json":
			cfg.Log.JSON = c.logJSON
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.log = logger.New(os.Stderr, cfg.Log.Level, cfg.Log.JSON)
	return c.fs.Args(), nil
}

// outputName returns the output file name, given by -o or built from the command name.
func (c *common) outputName() string {
	if c.output != "" {
		return c.output
	}
	return c.fs.Name() + "." + strings.ToLower(c.cfg.Plot.Format)
}

func (c *common) size() (vg.Length, vg.Length) {
	return vg.Length(c.cfg.Plot.Width) * vg.Centimeter, vg.Length(c.cfg.Plot.Height) * vg.Centimeter
}

// fermi returns the Fermi energy from -ef or -fermi, falling back to fallback (usually
// a file header) if ok is true. The last return value is false if no Fermi energy is known.
func (c *common) fermi(fallback float64, ok bool) (float64, bool, error) {
	if c.ef != nil {
		return *c.ef, true, nil
	}
	if c.fermiFile != "" {
		f, err := qe.ReadFermi(c.fermiFile)
		if err != nil {
			return 0, false, err
		}
		c.log.Debug().Float64("ef", f.Energy).Str("file", c.fermiFile).Msg("Fermi energy read")
		return f.Energy, true, nil
	}
	return fallback, ok, nil
}

// shifter is implemented by everything that can be referred to the Fermi energy.
type shifter interface {
	Shift(e0 float64)
}

// shift moves the zero of energies to ef in all the targets, if the configuration asks for it.
// Returns whether the shift was done.
func (c *common) shift(ef float64, known bool, targets ...shifter) bool {
	if !c.cfg.Plot.ShiftFermi {
		return false
	}
	if !known {
		c.log.Warn().Msg("no Fermi energy available, energies will not be shifted")
		return false
	}
	for _, t := range targets {
		t.Shift(ef)
	}
	return true
}

func (c *common) plotOptions(shifted bool) qeplot.Options {
	o := c.cfg.PlotOptions()
	if !shifted {
		o.EnergyLabel = "E (eV)"
	}
	return o
}

func (c *common) saved(name string) {
	c.log.Info().Str("file", name).Msg("plot saved")
}
