package main

import (
	"context"
	"fmt"
	"strings"

	qe "github.com/shubics/qeplotter"
	"github.com/shubics/qeplotter/qeplot"
)

// bandsFlags are the flags used to read band structures.
type bandsFlags struct {
	hsFile     string
	labelsFile string
	labels     string
}

func (b *bandsFlags) register(c *common) {
	c.fs.StringVar(&b.hsFile, "hs", "", "bands.x output, to read the high-symmetry points from")
	c.fs.StringVar(&b.labelsFile, "kpath", "", "pw.x input with labeled K_POINTS (as \"0.5 0.5 0.5 20 !L\")")
	c.fs.StringVar(&b.labels, "labels", "", "comma-separated labels for the high-symmetry points (G is drawn as Γ)")
}

// read reads the band structure in name and attaches the high-symmetry points and their labels.
func (b *bandsFlags) read(c *common, name string) (*qe.Bands, error) {
	B, err := qe.ReadBands(name)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("file", name).Int("kpoints", B.NKpoints()).Int("bands", B.NBands()).Msg("band structure read")
	if b.hsFile != "" {
		B.Ticks, err = qe.ReadHighSymmetry(b.hsFile)
		if err != nil {
			return nil, err
		}
	}
	var labels []string
	switch {
	case b.labels != "":
		for _, l := range strings.Split(b.labels, ",") {
			labels = append(labels, qe.NormalizeLabel(strings.TrimSpace(l)))
		}
	case b.labelsFile != "":
		labels, err = qe.ReadKPathLabels(b.labelsFile)
		if err != nil {
			return nil, err
		}
	}
	if labels != nil {
		if len(B.Ticks) == 0 {
			c.log.Warn().Msg("labels given, but no high-symmetry points (use -hs)")
		} else if len(labels) != len(B.Ticks) {
			c.log.Warn().Int("labels", len(labels)).Int("points", len(B.Ticks)).Msg("number of labels and high-symmetry points differ")
		}
		B.ApplyLabels(labels)
	}
	return B, nil
}

func runBands(ctx context.Context, args []string) error {
	c := newCommon("bands", "<bands file> [spin-down bands file]")
	var bf bandsFlags
	bf.register(c)
	files, err := c.parse(args)
	if err != nil {
		return err
	}
	if len(files) < 1 || len(files) > 2 {
		c.fs.Usage()
		return errUsage
	}
	bands := make([]*qe.Bands, 0, 2)
	for _, f := range files {
		B, err := bf.read(c, f)
		if err != nil {
			return err
		}
		bands = append(bands, B)
	}
	if len(bands) == 2 {
		bands[1].Ticks = bands[0].Ticks
	}
	ef, known, err := c.fermi(0, false)
	if err != nil {
		return err
	}
	if known {
		for _, B := range bands {
			B.SetFermi(ef)
		}
		if g, err := bands[0].Gap(); err == nil {
			c.log.Info().Msg(g.String())
		}
	}
	targets := make([]shifter, len(bands))
	for i, B := range bands {
		targets[i] = B
	}
	shifted := c.shift(ef, known, targets...)
	p, err := qeplot.Bands(c.plotOptions(shifted), bands...)
	if err != nil {
		return err
	}
	name := c.outputName()
	w, h := c.size()
	if err := qeplot.Save(p, w, h, name); err != nil {
		return fmt.Errorf("saving %s: %w", name, err)
	}
	c.saved(name)
	return nil
}
