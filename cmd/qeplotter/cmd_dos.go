package main

import (
	"context"
	"fmt"

	qe "github.com/shubics/qeplotter"
	"github.com/shubics/qeplotter/qeplot"
)

// readDOS reads a total DOS, sets its Fermi energy from the flags or its header,
// and broadens it if the configuration asks for it.
func readDOS(c *common, name string) (*qe.DOS, error) {
	D, err := qe.ReadDOS(name)
	if err != nil {
		return nil, err
	}
	ef, known, err := c.fermi(D.Fermi, D.HasFermi)
	if err != nil {
		return nil, err
	}
	if known {
		D.SetFermi(ef)
	}
	if s := c.cfg.Plot.Sigma; s > 0 {
		D = D.Smooth(s)
	}
	c.log.Debug().Str("file", name).Int("points", D.Len()).Bool("spin", D.Spin()).Msg("DOS read")
	return D, nil
}

// dosFromBands computes a DOS from the eigenvalues in a band structure file. With a positive
// sigma the eigenvalues are broadened with Gaussians, otherwise they are just counted.
func dosFromBands(c *common, name string, step float64) (*qe.DOS, error) {
	B, err := qe.ReadBands(name)
	if err != nil {
		return nil, err
	}
	ef, known, err := c.fermi(0, false)
	if err != nil {
		return nil, err
	}
	if known {
		B.SetFermi(ef)
	}
	if s := c.cfg.Plot.Sigma; s > 0 {
		return qe.FromBands(B, step, s)
	}
	return qe.HistogramDOS(B, step)
}

func runDOS(ctx context.Context, args []string) error {
	c := newCommon("dos", "<dos.x output, or bands file with -from-bands>")
	fromBands := c.fs.Bool("from-bands", false, "compute the DOS from the eigenvalues of a bands file")
	step := c.fs.Float64("step", 0.01, "energy step (eV) for -from-bands")
	files, err := c.parse(args)
	if err != nil {
		return err
	}
	if len(files) != 1 {
		c.fs.Usage()
		return errUsage
	}
	var D *qe.DOS
	if *fromBands {
		D, err = dosFromBands(c, files[0], *step)
	} else {
		D, err = readDOS(c, files[0])
	}
	if err != nil {
		return err
	}
	if D.HasFermi {
		c.log.Info().Float64("electrons", D.Integrate(D.Fermi)).Msg("integrated DOS up to the Fermi energy")
	}
	shifted := c.shift(D.Fermi, D.HasFermi, D)
	p, err := qeplot.DOS(c.plotOptions(shifted), D)
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
