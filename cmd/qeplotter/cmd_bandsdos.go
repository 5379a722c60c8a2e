package main

import (
	"context"
	"fmt"

	qe "github.com/shubics/qeplotter"
	"github.com/shubics/qeplotter/qeplot"
)

func runBandsDOS(ctx context.Context, args []string) error {
	c := newCommon("bandsdos", "<bands file>")
	var bf bandsFlags
	bf.register(c)
	var pf pdosFlags
	pf.register(c)
	var dosFile, pdosDir string
	c.fs.StringVar(&dosFile, "dos", "", "dos.x output for the DOS panel")
	c.fs.StringVar(&pdosDir, "pdos", "", "directory with projwfc.x outputs for the DOS panel")
	files, err := c.parse(args)
	if err != nil {
		return err
	}
	if len(files) != 1 || (dosFile == "") == (pdosDir == "") {
		fmt.Fprintln(c.fs.Output(), "one bands file and exactly one of -dos or -pdos are required")
		c.fs.Usage()
		return errUsage
	}
	B, err := bf.read(c, files[0])
	if err != nil {
		return err
	}
	var total *qe.DOS
	var set *qe.PDOSSet
	var fallback float64
	var ok bool
	if dosFile != "" {
		total, err = qe.ReadDOS(dosFile)
		if err != nil {
			return err
		}
		fallback, ok = total.Fermi, total.HasFermi
	} else {
		set, total, err = pf.read(ctx, c, pdosDir)
		if err != nil {
			return err
		}
		fallback, ok = set.Fermi, set.HasFermi
	}
	ef, known, err := c.fermi(fallback, ok)
	if err != nil {
		return err
	}
	targets := []shifter{B}
	if known {
		B.SetFermi(ef)
		if total != nil {
			total.SetFermi(ef)
		}
		if set != nil {
			set.SetFermi(ef)
		}
		if g, err := B.Gap(); err == nil {
			c.log.Info().Msg(g.String())
		}
	}
	if total != nil {
		targets = append(targets, total)
	}
	if set != nil {
		targets = append(targets, set)
	}
	shifted := c.shift(ef, known, targets...)
	var gs []qe.PDOSGroup
	if set != nil {
		if gs, err = groups(c, set); err != nil {
			return err
		}
	}
	if total != nil && c.cfg.Plot.Sigma > 0 {
		total = total.Smooth(c.cfg.Plot.Sigma)
	}
	fig, err := qeplot.BandsDOS(c.plotOptions(shifted), B, total, gs)
	if err != nil {
		return err
	}
	name := c.outputName()
	w, h := c.size()
	if err := fig.Save(w, h, name); err != nil {
		return fmt.Errorf("saving %s: %w", name, err)
	}
	c.saved(name)
	return nil
}
