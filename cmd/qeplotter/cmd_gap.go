package main

import (
	"context"
	"fmt"
	"os"

	qe "github.com/shubics/qeplotter"
)

func runGap(ctx context.Context, args []string) error {
	c := newCommon("gap", "<bands file>")
	var bf bandsFlags
	bf.register(c)
	files, err := c.parse(args)
	if err != nil {
		return err
	}
	if len(files) != 1 {
		c.fs.Usage()
		return errUsage
	}
	B, err := bf.read(c, files[0])
	if err != nil {
		return err
	}
	ef, known, err := c.fermi(0, false)
	if err != nil {
		return err
	}
	if !known {
		return fmt.Errorf("gap: use -ef or -fermi: %w", qe.ErrNoFermi)
	}
	B.SetFermi(ef)
	g, err := B.Gap()
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, g)
	if !g.Metal {
		fmt.Fprintf(os.Stdout, "VBM: band %d, k = %.4f (%s)\n", g.VBand+1, B.K[g.VBMK], pointLabel(B, g.VBMK))
		fmt.Fprintf(os.Stdout, "CBM: band %d, k = %.4f (%s)\n", g.CBand+1, B.K[g.CBMK], pointLabel(B, g.CBMK))
	}
	return nil
}

// pointLabel returns the label of the high-symmetry point at the k-point i, or "-" if there is none.
func pointLabel(B *qe.Bands, i int) string {
	x := B.K[i]
	for _, t := range B.Ticks {
		if t.Label != "" && abs(t.X-x) < 1e-3 {
			return t.Label
		}
	}
	return "-"
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
