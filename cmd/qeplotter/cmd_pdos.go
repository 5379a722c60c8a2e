package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	qe "github.com/shubics/qeplotter"
	"github.com/shubics/qeplotter/qeplot"
)

// pdosFlags are the flags used to read projected densities of states.
type pdosFlags struct {
	prefix   string
	elements string
	total    bool
}

func (p *pdosFlags) register(c *common) {
	c.fs.StringVar(&p.prefix, "prefix", "", "prefix of the projwfc.x files (default: any)")
	c.fs.StringVar(&p.elements, "elements", "", "comma-separated elements to include (default: all)")
	c.fs.BoolVar(&p.total, "total", true, "also plot the total DOS from the pdos_tot file, if present")
}

// read reads the PDOS files in dir, and returns the groups to plot and the total DOS
// (nil if not requested or not found). Fermi energy and broadening are applied.
func (p *pdosFlags) read(ctx context.Context, c *common, dir string) (*qe.PDOSSet, *qe.DOS, error) {
	set, err := qe.ReadPDOSDir(ctx, dir, p.prefix)
	if err != nil {
		return nil, nil, err
	}
	c.log.Debug().Int("channels", len(set.Channels)).Strs("elements", set.Elements()).Msg("PDOS read")
	if p.elements != "" {
		want := strings.Split(p.elements, ",")
		for i := range want {
			want[i] = strings.TrimSpace(want[i])
		}
		set, err = set.Select(func(ch *qe.PDOSChannel) bool {
			for _, w := range want {
				if strings.EqualFold(w, ch.Element) {
					return true
				}
			}
			return false
		})
		if err != nil {
			return nil, nil, err
		}
	}
	var total *qe.DOS
	if p.total {
		total, err = p.readTotal(dir)
		if err != nil {
			return nil, nil, err
		}
	}
	fallback, ok := 0.0, false
	if total != nil {
		fallback, ok = total.Fermi, total.HasFermi
	}
	ef, known, err := c.fermi(fallback, ok)
	if err != nil {
		return nil, nil, err
	}
	if known {
		set.SetFermi(ef)
		if total != nil {
			total.SetFermi(ef)
		}
	}
	return set, total, nil
}

// readTotal looks for the pdos_tot file written by projwfc.x in dir.
func (p *pdosFlags) readTotal(dir string) (*qe.DOS, error) {
	pattern := "*.pdos_tot*"
	if p.prefix != "" {
		pattern = p.prefix + ".pdos_tot*"
	}
	names, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil || len(names) == 0 {
		return nil, nil
	}
	return qe.ReadDOS(names[0])
}

// groups sums the set according to the configuration, and broadens the result.
func groups(c *common, set *qe.PDOSSet) ([]qe.PDOSGroup, error) {
	by, err := qe.ParseGroupBy(c.cfg.Plot.GroupBy)
	if err != nil {
		return nil, err
	}
	gs := set.Group(by)
	if s := c.cfg.Plot.Sigma; s > 0 {
		for i := range gs {
			gs[i].DOS = gs[i].DOS.Smooth(s)
		}
	}
	return gs, nil
}

func runPDOS(ctx context.Context, args []string) error {
	c := newCommon("pdos", "<directory with projwfc.x outputs>")
	var pf pdosFlags
	pf.register(c)
	dirs, err := c.parse(args)
	if err != nil {
		return err
	}
	if len(dirs) != 1 {
		c.fs.Usage()
		return errUsage
	}
	if st, err := os.Stat(dirs[0]); err != nil || !st.IsDir() {
		return fmt.Errorf("%s is not a directory", dirs[0])
	}
	set, total, err := pf.read(ctx, c, dirs[0])
	if err != nil {
		return err
	}
	targets := []shifter{set}
	if total != nil {
		targets = append(targets, total)
	}
	shifted := c.shift(set.Fermi, set.HasFermi, targets...)
	gs, err := groups(c, set)
	if err != nil {
		return err
	}
	if total != nil && c.cfg.Plot.Sigma > 0 {
		total = total.Smooth(c.cfg.Plot.Sigma)
	}
	p, err := qeplot.PDOS(c.plotOptions(shifted), total, gs)
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
