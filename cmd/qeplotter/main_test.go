package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qe "github.com/shubics/qeplotter"
)

const testdata = "../../test"

func fixture(name string) string {
	return filepath.Join(testdata, name)
}

func requireFile(t *testing.T, name string) {
	t.Helper()
	st, err := os.Stat(name)
	require.NoError(t, err)
	assert.Greater(t, st.Size(), int64(0))
}

func TestRunBands(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bands.png")
	err := runBands(context.Background(), []string{
		"-o", out, "-ef", "0", "-hs", fixture("si.bands.out"), "-labels", "G,L,X",
		"-log-level", "error", fixture("si.bands.dat.gnu"),
	})
	require.NoError(t, err)
	requireFile(t, out)
}

func TestRunBandsFermiFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bands.svg")
	err := runBands(context.Background(), []string{
		"-o", out, "-fermi", fixture("si.scf.out"), "-kpath", fixture("si.bands.in"),
		"-hs", fixture("si.bands.out"), "-log-level", "error", fixture("si.filband"),
	})
	require.NoError(t, err)
	requireFile(t, out)
}

func TestRunDOS(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dos.pdf")
	err := runDOS(context.Background(), []string{"-o", out, "-sigma", "0.5", "-fill", "-log-level", "error", fixture("si.dos")})
	require.NoError(t, err)
	requireFile(t, out)
}

func TestRunDOSFromBands(t *testing.T) {
	dir := t.TempDir()
	for _, sigma := range []string{"0", "0.05"} {
		out := filepath.Join(dir, "dos"+sigma+".png")
		err := runDOS(context.Background(), []string{
			"-o", out, "-from-bands", "-step", "0.02", "-sigma", sigma, "-ef", "0",
			"-log-level", "error", fixture("si.bands.dat.gnu"),
		})
		require.NoError(t, err)
		requireFile(t, out)
	}
	err := runDOS(context.Background(), []string{"-from-bands", "-step", "-1", "-log-level", "error", fixture("si.bands.dat.gnu")})
	assert.True(t, errors.Is(err, qe.ErrFormat))
}

func TestRunPDOS(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "pdos.png")
	err := runPDOS(context.Background(), []string{
		"-o", out, "-prefix", "si", "-group", "orbital", "-log-level", "error", fixture("pdos"),
	})
	require.NoError(t, err)
	requireFile(t, out)

	out = filepath.Join(dir, "pdos-o.png")
	err = runPDOS(context.Background(), []string{"-o", out, "-elements", "O", "-log-level", "error", fixture("pdos")})
	require.NoError(t, err)
	requireFile(t, out)

	err = runPDOS(context.Background(), []string{"-elements", "Fe", "-log-level", "error", fixture("pdos")})
	assert.True(t, errors.Is(err, qe.ErrNoData))

	err = runPDOS(context.Background(), []string{"-log-level", "error", fixture("si.dos")})
	assert.Error(t, err)
}

func TestRunBandsDOS(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "bandsdos.png")
	err := runBandsDOS(context.Background(), []string{
		"-o", out, "-pdos", fixture("pdos"), "-ef", "0", "-log-level", "error", fixture("si.bands.dat.gnu"),
	})
	require.NoError(t, err)
	requireFile(t, out)

	out = filepath.Join(dir, "bandsdos.svg")
	err = runBandsDOS(context.Background(), []string{
		"-o", out, "-dos", fixture("si.dos"), "-log-level", "error", fixture("si.bands.dat.gnu"),
	})
	require.NoError(t, err)
	requireFile(t, out)

	err = runBandsDOS(context.Background(), []string{"-log-level", "error", fixture("si.bands.dat.gnu")})
	assert.True(t, errors.Is(err, errUsage))
}

func TestRunGap(t *testing.T) {
	err := runGap(context.Background(), []string{"-ef", "0", "-log-level", "error", fixture("si.bands.dat.gnu")})
	assert.NoError(t, err)
	err = runGap(context.Background(), []string{"-log-level", "error", fixture("si.bands.dat.gnu")})
	assert.True(t, errors.Is(err, qe.ErrNoFermi))
}

func TestRunVersion(t *testing.T) {
	assert.NoError(t, runVersion(context.Background(), nil))
	assert.NoError(t, runVersion(context.Background(), []string{"-json"}))
	assert.NoError(t, runVersion(context.Background(), []string{"-short"}))
	assert.True(t, errors.Is(runVersion(context.Background(), []string{"-bogus"}), errUsage))
}

func TestUsageErrors(t *testing.T) {
	ctx := context.Background()
	assert.True(t, errors.Is(runDOS(ctx, nil), errUsage))
	assert.True(t, errors.Is(runBands(ctx, []string{"a", "b", "c"}), errUsage))
	assert.True(t, errors.Is(runBands(ctx, []string{"-nope"}), errUsage))
	//invalid configuration
	err := runDOS(ctx, []string{"-emin", "2", "-emax", "1", fixture("si.dos")})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, errUsage))
}

func TestReport(t *testing.T) {
	assert.Equal(t, 2, report(errUsage))
	assert.Equal(t, 1, report(fmt.Errorf("something failed")))
	_, err := qe.ReadDOS(fixture("missing.dos"))
	assert.Equal(t, 1, report(err))
}

func TestRunDispatch(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, 2, run(ctx, nil))
	assert.Equal(t, 2, run(ctx, []string{"plot"}))
	assert.Equal(t, 2, run(ctx, []string{"dos"}))
	assert.Equal(t, 0, run(ctx, []string{"help"}))
	assert.Equal(t, 0, run(ctx, []string{"version", "-short"}))
	assert.Equal(t, 1, run(ctx, []string{"dos", "-log-level", "error", fixture("missing.dos")}))
}
