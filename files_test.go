/*
 * files_test.go, part of qeplotter.
 *
 * Copyright 2024 Şuayb Yıldız
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package qe

import (
	"compress/lzw"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compress writes the file src into dst, compressed with the compressor returned by wrap.
func compress(t *testing.T, src, dst string, wrap func(io.Writer) (io.WriteCloser, error)) {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	f, err := os.Create(dst)
	require.NoError(t, err)
	defer f.Close()
	w, err := wrap(f)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func TestOpenCompressed(t *testing.T) {
	dir := t.TempDir()
	writers := map[string]func(io.Writer) (io.WriteCloser, error){
		".gz": func(w io.Writer) (io.WriteCloser, error) { return gzip.NewWriter(w), nil },
		".zst": func(w io.Writer) (io.WriteCloser, error) {
			return zstd.NewWriter(w)
		},
		".lzw": func(w io.Writer) (io.WriteCloser, error) { return lzw.NewWriter(w, lzw.MSB, lzwLitwidth), nil },
	}
	plain, err := ReadDOS("test/si.dos")
	require.NoError(t, err)
	for ext, wrap := range writers {
		t.Run(ext, func(t *testing.T) {
			name := filepath.Join(dir, "si.dos"+ext)
			compress(t, "test/si.dos", name, wrap)
			D, err := ReadDOS(name)
			require.NoError(t, err)
			assert.Equal(t, plain, D)
		})
	}
}

func TestOpenCompressedPDOS(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"si.pdos_atm#1(Si)_wfc#1(s)", "si.pdos_atm#1(Si)_wfc#2(p)"} {
		compress(t, filepath.Join("test/pdos", n), filepath.Join(dir, n+".gz"), func(w io.Writer) (io.WriteCloser, error) {
			return gzip.NewWriter(w), nil
		})
	}
	S, err := ReadPDOSDir(t.Context(), dir, "si")
	require.NoError(t, err)
	assert.Len(t, S.Channels, 2)
	assert.Equal(t, "p", S.Channels[1].Orbital)
}

func TestOpenBadGzip(t *testing.T) {
	name := filepath.Join(t.TempDir(), "bad.gz")
	require.NoError(t, os.WriteFile(name, []byte("not gzip at all"), 0o644))
	_, err := Open(name)
	require.Error(t, err)
	pe, ok := err.(*ParseError)
	require.True(t, ok)
	assert.Equal(t, name, pe.FileName())
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "si.dos", BaseName("/data/si.dos.gz"))
	assert.Equal(t, "si.dos", BaseName("si.dos.ZST"))
	assert.Equal(t, "si.dos", BaseName("run/si.dos"))
	assert.Equal(t, "filband.bz2x", BaseName("filband.bz2x"))
}
