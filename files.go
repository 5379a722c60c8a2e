/*
 * files.go, part of qeplotter.
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
	"bufio"
	"compress/bzip2"
	"compress/lzw"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

const (
	lzwLitwidth int = 8
)

// source is what Open returns. It closes the decompressor (if any) and then the file.
type source struct {
	io.Reader
	closers []io.Closer
}

func (s *source) Close() error {
	var err error
	for _, c := range s.closers {
		if err2 := c.Close(); err2 != nil && err == nil {
			err = err2
		}
	}
	return err
}

// Open opens the file name for reading, decompressing it on the fly if its extension
// is .gz (gzip), .zst (zstd), .lzw or .bz2. Any other file is read as is.
func Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, &ParseError{message: "can't open file", filename: name, deco: []string{"Open"}, err: err}
	}
	buf := bufio.NewReader(f)
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".gz":
		z, err := gzip.NewReader(buf)
		if err != nil {
			f.Close()
			return nil, &ParseError{message: "can't read gzip header", filename: name, deco: []string{"Open"}, err: err}
		}
		return &source{z, []io.Closer{z, f}}, nil
	case ".zst":
		z, err := zstd.NewReader(buf)
		if err != nil {
			f.Close()
			return nil, &ParseError{message: "can't start zstd decoder", filename: name, deco: []string{"Open"}, err: err}
		}
		zc := z.IOReadCloser()
		return &source{zc, []io.Closer{zc, f}}, nil
	case ".lzw":
		z := lzw.NewReader(buf, lzw.MSB, lzwLitwidth)
		return &source{z, []io.Closer{z, f}}, nil
	case ".bz2":
		return &source{bzip2.NewReader(buf), []io.Closer{f}}, nil
	default:
		log.Debug().Str("file", name).Msg("reading as plain text")
		return &source{buf, []io.Closer{f}}, nil
	}
}

// BaseName returns the name of the file without directory and without
// a compression extension, if present.
func BaseName(name string) string {
	base := filepath.Base(name)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".gz", ".zst", ".lzw", ".bz2":
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base
}

// readWith opens name and gives it to parse, adding the file name to
// any error returned.
func readWith[T any](name, caller string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	r, err := Open(name)
	if err != nil {
		return zero, errFile(err, name, caller)
	}
	defer r.Close()
	ret, err := parse(r)
	if err != nil {
		return zero, errFile(err, name, caller)
	}
	return ret, nil
}
