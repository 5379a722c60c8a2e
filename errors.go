/*
 * errors.go, part of qeplotter.
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
	"errors"
	"fmt"
	"strings"
)

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type. Decorate also returns the "decoration" slice resulting from the current call. If passed an empty
// string, it just returns the current value. Errors also support wrapping, so errors.Is and errors.As work with the sentinels below.
type Error interface {
	Error() string
	Decorate(string) []string
}

var (
	//ErrNoData means that a file or reader contained no usable data.
	ErrNoData = errors.New("no data found")
	//ErrMismatch means that several sets of data that must share a grid (k-points, energies) don't.
	ErrMismatch = errors.New("inconsistent data")
	//ErrFormat means that a line could not be parsed in the expected format.
	ErrFormat = errors.New("wrong format")
	//ErrNoFermi means that the Fermi energy is required but not available.
	ErrNoFermi = errors.New("Fermi energy not available")
)

// ParseError is the general structure for errors in this package. It fullfills Error.
type ParseError struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	line     int    //1-based, 0 if it doesn't apply
	deco     []string
	err      error
}

func (err *ParseError) Error() string {
	var b strings.Builder
	if err.filename != "" {
		b.WriteString(err.filename)
		if err.line > 0 {
			fmt.Fprintf(&b, ":%d", err.line)
		}
		b.WriteString(": ")
	} else if err.line > 0 {
		fmt.Fprintf(&b, "line %d: ", err.line)
	}
	b.WriteString(err.message)
	if err.err != nil {
		b.WriteString(": ")
		b.WriteString(err.err.Error())
	}
	return b.String()
}

// Decorate adds new information to the error
func (err *ParseError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the file associated to the error, if any.
func (err *ParseError) FileName() string { return err.filename }

// Line returns the line where the problem was found, or 0.
func (err *ParseError) Line() int { return err.line }

func (err *ParseError) Unwrap() error { return err.err }

func newError(cause error, line int, caller, format string, a ...interface{}) *ParseError {
	return &ParseError{
		message: fmt.Sprintf(format, a...),
		line:    line,
		deco:    []string{caller},
		err:     cause,
	}
}

// errDecorate decorates the error with the caller's name before returning it,
// if it implements Error. Other errors are returned unchanged.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(Error); ok {
		e.Decorate(caller)
		return e
	}
	return err
}

// errFile sets the file name of err, if it is a *ParseError without one,
// and decorates it with caller.
func errFile(err error, filename, caller string) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.filename == "" {
		pe.filename = filename
	}
	return errDecorate(err, caller)
}
