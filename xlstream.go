// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package xlstream defines the format-independent surface of the streaming
// spreadsheet writers. The xlsx subpackage implements it.
package xlstream

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// Writer writes the spreadsheet consisting of the sheets created
// with NewSheet. The write finishes when Close is called.
//
// The writer SHOULD allow writing to separate sheets concurrently,
// and document if it does not provide this functionality.
type Writer interface {
	io.Closer
	NewSheet(name string, cols []Column) (Sheet, error)
}

// Sheet should be Closed when finished.
type Sheet interface {
	io.Closer
	AppendRow(values ...any) error
}

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// RGB returns the Color of the given components.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// String returns the color as six hex digits, e.g. "FF8000".
func (c Color) String() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// ARGB returns the color in the opaque "FFRRGGBB" form used by OOXML.
func (c Color) ARGB() string { return "FF" + c.String() }

// Parse the six hex digit form (an optional leading '#' is allowed).
func (c *Color) Parse(s string) error {
	if len(s) != 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return fmt.Errorf("%q: %w", s, ErrBadColor)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%q: %w", s, errors.Join(ErrBadColor, err))
	}
	c.R, c.G, c.B = b[0], b[1], b[2]
	return nil
}

// Set implements flag.Value.
func (c *Color) Set(s string) error { return c.Parse(s) }

// Style is a style for a column/row/cell.
//
// The zero Style means "no style".
type Style struct {
	// Foreground is the font color.
	Foreground Color
	// Background is the solid fill color.
	Background Color
	// Set must be true for the style to be applied.
	Set bool
}

// NewStyle returns a Style with the given font and fill color.
func NewStyle(foreground, background Color) Style {
	return Style{Foreground: foreground, Background: background, Set: true}
}

// Column contains the Name of the column and header's style and column's style.
type Column struct {
	Name           string
	Header, Column Style
}

var (
	ErrTooManyRows = errors.New("too many rows")
	// ErrFinished is returned when writing into, or finishing, something already finished.
	ErrFinished = errors.New("already finished")
	// ErrSheetUsed is returned when a sheet is opened for writing the second time.
	ErrSheetUsed = errors.New("sheet already written")
	// ErrForeignStyle is returned when a cell references a style of another workbook.
	ErrForeignStyle = errors.New("style belongs to another workbook")
	// ErrImplicitFinish marks a failure of the automatic finalization of a sheet
	// that was not finished explicitly. The workbook is unusable after that.
	ErrImplicitFinish = errors.New("implicit sheet finalization failed")
	ErrBadColor       = errors.New("bad color")
)

// Number is a string that contains a number.
type Number string
