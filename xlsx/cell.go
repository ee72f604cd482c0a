// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"strings"
	"unicode/utf8"

	"github.com/valyala/quicktemplate"
	"github.com/xuri/excelize/v2"
)

type cellKind uint8

const (
	kindEmpty cellKind = iota
	kindNumber
	kindText
	kindBool
)

// Cell is the content of one cell: a number, a text or a boolean,
// optionally paired with a CellStyle.
//
// The zero Cell is an empty cell, which is skipped on write.
type Cell struct {
	text  string
	num   float64
	style CellStyle
	kind  cellKind
	b     bool
}

// Float returns a number cell.
func Float(f float64) Cell { return Cell{kind: kindNumber, num: f} }

// Int returns a number cell.
func Int(i int64) Cell { return Cell{kind: kindNumber, num: float64(i)} }

// Text returns an inline string cell.
func Text(s string) Cell { return Cell{kind: kindText, text: s} }

// Bool returns a boolean cell.
func Bool(b bool) Cell { return Cell{kind: kindBool, b: b} }

// With returns a copy of the cell paired with the style.
func (c Cell) With(style CellStyle) Cell {
	c.style = style
	return c
}

// Style returns the style id of the cell, and whether it has any.
func (c Cell) Style() (int, bool) {
	if c.style.wb == nil {
		return 0, false
	}
	return c.style.id, true
}

// IsEmpty reports whether the cell has no value.
func (c Cell) IsEmpty() bool { return c.kind == kindEmpty }

// String returns the value as text, the way it is written into the sheet.
func (c Cell) String() string {
	switch c.kind {
	case kindNumber:
		bb := quicktemplate.AcquireByteBuffer()
		defer quicktemplate.ReleaseByteBuffer(bb)
		qw := quicktemplate.AcquireWriter(bb)
		qw.N().F(c.num)
		quicktemplate.ReleaseWriter(qw)
		return string(bb.B)
	case kindText:
		return c.text
	case kindBool:
		if c.b {
			return "1"
		}
		return "0"
	}
	return ""
}

// writeXML renders the cell at the 0-based column and 1-based row.
func (c Cell) writeXML(qw *quicktemplate.Writer, col, row int) error {
	if c.kind == kindEmpty {
		return nil
	}
	ref, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return err
	}
	w := qw.N()
	w.S(`<c r="`)
	w.S(ref)
	w.S(`"`)
	if id, ok := c.Style(); ok {
		w.S(` s="`)
		w.D(id)
		w.S(`"`)
	}
	switch c.kind {
	case kindNumber:
		w.S(`><v>`)
		w.F(c.num)
		w.S(`</v></c>`)
	case kindBool:
		w.S(` t="b"><v>`)
		if c.b {
			w.S("1")
		} else {
			w.S("0")
		}
		w.S(`</v></c>`)
	case kindText:
		text := cleanText(c.text)
		w.S(` t="inlineStr"><is><t`)
		if needsPreserve(text) {
			w.S(` xml:space="preserve"`)
		}
		w.S(`>`)
		qw.E().S(text)
		w.S(`</t></is></c>`)
	}
	return nil
}

// cleanText replaces invalid UTF-8 with U+FFFD and drops the characters
// XML 1.0 does not allow: C0 controls other than tab, LF and CR, and U+FFFE, U+FFFF.
func cleanText(s string) string {
	clean := true
	for _, r := range s {
		if !isXMLChar(r) {
			clean = false
			break
		}
	}
	if clean && utf8.ValidString(s) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isXMLChar(r) {
			return r
		}
		return -1
	}, strings.ToValidUTF8(s, "\uFFFD"))
}

func isXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r < 0x20:
		return false
	case r == 0xFFFE || r == 0xFFFF:
		return false
	}
	return true
}

func needsPreserve(s string) bool {
	return s != "" && (strings.TrimSpace(s[:1]) == "" || strings.TrimSpace(s[len(s)-1:]) == "")
}

// Row is the ordered cells of one row; the index of a cell is its column.
type Row struct {
	cells []Cell
}

// NewRow returns a row of the given cells.
func NewRow(cells ...Cell) Row { return Row{cells: cells} }

// Add appends the cell as the next column.
func (r *Row) Add(c Cell) *Row {
	r.cells = append(r.cells, c)
	return r
}

// Len returns the number of cells in the row.
func (r Row) Len() int { return len(r.cells) }

// Cells returns the cells of the row.
func (r Row) Cells() []Cell { return r.cells }
