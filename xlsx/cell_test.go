// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/quicktemplate"

	"github.com/UNO-SOFT/xlstream"
)

func renderCell(t *testing.T, c Cell, col, row int) string {
	t.Helper()
	var buf bytes.Buffer
	qw := quicktemplate.AcquireWriter(&buf)
	defer quicktemplate.ReleaseWriter(qw)
	require.NoError(t, c.writeXML(qw, col, row))
	return buf.String()
}

func TestCellXML(t *testing.T) {
	var buf bytes.Buffer
	wb := newTestWorkbook(&buf)
	wb.CreateCellStyle(xlstream.RGB(1, 2, 3), xlstream.RGB(4, 5, 6))
	style := wb.CreateCellStyle(xlstream.RGB(255, 255, 255), xlstream.RGB(0, 0, 0))

	for name, tc := range map[string]struct {
		cell     Cell
		col, row int
		want     string
	}{
		"number":        {Float(1.5), 0, 1, `<c r="A1"><v>1.5</v></c>`},
		"int":           {Int(42), 1, 2, `<c r="B2"><v>42</v></c>`},
		"styled number": {Float(3).With(style), 2, 7, `<c r="C7" s="2"><v>3</v></c>`},
		"text":          {Text("abc"), 25, 3, `<c r="Z3" t="inlineStr"><is><t>abc</t></is></c>`},
		"styled text":   {Text("x").With(style), 26, 1, `<c r="AA1" s="2" t="inlineStr"><is><t>x</t></is></c>`},
		"preserve":      {Text(" x "), 0, 1, `<c r="A1" t="inlineStr"><is><t xml:space="preserve"> x </t></is></c>`},
		"true":          {Bool(true), 0, 1, `<c r="A1" t="b"><v>1</v></c>`},
		"false":         {Bool(false).With(style), 0, 1, `<c r="A1" s="2" t="b"><v>0</v></c>`},
		"empty":         {Cell{}, 0, 1, ``},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, renderCell(t, tc.cell, tc.col, tc.row))
		})
	}
}

func TestCellStyleAttrOmitted(t *testing.T) {
	c := Float(1)
	_, ok := c.Style()
	assert.False(t, ok)
	assert.NotContains(t, renderCell(t, c, 0, 1), " s=")

	var buf bytes.Buffer
	wb := newTestWorkbook(&buf)
	st := wb.CreateCellStyle(xlstream.Color{}, xlstream.Color{})
	id, ok := c.With(st).Style()
	assert.True(t, ok)
	assert.Equal(t, 1, id)
	assert.Contains(t, renderCell(t, c.With(st), 0, 1), ` s="1"`)
}

func TestCellTextEscaping(t *testing.T) {
	for _, s := range []string{
		`<b>bold</b>`,
		`Tom & Jerry`,
		`say "cheese"`,
		`it's`,
		`a<b>c&d"e'f`,
		`&amp; already`,
	} {
		got := renderCell(t, Text(s), 0, 1)
		var c testCell
		require.NoError(t, xml.Unmarshal([]byte(got), &c), got)
		assert.Equal(t, s, c.IS.T, got)
		assert.Equal(t, "inlineStr", c.T)
	}
}

func TestCellTextIllegalXML(t *testing.T) {
	for in, want := range map[string]string{
		"a\x01b":         "ab",
		"a\x0bb":         "ab",
		"\x00nul":        "nul",
		"bad\xffutf8":    "bad\uFFFDutf8",
		"tab\tnl\ncr\r":  "tab\tnl\ncr\r",
		"x\uFFFEy\uFFFF": "xy",
		"árvíztűrő":      "árvíztűrő",
	} {
		got := renderCell(t, Text(in), 0, 1)
		var c testCell
		require.NoError(t, xml.Unmarshal([]byte(got), &c), "%q", got)
		// the XML decoder normalizes CR
		assert.Equal(t, strings.ReplaceAll(want, "\r", "\n"), c.IS.T, "%q", in)
		assert.Equal(t, want, cleanText(in), "%q", in)
	}
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "1", Float(1).String())
	assert.Equal(t, "-2.25", Float(-2.25).String())
	assert.Equal(t, "abc", Text("abc").String())
	assert.Equal(t, "1", Bool(true).String())
	assert.Equal(t, "0", Bool(false).String())
	assert.Equal(t, "", Cell{}.String())
	assert.True(t, Cell{}.IsEmpty())
}

func TestRow(t *testing.T) {
	var r Row
	r.Add(Text("a")).Add(Float(1))
	r.Add(Bool(true))
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []Cell{Text("a"), Float(1), Bool(true)}, r.Cells())
	assert.Equal(t, r, NewRow(Text("a"), Float(1), Bool(true)))
}
