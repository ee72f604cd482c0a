// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"encoding/xml"

	"github.com/UNO-SOFT/xlstream"
)

// CellStyle is a handle for a style registered with Workbook.CreateCellStyle.
//
// Only the Workbook can create a usable CellStyle; the zero value means "no style".
type CellStyle struct {
	wb *Workbook
	id int
}

// ID returns the style id referenced by the cells.
func (cs CellStyle) ID() int { return cs.id }

// IsZero reports whether this is the zero (unregistered) CellStyle.
func (cs CellStyle) IsZero() bool { return cs.wb == nil }

type styleDef struct {
	Foreground, Background xlstream.Color
}

// styleIDBase is the id of the first registered style.
// cellXfs[0] is the plain default, applied to cells without a style.
const styleIDBase = 1

// styleRegistry assigns ids in insertion order, starting at styleIDBase;
// the id is the index of the definition in the emitted cellXfs table.
type styleRegistry struct {
	defs []styleDef
}

func (r *styleRegistry) add(fg, bg xlstream.Color) int {
	id := styleIDBase + len(r.defs)
	r.defs = append(r.defs, styleDef{Foreground: fg, Background: bg})
	return id
}

// The fixed leading entries of the fonts and fills tables.
const (
	baseFonts = 1 // default font
	baseFills = 2 // none, gray125: both mandatory
)

type xlsxStyleSheet struct {
	XMLName xml.Name     `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main styleSheet"`
	Fonts   xlsxFonts    `xml:"fonts"`
	Fills   xlsxFills    `xml:"fills"`
	Borders xlsxBorders  `xml:"borders"`
	XfsBase xlsxCellXfs  `xml:"cellStyleXfs"`
	CellXfs xlsxCellXfs  `xml:"cellXfs"`
	Styles  xlsxCellStys `xml:"cellStyles"`
}

type xlsxFonts struct {
	Count int        `xml:"count,attr"`
	Font  []xlsxFont `xml:"font"`
}

type xlsxFont struct {
	Sz     xlsxVal    `xml:"sz"`
	Color  *xlsxColor `xml:"color,omitempty"`
	Name   xlsxVal    `xml:"name"`
	Family xlsxVal    `xml:"family"`
}

type xlsxVal struct {
	Val string `xml:"val,attr"`
}

type xlsxColor struct {
	RGB string `xml:"rgb,attr"`
}

type xlsxFills struct {
	Count int        `xml:"count,attr"`
	Fill  []xlsxFill `xml:"fill"`
}

type xlsxFill struct {
	PatternFill xlsxPatternFill `xml:"patternFill"`
}

type xlsxPatternFill struct {
	PatternType string       `xml:"patternType,attr"`
	FgColor     *xlsxColor   `xml:"fgColor,omitempty"`
	BgColor     *xlsxIndexed `xml:"bgColor,omitempty"`
}

type xlsxIndexed struct {
	Indexed int `xml:"indexed,attr"`
}

type xlsxBorders struct {
	Count  int          `xml:"count,attr"`
	Border []xlsxBorder `xml:"border"`
}

type xlsxBorder struct {
	Left     struct{} `xml:"left"`
	Right    struct{} `xml:"right"`
	Top      struct{} `xml:"top"`
	Bottom   struct{} `xml:"bottom"`
	Diagonal struct{} `xml:"diagonal"`
}

type xlsxCellXfs struct {
	Count int      `xml:"count,attr"`
	Xf    []xlsxXf `xml:"xf"`
}

type xlsxXf struct {
	NumFmtID  int    `xml:"numFmtId,attr"`
	FontID    int    `xml:"fontId,attr"`
	FillID    int    `xml:"fillId,attr"`
	BorderID  int    `xml:"borderId,attr"`
	XfID      *int   `xml:"xfId,attr,omitempty"`
	ApplyFont string `xml:"applyFont,attr,omitempty"`
	ApplyFill string `xml:"applyFill,attr,omitempty"`
}

type xlsxCellStys struct {
	Count     int             `xml:"count,attr"`
	CellStyle []xlsxCellStyle `xml:"cellStyle"`
}

type xlsxCellStyle struct {
	Name      string `xml:"name,attr"`
	XfID      int    `xml:"xfId,attr"`
	BuiltinID int    `xml:"builtinId,attr"`
}

func defaultFont() xlsxFont {
	return xlsxFont{
		Sz: xlsxVal{Val: "11"}, Name: xlsxVal{Val: "Calibri"}, Family: xlsxVal{Val: "2"},
	}
}

// styleSheet builds the shared styles part: the default xf, then the
// definitions in id order.
func (r *styleRegistry) styleSheet() xlsxStyleSheet {
	var ss xlsxStyleSheet
	ss.Fonts.Font = append(make([]xlsxFont, 0, baseFonts+len(r.defs)), defaultFont())
	ss.Fills.Fill = append(make([]xlsxFill, 0, baseFills+len(r.defs)),
		xlsxFill{PatternFill: xlsxPatternFill{PatternType: "none"}},
		xlsxFill{PatternFill: xlsxPatternFill{PatternType: "gray125"}},
	)
	ss.Borders.Border = []xlsxBorder{{}}
	ss.XfsBase.Xf = []xlsxXf{{}}
	ss.Styles.CellStyle = []xlsxCellStyle{{Name: "Normal"}}

	zero := 0
	ss.CellXfs.Xf = append(make([]xlsxXf, 0, styleIDBase+len(r.defs)), xlsxXf{XfID: &zero})
	for i, d := range r.defs {
		font := defaultFont()
		font.Color = &xlsxColor{RGB: d.Foreground.ARGB()}
		ss.Fonts.Font = append(ss.Fonts.Font, font)
		ss.Fills.Fill = append(ss.Fills.Fill, xlsxFill{PatternFill: xlsxPatternFill{
			PatternType: "solid",
			FgColor:     &xlsxColor{RGB: d.Background.ARGB()},
			BgColor:     &xlsxIndexed{Indexed: 64},
		}})
		ss.CellXfs.Xf = append(ss.CellXfs.Xf, xlsxXf{
			FontID: baseFonts + i, FillID: baseFills + i, XfID: &zero,
			ApplyFont: "1", ApplyFill: "1",
		})
	}
	ss.Fonts.Count = len(ss.Fonts.Font)
	ss.Fills.Count = len(ss.Fills.Fill)
	ss.Borders.Count = len(ss.Borders.Border)
	ss.XfsBase.Count = len(ss.XfsBase.Xf)
	ss.CellXfs.Count = len(ss.CellXfs.Xf)
	ss.Styles.Count = len(ss.Styles.CellStyle)
	return ss
}
