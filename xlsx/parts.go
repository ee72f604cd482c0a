// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/valyala/quicktemplate"
)

// Fixed part names of the package.
const (
	partContentTypes  = "[Content_Types].xml"
	partRootRels      = "_rels/.rels"
	partWorkbook      = "xl/workbook.xml"
	partWorkbookRels  = "xl/_rels/workbook.xml.rels"
	partStyles        = "xl/styles.xml"
	worksheetsDir     = "xl/worksheets/"
	worksheetPrefix   = worksheetsDir + "sheet"
	nsMain            = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsRelationships   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	relTypeDocument   = nsRelationships + "/officeDocument"
	relTypeWorksheet  = nsRelationships + "/worksheet"
	relTypeStyles     = nsRelationships + "/styles"
	ctRelationships   = "application/vnd.openxmlformats-package.relationships+xml"
	ctXML             = "application/xml"
	ctWorkbook        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	ctWorksheet       = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	ctStyles          = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	xmlProlog         = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
	worksheetHeader   = xmlProlog + `<worksheet xmlns="` + nsMain + `" xmlns:r="` + nsRelationships + `">` + "\n<sheetData>\n"
	worksheetFooter   = "</sheetData>\n</worksheet>\n"
	workbookRelIDBase = "rId"
)

// worksheetPartName returns the archive entry name of the sheet with the given id.
func worksheetPartName(id int) string {
	return worksheetPrefix + strconv.Itoa(id) + ".xml"
}

func sheetRelID(id int) string { return workbookRelIDBase + strconv.Itoa(id) }

// xlsxTypes maps the Types element of [Content_Types].xml.
type xlsxTypes struct {
	XMLName   xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []xlsxDefault  `xml:"Default"`
	Overrides []xlsxOverride `xml:"Override"`
}

type xlsxDefault struct {
	Extension   string `xml:",attr"`
	ContentType string `xml:",attr"`
}

type xlsxOverride struct {
	PartName    string `xml:",attr"`
	ContentType string `xml:",attr"`
}

// xlsxRelationships maps a relationships part.
type xlsxRelationships struct {
	XMLName       xml.Name           `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Relationships []xlsxRelationship `xml:"Relationship"`
}

type xlsxRelationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:",attr"`
	Target string `xml:",attr"`
}

func (wb *Workbook) contentTypes() xlsxTypes {
	t := xlsxTypes{
		Defaults: []xlsxDefault{
			{Extension: "rels", ContentType: ctRelationships},
			{Extension: "xml", ContentType: ctXML},
		},
		Overrides: make([]xlsxOverride, 0, 2+len(wb.sheets)),
	}
	t.Overrides = append(t.Overrides, xlsxOverride{PartName: "/" + partWorkbook, ContentType: ctWorkbook})
	for _, s := range wb.sheets {
		t.Overrides = append(t.Overrides, xlsxOverride{PartName: "/" + s.PartName(), ContentType: ctWorksheet})
	}
	t.Overrides = append(t.Overrides, xlsxOverride{PartName: "/" + partStyles, ContentType: ctStyles})
	return t
}

func rootRels() xlsxRelationships {
	return xlsxRelationships{Relationships: []xlsxRelationship{
		{ID: "rId1", Type: relTypeDocument, Target: partWorkbook},
	}}
}

// workbookRels links the workbook part to the sheets (rId1..rIdN) and the styles (rIdN+1).
func (wb *Workbook) workbookRels() xlsxRelationships {
	rels := xlsxRelationships{Relationships: make([]xlsxRelationship, 0, len(wb.sheets)+1)}
	for _, s := range wb.sheets {
		rels.Relationships = append(rels.Relationships, xlsxRelationship{
			ID: sheetRelID(s.id), Type: relTypeWorksheet,
			Target: strings.TrimPrefix(s.PartName(), "xl/"),
		})
	}
	rels.Relationships = append(rels.Relationships, xlsxRelationship{
		ID: sheetRelID(len(wb.sheets) + 1), Type: relTypeStyles, Target: "styles.xml",
	})
	return rels
}

// writeWorkbookXML enumerates the sheets in creation order.
func (wb *Workbook) writeWorkbookXML(qw *quicktemplate.Writer) {
	w := qw.N()
	w.S(xmlProlog)
	w.S(`<workbook xmlns="` + nsMain + `" xmlns:r="` + nsRelationships + `"><sheets>`)
	for _, s := range wb.sheets {
		w.S(`<sheet name="`)
		qw.E().S(s.name)
		w.S(`" sheetId="`)
		w.D(s.id)
		w.S(`" r:id="`)
		w.S(sheetRelID(s.id))
		w.S(`"/>`)
	}
	w.S("</sheets></workbook>\n")
}
