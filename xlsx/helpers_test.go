// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

var testModTime = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newTestWorkbook(buf *bytes.Buffer, opts ...Option) *Workbook {
	return NewWorkbook(buf, append([]Option{WithModTime(testModTime)}, opts...)...)
}

// readParts returns the archive entries, in archive order, and their contents.
func readParts(t *testing.T, b []byte) ([]string, map[string]string) {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	m := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err, f.Name)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err, f.Name)
		names = append(names, f.Name)
		m[f.Name] = string(content)
	}
	return names, m
}

type testWorksheet struct {
	XMLName xml.Name  `xml:"worksheet"`
	Rows    []testRow `xml:"sheetData>row"`
}

type testRow struct {
	R     int        `xml:"r,attr"`
	Cells []testCell `xml:"c"`
}

type testCell struct {
	R  string `xml:"r,attr"`
	S  string `xml:"s,attr"`
	T  string `xml:"t,attr"`
	V  string `xml:"v"`
	IS struct {
		T string `xml:"t"`
	} `xml:"is"`
}

func decodeSheet(t *testing.T, s string) testWorksheet {
	t.Helper()
	var ws testWorksheet
	require.NoError(t, xml.Unmarshal([]byte(s), &ws))
	return ws
}

type testWorkbookXML struct {
	Sheets []struct {
		Name    string `xml:"name,attr"`
		SheetID int    `xml:"sheetId,attr"`
	} `xml:"sheets>sheet"`
}

var errSink = errors.New("sink failure")

// failWriter fails every write after fail is set.
type failWriter struct {
	w    io.Writer
	fail bool
}

func (fw *failWriter) Write(p []byte) (int, error) {
	if fw.fail {
		return 0, errSink
	}
	return fw.w.Write(p)
}
