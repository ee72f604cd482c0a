// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"bytes"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/UNO-SOFT/xlstream"
)

func TestXLSXWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, WithModTime(testModTime))
	headerStyle := xlstream.NewStyle(xlstream.RGB(255, 255, 255), xlstream.RGB(0, 0, 128))
	colStyle := xlstream.NewStyle(xlstream.RGB(0, 0, 0), xlstream.RGB(255, 255, 0))

	s1, err := w.NewSheet("People", []xlstream.Column{
		{Name: "Name", Header: headerStyle},
		{Name: "Age", Header: headerStyle, Column: colStyle},
	})
	require.NoError(t, err)
	require.NoError(t, s1.AppendRow("Alice", 30))
	require.NoError(t, s1.AppendRow("Bob", sql.NullInt64{}))
	require.NoError(t, s1.AppendRow(sql.NullString{String: "Carol", Valid: true}, xlstream.Number("41")))

	// s1 is closed by NewSheet
	s2, err := w.NewSheet("", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, s1.AppendRow("late"), xlstream.ErrFinished)
	require.NoError(t, s2.AppendRow(true, 1.5))
	require.NoError(t, s2.Close())
	require.NoError(t, s2.Close())
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	_, err = w.NewSheet("x", nil)
	assert.ErrorIs(t, err, xlstream.ErrFinished)

	_, parts := readParts(t, buf.Bytes())
	ws := decodeSheet(t, parts["xl/worksheets/sheet1.xml"])
	require.Len(t, ws.Rows, 4)
	assert.Equal(t, "1", ws.Rows[0].Cells[0].S)
	assert.Equal(t, "1", ws.Rows[0].Cells[1].S)
	assert.Equal(t, "", ws.Rows[1].Cells[0].S)
	assert.Equal(t, "2", ws.Rows[1].Cells[1].S)
	require.Len(t, ws.Rows[2].Cells, 1, "the NULL age is skipped")
	assert.Equal(t, "41", ws.Rows[3].Cells[1].V)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"People", "Sheet2"}, f.GetSheetList())
	rows, err := f.GetRows("People", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Name", "Age"}, {"Alice", "30"}, {"Bob"}, {"Carol", "41"},
	}, rows)
}

func TestXLSXSheetTooManyRows(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	s, err := w.NewSheet("S", nil)
	require.NoError(t, err)
	xls := s.(*XLSXSheet)
	xls.sw.row = MaxRowCount
	assert.ErrorIs(t, s.AppendRow(1), xlstream.ErrTooManyRows)
}

func TestXLSXWriterCloseWhileAppending(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	s, err := w.NewSheet("Busy", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var appended int
	var lastErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10_000; i++ {
			if lastErr = s.AppendRow(i, "row"); lastErr != nil {
				return
			}
			appended++
		}
	}()
	require.NoError(t, w.Close())
	wg.Wait()
	if lastErr != nil {
		assert.True(t, errors.Is(lastErr, xlstream.ErrFinished), "%+v", lastErr)
	}

	_, parts := readParts(t, buf.Bytes())
	ws := decodeSheet(t, parts["xl/worksheets/sheet1.xml"])
	assert.Len(t, ws.Rows, appended)
}
