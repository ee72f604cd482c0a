// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"fmt"
	"io"
	"sync"

	"github.com/UNO-SOFT/xlstream"
)

var (
	_ = (xlstream.Writer)((*XLSXWriter)(nil))
	_ = (xlstream.Sheet)((*XLSXSheet)(nil))
)

// MaxRowCount is the number of maximum rows.
const MaxRowCount = 1_048_576

// XLSXWriter is an xlstream.Writer over a streaming Workbook.
type XLSXWriter struct {
	wb     *Workbook
	styles map[xlstream.Style]CellStyle
	sheet  *XLSXSheet
	mu     sync.Mutex
}

// XLSXSheet is a sheet of an XLSXWriter.
type XLSXSheet struct {
	w       *XLSXWriter
	sw      *SheetWriter
	Name    string
	columns []CellStyle
	mu      sync.Mutex
}

// NewWriter returns a new xlstream.Writer.
//
// This writer streams each sheet right into w, so it does NOT allow
// concurrent writes to separate sheets: NewSheet closes the previous sheet.
func NewWriter(w io.Writer, opts ...Option) *XLSXWriter {
	return &XLSXWriter{wb: NewWorkbook(w, opts...)}
}

// Workbook returns the underlying Workbook.
func (xlw *XLSXWriter) Workbook() *Workbook { return xlw.wb }

// Close closes the last sheet and finishes the workbook.
func (xlw *XLSXWriter) Close() error {
	if xlw == nil {
		return nil
	}
	xlw.mu.Lock()
	defer xlw.mu.Unlock()
	wb := xlw.wb
	if wb == nil {
		return nil
	}
	sheet := xlw.sheet
	xlw.wb, xlw.sheet = nil, nil
	var closeErr error
	if sheet != nil {
		closeErr = sheet.close()
	}
	if err := wb.Finish(); err != nil {
		return err
	}
	return closeErr
}

// NewSheet closes the previous sheet, and opens a new one.
// If any of the columns has a Name, a header row is written.
func (xlw *XLSXWriter) NewSheet(name string, columns []xlstream.Column) (xlstream.Sheet, error) {
	xlw.mu.Lock()
	defer xlw.mu.Unlock()
	if xlw.wb == nil {
		return nil, xlstream.ErrFinished
	}
	if xlw.sheet != nil {
		if err := xlw.sheet.close(); err != nil {
			return nil, err
		}
	}
	s, err := xlw.wb.NewNamedSheet(name)
	if err != nil {
		return nil, err
	}
	sw, err := s.Writer()
	if err != nil {
		return nil, err
	}
	xls := &XLSXSheet{w: xlw, sw: sw, Name: s.Name()}
	var hasHeader bool
	header := make([]Cell, len(columns))
	for i, c := range columns {
		if st := xlw.getStyle(c.Column); !st.IsZero() {
			if xls.columns == nil {
				xls.columns = make([]CellStyle, len(columns))
			}
			xls.columns[i] = st
		}
		header[i] = Text(c.Name).With(xlw.getStyle(c.Header))
		if c.Name != "" {
			hasHeader = true
		}
	}
	if hasHeader {
		if err := sw.WriteRow(NewRow(header...)); err != nil {
			return nil, err
		}
	}
	xlw.sheet = xls
	return xls, nil
}

func (xlw *XLSXWriter) getStyle(style xlstream.Style) CellStyle {
	if !style.Set {
		return CellStyle{}
	}
	if s, ok := xlw.styles[style]; ok {
		return s
	}
	s := xlw.wb.CreateCellStyle(style.Foreground, style.Background)
	if xlw.styles == nil {
		xlw.styles = make(map[xlstream.Style]CellStyle)
	}
	xlw.styles[style] = s
	return s
}

// Close finishes the sheet.
func (xls *XLSXSheet) Close() error {
	xls.w.mu.Lock()
	defer xls.w.mu.Unlock()
	if xls.w.sheet == xls {
		xls.w.sheet = nil
	}
	return xls.close()
}

func (xls *XLSXSheet) close() error {
	xls.mu.Lock()
	defer xls.mu.Unlock()
	return xls.sw.Close()
}

// AppendRow converts the values with ToCell and writes them as the next row,
// applying the column styles.
func (xls *XLSXSheet) AppendRow(values ...any) error {
	xls.mu.Lock()
	defer xls.mu.Unlock()
	if xls.sw.Rows() >= MaxRowCount {
		return xlstream.ErrTooManyRows
	}
	row, err := ToRow(values...)
	if err != nil {
		return fmt.Errorf("%s[%d]: %w", xls.Name, xls.sw.Rows()+1, err)
	}
	for i, st := range xls.columns {
		if i >= len(row.cells) {
			break
		}
		if c := row.cells[i]; !st.IsZero() && !c.IsEmpty() {
			if _, ok := c.Style(); !ok {
				row.cells[i] = c.With(st)
			}
		}
	}
	return xls.sw.WriteRow(row)
}
