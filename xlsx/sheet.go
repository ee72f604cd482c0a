// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/valyala/quicktemplate"

	"github.com/UNO-SOFT/xlstream"
)

// Sheet is a sheet of a Workbook, not yet written.
// Write it with Write, WriteSheet or Writer, once.
type Sheet struct {
	wb     *Workbook
	name   string
	id     int
	opened bool
}

// ID returns the 1-based sequence number of the sheet.
func (s *Sheet) ID() int { return s.id }

// Name returns the name of the sheet shown on its tab.
func (s *Sheet) Name() string { return s.name }

// PartName returns the name of the worksheet entry in the archive.
func (s *Sheet) PartName() string { return worksheetPartName(s.id) }

// Write calls fn with the SheetWriter of the sheet, and finishes the writer
// after fn returns.
//
// If fn returns an error (or panics), the sheet is still closed before
// returning, so the part stays well-formed; fn's error is returned.
func (s *Sheet) Write(fn func(*SheetWriter) error) error {
	_, err := WriteSheet(s, func(sw *SheetWriter) (struct{}, error) {
		return struct{}{}, fn(sw)
	})
	return err
}

// WriteSheet is Sheet.Write with a result.
func WriteSheet[T any](s *Sheet, fn func(*SheetWriter) (T, error)) (result T, err error) {
	sw, err := s.Writer()
	if err != nil {
		return result, err
	}
	defer func() {
		if closeErr := sw.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()
	if result, err = fn(sw); err != nil {
		return result, err
	}
	return result, sw.Finish()
}

// Writer opens the sheet and returns its SheetWriter.
//
// The caller should Finish the writer (or defer its Close).
// A writer left open is closed by the Workbook when the next sheet is opened,
// or at Workbook.Finish; if that fails, the Workbook becomes unusable.
func (s *Sheet) Writer() (*SheetWriter, error) { return s.wb.checkout(s) }

type sheetState uint8

const (
	stateStarted sheetState = iota
	stateActive
	stateFinished
)

func (st sheetState) String() string {
	switch st {
	case stateStarted:
		return "started"
	case stateActive:
		return "active"
	case stateFinished:
		return "finished"
	}
	return fmt.Sprintf("sheetState(%d)", uint8(st))
}

// SheetWriter streams the rows of one sheet into the archive.
type SheetWriter struct {
	wb    *Workbook
	sheet *Sheet
	bw    *bufio.Writer
	w     *stickyWriter
	qw    *quicktemplate.Writer
	row   int
	state sheetState
}

func newSheetWriter(wb *Workbook, s *Sheet, w io.Writer) *SheetWriter {
	bw := bufio.NewWriterSize(w, wb.bufSize)
	sw := &stickyWriter{w: bw}
	return &SheetWriter{
		wb: wb, sheet: s, bw: bw, w: sw,
		qw: quicktemplate.AcquireWriter(sw),
	}
}

func (sw *SheetWriter) start() error {
	sw.qw.N().S(worksheetHeader)
	sw.state = stateStarted
	return sw.w.err
}

// Sheet returns the sheet this writer writes.
func (sw *SheetWriter) Sheet() *Sheet { return sw.sheet }

// Rows returns the number of rows written so far.
func (sw *SheetWriter) Rows() int { return sw.row }

// WriteRow writes the row as the next one: the Kth row gets the number K.
//
// A failed write leaves the sheet (and the whole document) invalid.
func (sw *SheetWriter) WriteRow(row Row) error {
	if sw.state == stateFinished {
		return fmt.Errorf("%s: %w", sw.sheet.name, xlstream.ErrFinished)
	}
	if sw.wb.err != nil {
		return sw.wb.err
	}
	for i, c := range row.cells {
		if c.style.wb != nil && c.style.wb != sw.wb {
			return fmt.Errorf("%s: column %d: %w", sw.sheet.name, i, xlstream.ErrForeignStyle)
		}
	}
	sw.row++
	w := sw.qw.N()
	w.S(`<row r="`)
	w.D(sw.row)
	w.S(`">`)
	for i, c := range row.cells {
		if err := c.writeXML(sw.qw, i, sw.row); err != nil {
			return sw.wb.fail(fmt.Errorf("%s: row %d column %d: %w", sw.sheet.name, sw.row, i, err))
		}
	}
	w.S("</row>\n")
	sw.state = stateActive
	if sw.w.err != nil {
		return sw.wb.fail(fmt.Errorf("%s: row %d: %w", sw.sheet.PartName(), sw.row, sw.w.err))
	}
	return nil
}

// Finish writes the closing tags of the sheet and flushes it.
//
// Finish returns ErrFinished when called again.
func (sw *SheetWriter) Finish() error {
	if sw.state == stateFinished {
		return fmt.Errorf("%s: %w", sw.sheet.name, xlstream.ErrFinished)
	}
	if err := sw.finish(); err != nil {
		return sw.wb.fail(fmt.Errorf("%s: %w", sw.sheet.PartName(), err))
	}
	sw.wb.logger.Debug("sheet finished", "sheet", sw.sheet.name, "rows", sw.row)
	return nil
}

// Close finishes the writer if it is not finished yet, and is a no-op otherwise.
// It is meant to be deferred right after Sheet.Writer.
func (sw *SheetWriter) Close() error {
	if sw.state == stateFinished {
		return nil
	}
	return sw.Finish()
}

// finish is the terminal transition; it runs at most once.
func (sw *SheetWriter) finish() error {
	if sw.state == stateFinished {
		return nil
	}
	sw.state = stateFinished
	sw.wb.release(sw)
	sw.qw.N().S(worksheetFooter)
	quicktemplate.ReleaseWriter(sw.qw)
	sw.qw = nil
	if sw.w.err != nil {
		return sw.w.err
	}
	return sw.bw.Flush()
}
