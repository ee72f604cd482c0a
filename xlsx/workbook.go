// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/valyala/quicktemplate"

	"github.com/UNO-SOFT/xlstream"
)

// ErrSheetName is returned for an invalid or duplicate sheet name.
var ErrSheetName = errors.New("invalid sheet name")

// Workbook streams an XLSX package into the underlying writer.
//
// Use it from one goroutine: create the styles, then for each sheet
// write the rows and finish it, then Finish the Workbook.
// Only one SheetWriter is open at any time: opening the next one,
// or finishing the Workbook, closes the previous one.
//
// The first write failure is sticky: every later call returns it,
// as the produced document is invalid anyway.
type Workbook struct {
	zw       *zip.Writer
	logger   *slog.Logger
	modified time.Time
	active   *SheetWriter
	err      error
	sheets   []*Sheet
	names    map[string]struct{}
	styles   styleRegistry
	bufSize  int
	finished bool
}

// NewWorkbook returns a Workbook writing into w.
//
// w is written sequentially; the archive is complete only after Finish.
func NewWorkbook(w io.Writer, opts ...Option) *Workbook {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.modified.IsZero() {
		o.modified = time.Now()
	}
	zw := zip.NewWriter(w)
	level := o.level
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})
	return &Workbook{
		zw: zw, logger: o.logger, modified: o.modified, bufSize: o.bufferSize,
		names: make(map[string]struct{}),
	}
}

// CreateCellStyle registers a style of the given font (foreground) and
// fill (background) colors. The first style gets ID 1, the next 2, and so on;
// ID 0 is the default format of cells without a style.
//
// Nothing is written until Finish, which emits the styles in creation order.
func (wb *Workbook) CreateCellStyle(foreground, background xlstream.Color) CellStyle {
	return CellStyle{wb: wb, id: wb.styles.add(foreground, background)}
}

// NewSheet returns the next sheet, named "Sheet{ID}".
func (wb *Workbook) NewSheet() (*Sheet, error) { return wb.NewNamedSheet("") }

// NewNamedSheet returns the next sheet with the given name.
// An empty name means "Sheet{ID}".
func (wb *Workbook) NewNamedSheet(name string) (*Sheet, error) {
	if err := wb.usable(); err != nil {
		return nil, err
	}
	id := len(wb.sheets) + 1
	if name == "" {
		name = fmt.Sprintf("Sheet%d", id)
	}
	if err := checkSheetName(name); err != nil {
		return nil, err
	}
	key := strings.ToLower(name)
	if _, ok := wb.names[key]; ok {
		return nil, fmt.Errorf("%q: duplicate: %w", name, ErrSheetName)
	}
	wb.names[key] = struct{}{}
	s := &Sheet{wb: wb, id: id, name: name}
	wb.sheets = append(wb.sheets, s)
	return s, nil
}

func checkSheetName(name string) error {
	if n := utf8.RuneCountInString(name); n > 31 {
		return fmt.Errorf("%q: longer than 31 characters: %w", name, ErrSheetName)
	}
	if strings.ContainsAny(name, `:\/?*[]`) {
		return fmt.Errorf("%q: contains one of :\\/?*[]: %w", name, ErrSheetName)
	}
	if strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'") {
		return fmt.Errorf("%q: starts or ends with an apostrophe: %w", name, ErrSheetName)
	}
	return nil
}

// Sheets returns the sheets in creation order.
func (wb *Workbook) Sheets() []*Sheet { return wb.sheets }

// Err returns the sticky error of the Workbook.
func (wb *Workbook) Err() error { return wb.err }

func (wb *Workbook) usable() error {
	if wb.err != nil {
		return wb.err
	}
	if wb.finished {
		return xlstream.ErrFinished
	}
	return nil
}

// fail records err as the sticky error, if it is the first one.
func (wb *Workbook) fail(err error) error {
	if err != nil && wb.err == nil {
		wb.err = err
	}
	return err
}

// checkout hands the archive to a new SheetWriter for s,
// closing the active one first.
func (wb *Workbook) checkout(s *Sheet) (*SheetWriter, error) {
	if err := wb.usable(); err != nil {
		return nil, err
	}
	if s.opened {
		return nil, fmt.Errorf("%s: %w", s.name, xlstream.ErrSheetUsed)
	}
	if err := wb.closeActive(); err != nil {
		return nil, err
	}
	s.opened = true
	w, err := wb.createPart(s.PartName())
	if err != nil {
		return nil, wb.fail(err)
	}
	sw := newSheetWriter(wb, s, w)
	if err := sw.start(); err != nil {
		return nil, wb.fail(fmt.Errorf("%s: %w", s.PartName(), err))
	}
	wb.active = sw
	wb.logger.Debug("sheet opened", "sheet", s.name, "part", s.PartName())
	return sw, nil
}

// release ends the checkout of sw.
func (wb *Workbook) release(sw *SheetWriter) {
	if wb.active == sw {
		wb.active = nil
	}
}

// closeActive is the automatic finalization of a SheetWriter that was
// not finished by its user. Its failure makes the Workbook unusable.
func (wb *Workbook) closeActive() error {
	sw := wb.active
	if sw == nil {
		return nil
	}
	wb.logger.Debug("finishing abandoned sheet", "sheet", sw.sheet.name, "rows", sw.row)
	if err := sw.finish(); err != nil {
		err = fmt.Errorf("%s: %w", sw.sheet.PartName(), errors.Join(xlstream.ErrImplicitFinish, err))
		wb.err = err
		return err
	}
	return nil
}

func (wb *Workbook) createPart(name string) (io.Writer, error) {
	w, err := wb.zw.CreateHeader(&zip.FileHeader{
		Name: name, Method: zip.Deflate, Modified: wb.modified,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	return w, nil
}

func (wb *Workbook) writeXMLPart(name string, v any) error {
	w, err := wb.createPart(name)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	if _, err = io.WriteString(bw, xmlProlog); err == nil {
		if err = xml.NewEncoder(bw).Encode(v); err == nil {
			err = bw.Flush()
		}
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (wb *Workbook) writeWorkbookPart() error {
	w, err := wb.createPart(partWorkbook)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	sw := &stickyWriter{w: bw}
	qw := quicktemplate.AcquireWriter(sw)
	wb.writeWorkbookXML(qw)
	quicktemplate.ReleaseWriter(qw)
	if sw.err == nil {
		sw.err = bw.Flush()
	}
	if sw.err != nil {
		return fmt.Errorf("write %s: %w", partWorkbook, sw.err)
	}
	return nil
}

// Finish closes the open sheet, writes an empty worksheet for every sheet
// that was never written, then the content types, relationships, workbook
// and styles parts, and closes the archive.
//
// Finish must be called exactly once: the second call returns ErrFinished
// and writes nothing.
func (wb *Workbook) Finish() error {
	if wb.finished {
		return xlstream.ErrFinished
	}
	wb.finished = true
	if wb.err != nil {
		return wb.err
	}
	if err := wb.closeActive(); err != nil {
		return err
	}
	for _, s := range wb.sheets {
		if s.opened {
			continue
		}
		wb.logger.Debug("writing empty sheet", "sheet", s.name)
		s.opened = true
		w, err := wb.createPart(s.PartName())
		if err != nil {
			return wb.fail(err)
		}
		sw := newSheetWriter(wb, s, w)
		if err = sw.start(); err == nil {
			err = sw.finish()
		}
		if err != nil {
			return wb.fail(fmt.Errorf("%s: %w", s.PartName(), err))
		}
	}

	for _, p := range []struct {
		v    any
		name string
	}{
		{name: partContentTypes, v: wb.contentTypes()},
		{name: partRootRels, v: rootRels()},
	} {
		if err := wb.writeXMLPart(p.name, p.v); err != nil {
			return wb.fail(err)
		}
	}
	if err := wb.writeWorkbookPart(); err != nil {
		return wb.fail(err)
	}
	for _, p := range []struct {
		v    any
		name string
	}{
		{name: partWorkbookRels, v: wb.workbookRels()},
		{name: partStyles, v: wb.styles.styleSheet()},
	} {
		if err := wb.writeXMLPart(p.name, p.v); err != nil {
			return wb.fail(err)
		}
	}
	if err := wb.zw.Close(); err != nil {
		return wb.fail(fmt.Errorf("close archive: %w", err))
	}
	wb.logger.Debug("workbook finished", "sheets", len(wb.sheets), "styles", len(wb.styles.defs))
	return nil
}

// Close is Finish, for io.Closer.
func (wb *Workbook) Close() error { return wb.Finish() }

// stickyWriter remembers the first write error and drops every write after that.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (sw *stickyWriter) Write(p []byte) (int, error) {
	if sw.err != nil {
		return 0, sw.err
	}
	n, err := sw.w.Write(p)
	if err != nil {
		sw.err = err
	}
	return n, err
}
