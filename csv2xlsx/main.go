// Copyright 2021, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Command csv2xlsx streams CSV files into the sheets of one XLSX file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/UNO-SOFT/zlog/v2"
	"github.com/klauspost/compress/flate"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/UNO-SOFT/xlstream"
	"github.com/UNO-SOFT/xlstream/xlsx"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

func main() {
	if err := Main(); err != nil {
		logger.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

type config struct {
	EncName            string
	HeaderFG, HeaderBG xlstream.Color
	Compression        int
	Header, Numbers    bool
}

func Main() error {
	cfg := config{
		HeaderFG: xlstream.RGB(255, 255, 255),
		HeaderBG: xlstream.RGB(0, 0, 0),
	}
	fs := flag.NewFlagSet("csv2xlsx", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	fs.StringVar(&cfg.EncName, "charset", xlstream.EncName, "csv charset name")
	fs.BoolVar(&cfg.Header, "header", true, "the first row of each csv is a header")
	fs.Var(&cfg.HeaderFG, "header-fg", "header font color")
	fs.Var(&cfg.HeaderBG, "header-bg", "header fill color")
	fs.BoolVar(&cfg.Numbers, "numbers", false, "write numeric-looking fields as numbers")
	fs.IntVar(&cfg.Compression, "compression", flate.DefaultCompression, "deflate level (0-9, -1: default)")

	app := ffcli.Command{Name: "csv2xlsx", FlagSet: fs,
		ShortUsage: "csv2xlsx [flags] <out.xlsx|-> [sheetname:]<in.csv|->...",
		Options:    []ff.Option{ff.WithEnvVarPrefix("CSV2XLSX")},
		Exec: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return flag.ErrHelp
			}
			return convert(ctx, cfg, args[0], args[1:])
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return app.ParseAndRun(ctx, os.Args[1:])
}

func convert(ctx context.Context, cfg config, out string, inputs []string) error {
	fh := os.Stdout
	if !(out == "" || out == "-") {
		// Write into a temp file, to not leave an invalid xlsx behind.
		var err error
		if fh, err = os.CreateTemp(filepath.Dir(out), "."+filepath.Base(out)+"-*"); err != nil {
			return err
		}
		defer os.Remove(fh.Name())
	}
	defer fh.Close()

	wb := xlsx.NewWorkbook(fh,
		xlsx.WithLogger(logger), xlsx.WithCompressionLevel(cfg.Compression))
	var headerStyle xlsx.CellStyle
	if cfg.Header {
		headerStyle = wb.CreateCellStyle(cfg.HeaderFG, cfg.HeaderBG)
	}
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	for _, fn := range inputs {
		var sheetName string
		if i := strings.IndexByte(fn, ':'); i >= 0 {
			sheetName, fn = fn[:i], fn[i+1:]
		} else if fn != "" && fn != "-" {
			sheetName = strings.TrimSuffix(filepath.Base(fn), ".csv")
		}
		sheet, err := wb.NewNamedSheet(cleanSheetName(sheetName))
		if errors.Is(err, xlsx.ErrSheetName) {
			logger.Warn("sheet name rejected, using the default", "name", sheetName, "error", err)
			sheet, err = wb.NewSheet()
		}
		if err != nil {
			return err
		}
		n, err := xlsx.WriteSheet(sheet, func(sw *xlsx.SheetWriter) (int, error) {
			return copyFile(ctx, sw, cfg, headerStyle, fn)
		})
		if err != nil {
			return fmt.Errorf("%q: %w", fn, err)
		}
		logger.Info("sheet written", "file", fn, "sheet", sheet.Name(), "rows", n)
	}
	if err := wb.Finish(); err != nil {
		return err
	}
	if fh == os.Stdout {
		return nil
	}
	if err := fh.Chmod(0o666 &^ umask()); err != nil {
		return err
	}
	if err := fh.Close(); err != nil {
		return err
	}
	return os.Rename(fh.Name(), out)
}

// cleanSheetName replaces the characters not allowed in sheet names,
// and truncates the name to 31 characters.
func cleanSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "'")
	if utf8.RuneCountInString(name) > 31 {
		name = string([]rune(name)[:31])
	}
	return name
}

func copyFile(ctx context.Context, sw *xlsx.SheetWriter, cfg config, headerStyle xlsx.CellStyle, fn string) (int, error) {
	cr, err := xlstream.OpenCsv(fn, cfg.EncName)
	if err != nil {
		return 0, err
	}
	defer cr.Close()

	first := cfg.Header
	for {
		if err := ctx.Err(); err != nil {
			return sw.Rows(), err
		}
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return sw.Rows(), err
		}
		var row xlsx.Row
		for _, s := range rec {
			c := xlsx.Text(s)
			if first {
				c = c.With(headerStyle)
			} else if cfg.Numbers {
				if f, err := strconv.ParseFloat(s, 64); err == nil {
					c = xlsx.Float(f)
				}
			}
			row.Add(c)
		}
		first = false
		if err := sw.WriteRow(row); err != nil {
			return sw.Rows(), err
		}
		if n := sw.Rows(); n%100_000 == 0 {
			logger.Debug("progress", "file", fn, "rows", n)
		}
	}
	return sw.Rows(), nil
}
