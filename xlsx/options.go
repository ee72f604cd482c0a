// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"log/slog"
	"time"

	"github.com/klauspost/compress/flate"
)

// Option configures a Workbook.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	modified   time.Time
	level      int
	bufferSize int
}

func defaultOptions() options {
	return options{
		logger:     slog.New(slog.DiscardHandler),
		level:      flate.DefaultCompression,
		bufferSize: 64 << 10,
	}
}

// WithLogger sets the logger for the part lifecycle events (Debug level).
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCompressionLevel sets the deflate level of the archive entries,
// from flate.NoCompression (0) to flate.BestCompression (9), or
// flate.HuffmanOnly / flate.DefaultCompression.
func WithCompressionLevel(level int) Option {
	return func(o *options) {
		if flate.HuffmanOnly <= level && level <= flate.BestCompression {
			o.level = level
		}
	}
}

// WithBufferSize sets the size of the buffer between the sheet XML and the archive.
func WithBufferSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.bufferSize = size
		}
	}
}

// WithModTime sets the modification time recorded for every archive entry.
// The default is the time of NewWorkbook.
func WithModTime(t time.Time) Option {
	return func(o *options) { o.modified = t }
}
