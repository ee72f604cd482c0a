// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlstream

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// EncName is the default charset of the CSV input, taken from $LANG.
var EncName = "utf-8"

func init() {
	EncName = encNameFromLang(os.Getenv("LANG"))
}

func encNameFromLang(lang string) string {
	if i := strings.IndexByte(lang, '.'); i >= 0 {
		lang = lang[i+1:]
		if j := strings.IndexByte(lang, '@'); j >= 0 {
			lang = lang[:j]
		}
		if lang != "" {
			return strings.ToLower(lang)
		}
	}
	return "utf-8"
}

// GetEncoding returns the encoding for the name, or nil for UTF-8.
func GetEncoding(encName string) (encoding.Encoding, error) {
	encName = strings.ToLower(encName)
	if encName == "" || encName == "utf-8" || encName == "utf8" {
		return nil, nil
	}
	enc, err := htmlindex.Get(encName)
	if err != nil {
		err = fmt.Errorf("%q: %w", encName, err)
	}
	return enc, err
}

type csvReadCloser struct {
	*csv.Reader
	io.Closer
}

// OpenCsv opens the named file ("" or "-" is stdin) for CSV reading,
// decoding from encName and guessing the field separator from the first line.
func OpenCsv(fn, encName string) (csvReadCloser, error) {
	fh := os.Stdin
	if !(fn == "" || fn == "-") {
		var err error
		if fh, err = os.Open(fn); err != nil {
			return csvReadCloser{}, err
		}
	}
	cr, err := NewCsvReader(fh, encName)
	if err != nil {
		fh.Close()
		return csvReadCloser{}, err
	}
	return csvReadCloser{Reader: cr, Closer: fh}, nil
}

// NewCsvReader returns a csv.Reader reading r decoded from encName,
// with the separator sniffed from the first 1024 bytes.
func NewCsvReader(r io.Reader, encName string) (*csv.Reader, error) {
	if encName != "" {
		enc, err := GetEncoding(encName)
		if err != nil {
			return nil, err
		}
		if enc != nil {
			r = enc.NewDecoder().Reader(r)
		}
	}
	br := bufio.NewReaderSize(r, 1<<20)
	b, err := br.Peek(1024)
	if err != nil && len(b) == 0 {
		return nil, err
	}
	cr := csv.NewReader(br)
	cr.ReuseRecord = true
	cr.Comma = sniffSeparator(b)
	return cr, nil
}

func sniffSeparator(b []byte) rune {
	for _, r := range string(b) {
		if r == '"' || r == '_' || r == ' ' || r == '.' || r == '-' ||
			unicode.IsLetter(r) || unicode.IsNumber(r) {
			continue
		}
		if r == '\n' || r == '\r' {
			break
		}
		return r
	}
	return ','
}
