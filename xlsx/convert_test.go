// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UNO-SOFT/xlstream"
)

type testValuer struct {
	v   driver.Value
	err error
}

func (tv testValuer) Value() (driver.Value, error) { return tv.v, tv.err }

type testStringer struct{}

func (testStringer) String() string { return "stringer" }

func TestToCell(t *testing.T) {
	day := time.Date(2026, 10, 18, 13, 14, 15, 0, time.UTC)
	for name, tc := range map[string]struct {
		in   any
		want Cell
	}{
		"nil":           {nil, Cell{}},
		"string":        {"abc", Text("abc")},
		"bytes":         {[]byte("abc"), Text("abc")},
		"bool":          {true, Bool(true)},
		"int":           {42, Int(42)},
		"int8":          {int8(-3), Int(-3)},
		"uint16":        {uint16(7), Int(7)},
		"float32":       {float32(0.5), Float(0.5)},
		"float64":       {2.25, Float(2.25)},
		"number":        {xlstream.Number("3.5"), Float(3.5)},
		"bad number":    {xlstream.Number("3,5"), Text("3,5")},
		"time":          {day, Text("2026-10-18")},
		"zero time":     {time.Time{}, Cell{}},
		"null time":     {sql.NullTime{Time: day, Valid: true}, Text("2026-10-18")},
		"invalid time":  {sql.NullTime{}, Cell{}},
		"null float":    {sql.NullFloat64{Float64: 1.5, Valid: true}, Float(1.5)},
		"invalid float": {sql.NullFloat64{}, Cell{}},
		"null int":      {sql.NullInt64{Int64: 9, Valid: true}, Int(9)},
		"null int32":    {sql.NullInt32{Int32: 8, Valid: true}, Int(8)},
		"null bool":     {sql.NullBool{Bool: true, Valid: true}, Bool(true)},
		"null string":   {sql.NullString{String: "s", Valid: true}, Text("s")},
		"invalid str":   {sql.NullString{}, Cell{}},
		"valuer":        {testValuer{v: int64(5)}, Int(5)},
		"nil valuer":    {testValuer{}, Cell{}},
		"stringer":      {testStringer{}, Text("stringer")},
		"cell":          {Bool(false), Bool(false)},
		"other":         {[]int{1, 2}, Text("[1 2]")},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := ToCell(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestToCellValuerError(t *testing.T) {
	errValue := errors.New("value")
	_, err := ToCell(testValuer{err: errValue})
	assert.ErrorIs(t, err, errValue)

	_, err = ToRow(1, testValuer{err: errValue})
	assert.ErrorIs(t, err, errValue)
	assert.ErrorContains(t, err, "1. xlsx.testValuer")
}

func TestToRow(t *testing.T) {
	row, err := ToRow("a", 1, nil, true)
	require.NoError(t, err)
	assert.Equal(t, NewRow(Text("a"), Int(1), Cell{}, Bool(true)), row)
}
