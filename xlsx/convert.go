// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"

	"github.com/UNO-SOFT/xlstream"
)

// DateFormat is the layout of time values written as text.
const DateFormat = "2006-01-02"

// ToCell converts a Go value into a Cell.
//
// nil, invalid sql.Null* values and zero times are empty cells;
// a driver.Valuer is converted by its Value; xlstream.Number is a number
// (or text if it does not parse); anything else is formatted as text.
func ToCell(v any) (Cell, error) {
	if v == nil {
		return Cell{}, nil
	}
	if vr, ok := v.(driver.Valuer); ok {
		switch v.(type) {
		case sql.NullTime, sql.NullFloat64, sql.NullInt64, sql.NullString, sql.NullBool,
			sql.NullInt32, sql.NullInt16, sql.NullByte:
			// handled below, keeping the type information
		default:
			vv, err := vr.Value()
			if err != nil {
				return Cell{}, err
			}
			if vv == nil {
				return Cell{}, nil
			}
			v = vv
		}
	}
	switch x := v.(type) {
	case Cell:
		return x, nil
	case string:
		return Text(x), nil
	case []byte:
		return Text(string(x)), nil
	case bool:
		return Bool(x), nil
	case float64:
		return Float(x), nil
	case float32:
		return Float(float64(x)), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Float(float64(x)), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return Float(float64(x)), nil
	case xlstream.Number:
		if f, err := strconv.ParseFloat(string(x), 64); err == nil {
			return Float(f), nil
		}
		return Text(string(x)), nil
	case time.Time:
		if x.IsZero() {
			return Cell{}, nil
		}
		return Text(x.Format(DateFormat)), nil
	case sql.NullTime:
		if !x.Valid || x.Time.IsZero() {
			return Cell{}, nil
		}
		return Text(x.Time.Format(DateFormat)), nil
	case sql.NullFloat64:
		if !x.Valid {
			return Cell{}, nil
		}
		return Float(x.Float64), nil
	case sql.NullInt64:
		if !x.Valid {
			return Cell{}, nil
		}
		return Int(x.Int64), nil
	case sql.NullInt32:
		if !x.Valid {
			return Cell{}, nil
		}
		return Int(int64(x.Int32)), nil
	case sql.NullInt16:
		if !x.Valid {
			return Cell{}, nil
		}
		return Int(int64(x.Int16)), nil
	case sql.NullByte:
		if !x.Valid {
			return Cell{}, nil
		}
		return Int(int64(x.Byte)), nil
	case sql.NullBool:
		if !x.Valid {
			return Cell{}, nil
		}
		return Bool(x.Bool), nil
	case sql.NullString:
		if !x.Valid {
			return Cell{}, nil
		}
		return Text(x.String), nil
	case fmt.Stringer:
		return Text(x.String()), nil
	case error:
		return Text(x.Error()), nil
	}
	return Text(fmt.Sprintf("%v", v)), nil
}

// ToRow converts the values with ToCell.
func ToRow(values ...any) (Row, error) {
	row := Row{cells: make([]Cell, 0, len(values))}
	for i, v := range values {
		c, err := ToCell(v)
		if err != nil {
			return row, fmt.Errorf("%d. %T: %w", i, v, err)
		}
		row.cells = append(row.cells, c)
	}
	return row, nil
}
