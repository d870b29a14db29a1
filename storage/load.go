/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package storage

import (
	"bufio"
	"fmt"
	"io"
	"runtime/debug"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/launix-de/colstore/colval"
)

// RowBuffer accumulates row tuples during load. Freeze converts the buffer
// into an immutable Table; the buffer may be reused afterwards.
type RowBuffer struct {
	schema []ColumnSpec
	rows   [][]colval.Value
}

func NewRowBuffer(schema []ColumnSpec) *RowBuffer {
	return &RowBuffer{schema: schema}
}

func (b *RowBuffer) Append(row []colval.Value) error {
	if len(row) != len(b.schema) {
		return fmt.Errorf("row has %d cells but schema has %d columns", len(row), len(b.schema))
	}
	b.rows = append(b.rows, row)
	return nil
}

func (b *RowBuffer) Len() int { return len(b.rows) }

type freezeError struct {
	r     any
	stack string
}

func (e freezeError) Error() string {
	return fmt.Sprint(e.r) + "\n" + e.stack
}

// Freeze picks a representation for every column and builds the table.
// Columns freeze independently, so they run concurrently when
// Settings.ParallelFreeze is set.
func (b *RowBuffer) Freeze(context any, rowType RowType) (*Table, error) {
	n := len(b.rows)
	columns := make([]ColumnStorage, len(b.schema))

	freezeOne := func(j int) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = freezeError{r, string(debug.Stack())}
			}
		}()
		values := make([]colval.Value, n)
		for i, row := range b.rows {
			values[i] = row[j]
		}
		columns[j] = FreezeColumn(b.schema[j], values)
		return nil
	}

	if Settings.ParallelFreeze && len(b.schema) > 1 {
		var g errgroup.Group
		for j := range b.schema {
			j := j
			g.Go(func() error { return freezeOne(j) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for j := range b.schema {
			if err := freezeOne(j); err != nil {
				return nil, err
			}
		}
	}
	return NewTable(b.schema, columns, uint(n), context, rowType)
}

// LoadCSV appends rows from a delimiter-separated stream, parsing each field
// according to the column's declared type. An empty field in a nullable
// column loads as NULL. firstLine skips a header line.
func LoadCSV(b *RowBuffer, f io.Reader, delimiter string, firstLine bool) error {
	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanLines)
	if firstLine {
		if !scanner.Scan() {
			return fmt.Errorf("CSV does not contain header line")
		}
	}
	lineno := 0
	for scanner.Scan() {
		lineno++
		s := scanner.Text()
		if s == "" {
			// ignore
			continue
		}
		arr := strings.Split(s, delimiter)
		row := make([]colval.Value, len(b.schema))
		for i, col := range b.schema {
			var field string
			if i < len(arr) {
				field = arr[i]
			}
			v, err := parseField(col, field)
			if err != nil {
				return fmt.Errorf("line %d column %s: %w", lineno, col.Name, err)
			}
			row[i] = v
		}
		if err := b.Append(row); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func parseField(col ColumnSpec, field string) (colval.Value, error) {
	if field == "" && col.Nullable {
		return colval.NewNil(), nil
	}
	switch col.Typ {
	case TypeBoolean:
		v, err := strconv.ParseBool(field)
		if err != nil {
			return colval.NewNil(), err
		}
		return colval.NewBool(v), nil
	case TypeByte, TypeShort, TypeInt, TypeLong:
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return colval.NewNil(), err
		}
		return colval.NewInt(v), nil
	case TypeFloat, TypeDouble:
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return colval.NewNil(), err
		}
		return colval.NewFloat(v), nil
	case TypeChar:
		for _, r := range field {
			return colval.NewChar(uint16(r)), nil
		}
		return colval.NewNil(), fmt.Errorf("empty char field")
	case TypeBytes:
		return colval.NewBytes([]byte(field)), nil
	default:
		return colval.NewString(field), nil
	}
}
