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

import "github.com/launix-de/colstore/colval"

// Cursor is a forward, resettable position over the table's rows. Decode is
// purely positional, so any number of cursors can read the same table
// concurrently and observe identical values at matching ordinals.
type Cursor struct {
	t   *Table
	pos int64 // -1 = before first
}

// Scan opens a new cursor positioned before the first row.
func (t *Table) Scan() *Cursor {
	return &Cursor{t, -1}
}

// Advance moves to the next row; false means the cursor is exhausted and
// Current is undefined.
func (c *Cursor) Advance() bool {
	if c.pos >= int64(c.t.size) {
		return false
	}
	c.pos++
	return c.pos < int64(c.t.size)
}

// Current materializes a fresh tuple of the column values at the cursor row.
func (c *Cursor) Current() []colval.Value {
	if c.pos < 0 || c.pos >= int64(c.t.size) {
		panic("cursor is not positioned on a row")
	}
	row := make([]colval.Value, len(c.t.columns))
	for i, col := range c.t.columns {
		row[i] = col.GetValue(uint(c.pos))
	}
	return row
}

// Reset restores the before-first state.
func (c *Cursor) Reset() {
	c.pos = -1
}
