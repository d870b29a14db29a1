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

import "fmt"
import "runtime"
import "strings"
import "github.com/docker/go-units"

// SizeString reports the table's payload footprint per column in
// human-readable form.
func (t *Table) SizeString() string {
	var b strings.Builder
	for i, col := range t.schema {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(col.Name)
		b.WriteString(" ")
		b.WriteString(units.BytesSize(float64(t.columns[i].ComputeSize())))
	}
	b.WriteString(" (total ")
	b.WriteString(units.BytesSize(float64(t.ComputeSize())))
	b.WriteString(")")
	return b.String()
}

func PrintMemUsage() string {
	runtime.GC()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return fmt.Sprintf("Alloc = %s\tTotalAlloc = %s\tSys = %s\tNumGC = %v",
		units.BytesSize(float64(m.Alloc)), units.BytesSize(float64(m.TotalAlloc)), units.BytesSize(float64(m.Sys)), m.NumGC)
}
