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

import "io"
import "fmt"
import "github.com/launix-de/colstore/colval"

// THE basic storage pattern
type ColumnStorage interface {
	GetValue(uint) colval.Value // read function
	String() string             // self-description
	ComputeSize() uint

	// buildup functions 1) prepare 2) scan, 3) proposeCompression(), if != nil repeat at 1, 4) init, 5) build, 6) finish; every candidate storage scans all values, then the chosen one builds them
	prepare()
	scan(uint, colval.Value)
	proposeCompression(uint) ColumnStorage

	Serialize(io.Writer)
	Deserialize(io.Reader) uint

	// store
	init(uint)
	build(uint, colval.Value)
	finish()
}

// storage magic bytes for serialization
const (
	magicObject     uint8 = 1
	magicPrimitive  uint8 = 2
	magicBits       uint8 = 3
	magicPrimDict   uint8 = 4
	magicObjDict    uint8 = 5
	magicStringDict uint8 = 6
	magicBytesDict  uint8 = 7
)

// FreezeColumn converts a column's value list into its final immutable
// representation. The values go through one scan pass per candidate
// storage (the analyzing object storage, then each proposed codec), then
// after the representation is settled a build pass that fills the payload.
func FreezeColumn(spec ColumnSpec, values []colval.Value) ColumnStorage {
	var col ColumnStorage = &StorageObject{spec: spec}
	n := uint(len(values))
	for {
		// scan phase
		col.prepare()
		for i, v := range values {
			col.scan(uint(i), v)
		}
		col2 := col.proposeCompression(n)
		if col2 == nil {
			break // we found the optimal storage format
		}
		// redo scan phase with the proposed format
		col = col2
	}
	// build phase
	col.init(n)
	for i, v := range values {
		col.build(uint(i), v)
	}
	col.finish()
	return col
}

// deserializeStorage reads one column storage from f, dispatching on the
// magic byte.
func deserializeStorage(f io.Reader) (ColumnStorage, uint) {
	var magic [1]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		panic("column storage truncated: " + err.Error())
	}
	var s ColumnStorage
	switch magic[0] {
	case magicObject:
		s = new(StorageObject)
	case magicPrimitive:
		s = new(StoragePrimitive)
	case magicBits:
		s = new(StorageBits)
	case magicPrimDict:
		s = new(StoragePrimDict)
	case magicObjDict:
		s = new(StorageObjDict)
	case magicStringDict:
		s = new(StorageStringDict)
	case magicBytesDict:
		s = new(StorageBytesDict)
	default:
		panic(fmt.Sprintf("unknown column storage magic %d", magic[0]))
	}
	return s, s.Deserialize(f)
}
