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
	"encoding/binary"
	"fmt"
	"io"

	"github.com/launix-de/colstore/colval"
)

// StoragePrimitive packs a column into a dense native array of its primitive
// kind. No NULL support.
type StoragePrimitive struct {
	kind  PrimKind
	arr   any
	count uint
}

func (s *StoragePrimitive) String() string {
	return s.kind.String()
}

func (s *StoragePrimitive) ComputeSize() uint {
	return s.kind.byteLen(s.count) + 64
}

func (s *StoragePrimitive) Kind() PrimKind { return s.kind }

func (s *StoragePrimitive) GetValue(i uint) colval.Value {
	if i >= s.count {
		panic(fmt.Sprintf("ordinal %d out of range [0,%d)", i, s.count))
	}
	return s.kind.Read(s.arr, i)
}

func (s *StoragePrimitive) prepare() {
}

func (s *StoragePrimitive) scan(i uint, value colval.Value) {
}

func (s *StoragePrimitive) proposeCompression(i uint) ColumnStorage {
	// dont't propose another pass
	return nil
}

func (s *StoragePrimitive) init(i uint) {
	// allocate
	s.arr = s.kind.Alloc(i)
	s.count = i
}

func (s *StoragePrimitive) build(i uint, value colval.Value) {
	if value.IsNil() {
		panic("NULL in primitive array storage")
	}
	s.kind.Write(s.arr, i, value)
}

func (s *StoragePrimitive) finish() {
}

func (s *StoragePrimitive) Serialize(f io.Writer) {
	binary.Write(f, binary.LittleEndian, magicPrimitive)
	binary.Write(f, binary.LittleEndian, uint8(s.kind))
	binary.Write(f, binary.LittleEndian, uint64(s.count))
	raw := s.kind.rawBytes(s.arr)
	binary.Write(f, binary.LittleEndian, uint64(len(raw)))
	if len(raw) > 0 {
		f.Write(raw)
	}
}

func (s *StoragePrimitive) Deserialize(f io.Reader) uint {
	var kind uint8
	binary.Read(f, binary.LittleEndian, &kind)
	s.kind = PrimKind(kind)
	var count, rawlen uint64
	binary.Read(f, binary.LittleEndian, &count)
	binary.Read(f, binary.LittleEndian, &rawlen)
	s.count = uint(count)
	raw := make([]byte, rawlen)
	io.ReadFull(f, raw)
	s.arr = s.kind.fromRaw(raw, s.count)
	return s.count
}
