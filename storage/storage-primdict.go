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
	"math"
	"sort"

	"github.com/launix-de/colstore/colval"
)

// StoragePrimDict stores a low-cardinality primitive column as a sorted
// dictionary of distinct values plus per-row codes in a nested StorageBits.
// code(v1) < code(v2) iff v1 < v2 under the primitive's natural order.
// NULL, when present, is the code one past the dictionary (self-described by
// hasNull).
type StoragePrimDict struct {
	kind    PrimKind
	dict    []colval.Value // sorted ascending
	hasNull bool
	codes   StorageBits
	count   uint

	// scan/build temporaries, keyed by the value's bit pattern
	freq    map[uint64]uint
	reverse map[uint64]uint
}

// key maps a value onto a canonical 64-bit pattern for dictionary lookup.
func (s *StoragePrimDict) key(value colval.Value) uint64 {
	if s.kind.isFloat() {
		return math.Float64bits(value.Float())
	}
	return uint64(value.Int())
}

// valueOf rebuilds the logical value from a canonical bit pattern.
func (s *StoragePrimDict) valueOf(key uint64) colval.Value {
	switch s.kind {
	case BOOLEAN:
		return colval.NewBool(key != 0)
	case CHARACTER:
		return colval.NewChar(uint16(key))
	case FLOAT, DOUBLE:
		return colval.NewFloat(math.Float64frombits(key))
	default:
		return colval.NewInt(int64(key))
	}
}

func (s *StoragePrimDict) String() string {
	if s.hasNull {
		return fmt.Sprintf("dict[%d]%sNULL", len(s.dict), s.kind)
	}
	return fmt.Sprintf("dict[%d]%s", len(s.dict), s.kind)
}

func (s *StoragePrimDict) ComputeSize() uint {
	return 8*uint(len(s.dict)) + s.codes.ComputeSize() + 64
}

// Dict exposes the sorted dictionary for order verification.
func (s *StoragePrimDict) Dict() []colval.Value { return s.dict }

func (s *StoragePrimDict) GetValue(i uint) colval.Value {
	c := s.codes.GetValueUInt(i)
	if s.hasNull && c == uint64(len(s.dict)) {
		return colval.NewNil()
	}
	return s.dict[c]
}

func (s *StoragePrimDict) prepare() {
	s.freq = make(map[uint64]uint)
	s.hasNull = false
}

func (s *StoragePrimDict) scan(i uint, value colval.Value) {
	if value.IsNil() {
		s.hasNull = true
		return
	}
	s.freq[s.key(value)]++
}

func (s *StoragePrimDict) proposeCompression(i uint) ColumnStorage {
	// dont't propose another pass
	return nil
}

func (s *StoragePrimDict) init(i uint) {
	// extract distinct values, sort, assign codes 0..k
	s.dict = make([]colval.Value, 0, len(s.freq))
	for key := range s.freq {
		s.dict = append(s.dict, s.valueOf(key))
	}
	sort.Slice(s.dict, func(a, b int) bool { return colval.Less(s.dict[a], s.dict[b]) })
	s.reverse = make(map[uint64]uint, len(s.dict))
	for c, v := range s.dict {
		s.reverse[s.key(v)] = uint(c)
	}
	s.freq = nil

	maxCode := len(s.dict) - 1
	if s.hasNull {
		maxCode = len(s.dict)
	}
	if maxCode < 0 {
		maxCode = 0
	}
	// teach the nested code storage its maximum before allocating
	s.codes.prepare()
	s.codes.scan(0, colval.NewInt(int64(maxCode)))
	s.codes.init(i)
	s.count = i
}

func (s *StoragePrimDict) build(i uint, value colval.Value) {
	var code uint
	if value.IsNil() {
		code = uint(len(s.dict))
	} else {
		code = s.reverse[s.key(value)]
	}
	s.codes.build(i, colval.NewInt(int64(code)))
}

func (s *StoragePrimDict) finish() {
	s.codes.finish()
	s.reverse = nil
}

func (s *StoragePrimDict) Serialize(f io.Writer) {
	binary.Write(f, binary.LittleEndian, magicPrimDict)
	binary.Write(f, binary.LittleEndian, uint8(s.kind))
	var hasNull uint8
	if s.hasNull {
		hasNull = 1
	}
	binary.Write(f, binary.LittleEndian, hasNull)
	binary.Write(f, binary.LittleEndian, uint64(s.count))
	binary.Write(f, binary.LittleEndian, uint64(len(s.dict)))
	for _, v := range s.dict {
		binary.Write(f, binary.LittleEndian, s.key(v))
	}
	s.codes.Serialize(f)
}

func (s *StoragePrimDict) Deserialize(f io.Reader) uint {
	var kind, hasNull uint8
	binary.Read(f, binary.LittleEndian, &kind)
	s.kind = PrimKind(kind)
	binary.Read(f, binary.LittleEndian, &hasNull)
	s.hasNull = hasNull != 0
	var count, dictlen uint64
	binary.Read(f, binary.LittleEndian, &count)
	binary.Read(f, binary.LittleEndian, &dictlen)
	s.count = uint(count)
	s.dict = make([]colval.Value, dictlen)
	for i := uint64(0); i < dictlen; i++ {
		var key uint64
		binary.Read(f, binary.LittleEndian, &key)
		s.dict[i] = s.valueOf(key)
	}
	s.codes.DeserializeEx(f, true)
	return s.count
}
