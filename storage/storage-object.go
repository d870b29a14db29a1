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
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/bits"
	"reflect"

	"github.com/launix-de/colstore/colval"
)

// main type for storage: can store any value, is inefficient but does type
// analysis how to optimize
type StorageObject struct {
	values []colval.Value
	spec   ColumnSpec

	// analysis
	nullCount  uint
	min, max   int64
	hasMinMax  bool
	intFreq    map[int64]uint  // distinct ints/bools/chars
	fltFreq    map[uint64]uint // distinct floats, keyed by bit pattern
	objFreq    map[any]uint    // distinct objects
	unhashable bool
}

func (s *StorageObject) String() string {
	return "object[" + s.spec.Typ.String() + "]"
}

func (s *StorageObject) ComputeSize() uint {
	var sz uint = 80 + 24
	for _, v := range s.values {
		sz += v.ComputeSize()
	}
	return sz
}

func (s *StorageObject) GetValue(i uint) colval.Value {
	return s.values[i]
}

func (s *StorageObject) prepare() {
	s.nullCount = 0
	s.hasMinMax = false
	s.unhashable = false
	s.intFreq = make(map[int64]uint)
	s.fltFreq = make(map[uint64]uint)
	s.objFreq = make(map[any]uint)
}

// checkKind asserts the freeze precondition: every value in a typed column
// carries the column's kind.
func (s *StorageObject) checkKind(value colval.Value) {
	ok := false
	switch s.spec.Typ {
	case TypeBoolean:
		ok = value.IsBool()
	case TypeByte, TypeShort, TypeInt, TypeLong:
		ok = value.IsInt()
	case TypeFloat, TypeDouble:
		ok = value.IsFloat() || value.IsInt()
	case TypeChar:
		ok = value.IsChar()
	case TypeString:
		ok = value.IsString()
	case TypeBytes:
		ok = value.IsBytes()
	case TypeObject:
		ok = true
	}
	if !ok {
		panic(fmt.Sprintf("column %s: value kind %d does not match declared type %s", s.spec.Name, value.Tag(), s.spec.Typ))
	}
}

func (s *StorageObject) scan(i uint, value colval.Value) {
	if value.IsNil() {
		if !s.spec.Nullable {
			panic("column " + s.spec.Name + ": NULL in non-nullable column")
		}
		s.nullCount++
		return
	}
	s.checkKind(value)
	switch s.spec.Typ {
	case TypeBoolean, TypeByte, TypeShort, TypeInt, TypeLong, TypeChar:
		v := value.Int()
		if !s.hasMinMax || v < s.min {
			s.min = v
		}
		if !s.hasMinMax || v > s.max {
			s.max = v
		}
		s.hasMinMax = true
		s.intFreq[v]++
	case TypeFloat, TypeDouble:
		s.fltFreq[math.Float64bits(value.Float())]++
	case TypeObject:
		raw := value.Any()
		if raw != nil && !reflect.TypeOf(raw).Comparable() {
			s.unhashable = true
			return
		}
		s.objFreq[raw]++
	}
}

// proposeCompression is the representation selector: given the scanned value
// distribution it picks the codec that minimizes the payload, or nil to stay
// a plain object array.
func (s *StorageObject) proposeCompression(n uint) ColumnStorage {
	if n == 0 {
		return nil
	}
	dictWorthy := func(k uint) bool {
		return int(n) >= Settings.AnalyzeMinItems && k > 0 && float64(k) <= Settings.DictMaxFraction*float64(n)
	}
	switch s.spec.Typ {
	case TypeString:
		return new(StorageStringDict)
	case TypeBytes:
		return &StorageBytesDict{blockDict{raw: true}}
	case TypeObject:
		if !s.unhashable && dictWorthy(uint(len(s.objFreq))) {
			return new(StorageObjDict)
		}
		return nil
	case TypeFloat, TypeDouble:
		kind, _ := kindFor(s.spec.Typ)
		if s.nullCount > 0 || dictWorthy(uint(len(s.fltFreq))) {
			// only a dictionary can represent NULL in a float column
			return &StoragePrimDict{kind: kind}
		}
		return &StoragePrimitive{kind: kind}
	}

	// integer-family types
	kind, _ := kindFor(s.spec.Typ)
	if s.nullCount > 0 {
		// packed representations have no NULL slot; reserve a dictionary code
		return &StoragePrimDict{kind: kind}
	}
	if !s.hasMinMax {
		return nil // no values at all
	}
	k := uint(len(s.intFreq))
	bitCount := 64
	if s.min >= 0 {
		// zero-extend decode restricts bit-slicing to non-negative values
		bitCount = bits.Len64(uint64(s.max))
		if bitCount == 0 {
			bitCount = 1
		}
	}
	if s.spec.Typ == TypeBoolean {
		return &StorageBits{kind: BOOLEAN}
	}
	nat := kind.Bits()
	if dictWorthy(k) {
		codeBits := bits.Len64(uint64(k - 1))
		if codeBits == 0 {
			codeBits = 1
		}
		if codeBits < bitCount {
			// dictionary codes are strictly narrower than the values
			return &StoragePrimDict{kind: kind}
		}
		if bitCount < nat {
			// codes would be as wide as the values themselves: plain
			// bit-slicing wins as the simpler codec
			return &StorageBits{kind: kind}
		}
	}
	// dense distribution: store at the natural width
	return &StoragePrimitive{kind: kind}
}

func (s *StorageObject) init(i uint) {
	// allocate
	s.values = make([]colval.Value, i)
}

func (s *StorageObject) build(i uint, value colval.Value) {
	// store
	s.values[i] = value
}

func (s *StorageObject) finish() {
	s.intFreq = nil
	s.fltFreq = nil
	s.objFreq = nil
}

func (s *StorageObject) Serialize(f io.Writer) {
	binary.Write(f, binary.LittleEndian, magicObject)
	writeString(f, s.spec.Name)
	binary.Write(f, binary.LittleEndian, uint8(s.spec.Typ))
	var nullable uint8
	if s.spec.Nullable {
		nullable = 1
	}
	binary.Write(f, binary.LittleEndian, nullable)
	binary.Write(f, binary.LittleEndian, uint64(len(s.values)))
	for _, v := range s.values {
		writeJSONValue(f, v)
	}
}

func (s *StorageObject) Deserialize(f io.Reader) uint {
	s.spec.Name = readString(f)
	var typ, nullable uint8
	binary.Read(f, binary.LittleEndian, &typ)
	binary.Read(f, binary.LittleEndian, &nullable)
	s.spec.Typ = LogicalType(typ)
	s.spec.Nullable = nullable != 0
	var l uint64
	binary.Read(f, binary.LittleEndian, &l)
	s.values = make([]colval.Value, l)
	for i := uint64(0); i < l; i++ {
		s.values[i] = readJSONValue(f)
	}
	return uint(l)
}

// length-prefixed JSON encoding of a single value

func writeJSONValue(f io.Writer, v colval.Value) {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	binary.Write(f, binary.LittleEndian, uint32(len(b)))
	f.Write(b)
}

func readJSONValue(f io.Reader) colval.Value {
	var l uint32
	binary.Read(f, binary.LittleEndian, &l)
	buf := make([]byte, l)
	io.ReadFull(f, buf)
	var v colval.Value
	if err := json.Unmarshal(buf, &v); err != nil {
		panic(err)
	}
	return v
}

func writeString(f io.Writer, s string) {
	binary.Write(f, binary.LittleEndian, uint32(len(s)))
	io.WriteString(f, s)
}

func readString(f io.Reader) string {
	var l uint32
	binary.Read(f, binary.LittleEndian, &l)
	buf := make([]byte, l)
	io.ReadFull(f, buf)
	return string(buf)
}
