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
	"math/bits"
	"unsafe"

	"github.com/launix-de/colstore/colval"
)

/*
	StorageBits: bit-sliced packing of non-negative sub-word values.

	Layout (bit-exact, part of the serialization contract):
	  chunksPerWord = 64 / bitCount (floor); chunks never straddle words
	  word  = ordinal / chunksPerWord
	  chunk = ordinal mod chunksPerWord, occupying bits [chunk*bitCount, chunk*bitCount+bitCount)
	  decode: (words[word] >> (chunk*bitCount)) & ((1<<bitCount)-1), zero-extended, cast to the kind
	  trailing chunks of the last word are zero
*/
type StorageBits struct {
	kind     PrimKind
	bitCount uint8
	words    []uint64
	count    uint

	max uint64 // scan statistic
}

// GetLong decodes the raw chunk at ordinal from a bit-sliced word array.
func GetLong(bitCount uint8, words []uint64, ordinal uint) uint64 {
	chunksPerWord := uint(64 / bitCount)
	word := ordinal / chunksPerWord
	chunk := ordinal % chunksPerWord
	return (words[word] >> (chunk * uint(bitCount))) & (uint64(1)<<bitCount - 1)
}

// OrLong ors the low bitCount bits of value into the chunk at ordinal. Only
// used during freeze for random-access assembly; payloads are immutable
// afterwards.
func OrLong(bitCount uint8, words []uint64, ordinal uint, value uint64) {
	chunksPerWord := uint(64 / bitCount)
	word := ordinal / chunksPerWord
	chunk := ordinal % chunksPerWord
	words[word] |= (value & (uint64(1)<<bitCount - 1)) << (chunk * uint(bitCount))
}

func (s *StorageBits) String() string {
	return fmt.Sprintf("bits[%d]%s", s.bitCount, s.kind)
}

func (s *StorageBits) ComputeSize() uint {
	return 8*uint(len(s.words)) + 64
}

// BitCount exposes the chosen chunk width.
func (s *StorageBits) BitCount() uint8 { return s.bitCount }

// Words exposes the raw payload for bit-exact verification and serializers.
func (s *StorageBits) Words() []uint64 { return s.words }

// rawChunk converts a value into its unsigned chunk representation.
func (s *StorageBits) rawChunk(value colval.Value) uint64 {
	switch {
	case value.IsBool():
		if value.Bool() {
			return 1
		}
		return 0
	case value.IsChar():
		return uint64(value.Char())
	case value.IsInt():
		v := value.Int()
		if v < 0 {
			panic("negative value in bit-sliced storage")
		}
		return uint64(v)
	case value.IsNil():
		panic("NULL in bit-sliced storage")
	}
	panic(fmt.Sprintf("unsupported value kind %d in bit-sliced storage", value.Tag()))
}

func (s *StorageBits) GetValue(i uint) colval.Value {
	if i >= s.count {
		panic(fmt.Sprintf("ordinal %d out of range [0,%d)", i, s.count))
	}
	raw := GetLong(s.bitCount, s.words, i)
	switch s.kind {
	case BOOLEAN:
		return colval.NewBool(raw != 0)
	case CHARACTER:
		return colval.NewChar(uint16(raw))
	case BYTE, SHORT, INT, LONG:
		return colval.NewInt(int64(raw))
	}
	panic(fmt.Sprintf("unsupported primitive kind %s in bit-sliced storage", s.kind))
}

// GetValueUInt reads the raw chunk without boxing; used by the dictionary
// codecs that nest their codes in a StorageBits.
func (s *StorageBits) GetValueUInt(i uint) uint64 {
	if i >= s.count {
		panic(fmt.Sprintf("ordinal %d out of range [0,%d)", i, s.count))
	}
	return GetLong(s.bitCount, s.words, i)
}

func (s *StorageBits) prepare() {
	s.max = 0
}

func (s *StorageBits) scan(i uint, value colval.Value) {
	v := s.rawChunk(value)
	if v > s.max {
		s.max = v
	}
}

func (s *StorageBits) proposeCompression(i uint) ColumnStorage {
	// dont't propose another pass
	return nil
}

func (s *StorageBits) init(i uint) {
	s.bitCount = uint8(bits.Len64(s.max))
	if s.bitCount == 0 {
		s.bitCount = 1
	}
	chunksPerWord := uint(64 / s.bitCount)
	s.words = make([]uint64, (i+chunksPerWord-1)/chunksPerWord)
	s.count = i
}

func (s *StorageBits) build(i uint, value colval.Value) {
	if i >= s.count {
		panic("tried to build StorageBits outside of range")
	}
	OrLong(s.bitCount, s.words, i, s.rawChunk(value))
}

func (s *StorageBits) finish() {
}

func (s *StorageBits) Serialize(f io.Writer) {
	binary.Write(f, binary.LittleEndian, magicBits)
	binary.Write(f, binary.LittleEndian, uint8(s.kind))
	binary.Write(f, binary.LittleEndian, s.bitCount)
	binary.Write(f, binary.LittleEndian, uint8(0)) // padding
	binary.Write(f, binary.LittleEndian, uint64(s.count))
	binary.Write(f, binary.LittleEndian, uint64(len(s.words)))
	if len(s.words) > 0 {
		f.Write(unsafe.Slice((*byte)(unsafe.Pointer(&s.words[0])), 8*len(s.words)))
	}
}

func (s *StorageBits) Deserialize(f io.Reader) uint {
	return s.DeserializeEx(f, false)
}

func (s *StorageBits) DeserializeEx(f io.Reader, readMagicbyte bool) uint {
	var dummy8 uint8
	if readMagicbyte {
		binary.Read(f, binary.LittleEndian, &dummy8)
		if dummy8 != magicBits {
			panic(fmt.Sprintf("tried to deserialize StorageBits(%d) but found %d", magicBits, dummy8))
		}
	}
	var kind uint8
	binary.Read(f, binary.LittleEndian, &kind)
	s.kind = PrimKind(kind)
	binary.Read(f, binary.LittleEndian, &s.bitCount)
	binary.Read(f, binary.LittleEndian, &dummy8)
	var count, wordcount uint64
	binary.Read(f, binary.LittleEndian, &count)
	binary.Read(f, binary.LittleEndian, &wordcount)
	s.count = uint(count)
	if wordcount > 0 {
		rawdata := make([]byte, wordcount*8)
		io.ReadFull(f, rawdata)
		s.words = unsafe.Slice((*uint64)(unsafe.Pointer(&rawdata[0])), wordcount)
	} else {
		s.words = nil
	}
	return s.count
}
