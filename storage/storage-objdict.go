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

// StorageObjDict stores a low-cardinality object column as a dictionary of
// distinct values plus per-row codes. The dictionary is canonicalized in
// first-seen order, not sorted. NULL, when present, is the code one past the
// dictionary.
type StorageObjDict struct {
	dict    []colval.Value // first-seen order
	hasNull bool
	codes   StorageBits
	count   uint

	reverse map[any]uint
}

func (s *StorageObjDict) String() string {
	if s.hasNull {
		return fmt.Sprintf("objdict[%d]NULL", len(s.dict))
	}
	return fmt.Sprintf("objdict[%d]", len(s.dict))
}

func (s *StorageObjDict) ComputeSize() uint {
	var sz uint = 64 + s.codes.ComputeSize()
	for _, v := range s.dict {
		sz += v.ComputeSize()
	}
	return sz
}

func (s *StorageObjDict) Dict() []colval.Value { return s.dict }

func (s *StorageObjDict) GetValue(i uint) colval.Value {
	c := s.codes.GetValueUInt(i)
	if s.hasNull && c == uint64(len(s.dict)) {
		return colval.NewNil()
	}
	return s.dict[c]
}

func (s *StorageObjDict) prepare() {
	s.dict = nil
	s.reverse = make(map[any]uint)
	s.hasNull = false
}

func (s *StorageObjDict) scan(i uint, value colval.Value) {
	if value.IsNil() {
		s.hasNull = true
		return
	}
	key := value.Any()
	if _, ok := s.reverse[key]; !ok {
		s.reverse[key] = uint(len(s.dict))
		s.dict = append(s.dict, value)
	}
}

func (s *StorageObjDict) proposeCompression(i uint) ColumnStorage {
	// dont't propose another pass
	return nil
}

func (s *StorageObjDict) init(i uint) {
	maxCode := len(s.dict) - 1
	if s.hasNull {
		maxCode = len(s.dict)
	}
	if maxCode < 0 {
		maxCode = 0
	}
	s.codes.prepare()
	s.codes.scan(0, colval.NewInt(int64(maxCode)))
	s.codes.init(i)
	s.count = i
}

func (s *StorageObjDict) build(i uint, value colval.Value) {
	var code uint
	if value.IsNil() {
		code = uint(len(s.dict))
	} else {
		code = s.reverse[value.Any()]
	}
	s.codes.build(i, colval.NewInt(int64(code)))
}

func (s *StorageObjDict) finish() {
	s.codes.finish()
	s.reverse = nil
}

func (s *StorageObjDict) Serialize(f io.Writer) {
	binary.Write(f, binary.LittleEndian, magicObjDict)
	var hasNull uint8
	if s.hasNull {
		hasNull = 1
	}
	binary.Write(f, binary.LittleEndian, hasNull)
	binary.Write(f, binary.LittleEndian, uint64(s.count))
	binary.Write(f, binary.LittleEndian, uint64(len(s.dict)))
	for _, v := range s.dict {
		writeJSONValue(f, v)
	}
	s.codes.Serialize(f)
}

func (s *StorageObjDict) Deserialize(f io.Reader) uint {
	var hasNull uint8
	binary.Read(f, binary.LittleEndian, &hasNull)
	s.hasNull = hasNull != 0
	var count, dictlen uint64
	binary.Read(f, binary.LittleEndian, &count)
	binary.Read(f, binary.LittleEndian, &dictlen)
	s.count = uint(count)
	s.dict = make([]colval.Value, dictlen)
	for i := uint64(0); i < dictlen; i++ {
		s.dict[i] = readJSONValue(f)
	}
	s.codes.DeserializeEx(f, true)
	return s.count
}
