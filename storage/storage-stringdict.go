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
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unsafe"

	"github.com/launix-de/colstore/colval"
)

/*
	blockDict: shared core of the string and bytestring dictionaries.

	Layout:
	  block      — contiguous bytes, one [u16 big-endian length][data] entry
	               per in-block dictionary value (length < 2^16)
	  offsets    — byte offset of each in-block entry; code c < exceptionBase
	               reads block[offsets[c]..]
	  exceptions — eagerly materialized values addressed by the high end of
	               the code space: NULL (if present, always the last entry),
	               overlong entries, and entries pinned or frequent enough to
	               skip on-demand materialization
	  codes      — per-row codes in a nested StorageBits at the smallest
	               width covering len(offsets)+len(exceptions)

	In-block values materialize on demand, which keeps the live object count
	low after a snapshot load: the block is one allocation shared by all
	entries.
*/
type blockDict struct {
	raw        bool // bytestring flavour
	block      []byte
	offsets    []uint32
	exceptions []colval.Value
	hasNull    bool
	codes      StorageBits
	count      uint

	// Eager pins specific values into the exceptions table regardless of
	// frequency; the selector configuration supplies the global thresholds.
	Eager []string

	// scan/build temporaries
	freq    map[string]uint
	order   []string
	reverse map[string]uint
}

func (d *blockDict) materialize(entry string) colval.Value {
	if d.raw {
		return colval.NewBytes([]byte(entry))
	}
	return colval.NewString(entry)
}

func (d *blockDict) ComputeSize() uint {
	var sz uint = 64 + uint(len(d.block)) + 4*uint(len(d.offsets)) + d.codes.ComputeSize()
	for _, v := range d.exceptions {
		sz += v.ComputeSize()
	}
	return sz
}

// ExceptionBase is the first code that addresses the exceptions table.
func (d *blockDict) ExceptionBase() uint { return uint(len(d.offsets)) }

func (d *blockDict) Exceptions() []colval.Value { return d.exceptions }

func (d *blockDict) GetValue(i uint) colval.Value {
	c := d.codes.GetValueUInt(i)
	base := uint64(len(d.offsets))
	if c >= base {
		return d.exceptions[c-base]
	}
	off := d.offsets[c]
	l := binary.BigEndian.Uint16(d.block[off : off+2])
	return d.materialize(string(d.block[off+2 : off+2+uint32(l)]))
}

func (d *blockDict) prepare() {
	d.freq = make(map[string]uint)
	d.order = nil
	d.hasNull = false
}

func (d *blockDict) scan(i uint, value colval.Value) {
	if value.IsNil() {
		d.hasNull = true
		return
	}
	v := value.String()
	if d.freq[v] == 0 {
		d.order = append(d.order, v)
	}
	d.freq[v]++
}

func (d *blockDict) proposeCompression(i uint) ColumnStorage {
	// dont't propose another pass
	return nil
}

func (d *blockDict) init(n uint) {
	pinned := make(map[string]bool, len(d.Eager))
	for _, s := range d.Eager {
		pinned[s] = true
	}
	isException := func(s string) bool {
		if len(s) >= 1<<16 || len(s) > Settings.MaxInlineLength {
			return true
		}
		if pinned[s] {
			return true
		}
		return Settings.EagerExceptionFrequency > 0 &&
			float64(d.freq[s]) >= Settings.EagerExceptionFrequency*float64(n)
	}

	// in-block entries first, codes in first-seen order
	var b bytes.Buffer
	d.reverse = make(map[string]uint, len(d.order))
	d.offsets = d.offsets[:0]
	for _, s := range d.order {
		if isException(s) {
			continue
		}
		d.reverse[s] = uint(len(d.offsets))
		d.offsets = append(d.offsets, uint32(b.Len()))
		var lenb [2]byte
		binary.BigEndian.PutUint16(lenb[:], uint16(len(s)))
		b.Write(lenb[:])
		b.WriteString(s)
	}
	d.block = b.Bytes()

	// exception codes occupy the high end of the code space; NULL is last
	base := uint(len(d.offsets))
	d.exceptions = d.exceptions[:0]
	for _, s := range d.order {
		if !isException(s) {
			continue
		}
		d.reverse[s] = base + uint(len(d.exceptions))
		d.exceptions = append(d.exceptions, d.materialize(s))
	}
	if d.hasNull {
		d.exceptions = append(d.exceptions, colval.NewNil())
	}

	maxCode := int(base) + len(d.exceptions) - 1
	if maxCode < 0 {
		maxCode = 0
	}
	d.codes.prepare()
	d.codes.scan(0, colval.NewInt(int64(maxCode)))
	d.codes.init(n)
	d.count = n
	d.freq = nil
	d.order = nil
}

func (d *blockDict) build(i uint, value colval.Value) {
	var code uint
	if value.IsNil() {
		code = uint(len(d.offsets)) + uint(len(d.exceptions)) - 1
	} else {
		code = d.reverse[value.String()]
	}
	d.codes.build(i, colval.NewInt(int64(code)))
}

func (d *blockDict) finish() {
	d.codes.finish()
	d.reverse = nil
}

func (d *blockDict) describe(name string) string {
	if d.hasNull {
		return fmt.Sprintf("%s[%d+%d]NULL", name, len(d.offsets), len(d.exceptions)-1)
	}
	return fmt.Sprintf("%s[%d+%d]", name, len(d.offsets), len(d.exceptions))
}

func (d *blockDict) serialize(f io.Writer, magic uint8) {
	binary.Write(f, binary.LittleEndian, magic)
	var hasNull uint8
	if d.hasNull {
		hasNull = 1
	}
	binary.Write(f, binary.LittleEndian, hasNull)
	binary.Write(f, binary.LittleEndian, uint64(d.count))
	binary.Write(f, binary.LittleEndian, uint64(len(d.block)))
	f.Write(d.block)
	binary.Write(f, binary.LittleEndian, uint64(len(d.offsets)))
	if len(d.offsets) > 0 {
		f.Write(unsafe.Slice((*byte)(unsafe.Pointer(&d.offsets[0])), 4*len(d.offsets)))
	}
	binary.Write(f, binary.LittleEndian, uint64(len(d.exceptions)))
	for _, v := range d.exceptions {
		writeJSONValue(f, v)
	}
	d.codes.Serialize(f)
}

func (d *blockDict) deserialize(f io.Reader) uint {
	var hasNull uint8
	binary.Read(f, binary.LittleEndian, &hasNull)
	d.hasNull = hasNull != 0
	var count, blocklen, offsetslen, exlen uint64
	binary.Read(f, binary.LittleEndian, &count)
	d.count = uint(count)
	binary.Read(f, binary.LittleEndian, &blocklen)
	d.block = make([]byte, blocklen)
	io.ReadFull(f, d.block)
	binary.Read(f, binary.LittleEndian, &offsetslen)
	if offsetslen > 0 {
		rawdata := make([]byte, offsetslen*4)
		io.ReadFull(f, rawdata)
		d.offsets = unsafe.Slice((*uint32)(unsafe.Pointer(&rawdata[0])), offsetslen)
	} else {
		d.offsets = nil
	}
	binary.Read(f, binary.LittleEndian, &exlen)
	d.exceptions = make([]colval.Value, exlen)
	for i := uint64(0); i < exlen; i++ {
		d.exceptions[i] = readJSONValue(f)
	}
	d.codes.DeserializeEx(f, true)
	return d.count
}

// StorageStringDict is the dictionary representation for string columns.
type StorageStringDict struct {
	blockDict
}

func (s *StorageStringDict) String() string {
	return s.describe("strdict")
}

func (s *StorageStringDict) Serialize(f io.Writer) {
	s.serialize(f, magicStringDict)
}

func (s *StorageStringDict) Deserialize(f io.Reader) uint {
	return s.deserialize(f)
}
