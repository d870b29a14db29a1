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
package colval

import (
	"fmt"
	"math"
)

// Value is a compact tagged value container for one table cell.
// Data will ALWAYS be stored with the correct tag, so an int is never packed
// into obj and a string never into num.
type Value struct {
	tag uint16
	num uint64 // int64 / bool / char / float64 bits
	str string // string or bytestring payload
	obj any    // opaque object payload
}

// Type tags
const (
	TagNil = iota
	TagBool
	TagInt
	TagFloat
	TagChar
	TagString
	TagBytes
	TagObject
)

func NewNil() Value { return Value{tag: TagNil} }

func NewBool(b bool) Value {
	var n uint64
	if b {
		n = 1
	}
	return Value{tag: TagBool, num: n}
}

func NewInt(i int64) Value { return Value{tag: TagInt, num: uint64(i)} }

func NewFloat(f float64) Value { return Value{tag: TagFloat, num: math.Float64bits(f)} }

func NewChar(c uint16) Value { return Value{tag: TagChar, num: uint64(c)} }

func NewString(s string) Value { return Value{tag: TagString, str: s} }

// NewBytes copies b into an immutable payload.
func NewBytes(b []byte) Value { return Value{tag: TagBytes, str: string(b)} }

func NewObject(o any) Value {
	if o == nil {
		return NewNil()
	}
	return Value{tag: TagObject, obj: o}
}

func (v Value) Tag() uint16 { return v.tag }

func (v Value) IsNil() bool    { return v.tag == TagNil }
func (v Value) IsBool() bool   { return v.tag == TagBool }
func (v Value) IsInt() bool    { return v.tag == TagInt }
func (v Value) IsFloat() bool  { return v.tag == TagFloat }
func (v Value) IsChar() bool   { return v.tag == TagChar }
func (v Value) IsString() bool { return v.tag == TagString }
func (v Value) IsBytes() bool  { return v.tag == TagBytes }
func (v Value) IsObject() bool { return v.tag == TagObject }

func (v Value) Bool() bool {
	if v.tag != TagBool {
		panic(fmt.Sprintf("colval: Bool() on tag %d", v.tag))
	}
	return v.num != 0
}

// Int returns the numeric content as int64 (bool, int and char coerce).
func (v Value) Int() int64 {
	switch v.tag {
	case TagBool, TagChar:
		return int64(v.num)
	case TagInt:
		return int64(v.num)
	case TagFloat:
		return int64(math.Float64frombits(v.num))
	}
	panic(fmt.Sprintf("colval: Int() on tag %d", v.tag))
}

func (v Value) Float() float64 {
	switch v.tag {
	case TagInt:
		return float64(int64(v.num))
	case TagFloat:
		return math.Float64frombits(v.num)
	}
	panic(fmt.Sprintf("colval: Float() on tag %d", v.tag))
}

func (v Value) Char() uint16 {
	if v.tag != TagChar {
		panic(fmt.Sprintf("colval: Char() on tag %d", v.tag))
	}
	return uint16(v.num)
}

// String returns the string payload for string values and a formatted
// representation for everything else.
func (v Value) String() string {
	switch v.tag {
	case TagNil:
		return "NULL"
	case TagBool:
		if v.num != 0 {
			return "true"
		}
		return "false"
	case TagInt:
		return fmt.Sprint(int64(v.num))
	case TagFloat:
		return fmt.Sprint(math.Float64frombits(v.num))
	case TagChar:
		return string(rune(v.num))
	case TagString, TagBytes:
		return v.str
	default:
		return fmt.Sprint(v.obj)
	}
}

func (v Value) Bytes() []byte {
	if v.tag != TagBytes && v.tag != TagString {
		panic(fmt.Sprintf("colval: Bytes() on tag %d", v.tag))
	}
	return []byte(v.str)
}

// Any unpacks the value into a plain Go value.
func (v Value) Any() any {
	switch v.tag {
	case TagNil:
		return nil
	case TagBool:
		return v.num != 0
	case TagInt:
		return int64(v.num)
	case TagFloat:
		return math.Float64frombits(v.num)
	case TagChar:
		return uint16(v.num)
	case TagString:
		return v.str
	case TagBytes:
		return []byte(v.str)
	default:
		return v.obj
	}
}

// Equal compares two values. Int and float compare numerically against each
// other, everything else requires matching tags.
func Equal(a, b Value) bool {
	if a.tag != b.tag {
		if (a.tag == TagInt || a.tag == TagFloat) && (b.tag == TagInt || b.tag == TagFloat) {
			return a.Float() == b.Float()
		}
		return false
	}
	switch a.tag {
	case TagNil:
		return true
	case TagBool, TagInt, TagChar:
		return a.num == b.num
	case TagFloat:
		return math.Float64frombits(a.num) == math.Float64frombits(b.num)
	case TagString, TagBytes:
		return a.str == b.str
	default:
		return a.obj == b.obj
	}
}

// Less orders two values of the same kind under their natural order.
// NULL sorts before everything.
func Less(a, b Value) bool {
	if a.tag == TagNil {
		return b.tag != TagNil
	}
	if b.tag == TagNil {
		return false
	}
	switch a.tag {
	case TagBool:
		return a.num < b.num
	case TagInt:
		if b.tag == TagFloat {
			return a.Float() < b.Float()
		}
		return int64(a.num) < int64(b.num)
	case TagFloat:
		return a.Float() < b.Float()
	case TagChar:
		return a.num < b.num
	case TagString, TagBytes:
		return a.str < b.str
	}
	panic(fmt.Sprintf("colval: Less() on tag %d", a.tag))
}

// ComputeSize approximates the memory consumption of the value including
// heap allocations it references.
func (v Value) ComputeSize() uint {
	sz := uint(40) // inline struct
	switch v.tag {
	case TagString, TagBytes:
		sz += uint(len(v.str))
	case TagObject:
		sz += 16 // interface header; payload size is opaque
	}
	return sz
}
