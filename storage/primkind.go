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
	"fmt"
	"unsafe"

	"github.com/launix-de/colstore/colval"
)

// PrimKind enumerates the physical primitive kinds a column can be packed
// into. Each kind carries monomorphized pack/read helpers so decode never
// goes through reflection.
type PrimKind uint8

const (
	BOOLEAN PrimKind = iota
	BYTE
	SHORT
	CHARACTER
	INT
	LONG
	FLOAT
	DOUBLE
)

func (k PrimKind) String() string {
	switch k {
	case BOOLEAN:
		return "bool"
	case BYTE:
		return "i8"
	case SHORT:
		return "i16"
	case CHARACTER:
		return "char"
	case INT:
		return "i32"
	case LONG:
		return "i64"
	case FLOAT:
		return "f32"
	case DOUBLE:
		return "f64"
	}
	return fmt.Sprintf("kind%d", uint8(k))
}

// Bits is the natural storage width of the kind.
func (k PrimKind) Bits() int {
	switch k {
	case BOOLEAN:
		return 1
	case BYTE:
		return 8
	case SHORT, CHARACTER:
		return 16
	case INT, FLOAT:
		return 32
	case LONG, DOUBLE:
		return 64
	}
	panic(fmt.Sprintf("unsupported primitive kind %d", uint8(k)))
}

func (k PrimKind) isFloat() bool { return k == FLOAT || k == DOUBLE }

// Alloc returns a tightly packed native array of n elements.
func (k PrimKind) Alloc(n uint) any {
	switch k {
	case BOOLEAN:
		return make([]bool, n)
	case BYTE:
		return make([]int8, n)
	case SHORT:
		return make([]int16, n)
	case CHARACTER:
		return make([]uint16, n)
	case INT:
		return make([]int32, n)
	case LONG:
		return make([]int64, n)
	case FLOAT:
		return make([]float32, n)
	case DOUBLE:
		return make([]float64, n)
	}
	panic(fmt.Sprintf("unsupported primitive kind %d", uint8(k)))
}

// Write packs one logical value into a native array at ordinal i.
func (k PrimKind) Write(arr any, i uint, v colval.Value) {
	switch k {
	case BOOLEAN:
		arr.([]bool)[i] = v.Bool()
	case BYTE:
		arr.([]int8)[i] = int8(v.Int())
	case SHORT:
		arr.([]int16)[i] = int16(v.Int())
	case CHARACTER:
		arr.([]uint16)[i] = v.Char()
	case INT:
		arr.([]int32)[i] = int32(v.Int())
	case LONG:
		arr.([]int64)[i] = v.Int()
	case FLOAT:
		arr.([]float32)[i] = float32(v.Float())
	case DOUBLE:
		arr.([]float64)[i] = v.Float()
	default:
		panic(fmt.Sprintf("unsupported primitive kind %d", uint8(k)))
	}
}

// Read unpacks the native array element at ordinal i into a logical value.
func (k PrimKind) Read(arr any, i uint) colval.Value {
	switch k {
	case BOOLEAN:
		return colval.NewBool(arr.([]bool)[i])
	case BYTE:
		return colval.NewInt(int64(arr.([]int8)[i]))
	case SHORT:
		return colval.NewInt(int64(arr.([]int16)[i]))
	case CHARACTER:
		return colval.NewChar(arr.([]uint16)[i])
	case INT:
		return colval.NewInt(int64(arr.([]int32)[i]))
	case LONG:
		return colval.NewInt(arr.([]int64)[i])
	case FLOAT:
		return colval.NewFloat(float64(arr.([]float32)[i]))
	case DOUBLE:
		return colval.NewFloat(arr.([]float64)[i])
	}
	panic(fmt.Sprintf("unsupported primitive kind %d", uint8(k)))
}

// rawBytes exposes the native array backing memory for serialization.
func (k PrimKind) rawBytes(arr any) []byte {
	switch k {
	case BOOLEAN:
		a := arr.([]bool)
		if len(a) == 0 {
			return nil
		}
		return unsafe.Slice((*byte)(unsafe.Pointer(&a[0])), len(a))
	case BYTE:
		a := arr.([]int8)
		if len(a) == 0 {
			return nil
		}
		return unsafe.Slice((*byte)(unsafe.Pointer(&a[0])), len(a))
	case SHORT:
		a := arr.([]int16)
		if len(a) == 0 {
			return nil
		}
		return unsafe.Slice((*byte)(unsafe.Pointer(&a[0])), 2*len(a))
	case CHARACTER:
		a := arr.([]uint16)
		if len(a) == 0 {
			return nil
		}
		return unsafe.Slice((*byte)(unsafe.Pointer(&a[0])), 2*len(a))
	case INT:
		a := arr.([]int32)
		if len(a) == 0 {
			return nil
		}
		return unsafe.Slice((*byte)(unsafe.Pointer(&a[0])), 4*len(a))
	case LONG:
		a := arr.([]int64)
		if len(a) == 0 {
			return nil
		}
		return unsafe.Slice((*byte)(unsafe.Pointer(&a[0])), 8*len(a))
	case FLOAT:
		a := arr.([]float32)
		if len(a) == 0 {
			return nil
		}
		return unsafe.Slice((*byte)(unsafe.Pointer(&a[0])), 4*len(a))
	case DOUBLE:
		a := arr.([]float64)
		if len(a) == 0 {
			return nil
		}
		return unsafe.Slice((*byte)(unsafe.Pointer(&a[0])), 8*len(a))
	}
	panic(fmt.Sprintf("unsupported primitive kind %d", uint8(k)))
}

// fromRaw reinterprets serialized bytes as a native array of n elements.
func (k PrimKind) fromRaw(raw []byte, n uint) any {
	if n == 0 {
		return k.Alloc(0)
	}
	switch k {
	case BOOLEAN:
		return unsafe.Slice((*bool)(unsafe.Pointer(&raw[0])), n)
	case BYTE:
		return unsafe.Slice((*int8)(unsafe.Pointer(&raw[0])), n)
	case SHORT:
		return unsafe.Slice((*int16)(unsafe.Pointer(&raw[0])), n)
	case CHARACTER:
		return unsafe.Slice((*uint16)(unsafe.Pointer(&raw[0])), n)
	case INT:
		return unsafe.Slice((*int32)(unsafe.Pointer(&raw[0])), n)
	case LONG:
		return unsafe.Slice((*int64)(unsafe.Pointer(&raw[0])), n)
	case FLOAT:
		return unsafe.Slice((*float32)(unsafe.Pointer(&raw[0])), n)
	case DOUBLE:
		return unsafe.Slice((*float64)(unsafe.Pointer(&raw[0])), n)
	}
	panic(fmt.Sprintf("unsupported primitive kind %d", uint8(k)))
}

// byteLen is the serialized size of n elements.
func (k PrimKind) byteLen(n uint) uint {
	switch k {
	case BOOLEAN, BYTE:
		return n
	case SHORT, CHARACTER:
		return 2 * n
	case INT, FLOAT:
		return 4 * n
	case LONG, DOUBLE:
		return 8 * n
	}
	panic(fmt.Sprintf("unsupported primitive kind %d", uint8(k)))
}

// kindFor maps a logical column type to its physical primitive kind.
func kindFor(t LogicalType) (PrimKind, bool) {
	switch t {
	case TypeBoolean:
		return BOOLEAN, true
	case TypeByte:
		return BYTE, true
	case TypeShort:
		return SHORT, true
	case TypeChar:
		return CHARACTER, true
	case TypeInt:
		return INT, true
	case TypeLong:
		return LONG, true
	case TypeFloat:
		return FLOAT, true
	case TypeDouble:
		return DOUBLE, true
	}
	return 0, false
}
