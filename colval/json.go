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
	"encoding/base64"
	"encoding/json"
	"math"
)

// JSON round-trip for values. Plain JSON cannot distinguish int from float
// from char, and has no bytes type, so those tags serialize as one-key
// wrapper objects.

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.tag {
	case TagNil:
		return []byte("null"), nil
	case TagBool:
		return json.Marshal(v.num != 0)
	case TagInt:
		return json.Marshal(int64(v.num))
	case TagFloat:
		return json.Marshal(map[string]float64{"$f": math.Float64frombits(v.num)})
	case TagChar:
		return json.Marshal(map[string]uint16{"$c": uint16(v.num)})
	case TagString:
		return json.Marshal(v.str)
	case TagBytes:
		return json.Marshal(map[string]string{"$b": base64.StdEncoding.EncodeToString([]byte(v.str))})
	default:
		return json.Marshal(map[string]any{"$o": v.obj})
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromJSON(raw)
	return nil
}

// FromJSON rebuilds a Value from decoded generic JSON.
func FromJSON(raw any) Value {
	switch x := raw.(type) {
	case nil:
		return NewNil()
	case bool:
		return NewBool(x)
	case float64:
		return NewInt(int64(x)) // plain JSON numbers are ints; floats use the $f wrapper
	case string:
		return NewString(x)
	case map[string]any:
		if f, ok := x["$f"]; ok {
			return NewFloat(f.(float64))
		}
		if c, ok := x["$c"]; ok {
			return NewChar(uint16(c.(float64)))
		}
		if b, ok := x["$b"]; ok {
			raw, err := base64.StdEncoding.DecodeString(b.(string))
			if err != nil {
				panic("colval: invalid bytes payload: " + err.Error())
			}
			return NewBytes(raw)
		}
		if o, ok := x["$o"]; ok {
			return NewObject(o)
		}
	}
	return NewObject(raw)
}
