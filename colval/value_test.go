package colval

import (
	"encoding/json"
	"testing"
)

// TestEqual covers tag-strict and numeric cross-tag equality.
func TestEqual(t *testing.T) {
	if !Equal(NewInt(5), NewInt(5)) {
		t.Error("5 != 5")
	}
	if !Equal(NewInt(5), NewFloat(5)) {
		t.Error("int 5 != float 5")
	}
	if Equal(NewInt(5), NewString("5")) {
		t.Error("int 5 == string 5")
	}
	if !Equal(NewNil(), NewNil()) {
		t.Error("nil != nil")
	}
	if Equal(NewNil(), NewInt(0)) {
		t.Error("nil == 0")
	}
	if !Equal(NewBytes([]byte{1, 2}), NewBytes([]byte{1, 2})) {
		t.Error("bytes mismatch")
	}
}

// TestLess covers the natural orders used by the sorted dictionary.
func TestLess(t *testing.T) {
	if !Less(NewInt(-5), NewInt(3)) {
		t.Error("-5 not < 3")
	}
	if Less(NewInt(3), NewInt(3)) {
		t.Error("3 < 3")
	}
	if !Less(NewString("a"), NewString("b")) {
		t.Error("a not < b")
	}
	if !Less(NewNil(), NewInt(-100)) {
		t.Error("nil must sort first")
	}
	if !Less(NewFloat(0.5), NewFloat(0.75)) {
		t.Error("0.5 not < 0.75")
	}
	if !Less(NewChar('a'), NewChar('b')) {
		t.Error("char a not < b")
	}
}

// TestJSONRoundTrip: every tag survives the wrapper encoding.
func TestJSONRoundTrip(t *testing.T) {
	values := []Value{
		NewNil(), NewBool(true), NewInt(-42), NewFloat(2.5), NewFloat(3), // integral float needs the wrapper
		NewChar('Ω'), NewString("héllo"), NewBytes([]byte{0, 255, 7}), NewObject("obj"),
	}
	for _, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("%v: %v", v, err)
		}
		var got Value
		if err := json.Unmarshal(b, &got); err != nil {
			t.Fatalf("%v: %v", v, err)
		}
		if got.Tag() != v.Tag() || !Equal(got, v) {
			t.Errorf("round trip %v -> %s -> %v", v, b, got)
		}
	}
}

// TestAccessors sanity-checks the typed accessors.
func TestAccessors(t *testing.T) {
	if NewInt(-9).Int() != -9 {
		t.Error("Int")
	}
	if NewFloat(1.5).Float() != 1.5 {
		t.Error("Float")
	}
	if NewChar('x').Char() != 'x' {
		t.Error("Char")
	}
	if NewString("s").String() != "s" {
		t.Error("String")
	}
	if !NewNil().IsNil() {
		t.Error("IsNil")
	}
	if NewBool(true).Any() != true {
		t.Error("Any")
	}
}
