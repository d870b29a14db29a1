package storage

import (
	"sync"
	"testing"

	"github.com/launix-de/colstore/colval"
)

// TestSelectorDenseNativeWidth: dense all-distinct ints stay at their
// natural width.
func TestSelectorDenseNativeWidth(t *testing.T) {
	values := make([]colval.Value, 1000)
	for i := range values {
		values[i] = colval.NewInt(int64(i) + 1)
	}
	s := FreezeColumn(ColumnSpec{"v", TypeInt, false}, values)
	prim, ok := s.(*StoragePrimitive)
	if !ok {
		t.Fatalf("expected StoragePrimitive, got %T (%s)", s, s.String())
	}
	if prim.Kind() != INT {
		t.Fatalf("expected kind i32, got %s", prim.Kind())
	}
	assertValue(t, s, 499, colval.NewInt(500), "dense")
	if sz := prim.ComputeSize(); sz < 4000 || sz > 4200 {
		t.Errorf("payload size %d, expected about 4000 bytes", sz)
	}
}

// TestSelectorSmallRangeBits: low-cardinality small-range ints bit-slice.
func TestSelectorSmallRangeBits(t *testing.T) {
	values := intValues(0, 3, 1, 2, 2, 0, 3, 1)
	s := FreezeColumn(ColumnSpec{"v", TypeInt, false}, values)
	bits, ok := s.(*StorageBits)
	if !ok {
		t.Fatalf("expected StorageBits, got %T (%s)", s, s.String())
	}
	if bits.BitCount() != 2 {
		t.Fatalf("expected bitCount=2, got %d", bits.BitCount())
	}
	assertValue(t, s, 3, colval.NewInt(2), "small-range")
}

// TestSelectorBoolean: booleans without NULLs always bit-slice at width 1.
func TestSelectorBoolean(t *testing.T) {
	values := []colval.Value{
		colval.NewBool(true), colval.NewBool(false), colval.NewBool(true), colval.NewBool(true),
	}
	s := FreezeColumn(ColumnSpec{"v", TypeBoolean, false}, values)
	bits, ok := s.(*StorageBits)
	if !ok {
		t.Fatalf("expected StorageBits, got %T (%s)", s, s.String())
	}
	if bits.BitCount() != 1 {
		t.Fatalf("expected bitCount=1, got %d", bits.BitCount())
	}
	assertValue(t, s, 2, colval.NewBool(true), "boolean")
}

// TestSelectorDictionary: few distinct wide values prefer the dictionary.
func TestSelectorDictionary(t *testing.T) {
	values := make([]colval.Value, 100)
	for i := range values {
		values[i] = colval.NewInt([]int64{1000000, 2000000, 3000000}[i%3])
	}
	s := FreezeColumn(ColumnSpec{"v", TypeInt, false}, values)
	if _, ok := s.(*StoragePrimDict); !ok {
		t.Fatalf("expected StoragePrimDict, got %T (%s)", s, s.String())
	}
	for i, v := range values {
		assertValue(t, s, uint(i), v, "dict")
	}
}

// TestSelectorNullableNumeric: packed representations have no NULL slot, so
// a nullable int column lands in the dictionary.
func TestSelectorNullableNumeric(t *testing.T) {
	values := make([]colval.Value, 50)
	for i := range values {
		if i%7 == 0 {
			values[i] = colval.NewNil()
		} else {
			values[i] = colval.NewInt(int64(i % 4))
		}
	}
	s := FreezeColumn(ColumnSpec{"v", TypeInt, true}, values)
	if _, ok := s.(*StoragePrimDict); !ok {
		t.Fatalf("expected StoragePrimDict, got %T (%s)", s, s.String())
	}
	for i, v := range values {
		assertValue(t, s, uint(i), v, "nullable")
	}
}

// TestSelectorNegativeValues: zero-extend decode cannot represent negative
// chunks, so dense negative ints stay at native width.
func TestSelectorNegativeValues(t *testing.T) {
	values := make([]colval.Value, 100)
	for i := range values {
		values[i] = colval.NewInt(int64(i) - 50)
	}
	s := FreezeColumn(ColumnSpec{"v", TypeByte, false}, values)
	prim, ok := s.(*StoragePrimitive)
	if !ok {
		t.Fatalf("expected StoragePrimitive, got %T (%s)", s, s.String())
	}
	if prim.Kind() != BYTE {
		t.Fatalf("expected kind i8, got %s", prim.Kind())
	}
	for i, v := range values {
		assertValue(t, s, uint(i), v, "negative")
	}
}

// TestSelectorObjectDictionary: low-cardinality hashable objects dictionary-encode.
func TestSelectorObjectDictionary(t *testing.T) {
	values := make([]colval.Value, 60)
	for i := range values {
		values[i] = colval.NewObject([]string{"x", "y"}[i%2])
	}
	s := FreezeColumn(ColumnSpec{"v", TypeObject, false}, values)
	if _, ok := s.(*StorageObjDict); !ok {
		t.Fatalf("expected StorageObjDict, got %T (%s)", s, s.String())
	}
}

// TestSelectorObjectArray: distinct objects stay a plain object array, nulls
// round-trip through the sentinel.
func TestSelectorObjectArray(t *testing.T) {
	values := make([]colval.Value, 20)
	for i := range values {
		if i == 10 {
			values[i] = colval.NewNil()
		} else {
			values[i] = colval.NewObject(i)
		}
	}
	s := FreezeColumn(ColumnSpec{"v", TypeObject, true}, values)
	if _, ok := s.(*StorageObject); !ok {
		t.Fatalf("expected StorageObject, got %T (%s)", s, s.String())
	}
	for i, v := range values {
		assertValue(t, s, uint(i), v, "objarray")
	}
}

func buildTestTable(t *testing.T) *Table {
	t.Helper()
	schema := []ColumnSpec{
		{"id", TypeInt, false},
		{"name", TypeString, false},
	}
	b := NewRowBuffer(schema)
	rows := [][]colval.Value{
		{colval.NewInt(10), colval.NewString("α")},
		{colval.NewInt(20), colval.NewString("β")},
		{colval.NewInt(30), colval.NewString("α")},
	}
	for _, r := range rows {
		if err := b.Append(r); err != nil {
			t.Fatal(err)
		}
	}
	tbl, err := b.Freeze("test-context", nil)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

// TestTableScan: multi-column scan materializes tuples in ordinal order and
// reset returns before the first row.
func TestTableScan(t *testing.T) {
	tbl := buildTestTable(t)
	if tbl.RowCount() != 3 {
		t.Fatalf("row count = %d, expected 3", tbl.RowCount())
	}
	if _, ok := tbl.Column(0).(*StoragePrimitive); !ok {
		t.Errorf("id column: expected StoragePrimitive, got %s", tbl.Column(0).String())
	}
	if _, ok := tbl.Column(1).(*StorageStringDict); !ok {
		t.Errorf("name column: expected StorageStringDict, got %s", tbl.Column(1).String())
	}

	expect := [][2]string{{"10", "α"}, {"20", "β"}, {"30", "α"}}
	c := tbl.Scan()
	for round := 0; round < 2; round++ {
		i := 0
		for c.Advance() {
			row := c.Current()
			if len(row) != 2 {
				t.Fatalf("tuple has %d cells", len(row))
			}
			if row[0].String() != expect[i][0] || row[1].String() != expect[i][1] {
				t.Errorf("round %d row %d = (%v, %v), expected %v", round, i, row[0], row[1], expect[i])
			}
			i++
		}
		if i != 3 {
			t.Fatalf("round %d scanned %d rows", round, i)
		}
		if c.Advance() {
			t.Error("Advance past end must keep returning false")
		}
		c.Reset()
	}
}

// TestTableCursorsIndependent: two cursors observe identical values at
// matching ordinals and do not disturb each other.
func TestTableCursorsIndependent(t *testing.T) {
	tbl := buildTestTable(t)
	c1, c2 := tbl.Scan(), tbl.Scan()
	c1.Advance()
	c1.Advance() // c1 at row 1
	c2.Advance() // c2 at row 0
	if c1.Current()[0].Int() != 20 || c2.Current()[0].Int() != 10 {
		t.Error("cursors are not independent")
	}
	c2.Advance()
	if !colval.Equal(c1.Current()[1], c2.Current()[1]) {
		t.Error("cursors disagree at the same ordinal")
	}
}

// TestTableConcurrentScan: frozen payloads are read-only, so many cursors
// may decode concurrently.
func TestTableConcurrentScan(t *testing.T) {
	tbl := buildTestTable(t)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := tbl.Scan()
			for round := 0; round < 100; round++ {
				sum := int64(0)
				for c.Advance() {
					sum += c.Current()[0].Int()
				}
				if sum != 60 {
					t.Errorf("scan sum = %d, expected 60", sum)
					return
				}
				c.Reset()
			}
		}()
	}
	wg.Wait()
}

// TestTableArityMismatch: schema and columns must have the same length.
func TestTableArityMismatch(t *testing.T) {
	col := FreezeColumn(ColumnSpec{"a", TypeInt, false}, intValues(1, 2))
	_, err := NewTable([]ColumnSpec{{"a", TypeInt, false}, {"b", TypeInt, false}}, []ColumnStorage{col}, 2, nil, nil)
	if err == nil {
		t.Error("expected arity mismatch error")
	}
}

// TestTableTypeMismatch: a storage that decodes the wrong kind is rejected.
func TestTableTypeMismatch(t *testing.T) {
	col := FreezeColumn(ColumnSpec{"a", TypeInt, false}, intValues(1, 2))
	_, err := NewTable([]ColumnSpec{{"a", TypeString, false}}, []ColumnStorage{col}, 2, nil, nil)
	if err == nil {
		t.Error("expected type mismatch error")
	}
}

type testRowType struct{ fields int }

func (r testRowType) FieldCount() int { return r.fields }

// TestTableEchoes: context and row type descriptor are echoed opaquely.
func TestTableEchoes(t *testing.T) {
	col := FreezeColumn(ColumnSpec{"a", TypeInt, false}, intValues(1, 2))
	tbl, err := NewTable([]ColumnSpec{{"a", TypeInt, false}}, []ColumnStorage{col}, 2, "ctx", testRowType{1})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Context() != "ctx" {
		t.Errorf("context = %v", tbl.Context())
	}
	if tbl.ElementType().FieldCount() != 1 {
		t.Errorf("field count = %d", tbl.ElementType().FieldCount())
	}
	// field count must match the schema
	if _, err := NewTable([]ColumnSpec{{"a", TypeInt, false}}, []ColumnStorage{col}, 2, nil, testRowType{3}); err == nil {
		t.Error("expected field count mismatch error")
	}
}

// TestFreezeHeterogeneousColumn: mixed value kinds in a typed column violate
// the freeze precondition.
func TestFreezeHeterogeneousColumn(t *testing.T) {
	b := NewRowBuffer([]ColumnSpec{{"a", TypeInt, false}})
	b.Append([]colval.Value{colval.NewInt(1)})
	b.Append([]colval.Value{colval.NewString("oops")})
	if _, err := b.Freeze(nil, nil); err == nil {
		t.Error("expected freeze precondition error")
	}
}
