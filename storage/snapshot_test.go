package storage

import (
	"bytes"
	"testing"

	"github.com/launix-de/colstore/colval"
)

// serializeCycle writes one storage and reads it back through the magic-byte
// dispatcher.
func serializeCycle(t *testing.T, s ColumnStorage) ColumnStorage {
	t.Helper()
	var buf bytes.Buffer
	s.Serialize(&buf)
	s2, _ := deserializeStorage(&buf)
	return s2
}

func buildSnapshotTable(t *testing.T) *Table {
	t.Helper()
	schema := []ColumnSpec{
		{"dense", TypeInt, false},
		{"flags", TypeBoolean, false},
		{"level", TypeLong, true},
		{"ratio", TypeDouble, false},
		{"name", TypeString, true},
		{"blob", TypeBytes, false},
		{"tag", TypeObject, false},
	}
	b := NewRowBuffer(schema)
	n := 64
	for i := 0; i < n; i++ {
		var level colval.Value
		if i%5 == 0 {
			level = colval.NewNil()
		} else {
			level = colval.NewInt(int64(i % 3 * 1000))
		}
		var name colval.Value
		if i%9 == 0 {
			name = colval.NewNil()
		} else {
			name = colval.NewString([]string{"red", "green", "blue"}[i%3])
		}
		row := []colval.Value{
			colval.NewInt(int64(i) * 13),
			colval.NewBool(i%2 == 0),
			level,
			colval.NewFloat(float64(i) * 0.5),
			name,
			colval.NewBytes([]byte{byte(i), byte(i % 7)}),
			colval.NewObject([]string{"even", "odd"}[i%2]),
		}
		if err := b.Append(row); err != nil {
			t.Fatal(err)
		}
	}
	tbl, err := b.Freeze(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func assertTablesEqual(t *testing.T, a, b *Table, ctx string) {
	t.Helper()
	if a.RowCount() != b.RowCount() {
		t.Fatalf("%s: row counts %d != %d", ctx, a.RowCount(), b.RowCount())
	}
	if len(a.Schema()) != len(b.Schema()) {
		t.Fatalf("%s: schema lengths differ", ctx)
	}
	ca, cb := a.Scan(), b.Scan()
	row := 0
	for ca.Advance() {
		if !cb.Advance() {
			t.Fatalf("%s: second table exhausted at row %d", ctx, row)
		}
		ra, rb := ca.Current(), cb.Current()
		for j := range ra {
			if !colval.Equal(ra[j], rb[j]) {
				t.Errorf("%s: row %d column %d: %v != %v", ctx, row, j, ra[j], rb[j])
			}
		}
		row++
	}
	if cb.Advance() {
		t.Fatalf("%s: second table has extra rows", ctx)
	}
}

// TestSnapshotRoundTrip covers all compression variants over a table that
// exercises every codec except the plain object array (covered by
// TestObjectArraySerializeRoundTrip).
func TestSnapshotRoundTrip(t *testing.T) {
	tbl := buildSnapshotTable(t)
	for _, compression := range []SnapshotCompression{SnapshotRaw, SnapshotLZ4, SnapshotXZ} {
		var buf bytes.Buffer
		if err := tbl.WriteSnapshot(&buf, compression); err != nil {
			t.Fatalf("compression %d: %v", compression, err)
		}
		tbl2, err := ReadSnapshot(&buf)
		if err != nil {
			t.Fatalf("compression %d: %v", compression, err)
		}
		if tbl2.UUID() != tbl.UUID() {
			t.Errorf("compression %d: identity not preserved", compression)
		}
		assertTablesEqual(t, tbl, tbl2, "snapshot")
	}
}

// TestSnapshotRejectsGarbage: a foreign stream is refused by the magic check.
func TestSnapshotRejectsGarbage(t *testing.T) {
	if _, err := ReadSnapshot(bytes.NewReader([]byte("not a snapshot"))); err == nil {
		t.Error("expected magic mismatch error")
	}
}

// TestObjectArraySerializeRoundTrip: the fallback object representation
// serializes as tagged JSON values.
func TestObjectArraySerializeRoundTrip(t *testing.T) {
	values := []colval.Value{
		colval.NewObject("x"), colval.NewNil(), colval.NewObject(int64(5)), colval.NewObject("x"),
	}
	s := &StorageObject{spec: ColumnSpec{"o", TypeObject, true}}
	buildStorage(s, values)
	s2 := serializeCycle(t, s)
	for i, v := range values {
		got := s2.GetValue(uint(i))
		if v.IsNil() != got.IsNil() {
			t.Errorf("idx=%d nil mismatch", i)
		}
	}
	if s2.GetValue(0).String() != "x" {
		t.Errorf("value 0 = %v", s2.GetValue(0))
	}
}
