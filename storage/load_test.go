package storage

import (
	"strings"
	"testing"

	"github.com/launix-de/colstore/colval"
)

// TestLoadCSV parses fields by declared column type; empty nullable fields
// load as NULL.
func TestLoadCSV(t *testing.T) {
	schema := []ColumnSpec{
		{"id", TypeInt, false},
		{"price", TypeDouble, false},
		{"name", TypeString, true},
		{"active", TypeBoolean, false},
	}
	csv := "id;price;name;active\n" +
		"1;9.5;apple;true\n" +
		"2;1.25;;false\n" +
		"3;0.5;pear;true\n"
	b := NewRowBuffer(schema)
	if err := LoadCSV(b, strings.NewReader(csv), ";", true); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 3 {
		t.Fatalf("loaded %d rows, expected 3", b.Len())
	}
	tbl, err := b.Freeze(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	c := tbl.Scan()
	c.Advance()
	c.Advance()
	row := c.Current()
	if row[0].Int() != 2 {
		t.Errorf("id = %v", row[0])
	}
	if row[1].Float() != 1.25 {
		t.Errorf("price = %v", row[1])
	}
	if !row[2].IsNil() {
		t.Errorf("empty nullable field should be NULL, got %v", row[2])
	}
	if row[3].Bool() {
		t.Errorf("active = %v", row[3])
	}
}

// TestLoadCSVBadField reports the line and column of a parse failure.
func TestLoadCSVBadField(t *testing.T) {
	b := NewRowBuffer([]ColumnSpec{{"id", TypeInt, false}})
	err := LoadCSV(b, strings.NewReader("abc\n"), ";", false)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "column id") {
		t.Errorf("error does not name the column: %v", err)
	}
}

// TestParallelFreezeDeterministic: parallel and sequential freezes produce
// identical tables.
func TestParallelFreezeDeterministic(t *testing.T) {
	schema := []ColumnSpec{
		{"a", TypeInt, false},
		{"b", TypeString, false},
		{"c", TypeLong, true},
		{"d", TypeBoolean, false},
	}
	fill := func(b *RowBuffer) {
		for i := 0; i < 500; i++ {
			var c colval.Value
			if i%11 == 0 {
				c = colval.NewNil()
			} else {
				c = colval.NewInt(int64(i % 6))
			}
			b.Append([]colval.Value{
				colval.NewInt(int64(i)),
				colval.NewString([]string{"n", "s", "e", "w"}[i%4]),
				c,
				colval.NewBool(i%3 == 0),
			})
		}
	}

	defer func(old SettingsT) { Settings = old }(Settings)

	Settings.ParallelFreeze = true
	b1 := NewRowBuffer(schema)
	fill(b1)
	t1, err := b1.Freeze(nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	Settings.ParallelFreeze = false
	b2 := NewRowBuffer(schema)
	fill(b2)
	t2, err := b2.Freeze(nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	for i := range schema {
		if t1.Column(i).String() != t2.Column(i).String() {
			t.Errorf("column %d representation differs: %s != %s", i, t1.Column(i).String(), t2.Column(i).String())
		}
	}
	assertTablesEqual(t, t1, t2, "parallel-vs-sequential")
}

// TestRowBufferArity rejects rows that do not match the schema.
func TestRowBufferArity(t *testing.T) {
	b := NewRowBuffer([]ColumnSpec{{"a", TypeInt, false}, {"b", TypeInt, false}})
	if err := b.Append([]colval.Value{colval.NewInt(1)}); err == nil {
		t.Error("expected arity error")
	}
}
