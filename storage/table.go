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
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// LogicalType is the declared type of a column.
type LogicalType uint8

const (
	TypeBoolean LogicalType = iota
	TypeByte
	TypeShort
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeChar
	TypeString
	TypeBytes
	TypeObject
)

func (t LogicalType) String() string {
	switch t {
	case TypeBoolean:
		return "boolean"
	case TypeByte:
		return "byte"
	case TypeShort:
		return "short"
	case TypeInt:
		return "int"
	case TypeLong:
		return "long"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeChar:
		return "char"
	case TypeString:
		return "string"
	case TypeBytes:
		return "bytestring"
	case TypeObject:
		return "object"
	}
	return fmt.Sprintf("type%d", uint8(t))
}

type ColumnSpec struct {
	Name     string
	Typ      LogicalType
	Nullable bool
}

// RowType is the opaque row type descriptor supplied at construction; the
// engine only checks its field count against the schema.
type RowType interface {
	FieldCount() int
}

type fieldCountType int

func (f fieldCountType) FieldCount() int { return int(f) }

// Table holds the frozen per-column storages plus the row count. All
// payloads are immutable; any number of cursors may read concurrently.
type Table struct {
	schema  []ColumnSpec
	columns []ColumnStorage
	size    uint
	context any // opaque schema/data context handle, echoed via Context()
	rowType RowType
	uuid    uuid.UUID
}

// NewTable wires frozen column storages into a table. The schema-column
// arity invariant and the per-column type match are asserted here.
func NewTable(schema []ColumnSpec, columns []ColumnStorage, size uint, context any, rowType RowType) (*Table, error) {
	if len(schema) != len(columns) {
		return nil, fmt.Errorf("schema has %d columns but %d storages were given", len(schema), len(columns))
	}
	if rowType == nil {
		rowType = fieldCountType(len(schema))
	}
	if rowType.FieldCount() != len(schema) {
		return nil, fmt.Errorf("row type has %d fields but schema has %d columns", rowType.FieldCount(), len(schema))
	}
	for i, c := range columns {
		if c == nil {
			return nil, errors.New("column storage " + schema[i].Name + " is nil")
		}
		if !storageMatchesType(c, schema[i].Typ) {
			return nil, fmt.Errorf("column %s: storage %s does not decode type %s", schema[i].Name, c.String(), schema[i].Typ)
		}
	}
	return &Table{schema, columns, size, context, rowType, newUUID()}, nil
}

// storageMatchesType checks that a storage's decode kind fits the declared
// logical type.
func storageMatchesType(s ColumnStorage, typ LogicalType) bool {
	switch c := s.(type) {
	case *StorageObject:
		return c.spec.Typ == typ
	case *StoragePrimitive:
		k, ok := kindFor(typ)
		return ok && k == c.kind
	case *StorageBits:
		k, ok := kindFor(typ)
		return ok && k == c.kind && !k.isFloat()
	case *StoragePrimDict:
		k, ok := kindFor(typ)
		return ok && k == c.kind
	case *StorageObjDict:
		return typ == TypeObject
	case *StorageStringDict:
		return typ == TypeString
	case *StorageBytesDict:
		return typ == TypeBytes
	}
	return false
}

func (t *Table) RowCount() uint { return t.size }

func (t *Table) Schema() []ColumnSpec { return t.schema }

// Column gives direct positional access to one column's storage.
func (t *Table) Column(i int) ColumnStorage { return t.columns[i] }

// Context echoes the opaque handle supplied at construction.
func (t *Table) Context() any { return t.context }

// ElementType echoes the row type descriptor supplied at construction.
func (t *Table) ElementType() RowType { return t.rowType }

func (t *Table) UUID() uuid.UUID { return t.uuid }

func (t *Table) ComputeSize() uint {
	var sz uint = 96
	for _, c := range t.columns {
		sz += c.ComputeSize()
	}
	return sz
}

// String describes the table the way a rebuild log line would: every column
// with its chosen storage format.
func (t *Table) String() string {
	var b strings.Builder
	b.WriteString("table(")
	for i, col := range t.schema {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(col.Name)
		b.WriteString(" ")
		b.WriteString(t.columns[i].String())
	}
	b.WriteString(") -> ")
	b.WriteString(fmt.Sprint(t.size))
	return b.String()
}
