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
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// Snapshot serialization of a frozen table. The per-column payload encoding
// is the bit-exact layout documented on each codec; the surrounding stream
// may be wrapped in lz4 or xz.

type SnapshotCompression uint8

const (
	SnapshotRaw SnapshotCompression = 0
	SnapshotLZ4 SnapshotCompression = 1
	SnapshotXZ  SnapshotCompression = 2
)

var snapshotMagic = [4]byte{'C', 'S', 'T', '1'}

// WriteSnapshot serializes the table including schema and identity.
func (t *Table) WriteSnapshot(f io.Writer, compression SnapshotCompression) error {
	if _, err := f.Write(snapshotMagic[:]); err != nil {
		return err
	}
	if _, err := f.Write([]byte{byte(compression)}); err != nil {
		return err
	}
	var w io.Writer = f
	var closer io.Closer
	switch compression {
	case SnapshotRaw:
	case SnapshotLZ4:
		zw := lz4.NewWriter(f)
		w, closer = zw, zw
	case SnapshotXZ:
		zw, err := xz.NewWriter(f)
		if err != nil {
			return err
		}
		w, closer = zw, zw
	default:
		return fmt.Errorf("unknown snapshot compression %d", compression)
	}

	w.Write(t.uuid[:])
	schemaJSON, err := json.Marshal(t.schema)
	if err != nil {
		return err
	}
	binary.Write(w, binary.LittleEndian, uint32(len(schemaJSON)))
	w.Write(schemaJSON)
	binary.Write(w, binary.LittleEndian, uint64(t.size))
	for _, c := range t.columns {
		c.Serialize(w)
	}
	if closer != nil {
		return closer.Close()
	}
	return nil
}

// ReadSnapshot rebuilds a table from a snapshot stream. The context handle
// is not part of the snapshot; the returned table has a nil context.
func ReadSnapshot(f io.Reader) (*Table, error) {
	var magic [5]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		return nil, err
	}
	if [4]byte(magic[:4]) != snapshotMagic {
		return nil, fmt.Errorf("not a table snapshot (magic %q)", magic[:4])
	}
	var r io.Reader = f
	switch SnapshotCompression(magic[4]) {
	case SnapshotRaw:
	case SnapshotLZ4:
		r = lz4.NewReader(f)
	case SnapshotXZ:
		zr, err := xz.NewReader(f)
		if err != nil {
			return nil, err
		}
		r = zr
	default:
		return nil, fmt.Errorf("unknown snapshot compression %d", magic[4])
	}

	var id uuid.UUID
	if _, err := io.ReadFull(r, id[:]); err != nil {
		return nil, err
	}
	var schemaLen uint32
	if err := binary.Read(r, binary.LittleEndian, &schemaLen); err != nil {
		return nil, err
	}
	schemaJSON := make([]byte, schemaLen)
	if _, err := io.ReadFull(r, schemaJSON); err != nil {
		return nil, err
	}
	var schema []ColumnSpec
	if err := json.Unmarshal(schemaJSON, &schema); err != nil {
		return nil, err
	}
	var size uint64
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, err
	}
	columns := make([]ColumnStorage, len(schema))
	for i := range schema {
		var count uint
		columns[i], count = deserializeStorage(r)
		if count != uint(size) {
			return nil, fmt.Errorf("column %s decodes %d rows, table has %d", schema[i].Name, count, size)
		}
	}
	t, err := NewTable(schema, columns, uint(size), nil, nil)
	if err != nil {
		return nil, err
	}
	t.uuid = id
	return t, nil
}
