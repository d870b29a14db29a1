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
/*
	colstore columnar in-memory table engine

	loads a CSV, freezes every column into its best representation and
	reports what was chosen; optionally writes a snapshot
*/
package main

import "os"
import "fmt"
import "flag"
import "strings"
import "github.com/launix-de/colstore/storage"

func parseSchema(def string) []storage.ColumnSpec {
	var schema []storage.ColumnSpec
	for _, part := range strings.Split(def, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(kv) != 2 {
			panic("schema entry must be name:type, got " + part)
		}
		typ, nullable := kv[1], false
		if strings.HasSuffix(typ, "?") {
			typ, nullable = typ[:len(typ)-1], true
		}
		var t storage.LogicalType
		switch typ {
		case "bool":
			t = storage.TypeBoolean
		case "byte":
			t = storage.TypeByte
		case "short":
			t = storage.TypeShort
		case "int":
			t = storage.TypeInt
		case "long":
			t = storage.TypeLong
		case "float":
			t = storage.TypeFloat
		case "double":
			t = storage.TypeDouble
		case "char":
			t = storage.TypeChar
		case "string":
			t = storage.TypeString
		case "bytes":
			t = storage.TypeBytes
		default:
			panic("unknown column type " + typ)
		}
		schema = append(schema, storage.ColumnSpec{Name: kv[0], Typ: t, Nullable: nullable})
	}
	return schema
}

func main() {
	schemaDef := flag.String("schema", "", "comma separated name:type list, append ? for nullable (e.g. id:int,name:string?)")
	delimiter := flag.String("delimiter", ";", "CSV field delimiter")
	header := flag.Bool("header", true, "skip the CSV header line")
	snapshot := flag.String("snapshot", "", "write an lz4 snapshot to this file")
	flag.Parse()
	if *schemaDef == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: colstore -schema id:int,name:string [-snapshot out.cst] data.csv")
		os.Exit(1)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		panic(err)
	}
	defer f.Close()

	buf := storage.NewRowBuffer(parseSchema(*schemaDef))
	if err := storage.LoadCSV(buf, f, *delimiter, *header); err != nil {
		panic(err)
	}
	t, err := buf.Freeze(nil, nil)
	if err != nil {
		panic(err)
	}
	fmt.Println(t.String())
	fmt.Println(t.SizeString())
	fmt.Println(storage.PrintMemUsage())

	if *snapshot != "" {
		out, err := os.Create(*snapshot)
		if err != nil {
			panic(err)
		}
		defer out.Close()
		if err := t.WriteSnapshot(out, storage.SnapshotLZ4); err != nil {
			panic(err)
		}
		fmt.Println("snapshot", t.UUID(), "written to", *snapshot)
	}
}
