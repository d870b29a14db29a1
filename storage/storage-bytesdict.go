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

import "io"

// StorageBytesDict is the dictionary representation for bytestring columns,
// isomorphic to StorageStringDict without the UTF-8 reading.
type StorageBytesDict struct {
	blockDict
}

func (s *StorageBytesDict) String() string {
	return s.describe("bytedict")
}

func (s *StorageBytesDict) Serialize(f io.Writer) {
	s.serialize(f, magicBytesDict)
}

func (s *StorageBytesDict) Deserialize(f io.Reader) uint {
	s.raw = true
	return s.deserialize(f)
}
