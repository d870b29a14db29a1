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

// SettingsT carries the representation selector policy. The thresholds are
// policy, not contract; hosts tune them before loading data.
type SettingsT struct {
	// DictMaxFraction is the highest distinct/total ratio at which the
	// selector still picks a primitive or object dictionary, or bit-slicing
	// for an integer or char column. String and bytestring columns always
	// get a dictionary, and numeric columns holding NULL always get a
	// primitive dictionary, whatever their ratio.
	DictMaxFraction float64
	// EagerExceptionFrequency pre-materializes a dictionary string into the
	// exceptions table when its frequency reaches this fraction of the
	// column; 0 disables frequency-based pinning.
	EagerExceptionFrequency float64
	// MaxInlineLength is the longest string kept in the dictionary block;
	// longer entries become exceptions. Hard-capped at 65535 by the u16
	// length prefix.
	MaxInlineLength int
	// AnalyzeMinItems is the smallest row count at which the ratio-driven
	// choices above are made; shorter columns skip them.
	AnalyzeMinItems int
	// ParallelFreeze freezes the columns of a row buffer concurrently.
	ParallelFreeze bool
}

var Settings SettingsT = SettingsT{0.5, 0, 65535, 8, true}
