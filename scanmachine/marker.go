// Copyright 2024 The enotescan Authors
// This file is part of the enotescan library.
//
// The enotescan library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The enotescan library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the enotescan library. If not, see <http://www.gnu.org/licenses/>.

package scanmachine

import "github.com/xmrcore/enotescan/ledger"

// contiguityMarker is the "last known (block_index, block_id) pair the
// machine believes the ledger still contains" (spec.md §4.1). It carries
// its own has-value flag rather than a sentinel height, matching
// enote.BlockIndex's and store.Progress's explicit sum-type treatment.
type contiguityMarker struct {
	valid  bool
	height uint64
	id     ledger.BlockID
}

// matches reports whether prefix is consistent with the marker: true
// unconditionally before any chunk has been committed (nothing to
// contradict yet).
func (m contiguityMarker) matches(prefix ledger.BlockID) bool {
	if !m.valid {
		return true
	}
	return m.id == prefix
}

func markerAfter(chunk ledger.Chunk) (contiguityMarker, bool) {
	id, ok := chunk.LastBlockID()
	if !ok {
		return contiguityMarker{}, false
	}
	return contiguityMarker{valid: true, height: chunk.LastBlockIndex(), id: id}, true
}
