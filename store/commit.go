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

package store

import (
	"github.com/xmrcore/enotescan/chunkproc"
	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/ledger"
)

// CommitChunk atomically applies one chunk's processed result to the
// store (spec.md §4.1 step 4: "Update the enote store atomically"). It is
// the only way new records, spent contexts and progress advances enter
// the store outside of the key-image import cycle. fullLegacyScan marks
// whether this chunk's legacy scan had spend-key material available (a
// full scan, per §4.3.4), in which case top_legacy_fullscanned advances
// alongside top_legacy_partialscanned instead of only through the import
// cycle.
func (s *Store) CommitChunk(a curve.Adapter, chunk ledger.Chunk, result chunkproc.ChunkResult, scannedSeraphis bool, fullLegacyScan bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range result.LegacyIntermediate {
		id := rec.Record.Identifier(a)
		s.upsertLegacyIntermediateWithID(id, rec)
	}
	for _, rec := range result.LegacyFull {
		id := rec.Record.LegacyIntermediateRecord.Identifier(a)
		s.upsertLegacyFullWithID(id, rec)
	}
	for _, rec := range result.Seraphis {
		s.upsertSeraphis(rec)
	}

	for _, obs := range result.LegacyKeyImages {
		s.applyLegacySpentContext(keyImageKey(obs.KeyImage), obs.Spent)
	}
	for _, obs := range result.SeraphisKeyImages {
		s.applySeraphisSpentContext(keyImageKey(obs.KeyImage), obs.Spent)
	}
	for _, entry := range result.LegacyFromSelfSend {
		for _, ki := range entry.KeyImages {
			s.applyLegacySpentContext(keyImageKey(ki), entry.Spent)
		}
	}

	for i, id := range chunk.BlockIDs {
		s.checkpoints.insert(chunk.StartIndex+uint64(i), id)
	}

	if last, ok := chunk.LastBlockID(); ok {
		height := chunk.LastBlockIndex()
		s.topLegacyPartialscanned = progressAt(height)
		if fullLegacyScan {
			s.topLegacyFullscanned = progressAt(height)
		}
		if scannedSeraphis {
			s.topSpScanned = progressAt(height)
		}
		_ = last
	}

	if !s.refreshIndex.scanned || chunk.StartIndex < s.refreshIndex.height {
		s.refreshIndex = progressAt(chunk.StartIndex)
	}
}
