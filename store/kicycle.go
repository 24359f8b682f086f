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
	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/enote"
)

// ImportCheckpoint snapshots the store state a legacy key-image import
// pass needs to bracket itself against (spec.md §4.3.4): the
// partialscan index at the moment the caller started deriving key
// images view-key-only, plus every intermediate record's one-time
// address and identifier at that moment, so a late-arriving chunk that
// added new intermediate records between snapshot and import is not
// mistakenly treated as fully covered by this cycle.
type ImportCheckpoint struct {
	PartialscanIndex uint64
	Entries          []ImportCheckpointEntry
}

// ImportCheckpointEntry pairs a tracked intermediate record's identifier
// with its one-time address, the only two things ImportLegacyKeyImages
// needs to resolve a derived key image back to a record.
type ImportCheckpointEntry struct {
	Identifier enote.Identifier
	Onetime    curve.Point
}

// MakeKIImportCheckpoint starts a legacy key-image import cycle (spec.md
// §4.3.4 step 1): "snapshot top_legacy_partialscanned and the current set
// of intermediate records' (identifier, Ko) pairs."
func (s *Store) MakeKIImportCheckpoint() ImportCheckpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := ImportCheckpoint{}
	if h, ok := s.topLegacyPartialscanned.Height(); ok {
		cp.PartialscanIndex = h
	}
	cp.Entries = make([]ImportCheckpointEntry, 0, len(s.legacyIntermediateRecords))
	for id, rec := range s.legacyIntermediateRecords {
		cp.Entries = append(cp.Entries, ImportCheckpointEntry{
			Identifier: id,
			Onetime:    rec.Record.Enote.OnetimeAddress(),
		})
	}
	return cp
}

// LegacyKeyImagePair is one legacy one-time address paired with the key
// image the spend-key-bearing wallet derived for it.
type LegacyKeyImagePair struct {
	Onetime  curve.Point
	KeyImage curve.KeyImage
}

// ImportLegacyKeyImages promotes intermediate records to full records
// using externally-derived key images (spec.md §4.3.4 step 2): "for each
// pair, look up every identifier sharing that Ko via
// legacy_onetime_to_identifiers, and promote each to a full record
// carrying that key image." A pair matching no known intermediate record
// is reported via ErrInvalidKeyImageImport rather than silently ignored,
// since it usually means the caller derived a key image for an address
// this store never scanned.
func (s *Store) ImportLegacyKeyImages(pairs []LegacyKeyImagePair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate every pair before mutating anything: spec.md §7's
	// InvalidKeyImageImport policy rejects the whole batch and leaves the
	// store unchanged, so a later pair's failure must not be preceded by an
	// earlier pair's promotion already having taken effect.
	for _, pair := range pairs {
		ko := pair.Onetime.Bytes()
		ids, ok := s.legacyOnetimeToIdentifiers[ko]
		if !ok || ids.Cardinality() == 0 {
			return ErrInvalidKeyImageImport
		}
	}

	for _, pair := range pairs {
		ko := pair.Onetime.Bytes()
		ids := s.legacyOnetimeToIdentifiers[ko]
		for _, id := range ids.ToSlice() {
			intermediate, isIntermediate := s.legacyIntermediateRecords[id]
			if !isIntermediate {
				// Already promoted (e.g. a duplicate Ko already imported
				// this cycle, or promoted by an earlier chunk's full scan).
				continue
			}
			full := enote.ContextualLegacyFullRecord{
				Record: enote.LegacyFullRecord{
					LegacyIntermediateRecord: intermediate.Record,
					KeyImage:                 pair.KeyImage,
				},
				Origin: intermediate.Origin,
				Spent:  enote.UnspentContext,
			}
			delete(s.legacyIntermediateRecords, id)
			if cached, hasCached := s.trackedLegacyKeyImages[keyImageKey(pair.KeyImage)]; hasCached {
				full.Spent = cached
				delete(s.trackedLegacyKeyImages, keyImageKey(pair.KeyImage))
			}
			s.legacyRecords[id] = full
			s.emit(Event{Kind: EventLegacyIntermediatePromoted, LegacyIdentifier: id, PromotedKeyImage: pair.KeyImage, LegacyFull: &full})
		}
	}
	return nil
}

// FinishKIImportCycle closes a legacy key-image import cycle (spec.md
// §4.3.4 step 3): "top_legacy_fullscanned advances to
// min(checkpoint.partialscan_index, current top_legacy_partialscanned)" —
// never past what has actually been partial-scanned, even if the
// snapshot is stale by the time the cycle completes.
func (s *Store) FinishKIImportCycle(cp ImportCheckpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := cp.PartialscanIndex
	if h, ok := s.topLegacyPartialscanned.Height(); ok && h < target {
		target = h
	}
	if h, ok := s.topLegacyFullscanned.Height(); !ok || h < target {
		s.topLegacyFullscanned = progressAt(target)
	}
}
