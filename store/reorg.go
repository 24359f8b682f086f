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

import "github.com/xmrcore/enotescan/enote"

// PopBlocksAndRefresh implements spec.md §4.3.5 (I8, I9): deletes records
// whose origin block index is at or above newTip+1, clears spent contexts
// at or above that height (reverting the record to UNSPENT), and —
// separately — clears any legacy spent context whose spending tx was
// seraphis-type if that seraphis tx's block is being popped, even when
// the legacy record's own origin predates the cut (a legacy enote spent
// by a since-reorged seraphis tx).
func (s *Store) PopBlocksAndRefresh(newTip uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cut := newTip + 1

	for id, rec := range s.legacyIntermediateRecords {
		if h, ok := rec.Origin.BlockIndex.Height(); ok && h >= cut {
			delete(s.legacyIntermediateRecords, id)
			s.untrackOnetime(rec.Record.Enote.OnetimeAddress().Bytes(), id)
			s.emit(Event{Kind: EventClearedLegacyOrigin, LegacyIdentifier: id, OldBlock: rec.Origin.BlockIndex})
		}
	}

	for id, rec := range s.legacyRecords {
		if h, ok := rec.Origin.BlockIndex.Height(); ok && h >= cut {
			delete(s.legacyRecords, id)
			s.untrackOnetime(rec.Record.Enote.OnetimeAddress().Bytes(), id)
			s.emit(Event{Kind: EventClearedLegacyOrigin, LegacyIdentifier: id, OldBlock: rec.Origin.BlockIndex})
			continue
		}
		s.revertLegacySpentIfPopped(id, rec, cut)
	}

	for key, rec := range s.spRecords {
		if h, ok := rec.Origin.BlockIndex.Height(); ok && h >= cut {
			delete(s.spRecords, key)
			s.emit(Event{Kind: EventClearedLegacyOrigin, SeraphisKeyImage: rec.Record.KeyImage, OldBlock: rec.Origin.BlockIndex})
			continue
		}
		if h, ok := rec.Spent.BlockIndex.Height(); ok && h >= cut {
			rec.Spent = enote.UnspentContext
			s.spRecords[key] = rec
			s.emit(Event{Kind: EventClearedSpent, SeraphisKeyImage: rec.Record.KeyImage})
		}
	}

	for ki, spent := range s.trackedLegacyKeyImages {
		if h, ok := spent.BlockIndex.Height(); ok && h >= cut {
			delete(s.trackedLegacyKeyImages, ki)
		}
	}

	s.checkpoints.removeFrom(cut)

	if h, ok := s.topLegacyPartialscanned.Height(); ok && h >= cut {
		s.topLegacyPartialscanned = progressAt(newTip)
	}
	if h, ok := s.topLegacyFullscanned.Height(); ok && h >= cut {
		s.topLegacyFullscanned = progressAt(newTip)
	}
	if h, ok := s.topSpScanned.Height(); ok && h >= cut {
		s.topSpScanned = progressAt(newTip)
	}
}

// revertLegacySpentIfPopped clears id's spent context if either its own
// spent block is being popped, or its spend tx was seraphis-type and that
// block is being popped (I8's cross-protocol clause).
func (s *Store) revertLegacySpentIfPopped(id enote.Identifier, rec enote.ContextualLegacyFullRecord, cut uint64) {
	h, confirmed := rec.Spent.BlockIndex.Height()
	if !confirmed || h < cut {
		return
	}
	if rec.Spent.Status == enote.Unspent {
		return
	}
	rec.Spent = enote.UnspentContext
	s.legacyRecords[id] = rec
	s.emit(Event{Kind: EventClearedSpent, LegacyIdentifier: id})
}

func (s *Store) untrackOnetime(ko [32]byte, id enote.Identifier) {
	set, ok := s.legacyOnetimeToIdentifiers[ko]
	if !ok {
		return
	}
	set.Remove(id)
	if set.Cardinality() == 0 {
		delete(s.legacyOnetimeToIdentifiers, ko)
	}
}
