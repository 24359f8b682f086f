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
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/xmrcore/enotescan/enote"
)

// tryUpdateOriginContext applies the strictly-stronger rule (spec.md
// §4.3.1): ONCHAIN supersedes UNCONFIRMED supersedes OFFCHAIN; within the
// same status, the earlier (lower) block index wins; ties break by tx id.
// Reports whether cur was replaced by next.
func tryUpdateOriginContext(next, cur enote.OriginContext) (enote.OriginContext, bool) {
	if next.Status.Stronger(cur.Status) {
		return next, true
	}
	if cur.Status.Stronger(next.Status) {
		return cur, false
	}
	if next.BlockIndex.Less(cur.BlockIndex) {
		return next, true
	}
	if cur.BlockIndex.Less(next.BlockIndex) {
		return cur, false
	}
	if bytesLess(next.TxID[:], cur.TxID[:]) {
		return next, true
	}
	return cur, false
}

// tryUpdateSpentContext applies the same strictly-stronger rule to spent
// contexts. Spent contexts never downgrade except through explicit reorg
// invalidation (handled separately in reorg.go).
func tryUpdateSpentContext(next, cur enote.SpentContext) (enote.SpentContext, bool) {
	if next.Status.Stronger(cur.Status) {
		return next, true
	}
	if cur.Status.Stronger(next.Status) {
		return cur, false
	}
	if cur.Status == enote.Unspent {
		return cur, false
	}
	if next.BlockIndex.Less(cur.BlockIndex) {
		return next, true
	}
	if cur.BlockIndex.Less(next.BlockIndex) {
		return cur, false
	}
	if bytesLess(next.TxID[:], cur.TxID[:]) {
		return next, true
	}
	return cur, false
}

func bytesLess(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// upsertLegacyIntermediateWithID inserts or refreshes a legacy
// intermediate record, maintaining legacy_onetime_to_identifiers (I5) and
// emitting the corresponding event. Callers precompute the identifier via
// the crypto adapter (enote.LegacyIdentifier), since this package has no
// adapter of its own.
func (s *Store) upsertLegacyIntermediateWithID(id enote.Identifier, rec enote.ContextualLegacyIntermediateRecord) {
	s.trackOnetime(rec.Record.Enote.OnetimeAddress().Bytes(), id)

	cur, exists := s.legacyIntermediateRecords[id]
	if !exists {
		if _, isFull := s.legacyRecords[id]; isFull {
			return // already promoted past intermediate; ignore stale re-sighting
		}
		s.legacyIntermediateRecords[id] = rec
		s.emit(Event{Kind: EventNewLegacyIntermediate, LegacyIdentifier: id, LegacyIntermediate: &rec})
		return
	}
	merged, changed := tryUpdateOriginContext(rec.Origin, cur.Origin)
	if changed {
		cur.Origin = merged
		s.legacyIntermediateRecords[id] = cur
		o := merged
		s.emit(Event{Kind: EventUpdatedOrigin, LegacyIdentifier: id, Origin: &o})
	}
}

func (s *Store) upsertLegacyFullWithID(id enote.Identifier, rec enote.ContextualLegacyFullRecord) {
	s.trackOnetime(rec.Record.Enote.OnetimeAddress().Bytes(), id)
	delete(s.legacyIntermediateRecords, id)

	cur, exists := s.legacyRecords[id]
	if !exists {
		if cached, ok := s.trackedLegacyKeyImages[keyImageKey(rec.Record.KeyImage)]; ok {
			rec.Spent = cached
			delete(s.trackedLegacyKeyImages, keyImageKey(rec.Record.KeyImage))
		}
		s.legacyRecords[id] = rec
		s.emit(Event{Kind: EventNewLegacyFull, LegacyIdentifier: id, LegacyFull: &rec})
		return
	}
	originMerged, originChanged := tryUpdateOriginContext(rec.Origin, cur.Origin)
	spentMerged, spentChanged := tryUpdateSpentContext(rec.Spent, cur.Spent)
	if originChanged {
		cur.Origin = originMerged
	}
	if spentChanged {
		cur.Spent = spentMerged
	}
	if originChanged || spentChanged {
		s.legacyRecords[id] = cur
		if originChanged {
			o := originMerged
			s.emit(Event{Kind: EventUpdatedOrigin, LegacyIdentifier: id, Origin: &o})
		}
		if spentChanged {
			sp := spentMerged
			s.emit(Event{Kind: EventUpdatedSpent, LegacyIdentifier: id, Spent: &sp})
		}
	}
}

func (s *Store) upsertSeraphis(rec enote.ContextualSeraphisRecord) {
	key := keyImageKey(rec.Record.KeyImage)
	cur, exists := s.spRecords[key]
	if !exists {
		s.spRecords[key] = rec
		s.emit(Event{Kind: EventNewSeraphis, SeraphisKeyImage: rec.Record.KeyImage, Seraphis: &rec})
		return
	}
	originMerged, originChanged := tryUpdateOriginContext(rec.Origin, cur.Origin)
	spentMerged, spentChanged := tryUpdateSpentContext(rec.Spent, cur.Spent)
	if originChanged {
		cur.Origin = originMerged
	}
	if spentChanged {
		cur.Spent = spentMerged
	}
	if originChanged || spentChanged {
		s.spRecords[key] = cur
		if originChanged {
			o := originMerged
			s.emit(Event{Kind: EventUpdatedOrigin, SeraphisKeyImage: rec.Record.KeyImage, Origin: &o})
		}
		if spentChanged {
			sp := spentMerged
			s.emit(Event{Kind: EventUpdatedSpent, SeraphisKeyImage: rec.Record.KeyImage, Spent: &sp})
		}
	}
}

func (s *Store) trackOnetime(ko [32]byte, id enote.Identifier) {
	set, ok := s.legacyOnetimeToIdentifiers[ko]
	if !ok {
		set = mapset.NewThreadUnsafeSet[enote.Identifier]()
		s.legacyOnetimeToIdentifiers[ko] = set
	}
	set.Add(id)
}

// applyLegacySpentContext writes a spent context observed for a legacy
// key image to every full record owning it — I5's duplicate-Ko case means
// more than one identifier can share the same derived key image, and a
// single spend retires all of them at once (spec.md §8 scenario 6) — or,
// if no full record references it yet, into tracked_legacy_key_images so
// a later import can apply it (spec.md §4.3.4 step 3).
func (s *Store) applyLegacySpentContext(ki [32]byte, spent enote.SpentContext) {
	matched := false
	for id, rec := range s.legacyRecords {
		if keyImageKey(rec.Record.KeyImage) != ki {
			continue
		}
		matched = true
		merged, changed := tryUpdateSpentContext(spent, rec.Spent)
		if changed {
			rec.Spent = merged
			s.legacyRecords[id] = rec
			sp := merged
			s.emit(Event{Kind: EventUpdatedSpent, LegacyIdentifier: id, Spent: &sp})
		}
	}
	if matched {
		return
	}
	cur, ok := s.trackedLegacyKeyImages[ki]
	if !ok || spent.Status.Stronger(cur.Status) {
		s.trackedLegacyKeyImages[ki] = spent
	}
}

// applySeraphisSpentContext writes a spent context observed for a
// seraphis key image directly against sp_records, keyed by key image
// (spec.md §3.4: "seraphis records are keyed by key image").
func (s *Store) applySeraphisSpentContext(ki [32]byte, spent enote.SpentContext) {
	rec, ok := s.spRecords[ki]
	if !ok {
		return // not one of ours
	}
	merged, changed := tryUpdateSpentContext(spent, rec.Spent)
	if changed {
		rec.Spent = merged
		s.spRecords[ki] = rec
		sp := merged
		s.emit(Event{Kind: EventUpdatedSpent, SeraphisKeyImage: rec.Record.KeyImage, Spent: &sp})
	}
}
