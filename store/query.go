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

// ConfirmedSpendingTx reports the tx id that confirmed-spent ki, if the
// store has one on record for either protocol. The scan machine's
// non-ledger loop uses this to recognize a mempool tx whose inputs
// conflict with an already-confirmed spend — evidence that the chain
// reorged out from under a prior scan (spec.md §4.1's non-ledger loop).
func (s *Store) ConfirmedSpendingTx(ki curve.KeyImage) (enote.TxID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := keyImageKey(ki)
	for _, rec := range s.legacyRecords {
		if keyImageKey(rec.Record.KeyImage) == key && rec.Spent.Status == enote.SpentOnchain {
			return rec.Spent.TxID, true
		}
	}
	if rec, ok := s.spRecords[key]; ok && rec.Spent.Status == enote.SpentOnchain {
		return rec.Spent.TxID, true
	}
	return enote.TxID{}, false
}

// OwnedKeyImages collects every key image the store currently attributes
// to the wallet (spent or not), for seeding chunkproc.Processor.ProcessChunk's
// cross-protocol self-send correlation across chunk boundaries.
func (s *Store) OwnedKeyImages() []curve.KeyImage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]curve.KeyImage, 0, len(s.legacyRecords)+len(s.spRecords))
	for _, rec := range s.legacyRecords {
		out = append(out, rec.Record.KeyImage)
	}
	for _, rec := range s.spRecords {
		out = append(out, rec.Record.KeyImage)
	}
	return out
}
