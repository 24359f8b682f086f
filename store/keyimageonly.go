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

import "github.com/xmrcore/enotescan/chunkproc"

// ApplyKeyImageObservations applies spent contexts from a
// key-image-only pass (spec.md §4.3.4 step 4) without touching any scan
// watermark or the checkpoint cache: unlike CommitChunk, this is not a
// regular chunk commit, since the pass never ran output recovery and
// must not be mistaken for one having advanced top_legacy_partialscanned
// or top_sp_scanned.
func (s *Store) ApplyKeyImageObservations(result chunkproc.ChunkResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

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
}
