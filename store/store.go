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
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/enote"
	"github.com/xmrcore/enotescan/ledger"
)

// Progress is a "highest scanned height" tracker. Distinct from
// enote.BlockIndex: it answers "how far has this protocol's scan
// advanced", not "where was this specific enote seen", so it carries its
// own has-scanned-anything flag rather than overloading a sentinel value.
type Progress struct {
	scanned bool
	height  uint64
}

// Height returns the tracked height and true, or (0, false) if nothing
// has been scanned yet.
func (p Progress) Height() (uint64, bool) { return p.height, p.scanned }

func progressAt(height uint64) Progress { return Progress{scanned: true, height: height} }

// Config holds the store's tunable parameters (spec.md §3.5, §4.3).
type Config struct {
	// NumUnprunable, DensityFactor and MaxSeparation govern the checkpoint
	// cache's retention policy (I4).
	NumUnprunable uint64
	DensityFactor uint64
	MaxSeparation uint64
	// DefaultSpendableAge is the minimum number of confirmations before an
	// enote is considered unlocked absent a later unlock_time (I6).
	DefaultSpendableAge uint64
	// FirstSpAllowedBlock is the height at which seraphis outputs first
	// become legal (spec.md §4.4); legacy scanning stops being attempted
	// once a block confirms this store is past the all-seraphis watermark,
	// tracked externally by the protocol package.
	FirstSpAllowedBlock uint64
}

// Store is the enote store (spec.md §3.5): the durable record of owned
// enotes, their contexts, the checkpoint cache, and progress indices. All
// mutation goes through its methods, which emit events (§3.6) before
// returning.
type Store struct {
	mu sync.RWMutex

	cfg Config

	legacyRecords             map[enote.Identifier]enote.ContextualLegacyFullRecord
	legacyIntermediateRecords map[enote.Identifier]enote.ContextualLegacyIntermediateRecord
	spRecords                 map[[32]byte]enote.ContextualSeraphisRecord
	trackedLegacyKeyImages    map[[32]byte]enote.SpentContext
	legacyOnetimeToIdentifiers map[[32]byte]mapset.Set[enote.Identifier]

	checkpoints *checkpointCache

	topLegacyPartialscanned Progress
	topLegacyFullscanned    Progress
	topSpScanned            Progress
	refreshIndex            Progress

	sink Sink
}

// New builds an empty store.
func New(cfg Config, sink Sink) *Store {
	return &Store{
		cfg:                        cfg,
		legacyRecords:              make(map[enote.Identifier]enote.ContextualLegacyFullRecord),
		legacyIntermediateRecords:  make(map[enote.Identifier]enote.ContextualLegacyIntermediateRecord),
		spRecords:                  make(map[[32]byte]enote.ContextualSeraphisRecord),
		trackedLegacyKeyImages:     make(map[[32]byte]enote.SpentContext),
		legacyOnetimeToIdentifiers: make(map[[32]byte]mapset.Set[enote.Identifier]),
		checkpoints:                newCheckpointCache(cfg.NumUnprunable, cfg.DensityFactor, cfg.MaxSeparation),
		sink:                       sink,
	}
}

func keyImageKey(ki curve.KeyImage) [32]byte { return ki.P.Bytes() }

// TopLegacyPartialscanned, TopLegacyFullscanned and TopSpScanned report
// the store's progress indices (I2: fullscanned <= partialscanned). The
// fullscan index is written only by CommitChunk (to the same height as
// the partialscan index), FinishKIImportCycle (clamped to the partialscan
// index) and PopBlocksAndRefresh (lowered to the new tip with the others).
func (s *Store) TopLegacyPartialscanned() Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.topLegacyPartialscanned
}

func (s *Store) TopLegacyFullscanned() Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.topLegacyFullscanned
}

func (s *Store) TopSpScanned() Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.topSpScanned
}

func (s *Store) RefreshIndex() Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshIndex
}

// CheckpointBlockID returns the cached block hash at height, if any.
func (s *Store) CheckpointBlockID(height uint64) (ledger.BlockID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checkpoints.get(height)
}

// LegacyIntermediateCount and LegacyFullCount expose record counts for
// tests and CLI reporting.
func (s *Store) LegacyIntermediateCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.legacyIntermediateRecords)
}

func (s *Store) LegacyFullCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.legacyRecords)
}

func (s *Store) SeraphisCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.spRecords)
}
