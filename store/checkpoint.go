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
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/xmrcore/enotescan/ledger"
)

// checkpointCache holds the sparse set of (block_index, block_hash)
// checkpoints a rescan uses to detect reorgs past the unprunable tail
// (spec.md §3.5, I4). The most recent numUnprunable checkpoints live in a
// bounded LRU (dense: one per block); anything older is thinned so no two
// retained checkpoints are farther apart than maxSeparation, and at most
// one in every densityFactor is kept.
type checkpointCache struct {
	numUnprunable uint64
	densityFactor uint64
	maxSeparation uint64

	recent *lru.Cache[uint64, ledger.BlockID]
	sparse map[uint64]ledger.BlockID
	// heights is sparse's keys kept sorted ascending, maintained alongside
	// insert/prune so pruning never needs a full sort.
	heights []uint64
}

func newCheckpointCache(numUnprunable, densityFactor, maxSeparation uint64) *checkpointCache {
	if numUnprunable == 0 {
		numUnprunable = 1
	}
	recent, _ := lru.New[uint64, ledger.BlockID](int(numUnprunable) * 2)
	return &checkpointCache{
		numUnprunable: numUnprunable,
		densityFactor: densityFactor,
		maxSeparation: maxSeparation,
		recent:        recent,
		sparse:        make(map[uint64]ledger.BlockID),
	}
}

func (c *checkpointCache) insert(height uint64, id ledger.BlockID) {
	c.recent.Add(height, id)
	c.promoteOldestIfNeeded()
}

// promoteOldestIfNeeded moves checkpoints that have aged out of the dense
// LRU's capacity into the sparse, density-thinned tier.
func (c *checkpointCache) promoteOldestIfNeeded() {
	for c.recent.Len() > int(c.numUnprunable) {
		height, id, ok := c.recent.GetOldest()
		if !ok {
			break
		}
		c.recent.Remove(height)
		c.insertSparse(height, id)
	}
}

func (c *checkpointCache) insertSparse(height uint64, id ledger.BlockID) {
	c.sparse[height] = id
	idx := sort.Search(len(c.heights), func(i int) bool { return c.heights[i] >= height })
	c.heights = append(c.heights, 0)
	copy(c.heights[idx+1:], c.heights[idx:])
	c.heights[idx] = height
	c.thin()
}

// thin enforces I4 over the sparse tier: keep the oldest checkpoint,
// every densityFactor'th one thereafter, and force-keep any checkpoint
// that would otherwise leave a gap wider than maxSeparation.
func (c *checkpointCache) thin() {
	if len(c.heights) == 0 {
		return
	}
	kept := c.heights[:1]
	last := c.heights[0]
	for i := 1; i < len(c.heights); i++ {
		h := c.heights[i]
		forced := c.maxSeparation > 0 && h-last >= c.maxSeparation
		dense := c.densityFactor == 0 || h%c.densityFactor == 0
		if forced || dense {
			kept = append(kept, h)
			last = h
			continue
		}
		delete(c.sparse, h)
	}
	c.heights = kept
}

func (c *checkpointCache) get(height uint64) (ledger.BlockID, bool) {
	if id, ok := c.recent.Get(height); ok {
		return id, true
	}
	id, ok := c.sparse[height]
	return id, ok
}

// removeFrom drops every cached checkpoint at or above height, used by
// pop_blocks_and_refresh (I9).
func (c *checkpointCache) removeFrom(height uint64) {
	for _, k := range c.recent.Keys() {
		if k >= height {
			c.recent.Remove(k)
		}
	}
	kept := c.heights[:0]
	for _, h := range c.heights {
		if h >= height {
			delete(c.sparse, h)
			continue
		}
		kept = append(kept, h)
	}
	c.heights = kept
}
