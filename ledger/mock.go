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

package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"sync"

	"github.com/xmrcore/enotescan/enote"
)

// ErrAborted is returned from any in-flight adapter call after
// TerminateScanning is invoked.
var ErrAborted = errors.New("ledger: scanning aborted")

// Block is one confirmed block in the mock ledger.
type Block struct {
	ID  BlockID
	Txs []TxData
}

// Mock is an in-memory ledger adapter used by tests and the demo CLI. It
// supports pushing/popping blocks and injecting/clearing a mempool
// snapshot, mirroring the shape of the teacher's mocked RPC backends (e.g.
// eth/filters/test_backend.go, les/test_helper.go) that hand a
// hand-rolled in-memory chain to the code under test.
type Mock struct {
	mu sync.Mutex

	blocks  []Block // index i == height i
	mempool []TxData

	cursor  uint64
	hint    uint64
	aborted bool
}

// NewMock returns an empty mock ledger starting at genesis.
func NewMock() *Mock {
	return &Mock{}
}

// PushBlock appends a new confirmed block containing txs, deriving its id
// deterministically from height + tx ids so tests get reproducible chains
// without needing a real block-header hash function.
func (m *Mock) PushBlock(txs []TxData) BlockID {
	m.mu.Lock()
	defer m.mu.Unlock()
	height := uint64(len(m.blocks))
	for i := range txs {
		txs[i].BlockIndex = enote.ConfirmedAt(height)
	}
	id := deriveBlockID(height, txs)
	m.blocks = append(m.blocks, Block{ID: id, Txs: txs})
	return id
}

// PopBlocks removes the n most-recent blocks, simulating a reorg.
func (m *Mock) PopBlocks(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > len(m.blocks) {
		n = len(m.blocks)
	}
	m.blocks = m.blocks[:len(m.blocks)-n]
}

// SetMempool replaces the current unconfirmed-chunk snapshot.
func (m *Mock) SetMempool(txs []TxData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range txs {
		txs[i].BlockIndex = enote.UnconfirmedBlock
	}
	m.mempool = txs
}

// Height returns the current chain tip height (number of blocks - 1), or
// -1-as-bool-false for an empty chain — exposed via (height, ok) rather
// than a sentinel, per the BlockIndex design this package otherwise
// follows.
func (m *Mock) Height() (uint64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.blocks) == 0 {
		return 0, false
	}
	return uint64(len(m.blocks) - 1), true
}

func (m *Mock) BeginScanningFromIndex(_ context.Context, start uint64, maxChunkSizeHint uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursor = start
	m.hint = maxChunkSizeHint
	if m.hint == 0 {
		m.hint = 100
	}
	return nil
}

func (m *Mock) GetOnchainChunk(_ context.Context) (Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.aborted {
		return Chunk{}, ErrAborted
	}
	start := m.cursor
	prefix := m.prefixIDLocked(start)

	end := start + m.hint
	if end > uint64(len(m.blocks)) {
		end = uint64(len(m.blocks))
	}
	chunk := Chunk{StartIndex: start, PrefixBlockID: prefix}
	for h := start; h < end; h++ {
		b := m.blocks[h]
		chunk.BlockIDs = append(chunk.BlockIDs, b.ID)
		chunk.Txs = append(chunk.Txs, b.Txs...)
	}
	m.cursor = end
	return chunk, nil
}

func (m *Mock) GetNonledgerChunk(_ context.Context) (Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.aborted {
		return Chunk{}, ErrAborted
	}
	tip := m.prefixIDLocked(uint64(len(m.blocks)))
	return Chunk{
		StartIndex:    uint64(len(m.blocks)),
		PrefixBlockID: tip,
		Txs:           append([]TxData{}, m.mempool...),
	}, nil
}

func (m *Mock) TerminateScanning() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aborted = true
}

func (m *Mock) IsAborted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.aborted
}

// prefixIDLocked returns the id of the block immediately before height
// `at`, or the zero BlockID if `at` is 0 (genesis has no predecessor).
// Must be called with m.mu held.
func (m *Mock) prefixIDLocked(at uint64) BlockID {
	if at == 0 || at > uint64(len(m.blocks)) {
		return BlockID{}
	}
	return m.blocks[at-1].ID
}

func deriveBlockID(height uint64, txs []TxData) BlockID {
	h := sha256.New()
	var hb [8]byte
	binary.LittleEndian.PutUint64(hb[:], height)
	h.Write(hb[:])
	for _, tx := range txs {
		h.Write(tx.TxID[:])
	}
	var out BlockID
	copy(out[:], h.Sum(nil))
	return out
}
