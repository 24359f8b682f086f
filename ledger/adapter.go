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

// Package ledger defines the pull interface the scan machine drives
// (spec.md §6) plus an in-memory mock implementation for tests and the demo
// CLI. Production wallets supply their own Adapter backed by a node RPC
// client; this package never performs network I/O itself.
package ledger

import (
	"context"

	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/enote"
)

// BlockID is the 32-byte block hash used for contiguity checks.
type BlockID [32]byte

// ProtocolTag distinguishes which protocol's input spent a key image, as
// reported directly by the ledger (the self-send/non-self-send distinction
// is determined later by the chunk processor, not known to the ledger).
type ProtocolTag int

const (
	ProtocolLegacy ProtocolTag = iota
	ProtocolSeraphis
)

// KeyImageInput is one spent key image observed in a transaction's inputs.
type KeyImageInput struct {
	KeyImage curve.KeyImage
	Protocol ProtocolTag
}

// TxData is one transaction's worth of scannable data.
type TxData struct {
	BlockIndex     enote.BlockIndex
	TxID           enote.TxID
	Timestamp      uint64
	ExtraBlob      []byte
	Outputs        []enote.Enote
	InputKeyImages []KeyImageInput
}

// Chunk is the unit the scan machine pulls from the ledger, covering either
// a contiguous span of confirmed blocks or a mempool snapshot.
type Chunk struct {
	StartIndex    uint64
	PrefixBlockID BlockID
	// BlockIDs lists one hash per confirmed block in the chunk, in height
	// order. An empty slice means "the ledger has no more blocks at or
	// after StartIndex" (chain tip reached).
	BlockIDs []BlockID
	Txs      []TxData
}

// LastBlockID returns the chunk's final block id and true, or
// (zero, false) if the chunk is empty.
func (c Chunk) LastBlockID() (BlockID, bool) {
	if len(c.BlockIDs) == 0 {
		return BlockID{}, false
	}
	return c.BlockIDs[len(c.BlockIDs)-1], true
}

// LastBlockIndex returns the height of the chunk's final block.
func (c Chunk) LastBlockIndex() uint64 {
	return c.StartIndex + uint64(len(c.BlockIDs)) - 1
}

// Adapter is the external ledger collaborator (spec.md §6). Its three
// blocking calls are the scan machine's only suspension points (§5); no
// other I/O happens inside the core.
type Adapter interface {
	// BeginScanningFromIndex opens (or repositions) a scanning cursor. A
	// no-op adapter may ignore this entirely.
	BeginScanningFromIndex(ctx context.Context, start uint64, maxChunkSizeHint uint64) error
	// GetOnchainChunk returns the next confirmed-block chunk starting at
	// the cursor position.
	GetOnchainChunk(ctx context.Context) (Chunk, error)
	// GetNonledgerChunk returns the current mempool snapshot.
	GetNonledgerChunk(ctx context.Context) (Chunk, error)
	// TerminateScanning signals the adapter to unblock any in-flight call
	// and return ErrAborted from it. No-throw, no-fail.
	TerminateScanning()
	// IsAborted reports whether TerminateScanning has been called.
	IsAborted() bool
}
