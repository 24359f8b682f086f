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

package enote

// BlockIndex is an explicit sum type over "confirmed at this height" and
// "unconfirmed" (mempool). spec.md §9 flags the source's use of a -1-cast
// sentinel for this as a bug pattern; this type makes the two states
// impossible to confuse at compile time instead.
type BlockIndex struct {
	confirmed bool
	value     uint64
}

// ConfirmedAt builds a BlockIndex for a specific on-chain height.
func ConfirmedAt(height uint64) BlockIndex { return BlockIndex{confirmed: true, value: height} }

// UnconfirmedBlock is the sentinel for mempool-sighted enotes/key images.
var UnconfirmedBlock = BlockIndex{confirmed: false}

func (b BlockIndex) IsConfirmed() bool { return b.confirmed }

// Height returns the confirmed height and true, or (0, false) if
// unconfirmed.
func (b BlockIndex) Height() (uint64, bool) { return b.value, b.confirmed }

// Less orders two BlockIndex values the way the enote store needs when
// comparing "earlier sighting wins" (spec.md §4.3.1): unconfirmed sorts
// after every confirmed height.
func (b BlockIndex) Less(o BlockIndex) bool {
	if b.confirmed != o.confirmed {
		return b.confirmed
	}
	return b.value < o.value
}

func (b BlockIndex) Equal(o BlockIndex) bool { return b.confirmed == o.confirmed && b.value == o.value }

// OriginStatus records how an enote's sighting was observed.
type OriginStatus int

const (
	OriginOffchain OriginStatus = iota
	OriginUnconfirmed
	OriginOnchain
)

// strength orders statuses for the "ONCHAIN supersedes UNCONFIRMED
// supersedes OFFCHAIN" rule (spec.md §4.3.1).
func (s OriginStatus) strength() int {
	switch s {
	case OriginOnchain:
		return 2
	case OriginUnconfirmed:
		return 1
	default:
		return 0
	}
}

func (s OriginStatus) Stronger(o OriginStatus) bool { return s.strength() > o.strength() }

// SpentStatus records whether and how an enote's key image has appeared.
type SpentStatus int

const (
	Unspent SpentStatus = iota
	SpentOffchain
	SpentUnconfirmed
	SpentOnchain
)

func (s SpentStatus) strength() int {
	switch s {
	case SpentOnchain:
		return 3
	case SpentUnconfirmed:
		return 2
	case SpentOffchain:
		return 1
	default:
		return 0
	}
}

func (s SpentStatus) Stronger(o SpentStatus) bool { return s.strength() > o.strength() }

// TxID identifies a transaction by its canonical hash.
type TxID [32]byte

// OriginContext records where and when an enote was seen (spec.md §3.3).
type OriginContext struct {
	BlockIndex       BlockIndex
	BlockTimestamp   uint64
	TxID             TxID
	EnoteTxIndex     int
	EnoteLedgerIndex uint64
	Status           OriginStatus
	MemoBlob         []byte
	// UnlockTime is the transaction-specified unlock height, if any
	// (0 means "no additional lock beyond default_spendable_age" — I6).
	UnlockTime uint64
}

// SpendingProtocol records which protocol's transaction spent an enote,
// so a seraphis-only reorg can find and clear legacy spent contexts whose
// spending tx was seraphis-type (spec.md I8).
type SpendingProtocol int

const (
	SpendingProtocolUnknown SpendingProtocol = iota
	SpendingProtocolLegacy
	SpendingProtocolSeraphis
)

// SpentContext records if and when an enote's key image appeared.
type SpentContext struct {
	BlockIndex     BlockIndex
	BlockTimestamp uint64
	TxID           TxID
	Status         SpentStatus
	SpendingTx     SpendingProtocol
}

// UnspentContext is the zero-value spent context for a never-spent enote.
var UnspentContext = SpentContext{Status: Unspent}
