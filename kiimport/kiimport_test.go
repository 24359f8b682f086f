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

package kiimport_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xmrcore/enotescan/chunkproc"
	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/enote"
	"github.com/xmrcore/enotescan/kiimport"
	"github.com/xmrcore/enotescan/ledger"
	"github.com/xmrcore/enotescan/legacyscan"
	"github.com/xmrcore/enotescan/store"
)

func testConfig() store.Config {
	return store.Config{NumUnprunable: 5, DensityFactor: 10, MaxSeparation: 100, DefaultSpendableAge: 0}
}

// TestRoundTripMatchesDirectFullScan exercises scenario 5 end to end
// through the kiimport wrapper: a view-only scan leaves an intermediate
// record, the import cycle promotes it using a key image derived with
// the spend key (standing in for the offline signing device), and a
// key-image-only re-scan of a later spending block applies the spend
// without having seen any new outputs.
func TestRoundTripMatchesDirectFullScan(t *testing.T) {
	a := curve.NewDefaultAdapter()
	viewPriv := curve.ScalarFromBytes([32]byte{0x31})
	spendPriv := curve.ScalarFromBytes([32]byte{0x32})

	s := store.New(testConfig(), nil)

	ko := a.ScalarMulBase(curve.ScalarFromBytes([32]byte{0x30}))
	amount := uint64(1)
	rec := enote.ContextualLegacyIntermediateRecord{
		Record: enote.LegacyIntermediateRecord{
			Enote:  enote.LegacyV1{Ko: ko, Amount: amount},
			Amount: amount,
			Mask:   curve.ScalarFromBytes([32]byte{}),
		},
		Origin: enote.OriginContext{BlockIndex: enote.ConfirmedAt(0), Status: enote.OriginOnchain},
	}
	s.CommitChunk(a, ledger.Chunk{StartIndex: 0, BlockIDs: []ledger.BlockID{{0x01}}}, chunkproc.ChunkResult{
		LegacyIntermediate: []enote.ContextualLegacyIntermediateRecord{rec},
	}, false, false)

	allStatuses := store.BalanceQuery{AllowedOrigin: store.AllOriginStatuses(), AllowedSpent: store.AllSpentStatuses(), TopBlock: 0}
	require.Equal(t, uint64(0), s.Balance(allStatusesExcludingIntermediate(allStatuses)))
	require.Equal(t, 1, s.LegacyIntermediateCount())

	sess := kiimport.Begin(s)
	pending := sess.PendingOnetimeAddresses()
	require.Len(t, pending, 1)
	require.True(t, pending[0].Equal(ko))

	ki := legacyscan.DeriveKeyImage(a, spendPriv, viewPriv, nil, ko)
	require.NoError(t, sess.Import(s, []store.LegacyKeyImagePair{{Onetime: ko, KeyImage: ki}}))
	require.Equal(t, 0, s.LegacyIntermediateCount())
	require.Equal(t, 1, s.LegacyFullCount())

	require.Equal(t, uint64(1), s.Balance(allStatuses))

	proc := chunkproc.Processor{Adapter: a, Extra: noopExtractor{}}
	spendChunk := ledger.Chunk{
		StartIndex: 1,
		BlockIDs:   []ledger.BlockID{{0x02}},
		Txs: []ledger.TxData{{
			TxID:           enote.TxID{0xAB},
			BlockIndex:     enote.ConfirmedAt(1),
			InputKeyImages: []ledger.KeyImageInput{{KeyImage: ki, Protocol: ledger.ProtocolLegacy}},
		}},
	}
	sess.RescanKeyImagesOnly(s, proc, spendChunk)
	require.NoError(t, sess.Finish(s))

	h, ok := s.TopLegacyFullscanned().Height()
	require.True(t, ok)
	require.Equal(t, uint64(0), h)

	require.Equal(t, uint64(0), s.Balance(allStatuses))
}

type noopExtractor struct{}

func (noopExtractor) LegacyMemo(ledger.TxData) legacyscan.Memo              { return legacyscan.Memo{} }
func (noopExtractor) SeraphisEphemeralPubkeys(ledger.TxData) []curve.XPoint { return nil }

func allStatusesExcludingIntermediate(q store.BalanceQuery) store.BalanceQuery {
	q.Exclude = map[store.ExclusionFlag]bool{store.ExcludeLegacyIntermediate: true}
	return q
}

