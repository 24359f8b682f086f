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

package scanmachine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xmrcore/enotescan/chunkproc"
	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/enote"
	"github.com/xmrcore/enotescan/internal/fixture"
	"github.com/xmrcore/enotescan/ledger"
	"github.com/xmrcore/enotescan/legacyscan"
	"github.com/xmrcore/enotescan/scanmachine"
	"github.com/xmrcore/enotescan/store"
)

// TestReorgThenRescanMatchesFreshScan is P3: pop(n); rescan must leave the
// store in the same state a fresh store would reach by scanning directly
// from refresh_index up to the new tip. refresh_index starts at 0 for a
// store that has never dropped its floor, so "fresh from refresh_index"
// here means a virgin scan of the post-reorg chain from genesis.
func TestReorgThenRescanMatchesFreshScan(t *testing.T) {
	a := curve.NewDefaultAdapter()
	w := fixture.NewWallet(a, 0xA0)

	original := make([]fixture.LegacyOutput, 5)
	for i := range original {
		original[i] = fixture.BuildLegacyV1Coinbase(a, w, byte(0x10+i), 0, 1)
	}
	replacement3 := fixture.BuildLegacyV1Coinbase(a, w, 0x20, 0, 1)
	replacement4 := fixture.BuildLegacyV1Coinbase(a, w, 0x21, 0, 1)

	txIDs := make([]enote.TxID, 5)
	for i := range txIDs {
		txIDs[i] = enote.TxID{byte(i + 1)}
	}
	txID3r, txID4r := enote.TxID{0x13}, enote.TxID{0x14}

	memos := map[enote.TxID]legacyscan.Memo{
		txIDs[0]: original[0].Memo, txIDs[1]: original[1].Memo, txIDs[2]: original[2].Memo,
		txIDs[3]: original[3].Memo, txIDs[4]: original[4].Memo,
		txID3r: replacement3.Memo, txID4r: replacement4.Memo,
	}
	extractor := legacyOnlyExtractor{memos: memos}
	proc := chunkproc.Processor{
		Adapter:    a,
		LegacyKeys: legacyscan.Keys{ViewPriv: w.ViewPriv, SpendPub: w.SpendPub, SpendPriv: &w.SpendPriv},
		Extra:      extractor,
	}

	// Scan the original 5-block chain, then reorg away the top 2 blocks
	// and replace them, rescanning only the replacement tail.
	reorgLedger := ledger.NewMock()
	for i := 0; i < 5; i++ {
		reorgLedger.PushBlock([]ledger.TxData{{TxID: txIDs[i], Outputs: []enote.Enote{original[i].Enote}}})
	}
	reorgStore := store.New(scenarioStoreConfig(0), nil)
	m1 := scanmachine.New(reorgLedger, proc, reorgStore, testConfig(), 0)
	final1, err := m1.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, scanmachine.StateDone, final1)

	reorgLedger.PopBlocks(2)
	reorgLedger.PushBlock([]ledger.TxData{{TxID: txID3r, Outputs: []enote.Enote{replacement3.Enote}}})
	reorgLedger.PushBlock([]ledger.TxData{{TxID: txID4r, Outputs: []enote.Enote{replacement4.Enote}}})
	reorgStore.PopBlocksAndRefresh(2)
	require.Equal(t, uint64(0), mustHeight(t, reorgStore.RefreshIndex()))

	m2 := scanmachine.New(reorgLedger, proc, reorgStore, testConfig(), 3)
	final2, err := m2.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, scanmachine.StateDone, final2)

	// A fresh store scanning the same final chain from genesis in one pass.
	freshLedger := ledger.NewMock()
	freshLedger.PushBlock([]ledger.TxData{{TxID: txIDs[0], Outputs: []enote.Enote{original[0].Enote}}})
	freshLedger.PushBlock([]ledger.TxData{{TxID: txIDs[1], Outputs: []enote.Enote{original[1].Enote}}})
	freshLedger.PushBlock([]ledger.TxData{{TxID: txIDs[2], Outputs: []enote.Enote{original[2].Enote}}})
	freshLedger.PushBlock([]ledger.TxData{{TxID: txID3r, Outputs: []enote.Enote{replacement3.Enote}}})
	freshLedger.PushBlock([]ledger.TxData{{TxID: txID4r, Outputs: []enote.Enote{replacement4.Enote}}})
	freshStore := store.New(scenarioStoreConfig(0), nil)
	m3 := scanmachine.New(freshLedger, proc, freshStore, testConfig(), 0)
	final3, err := m3.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, scanmachine.StateDone, final3)

	allStatuses := store.BalanceQuery{AllowedOrigin: store.AllOriginStatuses(), AllowedSpent: store.AllSpentStatuses(), TopBlock: 4}
	require.Equal(t, freshStore.LegacyFullCount(), reorgStore.LegacyFullCount())
	require.Equal(t, freshStore.Balance(allStatuses), reorgStore.Balance(allStatuses))
	require.Equal(t, uint64(5), reorgStore.Balance(allStatuses))
}

func mustHeight(t *testing.T, p store.Progress) uint64 {
	t.Helper()
	h, ok := p.Height()
	require.True(t, ok)
	return h
}
