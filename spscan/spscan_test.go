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

package spscan_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/enote"
	"github.com/xmrcore/enotescan/internal/fixture"
	"github.com/xmrcore/enotescan/ledger"
	"github.com/xmrcore/enotescan/spscan"
)

func testKeys(a curve.Adapter) (xfr curve.Scalar, spendPub curve.Point, vb spscan.ViewBalanceKey) {
	var xb, sb, vbb [32]byte
	xb[0] = 0x11
	sb[0] = 0x22
	vbb[0] = 0x33
	xfr = curve.ScalarFromBytes(xb)
	spendPub = a.ScalarMulBase(curve.ScalarFromBytes(sb))
	vb = spscan.ViewBalanceKey{Priv: curve.ScalarFromBytes(vbb)}
	return
}

func TestFindReceivedAndPlainPassRecoverOwnedEnote(t *testing.T) {
	a := curve.NewDefaultAdapter()
	xfr, spendPub, _ := testKeys(a)

	out := fixture.BuildSeraphisV1Plain(a, xfr, spendPub, 7, 1, 0, 5000)

	hits, err := spscan.FindReceivedScan(a, xfr, []curve.XPoint{out.Rt}, []enote.Enote{out.Enote})
	require.NoError(t, err)
	require.Len(t, hits, 1)

	results, err := spscan.PlainPass(a, spscan.ViewBalanceKey{}, hits)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, uint64(5000), results[0].Record.Amount)
	require.EqualValues(t, 7, results[0].Record.AddressIndex)
	require.False(t, results[0].Record.SelfSend)
}

func TestFindReceivedScanSkipsForeignViewTag(t *testing.T) {
	a := curve.NewDefaultAdapter()
	xfr, spendPub, _ := testKeys(a)
	out := fixture.BuildSeraphisV1Plain(a, xfr, spendPub, 7, 1, 0, 5000)

	var wrongX [32]byte
	wrongX[0] = 0x99
	hits, err := spscan.FindReceivedScan(a, curve.ScalarFromBytes(wrongX), []curve.XPoint{out.Rt}, []enote.Enote{out.Enote})
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestSelfSendPassRecoversOwnTransfer(t *testing.T) {
	a := curve.NewDefaultAdapter()
	xfr, _, vb := testKeys(a)
	candidates := []enote.JamtisAddressIndex{0, 1, 2, 3}

	out := fixture.BuildSeraphisV1SelfSend(a, vb, xfr, 2, 9, 0, 1234)

	hits, err := spscan.FindReceivedScan(a, xfr, []curve.XPoint{out.Rt}, []enote.Enote{out.Enote})
	require.NoError(t, err)
	require.Len(t, hits, 1)

	plain, err := spscan.PlainPass(a, vb, hits)
	require.NoError(t, err)
	require.Empty(t, plain, "self-send address tags must not decipher")

	selfSend, err := spscan.SelfSendPass(a, vb, hits, candidates)
	require.NoError(t, err)
	require.Len(t, selfSend, 1)
	require.EqualValues(t, 2, selfSend[0].Record.AddressIndex)
	require.True(t, selfSend[0].Record.SelfSend)
}

func TestResolveChunkIteratesUntilNoNewTxFlagged(t *testing.T) {
	a := curve.NewDefaultAdapter()
	xfr, spendPub, vb := testKeys(a)
	candidates := []enote.JamtisAddressIndex{0, 1}

	received := fixture.BuildSeraphisV1Plain(a, xfr, spendPub, 0, 21, 0, 10000)
	change := fixture.BuildSeraphisV1SelfSend(a, vb, xfr, 1, 22, 0, 3000)

	receivedKI := computeKeyImage(t, a, vb, xfr, received)

	txs := []ledger.TxData{
		{TxID: enote.TxID{1}, BlockIndex: enote.ConfirmedAt(100), Outputs: []enote.Enote{received.Enote}},
		{
			TxID:           enote.TxID{2},
			BlockIndex:     enote.ConfirmedAt(101),
			Outputs:        []enote.Enote{change.Enote},
			InputKeyImages: []ledger.KeyImageInput{{KeyImage: receivedKI, Protocol: ledger.ProtocolSeraphis}},
		},
	}
	rtOf := map[enote.TxID][]curve.XPoint{
		{1}: {received.Rt},
		{2}: {change.Rt},
	}

	results, err := spscan.ResolveChunk(a, vb, xfr, candidates, txs, func(tx ledger.TxData) []curve.XPoint {
		return rtOf[tx.TxID]
	}, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Len(t, results[0].Records, 1)
	require.Len(t, results[1].Records, 1)
	require.True(t, results[1].Records[0].Record.SelfSend)
}

func computeKeyImage(t *testing.T, a curve.Adapter, vb spscan.ViewBalanceKey, xfr curve.Scalar, out fixture.SeraphisOutput) curve.KeyImage {
	t.Helper()
	hits, err := spscan.FindReceivedScan(a, xfr, []curve.XPoint{out.Rt}, []enote.Enote{out.Enote})
	require.NoError(t, err)
	results, err := spscan.PlainPass(a, vb, hits)
	require.NoError(t, err)
	require.Len(t, results, 1)
	return results[0].Record.KeyImage
}
