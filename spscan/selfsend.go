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

package spscan

import (
	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/enote"
	"github.com/xmrcore/enotescan/ledger"
)

// expectedSelfSendKo recomputes the one-time address a self-send output
// to address index j would carry. Self-send construction is sender-side
// (the wallet is both sender and recipient), so it needs no address-tag
// channel at all: matching Ko directly is how the pass recognizes one.
func expectedSelfSendKo(a curve.Adapter, vb ViewBalanceKey, d curve.XPoint, j enote.JamtisAddressIndex) curve.Point {
	db := d.Bytes()
	vbb := vb.Priv.Bytes()
	jb := jamtisIndexBytes(j)
	ext := a.HashToScalar("selfsend_ko", db[:], jb[:], vbb[:])
	return a.ScalarMulBase(ext)
}

// SelfSendOnetimeAddress exposes expectedSelfSendKo for test fixtures that
// need to build a well-formed self-send enote; production scanning code
// only ever reaches this logic through SelfSendPass.
func SelfSendOnetimeAddress(a curve.Adapter, vb ViewBalanceKey, d curve.XPoint, j enote.JamtisAddressIndex) curve.Point {
	return expectedSelfSendKo(a, vb, d, j)
}

// SelfSendPass checks hits whose address tag failed to decipher against
// every address index the wallet owns, per spec.md §4.2.3: self-send
// enotes carry no cipherable tag, so ownership can only be confirmed by
// re-deriving the candidate one-time address at each owned index.
func SelfSendPass(a curve.Adapter, vb ViewBalanceKey, hits []BasicHit, candidates []enote.JamtisAddressIndex) ([]PlainResult, error) {
	var out []PlainResult
	for _, hit := range hits {
		sv1 := hit.Enote.(enote.SeraphisV1)
		for _, j := range candidates {
			if !expectedSelfSendKo(a, vb, hit.D, j).Equal(sv1.Ko) {
				continue
			}
			rec, err := decodeSeraphisRecord(a, vb, hit, j, true)
			if err != nil {
				if err == ErrMalformedEnote {
					break
				}
				return nil, err
			}
			out = append(out, PlainResult{OutputIndex: hit.OutputIndex, Record: rec})
			break
		}
	}
	return out, nil
}

// LegacyKeyImageCacheEntry is one seraphis self-send transaction's legacy
// inputs, cached so a later legacy key-image import cycle can mark a
// legacy enote spent without re-scanning the seraphis side (spec.md
// §4.2.4: "the chunk processor therefore caches, per seraphis self-send
// tx, all legacy key images attached to it together with that tx's spent
// context").
type LegacyKeyImageCacheEntry struct {
	TxID      enote.TxID
	Spent     enote.SpentContext
	KeyImages []curve.KeyImage
}

// TxScanResult is one transaction's resolved seraphis records plus the
// legacy-key-image cache entry to retain, if any.
type TxScanResult struct {
	TxID        enote.TxID
	Records     []PlainResult
	LegacyCache *LegacyKeyImageCacheEntry
}

// ResolveChunk runs the full seraphis pass over one chunk's transactions:
// find-received, the plain (address-tag) pass, then an iterative
// self-send pass that only visits a transaction once one of its own
// spent key images is known to belong to the wallet (spec.md §4.2.3's
// termination condition: "iteration terminates when no new txs are
// flagged"). priorOwnedKeyImages seeds that ownership set with key images
// already known from the legacy side or the store, so a tx that spends a
// legacy enote and sends seraphis change in the same transaction still
// unlocks its self-send outputs (spec.md §4.2.4's cross-protocol
// correlation).
func ResolveChunk(a curve.Adapter, vb ViewBalanceKey, xfr curve.Scalar, candidates []enote.JamtisAddressIndex, txs []ledger.TxData, ephemeralPubkeysOf func(ledger.TxData) []curve.XPoint, priorOwnedKeyImages []curve.KeyImage) ([]TxScanResult, error) {
	ownedKeyImages := make(map[[32]byte]bool, len(priorOwnedKeyImages))
	for _, ki := range priorOwnedKeyImages {
		ownedKeyImages[ki.P.Bytes()] = true
	}
	results := make([]TxScanResult, len(txs))
	unresolvedHits := make([][]BasicHit, len(txs))

	for i, tx := range txs {
		hits, err := FindReceivedScan(a, xfr, ephemeralPubkeysOf(tx), tx.Outputs)
		if err != nil {
			return nil, err
		}
		plain, err := PlainPass(a, vb, hits)
		if err != nil {
			return nil, err
		}
		resolvedAt := make(map[int]bool, len(plain))
		for _, p := range plain {
			resolvedAt[p.OutputIndex] = true
			ownedKeyImages[p.Record.KeyImage.P.Bytes()] = true
		}
		var rest []BasicHit
		for _, h := range hits {
			if !resolvedAt[h.OutputIndex] {
				rest = append(rest, h)
			}
		}
		unresolvedHits[i] = rest
		results[i] = TxScanResult{TxID: tx.TxID, Records: plain}
	}

	for changed := true; changed; {
		changed = false
		for i, tx := range txs {
			if len(unresolvedHits[i]) == 0 {
				continue
			}
			if !spentSomethingOwned(tx, ownedKeyImages) {
				continue
			}
			selfSend, err := SelfSendPass(a, vb, unresolvedHits[i], candidates)
			if err != nil {
				return nil, err
			}
			if len(selfSend) == 0 {
				continue
			}
			resolvedAt := make(map[int]bool, len(selfSend))
			for _, p := range selfSend {
				resolvedAt[p.OutputIndex] = true
				ownedKeyImages[p.Record.KeyImage.P.Bytes()] = true
			}
			results[i].Records = append(results[i].Records, selfSend...)
			var rest []BasicHit
			for _, h := range unresolvedHits[i] {
				if !resolvedAt[h.OutputIndex] {
					rest = append(rest, h)
				}
			}
			unresolvedHits[i] = rest
			changed = true
		}
	}

	for i, tx := range txs {
		if len(results[i].Records) == 0 {
			continue
		}
		if cache := legacyCacheFor(tx); cache != nil {
			results[i].LegacyCache = cache
		}
	}
	return results, nil
}

func spentSomethingOwned(tx ledger.TxData, owned map[[32]byte]bool) bool {
	for _, in := range tx.InputKeyImages {
		if owned[in.KeyImage.P.Bytes()] {
			return true
		}
	}
	return false
}

func legacyCacheFor(tx ledger.TxData) *LegacyKeyImageCacheEntry {
	var kis []curve.KeyImage
	for _, in := range tx.InputKeyImages {
		if in.Protocol == ledger.ProtocolLegacy {
			kis = append(kis, in.KeyImage)
		}
	}
	if len(kis) == 0 {
		return nil
	}
	spent := enote.SpentContext{
		BlockIndex:     tx.BlockIndex,
		BlockTimestamp: tx.Timestamp,
		TxID:           tx.TxID,
		Status:         originToSpentStatus(tx.BlockIndex),
		SpendingTx:     enote.SpendingProtocolSeraphis,
	}
	return &LegacyKeyImageCacheEntry{TxID: tx.TxID, Spent: spent, KeyImages: kis}
}

func originToSpentStatus(bi enote.BlockIndex) enote.SpentStatus {
	if bi.IsConfirmed() {
		return enote.SpentOnchain
	}
	return enote.SpentUnconfirmed
}
