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

// Package chunkproc combines the legacy view-scan and seraphis
// find-received/self-send passes into the single per-chunk pipeline the
// scan machine drives (spec.md §4.2.5): one pass per transaction in a
// chunk, origin contexts attached, key images collected and tagged by
// origin protocol, and the cross-protocol legacy key-image cache carried
// alongside.
package chunkproc

import (
	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/enote"
	"github.com/xmrcore/enotescan/ledger"
	"github.com/xmrcore/enotescan/legacyscan"
	"github.com/xmrcore/enotescan/log"
	"github.com/xmrcore/enotescan/protocol"
	"github.com/xmrcore/enotescan/spscan"
)

// ExtraExtractor pulls the protocol-specific ephemeral-key material out of
// a transaction's opaque extra blob. Parsing that wire format is a ledger
// concern spec.md §1 places out of scope; this package only consumes the
// parsed result.
type ExtraExtractor interface {
	LegacyMemo(tx ledger.TxData) legacyscan.Memo
	SeraphisEphemeralPubkeys(tx ledger.TxData) []curve.XPoint
}

// KeyImageObservation is one key image sighted in a chunk, with the spent
// context it was observed under.
type KeyImageObservation struct {
	KeyImage curve.KeyImage
	Spent    enote.SpentContext
}

// ChunkResult is the chunk processor's output: every record recovered
// from the chunk's transactions, keyed stably by (tx id, enote tx index)
// via the order records are appended in, plus every key image sighted,
// tagged by which protocol's input carried it.
type ChunkResult struct {
	LegacyIntermediate []enote.ContextualLegacyIntermediateRecord
	LegacyFull         []enote.ContextualLegacyFullRecord
	Seraphis           []enote.ContextualSeraphisRecord
	LegacyKeyImages    []KeyImageObservation
	SeraphisKeyImages  []KeyImageObservation
	LegacyFromSelfSend []spscan.LegacyKeyImageCacheEntry
}

// Processor bundles the per-wallet material both scan passes need.
type Processor struct {
	Adapter    curve.Adapter
	LegacyKeys legacyscan.Keys
	ViewBal    spscan.ViewBalanceKey
	FindPriv   curve.Scalar
	Candidates []enote.JamtisAddressIndex
	Extra      ExtraExtractor
	// Policy, if set, short-circuits legacy scanning past its
	// FirstSpOnlyBlock-1 and seraphis scanning before its
	// FirstSpAllowedBlock (spec.md §4.4's last paragraph). A nil Policy
	// runs both passes unconditionally, e.g. for tests that never need the
	// transition watermarks.
	Policy *protocol.TransitionPolicy
	// Logger receives per-enote trace output; a nil Logger disables it.
	Logger log.Logger
}

// logLegacyRejects traces every output in tx that ScanTx considered but
// did not accept, by index. ScanTx itself reports only hits, so this
// diffs the accepted set against the transaction's full output list.
func (p Processor) logLegacyRejects(tx ledger.TxData, accepted []legacyscan.Result) {
	if p.Logger == nil || len(accepted) == len(tx.Outputs) {
		return
	}
	hit := make(map[int]bool, len(accepted))
	for _, r := range accepted {
		hit[r.OutputIndex] = true
	}
	for i := range tx.Outputs {
		if !hit[i] {
			p.Logger.Trace("legacy enote rejected", "tx", tx.TxID, "output", i)
		}
	}
}

func (p Processor) shouldRunLegacyScan(tx ledger.TxData) bool {
	if p.Policy == nil {
		return true
	}
	height, confirmed := tx.BlockIndex.Height()
	if !confirmed {
		return true // mempool txs aren't height-gated yet
	}
	return p.Policy.ShouldRunLegacyScan(height)
}

func (p Processor) shouldRunSeraphisScan(tx ledger.TxData) bool {
	if p.Policy == nil {
		return true
	}
	height, confirmed := tx.BlockIndex.Height()
	if !confirmed {
		return true
	}
	return p.Policy.ShouldRunSeraphisScan(height)
}

// ProcessChunk runs both scan pipelines over one chunk's transactions and
// assembles a ChunkResult. priorOwnedKeyImages seeds the seraphis
// self-send pass's ownership set (spec.md §4.2.4); callers typically pass
// the store's already-tracked key images here across chunk boundaries.
func (p Processor) ProcessChunk(chunk ledger.Chunk, priorOwnedKeyImages []curve.KeyImage) (ChunkResult, error) {
	var result ChunkResult

	if p.Logger != nil {
		p.Logger.Trace("processing chunk", "start", chunk.StartIndex, "txs", len(chunk.Txs))
	}

	for _, tx := range chunk.Txs {
		if p.shouldRunLegacyScan(tx) {
			origin := originContextFor(tx)
			legacyResults := legacyscan.ScanTx(p.Adapter, p.LegacyKeys, p.Extra.LegacyMemo(tx), tx.Outputs)
			p.logLegacyRejects(tx, legacyResults)
			for _, r := range legacyResults {
				o := origin
				o.EnoteTxIndex = r.OutputIndex
				if r.KeyImage != nil {
					result.LegacyFull = append(result.LegacyFull, enote.ContextualLegacyFullRecord{
						Record: enote.LegacyFullRecord{LegacyIntermediateRecord: r.Intermediate, KeyImage: *r.KeyImage},
						Origin: o,
						Spent:  enote.UnspentContext,
					})
				} else {
					result.LegacyIntermediate = append(result.LegacyIntermediate, enote.ContextualLegacyIntermediateRecord{
						Record: r.Intermediate,
						Origin: o,
					})
				}
			}
		}

		// Key images are always tagged regardless of whether the legacy
		// output scan ran: existing legacy key images may still appear as
		// inputs past first_sp_only_block (spec.md §4.4).
		for _, in := range tx.InputKeyImages {
			spent := spentContextFor(tx)
			switch in.Protocol {
			case ledger.ProtocolLegacy:
				spent.SpendingTx = enote.SpendingProtocolLegacy
				result.LegacyKeyImages = append(result.LegacyKeyImages, KeyImageObservation{KeyImage: in.KeyImage, Spent: spent})
			case ledger.ProtocolSeraphis:
				spent.SpendingTx = enote.SpendingProtocolSeraphis
				result.SeraphisKeyImages = append(result.SeraphisKeyImages, KeyImageObservation{KeyImage: in.KeyImage, Spent: spent})
			}
		}
	}

	seraphisResults, err := spscan.ResolveChunk(
		p.Adapter, p.ViewBal, p.FindPriv, p.Candidates, chunk.Txs,
		p.Extra.SeraphisEphemeralPubkeys, priorOwnedKeyImages,
	)
	if err != nil {
		return ChunkResult{}, err
	}

	txByID := make(map[enote.TxID]ledger.TxData, len(chunk.Txs))
	for _, tx := range chunk.Txs {
		txByID[tx.TxID] = tx
	}
	for _, txRes := range seraphisResults {
		tx := txByID[txRes.TxID]
		origin := originContextFor(tx)
		for _, pr := range txRes.Records {
			o := origin
			o.EnoteTxIndex = pr.OutputIndex
			result.Seraphis = append(result.Seraphis, enote.ContextualSeraphisRecord{
				Record: pr.Record,
				Origin: o,
				Spent:  enote.UnspentContext,
			})
		}
		if txRes.LegacyCache != nil {
			result.LegacyFromSelfSend = append(result.LegacyFromSelfSend, *txRes.LegacyCache)
		}
	}

	return result, nil
}

// KeyImagesOnlyChunk runs just the key-image tagging pass over a chunk,
// skipping both output-recovery pipelines entirely (spec.md §4.3.4 step 4:
// "the scan ignores new enotes, only collecting key-image sets"). It is
// the processing primitive the legacy key-image import cycle's
// key-image-only re-scan uses to apply spent contexts to records promoted
// by the import without re-running full output recovery.
func (p Processor) KeyImagesOnlyChunk(chunk ledger.Chunk) ChunkResult {
	var result ChunkResult
	for _, tx := range chunk.Txs {
		for _, in := range tx.InputKeyImages {
			spent := spentContextFor(tx)
			switch in.Protocol {
			case ledger.ProtocolLegacy:
				spent.SpendingTx = enote.SpendingProtocolLegacy
				result.LegacyKeyImages = append(result.LegacyKeyImages, KeyImageObservation{KeyImage: in.KeyImage, Spent: spent})
			case ledger.ProtocolSeraphis:
				spent.SpendingTx = enote.SpendingProtocolSeraphis
				result.SeraphisKeyImages = append(result.SeraphisKeyImages, KeyImageObservation{KeyImage: in.KeyImage, Spent: spent})
			}
		}
	}
	return result
}

func originStatusFor(tx ledger.TxData) enote.OriginStatus {
	if tx.BlockIndex.IsConfirmed() {
		return enote.OriginOnchain
	}
	return enote.OriginUnconfirmed
}

func originContextFor(tx ledger.TxData) enote.OriginContext {
	return enote.OriginContext{
		BlockIndex:     tx.BlockIndex,
		BlockTimestamp: tx.Timestamp,
		TxID:           tx.TxID,
		Status:         originStatusFor(tx),
		MemoBlob:       tx.ExtraBlob,
	}
}

func spentContextFor(tx ledger.TxData) enote.SpentContext {
	status := enote.SpentUnconfirmed
	if tx.BlockIndex.IsConfirmed() {
		status = enote.SpentOnchain
	}
	return enote.SpentContext{
		BlockIndex:     tx.BlockIndex,
		BlockTimestamp: tx.Timestamp,
		TxID:           tx.TxID,
		Status:         status,
	}
}
