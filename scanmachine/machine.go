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

package scanmachine

import (
	"context"

	"github.com/xmrcore/enotescan/chunkproc"
	"github.com/xmrcore/enotescan/ledger"
	"github.com/xmrcore/enotescan/log"
	"github.com/xmrcore/enotescan/store"
)

// Machine drives one scanning session (spec.md §4.1). It is not safe for
// concurrent use; a session owns the only thread of control until Run
// returns.
type Machine struct {
	Ledger    ledger.Adapter
	Processor chunkproc.Processor
	Store     *store.Store
	Cfg       Config
	// Logger receives state-transition and reorg diagnostics; a nil Logger
	// is replaced by log.New() so every Machine always logs through this
	// package, never fmt.Println.
	Logger log.Logger

	state  State
	marker contiguityMarker

	desiredStart uint64
	actualStart  uint64

	partialscanAttempts int
	fullscanAttempts    int
}

// New builds a Machine ready to scan starting at desiredStart (typically
// the store's refresh_index on a resumed session, or 0 for a fresh one).
func New(l ledger.Adapter, p chunkproc.Processor, s *store.Store, cfg Config, desiredStart uint64) *Machine {
	return &Machine{
		Ledger:       l,
		Processor:    p,
		Store:        s,
		Cfg:          cfg,
		state:        StateStart,
		desiredStart: desiredStart,
		actualStart:  desiredStart,
	}
}

func (m *Machine) State() State { return m.state }

func (m *Machine) logger() log.Logger {
	if m.Logger == nil {
		m.Logger = log.New()
	}
	return m.Logger
}

// Run drives the machine from START to a terminal state: DONE, FAIL, or
// ABORTED (spec.md §4.1's state diagram). It returns the terminal state
// and, for FAIL, the error that caused it.
func (m *Machine) Run(ctx context.Context) (State, error) {
	m.state = StateStart
	m.actualStart = m.desiredStart
	m.logger().Info("scan session starting", "desiredStart", m.desiredStart)

	if err := m.Ledger.BeginScanningFromIndex(ctx, m.actualStart, m.Cfg.MaxChunkSizeHint); err != nil {
		if m.Ledger.IsAborted() {
			m.state = StateAborted
			return m.state, nil
		}
		m.state = StateFail
		return m.state, err
	}

	m.state = StateScanningOnchain
	for {
		switch m.state {
		case StateScanningOnchain:
			next, err := m.runOnchainLoop(ctx)
			if err != nil {
				m.state = StateFail
				return m.state, err
			}
			m.state = next

		case StateScanningNonledger:
			next, err := m.runNonledgerLoop(ctx)
			if err != nil {
				m.state = StateFail
				return m.state, err
			}
			m.state = next

		case StateNeedPartialscan:
			next, err := m.handlePartialscan(ctx)
			if err != nil {
				m.state = StateFail
				return m.state, err
			}
			m.state = next

		case StateNeedFullscan:
			next, err := m.handleFullscan(ctx)
			if err != nil {
				m.state = StateFail
				return m.state, err
			}
			m.state = next

		case StateDone, StateFail, StateAborted:
			m.logger().Info("scan session finished", "state", m.state.String())
			return m.state, nil

		default:
			m.state = StateFail
			return m.state, nil
		}
	}
}

// runOnchainLoop implements spec.md §4.1's onchain loop. It returns
// StateScanningNonledger once the ledger tip is reached, or
// StateNeedPartialscan/StateNeedFullscan on a detected reorg.
func (m *Machine) runOnchainLoop(ctx context.Context) (State, error) {
	for {
		chunk, err := m.Ledger.GetOnchainChunk(ctx)
		if err != nil {
			if m.Ledger.IsAborted() {
				return StateAborted, nil
			}
			return StateFail, err
		}
		if m.Ledger.IsAborted() {
			return StateAborted, nil
		}

		if !m.marker.matches(chunk.PrefixBlockID) {
			m.logger().Warn("contiguity mismatch detected", "actualStart", m.actualStart)
			return StateNeedPartialscan, nil
		}

		if err := m.commitChunk(chunk, true); err != nil {
			return StateFail, err
		}

		if len(chunk.BlockIDs) == 0 {
			return StateScanningNonledger, nil
		}
	}
}

// runNonledgerLoop implements spec.md §4.1's non-ledger loop: scan the
// mempool snapshot, detect a reorg via a mempool tx whose input key image
// was already confirmed-spent by a different tx, then re-enter the
// onchain loop once as a bounded follow-up to catch anything promoted to
// a block during the non-ledger scan.
func (m *Machine) runNonledgerLoop(ctx context.Context) (State, error) {
	chunk, err := m.Ledger.GetNonledgerChunk(ctx)
	if err != nil {
		if m.Ledger.IsAborted() {
			return StateAborted, nil
		}
		return StateFail, err
	}
	if m.Ledger.IsAborted() {
		return StateAborted, nil
	}

	if m.mempoolConflictsWithConfirmedSpend(chunk) {
		m.logger().Warn("mempool conflict with confirmed spend detected")
		return StateNeedPartialscan, nil
	}

	if err := m.commitChunk(chunk, false); err != nil {
		return StateFail, err
	}

	// Bounded follow-up: one more onchain pass to catch txs promoted to a
	// block during the non-ledger scan.
	next, err := m.runOnchainLoop(ctx)
	if err != nil {
		return StateFail, err
	}
	if next == StateScanningNonledger {
		return StateDone, nil
	}
	return next, nil
}

// mempoolConflictsWithConfirmedSpend reports whether chunk references a
// key image already on record as confirmed-spent by some other tx — the
// signature spec.md §4.1 describes for a reorg surfacing through the
// mempool.
func (m *Machine) mempoolConflictsWithConfirmedSpend(chunk ledger.Chunk) bool {
	for _, tx := range chunk.Txs {
		for _, in := range tx.InputKeyImages {
			if txID, ok := m.Store.ConfirmedSpendingTx(in.KeyImage); ok && txID != tx.TxID {
				return true
			}
		}
	}
	return false
}

func (m *Machine) commitChunk(chunk ledger.Chunk, scannedSeraphis bool) error {
	result, err := m.Processor.ProcessChunk(chunk, m.Store.OwnedKeyImages())
	if err != nil {
		return err
	}
	m.Store.CommitChunk(m.Processor.Adapter, chunk, result, scannedSeraphis, true)
	chunksProcessed.Inc(1)
	if marker, ok := markerAfter(chunk); ok {
		m.marker = marker
	}
	return nil
}

// handlePartialscan implements spec.md §4.1's NEED_PARTIALSCAN response.
// Per §7's error table, exhausting the partialscan attempt budget
// escalates to NEED_FULLSCAN rather than failing outright — the global
// fullscan attempt counter is what ultimately bounds the retry loop (a
// resolution of the prose/table tension documented in DESIGN.md).
func (m *Machine) handlePartialscan(ctx context.Context) (State, error) {
	reorgsTotal.Inc(1)
	m.partialscanAttempts++
	if m.partialscanAttempts > m.Cfg.MaxPartialscanAttempts {
		m.logger().Warn("partialscan attempts exhausted, escalating to fullscan")
		m.partialscanAttempts = 0
		return StateNeedFullscan, nil
	}

	if m.actualStart > m.Cfg.ReorgAvoidanceIncrement {
		m.actualStart -= m.Cfg.ReorgAvoidanceIncrement
	} else {
		m.actualStart = 0
	}
	m.marker = contiguityMarker{}
	m.logger().Info("retrying from partialscan rollback point", "actualStart", m.actualStart)

	if err := m.Ledger.BeginScanningFromIndex(ctx, m.actualStart, m.Cfg.MaxChunkSizeHint); err != nil {
		if m.Ledger.IsAborted() {
			return StateAborted, nil
		}
		return StateFail, err
	}
	return StateScanningOnchain, nil
}

// handleFullscan implements spec.md §4.1's NEED_FULLSCAN response: lower
// actual_start to the store's refresh_index and retry from scratch,
// bounded by the global fullscan attempt counter.
func (m *Machine) handleFullscan(ctx context.Context) (State, error) {
	reorgsTotal.Inc(1)
	m.fullscanAttempts++
	if m.fullscanAttempts > m.Cfg.MaxFullscanAttempts {
		m.logger().Error("fullscan attempts exhausted")
		return StateFail, ErrFullscanAttemptsExhausted
	}

	m.actualStart, _ = m.Store.RefreshIndex().Height()
	m.marker = contiguityMarker{}
	m.logger().Info("retrying from fullscan rollback point", "actualStart", m.actualStart)

	if err := m.Ledger.BeginScanningFromIndex(ctx, m.actualStart, m.Cfg.MaxChunkSizeHint); err != nil {
		if m.Ledger.IsAborted() {
			return StateAborted, nil
		}
		return StateFail, err
	}
	return StateScanningOnchain, nil
}
