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
	"github.com/xmrcore/enotescan/enote"
	"github.com/xmrcore/enotescan/metrics"
)

// Registered once at package init, the way scanmachine declares its own
// package-level counters.
var balanceQueriesTotal = metrics.NewRegisteredCounter("store_balance_queries_total", "Balance calls served by an enote store")

// ExclusionFlag is a balance-query filter beyond origin/spent status
// (spec.md §4.3.3).
type ExclusionFlag int

const (
	// ExcludeLegacyIntermediate drops view-only legacy records that have
	// no key image yet.
	ExcludeLegacyIntermediate ExclusionFlag = iota
	// ExcludeLedgerLocked drops records not yet unlocked per I6.
	ExcludeLedgerLocked
)

// BalanceQuery selects which records contribute to a balance figure.
type BalanceQuery struct {
	AllowedOrigin  map[enote.OriginStatus]bool
	AllowedSpent   map[enote.SpentStatus]bool
	Exclude        map[ExclusionFlag]bool
	TopBlock       uint64
}

func (q BalanceQuery) excludes(f ExclusionFlag) bool { return q.Exclude != nil && q.Exclude[f] }

// isLocked implements I6: locked iff
// origin.block_index + max(default_spendable_age, unlock_time - origin.block_index) > top_block.
func (s *Store) isLocked(origin enote.OriginContext, topBlock uint64) bool {
	height, confirmed := origin.BlockIndex.Height()
	if !confirmed {
		return true // unconfirmed enotes are never spendable yet
	}
	lockSpan := s.cfg.DefaultSpendableAge
	if origin.UnlockTime > height {
		if d := origin.UnlockTime - height; d > lockSpan {
			lockSpan = d
		}
	}
	return height+lockSpan > topBlock
}

// Balance sums amounts over every stored record matching q (spec.md
// §4.3.3). A record contributes iff its origin status is allowed, its
// spent status is NOT in the allowed-spent set (otherwise it is treated
// as already deducted), and no applicable exclusion flag applies.
func (s *Store) Balance(q BalanceQuery) uint64 {
	balanceQueriesTotal.Inc(1)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var total uint64
	for id, rec := range s.legacyIntermediateRecords {
		if q.excludes(ExcludeLegacyIntermediate) {
			continue
		}
		if !q.AllowedOrigin[rec.Origin.Status] {
			continue
		}
		if q.excludes(ExcludeLedgerLocked) && s.isLocked(rec.Origin, q.TopBlock) {
			continue
		}
		_ = id
		total += rec.Record.Amount
	}
	for id, rec := range s.legacyRecords {
		if !q.AllowedOrigin[rec.Origin.Status] {
			continue
		}
		if q.AllowedSpent[rec.Spent.Status] {
			continue
		}
		if q.excludes(ExcludeLedgerLocked) && s.isLocked(rec.Origin, q.TopBlock) {
			continue
		}
		_ = id
		total += rec.Record.Amount
	}
	for key, rec := range s.spRecords {
		if !q.AllowedOrigin[rec.Origin.Status] {
			continue
		}
		if q.AllowedSpent[rec.Spent.Status] {
			continue
		}
		if q.excludes(ExcludeLedgerLocked) && s.isLocked(rec.Origin, q.TopBlock) {
			continue
		}
		_ = key
		total += rec.Record.Amount
	}
	return total
}

// AllOriginStatuses builds an AllowedOrigin set covering every origin
// status, a convenient base for BalanceQuery construction.
func AllOriginStatuses() map[enote.OriginStatus]bool {
	return map[enote.OriginStatus]bool{
		enote.OriginOffchain:    true,
		enote.OriginUnconfirmed: true,
		enote.OriginOnchain:     true,
	}
}

// AllSpentStatuses returns every status that should be treated as already
// deducted from a balance figure — everything except Unspent, which is
// never itself a reason to exclude a record (see Balance's doc comment).
func AllSpentStatuses() map[enote.SpentStatus]bool {
	return map[enote.SpentStatus]bool{
		enote.SpentOffchain:    true,
		enote.SpentUnconfirmed: true,
		enote.SpentOnchain:     true,
	}
}
