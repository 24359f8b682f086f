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
	"testing"

	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/enote"
)

// TestIdentifierCollisionSharesKeyImage is P1: two legacy full records
// sharing a Ko must derive equal key images, since a full record's key
// image is a function of Ko (and the wallet's keys) alone, never of
// amount — I5's duplicate-Ko fan-out never produces two owned enotes
// whose full records disagree on key image.
func TestIdentifierCollisionSharesKeyImage(t *testing.T) {
	a := curve.NewDefaultAdapter()
	s := New(testConfig(), nil)

	spendPriv := curve.ScalarFromBytes([32]byte{31})
	ko := a.ScalarMulBase(curve.ScalarFromBytes([32]byte{32}))
	ki := a.DeriveKeyImage(spendPriv, ko)

	full10 := enote.ContextualLegacyFullRecord{
		Record: enote.LegacyFullRecord{
			LegacyIntermediateRecord: enote.LegacyIntermediateRecord{
				Enote: enote.LegacyV1{Ko: ko, Amount: 10}, Amount: 10, Mask: curve.ScalarFromBytes([32]byte{}),
			},
			KeyImage: ki,
		},
		Origin: enote.OriginContext{BlockIndex: enote.ConfirmedAt(1), Status: enote.OriginOnchain},
		Spent:  enote.UnspentContext,
	}
	full20 := full10
	full20.Record.LegacyIntermediateRecord.Enote = enote.LegacyV1{Ko: ko, Amount: 20}
	full20.Record.LegacyIntermediateRecord.Amount = 20

	id10 := full10.Record.LegacyIntermediateRecord.Identifier(a)
	id20 := full20.Record.LegacyIntermediateRecord.Identifier(a)
	if id10 == id20 {
		t.Fatalf("expected distinct identifiers for distinct amounts sharing Ko")
	}

	s.upsertLegacyFullWithID(id10, full10)
	s.upsertLegacyFullWithID(id20, full20)

	rec10 := s.legacyRecords[id10]
	rec20 := s.legacyRecords[id20]
	if !rec10.Record.KeyImage.P.Equal(rec20.Record.KeyImage.P) {
		t.Fatalf("expected both records sharing Ko to carry equal key images")
	}

	// An intermediate record (not yet promoted) carries no key image at
	// all — the "neither has one" half of P1 holds by construction, since
	// enote.LegacyIntermediateRecord has no KeyImage field to disagree on.
	intermediate := makeLegacyIntermediate(a, ko, 30, 1)
	if _, promoted := s.legacyRecords[intermediate.Record.Identifier(a)]; promoted {
		t.Fatalf("fresh intermediate record must not already be a full record")
	}
}

// TestBalanceMonotonicOverOriginSet is P2: widening the allowed-origin set
// can only add records to a balance figure, never remove one, since the
// allowed-origin check is the only per-record gate that depends on origin
// status (spent/locked filters are unaffected by this widening).
func TestBalanceMonotonicOverOriginSet(t *testing.T) {
	a := curve.NewDefaultAdapter()
	s := New(testConfig(), nil)

	onchainKo := a.ScalarMulBase(curve.ScalarFromBytes([32]byte{41}))
	unconfirmedKo := a.ScalarMulBase(curve.ScalarFromBytes([32]byte{42}))

	onchain := makeLegacyIntermediate(a, onchainKo, 7, 1)
	s.upsertLegacyIntermediateWithID(onchain.Record.Identifier(a), onchain)

	unconfirmed := makeLegacyIntermediate(a, unconfirmedKo, 11, 1)
	unconfirmed.Origin = enote.OriginContext{BlockIndex: enote.UnconfirmedBlock, Status: enote.OriginUnconfirmed}
	s.upsertLegacyIntermediateWithID(unconfirmed.Record.Identifier(a), unconfirmed)

	onlyOnchain := BalanceQuery{
		AllowedOrigin: map[enote.OriginStatus]bool{enote.OriginOnchain: true},
		AllowedSpent:  AllSpentStatuses(),
		TopBlock:      1,
	}
	wider := onlyOnchain
	wider.AllowedOrigin = map[enote.OriginStatus]bool{enote.OriginOnchain: true, enote.OriginUnconfirmed: true}

	narrow := s.Balance(onlyOnchain)
	broad := s.Balance(wider)
	if narrow > broad {
		t.Fatalf("balance(O) must be <= balance(O union O'): got narrow=%d broad=%d", narrow, broad)
	}
	if narrow != 7 || broad != 18 {
		t.Fatalf("unexpected balances: narrow=%d broad=%d", narrow, broad)
	}

	// Widening AllowedSpent alone (the "S" side of P2's O,O',S) can only
	// shrink a balance figure, so it is covered separately; here we hold
	// it fixed to isolate the origin-set monotonicity claim.
}

// TestLockedFilterRespectsUnlockFormula is P5: a record only survives the
// ExcludeLedgerLocked filter once
// origin.block_index + max(default_age, unlock_delta) <= top_block — the
// test pins down both the default-age-dominant and unlock-time-dominant
// cases of I6's max().
func TestLockedFilterRespectsUnlockFormula(t *testing.T) {
	a := curve.NewDefaultAdapter()
	cfg := testConfig() // DefaultSpendableAge: 10
	s := New(cfg, nil)

	shortUnlock := enote.OriginContext{BlockIndex: enote.ConfirmedAt(100), Status: enote.OriginOnchain, UnlockTime: 102}
	longUnlock := enote.OriginContext{BlockIndex: enote.ConfirmedAt(100), Status: enote.OriginOnchain, UnlockTime: 150}

	cases := []struct {
		name     string
		origin   enote.OriginContext
		topBlock uint64
		locked   bool
	}{
		{"default-age dominates, still locked", shortUnlock, 105, true},  // span=max(10,2)=10 -> unlocks at 110
		{"default-age dominates, unlocked", shortUnlock, 110, false},
		{"unlock-time dominates, still locked", longUnlock, 140, true},  // span=max(10,50)=50 -> unlocks at 150
		{"unlock-time dominates, unlocked", longUnlock, 150, false},
	}

	for _, c := range cases {
		height, _ := c.origin.BlockIndex.Height()
		lockSpan := cfg.DefaultSpendableAge
		if d := c.origin.UnlockTime - height; c.origin.UnlockTime > height && d > lockSpan {
			lockSpan = d
		}
		wantLocked := height+lockSpan > c.topBlock
		if wantLocked != c.locked {
			t.Fatalf("%s: test table itself miscomputes the unlock formula", c.name)
		}
		if got := s.isLocked(c.origin, c.topBlock); got != c.locked {
			t.Fatalf("%s: isLocked=%v, want %v", c.name, got, c.locked)
		}
	}
}
