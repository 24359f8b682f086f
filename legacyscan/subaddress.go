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

// Package legacyscan implements the legacy (CryptoNote/RingCT) view-key
// scan pass: ephemeral-key derivation, the view-tag gate, the spend-key
// (including subaddress) check, and amount/mask recovery for all five
// legacy enote variants (spec.md §4.2.1).
package legacyscan

import (
	"encoding/binary"

	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/enote"
)

// SubaddressTable maps a nominal spend-key component to the subaddress it
// belongs to, built once per wallet and reused across every scanned tx.
// Grounded on original_source/src/seraphis_core/legacy_core_utils.h's
// make_legacy_subaddress_extension, which derives each subaddress's public
// spend-key component the same way BuildSubaddressTable does here.
type SubaddressTable struct {
	byComponent map[[32]byte]enote.SubaddressIndex
}

// BuildSubaddressTable precomputes the spend-key component for every
// (major, minor) pair in [0, majorCount) x [0, minorCount), so the scan
// loop's spend-key check (spec.md §4.2.1 step 2) is a map lookup.
func BuildSubaddressTable(a curve.Adapter, viewPriv curve.Scalar, spendPub curve.Point, majorCount, minorCount uint32) SubaddressTable {
	t := SubaddressTable{byComponent: make(map[[32]byte]enote.SubaddressIndex)}
	for major := uint32(0); major < majorCount; major++ {
		for minor := uint32(0); minor < minorCount; minor++ {
			if major == 0 && minor == 0 {
				continue // base address, handled separately
			}
			comp := SubaddressSpendComponent(a, viewPriv, spendPub, major, minor)
			t.byComponent[comp.Bytes()] = enote.SubaddressIndex{Major: major, Minor: minor}
		}
	}
	return t
}

// SubaddressSpendComponent computes subaddress (major, minor)'s public
// spend-key component: K_s + H_n("subaddr" ∥ k_v ∥ major ∥ minor)·G.
func SubaddressSpendComponent(a curve.Adapter, viewPriv curve.Scalar, spendPub curve.Point, major, minor uint32) curve.Point {
	var idx [8]byte
	binary.LittleEndian.PutUint32(idx[:4], major)
	binary.LittleEndian.PutUint32(idx[4:], minor)
	vb := viewPriv.Bytes()
	m := a.HashToScalar("subaddr", vb[:], idx[:])
	return spendPub.Add(a.ScalarMulBase(m))
}

// Lookup reports which subaddress (if any) a nominal spend-key component
// belongs to.
func (t SubaddressTable) Lookup(nominal curve.Point) (enote.SubaddressIndex, bool) {
	idx, ok := t.byComponent[nominal.Bytes()]
	return idx, ok
}

// Keys bundles the view-key material a legacy scan needs. SpendPriv is nil
// for a view-only wallet (the common case during scanning — key images are
// recovered later via the import cycle, spec.md §4.3.4).
type Keys struct {
	ViewPriv    curve.Scalar
	SpendPub    curve.Point
	SpendPriv   *curve.Scalar
	Subaddresses SubaddressTable
}
