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

package legacyscan

import (
	"encoding/binary"

	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/enote"
)

// Result is one successfully recovered legacy enote from a single
// transaction. KeyImage is populated only when Keys.SpendPriv is non-nil.
type Result struct {
	OutputIndex int
	Intermediate enote.LegacyIntermediateRecord
	KeyImage    *curve.KeyImage
}

// ScanTx runs the full legacy view-scan + decode pipeline (spec.md §4.2.1)
// over one transaction's outputs. Malformed individual enotes are skipped,
// not fatal (spec.md §7 MalformedEnote policy); the additional-pubkey
// rejection (step 1) short-circuits the whole transaction.
func ScanTx(a curve.Adapter, keys Keys, memo Memo, outputs []enote.Enote) []Result {
	if len(memo.Additional) != 0 && len(memo.Additional) != len(outputs) {
		return nil // reject whole tx's additional-pubkey path
	}

	var results []Result
	for t, e := range outputs {
		res, ok := scanOutput(a, keys, memo, t, len(outputs), e)
		if ok {
			results = append(results, res)
		}
	}
	return results
}

func scanOutput(a curve.Adapter, keys Keys, memo Memo, t, outputCount int, e enote.Enote) (Result, bool) {
	r, ok := memo.ephemeralPubkeyFor(t, outputCount)
	if !ok {
		return Result{}, false
	}
	d := a.ScalarMulPoint(keys.ViewPriv, r)

	if e.Kind().HasViewTag() {
		want := viewTagOf(e)
		if a.DeriveViewTag(d, uint64(t)) != want {
			return Result{}, false
		}
	}

	koNomScalar := koExtension(a, d, t)
	koNom := e.OnetimeAddress().Sub(a.ScalarMulBase(koNomScalar))

	var subaddr *enote.SubaddressIndex
	switch {
	case koNom.Equal(keys.SpendPub):
		// base address; subaddr stays nil
	default:
		idx, found := keys.Subaddresses.Lookup(koNom)
		if !found {
			return Result{}, false
		}
		subaddr = &idx
	}

	amount, mask, err := DecodeAmount(a, e, d, t)
	if err != nil {
		return Result{}, false
	}

	intermediate := enote.LegacyIntermediateRecord{
		Enote:           e,
		Amount:          amount,
		Mask:            mask,
		SubaddressIndex: subaddr,
	}

	res := Result{OutputIndex: t, Intermediate: intermediate}
	if keys.SpendPriv != nil {
		ki := DeriveKeyImage(a, *keys.SpendPriv, keys.ViewPriv, subaddr, e.OnetimeAddress())
		res.KeyImage = &ki
	}
	return res, true
}

// koExtension computes H_n(D_t ∥ t), the scalar subtracted from Ko to
// recover the nominal spend-key component (spec.md §4.2.1 step 2).
func koExtension(a curve.Adapter, d curve.Point, t int) curve.Scalar {
	var idx [8]byte
	binary.LittleEndian.PutUint64(idx[:], uint64(t))
	db := d.Bytes()
	return a.HashToScalar("ko_extension", db[:], idx[:])
}

func viewTagOf(e enote.Enote) byte {
	switch v := e.(type) {
	case enote.LegacyV4:
		return v.ViewTag
	case enote.LegacyV5:
		return v.ViewTag
	default:
		return 0
	}
}

// DeriveKeyImage computes a legacy enote's key image from the base (or
// subaddress-extended) one-time secret, per
// original_source/src/seraphis_core/legacy_core_utils.h's
// make_legacy_subaddress_extension: when subaddr is non-nil the one-time
// secret gains the same subaddress extension scalar the spend-key check
// used to recognize the output.
func DeriveKeyImage(a curve.Adapter, spendPriv, viewPriv curve.Scalar, subaddr *enote.SubaddressIndex, ko curve.Point) curve.KeyImage {
	onetimeSecret := spendPriv
	if subaddr != nil {
		var idx [8]byte
		binary.LittleEndian.PutUint32(idx[:4], subaddr.Major)
		binary.LittleEndian.PutUint32(idx[4:], subaddr.Minor)
		vb := viewPriv.Bytes()
		ext := a.HashToScalar("subaddr", vb[:], idx[:])
		onetimeSecret = spendPriv.Add(ext)
	}
	return a.DeriveKeyImage(onetimeSecret, ko)
}
