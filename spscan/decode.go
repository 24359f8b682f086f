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
	"encoding/binary"
	"errors"

	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/enote"
)

// ErrMalformedEnote mirrors legacyscan.ErrMalformedEnote for the seraphis
// side: the per-enote commitment-mismatch case of spec.md §7's
// MalformedEnote policy (skip, don't fail the chunk).
var ErrMalformedEnote = errors.New("spscan: malformed enote (commitment mismatch)")

// DecodeAmount recovers amount and mask for a SeraphisV1 enote given its
// Diffie-Hellman key D, using the same XOR-encoded-amount-plus-commitment
// scheme as legacy V3/V5 (spec.md §3.2 groups seraphis and legacy amount
// encoding as "analogous forms").
func DecodeAmount(a curve.Adapter, v enote.SeraphisV1, d curve.XPoint) (amount uint64, mask curve.Scalar, err error) {
	db := d.Bytes()
	mask = a.HashToScalar("sp_commitment_mask", db[:])
	amountMask := a.HashTo32("sp_amount", db[:])

	var amountBytes [8]byte
	for i := range amountBytes {
		amountBytes[i] = v.EncA[i] ^ amountMask[i]
	}
	amount = binary.LittleEndian.Uint64(amountBytes[:])

	if !a.Commit(mask, amount).Equal(v.C) {
		return 0, curve.Scalar{}, ErrMalformedEnote
	}
	return amount, mask, nil
}

// EncryptAmount is the encoding counterpart of DecodeAmount, used by test
// fixtures to build well-formed SeraphisV1 enotes.
func EncryptAmount(a curve.Adapter, d curve.XPoint, amount uint64) (mask curve.Scalar, encA [8]byte, commitment curve.Point) {
	db := d.Bytes()
	mask = a.HashToScalar("sp_commitment_mask", db[:])
	amountMask := a.HashTo32("sp_amount", db[:])

	var amountBytes [8]byte
	binary.LittleEndian.PutUint64(amountBytes[:], amount)
	for i := range encA {
		encA[i] = amountBytes[i] ^ amountMask[i]
	}
	commitment = a.Commit(mask, amount)
	return
}
