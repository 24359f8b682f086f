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

	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/enote"
)

func jamtisIndexBytes(j enote.JamtisAddressIndex) [8]byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(j))
	return b
}

// ViewBalanceKey is the seraphis full-view-balance key. Unlike legacy's
// view key, possessing it alone is sufficient to derive seraphis key
// images (spec.md §4.3.4 contrasts this with legacy's two-phase import
// cycle, which exists only because legacy view-only wallets cannot
// compute key images at all).
type ViewBalanceKey struct {
	Priv curve.Scalar
}

// viewExtensions derives the three view-extension scalars a seraphis
// output's owner needs to reconstruct spend authority over it, bound to
// the output's DH key and destination address index.
func viewExtensions(a curve.Adapter, vb ViewBalanceKey, d curve.XPoint, j enote.JamtisAddressIndex) (g, x, u curve.Scalar) {
	db := d.Bytes()
	vbb := vb.Priv.Bytes()
	jb := jamtisIndexBytes(j)
	g = a.HashToScalar("view_ext_g", db[:], jb[:], vbb[:])
	x = a.HashToScalar("view_ext_x", db[:], jb[:], vbb[:])
	u = a.HashToScalar("view_ext_u", db[:], jb[:], vbb[:])
	return
}

// keyImageFor computes the key image reachable once all three view
// extensions are known, composing them into a single spend-equivalent
// scalar before the standard KI = s·Hp(Ko) construction (spec.md §3.1).
func keyImageFor(a curve.Adapter, g, x, u curve.Scalar, ko curve.Point) curve.KeyImage {
	composite := g.Add(x).Add(u)
	return a.DeriveKeyImage(composite, ko)
}
