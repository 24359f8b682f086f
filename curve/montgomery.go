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

package curve

import "golang.org/x/crypto/curve25519"

// XPointFromBytes wraps a raw 32-byte Montgomery u-coordinate, as carried by
// seraphis ephemeral pubkeys on the wire.
func XPointFromBytes(b [32]byte) XPoint { return XPoint{u: b} }

func (x XPoint) Bytes() [32]byte { return x.u }

// MontgomeryMul computes the X25519 scalar multiplication x_fr·R_t used by
// the seraphis find-received scan (spec.md §4.2.2) to derive the per-enote
// Diffie-Hellman key.
func MontgomeryMul(scalar Scalar, point XPoint) (XPoint, error) {
	var clamped [32]byte
	sb := scalar.Bytes()
	copy(clamped[:], sb[:])
	out, err := curve25519.X25519(clamped[:], point.u[:])
	if err != nil {
		return XPoint{}, err
	}
	var result [32]byte
	copy(result[:], out)
	return XPoint{u: result}, nil
}

// MontgomeryBasepointMul computes scalar·Gx on the Montgomery curve, used
// to derive a seraphis ephemeral pubkey R_t or a published finding-key
// component from its private scalar.
func MontgomeryBasepointMul(scalar Scalar) XPoint {
	var clamped [32]byte
	sb := scalar.Bytes()
	copy(clamped[:], sb[:])
	out, err := curve25519.X25519(clamped[:], curve25519.Basepoint)
	if err != nil {
		// curve25519.X25519 only errors on a low-order result; basepoint
		// multiplication by a clamped scalar never produces one.
		panic(err)
	}
	var result [32]byte
	copy(result[:], out)
	return XPoint{u: result}
}
