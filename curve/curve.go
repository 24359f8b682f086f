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

// Package curve exposes immutable value types for the twisted-Edwards scalar
// field and group used by both the legacy and seraphis protocols, plus the
// auxiliary Montgomery-form curve used for seraphis ephemeral-key
// Diffie-Hellman. All arithmetic is delegated to filippo.io/edwards25519;
// this package only adds the domain vocabulary (KeyImage, torsion clearing,
// canonical encodings) spec.md §3.1/§6 requires on top of it.
package curve

import (
	"crypto/subtle"
	"errors"

	"filippo.io/edwards25519"
)

// Scalar is an integer mod the group order ℓ (≈2²⁵²). Immutable value type.
type Scalar struct {
	s *edwards25519.Scalar
}

// Point is a curve point on the twisted Edwards curve. Immutable value type.
type Point struct {
	p *edwards25519.Point
}

// XPoint is a point on the auxiliary Montgomery-form curve (birationally
// equivalent u-coordinate), used only for seraphis ephemeral-key DH.
type XPoint struct {
	u [32]byte
}

// KeyImage is a curve point canonically derived from a spending key and its
// one-time address; it uniquely identifies an enote for double-spend
// purposes. Compare key images via P.Equal and key maps by P.Bytes(),
// because curve points do not have a stable Go comparison operator.
type KeyImage struct {
	P Point
}

var ErrInvalidEncoding = errors.New("curve: invalid canonical encoding")

// ScalarFromBytes maps an arbitrary 32-byte little-endian value into the
// scalar field via SetBytesWithClamping (X25519-style bit clamping of the
// top/bottom bits, not a general reduction mod ℓ). Callers that need a
// value uniformly distributed mod ℓ from wide hash output should use
// SetUniformBytes directly instead; this helper exists for the narrower
// case of deriving a scalar from already-hashed, fixed-width material where
// clamping is an accepted convention.
func ScalarFromBytes(b [32]byte) Scalar {
	s, err := edwards25519.NewScalar().SetBytesWithClamping(append([]byte{}, b[:]...))
	if err != nil {
		// SetBytesWithClamping never errors on a 32-byte input; defensive
		// guard against a future edwards25519 API change only.
		panic(err)
	}
	return Scalar{s: s}
}

// ScalarFromCanonicalBytes parses a canonical (already-reduced) scalar
// encoding, rejecting non-canonical representations.
func ScalarFromCanonicalBytes(b [32]byte) (Scalar, error) {
	s, err := edwards25519.NewScalar().SetCanonicalBytes(b[:])
	if err != nil {
		return Scalar{}, ErrInvalidEncoding
	}
	return Scalar{s: s}, nil
}

// Bytes returns the canonical little-endian encoding. The zero-value Scalar
// encodes as 32 zero bytes.
func (s Scalar) Bytes() [32]byte {
	var out [32]byte
	if s.s == nil {
		return out
	}
	copy(out[:], s.s.Bytes())
	return out
}

func (s Scalar) Add(o Scalar) Scalar { return Scalar{s: edwards25519.NewScalar().Add(s.s, o.s)} }
func (s Scalar) Sub(o Scalar) Scalar { return Scalar{s: edwards25519.NewScalar().Subtract(s.s, o.s)} }
func (s Scalar) Mul(o Scalar) Scalar { return Scalar{s: edwards25519.NewScalar().Multiply(s.s, o.s)} }

func (s Scalar) Equal(o Scalar) bool {
	return subtle.ConstantTimeCompare(s.s.Bytes(), o.s.Bytes()) == 1
}

// PointFromBytes parses a canonical compressed point encoding.
func PointFromBytes(b [32]byte) (Point, error) {
	p, err := new(edwards25519.Point).SetBytes(b[:])
	if err != nil {
		return Point{}, ErrInvalidEncoding
	}
	return Point{p: p}, nil
}

// Bytes returns the compressed encoding. The zero-value Point (no point
// set) encodes as 32 zero bytes.
func (p Point) Bytes() [32]byte {
	var out [32]byte
	if p.p == nil {
		return out
	}
	copy(out[:], p.p.Bytes())
	return out
}

func (p Point) Add(o Point) Point { return Point{p: new(edwards25519.Point).Add(p.p, o.p)} }

func (p Point) Sub(o Point) Point { return Point{p: new(edwards25519.Point).Subtract(p.p, o.p)} }

func (p Point) Negate() Point { return Point{p: new(edwards25519.Point).Negate(p.p)} }

func (p Point) ScalarMul(s Scalar) Point {
	return Point{p: new(edwards25519.Point).ScalarMult(s.s, p.p)}
}

func (p Point) Equal(o Point) bool {
	return subtle.ConstantTimeCompare(p.p.Bytes(), o.p.Bytes()) == 1
}

// BasepointMul computes s·G.
func BasepointMul(s Scalar) Point {
	return Point{p: new(edwards25519.Point).ScalarBaseMult(s.s)}
}

// TorsionClear multiplies by the cofactor to remove any small-subgroup
// component from a point parsed out of untrusted chain data, per
// original_source/src/fcmp_pp/fcmp_pp_crypto.h's use of cofactor-8 clearing.
func TorsionClear(p Point) Point {
	return Point{p: new(edwards25519.Point).MultByCofactor(p.p)}
}

// IsTorsionFree reports whether p has no small-subgroup component, i.e. is
// in the prime-order subgroup. Since gcd(8, ℓ) == 1, an 8·p-then-(1/8)
// round trip is lossless for a torsion-free point and lossy for one with a
// small-subgroup component, giving a membership test without a dedicated
// big-integer comparison against ℓ.
func IsTorsionFree(p Point) bool {
	cleared := new(edwards25519.Point).MultByCofactor(p.p)
	rescaled := new(edwards25519.Point).ScalarMult(edwards25519.NewScalar().Invert(cofactorScalar()), cleared)
	return p.Equal(Point{p: rescaled})
}

func cofactorScalar() *edwards25519.Scalar {
	var eight [32]byte
	eight[0] = 8
	s, err := edwards25519.NewScalar().SetCanonicalBytes(eight[:])
	if err != nil {
		panic(err)
	}
	return s
}

// Identity returns the curve's identity element (0·G).
func Identity() Point {
	return Point{p: edwards25519.NewIdentityPoint()}
}
