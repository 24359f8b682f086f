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

// Package enote defines the closed set of enote variants (spec.md §3.2) as
// a tagged union expressed through an interface plus per-variant structs,
// their context records (§3.3), and the legacy enote identifier (§3.4).
// There is no dynamic dispatch beyond the interface itself: every caller
// that needs variant-specific behavior does so with a type switch.
package enote

import "github.com/xmrcore/enotescan/curve"

// Kind identifies which of the seven enote variants a value holds.
type Kind int

const (
	KindLegacyV1 Kind = iota
	KindLegacyV2
	KindLegacyV3
	KindLegacyV4
	KindLegacyV5
	KindSeraphisCoinbase
	KindSeraphisV1
)

func (k Kind) IsLegacy() bool {
	return k == KindLegacyV1 || k == KindLegacyV2 || k == KindLegacyV3 || k == KindLegacyV4 || k == KindLegacyV5
}

func (k Kind) IsSeraphis() bool { return k == KindSeraphisCoinbase || k == KindSeraphisV1 }

func (k Kind) HasViewTag() bool { return k == KindLegacyV4 || k == KindLegacyV5 || k == KindSeraphisV1 }

// Enote is the closed sum type of on-chain output representations. Every
// variant provides its one-time address and a way to obtain its amount
// commitment; for cleartext-amount variants the commitment is computed on
// demand as 0·G + a·H per spec.md §3.2.
type Enote interface {
	Kind() Kind
	OnetimeAddress() curve.Point
	AmountCommitment(a curve.Adapter) curve.Point
}

// LegacyV1 is a coinbase enote: one-time address plus cleartext amount.
type LegacyV1 struct {
	Ko     curve.Point
	Amount uint64
}

func (e LegacyV1) Kind() Kind                    { return KindLegacyV1 }
func (e LegacyV1) OnetimeAddress() curve.Point   { return e.Ko }
func (e LegacyV1) AmountCommitment(a curve.Adapter) curve.Point {
	return a.Commit(zeroBlinding(), e.Amount)
}

// zeroBlinding returns the scalar 0. ScalarFromBytes would clamp the zero
// encoding into a nonzero scalar, so the canonical parse is used instead.
func zeroBlinding() curve.Scalar {
	s, _ := curve.ScalarFromCanonicalBytes([32]byte{})
	return s
}

// LegacyV2 carries a 32-byte encoded mask and amount alongside an explicit
// Pedersen commitment.
type LegacyV2 struct {
	Ko, C curve.Point
	EncX  curve.Scalar
	EncA  curve.Scalar
}

func (e LegacyV2) Kind() Kind                    { return KindLegacyV2 }
func (e LegacyV2) OnetimeAddress() curve.Point   { return e.Ko }
func (e LegacyV2) AmountCommitment(curve.Adapter) curve.Point { return e.C }

// LegacyV3 uses a deterministic mask and an 8-byte encoded amount.
type LegacyV3 struct {
	Ko, C curve.Point
	EncA  [8]byte
}

func (e LegacyV3) Kind() Kind                    { return KindLegacyV3 }
func (e LegacyV3) OnetimeAddress() curve.Point   { return e.Ko }
func (e LegacyV3) AmountCommitment(curve.Adapter) curve.Point { return e.C }

// LegacyV4 is a coinbase enote carrying a view tag.
type LegacyV4 struct {
	Ko      curve.Point
	Amount  uint64
	ViewTag byte
}

func (e LegacyV4) Kind() Kind                  { return KindLegacyV4 }
func (e LegacyV4) OnetimeAddress() curve.Point { return e.Ko }
func (e LegacyV4) AmountCommitment(a curve.Adapter) curve.Point {
	return a.Commit(zeroBlinding(), e.Amount)
}

// LegacyV5 is LegacyV3 with a view tag.
type LegacyV5 struct {
	Ko, C   curve.Point
	EncA    [8]byte
	ViewTag byte
}

func (e LegacyV5) Kind() Kind                    { return KindLegacyV5 }
func (e LegacyV5) OnetimeAddress() curve.Point   { return e.Ko }
func (e LegacyV5) AmountCommitment(curve.Adapter) curve.Point { return e.C }

// SeraphisCoinbase is a seraphis coinbase enote: one-time address plus
// cleartext amount.
type SeraphisCoinbase struct {
	Ko     curve.Point
	Amount uint64
}

func (e SeraphisCoinbase) Kind() Kind                  { return KindSeraphisCoinbase }
func (e SeraphisCoinbase) OnetimeAddress() curve.Point { return e.Ko }
func (e SeraphisCoinbase) AmountCommitment(a curve.Adapter) curve.Point {
	return a.Commit(zeroBlinding(), e.Amount)
}

// SeraphisV1 is the standard seraphis output: encoded amount, explicit
// commitment, a view tag, and a ciphered address tag used by the
// find-received scan's plain pass to recover the destination address
// index (spec.md §4.2.3). Self-send outputs carry the same wire shape but
// an address tag that will not decipher to a recognizable index, which is
// exactly why the self-send pass (spec.md §4.2.3) exists.
type SeraphisV1 struct {
	Ko, C   curve.Point
	EncA    [8]byte
	ViewTag byte
	AddrTag [16]byte
}

func (e SeraphisV1) Kind() Kind                    { return KindSeraphisV1 }
func (e SeraphisV1) OnetimeAddress() curve.Point   { return e.Ko }
func (e SeraphisV1) AmountCommitment(curve.Adapter) curve.Point { return e.C }
