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

// Package fixture builds sender-side legacy and seraphis enotes for tests
// across the module: scanning engines don't construct transactions
// (spec.md §1 places tx construction out of scope), but exercising the
// scan passes needs well-formed wire data, so this package plays the role
// of the "sender" just well enough to produce decodable enotes.
package fixture

import (
	"encoding/binary"

	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/enote"
	"github.com/xmrcore/enotescan/legacyscan"
	"github.com/xmrcore/enotescan/spscan"
)

// Wallet is a deterministic test keypair set.
type Wallet struct {
	ViewPriv  curve.Scalar
	ViewPub   curve.Point
	SpendPriv curve.Scalar
	SpendPub  curve.Point
}

// NewWallet derives a reproducible wallet from a single byte seed so tests
// stay deterministic without needing real randomness.
func NewWallet(a curve.Adapter, seed byte) Wallet {
	var vb, sb [32]byte
	vb[0], vb[1] = seed, 1
	sb[0], sb[1] = seed, 2
	viewPriv := curve.ScalarFromBytes(vb)
	spendPriv := curve.ScalarFromBytes(sb)
	return Wallet{
		ViewPriv:  viewPriv,
		ViewPub:   a.ScalarMulBase(viewPriv),
		SpendPriv: spendPriv,
		SpendPub:  a.ScalarMulBase(spendPriv),
	}
}

// LegacyOutput is a built legacy enote plus the memo it travels with.
type LegacyOutput struct {
	Enote enote.Enote
	Memo  legacyscan.Memo
}

// spendComponent returns the destination's public spend-key component: the
// base SpendPub, or a subaddress's derived component.
func spendComponent(a curve.Adapter, w Wallet, subaddr *enote.SubaddressIndex) curve.Point {
	if subaddr == nil {
		return w.SpendPub
	}
	return legacyscan.SubaddressSpendComponent(a, w.ViewPriv, w.SpendPub, subaddr.Major, subaddr.Minor)
}

// BuildLegacyV5 constructs a view-tagged, encoded-amount legacy enote
// addressed to w (optionally at a subaddress), as output index t of
// outputCount total outputs, carrying amount.
func BuildLegacyV5(a curve.Adapter, w Wallet, subaddr *enote.SubaddressIndex, ephemeralSeed byte, t, outputCount int, amount uint64) LegacyOutput {
	var rb [32]byte
	rb[0], rb[1] = ephemeralSeed, 3
	r := curve.ScalarFromBytes(rb)
	R := a.ScalarMulBase(r)
	D := a.ScalarMulPoint(r, w.ViewPub)

	var idx [8]byte
	binary.LittleEndian.PutUint64(idx[:], uint64(t))
	db := D.Bytes()
	koExt := a.HashToScalar("ko_extension", db[:], idx[:])
	ko := a.ScalarMulBase(koExt).Add(spendComponent(a, w, subaddr))

	mask, encA, commitment := legacyscan.EncryptV3V5Amount(a, D, t, amount)
	_ = mask
	viewTag := a.DeriveViewTag(D, uint64(t))

	return LegacyOutput{
		Enote: enote.LegacyV5{Ko: ko, C: commitment, EncA: encA, ViewTag: viewTag},
		Memo:  legacyscan.Memo{Main: R},
	}
}

// BuildLegacyV1Coinbase constructs a cleartext-amount coinbase enote
// addressed to w's base address.
func BuildLegacyV1Coinbase(a curve.Adapter, w Wallet, ephemeralSeed byte, t int, amount uint64) LegacyOutput {
	var rb [32]byte
	rb[0], rb[1] = ephemeralSeed, 4
	r := curve.ScalarFromBytes(rb)
	R := a.ScalarMulBase(r)
	D := a.ScalarMulPoint(r, w.ViewPub)

	var idx [8]byte
	binary.LittleEndian.PutUint64(idx[:], uint64(t))
	db := D.Bytes()
	koExt := a.HashToScalar("ko_extension", db[:], idx[:])
	ko := a.ScalarMulBase(koExt).Add(w.SpendPub)

	return LegacyOutput{
		Enote: enote.LegacyV1{Ko: ko, Amount: amount},
		Memo:  legacyscan.Memo{Main: R},
	}
}

// SeraphisOutput is a built seraphis enote plus the ephemeral pubkey it
// travels with (the seraphis wire format carries R_t separately from the
// enote proper, same as legacy's memo-carried R).
type SeraphisOutput struct {
	Enote enote.SeraphisV1
	Rt    curve.XPoint
}

func ephemeralAndDH(a curve.Adapter, xfr curve.Scalar, ephemeralSeed byte) (rt curve.Scalar, rtPoint, d curve.XPoint) {
	var rb [32]byte
	rb[0], rb[1] = ephemeralSeed, 5
	rt = curve.ScalarFromBytes(rb)
	rtPoint = curve.MontgomeryBasepointMul(rt)
	kfr := curve.MontgomeryBasepointMul(xfr)
	var err error
	d, err = curve.MontgomeryMul(rt, kfr)
	if err != nil {
		panic(err)
	}
	return
}

// BuildSeraphisV1Plain constructs a seraphis output addressed to address
// index j, with a genuinely cipherable address tag so the plain
// (address-tag decipher) pass recovers it directly.
func BuildSeraphisV1Plain(a curve.Adapter, xfr curve.Scalar, spendPub curve.Point, j enote.JamtisAddressIndex, ephemeralSeed byte, t int, amount uint64) SeraphisOutput {
	_, rtPoint, d := ephemeralAndDH(a, xfr, ephemeralSeed)

	var idx [8]byte
	binary.LittleEndian.PutUint64(idx[:], uint64(t))
	db := d.Bytes()
	koExt := a.HashToScalar("sp_ko_extension", db[:], idx[:])
	ko := a.ScalarMulBase(koExt).Add(spendPub)

	mask, encA, commitment := spscan.EncryptAmount(a, d, amount)
	_ = mask
	viewTag := a.DeriveViewTagX(d, uint64(t))
	addrTag := spscan.CipherAddressTag(a, d, j)

	return SeraphisOutput{
		Enote: enote.SeraphisV1{Ko: ko, C: commitment, EncA: encA, ViewTag: viewTag, AddrTag: addrTag},
		Rt:    rtPoint,
	}
}

// BuildSeraphisV1SelfSend constructs a seraphis output the wallet sent to
// itself: its one-time address is the self-send candidate formula rather
// than an arbitrary spend-key component, and its address tag is garbage
// (self-send enotes carry no genuine cipherable tag per spec.md §4.2.3).
func BuildSeraphisV1SelfSend(a curve.Adapter, vb spscan.ViewBalanceKey, xfr curve.Scalar, j enote.JamtisAddressIndex, ephemeralSeed byte, t int, amount uint64) SeraphisOutput {
	_, rtPoint, d := ephemeralAndDH(a, xfr, ephemeralSeed)

	ko := spscan.SelfSendOnetimeAddress(a, vb, d, j)
	mask, encA, commitment := spscan.EncryptAmount(a, d, amount)
	_ = mask
	viewTag := a.DeriveViewTagX(d, uint64(t))

	var garbageTag [16]byte
	for i := range garbageTag {
		garbageTag[i] = 0xFF
	}

	return SeraphisOutput{
		Enote: enote.SeraphisV1{Ko: ko, C: commitment, EncA: encA, ViewTag: viewTag, AddrTag: garbageTag},
		Rt:    rtPoint,
	}
}
