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
	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/enote"
)

// BasicHit is one view-tag-accepted seraphis enote, carrying the per-output
// Diffie-Hellman key needed by the later address-tag decipher / self-send
// passes.
type BasicHit struct {
	OutputIndex int
	Enote       enote.Enote
	D           curve.XPoint
	AddrTag     [16]byte
}

// FindReceivedScan runs the find-received pass over one transaction's
// outputs (spec.md §4.2.2): per-output Montgomery-curve DH derivation,
// reusing the last declared ephemeral pubkey when fewer are present than
// outputs, then the view-tag gate.
func FindReceivedScan(a curve.Adapter, xfr curve.Scalar, ephemeralPubkeys []curve.XPoint, outputs []enote.Enote) ([]BasicHit, error) {
	var hits []BasicHit
	for t, e := range outputs {
		sv1, ok := e.(enote.SeraphisV1)
		if !ok {
			continue // coinbase enotes carry no view tag / address tag to scan
		}
		rt := ephemeralPubkeys[minInt(t, len(ephemeralPubkeys)-1)]
		d, err := a.MontgomeryMul(xfr, rt)
		if err != nil {
			return nil, err
		}
		if a.DeriveViewTagX(d, uint64(t)) != sv1.ViewTag {
			continue
		}
		hits = append(hits, BasicHit{OutputIndex: t, Enote: e, D: d, AddrTag: sv1.AddrTag})
	}
	return hits, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
