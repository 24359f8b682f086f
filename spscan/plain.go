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

// PlainResult is one fully-recovered seraphis record plus the output index
// it came from, so the chunk processor can place it against the right
// transaction position.
type PlainResult struct {
	OutputIndex int
	Record      enote.SeraphisRecord
}

// PlainPass runs the address-tag decipher and full decode over the hits
// FindReceivedScan produced (spec.md §4.2.3's "plain pass"): any hit whose
// address tag deciphers to a recognizable index is ours by direct
// recipient construction, no self-send reasoning required.
func PlainPass(a curve.Adapter, vb ViewBalanceKey, hits []BasicHit) ([]PlainResult, error) {
	var out []PlainResult
	for _, hit := range hits {
		j, ok := DecipherAddressTag(a, hit.D, hit.AddrTag)
		if !ok {
			continue
		}
		rec, err := decodeSeraphisRecord(a, vb, hit, j, false)
		if err != nil {
			if err == ErrMalformedEnote {
				continue
			}
			return nil, err
		}
		out = append(out, PlainResult{OutputIndex: hit.OutputIndex, Record: rec})
	}
	return out, nil
}

func decodeSeraphisRecord(a curve.Adapter, vb ViewBalanceKey, hit BasicHit, j enote.JamtisAddressIndex, selfSend bool) (enote.SeraphisRecord, error) {
	sv1 := hit.Enote.(enote.SeraphisV1)
	amount, mask, err := DecodeAmount(a, sv1, hit.D)
	if err != nil {
		return enote.SeraphisRecord{}, err
	}
	g, x, u := viewExtensions(a, vb, hit.D, j)
	ki := keyImageFor(a, g, x, u, sv1.Ko)
	return enote.SeraphisRecord{
		Enote:          hit.Enote,
		Amount:         amount,
		Mask:           mask,
		AddressIndex:   j,
		ViewExtensionG: g,
		ViewExtensionX: x,
		ViewExtensionU: u,
		KeyImage:       ki,
		SelfSend:       selfSend,
	}, nil
}
