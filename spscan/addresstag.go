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

// Package spscan implements the seraphis scan passes: find-received
// scanning with view-tag gating (spec.md §4.2.2), address-tag decipher and
// self-send resolution (spec.md §4.2.3), and the cross-protocol key-image
// side table (spec.md §4.2.4).
package spscan

import (
	"encoding/binary"

	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/enote"
)

// CipherAddressTag produces the 16-byte ciphertext an enote carries,
// encoding j (the destination address index) XOR'd with a DH-derived mask
// plus a self-consistency checksum so decipher can recognize a genuine
// address tag without a trial-decrypt-every-index search.
func CipherAddressTag(a curve.Adapter, d curve.XPoint, j enote.JamtisAddressIndex) [16]byte {
	db := d.Bytes()
	mask := a.HashTo32("addr_tag_mask", db[:])

	var jb [8]byte
	binary.LittleEndian.PutUint64(jb[:], uint64(j))
	checksum := a.HashTo32("addr_tag_check", jb[:])

	var plain [16]byte
	copy(plain[:8], jb[:])
	copy(plain[8:], checksum[:8])

	var out [16]byte
	for i := range out {
		out[i] = plain[i] ^ mask[i]
	}
	return out
}

// DecipherAddressTag recovers j from a ciphered address tag, succeeding
// only when the tag was genuinely built for key d by CipherAddressTag; a
// self-send output's tag (spec.md §4.2.3, not cipherable) fails the
// checksum with overwhelming probability.
func DecipherAddressTag(a curve.Adapter, d curve.XPoint, tag [16]byte) (enote.JamtisAddressIndex, bool) {
	db := d.Bytes()
	mask := a.HashTo32("addr_tag_mask", db[:])

	var plain [16]byte
	for i := range plain {
		plain[i] = tag[i] ^ mask[i]
	}
	j := enote.JamtisAddressIndex(binary.LittleEndian.Uint64(plain[:8]))

	var jb [8]byte
	binary.LittleEndian.PutUint64(jb[:], uint64(j))
	checksum := a.HashTo32("addr_tag_check", jb[:])

	for i := 0; i < 8; i++ {
		if plain[8+i] != checksum[i] {
			return 0, false
		}
	}
	return j, true
}
