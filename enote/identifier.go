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

package enote

import (
	"encoding/binary"

	"github.com/holiman/uint256"
	"github.com/xmrcore/enotescan/curve"
)

// Identifier is the legacy enote key: H32(Ko ∥ a). Two legacy enotes
// sharing both Ko and amount are treated as interchangeable (spec.md §3.4)
// because their key images necessarily collide.
type Identifier [32]byte

// LegacyIdentifier computes the identifier for a one-time address and
// amount using the supplied crypto adapter.
func LegacyIdentifier(a curve.Adapter, ko curve.Point, amount uint64) Identifier {
	amountBytes := uint256.NewInt(amount).Bytes32()
	kob := ko.Bytes()
	return Identifier(a.HashTo32("legacy_identifier", kob[:], amountBytes[:]))
}

// amountLE is kept for callers that need the little-endian wire encoding
// rather than uint256's big-endian Bytes32 (amount fields on the wire, e.g.
// LegacyV3/V5's EncA, are little-endian 8-byte values).
func amountLE(amount uint64) [8]byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], amount)
	return b
}
