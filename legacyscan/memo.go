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

package legacyscan

import "github.com/xmrcore/enotescan/curve"

// Memo carries the ephemeral pubkey(s) extracted from a transaction's memo
// blob. Parsing a wire-format memo blob into this shape is a ledger-adapter
// concern (spec.md §1 places transaction/wire-format parsing out of this
// engine's hard scope); the scan pass consumes the parsed form directly.
type Memo struct {
	// Main is the single ephemeral pubkey R used when no additional
	// pubkeys are present.
	Main curve.Point
	// Additional holds one R_t per output when present. Per spec.md
	// §4.2.1 step 1, if its length doesn't match the output count the
	// whole additional-pubkey path is rejected for this tx.
	Additional []curve.Point
}

// ephemeralPubkeyFor returns the R (or R_t) to use for output index t,
// and whether the additional-pubkey path is valid for this memo given
// outputCount.
func (m Memo) ephemeralPubkeyFor(t int, outputCount int) (curve.Point, bool) {
	if len(m.Additional) == 0 {
		return m.Main, true
	}
	if len(m.Additional) != outputCount {
		return curve.Point{}, false
	}
	return m.Additional[t], true
}
