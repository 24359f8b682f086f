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

// Package scanmachine drives a scanning session to a consistent end state
// despite mid-scan reorgs (spec.md §4.1). It owns the only thread of
// control during a session; its three calls into the ledger adapter are
// the only suspension points (§5).
package scanmachine

// State is one node of the scan machine's state diagram.
type State int

const (
	StateStart State = iota
	StateScanningOnchain
	StateScanningNonledger
	StateDone
	StateNeedPartialscan
	StateNeedFullscan
	StateFail
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateScanningOnchain:
		return "SCANNING_ONCHAIN"
	case StateScanningNonledger:
		return "SCANNING_NONLEDGER"
	case StateDone:
		return "DONE"
	case StateNeedPartialscan:
		return "NEED_PARTIALSCAN"
	case StateNeedFullscan:
		return "NEED_FULLSCAN"
	case StateFail:
		return "FAIL"
	case StateAborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}
