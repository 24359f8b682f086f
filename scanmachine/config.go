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

package scanmachine

// Config holds the scan machine's tunable parameters (spec.md §4.1).
type Config struct {
	// MaxChunkSizeHint is passed through to the ledger adapter on every
	// onchain chunk request.
	MaxChunkSizeHint uint64
	// ReorgAvoidanceIncrement is how far actual_start backs off per
	// NEED_PARTIALSCAN response. Desired start never moves.
	ReorgAvoidanceIncrement uint64
	// MaxPartialscanAttempts bounds consecutive NEED_PARTIALSCAN responses
	// before escalating to NEED_FULLSCAN (spec.md §7's
	// PartialscanAttemptsExhausted row).
	MaxPartialscanAttempts int
	// MaxFullscanAttempts bounds consecutive NEED_FULLSCAN escalations
	// before the session gives up with ErrFullscanAttemptsExhausted.
	MaxFullscanAttempts int
}
