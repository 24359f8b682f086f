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

// Package store implements the enote store: the durable record of owned
// enotes, their origin/spent contexts, the checkpoint cache, progress
// indices, and the two-phase legacy key-image import cycle.
package store

import "errors"

// Error kinds per spec.md §7. LedgerContiguityLost, LedgerAborted and
// FullscanAttemptsExhausted/PartialscanAttemptsExhausted belong to the
// scan machine, not this package. Of those, only FullscanAttemptsExhausted
// is an error value (scanmachine.ErrFullscanAttemptsExhausted); the scan
// machine handles the others as state transitions.
var (
	// ErrInvalidKeyImageImport is returned when an (Ko, KI) import pair has
	// no matching intermediate record.
	ErrInvalidKeyImageImport = errors.New("store: key image import pair matches no intermediate record")

	// ErrInvariantViolation marks a detected I1-I9 violation. Per spec.md
	// §7 this should be unreachable in correct operation; callers should
	// treat the store as corrupt if it occurs.
	ErrInvariantViolation = errors.New("store: internal invariant violated")
)
