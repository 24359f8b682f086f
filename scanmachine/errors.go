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

import "errors"

// Error kinds per spec.md §7 that belong to the scan machine rather than
// the store.
var (
	// ErrFullscanAttemptsExhausted is returned when too many consecutive
	// fullscan retries have occurred; recoverable, state left unchanged at
	// the last successful commit.
	ErrFullscanAttemptsExhausted = errors.New("scanmachine: fullscan attempts exhausted")
)
