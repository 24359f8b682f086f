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

// Package protocol governs which enote varieties are legal at a given block
// height while the chain transitions from the legacy protocol to seraphis
// (spec.md §4.4).
package protocol

// TransitionPolicy carries the two watermarks the ledger exposes.
type TransitionPolicy struct {
	// FirstSpAllowedBlock is the first height at which seraphis outputs may
	// appear alongside legacy ones.
	FirstSpAllowedBlock uint64
	// FirstSpOnlyBlock is the first height at which legacy outputs are no
	// longer accepted by the ledger (existing legacy key images may still
	// appear as inputs).
	FirstSpOnlyBlock uint64
}

// LegacyOutputsAllowed reports whether new legacy outputs may still appear
// at the given height.
func (p TransitionPolicy) LegacyOutputsAllowed(height uint64) bool {
	return height < p.FirstSpOnlyBlock
}

// SeraphisOutputsAllowed reports whether seraphis outputs may appear at the
// given height.
func (p TransitionPolicy) SeraphisOutputsAllowed(height uint64) bool {
	return height >= p.FirstSpAllowedBlock
}

// ShouldRunLegacyScan tells the chunk processor whether it's worth running
// the legacy view-scan pass over a block at all (it short-circuits past
// FirstSpOnlyBlock - 1, per spec.md §4.4's last paragraph).
func (p TransitionPolicy) ShouldRunLegacyScan(height uint64) bool {
	return p.LegacyOutputsAllowed(height)
}

// ShouldRunSeraphisScan tells the chunk processor whether it's worth running
// the seraphis scan passes (short-circuits before FirstSpAllowedBlock).
func (p TransitionPolicy) ShouldRunSeraphisScan(height uint64) bool {
	return p.SeraphisOutputsAllowed(height)
}
