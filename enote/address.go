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

// SubaddressIndex identifies a legacy subaddress by its account (major) and
// index (minor) pair, per
// original_source/src/seraphis_core/legacy_core_utils.h's
// make_legacy_subaddress_extension. A nil *SubaddressIndex in the records
// below means "the base address", not subaddress (0, 0).
type SubaddressIndex struct {
	Major uint32
	Minor uint32
}

func (s SubaddressIndex) IsBase() bool { return s.Major == 0 && s.Minor == 0 }

// JamtisAddressIndex identifies a seraphis/Jamtis address by its address
// index j, recovered by address-tag decipher (spec.md §4.2.3).
type JamtisAddressIndex uint64
