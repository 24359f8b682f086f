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

import "github.com/xmrcore/enotescan/curve"

// BasicRecord wraps a raw scan hit before amount/key-image recovery: just
// enough to place it on the ledger and retain it for a later decode pass.
type BasicRecord struct {
	Enote Enote
}

// ContextualBasicRecord is a BasicRecord plus its origin context (spec.md
// §3.3), the unit the chunk processor's view-scan passes emit.
type ContextualBasicRecord struct {
	Record BasicRecord
	Origin OriginContext
}

// LegacyIntermediateRecord is a view-scanned legacy enote whose amount and
// ownership are known but whose key image cannot yet be computed (no spend
// key available — spec.md §4.3.4).
type LegacyIntermediateRecord struct {
	Enote           Enote
	Amount          uint64
	Mask            curve.Scalar
	SubaddressIndex *SubaddressIndex
}

func (r LegacyIntermediateRecord) Identifier(a curve.Adapter) Identifier {
	return LegacyIdentifier(a, r.Enote.OnetimeAddress(), r.Amount)
}

// ContextualLegacyIntermediateRecord is the store-resident form of a
// LegacyIntermediateRecord.
type ContextualLegacyIntermediateRecord struct {
	Record LegacyIntermediateRecord
	Origin OriginContext
}

// LegacyFullRecord adds the key image once it becomes known, either via
// direct spend-key possession or the import cycle.
type LegacyFullRecord struct {
	LegacyIntermediateRecord
	KeyImage curve.KeyImage
}

// ContextualLegacyFullRecord is the store-resident form of a
// LegacyFullRecord, additionally tracking its spent context.
type ContextualLegacyFullRecord struct {
	Record LegacyFullRecord
	Origin OriginContext
	Spent  SpentContext
}

// SeraphisRecord is a fully decoded seraphis enote: amount, blinding mask,
// the address it was received at, its view-extension scalars (needed to
// reconstruct spend authority), and its key image.
type SeraphisRecord struct {
	Enote           Enote
	Amount          uint64
	Mask            curve.Scalar
	AddressIndex    JamtisAddressIndex
	ViewExtensionG  curve.Scalar
	ViewExtensionX  curve.Scalar
	ViewExtensionU  curve.Scalar
	KeyImage        curve.KeyImage
	SelfSend        bool
}

// ContextualSeraphisRecord is the store-resident form of a SeraphisRecord.
type ContextualSeraphisRecord struct {
	Record SeraphisRecord
	Origin OriginContext
	Spent  SpentContext
}
