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

package store

import (
	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/enote"
)

// EventKind tags which of the §3.6 event shapes an Event carries.
type EventKind int

const (
	EventNewLegacyIntermediate EventKind = iota
	EventNewLegacyFull
	EventNewSeraphis
	EventClearedLegacyOrigin
	EventClearedSpent
	EventUpdatedOrigin
	EventUpdatedSpent
	EventLegacyIntermediatePromoted
)

// Event is a single store mutation, carrying enough data for an external
// persistence layer to replay it without re-deriving anything (spec.md
// §3.6). Only the fields relevant to Kind are populated.
type Event struct {
	Kind EventKind

	LegacyIdentifier enote.Identifier
	SeraphisKeyImage curve.KeyImage

	LegacyIntermediate *enote.ContextualLegacyIntermediateRecord
	LegacyFull         *enote.ContextualLegacyFullRecord
	Seraphis           *enote.ContextualSeraphisRecord

	OldBlock enote.BlockIndex
	Origin   *enote.OriginContext
	Spent    *enote.SpentContext

	PromotedKeyImage curve.KeyImage
}

// Sink receives every event a mutating store call produces, in emission
// order, before the call returns. Per spec.md §6, a Sink must not re-enter
// the store.
type Sink func(Event)

func (s *Store) emit(e Event) {
	if s.sink != nil {
		s.sink(e)
	}
}
