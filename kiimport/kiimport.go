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

// Package kiimport is the client-facing shape of the two-phase legacy
// key-image import cycle (spec.md §4.3.4). The store package owns the
// actual checkpoint/promote/close mechanics; this package adds the
// bits a caller driving the cycle across an offline-signing round trip
// needs: a correlation id that survives a process restart between
// begin and finish, and the list of one-time addresses to hand to the
// spend-authority device.
package kiimport

import (
	"errors"

	"github.com/google/uuid"

	"github.com/xmrcore/enotescan/chunkproc"
	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/ledger"
	"github.com/xmrcore/enotescan/store"
)

// ErrSessionAlreadyFinished is returned by Import or Finish once a
// Session has already been closed.
var ErrSessionAlreadyFinished = errors.New("kiimport: session already finished")

// Session tracks one in-flight import cycle. Its ID survives a process
// restart (the caller persists it alongside the checkpoint) so a
// resumed session can be matched back to the spend-authority device's
// eventual response.
type Session struct {
	id         uuid.UUID
	checkpoint store.ImportCheckpoint
	finished   bool
}

// Begin starts a new import cycle (spec.md §4.3.4 step 1).
func Begin(s *store.Store) *Session {
	return &Session{
		id:         uuid.New(),
		checkpoint: s.MakeKIImportCheckpoint(),
	}
}

// Resume reconstructs a Session from a persisted id and checkpoint, for
// a caller that saved both across a process restart between Begin and
// Finish.
func Resume(id uuid.UUID, cp store.ImportCheckpoint) *Session {
	return &Session{id: id, checkpoint: cp}
}

// ID is the correlation id to persist alongside the checkpoint.
func (sess *Session) ID() uuid.UUID { return sess.id }

// Checkpoint returns the snapshot taken at Begin, for a caller that
// needs to persist it itself (e.g. across a process restart).
func (sess *Session) Checkpoint() store.ImportCheckpoint { return sess.checkpoint }

// PendingOnetimeAddresses lists the one-time addresses the
// spend-authority device needs to derive key images for (spec.md
// §4.3.4 step 2), deduplicated since multiple identifiers can share a
// Ko (I5).
func (sess *Session) PendingOnetimeAddresses() []curve.Point {
	seen := make(map[[32]byte]bool, len(sess.checkpoint.Entries))
	out := make([]curve.Point, 0, len(sess.checkpoint.Entries))
	for _, e := range sess.checkpoint.Entries {
		key := e.Onetime.Bytes()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e.Onetime)
	}
	return out
}

// Import promotes every intermediate record matching one of pairs to a
// full record (spec.md §4.3.4 step 3).
func (sess *Session) Import(s *store.Store, pairs []store.LegacyKeyImagePair) error {
	if sess.finished {
		return ErrSessionAlreadyFinished
	}
	return s.ImportLegacyKeyImages(pairs)
}

// RescanKeyImagesOnly runs the key-image-only re-scan (spec.md §4.3.4
// step 4) over chunk, applying spent contexts to any record this
// session just promoted without advancing any scan watermark: this pass
// never ran output recovery, so it must not be mistaken for a regular
// chunk commit.
func (sess *Session) RescanKeyImagesOnly(s *store.Store, p chunkproc.Processor, chunk ledger.Chunk) {
	s.ApplyKeyImageObservations(p.KeyImagesOnlyChunk(chunk))
}

// Finish closes the cycle (spec.md §4.3.4 step 5).
func (sess *Session) Finish(s *store.Store) error {
	if sess.finished {
		return ErrSessionAlreadyFinished
	}
	s.FinishKIImportCycle(sess.checkpoint)
	sess.finished = true
	return nil
}
