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

// Package eventlog persists a store.Store's event stream to an on-disk
// LevelDB instance, so a wallet process can keep an audit trail of
// everything a scanning session did across restarts. spec.md §6 describes
// store.Sink as the store's only persistence boundary and leaves any
// durable log on top of it to the caller; this is that extension, built on
// the same KV engine choice as the teacher's own chain database.
package eventlog

import (
	"encoding/binary"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/xmrcore/enotescan/store"
)

// LevelDB is a sequence-keyed, append-only log of store.Event values.
// Entries are written in emission order under monotonically increasing
// 8-byte big-endian keys, so an external reader can iterate the whole
// history in order with the database's native range scan.
type LevelDB struct {
	mu   sync.Mutex
	db   *leveldb.DB
	next uint64
}

// Open creates or reopens a LevelDB event log at path.
func Open(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LevelDB{db: db}, nil
}

// Sink returns a store.Sink bound to this log. Per spec.md §6's
// must-not-re-enter-the-store rule, Record only ever writes to the log
// itself, never back into the store that produced the event.
func (l *LevelDB) Sink() store.Sink {
	return l.Record
}

// Record appends e to the log. A write failure is swallowed rather than
// propagated: a Sink has no error return and spec.md §6 forbids it from
// re-entering the store that called it, so there is no safe place to
// surface the failure from inside the callback.
func (l *LevelDB) Record(e store.Event) {
	l.mu.Lock()
	seq := l.next
	l.next++
	l.mu.Unlock()

	var key [8]byte
	binary.BigEndian.PutUint64(key[:], seq)
	_ = l.db.Put(key[:], encodeEvent(e), nil)
}

// Close releases the underlying database handle.
func (l *LevelDB) Close() error {
	return l.db.Close()
}

// encodeEvent flattens the fields relevant to e.Kind into a fixed-layout
// record: 1 byte kind, 32 bytes legacy identifier (zero if n/a), 32 bytes
// seraphis key image (zero if n/a), 8 bytes big-endian amount (zero if
// n/a). It is an audit trail, not a replay format: reconstructing a full
// record from it still requires re-deriving the cryptographic fields the
// store itself holds, which this package has no adapter to do.
func encodeEvent(e store.Event) []byte {
	buf := make([]byte, 1+32+32+8)
	buf[0] = byte(e.Kind)
	copy(buf[1:33], e.LegacyIdentifier[:])

	kiBytes := e.SeraphisKeyImage.P.Bytes()
	copy(buf[33:65], kiBytes[:])

	var amount uint64
	switch {
	case e.LegacyIntermediate != nil:
		amount = e.LegacyIntermediate.Record.Amount
	case e.LegacyFull != nil:
		amount = e.LegacyFull.Record.Amount
	case e.Seraphis != nil:
		amount = e.Seraphis.Record.Amount
	}
	binary.BigEndian.PutUint64(buf[65:73], amount)
	return buf
}
