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

package eventlog

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/enote"
	"github.com/xmrcore/enotescan/store"
)

func TestRecordAppendsInSequenceOrder(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "events"))
	require.NoError(t, err)
	defer l.Close()

	sink := l.Sink()
	sink(store.Event{Kind: store.EventNewLegacyIntermediate, LegacyIdentifier: enote.Identifier{1}})
	sink(store.Event{Kind: store.EventNewSeraphis, SeraphisKeyImage: curve.KeyImage{}})

	var firstKey, secondKey [8]byte
	binary.BigEndian.PutUint64(firstKey[:], 0)
	binary.BigEndian.PutUint64(secondKey[:], 1)

	v0, err := l.db.Get(firstKey[:], nil)
	require.NoError(t, err)
	require.Equal(t, byte(store.EventNewLegacyIntermediate), v0[0])

	v1, err := l.db.Get(secondKey[:], nil)
	require.NoError(t, err)
	require.Equal(t, byte(store.EventNewSeraphis), v1[0])
}

func TestEncodeEventCarriesAmount(t *testing.T) {
	rec := enote.ContextualLegacyFullRecord{Record: enote.LegacyFullRecord{
		LegacyIntermediateRecord: enote.LegacyIntermediateRecord{Amount: 42},
	}}
	buf := encodeEvent(store.Event{Kind: store.EventNewLegacyFull, LegacyFull: &rec})
	got := binary.BigEndian.Uint64(buf[65:73])
	require.Equal(t, uint64(42), got)
}
