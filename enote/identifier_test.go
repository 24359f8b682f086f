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

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xmrcore/enotescan/curve"
)

func TestLegacyIdentifierCollidesOnSameKoAndAmount(t *testing.T) {
	a := curve.NewDefaultAdapter()
	var kb [32]byte
	kb[0] = 3
	ko := curve.BasepointMul(curve.ScalarFromBytes(kb))

	id1 := LegacyIdentifier(a, ko, 5)
	id2 := LegacyIdentifier(a, ko, 5)
	require.Equal(t, id1, id2)
}

func TestLegacyIdentifierDiffersOnAmount(t *testing.T) {
	a := curve.NewDefaultAdapter()
	var kb [32]byte
	kb[0] = 3
	ko := curve.BasepointMul(curve.ScalarFromBytes(kb))

	id1 := LegacyIdentifier(a, ko, 5)
	id2 := LegacyIdentifier(a, ko, 6)
	require.NotEqual(t, id1, id2)
}

func TestBlockIndexLess(t *testing.T) {
	require.True(t, ConfirmedAt(5).Less(ConfirmedAt(6)))
	require.True(t, ConfirmedAt(100).Less(UnconfirmedBlock))
	require.False(t, UnconfirmedBlock.Less(ConfirmedAt(1)))
}

func TestOriginStatusStrength(t *testing.T) {
	require.True(t, OriginOnchain.Stronger(OriginUnconfirmed))
	require.True(t, OriginUnconfirmed.Stronger(OriginOffchain))
	require.False(t, OriginOffchain.Stronger(OriginOnchain))
}
