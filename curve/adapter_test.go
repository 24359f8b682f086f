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

package curve

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalarRoundTrip(t *testing.T) {
	var raw [32]byte
	raw[0] = 42
	s := ScalarFromBytes(raw)
	back, err := ScalarFromCanonicalBytes(s.Bytes())
	require.NoError(t, err)
	require.True(t, s.Equal(back))
}

func TestBasepointMulDistinctForDistinctScalars(t *testing.T) {
	var a, b [32]byte
	a[0], b[0] = 1, 2
	pa := BasepointMul(ScalarFromBytes(a))
	pb := BasepointMul(ScalarFromBytes(b))
	require.False(t, pa.Equal(pb))
}

func TestCommitAdditivelyHomomorphic(t *testing.T) {
	adapter := NewDefaultAdapter()
	var x1b, x2b [32]byte
	x1b[0], x2b[0] = 7, 11
	x1 := ScalarFromBytes(x1b)
	x2 := ScalarFromBytes(x2b)

	c1 := adapter.Commit(x1, 3)
	c2 := adapter.Commit(x2, 4)
	sum := c1.Add(c2)

	combined := adapter.Commit(x1.Add(x2), 7)
	require.True(t, sum.Equal(combined))
}

func TestTorsionClearKeepsTorsionFree(t *testing.T) {
	var raw [32]byte
	raw[0] = 5
	p := BasepointMul(ScalarFromBytes(raw))
	require.True(t, IsTorsionFree(p))
	cleared := TorsionClear(p)
	require.True(t, IsTorsionFree(cleared))
}

func TestDeriveKeyImageDeterministic(t *testing.T) {
	adapter := NewDefaultAdapter()
	var skb [32]byte
	skb[0] = 9
	sk := ScalarFromBytes(skb)
	ko := BasepointMul(sk)

	ki1 := adapter.DeriveKeyImage(sk, ko)
	ki2 := adapter.DeriveKeyImage(sk, ko)
	require.True(t, ki1.P.Equal(ki2.P))
}

func TestHashToScalarDomainSeparated(t *testing.T) {
	adapter := NewDefaultAdapter()
	s1 := adapter.HashToScalar("domain-a", []byte("x"))
	s2 := adapter.HashToScalar("domain-b", []byte("x"))
	require.False(t, s1.Equal(s2))
}
