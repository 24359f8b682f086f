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

package protocol

import "testing"

func TestTransitionPolicy(t *testing.T) {
	p := TransitionPolicy{FirstSpAllowedBlock: 100, FirstSpOnlyBlock: 200}

	cases := []struct {
		height            uint64
		wantLegacy        bool
		wantSeraphis      bool
	}{
		{50, true, false},
		{100, true, true},
		{199, true, true},
		{200, false, true},
		{1000, false, true},
	}
	for _, c := range cases {
		if got := p.LegacyOutputsAllowed(c.height); got != c.wantLegacy {
			t.Errorf("height %d: LegacyOutputsAllowed = %v, want %v", c.height, got, c.wantLegacy)
		}
		if got := p.SeraphisOutputsAllowed(c.height); got != c.wantSeraphis {
			t.Errorf("height %d: SeraphisOutputsAllowed = %v, want %v", c.height, got, c.wantSeraphis)
		}
	}
}
