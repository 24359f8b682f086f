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

package addrcodec

// ChecksumSize is the number of alphabet characters an address
// checksum occupies once appended.
const ChecksumSize = 8

const checksumMask = 0xffffffffff // 40 one-bits.

// checksumGen is the BCH-style generator polynomial set operating over
// GF(2^40), one term per bit of the 5-bit feedback window.
var checksumGen = [5]uint64{
	0x1ae45cd581,
	0x359aad8f02,
	0x61754f9b24,
	0xc2ba1bb368,
	0xcd2623e3f0,
}

// checksumPolymod folds syms (5-bit alphabet indices) into the running
// checksum state c.
func checksumPolymod(syms []byte, c uint64) uint64 {
	for _, v := range syms {
		b := c >> 35
		c = ((c & 0x07ffffffff) << 5) ^ uint64(v)
		for i := 0; i < 5; i++ {
			if (b>>uint(i))&1 != 0 {
				c ^= checksumGen[i]
			}
		}
	}
	return c
}

// CreateChecksum computes the checksum for an encoded (checksum-free)
// address string, returned as ChecksumSize alphabet characters to
// append to it.
func CreateChecksum(encoded string) (string, error) {
	data, err := symbols(encoded)
	if err != nil {
		return "", err
	}

	c := checksumPolymod(data, 1)
	c = checksumPolymod(make([]byte, ChecksumSize), c) // make room for the checksum's own symbols.
	c ^= checksumMask

	out := make([]byte, ChecksumSize)
	for i := 0; i < ChecksumSize; i++ {
		out[i] = alphabet[(c>>(5*uint(ChecksumSize-1-i)))&0x1f]
	}
	return string(out), nil
}

// VerifyChecksum reports whether checksum is the valid checksum for
// encoded.
func VerifyChecksum(encoded, checksum string) bool {
	data, err := symbols(encoded)
	if err != nil {
		return false
	}
	sum, err := symbols(checksum)
	if err != nil || len(sum) != ChecksumSize {
		return false
	}

	c := checksumPolymod(data, 1)
	c = checksumPolymod(sum, c)
	return c == checksumMask
}

// VerifyChecksumSuffix reports whether the last ChecksumSize characters
// of encodedWithChecksum are a valid checksum of the characters
// preceding them.
func VerifyChecksumSuffix(encodedWithChecksum string) bool {
	if len(encodedWithChecksum) < ChecksumSize {
		return false
	}
	split := len(encodedWithChecksum) - ChecksumSize
	return VerifyChecksum(encodedWithChecksum[:split], encodedWithChecksum[split:])
}
