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

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/xmrcore/enotescan/addrcodec"
)

var checksumCommand = &cli.Command{
	Name:      "checksum",
	Usage:     "append or verify a Jamtis address checksum on a base32 string",
	ArgsUsage: "<encoded>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "verify",
			Usage: "treat <encoded> as address+checksum and verify it instead of appending one",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("expected exactly one argument", 1)
		}
		arg := c.Args().Get(0)

		if c.Bool("verify") {
			if addrcodec.VerifyChecksumSuffix(arg) {
				fmt.Println("ok")
				return nil
			}
			return cli.Exit("checksum mismatch", 1)
		}

		sum, err := addrcodec.CreateChecksum(arg)
		if err != nil {
			return fmt.Errorf("computing checksum: %w", err)
		}
		fmt.Println(arg + sum)
		return nil
	},
}
