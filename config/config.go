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

// Package config loads the TOML configuration file that wires the
// store's and scan machine's tunables together, the way geth's own
// config.toml wires node, eth and metrics settings.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/xmrcore/enotescan/protocol"
	"github.com/xmrcore/enotescan/scanmachine"
	"github.com/xmrcore/enotescan/store"
)

// Config is the top-level shape of a config.toml file.
type Config struct {
	Store      store.Config
	Scan       scanmachine.Config
	Transition TransitionPolicy `toml:",omitempty"`
}

// TransitionPolicy mirrors protocol.TransitionPolicy, given its own type
// here so it carries TOML tags without exporting toml-specific
// machinery from the protocol package itself.
type TransitionPolicy struct {
	FirstSpAllowedBlock uint64
	FirstSpOnlyBlock    uint64
}

// Policy converts to the protocol package's runtime type. A zero value
// (both fields 0) means no transition policy was configured.
func (t TransitionPolicy) Policy() *protocol.TransitionPolicy {
	if t.FirstSpAllowedBlock == 0 && t.FirstSpOnlyBlock == 0 {
		return nil
	}
	return &protocol.TransitionPolicy{
		FirstSpAllowedBlock: t.FirstSpAllowedBlock,
		FirstSpOnlyBlock:    t.FirstSpOnlyBlock,
	}
}

// Defaults returns the configuration this module ships with absent a
// config file: conservative retention and attempt budgets suitable for
// a wallet that has never seen the chain before.
func Defaults() Config {
	return Config{
		Store: store.Config{
			NumUnprunable:       50,
			DensityFactor:       20,
			MaxSeparation:       1000,
			DefaultSpendableAge: 10,
		},
		Scan: scanmachine.Config{
			MaxChunkSizeHint:        1000,
			ReorgAvoidanceIncrement: 1,
			MaxPartialscanAttempts:  5,
			MaxFullscanAttempts:     3,
		},
	}
}

// Load reads and decodes a TOML config file at path, starting from
// Defaults and overriding only the fields the file sets. An undecoded
// key in the file (a typo, a renamed field) is reported as an error
// rather than silently ignored.
func Load(path string) (Config, error) {
	cfg := Defaults()

	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	meta, err := toml.NewDecoder(f).Decode(&cfg)
	if err != nil {
		return cfg, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, &UnknownFieldsError{Keys: undecoded}
	}
	return cfg, nil
}
