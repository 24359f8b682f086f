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
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/xmrcore/enotescan/chunkproc"
	"github.com/xmrcore/enotescan/config"
	"github.com/xmrcore/enotescan/curve"
	"github.com/xmrcore/enotescan/enote"
	"github.com/xmrcore/enotescan/eventlog"
	"github.com/xmrcore/enotescan/internal/fixture"
	"github.com/xmrcore/enotescan/ledger"
	"github.com/xmrcore/enotescan/legacyscan"
	"github.com/xmrcore/enotescan/scanmachine"
	"github.com/xmrcore/enotescan/store"
)

// fixedExtractor hands chunkproc the memo it needs by tx id, standing
// in for a real extra-blob parser the way the package's own tests do:
// parsing the wire extra format is a ledger concern out of scope here.
type fixedExtractor struct {
	legacy map[enote.TxID]legacyscan.Memo
}

func (f fixedExtractor) LegacyMemo(tx ledger.TxData) legacyscan.Memo { return f.legacy[tx.TxID] }
func (f fixedExtractor) SeraphisEphemeralPubkeys(tx ledger.TxData) []curve.XPoint { return nil }

var demoCommand = &cli.Command{
	Name:  "demo",
	Usage: "scan a synthetic two-block chain and print the recovered balance",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "amount",
			Usage: "amount carried by the synthetic coinbase enote",
			Value: 1000,
		},
		&cli.StringFlag{
			Name:  "event-log",
			Usage: "directory for a LevelDB-backed store event audit log (disabled if unset)",
		},
	},
	Action: func(c *cli.Context) error {
		logger := loggerFor(c)

		cfg := config.Defaults()
		if path := c.String("config"); path != "" {
			loaded, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg = loaded
		}

		a := curve.NewDefaultAdapter()
		w := fixture.NewWallet(a, 0x5a)

		txID := enote.TxID{0x01}
		out := fixture.BuildLegacyV1Coinbase(a, w, 0x01, 0, c.Uint64("amount"))

		l := ledger.NewMock()
		l.PushBlock([]ledger.TxData{{TxID: txID, Outputs: []enote.Enote{out.Enote}}})

		proc := chunkproc.Processor{
			Adapter:    a,
			LegacyKeys: legacyscan.Keys{ViewPriv: w.ViewPriv, SpendPub: w.SpendPub, SpendPriv: &w.SpendPriv},
			Extra:      fixedExtractor{legacy: map[enote.TxID]legacyscan.Memo{txID: out.Memo}},
			Logger:     logger,
		}

		debugSink := func(e store.Event) {
			logger.Debug("store event", "event", fmt.Sprintf("%+v", e))
		}

		sink := store.Sink(debugSink)
		if path := c.String("event-log"); path != "" {
			elog, err := eventlog.Open(path)
			if err != nil {
				return fmt.Errorf("opening event log: %w", err)
			}
			defer elog.Close()
			recorded := elog.Sink()
			sink = func(e store.Event) {
				debugSink(e)
				recorded(e)
			}
		}

		s := store.New(cfg.Store, sink)

		m := scanmachine.New(l, proc, s, cfg.Scan, 0)
		m.Logger = logger
		final, err := m.Run(context.Background())
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}

		balance := s.Balance(store.BalanceQuery{
			AllowedOrigin: store.AllOriginStatuses(),
			AllowedSpent:  store.AllSpentStatuses(),
			TopBlock:      0,
		})

		logger.Info("scan complete", "state", final.String(), "balance", balance)
		fmt.Printf("final state: %s\nbalance: %d\n", final, balance)
		return nil
	},
}
