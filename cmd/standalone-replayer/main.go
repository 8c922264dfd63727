// Command standalone-replayer is the CLI wrapper around package replayer
// (spec.md §4.10), grounded on the teacher's tests/integration driver
// pattern: build a chain config and a fresh in-memory backing store, then
// feed it a recorded stream of host invocations and report any divergence.
//
// Usage:
//
//	standalone-replayer -in records.jsonl -engine-account aurora -stop-on-divergence
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/params"

	"github.com/aurora-is-near/aurora-engine-go/engine"
	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
	"github.com/aurora-is-near/aurora-engine-go/replayer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "standalone-replayer:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		inPath           = flag.String("in", "", "path to a JSONL record stream (- for stdin)")
		engineAccount    = flag.String("engine-account", "aurora", "the engine's host account id")
		predecessor      = flag.String("predecessor", "relay.aurora", "predecessor account id for every replayed invocation")
		prepaidGas       = flag.Uint64("prepaid-gas", 300_000_000_000_000, "host prepaid gas exposed to replayed invocations")
		stopOnDivergence = flag.Bool("stop-on-divergence", false, "halt at the first divergence instead of collecting all of them")
	)
	flag.Parse()

	if *inPath == "" {
		return fmt.Errorf("-in is required")
	}

	in := os.Stdin
	if *inPath != "-" {
		f, err := os.Open(*inPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var chainID [32]byte
	chainID[31] = 1 // chain id 1 (big-endian); the CLI has no flag to change it

	host := hostsdk.NewMemoryHost(
		hostsdk.AccountID(*engineAccount),
		hostsdk.AccountID(*predecessor),
		hostsdk.AccountID(*predecessor),
		chainID,
		*prepaidGas,
	)

	runner := &engine.ReplayRunner{
		Host:          host,
		ChainCfg:      params.MainnetChainConfig,
		EngineAccount: hostsdk.AccountID(*engineAccount),
	}

	r := &replayer.Replayer{Runner: runner, StopOnDivergence: *stopOnDivergence}
	divergences, err := r.Run(replayer.NewJSONSource(in))
	if err != nil {
		return err
	}

	for _, d := range divergences {
		fmt.Fprintln(os.Stdout, d.Error())
	}
	if len(divergences) > 0 {
		return fmt.Errorf("%d divergence(s) found", len(divergences))
	}
	fmt.Fprintln(os.Stdout, "replay clean: no divergence")
	return nil
}
