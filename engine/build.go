package engine

import (
	"github.com/ethereum/go-ethereum/params"

	"github.com/aurora-is-near/aurora-engine-go/account"
	"github.com/aurora-is-near/aurora-engine-go/evmrun"
	"github.com/aurora-is-near/aurora-engine-go/hashchain"
	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
	"github.com/aurora-is-near/aurora-engine-go/precompiles"
	"github.com/aurora-is-near/aurora-engine-go/precompiles/standard"
	"github.com/aurora-is-near/aurora-engine-go/storage"
)

// standardSetForFork builds the precompiles.StandardSet every BuildForFork
// call needs, wiring package precompiles/standard's concrete implementations
// in one place so engine.New is the only constructor that has to know both
// packages exist.
func standardSetForFork(fork precompiles.HardFork) precompiles.StandardSet {
	istanbul := fork >= precompiles.Istanbul
	return precompiles.StandardSet{
		ECRecover:     standard.ECRecover{},
		SHA256:        standard.SHA256{},
		RIPEMD160:     standard.RIPEMD160{},
		Identity:      standard.Identity{},
		ModExp:        standard.ModExp{},
		BN128Add:      standard.BN128Add{Istanbul: istanbul},
		BN128Mul:      standard.BN128Mul{Istanbul: istanbul},
		BN128Pair:     standard.BN128Pair{Istanbul: istanbul},
		Blake2F:       standard.Blake2F{},
		BLSG1Add:      standard.BLSG1Add{},
		BLSG1Mul:      standard.BLSG1Mul{},
		BLSG1MultiExp: standard.BLSG1MultiExp{},
		BLSG2Add:      standard.BLSG2Add{},
		BLSG2Mul:      standard.BLSG2Mul{},
		BLSG2MultiExp: standard.BLSG2MultiExp{},
		BLSPairing:    standard.BLSPairing{},
		BLSMapG1:      standard.BLSMapG1{},
		BLSMapG2:      standard.BLSMapG2{},
		Secp256r1:     standard.Secp256R1Verify{},
	}
}

// New builds an Engine wired end to end: storage over host, the EVM account
// model over storage, a precompile registry selected for the hard fork
// active at the host's current block, and the EVM driver tying them
// together — the whole dependency graph spec.md §2's component table
// describes, assembled the way the teacher's top-level node/miner
// constructor wires its own block-production pipeline.
func New(h hostsdk.Host, chainCfg *params.ChainConfig, engineAccount hostsdk.AccountID) *Engine {
	store := storage.New(h)
	accounts := account.New(store)
	fork := precompiles.ForkAt(chainCfg, h.BlockHeight(), h.BlockTimestamp())
	registry := precompiles.BuildForFork(fork, standardSetForFork(fork))
	registry.SetPausedMask(readU32(store, configKeyPrecompileMask))

	driver := &evmrun.Driver{Accounts: accounts, Registry: registry, ChainCfg: chainCfg}

	chainID := h.ChainID()
	var hc64 uint64
	for i := 0; i < 8; i++ {
		hc64 = hc64<<8 | uint64(chainID[24+i])
	}

	// The hashchain builder's in-flight Merkle stack is otherwise lost across
	// the per-invocation reconstruction this facade does (hashchain/snapshot.go).
	chain := hashchain.New(chainID, []byte(engineAccount))
	if blob, ok := store.Read(hashchainSnapshotKey); ok {
		chain.Restore(blob)
	}

	return &Engine{
		store:         store,
		accounts:      accounts,
		driver:        driver,
		host:          h,
		chainID:       hc64,
		engineAccount: engineAccount,
		chain:         chain,
	}
}
