package precompiles

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

// HardFork gates precompile availability the same way the teacher's
// core/vm/spec.go maps a *params.ChainConfig/block height/time to a numeric
// spec id for the REVM FFI boundary — generalized here from "pick an FFI
// spec id" to "pick which precompiles exist yet", per the table in
// spec.md §4.3.
type HardFork int

const (
	Homestead HardFork = iota
	Byzantium
	Istanbul
	Berlin
	Osaka
)

// ForkAt resolves the active HardFork from a ChainConfig at the given block
// number/timestamp, following the same cascade-of-IsX-checks idiom as
// core/vm/spec.go's SpecID.
func ForkAt(cfg *params.ChainConfig, blockNumber uint64, blockTime uint64) HardFork {
	bn := new(big.Int).SetUint64(blockNumber)
	switch {
	case cfg.IsPrague(bn, blockTime):
		return Osaka
	case cfg.IsBerlin(bn):
		return Berlin
	case cfg.IsIstanbul(bn):
		return Istanbul
	case cfg.IsByzantium(bn):
		return Byzantium
	default:
		return Homestead
	}
}

// StandardSet is the minimal surface BuildForFork needs from the
// precompiles/standard package, kept here as a struct of Precompile values so this package
// does not import standard (which in turn would create an import cycle with
// bridge precompiles that also need the registry).
type StandardSet struct {
	ECRecover, SHA256, RIPEMD160, Identity, ModExp                     Precompile
	BN128Add, BN128Mul, BN128Pair, Blake2F                             Precompile
	BLSG1Add, BLSG1Mul, BLSG1MultiExp, BLSG2Add, BLSG2Mul, BLSG2MultiExp Precompile
	BLSPairing, BLSMapG1, BLSMapG2, Secp256r1                          Precompile
}

var standardAddresses = struct {
	ecrecover, sha256, ripemd160, identity, modexp                           common.Address
	bn128Add, bn128Mul, bn128Pair, blake2f                                   common.Address
	blsG1Add, blsG1Mul, blsG1MultiExp, blsG2Add, blsG2Mul, blsG2MultiExp     common.Address
	blsPairing, blsMapG1, blsMapG2, secp256r1                                common.Address
}{
	ecrecover:     common.BytesToAddress([]byte{0x01}),
	sha256:        common.BytesToAddress([]byte{0x02}),
	ripemd160:     common.BytesToAddress([]byte{0x03}),
	identity:      common.BytesToAddress([]byte{0x04}),
	modexp:        common.BytesToAddress([]byte{0x05}),
	bn128Add:      common.BytesToAddress([]byte{0x06}),
	bn128Mul:      common.BytesToAddress([]byte{0x07}),
	bn128Pair:     common.BytesToAddress([]byte{0x08}),
	blake2f:       common.BytesToAddress([]byte{0x09}),
	blsG1Add:      common.BytesToAddress([]byte{0x0b}),
	blsG1Mul:      common.BytesToAddress([]byte{0x0c}),
	blsG1MultiExp: common.BytesToAddress([]byte{0x0d}),
	blsG2Add:      common.BytesToAddress([]byte{0x0e}),
	blsG2Mul:      common.BytesToAddress([]byte{0x0f}),
	blsG2MultiExp: common.BytesToAddress([]byte{0x10}),
	blsPairing:    common.BytesToAddress([]byte{0x11}),
	blsMapG1:      common.BytesToAddress([]byte{0x12}),
	blsMapG2:      common.BytesToAddress([]byte{0x13}),
	secp256r1:     common.BytesToAddress([]byte{0x14}),
}

// Addresses returns every address the standard precompile set may occupy
// across every hard fork — the full span BuildForFork ever registers into,
// regardless of which fork is actually active. evmrun uses this to know
// which go-ethereum precompile-table slots it must take over.
func Addresses() []common.Address {
	return []common.Address{
		standardAddresses.ecrecover, standardAddresses.sha256, standardAddresses.ripemd160,
		standardAddresses.identity, standardAddresses.modexp,
		standardAddresses.bn128Add, standardAddresses.bn128Mul, standardAddresses.bn128Pair, standardAddresses.blake2f,
		standardAddresses.blsG1Add, standardAddresses.blsG1Mul, standardAddresses.blsG1MultiExp,
		standardAddresses.blsG2Add, standardAddresses.blsG2Mul, standardAddresses.blsG2MultiExp,
		standardAddresses.blsPairing, standardAddresses.blsMapG1, standardAddresses.blsMapG2, standardAddresses.secp256r1,
	}
}

// BuildForFork populates a Registry with the standard precompiles available
// at fork, per spec.md §4.3's table.
func BuildForFork(fork HardFork, set StandardSet) *Registry {
	r := New()
	r.Register(standardAddresses.ecrecover, FlagECRecover, set.ECRecover)
	r.Register(standardAddresses.sha256, FlagSHA256, set.SHA256)
	r.Register(standardAddresses.ripemd160, FlagRIPEMD160, set.RIPEMD160)
	r.Register(standardAddresses.identity, FlagIdentity, set.Identity)

	if fork >= Byzantium {
		r.Register(standardAddresses.modexp, FlagModExp, set.ModExp)
		r.Register(standardAddresses.bn128Add, FlagBN128, set.BN128Add)
		r.Register(standardAddresses.bn128Mul, FlagBN128, set.BN128Mul)
		r.Register(standardAddresses.bn128Pair, FlagBN128, set.BN128Pair)
	}
	if fork >= Istanbul {
		r.Register(standardAddresses.blake2f, FlagBlake2F, set.Blake2F)
	}
	if fork >= Osaka {
		r.Register(standardAddresses.blsG1Add, FlagBLS12381, set.BLSG1Add)
		r.Register(standardAddresses.blsG1Mul, FlagBLS12381, set.BLSG1Mul)
		r.Register(standardAddresses.blsG1MultiExp, FlagBLS12381, set.BLSG1MultiExp)
		r.Register(standardAddresses.blsG2Add, FlagBLS12381, set.BLSG2Add)
		r.Register(standardAddresses.blsG2Mul, FlagBLS12381, set.BLSG2Mul)
		r.Register(standardAddresses.blsG2MultiExp, FlagBLS12381, set.BLSG2MultiExp)
		r.Register(standardAddresses.blsPairing, FlagBLS12381, set.BLSPairing)
		r.Register(standardAddresses.blsMapG1, FlagBLS12381, set.BLSMapG1)
		r.Register(standardAddresses.blsMapG2, FlagBLS12381, set.BLSMapG2)
		r.Register(standardAddresses.secp256r1, FlagSecp256r1, set.Secp256r1)
	}
	return r
}
