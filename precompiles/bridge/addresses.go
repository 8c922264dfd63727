// Package bridge implements spec.md §4.5's bridge precompiles: EVM calls
// that look stateless but actually schedule asynchronous host work by
// appending a promise.Action to a promise.Sink rather than mutating EVM
// state. This generalizes the teacher's handle-registry idiom
// (revm_bridge/handles.go) from state snapshots to promise intents — see
// promise.Sink's package doc.
package bridge

import "github.com/ethereum/go-ethereum/crypto"

// Address derives a fixed precompile address the way spec.md §4.3 says the
// registry does: keccak256(name)[12:].
func Address(name string) [20]byte {
	h := crypto.Keccak256([]byte(name))
	var addr [20]byte
	copy(addr[:], h[12:])
	return addr
}

var (
	ExitToNearAddress            = Address("exitToNear")
	ExitToEthereumAddress        = Address("exitToEthereum")
	CrossContractCallAddress     = Address("nearCrossContractCall")
	PredecessorAccountIDAddress  = Address("predecessorAccountId")
	CurrentAccountIDAddress      = Address("currentAccountId")
	RandomSeedAddress            = Address("randomSeed")
	PrepaidGasAddress            = Address("prepaidGas")
)
