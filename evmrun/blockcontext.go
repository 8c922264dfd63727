// Package evmrun wraps go-ethereum's core/vm interpreter (spec.md §4.6):
// it builds the vm.BlockContext/vm.TxContext the host's deterministic
// notion of a "block" maps to, and wires account.Accounts plus
// precompiles.Registry into a *vm.EVM so the upstream interpreter runs
// unmodified over host-backed state.
package evmrun

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
)

// coinbaseFromPredecessor derives COINBASE from the host predecessor
// account id, per spec.md §4.6 ("MUST be set to the address derived from
// the host predecessor account id, so COINBASE opcode is meaningful").
func coinbaseFromPredecessor(predecessor hostsdk.AccountID) common.Address {
	h := crypto.Keccak256([]byte(predecessor))
	return common.BytesToAddress(h[12:])
}

// blockHash implements spec.md §4.6's deterministic BLOCKHASH:
// keccak256(chain_id || height_be || engine_account_id). It is not a real
// parent hash — the host blockchain is not Ethereum.
func blockHash(chainID [32]byte, height uint64, engineAccount hostsdk.AccountID) common.Hash {
	var heightBE [8]byte
	for i := 0; i < 8; i++ {
		heightBE[i] = byte(height >> (8 * (7 - i)))
	}
	buf := make([]byte, 0, 32+8+len(engineAccount))
	buf = append(buf, chainID[:]...)
	buf = append(buf, heightBE[:]...)
	buf = append(buf, []byte(engineAccount)...)
	return common.BytesToHash(crypto.Keccak256(buf))
}

// NewBlockContext builds the vm.BlockContext for one transaction's
// execution against host h and engine account engineAccount.
func NewBlockContext(h hostsdk.Host, engineAccount hostsdk.AccountID) vm.BlockContext {
	chainID := h.ChainID()
	height := h.BlockHeight()
	seed := h.RandomSeed()
	seedHash := common.Hash(seed)

	return vm.BlockContext{
		CanTransfer: func(db vm.StateDB, addr common.Address, amount *big.Int) bool {
			return db.GetBalance(addr).ToBig().Cmp(amount) >= 0
		},
		Transfer: func(db vm.StateDB, from, to common.Address, amount *big.Int) {
			transferBalance(db, from, to, amount)
		},
		GetHash: func(n uint64) common.Hash {
			return blockHash(chainID, n, engineAccount)
		},
		Coinbase:    coinbaseFromPredecessor(h.PredecessorAccountID()),
		GasLimit:    h.PrepaidGas(),
		BlockNumber: new(big.Int).SetUint64(height),
		Time:        h.BlockTimestamp(),
		Difficulty:  new(big.Int).SetBytes(seed[:]),
		BaseFee:     big.NewInt(0), // spec.md §4.6: BASEFEE always 0, burned portion never charged
		Random:      &seedHash,
	}
}
