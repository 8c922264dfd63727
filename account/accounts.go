// Package account generalizes the teacher's revm_bridge/statedb.go
// (balance/nonce/code-hash over *state.StateDB, behind an FFI handle) into
// the EVM account model of spec.md §3/§4.2: balance, nonce, code and
// generation-prefixed storage over a storage.Store, implementing
// go-ethereum's vm.StateDB so the account model plugs directly into the
// upstream EVM interpreter (evmrun wires this in as the interpreter's
// backend).
package account

import (
	"maps"

	"github.com/aurora-is-near/aurora-engine-go/storage"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// MaxCodeSize is the EIP-170 (post-Spurious-Dragon) contract size cap
// referenced by spec.md §4.2.
const MaxCodeSize = 24576

// Accounts implements go-ethereum's vm.StateDB over a storage.Store. It adds
// the one feature go-ethereum's own in-memory StateDB does not need: a
// per-address generation counter that lets self-destruct/re-creation clear
// an account's storage in O(1) instead of walking a trie subtree
// (spec.md §4.2, §9 "Generation-based storage clearing").
type Accounts struct {
	store *storage.Store

	generations map[common.Address]uint32 // cache; authoritative copy is in storage
	refund      uint64
	logs        []*types.Log
	snapshots   []snapshot
	destructed  map[common.Address]bool
	accessList  *accessList
	transient   map[common.Address]map[common.Hash]common.Hash
}

type snapshot struct {
	logsLen  int
	refund   uint64
	storeCP  int
	destruct map[common.Address]bool
}

// New builds an account model over the given store.
func New(store *storage.Store) *Accounts {
	return &Accounts{
		store:       store,
		generations: make(map[common.Address]uint32),
		destructed:  make(map[common.Address]bool),
		accessList:  newAccessList(),
		transient:   make(map[common.Address]map[common.Hash]common.Hash),
	}
}

func (a *Accounts) generation(addr common.Address) uint32 {
	if g, ok := a.generations[addr]; ok {
		return g
	}
	v, ok := a.store.Read(generationKey(addr))
	if !ok || len(v) != 4 {
		a.generations[addr] = 0
		return 0
	}
	g := uint32(v[0])<<24 | uint32(v[1])<<16 | uint32(v[2])<<8 | uint32(v[3])
	a.generations[addr] = g
	return g
}

// --- balance/nonce/code -----------------------------------------------------

func (a *Accounts) GetBalance(addr common.Address) *uint256.Int {
	v, ok := a.store.Read(balanceKey(addr))
	if !ok {
		return new(uint256.Int)
	}
	return new(uint256.Int).SetBytes(v)
}

func (a *Accounts) setBalance(addr common.Address, v *uint256.Int) {
	a.store.Write(balanceKey(addr), v.Bytes())
}

func (a *Accounts) AddBalance(addr common.Address, amount *uint256.Int, _ tracing.BalanceChangeReason) uint256.Int {
	prev := a.GetBalance(addr)
	next := new(uint256.Int).Add(prev, amount)
	a.setBalance(addr, next)
	return *prev
}

func (a *Accounts) SubBalance(addr common.Address, amount *uint256.Int, _ tracing.BalanceChangeReason) uint256.Int {
	prev := a.GetBalance(addr)
	next := new(uint256.Int).Sub(prev, amount)
	a.setBalance(addr, next)
	return *prev
}

func (a *Accounts) GetNonce(addr common.Address) uint64 {
	n, err := a.store.ReadU64(nonceKey(addr))
	if err != nil {
		return 0
	}
	return n
}

func (a *Accounts) SetNonce(addr common.Address, nonce uint64) {
	a.store.WriteU64(nonceKey(addr), nonce)
}

func (a *Accounts) GetCode(addr common.Address) []byte {
	v, ok := a.store.Read(codeKey(addr))
	if !ok {
		return nil
	}
	return v
}

func (a *Accounts) SetCode(addr common.Address, code []byte) {
	if len(code) == 0 {
		a.store.Delete(codeKey(addr))
		return
	}
	a.store.Write(codeKey(addr), code)
}

func (a *Accounts) GetCodeSize(addr common.Address) int { return len(a.GetCode(addr)) }

func (a *Accounts) GetCodeHash(addr common.Address) common.Hash {
	code := a.GetCode(addr)
	if len(code) == 0 {
		return types.EmptyCodeHash
	}
	return crypto.Keccak256Hash(code)
}

// --- storage -----------------------------------------------------------------

func (a *Accounts) GetState(addr common.Address, slot common.Hash) common.Hash {
	v, ok := a.store.Read(storageSlotKey(addr, a.generation(addr), slot))
	if !ok {
		return common.Hash{}
	}
	return common.BytesToHash(v)
}

// GetCommittedState returns the same value as GetState, in-flight diff
// included: this model keeps no separate view of the value as it stood at
// the start of the transaction.
func (a *Accounts) GetCommittedState(addr common.Address, slot common.Hash) common.Hash {
	return a.GetState(addr, slot)
}

func (a *Accounts) SetState(addr common.Address, slot common.Hash, value common.Hash) common.Hash {
	prev := a.GetState(addr, slot)
	// Writing zero is stored as zero, not deleted: gas accounting relies on
	// distinguishing "absent" from "zero" (spec.md §4.2).
	a.store.Write(storageSlotKey(addr, a.generation(addr), slot), value[:])
	return prev
}

func (a *Accounts) GetStorageRoot(common.Address) common.Hash { return common.Hash{} }

func (a *Accounts) GetTransientState(addr common.Address, key common.Hash) common.Hash {
	if m, ok := a.transient[addr]; ok {
		return m[key]
	}
	return common.Hash{}
}

func (a *Accounts) SetTransientState(addr common.Address, key, value common.Hash) {
	m, ok := a.transient[addr]
	if !ok {
		m = make(map[common.Hash]common.Hash)
		a.transient[addr] = m
	}
	m[key] = value
}

// --- lifecycle -----------------------------------------------------------------

func (a *Accounts) CreateAccount(addr common.Address) {
	// Lazily-created on first write (spec.md §3); nothing to do up front.
}

func (a *Accounts) CreateContract(common.Address) {}

func (a *Accounts) Exist(addr common.Address) bool {
	return a.store.Has(balanceKey(addr)) || a.store.Has(nonceKey(addr)) || a.store.Has(codeKey(addr))
}

func (a *Accounts) Empty(addr common.Address) bool {
	return a.GetNonce(addr) == 0 && a.GetBalance(addr).IsZero() && a.GetCodeSize(addr) == 0
}

// SelfDestruct bumps the address's generation (so every previously-written
// storage slot becomes unreachable in O(1)) and clears balance/nonce/code,
// per spec.md §4.2/§4.3 lifecycle.
func (a *Accounts) SelfDestruct(addr common.Address) uint256.Int {
	prev := a.GetBalance(addr)
	a.destructed[addr] = true
	a.setBalance(addr, new(uint256.Int))
	a.store.Delete(nonceKey(addr))
	a.store.Delete(codeKey(addr))
	a.bumpGeneration(addr)
	return *prev
}

func (a *Accounts) bumpGeneration(addr common.Address) {
	next := a.generation(addr) + 1
	a.generations[addr] = next
	var be [4]byte
	be[0], be[1], be[2], be[3] = byte(next>>24), byte(next>>16), byte(next>>8), byte(next)
	a.store.Write(generationKey(addr), be[:])
}

func (a *Accounts) HasSelfDestructed(addr common.Address) bool { return a.destructed[addr] }

// Selfdestruct6780 implements EIP-6780: self-destruct only takes effect (and
// only within the creating transaction) when the account was created in the
// same transaction. This model does not track "created this tx" separately
// from the generic destruct path; re-creation already goes through
// bumpGeneration, so this simply delegates.
func (a *Accounts) Selfdestruct6780(addr common.Address) (uint256.Int, bool) {
	bal := a.SelfDestruct(addr)
	return bal, true
}

// --- refund / logs -------------------------------------------------------------

func (a *Accounts) AddRefund(g uint64) { a.refund += g }
func (a *Accounts) SubRefund(g uint64) {
	if g > a.refund {
		a.refund = 0
		return
	}
	a.refund -= g
}
func (a *Accounts) GetRefund() uint64 { return a.refund }

func (a *Accounts) AddLog(l *types.Log) { a.logs = append(a.logs, l) }

// Logs returns the logs emitted so far, in emission order (spec.md §5(a)).
func (a *Accounts) Logs() []*types.Log { return a.logs }

func (a *Accounts) AddPreimage(common.Hash, []byte) {}

// --- access list -----------------------------------------------------------

func (a *Accounts) AddressInAccessList(addr common.Address) bool { return a.accessList.containsAddr(addr) }

func (a *Accounts) SlotInAccessList(addr common.Address, slot common.Hash) (bool, bool) {
	return a.accessList.contains(addr, slot)
}

func (a *Accounts) AddAddressToAccessList(addr common.Address) { a.accessList.addAddr(addr) }

func (a *Accounts) AddSlotToAccessList(addr common.Address, slot common.Hash) {
	a.accessList.add(addr, slot)
}

func (a *Accounts) Prepare(_ params.Rules, sender, coinbase common.Address, dest *common.Address, precompiles []common.Address, txAccesses types.AccessList) {
	a.accessList = newAccessList()
	a.accessList.addAddr(sender)
	a.accessList.addAddr(coinbase)
	if dest != nil {
		a.accessList.addAddr(*dest)
	}
	for _, p := range precompiles {
		a.accessList.addAddr(p)
	}
	for _, e := range txAccesses {
		a.accessList.addAddr(e.Address)
		for _, s := range e.StorageKeys {
			a.accessList.add(e.Address, s)
		}
	}
}

// --- snapshots -----------------------------------------------------------------

func (a *Accounts) Snapshot() int {
	a.snapshots = append(a.snapshots, snapshot{
		logsLen:  len(a.logs),
		refund:   a.refund,
		storeCP:  a.store.Checkpoint(),
		destruct: maps.Clone(a.destructed),
	})
	return len(a.snapshots) - 1
}

// RevertToSnapshot undoes everything that happened since the matching
// Snapshot call: logs/refund/destruct bookkeeping, and — via
// storage.Store.Checkpoint/Rollback — every balance and storage-slot write
// staged since then, since both go through a.store (balanceKey/nonceKey/
// codeKey/storageSlotKey are all just diff entries). This is what go-ethereum
// itself relies on: evm.Call/evm.Create snapshot the StateDB before every
// nested call and revert to it on sub-call failure, so a contract that
// catches a failed internal CALL and keeps running never observes that
// sub-call's state changes.
func (a *Accounts) RevertToSnapshot(id int) {
	if id < 0 || id >= len(a.snapshots) {
		return
	}
	snap := a.snapshots[id]
	a.store.Rollback(snap.storeCP)
	// The generation cache is derived from the store; once the store is
	// rolled back a cached bump from a SelfDestruct inside the reverted span
	// would otherwise keep pointing storage reads at the wrong generation.
	a.generations = make(map[common.Address]uint32)
	a.logs = a.logs[:snap.logsLen]
	a.refund = snap.refund
	a.destructed = snap.destruct
	a.snapshots = a.snapshots[:id]
}

// Witness/AccessEvents/PointCache are part of go-ethereum's verkle-tree
// support surface; this engine targets pre-verkle hard forks (spec.md's
// fork table tops out at Osaka) so these are unused hooks with no
// counterpart in the storage model.
func (a *Accounts) Witness() any      { return nil }
func (a *Accounts) AccessEvents() any { return nil }
func (a *Accounts) PointCache() any   { return nil }
