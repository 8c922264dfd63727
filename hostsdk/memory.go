package hostsdk

import (
	"bytes"
	"sync/atomic"
)

// MemoryHost is an in-memory Host used by the standalone replayer and by
// tests that need a host without a live platform behind them. Promise
// scheduling is recorded rather than executed, matching spec.md §4.8's
// replayer contract: promises are materialised as structured values, not run.
//
// The registry/counter shape (atomic sequence, plain map lookups) mirrors the
// handle table in the teacher's revm_bridge/handles.go, generalized from
// "registered StateDB handle" to "scheduled promise id".
type MemoryHost struct {
	kv map[string][]byte

	current     AccountID
	predecessor AccountID
	signer      AccountID

	chainID     [32]byte
	blockHeight uint64
	blockTime   uint64
	randomSeed  [32]byte
	prepaidGas  uint64

	promiseSeq uint64
	Promises   []ScheduledPromise
	returned   uint64
	hasReturn  bool
}

// ScheduledPromise records one promise_create/promise_then invocation for
// later inspection (by tests, or by a replayer reconciling against what the
// real host actually scheduled).
type ScheduledPromise struct {
	ID       uint64
	ParentID uint64 // 0 when created via PromiseCreate (no parent)
	Args     PromiseCreateArgs
}

// NewMemoryHost builds a MemoryHost for the given identities. prepaidGas is
// exposed verbatim by the prepaid-gas precompile (spec.md §9: "the source
// exposes initial[ly prepaid gas]").
func NewMemoryHost(current, predecessor, signer AccountID, chainID [32]byte, prepaidGas uint64) *MemoryHost {
	return &MemoryHost{
		kv:          make(map[string][]byte),
		current:     current,
		predecessor: predecessor,
		signer:      signer,
		chainID:     chainID,
		prepaidGas:  prepaidGas,
	}
}

func (h *MemoryHost) Read(key []byte) ([]byte, error) {
	v, ok := h.kv[string(key)]
	if !ok {
		return nil, ErrMissing
	}
	return bytes.Clone(v), nil
}

func (h *MemoryHost) Write(key, value []byte) {
	h.kv[string(key)] = bytes.Clone(value)
}

func (h *MemoryHost) Delete(key []byte) {
	delete(h.kv, string(key))
}

func (h *MemoryHost) Has(key []byte) bool {
	_, ok := h.kv[string(key)]
	return ok
}

func (h *MemoryHost) CurrentAccountID() AccountID     { return h.current }
func (h *MemoryHost) PredecessorAccountID() AccountID { return h.predecessor }
func (h *MemoryHost) SignerAccountID() AccountID      { return h.signer }
func (h *MemoryHost) ChainID() [32]byte               { return h.chainID }
func (h *MemoryHost) BlockHeight() uint64             { return h.blockHeight }
func (h *MemoryHost) BlockTimestamp() uint64          { return h.blockTime }
func (h *MemoryHost) RandomSeed() [32]byte            { return h.randomSeed }
func (h *MemoryHost) PrepaidGas() uint64              { return h.prepaidGas }

// SetBlock advances the replayer's notion of the current block; used between
// invocations the way the real host advances block height between calls.
func (h *MemoryHost) SetBlock(height, timestamp uint64, seed [32]byte) {
	h.blockHeight = height
	h.blockTime = timestamp
	h.randomSeed = seed
}

func (h *MemoryHost) PromiseCreate(args PromiseCreateArgs) uint64 {
	id := atomic.AddUint64(&h.promiseSeq, 1)
	h.Promises = append(h.Promises, ScheduledPromise{ID: id, Args: args})
	return id
}

func (h *MemoryHost) PromiseThen(promiseID uint64, args PromiseCreateArgs) uint64 {
	id := atomic.AddUint64(&h.promiseSeq, 1)
	h.Promises = append(h.Promises, ScheduledPromise{ID: id, ParentID: promiseID, Args: args})
	return id
}

func (h *MemoryHost) PromiseReturn(promiseID uint64) {
	h.returned = promiseID
	h.hasReturn = true
}

// ReturnedPromise reports the promise id designated via PromiseReturn, if any.
func (h *MemoryHost) ReturnedPromise() (uint64, bool) { return h.returned, h.hasReturn }
