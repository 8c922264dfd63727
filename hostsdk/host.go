package hostsdk

import "errors"

// ErrMissing is returned by KV.Read when the key has no value.
var ErrMissing = errors.New("hostsdk: missing value")

// KV is the host's synchronous key/value store ABI (spec.md §4.1).
// Implementations MUST give read-your-writes semantics within one
// invocation; they are not required to be safe for concurrent use from
// multiple invocations (the host runs entry points serially per account).
type KV interface {
	Read(key []byte) ([]byte, error)
	Write(key, value []byte)
	Delete(key []byte)
	Has(key []byte) bool
}

// PromiseCreateArgs mirrors the borsh PromiseCreate structure the host's
// promise_create primitive consumes.
type PromiseCreateArgs struct {
	TargetAccountID AccountID
	Method          string
	Args            []byte
	AttachedBalance [16]byte // u128 little-endian, per NEP-141 convention
	AttachedGas     uint64
}

// Host is the synchronous/asynchronous host-function ABI the engine drives:
// register access, the predecessor/signer identity, and the promise system.
// A single host invocation is single-threaded (spec.md §5); Host therefore
// need not be safe for concurrent use across goroutines representing
// distinct invocations, only within the call tree of one.
type Host interface {
	KV

	CurrentAccountID() AccountID
	PredecessorAccountID() AccountID
	SignerAccountID() AccountID

	ChainID() [32]byte
	BlockHeight() uint64
	BlockTimestamp() uint64
	RandomSeed() [32]byte
	PrepaidGas() uint64

	// PromiseCreate schedules a new promise and returns its host-assigned id.
	PromiseCreate(args PromiseCreateArgs) uint64
	// PromiseThen schedules args as a callback on promiseID and returns the
	// new promise's id.
	PromiseThen(promiseID uint64, args PromiseCreateArgs) uint64
	// PromiseReturn designates promiseID as this invocation's return value.
	PromiseReturn(promiseID uint64)
}
