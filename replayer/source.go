// Package replayer implements spec.md §4.10's standalone replayer: an
// off-chain consumer that re-executes the same method against a local KV
// copy, compares the resulting diff against what the real host committed,
// and reports any mismatch as a consensus divergence rather than silently
// tolerating it.
package replayer

import "github.com/aurora-is-near/aurora-engine-go/storage"

// BlockMeta carries the block-level context a replayed invocation needs
// (what evmrun.NewBlockContext would otherwise read live from a host).
type BlockMeta struct {
	Height     uint64
	Timestamp  uint64
	RandomSeed [32]byte
	ChainID    [32]byte
}

// PromiseResult is one resolved promise's outcome, fed back into a callback
// invocation the standard callback convention (spec.md §4.10/§5).
type PromiseResult struct {
	Successful bool
	Data       []byte
}

// Record is one (method, input, promise results, block metadata, expected
// diff) tuple read from the external channel (log shipping, DB, chain
// client) spec.md §4.10 describes.
type Record struct {
	Method         string
	Input          []byte
	PromiseResults []PromiseResult
	Block          BlockMeta

	// ExpectedDiff is the state diff the real host actually committed for
	// this invocation, against which the replayer's own re-execution is
	// checked.
	ExpectedDiff []storage.DiffEntry

	// Output is the raw value the real host returned for this invocation;
	// used by tracing mode (see tracer.go) to recover trailing trace bytes.
	Output []byte
}

// Source streams Records in transaction_position order (spec.md §5's
// ordering guarantee the replayer must preserve).
type Source interface {
	Next() (Record, bool, error)
}
