// Package promise models spec.md §4.8's promise scheduler: after the EVM
// halts, the logs emitted by bridge precompiles are replayed either onto
// real host promise primitives (on-chain path) or captured as structured
// values for the standalone replayer (off-chain path).
//
// This generalizes the teacher's handle-registry idiom
// (revm_bridge/handles.go: "hand out an opaque id, look it up later") from
// state-snapshot handles to promise intents: a bridge precompile appends an
// Action to a Sink instead of mutating host state directly, and the
// scheduler is the only code that ever touches hostsdk.Host's promise
// primitives.
package promise

import "github.com/aurora-is-near/aurora-engine-go/hostsdk"

// Action is one scheduled unit of host work, mirroring spec.md §4.8's
// PromiseArgs = Create | Callback | Recursive.
type Action struct {
	Create   hostsdk.PromiseCreateArgs
	Then     []hostsdk.PromiseCreateArgs // callbacks chained via promise_then, in order
}

// Sink accumulates Actions emitted while executing one transaction. Bridge
// precompiles append to it instead of calling hostsdk.Host directly, so the
// same precompile code runs unmodified whether the caller is the on-chain
// scheduler or the standalone replayer.
type Sink struct {
	actions []Action
}

// NewSink returns an empty Sink.
func NewSink() *Sink { return &Sink{} }

// Append records one Action, preserving emission order — the scheduler's
// "last callback becomes the return promise" rule depends on it.
func (s *Sink) Append(a Action) { s.actions = append(s.actions, a) }

// Actions returns the recorded actions in emission order. The returned
// slice must not be mutated by the caller.
func (s *Sink) Actions() []Action { return s.actions }

// Len reports how many actions have been recorded.
func (s *Sink) Len() int { return len(s.actions) }
