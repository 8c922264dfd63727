package promise

import "github.com/aurora-is-near/aurora-engine-go/hostsdk"

// Flush drives a Sink's recorded Actions onto a real hostsdk.Host: the
// on-chain path of spec.md §4.8. Each Action's Create is submitted via
// PromiseCreate; each chained Then is submitted via PromiseThen against the
// previous promise id. The final callback of the final action is designated
// the transaction's return promise via PromiseReturn, matching "the
// resulting promise id of the *final* callback is designated as the
// transaction's return promise."
//
// A reverted transaction schedules nothing: spec.md §4.8's cancellation
// rule is "don't schedule if the EVM transaction reverted before the bridge
// log was committed," which in this driver's shape means Flush is simply
// not called at all for a reverted transaction — callers should check that
// before calling Flush. Flush itself has no notion of "reverted."
func Flush(host hostsdk.Host, s *Sink) {
	var last uint64
	var haveLast bool

	for _, action := range s.Actions() {
		id := host.PromiseCreate(action.Create)
		last, haveLast = id, true

		for _, then := range action.Then {
			id = host.PromiseThen(last, then)
			last = id
		}
	}

	if haveLast {
		host.PromiseReturn(last)
	}
}

// Replay returns a Sink's Actions untouched for the off-chain replayer path:
// promises are materialized as structured values rather than executed
// (spec.md §4.8).
func Replay(s *Sink) []Action {
	return append([]Action(nil), s.Actions()...)
}
