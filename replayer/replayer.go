package replayer

import (
	"fmt"

	"github.com/aurora-is-near/aurora-engine-go/storage"
)

// Runner executes one method against a local, replayer-owned KV copy and
// returns the raw output plus the resulting state diff. The engine facade
// (package engine) implements this by dispatching through the same method
// table real host invocations use, so the replayer exercises identical code
// paths to production — only the Host underneath differs.
type Runner interface {
	RunMethod(method string, input []byte, promiseResults []PromiseResult, block BlockMeta) (output []byte, diff []storage.DiffEntry, err error)
}

// Diverged is returned by Run when a replayed invocation's diff does not
// match the diff the real host actually committed — a consensus divergence
// per spec.md §4.10.
type Diverged struct {
	Method string
	Height uint64
	Reason string
}

func (d *Diverged) Error() string {
	return fmt.Sprintf("replayer: consensus divergence at height %d method %q: %s", d.Height, d.Method, d.Reason)
}

// Replayer drives Source records through a Runner, verifying each one.
type Replayer struct {
	Runner Runner

	// StopOnDivergence halts Run on the first *Diverged error rather than
	// collecting every divergence found in the stream.
	StopOnDivergence bool
}

// Run consumes every record from src, in order, and returns all divergences
// found. A non-nil error means the source or the Runner failed; Run stops at
// that record.
func (r *Replayer) Run(src Source) ([]*Diverged, error) {
	var divergences []*Diverged

	for {
		rec, ok, err := src.Next()
		if err != nil {
			return divergences, err
		}
		if !ok {
			return divergences, nil
		}

		output, diff, err := r.Runner.RunMethod(rec.Method, rec.Input, rec.PromiseResults, rec.Block)
		if err != nil {
			return divergences, err
		}

		if d := compareDiffs(rec.Method, rec.Block.Height, diff, rec.ExpectedDiff); d != nil {
			divergences = append(divergences, d)
			if r.StopOnDivergence {
				return divergences, nil
			}
			continue
		}
		_ = output // tracer.go's callers may inspect this separately
	}
}

func compareDiffs(method string, height uint64, got, want []storage.DiffEntry) *Diverged {
	if len(got) != len(want) {
		return &Diverged{Method: method, Height: height, Reason: fmt.Sprintf("diff length mismatch: got %d want %d", len(got), len(want))}
	}
	for i := range got {
		if string(got[i].Key) != string(want[i].Key) {
			return &Diverged{Method: method, Height: height, Reason: fmt.Sprintf("entry %d key mismatch", i)}
		}
		if got[i].Deleted != want[i].Deleted {
			return &Diverged{Method: method, Height: height, Reason: fmt.Sprintf("entry %d deleted-flag mismatch", i)}
		}
		if !got[i].Deleted && string(got[i].Value) != string(want[i].Value) {
			return &Diverged{Method: method, Height: height, Reason: fmt.Sprintf("entry %d value mismatch", i)}
		}
	}
	return nil
}
