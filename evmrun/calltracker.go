package evmrun

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/tracing"

	"github.com/aurora-is-near/aurora-engine-go/precompiles/bridge"
)

// opcode bytes for the two call-like instructions the tracker cares about;
// named locally rather than imported so this file has no dependency on
// core/vm's opcode table beyond the two values it actually switches on.
const (
	opDelegateCall byte = 0xf4
	opStaticCall   byte = 0xfa
)

// callTracker reconstructs the caller/self/value/static-ness a bridge
// precompile needs from the tracing.Hooks callbacks go-ethereum already
// invokes on every CALL/DELEGATECALL/STATICCALL, the way the teacher's
// core/vm/callmetadata.go threads per-call metadata across the
// interpreter/bridge boundary — generalized here from "one metadata struct
// per top-level transaction" to "one CallContext per call frame", since a
// bridge precompile's Guard must see the frame that entered it directly.
type callTracker struct {
	frames []bridge.CallContext
}

func newCallTracker() *callTracker {
	return &callTracker{}
}

func (t *callTracker) onEnter(depth int, typ byte, from, to common.Address, input []byte, gas uint64, value *big.Int) {
	var parent bridge.CallContext
	if len(t.frames) > 0 {
		parent = t.frames[len(t.frames)-1]
	}

	ctx := bridge.CallContext{
		Caller:         from,
		Self:           to,
		Address:        to,
		IsStaticCall:   typ == opStaticCall || parent.IsStaticCall,
		IsDelegateCall: typ == opDelegateCall,
	}
	if typ == opDelegateCall {
		// DELEGATECALL preserves the calling frame's own apparent address;
		// the precompile it lands on is still `to`, so Guard's
		// Address != Self check correctly rejects it.
		ctx.Address = parent.Address
	}
	if value != nil {
		b := value.Bytes()
		if len(b) <= 16 {
			copy(ctx.ApparentValue[16-len(b):], b)
		}
	}

	t.frames = append(t.frames, ctx)
}

func (t *callTracker) onExit(depth int, output []byte, gasUsed uint64, err error, reverted bool) {
	if len(t.frames) > 0 {
		t.frames = t.frames[:len(t.frames)-1]
	}
}

// current returns the call context of the frame presently executing, i.e.
// the one a precompile invoked right now is running inside.
func (t *callTracker) current() bridge.CallContext {
	if len(t.frames) == 0 {
		return bridge.CallContext{}
	}
	return t.frames[len(t.frames)-1]
}

// hooks builds the tracing.Hooks to install on vm.Config.Tracer so the
// tracker's frames stay in sync with the interpreter's own call stack.
func (t *callTracker) hooks() *tracing.Hooks {
	return &tracing.Hooks{
		OnEnter: t.onEnter,
		OnExit:  t.onExit,
	}
}
