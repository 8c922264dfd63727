package evmrun

import (
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/aurora-is-near/aurora-engine-go/account"
	"github.com/aurora-is-near/aurora-engine-go/precompiles/bridge"
)

// bridgePrecompile is the shape every precompiles/bridge type implements:
// RequiredGas matches precompiles.Precompile, but Run additionally needs the
// calling frame's CallContext and returns logs to emit rather than return
// data (spec.md §4.5: these precompiles communicate by scheduling promises
// and emitting an event log, not by returning bytes).
type bridgePrecompile interface {
	RequiredGas(input []byte) uint64
	Run(ctx bridge.CallContext, input []byte) ([]bridge.Log, error)
}

// bridgeAdapter satisfies precompiles.Precompile so a bridgePrecompile can
// be registered in the same precompiles.Registry as the stateless standard
// ones, pulling its CallContext from the driver's callTracker and forwarding
// any emitted logs onto the account model the way an ordinary LOG opcode
// would.
type bridgeAdapter struct {
	impl     bridgePrecompile
	tracker  *callTracker
	accounts *account.Accounts
}

func (b bridgeAdapter) RequiredGas(input []byte) uint64 {
	return b.impl.RequiredGas(input)
}

func (b bridgeAdapter) Run(input []byte) ([]byte, error) {
	ctx := b.tracker.current()
	logs, err := b.impl.Run(ctx, input)
	if err != nil {
		return nil, err
	}
	for _, l := range logs {
		b.accounts.AddLog(&types.Log{
			Address: l.Address,
			Topics:  l.Topics,
			Data:    l.Data,
		})
	}
	return nil, nil
}
