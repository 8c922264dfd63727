package engine

import (
	"errors"

	"github.com/ethereum/go-ethereum/params"

	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
	"github.com/aurora-is-near/aurora-engine-go/replayer"
	"github.com/aurora-is-near/aurora-engine-go/storage"
)

// ErrUnknownMethod is returned by Dispatch for a method name outside
// spec.md §6's table.
var ErrUnknownMethod = errors.New("engine: unknown method")

// Dispatch routes one host-ABI method call to the matching Engine method,
// the single place that knows the whole spec.md §6 method-name table. Both
// the production host wiring and the replayer call through here so they
// exercise identical dispatch logic.
func (e *Engine) Dispatch(method string, input []byte) ([]byte, error) {
	switch method {
	case "new":
		return nil, e.Initialize(input)
	case "submit":
		return e.Submit(input)
	case "submit_with_args":
		return e.SubmitWithArgs(input)
	case "call":
		return e.Call(input)
	case "deploy_code":
		return e.DeployCode(input)
	case "view":
		return e.View(input)
	case "ft_on_transfer":
		return e.FtOnTransfer(input)
	case "deposit":
		return e.Deposit(input)
	case "withdraw":
		return e.Withdraw(input)
	case "finish_deposit":
		return e.FinishDeposit(input)
	case "pause_contract":
		return nil, e.PauseContract()
	case "resume_contract":
		return nil, e.ResumeContract()
	case "pause_precompiles":
		return nil, e.PausePrecompiles(input)
	case "resume_precompiles":
		return nil, e.ResumePrecompiles(input)
	case "start_hashchain":
		return nil, e.StartHashchain(input)
	case "stage_upgrade":
		return nil, e.StageUpgrade(input)
	case "deploy_upgrade":
		return nil, e.DeployUpgrade()
	case "set_owner":
		return nil, e.SetOwner(input)
	case "set_key_manager":
		return nil, e.SetKeyManager(input)
	case "add_relayer_key":
		return nil, e.AddRelayerKey(input)
	case "remove_relayer_key":
		return nil, e.RemoveRelayerKey(input)
	case "get_owner":
		return e.GetOwner(), nil
	case "get_chain_id":
		return e.GetChainID(), nil
	case "get_bridge_prover":
		return e.GetBridgeProver(), nil
	case "get_upgrade_index":
		return e.GetUpgradeIndex(), nil
	case "get_version":
		return e.GetVersion(), nil
	case "get_paused_flags":
		return e.GetPausedFlags(), nil
	case "get_key_manager":
		return e.GetKeyManager(), nil
	default:
		return nil, ErrUnknownMethod
	}
}

// ReplayRunner implements replayer.Runner by rebuilding a fresh Engine over a
// long-lived MemoryHost for each record — the MemoryHost's kv map is the
// durable store the replay accumulates against; the Engine (and its Store
// diff) is rebuilt per call exactly like the production host-invocation
// model (spec.md §4.10: "exercises identical code paths to production").
type ReplayRunner struct {
	Host          *hostsdk.MemoryHost
	ChainCfg      *params.ChainConfig
	EngineAccount hostsdk.AccountID
}

var _ replayer.Runner = (*ReplayRunner)(nil)

// RunMethod implements replayer.Runner.
func (r *ReplayRunner) RunMethod(method string, input []byte, _ []replayer.PromiseResult, block replayer.BlockMeta) ([]byte, []storage.DiffEntry, error) {
	r.Host.SetBlock(block.Height, block.Timestamp, block.RandomSeed)
	e := New(r.Host, r.ChainCfg, r.EngineAccount)
	output, err := e.Dispatch(method, input)
	return output, e.committedDiff, err
}
