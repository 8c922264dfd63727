package txengine

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/aurora-is-near/aurora-engine-go/account"
	"github.com/aurora-is-near/aurora-engine-go/evmrun"
	"github.com/aurora-is-near/aurora-engine-go/hashchain"
	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
	"github.com/aurora-is-near/aurora-engine-go/promise"
	"github.com/aurora-is-near/aurora-engine-go/storage"
)

// Engine drives spec.md §4.7's submit pipeline over one host invocation.
type Engine struct {
	Accounts *account.Accounts
	Store    *storage.Store
	Driver   *evmrun.Driver
	Host     hostsdk.Host
	ChainID  uint64

	EngineAccount hostsdk.AccountID
	Chain         *hashchain.State // nil disables hashchain appends (pre-start_hashchain)

	// Sink records promise intents any bridge precompile schedules during
	// this submission; Flush is only called once the transaction is known to
	// have succeeded (spec.md §4.8: a reverted transaction's promises must
	// never reach the host).
	Sink *promise.Sink

	// MaxGasPrice caps the effective gas price `submit_with_args` computes,
	// applied uniformly to legacy and typed transactions per spec.md §9's
	// resolution of the open question on which tx kinds it covers. Nil means
	// uncapped (the plain `submit` entry point never sets this).
	MaxGasPrice *big.Int

	// CommittedDiff accumulates every Store.Commit() this Submit call makes,
	// so callers needing the whole invocation's diff (the engine facade's
	// replayer-facing Dispatch) don't have to duplicate commitAndMaybeChain's
	// bookkeeping.
	CommittedDiff []storage.DiffEntry
}

// Submit implements spec.md §4.7's eleven-stage pipeline.
func (e *Engine) Submit(raw []byte) SubmitResult {
	tx, sender, err := decodeAndRecover(raw, e.ChainID)
	if err != nil {
		log.Debug("Submit rejected: invalid signature", "error", err)
		return SubmitResult{Status: StatusOther, Reason: "ERR_INVALID_SIGNATURE"}
	}

	nonceOK := e.Accounts.GetNonce(sender) == tx.Nonce()
	// Nonce is always bumped, even on mismatch, to deter griefing (spec.md
	// §4.7 stage 4) — but only once we've gotten this far (stages 1-3 never
	// touch state).
	if !nonceOK {
		log.Debug("Submit rejected: incorrect nonce", "sender", sender, "have", e.Accounts.GetNonce(sender), "want", tx.Nonce())
		e.Accounts.SetNonce(sender, e.Accounts.GetNonce(sender)+1)
		e.commitAndMaybeChain("submit", raw, nil)
		return SubmitResult{Status: StatusOther, Reason: "ERR_INCORRECT_NONCE"}
	}

	isCreate := tx.To() == nil
	intrinsic := IntrinsicGas(tx.Data(), tx.AccessList(), isCreate)
	if tx.Gas() < intrinsic {
		log.Debug("Submit rejected: gas below intrinsic cost", "sender", sender, "gas", tx.Gas(), "intrinsic", intrinsic)
		e.Accounts.SetNonce(sender, tx.Nonce()+1)
		e.commitAndMaybeChain("submit", raw, nil)
		return SubmitResult{Status: StatusOther, Reason: "ERR_INTRINSIC_GAS"}
	}

	effectivePrice := effectiveGasPrice(tx)
	if e.MaxGasPrice != nil && effectivePrice.Cmp(e.MaxGasPrice) > 0 {
		effectivePrice = e.MaxGasPrice
	}
	escrow := new(big.Int).Mul(new(big.Int).SetUint64(tx.Gas()), effectivePrice)
	senderBalance := e.Accounts.GetBalance(sender).ToBig()
	if senderBalance.Cmp(escrow) < 0 {
		log.Debug("Submit rejected: insufficient balance for gas escrow", "sender", sender, "balance", senderBalance, "escrow", escrow)
		e.Accounts.SetNonce(sender, tx.Nonce()+1)
		e.commitAndMaybeChain("submit", raw, nil)
		return SubmitResult{Status: StatusOther, Reason: "ERR_OUT_OF_FUND"}
	}

	escrowU256, _ := uint256.FromBig(escrow)
	e.Accounts.SubBalance(sender, escrowU256, tracing.BalanceChangeTransfer)
	e.Accounts.SetNonce(sender, tx.Nonce()+1)

	remainingGas := tx.Gas() - intrinsic
	if e.Sink == nil {
		e.Sink = promise.NewSink()
	}
	evm := e.Driver.NewEVM(e.Host, e.EngineAccount, e.Store, e.Sink)

	value, _ := uint256.FromBig(tx.Value())
	var (
		ret      []byte
		leftOver uint64
		execErr  error
		gasUsed  uint64
		status   = StatusSucceed
	)

	if isCreate {
		ret, _, leftOver, execErr = e.Driver.Create(evm, sender, tx.Data(), remainingGas, value)
	} else {
		ret, leftOver, execErr = e.Driver.Call(evm, sender, *tx.To(), tx.Data(), remainingGas, value)
	}
	gasUsed = remainingGas - leftOver + intrinsic

	if execErr != nil {
		status = ClassifyExecErr(execErr)
		log.Debug("Submit execution did not succeed", "sender", sender, "status", status, "error", execErr)
	}

	refunded := Refund(gasUsed, leftOver, e.Accounts.GetRefund())
	refundAmount := new(big.Int).Mul(new(big.Int).SetUint64(refunded), effectivePrice)
	relayerAmount := new(big.Int).Mul(new(big.Int).SetUint64(gasUsed-refunded), effectivePrice)

	refundU256, _ := uint256.FromBig(refundAmount)
	relayerU256, _ := uint256.FromBig(relayerAmount)
	e.Accounts.AddBalance(sender, refundU256, tracing.BalanceChangeTransfer)
	coinbase := evm.Context.Coinbase
	e.Accounts.AddBalance(coinbase, relayerU256, tracing.BalanceChangeTransfer)

	e.commitAndMaybeChain("submit", raw, ret)

	// A reverted/failed call's scheduled promises must never reach the host
	// (spec.md §4.8); only a successful execution's Sink is flushed.
	if status == StatusSucceed && e.Sink.Len() > 0 {
		promise.Flush(e.Host, e.Sink)
	}

	return SubmitResult{
		Status:     status,
		GasUsed:    gasUsed,
		ReturnData: ret,
	}
}

func (e *Engine) commitAndMaybeChain(method string, input, output []byte) {
	e.CommittedDiff = append(e.CommittedDiff, e.Store.Commit()...)
	if e.Chain != nil {
		e.Chain.AddBlockTx(e.Host.BlockHeight(), method, input, output, nil)
	}
}

func effectiveGasPrice(tx *types.Transaction) *big.Int {
	if tx.Type() == types.DynamicFeeTxType {
		maxFee := tx.GasFeeCap()
		priority := tx.GasTipCap()
		// base fee is always 0 (spec.md §4.6), so effective = min(maxFee, priority).
		if priority.Cmp(maxFee) < 0 {
			return priority
		}
		return maxFee
	}
	return tx.GasPrice()
}

// ClassifyExecErr maps a go-ethereum EVM execution error to spec.md §7's
// Status taxonomy, shared by Submit's transaction path and the engine
// facade's direct-invocation (`call`/`deploy_code`/`view`) paths.
func ClassifyExecErr(err error) Status {
	switch {
	case errors.Is(err, vm.ErrExecutionReverted):
		return StatusRevert
	case errors.Is(err, vm.ErrOutOfGas):
		return StatusOutOfGas
	case errors.Is(err, vm.ErrInsufficientBalance):
		return StatusOutOfFund
	case errors.Is(err, vm.ErrReturnDataOutOfBounds), errors.Is(err, vm.ErrGasUintOverflow):
		return StatusOutOfOffset
	case errors.Is(err, vm.ErrDepth):
		return StatusCallTooDeep
	default:
		return StatusOther
	}
}
