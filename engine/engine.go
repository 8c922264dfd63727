package engine

import (
	"encoding/hex"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/aurora-is-near/aurora-engine-go/account"
	"github.com/aurora-is-near/aurora-engine-go/evmrun"
	"github.com/aurora-is-near/aurora-engine-go/hashchain"
	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
	"github.com/aurora-is-near/aurora-engine-go/promise"
	"github.com/aurora-is-near/aurora-engine-go/storage"
	"github.com/aurora-is-near/aurora-engine-go/txengine"
)

// Engine is the one object every host entry point dispatches through: the
// wiring New assembles, held just long enough to service one invocation.
type Engine struct {
	store    *storage.Store
	accounts *account.Accounts
	driver   *evmrun.Driver
	host     hostsdk.Host
	chainID  uint64

	engineAccount hostsdk.AccountID
	chain         *hashchain.State

	// committedDiff accumulates every Commit() this invocation makes (a
	// method may commit more than once, e.g. the hashchain snapshot's
	// separate flush) so Dispatch/RunMethod can hand the replayer one
	// complete diff per entry point (spec.md §4.10).
	committedDiff []storage.DiffEntry
}

// commit flushes the store's pending diff and folds it into committedDiff.
func (e *Engine) commit() {
	e.committedDiff = append(e.committedDiff, e.store.Commit()...)
}

// accountIDToAddress derives the implicit EVM address of a host account id
// (original_source/engine-sdk/src/types.rs's near_account_to_evm_address):
// the low 20 bytes of its keccak256 hash.
func accountIDToAddress(id hostsdk.AccountID) common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte(id))[12:])
}

func (e *Engine) isInitialized() bool { return readBool(e.store, configKeyInitialized) }
func (e *Engine) isPaused() bool      { return readBool(e.store, configKeyPaused) }

// persistHashchain flushes the in-flight block builder's state (spec.md §4.9)
// back to storage so the next, freshly-constructed Engine can resume it.
func (e *Engine) persistHashchain() {
	if e.chain == nil {
		return
	}
	e.store.Write(hashchainSnapshotKey, e.chain.Snapshot())
	e.commit()
}

// newTxEngine builds the per-invocation txengine.Engine, sharing this
// Engine's account/driver/host wiring and hashchain builder.
func (e *Engine) newTxEngine() *txengine.Engine {
	return &txengine.Engine{
		Accounts:      e.accounts,
		Store:         e.store,
		Driver:        e.driver,
		Host:          e.host,
		ChainID:       e.chainID,
		EngineAccount: e.engineAccount,
		Chain:         e.chain,
		Sink:          promise.NewSink(),
	}
}

// Initialize implements the `new` entry point: one-time setup, requiring
// un-initialized state (spec.md §6).
func (e *Engine) Initialize(raw []byte) error {
	if e.isInitialized() {
		log.Warn("Initialize rejected: already initialized")
		return ErrAlreadyInitialized
	}
	args, err := DecodeNewCallArgs(raw)
	if err != nil {
		log.Error("Initialize: failed to decode args", "error", err)
		return err
	}
	writeAccountID(e.store, configKeyOwner, args.Owner)
	writeAccountID(e.store, configKeyBridgeProver, args.BridgeProverAccount)
	writeU64(e.store, configKeyChainID, args.ChainID)
	writeU64(e.store, configKeyUpgradeDelay, args.UpgradeDelayBlocks)
	writeBool(e.store, configKeyInitialized, true)
	e.commit()
	log.Info("Engine initialized", "owner", args.Owner, "chainID", args.ChainID)
	return nil
}

// Submit implements the `submit` entry point: a raw signed transaction.
func (e *Engine) Submit(raw []byte) ([]byte, error) {
	if e.isPaused() {
		log.Warn("Submit rejected: contract paused")
		return nil, ErrPaused
	}
	tx := e.newTxEngine()
	result := tx.Submit(raw)
	if result.Status != txengine.StatusSucceed {
		log.Debug("Submit did not succeed", "status", result.Status, "gasUsed", result.GasUsed, "reason", result.Reason)
	}
	e.committedDiff = append(e.committedDiff, tx.CommittedDiff...)
	e.persistHashchain()
	return EncodeSubmitResult(result), nil
}

// SubmitWithArgs implements `submit_with_args`: the same pipeline, with an
// optional cap on the effective gas price (spec.md §9 applies it uniformly
// to legacy and typed transactions). gas_token_address (non-native gas
// payment) is decoded but not used: escrow and refund always move the
// native balance.
func (e *Engine) SubmitWithArgs(raw []byte) ([]byte, error) {
	if e.isPaused() {
		log.Warn("SubmitWithArgs rejected: contract paused")
		return nil, ErrPaused
	}
	args, err := DecodeSubmitArgs(raw)
	if err != nil {
		log.Error("SubmitWithArgs: failed to decode args", "error", err)
		return nil, err
	}
	tx := e.newTxEngine()
	tx.MaxGasPrice = args.MaxGasPrice
	result := tx.Submit(args.TxData)
	if result.Status != txengine.StatusSucceed {
		log.Debug("SubmitWithArgs did not succeed", "status", result.Status, "gasUsed", result.GasUsed, "reason", result.Reason)
	}
	e.committedDiff = append(e.committedDiff, tx.CommittedDiff...)
	e.persistHashchain()
	return EncodeSubmitResult(result), nil
}

// Call implements `call`: a permissioned direct invocation from the host
// predecessor, bypassing transaction signature recovery and nonce checks
// entirely (the predecessor's implicit address stands in for a signer).
func (e *Engine) Call(raw []byte) ([]byte, error) {
	if e.isPaused() {
		log.Warn("Call rejected: contract paused")
		return nil, ErrPaused
	}
	args, err := DecodeCallArgs(raw)
	if err != nil {
		log.Error("Call: failed to decode args", "error", err)
		return nil, err
	}
	sender := accountIDToAddress(e.host.PredecessorAccountID())
	sink := promise.NewSink()
	evm := e.driver.NewEVM(e.host, e.engineAccount, e.store, sink)

	value, _ := uint256.FromBig(args.Value)
	ret, gasUsed, execErr := e.driver.Call(evm, sender, args.Contract, args.Input, e.host.PrepaidGas(), value)

	status := txengine.StatusSucceed
	if execErr != nil {
		status = classifyDirectErr(execErr)
		log.Debug("Call execution failed", "contract", args.Contract, "status", status, "error", execErr)
	}

	e.commit()
	if e.chain != nil {
		_ = e.chain.AddBlockTx(e.host.BlockHeight(), "call", raw, ret, nil)
	}
	e.persistHashchain()

	if status == txengine.StatusSucceed && sink.Len() > 0 {
		promise.Flush(e.host, sink)
	}

	return EncodeSubmitResult(txengine.SubmitResult{Status: status, GasUsed: gasUsed, ReturnData: ret}), nil
}

// DeployCode implements `deploy_code`: a direct contract creation from the
// host predecessor's implicit address, sharing Call's non-transactional path.
func (e *Engine) DeployCode(initCode []byte) ([]byte, error) {
	if e.isPaused() {
		log.Warn("DeployCode rejected: contract paused")
		return nil, ErrPaused
	}
	sender := accountIDToAddress(e.host.PredecessorAccountID())
	sink := promise.NewSink()
	evm := e.driver.NewEVM(e.host, e.engineAccount, e.store, sink)

	ret, _, gasUsed, execErr := e.driver.Create(evm, sender, initCode, e.host.PrepaidGas(), new(uint256.Int))

	status := txengine.StatusSucceed
	if execErr != nil {
		status = classifyDirectErr(execErr)
		log.Debug("DeployCode execution failed", "status", status, "error", execErr)
	}

	e.commit()
	if e.chain != nil {
		_ = e.chain.AddBlockTx(e.host.BlockHeight(), "deploy_code", initCode, ret, nil)
	}
	e.persistHashchain()

	if status == txengine.StatusSucceed && sink.Len() > 0 {
		promise.Flush(e.host, sink)
	}

	return EncodeSubmitResult(txengine.SubmitResult{Status: status, GasUsed: gasUsed, ReturnData: ret}), nil
}

// View implements `view`: a read-only call whose state diff is always
// discarded, paused or not (a view never mutates, so pausing doesn't gate it).
func (e *Engine) View(raw []byte) ([]byte, error) {
	args, err := DecodeViewCallArgs(raw)
	if err != nil {
		return nil, err
	}
	sink := promise.NewSink() // discarded: a view must never schedule promises
	evm := e.driver.NewEVM(e.host, e.engineAccount, e.store, sink)

	value, _ := uint256.FromBig(args.Amount)
	ret, gasUsed, execErr := e.driver.Call(evm, args.Sender, args.Address, args.Input, e.host.PrepaidGas(), value)
	e.store.Abort()

	status := txengine.StatusSucceed
	if execErr != nil {
		status = classifyDirectErr(execErr)
		log.Debug("View execution failed", "status", status, "error", execErr)
	}
	return EncodeSubmitResult(txengine.SubmitResult{Status: status, GasUsed: gasUsed, ReturnData: ret}), nil
}

func classifyDirectErr(err error) txengine.Status {
	return txengine.ClassifyExecErr(err)
}

// PauseContract implements `pause_contract`: owner only.
func (e *Engine) PauseContract() error {
	caller := e.host.PredecessorAccountID()
	if !IsOwner(e.store, caller) {
		log.Warn("PauseContract rejected: not owner", "caller", caller)
		return ErrNotAllowed
	}
	writeBool(e.store, configKeyPaused, true)
	e.commit()
	log.Info("Contract paused", "caller", caller)
	return nil
}

// ResumeContract implements `resume_contract`: owner only.
func (e *Engine) ResumeContract() error {
	caller := e.host.PredecessorAccountID()
	if !IsOwner(e.store, caller) {
		log.Warn("ResumeContract rejected: not owner", "caller", caller)
		return ErrNotAllowed
	}
	writeBool(e.store, configKeyPaused, false)
	e.commit()
	log.Info("Contract resumed", "caller", caller)
	return nil
}

// PausePrecompiles implements `pause_precompiles`: permission-gated (owner,
// or an account holding PermissionPausePrecompiles — original_source/engine/
// src/acl.rs grants pausing, never resuming, to delegated accounts).
func (e *Engine) PausePrecompiles(raw []byte) error {
	caller := e.host.PredecessorAccountID()
	if !IsOwner(e.store, caller) && !IsAuthorized(e.store, caller, PermissionPausePrecompiles) {
		log.Warn("PausePrecompiles rejected: not authorized", "caller", caller)
		return ErrNotAllowed
	}
	args, err := DecodePausePrecompilesCallArgs(raw)
	if err != nil {
		return err
	}
	writeU32(e.store, configKeyPrecompileMask, readU32(e.store, configKeyPrecompileMask)|args.PausedMask)
	e.driver.Registry.SetPausedMask(readU32(e.store, configKeyPrecompileMask))
	e.commit()
	log.Info("Precompiles paused", "mask", args.PausedMask)
	return nil
}

// ResumePrecompiles implements `resume_precompiles`: owner only, unlike
// pausing.
func (e *Engine) ResumePrecompiles(raw []byte) error {
	if !IsOwner(e.store, e.host.PredecessorAccountID()) {
		return ErrNotAllowed
	}
	args, err := DecodePausePrecompilesCallArgs(raw)
	if err != nil {
		return err
	}
	writeU32(e.store, configKeyPrecompileMask, readU32(e.store, configKeyPrecompileMask)&^args.PausedMask)
	e.driver.Registry.SetPausedMask(readU32(e.store, configKeyPrecompileMask))
	e.commit()
	return nil
}

// StartHashchain implements `start_hashchain`: the contract must already be
// paused (spec.md §6), matching the source's requirement that no concurrent
// transaction can race the chain's genesis point.
func (e *Engine) StartHashchain(raw []byte) error {
	if !e.isPaused() {
		return ErrNotPaused
	}
	if !IsOwner(e.store, e.host.PredecessorAccountID()) {
		return ErrNotAllowed
	}
	args, err := DecodeStartHashchainArgs(raw)
	if err != nil {
		return err
	}
	e.chain.Start(args.BlockHashchain, args.BlockHeight)
	e.persistHashchain()
	return nil
}

// StageUpgrade implements `stage_upgrade`: owner only, stores the staged
// wasm bytes and the height they were staged at so DeployUpgrade can enforce
// the configured delay.
func (e *Engine) StageUpgrade(wasm []byte) error {
	if !IsOwner(e.store, e.host.PredecessorAccountID()) {
		return ErrNotAllowed
	}
	e.store.Write(configKeyStagedUpgrade, wasm)
	writeU64(e.store, configKeyStagedAtHeight, e.host.BlockHeight())
	e.commit()
	return nil
}

// DeployUpgrade implements `deploy_upgrade`: owner only, rejects if the
// configured delay has not elapsed since StageUpgrade (spec.md §6
// "delay-gated"). The actual wasm swap is the host's responsibility; this
// engine only enforces the gate and clears the staged slot.
func (e *Engine) DeployUpgrade() error {
	if !IsOwner(e.store, e.host.PredecessorAccountID()) {
		return ErrNotAllowed
	}
	if !e.store.Has(configKeyStagedUpgrade) {
		return ErrNoStagedUpgrade
	}
	stagedAt := readU64(e.store, configKeyStagedAtHeight)
	delay := readU64(e.store, configKeyUpgradeDelay)
	if e.host.BlockHeight() < stagedAt+delay {
		log.Warn("DeployUpgrade rejected: delay not elapsed", "stagedAt", stagedAt, "delay", delay, "height", e.host.BlockHeight())
		return ErrUpgradeTooSoon
	}
	e.store.Delete(configKeyStagedUpgrade)
	e.store.Delete(configKeyStagedAtHeight)
	writeU32(e.store, configKeyUpgradeIndex, readU32(e.store, configKeyUpgradeIndex)+1)
	e.commit()
	log.Info("Upgrade deployed", "stagedAt", stagedAt)
	return nil
}

// SetOwner implements `set_owner`: owner only, rejects setting the same
// owner (spec.md §7's ERR_SAME_OWNER).
func (e *Engine) SetOwner(raw []byte) error {
	if !IsOwner(e.store, e.host.PredecessorAccountID()) {
		return ErrNotAllowed
	}
	args, err := DecodeSetOwnerArgs(raw)
	if err != nil {
		return err
	}
	if args.NewOwner == readAccountID(e.store, configKeyOwner) {
		return ErrSameOwner
	}
	writeAccountID(e.store, configKeyOwner, args.NewOwner)
	e.commit()
	log.Info("Owner changed", "newOwner", args.NewOwner)
	return nil
}

// SetKeyManager implements `set_key_manager`: owner only.
func (e *Engine) SetKeyManager(raw []byte) error {
	if !IsOwner(e.store, e.host.PredecessorAccountID()) {
		return ErrNotAllowed
	}
	args, err := DecodeSetKeyManagerArgs(raw)
	if err != nil {
		return err
	}
	if args.KeyManager == "" {
		e.store.Delete(configKeyKeyManager)
	} else {
		writeAccountID(e.store, configKeyKeyManager, args.KeyManager)
	}
	e.commit()
	return nil
}

// AddRelayerKey implements `add_relayer_key`: key-manager only. The full
// NEAR function-call access key grant (method allowlist, allowance) lives
// on the host side of the boundary; this engine only tracks which public
// keys it has authorized, for `get_relayer_keys`-style views.
func (e *Engine) AddRelayerKey(raw []byte) error {
	if !IsKeyManager(e.store, e.host.PredecessorAccountID()) {
		if !e.store.Has(configKeyKeyManager) {
			return ErrKeyManagerNotSet
		}
		return ErrNotAllowed
	}
	args, err := DecodeRelayerKeyArgs(raw)
	if err != nil {
		return err
	}
	e.store.Write(relayerKeyKey(args.PublicKey), []byte{1})
	e.commit()
	return nil
}

// RemoveRelayerKey implements `remove_relayer_key`: key-manager only.
func (e *Engine) RemoveRelayerKey(raw []byte) error {
	if !IsKeyManager(e.store, e.host.PredecessorAccountID()) {
		if !e.store.Has(configKeyKeyManager) {
			return ErrKeyManagerNotSet
		}
		return ErrNotAllowed
	}
	args, err := DecodeRelayerKeyArgs(raw)
	if err != nil {
		return err
	}
	e.store.Delete(relayerKeyKey(args.PublicKey))
	e.commit()
	return nil
}

func relayerKeyKey(pub []byte) []byte {
	return storage.Key(storage.PrefixWhitelist, []byte("relayer_key:"), pub)
}

// FtOnTransfer implements the receiver-end NEP-141 callback (spec.md §6):
// JSON in, JSON out, crediting the message's target EVM address with the
// bridged amount. Returns the unused-amount JSON string the NEP-141
// standard's transfer-and-call convention requires ("0" means all consumed).
func (e *Engine) FtOnTransfer(raw []byte) ([]byte, error) {
	args, err := DecodeFtOnTransferArgs(raw)
	if err != nil {
		return nil, err
	}
	amount, ok := new(big.Int).SetString(args.Amount, 10)
	if !ok {
		log.Error("FtOnTransfer: malformed amount", "amount", args.Amount)
		return nil, ErrNotAllowed
	}
	target := accountIDToAddress(args.SenderID)
	if len(args.Msg) == 40 {
		if addr, err := hexToAddress(args.Msg); err == nil {
			target = addr
		}
	}
	amountU256, _ := uint256.FromBig(amount)
	e.accounts.AddBalance(target, amountU256, tracing.BalanceChangeUnspecified)
	e.commit()
	return json.Marshal("0")
}

func hexToAddress(s string) (common.Address, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(b), nil
}
