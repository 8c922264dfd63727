package bridge

import (
	"encoding/hex"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/aurora-is-near/aurora-engine-go/borsh"
	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
	"github.com/aurora-is-near/aurora-engine-go/promise"
	"github.com/aurora-is-near/aurora-engine-go/storage"
)

// Call is the borsh Call payload inside CrossContractCallArgs: a single
// cross-contract invocation plus its own callbacks.
type Call struct {
	TargetAccountID hostsdk.AccountID
	Method          string
	Args            []byte
	AttachedBalance *big.Int
	AttachedGas     uint64
	Callbacks       []Call
}

// TotalGas sums this call's attached gas plus every nested callback's,
// matching spec.md §4.5.3's "call.total_gas()".
func (c Call) TotalGas() uint64 {
	total := c.AttachedGas
	for _, cb := range c.Callbacks {
		total += cb.TotalGas()
	}
	return total
}

func (c Call) callbackCount() uint64 {
	n := uint64(len(c.Callbacks))
	for _, cb := range c.Callbacks {
		n += cb.callbackCount()
	}
	return n
}

// CrossContractCallArgs is spec.md §4.5.3's Eager(Call) | Delayed(Call)
// enum.
type CrossContractCallArgs struct {
	Delayed bool
	Call    Call
}

// DecodeCrossContractCallArgs parses the borsh-encoded precompile input: a
// u8 variant tag (0 = Eager, 1 = Delayed) followed by a Call.
func DecodeCrossContractCallArgs(input []byte) (CrossContractCallArgs, error) {
	r := borsh.NewReader(input)
	tag, err := r.Variant()
	if err != nil {
		return CrossContractCallArgs{}, err
	}
	call, err := decodeCall(r)
	if err != nil {
		return CrossContractCallArgs{}, err
	}
	return CrossContractCallArgs{Delayed: tag == 1, Call: call}, nil
}

func decodeCall(r *borsh.Reader) (Call, error) {
	target, err := r.String()
	if err != nil {
		return Call{}, err
	}
	method, err := r.String()
	if err != nil {
		return Call{}, err
	}
	args, err := r.Bytes()
	if err != nil {
		return Call{}, err
	}
	balance, err := r.U128()
	if err != nil {
		return Call{}, err
	}
	gas, err := r.U64()
	if err != nil {
		return Call{}, err
	}
	n, err := r.U32()
	if err != nil {
		return Call{}, err
	}
	callbacks := make([]Call, 0, n)
	for i := uint32(0); i < n; i++ {
		cb, err := decodeCall(r)
		if err != nil {
			return Call{}, err
		}
		callbacks = append(callbacks, cb)
	}
	return Call{
		TargetAccountID: hostsdk.AccountID(target),
		Method:          method,
		Args:            args,
		AttachedBalance: balance,
		AttachedGas:     gas,
		Callbacks:       callbacks,
	}, nil
}

// CrossContractCall implements the near_cross_contract_call precompile
// (spec.md §4.5.3): submits (possibly nested) router calls, staking the
// router's storage on first use.
type CrossContractCall struct {
	Store        *storage.Store
	Host         hostsdk.Host
	Sink         *promise.Sink
	EngineAccount hostsdk.AccountID

	// RouterDeployed reports whether caller already has a deployed router
	// contract (get_code_version_of_address != None in spec.md §4.5.3); the
	// EVM driver supplies this since it owns account/code state.
	RouterDeployed func(caller common.Address) bool

	// TransferFrom performs the synchronous wNEAR transferFrom sub-call used
	// to stake router storage; wired in by evmrun, which alone can issue a
	// nested EVM call. Returns an error if the sub-call reverts or fails.
	TransferFrom func(caller common.Address, amount *big.Int) error
}

// RequiredGas implements spec.md §4.5.3's formula:
// CROSS_CONTRACT_CALL_BASE + CROSS_CONTRACT_CALL_BYTE*input_len +
// attached_host_gas/CROSS_CONTRACT_CALL_NEAR_GAS.
func (p CrossContractCall) RequiredGas(input []byte) uint64 {
	args, err := DecodeCrossContractCallArgs(input)
	if err != nil {
		return CrossContractCallBaseGas + CrossContractCallByteGas*uint64(len(input))
	}
	hostGas := args.Call.TotalGas()
	return CrossContractCallBaseGas +
		CrossContractCallByteGas*uint64(len(input)) +
		hostGas/CrossContractCallNearGas
}

func (p CrossContractCall) Run(ctx CallContext, input []byte) ([]Log, error) {
	if err := Guard(ctx); err != nil {
		return nil, err
	}

	args, err := DecodeCrossContractCallArgs(input)
	if err != nil {
		return nil, err
	}

	target := hostsdk.AccountID(hex.EncodeToString(ctx.Caller.Bytes()) + "." + p.EngineAccount.String())

	var method string
	var hostGas uint64
	if args.Delayed {
		method = "schedule"
		hostGas = RouterSchedule
	} else {
		method = "execute"
		hostGas = RouterExecBase + args.Call.callbackCount()*RouterExecPerCallback + args.Call.TotalGas()
	}

	needsStake := p.RouterDeployed != nil && !p.RouterDeployed(ctx.Caller)
	var requiredNear *big.Int
	if needsStake {
		requiredNear = new(big.Int).SetBytes(reverseU128(StorageAmountYocto))
		if p.TransferFrom != nil {
			if err := p.TransferFrom(ctx.Caller, requiredNear); err != nil {
				return nil, err
			}
		}
	}

	createArgs := hostsdk.PromiseCreateArgs{
		TargetAccountID: target,
		Method:          method,
		Args:            encodeCall(args.Call),
		AttachedGas:     hostGas,
	}
	p.Sink.Append(promise.Action{Create: createArgs})

	if requiredNear == nil {
		return nil, nil
	}

	amountTopic := common.BytesToHash([]byte("AMOUNT_TOPIC"))
	log := Log{
		Address: ctx.Self,
		Topics:  []common.Hash{amountTopic, common.BigToHash(requiredNear)},
		Data:    encodePromiseCreateForLog(createArgs),
	}
	return []Log{log}, nil
}

func encodeCall(c Call) []byte {
	w := borsh.NewWriter()
	w.String(c.TargetAccountID.String())
	w.String(c.Method)
	w.Bytes_(c.Args)
	w.U128(c.AttachedBalance)
	w.U64(c.AttachedGas)
	w.U32(uint32(len(c.Callbacks)))
	for _, cb := range c.Callbacks {
		w.FixedBytes(encodeCall(cb))
	}
	return w.Bytes()
}
