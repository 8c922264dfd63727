package bridge

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/aurora-is-near/aurora-engine-go/borsh"
	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
	"github.com/aurora-is-near/aurora-engine-go/promise"
	"github.com/aurora-is-near/aurora-engine-go/storage"
)

// ErrTargetTokenNotFound is returned by the 0x01 (ERC-20) exit flow when the
// caller address has no erc20 -> nep141 mapping registered.
var ErrTargetTokenNotFound = errors.New("Target token not found")

// ErrEthAttachedForErc20Exit is the guard named verbatim in spec.md §4.5.1:
// an ERC-20 exit must not also carry native value.
var ErrEthAttachedForErc20Exit = errors.New("ERR_ETH_ATTACHED_FOR_ERC20_EXIT")

// ExitToNear implements the exit_to_near precompile (spec.md §4.5.1): an EVM
// call that schedules an NEP-141 ft_transfer promise instead of mutating EVM
// state directly.
type ExitToNear struct {
	Store *storage.Store
	Host  hostsdk.Host
	Sink  *promise.Sink
}

func (ExitToNear) RequiredGas([]byte) uint64 { return ExitToNearGas }

// Run executes the exit. apparentValue is the native value attached to the
// EVM call (the "amount" of the 0x00 flow); for the 0x01 flow it must be
// zero.
func (p ExitToNear) Run(ctx CallContext, input []byte) ([]Log, error) {
	if err := Guard(ctx); err != nil {
		return nil, err
	}
	if len(input) < 1 {
		return nil, errors.New("exit_to_near: empty input")
	}

	flag := input[0]
	body := input[1:]

	switch flag {
	case 0x00:
		return p.runNativeExit(ctx, body)
	case 0x01:
		return p.runErc20Exit(ctx, body)
	default:
		return nil, errors.New("exit_to_near: unknown flag")
	}
}

func (p ExitToNear) runNativeExit(ctx CallContext, body []byte) ([]Log, error) {
	receiverID := string(body)
	amount := new(big.Int).SetBytes(reverseU128(ctx.ApparentValue))

	args := hostsdk.PromiseCreateArgs{
		TargetAccountID: p.Host.CurrentAccountID(),
		Method:          "ft_transfer",
		Args:            newFtTransferArgs(receiverID, amount),
		AttachedBalance: OneYocto,
		AttachedGas:     FTTransferGas,
	}
	p.Sink.Append(promise.Action{Create: args})

	return []Log{exitLog(ctx.Self, encodePromiseCreateForLog(args))}, nil
}

func (p ExitToNear) runErc20Exit(ctx CallContext, body []byte) ([]Log, error) {
	if ctx.ApparentValue != ([16]byte{}) {
		return nil, ErrEthAttachedForErc20Exit
	}
	if len(body) < 32 {
		return nil, errors.New("exit_to_near: short erc20 exit payload")
	}

	amount := new(big.Int).SetBytes(body[:32])
	receiverID := string(body[32:])

	erc20 := ctx.Caller
	nep141Key := storage.Key(storage.PrefixErc20Nep141Map, erc20.Bytes())
	nep141, ok := p.Store.Read(nep141Key)
	if !ok {
		return nil, ErrTargetTokenNotFound
	}

	args := hostsdk.PromiseCreateArgs{
		TargetAccountID: hostsdk.AccountID(nep141),
		Method:          "ft_transfer",
		Args:            newFtTransferArgs(receiverID, amount),
		AttachedBalance: OneYocto,
		AttachedGas:     FTTransferGas,
	}
	p.Sink.Append(promise.Action{Create: args})

	return []Log{exitLog(ctx.Self, encodePromiseCreateForLog(args))}, nil
}

func exitLog(self common.Address, data []byte) Log {
	return Log{Address: self, Topics: []common.Hash{exitEventTopic}, Data: data}
}

// encodePromiseCreateForLog borsh-encodes a PromiseCreate for the exit log's
// data field.
func encodePromiseCreateForLog(args hostsdk.PromiseCreateArgs) []byte {
	w := borsh.NewWriter()
	w.String(args.TargetAccountID.String())
	w.String(args.Method)
	w.Bytes_(args.Args)
	w.FixedBytes(args.AttachedBalance[:])
	w.U64(args.AttachedGas)
	return w.Bytes()
}

func reverseU128(v [16]byte) []byte {
	out := make([]byte, 16)
	for i := range v {
		out[i] = v[15-i]
	}
	return out
}
