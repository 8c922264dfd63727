package bridge

import (
	"errors"
	"math/big"

	"github.com/aurora-is-near/aurora-engine-go/borsh"
	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
	"github.com/aurora-is-near/aurora-engine-go/promise"
	"github.com/aurora-is-near/aurora-engine-go/storage"
)

// ExitToEthereum implements the exit_to_ethereum precompile (spec.md
// §4.5.2): schedules a withdraw promise back to Ethereum instead of
// mutating EVM state.
type ExitToEthereum struct {
	Store *storage.Store
	Host  hostsdk.Host
	Sink  *promise.Sink
}

func (ExitToEthereum) RequiredGas([]byte) uint64 { return ExitToEthereumGas }

func (p ExitToEthereum) Run(ctx CallContext, input []byte) ([]Log, error) {
	if err := Guard(ctx); err != nil {
		return nil, err
	}
	if len(input) < 1 {
		return nil, errors.New("exit_to_ethereum: empty input")
	}

	flag := input[0]
	body := input[1:]

	switch flag {
	case 0x00:
		return p.runNativeWithdraw(ctx, body)
	case 0x01:
		return p.runErc20Withdraw(ctx, body)
	default:
		return nil, errors.New("exit_to_ethereum: unknown flag")
	}
}

func (p ExitToEthereum) runNativeWithdraw(ctx CallContext, body []byte) ([]Log, error) {
	if len(body) < 20 {
		return nil, errors.New("exit_to_ethereum: missing recipient")
	}
	recipient := body[:20]
	amount := new(big.Int).SetBytes(reverseU128(ctx.ApparentValue))

	w := borsh.NewWriter()
	w.FixedBytes(recipient)
	w.U128(amount)

	args := hostsdk.PromiseCreateArgs{
		TargetAccountID: p.Host.CurrentAccountID(),
		Method:          "withdraw",
		Args:            w.Bytes(),
		AttachedBalance: OneYocto,
		AttachedGas:     FTTransferGas,
	}
	p.Sink.Append(promise.Action{Create: args})
	return []Log{exitLog(ctx.Self, encodePromiseCreateForLog(args))}, nil
}

func (p ExitToEthereum) runErc20Withdraw(ctx CallContext, body []byte) ([]Log, error) {
	if ctx.ApparentValue != ([16]byte{}) {
		return nil, ErrEthAttachedForErc20Exit
	}
	if len(body) < 32+20 {
		return nil, errors.New("exit_to_ethereum: short erc20 withdraw payload")
	}

	amount := new(big.Int).SetBytes(body[:32])
	recipient := body[32:52]

	erc20 := ctx.Caller
	nep141Key := storage.Key(storage.PrefixErc20Nep141Map, erc20.Bytes())
	nep141, ok := p.Store.Read(nep141Key)
	if !ok {
		return nil, ErrTargetTokenNotFound
	}

	args := hostsdk.PromiseCreateArgs{
		TargetAccountID: hostsdk.AccountID(nep141),
		Method:          "withdraw",
		Args:            newErc20WithdrawArgs(amount, hexString(recipient)),
		AttachedBalance: OneYocto,
		AttachedGas:     FTTransferGas,
	}
	p.Sink.Append(promise.Action{Create: args})
	return []Log{exitLog(ctx.Self, encodePromiseCreateForLog(args))}, nil
}

func hexString(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 2+len(b)*2)
	out[0], out[1] = '0', 'x'
	for i, c := range b {
		out[2+i*2] = hexdigits[c>>4]
		out[2+i*2+1] = hexdigits[c&0x0f]
	}
	return string(out)
}
