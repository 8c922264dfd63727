package bridge

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
	"github.com/aurora-is-near/aurora-engine-go/promise"
	"github.com/aurora-is-near/aurora-engine-go/storage"
)

func selfCtx(self, caller common.Address) CallContext {
	return CallContext{Caller: caller, Address: self, Self: self}
}

func TestGuardRejectsStaticCall(t *testing.T) {
	ctx := selfCtx(common.HexToAddress("0x01"), common.HexToAddress("0x02"))
	ctx.IsStaticCall = true
	require.ErrorIs(t, Guard(ctx), ErrInvalidInStatic)
}

func TestGuardRejectsDelegateCall(t *testing.T) {
	self := common.HexToAddress("0x01")
	ctx := CallContext{Self: self, Address: common.HexToAddress("0x02")}
	require.ErrorIs(t, Guard(ctx), ErrInvalidInDelegate)
}

func TestGuardAcceptsPlainCall(t *testing.T) {
	self := common.HexToAddress("0x01")
	ctx := CallContext{Self: self, Address: self}
	require.NoError(t, Guard(ctx))
}

func TestExitToNearNativeFlowSchedulesFtTransfer(t *testing.T) {
	host := hostsdk.NewMemoryHost("engine.near", "alice.near", "alice.near", [32]byte{}, 0)
	sink := promise.NewSink()
	store := storage.New(host)

	p := ExitToNear{Store: store, Host: host, Sink: sink}
	self := common.HexToAddress("0xaa")
	ctx := selfCtx(self, common.HexToAddress("0xbb"))
	ctx.ApparentValue[0] = 5 // little-endian 5 wei

	input := append([]byte{0x00}, []byte("bob.near")...)
	logs, err := p.Run(ctx, input)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Len(t, sink.Actions(), 1)
	require.Equal(t, "ft_transfer", sink.Actions()[0].Create.Method)
	require.Equal(t, hostsdk.AccountID("engine.near"), sink.Actions()[0].Create.TargetAccountID)
}

func TestExitToNearErc20FlowRequiresMapping(t *testing.T) {
	host := hostsdk.NewMemoryHost("engine.near", "alice.near", "alice.near", [32]byte{}, 0)
	sink := promise.NewSink()
	store := storage.New(host)

	p := ExitToNear{Store: store, Host: host, Sink: sink}
	self := common.HexToAddress("0xaa")
	caller := common.HexToAddress("0xbb")
	ctx := selfCtx(self, caller)

	input := append([]byte{0x01}, make([]byte, 32)...)
	input = append(input, []byte("bob.near")...)

	_, err := p.Run(ctx, input)
	require.ErrorIs(t, err, ErrTargetTokenNotFound)
}

func TestExitToNearErc20FlowRejectsAttachedValue(t *testing.T) {
	host := hostsdk.NewMemoryHost("engine.near", "alice.near", "alice.near", [32]byte{}, 0)
	sink := promise.NewSink()
	store := storage.New(host)
	caller := common.HexToAddress("0xbb")
	store.Write(storage.Key(storage.PrefixErc20Nep141Map, caller.Bytes()), []byte("token.near"))
	store.Commit()

	p := ExitToNear{Store: store, Host: host, Sink: sink}
	self := common.HexToAddress("0xaa")
	ctx := selfCtx(self, caller)
	ctx.ApparentValue[0] = 1

	input := append([]byte{0x01}, make([]byte, 32)...)
	_, err := p.Run(ctx, input)
	require.ErrorIs(t, err, ErrEthAttachedForErc20Exit)
}

func TestCrossContractCallRoundTripsArgs(t *testing.T) {
	call := Call{TargetAccountID: "router.near", Method: "execute", AttachedGas: 10, AttachedBalance: bigZero()}
	encoded := encodeCall(call)

	w := append([]byte{0}, encoded...) // tag 0 = Eager
	args, err := DecodeCrossContractCallArgs(w)
	require.NoError(t, err)
	require.False(t, args.Delayed)
	require.Equal(t, hostsdk.AccountID("router.near"), args.Call.TargetAccountID)
	require.Equal(t, "execute", args.Call.Method)
}

func bigZero() *big.Int { return big.NewInt(0) }
