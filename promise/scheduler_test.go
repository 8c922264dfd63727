package promise

import (
	"testing"

	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
	"github.com/stretchr/testify/require"
)

func TestFlushSchedulesCreateThenChainAndReturnsLastCallback(t *testing.T) {
	h := hostsdk.NewMemoryHost("engine.near", "alice.near", "alice.near", [32]byte{1}, 300_000_000_000_000)
	sink := NewSink()
	sink.Append(Action{
		Create: hostsdk.PromiseCreateArgs{TargetAccountID: "engine.near", Method: "ft_transfer"},
		Then: []hostsdk.PromiseCreateArgs{
			{TargetAccountID: "engine.near", Method: "ft_resolve_transfer"},
		},
	})

	Flush(h, sink)

	require.Len(t, h.Promises, 2)
	require.Equal(t, "ft_transfer", h.Promises[0].Args.Method)
	require.Equal(t, "ft_resolve_transfer", h.Promises[1].Args.Method)
	require.Equal(t, h.Promises[0].ID, h.Promises[1].ParentID)

	returned, ok := h.ReturnedPromise()
	require.True(t, ok)
	require.Equal(t, h.Promises[1].ID, returned)
}

func TestReplayReturnsActionsWithoutTouchingHost(t *testing.T) {
	sink := NewSink()
	sink.Append(Action{Create: hostsdk.PromiseCreateArgs{Method: "withdraw"}})

	actions := Replay(sink)
	require.Len(t, actions, 1)
	require.Equal(t, "withdraw", actions[0].Create.Method)
}

func TestFlushNoActionsDoesNotReturn(t *testing.T) {
	h := hostsdk.NewMemoryHost("engine.near", "alice.near", "alice.near", [32]byte{1}, 300_000_000_000_000)
	Flush(h, NewSink())
	_, ok := h.ReturnedPromise()
	require.False(t, ok)
}
