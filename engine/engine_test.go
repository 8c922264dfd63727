package engine

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/borsh"
	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
	"github.com/aurora-is-near/aurora-engine-go/txengine"
)

func newHost(t *testing.T, predecessor hostsdk.AccountID) *hostsdk.MemoryHost {
	t.Helper()
	var chainID [32]byte
	chainID[31] = 0x54
	return hostsdk.NewMemoryHost("aurora", predecessor, predecessor, chainID, 300_000_000_000_000)
}

func newInitArgs(owner, prover hostsdk.AccountID, chainID, delay uint64) []byte {
	return borsh.NewWriter().
		U64(chainID).
		String(string(owner)).
		String(string(prover)).
		U64(delay).
		Bytes()
}

// initializedEngine builds an Engine over a host whose predecessor is a
// plain relayer account (not the owner), for entry points that don't need
// owner privileges.
func initializedEngine(t *testing.T) (*Engine, *hostsdk.MemoryHost) {
	t.Helper()
	host := newHost(t, "relay.aurora")
	e := New(host, params.MainnetChainConfig, "aurora")
	require.NoError(t, e.Initialize(newInitArgs("owner.aurora", "prover.aurora", 1313161556, 0)))
	return e, host
}

// initializedEngineAsOwner is the same setup, but the host's predecessor is
// the configured owner, for the owner-gated entry points.
func initializedEngineAsOwner(t *testing.T) (*Engine, *hostsdk.MemoryHost) {
	t.Helper()
	host := newHost(t, "owner.aurora")
	e := New(host, params.MainnetChainConfig, "aurora")
	require.NoError(t, e.Initialize(newInitArgs("owner.aurora", "prover.aurora", 1313161556, 0)))
	return e, host
}

func decodeSubmitResult(t *testing.T, raw []byte) txengine.SubmitResult {
	t.Helper()
	r := borsh.NewReader(raw)
	status, err := r.Variant()
	require.NoError(t, err)
	gasUsed, err := r.U64()
	require.NoError(t, err)
	returnData, err := r.Bytes()
	require.NoError(t, err)
	reason, err := r.String()
	require.NoError(t, err)
	return txengine.SubmitResult{
		Status:     txengine.Status(status),
		GasUsed:    gasUsed,
		ReturnData: returnData,
		Reason:     reason,
	}
}

func TestInitialize_RejectsDoubleInit(t *testing.T) {
	e, _ := initializedEngine(t)
	err := e.Initialize(newInitArgs("owner.aurora", "prover.aurora", 1313161556, 0))
	require.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestSubmit_HappyPath(t *testing.T) {
	e, _ := initializedEngine(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sender := crypto.PubkeyToAddress(key.PublicKey)
	recipient := common.BytesToAddress([]byte{0x09})

	balance, ok := uint256.FromBig(big.NewInt(1_000_000))
	require.True(t, ok)
	e.accounts.AddBalance(sender, balance, tracing.BalanceChangeUnspecified)

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(0),
		Gas:      21_000,
		To:       &recipient,
		Value:    big.NewInt(100),
	})
	signed, err := types.SignTx(tx, types.HomesteadSigner{}, key)
	require.NoError(t, err)
	raw, err := signed.MarshalBinary()
	require.NoError(t, err)

	out, err := e.Submit(raw)
	require.NoError(t, err)
	result := decodeSubmitResult(t, out)
	require.Equal(t, txengine.StatusSucceed, result.Status)
	require.NotEmpty(t, e.committedDiff)
}

func TestSubmit_RejectedWhenPaused(t *testing.T) {
	e, _ := initializedEngineAsOwner(t)
	require.NoError(t, e.PauseContract())

	_, err := e.Submit([]byte{})
	require.ErrorIs(t, err, ErrPaused)
}

func TestPauseContract_RejectsNonOwner(t *testing.T) {
	e, _ := initializedEngine(t)
	err := e.PauseContract()
	require.ErrorIs(t, err, ErrNotAllowed, "predecessor is relay.aurora, not the configured owner")
}

func TestPausePrecompiles_ResumePrecompiles_RoundTrip(t *testing.T) {
	e, _ := initializedEngineAsOwner(t)

	mask := uint32(1)
	args := borsh.NewWriter().U32(mask).Bytes()

	require.NoError(t, e.PausePrecompiles(args))
	require.Equal(t, mask, readU32(e.store, configKeyPrecompileMask))

	require.NoError(t, e.ResumePrecompiles(args))
	require.Equal(t, uint32(0), readU32(e.store, configKeyPrecompileMask))
}

func TestStartHashchain_RequiresPaused(t *testing.T) {
	e, _ := initializedEngineAsOwner(t)

	args := borsh.NewWriter().U64(10).FixedBytes(make([]byte, 32)).Bytes()
	err := e.StartHashchain(args)
	require.ErrorIs(t, err, ErrNotPaused)

	require.NoError(t, e.PauseContract())
	require.NoError(t, e.StartHashchain(args))
}

func TestSetOwner_RejectsSameOwner(t *testing.T) {
	e, _ := initializedEngineAsOwner(t)

	same := borsh.NewWriter().String("owner.aurora").Bytes()
	require.ErrorIs(t, e.SetOwner(same), ErrSameOwner)

	changed := borsh.NewWriter().String("new-owner.aurora").Bytes()
	require.NoError(t, e.SetOwner(changed))
	require.Equal(t, hostsdk.AccountID("new-owner.aurora"), readAccountID(e.store, configKeyOwner))
}

func TestFtOnTransfer_CreditsTargetAddress(t *testing.T) {
	e, _ := initializedEngine(t)

	target := common.BytesToAddress([]byte{0x09})
	msg := hex.EncodeToString(target.Bytes())

	args := `{"sender_id":"bridge.aurora","amount":"500","msg":"` + msg + `"}`
	out, err := e.FtOnTransfer([]byte(args))
	require.NoError(t, err)
	require.Equal(t, `"0"`, string(out))
	require.Equal(t, uint64(500), e.accounts.GetBalance(target).Uint64())
}

func TestDispatch_RoutesNewAndRejectsDoubleInit(t *testing.T) {
	host := newHost(t, "relay.aurora")
	e := New(host, params.MainnetChainConfig, "aurora")

	_, err := e.Dispatch("new", newInitArgs("owner.aurora", "prover.aurora", 1313161556, 0))
	require.NoError(t, err)

	_, err = e.Dispatch("new", newInitArgs("owner.aurora", "prover.aurora", 1313161556, 0))
	require.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestDispatch_UnknownMethod(t *testing.T) {
	e, _ := initializedEngine(t)
	_, err := e.Dispatch("not_a_real_method", nil)
	require.ErrorIs(t, err, ErrUnknownMethod)
}
