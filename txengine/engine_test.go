package txengine

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/aurora-is-near/aurora-engine-go/account"
	"github.com/aurora-is-near/aurora-engine-go/evmrun"
	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
	"github.com/aurora-is-near/aurora-engine-go/precompiles"
	"github.com/aurora-is-near/aurora-engine-go/storage"
)

// newTestEngine builds an Engine over a fresh in-memory host, mirroring
// spec.md §8 scenario 1's setup (no precompiles are addressed by any
// scenario below, so an empty registry is enough).
func newTestEngine(t *testing.T) (*Engine, *account.Accounts) {
	t.Helper()
	var chainID [32]byte
	chainID[31] = 0x54
	host := hostsdk.NewMemoryHost("aurora", "relay.aurora", "relay.aurora", chainID, 300_000_000_000_000)
	store := storage.New(host)
	accounts := account.New(store)
	driver := &evmrun.Driver{Accounts: accounts, Registry: precompiles.New(), ChainCfg: params.MainnetChainConfig}

	return &Engine{
		Accounts:      accounts,
		Store:         store,
		Driver:        driver,
		Host:          host,
		ChainID:       1313161556,
		EngineAccount: "aurora",
	}, accounts
}

func setBalance(t *testing.T, accounts *account.Accounts, addr [20]byte, v int64) {
	t.Helper()
	amount, ok := uint256.FromBig(big.NewInt(v))
	require.True(t, ok)
	accounts.AddBalance(addr, amount, tracing.BalanceChangeUnspecified)
}

func TestSubmit_EthTransfer(t *testing.T) {
	e, accounts := newTestEngine(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sender := crypto.PubkeyToAddress(key.PublicKey)

	rk, err := crypto.GenerateKey()
	require.NoError(t, err)
	recipient := crypto.PubkeyToAddress(rk.PublicKey)

	setBalance(t, accounts, sender, 1_000_000)

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(0),
		Gas:      21_000,
		To:       &recipient,
		Value:    big.NewInt(123),
	})
	signedTx, err := types.SignTx(tx, types.HomesteadSigner{}, key)
	require.NoError(t, err)
	raw, err := signedTx.MarshalBinary()
	require.NoError(t, err)

	result := e.Submit(raw)

	require.Equal(t, StatusSucceed, result.Status)
	require.Equal(t, uint64(21_000), result.GasUsed)
	require.Equal(t, uint64(999_877), accounts.GetBalance(sender).Uint64())
	require.Equal(t, uint64(123), accounts.GetBalance(recipient).Uint64())
	require.Equal(t, uint64(1), accounts.GetNonce(sender))
}

func TestSubmit_InsufficientFunds(t *testing.T) {
	e, accounts := newTestEngine(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sender := crypto.PubkeyToAddress(key.PublicKey)
	rk, err := crypto.GenerateKey()
	require.NoError(t, err)
	recipient := crypto.PubkeyToAddress(rk.PublicKey)

	setBalance(t, accounts, sender, 1_000_000)

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(0),
		Gas:      21_000,
		To:       &recipient,
		Value:    big.NewInt(2_000_000),
	})
	signedTx, err := types.SignTx(tx, types.HomesteadSigner{}, key)
	require.NoError(t, err)
	raw, err := signedTx.MarshalBinary()
	require.NoError(t, err)

	result := e.Submit(raw)

	require.Equal(t, StatusOutOfFund, result.Status)
	require.Empty(t, result.Reason)
	require.Equal(t, uint64(1_000_000), accounts.GetBalance(sender).Uint64())
	require.Equal(t, uint64(1), accounts.GetNonce(sender))
}

func TestSubmit_IntrinsicGasTooLow(t *testing.T) {
	e, accounts := newTestEngine(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sender := crypto.PubkeyToAddress(key.PublicKey)
	rk, err := crypto.GenerateKey()
	require.NoError(t, err)
	recipient := crypto.PubkeyToAddress(rk.PublicKey)

	setBalance(t, accounts, sender, 1_000_000)

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(0),
		Gas:      10_000,
		To:       &recipient,
		Value:    big.NewInt(123),
	})
	signedTx, err := types.SignTx(tx, types.HomesteadSigner{}, key)
	require.NoError(t, err)
	raw, err := signedTx.MarshalBinary()
	require.NoError(t, err)

	result := e.Submit(raw)

	require.Equal(t, StatusOther, result.Status)
	require.Equal(t, "ERR_INTRINSIC_GAS", result.Reason)
	require.Equal(t, uint64(1), accounts.GetNonce(sender), "nonce still bumped per spec.md stage 4")
}

func TestSubmit_NonceMismatch(t *testing.T) {
	e, accounts := newTestEngine(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sender := crypto.PubkeyToAddress(key.PublicKey)
	rk, err := crypto.GenerateKey()
	require.NoError(t, err)
	recipient := crypto.PubkeyToAddress(rk.PublicKey)

	setBalance(t, accounts, sender, 1_000_000)
	accounts.SetNonce(sender, 5)

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(0),
		Gas:      21_000,
		To:       &recipient,
		Value:    big.NewInt(123),
	})
	signedTx, err := types.SignTx(tx, types.HomesteadSigner{}, key)
	require.NoError(t, err)
	raw, err := signedTx.MarshalBinary()
	require.NoError(t, err)

	result := e.Submit(raw)

	require.Equal(t, StatusOther, result.Status)
	require.Equal(t, "ERR_INCORRECT_NONCE", result.Reason)
	require.Equal(t, uint64(6), accounts.GetNonce(sender), "nonce bumped even on mismatch to deter griefing")
}

func TestIntrinsicGas_ContractCreationSurcharge(t *testing.T) {
	withoutCreate := IntrinsicGas(nil, nil, false)
	withCreate := IntrinsicGas(nil, nil, true)
	require.Equal(t, uint64(21_000), withoutCreate)
	require.Equal(t, uint64(21_000+32_000), withCreate)
}

func TestRefund_CappedAtOneFifthGasUsed(t *testing.T) {
	require.Equal(t, uint64(20), Refund(100, 0, 1_000_000))
	require.Equal(t, uint64(5), Refund(100, 5, 0))
}
