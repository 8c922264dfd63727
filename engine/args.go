package engine

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/aurora-is-near/aurora-engine-go/borsh"
	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
)

// This file is the "single parse_args(kind, bytes) abstraction" spec.md §9
// asks for: every method's wire arguments have their own borsh/JSON decoder
// here, so engine.go's method bodies never touch a codec directly.

// NewCallArgs is the `new` method's argument (spec.md §6): one-time
// contract initialization.
type NewCallArgs struct {
	ChainID             uint64
	Owner               hostsdk.AccountID
	BridgeProverAccount  hostsdk.AccountID
	UpgradeDelayBlocks  uint64
}

func DecodeNewCallArgs(raw []byte) (NewCallArgs, error) {
	r := borsh.NewReader(raw)
	chainID, err := r.U64()
	if err != nil {
		return NewCallArgs{}, err
	}
	owner, err := r.String()
	if err != nil {
		return NewCallArgs{}, err
	}
	prover, err := r.String()
	if err != nil {
		return NewCallArgs{}, err
	}
	delay, err := r.U64()
	if err != nil {
		return NewCallArgs{}, err
	}
	return NewCallArgs{
		ChainID:            chainID,
		Owner:              hostsdk.AccountID(owner),
		BridgeProverAccount: hostsdk.AccountID(prover),
		UpgradeDelayBlocks: delay,
	}, nil
}

// CallArgs is the `call` method's argument: a permissioned direct
// invocation that bypasses transaction signature recovery.
type CallArgs struct {
	Contract common.Address
	Value    *big.Int
	Input    []byte
}

func DecodeCallArgs(raw []byte) (CallArgs, error) {
	r := borsh.NewReader(raw)
	contract, err := r.FixedBytes(20)
	if err != nil {
		return CallArgs{}, err
	}
	value, err := r.U128()
	if err != nil {
		return CallArgs{}, err
	}
	input, err := r.Bytes()
	if err != nil {
		return CallArgs{}, err
	}
	return CallArgs{Contract: common.BytesToAddress(contract), Value: value, Input: input}, nil
}

// ViewCallArgs is the `view` method's argument: a read-only call that must
// never mutate state.
type ViewCallArgs struct {
	Sender  common.Address
	Address common.Address
	Amount  *big.Int
	Input   []byte
}

func DecodeViewCallArgs(raw []byte) (ViewCallArgs, error) {
	r := borsh.NewReader(raw)
	sender, err := r.FixedBytes(20)
	if err != nil {
		return ViewCallArgs{}, err
	}
	addr, err := r.FixedBytes(20)
	if err != nil {
		return ViewCallArgs{}, err
	}
	amount, err := r.U128()
	if err != nil {
		return ViewCallArgs{}, err
	}
	input, err := r.Bytes()
	if err != nil {
		return ViewCallArgs{}, err
	}
	return ViewCallArgs{
		Sender:  common.BytesToAddress(sender),
		Address: common.BytesToAddress(addr),
		Amount:  amount,
		Input:   input,
	}, nil
}

// SubmitArgs is the `submit_with_args` method's argument (spec.md §6):
// raw tx bytes plus an optional cap on the effective gas price and an
// optional non-native gas-payment token.
type SubmitArgs struct {
	TxData          []byte
	MaxGasPrice     *big.Int // nil when absent
	GasTokenAddress *common.Address
}

func DecodeSubmitArgs(raw []byte) (SubmitArgs, error) {
	r := borsh.NewReader(raw)
	txData, err := r.Bytes()
	if err != nil {
		return SubmitArgs{}, err
	}

	args := SubmitArgs{TxData: txData}

	hasMaxPrice, err := r.OptionPresent()
	if err != nil {
		return SubmitArgs{}, err
	}
	if hasMaxPrice {
		price, err := r.U128()
		if err != nil {
			return SubmitArgs{}, err
		}
		args.MaxGasPrice = price
	}

	hasToken, err := r.OptionPresent()
	if err != nil {
		return SubmitArgs{}, err
	}
	if hasToken {
		addr, err := r.FixedBytes(20)
		if err != nil {
			return SubmitArgs{}, err
		}
		a := common.BytesToAddress(addr)
		args.GasTokenAddress = &a
	}

	return args, nil
}

// PausePrecompilesCallArgs is `pause_precompiles`/`resume_precompiles`'s
// argument: a bitmask over precompiles.Flag.
type PausePrecompilesCallArgs struct {
	PausedMask uint32
}

func DecodePausePrecompilesCallArgs(raw []byte) (PausePrecompilesCallArgs, error) {
	r := borsh.NewReader(raw)
	mask, err := r.U32()
	if err != nil {
		return PausePrecompilesCallArgs{}, err
	}
	return PausePrecompilesCallArgs{PausedMask: mask}, nil
}

// StartHashchainArgs is `start_hashchain`'s argument: the genesis height and
// hash the running block hashchain resumes from (spec.md §4.9).
type StartHashchainArgs struct {
	BlockHeight    uint64
	BlockHashchain [32]byte
}

func DecodeStartHashchainArgs(raw []byte) (StartHashchainArgs, error) {
	r := borsh.NewReader(raw)
	height, err := r.U64()
	if err != nil {
		return StartHashchainArgs{}, err
	}
	hash, err := r.FixedBytes(32)
	if err != nil {
		return StartHashchainArgs{}, err
	}
	var out StartHashchainArgs
	out.BlockHeight = height
	copy(out.BlockHashchain[:], hash)
	return out, nil
}

// SetOwnerArgs is `set_owner`'s argument.
type SetOwnerArgs struct {
	NewOwner hostsdk.AccountID
}

func DecodeSetOwnerArgs(raw []byte) (SetOwnerArgs, error) {
	r := borsh.NewReader(raw)
	owner, err := r.String()
	if err != nil {
		return SetOwnerArgs{}, err
	}
	return SetOwnerArgs{NewOwner: hostsdk.AccountID(owner)}, nil
}

// SetKeyManagerArgs is `set_key_manager`'s argument: Option<AccountId>,
// where None clears the key manager.
type SetKeyManagerArgs struct {
	KeyManager hostsdk.AccountID // "" when cleared
}

func DecodeSetKeyManagerArgs(raw []byte) (SetKeyManagerArgs, error) {
	r := borsh.NewReader(raw)
	present, err := r.OptionPresent()
	if err != nil {
		return SetKeyManagerArgs{}, err
	}
	if !present {
		return SetKeyManagerArgs{}, nil
	}
	km, err := r.String()
	if err != nil {
		return SetKeyManagerArgs{}, err
	}
	return SetKeyManagerArgs{KeyManager: hostsdk.AccountID(km)}, nil
}

// RelayerKeyArgs is `add_relayer_key`/`remove_relayer_key`'s argument: the
// NEAR public key (33-byte compressed secp256k1 or ed25519, tag-prefixed)
// the key manager is granting/revoking a function-call-access key for.
type RelayerKeyArgs struct {
	PublicKey []byte
}

func DecodeRelayerKeyArgs(raw []byte) (RelayerKeyArgs, error) {
	r := borsh.NewReader(raw)
	key, err := r.Bytes()
	if err != nil {
		return RelayerKeyArgs{}, err
	}
	return RelayerKeyArgs{PublicKey: key}, nil
}

// FtOnTransferArgs is the receiver-end NEP-141 callback argument (spec.md
// §6): JSON, not borsh, since it crosses the externally-mandated NEP-141
// boundary.
type FtOnTransferArgs struct {
	SenderID hostsdk.AccountID `json:"sender_id"`
	Amount   string            `json:"amount"`
	Msg      string            `json:"msg"`
}

func DecodeFtOnTransferArgs(raw []byte) (FtOnTransferArgs, error) {
	var args FtOnTransferArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return FtOnTransferArgs{}, err
	}
	return args, nil
}
