package engine

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/core/tracing"
	"github.com/holiman/uint256"

	"github.com/aurora-is-near/aurora-engine-go/hostsdk"
	"github.com/aurora-is-near/aurora-engine-go/promise"
	"github.com/aurora-is-near/aurora-engine-go/storage"
)

// depositArgs is the JSON body `deposit` accepts: a finalized bridge proof
// identified by proof_id, crediting recipient_id's implicit EVM address with
// amount of bridged native currency. The full Merkle-proof verification the
// real eth-connector performs against the source chain's light client lives
// entirely on the host side of this boundary; this engine only enforces
// proof-id replay protection and the balance credit, documented as a
// simplification in DESIGN.md.
type depositArgs struct {
	ProofID     string            `json:"proof_id"`
	RecipientID hostsdk.AccountID `json:"recipient_id"`
	Amount      string            `json:"amount"`
}

func proofKey(proofID string) []byte {
	return storage.Key(storage.PrefixWhitelist, []byte("proof:"), []byte(proofID))
}

// Deposit implements `deposit`: finalizes an inbound bridge proof exactly
// once, crediting the recipient's implicit EVM address.
func (e *Engine) Deposit(raw []byte) ([]byte, error) {
	var args depositArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	if e.store.Has(proofKey(args.ProofID)) {
		return nil, ErrNotAllowed
	}
	amount, ok := new(big.Int).SetString(args.Amount, 10)
	if !ok {
		return nil, ErrNotAllowed
	}
	amountU256, _ := uint256.FromBig(amount)
	e.accounts.AddBalance(accountIDToAddress(args.RecipientID), amountU256, tracing.BalanceChangeUnspecified)
	e.store.Write(proofKey(args.ProofID), []byte{1})
	e.commit()
	return json.Marshal(struct {
		Status string `json:"status"`
	}{"deposited"})
}

// withdrawArgs is `withdraw`'s borsh-free JSON body: burn amount of native
// currency from the predecessor's implicit address and schedule a
// `finish_withdraw` promise on the bridge prover account carrying the amount
// and recipient.
type withdrawArgs struct {
	Amount    string `json:"amount"`
	Recipient string `json:"recipient"` // hex-encoded foreign-chain address
}

// Withdraw implements `withdraw`.
func (e *Engine) Withdraw(raw []byte) ([]byte, error) {
	var args withdrawArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	amount, ok := new(big.Int).SetString(args.Amount, 10)
	if !ok {
		return nil, ErrNotAllowed
	}
	sender := accountIDToAddress(e.host.PredecessorAccountID())
	amountU256, _ := uint256.FromBig(amount)
	if e.accounts.GetBalance(sender).Cmp(amountU256) < 0 {
		return nil, ErrNotAllowed
	}
	e.accounts.SubBalance(sender, amountU256, tracing.BalanceChangeUnspecified)

	prover := readAccountID(e.store, configKeyBridgeProver)
	body, _ := json.Marshal(struct {
		Amount    string `json:"amount"`
		Recipient string `json:"recipient"`
	}{args.Amount, args.Recipient})
	sink := promise.NewSink()
	sink.Append(promise.Action{
		Create: hostsdk.PromiseCreateArgs{
			TargetAccountID: prover,
			Method:          "finish_withdraw",
			Args:            body,
			AttachedGas:     e.host.PrepaidGas(),
		},
	})
	promise.Flush(e.host, sink)

	e.commit()
	return json.Marshal(struct {
		Status string `json:"status"`
	}{"withdrawn"})
}

// FinishDeposit implements `finish_deposit`: the async callback completing a
// Deposit whose proof verification required a cross-contract round trip.
// Since this codebase's promise callbacks are not modeled as a distinct
// inbound ABI, this shares Deposit's body
// directly rather than threading a PromiseResult argument through.
func (e *Engine) FinishDeposit(raw []byte) ([]byte, error) {
	return e.Deposit(raw)
}
