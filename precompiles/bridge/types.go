package bridge

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Log is a bridge precompile's emitted event; the promise scheduler (see
// package promise) only ever looks at logs whose Address is a bridge
// precompile address, so this is a minimal projection of go-ethereum's
// types.Log rather than a reuse of it.
type Log struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// exitEventTopic is the topic logged alongside every exit-to-near /
// exit-to-ethereum promise payload, so off-chain indexers can find exits
// without decoding every log's data.
var exitEventTopic = common.HexToHash("0x" + "45584954") // "EXIT" left-padded by HexToHash's zero-fill

func u128LEBytes(v *big.Int) [16]byte {
	var out [16]byte
	if v == nil {
		return out
	}
	b := v.Bytes()
	for i := 0; i < len(b) && i < 16; i++ {
		out[i] = b[len(b)-1-i]
	}
	return out
}

func mustU128FromDecimal(s string) [16]byte {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic(fmt.Sprintf("bridge: invalid decimal constant %q", s))
	}
	return u128LEBytes(v)
}

// ftTransferArgs is the JSON body of a NEP-141 ft_transfer call (exit flow
// native-value path).
type ftTransferArgs struct {
	ReceiverID string  `json:"receiver_id"`
	Amount     string  `json:"amount"`
	Memo       *string `json:"memo"`
}

func newFtTransferArgs(receiverID string, amount *big.Int) []byte {
	b, _ := json.Marshal(ftTransferArgs{ReceiverID: receiverID, Amount: amount.String(), Memo: nil})
	return b
}

// erc20WithdrawArgs is the JSON body of the NEP-141 ERC-20-wrapper withdraw
// call (exit flow ERC-20 path).
type erc20WithdrawArgs struct {
	Amount    string `json:"amount"`
	Recipient string `json:"recipient"`
}

func newErc20WithdrawArgs(amount *big.Int, recipientHex string) []byte {
	b, _ := json.Marshal(erc20WithdrawArgs{Amount: amount.String(), Recipient: recipientHex})
	return b
}
