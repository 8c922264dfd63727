package txengine

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
)

var errReservedTxType = errors.New("txengine: reserved transaction type 0xff")

// decodeAndRecover implements spec.md §4.7 stages 1-3: type-byte dispatch,
// RLP/typed decode, sender recovery, and the chain-id check. types.Transaction
// already knows how to decode every EIP-2718 envelope go-ethereum supports
// via UnmarshalBinary; a leading byte >= 0x80 (not a valid type prefix,
// since EIP-2718 types are < 0x7f) means a bare legacy RLP list, decoded via
// rlp.DecodeBytes instead.
func decodeAndRecover(raw []byte, chainID uint64) (*types.Transaction, common.Address, error) {
	if len(raw) > 0 && raw[0] == 0xff {
		return nil, common.Address{}, errReservedTxType
	}

	tx := new(types.Transaction)
	var decodeErr error
	if len(raw) > 0 && raw[0] < 0x7f {
		decodeErr = tx.UnmarshalBinary(raw)
	} else {
		decodeErr = rlp.DecodeBytes(raw, tx)
	}
	if decodeErr != nil {
		return nil, common.Address{}, decodeErr
	}

	if tx.ChainId() != nil && tx.ChainId().Sign() != 0 && tx.ChainId().Uint64() != chainID {
		return nil, common.Address{}, errors.New("txengine: chain id mismatch")
	}

	signer := types.LatestSignerForChainID(tx.ChainId())
	sender, err := types.Sender(signer, tx)
	if err != nil {
		return nil, common.Address{}, err
	}

	return tx, sender, nil
}
