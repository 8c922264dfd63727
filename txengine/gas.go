package txengine

import "github.com/ethereum/go-ethereum/core/types"

const (
	intrinsicGasBase             uint64 = 21000
	intrinsicGasNonZeroByte      uint64 = 68
	intrinsicGasZeroByte         uint64 = 4
	intrinsicGasAccessListSlot   uint64 = 1900
	intrinsicGasAccessListAddr   uint64 = 2400
	intrinsicGasContractCreation uint64 = 32000
)

// IntrinsicGas implements spec.md §4.7 stage 5's formula verbatim.
func IntrinsicGas(data []byte, accessList types.AccessList, isContractCreation bool) uint64 {
	gas := intrinsicGasBase

	var nonZero, zero uint64
	for _, b := range data {
		if b == 0 {
			zero++
		} else {
			nonZero++
		}
	}
	gas += nonZero * intrinsicGasNonZeroByte
	gas += zero * intrinsicGasZeroByte

	gas += uint64(len(accessList)) * intrinsicGasAccessListAddr
	for _, entry := range accessList {
		gas += uint64(len(entry.StorageKeys)) * intrinsicGasAccessListSlot
	}

	if isContractCreation {
		gas += intrinsicGasContractCreation
	}
	return gas
}

// Refund implements spec.md §4.7 stage 9's EIP-3529 cap:
// min(gas_unused + refund_counter, gas_used/5).
func Refund(gasUsed, gasUnused, refundCounter uint64) uint64 {
	ceiling := gasUsed / 5
	candidate := gasUnused + refundCounter
	if candidate > ceiling {
		return ceiling
	}
	return candidate
}
