package bridge

// Host-gas and EVM-gas constants named verbatim in spec.md §4.5.
const (
	FTTransferGas uint64 = 10_000_000_000_000 // 10 Tgas, the NEP-141 ft_transfer budget

	ExitToNearGas     uint64 = 30_000
	ExitToEthereumGas uint64 = 30_000

	CrossContractCallBaseGas   uint64 = 323_000
	CrossContractCallByteGas   uint64 = 3
	CrossContractCallNearGas  uint64 = 175_000_000 // divisor converting attached host gas to EVM gas

	RouterExecBase         uint64 = 7_000_000_000_000
	RouterExecPerCallback  uint64 = 12_000_000_000_000
	RouterSchedule         uint64 = 5_000_000_000_000

	IdentityReflectionGas uint64 = 0 // spec.md §4.5.4: deliberately zero
)

// StorageAmountYocto is the native-value stake attached when a cross-contract
// call target has no router contract deployed yet (STORAGE_AMOUNT, 2e24
// yoctoNEAR).
var StorageAmountYocto = mustU128FromDecimal("2000000000000000000000000")

// OneYocto is the PromiseCreate balance attached to ft_transfer/withdraw
// calls in the exit flows.
var OneYocto = mustU128FromDecimal("1")
