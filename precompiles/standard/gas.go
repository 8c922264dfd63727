// Package standard implements the pure-function precompiles of spec.md
// §4.4: hashing, curve operations and MODEXP. Each type here also satisfies
// go-ethereum's vm.PrecompiledContract interface (RequiredGas/Run), so the
// registry in the parent package can hand them straight to the upstream
// interpreter.
package standard

// ceilDiv32 returns ceil(n/32), used throughout the per-word gas formulas of
// spec.md §4.4 (SHA-256, RIPEMD-160, Identity).
func ceilDiv32(n int) uint64 {
	return uint64((n + 31) / 32)
}
