package standard

import "math/big"

// bigIntAlias exists only so ecrecover.go reads naturally; it is exactly
// math/big.Int.
type bigIntAlias = big.Int

// secp256k1N is the order of the secp256k1 curve group, used to reject
// malleable (high-s) ECDSA signatures in the ECRecover precompile.
var secp256k1N, _ = new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)
