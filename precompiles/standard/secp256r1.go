package standard

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"math/big"
)

// Secp256R1VerifyGas is the flat cost of the P-256 signature-verification
// precompile (RIP-7212).
const Secp256R1VerifyGas uint64 = 3450

// Secp256R1Verify implements the P-256 verify precompile. Input is
// hash(32) || r(32) || s(32) || x(32) || y(32); output is a single 1 in the
// low byte of a 32-byte word on a valid signature, or empty output
// otherwise.
type Secp256R1Verify struct{}

func (Secp256R1Verify) RequiredGas([]byte) uint64 { return Secp256R1VerifyGas }

func (Secp256R1Verify) Run(input []byte) ([]byte, error) {
	if len(input) != 160 {
		return nil, nil
	}

	hash := input[0:32]
	r := new(big.Int).SetBytes(input[32:64])
	s := new(big.Int).SetBytes(input[64:96])
	x := new(big.Int).SetBytes(input[96:128])
	y := new(big.Int).SetBytes(input[128:160])

	curve := elliptic.P256()
	if !curve.IsOnCurve(x, y) {
		return nil, nil
	}

	pub := &ecdsa.PublicKey{Curve: curve, X: x, Y: y}
	if !ecdsa.Verify(pub, hash, r, s) {
		return nil, nil
	}

	out := make([]byte, 32)
	out[31] = 1
	return out, nil
}
