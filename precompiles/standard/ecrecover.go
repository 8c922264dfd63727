package standard

import (
	"github.com/ethereum/go-ethereum/crypto"
)

// ECRecoverGas is the flat cost specified in spec.md §4.4.
const ECRecoverGas uint64 = 3000

// ECRecover implements the address-recovery precompile at 0x01. Invalid v,
// a malleable s, or a failed recovery all yield empty output rather than an
// error (spec.md §4.4) — the EVM still succeeds, it just gets nothing back.
type ECRecover struct{}

func (ECRecover) RequiredGas([]byte) uint64 { return ECRecoverGas }

func (ECRecover) Run(input []byte) ([]byte, error) {
	const inputLen = 128
	in := rightPad(input, inputLen)

	hash := in[0:32]
	v := in[63]
	r := in[64:96]
	s := in[96:128]

	if !validSignatureValues(v, r, s) {
		return nil, nil
	}

	// go-ethereum's secp256k1 recovery expects a 65-byte [R || S || V] sig
	// with V in {0,1}.
	sig := make([]byte, 65)
	copy(sig[0:32], r)
	copy(sig[32:64], s)
	sig[64] = v - 27

	pub, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return nil, nil
	}
	addr := crypto.PubkeyToAddress(*pub)
	out := make([]byte, 32)
	copy(out[12:], addr.Bytes())
	return out, nil
}

// validSignatureValues enforces v ∈ {27,28} and a low-s (non-malleable)
// signature, the same range and low-s rules as go-ethereum's
// crypto.ValidateSignatureValues in Homestead mode.
func validSignatureValues(v byte, r, s []byte) bool {
	if v != 27 && v != 28 {
		return false
	}
	rInt := new(bigIntAlias).SetBytes(r)
	sInt := new(bigIntAlias).SetBytes(s)
	if rInt.Sign() == 0 || sInt.Sign() == 0 {
		return false
	}
	if rInt.Cmp(secp256k1N) >= 0 || sInt.Cmp(secp256k1N) >= 0 {
		return false
	}
	if sInt.Cmp(new(bigIntAlias).Rsh(secp256k1N, 1)) > 0 {
		return false
	}
	return true
}

func rightPad(b []byte, n int) []byte {
	if len(b) >= n {
		return b[:n]
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}
