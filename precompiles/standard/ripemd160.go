package standard

import "golang.org/x/crypto/ripemd160" //nolint:staticcheck // required for EVM ripemd160 precompile compatibility

// RIPEMD160 implements the precompile at 0x03. The digest is 20 bytes and is
// left-padded into the 32-byte EVM word per spec.md §4.4.
type RIPEMD160 struct{}

func (RIPEMD160) RequiredGas(input []byte) uint64 {
	return 600 + 120*ceilDiv32(len(input))
}

func (RIPEMD160) Run(input []byte) ([]byte, error) {
	h := ripemd160.New()
	h.Write(input)
	sum := h.Sum(nil)

	out := make([]byte, 32)
	copy(out[32-len(sum):], sum)
	return out, nil
}
