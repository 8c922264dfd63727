package standard

import "math/big"

// ModExp implements the big-integer modular exponentiation precompile at
// 0x05 (EIP-198), with the EIP-2565 gas repricing. Input layout is
// (base_len, exp_len, mod_len as 32-byte big-endian words, then base, exp,
// mod as raw bytes of those lengths).
type ModExp struct{}

func (ModExp) RequiredGas(input []byte) uint64 {
	baseLen, expLen, modLen := modexpLengths(input)

	maxLen := baseLen
	if modLen > maxLen {
		maxLen = modLen
	}
	words := (maxLen + 7) / 8
	gasCost := new(big.Int).Mul(big.NewInt(int64(words*words)), big.NewInt(1))

	expHead := modexpExpHead(input, baseLen, expLen)
	adjExpLen := adjustedExpLen(expLen, expHead)

	multiplicationComplexity := gasCost
	iterationCount := adjExpLen
	if iterationCount < 1 {
		iterationCount = 1
	}

	total := new(big.Int).Mul(multiplicationComplexity, big.NewInt(iterationCount))
	total.Div(total, big.NewInt(3))

	if total.Cmp(big.NewInt(200)) < 0 {
		return 200
	}
	if !total.IsUint64() {
		return ^uint64(0)
	}
	return total.Uint64()
}

func (ModExp) Run(input []byte) ([]byte, error) {
	baseLen, expLen, modLen := modexpLengths(input)

	const headerLen = 96
	base := modexpSlice(input, headerLen, baseLen)
	exp := modexpSlice(input, headerLen+baseLen, expLen)
	mod := modexpSlice(input, headerLen+baseLen+expLen, modLen)

	modInt := new(big.Int).SetBytes(mod)
	out := make([]byte, modLen)
	if modInt.Sign() == 0 {
		return out, nil
	}

	baseInt := new(big.Int).SetBytes(base)
	expInt := new(big.Int).SetBytes(exp)
	result := new(big.Int).Exp(baseInt, expInt, modInt)

	resultBytes := result.Bytes()
	copy(out[modLen-len(resultBytes):], resultBytes)
	return out, nil
}

func modexpLengths(input []byte) (baseLen, expLen, modLen int64) {
	baseLen = modexpWordToInt64(modexpSlice(input, 0, 32))
	expLen = modexpWordToInt64(modexpSlice(input, 32, 32))
	modLen = modexpWordToInt64(modexpSlice(input, 64, 32))
	return
}

func modexpWordToInt64(word []byte) int64 {
	v := new(big.Int).SetBytes(word)
	if !v.IsInt64() {
		return ^int64(0) >> 1 // effectively unbounded; Run will OOM-guard via gas in practice
	}
	return v.Int64()
}

func modexpSlice(input []byte, start, length int64) []byte {
	out := make([]byte, length)
	if start >= int64(len(input)) {
		return out
	}
	end := start + length
	if end > int64(len(input)) {
		end = int64(len(input))
	}
	copy(out, input[start:end])
	return out
}

func modexpExpHead(input []byte, baseLen, expLen int64) []byte {
	const headerLen = 96
	headLen := expLen
	if headLen > 32 {
		headLen = 32
	}
	return modexpSlice(input, headerLen+baseLen, headLen)
}

// adjustedExpLen implements the EIP-2565 adjusted exponent length formula.
func adjustedExpLen(expLen int64, expHead []byte) int64 {
	bitLen := modexpBitLen(expHead)

	if expLen <= 32 {
		if bitLen == 0 {
			return 0
		}
		return int64(bitLen - 1)
	}

	adj := int64(8 * (expLen - 32))
	if bitLen > 0 {
		adj += int64(bitLen - 1)
	}
	return adj
}

func modexpBitLen(b []byte) int {
	v := new(big.Int).SetBytes(b)
	return v.BitLen()
}
