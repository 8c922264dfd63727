package standard

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto/bn256/cloudflare"
)

// ErrBN128InvalidPoint is returned when BN128ADD or BN128MUL input does not
// decode to a point on the curve.
var ErrBN128InvalidPoint = errors.New("ERR_BN128_INVALID_POINT")

// gas costs before and after the Istanbul repricing (EIP-1108).
const (
	bn128AddGasByzantium    uint64 = 500
	bn128AddGasIstanbul     uint64 = 150
	bn128MulGasByzantium    uint64 = 40000
	bn128MulGasIstanbul     uint64 = 6000
	bn128PairBaseByzantium  uint64 = 100000
	bn128PairBaseIstanbul   uint64 = 45000
	bn128PairPerPointByz    uint64 = 80000
	bn128PairPerPointIstan  uint64 = 34000
)

// BN128Add implements the alt_bn128 point-addition precompile at 0x06.
// istanbul selects the EIP-1108 reduced gas schedule.
type BN128Add struct{ Istanbul bool }

func (p BN128Add) RequiredGas([]byte) uint64 {
	if p.Istanbul {
		return bn128AddGasIstanbul
	}
	return bn128AddGasByzantium
}

func (BN128Add) Run(input []byte) ([]byte, error) {
	input = rightPad(input, 128)
	x, err := bn128NewG1Point(input[0:64])
	if err != nil {
		return nil, ErrBN128InvalidPoint
	}
	y, err := bn128NewG1Point(input[64:128])
	if err != nil {
		return nil, ErrBN128InvalidPoint
	}
	res := new(bn256.G1).Add(x, y)
	return res.Marshal(), nil
}

// BN128Mul implements the alt_bn128 scalar-multiplication precompile at
// 0x07.
type BN128Mul struct{ Istanbul bool }

func (p BN128Mul) RequiredGas([]byte) uint64 {
	if p.Istanbul {
		return bn128MulGasIstanbul
	}
	return bn128MulGasByzantium
}

func (BN128Mul) Run(input []byte) ([]byte, error) {
	input = rightPad(input, 96)
	p, err := bn128NewG1Point(input[0:64])
	if err != nil {
		return nil, ErrBN128InvalidPoint
	}
	scalar := new(big.Int).SetBytes(input[64:96])
	res := new(bn256.G1).ScalarMult(p, scalar)
	return res.Marshal(), nil
}

// BN128Pair implements the alt_bn128 pairing-check precompile at 0x08.
type BN128Pair struct{ Istanbul bool }

func (p BN128Pair) RequiredGas(input []byte) uint64 {
	n := uint64(len(input) / 192)
	if p.Istanbul {
		return bn128PairBaseIstanbul + n*bn128PairPerPointIstan
	}
	return bn128PairBaseByzantium + n*bn128PairPerPointByz
}

func (BN128Pair) Run(input []byte) ([]byte, error) {
	if len(input)%192 != 0 {
		return nil, ErrBN128InvalidPoint
	}

	var g1s []*bn256.G1
	var g2s []*bn256.G2
	for i := 0; i < len(input); i += 192 {
		g1, err := bn128NewG1Point(input[i : i+64])
		if err != nil {
			return nil, ErrBN128InvalidPoint
		}
		g2, err := bn128NewG2Point(input[i+64 : i+192])
		if err != nil {
			return nil, ErrBN128InvalidPoint
		}
		g1s = append(g1s, g1)
		g2s = append(g2s, g2)
	}

	out := make([]byte, 32)
	if len(g1s) == 0 {
		out[31] = 1
		return out, nil
	}
	if bn256.PairingCheck(g1s, g2s) {
		out[31] = 1
	}
	return out, nil
}

func bn128NewG1Point(b []byte) (*bn256.G1, error) {
	if len(b) != 64 {
		return nil, ErrBN128InvalidPoint
	}
	if isAllZero(b) {
		return new(bn256.G1).ScalarBaseMult(big.NewInt(0)), nil
	}
	p := new(bn256.G1)
	if _, err := p.Unmarshal(b); err != nil {
		return nil, ErrBN128InvalidPoint
	}
	return p, nil
}

func bn128NewG2Point(b []byte) (*bn256.G2, error) {
	if len(b) != 128 {
		return nil, ErrBN128InvalidPoint
	}
	if isAllZero(b) {
		return new(bn256.G2).ScalarBaseMult(big.NewInt(0)), nil
	}
	p := new(bn256.G2)
	if _, err := p.Unmarshal(b); err != nil {
		return nil, ErrBN128InvalidPoint
	}
	return p, nil
}

func isAllZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
