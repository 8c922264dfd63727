package standard

import (
	"errors"

	bls12381 "github.com/kilic/bls12-381"
)

// ErrBLS12381InvalidInputLength is returned by every BLS12-381 precompile
// (EIP-2537) when its input is not an exact multiple of the expected point
// encoding size.
var ErrBLS12381InvalidInputLength = errors.New("ERR_BLS12381_INVALID_INPUT_LENGTH")

const (
	bls12381G1AddGas      uint64 = 500
	bls12381G1MulGas      uint64 = 12000
	bls12381G2AddGas      uint64 = 800
	bls12381G2MulGas      uint64 = 45000
	bls12381PairingBase   uint64 = 37700
	bls12381PairingPerPair uint64 = 32600
	bls12381MapG1Gas      uint64 = 5500
	bls12381MapG2Gas      uint64 = 110000
)

// bls12381MultiExpDiscountTable mirrors the EIP-2537 appendix discount
// table: gas for a k-point multi-exponentiation is
// (k * baseGas * discount[k-1]) / multiplierDenominator.
var bls12381MultiExpDiscountTable = [128]uint64{
	1200, 888, 764, 641, 594, 547, 500, 453, 438, 423, 408, 394, 379, 364, 349,
	334, 330, 326, 322, 318, 314, 310, 306, 302, 298, 294, 289, 285, 281, 277,
	273, 269, 268, 266, 265, 263, 262, 260, 259, 257, 256, 254, 253, 251, 250,
	248, 247, 245, 244, 242, 241, 239, 238, 236, 235, 233, 232, 231, 229, 228,
	226, 225, 223, 222, 221, 220, 219, 219, 218, 217, 216, 216, 215, 214, 213,
	213, 212, 211, 211, 210, 209, 208, 208, 207, 206, 205, 205, 204, 203, 202,
	202, 201, 200, 199, 199, 198, 197, 196, 196, 195, 194, 193, 193, 192, 191,
	191, 190, 189, 188, 188, 187, 186, 185, 185, 184, 183, 182, 182, 181, 180,
	179, 179, 178, 177, 176, 176, 175, 174,
}

const bls12381MultiExpDiscountDenominator = 1000

func bls12381MultiExpGas(pairs int, baseGas uint64) uint64 {
	if pairs == 0 {
		return 0
	}
	discount := bls12381MultiExpDiscountTable[len(bls12381MultiExpDiscountTable)-1]
	if pairs <= len(bls12381MultiExpDiscountTable) {
		discount = bls12381MultiExpDiscountTable[pairs-1]
	}
	return uint64(pairs) * baseGas * discount / bls12381MultiExpDiscountDenominator
}

// BLSG1Add implements the EIP-2537 G1 point addition precompile.
type BLSG1Add struct{}

func (BLSG1Add) RequiredGas([]byte) uint64 { return bls12381G1AddGas }

func (BLSG1Add) Run(input []byte) ([]byte, error) {
	if len(input) != 256 {
		return nil, ErrBLS12381InvalidInputLength
	}
	g := bls12381.NewG1()
	p0, err := g.DecodePoint(input[:128])
	if err != nil {
		return nil, err
	}
	p1, err := g.DecodePoint(input[128:])
	if err != nil {
		return nil, err
	}
	r := g.New()
	g.Add(r, p0, p1)
	return g.EncodePoint(r), nil
}

// BLSG1Mul implements the EIP-2537 G1 scalar-multiplication precompile.
type BLSG1Mul struct{}

func (BLSG1Mul) RequiredGas([]byte) uint64 { return bls12381G1MulGas }

func (BLSG1Mul) Run(input []byte) ([]byte, error) {
	if len(input) != 160 {
		return nil, ErrBLS12381InvalidInputLength
	}
	g := bls12381.NewG1()
	p0, err := g.DecodePoint(input[:128])
	if err != nil {
		return nil, err
	}
	scalar := bls12381FrFromBytes(input[128:160])
	r := g.New()
	g.MulScalar(r, p0, scalar)
	return g.EncodePoint(r), nil
}

// BLSG1MultiExp implements the EIP-2537 G1 multi-exponentiation precompile.
type BLSG1MultiExp struct{}

func (BLSG1MultiExp) RequiredGas(input []byte) uint64 {
	pairs := len(input) / 160
	return bls12381MultiExpGas(pairs, bls12381G1MulGas)
}

func (BLSG1MultiExp) Run(input []byte) ([]byte, error) {
	if len(input) == 0 || len(input)%160 != 0 {
		return nil, ErrBLS12381InvalidInputLength
	}
	g := bls12381.NewG1()
	points := make([]*bls12381.PointG1, 0, len(input)/160)
	scalars := make([]*bls12381.Fr, 0, len(input)/160)
	for i := 0; i < len(input); i += 160 {
		p, err := g.DecodePoint(input[i : i+128])
		if err != nil {
			return nil, err
		}
		points = append(points, p)
		scalars = append(scalars, bls12381FrFromBytes(input[i+128:i+160]))
	}
	r := g.New()
	if _, err := g.MultiExp(r, points, scalars); err != nil {
		return nil, err
	}
	return g.EncodePoint(r), nil
}

// BLSG2Add implements the EIP-2537 G2 point addition precompile.
type BLSG2Add struct{}

func (BLSG2Add) RequiredGas([]byte) uint64 { return bls12381G2AddGas }

func (BLSG2Add) Run(input []byte) ([]byte, error) {
	if len(input) != 512 {
		return nil, ErrBLS12381InvalidInputLength
	}
	g := bls12381.NewG2()
	p0, err := g.DecodePoint(input[:256])
	if err != nil {
		return nil, err
	}
	p1, err := g.DecodePoint(input[256:])
	if err != nil {
		return nil, err
	}
	r := g.New()
	g.Add(r, p0, p1)
	return g.EncodePoint(r), nil
}

// BLSG2Mul implements the EIP-2537 G2 scalar-multiplication precompile.
type BLSG2Mul struct{}

func (BLSG2Mul) RequiredGas([]byte) uint64 { return bls12381G2MulGas }

func (BLSG2Mul) Run(input []byte) ([]byte, error) {
	if len(input) != 288 {
		return nil, ErrBLS12381InvalidInputLength
	}
	g := bls12381.NewG2()
	p0, err := g.DecodePoint(input[:256])
	if err != nil {
		return nil, err
	}
	scalar := bls12381FrFromBytes(input[256:288])
	r := g.New()
	g.MulScalar(r, p0, scalar)
	return g.EncodePoint(r), nil
}

// BLSG2MultiExp implements the EIP-2537 G2 multi-exponentiation precompile.
type BLSG2MultiExp struct{}

func (BLSG2MultiExp) RequiredGas(input []byte) uint64 {
	pairs := len(input) / 288
	return bls12381MultiExpGas(pairs, bls12381G2MulGas)
}

func (BLSG2MultiExp) Run(input []byte) ([]byte, error) {
	if len(input) == 0 || len(input)%288 != 0 {
		return nil, ErrBLS12381InvalidInputLength
	}
	g := bls12381.NewG2()
	points := make([]*bls12381.PointG2, 0, len(input)/288)
	scalars := make([]*bls12381.Fr, 0, len(input)/288)
	for i := 0; i < len(input); i += 288 {
		p, err := g.DecodePoint(input[i : i+256])
		if err != nil {
			return nil, err
		}
		points = append(points, p)
		scalars = append(scalars, bls12381FrFromBytes(input[i+256:i+288]))
	}
	r := g.New()
	if _, err := g.MultiExp(r, points, scalars); err != nil {
		return nil, err
	}
	return g.EncodePoint(r), nil
}

// BLSPairing implements the EIP-2537 pairing-check precompile.
type BLSPairing struct{}

func (BLSPairing) RequiredGas(input []byte) uint64 {
	k := uint64(len(input) / 384)
	return bls12381PairingPerPair*k + bls12381PairingBase
}

func (BLSPairing) Run(input []byte) ([]byte, error) {
	if len(input) == 0 || len(input)%384 != 0 {
		return nil, ErrBLS12381InvalidInputLength
	}
	g1 := bls12381.NewG1()
	g2 := bls12381.NewG2()
	engine := bls12381.NewPairingEngine()

	for i := 0; i < len(input); i += 384 {
		p1, err := g1.DecodePoint(input[i : i+128])
		if err != nil {
			return nil, err
		}
		p2, err := g2.DecodePoint(input[i+128 : i+384])
		if err != nil {
			return nil, err
		}
		engine.AddPair(p1, p2)
	}

	out := make([]byte, 32)
	if engine.Check() {
		out[31] = 1
	}
	return out, nil
}

// BLSMapG1 implements the EIP-2537 field-element-to-G1 mapping precompile.
type BLSMapG1 struct{}

func (BLSMapG1) RequiredGas([]byte) uint64 { return bls12381MapG1Gas }

func (BLSMapG1) Run(input []byte) ([]byte, error) {
	if len(input) != 64 {
		return nil, ErrBLS12381InvalidInputLength
	}
	g := bls12381.NewG1()
	fe, err := bls12381.FromBytes(input)
	if err != nil {
		return nil, err
	}
	r, err := g.MapToCurve(fe)
	if err != nil {
		return nil, err
	}
	return g.EncodePoint(r), nil
}

// BLSMapG2 implements the EIP-2537 field-extension-element-to-G2 mapping
// precompile.
type BLSMapG2 struct{}

func (BLSMapG2) RequiredGas([]byte) uint64 { return bls12381MapG2Gas }

func (BLSMapG2) Run(input []byte) ([]byte, error) {
	if len(input) != 128 {
		return nil, ErrBLS12381InvalidInputLength
	}
	g := bls12381.NewG2()
	fe, err := bls12381.FromBytesFp2(input)
	if err != nil {
		return nil, err
	}
	r, err := g.MapToCurve(fe)
	if err != nil {
		return nil, err
	}
	return g.EncodePoint(r), nil
}

func bls12381FrFromBytes(b []byte) *bls12381.Fr {
	fr := bls12381.NewFr()
	fr.FromBytes(b)
	return fr
}
