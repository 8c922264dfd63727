package hashchain

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// blockBuilder accumulates one block's transaction leaves and bloom, per
// spec.md §4.9's per-block builder.
type blockBuilder struct {
	merkle streamCompactTree
	bloom  types.Bloom
}

func leafHash(method string, input, output []byte) [32]byte {
	buf := make([]byte, 0, 12+len(method)+len(input)+len(output))
	buf = appendLenPrefixed(buf, []byte(method))
	buf = appendLenPrefixed(buf, input)
	buf = appendLenPrefixed(buf, output)
	var out [32]byte
	copy(out[:], crypto.Keccak256(buf))
	return out
}

func appendLenPrefixed(buf, v []byte) []byte {
	var lenBE [4]byte
	binary.BigEndian.PutUint32(lenBE[:], uint32(len(v)))
	buf = append(buf, lenBE[:]...)
	buf = append(buf, v...)
	return buf
}

func (b *blockBuilder) addTx(method string, input, output []byte, txBloom *types.Bloom) {
	if txBloom != nil {
		orBloom(&b.bloom, txBloom)
	}
	b.merkle.insert(leafHash(method, input, output))
}

func (b *blockBuilder) reset() {
	b.merkle.reset()
	b.bloom = types.Bloom{}
}

func orBloom(dst *types.Bloom, src *types.Bloom) {
	for i := range dst {
		dst[i] |= src[i]
	}
}
