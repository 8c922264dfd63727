package standard

import (
	"encoding/binary"
	"errors"

	"golang.org/x/crypto/blake2b"
)

// ErrBlake2FInvalidInputLength and ErrBlake2FInvalidFinalFlag are the two
// ways BLAKE2F input can be malformed per EIP-152.
var (
	ErrBlake2FInvalidInputLength = errors.New("ERR_BLAKE2F_INVALID_LEN")
	ErrBlake2FInvalidFinalFlag   = errors.New("ERR_BLAKE2F_INVALID_FINAL_FLAG")
)

// Blake2F implements the compression-function precompile at 0x09.
type Blake2F struct{}

func (Blake2F) RequiredGas(input []byte) uint64 {
	if len(input) != 213 {
		return 0
	}
	return uint64(binary.BigEndian.Uint32(input[0:4]))
}

func (Blake2F) Run(input []byte) ([]byte, error) {
	if len(input) != 213 {
		return nil, ErrBlake2FInvalidInputLength
	}

	rounds := binary.BigEndian.Uint32(input[0:4])

	var h [8]uint64
	for i := 0; i < 8; i++ {
		h[i] = binary.LittleEndian.Uint64(input[4+i*8:])
	}

	var m [16]uint64
	for i := 0; i < 16; i++ {
		m[i] = binary.LittleEndian.Uint64(input[68+i*8:])
	}

	var c [2]uint64
	c[0] = binary.LittleEndian.Uint64(input[196:204])
	c[1] = binary.LittleEndian.Uint64(input[204:212])

	final := input[212]
	if final != 0 && final != 1 {
		return nil, ErrBlake2FInvalidFinalFlag
	}

	h = blake2b.F(rounds, h, m, c, final == 1)

	out := make([]byte, 64)
	for i := 0; i < 8; i++ {
		binary.LittleEndian.PutUint64(out[i*8:], h[i])
	}
	return out, nil
}
