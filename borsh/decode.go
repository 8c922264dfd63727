package borsh

import (
	"encoding/binary"
	"errors"
	"math/big"
)

// ErrShortBuffer is returned by every Reader method when fewer bytes remain
// than the field requires.
var ErrShortBuffer = errors.New("borsh: unexpected end of buffer")

// Reader consumes a Borsh-encoded byte stream left to right.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential decoding.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Remaining reports how many bytes have not yet been consumed.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

func (r *Reader) take(n int) ([]byte, error) {
	if r.Remaining() < n {
		return nil, ErrShortBuffer
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *Reader) U8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) U32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) U64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// U128 reads a 16-byte little-endian unsigned integer into a big.Int.
func (r *Reader) U128() (*big.Int, error) {
	b, err := r.take(16)
	if err != nil {
		return nil, err
	}
	be := make([]byte, 16)
	for i := 0; i < 16; i++ {
		be[i] = b[15-i]
	}
	return new(big.Int).SetBytes(be), nil
}

// Bytes reads a u32 length prefix followed by that many bytes.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.U32()
	if err != nil {
		return nil, err
	}
	return r.take(int(n))
}

// FixedBytes reads exactly n unprefixed bytes.
func (r *Reader) FixedBytes(n int) ([]byte, error) {
	return r.take(n)
}

// String reads a length-prefixed UTF-8 string.
func (r *Reader) String() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *Reader) Bool() (bool, error) {
	b, err := r.U8()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// OptionPresent reads Option<T>'s presence byte.
func (r *Reader) OptionPresent() (bool, error) {
	return r.Bool()
}

// Variant reads an enum's discriminant tag.
func (r *Reader) Variant() (uint8, error) {
	return r.U8()
}
