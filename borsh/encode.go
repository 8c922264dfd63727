// Package borsh implements the small subset of the Borsh binary format the
// engine's host-facing messages need: fixed-width integers, length-prefixed
// bytes/strings, enums (a u8 variant tag followed by the variant's payload),
// and Option<T> (a presence byte). It deliberately does not attempt
// reflection-based struct (de)serialization — grounded on
// original_source/engine-types/src/parameters, whose wire layout is hand
// written per type rather than derived, this package gives callers the same
// explicit, per-field control.
package borsh

import (
	"encoding/binary"
	"math/big"
)

// Writer accumulates a Borsh-encoded byte stream.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated encoding.
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) U8(v uint8) *Writer {
	w.buf = append(w.buf, v)
	return w
}

func (w *Writer) U32(v uint32) *Writer {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
	return w
}

func (w *Writer) U64(v uint64) *Writer {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
	return w
}

// U128 writes v as a 16-byte little-endian unsigned integer, Borsh's u128
// layout.
func (w *Writer) U128(v *big.Int) *Writer {
	var out [16]byte
	if v != nil {
		b := v.Bytes() // big-endian
		for i := 0; i < len(b) && i < 16; i++ {
			out[i] = b[len(b)-1-i]
		}
	}
	w.buf = append(w.buf, out[:]...)
	return w
}

// Bytes_ writes a length-prefixed (u32) byte slice.
func (w *Writer) Bytes_(v []byte) *Writer {
	w.U32(uint32(len(v)))
	w.buf = append(w.buf, v...)
	return w
}

// FixedBytes writes v with no length prefix, for fixed-size array fields.
func (w *Writer) FixedBytes(v []byte) *Writer {
	w.buf = append(w.buf, v...)
	return w
}

// String writes a length-prefixed UTF-8 string.
func (w *Writer) String(v string) *Writer {
	return w.Bytes_([]byte(v))
}

// Bool writes a single byte: 0 or 1.
func (w *Writer) Bool(v bool) *Writer {
	if v {
		return w.U8(1)
	}
	return w.U8(0)
}

// OptionSome/OptionNone write Option<T>'s presence byte; the caller encodes
// the payload itself after OptionSome.
func (w *Writer) OptionSome() *Writer { return w.U8(1) }
func (w *Writer) OptionNone() *Writer { return w.U8(0) }

// Variant writes an enum's discriminant tag.
func (w *Writer) Variant(tag uint8) *Writer { return w.U8(tag) }
