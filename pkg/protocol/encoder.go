package protocol

import "encoding/binary"

// Encoder appends frame fields to a reusable buffer.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 512)}
}

// Reset empties the encoder and keeps its buffer.
func (e *Encoder) Reset() { e.buf = e.buf[:0] }

// Bytes returns the encoded frame. It aliases the encoder's buffer until the
// next Reset.
func (e *Encoder) Bytes() []byte { return e.buf }

// Len returns the encoded size in bytes.
func (e *Encoder) Len() int { return len(e.buf) }

// Byte appends b.
func (e *Encoder) Byte(b byte) { e.buf = append(e.buf, b) }

// Uvarint appends v as an unsigned varint.
func (e *Encoder) Uvarint(v uint64) { e.buf = binary.AppendUvarint(e.buf, v) }

// Int appends a non-negative node id or count.
func (e *Encoder) Int(v int) { e.Uvarint(uint64(v)) }

// Text appends s prefixed with its length.
func (e *Encoder) Text(s string) {
	e.Int(len(s))
	e.buf = append(e.buf, s...)
}
