package protocol

import (
	"encoding/binary"
	"errors"
	"io"
)

// Decoding limits.
const (
	// MaxTextSize bounds a single decoded string (4 MiB).
	MaxTextSize = 4 << 20

	// MaxCollectionCount bounds the number of mutations in a frame.
	MaxCollectionCount = 100_000
)

var (
	ErrVarintOverflow     = errors.New("protocol: varint overflow")
	ErrAllocationTooLarge = errors.New("protocol: string exceeds size limit")
	ErrCollectionTooLarge = errors.New("protocol: count exceeds limit")
)

// Decoder reads frame fields from a byte slice. The first failure is sticky:
// later reads return zero values and Err reports it.
type Decoder struct {
	buf []byte
	err error
}

// NewDecoder returns a decoder over data. The decoder does not copy data.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{buf: data}
}

// Err returns the first decoding error.
func (d *Decoder) Err() error { return d.err }

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.buf) }

// EOF reports whether all input has been consumed.
func (d *Decoder) EOF() bool { return len(d.buf) == 0 }

func (d *Decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
	d.buf = nil
}

// Byte reads one byte.
func (d *Decoder) Byte() byte {
	if d.err != nil {
		return 0
	}
	if len(d.buf) == 0 {
		d.fail(io.ErrUnexpectedEOF)
		return 0
	}
	b := d.buf[0]
	d.buf = d.buf[1:]
	return b
}

// Uvarint reads an unsigned varint.
func (d *Decoder) Uvarint() uint64 {
	if d.err != nil {
		return 0
	}
	v, n := binary.Uvarint(d.buf)
	switch {
	case n == 0:
		d.fail(io.ErrUnexpectedEOF)
		return 0
	case n < 0:
		d.fail(ErrVarintOverflow)
		return 0
	}
	d.buf = d.buf[n:]
	return v
}

// Int reads a node id.
func (d *Decoder) Int() int { return int(d.Uvarint()) }

// Text reads a length-prefixed string.
func (d *Decoder) Text() string {
	n := d.Uvarint()
	switch {
	case d.err != nil:
		return ""
	case n > uint64(len(d.buf)):
		d.fail(io.ErrUnexpectedEOF)
		return ""
	case n > MaxTextSize:
		d.fail(ErrAllocationTooLarge)
		return ""
	}
	s := string(d.buf[:n])
	d.buf = d.buf[n:]
	return s
}

// Count reads a collection length. Every item takes at least one byte, so a
// count beyond the remaining input is truncation.
func (d *Decoder) Count() int {
	n := d.Uvarint()
	switch {
	case d.err != nil:
		return 0
	case n > MaxCollectionCount:
		d.fail(ErrCollectionTooLarge)
		return 0
	case n > uint64(len(d.buf)):
		d.fail(io.ErrUnexpectedEOF)
		return 0
	}
	return int(n)
}
