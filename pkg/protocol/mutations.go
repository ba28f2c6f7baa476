package protocol

import (
	"errors"
	"fmt"

	"github.com/vango-dev/vcore/pkg/host/memhost"
)

// Version is the mutation frame format version.
const Version byte = 0x01

// ErrUnsupportedVersion is returned for frames written by a newer encoder.
var ErrUnsupportedVersion = errors.New("protocol: unsupported frame version")

// Field presence flags of an encoded mutation.
const (
	fieldTag byte = 1 << iota
	fieldParent
	fieldRef
	fieldName
	fieldValue
)

// MutationsFrame is a batch of host mutations made by one render pass.
//
// Wire format:
//
//	version byte
//	pass    uvarint
//	count   uvarint
//	count × (op byte, target uvarint, fields byte, present fields in flag order)
type MutationsFrame struct {
	Pass      uint64
	Mutations []memhost.Mutation
}

// EncodeMutations encodes a mutations frame to bytes.
func EncodeMutations(mf *MutationsFrame) []byte {
	e := NewEncoder()
	EncodeMutationsTo(e, mf)
	return e.Bytes()
}

// EncodeMutationsTo appends a mutations frame to e.
func EncodeMutationsTo(e *Encoder, mf *MutationsFrame) {
	e.Byte(Version)
	e.Uvarint(mf.Pass)
	e.Int(len(mf.Mutations))
	for i := range mf.Mutations {
		encodeMutation(e, &mf.Mutations[i])
	}
}

func encodeMutation(e *Encoder, m *memhost.Mutation) {
	var fields byte
	if m.Tag != "" {
		fields |= fieldTag
	}
	if m.Parent != 0 {
		fields |= fieldParent
	}
	if m.Ref != 0 {
		fields |= fieldRef
	}
	if m.Name != "" {
		fields |= fieldName
	}
	if m.Value != "" {
		fields |= fieldValue
	}

	e.Byte(byte(m.Op))
	e.Int(m.Target)
	e.Byte(fields)
	if fields&fieldTag != 0 {
		e.Text(m.Tag)
	}
	if fields&fieldParent != 0 {
		e.Int(m.Parent)
	}
	if fields&fieldRef != 0 {
		e.Int(m.Ref)
	}
	if fields&fieldName != 0 {
		e.Text(m.Name)
	}
	if fields&fieldValue != 0 {
		e.Text(m.Value)
	}
}

// DecodeMutations decodes a mutations frame.
func DecodeMutations(data []byte) (*MutationsFrame, error) {
	return DecodeMutationsFrom(NewDecoder(data))
}

// DecodeMutationsFrom decodes the next mutations frame from d.
func DecodeMutationsFrom(d *Decoder) (*MutationsFrame, error) {
	if v := d.Byte(); d.Err() == nil && v != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
	pass := d.Uvarint()
	count := d.Count()
	if err := d.Err(); err != nil {
		return nil, err
	}

	mutations := make([]memhost.Mutation, count)
	for i := range mutations {
		decodeMutation(d, &mutations[i])
		if err := d.Err(); err != nil {
			return nil, fmt.Errorf("mutation %d: %w", i, err)
		}
	}
	return &MutationsFrame{Pass: pass, Mutations: mutations}, nil
}

func decodeMutation(d *Decoder, m *memhost.Mutation) {
	m.Op = memhost.Op(d.Byte())
	m.Target = d.Int()
	fields := d.Byte()
	if fields&fieldTag != 0 {
		m.Tag = d.Text()
	}
	if fields&fieldParent != 0 {
		m.Parent = d.Int()
	}
	if fields&fieldRef != 0 {
		m.Ref = d.Int()
	}
	if fields&fieldName != 0 {
		m.Name = d.Text()
	}
	if fields&fieldValue != 0 {
		m.Value = d.Text()
	}
}
