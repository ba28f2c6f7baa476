package memhost

import (
	"fmt"
	"strings"
)

// Op is the type of a recorded host mutation.
type Op uint8

const (
	OpCreateElement  Op = 0x00 // Create detached element
	OpSetText        Op = 0x01 // Update text content
	OpSetAttr        Op = 0x02 // Set/update attribute
	OpRemoveAttr     Op = 0x03 // Remove attribute
	OpInsertNode     Op = 0x04 // Attach a detached node
	OpRemoveNode     Op = 0x05 // Remove node
	OpMoveNode       Op = 0x06 // Move an attached node to a new position
	OpCreateText     Op = 0x07 // Create detached text node
	OpSetProperty    Op = 0x08 // Set native property (value, checked, ...)
	OpAddListener    Op = 0x09 // Register event listener
	OpRemoveListener Op = 0x0A // Unregister event listener
	OpFocus          Op = 0x0B // Focus element
)

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpCreateElement:
		return "CreateElement"
	case OpCreateText:
		return "CreateText"
	case OpSetText:
		return "SetText"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpInsertNode:
		return "InsertNode"
	case OpRemoveNode:
		return "RemoveNode"
	case OpMoveNode:
		return "MoveNode"
	case OpSetProperty:
		return "SetProperty"
	case OpAddListener:
		return "AddListener"
	case OpRemoveListener:
		return "RemoveListener"
	case OpFocus:
		return "Focus"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the op by name for JSON mutation batches.
func (op Op) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

// UnmarshalText decodes an op name written by MarshalText.
func (op *Op) UnmarshalText(text []byte) error {
	for o := OpCreateElement; o <= OpFocus; o++ {
		if o.String() == string(text) {
			*op = o
			return nil
		}
	}
	return fmt.Errorf("memhost: unknown op %q", text)
}

// Mutation is a single recorded host operation.
type Mutation struct {
	Op     Op     `json:"op"`
	Target int    `json:"target"`
	Tag    string `json:"tag,omitempty"`
	Parent int    `json:"parent,omitempty"`
	Ref    int    `json:"ref,omitempty"`
	Name   string `json:"name,omitempty"`
	Value  string `json:"value,omitempty"`
}

// String formats the mutation for logs and the CLI diff output.
func (m Mutation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-14s #%d", m.Op, m.Target)
	if m.Tag != "" {
		fmt.Fprintf(&b, " <%s>", m.Tag)
	}
	switch m.Op {
	case OpInsertNode, OpMoveNode, OpRemoveNode:
		fmt.Fprintf(&b, " parent=#%d", m.Parent)
		if m.Ref != 0 {
			fmt.Fprintf(&b, " before=#%d", m.Ref)
		}
	case OpSetAttr, OpSetProperty:
		fmt.Fprintf(&b, " %s=%q", m.Name, m.Value)
	case OpRemoveAttr, OpAddListener, OpRemoveListener:
		fmt.Fprintf(&b, " %s", m.Name)
	case OpSetText, OpCreateText:
		fmt.Fprintf(&b, " %q", m.Value)
	}
	return b.String()
}

// Count returns how many mutations in ms have op.
func Count(ms []Mutation, op Op) int {
	n := 0
	for _, m := range ms {
		if m.Op == op {
			n++
		}
	}
	return n
}
