// Package conveyor provides the inbox and outbox belts of the mailroom.
// The inbox hands out a fixed list of values front to back, and can be
// rewound to replay the same list. The outbox collects values in order.
package conveyor

import (
	"iter"
	"slices"

	"github.com/ezrec/mailroom/value"
)

// Channel defines the interface shared by the conveyor belts.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive returns an iterator over the values still on the belt.
	Receive() iter.Seq[value.Value]
	// Len is the number of values still on the belt.
	Len() int
}

// Inbox is the input belt.
type Inbox struct {
	Items []value.Value // Initial belt content.

	readIndex int
}

var _ Channel = &Inbox{}

// NewInbox creates an inbox holding a private copy of items.
func NewInbox(items []value.Value) *Inbox {
	return &Inbox{Items: slices.Clone(items)}
}

// Rewind puts every item back on the belt.
func (in *Inbox) Rewind() {
	in.readIndex = 0
}

// Len returns the number of items not yet taken.
func (in *Inbox) Len() int {
	return len(in.Items) - in.readIndex
}

// Receive yields the items not yet taken, without taking them.
func (in *Inbox) Receive() iter.Seq[value.Value] {
	return slices.Values(in.Items[in.readIndex:])
}

// Take removes the front item from the belt.
func (in *Inbox) Take() (item value.Value, ok bool) {
	if in.readIndex >= len(in.Items) {
		return
	}

	item = in.Items[in.readIndex]
	in.readIndex++
	ok = true
	return
}

// Outbox is the output belt.
type Outbox struct {
	Items []value.Value // Values sent so far, oldest first.
}

var _ Channel = &Outbox{}

// Rewind empties the belt.
func (out *Outbox) Rewind() {
	out.Items = nil
}

// Len returns the number of values sent.
func (out *Outbox) Len() int {
	return len(out.Items)
}

// Receive yields the values sent, oldest first.
func (out *Outbox) Receive() iter.Seq[value.Value] {
	return slices.Values(out.Items)
}

// Send appends a value to the belt.
func (out *Outbox) Send(item value.Value) {
	out.Items = append(out.Items, item)
}

// Last returns the most recently sent value.
func (out *Outbox) Last() (item value.Value, ok bool) {
	if len(out.Items) == 0 {
		return
	}

	return out.Items[len(out.Items)-1], true
}
