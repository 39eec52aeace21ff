package worker

import (
	"fmt"
	"iter"
	"maps"
	"strings"

	"github.com/ezrec/mailroom/internal"
	"github.com/ezrec/mailroom/value"
)

// Floor is the sparse addressable memory of the mailroom.
// Addresses missing from the map are empty.
type Floor map[int]value.Value

// Get returns the value at an address, if any.
func (fl Floor) Get(addr int) (item value.Value, ok bool) {
	item, ok = fl[addr]
	return
}

// Set stores a value at an address.
func (fl Floor) Set(addr int, item value.Value) {
	fl[addr] = item
}

// Clone returns a private, non-nil copy of the floor.
func (fl Floor) Clone() Floor {
	if fl == nil {
		return Floor{}
	}
	return maps.Clone(fl)
}

// All iterates the occupied addresses in ascending order.
func (fl Floor) All() iter.Seq2[int, value.Value] {
	return internal.SortedAll(fl)
}

// Resolve returns the floor address an operand refers to.
// An indirect operand must name an address holding a non-negative Integer.
func (fl Floor) Resolve(mode Mode, operand int) (addr int, outcome Outcome) {
	if mode != MODE_INDIRECT {
		addr = operand
		return
	}

	ptr, ok := fl.Get(operand)
	if !ok || !ptr.IsInt() || ptr.Int() < 0 {
		outcome = INVALID_PTR
		return
	}

	addr = ptr.Int()
	return
}

// String returns the floor as "{addr:value ...}".
func (fl Floor) String() string {
	var items []string
	for addr, item := range fl.All() {
		items = append(items, fmt.Sprintf("%d:%v", addr, item))
	}
	return "{" + strings.Join(items, " ") + "}"
}
