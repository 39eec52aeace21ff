package worker

import (
	"fmt"
	"strconv"
)

// Op is an instruction operation.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_INBOX    = Op(0)  // inbox
	OP_OUTBOX   = Op(1)  // outbox
	OP_COPYFROM = Op(2)  // copyfrom
	OP_COPYTO   = Op(3)  // copyto
	OP_ADD      = Op(4)  // add
	OP_SUB      = Op(5)  // sub
	OP_BUMPUP   = Op(6)  // bumpp
	OP_BUMPDOWN = Op(7)  // bumpm
	OP_JUMP     = Op(8)  // jump
	OP_JUMPZ    = Op(9)  // jumpz
	OP_JUMPN    = Op(10) // jumpn
	OP_LABEL    = Op(11) // label
)

// HasAddress is true for operations that take a floor operand.
func (op Op) HasAddress() bool {
	switch op {
	case OP_COPYFROM, OP_COPYTO, OP_ADD, OP_SUB, OP_BUMPUP, OP_BUMPDOWN:
		return true
	}
	return false
}

// IsJump is true for operations that take a label operand.
func (op Op) IsJump() bool {
	switch op {
	case OP_JUMP, OP_JUMPZ, OP_JUMPN:
		return true
	}
	return false
}

// Operator is the arithmetic symbol shown for add and sub.
func (op Op) Operator() string {
	switch op {
	case OP_ADD:
		return "+"
	case OP_SUB:
		return "-"
	}
	return ""
}

// Mode is a floor addressing mode.
type Mode int

const (
	MODE_NONE     = Mode(0) // No floor operand.
	MODE_DIRECT   = Mode(1) // Operand is the floor address.
	MODE_INDIRECT = Mode(2) // Operand is the address of the floor address.
)

// Outcome is the result of executing a single instruction.
type Outcome int

const (
	OK            = Outcome(0)     // Success.
	EMPTY_INBOX   = Outcome(1)     // No more inbox items.
	HOLD_NULL     = Outcome(-1)    // Nothing in the hold.
	REF_NULL      = Outcome(-2)    // Floor address is empty.
	EMPTY_ADDR    = Outcome(-3)    // Reserved.
	INVALID_PTR   = Outcome(-4)    // Indirect address is not a floor address.
	TYPE_MISMATCH = Outcome(-5)    // Operands are of the wrong kind.
	NO_SUCH_LABEL = Outcome(-1001) // Jump target does not exist.
)

var outcomeNames = map[Outcome]string{
	OK:            "OK",
	EMPTY_INBOX:   "EMPTY_INBOX",
	HOLD_NULL:     "HOLD_NULL",
	REF_NULL:      "REF_NULL",
	EMPTY_ADDR:    "EMPTY_ADDR",
	INVALID_PTR:   "INVALID_PTR",
	TYPE_MISMATCH: "TYPE_MISMATCH",
	NO_SUCH_LABEL: "NO_SUCH_LABEL",
}

func (oc Outcome) String() string {
	name, ok := outcomeNames[oc]
	if !ok {
		return "Outcome(" + strconv.Itoa(int(oc)) + ")"
	}
	return name
}

// MarshalText encodes the outcome by name.
func (oc Outcome) MarshalText() ([]byte, error) {
	return []byte(oc.String()), nil
}

// Err returns the error for a failed outcome, or nil.
// EMPTY_INBOX is not a failure.
func (oc Outcome) Err() error {
	switch oc {
	case OK, EMPTY_INBOX:
		return nil
	case HOLD_NULL:
		return ErrHoldNull
	case REF_NULL:
		return ErrRefNull
	case EMPTY_ADDR:
		return ErrEmptyAddr
	case INVALID_PTR:
		return ErrInvalidPtr
	case TYPE_MISMATCH:
		return ErrTypeMismatch
	case NO_SUCH_LABEL:
		return ErrNoSuchLabel
	}
	return ErrOutcome(oc)
}

// Instruction is an immutable decoded program line.
type Instruction struct {
	Index   int    // Position in the program.
	LineNo  int    // Source line number.
	Op      Op     // Operation.
	Mode    Mode   // Floor addressing mode.
	Address int    // Floor operand.
	Label   string // Declared label, or jump target.
}

// Param formats the floor operand, bracketed when indirect.
func (inst Instruction) Param() string {
	switch inst.Mode {
	case MODE_DIRECT:
		return strconv.Itoa(inst.Address)
	case MODE_INDIRECT:
		return "[" + strconv.Itoa(inst.Address) + "]"
	}
	return ""
}

// String formats the instruction as assembler source.
func (inst Instruction) String() string {
	switch {
	case inst.Op == OP_LABEL:
		return inst.Label + ":"
	case inst.Op.IsJump():
		return fmt.Sprintf("%v %v", inst.Op, inst.Label)
	case inst.Op.HasAddress():
		return fmt.Sprintf("%v %v", inst.Op, inst.Param())
	}
	return inst.Op.String()
}

// Step returns a trace record carrying only the static fields of the
// instruction.
func (inst Instruction) Step() (step Step) {
	step = Step{
		Index: inst.Index,
		Name:  inst.Op.String(),
	}

	switch {
	case inst.Op == OP_LABEL:
		step.Label = inst.Label
	case inst.Op.IsJump():
		step.ToLabel = inst.Label
	case inst.Op.HasAddress():
		step.Param = inst.Param()
		step.Operator = inst.Op.Operator()
	}

	return
}
