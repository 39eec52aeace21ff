package worker

import (
	"fmt"
	"slices"

	log "github.com/sirupsen/logrus"

	"github.com/ezrec/mailroom/conveyor"
	"github.com/ezrec/mailroom/value"
)

// Worker is the state of the mailroom worker: the hold, the floor, the
// conveyor belts and the instruction pointer.
type Worker struct {
	Verbose bool // Set to enable verbose logging.

	Ip      int         // Index of the instruction to execute.
	Hold    value.Value // Value in the hold, when Holding.
	Holding bool        // Set if the hold has a value.
	Floor   Floor       // Floor contents.

	Inbox  conveyor.Inbox  // Input belt.
	Outbox conveyor.Outbox // Output belt.

	initialFloor Floor
}

// NewWorker creates a worker with empty hands and an empty floor.
func NewWorker() (w *Worker) {
	w = &Worker{
		Floor: Floor{},
	}

	return
}

// Load sets the initial inbox and floor, and resets the worker.
// The worker keeps private copies of both.
func (w *Worker) Load(inbox []value.Value, floor Floor) {
	w.Inbox = *conveyor.NewInbox(inbox)
	w.initialFloor = floor.Clone()
	w.Reset()
}

// belts returns the conveyor belts of the worker.
func (w *Worker) belts() []conveyor.Channel {
	return []conveyor.Channel{&w.Inbox, &w.Outbox}
}

// Reset the worker state.
// - Rewinds the inbox and empties the outbox.
// - Restores the floor loaded by Load.
// - Empties the hold, and sets the instruction pointer to the first instruction.
func (w *Worker) Reset() {
	if w.Verbose {
		log.Debugf("worker: reset")
	}

	for _, belt := range w.belts() {
		belt.Rewind()
	}
	w.Floor = w.initialFloor.Clone()
	w.drop()
	w.Ip = 0
}

// String returns the current worker state as a string.
func (w *Worker) String() (text string) {
	hold := "-"
	if w.Holding {
		hold = w.Hold.String()
	}

	text += fmt.Sprintf("% 7s: %d\n", "ip", w.Ip)
	text += fmt.Sprintf("% 7s: %v\n", "hold", hold)
	text += fmt.Sprintf("% 7s: %v\n", "floor", w.Floor)
	text += fmt.Sprintf("% 7s: %v\n", "inbox", slices.Collect(w.Inbox.Receive()))
	text += fmt.Sprintf("% 7s: %v\n", "outbox", slices.Collect(w.Outbox.Receive()))

	return
}

func (w *Worker) grab(item value.Value) {
	w.Hold = item
	w.Holding = true
}

func (w *Worker) drop() {
	w.Hold = value.Value{}
	w.Holding = false
}

// Execute executes a single instruction of a program, and returns its
// outcome and trace record. A failed instruction leaves the worker state
// unchanged. Jumps set Ip to the index of the target label; advancing
// past the instruction is left to the caller.
func (w *Worker) Execute(prog *Program, inst Instruction) (outcome Outcome, step Step) {
	step = inst.Step()

	if w.Verbose {
		log.Debugf("%03d: %v", w.Ip, inst)
	}

	switch {
	case inst.Op == OP_INBOX:
		item, ok := w.Inbox.Take()
		if !ok {
			outcome = EMPTY_INBOX
			return
		}
		step.PanelValue = &item
		w.grab(item)
	case inst.Op == OP_OUTBOX:
		if !w.Holding {
			outcome = HOLD_NULL
			return
		}
		item := w.Hold
		step.PanelValue = &item
		w.Outbox.Send(item)
		w.drop()
	case inst.Op.HasAddress():
		outcome = w.executeFloor(inst, &step)
	case inst.Op.IsJump():
		outcome = w.executeJump(prog, inst)
	case inst.Op == OP_LABEL:
		// no-op
	default:
		panic("unknown op " + inst.Op.String())
	}

	return
}

// executeFloor executes the instructions that address the floor.
func (w *Worker) executeFloor(inst Instruction, step *Step) (outcome Outcome) {
	// copyfrom and the bumps overwrite the hold, the rest read it.
	needHold := inst.Op == OP_COPYTO || inst.Op == OP_ADD || inst.Op == OP_SUB
	if needHold && !w.Holding {
		outcome = HOLD_NULL
		return
	}

	addr, outcome := w.Floor.Resolve(inst.Mode, inst.Address)
	if outcome != OK {
		return
	}

	if inst.Op == OP_COPYTO {
		item := w.Hold
		w.Floor.Set(addr, item)
		step.FloorIndex = &addr
		step.PanelValue = &item
		return
	}

	item, ok := w.Floor.Get(addr)
	if !ok {
		outcome = REF_NULL
		return
	}

	var result value.Value
	switch inst.Op {
	case OP_COPYFROM:
		w.grab(item)
		step.FloorIndex = &addr
		step.PanelValue = &item
		return
	case OP_ADD:
		if !w.Hold.IsInt() || !item.IsInt() {
			outcome = TYPE_MISMATCH
			return
		}
		result = value.Int(w.Hold.Int() + item.Int())
	case OP_SUB:
		if w.Hold.Kind() != item.Kind() {
			outcome = TYPE_MISMATCH
			return
		}
		// Characters subtract by ordinal, giving an Integer.
		result = value.Int(w.Hold.Int() - item.Int())
	case OP_BUMPUP, OP_BUMPDOWN:
		if !item.IsInt() {
			outcome = TYPE_MISMATCH
			return
		}
		delta := 1
		if inst.Op == OP_BUMPDOWN {
			delta = -1
		}
		result = value.Int(item.Int() + delta)
		w.Floor.Set(addr, result)
	}

	w.grab(result)
	step.FloorIndex = &addr
	step.PanelValue = &item
	step.ResultValue = &result

	return
}

// executeJump executes the jump instructions.
func (w *Worker) executeJump(prog *Program, inst Instruction) (outcome Outcome) {
	target, ok := prog.Lookup(inst.Label)
	if !ok {
		outcome = NO_SUCH_LABEL
		return
	}

	taken := true
	if inst.Op != OP_JUMP {
		if !w.Holding {
			outcome = HOLD_NULL
			return
		}
		if !w.Hold.IsInt() {
			outcome = TYPE_MISMATCH
			return
		}
		switch inst.Op {
		case OP_JUMPZ:
			taken = w.Hold.Int() == 0
		case OP_JUMPN:
			taken = w.Hold.Int() < 0
		}
	}

	if taken {
		w.Ip = target
	}

	return
}
