// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package machine runs mailroom programs.
//
// A Machine resets a worker to a level's initial inbox and floor, runs the
// program to completion, and checks the outbox against the expected output.
// Every executed instruction is recorded in the trace of the Result.
package machine

import (
	"slices"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/ezrec/mailroom/value"
	"github.com/ezrec/mailroom/worker"
)

const (
	STEP_LIMIT = 10000 // Default limit of non-label instructions per run.
)

// Status is the final state of a run.
type Status int

const (
	STATUS_OK              = Status(0)     // Ran to completion with the expected output.
	STATUS_INST_ERROR      = Status(-1001) // An instruction failed.
	STATUS_INVALID_OUTBOX  = Status(-1002) // The output was wrong.
	STATUS_TOO_LARGE_STEPS = Status(-1003) // The step limit was reached.
)

var statusNames = map[Status]string{
	STATUS_OK:              "OK",
	STATUS_INST_ERROR:      "INST_ERROR",
	STATUS_INVALID_OUTBOX:  "INVALID_OUTBOX",
	STATUS_TOO_LARGE_STEPS: "TOO_LARGE_STEPS",
}

func (st Status) String() string {
	name, ok := statusNames[st]
	if !ok {
		return "Status(" + strconv.Itoa(int(st)) + ")"
	}
	return name
}

// MarshalText encodes the status by name.
func (st Status) MarshalText() ([]byte, error) {
	return []byte(st.String()), nil
}

// Result is the record of a single run.
type Result struct {
	Status  Status         `yaml:"status"`         // Final status.
	Outcome worker.Outcome `yaml:"lastStepStatus"` // Outcome of the last executed instruction.
	Trace   []worker.Step  `yaml:"trace"`          // One record per executed instruction.
	Lines   int            `yaml:"lines"`          // Instructions in the program, labels excluded.
	Steps   int            `yaml:"steps"`          // Instructions executed, labels excluded.
	Outbox  []value.Value  `yaml:"outbox"`         // Final outbox.
	Hold    *value.Value   `yaml:"hold,omitempty"` // Final hold, nil if empty.
	Floor   worker.Floor   `yaml:"floor"`          // Final floor.

	Last worker.Instruction `yaml:"-"` // Last executed instruction.
}

// Err returns nil for an OK result, or an error describing the failure.
func (res *Result) Err() (err error) {
	switch res.Status {
	case STATUS_OK:
		return nil
	case STATUS_INST_ERROR:
		err = res.Outcome.Err()
		return &ErrRuntime{Index: res.Last.Index, LineNo: res.Last.LineNo, Line: res.Last.String(), Err: err}
	case STATUS_INVALID_OUTBOX:
		return ErrInvalidOutbox
	case STATUS_TOO_LARGE_STEPS:
		return ErrTooLargeSteps
	}
	return worker.ErrOutcome(res.Outcome)
}

// Machine is a worker plus the program and level it runs.
type Machine struct {
	Verbose        bool            // If set, enables verbose logging.
	*worker.Worker                 // Reference to the worker state.
	Program        *worker.Program // Program to run.
	StepLimit      int             // Step limit, STEP_LIMIT if zero.

	InitialInbox []value.Value // Inbox loaded by SetField.
	InitialFloor worker.Floor  // Floor loaded by SetField.
	Expected     []value.Value // Expected outbox.

	Steps int // Non-label instructions executed since reset.
}

// NewMachine creates a new machine.
func NewMachine() (m *Machine) {
	m = &Machine{
		Worker:  worker.NewWorker(),
		Program: &worker.Program{},
	}

	return
}

// SetField sets the initial inbox and floor, and the expected outbox,
// and loads the worker with them.
func (m *Machine) SetField(inbox []value.Value, floor worker.Floor, expected []value.Value) {
	m.InitialInbox = inbox
	m.InitialFloor = floor
	m.Expected = expected

	if m.Worker == nil {
		m.Worker = worker.NewWorker()
	}
	m.Worker.Load(inbox, floor)
}

// Reset the machine to the field loaded by SetField.
func (m *Machine) Reset() {
	if m.Worker == nil {
		m.Worker = worker.NewWorker()
		m.Worker.Load(m.InitialInbox, m.InitialFloor)
	}
	m.Worker.Verbose = m.Verbose
	m.Worker.Reset()
	m.Steps = 0
}

// stepLimit returns the effective step limit.
func (m *Machine) stepLimit() int {
	if m.StepLimit <= 0 {
		return STEP_LIMIT
	}
	return m.StepLimit
}

// lastSentOk checks the newest outbox item against the expected output.
func (m *Machine) lastSentOk() bool {
	last, ok := m.Outbox.Last()
	if !ok {
		return false
	}

	index := m.Outbox.Len() - 1
	if index >= len(m.Expected) {
		return false
	}

	return m.Expected[index] == last
}

// tick executes the instruction at the instruction pointer.
func (m *Machine) tick(res *Result) (done bool) {
	prog := m.Program
	inst := prog.Instructions[m.Ip]

	outcome, step := m.Worker.Execute(prog, inst)
	res.Trace = append(res.Trace, step)
	res.Outcome = outcome
	res.Last = inst

	if m.Verbose {
		log.Debugf("steps %d\n%v", m.Steps, m.Worker)
	}

	if outcome != worker.OK {
		// Running out of input is how a program normally ends.
		if outcome != worker.EMPTY_INBOX {
			res.Status = STATUS_INST_ERROR
		}
		return true
	}

	m.Ip++

	if inst.Op != worker.OP_LABEL {
		m.Steps++
	}

	if inst.Op == worker.OP_OUTBOX && !m.lastSentOk() {
		res.Status = STATUS_INVALID_OUTBOX
		return true
	}

	if m.Ip >= prog.Len() {
		return true
	}

	if m.Steps >= m.stepLimit() {
		res.Status = STATUS_TOO_LARGE_STEPS
		return true
	}

	return false
}

// Run resets the machine and runs the program until it halts.
func (m *Machine) Run() (res Result) {
	m.Reset()

	if m.Program == nil {
		m.Program = &worker.Program{}
	}

	res.Status = STATUS_OK
	res.Outcome = worker.OK
	res.Lines = m.Program.Lines()

	if m.Verbose {
		log.Debugf("machine: run %d lines, inbox %v, expected %v", res.Lines, m.InitialInbox, m.Expected)
	}

	if m.Program.Len() > 0 {
		for !m.tick(&res) {
		}
	}

	outbox := slices.Collect(m.Outbox.Receive())
	if res.Status == STATUS_OK && !slices.Equal(outbox, m.Expected) {
		res.Status = STATUS_INVALID_OUTBOX
	}

	res.Steps = m.Steps
	res.Outbox = outbox
	res.Floor = m.Floor.Clone()
	if m.Holding {
		hold := m.Hold
		res.Hold = &hold
	}

	if m.Verbose {
		log.Debugf("machine: %v after %d steps (%v)", res.Status, res.Steps, res.Outcome)
	}

	return
}
