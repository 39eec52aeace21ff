package machine

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/mailroom/value"
	"github.com/ezrec/mailroom/worker"
)

var (
	i = value.Int
	c = value.Char
)

func ints(ns ...int) (vs []value.Value) {
	for _, n := range ns {
		vs = append(vs, i(n))
	}
	return
}

func chars(text string) (vs []value.Value) {
	for _, r := range text {
		vs = append(vs, c(r))
	}
	return
}

func doRun(t *testing.T, program []string, aliases map[string]int, inbox []value.Value, floor worker.Floor, expected []value.Value) (m *Machine, res Result) {
	prog, err := worker.Parse(strings.Join(program, "\n"), aliases)
	assert.NoError(t, err)
	if err != nil {
		t.Fatal(err)
	}

	m = NewMachine()
	m.Program = prog
	m.SetField(inbox, floor, expected)

	res = m.Run()
	return
}

func TestMachine(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	assert.False(m.Verbose)
	assert.NotNil(m.Worker)
	assert.Equal(0, m.Program.Len())
}

func TestMachineEmptyProgram(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	res := m.Run()
	assert.Equal(STATUS_OK, res.Status)
	assert.Equal(worker.OK, res.Outcome)
	assert.Empty(res.Trace)
	assert.NoError(res.Err())

	m.SetField(nil, nil, ints(1))
	res = m.Run()
	assert.Equal(STATUS_INVALID_OUTBOX, res.Status)
}

func TestMachinePairwiseAdd(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"top:",
		"    inbox",
		"    copyto 0",
		"    inbox",
		"    add    0",
		"    outbox",
		"    jump   top",
	}

	_, res := doRun(t, program, nil, ints(3, 4, 10, 5), worker.Floor{}, ints(7, 15))

	assert.Equal(STATUS_OK, res.Status)
	assert.Equal(worker.EMPTY_INBOX, res.Outcome)
	assert.NoError(res.Err())
	assert.Equal(ints(7, 15), res.Outbox)
	assert.Equal(6, res.Lines)
	assert.Equal(12, res.Steps)

	// The label runs once; jumping to it resumes after it.
	assert.Equal(14, len(res.Trace))
	names := []string{}
	for _, step := range res.Trace {
		names = append(names, step.Name)
	}
	assert.Equal([]string{
		"label", "inbox", "copyto", "inbox", "add", "outbox", "jump",
		"inbox", "copyto", "inbox", "add", "outbox", "jump",
		"inbox",
	}, names)

	add := res.Trace[10]
	assert.Equal("add", add.Name)
	assert.Equal(4, add.Index)
	assert.Equal("+", add.Operator)
	assert.Equal(i(10), *add.PanelValue)
	assert.Equal(i(15), *add.ResultValue)
	assert.Equal(0, *add.FloorIndex)

	assert.Equal(worker.Step{Index: 6, Name: "jump", ToLabel: "top"}, res.Trace[6])
	assert.Equal(worker.Step{Index: 0, Name: "label", Label: "top"}, res.Trace[0])
	assert.Equal(worker.Floor{0: i(10)}, res.Floor)
	assert.Nil(res.Hold)
}

func TestMachineEmptyInbox(t *testing.T) {
	assert := assert.New(t)

	_, res := doRun(t, []string{"inbox", "outbox"}, nil, nil, nil, nil)
	assert.Equal(STATUS_OK, res.Status)
	assert.Equal(worker.EMPTY_INBOX, res.Outcome)
	assert.Empty(res.Outbox)
	assert.Equal(1, len(res.Trace))
	assert.Equal(0, res.Steps)
}

func TestMachineRunsOffTheEnd(t *testing.T) {
	assert := assert.New(t)

	_, res := doRun(t, []string{"inbox", "outbox"}, nil, ints(1, 2), nil, ints(1))
	assert.Equal(STATUS_OK, res.Status)
	assert.Equal(worker.OK, res.Outcome)
	assert.Equal(2, res.Steps)
}

func TestMachineTypeMismatch(t *testing.T) {
	assert := assert.New(t)

	_, res := doRun(t, []string{"inbox", "add 0"}, nil, chars("A"), worker.Floor{0: i(5)}, nil)
	assert.Equal(STATUS_INST_ERROR, res.Status)
	assert.Equal(worker.TYPE_MISMATCH, res.Outcome)
	assert.Equal(2, len(res.Trace))
	assert.Equal(worker.Step{Index: 1, Name: "add", Param: "0", Operator: "+"}, res.Trace[1])
	assert.Equal(1, res.Steps)
	if assert.NotNil(res.Hold) {
		assert.Equal(c('A'), *res.Hold)
	}

	err := res.Err()
	assert.ErrorIs(err, worker.ErrTypeMismatch)
	var rt *ErrRuntime
	if assert.True(errors.As(err, &rt)) {
		assert.Equal(1, rt.Index)
		assert.Equal(2, rt.LineNo)
		assert.Equal("add 0", rt.Line)
	}
}

func TestMachineDanglingJump(t *testing.T) {
	assert := assert.New(t)

	_, res := doRun(t, []string{"inbox", "jump missing_label"}, nil, ints(1), nil, nil)
	assert.Equal(STATUS_INST_ERROR, res.Status)
	assert.Equal(worker.NO_SUCH_LABEL, res.Outcome)
	assert.Equal("missing_label", res.Trace[len(res.Trace)-1].ToLabel)
	assert.ErrorIs(res.Err(), worker.ErrNoSuchLabel)
}

func TestMachineOutboxMismatch(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"inbox", "outbox",
		"inbox", "outbox",
		"inbox", "outbox",
	}

	_, res := doRun(t, program, nil, ints(1, 3, 5), nil, ints(1, 2))
	assert.Equal(STATUS_INVALID_OUTBOX, res.Status)
	assert.Equal(worker.OK, res.Outcome)
	assert.Equal(ints(1, 3), res.Outbox)
	assert.Equal(4, len(res.Trace))
	assert.ErrorIs(res.Err(), ErrInvalidOutbox)
}

func TestMachineOutboxShortAndLong(t *testing.T) {
	assert := assert.New(t)

	// Too few.
	_, res := doRun(t, []string{"inbox", "outbox"}, nil, ints(1), nil, ints(1, 2))
	assert.Equal(STATUS_INVALID_OUTBOX, res.Status)
	assert.Equal(2, len(res.Trace))

	// Too many.
	_, res = doRun(t, []string{"a:", "inbox", "outbox", "jump a"}, nil, ints(1, 2), nil, ints(1))
	assert.Equal(STATUS_INVALID_OUTBOX, res.Status)
	assert.Equal(ints(1, 2), res.Outbox)
	assert.Equal(6, len(res.Trace))

	// Same numbers, different kinds.
	_, res = doRun(t, []string{"inbox", "outbox"}, nil, ints(65), nil, chars("A"))
	assert.Equal(STATUS_INVALID_OUTBOX, res.Status)
}

func TestMachineRunaway(t *testing.T) {
	assert := assert.New(t)

	m, res := doRun(t, []string{"loop:", "jump loop"}, nil, nil, nil, nil)
	assert.Equal(STATUS_TOO_LARGE_STEPS, res.Status)
	assert.Equal(STEP_LIMIT, res.Steps)
	assert.Equal(STEP_LIMIT+1, len(res.Trace))
	assert.ErrorIs(res.Err(), ErrTooLargeSteps)

	m.StepLimit = 5
	res = m.Run()
	assert.Equal(STATUS_TOO_LARGE_STEPS, res.Status)
	assert.Equal(5, res.Steps)
	assert.Equal(6, len(res.Trace))
}

func TestMachineStepLimitAtEnd(t *testing.T) {
	assert := assert.New(t)

	prog, err := worker.Parse("inbox\noutbox", nil)
	assert.NoError(err)

	m := NewMachine()
	m.Program = prog
	m.StepLimit = 2
	m.SetField(ints(1), nil, ints(1))

	// Reaching the end wins over reaching the limit.
	res := m.Run()
	assert.Equal(STATUS_OK, res.Status)
	assert.Equal(2, res.Steps)
}

func TestMachineIdempotent(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"next:",
		"    inbox",
		"    copyto   [count]",
		"    copyfrom  count",
		"    copyto    index",
		"check_dup:",
		"    bumpm     index",
		"    jumpn     no_dup",
		"    copyfrom [index]",
		"    sub      [count]",
		"    jumpz     next",
		"    jump      check_dup",
		"no_dup:",
		"    copyfrom [count]",
		"    outbox",
		"    bumpp     count",
		"    jump      next",
	}
	aliases := map[string]int{"index": 14, "count": 15}
	floor := worker.Floor{15: i(0)}

	m, first := doRun(t, program, aliases, chars("ABACBDAEEC"), floor, chars("ABCDE"))
	assert.Equal(STATUS_OK, first.Status)
	assert.Equal(worker.EMPTY_INBOX, first.Outcome)
	assert.Equal(chars("ABCDE"), first.Outbox)
	assert.Equal(14, first.Lines)
	assert.Equal(197, first.Steps)
	assert.Equal(209, len(first.Trace))

	// The initial floor is not modified by a run.
	assert.Equal(worker.Floor{15: i(0)}, floor)

	second := m.Run()
	assert.Equal(first, second)
}

func TestMachineSetFieldCopies(t *testing.T) {
	assert := assert.New(t)

	prog, err := worker.Parse("inbox\ncopyto 0\ncopyfrom 1\noutbox", nil)
	assert.NoError(err)

	inbox := ints(4)
	floor := worker.Floor{1: i(9)}

	m := NewMachine()
	m.Program = prog
	m.SetField(inbox, floor, ints(9))

	// Later edits by the caller do not reach the loaded field.
	inbox[0] = i(5)
	floor.Set(1, i(0))

	for range 2 {
		res := m.Run()
		assert.Equal(STATUS_OK, res.Status)
		assert.Equal(worker.Floor{0: i(4), 1: i(9)}, res.Floor)
		assert.Equal(ints(9), res.Outbox)
	}

	// A machine without a worker loads one from the initial field.
	bare := &Machine{Program: prog, InitialInbox: ints(1), InitialFloor: worker.Floor{1: i(9)}, Expected: ints(9)}
	res := bare.Run()
	assert.Equal(STATUS_OK, res.Status)
}

func TestMachineThreeSort(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"next:",
		"    inbox",
		"    copyto   0",
		"    inbox",
		"    copyto   1",
		"    inbox",
		"    copyto   2",
		"common:",
		"    copyfrom 0",
		"    copyto   tmp",
		"    sub      1",
		"    jumpn    skip_swap",
		"    copyfrom 1",
		"    copyto   0",
		"    copyfrom tmp",
		"    copyto   1",
		"skip_swap:",
		"    copyfrom 2",
		"    copyto   tmp",
		"    sub      1",
		"    jumpn    continue",
		"_out:",
		"    copyfrom 0",
		"    outbox",
		"    copyfrom 1",
		"    outbox",
		"    copyfrom 2",
		"    outbox",
		"    jump     next",
		"continue:",
		"    copyfrom 1",
		"    copyto   2",
		"    copyfrom tmp",
		"    copyto   1",
		"    jump     common",
	}

	inbox := ints(3, -2, 7, 0, 0, -9, 5, 4, 3, -1, 8, 2)
	expected := ints(-2, 3, 7, -9, 0, 0, 3, 4, 5, -1, 2, 8)

	_, res := doRun(t, program, map[string]int{"tmp": 9}, inbox, nil, expected)
	assert.Equal(STATUS_OK, res.Status)
	assert.Equal(30, res.Lines)
	assert.Equal(143, res.Steps)
	assert.Equal(158, len(res.Trace))
}

var sortingFloor = []string{
	"init:",
	"    copyfrom  zero",
	"    copyto    len",
	"_first:",
	"    inbox",
	"    copyto   [len]",
	"next:",
	"    inbox",
	"    jumpz     out",
	"    copyto    tmp",
	"    bumpp     len",
	"    copyto    i",
	"    copyto    j",
	"    copyto    k",
	"compare:",
	"    bumpm     i",
	"    jumpn     forward",
	"    copyfrom [i]",
	"    sub       tmp",
	"    jumpn     compare",
	"forward:",
	"    bumpm     j",
	"    sub       i",
	"    jumpz     insert",
	"    copyfrom [j]",
	"    copyto   [k]",
	"    bumpm     k",
	"    jump      forward",
	"insert:",
	"    copyfrom  tmp",
	"    copyto   [k]",
	"    jump      next",
	"out:",
	"    copyfrom [len] ",
	"    outbox",
	"    bumpm     len",
	"    jumpn     init",
	"    jump      out",
}

var sortingAliases = map[string]int{"len": 20, "i": 21, "j": 22, "k": 23, "tmp": 19, "zero": 24}

func TestMachineSortingFloor(t *testing.T) {
	assert := assert.New(t)

	inbox := ints(85, 28, 67, 0, 73, 92, 21, 60, 0, 10, 0)
	expected := ints(28, 67, 85, 21, 60, 73, 92, 10)

	_, res := doRun(t, sortingFloor, sortingAliases, inbox, worker.Floor{24: i(0)}, expected)
	assert.Equal(STATUS_OK, res.Status)
	assert.Equal(31, res.Lines)
	assert.Equal(180, res.Steps)
	assert.Equal(198, len(res.Trace))
}

func TestMachineSortingFloorCharacters(t *testing.T) {
	assert := assert.New(t)

	// Testing a character against zero is a type error.
	inbox := append(ints(85, 28, 67, 0), chars("THINK")...)
	expected := append(ints(28, 67, 85), chars("HIKNT")...)

	_, res := doRun(t, sortingFloor, sortingAliases, inbox, worker.Floor{24: i(0)}, expected)
	assert.Equal(STATUS_INST_ERROR, res.Status)
	assert.Equal(worker.TYPE_MISMATCH, res.Outcome)
	assert.Equal(ints(28, 67, 85), res.Outbox)
	assert.Equal("jumpz", res.Trace[len(res.Trace)-1].Name)
	assert.Equal(83, len(res.Trace))
}

func TestResultErr(t *testing.T) {
	assert := assert.New(t)

	res := Result{Status: Status(5)}
	assert.Error(res.Err())
	assert.Equal("Status(5)", Status(5).String())

	text, err := STATUS_TOO_LARGE_STEPS.MarshalText()
	assert.NoError(err)
	assert.Equal("TOO_LARGE_STEPS", string(text))
}
