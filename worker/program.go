package worker

import (
	"slices"
	"strings"
)

// Program is an assembled instruction listing.
type Program struct {
	Instructions []Instruction

	labels map[string]int // First index of each label.
}

// NewProgram numbers a copy of the instructions and indexes their labels.
func NewProgram(insts []Instruction) (prog *Program) {
	prog = &Program{
		Instructions: slices.Clone(insts),
		labels:       make(map[string]int),
	}

	for n := range prog.Instructions {
		inst := &prog.Instructions[n]
		inst.Index = n
		if inst.Op != OP_LABEL {
			continue
		}
		_, dup := prog.labels[inst.Label]
		if !dup {
			prog.labels[inst.Label] = n
		}
	}

	return
}

// Len returns the number of instructions, labels included.
func (prog *Program) Len() int {
	return len(prog.Instructions)
}

// Lines returns the number of instructions that are not labels.
func (prog *Program) Lines() (lines int) {
	for _, inst := range prog.Instructions {
		if inst.Op != OP_LABEL {
			lines++
		}
	}
	return
}

// Lookup finds the index of the first label with the given name.
func (prog *Program) Lookup(label string) (index int, ok bool) {
	if prog.labels != nil {
		index, ok = prog.labels[label]
		return
	}

	for n, inst := range prog.Instructions {
		if inst.Op == OP_LABEL && inst.Label == label {
			return n, true
		}
	}

	return
}

// String returns a listing that assembles back into the same program.
func (prog *Program) String() string {
	var text strings.Builder

	for _, inst := range prog.Instructions {
		if inst.Op != OP_LABEL {
			text.WriteString("    ")
		}
		text.WriteString(inst.String())
		text.WriteString("\n")
	}

	return text.String()
}
