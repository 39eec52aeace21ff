// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package worker

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Assembler parses mailroom source text into a Program.
type Assembler struct {
	Verbose bool          // If set, verbosely logs the assembler actions.
	Opcode  []Instruction // List of generated instructions.

	Aliases map[string]int // Map of alias names to floor addresses.
}

// Alias defines a new alias or redefines an existing one.
func (asm *Assembler) Alias(name string, addr int) {
	if asm.Aliases == nil {
		asm.Aliases = map[string]int{name: addr}
	} else {
		asm.Aliases[name] = addr
	}
}

var (
	reLabel   = regexp.MustCompile(`^(\w+):$`)
	reNoArg   = regexp.MustCompile(`^(\w+)$`)
	reWithArg = regexp.MustCompile(`^(\w+)\s+(\[?)(\w+)(\]?)$`)
)

// opMap maps source opcode names.
var opMap = map[string]Op{
	"inbox":    OP_INBOX,
	"outbox":   OP_OUTBOX,
	"copyfrom": OP_COPYFROM,
	"copyto":   OP_COPYTO,
	"add":      OP_ADD,
	"sub":      OP_SUB,
	"bumpp":    OP_BUMPUP,
	"bumpm":    OP_BUMPDOWN,
	"jump":     OP_JUMP,
	"jumpz":    OP_JUMPZ,
	"jumpn":    OP_JUMPN,
}

// addressOf resolves an operand word to a floor address.
func (asm *Assembler) addressOf(word string) (addr int, err error) {
	addr, err = strconv.Atoi(word)
	if err == nil {
		return
	}
	err = nil

	addr, ok := asm.Aliases[word]
	if !ok {
		err = ErrAliasMissing(word)
		return
	}

	return
}

// parseLine parses a single trimmed, non-empty line.
func (asm *Assembler) parseLine(line string) (inst Instruction, err error) {
	match := reLabel.FindStringSubmatch(line)
	if match != nil {
		inst = Instruction{Op: OP_LABEL, Label: match[1]}
		return
	}

	var word, lbrack, operand, rbrack string
	hasOperand := false

	if match = reNoArg.FindStringSubmatch(line); match != nil {
		word = match[1]
	} else if match = reWithArg.FindStringSubmatch(line); match != nil {
		word, lbrack, operand, rbrack = match[1], match[2], match[3], match[4]
		hasOperand = true
	} else {
		err = ErrLineSyntax
		return
	}

	op, ok := opMap[word]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	inst = Instruction{Op: op}

	switch {
	case op.HasAddress():
		if !hasOperand {
			err = ErrOperandMissing
			return
		}
		switch {
		case lbrack == "" && rbrack == "":
			inst.Mode = MODE_DIRECT
		case lbrack == "[" && rbrack == "]":
			inst.Mode = MODE_INDIRECT
		default:
			err = ErrBracketMismatch
			return
		}
		inst.Address, err = asm.addressOf(operand)
		if err != nil {
			return
		}
	case op.IsJump():
		if !hasOperand {
			err = ErrOperandMissing
			return
		}
		if lbrack != "" || rbrack != "" {
			err = ErrTargetInvalid
			return
		}
		inst.Label = operand
	default:
		if hasOperand && asm.Verbose {
			log.Debugf("%v: ignoring operand '%v'", op, operand)
		}
	}

	return
}

// Parse parses an input stream into a Program.
// Blank lines are skipped. The first bad line aborts the parse.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Opcode = asm.Opcode[:0]

	for scanner.Scan() {
		lineno += 1
		line = strings.TrimSpace(scanner.Text())

		if asm.Verbose {
			log.Debugf("%v: %v", lineno, line)
		}

		if len(line) == 0 {
			continue
		}

		var inst Instruction
		inst, err = asm.parseLine(line)
		if err != nil {
			return
		}

		inst.LineNo = lineno
		asm.Opcode = append(asm.Opcode, inst)
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	prog = NewProgram(asm.Opcode)

	return
}

// Parse parses source text with an alias table.
func Parse(source string, aliases map[string]int) (prog *Program, err error) {
	asm := &Assembler{Aliases: aliases}
	return asm.Parse(strings.NewReader(source))
}
