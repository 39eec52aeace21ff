package worker

import (
	"errors"

	"github.com/ezrec/mailroom/translate"
)

var f = translate.From

var (
	// Execution errors
	ErrHoldNull     = errors.New(f("nothing in hold"))
	ErrRefNull      = errors.New(f("floor address empty"))
	ErrEmptyAddr    = errors.New(f("address empty"))
	ErrInvalidPtr   = errors.New(f("invalid pointer"))
	ErrTypeMismatch = errors.New(f("type mismatch"))
	ErrNoSuchLabel  = errors.New(f("no such label"))

	// Assembler errors
	ErrLineSyntax      = errors.New(f("syntax error"))
	ErrOpcodeInvalid   = errors.New(f("unknown instruction"))
	ErrOperandMissing  = errors.New(f("operand missing"))
	ErrBracketMismatch = errors.New(f("unbalanced brackets"))
	ErrTargetInvalid   = errors.New(f("jump target invalid"))
)

type ErrOutcome Outcome

func (eo ErrOutcome) Error() string {
	return f("outcome %v", Outcome(eo).String())
}

type ErrAliasMissing string

func (ea ErrAliasMissing) Error() string {
	return f("no such alias '%v'", string(ea))
}

// ErrSyntax locates an assembler error in the source text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
