package machine

import (
	"errors"

	"github.com/ezrec/mailroom/translate"
)

var f = translate.From

var (
	ErrInvalidOutbox = errors.New(f("outbox does not match expected output"))
	ErrTooLargeSteps = errors.New(f("too many steps"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Index  int
	LineNo int
	Line   string
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
