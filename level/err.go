package level

import (
	"errors"

	"github.com/ezrec/mailroom/translate"
)

var f = translate.From

var (
	ErrLevelFormat  = errors.New(f("unknown level file format"))
	ErrLevelGlobal  = errors.New(f("invalid level global"))
	ErrLevelAddress = errors.New(f("floor address out of range"))
)

// ErrLevel indicates which level file failed to load.
type ErrLevel struct {
	Path string
	Err  error
}

func (err *ErrLevel) Error() string {
	return f("level %v: %v", err.Path, err.Err)
}

func (err *ErrLevel) Unwrap() error {
	return err.Err
}

// ErrGlobal indicates a Starlark global of the wrong type.
type ErrGlobal struct {
	Name string
	Type string
}

func (err *ErrGlobal) Error() string {
	return f("global '%v' has type %v", err.Name, err.Type)
}

func (err *ErrGlobal) Is(target error) bool {
	return target == ErrLevelGlobal
}
