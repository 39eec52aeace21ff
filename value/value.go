// Package value implements the typed items carried around the mailroom.
//
// A Value is either an Integer or a single Character. Two values are equal
// only when both the kind and the content match, so the Character 'A' is
// never equal to the Integer 65. Value is comparable with ==.
package value

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/ezrec/mailroom/translate"
)

var f = translate.From

var (
	ErrValueInvalid = errors.New(f("not an integer or single character"))
)

// Kind is the tag of a Value.
type Kind int

const (
	KIND_INTEGER   = Kind(0) // Integer value.
	KIND_CHARACTER = Kind(1) // Single character value.
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KIND_INTEGER:
		return "integer"
	case KIND_CHARACTER:
		return "character"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a tagged Integer or Character.
type Value struct {
	kind Kind
	n    int
}

// Int makes an Integer value.
func Int(n int) Value {
	return Value{kind: KIND_INTEGER, n: n}
}

// Char makes a Character value.
func Char(r rune) Value {
	return Value{kind: KIND_CHARACTER, n: int(r)}
}

// Kind returns the tag of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsInt is true for Integer values.
func (v Value) IsInt() bool {
	return v.kind == KIND_INTEGER
}

// IsChar is true for Character values.
func (v Value) IsChar() bool {
	return v.kind == KIND_CHARACTER
}

// Int returns the integer content. For a Character this is its ordinal code.
func (v Value) Int() int {
	return v.n
}

// Rune returns the content as a rune.
func (v Value) Rune() rune {
	return rune(v.n)
}

// String formats an Integer in decimal, and a Character as itself.
func (v Value) String() string {
	if v.IsChar() {
		return string(v.Rune())
	}
	return strconv.Itoa(v.n)
}

// GoString helps test failure output tell 'A' and 65 apart.
func (v Value) GoString() string {
	if v.IsChar() {
		return fmt.Sprintf("value.Char(%q)", v.Rune())
	}
	return fmt.Sprintf("value.Int(%d)", v.n)
}

// Parse converts text into a Value. Decimal integers (optionally signed) become
// Integers, a single character becomes a Character.
func Parse(text string) (v Value, err error) {
	n, err := strconv.Atoi(text)
	if err == nil {
		v = Int(n)
		return
	}
	err = nil

	r, size := utf8.DecodeRuneInString(text)
	if size == 0 || size != len(text) || r == utf8.RuneError {
		err = fmt.Errorf("%w: %q", ErrValueInvalid, text)
		return
	}

	v = Char(r)
	return
}

// MarshalYAML encodes Integers as YAML ints, and Characters as strings.
func (v Value) MarshalYAML() (any, error) {
	if v.IsChar() {
		return string(v.Rune()), nil
	}
	return v.n, nil
}

// UnmarshalYAML decodes a YAML int or a one-character string.
func (v *Value) UnmarshalYAML(node *yaml.Node) (err error) {
	if node.Kind != yaml.ScalarNode {
		err = fmt.Errorf("line %d: %w", node.Line, ErrValueInvalid)
		return
	}

	switch node.ShortTag() {
	case "!!int":
		var n int
		err = node.Decode(&n)
		if err != nil {
			return
		}
		*v = Int(n)
	case "!!str":
		if utf8.RuneCountInString(node.Value) != 1 {
			err = fmt.Errorf("line %d: %w: %q", node.Line, ErrValueInvalid, node.Value)
			return
		}
		r, _ := utf8.DecodeRuneInString(node.Value)
		*v = Char(r)
	default:
		err = fmt.Errorf("line %d: %w: %q", node.Line, ErrValueInvalid, node.Value)
	}

	return
}
