package level

import (
	"fmt"
	"math/rand/v2"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/mailroom/value"
	"github.com/ezrec/mailroom/worker"
)

// builtinChars splits a string into a list of single character strings.
func builtinChars(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
	var text string
	err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &text)
	if err != nil {
		return
	}

	elems := []starlark.Value{}
	for _, r := range text {
		elems = append(elems, starlark.String(string(r)))
	}

	rc = starlark.NewList(elems)
	return
}

// builtinRand returns a builtin yielding integers in [0, n) from a seeded source.
func builtinRand(seed uint64) *starlark.Builtin {
	rng := rand.New(rand.NewPCG(seed, ^seed))
	return starlark.NewBuiltin("rand", func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (rc starlark.Value, err error) {
		var n int
		err = starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &n)
		if err != nil {
			return
		}
		if n <= 0 {
			err = fmt.Errorf("%v: %v", b.Name(), f("range must be positive"))
			return
		}
		rc = starlark.MakeInt(rng.IntN(n))
		return
	})
}

// toValue converts a Starlark int or one character string.
func toValue(name string, v starlark.Value) (item value.Value, err error) {
	switch v := v.(type) {
	case starlark.Int:
		n, ok := v.Int64()
		if !ok {
			err = fmt.Errorf("%v: %w: %v", name, value.ErrValueInvalid, v)
			return
		}
		item = value.Int(int(n))
	case starlark.String:
		text := string(v)
		r, size := utf8.DecodeRuneInString(text)
		if size == 0 || size != len(text) || r == utf8.RuneError {
			err = fmt.Errorf("%v: %w: %q", name, value.ErrValueInvalid, text)
			return
		}
		item = value.Char(r)
	default:
		err = &ErrGlobal{Name: name, Type: v.Type()}
	}
	return
}

func toInt(name string, v starlark.Value) (n int, err error) {
	err = starlark.AsInt(v, &n)
	if err != nil {
		err = &ErrGlobal{Name: name, Type: v.Type()}
	}
	return
}

func toString(name string, v starlark.Value) (text string, err error) {
	text, ok := starlark.AsString(v)
	if !ok {
		err = &ErrGlobal{Name: name, Type: v.Type()}
	}
	return
}

func toValues(name string, v starlark.Value) (items []value.Value, err error) {
	iter := starlark.Iterate(v)
	if iter == nil {
		err = &ErrGlobal{Name: name, Type: v.Type()}
		return
	}
	defer iter.Done()

	items = []value.Value{}
	var elem starlark.Value
	for index := 0; iter.Next(&elem); index++ {
		var item value.Value
		item, err = toValue(fmt.Sprintf("%v[%d]", name, index), elem)
		if err != nil {
			return
		}
		items = append(items, item)
	}

	return
}

func toDict(name string, v starlark.Value) (dict *starlark.Dict, err error) {
	dict, ok := v.(*starlark.Dict)
	if !ok {
		err = &ErrGlobal{Name: name, Type: v.Type()}
	}
	return
}

// fromGlobals fills a level from the globals a script bound.
func fromGlobals(globals starlark.StringDict) (lvl *Level, err error) {
	lvl = &Level{}

	for _, key := range []string{"name", "summary", "description"} {
		v, ok := globals[key]
		if !ok {
			continue
		}
		var text string
		text, err = toString(key, v)
		if err != nil {
			return
		}
		switch key {
		case "name":
			lvl.Name = text
		case "summary":
			lvl.Summary = text
		case "description":
			lvl.Description = text
		}
	}

	if v, ok := globals["floor_size"]; ok {
		var dict *starlark.Dict
		dict, err = toDict("floor_size", v)
		if err != nil {
			return
		}
		for _, key := range []string{"x", "y"} {
			elem, found, _ := dict.Get(starlark.String(key))
			if !found {
				continue
			}
			var n int
			n, err = toInt("floor_size."+key, elem)
			if err != nil {
				return
			}
			if key == "x" {
				lvl.FloorSize.X = n
			} else {
				lvl.FloorSize.Y = n
			}
		}
	}

	if v, ok := globals["aliases"]; ok {
		var dict *starlark.Dict
		dict, err = toDict("aliases", v)
		if err != nil {
			return
		}
		lvl.Aliases = map[string]int{}
		for _, item := range dict.Items() {
			var alias string
			alias, err = toString("aliases key", item[0])
			if err != nil {
				return
			}
			lvl.Aliases[alias], err = toInt("aliases."+alias, item[1])
			if err != nil {
				return
			}
		}
	}

	if v, ok := globals["floor"]; ok {
		var dict *starlark.Dict
		dict, err = toDict("floor", v)
		if err != nil {
			return
		}
		lvl.Floor = worker.Floor{}
		for _, item := range dict.Items() {
			var addr int
			addr, err = toInt("floor key", item[0])
			if err != nil {
				return
			}
			var slot value.Value
			slot, err = toValue(fmt.Sprintf("floor[%d]", addr), item[1])
			if err != nil {
				return
			}
			lvl.Floor.Set(addr, slot)
		}
	}

	for _, key := range []string{"inbox", "expected"} {
		v, ok := globals[key]
		if !ok {
			err = fmt.Errorf("%w: %v %v", ErrLevelGlobal, key, f("is not defined"))
			return
		}
		var items []value.Value
		items, err = toValues(key, v)
		if err != nil {
			return
		}
		if key == "inbox" {
			lvl.Inbox = items
		} else {
			lvl.Expected = items
		}
	}

	return
}

// LoadStarlark runs a level script and collects its globals.
func (opts Options) LoadStarlark(filename string, data []byte) (lvl *Level, err error) {
	thread := &starlark.Thread{
		Name: filename,
		Print: func(thread *starlark.Thread, msg string) {
			log.Debugf("%v: %v", thread.Name, msg)
		},
	}
	fileOpts := syntax.FileOptions{
		While:           true,
		TopLevelControl: true,
		GlobalReassign:  true,
	}
	pred := starlark.StringDict{
		"chars": starlark.NewBuiltin("chars", builtinChars),
		"rand":  builtinRand(opts.Seed),
		"seed":  starlark.MakeUint64(opts.Seed),
	}

	globals, err := starlark.ExecFileOptions(&fileOpts, thread, filename, data, pred)
	if err != nil {
		return
	}

	if opts.Verbose {
		log.Debugf("level: %v: globals %v", filename, globals.Keys())
	}

	lvl, err = fromGlobals(globals)
	if err != nil {
		lvl = nil
	}

	return
}
