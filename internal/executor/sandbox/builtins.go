package sandbox

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// THE CAPABILITY ALLOW-LIST:
// The sandbox's security boundary is the set of names visible to a script.
// Starlark's universe is safe by construction — it has no file access, no
// process or environment introspection, no eval, and module loading only
// works if we supply a Thread.Load hook (we never do). That leaves the
// universe's pure helpers available: len, range, str/int/float/bool,
// list/dict/tuple/set, min/max/all/any, enumerate/zip/sorted/reversed, abs,
// and print (redirected per call).
//
// builtins() adds the aggregate helpers the universe lacks. Before adding
// anything here, ask: can it read or write outside the call scope, or reach
// the host process? If yes, it doesn't belong in this table.
func builtins() starlark.StringDict {
	return starlark.StringDict{
		"sum":    starlark.NewBuiltin("sum", builtinSum),
		"map":    starlark.NewBuiltin("map", builtinMap),
		"filter": starlark.NewBuiltin("filter", builtinFilter),
	}
}

// builtinSum implements sum(iterable, start=0) using the interpreter's own
// addition, so int/float promotion behaves exactly like `a + b` in a script.
func builtinSum(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var iterable starlark.Iterable
	var acc starlark.Value = starlark.MakeInt(0)
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &iterable, &acc); err != nil {
		return nil, err
	}

	it := iterable.Iterate()
	defer it.Done()

	var x starlark.Value
	for it.Next(&x) {
		v, err := starlark.Binary(syntax.PLUS, acc, x)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		acc = v
	}
	return acc, nil
}

// builtinMap implements map(fn, iterable). It returns a list rather than a
// lazy iterator — results must outlive the call scope anyway, and a list
// keeps the conversion back to the wire format trivial.
func builtinMap(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var fn starlark.Value
	var iterable starlark.Iterable
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &fn, &iterable); err != nil {
		return nil, err
	}

	it := iterable.Iterate()
	defer it.Done()

	var elems []starlark.Value
	var x starlark.Value
	for it.Next(&x) {
		y, err := starlark.Call(thread, fn, starlark.Tuple{x}, nil)
		if err != nil {
			return nil, err
		}
		elems = append(elems, y)
	}
	return starlark.NewList(elems), nil
}

// builtinFilter implements filter(fn, iterable). Passing None as fn keeps
// the truthy elements, matching the Python convention.
func builtinFilter(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var fn starlark.Value
	var iterable starlark.Iterable
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &fn, &iterable); err != nil {
		return nil, err
	}

	it := iterable.Iterate()
	defer it.Done()

	var elems []starlark.Value
	var x starlark.Value
	for it.Next(&x) {
		keep := false
		if fn == starlark.None {
			keep = bool(x.Truth())
		} else {
			y, err := starlark.Call(thread, fn, starlark.Tuple{x}, nil)
			if err != nil {
				return nil, err
			}
			keep = bool(y.Truth())
		}
		if keep {
			elems = append(elems, x)
		}
	}
	return starlark.NewList(elems), nil
}
