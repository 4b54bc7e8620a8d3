// Mgmt
// Copyright (C) James Shubin and the project contributors
// Written by James Shubin <james@shubin.ca> and the project contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.
//
// Additional permission under GNU GPL version 3 section 7
//
// If you modify this program, or any covered work, by linking or combining it
// with embedded mcl code and modules (and that the embedded mcl code and
// modules which link with this program, contain a copy of their source code in
// the authoritative form) containing parts covered by the terms of any other
// license, the licensors of this program grant you additional permission to
// convey the resulting work. Furthermore, the licensors of this program grant
// the original author, James Shubin, additional permission to update this
// additional permission if he deems it necessary to achieve the goals of this
// additional permission.

package funcs

import (
	"github.com/purpleidea/tygraph/lang/heap"
	"github.com/purpleidea/tygraph/lang/interfaces"
	"github.com/purpleidea/tygraph/lang/predicates"
)

// EqFuel is the fuel that the eq primitive compares terms with.
const EqFuel = 1000

func init() {
	Register(&Func{Name: interfaces.PrimHd, Action: project(true)})
	Register(&Func{Name: interfaces.PrimTl, Action: project(false)})
	Register(&Func{Name: "add", Action: arith(func(a, b int64) int64 { return a + b })})
	Register(&Func{Name: "sub", Action: arith(func(a, b int64) int64 { return a - b })})
	Register(&Func{Name: "mul", Action: arith(func(a, b int64) int64 { return a * b })})
	Register(&Func{Name: "eq", Action: eq})
	Register(&Func{Name: "concat", Action: concat})
	Register(&Func{Name: "not", Action: not})
}

// project returns the action of hd or tl.
func project(hd bool) Action {
	return func(ctx *Context, args []heap.Addr) (heap.Addr, Result, error) {
		if len(args) != 1 {
			return failed()
		}
		switch x := ctx.Node(args[0]).(type) {
		case heap.Pair:
			if hd {
				return x.Hd, ResultReplace, nil
			}
			return x.Tl, ResultReplace, nil
		case heap.Datum:
			return failed()
		}
		return stuck()
	}
}

func arith(fn func(a, b int64) int64) Action {
	return func(ctx *Context, args []heap.Addr) (heap.Addr, Result, error) {
		if len(args) != 2 {
			return failed()
		}
		values, ok := ctx.datums(args)
		if !ok {
			return stuck()
		}
		a, ok1 := values[0].(int64)
		b, ok2 := values[1].(int64)
		if !ok1 || !ok2 {
			return failed()
		}
		return replace(ctx.Datum(fn(a, b)))
	}
}

func eq(ctx *Context, args []heap.Addr) (heap.Addr, Result, error) {
	if len(args) != 2 {
		return failed()
	}
	t, err := predicates.TermEqual(ctx.Heap, EqFuel, args[0], args[1], false)
	if err != nil {
		return heap.NoAddr, ResultError, err
	}
	if !t.Known() {
		return stuck()
	}
	return replace(ctx.Datum(t == interfaces.TroolTrue))
}

func concat(ctx *Context, args []heap.Addr) (heap.Addr, Result, error) {
	values, ok := ctx.datums(args)
	if !ok {
		return stuck()
	}
	s := ""
	for _, v := range values {
		x, ok := v.(string)
		if !ok {
			return failed()
		}
		s += x
	}
	return replace(ctx.Datum(s))
}

func not(ctx *Context, args []heap.Addr) (heap.Addr, Result, error) {
	if len(args) != 1 {
		return failed()
	}
	values, ok := ctx.datums(args)
	if !ok {
		return stuck()
	}
	b, ok := values[0].(bool)
	if !ok {
		return failed()
	}
	return replace(ctx.Datum(!b))
}
