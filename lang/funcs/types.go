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
	"github.com/purpleidea/tygraph/lang/subst"
)

const (
	// TypeAny is the type of every value.
	TypeAny = "Any"

	// TypeVoid is the type without values.
	TypeVoid = "Void"
)

func init() {
	for _, name := range []string{"Int", "Str", "Bool", "Nil", TypeAny, TypeVoid} {
		Register(&Func{Name: name, Ctor: true})
	}
	Register(&Func{Name: "List", Ctor: true})
	Register(&Func{Name: interfaces.TypeSub, Ctor: true})
	Register(&Func{Name: interfaces.TypeSuper, Ctor: true})
	Register(&Func{Name: interfaces.TypeSelf, Ctor: true, Strength: []interfaces.Form{interfaces.FormStrong}})

	Register(&Func{Name: interfaces.TypeUnion, Action: union})
	Register(&Func{Name: interfaces.TypeIntersect, Action: intersect})
	Register(&Func{Name: interfaces.TypeRelComp, Action: relComp})
	Register(&Func{Name: interfaces.TypeHd, Action: tyProject(true)})
	Register(&Func{Name: interfaces.TypeTl, Action: tyProject(false)})
	Register(&Func{Name: interfaces.TypeDom, Action: tyFunPart(true)})
	Register(&Func{Name: interfaces.TypeCod, Action: tyFunPart(false)})

	Register(&Func{Name: interfaces.PrimFix, Strength: []interfaces.Form{interfaces.FormStrong}, Action: fix})
}

// isConst returns true if the address is the named type constant.
func (obj *Context) isConst(addr heap.Addr, name string) bool {
	p, ok := obj.Node(addr).(heap.Prim)
	return ok && p.Ctor && p.Name == name && len(p.Args) == 0
}

func (obj *Context) same(a, b heap.Addr) bool {
	return obj.Heap.DirectAddrOf(a) == obj.Heap.DirectAddrOf(b)
}

// union simplifies with Void as the identity and Any as the absorbing element.
func union(ctx *Context, args []heap.Addr) (heap.Addr, Result, error) {
	if len(args) != 2 {
		return failed()
	}
	a, b := args[0], args[1]
	switch {
	case ctx.same(a, b), ctx.isConst(b, TypeVoid), ctx.isConst(a, TypeAny):
		return a, ResultReplace, nil
	case ctx.isConst(a, TypeVoid), ctx.isConst(b, TypeAny):
		return b, ResultReplace, nil
	}
	return stuck()
}

// intersect simplifies with Any as the identity and Void as the absorbing
// element.
func intersect(ctx *Context, args []heap.Addr) (heap.Addr, Result, error) {
	if len(args) != 2 {
		return failed()
	}
	a, b := args[0], args[1]
	switch {
	case ctx.same(a, b), ctx.isConst(b, TypeAny), ctx.isConst(a, TypeVoid):
		return a, ResultReplace, nil
	case ctx.isConst(a, TypeAny), ctx.isConst(b, TypeVoid):
		return b, ResultReplace, nil
	}
	return stuck()
}

// relComp is the set difference of two types.
func relComp(ctx *Context, args []heap.Addr) (heap.Addr, Result, error) {
	if len(args) != 2 {
		return failed()
	}
	a, b := args[0], args[1]
	switch {
	case ctx.same(a, b), ctx.isConst(a, TypeVoid), ctx.isConst(b, TypeAny):
		return replace(ctx.Const(TypeVoid))
	case ctx.isConst(b, TypeVoid):
		return a, ResultReplace, nil
	}
	return stuck()
}

func tyProject(hd bool) Action {
	return func(ctx *Context, args []heap.Addr) (heap.Addr, Result, error) {
		if len(args) != 1 {
			return failed()
		}
		if ctx.isConst(args[0], TypeAny) {
			return args[0], ResultReplace, nil
		}
		switch x := ctx.Node(args[0]).(type) {
		case heap.TyPair:
			if hd {
				return x.Hd, ResultReplace, nil
			}
			return x.Tl, ResultReplace, nil
		case heap.Prim:
			if x.Ctor {
				return failed() // not a pair type
			}
		case heap.TyFun, heap.SingleStr:
			return failed()
		}
		return stuck()
	}
}

// tyFunPart projects the domain or codomain of a function type. They live in
// the scope of the binder, so this only works when they don't mention it, and
// they are then moved out of it.
func tyFunPart(dom bool) Action {
	return func(ctx *Context, args []heap.Addr) (heap.Addr, Result, error) {
		if len(args) != 1 {
			return failed()
		}
		fn := ctx.Heap.DirectAddrOf(args[0])
		x, ok := ctx.Heap.NodeOf(fn).(heap.TyFun)
		if !ok {
			return stuck()
		}
		part := x.Cod
		if dom {
			part = x.Dom
		}
		depth := ctx.Heap.DepthOf(fn)
		if predicates.IsVarUsed(ctx.Heap, depth+1, part, true, true) {
			return stuck()
		}
		return replace(subst.SubstTmTy(ctx.Heap, depth, depth+1, subst.Env{}, heap.NoAddr, part, ctx.Target))
	}
}

// fix rewrites Fix(f) to f applied to the Fix node itself, which ties the knot
// through the indirection of the node.
func fix(ctx *Context, args []heap.Addr) (heap.Addr, Result, error) {
	if len(args) != 1 {
		return failed()
	}
	f := args[0]
	typ, err := ctx.Alloc(heap.TyApply{Func: ctx.Heap.TypeOf(f), Arg: ctx.Type}, heap.TypeAddr)
	if err != nil {
		return heap.NoAddr, ResultError, err
	}
	return replace(ctx.Alloc(heap.Apply{Func: f, Arg: ctx.Addr}, typ))
}
