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

package reduce

import (
	"github.com/purpleidea/tygraph/lang/heap"
	"github.com/purpleidea/tygraph/lang/interfaces"
	"github.com/purpleidea/tygraph/lang/predicates"
	"github.com/purpleidea/tygraph/lang/subst"
	"github.com/purpleidea/tygraph/util/errwrap"
)

// tyApply reduces a type level application. A lambda is applied like at the
// term level, a function type whose codomain doesn't depend on the value is
// applied to the type of the argument, and unions and intersections of either
// side are distributed.
func (obj *Reducer) tyApply(addr heap.Addr, x heap.TyApply, goal, limit interfaces.Form) (heap.Addr, error) {
	form, err := obj.children(addr, goal, limit)
	if err != nil {
		return heap.NoAddr, err
	}
	fn := obj.Heap.DirectAddrOf(x.Func)
	arg := obj.Heap.DirectAddrOf(x.Arg)

	out, ok, err := obj.applyType(addr, fn, arg)
	if err != nil {
		return heap.NoAddr, errwrap.Wrapf(err, "type apply @%d", addr)
	}
	if !ok {
		return addr, obj.mark(addr, form)
	}
	if obj.Heap.DirectAddrOf(out) == addr {
		return addr, obj.mark(addr, form)
	}
	return out, obj.rewrite(EventBeta, addr, out)
}

func (obj *Reducer) applyType(addr, fn, arg heap.Addr) (heap.Addr, bool, error) {
	target := obj.Heap.TargetFormOf(addr)
	depth := obj.Heap.DepthOf(addr)

	switch f := obj.Heap.NodeOf(fn).(type) {
	case heap.Lambda:
		out, result, err := subst.TryApply(obj.Heap, depth, fn, arg, target)
		if err != nil || result != subst.ApplyOK {
			return heap.NoAddr, false, err
		}
		return out, true, nil

	case heap.TyFun:
		if predicates.IsDependentFunTy(obj.Heap, fn) != interfaces.TroolFalse {
			return heap.NoAddr, false, nil
		}
		out, err := subst.SubstTmTy(obj.Heap, depth, obj.Heap.DepthOf(fn)+1, subst.Env{}, arg, f.Cod, target)
		if err != nil {
			return heap.NoAddr, false, err
		}
		return out, true, nil

	case heap.Prim:
		if a, b, ok := obj.lattice(f); ok {
			return obj.distribute(addr, f.Name, func(side heap.Addr) heap.TyApply {
				return heap.TyApply{Func: side, Arg: arg}
			}, a, b)
		}
	}

	if p, ok := obj.Heap.NodeOf(arg).(heap.Prim); ok {
		if a, b, ok := obj.lattice(p); ok {
			return obj.distribute(addr, p.Name, func(side heap.Addr) heap.TyApply {
				return heap.TyApply{Func: fn, Arg: side}
			}, a, b)
		}
	}
	return heap.NoAddr, false, nil
}

// lattice returns the two sides of a union or an intersection.
func (obj *Reducer) lattice(p heap.Prim) (heap.Addr, heap.Addr, bool) {
	if p.Ctor || len(p.Args) != 2 {
		return heap.NoAddr, heap.NoAddr, false
	}
	if p.Name != interfaces.TypeUnion && p.Name != interfaces.TypeIntersect {
		return heap.NoAddr, heap.NoAddr, false
	}
	return p.Args[0], p.Args[1], true
}

// distribute builds name(apply(a), apply(b)).
func (obj *Reducer) distribute(addr heap.Addr, name string, apply func(heap.Addr) heap.TyApply, a, b heap.Addr) (heap.Addr, bool, error) {
	ctx := obj.context(addr, name)
	left, err := ctx.Alloc(apply(a), heap.TypeAddr)
	if err != nil {
		return heap.NoAddr, false, err
	}
	right, err := ctx.Alloc(apply(b), heap.TypeAddr)
	if err != nil {
		return heap.NoAddr, false, err
	}
	out, err := ctx.Alloc(heap.Prim{Name: name, Args: []heap.Addr{left, right}}, heap.TypeAddr)
	if err != nil {
		return heap.NoAddr, false, err
	}
	return out, true, nil
}
