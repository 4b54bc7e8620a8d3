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
	"github.com/purpleidea/tygraph/lang/funcs"
	"github.com/purpleidea/tygraph/lang/heap"
	"github.com/purpleidea/tygraph/lang/interfaces"
	"github.com/purpleidea/tygraph/lang/subst"
	"github.com/purpleidea/tygraph/util/errwrap"
)

// reduceStep runs one step on a direct address. It returns the address the
// node was rewritten to, or the same address if it was only marked.
func (obj *Reducer) reduceStep(addr heap.Addr, ctx, limit interfaces.Form) (heap.Addr, error) {
	goal := obj.goal(addr, limit)
	node := obj.Heap.NodeOf(addr)

	if heap.IsIrreducible(node) {
		return addr, obj.mark(addr, obj.Heap.TargetFormOf(addr))
	}

	switch x := node.(type) {
	case heap.Lambda, heap.TyFun:
		// lazy under binders
		if goal != interfaces.FormStrong {
			return addr, obj.mark(addr, goal)
		}
		form, err := obj.children(addr, goal, limit)
		if err != nil {
			return heap.NoAddr, err
		}
		return addr, obj.mark(addr, form)

	case heap.Apply:
		return obj.apply(addr, x, goal, limit)

	case heap.TyApply:
		return obj.tyApply(addr, x, goal, limit)

	case heap.Prim:
		return obj.prim(addr, x, goal, limit)
	}

	// pairs and the other composites settle when their children do
	form, err := obj.children(addr, goal, limit)
	if err != nil {
		return heap.NoAddr, err
	}
	return addr, obj.mark(addr, form)
}

// children reduces every child of a node, and returns the merged form the node
// gets from them.
func (obj *Reducer) children(addr heap.Addr, goal, limit interfaces.Form) (interfaces.Form, error) {
	forms := []interfaces.Form{}
	for _, c := range heap.Children(obj.Heap.NodeOf(addr)) {
		_, form, err := obj.reduceTo(c.Addr, goal, limit)
		if err != nil {
			return interfaces.FormError, err
		}
		forms = append(forms, form)
	}
	return interfaces.MinForm(goal, interfaces.MergeForms(goal, forms...)), nil
}

func (obj *Reducer) apply(addr heap.Addr, x heap.Apply, goal, limit interfaces.Form) (heap.Addr, error) {
	form, err := obj.children(addr, goal, limit)
	if err != nil {
		return heap.NoAddr, err
	}
	out, result, err := subst.TryApply(obj.Heap, obj.Heap.DepthOf(addr), x.Func, x.Arg, obj.Heap.TargetFormOf(addr))
	if err != nil {
		return heap.NoAddr, errwrap.Wrapf(err, "apply @%d", addr)
	}
	switch result {
	case subst.ApplyOK:
		if obj.Heap.DirectAddrOf(out) == addr {
			return addr, obj.mark(addr, form)
		}
		return out, obj.rewrite(EventBeta, addr, out)
	case subst.ApplyNoMatch:
		// a latent type error, the node stays stuck
		obj.Logf("apply @%d: the argument can never match", addr)
		return addr, obj.mark(addr, form)
	}
	return addr, obj.mark(addr, form)
}

func (obj *Reducer) prim(addr heap.Addr, x heap.Prim, goal, limit interfaces.Form) (heap.Addr, error) {
	forms := []interfaces.Form{}
	args := []heap.Addr{}
	for _, a := range x.Args {
		_, form, err := obj.reduceTo(a, goal, limit)
		if err != nil {
			return heap.NoAddr, err
		}
		forms = append(forms, form)
		c, err := obj.Heap.CopyWithoutIndirections(a)
		if err != nil {
			return heap.NoAddr, err
		}
		args = append(args, c)
	}
	form := interfaces.MinForm(goal, interfaces.MergeForms(goal, forms...))

	fn, err := obj.Table.Lookup(x.Name)
	if err != nil {
		obj.Logf("primitive @%d: %+v", addr, err)
		return addr, obj.mark(addr, interfaces.FormError)
	}

	// strengthen a private copy of the lambdas that must be strong, the
	// shared ones may be used elsewhere
	changed := false
	for i, a := range args {
		if fn.Required(i) != interfaces.FormStrong || obj.Heap.TargetFormOf(a) != interfaces.FormWeak {
			continue
		}
		if _, ok := obj.Heap.NodeOf(a).(heap.Lambda); !ok {
			continue
		}
		strong, err := subst.StrongLambda(obj.Heap, a)
		if err != nil {
			return heap.NoAddr, err
		}
		args[i] = strong
		changed = true
	}
	if changed {
		p := heap.Prim{Ctor: x.Ctor, Name: x.Name, Args: args}
		out, err := obj.Heap.Allocate(obj.Heap.DepthOf(addr), p, obj.Heap.TypeOf(addr), obj.Heap.TargetFormOf(addr))
		if err != nil {
			return heap.NoAddr, err
		}
		return out, obj.rewrite(EventDelta, addr, out)
	}

	if fn.Ctor {
		return addr, obj.mark(addr, form)
	}

	ctx := obj.context(addr, x.Name)
	out, result, err := fn.Action(ctx, args)
	if err != nil {
		return heap.NoAddr, errwrap.Wrapf(err, "primitive %s at @%d", x.Name, addr)
	}
	switch result {
	case funcs.ResultReplace:
		if obj.Heap.DirectAddrOf(out) == addr {
			return addr, obj.mark(addr, form)
		}
		return out, obj.rewrite(EventDelta, addr, out)
	case funcs.ResultError:
		return addr, obj.mark(addr, interfaces.FormError)
	}
	return addr, obj.mark(addr, form)
}

// context is what a primitive action at addr gets to see.
func (obj *Reducer) context(addr heap.Addr, name string) *funcs.Context {
	return &funcs.Context{
		Heap:   obj.Heap,
		Addr:   addr,
		Depth:  obj.Heap.DepthOf(addr),
		Type:   obj.Heap.TypeOf(addr),
		Target: obj.Heap.TargetFormOf(addr),
		Debug:  obj.Debug,
		Logf: func(format string, v ...interface{}) {
			obj.Logf(name+": "+format, v...)
		},
	}
}
