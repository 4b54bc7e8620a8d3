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

// Package reduce drives heap graphs towards the target form of each node.
// Every step is recorded in the heap: a node that reduces is linked to its
// result, and a node that can't reduce any further is marked with its form.
// Reduction is resumable, since an already reached form is never redone.
package reduce

import (
	"github.com/purpleidea/tygraph/lang/funcs"
	"github.com/purpleidea/tygraph/lang/heap"
	"github.com/purpleidea/tygraph/lang/interfaces"
	"github.com/purpleidea/tygraph/util/errwrap"

	"github.com/hashicorp/go-set/v3"
)

// DefaultStackLimit is the number of nodes that can be in the middle of being
// reduced at once, unless specified otherwise.
const DefaultStackLimit = 1000

// Reducer reduces the nodes of one heap. Build it as a struct literal and then
// run Init. It is not safe for concurrent use.
type Reducer struct {
	Heap *heap.Heap

	// Table is the primitive table. It defaults to the built-ins.
	Table *funcs.Table

	// Monitor, if set, is told about every reduction step.
	Monitor Monitor

	// StackLimit caps the number of nodes that are being reduced at once.
	StackLimit int

	Debug bool
	Logf  func(format string, v ...interface{})

	stack *set.Set[heap.Addr]
}

// Init validates the reducer and fills in the defaults.
func (obj *Reducer) Init() error {
	if obj.Heap == nil {
		return errwrap.Wrapf(interfaces.ErrInvalidAddr, "the reducer has no heap")
	}
	if obj.Table == nil {
		obj.Table = funcs.NewTable()
	}
	if obj.StackLimit <= 0 {
		obj.StackLimit = DefaultStackLimit
	}
	if obj.Logf == nil {
		obj.Logf = func(format string, v ...interface{}) {} // noop
	}
	obj.stack = set.New[heap.Addr](0)
	return nil
}

// Reduce drives the node at root towards its target form, and normalizes the
// parts of it that target the strong form. It returns the address the root was
// reduced to.
func (obj *Reducer) Reduce(root heap.Addr) (heap.Addr, error) {
	return obj.ReduceTo(root, interfaces.FormStrong)
}

// ReduceTo is like Reduce, except that no node is reduced further than limit.
func (obj *Reducer) ReduceTo(addr heap.Addr, limit interfaces.Form) (heap.Addr, error) {
	if !obj.Heap.Valid(addr) {
		return heap.NoAddr, errwrap.Wrapf(interfaces.ErrInvalidAddr, "reduce @%d", addr)
	}
	if !limit.IsTarget() {
		return heap.NoAddr, errwrap.Wrapf(interfaces.ErrInvalidForm, "limit %s", limit)
	}
	out, _, err := obj.reduceTo(addr, interfaces.FormWeak, limit)
	return out, err
}

// goal is the form a node is reduced to under a limit.
func (obj *Reducer) goal(addr heap.Addr, limit interfaces.Form) interfaces.Form {
	return interfaces.MinForm(limit, obj.Heap.TargetFormOf(addr))
}

// settled is the form a node contributes when merged into its parent. A node
// that reached its own goal can't get any further, so it doesn't hold its
// parent back.
func (obj *Reducer) settled(addr heap.Addr, limit interfaces.Form) interfaces.Form {
	f := obj.Heap.FormOf(addr)
	if f == interfaces.FormError {
		return f
	}
	if f.Reaches(obj.goal(addr, limit)) {
		return interfaces.FormStrong
	}
	return f
}

// reduceTo reduces a node in the context of a parent whose goal is ctx. It
// returns the address the node was reduced to, and its settled form. A node
// that is already being reduced further up is returned as is, and is assumed
// to settle.
func (obj *Reducer) reduceTo(addr heap.Addr, ctx, limit interfaces.Form) (heap.Addr, interfaces.Form, error) {
	addr = obj.Heap.DirectAddrOf(addr)
	if obj.stack.Contains(addr) {
		return addr, interfaces.FormStrong, nil // co-induction
	}

	if ctx == interfaces.FormWeak && limit == interfaces.FormStrong && obj.Heap.TargetFormOf(addr) == interfaces.FormStrong {
		// entering a strong region, get to the weak form first
		if _, _, err := obj.reduceTo(addr, interfaces.FormWeak, interfaces.FormWeak); err != nil {
			return heap.NoAddr, interfaces.FormError, err
		}
		addr = obj.Heap.DirectAddrOf(addr)
		ctx = interfaces.FormStrong
		if obj.stack.Contains(addr) {
			return addr, interfaces.FormStrong, nil
		}
	}

	pushed := []heap.Addr{}
	defer func() {
		for _, a := range pushed {
			obj.stack.Remove(a)
		}
	}()
	push := func(a heap.Addr) error {
		obj.stack.Insert(a)
		pushed = append(pushed, a)
		if n := obj.stack.Size(); n > obj.StackLimit {
			return errwrap.Wrapf(interfaces.ErrStackTooLarge, "%d nodes at @%d", n, a)
		}
		return nil
	}
	if err := push(addr); err != nil {
		return heap.NoAddr, interfaces.FormError, err
	}

	for {
		goal := obj.goal(addr, limit)
		form := obj.Heap.FormOf(addr)
		if form.Reaches(goal) {
			break
		}
		next, err := obj.reduceStep(addr, ctx, limit)
		if err != nil {
			return heap.NoAddr, interfaces.FormError, err
		}
		next = obj.Heap.DirectAddrOf(next)
		if next == addr {
			if obj.Heap.FormOf(addr) == form {
				break // fixed point
			}
			continue
		}
		if obj.stack.Contains(next) {
			return next, interfaces.FormStrong, nil
		}
		addr = next
		if err := push(addr); err != nil {
			return heap.NoAddr, interfaces.FormError, err
		}
	}
	return addr, obj.settled(addr, limit), nil
}

// mark sets the form of a node and reports it.
func (obj *Reducer) mark(addr heap.Addr, form interfaces.Form) error {
	if err := obj.Heap.SetForm(addr, form); err != nil {
		return err
	}
	obj.observe(EventMark, addr, addr)
	return nil
}

// rewrite links a node to its result and reports it.
func (obj *Reducer) rewrite(kind EventKind, addr, to heap.Addr) error {
	if err := obj.Heap.Link(addr, to); err != nil {
		return errwrap.Wrapf(err, "%s", kind)
	}
	obj.observe(kind, addr, to)
	return nil
}

func (obj *Reducer) observe(kind EventKind, addr, to heap.Addr) {
	event := &Event{
		Kind:  kind,
		Addr:  addr,
		To:    to,
		Form:  obj.Heap.FormOf(to),
		Depth: obj.stack.Size(),
	}
	if obj.Debug {
		obj.Logf("%s", event)
	}
	if obj.Monitor != nil {
		obj.Monitor.Observe(event)
	}
}
