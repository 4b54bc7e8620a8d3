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
)

// Context is what an action gets to know about the node it runs for.
type Context struct {
	Heap *heap.Heap

	// Addr is the primitive node being reduced.
	Addr heap.Addr

	// Depth, Type and Target are those of the node being reduced.
	Depth  int
	Type   heap.Addr
	Target interfaces.Form

	Debug bool
	Logf  func(format string, v ...interface{})
}

// Node returns the node at an address, following indirections.
func (obj *Context) Node(addr heap.Addr) heap.Node {
	return obj.Heap.NodeOf(obj.Heap.DirectAddrOf(addr))
}

// Alloc allocates a node typed typ, at the smallest depth its children and
// type allow, with the target of the node being reduced.
func (obj *Context) Alloc(node heap.Node, typ heap.Addr) (heap.Addr, error) {
	depth := obj.Heap.DepthOf(typ)
	for _, c := range heap.Children(node) {
		d := obj.Heap.DepthOf(c.Addr)
		if c.Binder {
			d--
		}
		if d > depth {
			depth = d
		}
	}
	return obj.Heap.Allocate(depth, node, typ, obj.Target)
}

// Const returns a global type constant.
func (obj *Context) Const(name string) (heap.Addr, error) {
	if name == interfaces.PrimType {
		return heap.TypeAddr, nil
	}
	return obj.Heap.Allocate(0, heap.Prim{Ctor: true, Name: name}, heap.TypeAddr, interfaces.FormWeak)
}

// Datum allocates a datum typed by its kind.
func (obj *Context) Datum(v interface{}) (heap.Addr, error) {
	name := "Nil"
	switch v.(type) {
	case bool:
		name = "Bool"
	case int64:
		name = "Int"
	case string:
		name = "Str"
	}
	typ, err := obj.Const(name)
	if err != nil {
		return heap.NoAddr, err
	}
	return obj.Heap.Allocate(0, heap.Datum{Value: v}, typ, obj.Target)
}

// datums returns the values of datum arguments, or false if any argument is not
// a datum.
func (obj *Context) datums(args []heap.Addr) ([]interface{}, bool) {
	out := []interface{}{}
	for _, a := range args {
		d, ok := obj.Node(a).(heap.Datum)
		if !ok {
			return nil, false
		}
		out = append(out, d.Value)
	}
	return out, true
}

// replace is a helper for actions returning a value.
func replace(addr heap.Addr, err error) (heap.Addr, Result, error) {
	if err != nil {
		return heap.NoAddr, ResultError, err
	}
	return addr, ResultReplace, nil
}

func stuck() (heap.Addr, Result, error) {
	return heap.NoAddr, ResultStuck, nil
}

func failed() (heap.Addr, Result, error) {
	return heap.NoAddr, ResultError, nil
}
