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

// Package builder contains scope aware helpers to construct terms and types in
// a heap. A Builder tracks the binder depth it constructs at, and allocates
// every composite node at the smallest depth its children allow, so closed
// subterms are shared between scopes.
//
// Errors are sticky: after the first failed allocation every method returns
// heap.NoAddr, and Err returns the error. Nested builders share the error.
package builder

import (
	"github.com/purpleidea/tygraph/lang/heap"
	"github.com/purpleidea/tygraph/lang/interfaces"
	"github.com/purpleidea/tygraph/util/errwrap"
)

type state struct {
	err error
}

// Builder constructs nodes at one binder depth.
type Builder struct {
	heap   *heap.Heap
	depth  int
	target interfaces.Form
	tyvar  heap.Addr // type of the whole argument bound at this depth
	state  *state
}

// New returns a builder for the top level scope of the heap.
func New(h *heap.Heap) *Builder {
	b := &Builder{
		heap:   h,
		depth:  0,
		target: interfaces.FormWeak,
		state:  &state{},
	}
	b.tyvar = b.alloc(0, heap.TyVar{}, heap.TypeAddr)
	return b
}

// Heap returns the heap this builder allocates in.
func (obj *Builder) Heap() *heap.Heap { return obj.heap }

// Depth returns the binder depth of this scope.
func (obj *Builder) Depth() int { return obj.depth }

// Err returns the first error any builder of this tree ran into.
func (obj *Builder) Err() error { return obj.state.err }

// Strong returns a builder for the same scope whose nodes target the strong
// form.
func (obj *Builder) Strong() *Builder {
	b := *obj
	b.target = interfaces.FormStrong
	return &b
}

// Weak returns a builder for the same scope whose nodes target the weak form.
func (obj *Builder) Weak() *Builder {
	b := *obj
	b.target = interfaces.FormWeak
	return &b
}

func (obj *Builder) inner() *Builder {
	b := &Builder{
		heap:   obj.heap,
		depth:  obj.depth + 1,
		target: obj.target,
		state:  obj.state,
	}
	b.tyvar = b.alloc(b.depth, heap.TyVar{}, heap.TypeAddr)
	return b
}

func (obj *Builder) fail(err error) heap.Addr {
	if obj.state.err == nil {
		obj.state.err = err
	}
	return heap.NoAddr
}

func (obj *Builder) ok(addrs ...heap.Addr) bool {
	if obj.state.err != nil {
		return false
	}
	for _, a := range addrs {
		if !obj.heap.Valid(a) {
			obj.fail(errwrap.Wrapf(interfaces.ErrInvalidAddr, "builder got @%d", a))
			return false
		}
	}
	return true
}

func (obj *Builder) alloc(depth int, node heap.Node, typ heap.Addr) heap.Addr {
	if obj.state.err != nil {
		return heap.NoAddr
	}
	addr, err := obj.heap.Allocate(depth, node, typ, obj.target)
	if err != nil {
		return obj.fail(err)
	}
	return addr
}

// floor returns the smallest legal depth for a node with these children and
// type.
func (obj *Builder) floor(node heap.Node, typ heap.Addr) int {
	depth := obj.heap.DepthOf(typ)
	for _, c := range heap.Children(node) {
		d := obj.heap.DepthOf(c.Addr)
		if c.Binder {
			d--
		}
		if d > depth {
			depth = d
		}
	}
	return depth
}

func (obj *Builder) composite(node heap.Node, typ heap.Addr) heap.Addr {
	addrs := []heap.Addr{typ}
	for _, c := range heap.Children(node) {
		addrs = append(addrs, c.Addr)
	}
	if !obj.ok(addrs...) {
		return heap.NoAddr
	}
	return obj.alloc(obj.floor(node, typ), node, typ)
}

// Const returns the global type constant with this name, eg Int.
func (obj *Builder) Const(name string) heap.Addr {
	if name == heap.TypeName {
		return heap.TypeAddr
	}
	if !obj.ok() {
		return heap.NoAddr
	}
	// type constants always target the weak form, there is nothing to do
	addr, err := obj.heap.Allocate(0, heap.Prim{Ctor: true, Name: name}, heap.TypeAddr, interfaces.FormWeak)
	if err != nil {
		return obj.fail(err)
	}
	return addr
}

func (obj *Builder) datum(v interface{}, typ string) heap.Addr {
	return obj.alloc(0, heap.Datum{Value: v}, obj.Const(typ))
}

// Int returns an integer datum.
func (obj *Builder) Int(v int64) heap.Addr { return obj.datum(v, "Int") }

// Str returns a string datum.
func (obj *Builder) Str(v string) heap.Addr { return obj.datum(v, "Str") }

// Bool returns a boolean datum.
func (obj *Builder) Bool(v bool) heap.Addr { return obj.datum(v, "Bool") }

// Nil returns the nil datum, which is also the failure sentinel of partial
// functions.
func (obj *Builder) Nil() heap.Addr { return obj.datum(nil, "Nil") }

// Datum returns a datum of any supported value, typed by its kind.
func (obj *Builder) Datum(v interface{}) heap.Addr {
	switch v.(type) {
	case nil:
		return obj.Nil()
	case bool:
		return obj.datum(v, "Bool")
	case int64:
		return obj.datum(v, "Int")
	case string:
		return obj.datum(v, "Str")
	}
	return obj.fail(errwrap.Wrapf(interfaces.ErrInvalidDatum, "datum of type %T", v))
}

// SingleStr returns the singleton type of a string.
func (obj *Builder) SingleStr(v string) heap.Addr {
	return obj.alloc(0, heap.SingleStr{Value: v}, heap.TypeAddr)
}

// TyPair returns the type of pairs.
func (obj *Builder) TyPair(hd, tl heap.Addr) heap.Addr {
	return obj.composite(heap.TyPair{Hd: hd, Tl: tl}, heap.TypeAddr)
}

// Pair returns a pair, typed by the pair of the types of its parts.
func (obj *Builder) Pair(hd, tl heap.Addr) heap.Addr {
	if !obj.ok(hd, tl) {
		return heap.NoAddr
	}
	typ := obj.TyPair(obj.heap.TypeOf(hd), obj.heap.TypeOf(tl))
	return obj.composite(heap.Pair{Hd: hd, Tl: tl}, typ)
}

// List returns nested pairs ending in nil.
func (obj *Builder) List(items ...heap.Addr) heap.Addr {
	out := obj.Nil()
	for i := len(items) - 1; i >= 0; i-- {
		out = obj.Pair(items[i], out)
	}
	return out
}

// TyApply returns a type level application.
func (obj *Builder) TyApply(fn, arg heap.Addr) heap.Addr {
	return obj.composite(heap.TyApply{Func: fn, Arg: arg}, heap.TypeAddr)
}

// Apply returns a term level application. Its type is the type level
// application of the type of the function to the type of the argument.
func (obj *Builder) Apply(fn, arg heap.Addr) heap.Addr {
	if !obj.ok(fn, arg) {
		return heap.NoAddr
	}
	typ := obj.TyApply(obj.heap.TypeOf(fn), obj.heap.TypeOf(arg))
	return obj.composite(heap.Apply{Func: fn, Arg: arg}, typ)
}

// Lambda returns a function. The pattern and body are built by fn in a new
// scope one level deeper. The lambda is typed by a function type with the
// types of the pattern and the body.
func (obj *Builder) Lambda(no, yes bool, fn func(inner *Builder) (pat, body heap.Addr)) heap.Addr {
	if !obj.ok() {
		return heap.NoAddr
	}
	inner := obj.inner()
	pat, body := fn(inner)
	if !obj.ok(pat, body) {
		return heap.NoAddr
	}
	typ := obj.alloc(obj.depth, heap.TyFun{No: no, Yes: yes, Dom: obj.heap.TypeOf(pat), Cod: obj.heap.TypeOf(body)}, heap.TypeAddr)
	return obj.alloc(obj.depth, heap.Lambda{No: no, Yes: yes, Pat: pat, Body: body}, typ)
}

// TyFun returns a function type. The domain and codomain are built by fn in a
// new scope one level deeper, where Var refers to the argument.
func (obj *Builder) TyFun(no, yes bool, fn func(inner *Builder) (dom, cod heap.Addr)) heap.Addr {
	if !obj.ok() {
		return heap.NoAddr
	}
	inner := obj.inner()
	dom, cod := fn(inner)
	if !obj.ok(dom, cod) {
		return heap.NoAddr
	}
	return obj.alloc(obj.depth, heap.TyFun{No: no, Yes: yes, Dom: dom, Cod: cod}, heap.TypeAddr)
}

// Arrow returns a non dependent function type between two types that don't
// mention the new scope.
func (obj *Builder) Arrow(dom, cod heap.Addr) heap.Addr {
	return obj.TyFun(false, false, func(*Builder) (heap.Addr, heap.Addr) { return dom, cod })
}

// Root returns the path of the whole argument.
func (obj *Builder) Root() heap.PathKey { return heap.RootPath }

// Hd extends a path with a head projection.
func (obj *Builder) Hd(path heap.PathKey) heap.PathKey { return obj.heap.Paths().Hd(path) }

// Tl extends a path with a tail projection.
func (obj *Builder) Tl(path heap.PathKey) heap.PathKey { return obj.heap.Paths().Tl(path) }

// TyVar returns the type of the whole argument bound in this scope.
func (obj *Builder) TyVar() heap.Addr {
	return obj.tyvar
}

// VarType returns the type of a projection of the argument bound in this
// scope, by projecting the type variable with the Hd and Tl type operators.
func (obj *Builder) VarType(path heap.PathKey) heap.Addr {
	if !obj.ok() {
		return heap.NoAddr
	}
	typ := obj.tyvar
	for _, step := range obj.heap.Paths().Steps(path) {
		name := interfaces.TypeHd
		if step == heap.StepTl {
			name = interfaces.TypeTl
		}
		typ = obj.TyOp(name, typ)
	}
	return typ
}

// Var returns the variable of this scope at the given path.
func (obj *Builder) Var(path heap.PathKey) heap.Addr {
	typ := obj.VarType(path)
	if !obj.ok(typ) {
		return heap.NoAddr
	}
	return obj.alloc(obj.depth, heap.Var{Path: path}, typ)
}

// As returns an as-pattern binding the variable and matching the pattern.
func (obj *Builder) As(v, pat heap.Addr) heap.Addr {
	if !obj.ok(v, pat) {
		return heap.NoAddr
	}
	return obj.composite(heap.As{Var: v, Pat: pat}, obj.heap.TypeOf(v))
}

// Annot returns a term annotated with a type.
func (obj *Builder) Annot(term, typ heap.Addr) heap.Addr {
	return obj.composite(heap.TyAnnot{Term: term}, typ)
}

// Ctor returns a type constructor applied to its arguments. It is never run.
func (obj *Builder) Ctor(name string, args ...heap.Addr) heap.Addr {
	if len(args) == 0 {
		return obj.Const(name)
	}
	return obj.composite(heap.Prim{Ctor: true, Name: name, Args: args}, heap.TypeAddr)
}

// TyOp returns a type operator applied to its arguments.
func (obj *Builder) TyOp(name string, args ...heap.Addr) heap.Addr {
	return obj.Op(name, heap.TypeAddr, args...)
}

// Op returns a primitive operation with an explicit result type.
func (obj *Builder) Op(name string, typ heap.Addr, args ...heap.Addr) heap.Addr {
	return obj.composite(heap.Prim{Name: name, Args: args}, typ)
}

// Fix returns the fixed point of a function. It is typed by the codomain of
// the type of the function.
func (obj *Builder) Fix(fn heap.Addr) heap.Addr {
	if !obj.ok(fn) {
		return heap.NoAddr
	}
	typ := obj.TyOp(interfaces.TypeCod, obj.heap.TypeOf(fn))
	return obj.Op(interfaces.PrimFix, typ, fn)
}

// Self returns the self referential type built from a function from the type
// to itself.
func (obj *Builder) Self(fn heap.Addr) heap.Addr {
	return obj.Ctor(interfaces.TypeSelf, fn)
}
