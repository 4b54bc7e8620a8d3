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

package heap

import (
	"fmt"

	"github.com/purpleidea/tygraph/lang/interfaces"
)

// Child is an edge from a node to one of its children. Binder is set for the
// children that live in the scope opened by the node (pattern and body of a
// lambda, domain and codomain of a function type).
type Child struct {
	Addr   Addr
	Binder bool
}

// Children returns the children of a node in a fixed order.
func Children(node Node) []Child {
	switch x := node.(type) {
	case Datum, Var, TyVar, SingleStr:
		return nil
	case Pair:
		return []Child{{Addr: x.Hd}, {Addr: x.Tl}}
	case Apply:
		return []Child{{Addr: x.Func}, {Addr: x.Arg}}
	case Lambda:
		return []Child{{Addr: x.Pat, Binder: true}, {Addr: x.Body, Binder: true}}
	case As:
		return []Child{{Addr: x.Var}, {Addr: x.Pat}}
	case TyAnnot:
		return []Child{{Addr: x.Term}}
	case TyPair:
		return []Child{{Addr: x.Hd}, {Addr: x.Tl}}
	case TyApply:
		return []Child{{Addr: x.Func}, {Addr: x.Arg}}
	case TyFun:
		return []Child{{Addr: x.Dom, Binder: true}, {Addr: x.Cod, Binder: true}}
	case Prim:
		out := make([]Child, 0, len(x.Args))
		for _, a := range x.Args {
			out = append(out, Child{Addr: a})
		}
		return out
	}
	panic(fmt.Sprintf("unhandled node: %T", node))
}

// Arity returns the number of children of a node.
func Arity(node Node) int {
	return len(Children(node))
}

// ChildAt returns the nth child of a node.
func ChildAt(node Node, n int) (Child, error) {
	children := Children(node)
	if n < 0 || n >= len(children) {
		return Child{}, fmt.Errorf("child %d out of range for %s", n, node.Tag())
	}
	return children[n], nil
}

// Transform rebuilds a node of the same shape with every child rewritten by fn.
// The index and binder flag of each child are passed along.
func Transform(node Node, fn func(index int, child Child) (Addr, error)) (Node, error) {
	out, ok, err := TransformTry(node, func(index int, child Child) (Addr, bool, error) {
		a, err := fn(index, child)
		return a, true, err
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		// programming error
		return nil, fmt.Errorf("transform was interrupted")
	}
	return out, nil
}

// TransformTry is like Transform, except that fn may decline to rewrite a child
// by returning false. In that case the whole transform is abandoned and false
// is returned.
func TransformTry(node Node, fn func(index int, child Child) (Addr, bool, error)) (Node, bool, error) {
	children := Children(node)
	addrs := make([]Addr, len(children))
	for i, c := range children {
		a, ok, err := fn(i, c)
		if err != nil || !ok {
			return nil, ok, err
		}
		addrs[i] = a
	}
	return WithChildren(node, addrs)
}

// WithChildren returns a copy of node with its children replaced in order.
func WithChildren(node Node, addrs []Addr) (Node, bool, error) {
	if l := Arity(node); l != len(addrs) {
		return nil, false, fmt.Errorf("%s expects %d children, got %d", node.Tag(), l, len(addrs))
	}
	switch x := node.(type) {
	case Datum, Var, TyVar, SingleStr:
		return x, true, nil
	case Pair:
		return Pair{Hd: addrs[0], Tl: addrs[1]}, true, nil
	case Apply:
		return Apply{Func: addrs[0], Arg: addrs[1]}, true, nil
	case Lambda:
		return Lambda{No: x.No, Yes: x.Yes, Pat: addrs[0], Body: addrs[1]}, true, nil
	case As:
		return As{Var: addrs[0], Pat: addrs[1]}, true, nil
	case TyAnnot:
		return TyAnnot{Term: addrs[0]}, true, nil
	case TyPair:
		return TyPair{Hd: addrs[0], Tl: addrs[1]}, true, nil
	case TyApply:
		return TyApply{Func: addrs[0], Arg: addrs[1]}, true, nil
	case TyFun:
		return TyFun{No: x.No, Yes: x.Yes, Dom: addrs[0], Cod: addrs[1]}, true, nil
	case Prim:
		args := make([]Addr, len(addrs))
		copy(args, addrs)
		return Prim{Ctor: x.Ctor, Name: x.Name, Args: args}, true, nil
	}
	return nil, false, fmt.Errorf("unhandled node: %T", node)
}

// Visitor has one method per node variant. Use it with Visit when an exhaustive
// dispatch on the node shape is wanted.
type Visitor[R any] interface {
	Datum(Datum) R
	Pair(Pair) R
	Apply(Apply) R
	Lambda(Lambda) R
	Var(Var) R
	As(As) R
	TyAnnot(TyAnnot) R
	SingleStr(SingleStr) R
	TyPair(TyPair) R
	TyApply(TyApply) R
	TyFun(TyFun) R
	TyVar(TyVar) R
	Prim(Prim) R
}

// Visit dispatches the node to the matching visitor method.
func Visit[R any](node Node, v Visitor[R]) R {
	switch x := node.(type) {
	case Datum:
		return v.Datum(x)
	case Pair:
		return v.Pair(x)
	case Apply:
		return v.Apply(x)
	case Lambda:
		return v.Lambda(x)
	case Var:
		return v.Var(x)
	case As:
		return v.As(x)
	case TyAnnot:
		return v.TyAnnot(x)
	case SingleStr:
		return v.SingleStr(x)
	case TyPair:
		return v.TyPair(x)
	case TyApply:
		return v.TyApply(x)
	case TyFun:
		return v.TyFun(x)
	case TyVar:
		return v.TyVar(x)
	case Prim:
		return v.Prim(x)
	}
	panic(fmt.Sprintf("unhandled node: %T", node))
}

// IsIrreducible returns true for the shapes that reduction never changes.
func IsIrreducible(node Node) bool {
	switch x := node.(type) {
	case Datum, Var, TyVar, SingleStr:
		return true
	case Prim:
		return len(x.Args) == 0
	}
	return false
}

// IsTypeConst returns true for a zero arity constructor typed Type. These are
// the global type constants and they always live at depth zero.
func IsTypeConst(node Node, typ Addr) bool {
	p, ok := node.(Prim)
	return ok && len(p.Args) == 0 && typ == TypeAddr
}

// validateNode checks everything about a node that doesn't need the heap.
func validateNode(node Node) error {
	if node == nil {
		return interfaces.ErrInvalidNode
	}
	switch x := node.(type) {
	case Datum:
		if !ValidDatum(x.Value) {
			return interfaces.ErrInvalidDatum
		}
	case Prim:
		if x.Name == "" {
			return interfaces.ErrInvalidNode
		}
	}
	return nil
}
