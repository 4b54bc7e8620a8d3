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

// Package predicates contains the structural questions asked about heap
// graphs: equality, variable usage and whether a function type is dependent.
// They never reduce anything, so an answer that needs more evaluation is
// reported as unknown.
package predicates

import (
	"github.com/purpleidea/tygraph/lang/heap"
	"github.com/purpleidea/tygraph/lang/interfaces"
	"github.com/purpleidea/tygraph/util/errwrap"

	"github.com/hashicorp/go-set/v3"
)

type addrPair struct {
	a heap.Addr
	b heap.Addr
}

type equal struct {
	heap    *heap.Heap
	fuel    int
	unknown bool // unknownEqualsUnknown
	active  *set.Set[addrPair]
}

// TermEqual compares two terms structurally, following indirections. Each
// compared pair of cells costs one unit of fuel, and the result is unknown
// when the fuel runs out. Terms that are not evaluated yet (applications and
// primitive operations with arguments) are unknown too, unless
// unknownEqualsUnknown is set, in which case two of them are compared by
// structure. A pair that is already being compared further up is assumed
// equal, which makes the comparison of cyclic graphs terminate.
func TermEqual(h *heap.Heap, fuel int, a, b heap.Addr, unknownEqualsUnknown bool) (interfaces.Trool, error) {
	obj := &equal{
		heap:    h,
		fuel:    fuel,
		unknown: unknownEqualsUnknown,
		active:  set.New[addrPair](0),
	}
	return obj.eq(a, b)
}

func (obj *equal) eq(a, b heap.Addr) (interfaces.Trool, error) {
	a, b = obj.heap.DirectAddrOf(a), obj.heap.DirectAddrOf(b)
	for _, x := range []heap.Addr{a, b} {
		if heap.IsTypeConst(obj.heap.NodeOf(x), obj.heap.TypeOf(x)) && obj.heap.DepthOf(x) != 0 {
			return interfaces.TroolUnknown, errwrap.Wrapf(interfaces.ErrDepthViolation, "type constant @%d at depth %d", x, obj.heap.DepthOf(x))
		}
	}
	if a == b {
		return interfaces.TroolTrue, nil
	}
	p := addrPair{a: a, b: b}
	if obj.active.Contains(p) {
		return interfaces.TroolTrue, nil // co-induction
	}
	if obj.fuel <= 0 {
		return interfaces.TroolUnknown, nil
	}
	obj.fuel--

	if obj.heap.DepthOf(a) != obj.heap.DepthOf(b) {
		return interfaces.TroolFalse, nil
	}
	na, nb := obj.heap.NodeOf(a), obj.heap.NodeOf(b)
	ua, ub := Unevaluated(na), Unevaluated(nb)
	if ua || ub {
		if !obj.unknown || !ua || !ub {
			return interfaces.TroolUnknown, nil
		}
	}
	if !sameAttributes(na, nb) {
		return interfaces.TroolFalse, nil
	}

	obj.active.Insert(p)
	defer obj.active.Remove(p)

	ca, cb := heap.Children(na), heap.Children(nb)
	result := interfaces.TroolTrue
	for i := range ca {
		r, err := obj.eq(ca[i].Addr, cb[i].Addr)
		if err != nil {
			return interfaces.TroolUnknown, err
		}
		if r == interfaces.TroolFalse {
			return r, nil
		}
		result = result.And(r)
	}
	return result, nil
}

// Unevaluated returns true for the shapes that stand for a computation that
// was not run yet.
func Unevaluated(node heap.Node) bool {
	switch x := node.(type) {
	case heap.Apply, heap.TyApply:
		return true
	case heap.Prim:
		return !x.Ctor && len(x.Args) > 0
	}
	return false
}

// sameAttributes compares two nodes without looking at their children.
func sameAttributes(a, b heap.Node) bool {
	if a.Tag() != b.Tag() || heap.Arity(a) != heap.Arity(b) {
		return false
	}
	zeros := make([]heap.Addr, heap.Arity(a))
	sa, _, err1 := heap.WithChildren(a, zeros)
	sb, _, err2 := heap.WithChildren(b, zeros)
	if err1 != nil || err2 != nil {
		return false
	}
	return heap.NodeEqual(sa, sb)
}
