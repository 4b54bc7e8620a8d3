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

package predicates

import (
	"github.com/purpleidea/tygraph/lang/heap"
	"github.com/purpleidea/tygraph/lang/interfaces"

	"github.com/hashicorp/go-set/v3"
)

// IsVarUsed returns true if a variable bound at varDepth is reachable from
// root. Term variables are looked for if checkTermVar is set, and type
// variables if checkTypeVar is set, in which case the types of the visited
// cells are searched too. Cells shallower than varDepth can't mention the
// variable and are skipped.
func IsVarUsed(h *heap.Heap, varDepth int, root heap.Addr, checkTermVar, checkTypeVar bool) bool {
	visited := set.New[heap.Addr](0)
	var walk func(addr heap.Addr) bool
	walk = func(addr heap.Addr) bool {
		addr = h.DirectAddrOf(addr)
		if !visited.Insert(addr) {
			return false // already seen
		}
		depth := h.DepthOf(addr)
		if depth < varDepth {
			return false
		}
		node := h.NodeOf(addr)
		switch node.(type) {
		case heap.Var:
			if checkTermVar && depth == varDepth {
				return true
			}
		case heap.TyVar:
			if checkTypeVar && depth == varDepth {
				return true
			}
		}
		for _, c := range heap.Children(node) {
			if walk(c.Addr) {
				return true
			}
		}
		if checkTypeVar && addr != heap.TypeAddr {
			return walk(h.TypeOf(addr))
		}
		return false
	}
	return walk(root)
}

// IsDependentFunTy returns true if the function type at addr has a codomain
// that mentions its own argument. Fixed points, self types, sub and super
// types, unions and intersections are looked through. Anything that is not
// evaluated enough to tell is unknown.
func IsDependentFunTy(h *heap.Heap, addr heap.Addr) interfaces.Trool {
	return isDependent(h, addr, set.New[heap.Addr](0))
}

func isDependent(h *heap.Heap, addr heap.Addr, visited *set.Set[heap.Addr]) interfaces.Trool {
	addr = h.DirectAddrOf(addr)
	if !visited.Insert(addr) {
		return interfaces.TroolFalse // a cycle adds nothing new
	}
	switch x := h.NodeOf(addr).(type) {
	case heap.TyFun:
		return interfaces.TroolOf(IsVarUsed(h, h.DepthOf(addr)+1, x.Cod, true, false))

	case heap.Prim:
		switch x.Name {
		case interfaces.PrimFix, interfaces.TypeSelf:
			if len(x.Args) != 1 {
				return interfaces.TroolUnknown
			}
			fn, ok := h.NodeOf(h.DirectAddrOf(x.Args[0])).(heap.Lambda)
			if !ok {
				return interfaces.TroolUnknown
			}
			return isDependent(h, fn.Body, visited)

		case interfaces.TypeSub, interfaces.TypeSuper, interfaces.TypeUnion, interfaces.TypeIntersect:
			result := interfaces.TroolFalse
			for _, a := range x.Args {
				result = result.Or(isDependent(h, a, visited))
			}
			return result
		}
		if Unevaluated(x) {
			return interfaces.TroolUnknown
		}
		return interfaces.TroolFalse

	case heap.Apply, heap.TyApply:
		return interfaces.TroolUnknown
	}
	return interfaces.TroolFalse
}
