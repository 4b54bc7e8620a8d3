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

package subst

import (
	"github.com/purpleidea/tygraph/lang/heap"
	"github.com/purpleidea/tygraph/lang/interfaces"
	"github.com/purpleidea/tygraph/util/errwrap"
)

// SubstTmTy instantiates body, whose binder is at varDepth, for an application
// at appDepth. Term variables of the binder are replaced by their value from
// env, and its type variable by tyArg. Cells shallower than varDepth are kept
// as they are, and every rebuilt cell is moved by appDepth - varDepth and
// targets at least newTarget. Types are instantiated too.
//
// A variable whose path was not bound directly is rebuilt by projecting the
// nearest bound prefix of its path with the hd and tl primitives.
func SubstTmTy(h *heap.Heap, appDepth, varDepth int, env Env, tyArg, body heap.Addr, newTarget interfaces.Form) (heap.Addr, error) {
	shift := appDepth - varDepth
	r := &heap.Rewriter{
		Heap:         h,
		Floor:        varDepth,
		RewriteTypes: true,
		Depth: func(depth int) int {
			return depth + shift
		},
		Target: func(target interfaces.Form) interfaces.Form {
			return interfaces.MaxForm(target, newTarget)
		},
		Hook: func(addr heap.Addr, cell *heap.Cell) (heap.Addr, bool, error) {
			if cell.Depth != varDepth {
				return heap.NoAddr, false, nil
			}
			switch x := cell.Node.(type) {
			case heap.Var:
				a, err := resolve(h, env, x.Path, newTarget)
				return a, true, err
			case heap.TyVar:
				return tyArg, true, nil
			}
			return heap.NoAddr, false, nil
		},
	}
	out, ok, err := r.Rewrite(body)
	if err != nil {
		return heap.NoAddr, errwrap.Wrapf(err, "substitute in @%d", body)
	}
	if !ok {
		return heap.NoAddr, errwrap.Wrapf(interfaces.ErrCopyMustTerminate, "substitute in @%d", body)
	}
	return out, nil
}

// resolve returns the value of a path from the environment.
func resolve(h *heap.Heap, env Env, path heap.PathKey, target interfaces.Form) (heap.Addr, error) {
	if a, exists := env[path]; exists {
		return a, nil
	}
	parent, step, ok := h.Paths().Parent(path)
	if !ok {
		return heap.NoAddr, errwrap.Wrapf(interfaces.ErrInvalidPattern, "the argument is not bound")
	}
	v, err := resolve(h, env, parent, target)
	if err != nil {
		return heap.NoAddr, err
	}
	return Project(h, v, step, target)
}

// Project returns the hd or tl primitive applied to a value. It is typed by the
// matching type operator applied to the type of the value.
func Project(h *heap.Heap, value heap.Addr, step heap.Step, target interfaces.Form) (heap.Addr, error) {
	name, tyName := interfaces.PrimHd, interfaces.TypeHd
	if step == heap.StepTl {
		name, tyName = interfaces.PrimTl, interfaces.TypeTl
	}
	t := h.TypeOf(value)
	typ, err := h.Allocate(h.DepthOf(t), heap.Prim{Name: tyName, Args: []heap.Addr{t}}, heap.TypeAddr, interfaces.FormWeak)
	if err != nil {
		return heap.NoAddr, err
	}
	depth := h.DepthOf(value)
	if d := h.DepthOf(typ); d > depth {
		depth = d
	}
	return h.Allocate(depth, heap.Prim{Name: name, Args: []heap.Addr{value}}, typ, target)
}
