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
	"fmt"

	"github.com/purpleidea/tygraph/lang/heap"
	"github.com/purpleidea/tygraph/lang/interfaces"
	"github.com/purpleidea/tygraph/util/errwrap"
)

// ApplyResult is the outcome of TryApply.
type ApplyResult int

const (
	// ApplyOK means the application produced a result.
	ApplyOK ApplyResult = iota

	// ApplyNoMatch means the argument can never match the pattern of a
	// total function. This is a type error that the caller reports.
	ApplyNoMatch

	// ApplyIndeterminate means the function or the argument isn't
	// evaluated enough yet.
	ApplyIndeterminate
)

// String returns a human readable name.
func (obj ApplyResult) String() string {
	switch obj {
	case ApplyOK:
		return "ok"
	case ApplyNoMatch:
		return "nomatch"
	case ApplyIndeterminate:
		return "indeterminate"
	}
	return fmt.Sprintf("apply(%d)", int(obj))
}

// TryApply applies fn to arg for an application at depth. If fn isn't a
// lambda yet, the result is indeterminate. A partial lambda returns the nil
// datum when its pattern fails, and a lambda with the yes flag wraps a
// successful result in a (result, nil) pair.
func TryApply(h *heap.Heap, depth int, fn, arg heap.Addr, newTarget interfaces.Form) (heap.Addr, ApplyResult, error) {
	fn = h.DirectAddrOf(fn)
	lambda, ok := h.NodeOf(fn).(heap.Lambda)
	if !ok {
		return heap.NoAddr, ApplyIndeterminate, nil
	}
	varDepth := h.DepthOf(fn) + 1

	if d := h.DepthOf(arg); d > depth {
		return heap.NoAddr, ApplyIndeterminate, errwrap.Wrapf(interfaces.ErrDepthViolation, "argument @%d at depth %d is applied at depth %d", arg, d, depth)
	}
	value, err := h.CopyWithoutIndirections(arg)
	if err != nil {
		return heap.NoAddr, ApplyIndeterminate, err
	}
	env := Env{}
	m, err := match(h, varDepth, lambda.Pat, value, env)
	if err != nil {
		return heap.NoAddr, ApplyIndeterminate, err
	}

	switch m {
	case MatchIndeterminate:
		return heap.NoAddr, ApplyIndeterminate, nil

	case MatchFailed:
		if !lambda.No {
			return heap.NoAddr, ApplyNoMatch, nil
		}
		out, err := nilDatum(h, newTarget)
		if err != nil {
			return heap.NoAddr, ApplyIndeterminate, err
		}
		return out, ApplyOK, nil
	}

	if _, exists := env[heap.RootPath]; !exists {
		env[heap.RootPath] = value
	}
	out, err := SubstTmTy(h, depth, varDepth, env, h.TypeOf(value), lambda.Body, newTarget)
	if err != nil {
		return heap.NoAddr, ApplyIndeterminate, err
	}
	if !lambda.Yes {
		return out, ApplyOK, nil
	}

	// wrap as (out, nil)
	null, err := nilDatum(h, newTarget)
	if err != nil {
		return heap.NoAddr, ApplyIndeterminate, err
	}
	typ, err := h.Allocate(h.DepthOf(h.TypeOf(out)), heap.TyPair{Hd: h.TypeOf(out), Tl: h.TypeOf(null)}, heap.TypeAddr, interfaces.FormWeak)
	if err != nil {
		return heap.NoAddr, ApplyIndeterminate, err
	}
	wrapped, err := h.Allocate(h.DepthOf(out), heap.Pair{Hd: out, Tl: null}, typ, newTarget)
	if err != nil {
		return heap.NoAddr, ApplyIndeterminate, err
	}
	return wrapped, ApplyOK, nil
}

func nilDatum(h *heap.Heap, target interfaces.Form) (heap.Addr, error) {
	typ, err := h.Allocate(0, heap.Prim{Ctor: true, Name: "Nil"}, heap.TypeAddr, interfaces.FormWeak)
	if err != nil {
		return heap.NoAddr, err
	}
	return h.Allocate(0, heap.Datum{Value: nil}, typ, target)
}

// StrongLambda returns a lambda which targets the strong form, so that its body
// is normalized too. The lambda and every cell under it that is at least as
// deep as the lambda are copied, and shallower cells are shared. A lambda that
// already targets the strong form is returned as is.
func StrongLambda(h *heap.Heap, addr heap.Addr) (heap.Addr, error) {
	if h.TargetFormOf(addr) == interfaces.FormStrong {
		return addr, nil
	}
	r := &heap.Rewriter{
		Heap:  h,
		Floor: h.DepthOf(addr),
		Target: func(interfaces.Form) interfaces.Form {
			return interfaces.FormStrong
		},
	}
	out, ok, err := r.Rewrite(addr)
	if err != nil {
		return heap.NoAddr, errwrap.Wrapf(err, "strengthen @%d", addr)
	}
	if !ok {
		return heap.NoAddr, errwrap.Wrapf(interfaces.ErrCopyMustTerminate, "strengthen @%d", addr)
	}
	return out, nil
}
