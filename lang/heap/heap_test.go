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

//go:build !root

package heap

import (
	"fmt"
	"testing"

	"github.com/purpleidea/tygraph/lang/interfaces"
	"github.com/purpleidea/tygraph/util/errwrap"
)

func newHeap(t *testing.T) *Heap {
	h := &Heap{
		Debug: testing.Verbose(), // set via the -test.v flag to `go test`
		Logf: func(format string, v ...interface{}) {
			t.Logf("heap: "+format, v...)
		},
	}
	if err := h.Init(); err != nil {
		t.Fatalf("could not init heap: %+v", err)
	}
	return h
}

func mustAlloc(t *testing.T, h *Heap, depth int, node Node, typ Addr) Addr {
	t.Helper()
	addr, err := h.Allocate(depth, node, typ, interfaces.FormWeak)
	if err != nil {
		t.Fatalf("allocate %s failed: %+v", node, err)
	}
	return addr
}

func TestHeapTypeIsItsOwnType(t *testing.T) {
	h := newHeap(t)
	if l := h.Len(); l != 1 {
		t.Errorf("expected one cell, got: %d", l)
	}
	if typ := h.TypeOf(TypeAddr); typ != TypeAddr {
		t.Errorf("expected Type to be its own type, got: @%d", typ)
	}
	a, err := h.Allocate(0, Prim{Ctor: true, Name: TypeName}, TypeAddr, interfaces.FormWeak)
	if err != nil {
		t.Errorf("allocate failed: %+v", err)
	}
	if a != TypeAddr {
		t.Errorf("expected Type to be consed to @%d, got: @%d", TypeAddr, a)
	}
}

func TestHashConsing(t *testing.T) {
	h := newHeap(t)
	int1 := mustAlloc(t, h, 0, Prim{Ctor: true, Name: "Int"}, TypeAddr)
	int2 := mustAlloc(t, h, 0, Prim{Ctor: true, Name: "Int"}, TypeAddr)
	if int1 != int2 {
		t.Errorf("expected identical primitives to share an address: @%d != @%d", int1, int2)
	}
	str := mustAlloc(t, h, 0, Prim{Ctor: true, Name: "Str"}, TypeAddr)
	if str == int1 {
		t.Errorf("expected distinct primitives to have distinct addresses")
	}

	five := mustAlloc(t, h, 0, Datum{Value: int64(5)}, int1)
	if a := mustAlloc(t, h, 0, Datum{Value: int64(5)}, int1); a != five {
		t.Errorf("expected datum to be consed")
	}
	if a := mustAlloc(t, h, 0, Datum{Value: "5"}, int1); a == five {
		t.Errorf("expected string datum to differ from int datum")
	}
	if a := mustAlloc(t, h, 1, Datum{Value: int64(5)}, int1); a == five {
		t.Errorf("expected depth to be part of the key")
	}
	if a := mustAlloc(t, h, 0, Datum{Value: int64(5)}, str); a == five {
		t.Errorf("expected type to be part of the key")
	}
	strong, err := h.Allocate(0, Datum{Value: int64(5)}, int1, interfaces.FormStrong)
	if err != nil {
		t.Fatalf("allocate failed: %+v", err)
	}
	if strong == five {
		t.Errorf("expected target to be part of the key")
	}

	args := []Addr{five, five}
	add1 := mustAlloc(t, h, 0, Prim{Name: "add", Args: args}, int1)
	args[0] = str // must not alias the stored cell
	add2 := mustAlloc(t, h, 0, Prim{Name: "add", Args: []Addr{five, five}}, int1)
	if add1 != add2 {
		t.Errorf("expected primitive with args to be consed")
	}
	if f := h.FormOf(add1); f != interfaces.FormNone {
		t.Errorf("expected new cell to have no form, got: %s", f)
	}

	// the form isn't part of the key
	if err := h.SetForm(five, interfaces.FormWeak); err != nil {
		t.Errorf("set form failed: %+v", err)
	}
	if a := mustAlloc(t, h, 0, Datum{Value: int64(5)}, int1); a != five {
		t.Errorf("expected datum to be consed after a form change")
	}
}

func TestAllocateErrors(t *testing.T) {
	type test struct { // an individual test
		name  string
		alloc func(h *Heap, intT, tyvar, v Addr) (Addr, error)
		err   error
	}
	testCases := []test{
		{
			"invalid datum",
			func(h *Heap, intT, tyvar, v Addr) (Addr, error) {
				return h.Allocate(0, Datum{Value: 42}, intT, interfaces.FormWeak)
			},
			interfaces.ErrInvalidDatum,
		},
		{
			"nil node",
			func(h *Heap, intT, tyvar, v Addr) (Addr, error) {
				return h.Allocate(0, nil, intT, interfaces.FormWeak)
			},
			interfaces.ErrInvalidNode,
		},
		{
			"no target",
			func(h *Heap, intT, tyvar, v Addr) (Addr, error) {
				return h.Allocate(0, Datum{}, intT, interfaces.FormNone)
			},
			interfaces.ErrInvalidForm,
		},
		{
			"unknown type",
			func(h *Heap, intT, tyvar, v Addr) (Addr, error) {
				return h.Allocate(0, Datum{}, 1000, interfaces.FormWeak)
			},
			interfaces.ErrInvalidAddr,
		},
		{
			"unknown child",
			func(h *Heap, intT, tyvar, v Addr) (Addr, error) {
				return h.Allocate(0, Pair{Hd: 1000, Tl: v}, intT, interfaces.FormWeak)
			},
			interfaces.ErrInvalidAddr,
		},
		{
			"type deeper than node",
			func(h *Heap, intT, tyvar, v Addr) (Addr, error) {
				return h.Allocate(0, Datum{}, tyvar, interfaces.FormWeak)
			},
			interfaces.ErrDepthViolation,
		},
		{
			"child deeper than node",
			func(h *Heap, intT, tyvar, v Addr) (Addr, error) {
				return h.Allocate(0, Pair{Hd: v, Tl: v}, intT, interfaces.FormWeak)
			},
			interfaces.ErrDepthViolation,
		},
		{
			"binder child two deeper",
			func(h *Heap, intT, tyvar, v Addr) (Addr, error) {
				deep, err := h.Allocate(2, Var{Path: RootPath}, tyvar, interfaces.FormWeak)
				if err != nil {
					return NoAddr, err
				}
				return h.Allocate(0, Lambda{Pat: v, Body: deep}, intT, interfaces.FormWeak)
			},
			interfaces.ErrDepthViolation,
		},
		{
			"type constant not at depth zero",
			func(h *Heap, intT, tyvar, v Addr) (Addr, error) {
				return h.Allocate(1, Prim{Ctor: true, Name: "Int"}, TypeAddr, interfaces.FormWeak)
			},
			interfaces.ErrDepthViolation,
		},
		{
			"unknown path",
			func(h *Heap, intT, tyvar, v Addr) (Addr, error) {
				return h.Allocate(1, Var{Path: 99}, tyvar, interfaces.FormWeak)
			},
			interfaces.ErrInvalidNode,
		},
	}

	names := []string{}
	for index, tc := range testCases { // run all the tests
		if tc.name == "" {
			t.Errorf("test #%d: not named", index)
			continue
		}
		if contains(names, tc.name) {
			t.Errorf("test #%d: duplicate sub test name of: %s", index, tc.name)
			continue
		}
		names = append(names, tc.name)
		t.Run(fmt.Sprintf("test #%d (%s)", index, tc.name), func(t *testing.T) {
			h := newHeap(t)
			intT := mustAlloc(t, h, 0, Prim{Ctor: true, Name: "Int"}, TypeAddr)
			tyvar := mustAlloc(t, h, 1, TyVar{}, TypeAddr)
			v := mustAlloc(t, h, 1, Var{Path: RootPath}, tyvar)
			l := h.Len()

			_, err := tc.alloc(h, intT, tyvar, v)
			if err == nil {
				t.Errorf("test #%d: expected error, got nil", index)
				return
			}
			if cause := errwrap.Cause(err); cause != tc.err {
				t.Errorf("test #%d: expected %v, got: %+v", index, tc.err, err)
			}
			if h.Len() > l+1 { // the deep var case allocates once
				t.Errorf("test #%d: failed allocation grew the heap", index)
			}
		})
	}
}

func TestBinderChildren(t *testing.T) {
	h := newHeap(t)
	tyvar := mustAlloc(t, h, 1, TyVar{}, TypeAddr)
	v := mustAlloc(t, h, 1, Var{Path: RootPath}, tyvar)
	fn := mustAlloc(t, h, 0, TyFun{Dom: tyvar, Cod: tyvar}, TypeAddr)
	id := mustAlloc(t, h, 0, Lambda{Pat: v, Body: v}, fn)
	if d := h.DepthOf(id); d != 0 {
		t.Errorf("expected identity at depth 0, got: %d", d)
	}
	if tag := h.NodeTag(id); tag != TagLambda {
		t.Errorf("expected a lambda, got: %s", tag)
	}
	if n := h.NodeArity(id); n != 2 {
		t.Errorf("expected two children, got: %d", n)
	}
	if c, err := h.NodeChild(id, 1); err != nil || c != v {
		t.Errorf("expected body @%d, got: @%d (%v)", v, c, err)
	}
	if _, err := h.NodeChild(id, 2); err == nil {
		t.Errorf("expected out of range child to fail")
	}
	if err := h.Verify(); err != nil {
		t.Errorf("verify failed: %+v", err)
	}
}

func TestLink(t *testing.T) {
	h := newHeap(t)
	intT := mustAlloc(t, h, 0, Prim{Ctor: true, Name: "Int"}, TypeAddr)
	one := mustAlloc(t, h, 0, Datum{Value: int64(1)}, intT)
	two := mustAlloc(t, h, 0, Datum{Value: int64(2)}, intT)
	a := mustAlloc(t, h, 0, Prim{Name: "a", Args: []Addr{one}}, intT)
	b := mustAlloc(t, h, 0, Prim{Name: "b", Args: []Addr{one}}, intT)

	if err := h.Link(a, b); err != nil {
		t.Fatalf("link failed: %+v", err)
	}
	if err := h.Link(b, one); err != nil {
		t.Fatalf("link failed: %+v", err)
	}
	if err := h.Link(a, two); errwrap.Cause(err) != interfaces.ErrAlreadyUpdated {
		t.Errorf("expected already updated, got: %+v", err)
	}
	if err := h.Link(one, a); errwrap.Cause(err) != interfaces.ErrSelfLink {
		t.Errorf("expected self link, got: %+v", err)
	}
	if err := h.Link(two, two); errwrap.Cause(err) != interfaces.ErrSelfLink {
		t.Errorf("expected self link, got: %+v", err)
	}

	if d := h.DirectAddrOf(a); d != one {
		t.Errorf("expected @%d, got: @%d", one, d)
	}
	if d := h.DirectAddrOf(h.DirectAddrOf(a)); d != one {
		t.Errorf("expected direct address to be idempotent")
	}
	chain := h.ChainAddrs(a)
	if len(chain) != 3 || chain[0] != a || chain[1] != b || chain[2] != one {
		t.Errorf("unexpected chain: %v", chain)
	}
	if to, ok := h.UpdatedTo(a); !ok || to != b {
		t.Errorf("expected @%d to link to @%d, got: @%d", a, b, to)
	}
	if h.IsUpdated(one) {
		t.Errorf("expected @%d to be direct", one)
	}
	if err := h.Verify(); err != nil {
		t.Errorf("verify failed: %+v", err)
	}
}

func TestLinkDepthWarning(t *testing.T) {
	warned := false
	h := &Heap{
		Logf: func(format string, v ...interface{}) {
			warned = true
		},
	}
	if err := h.Init(); err != nil {
		t.Fatalf("init failed: %+v", err)
	}
	intT := mustAlloc(t, h, 0, Prim{Ctor: true, Name: "Int"}, TypeAddr)
	shallow := mustAlloc(t, h, 0, Prim{Name: "x", Args: []Addr{intT}}, intT)
	deep := mustAlloc(t, h, 3, Datum{Value: true}, intT)
	if err := h.Link(shallow, deep); err != nil {
		t.Errorf("expected depth mismatch to only warn, got: %+v", err)
	}
	if !warned {
		t.Errorf("expected a warning")
	}
}

func TestSetFormMonotonic(t *testing.T) {
	h := newHeap(t)
	intT := mustAlloc(t, h, 0, Prim{Ctor: true, Name: "Int"}, TypeAddr)
	a := mustAlloc(t, h, 0, Datum{Value: int64(1)}, intT)

	steps := []struct {
		set interfaces.Form
		exp interfaces.Form
	}{
		{interfaces.FormWeak, interfaces.FormWeak},
		{interfaces.FormNone, interfaces.FormWeak},
		{interfaces.FormStrong, interfaces.FormStrong},
		{interfaces.FormWeak, interfaces.FormStrong},
		{interfaces.FormError, interfaces.FormError},
		{interfaces.FormStrong, interfaces.FormError},
		{interfaces.FormNone, interfaces.FormError},
	}
	for i, step := range steps {
		if err := h.SetForm(a, step.set); err != nil {
			t.Errorf("step %d: set form failed: %+v", i, err)
		}
		if f := h.FormOf(a); f != step.exp {
			t.Errorf("step %d: expected %s, got: %s", i, step.exp, f)
		}
	}
	if err := h.SetForm(a, interfaces.Form(42)); errwrap.Cause(err) != interfaces.ErrInvalidForm {
		t.Errorf("expected invalid form, got: %+v", err)
	}
}

func TestInvalidAddrPanics(t *testing.T) {
	h := newHeap(t)
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("expected a panic")
			return
		}
		err, ok := r.(error)
		if !ok || errwrap.Cause(err) != interfaces.ErrInvalidAddr {
			t.Errorf("unexpected panic: %v", r)
		}
	}()
	h.DepthOf(42)
}

func TestHeapIDs(t *testing.T) {
	h1 := newHeap(t)
	h2 := newHeap(t)
	if h1.ID() == h2.ID() {
		t.Errorf("expected distinct heap ids")
	}
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
