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

package builder

import (
	"testing"

	"github.com/purpleidea/tygraph/lang/heap"
	"github.com/purpleidea/tygraph/lang/interfaces"
	"github.com/purpleidea/tygraph/util/errwrap"
)

func newBuilder(t *testing.T) *Builder {
	h := &heap.Heap{
		Debug: testing.Verbose(), // set via the -test.v flag to `go test`
		Logf: func(format string, v ...interface{}) {
			t.Logf("heap: "+format, v...)
		},
	}
	if err := h.Init(); err != nil {
		t.Fatalf("could not init heap: %+v", err)
	}
	return New(h)
}

func TestConstShared(t *testing.T) {
	b := newBuilder(t)
	h := b.Heap()
	i1 := b.Const("Int")
	i2, err := h.Allocate(0, heap.Prim{Ctor: true, Name: "Int"}, heap.TypeAddr, interfaces.FormWeak)
	if err != nil {
		t.Fatalf("allocate failed: %+v", err)
	}
	if i1 != i2 {
		t.Errorf("expected @%d, got: @%d", i1, i2)
	}
	if b.Const(heap.TypeName) != heap.TypeAddr {
		t.Errorf("expected Type at @%d", heap.TypeAddr)
	}
	if err := b.Err(); err != nil {
		t.Errorf("builder failed: %+v", err)
	}
}

func TestDatums(t *testing.T) {
	b := newBuilder(t)
	h := b.Heap()
	five := b.Int(5)
	if typ := h.TypeOf(five); typ != b.Const("Int") {
		t.Errorf("expected Int, got: %s", h.String(typ))
	}
	if d := h.DepthOf(five); d != 0 {
		t.Errorf("expected depth 0, got: %d", d)
	}
	if b.Datum(int64(5)) != five {
		t.Errorf("expected datum to be shared")
	}
	if h.TypeOf(b.Str("x")) != b.Const("Str") || h.TypeOf(b.Bool(true)) != b.Const("Bool") || h.TypeOf(b.Nil()) != b.Const("Nil") {
		t.Errorf("unexpected datum types")
	}
	if s := h.String(b.List(b.Int(1), b.Int(2))); s != "(1, (2, nil))" {
		t.Errorf("unexpected list: %s", s)
	}
	if err := b.Err(); err != nil {
		t.Errorf("builder failed: %+v", err)
	}
}

func TestStickyError(t *testing.T) {
	b := newBuilder(t)
	if a := b.Datum(3.14); a != heap.NoAddr {
		t.Errorf("expected no address")
	}
	if a := b.Int(5); a != heap.NoAddr {
		t.Errorf("expected no address after an error")
	}
	if err := b.Err(); errwrap.Cause(err) != interfaces.ErrInvalidDatum {
		t.Errorf("expected invalid datum, got: %+v", err)
	}
}

func TestIdentity(t *testing.T) {
	b := newBuilder(t)
	h := b.Heap()
	id := b.Lambda(false, false, func(x *Builder) (heap.Addr, heap.Addr) {
		return x.Var(x.Root()), x.Var(x.Root())
	})
	if err := b.Err(); err != nil {
		t.Fatalf("builder failed: %+v", err)
	}
	if d := h.DepthOf(id); d != 0 {
		t.Errorf("expected depth 0, got: %d", d)
	}
	lambda := h.NodeOf(id).(heap.Lambda)
	if lambda.Pat != lambda.Body {
		t.Errorf("expected pattern and body to be shared")
	}
	if d := h.DepthOf(lambda.Pat); d != 1 {
		t.Errorf("expected the variable at depth 1, got: %d", d)
	}
	fn, ok := h.NodeOf(h.TypeOf(id)).(heap.TyFun)
	if !ok {
		t.Fatalf("expected a function type, got: %s", h.NodeOf(h.TypeOf(id)))
	}
	if _, ok := h.NodeOf(fn.Dom).(heap.TyVar); !ok {
		t.Errorf("expected the domain to be the type variable")
	}

	app := b.Apply(id, b.Int(5))
	if d := h.DepthOf(app); d != 0 {
		t.Errorf("expected depth 0, got: %d", d)
	}
	if tag := h.NodeTag(h.TypeOf(app)); tag != heap.TagTyApply {
		t.Errorf("expected a type application, got: %s", tag)
	}
	if err := h.Verify(); err != nil {
		t.Errorf("verify failed: %+v", err)
	}
}

func TestNestedScopes(t *testing.T) {
	b := newBuilder(t)
	h := b.Heap()
	var outer heap.Addr
	// \x -> \y -> (x, y.tl)
	fn := b.Lambda(false, false, func(x *Builder) (heap.Addr, heap.Addr) {
		outer = x.Var(x.Root())
		body := x.Lambda(false, false, func(y *Builder) (heap.Addr, heap.Addr) {
			return y.Var(y.Root()), y.Pair(outer, y.Var(y.Tl(y.Root())))
		})
		return outer, body
	})
	if err := b.Err(); err != nil {
		t.Fatalf("builder failed: %+v", err)
	}
	inner := h.NodeOf(h.NodeOf(fn).(heap.Lambda).Body).(heap.Lambda)
	if d := h.DepthOf(inner.Body); d != 2 {
		t.Errorf("expected the inner body at depth 2, got: %d", d)
	}
	if d := h.DepthOf(outer); d != 1 {
		t.Errorf("expected the outer variable at depth 1, got: %d", d)
	}
	p := h.NodeOf(inner.Body).(heap.Pair)
	if s := h.String(p.Tl); s != "v2.tl" {
		t.Errorf("unexpected variable: %s", s)
	}
	typ := h.NodeOf(h.TypeOf(p.Tl)).(heap.Prim)
	if typ.Name != interfaces.TypeTl {
		t.Errorf("expected the variable to be typed by a projection, got: %s", typ)
	}

	// closed subterms float to the top
	closed := b.Lambda(false, false, func(x *Builder) (heap.Addr, heap.Addr) {
		return x.Var(x.Root()), x.Pair(x.Int(1), x.Int(2))
	})
	body := h.NodeOf(closed).(heap.Lambda).Body
	if d := h.DepthOf(body); d != 0 {
		t.Errorf("expected closed body at depth 0, got: %d", d)
	}
	if err := h.Verify(); err != nil {
		t.Errorf("verify failed: %+v", err)
	}
}

func TestStrong(t *testing.T) {
	b := newBuilder(t)
	h := b.Heap()
	weak := b.Pair(b.Int(1), b.Int(2))
	strong := b.Strong().Pair(b.Int(1), b.Int(2))
	if weak == strong {
		t.Errorf("expected the target to be part of the identity")
	}
	if f := h.TargetFormOf(strong); f != interfaces.FormStrong {
		t.Errorf("expected strong target, got: %s", f)
	}
	if f := h.TargetFormOf(b.Strong().Weak().Int(3)); f != interfaces.FormWeak {
		t.Errorf("expected weak target, got: %s", f)
	}
}

func TestFixAndSelf(t *testing.T) {
	b := newBuilder(t)
	h := b.Heap()
	f := b.Lambda(false, false, func(x *Builder) (heap.Addr, heap.Addr) {
		return x.Var(x.Root()), x.Pair(x.Int(1), x.Var(x.Root()))
	})
	fix := b.Fix(f)
	if p := h.NodeOf(fix).(heap.Prim); p.Name != "Fix" || p.Ctor || len(p.Args) != 1 {
		t.Errorf("unexpected fix node: %s", p)
	}
	self := b.Self(b.Lambda(false, false, func(x *Builder) (heap.Addr, heap.Addr) {
		return x.Var(x.Root()), x.Ctor("List", x.Var(x.Root()))
	}))
	if p := h.NodeOf(self).(heap.Prim); !p.Ctor || p.Name != "Self" {
		t.Errorf("unexpected self node: %s", p)
	}
	if err := b.Err(); err != nil {
		t.Errorf("builder failed: %+v", err)
	}
}
