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

package predicates

import (
	"fmt"
	"testing"

	"github.com/purpleidea/tygraph/lang/builder"
	"github.com/purpleidea/tygraph/lang/heap"
	"github.com/purpleidea/tygraph/lang/interfaces"
)

func newBuilder(t *testing.T) *builder.Builder {
	h := &heap.Heap{
		Logf: func(format string, v ...interface{}) {
			t.Logf("heap: "+format, v...)
		},
	}
	if err := h.Init(); err != nil {
		t.Fatalf("could not init heap: %+v", err)
	}
	return builder.New(h)
}

func TestTermEqual(t *testing.T) {
	type test struct { // an individual test
		name    string
		build   func(b *builder.Builder) (heap.Addr, heap.Addr)
		fuel    int
		unknown bool
		exp     interfaces.Trool
	}
	testCases := []test{
		{
			name: "same address",
			build: func(b *builder.Builder) (heap.Addr, heap.Addr) {
				return b.Int(1), b.Int(1)
			},
			fuel: 0,
			exp:  interfaces.TroolTrue,
		},
		{
			name: "different datums",
			build: func(b *builder.Builder) (heap.Addr, heap.Addr) {
				return b.Int(1), b.Int(2)
			},
			fuel: 10,
			exp:  interfaces.TroolFalse,
		},
		{
			name: "different shapes",
			build: func(b *builder.Builder) (heap.Addr, heap.Addr) {
				return b.Int(1), b.Pair(b.Int(1), b.Nil())
			},
			fuel: 10,
			exp:  interfaces.TroolFalse,
		},
		{
			name: "pairs of different targets",
			build: func(b *builder.Builder) (heap.Addr, heap.Addr) {
				return b.Pair(b.Int(1), b.Nil()), b.Strong().Pair(b.Int(1), b.Nil())
			},
			fuel: 10,
			exp:  interfaces.TroolTrue,
		},
		{
			name: "pairs with different tails",
			build: func(b *builder.Builder) (heap.Addr, heap.Addr) {
				return b.Pair(b.Int(1), b.Nil()), b.Strong().Pair(b.Int(1), b.Int(2))
			},
			fuel: 10,
			exp:  interfaces.TroolFalse,
		},
		{
			name: "out of fuel",
			build: func(b *builder.Builder) (heap.Addr, heap.Addr) {
				return b.List(b.Int(1), b.Int(2)), b.Strong().List(b.Int(1), b.Int(2))
			},
			fuel: 1,
			exp:  interfaces.TroolUnknown,
		},
		{
			name: "application is unknown",
			build: func(b *builder.Builder) (heap.Addr, heap.Addr) {
				intT := b.Const("Int")
				return b.Op("add", intT, b.Int(1), b.Int(2)), b.Strong().Op("add", intT, b.Int(1), b.Int(2))
			},
			fuel: 10,
			exp:  interfaces.TroolUnknown,
		},
		{
			name: "application compared structurally",
			build: func(b *builder.Builder) (heap.Addr, heap.Addr) {
				intT := b.Const("Int")
				return b.Op("add", intT, b.Int(1), b.Int(2)), b.Strong().Op("add", intT, b.Int(1), b.Int(2))
			},
			fuel:    10,
			unknown: true,
			exp:     interfaces.TroolTrue,
		},
		{
			name: "application against a value",
			build: func(b *builder.Builder) (heap.Addr, heap.Addr) {
				return b.Op("add", b.Const("Int"), b.Int(1), b.Int(2)), b.Int(3)
			},
			fuel:    10,
			unknown: true,
			exp:     interfaces.TroolUnknown,
		},
		{
			name: "false wins over unknown",
			build: func(b *builder.Builder) (heap.Addr, heap.Addr) {
				x := b.Op("add", b.Const("Int"), b.Int(1), b.Int(2))
				return b.Pair(x, b.Int(1)), b.Strong().Pair(b.Int(3), b.Int(2))
			},
			fuel: 10,
			exp:  interfaces.TroolFalse,
		},
		{
			name: "different depths",
			build: func(b *builder.Builder) (heap.Addr, heap.Addr) {
				var inner heap.Addr
				b.Lambda(false, false, func(x *builder.Builder) (heap.Addr, heap.Addr) {
					inner = x.Pair(x.Var(x.Root()), x.Int(1))
					return x.Var(x.Root()), inner
				})
				return inner, b.Pair(b.Int(1), b.Int(1))
			},
			fuel: 10,
			exp:  interfaces.TroolFalse,
		},
		{
			name: "lambda flags",
			build: func(b *builder.Builder) (heap.Addr, heap.Addr) {
				f := func(x *builder.Builder) (heap.Addr, heap.Addr) {
					return x.Var(x.Root()), x.Var(x.Root())
				}
				return b.Lambda(false, false, f), b.Lambda(true, false, f)
			},
			fuel: 10,
			exp:  interfaces.TroolFalse,
		},
	}

	names := []string{}
	for index, tc := range testCases { // run all the tests
		if contains(names, tc.name) {
			t.Errorf("test #%d: duplicate sub test name of: %s", index, tc.name)
			continue
		}
		names = append(names, tc.name)
		t.Run(fmt.Sprintf("test #%d (%s)", index, tc.name), func(t *testing.T) {
			b := newBuilder(t)
			x, y := tc.build(b)
			if err := b.Err(); err != nil {
				t.Errorf("test #%d: build failed: %+v", index, err)
				return
			}
			out, err := TermEqual(b.Heap(), tc.fuel, x, y, tc.unknown)
			if err != nil {
				t.Errorf("test #%d: equal failed: %+v", index, err)
				return
			}
			if out != tc.exp {
				t.Errorf("test #%d: expected %s, got: %s", index, tc.exp, out)
			}
		})
	}
}

func TestTermEqualCycle(t *testing.T) {
	b := newBuilder(t)
	h := b.Heap()
	intT := b.Const("Int")
	one := b.Int(1)

	// two distinct loops which both unfold to (1, (1, ...))
	s1 := b.Op("loop", intT, one)
	s2 := b.Strong().Op("loop", intT, one)
	p1 := b.Pair(one, s1)
	p2 := b.Strong().Pair(one, s2)
	if err := h.Link(s1, p1); err != nil {
		t.Fatalf("link failed: %+v", err)
	}
	if err := h.Link(s2, p2); err != nil {
		t.Fatalf("link failed: %+v", err)
	}
	out, err := TermEqual(h, 100, s1, s2, false)
	if err != nil {
		t.Fatalf("equal failed: %+v", err)
	}
	if out != interfaces.TroolTrue {
		t.Errorf("expected cyclic terms to be equal, got: %s", out)
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
