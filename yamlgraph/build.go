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

package yamlgraph

import (
	"fmt"
	"strings"

	"github.com/purpleidea/tygraph/lang/builder"
	"github.com/purpleidea/tygraph/lang/heap"
	"github.com/purpleidea/tygraph/util/errwrap"

	"github.com/hashicorp/go-set/v3"
)

// parsePath parses a dotted path like tl.hd, where the first step is applied
// first. A single dot is the root.
func parsePath(s string) ([]heap.Step, error) {
	if s == "." || s == "" {
		return []heap.Step{}, nil
	}
	steps := []heap.Step{}
	for _, x := range strings.Split(s, ".") {
		switch x {
		case "hd":
			steps = append(steps, heap.StepHd)
		case "tl":
			steps = append(steps, heap.StepTl)
		default:
			return nil, fmt.Errorf("invalid path step %q in %q", x, s)
		}
	}
	return steps, nil
}

// graph builds one document into a heap. Named nodes are built at the top
// scope, once each.
type graph struct {
	doc    *Document
	top    *builder.Builder
	addrs  map[string]heap.Addr
	active *set.Set[string]
}

// Build builds every node of the document with the builder, and returns the
// address of each one by name. Nodes that refer to each other in a cycle are an
// error, recursion is written with fix.
func (obj *Document) Build(b *builder.Builder) (map[string]heap.Addr, error) {
	g := &graph{
		doc:    obj,
		top:    b,
		addrs:  make(map[string]heap.Addr),
		active: set.New[string](0),
	}
	for _, name := range obj.Names() {
		if _, err := g.node(name); err != nil {
			return nil, err
		}
	}
	return g.addrs, nil
}

// BuildRoot builds the document and returns the address of its root node.
func (obj *Document) BuildRoot(b *builder.Builder) (heap.Addr, map[string]heap.Addr, error) {
	if obj.Root == "" {
		return heap.NoAddr, nil, fmt.Errorf("graph %s has no root", obj.Graph)
	}
	addrs, err := obj.Build(b)
	if err != nil {
		return heap.NoAddr, nil, err
	}
	return addrs[obj.Root], addrs, nil
}

func (obj *graph) node(name string) (heap.Addr, error) {
	if addr, exists := obj.addrs[name]; exists {
		return addr, nil
	}
	e, exists := obj.doc.Nodes[name]
	if !exists {
		return heap.NoAddr, fmt.Errorf("node %s does not exist", name)
	}
	if !obj.active.Insert(name) {
		return heap.NoAddr, fmt.Errorf("node %s refers to itself", name)
	}
	defer obj.active.Remove(name)

	addr, err := obj.expr(e, []*builder.Builder{obj.top})
	if err != nil {
		return heap.NoAddr, errwrap.Wrapf(err, "node %s", name)
	}
	obj.addrs[name] = addr
	return addr, nil
}

// expr builds an expression. The last of the scopes is the innermost one.
func (obj *graph) expr(e *Expr, scopes []*builder.Builder) (heap.Addr, error) {
	b := scopes[len(scopes)-1]
	if e.Strong {
		b = b.Strong()
		scopes = append(append([]*builder.Builder{}, scopes[:len(scopes)-1]...), b)
	}

	list := func(exprs []*Expr) ([]heap.Addr, error) {
		addrs := []heap.Addr{}
		for _, x := range exprs {
			a, err := obj.expr(x, scopes)
			if err != nil {
				return nil, err
			}
			addrs = append(addrs, a)
		}
		return addrs, nil
	}
	two := func(exprs []*Expr, fn func(a, b heap.Addr) heap.Addr) (heap.Addr, error) {
		addrs, err := list(exprs)
		if err != nil {
			return heap.NoAddr, err
		}
		return obj.check(b, fn(addrs[0], addrs[1]))
	}

	switch {
	case e.Ref != "":
		return obj.node(e.Ref)
	case e.Int != nil:
		return obj.check(b, b.Int(*e.Int))
	case e.Str != nil:
		return obj.check(b, b.Str(*e.Str))
	case e.Bool != nil:
		return obj.check(b, b.Bool(*e.Bool))
	case e.Nil:
		return obj.check(b, b.Nil())
	case e.Const != "":
		return obj.check(b, b.Const(e.Const))

	case e.Var != nil:
		if e.Scope >= len(scopes)-1 {
			return heap.NoAddr, fmt.Errorf("variable %s is out of scope", *e.Var)
		}
		s := scopes[len(scopes)-1-e.Scope]
		steps, err := parsePath(*e.Var)
		if err != nil {
			return heap.NoAddr, err
		}
		path := s.Root()
		for _, step := range steps {
			if step == heap.StepHd {
				path = s.Hd(path)
			} else {
				path = s.Tl(path)
			}
		}
		return obj.check(s, s.Var(path))

	case e.Pair != nil:
		return two(e.Pair, b.Pair)
	case e.TyPair != nil:
		return two(e.TyPair, b.TyPair)
	case e.Apply != nil:
		return two(e.Apply, b.Apply)
	case e.TyApply != nil:
		return two(e.TyApply, b.TyApply)
	case e.Arrow != nil:
		return two(e.Arrow, b.Arrow)
	case e.List != nil:
		items, err := list(e.List)
		if err != nil {
			return heap.NoAddr, err
		}
		return obj.check(b, b.List(items...))

	case e.Lambda != nil:
		var reterr error
		addr := b.Lambda(e.Lambda.No, e.Lambda.Yes, func(inner *builder.Builder) (heap.Addr, heap.Addr) {
			s := append(append([]*builder.Builder{}, scopes...), inner)
			pat, err := obj.expr(e.Lambda.Pat, s)
			if err != nil {
				reterr = errwrap.Wrapf(err, "lambda pattern")
				return heap.NoAddr, heap.NoAddr
			}
			body, err := obj.expr(e.Lambda.Body, s)
			if err != nil {
				reterr = errwrap.Wrapf(err, "lambda body")
				return heap.NoAddr, heap.NoAddr
			}
			return pat, body
		})
		if reterr != nil {
			return heap.NoAddr, reterr
		}
		return obj.check(b, addr)

	case e.Op != "", e.TyOp != "", e.Ctor != "":
		args, err := list(e.Args)
		if err != nil {
			return heap.NoAddr, err
		}
		if e.TyOp != "" {
			return obj.check(b, b.TyOp(e.TyOp, args...))
		}
		if e.Ctor != "" {
			return obj.check(b, b.Ctor(e.Ctor, args...))
		}
		typ, err := obj.expr(e.Type, scopes)
		if err != nil {
			return heap.NoAddr, errwrap.Wrapf(err, "op type")
		}
		return obj.check(b, b.Op(e.Op, typ, args...))

	case e.Fix != nil:
		fn, err := obj.expr(e.Fix, scopes)
		if err != nil {
			return heap.NoAddr, err
		}
		return obj.check(b, b.Fix(fn))

	case e.Annot != nil:
		term, err := obj.expr(e.Annot, scopes)
		if err != nil {
			return heap.NoAddr, err
		}
		typ, err := obj.expr(e.Type, scopes)
		if err != nil {
			return heap.NoAddr, errwrap.Wrapf(err, "annot type")
		}
		return obj.check(b, b.Annot(term, typ))
	}
	return heap.NoAddr, fmt.Errorf("expression has no shape")
}

// check turns the sticky error of the builder into a returned error.
func (obj *graph) check(b *builder.Builder, addr heap.Addr) (heap.Addr, error) {
	if err := b.Err(); err != nil {
		return heap.NoAddr, err
	}
	return addr, nil
}
