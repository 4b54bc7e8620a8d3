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

// Package lang ties the heap, the primitive table and the reducer together
// behind one struct, configured from a Config.
package lang

import (
	"github.com/purpleidea/tygraph/lang/builder"
	"github.com/purpleidea/tygraph/lang/funcs"
	"github.com/purpleidea/tygraph/lang/heap"
	"github.com/purpleidea/tygraph/lang/interfaces"
	"github.com/purpleidea/tygraph/lang/predicates"
	"github.com/purpleidea/tygraph/lang/reduce"
	"github.com/purpleidea/tygraph/lang/subst"
	"github.com/purpleidea/tygraph/util/errwrap"

	"github.com/spf13/afero"
)

// Lang is the main entry point. Build it as a struct literal and run Init
// before using it. Like the heap it owns, it is not safe for concurrent use.
type Lang struct {
	// Config is the tuning to use. It defaults to DefaultConfig.
	Config *Config

	// Monitor, if set, is told about every reduction step.
	Monitor reduce.Monitor

	Debug bool
	Logf  func(format string, v ...interface{})

	heap    *heap.Heap
	table   *funcs.Table
	reducer *reduce.Reducer
}

// Init builds the heap and the reducer.
func (obj *Lang) Init() error {
	if obj.Config == nil {
		obj.Config = DefaultConfig()
	}
	if err := obj.Config.Validate(); err != nil {
		return errwrap.Wrapf(err, "invalid config")
	}
	if obj.Logf == nil {
		obj.Logf = func(format string, v ...interface{}) {} // noop
	}
	debug := obj.Debug || obj.Config.Debug

	obj.heap = &heap.Heap{
		Debug: debug,
		Logf: func(format string, v ...interface{}) {
			obj.Logf("heap: "+format, v...)
		},
	}
	if err := obj.heap.Init(); err != nil {
		return errwrap.Wrapf(err, "could not init the heap")
	}

	obj.table = funcs.NewTable()
	obj.reducer = &reduce.Reducer{
		Heap:       obj.heap,
		Table:      obj.table,
		Monitor:    obj.Monitor,
		StackLimit: obj.Config.StackLimit,
		Debug:      debug,
		Logf: func(format string, v ...interface{}) {
			obj.Logf("reduce: "+format, v...)
		},
	}
	if err := obj.reducer.Init(); err != nil {
		return errwrap.Wrapf(err, "could not init the reducer")
	}
	if debug {
		obj.Logf("heap %s with %d primitives", obj.heap.ID(), len(obj.table.Names()))
	}
	return nil
}

// Heap returns the heap that everything is built in.
func (obj *Lang) Heap() *heap.Heap { return obj.heap }

// Table returns the primitive table. Custom primitives can be added to it
// before the first reduction that needs them.
func (obj *Lang) Table() *funcs.Table { return obj.table }

// Builder returns a builder for the heap. It targets the strong form when the
// config asks for it.
func (obj *Lang) Builder() *builder.Builder {
	b := builder.New(obj.heap)
	if obj.Config.Strong {
		return b.Strong()
	}
	return b
}

// Reduce reduces the node at root and returns the address it was reduced to.
func (obj *Lang) Reduce(root heap.Addr) (heap.Addr, error) {
	return obj.reducer.Reduce(root)
}

// ReduceTo is like Reduce, except that no node is reduced further than limit.
func (obj *Lang) ReduceTo(root heap.Addr, limit interfaces.Form) (heap.Addr, error) {
	return obj.reducer.ReduceTo(root, limit)
}

// Equal compares two terms structurally with the configured fuel.
func (obj *Lang) Equal(a, b heap.Addr) (interfaces.Trool, error) {
	return predicates.TermEqual(obj.heap, obj.Config.Fuel, a, b, false)
}

// Copy returns the equivalent of addr with no indirections left in it.
func (obj *Lang) Copy(addr heap.Addr) (heap.Addr, error) {
	return obj.heap.CopyWithoutIndirections(addr)
}

// Apply applies a lambda to an argument once, at the shallowest depth where
// both are visible. The result is not reduced any further.
func (obj *Lang) Apply(fn, arg heap.Addr) (heap.Addr, subst.ApplyResult, error) {
	depth := obj.heap.DepthOf(fn)
	if d := obj.heap.DepthOf(arg); d > depth {
		depth = d
	}
	target := interfaces.FormWeak
	if obj.Config.Strong {
		target = interfaces.FormStrong
	}
	return subst.TryApply(obj.heap, depth, fn, arg, target)
}

// Verify audits the heap.
func (obj *Lang) Verify() error {
	return obj.heap.Verify()
}

// Graphviz returns the part of the heap reachable from roots in graphviz
// format.
func (obj *Lang) Graphviz(roots ...heap.Addr) string {
	return obj.heap.Graphviz("", roots...)
}

// ExecGraphviz writes the graphviz output to filename, and runs program on it
// to render it, unless program is empty.
func (obj *Lang) ExecGraphviz(fs afero.Fs, program, filename string, roots ...heap.Addr) error {
	return obj.heap.ExecGraphviz(fs, program, filename, "", roots...)
}
