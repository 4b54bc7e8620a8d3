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

// Package funcs provides the table of primitive operations that the reducer
// runs. Built-in primitives register themselves from init, and every reducer
// works from its own Table, which starts as a copy of them.
package funcs

import (
	"fmt"
	"sort"

	"github.com/purpleidea/tygraph/lang/heap"
	"github.com/purpleidea/tygraph/lang/interfaces"
	"github.com/purpleidea/tygraph/util/errwrap"
)

// Result tells the reducer what a primitive action did.
type Result int

const (
	// ResultStuck means the arguments aren't evaluated enough, or have a
	// shape the action can't handle yet. The node is kept as is.
	ResultStuck Result = iota

	// ResultError means the action failed, and the node is put in the
	// error form.
	ResultError

	// ResultReplace means the node reduces to the returned address.
	ResultReplace
)

// String returns a human readable name.
func (obj Result) String() string {
	switch obj {
	case ResultStuck:
		return "stuck"
	case ResultError:
		return "error"
	case ResultReplace:
		return "replace"
	}
	return fmt.Sprintf("result(%d)", int(obj))
}

// Action runs a primitive on its arguments. The arguments are reduced and
// copied without indirections before the action runs.
type Action func(ctx *Context, args []heap.Addr) (heap.Addr, Result, error)

// Func is an entry of the primitive table.
type Func struct {
	Name string

	// Ctor marks a constructor. It is never run, only marked as reduced.
	Ctor bool

	// Strength is the form each argument must target. Missing entries are
	// weak. A lambda argument that must be strong is given a private
	// strong copy before the action runs.
	Strength []interfaces.Form

	Action Action
}

// Required returns the strength required for an argument.
func (obj *Func) Required(index int) interfaces.Form {
	if index < 0 || index >= len(obj.Strength) {
		return interfaces.FormWeak
	}
	return obj.Strength[index]
}

// Validate checks that the func was built properly.
func (obj *Func) Validate() error {
	if obj.Name == "" {
		return fmt.Errorf("func has no name")
	}
	if !obj.Ctor && obj.Action == nil {
		return fmt.Errorf("func %s has no action", obj.Name)
	}
	for i, f := range obj.Strength {
		if !f.IsTarget() {
			return fmt.Errorf("func %s has an invalid strength for arg %d: %s", obj.Name, i, f)
		}
	}
	return nil
}

// registeredFuncs holds the built-in primitives, by name.
var registeredFuncs = make(map[string]*Func) // must initialize

// Register makes a built-in primitive available to every new Table. It is
// called from init and panics on a duplicate or malformed entry.
func Register(fn *Func) {
	if err := fn.Validate(); err != nil {
		panic(err.Error())
	}
	if _, exists := registeredFuncs[fn.Name]; exists {
		panic(fmt.Sprintf("a func named %s is already registered", fn.Name))
	}
	registeredFuncs[fn.Name] = fn
}

// Lookup returns a built-in primitive.
func Lookup(name string) (*Func, error) {
	f, exists := registeredFuncs[name]
	if !exists {
		return nil, errwrap.Wrapf(interfaces.ErrUnknownPrimitive, "%s", name)
	}
	return f, nil
}

// Table is the primitive table of one reducer.
type Table struct {
	funcs map[string]*Func
}

// NewTable returns a table holding every built-in primitive.
func NewTable() *Table {
	obj := &Table{
		funcs: make(map[string]*Func),
	}
	for name, fn := range registeredFuncs {
		obj.funcs[name] = fn
	}
	return obj
}

// Register adds a primitive to this table only.
func (obj *Table) Register(fn *Func) error {
	if err := fn.Validate(); err != nil {
		return err
	}
	if _, exists := obj.funcs[fn.Name]; exists {
		return fmt.Errorf("a func named %s is already registered", fn.Name)
	}
	obj.funcs[fn.Name] = fn
	return nil
}

// Lookup returns a primitive from this table.
func (obj *Table) Lookup(name string) (*Func, error) {
	f, exists := obj.funcs[name]
	if !exists {
		return nil, errwrap.Wrapf(interfaces.ErrUnknownPrimitive, "%s", name)
	}
	return f, nil
}

// Names returns the sorted names of every primitive in this table.
func (obj *Table) Names() []string {
	names := []string{}
	for name := range obj.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
