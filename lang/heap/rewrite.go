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

package heap

import (
	"github.com/purpleidea/tygraph/lang/interfaces"

	"github.com/hashicorp/go-set/v3"
)

// Rewriter rebuilds a subgraph bottom up, following indirections, without ever
// looping on a cyclic graph. For each address it walks the indirection chain
// from the newest entry to the oldest, and rebuilds the first entry that is not
// already being rebuilt further up the stack. When a child of an entry is
// blocked that way, the next older entry is tried instead. This means the
// point at which a cycle is cut depends on the order in which the graph is
// walked.
//
// A Rewriter is single use. Build it as a struct literal and call Rewrite.
type Rewriter struct {
	Heap *Heap

	// Floor is the smallest depth that is rewritten. Shallower cells are
	// outside of the region and are returned as they are.
	Floor int

	// Hook, if set, runs before the generic rebuild of each chain entry.
	// If it returns handled, its result is used as is.
	Hook func(addr Addr, cell *Cell) (result Addr, handled bool, err error)

	// Depth maps the depth of a rebuilt cell. Defaults to identity.
	Depth func(depth int) int

	// Target maps the target form of a rebuilt cell. Defaults to identity.
	Target func(target interfaces.Form) interfaces.Form

	// RewriteTypes rebuilds the type of each cell too. Otherwise the type
	// is replaced by its direct address.
	RewriteTypes bool

	// KeepForm copies the form of each source cell onto its rebuild.
	KeepForm bool

	memo   map[Addr]Addr
	active *set.Set[Addr]
}

func (obj *Rewriter) init() {
	if obj.memo != nil {
		return
	}
	obj.memo = make(map[Addr]Addr)
	obj.active = set.New[Addr](0)
	if obj.Depth == nil {
		obj.Depth = func(depth int) int { return depth }
	}
	if obj.Target == nil {
		obj.Target = func(target interfaces.Form) interfaces.Form { return target }
	}
}

// Rewrite returns the rebuilt address. If every entry of the chain is blocked
// by a rebuild further up the stack, it returns false.
func (obj *Rewriter) Rewrite(addr Addr) (Addr, bool, error) {
	obj.init()
	if m, exists := obj.memo[addr]; exists {
		return m, true, nil
	}

	chain := obj.Heap.ChainAddrs(addr)
	for i := len(chain) - 1; i >= 0; i-- {
		a := chain[i]
		if obj.active.Contains(a) {
			continue
		}
		if m, exists := obj.memo[a]; exists {
			obj.memo[addr] = m
			return m, true, nil
		}
		if obj.Heap.cells[a].Depth < obj.Floor {
			obj.memo[addr] = a
			return a, true, nil
		}
		out, ok, err := obj.rebuild(a)
		if err != nil {
			return NoAddr, false, err
		}
		if !ok {
			continue // fall back to an older entry
		}
		obj.memo[a] = out
		obj.memo[addr] = out
		return out, true, nil
	}
	return NoAddr, false, nil
}

// Active returns true if the address is being rebuilt further up the stack.
func (obj *Rewriter) Active(addr Addr) bool {
	obj.init()
	return obj.active.Contains(addr)
}

func (obj *Rewriter) rebuild(addr Addr) (Addr, bool, error) {
	cell := obj.Heap.cells[addr]
	if addr == TypeAddr {
		return addr, true, nil
	}

	obj.active.Insert(addr)
	defer obj.active.Remove(addr)

	if obj.Hook != nil {
		out, handled, err := obj.Hook(addr, cell)
		if err != nil {
			return NoAddr, false, err
		}
		if handled {
			return out, true, nil
		}
	}

	node, ok, err := TransformTry(cell.Node, func(index int, child Child) (Addr, bool, error) {
		return obj.Rewrite(child.Addr)
	})
	if err != nil || !ok {
		return NoAddr, false, err
	}

	typ := obj.Heap.DirectAddrOf(cell.Type)
	if obj.RewriteTypes {
		if typ, ok, err = obj.Rewrite(cell.Type); err != nil || !ok {
			return NoAddr, false, err
		}
	}

	out, err := obj.Heap.Allocate(obj.Depth(cell.Depth), node, typ, obj.Target(cell.Target))
	if err != nil {
		return NoAddr, false, err
	}
	if obj.KeepForm && cell.Form != interfaces.FormNone {
		if err := obj.Heap.SetForm(out, cell.Form); err != nil {
			return NoAddr, false, err
		}
	}
	return out, true, nil
}
