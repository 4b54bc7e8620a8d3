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
	"github.com/purpleidea/tygraph/util/errwrap"
)

// CopyWithoutIndirections returns a copy of the current reduced state of the
// subgraph at addr, with every indirection replaced by its target. Values are
// copied before they are matched against a pattern, so that later reduction of
// the original can't change what was already consumed.
func (obj *Heap) CopyWithoutIndirections(addr Addr) (Addr, error) {
	return obj.CopyWithoutIndirectionsFrom(0, addr)
}

// CopyWithoutIndirectionsFrom is like CopyWithoutIndirections, except that
// cells shallower than floor are returned as they are.
func (obj *Heap) CopyWithoutIndirectionsFrom(floor int, addr Addr) (Addr, error) {
	if !obj.Valid(addr) {
		return NoAddr, errwrap.Wrapf(interfaces.ErrInvalidAddr, "copy @%d", addr)
	}
	if a, ok := obj.cells[addr].CachedCopy(); ok && floor == 0 {
		return a, nil
	}

	r := &Rewriter{
		Heap:     obj,
		Floor:    floor,
		KeepForm: true,
	}
	if floor == 0 {
		r.Hook = func(a Addr, cell *Cell) (Addr, bool, error) {
			c, ok := cell.CachedCopy()
			return c, ok, nil
		}
	}
	out, ok, err := r.Rewrite(addr)
	if err != nil {
		return NoAddr, errwrap.Wrapf(err, "copy @%d", addr)
	}
	if !ok {
		// the root is never part of a chain that is in progress
		return NoAddr, errwrap.Wrapf(interfaces.ErrCopyMustTerminate, "copy @%d", addr)
	}
	if floor == 0 {
		obj.SetCachedCopy(addr, out)
	}
	if obj.Debug {
		obj.Logf("copy: @%d -> @%d", addr, out)
	}
	return out, nil
}
