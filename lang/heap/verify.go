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

	"github.com/hashicorp/go-set/v3"
)

// Verify audits every cell of the heap against the invariants that Allocate
// and Link maintain. All of the violations are returned together. A heap that
// was only ever changed through its methods always passes, so a failure here
// points at a bug.
func (obj *Heap) Verify() error {
	var reterr error
	for i, cell := range obj.cells {
		addr := Addr(i)
		if addr == TypeAddr {
			if cell.Type != TypeAddr || cell.Depth != 0 {
				reterr = errwrap.Append(reterr, errwrap.Wrapf(interfaces.ErrInvalidNode, "@%d is not the Type primitive", addr))
			}
			continue
		}
		if err := obj.validate(cell.Depth, cell.Node, cell.Type, cell.Target); err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "cell @%d", addr))
		}
		if !cell.Form.Valid() {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(interfaces.ErrInvalidForm, "cell @%d has form %d", addr, cell.Form))
		}
		if !cell.updated {
			continue
		}
		if !obj.Valid(cell.indirect) {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(interfaces.ErrInvalidAddr, "cell @%d links to @%d", addr, cell.indirect))
			continue
		}
		// links always resolve to a direct address when they are made,
		// so a chain can't come back to where it started
		seen := set.From([]Addr{addr})
		for a := cell.indirect; ; {
			if !seen.Insert(a) {
				reterr = errwrap.Append(reterr, errwrap.Wrapf(interfaces.ErrSelfLink, "cell @%d is on an indirection cycle", addr))
				break
			}
			next := obj.cells[a]
			if !next.updated {
				break
			}
			a = next.indirect
		}
	}
	return reterr
}
