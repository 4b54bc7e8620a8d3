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

package interfaces

// These are the names of the primitives that the core itself knows about. The
// rest of the primitive table is only known to the reducer.
const (
	// PrimType is the type of all types. It is its own type.
	PrimType = "Type"

	// PrimHd projects the head of a pair.
	PrimHd = "hd"

	// PrimTl projects the tail of a pair.
	PrimTl = "tl"

	// TypeHd projects the head of a pair type.
	TypeHd = "Hd"

	// TypeTl projects the tail of a pair type.
	TypeTl = "Tl"

	// TypeDom projects the domain of a function type.
	TypeDom = "Dom"

	// TypeCod projects the codomain of a function type.
	TypeCod = "Cod"

	// TypeUnion is the union of types.
	TypeUnion = "Union"

	// TypeIntersect is the intersection of types.
	TypeIntersect = "Intersect"

	// TypeRelComp is the relative complement of two types.
	TypeRelComp = "RelComp"

	// TypeSub is the type of the subtypes of a type.
	TypeSub = "Sub"

	// TypeSuper is the type of the supertypes of a type.
	TypeSuper = "Super"

	// TypeSelf is a self referential type, built from a function from the
	// type to itself.
	TypeSelf = "Self"

	// PrimFix is the fixed point of a function.
	PrimFix = "Fix"
)
