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

// Package interfaces contains the small shared vocabulary of the reduction
// core: the reduction forms, three-valued logic and the error taxonomy.
package interfaces

// Error is a constant error type that implements error.
type Error string

// Error fulfills the error interface of this type.
func (e Error) Error() string { return string(e) }

// Invariant violations. These are programmer errors and are never retried.
const (
	// ErrDepthViolation is returned when an allocation would break the
	// binder depth discipline.
	ErrDepthViolation = Error("depth violation")

	// ErrHashConsingFailed means the consed cell did not match the value
	// that was requested. This is a bug in the structural key.
	ErrHashConsingFailed = Error("hash consing failed")

	// ErrAlreadyUpdated is returned when an indirection is set twice.
	ErrAlreadyUpdated = Error("address already updated")

	// ErrSelfLink is returned when an address would indirect to itself.
	ErrSelfLink = Error("address linked to itself")

	// ErrInvalidAddr is used when an address is not in the heap.
	ErrInvalidAddr = Error("invalid address")

	// ErrInvalidDatum is returned for datum values of unsupported types.
	ErrInvalidDatum = Error("invalid datum value")

	// ErrInvalidNode is returned for a nil or malformed node.
	ErrInvalidNode = Error("invalid node")

	// ErrInvalidForm is returned when a target form is not Weak or Strong.
	ErrInvalidForm = Error("invalid form")

	// ErrInvalidPattern is returned when a lambda pattern contains a shape
	// that can't be matched against.
	ErrInvalidPattern = Error("invalid pattern")

	// ErrCopyMustTerminate is returned when the outermost copy could not
	// produce a result because every chain entry was blocked.
	ErrCopyMustTerminate = Error("copy did not terminate")
)

// Resource exhaustion.
const (
	// ErrStackTooLarge is returned when the in-progress stack of the
	// reducer grows past its limit. The graph is probably pathologically
	// cyclic.
	ErrStackTooLarge = Error("stack too large")
)

// Primitive level errors.
const (
	// ErrUnknownPrimitive is returned when a primitive name has no entry
	// in the action table.
	ErrUnknownPrimitive = Error("unknown primitive")
)
