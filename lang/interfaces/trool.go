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

// Trool is a three-valued boolean. It is used wherever a question can't always
// be decided yet, for example when comparing terms that are not sufficiently
// reduced. TroolUnknown is not an error, callers must propagate or retry it.
type Trool int

const (
	// TroolFalse is a definite no.
	TroolFalse Trool = iota

	// TroolTrue is a definite yes.
	TroolTrue

	// TroolUnknown means the answer can't be decided yet.
	TroolUnknown
)

// TroolOf converts a regular bool.
func TroolOf(b bool) Trool {
	if b {
		return TroolTrue
	}
	return TroolFalse
}

// String returns a human readable name.
func (obj Trool) String() string {
	switch obj {
	case TroolFalse:
		return "false"
	case TroolTrue:
		return "true"
	}
	return "unknown"
}

// And is the three-valued conjunction. False dominates unknown.
func (obj Trool) And(t Trool) Trool {
	if obj == TroolFalse || t == TroolFalse {
		return TroolFalse
	}
	if obj == TroolUnknown || t == TroolUnknown {
		return TroolUnknown
	}
	return TroolTrue
}

// Or is the three-valued disjunction. True dominates unknown.
func (obj Trool) Or(t Trool) Trool {
	if obj == TroolTrue || t == TroolTrue {
		return TroolTrue
	}
	if obj == TroolUnknown || t == TroolUnknown {
		return TroolUnknown
	}
	return TroolFalse
}

// Not is the three-valued negation.
func (obj Trool) Not() Trool {
	switch obj {
	case TroolFalse:
		return TroolTrue
	case TroolTrue:
		return TroolFalse
	}
	return TroolUnknown
}

// Known returns true if the value is either true or false.
func (obj Trool) Known() bool {
	return obj != TroolUnknown
}
