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

import (
	"fmt"
)

// Form is the reduction progress marker of a heap cell. The ordinary forms are
// ordered FormNone < FormWeak < FormStrong, and FormError is a sink that
// poisons anything it is merged with.
type Form int

const (
	// FormNone means that no reduction has happened yet.
	FormNone Form = iota

	// FormWeak means the node is in weak head normal form. Lambda bodies
	// are left untouched.
	FormWeak

	// FormStrong means the node is fully normalized, under binders too.
	FormStrong

	// FormError is the sink state for nodes whose reduction failed.
	FormError
)

// String returns a human readable name for the form.
func (obj Form) String() string {
	switch obj {
	case FormNone:
		return "none"
	case FormWeak:
		return "weak"
	case FormStrong:
		return "strong"
	case FormError:
		return "error"
	}
	return fmt.Sprintf("form(%d)", int(obj))
}

// Valid returns true if this is one of the known forms.
func (obj Form) Valid() bool {
	return obj >= FormNone && obj <= FormError
}

// IsTarget returns true if this form can be used as a target form.
func (obj Form) IsTarget() bool {
	return obj == FormWeak || obj == FormStrong
}

// Reaches returns true if this form satisfies the goal. An error form reaches
// every goal, since nothing more can be done with it.
func (obj Form) Reaches(goal Form) bool {
	if obj == FormError {
		return true
	}
	return obj >= goal
}

// MinForm merges two forms. The result is the weaker of the two, unless either
// is FormError, in which case the error wins.
func MinForm(a, b Form) Form {
	if a == FormError || b == FormError {
		return FormError
	}
	if a < b {
		return a
	}
	return b
}

// MaxForm returns the stronger of two forms. It is used for targets only, so
// FormError is not expected here.
func MaxForm(a, b Form) Form {
	if a > b {
		return a
	}
	return b
}

// MergeForms merges a list of forms with MinForm. An empty list merges to the
// given default.
func MergeForms(def Form, forms ...Form) Form {
	if len(forms) == 0 {
		return def
	}
	out := forms[0]
	for _, f := range forms[1:] {
		out = MinForm(out, f)
	}
	return out
}
