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

// Package subst implements pattern matching and substitution, which together
// are how a lambda is applied to an argument.
package subst

import (
	"fmt"

	"github.com/purpleidea/tygraph/lang/heap"
	"github.com/purpleidea/tygraph/lang/interfaces"
	"github.com/purpleidea/tygraph/util/errwrap"
)

// Match is the three-valued result of matching a pattern against a value.
type Match int

const (
	// MatchFailed means that the value can never match.
	MatchFailed Match = iota

	// MatchMatched means that the value matches, and the environment holds
	// every binding.
	MatchMatched

	// MatchIndeterminate means that the value isn't evaluated enough to
	// tell. It must never be reported as a failure.
	MatchIndeterminate
)

// String returns a human readable name.
func (obj Match) String() string {
	switch obj {
	case MatchFailed:
		return "failed"
	case MatchMatched:
		return "matched"
	case MatchIndeterminate:
		return "indeterminate"
	}
	return fmt.Sprintf("match(%d)", int(obj))
}

// And is the conjunction of two results. A failure wins over an indeterminate
// result.
func (obj Match) And(m Match) Match {
	if obj == MatchFailed || m == MatchFailed {
		return MatchFailed
	}
	if obj == MatchIndeterminate || m == MatchIndeterminate {
		return MatchIndeterminate
	}
	return MatchMatched
}

// Env holds the values bound by a pattern, by path.
type Env map[heap.PathKey]heap.Addr

// TryPatMatch matches a pattern whose variables live at varDepth against a
// value, binding the variables in env. The value is copied without its
// indirections first, so that later reduction of the value can't change what
// was matched. The application happens at appDepth, and the value can't be
// deeper than that.
func TryPatMatch(h *heap.Heap, appDepth, varDepth int, pat, value heap.Addr, env Env) (Match, error) {
	if d := h.DepthOf(value); d > appDepth {
		return MatchFailed, errwrap.Wrapf(interfaces.ErrDepthViolation, "value @%d at depth %d is applied at depth %d", value, d, appDepth)
	}
	value, err := h.CopyWithoutIndirections(value)
	if err != nil {
		return MatchFailed, err
	}
	return match(h, varDepth, pat, value, env)
}

func match(h *heap.Heap, varDepth int, pat, value heap.Addr, env Env) (Match, error) {
	switch p := h.NodeOf(pat).(type) {
	case heap.Var:
		if d := h.DepthOf(pat); d != varDepth {
			return MatchFailed, errwrap.Wrapf(interfaces.ErrInvalidPattern, "variable @%d at depth %d in a pattern of depth %d", pat, d, varDepth)
		}
		env[p.Path] = value
		return MatchMatched, nil

	case heap.As:
		m1, err := match(h, varDepth, p.Var, value, env)
		if err != nil {
			return MatchFailed, err
		}
		m2, err := match(h, varDepth, p.Pat, value, env)
		if err != nil {
			return MatchFailed, err
		}
		return m1.And(m2), nil

	case heap.TyAnnot:
		return match(h, varDepth, p.Term, value, env)

	case heap.Datum:
		switch v := h.NodeOf(h.DirectAddrOf(value)).(type) {
		case heap.Datum:
			if v.Value == p.Value {
				return MatchMatched, nil
			}
			return MatchFailed, nil
		case heap.Pair:
			return MatchFailed, nil
		}
		return MatchIndeterminate, nil

	case heap.Pair:
		switch v := h.NodeOf(h.DirectAddrOf(value)).(type) {
		case heap.Pair:
			m1, err := match(h, varDepth, p.Hd, v.Hd, env)
			if err != nil {
				return MatchFailed, err
			}
			m2, err := match(h, varDepth, p.Tl, v.Tl, env)
			if err != nil {
				return MatchFailed, err
			}
			return m1.And(m2), nil
		case heap.Datum:
			return MatchFailed, nil
		}
		return MatchIndeterminate, nil
	}
	return MatchFailed, errwrap.Wrapf(interfaces.ErrInvalidPattern, "%s can't be used as a pattern", h.NodeOf(pat).Tag())
}
