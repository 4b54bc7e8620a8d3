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

package reduce

import (
	"fmt"

	"github.com/purpleidea/tygraph/lang/heap"
	"github.com/purpleidea/tygraph/lang/interfaces"
)

// EventKind is the kind of a reduction event.
type EventKind int

const (
	// EventMark means a node was marked with a form and kept as is.
	EventMark EventKind = iota

	// EventBeta means an application was rewritten to its result.
	EventBeta

	// EventDelta means a primitive was rewritten to its result.
	EventDelta
)

// String returns a human readable name.
func (obj EventKind) String() string {
	switch obj {
	case EventMark:
		return "mark"
	case EventBeta:
		return "beta"
	case EventDelta:
		return "delta"
	}
	return fmt.Sprintf("event(%d)", int(obj))
}

// Event is sent to the monitor for every reduction step.
type Event struct {
	Kind EventKind

	// Addr is the node the step ran on.
	Addr heap.Addr

	// To is what the node was rewritten to. It is Addr for marks.
	To heap.Addr

	// Form is the form of Addr after a mark, or of To after a rewrite.
	Form interfaces.Form

	// Depth is the number of nodes being reduced when this happened.
	Depth int
}

// String returns a one line description of the event.
func (obj *Event) String() string {
	if obj.Kind == EventMark {
		return fmt.Sprintf("%s @%d as %s", obj.Kind, obj.Addr, obj.Form)
	}
	return fmt.Sprintf("%s @%d -> @%d", obj.Kind, obj.Addr, obj.To)
}

// Monitor observes the reducer. It runs synchronously, so it must not block
// for long.
type Monitor interface {
	Observe(event *Event)
}

// MonitorFunc adapts a function to the Monitor interface.
type MonitorFunc func(event *Event)

// Observe calls the function.
func (obj MonitorFunc) Observe(event *Event) {
	obj(event)
}

// Monitors fans every event out to each monitor in order.
type Monitors []Monitor

// Observe sends the event to every monitor.
func (obj Monitors) Observe(event *Event) {
	for _, m := range obj {
		if m != nil {
			m.Observe(event)
		}
	}
}
