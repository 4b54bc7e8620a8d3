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
	"fmt"
	"strings"
)

// PathKey is an interned sequence of hd/tl projection steps, starting at the
// argument bound by a lambda. The empty path is RootPath.
type PathKey int

// RootPath is the key of the empty path, ie the whole bound argument.
const RootPath PathKey = 0

// Step is a single projection of a pair.
type Step int

const (
	// StepHd projects the head of a pair.
	StepHd Step = iota

	// StepTl projects the tail of a pair.
	StepTl
)

// String returns the name of the projection.
func (obj Step) String() string {
	if obj == StepHd {
		return "hd"
	}
	return "tl"
}

type pathNode struct {
	parent PathKey
	step   Step
	hd     PathKey // zero if absent, root can never be a child
	tl     PathKey
}

// PathTrie interns path keys. Each key has at most one hd child and one tl
// child, so equal paths always get the same key.
type PathTrie struct {
	nodes []pathNode
}

// NewPathTrie returns a trie containing only the root path.
func NewPathTrie() *PathTrie {
	return &PathTrie{
		nodes: []pathNode{{parent: RootPath}},
	}
}

// Len returns the number of interned paths.
func (obj *PathTrie) Len() int {
	return len(obj.nodes)
}

// Valid returns true if the key was returned by this trie.
func (obj *PathTrie) Valid(key PathKey) bool {
	return key >= 0 && int(key) < len(obj.nodes)
}

// Hd returns the key of the path extended with a head projection.
func (obj *PathTrie) Hd(key PathKey) PathKey {
	return obj.Child(key, StepHd)
}

// Tl returns the key of the path extended with a tail projection.
func (obj *PathTrie) Tl(key PathKey) PathKey {
	return obj.Child(key, StepTl)
}

// Child returns the key of the path extended with one step.
func (obj *PathTrie) Child(key PathKey, step Step) PathKey {
	if !obj.Valid(key) {
		panic(fmt.Sprintf("invalid path key: %d", key))
	}
	n := &obj.nodes[key]
	if step == StepHd && n.hd != RootPath {
		return n.hd
	}
	if step == StepTl && n.tl != RootPath {
		return n.tl
	}
	k := PathKey(len(obj.nodes))
	obj.nodes = append(obj.nodes, pathNode{parent: key, step: step})
	n = &obj.nodes[key] // append may have moved it
	if step == StepHd {
		n.hd = k
	} else {
		n.tl = k
	}
	return k
}

// Parent returns the parent key and the last step of a path. The root has no
// parent, and ok is false for it.
func (obj *PathTrie) Parent(key PathKey) (parent PathKey, step Step, ok bool) {
	if !obj.Valid(key) {
		panic(fmt.Sprintf("invalid path key: %d", key))
	}
	if key == RootPath {
		return RootPath, StepHd, false
	}
	n := obj.nodes[key]
	return n.parent, n.step, true
}

// Steps returns the projection steps of a path, outermost binding first.
func (obj *PathTrie) Steps(key PathKey) []Step {
	steps := []Step{}
	for {
		parent, step, ok := obj.Parent(key)
		if !ok {
			break
		}
		steps = append([]Step{step}, steps...)
		key = parent
	}
	return steps
}

// Lookup returns the key of a list of steps, interning it if needed.
func (obj *PathTrie) Lookup(steps ...Step) PathKey {
	key := RootPath
	for _, s := range steps {
		key = obj.Child(key, s)
	}
	return key
}

// String formats a path like `tl.hd`, or `.` for the root.
func (obj *PathTrie) String(key PathKey) string {
	steps := obj.Steps(key)
	if len(steps) == 0 {
		return "."
	}
	s := []string{}
	for _, x := range steps {
		s = append(s, x.String())
	}
	return strings.Join(s, ".")
}
