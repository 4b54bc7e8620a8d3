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

// Package heap implements the append-only, hash-consed graph store that holds
// every term and type of the language. Terms and types share one node type so
// that they can refer to each other.
//
// Every cell has a depth, which is the number of binders it is nested under.
// It plays the role of a de Bruijn level: a variable is identified by the depth
// it was allocated at. Allocation checks that children are never deeper than
// their parent, except for the binder children of lambdas and function types
// which may be one level deeper. Cells are immutable after allocation, except
// for their form, their cached copy and their indirection. The indirection is
// written at most once, and records that the cell was reduced to another one.
//
// The heap is not safe for concurrent use.
package heap

import (
	"github.com/purpleidea/tygraph/lang/interfaces"
	"github.com/purpleidea/tygraph/util/errwrap"

	"github.com/google/uuid"
)

// Addr is a handle to a heap cell. Addresses are never reused.
type Addr int

// TypeAddr is the address of the primitive type Type, whose type is itself.
const TypeAddr Addr = 0

// TypeName is the name of the primitive stored at TypeAddr.
const TypeName = "Type"

// NoAddr is returned alongside errors.
const NoAddr Addr = -1

// Value is the part of a cell which is set at allocation time. Form is the only
// field that changes afterwards.
type Value struct {
	Depth  int
	Form   interfaces.Form
	Node   Node
	Type   Addr
	Target interfaces.Form
}

// Cell is a single heap slot.
type Cell struct {
	Value

	indirect Addr
	updated  bool // indirect was set

	cached    Addr
	hasCached bool
}

// Indirect returns the address this cell was reduced to, if any.
func (obj *Cell) Indirect() (Addr, bool) {
	return obj.indirect, obj.updated
}

// CachedCopy returns the memoized copy of this cell, if any.
func (obj *Cell) CachedCopy() (Addr, bool) {
	return obj.cached, obj.hasCached
}

// Heap is the graph store. Build it as a struct literal and then run Init.
type Heap struct {
	Debug bool
	Logf  func(format string, v ...interface{})

	id    uuid.UUID
	seed  Seed
	cells []*Cell
	index map[Hash][]Addr // hash consing buckets
	paths *PathTrie
}

// Init prepares the heap and allocates the Type primitive at address zero.
func (obj *Heap) Init() error {
	if obj.Logf == nil {
		obj.Logf = func(format string, v ...interface{}) {} // noop
	}
	obj.id = uuid.New()
	obj.seed = MakeSeed()
	obj.cells = []*Cell{}
	obj.index = make(map[Hash][]Addr)
	obj.paths = NewPathTrie()

	// Type is its own type, so it can't go through Allocate.
	node := Prim{Ctor: true, Name: TypeName}
	target := interfaces.FormWeak
	obj.cells = append(obj.cells, &Cell{
		Value: Value{
			Depth:  0,
			Form:   interfaces.FormNone,
			Node:   node,
			Type:   TypeAddr,
			Target: target,
		},
	})
	k := key(obj.seed, 0, node, TypeAddr, target)
	obj.index[k] = append(obj.index[k], TypeAddr)

	if obj.Debug {
		obj.Logf("heap %s: init", obj.id)
	}
	return nil
}

// ID returns the unique identifier of this heap.
func (obj *Heap) ID() uuid.UUID {
	return obj.id
}

// Len returns the number of allocated cells.
func (obj *Heap) Len() int {
	return len(obj.cells)
}

// Paths returns the path trie of this heap.
func (obj *Heap) Paths() *PathTrie {
	return obj.paths
}

// Valid returns true if the address exists.
func (obj *Heap) Valid(addr Addr) bool {
	return addr >= 0 && int(addr) < len(obj.cells)
}

// Cell returns the cell of an address. It panics on an invalid address, since
// that is always a programming error.
func (obj *Heap) Cell(addr Addr) *Cell {
	if !obj.Valid(addr) {
		panic(errwrap.Wrapf(interfaces.ErrInvalidAddr, "address %d of %d", addr, len(obj.cells)))
	}
	return obj.cells[addr]
}

// DepthOf returns the depth of a cell.
func (obj *Heap) DepthOf(addr Addr) int { return obj.Cell(addr).Depth }

// TypeOf returns the type address of a cell.
func (obj *Heap) TypeOf(addr Addr) Addr { return obj.Cell(addr).Type }

// FormOf returns the current form of a cell.
func (obj *Heap) FormOf(addr Addr) interfaces.Form { return obj.Cell(addr).Form }

// TargetFormOf returns the form that reduction of this cell converges to.
func (obj *Heap) TargetFormOf(addr Addr) interfaces.Form { return obj.Cell(addr).Target }

// NodeOf returns the node stored in a cell.
func (obj *Heap) NodeOf(addr Addr) Node { return obj.Cell(addr).Node }

// NodeTag returns the shape of the node stored in a cell.
func (obj *Heap) NodeTag(addr Addr) Tag { return obj.Cell(addr).Node.Tag() }

// NodeArity returns the number of children of the node stored in a cell.
func (obj *Heap) NodeArity(addr Addr) int { return Arity(obj.Cell(addr).Node) }

// NodeChild returns the nth child address of the node stored in a cell.
func (obj *Heap) NodeChild(addr Addr, n int) (Addr, error) {
	c, err := ChildAt(obj.Cell(addr).Node, n)
	if err != nil {
		return NoAddr, err
	}
	return c.Addr, nil
}

// IsUpdated returns true if the cell has an indirection.
func (obj *Heap) IsUpdated(addr Addr) bool {
	return obj.Cell(addr).updated
}

// UpdatedTo returns the immediate indirection target of a cell.
func (obj *Heap) UpdatedTo(addr Addr) (Addr, bool) {
	return obj.Cell(addr).Indirect()
}

// DirectAddrOf follows the indirection chain to its end.
func (obj *Heap) DirectAddrOf(addr Addr) Addr {
	cell := obj.Cell(addr)
	for cell.updated {
		addr = cell.indirect
		cell = obj.Cell(addr)
	}
	return addr
}

// ChainAddrs returns the indirection chain of an address, oldest first. The
// first element is the address itself and the last is DirectAddrOf.
func (obj *Heap) ChainAddrs(addr Addr) []Addr {
	chain := []Addr{addr}
	cell := obj.Cell(addr)
	for cell.updated {
		addr = cell.indirect
		chain = append(chain, addr)
		cell = obj.Cell(addr)
	}
	return chain
}

// SetForm records reduction progress. Forms only ever go up, or sink into
// FormError, so a weaker form than the current one is ignored. Nothing leaves
// the error form.
func (obj *Heap) SetForm(addr Addr, form interfaces.Form) error {
	if !form.Valid() {
		return errwrap.Wrapf(interfaces.ErrInvalidForm, "form %d", form)
	}
	cell := obj.Cell(addr)
	if cell.Form == interfaces.FormError {
		return nil
	}
	if form == interfaces.FormError || form > cell.Form {
		cell.Form = form
	}
	return nil
}

// Link records that from was reduced to to. The target is resolved to its
// direct address first, which keeps every chain free of cycles.
func (obj *Heap) Link(from, to Addr) error {
	if !obj.Valid(from) || !obj.Valid(to) {
		return errwrap.Wrapf(interfaces.ErrInvalidAddr, "link @%d -> @%d", from, to)
	}
	cell := obj.cells[from]
	if cell.updated {
		return errwrap.Wrapf(interfaces.ErrAlreadyUpdated, "link @%d -> @%d (already @%d)", from, to, cell.indirect)
	}
	direct := obj.DirectAddrOf(to)
	if direct == from {
		return errwrap.Wrapf(interfaces.ErrSelfLink, "link @%d -> @%d", from, to)
	}
	if d1, d2 := cell.Depth, obj.cells[direct].Depth; d2 > d1 {
		obj.Logf("warning: link @%d (depth %d) -> @%d (depth %d) goes deeper", from, d1, direct, d2)
	}
	cell.indirect = direct
	cell.updated = true
	if obj.Debug {
		obj.Logf("link: @%d -> @%d", from, direct)
	}
	return nil
}

// SetCachedCopy memoizes the copy of a cell. It is only stored when the cell
// has already reached its target form, since a premature copy could hide a
// later strengthening.
func (obj *Heap) SetCachedCopy(addr, copied Addr) bool {
	cell := obj.Cell(addr)
	if cell.Form != cell.Target {
		return false
	}
	if cell.hasCached {
		return cell.cached == copied
	}
	cell.cached = copied
	cell.hasCached = true
	return true
}

// Allocate returns the address of a cell holding the given value. If an equal
// cell exists, its address is returned, otherwise a new cell is appended with
// form None. The depth invariants are checked first.
func (obj *Heap) Allocate(depth int, node Node, typ Addr, target interfaces.Form) (Addr, error) {
	if err := obj.validate(depth, node, typ, target); err != nil {
		return NoAddr, errwrap.Wrapf(err, "allocate %s at depth %d", nodeString(node), depth)
	}

	want := Value{
		Depth:  depth,
		Node:   node,
		Type:   typ,
		Target: target,
	}
	k := key(obj.seed, depth, node, typ, target)

	addr := NoAddr
	for _, a := range obj.index[k] {
		if valueEqual(&obj.cells[a].Value, &want) {
			addr = a
			break
		}
	}
	if addr == NoAddr {
		if p, ok := node.(Prim); ok { // don't alias the caller's slice
			args := make([]Addr, len(p.Args))
			copy(args, p.Args)
			p.Args = args
			want.Node = p
		}
		addr = Addr(len(obj.cells))
		want.Form = interfaces.FormNone
		obj.cells = append(obj.cells, &Cell{Value: want})
		obj.index[k] = append(obj.index[k], addr)
	}

	if !valueEqual(&obj.cells[addr].Value, &want) {
		return NoAddr, errwrap.Wrapf(interfaces.ErrHashConsingFailed, "cell @%d", addr)
	}
	return addr, nil
}

func (obj *Heap) validate(depth int, node Node, typ Addr, target interfaces.Form) error {
	if depth < 0 {
		return errwrap.Wrapf(interfaces.ErrDepthViolation, "negative depth")
	}
	if !target.IsTarget() {
		return errwrap.Wrapf(interfaces.ErrInvalidForm, "target %s", target)
	}
	if err := validateNode(node); err != nil {
		return err
	}
	if !obj.Valid(typ) {
		return errwrap.Wrapf(interfaces.ErrInvalidAddr, "type @%d", typ)
	}
	if d := obj.cells[typ].Depth; d > depth {
		return errwrap.Wrapf(interfaces.ErrDepthViolation, "type @%d has depth %d", typ, d)
	}
	if IsTypeConst(node, typ) && depth != 0 {
		return errwrap.Wrapf(interfaces.ErrDepthViolation, "type constant must be at depth 0")
	}
	for i, c := range Children(node) {
		if !obj.Valid(c.Addr) {
			return errwrap.Wrapf(interfaces.ErrInvalidAddr, "child %d is @%d", i, c.Addr)
		}
		max := depth
		if c.Binder {
			max = depth + 1
		}
		if d := obj.cells[c.Addr].Depth; d > max {
			return errwrap.Wrapf(interfaces.ErrDepthViolation, "child %d (@%d) has depth %d, max is %d", i, c.Addr, d, max)
		}
	}
	if v, ok := node.(Var); ok && !obj.paths.Valid(v.Path) {
		return errwrap.Wrapf(interfaces.ErrInvalidNode, "unknown path key %d", v.Path)
	}
	return nil
}

// valueEqual compares everything that hash consing keys on.
func valueEqual(a, b *Value) bool {
	return a.Depth == b.Depth && a.Type == b.Type && a.Target == b.Target && NodeEqual(a.Node, b.Node)
}

func nodeString(node Node) string {
	if node == nil {
		return "<nil>"
	}
	return node.String()
}

func pathSuffix(paths *PathTrie, key PathKey) string {
	if key == RootPath {
		return ""
	}
	return "." + paths.String(key)
}
