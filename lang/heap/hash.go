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
	"encoding/binary"
	"fmt"
	"hash/maphash"

	"github.com/purpleidea/tygraph/lang/interfaces"
)

// Hash is the type of our structural key. This is taken from the golang
// hash/maphash.Sum64() return type. Equal keys don't imply equal cells, the
// candidates of a bucket are always compared with valueEqual.
type Hash uint64

// Seed is the hashing seed of a heap.
type Seed maphash.Seed

// MakeSeed generates a random seed for our hashing purposes.
func MakeSeed() Seed {
	return Seed(maphash.MakeSeed())
}

// key computes the structural key of a cell value. The form is not part of it,
// since it changes as reduction progresses.
func key(seed Seed, depth int, node Node, typ Addr, target interfaces.Form) Hash {
	var h maphash.Hash
	h.SetSeed(maphash.Seed(seed))

	writeInt(&h, int64(depth))
	writeInt(&h, int64(typ))
	writeInt(&h, int64(target))
	appendNode(&h, node) // causes subsequent h.Write( ... )

	return Hash(h.Sum64())
}

func writeInt(h *maphash.Hash, i int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(i))
	h.Write(buf[:])
}

func writeBool(h *maphash.Hash, b bool) {
	if b {
		h.WriteByte(1)
		return
	}
	h.WriteByte(0)
}

// similar to appendT in: src/hash/maphash/maphash_purego.go
func appendNode(h *maphash.Hash, node Node) {
	writeInt(h, int64(node.Tag()))

	switch x := node.(type) {
	case Datum:
		switch v := x.Value.(type) {
		case nil:
			h.WriteByte(0)
		case bool:
			h.WriteByte(1)
			writeBool(h, v)
		case int64:
			h.WriteByte(2)
			writeInt(h, v)
		case string:
			h.WriteByte(3)
			// length first so that adjacent strings can't collide
			writeInt(h, int64(len(v)))
			h.WriteString(v)
		default:
			panic(fmt.Sprintf("hash of invalid datum: %T", x.Value))
		}

	case SingleStr:
		writeInt(h, int64(len(x.Value)))
		h.WriteString(x.Value)

	case Var:
		writeInt(h, int64(x.Path))

	case TyVar:
		// nothing but the tag

	case Lambda:
		writeBool(h, x.No)
		writeBool(h, x.Yes)
		writeInt(h, int64(x.Pat))
		writeInt(h, int64(x.Body))

	case TyFun:
		writeBool(h, x.No)
		writeBool(h, x.Yes)
		writeInt(h, int64(x.Dom))
		writeInt(h, int64(x.Cod))

	case Prim:
		writeBool(h, x.Ctor)
		writeInt(h, int64(len(x.Name)))
		h.WriteString(x.Name)
		writeInt(h, int64(len(x.Args)))
		for _, a := range x.Args {
			writeInt(h, int64(a))
		}

	default:
		// the remaining shapes are fully described by their children
		for _, c := range Children(node) {
			writeInt(h, int64(c.Addr))
		}
	}
}
