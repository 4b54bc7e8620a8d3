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

	"github.com/hashicorp/go-set/v3"
)

// String returns a compact representation of the term rooted at addr. It
// follows indirections and children, and prints a back reference for anything
// it is already printing, so it terminates on cyclic graphs.
func (obj *Heap) String(addr Addr) string {
	return obj.str(addr, set.New[Addr](0))
}

func (obj *Heap) str(addr Addr, active *set.Set[Addr]) string {
	addr = obj.DirectAddrOf(addr)
	if !active.Insert(addr) {
		return fmt.Sprintf("@%d", addr)
	}
	defer active.Remove(addr)

	cell := obj.cells[addr]
	return Visit[string](cell.Node, &printer{
		heap:   obj,
		cell:   cell,
		active: active,
	})
}

// printer formats one cell, and recurses into its children through the heap.
type printer struct {
	heap   *Heap
	cell   *Cell
	active *set.Set[Addr]
}

func (obj *printer) sub(a Addr) string { return obj.heap.str(a, obj.active) }

func (obj *printer) Datum(x Datum) string         { return x.String() }
func (obj *printer) SingleStr(x SingleStr) string { return x.String() }

func (obj *printer) Var(x Var) string {
	return fmt.Sprintf("v%d%s", obj.cell.Depth, pathSuffix(obj.heap.paths, x.Path))
}

func (obj *printer) TyVar(TyVar) string { return fmt.Sprintf("t%d", obj.cell.Depth) }

func (obj *printer) Pair(x Pair) string {
	return fmt.Sprintf("(%s, %s)", obj.sub(x.Hd), obj.sub(x.Tl))
}

func (obj *printer) TyPair(x TyPair) string {
	return fmt.Sprintf("[%s, %s]", obj.sub(x.Hd), obj.sub(x.Tl))
}

func (obj *printer) Apply(x Apply) string {
	return fmt.Sprintf("(%s %s)", obj.sub(x.Func), obj.sub(x.Arg))
}

func (obj *printer) TyApply(x TyApply) string {
	return fmt.Sprintf("{%s %s}", obj.sub(x.Func), obj.sub(x.Arg))
}

func (obj *printer) Lambda(x Lambda) string {
	return fmt.Sprintf("\\%s%s -> %s", flags(x.No, x.Yes), obj.sub(x.Pat), obj.sub(x.Body))
}

func (obj *printer) TyFun(x TyFun) string {
	return fmt.Sprintf("(%s%s => %s)", flags(x.No, x.Yes), obj.sub(x.Dom), obj.sub(x.Cod))
}

func (obj *printer) As(x As) string {
	return fmt.Sprintf("%s@%s", obj.sub(x.Var), obj.sub(x.Pat))
}

func (obj *printer) TyAnnot(x TyAnnot) string {
	return fmt.Sprintf("(%s : %s)", obj.sub(x.Term), obj.sub(obj.cell.Type))
}

func (obj *printer) Prim(x Prim) string {
	s := x.Name
	for _, a := range x.Args {
		s += " " + obj.sub(a)
	}
	if len(x.Args) > 0 {
		s = "(" + s + ")"
	}
	return s
}
