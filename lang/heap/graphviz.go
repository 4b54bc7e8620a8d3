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
	"os/exec"
	"sort"
	"strconv"

	"github.com/hashicorp/go-set/v3"
	"github.com/spf13/afero"
)

// Graphviz outputs the part of the heap reachable from roots in graphviz
// format. Child edges are labelled with their index, binder edges are bold, and
// indirections are dashed. Types are not followed.
// https://en.wikipedia.org/wiki/DOT_%28graph_description_language%29
func (obj *Heap) Graphviz(name string, roots ...Addr) (out string) {
	if name == "" {
		name = obj.id.String()
	}
	seen := set.New[Addr](0)
	todo := append([]Addr{}, roots...)
	for len(todo) > 0 {
		a := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		if !obj.Valid(a) || !seen.Insert(a) {
			continue
		}
		cell := obj.cells[a]
		if cell.updated {
			todo = append(todo, cell.indirect)
		}
		for _, c := range Children(cell.Node) {
			todo = append(todo, c.Addr)
		}
	}
	addrs := seen.Slice()
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	out += fmt.Sprintf("digraph \"%s\" {\n", name)
	out += fmt.Sprintf("\tlabel=\"%s\";\n", name)
	str := ""
	for _, a := range addrs {
		cell := obj.cells[a]
		label := fmt.Sprintf("@%d %s\nd=%d %s/%s", a, cell.Node, cell.Depth, cell.Form, cell.Target)
		out += fmt.Sprintf("\t\"%d\" [label=%s];\n", a, strconv.Quote(label))
		for i, c := range Children(cell.Node) {
			style := ""
			if c.Binder {
				style = ",style=bold"
			}
			// use str for clearer output ordering
			str += fmt.Sprintf("\t\"%d\" -> \"%d\" [label=\"%d\"%s];\n", a, c.Addr, i, style)
		}
		if cell.updated {
			str += fmt.Sprintf("\t\"%d\" -> \"%d\" [style=dashed];\n", a, cell.indirect)
		}
	}
	out += str
	out += "}\n"
	return
}

// ExecGraphviz writes out the graphviz data and runs the correct graphviz
// filter command. If program is empty, only the data is written.
func (obj *Heap) ExecGraphviz(fs afero.Fs, program, filename, name string, roots ...Addr) error {
	switch program {
	case "", "dot", "neato", "twopi", "circo", "fdp":
	default:
		return fmt.Errorf("invalid graphviz program selected")
	}

	if filename == "" {
		return fmt.Errorf("no filename given")
	}

	if err := afero.WriteFile(fs, filename, []byte(obj.Graphviz(name, roots...)), 0644); err != nil {
		return fmt.Errorf("error writing to filename")
	}
	if program == "" {
		return nil
	}

	path, err := exec.LookPath(program)
	if err != nil {
		return fmt.Errorf("the Graphviz program is missing")
	}

	out := fmt.Sprintf("%s.png", filename)
	cmd := exec.Command(path, "-Tpng", fmt.Sprintf("-o%s", out), filename)
	if _, err := cmd.Output(); err != nil {
		return fmt.Errorf("error writing to image")
	}
	return nil
}
