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

// Package yamlgraph provides the facilities for loading a heap graph from a
// yaml document. A document names some nodes, and each node is an expression
// which is built into the heap with the builder.
package yamlgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/purpleidea/tygraph/util/errwrap"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// Lambda is the data structure of a function. The pattern and the body are in
// a new scope.
type Lambda struct {
	No   bool  `yaml:"no"`
	Yes  bool  `yaml:"yes"`
	Pat  *Expr `yaml:"pat"`
	Body *Expr `yaml:"body"`
}

// Expr is the data structure of one expression. Exactly one of the shape fields
// must be set. Args and Type modify the op, tyop and ctor shapes, and Scope
// modifies the var shape.
type Expr struct {
	Ref     string  `yaml:"ref,omitempty"`
	Int     *int64  `yaml:"int,omitempty"`
	Str     *string `yaml:"str,omitempty"`
	Bool    *bool   `yaml:"bool,omitempty"`
	Nil     bool    `yaml:"nil,omitempty"`
	Const   string  `yaml:"const,omitempty"`
	Var     *string `yaml:"var,omitempty"`
	Pair    []*Expr `yaml:"pair,omitempty"`
	TyPair  []*Expr `yaml:"typair,omitempty"`
	List    []*Expr `yaml:"list,omitempty"`
	Apply   []*Expr `yaml:"apply,omitempty"`
	TyApply []*Expr `yaml:"tyapply,omitempty"`
	Arrow   []*Expr `yaml:"arrow,omitempty"`
	Lambda  *Lambda `yaml:"lambda,omitempty"`
	Op      string  `yaml:"op,omitempty"`
	TyOp    string  `yaml:"tyop,omitempty"`
	Ctor    string  `yaml:"ctor,omitempty"`
	Fix     *Expr   `yaml:"fix,omitempty"`
	Annot   *Expr   `yaml:"annot,omitempty"`

	// Scope is the number of scopes to go out of to find the variable. The
	// innermost scope is zero.
	Scope int `yaml:"scope,omitempty"`

	// Args are the arguments of an operator or a constructor.
	Args []*Expr `yaml:"args,omitempty"`

	// Type is the result type of an op, or the annotated type.
	Type *Expr `yaml:"type,omitempty"`

	// Strong builds this expression and everything under it with the strong
	// target.
	Strong bool `yaml:"strong,omitempty"`
}

// shapes returns the names of the shape fields that are set.
func (obj *Expr) shapes() []string {
	shapes := []string{}
	add := func(set bool, name string) {
		if set {
			shapes = append(shapes, name)
		}
	}
	add(obj.Ref != "", "ref")
	add(obj.Int != nil, "int")
	add(obj.Str != nil, "str")
	add(obj.Bool != nil, "bool")
	add(obj.Nil, "nil")
	add(obj.Const != "", "const")
	add(obj.Var != nil, "var")
	add(obj.Pair != nil, "pair")
	add(obj.TyPair != nil, "typair")
	add(obj.List != nil, "list")
	add(obj.Apply != nil, "apply")
	add(obj.TyApply != nil, "tyapply")
	add(obj.Arrow != nil, "arrow")
	add(obj.Lambda != nil, "lambda")
	add(obj.Op != "", "op")
	add(obj.TyOp != "", "tyop")
	add(obj.Ctor != "", "ctor")
	add(obj.Fix != nil, "fix")
	add(obj.Annot != nil, "annot")
	return shapes
}

// Validate checks the expression and everything under it. All of the problems
// are returned together.
func (obj *Expr) Validate() error {
	if obj == nil {
		return fmt.Errorf("missing expression")
	}
	shapes := obj.shapes()
	if len(shapes) != 1 {
		return fmt.Errorf("expected exactly one shape, got: [%s]", strings.Join(shapes, ", "))
	}
	shape := shapes[0]

	var reterr error
	check := func(name string, e *Expr) {
		if err := e.Validate(); err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "%s", name))
		}
	}
	checkN := func(n int, list []*Expr) {
		if n >= 0 && len(list) != n {
			reterr = errwrap.Append(reterr, fmt.Errorf("%s needs %d expressions, got: %d", shape, n, len(list)))
		}
		for i, e := range list {
			check(fmt.Sprintf("%s[%d]", shape, i), e)
		}
	}

	switch shape {
	case "pair":
		checkN(2, obj.Pair)
	case "typair":
		checkN(2, obj.TyPair)
	case "apply":
		checkN(2, obj.Apply)
	case "tyapply":
		checkN(2, obj.TyApply)
	case "arrow":
		checkN(2, obj.Arrow)
	case "list":
		checkN(-1, obj.List)
	case "lambda":
		check("lambda pat", obj.Lambda.Pat)
		check("lambda body", obj.Lambda.Body)
	case "op":
		check("op type", obj.Type)
	case "annot":
		check("annot", obj.Annot)
		check("annot type", obj.Type)
	case "fix":
		check("fix", obj.Fix)
	case "var":
		if _, err := parsePath(*obj.Var); err != nil {
			reterr = errwrap.Append(reterr, err)
		}
		if obj.Scope < 0 {
			reterr = errwrap.Append(reterr, fmt.Errorf("negative scope: %d", obj.Scope))
		}
	}

	switch shape {
	case "op", "tyop", "ctor":
		checkN(-1, obj.Args)
	default:
		if obj.Args != nil {
			reterr = errwrap.Append(reterr, fmt.Errorf("%s can't have args", shape))
		}
	}
	if obj.Type != nil && shape != "op" && shape != "annot" {
		reterr = errwrap.Append(reterr, fmt.Errorf("%s can't have a type", shape))
	}
	if obj.Scope != 0 && shape != "var" {
		reterr = errwrap.Append(reterr, fmt.Errorf("%s can't have a scope", shape))
	}
	return reterr
}

// Document is the data structure of a whole yaml graph.
type Document struct {
	Graph   string           `yaml:"graph"`
	Comment string           `yaml:"comment"`
	Root    string           `yaml:"root"`
	Nodes   map[string]*Expr `yaml:"nodes"`
}

// Names returns the node names in a stable order.
func (obj *Document) Names() []string {
	names := []string{}
	for name := range obj.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the document. All of the problems are returned together.
func (obj *Document) Validate() error {
	var reterr error
	if obj.Graph == "" {
		reterr = errwrap.Append(reterr, fmt.Errorf("invalid graph name"))
	}
	if obj.Root != "" {
		if _, exists := obj.Nodes[obj.Root]; !exists {
			reterr = errwrap.Append(reterr, fmt.Errorf("root node %s does not exist", obj.Root))
		}
	}
	for _, name := range obj.Names() {
		e := obj.Nodes[name]
		if err := e.Validate(); err != nil {
			reterr = errwrap.Append(reterr, errwrap.Wrapf(err, "node %s", name))
			continue
		}
		for _, ref := range e.refs() {
			if _, exists := obj.Nodes[ref]; !exists {
				reterr = errwrap.Append(reterr, fmt.Errorf("node %s refers to missing node %s", name, ref))
			}
		}
	}
	return reterr
}

// refs returns every node name that the expression refers to.
func (obj *Expr) refs() []string {
	refs := []string{}
	var walk func(*Expr)
	walk = func(e *Expr) {
		if e == nil {
			return
		}
		if e.Ref != "" {
			refs = append(refs, e.Ref)
		}
		for _, list := range [][]*Expr{e.Pair, e.TyPair, e.List, e.Apply, e.TyApply, e.Arrow, e.Args} {
			for _, x := range list {
				walk(x)
			}
		}
		if e.Lambda != nil {
			walk(e.Lambda.Pat)
			walk(e.Lambda.Body)
		}
		walk(e.Fix)
		walk(e.Annot)
		walk(e.Type)
	}
	walk(obj)
	return refs
}

// Parse parses a data stream into a validated document.
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	if err := yaml.UnmarshalStrict(data, doc); err != nil {
		return nil, errwrap.Wrapf(err, "can't parse document")
	}
	if err := doc.Validate(); err != nil {
		return nil, errwrap.Wrapf(err, "invalid document")
	}
	return doc, nil
}

// ParseFile reads and parses a document from a file.
func ParseFile(fs afero.Fs, filename string) (*Document, error) {
	data, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, errwrap.Wrapf(err, "can't read %s", filename)
	}
	return Parse(data)
}
