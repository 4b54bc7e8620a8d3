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
	"strconv"
	"strings"
)

// Tag identifies the shape of a node.
type Tag int

// Each Tag is one variant of the Node sum type. Terms and types share the same
// node type so that they can refer to each other.
const (
	TagDatum Tag = iota
	TagPair
	TagApply
	TagLambda
	TagVar
	TagAs
	TagTyAnnot
	TagSingleStr
	TagTyPair
	TagTyApply
	TagTyFun
	TagTyVar
	TagPrim
)

var tagNames = []string{
	"Datum",
	"Pair",
	"Apply",
	"Lambda",
	"Var",
	"As",
	"TyAnnot",
	"SingleStr",
	"TyPair",
	"TyApply",
	"TyFun",
	"TyVar",
	"Prim",
}

// String returns the name of the variant.
func (obj Tag) String() string {
	if obj < 0 || int(obj) >= len(tagNames) {
		return "Tag(" + strconv.Itoa(int(obj)) + ")"
	}
	return tagNames[obj]
}

// Node is the closed sum type of everything that can be stored in a heap cell.
// The variants are the value types in this file, and nothing outside this
// package can add more.
type Node interface {
	// Tag returns the variant of this node.
	Tag() Tag

	// String returns a short representation which does not follow
	// children.
	String() string

	node() // seal
}

// Datum is a literal value. Supported values are nil, bool, int64 and string.
type Datum struct {
	Value interface{}
}

// Pair is a term level cons cell.
type Pair struct {
	Hd Addr
	Tl Addr
}

// Apply is a term level function application.
type Apply struct {
	Func Addr
	Arg  Addr
}

// Lambda is a function. The pattern and the body are allocated in the scope of
// the binder, which is one deeper than the lambda itself. If No is set, the
// function is partial and returns the nil datum when the pattern fails to
// match. If Yes is set, successful results are wrapped in a (value, nil) pair.
type Lambda struct {
	No   bool
	Yes  bool
	Pat  Addr
	Body Addr
}

// Var is a term variable. Its depth names the binder, and its path names the
// projection of the bound argument that it refers to.
type Var struct {
	Path PathKey
}

// As is an as-pattern, it binds the variable and matches the sub pattern.
type As struct {
	Var Addr
	Pat Addr
}

// TyAnnot is a term annotated with its type. The annotation is the type of the
// cell that holds this node.
type TyAnnot struct {
	Term Addr
}

// SingleStr is the singleton type containing only one string.
type SingleStr struct {
	Value string
}

// TyPair is the type of a pair.
type TyPair struct {
	Hd Addr
	Tl Addr
}

// TyApply is a type level application. It reduces by substitution into a
// function type, or by distribution over unions and intersections.
type TyApply struct {
	Func Addr
	Arg  Addr
}

// TyFun is a possibly dependent function type. The domain and codomain are in
// the scope of the binder, so the codomain may mention the bound variable.
type TyFun struct {
	No  bool
	Yes bool
	Dom Addr
	Cod Addr
}

// TyVar is the type variable of a binder. Its depth names the binder.
type TyVar struct{}

// Prim is the catch all for operators, primitives and type constructors. If
// Ctor is set, the node is a constructor marker and is never run.
type Prim struct {
	Ctor bool
	Name string
	Args []Addr
}

func (Datum) node()     {}
func (Pair) node()      {}
func (Apply) node()     {}
func (Lambda) node()    {}
func (Var) node()       {}
func (As) node()        {}
func (TyAnnot) node()   {}
func (SingleStr) node() {}
func (TyPair) node()    {}
func (TyApply) node()   {}
func (TyFun) node()     {}
func (TyVar) node()     {}
func (Prim) node()      {}

// Tag returns the variant of this node.
func (Datum) Tag() Tag { return TagDatum }

// Tag returns the variant of this node.
func (Pair) Tag() Tag { return TagPair }

// Tag returns the variant of this node.
func (Apply) Tag() Tag { return TagApply }

// Tag returns the variant of this node.
func (Lambda) Tag() Tag { return TagLambda }

// Tag returns the variant of this node.
func (Var) Tag() Tag { return TagVar }

// Tag returns the variant of this node.
func (As) Tag() Tag { return TagAs }

// Tag returns the variant of this node.
func (TyAnnot) Tag() Tag { return TagTyAnnot }

// Tag returns the variant of this node.
func (SingleStr) Tag() Tag { return TagSingleStr }

// Tag returns the variant of this node.
func (TyPair) Tag() Tag { return TagTyPair }

// Tag returns the variant of this node.
func (TyApply) Tag() Tag { return TagTyApply }

// Tag returns the variant of this node.
func (TyFun) Tag() Tag { return TagTyFun }

// Tag returns the variant of this node.
func (TyVar) Tag() Tag { return TagTyVar }

// Tag returns the variant of this node.
func (Prim) Tag() Tag { return TagPrim }

func (obj Datum) String() string { return DatumString(obj.Value) }
func (obj Pair) String() string  { return fmt.Sprintf("pair(@%d, @%d)", obj.Hd, obj.Tl) }
func (obj Apply) String() string { return fmt.Sprintf("apply(@%d, @%d)", obj.Func, obj.Arg) }
func (obj Lambda) String() string {
	return fmt.Sprintf("lambda%s(@%d, @%d)", flags(obj.No, obj.Yes), obj.Pat, obj.Body)
}
func (obj Var) String() string       { return fmt.Sprintf("var(%d)", obj.Path) }
func (obj As) String() string        { return fmt.Sprintf("as(@%d, @%d)", obj.Var, obj.Pat) }
func (obj TyAnnot) String() string   { return fmt.Sprintf("annot(@%d)", obj.Term) }
func (obj SingleStr) String() string { return fmt.Sprintf("single(%s)", strconv.Quote(obj.Value)) }
func (obj TyPair) String() string    { return fmt.Sprintf("typair(@%d, @%d)", obj.Hd, obj.Tl) }
func (obj TyApply) String() string   { return fmt.Sprintf("tyapply(@%d, @%d)", obj.Func, obj.Arg) }
func (obj TyFun) String() string {
	return fmt.Sprintf("tyfun%s(@%d, @%d)", flags(obj.No, obj.Yes), obj.Dom, obj.Cod)
}
func (obj TyVar) String() string { return "tyvar" }
func (obj Prim) String() string {
	args := []string{}
	for _, x := range obj.Args {
		args = append(args, fmt.Sprintf("@%d", x))
	}
	s := obj.Name
	if obj.Ctor {
		s = "#" + s
	}
	if len(args) == 0 {
		return s
	}
	return fmt.Sprintf("%s(%s)", s, strings.Join(args, ", "))
}

func flags(no, yes bool) string {
	s := ""
	if no {
		s += "?"
	}
	if yes {
		s += "!"
	}
	return s
}

// DatumString formats a datum value.
func DatumString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case string:
		return strconv.Quote(x)
	}
	return fmt.Sprintf("<invalid %T>", v)
}

// ValidDatum returns true if the value can be stored in a Datum.
func ValidDatum(v interface{}) bool {
	switch v.(type) {
	case nil, bool, int64, string:
		return true
	}
	return false
}

// NodeEqual compares two nodes by shape, attributes and child addresses. This
// is the equality used by hash consing, so it does not follow children.
func NodeEqual(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Tag() != b.Tag() {
		return false
	}
	if pa, ok := a.(Prim); ok {
		pb := b.(Prim)
		if pa.Ctor != pb.Ctor || pa.Name != pb.Name || len(pa.Args) != len(pb.Args) {
			return false
		}
		for i := range pa.Args {
			if pa.Args[i] != pb.Args[i] {
				return false
			}
		}
		return true
	}
	// every other variant is comparable
	return a == b
}
