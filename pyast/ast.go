// Package pyast defines the small expression-node vocabulary shared by
// plugin.EmitASTLiteral, pyemit, and pyparse: just enough of a Python
// expression AST to represent parameter literals and action-point attribute
// references (`aps.<ap>.poses.<ori>`-shaped chains), grounded on
// parameter_ast() in original_source/arcor2/parameter_plugins/pose.py.
package pyast

import (
	"fmt"
	"strconv"
)

// Expr is a Python expression node. Render produces the exact source text
// PyEmit writes and PyParse must be able to read back.
type Expr interface {
	Render() string
}

// Name is a bare identifier reference, e.g. `res` or an enum class name.
type Name struct {
	Id string
}

func (n Name) Render() string { return n.Id }

// Attribute is a `<value>.<attr>` chain, e.g. `aps.ap1.poses.default`.
type Attribute struct {
	Value Expr
	Attr  string
}

func (a Attribute) Render() string { return a.Value.Render() + "." + a.Attr }

// Str is a Python string literal.
type Str struct {
	Value string
}

func (s Str) Render() string { return strconv.Quote(s.Value) }

// Num is a Python int or float literal, rendered from its JSON-decoded form.
type Num struct {
	Value float64
	// IsInt renders Value without a decimal point, matching how `json.loads`
	// of an integer literal round-trips in the original Python source.
	IsInt bool
}

func (n Num) Render() string {
	if n.IsInt {
		return strconv.FormatInt(int64(n.Value), 10)
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// Bool is a Python bool literal (`True`/`False`).
type Bool struct {
	Value bool
}

func (b Bool) Render() string {
	if b.Value {
		return "True"
	}
	return "False"
}

// EnumMember is `<EnumClass>.<MEMBER>`, e.g. `Color.RED`.
type EnumMember struct {
	Class  string
	Member string
}

func (e EnumMember) Render() string { return e.Class + "." + e.Member }

// List is a Python list display `[<elems>]`.
type List struct {
	Elems []Expr
}

func (l List) Render() string {
	s := "["
	for i, e := range l.Elems {
		if i > 0 {
			s += ", "
		}
		s += e.Render()
	}
	return s + "]"
}

// Call is a Python call expression `<func>(<args>)`, with keyword arguments
// rendered after positional ones in the given order.
type Call struct {
	Func     Expr
	Args     []Expr
	KwNames  []string
	KwValues []Expr
}

func (c Call) Render() string {
	s := c.Func.Render() + "("
	first := true
	for _, a := range c.Args {
		if !first {
			s += ", "
		}
		s += a.Render()
		first = false
	}
	for i, name := range c.KwNames {
		if !first {
			s += ", "
		}
		s += fmt.Sprintf("%s=%s", name, c.KwValues[i].Render())
		first = false
	}
	return s + ")"
}
