package getopt

import (
	"slices"
	"strconv"
	"strings"
)

// Kind identifies which field of a Value is populated.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindString
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a bound option value: a boolean, an integer, a string or an
// ordered list of strings. The zero Value is the boolean false.
type Value struct {
	kind Kind
	b    bool
	i    int
	s    string
	list []string
}

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer Value.
func Int(i int) Value { return Value{kind: KindInt, i: i} }

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// List returns a list Value holding a copy of items.
func List(items ...string) Value {
	return Value{kind: KindList, list: slices.Clone(items)}
}

// Kind reports the kind of v.
func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean and whether v holds one.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Int returns the integer and whether v holds one.
func (v Value) Int() (int, bool) { return v.i, v.kind == KindInt }

// Str returns the string and whether v holds one.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// List returns a copy of the list and whether v holds one.
func (v Value) List() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return slices.Clone(v.list), true
}

// IsTrue reports whether v is the boolean true, the value of a bare flag.
func (v Value) IsTrue() bool { return v.kind == KindBool && v.b }

// Items renders v as a list: the list itself, or a single rendered element.
func (v Value) Items() []string {
	if v.kind == KindList {
		return slices.Clone(v.list)
	}
	return []string{v.String()}
}

// String renders v as text. Lists are joined with commas.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.Itoa(v.i)
	case KindList:
		return strings.Join(v.list, ",")
	default:
		return v.s
	}
}

// Equal reports whether v and o hold the same kind and contents.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindList:
		return slices.Equal(v.list, o.list)
	default:
		return v.s == o.s
	}
}

// jsonValue returns the value in the shape encoding/json renders for it.
func (v Value) jsonValue() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindList:
		if v.list == nil {
			return []string{}
		}
		return v.list
	default:
		return v.s
	}
}

// appendValue folds an occurrence into an accumulated value. Scalars become
// the first element of the list; lists are flattened.
func appendValue(acc, next Value) Value {
	items := acc.Items()
	if next.kind == KindList {
		items = append(items, next.list...)
	} else {
		items = append(items, next.String())
	}
	return Value{kind: KindList, list: items}
}
