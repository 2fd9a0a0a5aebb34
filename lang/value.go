package lang

import (
	"fmt"
	"sort"
	"strings"
)

// ValueType enumerates the runtime value categories.
type ValueType int

const (
	TypeNil ValueType = iota
	TypeBool
	TypeInt
	TypeReal
	TypeString
	TypeList
	TypeMap
	TypeFunc
)

func (t ValueType) String() string {
	switch t {
	case TypeNil:
		return "nil"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeReal:
		return "real"
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeMap:
		return "map"
	case TypeFunc:
		return "function"
	default:
		return "unknown"
	}
}

// Value represents any runtime object produced or consumed by a comprehension.
type Value struct {
	Type    ValueType
	payload interface{}
}

// List is a mutable sequence. Elements are addressed 1-based from the
// expression language.
type List struct {
	Elems []Value
}

// Map is a mutable mapping with scalar keys.
type Map struct {
	Entries map[Value]Value
}

// Func is a callable exposed to expressions. It may return multiple values;
// expression contexts keep the first, iterator clauses keep them all.
type Func func(args []Value) ([]Value, error)

// Nil is the absent value.
var Nil = Value{Type: TypeNil}

// BoolValue returns the boolean Value equivalent.
func BoolValue(b bool) Value {
	return Value{Type: TypeBool, payload: b}
}

// IntValue constructs an integer Value.
func IntValue(i int64) Value {
	return Value{Type: TypeInt, payload: i}
}

// RealValue constructs a floating-point Value.
func RealValue(f float64) Value {
	return Value{Type: TypeReal, payload: f}
}

// StringValue constructs a string Value.
func StringValue(s string) Value {
	return Value{Type: TypeString, payload: s}
}

// ListValue wraps a slice of elements in a fresh List.
func ListValue(elems []Value) Value {
	return Value{Type: TypeList, payload: &List{Elems: elems}}
}

// MapValue constructs an empty mapping.
func MapValue() Value {
	return Value{Type: TypeMap, payload: &Map{Entries: make(map[Value]Value)}}
}

// FuncValue wraps a Go function.
func FuncValue(fn Func) Value {
	return Value{Type: TypeFunc, payload: fn}
}

func (v Value) Bool() bool {
	if b, ok := v.payload.(bool); ok {
		return b
	}
	return false
}

func (v Value) Int() int64 {
	if i, ok := v.payload.(int64); ok {
		return i
	}
	return 0
}

func (v Value) Real() float64 {
	if f, ok := v.payload.(float64); ok {
		return f
	}
	return 0
}

func (v Value) Str() string {
	if s, ok := v.payload.(string); ok {
		return s
	}
	return ""
}

func (v Value) List() *List {
	if l, ok := v.payload.(*List); ok {
		return l
	}
	return nil
}

func (v Value) Map() *Map {
	if m, ok := v.payload.(*Map); ok {
		return m
	}
	return nil
}

func (v Value) Func() Func {
	if f, ok := v.payload.(Func); ok {
		return f
	}
	return nil
}

// IsNil reports whether the value is the absent value.
func (v Value) IsNil() bool {
	return v.Type == TypeNil
}

// IsNumber reports whether the value is an int or a real.
func (v Value) IsNumber() bool {
	return v.Type == TypeInt || v.Type == TypeReal
}

// AsReal converts a numeric value to float64. Non-numbers yield 0.
func (v Value) AsReal() float64 {
	switch v.Type {
	case TypeInt:
		return float64(v.Int())
	case TypeReal:
		return v.Real()
	default:
		return 0
	}
}

// Truthy reports the boolean interpretation of a value: nil and false are
// falsy, everything else is truthy.
func (v Value) Truthy() bool {
	switch v.Type {
	case TypeNil:
		return false
	case TypeBool:
		return v.Bool()
	default:
		return true
	}
}

// Scalar reports whether the value may serve as a mapping key.
func (v Value) Scalar() bool {
	switch v.Type {
	case TypeBool, TypeInt, TypeReal, TypeString:
		return true
	default:
		return false
	}
}

// Equal compares two values. Ints and reals compare numerically; lists and
// maps compare by identity; functions never compare equal.
func Equal(a, b Value) bool {
	if a.IsNumber() && b.IsNumber() {
		if a.Type == TypeInt && b.Type == TypeInt {
			return a.Int() == b.Int()
		}
		return a.AsReal() == b.AsReal()
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case TypeNil:
		return true
	case TypeBool:
		return a.Bool() == b.Bool()
	case TypeString:
		return a.Str() == b.Str()
	case TypeList:
		return a.List() == b.List()
	case TypeMap:
		return a.Map() == b.Map()
	default:
		return false
	}
}

// Less orders two values. Numbers order numerically, strings
// lexicographically; any other combination is an error.
func Less(a, b Value) (bool, error) {
	if a.IsNumber() && b.IsNumber() {
		if a.Type == TypeInt && b.Type == TypeInt {
			return a.Int() < b.Int(), nil
		}
		return a.AsReal() < b.AsReal(), nil
	}
	if a.Type == TypeString && b.Type == TypeString {
		return a.Str() < b.Str(), nil
	}
	return false, fmt.Errorf("attempt to compare %s with %s", a.Type, b.Type)
}

func (v Value) String() string {
	switch v.Type {
	case TypeNil:
		return "nil"
	case TypeBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case TypeInt:
		return fmt.Sprintf("%d", v.Int())
	case TypeReal:
		return fmt.Sprintf("%g", v.Real())
	case TypeString:
		return fmt.Sprintf("%q", v.Str())
	case TypeList:
		return listToString(v.List())
	case TypeMap:
		return mapToString(v.Map())
	case TypeFunc:
		return "<function>"
	default:
		return "<unknown>"
	}
}

func listToString(l *List) string {
	var out strings.Builder
	out.WriteByte('[')
	for i, el := range l.Elems {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(el.String())
	}
	out.WriteByte(']')
	return out.String()
}

func mapToString(m *Map) string {
	keys := make([]Value, 0, len(m.Entries))
	for k := range m.Entries {
		keys = append(keys, k)
	}
	// Deterministic rendering regardless of map iteration order.
	sort.Slice(keys, func(i, j int) bool {
		if less, err := Less(keys[i], keys[j]); err == nil {
			return less
		}
		return keys[i].String() < keys[j].String()
	})
	var out strings.Builder
	out.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(k.String())
		out.WriteString(": ")
		out.WriteString(m.Entries[k].String())
	}
	out.WriteByte('}')
	return out.String()
}
