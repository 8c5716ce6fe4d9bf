// Package jsonvalue models untyped upstream JSON as a tagged variant that
// keeps object member order and container identity.
package jsonvalue

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "null"
	}
}

// Value is one JSON value. The zero Value is null, which is also what
// lookups of missing keys return.
type Value struct {
	kind Kind
	b    bool
	n    float64
	raw  string // number literal or string contents
	arr  *Array
	obj  *Object
}

type Array struct {
	Items []Value
}

type Member struct {
	Key   string
	Value Value
}

// Object keeps members in wire order. Setting an existing key replaces its
// value in place.
type Object struct {
	Members []Member
}

func NewObject() *Object {
	return &Object{}
}

func (o *Object) Set(key string, v Value) *Object {
	for i := range o.Members {
		if o.Members[i].Key == key {
			o.Members[i].Value = v
			return o
		}
	}
	o.Members = append(o.Members, Member{Key: key, Value: v})
	return o
}

func (o *Object) Get(key string) (Value, bool) {
	for _, m := range o.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

func Null() Value {
	return Value{}
}

func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

func Number(f float64) Value {
	return Value{kind: KindNumber, n: f, raw: strconv.FormatFloat(f, 'f', -1, 64)}
}

var numberGrammar = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// NumberLiteral keeps the literal text so large identifiers render exactly.
// Text that is not a JSON number yields null.
func NumberLiteral(literal string) Value {
	if !numberGrammar.MatchString(literal) {
		return Value{}
	}
	f, _ := strconv.ParseFloat(literal, 64)
	return Value{kind: KindNumber, n: f, raw: literal}
}

func String(s string) Value {
	return Value{kind: KindString, raw: s}
}

func FromArray(a *Array) Value {
	if a == nil {
		return Value{}
	}
	return Value{kind: KindArray, arr: a}
}

func FromObject(o *Object) Value {
	if o == nil {
		return Value{}
	}
	return Value{kind: KindObject, obj: o}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

func (v Value) IsScalar() bool {
	return v.kind == KindString || v.kind == KindNumber
}

func (v Value) IsContainer() bool {
	return v.kind == KindArray || v.kind == KindObject
}

// Items returns array elements, or nil for anything else.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.arr.Items
}

// Get returns the member value for key, or null when v is not an object or
// the key is missing.
func (v Value) Get(key string) Value {
	if v.kind != KindObject {
		return Value{}
	}
	got, _ := v.obj.Get(key)
	return got
}

// Path walks nested object keys.
func (v Value) Path(keys ...string) Value {
	cur := v
	for _, k := range keys {
		cur = cur.Get(k)
		if cur.IsNull() {
			return cur
		}
	}
	return cur
}

// Float coerces numbers and numeric-looking strings. Anything that does not
// yield a finite number is reported as absent.
func (v Value) Float() (float64, bool) {
	var f float64
	switch v.kind {
	case KindNumber:
		f = v.n
	case KindString:
		s := strings.TrimSpace(v.raw)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Text renders scalars as display text. Numbers use their literal form.
func (v Value) Text() (string, bool) {
	switch v.kind {
	case KindString, KindNumber:
		return v.raw, true
	case KindBool:
		return strconv.FormatBool(v.b), true
	default:
		return "", false
	}
}

// Coalesce returns the first non-null value.
func Coalesce(values ...Value) Value {
	for _, v := range values {
		if !v.IsNull() {
			return v
		}
	}
	return Value{}
}

// First returns the first non-null member among keys.
func (v Value) First(keys ...string) Value {
	for _, k := range keys {
		if got := v.Get(k); !got.IsNull() {
			return got
		}
	}
	return Value{}
}
