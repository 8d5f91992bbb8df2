package interp

import (
	"math"
	"strconv"
	"strings"
)

// ValueKind tags the runtime representation of a Value.
type ValueKind uint8

const (
	VKUndefined ValueKind = iota
	VKNull
	VKBool
	VKNumber
	VKString
	VKArray
	VKObject
	VKFunc
	VKBuiltin
)

func (k ValueKind) String() string {
	switch k {
	case VKUndefined:
		return "undefined"
	case VKNull:
		return "null"
	case VKBool:
		return "boolean"
	case VKNumber:
		return "number"
	case VKString:
		return "string"
	case VKArray:
		return "array"
	case VKObject:
		return "object"
	case VKFunc, VKBuiltin:
		return "function"
	}
	return "unknown"
}

// Value — компактное представление рантайм-значения исполняемой формы.
type Value struct {
	Kind    ValueKind
	Bool    bool
	Num     float64
	Str     string
	Arr     *Array
	Obj     *Object
	Fn      *Function
	Builtin BuiltinFunc
}

// Array is a mutable ordered sequence.
type Array struct {
	Elems []Value
}

// Object keeps insertion order of keys so rendering is deterministic.
type Object struct {
	Keys []string
	Vals map[string]Value
}

// Function is a user-declared function or arrow closure.
type Function struct {
	Name   string // "" для стрелочных
	Params []string
	Body   *BlockStmt
	Env    *Env
}

// BuiltinFunc is a host-provided member function.
type BuiltinFunc func(args []Value) (Value, *RunError)

func Undefined() Value { return Value{Kind: VKUndefined} }
func Null() Value { return Value{Kind: VKNull} }
func BoolValue(b bool) Value { return Value{Kind: VKBool, Bool: b} }
func NumberValue(n float64) Value { return Value{Kind: VKNumber, Num: n} }
func StringValue(s string) Value { return Value{Kind: VKString, Str: s} }

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{Vals: make(map[string]Value)}
}

// Set stores a property, preserving first-insertion order.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.Vals[key]; !ok {
		o.Keys = append(o.Keys, key)
	}
	o.Vals[key] = v
}

// Get looks up a property.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.Vals[key]
	return v, ok
}

// Truthy reports JS-style truthiness.
func (v Value) Truthy() bool {
	switch v.Kind {
	case VKUndefined, VKNull:
		return false
	case VKBool:
		return v.Bool
	case VKNumber:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case VKString:
		return v.Str != ""
	default:
		return true
	}
}

// StrictEquals implements '===' (and '==' — диалект не делает коэрцию).
func (v Value) StrictEquals(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case VKUndefined, VKNull:
		return true
	case VKBool:
		return v.Bool == o.Bool
	case VKNumber:
		return v.Num == o.Num // NaN != NaN — как положено
	case VKString:
		return v.Str == o.Str
	case VKArray:
		return v.Arr == o.Arr
	case VKObject:
		return v.Obj == o.Obj
	case VKFunc:
		return v.Fn == o.Fn
	default:
		return false
	}
}

const renderDepthLimit = 16

// Placeholder substituted when stringification cannot produce a value.
const Unprintable = "<unprintable>"

// Render produces the deterministic human-readable form used by the capture
// channel: примитивы — литеральный текст, составные значения — читаемая
// рекурсивная форма. Никогда не паникует наружу.
func (v Value) Render() (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = Unprintable
		}
	}()
	return render(v, 0, false)
}

func render(v Value, depth int, nested bool) string {
	if depth > renderDepthLimit {
		return "..."
	}
	switch v.Kind {
	case VKUndefined:
		return "undefined"
	case VKNull:
		return "null"
	case VKBool:
		return strconv.FormatBool(v.Bool)
	case VKNumber:
		return renderNumber(v.Num)
	case VKString:
		if nested {
			return strconv.Quote(v.Str)
		}
		return v.Str
	case VKArray:
		var b strings.Builder
		b.WriteByte('[')
		for i, el := range v.Arr.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(render(el, depth+1, true))
		}
		b.WriteByte(']')
		return b.String()
	case VKObject:
		var b strings.Builder
		b.WriteByte('{')
		for i, k := range v.Obj.Keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(render(v.Obj.Vals[k], depth+1, true))
		}
		b.WriteByte('}')
		return b.String()
	case VKFunc:
		if v.Fn.Name != "" {
			return "[function " + v.Fn.Name + "]"
		}
		return "[function]"
	case VKBuiltin:
		return "[builtin]"
	}
	return Unprintable
}

func renderNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}
	// Целые печатаются без экспоненты, пока влезают в десятичную запись.
	if n == math.Trunc(n) && math.Abs(n) < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
