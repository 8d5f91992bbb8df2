package interp

import (
	"strings"

	"sandpit/internal/capture"
	"sandpit/internal/diag"
	"sandpit/internal/source"
)

// member разрешает доступ к свойству 'recv.name'.
// Свойства объектов читаются как есть; строки и массивы получают небольшой
// набор встроенных методов, достаточный для учебных снипетов.
func (ev *evaluator) member(recv Value, name string, sp source.Span) (Value, *RunError) {
	switch recv.Kind {
	case VKObject:
		if v, ok := recv.Obj.Get(name); ok {
			return v, nil
		}
		return Undefined(), nil

	case VKString:
		return stringMember(recv.Str, name, sp)

	case VKArray:
		return arrayMember(recv.Arr, name, sp)

	case VKUndefined, VKNull:
		return Value{}, runErr(diag.RunNoProperty, sp,
			"cannot read property "+name+" of "+recv.Kind.String())

	default:
		return Value{}, runErr(diag.RunNoProperty, sp,
			"value of type "+recv.Kind.String()+" has no property "+name)
	}
}

func builtin(fn BuiltinFunc) Value {
	return Value{Kind: VKBuiltin, Builtin: fn}
}

func stringMember(s string, name string, sp source.Span) (Value, *RunError) {
	switch name {
	case "length":
		return NumberValue(float64(len([]rune(s)))), nil
	case "toUpperCase":
		return builtin(func(args []Value) (Value, *RunError) {
			return StringValue(strings.ToUpper(s)), nil
		}), nil
	case "toLowerCase":
		return builtin(func(args []Value) (Value, *RunError) {
			return StringValue(strings.ToLower(s)), nil
		}), nil
	case "trim":
		return builtin(func(args []Value) (Value, *RunError) {
			return StringValue(strings.TrimSpace(s)), nil
		}), nil
	case "includes":
		return builtin(func(args []Value) (Value, *RunError) {
			if len(args) != 1 || args[0].Kind != VKString {
				return Value{}, argCountErr("includes", 1, len(args), sp)
			}
			return BoolValue(strings.Contains(s, args[0].Str)), nil
		}), nil
	case "indexOf":
		return builtin(func(args []Value) (Value, *RunError) {
			if len(args) != 1 || args[0].Kind != VKString {
				return Value{}, argCountErr("indexOf", 1, len(args), sp)
			}
			idx := strings.Index(s, args[0].Str)
			if idx < 0 {
				return NumberValue(-1), nil
			}
			return NumberValue(float64(len([]rune(s[:idx])))), nil
		}), nil
	case "split":
		return builtin(func(args []Value) (Value, *RunError) {
			if len(args) != 1 || args[0].Kind != VKString {
				return Value{}, argCountErr("split", 1, len(args), sp)
			}
			parts := strings.Split(s, args[0].Str)
			elems := make([]Value, len(parts))
			for i, p := range parts {
				elems[i] = StringValue(p)
			}
			return Value{Kind: VKArray, Arr: &Array{Elems: elems}}, nil
		}), nil
	case "repeat":
		return builtin(func(args []Value) (Value, *RunError) {
			if len(args) != 1 || args[0].Kind != VKNumber {
				return Value{}, argCountErr("repeat", 1, len(args), sp)
			}
			n := int(args[0].Num)
			if n < 0 || n > 1<<16 {
				return Value{}, runErr(diag.RunBadArgument, sp, "repeat count out of range")
			}
			return StringValue(strings.Repeat(s, n)), nil
		}), nil
	default:
		return Undefined(), nil
	}
}

func arrayMember(arr *Array, name string, sp source.Span) (Value, *RunError) {
	switch name {
	case "length":
		return NumberValue(float64(len(arr.Elems))), nil
	case "push":
		return builtin(func(args []Value) (Value, *RunError) {
			arr.Elems = append(arr.Elems, args...)
			return NumberValue(float64(len(arr.Elems))), nil
		}), nil
	case "pop":
		return builtin(func(args []Value) (Value, *RunError) {
			if len(arr.Elems) == 0 {
				return Undefined(), nil
			}
			last := arr.Elems[len(arr.Elems)-1]
			arr.Elems = arr.Elems[:len(arr.Elems)-1]
			return last, nil
		}), nil
	case "join":
		return builtin(func(args []Value) (Value, *RunError) {
			sep := ","
			if len(args) > 0 {
				if args[0].Kind != VKString {
					return Value{}, runErr(diag.RunBadArgument, sp, "join separator must be a string")
				}
				sep = args[0].Str
			}
			parts := make([]string, len(arr.Elems))
			for i, el := range arr.Elems {
				parts[i] = concatOperand(el)
			}
			return StringValue(strings.Join(parts, sep)), nil
		}), nil
	case "includes":
		return builtin(func(args []Value) (Value, *RunError) {
			if len(args) != 1 {
				return Value{}, argCountErr("includes", 1, len(args), sp)
			}
			for _, el := range arr.Elems {
				if el.StrictEquals(args[0]) {
					return BoolValue(true), nil
				}
			}
			return BoolValue(false), nil
		}), nil
	default:
		return Undefined(), nil
	}
}

// newConsoleValue строит объект console поверх канала захвата.
// log и info — одна и та же степень важности; error дополнительно помечает
// запуск как неуспешный (внутри Console.Append).
func newConsoleValue(console *capture.Console) Value {
	emit := func(sev diag.Severity) BuiltinFunc {
		return func(args []Value) (Value, *RunError) {
			parts := make([]string, len(args))
			for i, a := range args {
				parts[i] = a.Render() // Render не бросает: сбой → <unprintable>
			}
			console.Append(sev, strings.Join(parts, " "))
			return Undefined(), nil
		}
	}

	obj := NewObject()
	obj.Set("log", builtin(emit(diag.SevInfo)))
	obj.Set("info", builtin(emit(diag.SevInfo)))
	obj.Set("warn", builtin(emit(diag.SevWarning)))
	obj.Set("error", builtin(emit(diag.SevError)))
	return Value{Kind: VKObject, Obj: obj}
}
