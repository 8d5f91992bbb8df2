package interp

import (
	"fmt"

	"fortio.org/safecast"

	"sandpit/internal/diag"
	"sandpit/internal/source"
)

const maxCallDepth = 256

func (ev *evaluator) evalCall(x *CallExpr, env *Env) (Value, *RunError) {
	fn, err := ev.evalExpr(x.Fn, env)
	if err != nil {
		return Value{}, err
	}

	args := make([]Value, 0, len(x.Args))
	for _, a := range x.Args {
		v, err := ev.evalExpr(a, env)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}

	return ev.apply(fn, args, x)
}

func (ev *evaluator) apply(fn Value, args []Value, x *CallExpr) (Value, *RunError) {
	switch fn.Kind {
	case VKBuiltin:
		v, err := fn.Builtin(args)
		if err != nil && err.Sp.Empty() {
			err.Sp = x.Sp
		}
		return v, err

	case VKFunc:
		return ev.callFunction(fn.Fn, args, x.Sp)

	default:
		name := callTargetName(x.Fn)
		return Value{}, runErr(diag.RunNotCallable, x.Sp, name+" is not a function")
	}
}

func (ev *evaluator) callFunction(fn *Function, args []Value, sp source.Span) (Value, *RunError) {
	// защита от бездонной рекурсии: бюджет шагов ловит её слишком поздно
	ev.depth++
	defer func() { ev.depth-- }()
	if ev.depth > maxCallDepth {
		return Value{}, runErr(diag.RunBudgetExceeded, sp, "maximum call depth exceeded")
	}

	callEnv := NewEnv(fn.Env)
	for i, p := range fn.Params {
		if i < len(args) {
			callEnv.Define(p, args[i], false)
		} else {
			callEnv.Define(p, Undefined(), false)
		}
	}

	c := ev.execBlock(fn.Body, callEnv)
	if c == nil {
		return Undefined(), nil
	}
	switch c.kind {
	case ctrlReturn:
		return c.val, nil
	case ctrlError:
		return Value{}, c.err
	default:
		return Value{}, runErr(diag.UnknownCode, sp, "illegal break or continue outside a loop")
	}
}

func callTargetName(e Expr) string {
	switch t := e.(type) {
	case *IdentExpr:
		return t.Name
	case *MemberExpr:
		return callTargetName(t.X) + "." + t.Name
	default:
		return "value"
	}
}

func (ev *evaluator) evalIndex(x *IndexExpr, env *Env) (Value, *RunError) {
	recv, err := ev.evalExpr(x.X, env)
	if err != nil {
		return Value{}, err
	}
	idx, err := ev.evalExpr(x.I, env)
	if err != nil {
		return Value{}, err
	}

	switch recv.Kind {
	case VKArray:
		i, err := arrayIndex(idx, x.Sp)
		if err != nil {
			return Value{}, err
		}
		if i < 0 || i >= len(recv.Arr.Elems) {
			return Undefined(), nil // чтение за границей — undefined, как в JS
		}
		return recv.Arr.Elems[i], nil

	case VKString:
		i, err := arrayIndex(idx, x.Sp)
		if err != nil {
			return Value{}, err
		}
		runes := []rune(recv.Str)
		if i < 0 || i >= len(runes) {
			return Undefined(), nil
		}
		return StringValue(string(runes[i])), nil

	case VKObject:
		if idx.Kind != VKString {
			return Value{}, runErr(diag.RunTypeMismatch, x.Sp,
				"object index must be a string, got "+idx.Kind.String())
		}
		if v, ok := recv.Obj.Get(idx.Str); ok {
			return v, nil
		}
		return Undefined(), nil

	default:
		return Value{}, runErr(diag.RunTypeMismatch, x.Sp,
			"cannot index a value of type "+recv.Kind.String())
	}
}

// arrayIndex превращает числовое значение в индекс.
func arrayIndex(v Value, sp source.Span) (int, *RunError) {
	if v.Kind != VKNumber {
		return 0, runErr(diag.RunTypeMismatch, sp, "index must be a number, got "+v.Kind.String())
	}
	if v.Num != float64(int64(v.Num)) {
		return 0, runErr(diag.RunTypeMismatch, sp, "index must be an integer")
	}
	i, err := safecast.Conv[int](int64(v.Num))
	if err != nil {
		return 0, runErr(diag.RunTypeMismatch, sp, "index out of range")
	}
	return i, nil
}

func (ev *evaluator) evalAssign(x *AssignExpr, env *Env) (Value, *RunError) {
	val, err := ev.evalExpr(x.Value, env)
	if err != nil {
		return Value{}, err
	}

	switch target := x.Target.(type) {
	case *IdentExpr:
		if err := env.Assign(target.Name, val, x.Sp); err != nil {
			return Value{}, err
		}
		return val, nil

	case *MemberExpr:
		recv, err := ev.evalExpr(target.X, env)
		if err != nil {
			return Value{}, err
		}
		if recv.Kind != VKObject {
			return Value{}, runErr(diag.RunTypeMismatch, x.Sp,
				"cannot set a property on a value of type "+recv.Kind.String())
		}
		recv.Obj.Set(target.Name, val)
		return val, nil

	case *IndexExpr:
		recv, err := ev.evalExpr(target.X, env)
		if err != nil {
			return Value{}, err
		}
		idx, err := ev.evalExpr(target.I, env)
		if err != nil {
			return Value{}, err
		}
		switch recv.Kind {
		case VKArray:
			i, err := arrayIndex(idx, x.Sp)
			if err != nil {
				return Value{}, err
			}
			if i < 0 {
				return Value{}, runErr(diag.RunTypeMismatch, x.Sp, "negative array index")
			}
			// запись за границей расширяет массив undefined'ами, как в JS
			for len(recv.Arr.Elems) <= i {
				recv.Arr.Elems = append(recv.Arr.Elems, Undefined())
			}
			recv.Arr.Elems[i] = val
			return val, nil
		case VKObject:
			if idx.Kind != VKString {
				return Value{}, runErr(diag.RunTypeMismatch, x.Sp,
					"object index must be a string, got "+idx.Kind.String())
			}
			recv.Obj.Set(idx.Str, val)
			return val, nil
		default:
			return Value{}, runErr(diag.RunTypeMismatch, x.Sp,
				"cannot index-assign a value of type "+recv.Kind.String())
		}

	default:
		return Value{}, runErr(diag.UnknownCode, x.Sp, "invalid assignment target")
	}
}

func argCountErr(name string, want int, got int, sp source.Span) *RunError {
	return runErr(diag.RunBadArgument, sp,
		fmt.Sprintf("%s expects %d argument(s), got %d", name, want, got))
}
