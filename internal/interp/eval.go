package interp

import (
	"context"
	"fmt"
	"math"

	"sandpit/internal/diag"
	"sandpit/internal/source"
	"sandpit/internal/token"
)

// evaluator — состояние одного запуска: бюджет шагов и больше ничего.
// Все значения живут в Env, весь вывод — в console-привязке.
type evaluator struct {
	steps  int
	budget int
	depth  int // текущая глубина вызовов
	ctx    context.Context
}

// tick списывает один шаг бюджета. Бюджет защищает хост от снипетов
// с бесконечными циклами; превышение — обычная ошибка исполнения.
// Отмена контекста проверяется редко: на каждый шаг дорого.
func (ev *evaluator) tick(sp source.Span) *RunError {
	ev.steps++
	if ev.budget > 0 && ev.steps > ev.budget {
		return runErr(diag.RunBudgetExceeded, sp, "execution budget exceeded (possible infinite loop)")
	}
	if ev.ctx != nil && ev.steps%4096 == 0 {
		if err := ev.ctx.Err(); err != nil {
			return runErr(diag.RunBudgetExceeded, sp, "execution cancelled: "+err.Error())
		}
	}
	return nil
}

// ===== Statements =====

func (ev *evaluator) execProgram(prog *Program, env *Env) *ctrl {
	hoistFuncs(prog.Stmts, env)
	for _, st := range prog.Stmts {
		if c := ev.execStmt(st, env); c != nil {
			return c
		}
	}
	return nil
}

// hoistFuncs объявляет function-декларации до исполнения списка:
// снипет может вызывать функцию выше её определения.
func hoistFuncs(stmts []Stmt, env *Env) {
	for _, st := range stmts {
		if fd, ok := st.(*FuncDecl); ok {
			fn := &Function{Name: fd.Name, Params: fd.Params, Body: fd.Body, Env: env}
			env.Define(fd.Name, Value{Kind: VKFunc, Fn: fn}, false)
		}
	}
}

func (ev *evaluator) execStmt(st Stmt, env *Env) *ctrl {
	if err := ev.tick(st.Span()); err != nil {
		return ctrlFromErr(err)
	}

	switch s := st.(type) {
	case *VarDecl:
		var v Value
		if s.Init != nil {
			val, err := ev.evalExpr(s.Init, env)
			if err != nil {
				return ctrlFromErr(err)
			}
			v = val
		} else {
			v = Undefined()
		}
		env.Define(s.Name, v, s.Kw == token.KwConst)
		return nil

	case *ExprStmt:
		if _, err := ev.evalExpr(s.X, env); err != nil {
			return ctrlFromErr(err)
		}
		return nil

	case *IfStmt:
		cond, err := ev.evalExpr(s.Cond, env)
		if err != nil {
			return ctrlFromErr(err)
		}
		if cond.Truthy() {
			return ev.execBlock(s.Then, NewEnv(env))
		}
		if s.Else != nil {
			if blk, ok := s.Else.(*BlockStmt); ok {
				return ev.execBlock(blk, NewEnv(env))
			}
			return ev.execStmt(s.Else, env)
		}
		return nil

	case *WhileStmt:
		for {
			if err := ev.tick(s.Sp); err != nil {
				return ctrlFromErr(err)
			}
			cond, err := ev.evalExpr(s.Cond, env)
			if err != nil {
				return ctrlFromErr(err)
			}
			if !cond.Truthy() {
				return nil
			}
			c := ev.execBlock(s.Body, NewEnv(env))
			if c == nil {
				continue
			}
			switch c.kind {
			case ctrlBreak:
				return nil
			case ctrlContinue:
				continue
			default:
				return c
			}
		}

	case *ForStmt:
		loopEnv := NewEnv(env)
		if s.Init != nil {
			if c := ev.execStmt(s.Init, loopEnv); c != nil {
				return c
			}
		}
		for {
			if err := ev.tick(s.Sp); err != nil {
				return ctrlFromErr(err)
			}
			if s.Cond != nil {
				cond, err := ev.evalExpr(s.Cond, loopEnv)
				if err != nil {
					return ctrlFromErr(err)
				}
				if !cond.Truthy() {
					return nil
				}
			}
			c := ev.execBlock(s.Body, NewEnv(loopEnv))
			if c != nil {
				switch c.kind {
				case ctrlBreak:
					return nil
				case ctrlContinue:
					// проваливаемся к post
				default:
					return c
				}
			}
			if s.Post != nil {
				if _, err := ev.evalExpr(s.Post, loopEnv); err != nil {
					return ctrlFromErr(err)
				}
			}
		}

	case *FuncDecl:
		// уже объявлена hoistFuncs; переобъявление безвредно
		fn := &Function{Name: s.Name, Params: s.Params, Body: s.Body, Env: env}
		env.Define(s.Name, Value{Kind: VKFunc, Fn: fn}, false)
		return nil

	case *ReturnStmt:
		v := Undefined()
		if s.X != nil {
			val, err := ev.evalExpr(s.X, env)
			if err != nil {
				return ctrlFromErr(err)
			}
			v = val
		}
		return &ctrl{kind: ctrlReturn, val: v}

	case *ThrowStmt:
		v, err := ev.evalExpr(s.X, env)
		if err != nil {
			return ctrlFromErr(err)
		}
		return ctrlFromErr(runErr(diag.RunThrow, s.Sp, "Uncaught "+v.Render()))

	case *BreakStmt:
		return &ctrl{kind: ctrlBreak}

	case *ContinueStmt:
		return &ctrl{kind: ctrlContinue}

	case *BlockStmt:
		if s.Flat {
			// Плоский список деклараторов исполняется в текущем окружении
			return ev.execBlock(s, env)
		}
		return ev.execBlock(s, NewEnv(env))

	default:
		return ctrlFromErr(runErr(diag.UnknownCode, st.Span(), "unsupported statement"))
	}
}

func (ev *evaluator) execBlock(b *BlockStmt, env *Env) *ctrl {
	hoistFuncs(b.Stmts, env)
	for _, st := range b.Stmts {
		if c := ev.execStmt(st, env); c != nil {
			return c
		}
	}
	return nil
}

// ===== Expressions =====

func (ev *evaluator) evalExpr(e Expr, env *Env) (Value, *RunError) {
	if err := ev.tick(e.Span()); err != nil {
		return Value{}, err
	}

	switch x := e.(type) {
	case *NumberExpr:
		return NumberValue(x.Value), nil
	case *StringExpr:
		return StringValue(x.Value), nil
	case *BoolExpr:
		return BoolValue(x.Value), nil
	case *NullExpr:
		return Null(), nil
	case *UndefinedExpr:
		return Undefined(), nil

	case *IdentExpr:
		v, ok := env.Lookup(x.Name)
		if !ok {
			return Value{}, runErr(diag.RunNotDefined, x.Sp, x.Name+" is not defined")
		}
		return v, nil

	case *UnaryExpr:
		return ev.evalUnary(x, env)

	case *BinaryExpr:
		return ev.evalBinary(x, env)

	case *CondExpr:
		c, err := ev.evalExpr(x.C, env)
		if err != nil {
			return Value{}, err
		}
		if c.Truthy() {
			return ev.evalExpr(x.T, env)
		}
		return ev.evalExpr(x.F, env)

	case *AssignExpr:
		return ev.evalAssign(x, env)

	case *CallExpr:
		return ev.evalCall(x, env)

	case *MemberExpr:
		recv, err := ev.evalExpr(x.X, env)
		if err != nil {
			return Value{}, err
		}
		return ev.member(recv, x.Name, x.Sp)

	case *IndexExpr:
		return ev.evalIndex(x, env)

	case *ArrayExpr:
		elems := make([]Value, 0, len(x.Elems))
		for _, el := range x.Elems {
			v, err := ev.evalExpr(el, env)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
		return Value{Kind: VKArray, Arr: &Array{Elems: elems}}, nil

	case *ObjectExpr:
		obj := NewObject()
		for i, k := range x.Keys {
			v, err := ev.evalExpr(x.Vals[i], env)
			if err != nil {
				return Value{}, err
			}
			obj.Set(k, v)
		}
		return Value{Kind: VKObject, Obj: obj}, nil

	case *ArrowExpr:
		fn := &Function{Params: x.Params, Body: x.Body, Env: env}
		return Value{Kind: VKFunc, Fn: fn}, nil

	default:
		return Value{}, runErr(diag.UnknownCode, e.Span(), "unsupported expression")
	}
}

func (ev *evaluator) evalUnary(x *UnaryExpr, env *Env) (Value, *RunError) {
	v, err := ev.evalExpr(x.X, env)
	if err != nil {
		return Value{}, err
	}
	switch x.Op {
	case token.Minus:
		if v.Kind != VKNumber {
			return Value{}, runErr(diag.RunTypeMismatch, x.Sp,
				"unary '-' requires a number, got "+v.Kind.String())
		}
		return NumberValue(-v.Num), nil
	case token.Bang:
		return BoolValue(!v.Truthy()), nil
	case token.KwTypeof:
		return StringValue(jsTypeof(v)), nil
	}
	return Value{}, runErr(diag.UnknownCode, x.Sp, "unsupported unary operator")
}

func jsTypeof(v Value) string {
	switch v.Kind {
	case VKUndefined:
		return "undefined"
	case VKNull, VKArray, VKObject:
		return "object"
	case VKBool:
		return "boolean"
	case VKNumber:
		return "number"
	case VKString:
		return "string"
	case VKFunc, VKBuiltin:
		return "function"
	}
	return "unknown"
}

func (ev *evaluator) evalBinary(x *BinaryExpr, env *Env) (Value, *RunError) {
	// && и || вычисляют правый операнд лениво
	switch x.Op {
	case token.AndAnd:
		l, err := ev.evalExpr(x.L, env)
		if err != nil {
			return Value{}, err
		}
		if !l.Truthy() {
			return l, nil
		}
		return ev.evalExpr(x.R, env)
	case token.OrOr:
		l, err := ev.evalExpr(x.L, env)
		if err != nil {
			return Value{}, err
		}
		if l.Truthy() {
			return l, nil
		}
		return ev.evalExpr(x.R, env)
	}

	l, err := ev.evalExpr(x.L, env)
	if err != nil {
		return Value{}, err
	}
	r, err := ev.evalExpr(x.R, env)
	if err != nil {
		return Value{}, err
	}

	switch x.Op {
	case token.Plus:
		if l.Kind == VKString || r.Kind == VKString {
			return StringValue(concatOperand(l) + concatOperand(r)), nil
		}
		if l.Kind == VKNumber && r.Kind == VKNumber {
			return NumberValue(l.Num + r.Num), nil
		}
		return Value{}, binTypeErr(x, l, r)

	case token.Minus, token.Star, token.Slash, token.Percent:
		if l.Kind != VKNumber || r.Kind != VKNumber {
			return Value{}, binTypeErr(x, l, r)
		}
		switch x.Op {
		case token.Minus:
			return NumberValue(l.Num - r.Num), nil
		case token.Star:
			return NumberValue(l.Num * r.Num), nil
		case token.Slash:
			return NumberValue(l.Num / r.Num), nil // деление на 0 → ±Inf, как в JS
		default:
			return NumberValue(math.Mod(l.Num, r.Num)), nil
		}

	case token.EqEq, token.EqEqEq:
		return BoolValue(l.StrictEquals(r)), nil
	case token.BangEq, token.BangEqEq:
		return BoolValue(!l.StrictEquals(r)), nil

	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		if l.Kind == VKNumber && r.Kind == VKNumber {
			return BoolValue(cmpOrdered(x.Op, l.Num, r.Num)), nil
		}
		if l.Kind == VKString && r.Kind == VKString {
			return BoolValue(cmpOrderedStr(x.Op, l.Str, r.Str)), nil
		}
		return Value{}, binTypeErr(x, l, r)
	}

	return Value{}, runErr(diag.UnknownCode, x.Sp, "unsupported binary operator "+x.Op.String())
}

// concatOperand — текстовая форма операнда строковой конкатенации.
func concatOperand(v Value) string {
	if v.Kind == VKString {
		return v.Str
	}
	return v.Render()
}

func binTypeErr(x *BinaryExpr, l, r Value) *RunError {
	return runErr(diag.RunTypeMismatch, x.Sp,
		fmt.Sprintf("operator %q cannot be applied to %s and %s",
			x.Op.String(), l.Kind.String(), r.Kind.String()))
}

func cmpOrdered(op token.Kind, a, b float64) bool {
	switch op {
	case token.Lt:
		return a < b
	case token.LtEq:
		return a <= b
	case token.Gt:
		return a > b
	default:
		return a >= b
	}
}

func cmpOrderedStr(op token.Kind, a, b string) bool {
	switch op {
	case token.Lt:
		return a < b
	case token.LtEq:
		return a <= b
	case token.Gt:
		return a > b
	default:
		return a >= b
	}
}
