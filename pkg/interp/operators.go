package interp

import (
	"qgraphic/pkg/frame"
	"qgraphic/pkg/lang"
)

// evalShortCircuit implements and/or's short-circuit rule: the right operand
// is only evaluated when the left one does not already decide the result.
// Like Python's `and`/`or`, the result is whichever operand decided it, not
// a coerced bool — `"" or "fallback"` yields the string "fallback", not
// true. eval evaluates an expression in env — callers pass their own
// (possibly stepping-aware) expression evaluator so nested calls on the
// unevaluated side are never reached.
func evalShortCircuit(op string, leftExpr, rightExpr lang.Expr, env *Environment, eval func(lang.Expr, *Environment) (Value, error)) (Value, error) {
	left, err := eval(leftExpr, env)
	if err != nil {
		return nil, err
	}
	lt := Truthy(left)
	if op == "and" && !lt {
		return left, nil
	}
	if op == "or" && lt {
		return left, nil
	}
	return eval(rightExpr, env)
}

// maskInt32 masks v to the low 32 bits, matching Python's `& 0xFFFFFFFF`
// (always non-negative).
func maskInt32(v int) int {
	return int(uint32(v))
}

func evalUnary(op string, v Value, line int) (Value, error) {
	switch op {
	case "not":
		return !Truthy(v), nil
	case "~":
		i, ok := v.(int)
		if !ok {
			return nil, runtimeErrorf(line, "bitwise ~ requires int, got %s", describe(v))
		}
		return maskInt32(^i), nil
	case "-":
		i, ok := v.(int)
		if !ok {
			return nil, runtimeErrorf(line, "unary - requires int, got %s", describe(v))
		}
		return -i, nil
	}
	return nil, runtimeErrorf(line, "unknown unary operator %q", op)
}

func evalBinary(op string, left, right Value, line int) (Value, error) {
	switch op {
	case "->":
		f, ok := left.(*frame.Frame)
		if !ok {
			return nil, runtimeErrorf(line, "invalid pointer expression: left side is not a Frame")
		}
		point, ok := right.(Tuple)
		if !ok || len(point) != 2 {
			return nil, runtimeErrorf(line, "invalid pointer expression: right side is not a 2-tuple")
		}
		x, xok := point[0].(int)
		y, yok := point[1].(int)
		if !xok || !yok {
			return nil, runtimeErrorf(line, "invalid pointer expression: coordinates must be int")
		}
		return &PixelRef{Frame: f, X: x, Y: y}, nil

	case "+":
		return evalAdd(left, right, line)
	case "-":
		li, lok := left.(int)
		ri, rok := right.(int)
		if !lok || !rok {
			return nil, runtimeErrorf(line, "- requires two ints, got %s and %s", describe(left), describe(right))
		}
		return li - ri, nil
	case "*":
		li, lok := left.(int)
		ri, rok := right.(int)
		if !lok || !rok {
			return nil, runtimeErrorf(line, "* requires two ints, got %s and %s", describe(left), describe(right))
		}
		return li * ri, nil

	case "==":
		return Equal(left, right), nil
	case "<", ">", "<=", ">=":
		return evalCompare(op, left, right, line)

	case "xor":
		return Truthy(left) != Truthy(right), nil

	case "|":
		li, lok := left.(int)
		ri, rok := right.(int)
		if !lok || !rok {
			return nil, runtimeErrorf(line, "bitwise | requires two ints, got %s and %s", describe(left), describe(right))
		}
		return maskInt32(li | ri), nil
	case "&":
		li, lok := left.(int)
		ri, rok := right.(int)
		if !lok || !rok {
			return nil, runtimeErrorf(line, "bitwise & requires two ints, got %s and %s", describe(left), describe(right))
		}
		return maskInt32(li & ri), nil
	}
	return nil, runtimeErrorf(line, "unknown binary operator %q", op)
}

func evalAdd(left, right Value, line int) (Value, error) {
	switch lv := left.(type) {
	case int:
		rv, ok := right.(int)
		if !ok {
			return nil, runtimeErrorf(line, "+ requires two ints, got int and %s", describe(right))
		}
		return lv + rv, nil
	case string:
		rv, ok := right.(string)
		if !ok {
			return nil, runtimeErrorf(line, "+ requires two strings, got string and %s", describe(right))
		}
		return lv + rv, nil
	case *List:
		rv, ok := right.(*List)
		if !ok {
			return nil, runtimeErrorf(line, "+ requires two lists, got list and %s", describe(right))
		}
		items := make([]Value, 0, len(lv.Items)+len(rv.Items))
		items = append(items, lv.Items...)
		items = append(items, rv.Items...)
		return &List{Items: items}, nil
	}
	return nil, runtimeErrorf(line, "+ does not support %s", describe(left))
}

func evalCompare(op string, left, right Value, line int) (Value, error) {
	li, lok := left.(int)
	ri, rok := right.(int)
	if lok && rok {
		return compareInts(op, li, ri), nil
	}
	lt, ltok := left.(Tuple)
	rt, rtok := right.(Tuple)
	if ltok && rtok && len(lt) == len(rt) {
		return compareTuples(op, lt, rt, line)
	}
	return nil, runtimeErrorf(line, "%s requires two ints or equal-shape tuples, got %s and %s", op, describe(left), describe(right))
}

func compareInts(op string, l, r int) bool {
	switch op {
	case "<":
		return l < r
	case ">":
		return l > r
	case "<=":
		return l <= r
	case ">=":
		return l >= r
	}
	return false
}

func compareTuples(op string, l, r Tuple, line int) (Value, error) {
	for i := range l {
		li, lok := l[i].(int)
		ri, rok := r[i].(int)
		if !lok || !rok {
			return nil, runtimeErrorf(line, "%s over tuples requires int components", op)
		}
		if li != ri {
			return compareInts(op, li, ri), nil
		}
	}
	// every component equal: <= and >= hold, < and > don't.
	return op == "<=" || op == ">=", nil
}
