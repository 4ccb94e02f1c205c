package interp

import "qgraphic/pkg/lang"

func (in *Interpreter) evalExpr(expr lang.Expr, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *lang.Literal:
		return e.Value, nil

	case *lang.Var:
		v, err := env.Get(e.Name)
		if err != nil {
			return nil, runtimeErrorf(e.Line(), "%s", err)
		}
		return v, nil

	case *lang.UnaryOp:
		v, err := in.evalExpr(e.Expr, env)
		if err != nil {
			return nil, err
		}
		return evalUnary(e.Op, v, e.Line())

	case *lang.BinaryOp:
		if e.Op == "and" || e.Op == "or" {
			return evalShortCircuit(e.Op, e.Left, e.Right, env, in.evalExpr)
		}
		left, err := in.evalExpr(e.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := in.evalExpr(e.Right, env)
		if err != nil {
			return nil, err
		}
		return evalBinary(e.Op, left, right, e.Line())

	case *lang.IndexExpr:
		base, err := in.evalExpr(e.Base, env)
		if err != nil {
			return nil, err
		}
		idxVal, err := in.evalExpr(e.Index, env)
		if err != nil {
			return nil, err
		}
		idx, ok := idxVal.(int)
		if !ok {
			return nil, runtimeErrorf(e.Line(), "index must be int, got %s", describe(idxVal))
		}
		return in.indexValue(base, idx, e.Line())

	case *lang.CallExpr:
		args := make([]Value, len(e.Args))
		for i, a := range e.Args {
			v, err := in.evalExpr(a, env)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return in.callFunction(e.Name, args, e.Line(), env)

	case *lang.ColorLit:
		r, err := in.evalExpr(e.R, env)
		if err != nil {
			return nil, err
		}
		g, err := in.evalExpr(e.G, env)
		if err != nil {
			return nil, err
		}
		b, err := in.evalExpr(e.B, env)
		if err != nil {
			return nil, err
		}
		return Tuple{r, g, b}, nil

	case *lang.PixelLit:
		x, err := in.evalExpr(e.X, env)
		if err != nil {
			return nil, err
		}
		y, err := in.evalExpr(e.Y, env)
		if err != nil {
			return nil, err
		}
		return Tuple{x, y}, nil

	case *lang.ListLit:
		items := make([]Value, len(e.Items))
		for i, it := range e.Items {
			v, err := in.evalExpr(it, env)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return &List{Items: items}, nil

	case *lang.ParenExpr:
		return in.evalExpr(e.Expr, env)

	case *lang.WalrusAssign:
		v, err := in.evalExpr(e.Expr, env)
		if err != nil {
			return nil, err
		}
		if err := env.Set(e.Name, v); err != nil {
			return nil, runtimeErrorf(e.Line(), "%s", err)
		}
		return v, nil

	case *lang.WalrusDecl:
		v, err := in.evalExpr(e.Expr, env)
		if err != nil {
			return nil, err
		}
		env.Define(e.Name, v)
		return v, nil
	}

	return nil, runtimeErrorf(expr.Line(), "unknown expression %T", expr)
}

func (in *Interpreter) indexValue(base Value, idx int, line int) (Value, error) {
	switch b := base.(type) {
	case *List:
		if idx < 0 || idx >= len(b.Items) {
			return nil, runtimeErrorf(line, "index %d out of range (len %d)", idx, len(b.Items))
		}
		return b.Items[idx], nil
	case Tuple:
		if idx < 0 || idx >= len(b) {
			return nil, runtimeErrorf(line, "index %d out of range (len %d)", idx, len(b))
		}
		return b[idx], nil
	}
	return nil, runtimeErrorf(line, "cannot index %s", describe(base))
}

// callFunction resolves name in env and either invokes it as a Builtin or
// as a user FunctionValue, catching the return-unwinding signal at the
// call boundary exactly like the source's exception scoping.
func (in *Interpreter) callFunction(name string, args []Value, line int, env *Environment) (Value, error) {
	fn, err := env.Get(name)
	if err != nil {
		return nil, runtimeErrorf(line, "undefined function %s", name)
	}

	switch f := fn.(type) {
	case Builtin:
		return f(args, line)

	case *FunctionValue:
		if len(args) != len(f.Decl.Params) {
			return nil, runtimeErrorf(line, "%s expects %d arguments, got %d", name, len(f.Decl.Params), len(args))
		}
		callEnv := NewChildEnvironment(f.Closure)
		for i, param := range f.Decl.Params {
			callEnv.Define(param.Name, args[i])
		}
		res, err := in.execBlock(f.Decl.Body, callEnv)
		if err != nil {
			return nil, err
		}
		if res.returning {
			return res.value, nil
		}
		return nil, nil
	}

	return nil, runtimeErrorf(line, "%s is not callable", name)
}
