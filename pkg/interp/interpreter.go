package interp

import (
	"qgraphic/pkg/frame"
	"qgraphic/pkg/lang"
)

// PublishFunc handles a `Publish` statement's Frame value.
type PublishFunc func(*frame.Frame) error

// SendFunc handles a `Send` statement's path string value.
type SendFunc func(string) error

// Interpreter holds the global environment and the two collaborator hooks
// (Publish, Send) that back the Publish/Send statements. Its zero value is
// not usable; construct with New.
type Interpreter struct {
	globals *Environment

	// Publish, if non-nil, is invoked for every Publish statement instead
	// of the default no-op (the graphical display is an out-of-scope
	// collaborator; see DESIGN.md).
	Publish PublishFunc

	// Send, if non-nil, is invoked for every Send statement; when nil, Send
	// statements are a no-op. The exec CLI installs a handler that publishes
	// through the file publisher in pkg/store.
	Send SendFunc

	// lastMutated tracks the most recently mutated Frame, reset at the
	// start of each statement and read by the stepping driver after it
	// finishes.
	lastMutated *frame.Frame
}

// New returns an Interpreter with its built-ins installed in a fresh global
// environment.
func New() *Interpreter {
	in := &Interpreter{globals: NewEnvironment()}
	installBuiltins(in)
	return in
}

// Globals exposes the global environment, e.g. so a host can pre-seed
// bindings before Run.
func (in *Interpreter) Globals() *Environment { return in.globals }

func (in *Interpreter) newFrame() *frame.Frame {
	f := frame.New()
	f.SetOnChange(in.onFrameChange)
	return f
}

func (in *Interpreter) onFrameChange(f *frame.Frame) {
	in.lastMutated = f
}

// execResult threads the return-unwinding signal through statement
// execution as an explicit tagged value instead of resorting to panics.
type execResult struct {
	returning bool
	value     Value
}

var normalResult = execResult{}

func returnResult(v Value) execResult {
	return execResult{returning: true, value: v}
}

// Run executes a parsed Program: functions are pre-registered so forward
// references resolve, then remaining top-level items execute in source
// order.
func (in *Interpreter) Run(prog *lang.Program) error {
	for _, item := range prog.Items {
		if fd, ok := item.(*lang.FunctionDecl); ok {
			in.globals.Define(fd.Name, &FunctionValue{Decl: fd, Closure: in.globals})
		}
	}
	for _, item := range prog.Items {
		if _, ok := item.(*lang.FunctionDecl); ok {
			continue
		}
		stmt, ok := item.(lang.Stmt)
		if !ok {
			return runtimeErrorf(item.Line(), "expected a statement at top level")
		}
		res, err := in.execStmt(stmt, in.globals)
		if err != nil {
			return err
		}
		if res.returning {
			break
		}
	}
	return nil
}

func (in *Interpreter) execBlock(stmts []lang.Stmt, env *Environment) (execResult, error) {
	for _, stmt := range stmts {
		res, err := in.execStmt(stmt, env)
		if err != nil {
			return normalResult, err
		}
		if res.returning {
			return res, nil
		}
	}
	return normalResult, nil
}

func (in *Interpreter) execStmt(stmt lang.Stmt, env *Environment) (execResult, error) {
	in.lastMutated = nil

	switch s := stmt.(type) {
	case *lang.VarDecl:
		var value Value
		var err error
		if s.Initializer != nil {
			value, err = in.evalExpr(s.Initializer, env)
		} else {
			value, err = in.TypeDefault(s.Type, s.Line())
		}
		if err != nil {
			return normalResult, err
		}
		env.Define(s.Name, value)
		return normalResult, nil

	case *lang.Assign:
		value, err := in.evalExpr(s.Value, env)
		if err != nil {
			return normalResult, err
		}
		return normalResult, in.assignTarget(s.Target, value, env, s.Line())

	case *lang.PixelAssign:
		value, err := in.evalExpr(s.Value, env)
		if err != nil {
			return normalResult, err
		}
		ptr, err := in.evalExpr(s.Pointer, env)
		if err != nil {
			return normalResult, err
		}
		return normalResult, in.assignPixel(ptr, value, s.Line())

	case *lang.PublishStmt:
		value, err := in.evalExpr(s.Expr, env)
		if err != nil {
			return normalResult, err
		}
		return normalResult, in.publishValue(value, s.Line())

	case *lang.SendStmt:
		value, err := in.evalExpr(s.Expr, env)
		if err != nil {
			return normalResult, err
		}
		return normalResult, in.sendValue(value, s.Line())

	case *lang.ReturnStmt:
		var value Value
		if s.Expr != nil {
			v, err := in.evalExpr(s.Expr, env)
			if err != nil {
				return normalResult, err
			}
			value = v
		}
		return returnResult(value), nil

	case *lang.ExprStmt:
		_, err := in.evalExpr(s.Expr, env)
		return normalResult, err

	case *lang.IfStmt:
		cond, err := in.evalExpr(s.Cond, env)
		if err != nil {
			return normalResult, err
		}
		if Truthy(cond) {
			return in.execBlock(s.Then, env)
		}
		if s.Else != nil {
			return in.execBlock(s.Else, env)
		}
		return normalResult, nil

	case *lang.WhileStmt:
		for {
			cond, err := in.evalExpr(s.Cond, env)
			if err != nil {
				return normalResult, err
			}
			if !Truthy(cond) {
				return normalResult, nil
			}
			res, err := in.execBlock(s.Body, env)
			if err != nil {
				return normalResult, err
			}
			if res.returning {
				return res, nil
			}
		}

	case *lang.ForStmt:
		iterable, err := in.evalExpr(s.Iterable, env)
		if err != nil {
			return normalResult, err
		}
		list, ok := iterable.(*List)
		if !ok {
			return normalResult, runtimeErrorf(s.Line(), "For loop requires a list iterable, got %s", describe(iterable))
		}
		for _, item := range list.Items {
			loopEnv := NewChildEnvironment(env)
			loopEnv.Define(s.VarName, item)
			res, err := in.execBlock(s.Body, loopEnv)
			if err != nil {
				return normalResult, err
			}
			if res.returning {
				return res, nil
			}
		}
		return normalResult, nil
	}

	return normalResult, runtimeErrorf(stmt.Line(), "unknown statement %T", stmt)
}

func (in *Interpreter) assignTarget(target lang.Expr, value Value, env *Environment, line int) error {
	switch t := target.(type) {
	case *lang.Var:
		if err := env.Set(t.Name, value); err != nil {
			return runtimeErrorf(line, "%s", err)
		}
		return nil
	case *lang.IndexExpr:
		base, err := in.evalExpr(t.Base, env)
		if err != nil {
			return err
		}
		idxVal, err := in.evalExpr(t.Index, env)
		if err != nil {
			return err
		}
		idx, ok := idxVal.(int)
		if !ok {
			return runtimeErrorf(line, "index must be int, got %s", describe(idxVal))
		}
		list, ok := base.(*List)
		if !ok {
			return runtimeErrorf(line, "indexed assignment target must be a list, got %s", describe(base))
		}
		if idx < 0 || idx >= len(list.Items) {
			return runtimeErrorf(line, "index %d out of range (len %d)", idx, len(list.Items))
		}
		list.Items[idx] = value
		return nil
	}
	return runtimeErrorf(line, "invalid assignment target")
}

func (in *Interpreter) assignPixel(ptr Value, value Value, line int) error {
	p, ok := ptr.(*PixelRef)
	if !ok {
		return runtimeErrorf(line, "pixel assignment requires frame->pixel, got %s", describe(ptr))
	}
	tup, ok := value.(Tuple)
	if !ok || len(tup) != 3 {
		return runtimeErrorf(line, "pixel assignment requires a color 3-tuple")
	}
	rgb, err := tupleInts(tup, line)
	if err != nil {
		return err
	}
	p.Frame.SetColor(p.X, p.Y, rgb[0], rgb[1], rgb[2])
	return nil
}

func (in *Interpreter) publishValue(value Value, line int) error {
	f, ok := value.(*frame.Frame)
	if !ok {
		return runtimeErrorf(line, "Publish expects a Frame, got %s", describe(value))
	}
	if in.Publish != nil {
		return in.Publish(f)
	}
	return nil
}

func (in *Interpreter) sendValue(value Value, line int) error {
	path, ok := value.(string)
	if !ok {
		return runtimeErrorf(line, "Send expects a string path, got %s", describe(value))
	}
	if in.Send != nil {
		return in.Send(path)
	}
	return nil
}

func tupleInts(t Tuple, line int) ([]int, error) {
	out := make([]int, len(t))
	for i, v := range t {
		iv, ok := v.(int)
		if !ok {
			return nil, runtimeErrorf(line, "tuple component %d must be int, got %s", i, describe(v))
		}
		out[i] = iv
	}
	return out, nil
}
