package interp

import (
	"errors"
	"sync"

	"qgraphic/pkg/frame"
	"qgraphic/pkg/lang"
)

// StepInfo is the (line, statement) pair the stepping driver emits before
// executing a statement.
type StepInfo struct {
	Line int
	Stmt lang.Stmt
}

// FrameCallback receives the most-recently-mutated Frame after a simple
// statement that mutated one finishes executing.
type FrameCallback func(*frame.Frame)

var errStepCanceled = errors.New("interp: stepping sequence canceled")

// Stepper exposes a Program's execution as a lazy, externally-pulled
// sequence of StepInfo. It is implemented as a generator: a single
// goroutine runs the program and blocks on an unbuffered handoff channel
// at every step boundary, so exactly one of {driver, interpreter} is ever
// runnable at a time — there is no concurrent execution, matching the
// single-threaded cooperative model. The driver alternates
// Next (read the pending StepInfo) and Resume (let execution advance to
// the next boundary).
type Stepper struct {
	steps  chan StepInfo
	resume chan struct{}
	cancel chan struct{}
	errCh  chan error

	cancelOnce sync.Once
	done       bool
	err        error
}

// NewStepper starts stepping prog under interp. onFrame, if non-nil, is
// invoked synchronously after each simple statement that mutated a Frame.
func NewStepper(interp *Interpreter, prog *lang.Program, onFrame FrameCallback) *Stepper {
	s := &Stepper{
		steps:  make(chan StepInfo),
		resume: make(chan struct{}),
		cancel: make(chan struct{}),
		errCh:  make(chan error, 1),
	}
	sr := &stepRunner{interp: interp, stepper: s, onFrame: onFrame}
	go func() {
		err := sr.runProgram(prog)
		s.errCh <- err
		close(s.steps)
	}()
	return s
}

// Next blocks until the next StepInfo is available. ok is false once the
// sequence has ended; err (possibly nil) is the terminating cause, per
// the policy that the stepping sequence terminates on the first
// error with the error as the termination cause.
func (s *Stepper) Next() (info StepInfo, ok bool, err error) {
	if s.done {
		return StepInfo{}, false, s.err
	}
	info, open := <-s.steps
	if !open {
		s.done = true
		s.err = <-s.errCh
		return StepInfo{}, false, s.err
	}
	return info, true, nil
}

// Resume lets execution advance from the StepInfo most recently returned
// by Next toward the next step boundary (or the end of the program).
func (s *Stepper) Resume() {
	if s.done {
		return
	}
	select {
	case s.resume <- struct{}{}:
	case <-s.steps:
		// the run goroutine finished (or errored) concurrently with this
		// Resume call and is no longer waiting on resume; nothing to do.
	}
}

// Cancel abandons the sequence. Any Frame mutations already performed
// persist; the underlying goroutine unblocks and exits on its next step
// boundary. Safe to call more than once.
func (s *Stepper) Cancel() {
	s.cancelOnce.Do(func() { close(s.cancel) })
}

// stepRunner is a parallel statement/expression executor that emits
// StepInfo at the contract points of the stepping contract instead of running
// straight through. It shares the Interpreter's environment, builtins, and
// operator dispatch.
type stepRunner struct {
	interp  *Interpreter
	stepper *Stepper
	onFrame FrameCallback
}

func (sr *stepRunner) emit(info StepInfo) error {
	select {
	case sr.stepper.steps <- info:
	case <-sr.stepper.cancel:
		return errStepCanceled
	}
	select {
	case <-sr.stepper.resume:
		return nil
	case <-sr.stepper.cancel:
		return errStepCanceled
	}
}

func (sr *stepRunner) runProgram(prog *lang.Program) error {
	globals := sr.interp.globals
	for _, item := range prog.Items {
		if fd, ok := item.(*lang.FunctionDecl); ok {
			globals.Define(fd.Name, &FunctionValue{Decl: fd, Closure: globals})
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
		res, err := sr.execStmt(stmt, globals)
		if err != nil {
			return err
		}
		if res.returning {
			break
		}
	}
	return nil
}

func (sr *stepRunner) execBlock(stmts []lang.Stmt, env *Environment) (execResult, error) {
	for _, stmt := range stmts {
		res, err := sr.execStmt(stmt, env)
		if err != nil {
			return normalResult, err
		}
		if res.returning {
			return res, nil
		}
	}
	return normalResult, nil
}

func (sr *stepRunner) execStmt(stmt lang.Stmt, env *Environment) (execResult, error) {
	switch s := stmt.(type) {
	case *lang.IfStmt:
		if err := sr.emit(StepInfo{Line: s.Line(), Stmt: s}); err != nil {
			return normalResult, err
		}
		cond, err := sr.evalExpr(s.Cond, env)
		if err != nil {
			return normalResult, err
		}
		if Truthy(cond) {
			return sr.execBlock(s.Then, env)
		}
		if s.Else != nil {
			return sr.execBlock(s.Else, env)
		}
		return normalResult, nil

	case *lang.WhileStmt:
		for {
			if err := sr.emit(StepInfo{Line: s.Line(), Stmt: s}); err != nil {
				return normalResult, err
			}
			cond, err := sr.evalExpr(s.Cond, env)
			if err != nil {
				return normalResult, err
			}
			if !Truthy(cond) {
				return normalResult, nil
			}
			res, err := sr.execBlock(s.Body, env)
			if err != nil {
				return normalResult, err
			}
			if res.returning {
				return res, nil
			}
		}

	case *lang.ForStmt:
		iterable, err := sr.evalExpr(s.Iterable, env)
		if err != nil {
			return normalResult, err
		}
		list, ok := iterable.(*List)
		if !ok {
			return normalResult, runtimeErrorf(s.Line(), "For loop requires a list iterable, got %s", describe(iterable))
		}
		for _, item := range list.Items {
			if err := sr.emit(StepInfo{Line: s.Line(), Stmt: s}); err != nil {
				return normalResult, err
			}
			loopEnv := NewChildEnvironment(env)
			loopEnv.Define(s.VarName, item)
			res, err := sr.execBlock(s.Body, loopEnv)
			if err != nil {
				return normalResult, err
			}
			if res.returning {
				return res, nil
			}
		}
		return normalResult, nil

	default:
		if err := sr.emit(StepInfo{Line: stmt.Line(), Stmt: stmt}); err != nil {
			return normalResult, err
		}
		sr.interp.lastMutated = nil
		res, err := sr.execSimple(stmt, env)
		if err != nil {
			return normalResult, err
		}
		if sr.onFrame != nil && sr.interp.lastMutated != nil {
			sr.onFrame(sr.interp.lastMutated)
		}
		return res, nil
	}
}

func (sr *stepRunner) execSimple(stmt lang.Stmt, env *Environment) (execResult, error) {
	switch s := stmt.(type) {
	case *lang.VarDecl:
		var value Value
		var err error
		if s.Initializer != nil {
			value, err = sr.evalExpr(s.Initializer, env)
		} else {
			value, err = sr.interp.TypeDefault(s.Type, s.Line())
		}
		if err != nil {
			return normalResult, err
		}
		env.Define(s.Name, value)
		return normalResult, nil

	case *lang.Assign:
		value, err := sr.evalExpr(s.Value, env)
		if err != nil {
			return normalResult, err
		}
		return normalResult, sr.assignTarget(s.Target, value, env, s.Line())

	case *lang.PixelAssign:
		value, err := sr.evalExpr(s.Value, env)
		if err != nil {
			return normalResult, err
		}
		ptr, err := sr.evalExpr(s.Pointer, env)
		if err != nil {
			return normalResult, err
		}
		return normalResult, sr.interp.assignPixel(ptr, value, s.Line())

	case *lang.PublishStmt:
		value, err := sr.evalExpr(s.Expr, env)
		if err != nil {
			return normalResult, err
		}
		return normalResult, sr.interp.publishValue(value, s.Line())

	case *lang.SendStmt:
		value, err := sr.evalExpr(s.Expr, env)
		if err != nil {
			return normalResult, err
		}
		return normalResult, sr.interp.sendValue(value, s.Line())

	case *lang.ReturnStmt:
		var value Value
		if s.Expr != nil {
			v, err := sr.evalExpr(s.Expr, env)
			if err != nil {
				return normalResult, err
			}
			value = v
		}
		return returnResult(value), nil

	case *lang.ExprStmt:
		_, err := sr.evalExpr(s.Expr, env)
		return normalResult, err
	}
	return normalResult, runtimeErrorf(stmt.Line(), "unknown statement %T", stmt)
}

func (sr *stepRunner) assignTarget(target lang.Expr, value Value, env *Environment, line int) error {
	switch t := target.(type) {
	case *lang.Var:
		if err := env.Set(t.Name, value); err != nil {
			return runtimeErrorf(line, "%s", err)
		}
		return nil
	case *lang.IndexExpr:
		base, err := sr.evalExpr(t.Base, env)
		if err != nil {
			return err
		}
		idxVal, err := sr.evalExpr(t.Index, env)
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

// evalExpr mirrors Interpreter.evalExpr exactly except CallExpr recurses
// through the stepRunner so that nested user-function calls emit their own
// StepInfo sequence, interleaved with the caller's.
func (sr *stepRunner) evalExpr(expr lang.Expr, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *lang.CallExpr:
		args := make([]Value, len(e.Args))
		for i, a := range e.Args {
			v, err := sr.evalExpr(a, env)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return sr.callFunction(e.Name, args, e.Line(), env)

	case *lang.UnaryOp:
		v, err := sr.evalExpr(e.Expr, env)
		if err != nil {
			return nil, err
		}
		return evalUnary(e.Op, v, e.Line())

	case *lang.BinaryOp:
		if e.Op == "and" || e.Op == "or" {
			return evalShortCircuit(e.Op, e.Left, e.Right, env, sr.evalExpr)
		}
		left, err := sr.evalExpr(e.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := sr.evalExpr(e.Right, env)
		if err != nil {
			return nil, err
		}
		return evalBinary(e.Op, left, right, e.Line())

	case *lang.IndexExpr:
		base, err := sr.evalExpr(e.Base, env)
		if err != nil {
			return nil, err
		}
		idxVal, err := sr.evalExpr(e.Index, env)
		if err != nil {
			return nil, err
		}
		idx, ok := idxVal.(int)
		if !ok {
			return nil, runtimeErrorf(e.Line(), "index must be int, got %s", describe(idxVal))
		}
		return sr.interp.indexValue(base, idx, e.Line())

	case *lang.ColorLit:
		r, err := sr.evalExpr(e.R, env)
		if err != nil {
			return nil, err
		}
		g, err := sr.evalExpr(e.G, env)
		if err != nil {
			return nil, err
		}
		b, err := sr.evalExpr(e.B, env)
		if err != nil {
			return nil, err
		}
		return Tuple{r, g, b}, nil

	case *lang.PixelLit:
		x, err := sr.evalExpr(e.X, env)
		if err != nil {
			return nil, err
		}
		y, err := sr.evalExpr(e.Y, env)
		if err != nil {
			return nil, err
		}
		return Tuple{x, y}, nil

	case *lang.ListLit:
		items := make([]Value, len(e.Items))
		for i, it := range e.Items {
			v, err := sr.evalExpr(it, env)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return &List{Items: items}, nil

	case *lang.ParenExpr:
		return sr.evalExpr(e.Expr, env)

	case *lang.WalrusAssign:
		v, err := sr.evalExpr(e.Expr, env)
		if err != nil {
			return nil, err
		}
		if err := env.Set(e.Name, v); err != nil {
			return nil, runtimeErrorf(e.Line(), "%s", err)
		}
		return v, nil

	case *lang.WalrusDecl:
		v, err := sr.evalExpr(e.Expr, env)
		if err != nil {
			return nil, err
		}
		env.Define(e.Name, v)
		return v, nil

	default:
		// Literal and Var carry no nested expressions to intercept.
		return sr.interp.evalExpr(expr, env)
	}
}

func (sr *stepRunner) callFunction(name string, args []Value, line int, env *Environment) (Value, error) {
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
		res, err := sr.execBlock(f.Decl.Body, callEnv)
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
