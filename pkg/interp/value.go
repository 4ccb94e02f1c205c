// Package interp implements the QGraphic tree-walking interpreter: the
// Environment model, the dynamically-typed Value representation, operator
// dispatch, the built-in function table, and both the eager and stepping
// execution drivers.
package interp

import (
	"fmt"

	"qgraphic/pkg/frame"
	"qgraphic/pkg/lang"
)

// Value is the dynamically-typed runtime value every expression evaluates
// to. It is one of: nil (None), int, bool, string, Tuple (color/pixel
// literals), *List, *frame.Frame, *PixelRef, *FunctionValue, or Builtin.
// Callers dispatch on the concrete type with a type switch.
type Value = any

// Tuple is the immutable result of a ColorLit or PixelLit: a 3-tuple
// (r, g, b) or a 2-tuple (x, y).
type Tuple []Value

// List is the mutable backing store for a `list`-typed Value; IndexExpr
// assignment mutates Items in place.
type List struct {
	Items []Value
}

// NewList returns an empty list, the `list` type default.
func NewList() *List { return &List{} }

// PixelRef is the transient `(frame, x, y)` triple produced by the `->`
// operator.
type PixelRef struct {
	Frame *frame.Frame
	X, Y  int
}

// FunctionValue is a user-defined function bound to the environment it was
// declared in (always the global environment — QGraphic has no nested
// function declarations).
type FunctionValue struct {
	Decl    *lang.FunctionDecl
	Closure *Environment
}

// Builtin is a native function: it receives an already-evaluated argument
// list and the source line of the call.
type Builtin func(args []Value, line int) (Value, error)

// Truthy implements QGraphic's truthiness rule: null/false/0/""/[] are
// false, everything else is true.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	case string:
		return x != ""
	case *List:
		return len(x.Items) != 0
	case Tuple:
		return len(x) != 0
	default:
		return true
	}
}

// Equal implements structural equality across scalars, tuples, and lists.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Tuple:
		bv, ok := b.(Tuple)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// TypeDefault returns the zero value for a VarDecl/Param type keyword.
// Frame defaults are wired to the interpreter's mutation tracker via
// newFrame.
func (in *Interpreter) TypeDefault(typeName string, line int) (Value, error) {
	switch typeName {
	case "int":
		return 0, nil
	case "bool":
		return false, nil
	case "string":
		return "", nil
	case "list":
		return NewList(), nil
	case "color":
		return Tuple{0, 0, 0}, nil
	case "pixel":
		return Tuple{0, 0}, nil
	case "Frame":
		return in.newFrame(), nil
	case "None":
		return nil, nil
	}
	return nil, runtimeErrorf(line, "unknown type %q", typeName)
}

func describe(v Value) string {
	switch v.(type) {
	case nil:
		return "None"
	case int:
		return "int"
	case bool:
		return "bool"
	case string:
		return "string"
	case Tuple:
		return "tuple"
	case *List:
		return "list"
	case *frame.Frame:
		return "Frame"
	case *PixelRef:
		return "PixelRef"
	case *FunctionValue:
		return "function"
	case Builtin:
		return "builtin"
	default:
		return fmt.Sprintf("%T", v)
	}
}
