package interp

import (
	"qgraphic/pkg/codec"
	"qgraphic/pkg/frame"
)

// installBuiltins binds the built-in function table in the
// interpreter's global environment.
func installBuiltins(in *Interpreter) {
	g := in.globals
	g.Define("Frame", Builtin(func(args []Value, line int) (Value, error) {
		if len(args) != 0 {
			return nil, runtimeErrorf(line, "Frame() takes no arguments")
		}
		return in.newFrame(), nil
	}))

	g.Define("setRed", Builtin(func(args []Value, line int) (Value, error) {
		return nil, setChannel(args, line, func(f *frame.Frame, x, y, v int) { f.SetRed(x, y, v) })
	}))
	g.Define("setGreen", Builtin(func(args []Value, line int) (Value, error) {
		return nil, setChannel(args, line, func(f *frame.Frame, x, y, v int) { f.SetGreen(x, y, v) })
	}))
	g.Define("setBlue", Builtin(func(args []Value, line int) (Value, error) {
		return nil, setChannel(args, line, func(f *frame.Frame, x, y, v int) { f.SetBlue(x, y, v) })
	}))

	g.Define("setColor", Builtin(builtinSetColor))
	g.Define("getPixel", Builtin(builtinGetPixel))
	g.Define("getRed", Builtin(func(args []Value, line int) (Value, error) {
		return getChannel(args, line, func(f *frame.Frame, x, y int) int { return f.GetRed(x, y) })
	}))
	g.Define("getGreen", Builtin(func(args []Value, line int) (Value, error) {
		return getChannel(args, line, func(f *frame.Frame, x, y int) int { return f.GetGreen(x, y) })
	}))
	g.Define("getBlue", Builtin(func(args []Value, line int) (Value, error) {
		return getChannel(args, line, func(f *frame.Frame, x, y int) int { return f.GetBlue(x, y) })
	}))

	g.Define("makeRect", Builtin(func(args []Value, line int) (Value, error) {
		return nil, withFramePointsColor(args, line, "makeRect", func(f *frame.Frame, p1x, p1y, p2x, p2y, r, gc, b int) {
			f.MakeRect(p1x, p1y, p2x, p2y, r, gc, b)
		})
	}))
	g.Define("makeLine", Builtin(func(args []Value, line int) (Value, error) {
		return nil, withFramePointsColor(args, line, "makeLine", func(f *frame.Frame, p1x, p1y, p2x, p2y, r, gc, b int) {
			f.MakeLine(p1x, p1y, p2x, p2y, r, gc, b)
		})
	}))
	g.Define("makeOval", Builtin(func(args []Value, line int) (Value, error) {
		return nil, withFramePointsColor(args, line, "makeOval", func(f *frame.Frame, p1x, p1y, p2x, p2y, r, gc, b int) {
			f.MakeOval(p1x, p1y, p2x, p2y, r, gc, b)
		})
	}))

	g.Define("makeCurve", Builtin(builtinMakeCurve))
	g.Define("Fill", Builtin(builtinFill))
	g.Define("LoadQGC", Builtin(func(args []Value, line int) (Value, error) {
		return builtinLoadQGC(in, args, line)
	}))
	g.Define("SaveQGC", Builtin(builtinSaveQGC))
}

func asFrame(v Value, line int, who string) (*frame.Frame, error) {
	f, ok := v.(*frame.Frame)
	if !ok {
		return nil, runtimeErrorf(line, "%s requires a Frame, got %s", who, describe(v))
	}
	return f, nil
}

func asPixelRef(v Value, line int, who string) (*PixelRef, error) {
	p, ok := v.(*PixelRef)
	if !ok {
		return nil, runtimeErrorf(line, "%s requires a frame->pixel argument, got %s", who, describe(v))
	}
	return p, nil
}

func asInt(v Value, line int, who string) (int, error) {
	i, ok := v.(int)
	if !ok {
		return 0, runtimeErrorf(line, "%s requires an int, got %s", who, describe(v))
	}
	return i, nil
}

func asColor3(v Value, line int, who string) (r, g, b int, err error) {
	t, ok := v.(Tuple)
	if !ok || len(t) != 3 {
		return 0, 0, 0, runtimeErrorf(line, "%s requires a color 3-tuple", who)
	}
	ints, err := tupleInts(t, line)
	if err != nil {
		return 0, 0, 0, err
	}
	return ints[0], ints[1], ints[2], nil
}

// asPoint resolves a point argument: either a PixelRef (degrading to its
// (x,y)) or a 2-tuple.
func asPoint(v Value, line int, who string) (x, y int, err error) {
	if p, ok := v.(*PixelRef); ok {
		return p.X, p.Y, nil
	}
	t, ok := v.(Tuple)
	if !ok || len(t) != 2 {
		return 0, 0, runtimeErrorf(line, "%s requires a point (PixelRef or 2-tuple), got %s", who, describe(v))
	}
	ints, err := tupleInts(t, line)
	if err != nil {
		return 0, 0, err
	}
	return ints[0], ints[1], nil
}

func setChannel(args []Value, line int, apply func(f *frame.Frame, x, y, v int)) error {
	if len(args) != 2 {
		return runtimeErrorf(line, "expected (frame->pixel, int), got %d arguments", len(args))
	}
	ptr, err := asPixelRef(args[0], line, "setRed/setGreen/setBlue")
	if err != nil {
		return err
	}
	v, err := asInt(args[1], line, "setRed/setGreen/setBlue")
	if err != nil {
		return err
	}
	apply(ptr.Frame, ptr.X, ptr.Y, v)
	return nil
}

func getChannel(args []Value, line int, read func(f *frame.Frame, x, y int) int) (Value, error) {
	if len(args) != 1 {
		return nil, runtimeErrorf(line, "expected (frame->pixel), got %d arguments", len(args))
	}
	ptr, err := asPixelRef(args[0], line, "getRed/getGreen/getBlue")
	if err != nil {
		return nil, err
	}
	return read(ptr.Frame, ptr.X, ptr.Y), nil
}

func builtinSetColor(args []Value, line int) (Value, error) {
	if len(args) != 2 {
		return nil, runtimeErrorf(line, "setColor expects (frame->pixel, color), got %d arguments", len(args))
	}
	ptr, err := asPixelRef(args[0], line, "setColor")
	if err != nil {
		return nil, err
	}
	r, g, b, err := asColor3(args[1], line, "setColor")
	if err != nil {
		return nil, err
	}
	ptr.Frame.SetColor(ptr.X, ptr.Y, r, g, b)
	return nil, nil
}

func builtinGetPixel(args []Value, line int) (Value, error) {
	if len(args) != 1 {
		return nil, runtimeErrorf(line, "getPixel expects (frame->pixel), got %d arguments", len(args))
	}
	ptr, err := asPixelRef(args[0], line, "getPixel")
	if err != nil {
		return nil, err
	}
	px := ptr.Frame.GetPixel(ptr.X, ptr.Y)
	return Tuple{px.R, px.G, px.B}, nil
}

func withFramePointsColor(args []Value, line int, who string, apply func(f *frame.Frame, p1x, p1y, p2x, p2y, r, g, b int)) error {
	if len(args) != 4 {
		return runtimeErrorf(line, "%s expects (Frame, point, point, color), got %d arguments", who, len(args))
	}
	f, err := asFrame(args[0], line, who)
	if err != nil {
		return err
	}
	x1, y1, err := asPoint(args[1], line, who)
	if err != nil {
		return err
	}
	x2, y2, err := asPoint(args[2], line, who)
	if err != nil {
		return err
	}
	r, g, b, err := asColor3(args[3], line, who)
	if err != nil {
		return err
	}
	apply(f, x1, y1, x2, y2, r, g, b)
	return nil
}

func builtinMakeCurve(args []Value, line int) (Value, error) {
	if len(args) != 5 {
		return nil, runtimeErrorf(line, "makeCurve expects (Frame, p1, p2, control, color), got %d arguments", len(args))
	}
	f, err := asFrame(args[0], line, "makeCurve")
	if err != nil {
		return nil, err
	}
	x1, y1, err := asPoint(args[1], line, "makeCurve")
	if err != nil {
		return nil, err
	}
	x2, y2, err := asPoint(args[2], line, "makeCurve")
	if err != nil {
		return nil, err
	}
	cx, cy, err := asPoint(args[3], line, "makeCurve")
	if err != nil {
		return nil, err
	}
	r, g, b, err := asColor3(args[4], line, "makeCurve")
	if err != nil {
		return nil, err
	}
	f.MakeCurve(x1, y1, x2, y2, cx, cy, r, g, b)
	return nil, nil
}

func builtinFill(args []Value, line int) (Value, error) {
	if len(args) != 4 {
		return nil, runtimeErrorf(line, "Fill expects (Frame, int, int, color), got %d arguments", len(args))
	}
	f, err := asFrame(args[0], line, "Fill")
	if err != nil {
		return nil, err
	}
	x, err := asInt(args[1], line, "Fill")
	if err != nil {
		return nil, err
	}
	y, err := asInt(args[2], line, "Fill")
	if err != nil {
		return nil, err
	}
	r, g, b, err := asColor3(args[3], line, "Fill")
	if err != nil {
		return nil, err
	}
	f.Fill(x, y, r, g, b)
	return nil, nil
}

func builtinLoadQGC(in *Interpreter, args []Value, line int) (Value, error) {
	if len(args) != 1 {
		return nil, runtimeErrorf(line, "LoadQGC expects (path), got %d arguments", len(args))
	}
	path, ok := args[0].(string)
	if !ok {
		return nil, runtimeErrorf(line, "LoadQGC requires a string path, got %s", describe(args[0]))
	}
	f, err := codec.LoadQGC(path)
	if err != nil {
		return nil, runtimeErrorf(line, "LoadQGC: %s", err)
	}
	f.SetOnChange(in.onFrameChange)
	return f, nil
}

func builtinSaveQGC(args []Value, line int) (Value, error) {
	if len(args) != 2 {
		return nil, runtimeErrorf(line, "SaveQGC expects (Frame, path), got %d arguments", len(args))
	}
	f, err := asFrame(args[0], line, "SaveQGC")
	if err != nil {
		return nil, err
	}
	path, ok := args[1].(string)
	if !ok {
		return nil, runtimeErrorf(line, "SaveQGC requires a string path, got %s", describe(args[1]))
	}
	if err := codec.SaveQGC(f, path); err != nil {
		return nil, runtimeErrorf(line, "SaveQGC: %s", err)
	}
	return nil, nil
}
