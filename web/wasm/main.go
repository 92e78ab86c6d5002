//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/cwbudde/algo-tuner/internal/webdemo"
	"github.com/cwbudde/algo-tuner/measure/note"
	"github.com/cwbudde/algo-tuner/measure/pitch"
)

var (
	engine *webdemo.Engine
	funcs  []js.Func
)

func main() {
	api := js.Global().Get("Object").New()
	api.Set("init", export(func(args []js.Value) any {
		sr, size := 48000.0, 2048
		if len(args) > 0 {
			sr = args[0].Float()
		}
		if len(args) > 1 {
			size = args[1].Int()
		}
		e, err := webdemo.NewEngine(sr, size)
		if err != nil {
			return err.Error()
		}
		engine = e
		return js.Null()
	}))

	api.Set("write", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		input := args[0]
		buf := make([]float32, input.Length())
		for i := range buf {
			buf[i] = float32(input.Index(i).Float())
		}
		engine.Write(buf)
		return js.Null()
	}))

	api.Set("demo", export(func(args []js.Value) any {
		if engine == nil || len(args) < 1 {
			return js.Null()
		}
		cents := 0.0
		if len(args) > 1 {
			cents = args[1].Float()
		}
		if err := engine.Demo(args[0].Float(), cents); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	api.Set("setTarget", export(func(args []js.Value) any {
		if engine == nil {
			return js.Null()
		}
		name := ""
		if len(args) > 0 && args[0].Type() == js.TypeString {
			name = args[0].String()
		}
		if err := engine.SetTarget(name); err != nil {
			return err.Error()
		}
		return js.Null()
	}))

	// frame is called from requestAnimationFrame.
	api.Set("frame", export(func(args []js.Value) any {
		if engine == nil {
			return js.Null()
		}
		v, err := engine.Frame()
		if err != nil {
			return err.Error()
		}
		return viewObject(v)
	}))

	api.Set("reset", export(func(args []js.Value) any {
		if engine != nil {
			engine.Reset()
		}
		return js.Null()
	}))

	api.Set("estimate", export(func(args []js.Value) any {
		if len(args) < 2 {
			return js.Null()
		}
		input := args[0]
		x := make([]float64, input.Length())
		for i := range x {
			x[i] = input.Index(i).Float()
		}
		hz, ok := pitch.Detect(x, args[1].Float()).Hz()
		if !ok {
			return js.Null()
		}
		return hz
	}))

	api.Set("note", export(func(args []js.Value) any {
		if len(args) < 1 {
			return js.Null()
		}
		n, err := note.FromFrequency(args[0].Float())
		if err != nil {
			return js.Null()
		}
		obj := js.Global().Get("Object").New()
		obj.Set("name", n.Name())
		obj.Set("number", n.Number)
		obj.Set("octave", n.Octave)
		obj.Set("standard", n.Standard)
		obj.Set("cents", n.Cents)
		return obj
	}))

	js.Global().Set("AlgoTuner", api)
	select {}
}

func viewObject(v webdemo.View) js.Value {
	obj := js.Global().Get("Object").New()
	obj.Set("detected", v.Detected)
	obj.Set("frequency", v.Frequency)
	obj.Set("note", v.Note)
	obj.Set("cents", v.Cents)
	obj.Set("position", v.Position)
	obj.Set("inTune", v.InTune)
	obj.Set("level", v.Level)
	obj.Set("status", v.Status)
	obj.Set("line", v.Line)
	return obj
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
