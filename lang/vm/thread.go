package vm

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aql-lang/aql/lang/compiler"
	"github.com/aql-lang/aql/lang/value"
)

// Thread executes one or more AQL programs sequentially, carrying the I/O
// streams, step budget, and global environment they share.
type Thread struct {
	// Name optionally labels the thread for diagnostics.
	Name string

	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	// MaxSteps bounds the number of executed instructions before the thread
	// is cancelled; <= 0 means unlimited.
	MaxSteps int

	// MaxCallStackDepth bounds nested Closure calls; <= 0 means unlimited.
	MaxCallStackDepth int

	// Globals is the dict backing the program's _ENV upvalue. A nil Globals
	// at RunProgram time gets a fresh empty dict.
	Globals *value.Dict

	steps     uint64
	callDepth int
	running   bool
}

func (th *Thread) stdout() io.Writer {
	if th.Stdout != nil {
		return th.Stdout
	}
	return os.Stdout
}

func (th *Thread) stderr() io.Writer {
	if th.Stderr != nil {
		return th.Stderr
	}
	return os.Stderr
}

// RunProgram executes proto as a module top-level, binding its _ENV
// upvalue to th.Globals (creating one if nil). Only one program may run on
// a Thread at a time.
func (th *Thread) RunProgram(ctx context.Context, proto *compiler.Proto) (value.Value, error) {
	if th.running {
		return nil, fmt.Errorf("vm: thread %s is already executing a program", th.Name)
	}
	th.running = true
	defer func() { th.running = false }()

	if th.Globals == nil {
		th.Globals = value.NewDict(8)
	}

	envUpval := &upvalue{value: th.Globals}
	top := &Closure{proto: proto, upvals: []*upvalue{envUpval}}
	return th.Call(ctx, top, nil)
}

// Call invokes fn (a *Closure or *GoFunc) with the given positional
// arguments.
func (th *Thread) Call(ctx context.Context, fn value.Value, args []value.Value) (value.Value, error) {
	switch c := fn.(type) {
	case *Closure:
		if th.MaxCallStackDepth > 0 && th.callDepth >= th.MaxCallStackDepth {
			return nil, fmt.Errorf("vm: call stack overflow")
		}
		th.callDepth++
		defer func() { th.callDepth-- }()
		return th.callClosure(ctx, c, args)
	case *GoFunc:
		return c.fn(th, args)
	default:
		return nil, fmt.Errorf("vm: attempt to call a %s value", fn.Type())
	}
}

func (th *Thread) callClosure(ctx context.Context, c *Closure, args []value.Value) (value.Value, error) {
	fr := newFrame(c.proto, c)
	n := c.proto.NumParams
	for i := 0; i < n && i < len(args); i++ {
		fr.regs[i] = args[i]
	}
	for i := len(args); i < n; i++ {
		fr.regs[i] = value.Nil
	}
	defer fr.closeAll()
	return th.exec(ctx, fr)
}
