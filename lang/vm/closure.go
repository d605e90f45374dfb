package vm

import (
	"fmt"

	"github.com/aql-lang/aql/lang/compiler"
	"github.com/aql-lang/aql/lang/value"
)

// upvalue is a Lua-style open/closed cell: while open it
// aliases a live register in an enclosing frame, so writes through either
// the local or the closure stay visible to both; CLOSE detaches it from the
// frame and gives it its own storage, the transition the frame's
// leaveBlock/break/continue sites emit CLOSE for.
type upvalue struct {
	fr *frame // non-nil while open
	idx int // register index in fr, while open
	value value.Value
}

func (uv *upvalue) get() value.Value {
	if uv.fr != nil {
		return uv.fr.regs[uv.idx]
	}
	return uv.value
}

func (uv *upvalue) set(v value.Value) {
	if uv.fr != nil {
		uv.fr.regs[uv.idx] = v
		return
	}
	uv.value = v
}

func (uv *upvalue) close() {
	if uv.fr != nil {
		uv.value = uv.fr.regs[uv.idx]
		uv.fr = nil
	}
}

// Closure is a callable AQL function value: a compiled prototype plus the
// upvalues captured at CLOSURE time.
type Closure struct {
	proto *compiler.Proto
	upvals []*upvalue
}

var _ value.Value = (*Closure)(nil)

func (c *Closure) String() string { return fmt.Sprintf("function: %p", c) }
func (c *Closure) Type() string { return "function" }
func (c *Closure) Truth() value.Bool { return value.True }
func (c *Closure) Freeze() {}

// GoFunc is a host-provided function value, the embedding API's hook for
// exposing Go callbacks to AQL code.
type GoFunc struct {
	name string
	fn func(th *Thread, args []value.Value) (value.Value, error)
}

// NewGoFunc wraps fn as a callable AQL value under the given name (used in
// stack traces and the function's String()).
func NewGoFunc(name string, fn func(th *Thread, args []value.Value) (value.Value, error)) *GoFunc {
	return &GoFunc{name: name, fn: fn}
}

var _ value.Value = (*GoFunc)(nil)

func (g *GoFunc) String() string { return fmt.Sprintf("function: builtin:%s", g.name) }
func (g *GoFunc) Type() string { return "function" }
func (g *GoFunc) Truth() value.Bool { return value.True }
func (g *GoFunc) Freeze() {}
