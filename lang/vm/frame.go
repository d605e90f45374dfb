package vm

import (
	"github.com/aql-lang/aql/lang/compiler"
	"github.com/aql-lang/aql/lang/value"
)

// frame is one activation record: the register window a Proto executes
// over, its program counter, and the bookkeeping CLOSE and the generic-for
// iterator protocol need.
type frame struct {
	proto *compiler.Proto
	closure *Closure
	regs []value.Value
	pc int
	line int
	openUV map[int]*upvalue
	iterStk []value.Iterator
}

func newFrame(proto *compiler.Proto, closure *Closure) *frame {
	return &frame{
		proto: proto,
		closure: closure,
		regs: make([]value.Value, proto.MaxStackSize),
		line: proto.LineDefined,
	}
}

// findOrCreateUpvalue returns the open upvalue aliasing register idx,
// creating it if no closure has captured that register yet. Two closures
// created while the same register is live share one upvalue object, so a
// write through either is visible to both.
func (fr *frame) findOrCreateUpvalue(idx int) *upvalue {
	if fr.openUV == nil {
		fr.openUV = make(map[int]*upvalue)
	}
	if uv, ok := fr.openUV[idx]; ok {
		return uv
	}
	uv := &upvalue{fr: fr, idx: idx}
	fr.openUV[idx] = uv
	return uv
}

// closeFrom closes every open upvalue aliasing register level or above,
// the runtime counterpart of the CLOSE opcode.
func (fr *frame) closeFrom(level int) {
	for idx, uv := range fr.openUV {
		if idx >= level {
			uv.close()
			delete(fr.openUV, idx)
		}
	}
}

// closeAll closes every remaining open upvalue, called when the frame
// returns so upvalues outlive the registers they were aliasing.
func (fr *frame) closeAll() {
	for _, uv := range fr.openUV {
		uv.close()
	}
	fr.openUV = nil
	for _, it := range fr.iterStk {
		it.Done()
	}
	fr.iterStk = nil
}
