package compiler

import (
	"github.com/aql-lang/aql/lang/opcode"
	"github.com/aql-lang/aql/lang/token"
)

// envUpvalIndex is the index of the implicit _ENV upvalue every function
// inherits, which globals resolve through.
const envUpvalIndex = 0

// Compile parses and compiles one AQL source chunk, returning its top-level
// function prototype.
func Compile(filename string, src []byte) (*Proto, error) {
	p := newParser(filename, src)
	proto := p.compileChunk()
	if err := p.errs.Err(); err != nil {
		return nil, err
	}
	return proto, nil
}

// compileChunk opens the top-level (main) FuncState, parses the whole
// chunk as its body, and closes it.
func (p *Parser) compileChunk() *Proto {
	fs := p.openFunc(nil, true)
	fs.proto.Upvalues = append(fs.proto.Upvalues, UpvalDesc{Name: "_ENV", InStack: true, Index: 0})

	p.block()
	p.expect(token.EOF)

	p.closeFunc()
	return fs.proto
}

// openFunc creates a new FuncState for a function body about to be parsed,
// linking it to the enclosing one (nil for the top-level chunk), and resets
// its prologue state: pc=0, freereg=0, nactvar=0. MaxStackSize starts at
// the 2-register minimum a call frame needs.
func (p *Parser) openFunc(prev *FuncState, isVararg bool) *FuncState {
	fs := newFuncState(p, prev, p.filename, p.line())
	fs.proto.IsVararg = isVararg
	fs.proto.MaxStackSize = 2
	fs.enterBlock(false)
	p.fs = fs
	return fs
}

// closeFunc emits the function's implicit trailing return and pops back to
// the enclosing FuncState.
func (p *Parser) closeFunc() *Proto {
	fs := p.fs
	fs.emitABC(opcode.RET_VOID, 0, 0, 0, false, p.line())
	fs.leaveBlock()
	proto := fs.proto
	p.fs = fs.prev
	return proto
}
