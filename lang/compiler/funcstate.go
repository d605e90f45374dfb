package compiler

import "github.com/aql-lang/aql/lang/opcode"

// localVar is an active local variable: its register and the name bound to
// it (names shadow as blocks nest, per ordinary lexical scoping).
type localVar struct {
	name string
	reg int
}

// blockCnt is a compile-time block on the FuncState's block chain, tracking
// enough state to patch break/continue jumps and restore nactvar on block
// exit.
type blockCnt struct {
	prev *blockCnt
	breakList int // patch list of pending jumps to the end of the loop
	continueList int // patch list of pending jumps to the loop's re-test
	nactvar int // number of active locals outside this block
	isLoop bool
}

// FuncState holds the compiler's state for the function currently being
// parsed: its growing instruction stream, active locals, constant pool, and
// enclosing-function link for upvalue resolution. One FuncState exists per
// nested function literal, chained through prev to its enclosing function.
type FuncState struct {
	proto *Proto
	prev *FuncState
	p *Parser

	block *blockCnt

	actVars []localVar
	nactvar int
	freereg int

	constIndex map[Constant]int
	lastLine int

	// hasUpvalCapture is set once some nested function captures one of
	// this function's locals as an upvalue.
	// leaveBlock/break/continue use it to decide whether a CLOSE is worth
	// emitting; it is function-wide rather than tracked per block, a
	// deliberate simplification (see DESIGN.md) that over-closes slightly
	// but never under-closes.
	hasUpvalCapture bool
}

func newFuncState(p *Parser, prev *FuncState, source string, line int) *FuncState {
	return &FuncState{
		proto: &Proto{Source: source, LineDefined: line},
		prev: prev,
		p: p,
		constIndex: make(map[Constant]int),
		lastLine: line,
	}
}

// reserveRegs bumps freereg by n, tracking the function's high-water mark
// in MaxStackSize.
func (fs *FuncState) reserveRegs(n int) int {
	base := fs.freereg
	fs.freereg += n
	if fs.freereg > fs.proto.MaxStackSize {
		fs.proto.MaxStackSize = fs.freereg
	}
	return base
}

// freeReg releases register r if it is the top of the free-register
// window and not a local variable's register.
func (fs *FuncState) freeReg(r int) {
	if r >= fs.nactvar && r == fs.freereg-1 {
		fs.freereg--
	}
}

// addK interns a constant, returning its index. Equal constants (by value
// and kind) share an index.
func (fs *FuncState) addK(c Constant) int {
	if idx, ok := fs.constIndex[c]; ok {
		return idx
	}
	idx := len(fs.proto.Constants)
	fs.proto.Constants = append(fs.proto.Constants, c)
	fs.constIndex[c] = idx
	return idx
}

func (fs *FuncState) emit(i opcode.Instruction, line int) int {
	fs.proto.Code = append(fs.proto.Code, i)
	fs.proto.Lines = append(fs.proto.Lines, int32(line))
	fs.lastLine = line
	return len(fs.proto.Code) - 1
}

func (fs *FuncState) emitABC(op opcode.Op, a, b, c int, k bool, line int) int {
	return fs.emit(opcode.MakeABC(op, a, b, c, k), line)
}

func (fs *FuncState) emitABx(op opcode.Op, a, bx int, line int) int {
	return fs.emit(opcode.MakeABx(op, a, bx), line)
}

func (fs *FuncState) emitAsBx(op opcode.Op, a, sbx int, line int) int {
	return fs.emit(opcode.MakeAsBx(op, a, sbx), line)
}

func (fs *FuncState) emitAxC(op opcode.Op, a, sc int, line int) int {
	return fs.emit(opcode.MakeAxC(op, a, sc), line)
}

func (fs *FuncState) pc() int { return len(fs.proto.Code) }

// enterBlock pushes a new lexical block, remembering the active-variable
// count so leaveBlock can restore it.
func (fs *FuncState) enterBlock(isLoop bool) *blockCnt {
	b := &blockCnt{prev: fs.block, nactvar: fs.nactvar, isLoop: isLoop, breakList: noJump, continueList: noJump}
	fs.block = b
	return b
}

// leaveBlock pops the current block, closing over any locals it declared
// and returning it so the caller can patch its break/continue lists. If
// the function has any upvalue capture at all and this block held locals,
// it emits CLOSE first.
func (fs *FuncState) leaveBlock() *blockCnt {
	b := fs.block
	if fs.hasUpvalCapture && fs.nactvar > b.nactvar {
		fs.emitABC(opcode.CLOSE, b.nactvar, 0, 0, false, fs.lastLine)
	}
	fs.removeVars(b.nactvar)
	fs.freereg = fs.nactvar
	fs.block = b.prev
	return b
}

// loopBlock walks up the block chain to the nearest enclosing loop, for
// break/continue to target.
func (fs *FuncState) loopBlock() *blockCnt {
	for b := fs.block; b != nil; b = b.prev {
		if b.isLoop {
			return b
		}
	}
	return nil
}

// newLocal declares a new active local in the current register window.
func (fs *FuncState) newLocal(name string) int {
	reg := fs.reserveRegs(1)
	fs.actVars = append(fs.actVars, localVar{name: name, reg: reg})
	fs.nactvar++
	return reg
}

// removeVars pops actVars back down to toLevel active variables.
func (fs *FuncState) removeVars(toLevel int) {
	for fs.nactvar > toLevel {
		fs.nactvar--
		fs.actVars = fs.actVars[:len(fs.actVars)-1]
	}
}

// resolveLocal looks up name among the currently active locals, innermost
// first.
func (fs *FuncState) resolveLocal(name string) (reg int, ok bool) {
	for i := len(fs.actVars) - 1; i >= 0; i-- {
		if fs.actVars[i].name == name {
			return fs.actVars[i].reg, true
		}
	}
	return 0, false
}

// resolveUpval finds or creates an upvalue named name, searching the chain
// of enclosing FuncStates: first check the immediate parent's locals, then
// recurse into the parent's own upvalues.
func (fs *FuncState) resolveUpval(name string) (idx int, ok bool) {
	if fs.prev == nil {
		return 0, false
	}
	for i, uv := range fs.proto.Upvalues {
		if uv.Name == name {
			return i, true
		}
	}
	if reg, found := fs.prev.resolveLocal(name); found {
		idx = len(fs.proto.Upvalues)
		fs.proto.Upvalues = append(fs.proto.Upvalues, UpvalDesc{Name: name, InStack: true, Index: reg})
		fs.prev.hasUpvalCapture = true
		return idx, true
	}
	if parentIdx, found := fs.prev.resolveUpval(name); found {
		idx = len(fs.proto.Upvalues)
		fs.proto.Upvalues = append(fs.proto.Upvalues, UpvalDesc{Name: name, InStack: false, Index: parentIdx})
		return idx, true
	}
	return 0, false
}
