package compiler

import "github.com/aql-lang/aql/lang/opcode"

// singlevar resolves name to an expdesc: a local, an upvalue (creating the
// chain of intermediate upvalues if the binding lives in an ancestor
// function), or — failing both — a global, rewritten as an index into the
// _ENV upvalue with name as a string key.
func (p *Parser) singlevar(name string) expdesc {
	fs := p.fs
	if reg, ok := fs.resolveLocal(name); ok {
		return expdesc{kind: VLOCAL, info: reg, t: noJump, f: noJump}
	}
	if idx, ok := fs.resolveUpval(name); ok {
		return expdesc{kind: VUPVAL, info: idx, t: noJump, f: noJump}
	}
	return p.globalVar(name)
}

// globalVar builds the VINDEXED expdesc for a name that resolved to
// neither a local nor an upvalue: it indexes the _ENV upvalue (itself
// resolved/created through the same upvalue chain as any other capture)
// with name as a string constant key.
func (p *Parser) globalVar(name string) expdesc {
	fs := p.fs
	envIdx, ok := fs.resolveEnvUpval()
	if !ok {
		p.errorHere("internal error: no _ENV upvalue available for global %q", name)
		return voidExp()
	}
	envReg := fs.exp2anyreg(&expdesc{kind: VUPVAL, info: envIdx, t: noJump, f: noJump}, p.line())
	key := opcode.RKAsK(fs.addK(strConst(name)))
	return expdesc{kind: VINDEXED, ind: indexedDesc{table: envReg, key: key}, t: noJump, f: noJump}
}

// resolveEnvUpval finds or creates the _ENV upvalue in the current
// function, walking up the FuncState chain exactly like resolveUpval but
// seeded with the implicit name "_ENV" every function inherits.
func (fs *FuncState) resolveEnvUpval() (int, bool) {
	for i, uv := range fs.proto.Upvalues {
		if uv.Name == "_ENV" {
			return i, true
		}
	}
	if fs.prev == nil {
		// Top-level chunk: _ENV is installed directly by compileChunk.
		return 0, false
	}
	if idx, ok := fs.prev.resolveEnvUpval(); ok {
		newIdx := len(fs.proto.Upvalues)
		fs.proto.Upvalues = append(fs.proto.Upvalues, UpvalDesc{Name: "_ENV", InStack: false, Index: idx})
		return newIdx, true
	}
	return 0, false
}
