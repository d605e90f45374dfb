package compiler

import "github.com/aql-lang/aql/lang/opcode"

// noJump marks the end of a jump-patch list: each pending JMP in the list stores the pc of the next
// pending JMP in its own sBx field until the list is patched to a real
// target, at which point every link in the chain is rewritten to jump
// there directly.
const noJump = -1

// jump emits an unconditional JMP with an as-yet-unknown target and
// returns its pc so it can be linked into a patch list.
func (fs *FuncState) jump(line int) int {
	return fs.emitAsBx(opcode.JMP, 0, noJump, line)
}

// getJumpDest returns the absolute pc a JMP at pc targets, or noJump if it
// terminates its list.
func (fs *FuncState) getJumpDest(pc int) int {
	offset := fs.proto.Code[pc].SBx()
	if offset == noJump {
		return noJump
	}
	return pc + 1 + offset
}

// fixJump patches the JMP at pc to target dest.
func (fs *FuncState) fixJump(pc, dest int) {
	i := fs.proto.Code[pc]
	fs.proto.Code[pc] = opcode.MakeAsBx(i.Op(), i.A(), dest-(pc+1))
}

// concat appends jump list l2 onto the end of list l1, returning the
// combined list's head.
func (fs *FuncState) concat(l1, l2 int) int {
	if l2 == noJump {
		return l1
	}
	if l1 == noJump {
		return l2
	}
	pc := l1
	for {
		next := fs.getJumpDest(pc)
		if next == noJump {
			break
		}
		pc = next
	}
	fs.fixJump(pc, l2)
	return l1
}

// patchListTo patches every JMP in list to target dest.
func (fs *FuncState) patchListTo(list, dest int) {
	for list != noJump {
		next := fs.getJumpDest(list)
		fs.fixJump(list, dest)
		list = next
	}
}

// patchToHere patches list to jump to the next instruction to be emitted.
func (fs *FuncState) patchToHere(list int) {
	fs.patchListTo(list, fs.pc())
}
