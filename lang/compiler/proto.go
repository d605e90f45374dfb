// Package compiler implements AQL's single-pass compiler: a recursive
// descent parser fused directly with code generation, with no intervening
// AST. Expressions are tracked through an expdesc value as they are
// parsed, and are only "discharged" into a register or folded into a
// jump-condition once the parser knows how the surrounding expression
// uses them.
package compiler

import "github.com/aql-lang/aql/lang/opcode"

// UpvalDesc describes where a closure's upvalue comes from: either a local
// register of the immediately enclosing function (InStack true) or one of
// that function's own upvalues.
type UpvalDesc struct {
	Name string
	InStack bool
	Index int
}

// Proto is a compiled function prototype: its code, constants, nested
// prototypes, and the metadata the VM needs to set up a call frame.
type Proto struct {
	Source string
	LineDefined int
	NumParams int
	IsVararg bool
	MaxStackSize int

	Code []opcode.Instruction
	Lines []int32 // Lines[pc] is the source line of Code[pc]
	Constants []Constant
	Protos []*Proto
	Upvalues []UpvalDesc
}

// Constant is a compile-time constant pool entry. It mirrors the subset of
// value kinds that can appear as a LOADK operand: numbers and strings.
// Compound values (arrays, dicts,...) are never constants; they are built
// at run time by NEWOBJECT.
type Constant struct {
	Kind ConstKind
	Int int64
	Flt float64
	Str string
}

type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstString
)

func intConst(v int64) Constant { return Constant{Kind: ConstInt, Int: v} }
func fltConst(v float64) Constant { return Constant{Kind: ConstFloat, Flt: v} }
func strConst(v string) Constant { return Constant{Kind: ConstString, Str: v} }
