package compiler

import (
	"fmt"
	"io"

	"github.com/aql-lang/aql/lang/opcode"
)

// Printer controls disassembly listing of a compiled Proto tree.
type Printer struct {
	// Output is the io.Writer to print to.
	Output io.Writer
}

// Print writes a human-readable instruction listing for proto and,
// recursively, every nested prototype it defines.
func (p *Printer) Print(proto *Proto) error {
	pp := &disasmPrinter{w: p.Output}
	pp.printProto(proto, 0)
	return pp.err
}

type disasmPrinter struct {
	w   io.Writer
	err error
}

func (pp *disasmPrinter) printf(format string, args ...any) {
	if pp.err != nil {
		return
	}
	_, pp.err = fmt.Fprintf(pp.w, format, args...)
}

func (pp *disasmPrinter) printProto(proto *Proto, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}

	kind := "function"
	if depth == 0 {
		kind = "main chunk"
	}
	pp.printf("%s%s <%s:%d> (%d instructions, %d params%s)\n",
		indent, kind, proto.Source, proto.LineDefined, len(proto.Code), proto.NumParams, varargSuffix(proto))

	for i, instr := range proto.Code {
		line := 0
		if i < len(proto.Lines) {
			line = int(proto.Lines[i])
		}
		pp.printf("%s\t%d\t[%d]\t%s\n", indent, i, line, disasmInstr(instr, proto))
	}

	if len(proto.Constants) > 0 {
		pp.printf("%sconstants:\n", indent)
		for i, c := range proto.Constants {
			pp.printf("%s\t%d\t%s\n", indent, i, disasmConst(c))
		}
	}

	if len(proto.Upvalues) > 0 {
		pp.printf("%supvalues:\n", indent)
		for i, uv := range proto.Upvalues {
			from := "upvalue"
			if uv.InStack {
				from = "local"
			}
			pp.printf("%s\t%d\t%s (%s %d)\n", indent, i, uv.Name, from, uv.Index)
		}
	}

	for _, sub := range proto.Protos {
		pp.printProto(sub, depth+1)
	}
}

func varargSuffix(proto *Proto) string {
	if proto.IsVararg {
		return ", vararg"
	}
	return ""
}

func disasmConst(c Constant) string {
	switch c.Kind {
	case ConstInt:
		return fmt.Sprintf("%d", c.Int)
	case ConstFloat:
		return fmt.Sprintf("%g", c.Flt)
	case ConstString:
		return fmt.Sprintf("%q", c.Str)
	default:
		return "?"
	}
}

func disasmInstr(i opcode.Instruction, proto *Proto) string {
	op := i.Op()
	switch op.Format() {
	case opcode.FormatABC:
		return fmt.Sprintf("%-10s A=%d B=%d C=%d K=%v", op, i.A(), i.B(), i.C(), i.K())
	case opcode.FormatABx:
		return fmt.Sprintf("%-10s A=%d Bx=%d%s", op, i.A(), i.Bx(), constHint(op, i.Bx(), proto))
	case opcode.FormatAsBx:
		return fmt.Sprintf("%-10s A=%d sBx=%d", op, i.A(), i.SBx())
	case opcode.FormatAx:
		return fmt.Sprintf("%-10s Ax=%d", op, i.Ax())
	case opcode.FormatAxC:
		return fmt.Sprintf("%-10s A=%d sC=%d", op, i.A(), i.SC())
	default:
		return op.String()
	}
}

// constHint annotates LOADK/LOADKX/CLOSURE's Bx operand with the constant
// or sub-prototype it refers to, to make a listing readable without cross-
// referencing the constants table by hand.
func constHint(op opcode.Op, bx int, proto *Proto) string {
	switch op {
	case opcode.LOADK, opcode.LOADKX:
		if bx >= 0 && bx < len(proto.Constants) {
			return fmt.Sprintf(" ; %s", disasmConst(proto.Constants[bx]))
		}
	case opcode.CLOSURE:
		if bx >= 0 && bx < len(proto.Protos) {
			return fmt.Sprintf(" ; function at line %d", proto.Protos[bx].LineDefined)
		}
	}
	return ""
}
