package compiler

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/aql-lang/aql/lang/opcode"
)

// Dump/Undump implement the precompiled bytecode format: a fixed binary
// header describing the host's word sizes and two sentinel values a loader
// can use to detect a foreign/incompatible dump, followed by one
// recursively-serialized prototype tree. This gives tests and tools a way
// to load a compiled program without going through the parser.

var signature = [4]byte{0x1b, 'A', 'Q', 'L'}

const (
	dumpVersion = 1
	dumpFormat = 0

	sizeofInt = 8
	sizeofSizeT = 8
	sizeofInstruction = 4
	sizeofInteger = 8
	sizeofNumber = 8

	integerTestValue = int64(0x5678)
	numberTestValue = float64(370.5)
)

// little-endian, matching the host byte order this implementation targets.
const endiannessByte = 1

// Dump serializes proto and everything it recursively references into
// AQL's precompiled bytecode format. strip omits the debug info section
// (line numbers, upvalue names) from the dump.
func Dump(proto *Proto, strip bool) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(signature[:])
	buf.WriteByte(dumpVersion)
	buf.WriteByte(dumpFormat)
	buf.WriteByte(sizeofInt)
	buf.WriteByte(sizeofSizeT)
	buf.WriteByte(sizeofInstruction)
	buf.WriteByte(sizeofInteger)
	buf.WriteByte(sizeofNumber)
	buf.WriteByte(endiannessByte)
	writeInt64(&buf, integerTestValue)
	writeFloat64(&buf, numberTestValue)

	strippedByte := byte(0)
	if strip {
		strippedByte = 1
	}
	buf.WriteByte(strippedByte)

	if err := dumpProto(&buf, proto, strip); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func dumpProto(buf *bytes.Buffer, p *Proto, strip bool) error {
	writeUint32(buf, uint32(p.NumParams))
	varargByte := byte(0)
	if p.IsVararg {
		varargByte = 1
	}
	buf.WriteByte(varargByte)
	writeUint32(buf, uint32(p.MaxStackSize))

	writeUint32(buf, uint32(len(p.Code)))
	for _, instr := range p.Code {
		writeUint32(buf, uint32(instr))
	}

	writeUint32(buf, uint32(len(p.Constants)))
	for _, c := range p.Constants {
		buf.WriteByte(byte(c.Kind))
		switch c.Kind {
		case ConstInt:
			writeInt64(buf, c.Int)
		case ConstFloat:
			writeFloat64(buf, c.Flt)
		case ConstString:
			writeString(buf, c.Str)
		default:
			return fmt.Errorf("compiler: dump: unknown constant kind %d", c.Kind)
		}
	}

	writeUint32(buf, uint32(len(p.Upvalues)))
	for _, uv := range p.Upvalues {
		inStackByte := byte(0)
		if uv.InStack {
			inStackByte = 1
		}
		buf.WriteByte(inStackByte)
		writeUint32(buf, uint32(uv.Index))
		if !strip {
			writeString(buf, uv.Name)
		}
	}

	writeUint32(buf, uint32(len(p.Protos)))
	for _, nested := range p.Protos {
		if err := dumpProto(buf, nested, strip); err != nil {
			return err
		}
	}

	if !strip {
		writeString(buf, p.Source)
		writeUint32(buf, uint32(p.LineDefined))
		writeUint32(buf, uint32(len(p.Lines)))
		for _, line := range p.Lines {
			writeUint32(buf, uint32(line))
		}
	}
	return nil
}

// Undump parses a buffer produced by Dump back into a Proto tree,
// validating the header's word sizes and sentinel test values first so a
// dump produced by an incompatible build is rejected cleanly rather than
// silently misread.
func Undump(data []byte) (*Proto, error) {
	r := &byteReader{buf: data}

	var sig [4]byte
	if !r.readBytes(sig[:]) || sig != signature {
		return nil, errors.New("compiler: undump: bad signature")
	}
	version, ok := r.readByte()
	if !ok || version != dumpVersion {
		return nil, fmt.Errorf("compiler: undump: unsupported version %d", version)
	}
	if _, ok := r.readByte(); !ok { // format
		return nil, errors.New("compiler: undump: truncated header")
	}
	sizes := make([]byte, 6)
	for i := range sizes {
		b, ok := r.readByte()
		if !ok {
			return nil, errors.New("compiler: undump: truncated header")
		}
		sizes[i] = b
	}
	if sizes[0] != sizeofInt || sizes[1] != sizeofSizeT || sizes[2] != sizeofInstruction ||
	sizes[3] != sizeofInteger || sizes[4] != sizeofNumber || sizes[5] != endiannessByte {
		return nil, errors.New("compiler: undump: incompatible word sizes or endianness")
	}
	intTest, ok := r.readInt64()
	if !ok || intTest != integerTestValue {
		return nil, errors.New("compiler: undump: integer sentinel mismatch")
	}
	fltTest, ok := r.readFloat64()
	if !ok || fltTest != numberTestValue {
		return nil, errors.New("compiler: undump: float sentinel mismatch")
	}
	strippedByte, ok := r.readByte()
	if !ok {
		return nil, errors.New("compiler: undump: truncated header")
	}
	strip := strippedByte != 0

	proto, err := undumpProto(r, strip)
	if err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, r.err
	}
	return proto, nil
}

func undumpProto(r *byteReader, strip bool) (*Proto, error) {
	p := &Proto{}

	numParams, ok := r.readUint32()
	if !ok {
		return nil, errors.New("compiler: undump: truncated prototype")
	}
	p.NumParams = int(numParams)

	varargByte, ok := r.readByte()
	if !ok {
		return nil, errors.New("compiler: undump: truncated prototype")
	}
	p.IsVararg = varargByte != 0

	maxStack, ok := r.readUint32()
	if !ok {
		return nil, errors.New("compiler: undump: truncated prototype")
	}
	p.MaxStackSize = int(maxStack)

	codeLen, ok := r.readUint32()
	if !ok {
		return nil, errors.New("compiler: undump: truncated code")
	}
	p.Code = make([]opcode.Instruction, codeLen)
	for i := range p.Code {
		w, ok := r.readUint32()
		if !ok {
			return nil, errors.New("compiler: undump: truncated code")
		}
		p.Code[i] = opcode.Instruction(w)
	}

	constLen, ok := r.readUint32()
	if !ok {
		return nil, errors.New("compiler: undump: truncated constants")
	}
	p.Constants = make([]Constant, constLen)
	for i := range p.Constants {
		kindByte, ok := r.readByte()
		if !ok {
			return nil, errors.New("compiler: undump: truncated constants")
		}
		kind := ConstKind(kindByte)
		switch kind {
		case ConstInt:
			v, ok := r.readInt64()
			if !ok {
				return nil, errors.New("compiler: undump: truncated int constant")
			}
			p.Constants[i] = intConst(v)
		case ConstFloat:
			v, ok := r.readFloat64()
			if !ok {
				return nil, errors.New("compiler: undump: truncated float constant")
			}
			p.Constants[i] = fltConst(v)
		case ConstString:
			s, ok := r.readString()
			if !ok {
				return nil, errors.New("compiler: undump: truncated string constant")
			}
			p.Constants[i] = strConst(s)
		default:
			return nil, fmt.Errorf("compiler: undump: unknown constant kind %d", kindByte)
		}
	}

	uvLen, ok := r.readUint32()
	if !ok {
		return nil, errors.New("compiler: undump: truncated upvalues")
	}
	p.Upvalues = make([]UpvalDesc, uvLen)
	for i := range p.Upvalues {
		inStackByte, ok := r.readByte()
		if !ok {
			return nil, errors.New("compiler: undump: truncated upvalues")
		}
		idx, ok := r.readUint32()
		if !ok {
			return nil, errors.New("compiler: undump: truncated upvalues")
		}
		p.Upvalues[i].InStack = inStackByte != 0
		p.Upvalues[i].Index = int(idx)
		if !strip {
			name, ok := r.readString()
			if !ok {
				return nil, errors.New("compiler: undump: truncated upvalue name")
			}
			p.Upvalues[i].Name = name
		}
	}

	protoLen, ok := r.readUint32()
	if !ok {
		return nil, errors.New("compiler: undump: truncated nested prototypes")
	}
	p.Protos = make([]*Proto, protoLen)
	for i := range p.Protos {
		nested, err := undumpProto(r, strip)
		if err != nil {
			return nil, err
		}
		p.Protos[i] = nested
	}

	if !strip {
		source, ok := r.readString()
		if !ok {
			return nil, errors.New("compiler: undump: truncated source name")
		}
		p.Source = source
		lineDefined, ok := r.readUint32()
		if !ok {
			return nil, errors.New("compiler: undump: truncated line info")
		}
		p.LineDefined = int(lineDefined)
		linesLen, ok := r.readUint32()
		if !ok {
			return nil, errors.New("compiler: undump: truncated line info")
		}
		p.Lines = make([]int32, linesLen)
		for i := range p.Lines {
			v, ok := r.readUint32()
			if !ok {
				return nil, errors.New("compiler: undump: truncated line info")
			}
			p.Lines[i] = int32(v)
		}
	}
	return p, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeInt64(buf *bytes.Buffer, v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	buf.Write(b[:])
}

func writeFloat64(buf *bytes.Buffer, v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	buf.Write(b[:])
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

// byteReader is a tiny cursor over a dump buffer; once err is set every
// subsequent read reports failure without panicking on a short buffer.
type byteReader struct {
	buf []byte
	pos int
	err error
}

func (r *byteReader) readBytes(dst []byte) bool {
	if r.err != nil || r.pos+len(dst) > len(r.buf) {
		r.err = errors.New("compiler: undump: unexpected end of data")
		return false
	}
	copy(dst, r.buf[r.pos:r.pos+len(dst)])
	r.pos += len(dst)
	return true
}

func (r *byteReader) readByte() (byte, bool) {
	var b [1]byte
	if !r.readBytes(b[:]) {
		return 0, false
	}
	return b[0], true
}

func (r *byteReader) readUint32() (uint32, bool) {
	var b [4]byte
	if !r.readBytes(b[:]) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b[:]), true
}

func (r *byteReader) readInt64() (int64, bool) {
	var b [8]byte
	if !r.readBytes(b[:]) {
		return 0, false
	}
	return int64(binary.LittleEndian.Uint64(b[:])), true
}

func (r *byteReader) readFloat64() (float64, bool) {
	var b [8]byte
	if !r.readBytes(b[:]) {
		return 0, false
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b[:])), true
}

func (r *byteReader) readString() (string, bool) {
	n, ok := r.readUint32()
	if !ok {
		return "", false
	}
	b := make([]byte, n)
	if !r.readBytes(b) {
		return "", false
	}
	return string(b), true
}
