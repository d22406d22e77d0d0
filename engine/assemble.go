package engine

import (
	"encoding/binary"
	"fmt"
	"math"
)

// assemble encodes instrs into bytecode and builds the constant pool.
func assemble(f Functor, instrs []Instruction, nslots int) (*Code, error) {
	labels := map[int]int{}
	var pos int
	for _, in := range instrs {
		if in.Opcode >= opCount {
			return nil, fmt.Errorf("%w: %s", ErrIllegalInstruction, in.Opcode)
		}
		if in.Opcode == opLabel {
			labels[in.Label] = pos
			continue
		}
		pos += in.Opcode.size()
	}

	code := Code{
		Functor:      f,
		Instructions: instrs,
		Bytecode:     make([]byte, 0, pos),
		NSlots:       nslots,
	}
	for _, in := range instrs {
		if in.Opcode == opLabel {
			continue
		}
		start := len(code.Bytecode)
		code.Bytecode = append(code.Bytecode, byte(in.Opcode))
		for _, k := range opSpecs[in.Opcode].operands {
			switch k {
			case operandConst:
				if in.Operand == nil {
					return nil, fmt.Errorf("%w: %s without operand", ErrCorruptCode, in.Opcode)
				}
				i := code.constant(in.Operand)
				if i > math.MaxUint16 {
					return nil, fmt.Errorf("%w: too many constants in %s", ErrCorruptCode, f)
				}
				code.Bytecode = binary.BigEndian.AppendUint16(code.Bytecode, uint16(i))
			case operandSlot:
				if in.Slot < 0 || in.Slot > math.MaxUint16 {
					return nil, fmt.Errorf("%w: slot %d out of range in %s", ErrCorruptCode, in.Slot, f)
				}
				code.Bytecode = binary.BigEndian.AppendUint16(code.Bytecode, uint16(in.Slot))
			case operandAddr:
				target, ok := labels[in.Label]
				if !ok {
					return nil, fmt.Errorf("%w: undefined label L%d in %s", ErrCorruptCode, in.Label, f)
				}
				code.Bytecode = binary.BigEndian.AppendUint32(code.Bytecode, uint32(int32(target-start)))
			}
		}
	}
	return &code, nil
}

// constant returns the index of c in the constant pool, adding it if it's not there yet.
func (c *Code) constant(k Constant) int {
	id := constantID(k)
	for i, e := range c.Constants {
		if constantID(e) == id {
			return i
		}
	}
	c.Constants = append(c.Constants, k)
	return len(c.Constants) - 1
}

// constantID returns the index of k in the process-wide constant table.
func constantID(k Constant) uint32 {
	switch k := k.(type) {
	case Atom:
		return uint32(k)
	case Functor:
		return uint32(k)
	default:
		return constants.Intern(k)
	}
}

// decoded is an instruction fetched from bytecode. Branch targets in args are absolute.
type decoded struct {
	op   Opcode
	args [2]int
	size int
}

func decode(bc []byte, pc int) (decoded, error) {
	if pc < 0 || pc >= len(bc) {
		return decoded{}, fmt.Errorf("%w: pc %d out of range", ErrCorruptCode, pc)
	}
	d := decoded{op: Opcode(bc[pc])}
	if d.op == opLabel || d.op >= opCount {
		return decoded{}, fmt.Errorf("%w: %d at %d", ErrIllegalInstruction, bc[pc], pc)
	}
	d.size = d.op.size()
	if pc+d.size > len(bc) {
		return decoded{}, fmt.Errorf("%w: truncated %s at %d", ErrCorruptCode, d.op, pc)
	}
	p := pc + 1
	for i, k := range opSpecs[d.op].operands {
		switch k {
		case operandAddr:
			d.args[i] = pc + int(int32(binary.BigEndian.Uint32(bc[p:])))
		default:
			d.args[i] = int(binary.BigEndian.Uint16(bc[p:]))
		}
		p += k.width()
	}
	return d, nil
}

// Disassemble decodes the bytecode back into instructions. Labels are the absolute byte offsets of branch targets.
func (c *Code) Disassemble() ([]Instruction, error) {
	var ret []Instruction
	for pc := 0; pc < len(c.Bytecode); {
		d, err := decode(c.Bytecode, pc)
		if err != nil {
			return nil, err
		}
		in := Instruction{Opcode: d.op}
		for i, k := range opSpecs[d.op].operands {
			switch k {
			case operandConst:
				if d.args[i] >= len(c.Constants) {
					return nil, fmt.Errorf("%w: constant %d out of range at %d", ErrCorruptCode, d.args[i], pc)
				}
				in.Operand = c.Constants[d.args[i]]
			case operandSlot:
				in.Slot = d.args[i]
			case operandAddr:
				in.Label = d.args[i]
			}
		}
		ret = append(ret, in)
		pc += d.size
	}
	return ret, nil
}
