package bytecode

import "fmt"

// Instruction is one packed machine word:
//
//	[opcode:8][A:8][B:8][C:8]
//
// The B and C fields overlap a 16-bit signed sBx field used by jumps and
// calls. Register indices and constant indices fit the 8-bit fields; a
// function frame holds at most 250 registers.
type Instruction uint32

// MaxRegisterIndex is the largest register index an operand field can carry.
const MaxRegisterIndex = 249

// ACode packs an instruction carrying only an A operand.
func ACode(op Opcode, a int) Instruction {
	return Instruction(uint32(op)<<24 | uint32(uint8(a))<<16)
}

// ABCode packs an instruction with A and B operands.
func ABCode(op Opcode, a, b int) Instruction {
	return Instruction(uint32(op)<<24 | uint32(uint8(a))<<16 | uint32(uint8(b))<<8)
}

// ABCCode packs an instruction with A, B and C operands.
func ABCCode(op Opcode, a, b, c int) Instruction {
	return Instruction(uint32(op)<<24 | uint32(uint8(a))<<16 | uint32(uint8(b))<<8 | uint32(uint8(c)))
}

// AsBxCode packs an instruction with an A operand and a signed 16-bit sBx.
func AsBxCode(op Opcode, a, sbx int) Instruction {
	return Instruction(uint32(op)<<24 | uint32(uint8(a))<<16 | uint32(uint16(int16(sbx))))
}

// SBxCode packs an instruction carrying only a signed 16-bit sBx.
func SBxCode(op Opcode, sbx int) Instruction {
	return AsBxCode(op, 0, sbx)
}

// Opcode extracts the opcode field.
func (i Instruction) Opcode() Opcode {
	return Opcode(i >> 24)
}

// A extracts the A operand.
func (i Instruction) A() int {
	return int(uint8(i >> 16))
}

// B extracts the B operand.
func (i Instruction) B() int {
	return int(uint8(i >> 8))
}

// C extracts the C operand.
func (i Instruction) C() int {
	return int(uint8(i))
}

// SBx extracts the signed 16-bit sBx operand.
func (i Instruction) SBx() int {
	return int(int16(uint16(i)))
}

// String renders the instruction with its operands in mnemonic form.
func (i Instruction) String() string {
	op := i.Opcode()
	switch op.OperandFormat() {
	case FormatA:
		return fmt.Sprintf("%-10s %d", op, i.A())
	case FormatAB:
		return fmt.Sprintf("%-10s %d %d", op, i.A(), i.B())
	case FormatABC:
		return fmt.Sprintf("%-10s %d %d %d", op, i.A(), i.B(), i.C())
	case FormatAsBx:
		return fmt.Sprintf("%-10s %d %d", op, i.A(), i.SBx())
	case FormatSBx:
		return fmt.Sprintf("%-10s %d", op, i.SBx())
	}
	return op.String()
}
