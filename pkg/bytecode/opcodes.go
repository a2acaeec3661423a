// Package bytecode defines the instruction word and opcode set for the
// Selene register machine. Each instruction is a packed 32-bit word; the
// interpreter loop that executes them lives outside this module.
package bytecode

import "fmt"

// Opcode identifies a register-machine instruction.
type Opcode uint8

const (
	OpNop Opcode = iota

	// Register and constant transfer
	OpLoadNil   // A: set register A to nil
	OpLoadBool  // A B: set register A to bool(B)
	OpLoadConst // A B: load constant pool entry B into register A
	OpMove      // A B: copy register B into register A

	// Upvalue and environment access
	OpGetUpvalue // A B: load upvalue B into register A
	OpSetUpvalue // A B: store register A into upvalue B
	OpGetUpTable // A B C: register A = upvalue-table B indexed by register C
	OpSetUpTable // A B C: upvalue-table B indexed by register A = register C

	// Table access
	OpNewTable // A: fresh empty table into register A
	OpGetTable // A B C: register A = table(B)[register C]
	OpSetTable // A B C: table(A)[register B] = register C

	// Calls and frame control
	OpCall    // A sBx: call closure at register A, sBx results expected (-1 = all)
	OpRet     // A sBx: return sBx values starting at register A
	OpVarArg  // A sBx: expand varargs into registers from A
	OpClosure // A B: instantiate child prototype B into register A
	OpSetTop  // A: reset the frame's next-free-register cursor to A

	// Arithmetic and comparison (operands: A = dst, B/C = sources)
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpConcat
	OpEq
	OpLess
	OpLessEq
	OpNot
	OpNeg
	OpLen

	// Branches
	OpJmp      // sBx: relative jump
	OpJmpFalse // A sBx: jump when register A is false
	OpJmpTrue  // A sBx: jump when register A is true
)

var opNames = [...]string{
	OpNop:        "nop",
	OpLoadNil:    "loadnil",
	OpLoadBool:   "loadbool",
	OpLoadConst:  "loadconst",
	OpMove:       "move",
	OpGetUpvalue: "getupval",
	OpSetUpvalue: "setupval",
	OpGetUpTable: "getuptable",
	OpSetUpTable: "setuptable",
	OpNewTable:   "newtable",
	OpGetTable:   "gettable",
	OpSetTable:   "settable",
	OpCall:       "call",
	OpRet:        "ret",
	OpVarArg:     "vararg",
	OpClosure:    "closure",
	OpSetTop:     "settop",
	OpAdd:        "add",
	OpSub:        "sub",
	OpMul:        "mul",
	OpDiv:        "div",
	OpMod:        "mod",
	OpConcat:     "concat",
	OpEq:         "eq",
	OpLess:       "less",
	OpLessEq:     "lesseq",
	OpNot:        "not",
	OpNeg:        "neg",
	OpLen:        "len",
	OpJmp:        "jmp",
	OpJmpFalse:   "jmpfalse",
	OpJmpTrue:    "jmptrue",
}

// String returns the mnemonic for the opcode.
func (op Opcode) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("Opcode(%d)", uint8(op))
}

// Format describes how an instruction's operand fields are laid out.
type Format uint8

const (
	FormatA Format = iota
	FormatAB
	FormatABC
	FormatAsBx
	FormatSBx
)

var opFormats = map[Opcode]Format{
	OpNop:        FormatA,
	OpLoadNil:    FormatA,
	OpLoadBool:   FormatAB,
	OpLoadConst:  FormatAB,
	OpMove:       FormatAB,
	OpGetUpvalue: FormatAB,
	OpSetUpvalue: FormatAB,
	OpGetUpTable: FormatABC,
	OpSetUpTable: FormatABC,
	OpNewTable:   FormatA,
	OpGetTable:   FormatABC,
	OpSetTable:   FormatABC,
	OpCall:       FormatAsBx,
	OpRet:        FormatAsBx,
	OpVarArg:     FormatAsBx,
	OpClosure:    FormatAB,
	OpSetTop:     FormatA,
	OpAdd:        FormatABC,
	OpSub:        FormatABC,
	OpMul:        FormatABC,
	OpDiv:        FormatABC,
	OpMod:        FormatABC,
	OpConcat:     FormatABC,
	OpEq:         FormatABC,
	OpLess:       FormatABC,
	OpLessEq:     FormatABC,
	OpNot:        FormatAB,
	OpNeg:        FormatAB,
	OpLen:        FormatAB,
	OpJmp:        FormatSBx,
	OpJmpFalse:   FormatAsBx,
	OpJmpTrue:    FormatAsBx,
}

// OperandFormat returns the operand layout for the opcode.
func (op Opcode) OperandFormat() Format {
	if f, ok := opFormats[op]; ok {
		return f
	}
	return FormatA
}
