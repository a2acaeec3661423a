package bytecode

import "testing"

func TestInstructionPacking(t *testing.T) {
	tests := []struct {
		name string
		inst Instruction
		op   Opcode
		a    int
		b    int
		c    int
	}{
		{"a only", ACode(OpSetTop, 7), OpSetTop, 7, 0, 0},
		{"a b", ABCode(OpLoadConst, 3, 200), OpLoadConst, 3, 200, 0},
		{"a b c", ABCCode(OpGetUpTable, 1, 0, 249), OpGetUpTable, 1, 0, 249},
		{"max register", ABCode(OpMove, MaxRegisterIndex, MaxRegisterIndex), OpMove, 249, 249, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inst.Opcode(); got != tt.op {
				t.Errorf("Opcode() = %v, want %v", got, tt.op)
			}
			if got := tt.inst.A(); got != tt.a {
				t.Errorf("A() = %d, want %d", got, tt.a)
			}
			if got := tt.inst.B(); got != tt.b {
				t.Errorf("B() = %d, want %d", got, tt.b)
			}
			if got := tt.inst.C(); got != tt.c {
				t.Errorf("C() = %d, want %d", got, tt.c)
			}
		})
	}
}

func TestSignedOperandPacking(t *testing.T) {
	tests := []struct {
		name string
		inst Instruction
		op   Opcode
		a    int
		sbx  int
	}{
		{"call all results", AsBxCode(OpCall, 4, -1), OpCall, 4, -1},
		{"call fixed results", AsBxCode(OpCall, 0, 3), OpCall, 0, 3},
		{"backward jump", SBxCode(OpJmp, -200), OpJmp, 0, -200},
		{"forward jump", SBxCode(OpJmp, 32767), OpJmp, 0, 32767},
		{"most negative", SBxCode(OpJmp, -32768), OpJmp, 0, -32768},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inst.Opcode(); got != tt.op {
				t.Errorf("Opcode() = %v, want %v", got, tt.op)
			}
			if got := tt.inst.A(); got != tt.a {
				t.Errorf("A() = %d, want %d", got, tt.a)
			}
			if got := tt.inst.SBx(); got != tt.sbx {
				t.Errorf("SBx() = %d, want %d", got, tt.sbx)
			}
		})
	}
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		inst Instruction
		want string
	}{
		{ACode(OpSetTop, 2), "settop     2"},
		{ABCode(OpLoadConst, 1, 0), "loadconst  1 0"},
		{ABCCode(OpGetUpTable, 1, 0, 1), "getuptable 1 0 1"},
		{AsBxCode(OpCall, 1, -1), "call       1 -1"},
		{SBxCode(OpJmp, -5), "jmp        -5"},
	}
	for _, tt := range tests {
		if got := tt.inst.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestOperandFormats(t *testing.T) {
	tests := []struct {
		op   Opcode
		want Format
	}{
		{OpSetTop, FormatA},
		{OpMove, FormatAB},
		{OpGetUpTable, FormatABC},
		{OpCall, FormatAsBx},
		{OpJmp, FormatSBx},
	}
	for _, tt := range tests {
		if got := tt.op.OperandFormat(); got != tt.want {
			t.Errorf("%v.OperandFormat() = %v, want %v", tt.op, got, tt.want)
		}
	}
}

func TestOpcodeNamesComplete(t *testing.T) {
	for op := OpNop; op <= OpJmpTrue; op++ {
		if op.String() == "" {
			t.Errorf("opcode %d has no mnemonic", uint8(op))
		}
		if _, ok := opFormats[op]; !ok {
			t.Errorf("opcode %s has no operand format", op)
		}
	}
}
