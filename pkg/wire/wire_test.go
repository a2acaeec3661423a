package wire

import (
	"strings"
	"testing"

	"github.com/selene-lang/selene/pkg/bytecode"
	"github.com/selene-lang/selene/pkg/gc"
)

func buildPrototype(t *testing.T) (*gc.Collector, *gc.Function) {
	t.Helper()
	heap := gc.NewCollector(gc.Config{}, gc.RootSet{})

	fn := heap.NewFunction(gc.GenOld)
	fn.SetBaseInfo("mod.selene", 0)
	fn.AddConstNumber(42)
	fn.AddConstString("print")
	fn.AddInstruction(bytecode.ABCode(bytecode.OpLoadConst, 0, 1), 1)
	fn.AddInstruction(bytecode.ABCCode(bytecode.OpGetUpTable, 0, 0, 0), 1)
	fn.AddInstruction(bytecode.ABCode(bytecode.OpLoadConst, 1, 0), 1)
	fn.AddInstruction(bytecode.AsBxCode(bytecode.OpCall, 0, 0), 1)
	fn.AddInstruction(bytecode.ACode(bytecode.OpSetTop, 0), 0)

	child := heap.NewFunction(gc.GenOld)
	child.SetBaseInfo("mod.selene", 3)
	child.AddConstString("inner")
	child.AddInstruction(bytecode.ACode(bytecode.OpSetTop, 0), 0)
	child.SetSuperior(fn)
	fn.AddProto(child)

	return heap, fn
}

func TestRoundTrip(t *testing.T) {
	heap, fn := buildPrototype(t)

	data, err := Marshal(FromFunction(fn))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	p, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	got := p.Build(heap)
	if got.Module() != fn.Module() || got.Line() != fn.Line() {
		t.Errorf("rebuilt base info = %s:%d, want %s:%d", got.Module(), got.Line(), fn.Module(), fn.Line())
	}

	if len(got.Code()) != len(fn.Code()) {
		t.Fatalf("rebuilt %d instructions, want %d", len(got.Code()), len(fn.Code()))
	}
	for i, inst := range fn.Code() {
		if got.Code()[i] != inst {
			t.Errorf("instruction %d = %v, want %v", i, got.Code()[i], inst)
		}
		if got.Lines()[i] != fn.Lines()[i] {
			t.Errorf("line %d = %d, want %d", i, got.Lines()[i], fn.Lines()[i])
		}
	}

	if got.ConstantCount() != fn.ConstantCount() {
		t.Fatalf("rebuilt %d constants, want %d", got.ConstantCount(), fn.ConstantCount())
	}
	for i := 0; i < fn.ConstantCount(); i++ {
		if got.ConstantAt(i) != fn.ConstantAt(i) {
			t.Errorf("constant %d = %+v, want %+v", i, got.ConstantAt(i), fn.ConstantAt(i))
		}
	}

	if len(got.Protos()) != 1 {
		t.Fatalf("rebuilt %d child prototypes, want 1", len(got.Protos()))
	}
	child := got.Protos()[0]
	if child.Superior() != got {
		t.Error("rebuilt child not linked to its enclosing prototype")
	}
	if child.Line() != 3 {
		t.Errorf("rebuilt child line = %d, want 3", child.Line())
	}
}

func TestCanonicalEncoding(t *testing.T) {
	_, fn := buildPrototype(t)

	a, err := Marshal(FromFunction(fn))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	b, err := Marshal(FromFunction(fn))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Error("equal prototypes encoded to different bytes")
	}
}

func TestUnmarshalRejectsMismatchedLineTable(t *testing.T) {
	p := &Proto{
		Module: "bad.selene",
		Code:   []uint32{0, 0, 0},
		Lines:  []int{1},
	}
	data, err := Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if _, err := Unmarshal(data); err == nil {
		t.Error("Unmarshal accepted a line table shorter than the code")
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	if _, err := Unmarshal([]byte{0xff, 0x00, 0x12}); err == nil {
		t.Error("Unmarshal accepted malformed bytes")
	}
}

func TestDisassemble(t *testing.T) {
	_, fn := buildPrototype(t)
	out := FromFunction(fn).Disassemble()

	for _, want := range []string{
		"=== main ===",
		"mod.selene",
		"loadconst",
		"getuptable",
		"call",
		"settop",
		`"print"`,
		"42",
		"main.proto[0]",
		`"inner"`,
		"; line 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("disassembly missing %q\n%s", want, out)
		}
	}
}
