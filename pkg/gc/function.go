package gc

import (
	"fmt"

	"github.com/selene-lang/selene/pkg/bytecode"
)

// ConstantKind tags an entry in a function's constant pool.
type ConstantKind uint8

const (
	ConstNumber ConstantKind = iota
	ConstString
)

// Constant is one interned constant-pool entry.
type Constant struct {
	Kind ConstantKind
	Num  float64
	Str  string
}

// Function is a compiled function prototype: the instruction stream, its
// source-line table, the interned constant pool, child prototypes, and the
// register allocation cursor used during code generation. Prototypes are
// heap objects so the collector can reclaim code for functions no longer
// referenced by any closure.
type Function struct {
	header

	module   string
	line     int
	superior *Function
	protos   []*Function

	code  []bytecode.Instruction
	lines []int

	constants []Constant
	numIndex  map[float64]int
	strIndex  map[string]int

	nextRegister int
}

// SetBaseInfo records the module name and defining line for diagnostics.
func (f *Function) SetBaseInfo(module string, line int) {
	f.module = module
	f.line = line
}

// Module returns the module name the prototype was compiled from.
func (f *Function) Module() string { return f.module }

// Line returns the source line the function definition starts at.
func (f *Function) Line() int { return f.line }

// SetSuperior links the prototype to its lexically enclosing function.
func (f *Function) SetSuperior(s *Function) {
	f.superior = s
}

// Superior returns the lexically enclosing prototype, or nil at top level.
func (f *Function) Superior() *Function { return f.superior }

// AddProto appends a child prototype and returns its index, used as the
// operand of a closure instruction.
func (f *Function) AddProto(child *Function) int {
	f.protos = append(f.protos, child)
	return len(f.protos) - 1
}

// Protos returns the child prototypes.
func (f *Function) Protos() []*Function { return f.protos }

// AddInstruction appends an instruction attributed to the given source line
// and returns its index.
func (f *Function) AddInstruction(i bytecode.Instruction, line int) int {
	f.code = append(f.code, i)
	f.lines = append(f.lines, line)
	return len(f.code) - 1
}

// Code returns the instruction stream.
func (f *Function) Code() []bytecode.Instruction { return f.code }

// Lines returns the per-instruction source line table.
func (f *Function) Lines() []int { return f.lines }

// NextRegister returns the next-free-register cursor.
func (f *Function) NextRegister() int { return f.nextRegister }

// SetNextRegister resets the next-free-register cursor. Block exit uses
// this to reclaim registers held by block-local names.
func (f *Function) SetNextRegister(n int) { f.nextRegister = n }

// AllocNextRegister allocates the next free register and advances the
// cursor. Exceeding the frame's register budget is unrecoverable.
func (f *Function) AllocNextRegister() int {
	r := f.nextRegister
	if r > bytecode.MaxRegisterIndex {
		panic(fmt.Sprintf("gc: function %q exceeds %d registers", f.module, bytecode.MaxRegisterIndex+1))
	}
	f.nextRegister++
	return r
}

// AddConstNumber interns a number constant and returns its stable pool
// index, deduplicating equal values.
func (f *Function) AddConstNumber(n float64) int {
	if idx, ok := f.numIndex[n]; ok {
		return idx
	}
	if f.numIndex == nil {
		f.numIndex = make(map[float64]int)
	}
	idx := len(f.constants)
	f.constants = append(f.constants, Constant{Kind: ConstNumber, Num: n})
	f.numIndex[n] = idx
	return idx
}

// AddConstString interns a string constant and returns its stable pool
// index, deduplicating equal values.
func (f *Function) AddConstString(s string) int {
	if idx, ok := f.strIndex[s]; ok {
		return idx
	}
	if f.strIndex == nil {
		f.strIndex = make(map[string]int)
	}
	idx := len(f.constants)
	f.constants = append(f.constants, Constant{Kind: ConstString, Str: s})
	f.strIndex[s] = idx
	return idx
}

// ConstantCount returns the size of the constant pool.
func (f *Function) ConstantCount() int { return len(f.constants) }

// ConstantAt returns the constant-pool entry at index i.
func (f *Function) ConstantAt(i int) Constant { return f.constants[i] }

// Accept implements Object, descending into the superior link and child
// prototypes. The constant pool holds plain Go values owned by the
// prototype itself, so there is nothing further to traverse.
func (f *Function) Accept(v Visitor) bool {
	if !v.VisitFunction(f) {
		return false
	}
	if f.superior != nil {
		f.superior.Accept(v)
	}
	for _, p := range f.protos {
		p.Accept(v)
	}
	return true
}

func (f *Function) hdr() *header { return &f.header }
