// Package wire serializes compiled function prototypes for storage and
// transport. Encoding is canonical CBOR so equal prototypes encode to
// byte-identical blobs.
package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/selene-lang/selene/pkg/bytecode"
	"github.com/selene-lang/selene/pkg/gc"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("wire: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Constant is the serializable form of one constant-pool entry.
type Constant struct {
	Kind uint8
	Num  float64 `cbor:",omitempty"`
	Str  string  `cbor:",omitempty"`
}

// Proto is the serializable form of a compiled function prototype: the
// instruction words, their source-line table, the constant pool, and the
// child prototypes, recursively.
type Proto struct {
	Module    string
	Line      int
	Code      []uint32
	Lines     []int
	Constants []Constant
	Protos    []*Proto
}

// FromFunction flattens a prototype tree into its wire form.
func FromFunction(f *gc.Function) *Proto {
	p := &Proto{
		Module: f.Module(),
		Line:   f.Line(),
	}
	for _, inst := range f.Code() {
		p.Code = append(p.Code, uint32(inst))
	}
	p.Lines = append(p.Lines, f.Lines()...)
	for i := 0; i < f.ConstantCount(); i++ {
		c := f.ConstantAt(i)
		p.Constants = append(p.Constants, Constant{Kind: uint8(c.Kind), Num: c.Num, Str: c.Str})
	}
	for _, child := range f.Protos() {
		p.Protos = append(p.Protos, FromFunction(child))
	}
	return p
}

// Build reconstructs a heap-allocated prototype tree from its wire form.
// Prototypes are allocated straight into the old generation, as the code
// generator does for freshly compiled functions.
func (p *Proto) Build(heap *gc.Collector) *gc.Function {
	f := heap.NewFunction(gc.GenOld)
	f.SetBaseInfo(p.Module, p.Line)
	for _, c := range p.Constants {
		if gc.ConstantKind(c.Kind) == gc.ConstNumber {
			f.AddConstNumber(c.Num)
		} else {
			f.AddConstString(c.Str)
		}
	}
	for i, w := range p.Code {
		line := 0
		if i < len(p.Lines) {
			line = p.Lines[i]
		}
		f.AddInstruction(bytecode.Instruction(w), line)
	}
	for _, child := range p.Protos {
		cf := child.Build(heap)
		cf.SetSuperior(f)
		f.AddProto(cf)
	}
	return f
}

// Marshal serializes a Proto to CBOR bytes.
func Marshal(p *Proto) ([]byte, error) {
	return cborEncMode.Marshal(p)
}

// Unmarshal deserializes a Proto from CBOR bytes.
func Unmarshal(data []byte) (*Proto, error) {
	var p Proto
	if err := cbor.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("wire: unmarshal proto: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Proto) validate() error {
	if len(p.Lines) != 0 && len(p.Lines) != len(p.Code) {
		return fmt.Errorf("wire: proto %q: %d lines for %d instructions", p.Module, len(p.Lines), len(p.Code))
	}
	for _, child := range p.Protos {
		if child == nil {
			return fmt.Errorf("wire: proto %q: nil child prototype", p.Module)
		}
		if err := child.validate(); err != nil {
			return err
		}
	}
	return nil
}
