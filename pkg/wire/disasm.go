package wire

import (
	"fmt"
	"strings"

	"github.com/selene-lang/selene/pkg/bytecode"
	"github.com/selene-lang/selene/pkg/gc"
)

// Disassemble returns a human-readable listing of the prototype tree:
// constants, then one line per instruction with its source line, then each
// child prototype in turn.
func (p *Proto) Disassemble() string {
	var sb strings.Builder
	p.disassemble(&sb, "main")
	return sb.String()
}

func (p *Proto) disassemble(sb *strings.Builder, name string) {
	fmt.Fprintf(sb, "; === %s ===\n", name)
	if p.Module != "" {
		fmt.Fprintf(sb, "; module %s", p.Module)
		if p.Line > 0 {
			fmt.Fprintf(sb, ":%d", p.Line)
		}
		sb.WriteString("\n")
	}

	if len(p.Constants) > 0 {
		sb.WriteString("; constants:\n")
		for i, c := range p.Constants {
			if gc.ConstantKind(c.Kind) == gc.ConstNumber {
				fmt.Fprintf(sb, ";   [%d] %v\n", i, c.Num)
			} else {
				display := c.Str
				if len(display) > 40 {
					display = display[:37] + "..."
				}
				fmt.Fprintf(sb, ";   [%d] %q\n", i, display)
			}
		}
	}

	for pc, w := range p.Code {
		inst := bytecode.Instruction(w)
		line := 0
		if pc < len(p.Lines) {
			line = p.Lines[pc]
		}
		if line > 0 {
			fmt.Fprintf(sb, "%04d  %-28s ; line %d\n", pc, inst, line)
		} else {
			fmt.Fprintf(sb, "%04d  %s\n", pc, inst)
		}
	}
	sb.WriteString("\n")

	for i, child := range p.Protos {
		child.disassemble(sb, fmt.Sprintf("%s.proto[%d]", name, i))
	}
}
