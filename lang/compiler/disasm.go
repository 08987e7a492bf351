package compiler

import (
	"fmt"
	"strings"

	"github.com/mna/tacit/lang/value"
)

// Disassemble renders instrs as a pseudo-assembly listing, one instruction
// per line, for debugging and the asm/bytecode commands. It has no corresponding
// parser: there is no binary bytecode format to round-trip (see DESIGN.md).
func Disassemble(instrs []value.Instr) string {
	var sb strings.Builder
	for i, ins := range instrs {
		fmt.Fprintf(&sb, "%4d  %s\n", i, disasmOne(ins))
	}
	return sb.String()
}

func disasmOne(ins value.Instr) string {
	switch ins.Op {
	case value.OpIf:
		return fmt.Sprintf("if        then=%s else=%s", disasmFunc(ins.ThenFn), disasmFunc(ins.ElseFn))
	case value.OpPush:
		if fn, ok := ins.Value.IntoFunc(); ok {
			return fmt.Sprintf("push      %s", disasmFunc(fn))
		}
		return fmt.Sprintf("push      %s", ins.Value)
	default:
		return ins.String()
	}
}

func disasmFunc(fn *value.Function) string {
	if fn == nil {
		return "<nil>"
	}
	return fmt.Sprintf("{%s: %d instrs}", fn.ID, len(fn.Instrs))
}
