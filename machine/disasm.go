package machine

import (
	"fmt"
	"strings"
)

// Operand formats a raw parameter value in assembler syntax for its mode.
func Operand(mode Mode, raw int64) string {
	switch mode {
	case MODE_IMMEDIATE:
		return fmt.Sprintf("#%d", raw)
	case MODE_RELATIVE:
		return fmt.Sprintf("%%%d", raw)
	}
	return fmt.Sprintf("%d", raw)
}

// Disassemble returns the assembler text of the instruction at ip, and the
// number of cells it occupies. Cells that do not decode are shown as data.
func Disassemble(mem []int64, ip int64) (text string, size int) {
	cell := func(addr int64) int64 {
		if addr >= 0 && addr < int64(len(mem)) {
			return mem[addr]
		}
		return 0
	}

	code := Code(cell(ip))
	op, modes, err := code.Decode()
	if err != nil {
		text = fmt.Sprintf(".data %d", int64(code))
		size = 1
		return
	}

	words := []string{op.String()}
	for n := range op.Params() {
		words = append(words, Operand(modes[n], cell(ip+1+int64(n))))
	}

	text = strings.Join(words, " ")
	size = 1 + op.Params()
	return
}
