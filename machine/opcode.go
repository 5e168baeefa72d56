package machine

import (
	"fmt"
)

// Opcode is an Intcode operation.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_ADD         = Opcode(1)  // add
	OP_MULTIPLY    = Opcode(2)  // mul
	OP_INPUT       = Opcode(3)  // in
	OP_OUTPUT      = Opcode(4)  // out
	OP_JUMP_TRUE   = Opcode(5)  // jnz
	OP_JUMP_FALSE  = Opcode(6)  // jz
	OP_LESS_THAN   = Opcode(7)  // lt
	OP_EQUALS      = Opcode(8)  // eq
	OP_ADJUST_BASE = Opcode(9)  // arb
	OP_HALT        = Opcode(99) // hlt
)

// Opcodes lists every recognized opcode in numeric order.
var Opcodes = []Opcode{
	OP_ADD, OP_MULTIPLY, OP_INPUT, OP_OUTPUT, OP_JUMP_TRUE,
	OP_JUMP_FALSE, OP_LESS_THAN, OP_EQUALS, OP_ADJUST_BASE, OP_HALT,
}

// _params is the parameter count of each opcode.
var _params = map[Opcode]int{
	OP_ADD:         3,
	OP_MULTIPLY:    3,
	OP_INPUT:       1,
	OP_OUTPUT:      1,
	OP_JUMP_TRUE:   2,
	OP_JUMP_FALSE:  2,
	OP_LESS_THAN:   3,
	OP_EQUALS:      3,
	OP_ADJUST_BASE: 1,
	OP_HALT:        0,
}

// Valid returns true for a recognized opcode.
func (op Opcode) Valid() bool {
	_, ok := _params[op]
	return ok
}

// Params returns the number of parameter cells following the opcode.
func (op Opcode) Params() int {
	return _params[op]
}

// Writes returns the 1-based index of the parameter the opcode writes to,
// or 0 if it writes no memory.
func (op Opcode) Writes() int {
	switch op {
	case OP_ADD, OP_MULTIPLY, OP_LESS_THAN, OP_EQUALS:
		return 3
	case OP_INPUT:
		return 1
	}
	return 0
}

// Mode is a parameter addressing mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_POSITION  = Mode(0) // pos
	MODE_IMMEDIATE = Mode(1) // imm
	MODE_RELATIVE  = Mode(2) // rel
)

// Valid returns true for a recognized mode.
func (mode Mode) Valid() bool {
	return mode >= MODE_POSITION && mode <= MODE_RELATIVE
}

// Modes holds the modes of the three parameters of an instruction.
type Modes [3]Mode

// Code is a single instruction cell.
type Code int64

// MakeCode creates an instruction cell from an opcode and parameter modes.
// Unspecified modes are position mode.
func MakeCode(op Opcode, modes ...Mode) Code {
	value := int64(op)
	scale := int64(100)
	for _, mode := range modes {
		value += int64(mode) * scale
		scale *= 10
	}
	return Code(value)
}

// Opcode returns the opcode, without validating it.
func (code Code) Opcode() Opcode {
	return Opcode(int64(code) % 100)
}

// Decode splits the instruction cell into its opcode and parameter modes.
func (code Code) Decode() (op Opcode, modes Modes, err error) {
	op = code.Opcode()
	if !op.Valid() {
		err = ErrOpcode(code)
		return
	}

	digits := int64(code) / 100
	for n := range modes {
		mode := Mode(digits % 10)
		if !mode.Valid() {
			err = ErrMode{Code: code, Param: n + 1, Digit: int(mode)}
			return
		}
		modes[n] = mode
		digits /= 10
	}

	return
}

// String returns the mnemonic and modes of the instruction cell.
func (code Code) String() string {
	op, modes, err := code.Decode()
	if err != nil {
		return fmt.Sprintf("??? %d", int64(code))
	}
	return fmt.Sprintf("%v %v", op, modes[:op.Params()])
}
