package machine

import (
	"errors"
)

// FlowKind selects how the run loop moves the instruction pointer.
type FlowKind int

const (
	FLOW_ADVANCE = FlowKind(0) // Skip past the instruction and its parameters.
	FLOW_JUMP    = FlowKind(1) // Set the instruction pointer.
	FLOW_HALT    = FlowKind(2) // Stop the machine.
)

// Flow is the control transfer requested by a handler.
type Flow struct {
	Kind   FlowKind
	Count  int64 // Parameter cells consumed, for FLOW_ADVANCE.
	Target int64 // New instruction pointer, for FLOW_JUMP.
}

// Advance moves past the instruction and count parameter cells.
func Advance(count int) Flow {
	return Flow{Kind: FLOW_ADVANCE, Count: int64(count)}
}

// JumpTo sets the instruction pointer to target.
func JumpTo(target int64) Flow {
	return Flow{Kind: FLOW_JUMP, Target: target}
}

// Halt stops the machine.
var Halt = Flow{Kind: FLOW_HALT}

// Handler executes one decoded instruction.
type Handler func(m *Machine, modes Modes) (flow Flow, err error)

// _handlers is the handler of each opcode.
var _handlers = map[Opcode]Handler{
	OP_ADD:         doAdd,
	OP_MULTIPLY:    doMultiply,
	OP_INPUT:       doInput,
	OP_OUTPUT:      doOutput,
	OP_JUMP_TRUE:   doJumpTrue,
	OP_JUMP_FALSE:  doJumpFalse,
	OP_LESS_THAN:   doLessThan,
	OP_EQUALS:      doEquals,
	OP_ADJUST_BASE: doAdjustBase,
	OP_HALT:        doHalt,
}

// Handler returns the handler for the opcode.
func (op Opcode) Handler() (handler Handler, ok bool) {
	handler, ok = _handlers[op]
	return
}

// binary applies fn to parameters 1 and 2, storing the result via parameter 3.
func binary(m *Machine, modes Modes, fn func(a, b int64) int64) (flow Flow, err error) {
	a, err := m.load(modes, 1)
	if err != nil {
		return
	}
	b, err := m.load(modes, 2)
	if err != nil {
		return
	}
	err = m.store(modes, 3, fn(a, b))
	if err != nil {
		return
	}
	flow = Advance(3)
	return
}

func boolValue(cond bool) int64 {
	if cond {
		return 1
	}
	return 0
}

func doAdd(m *Machine, modes Modes) (Flow, error) {
	return binary(m, modes, func(a, b int64) int64 { return a + b })
}

func doMultiply(m *Machine, modes Modes) (Flow, error) {
	return binary(m, modes, func(a, b int64) int64 { return a * b })
}

func doLessThan(m *Machine, modes Modes) (Flow, error) {
	return binary(m, modes, func(a, b int64) int64 { return boolValue(a < b) })
}

func doEquals(m *Machine, modes Modes) (Flow, error) {
	return binary(m, modes, func(a, b int64) int64 { return boolValue(a == b) })
}

func doInput(m *Machine, modes Modes) (flow Flow, err error) {
	if m.Input == nil {
		err = errors.Join(ErrOpcodeInput, ErrNoInput)
		return
	}

	value, err := m.Input.Receive()
	if err != nil {
		err = errors.Join(ErrOpcodeInput, err)
		return
	}

	err = m.store(modes, 1, value)
	if err != nil {
		return
	}

	flow = Advance(1)
	return
}

func doOutput(m *Machine, modes Modes) (flow Flow, err error) {
	value, err := m.load(modes, 1)
	if err != nil {
		return
	}

	if m.Output == nil {
		err = errors.Join(ErrOpcodeOutput, ErrNoOutput)
		return
	}

	err = m.Output.Send(value)
	if err != nil {
		err = errors.Join(ErrOpcodeOutput, err)
		return
	}

	flow = Advance(1)
	return
}

// jump transfers control to parameter 2 when parameter 1 tests equal to want.
// Not taken, it advances past both parameters.
func jump(m *Machine, modes Modes, want bool) (flow Flow, err error) {
	cond, err := m.load(modes, 1)
	if err != nil {
		return
	}

	if (cond != 0) != want {
		flow = Advance(2)
		return
	}

	target, err := m.load(modes, 2)
	if err != nil {
		return
	}

	if target < 0 {
		err = errors.Join(ErrOpcodeJump, ErrNegativeAddress(target))
		return
	}

	flow = JumpTo(target)
	return
}

func doJumpTrue(m *Machine, modes Modes) (Flow, error) {
	return jump(m, modes, true)
}

func doJumpFalse(m *Machine, modes Modes) (Flow, error) {
	return jump(m, modes, false)
}

func doAdjustBase(m *Machine, modes Modes) (flow Flow, err error) {
	delta, err := m.load(modes, 1)
	if err != nil {
		return
	}

	m.RelativeBase += delta
	flow = Advance(1)
	return
}

func doHalt(m *Machine, modes Modes) (flow Flow, err error) {
	flow = Halt
	return
}
