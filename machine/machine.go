// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package machine

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"
	"strings"

	"github.com/ezrec/intcode/io"
)

// State is the run state of a machine.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING = State(0) // running
	STATE_HALTED  = State(1) // halted
	STATE_FAULTED = State(2) // faulted
)

var _machine_defines = map[string]string{
	"MEMORY_LIMIT":   fmt.Sprintf("%d", MEMORY_LIMIT),
	"MODE_POSITION":  fmt.Sprintf("%d", MODE_POSITION),
	"MODE_IMMEDIATE": fmt.Sprintf("%d", MODE_IMMEDIATE),
	"MODE_RELATIVE":  fmt.Sprintf("%d", MODE_RELATIVE),
}

func init() {
	for _, op := range Opcodes {
		_machine_defines["OP_"+strings.ToUpper(op.String())] = fmt.Sprintf("%d", op)
	}
}

// Machine is the simulation context of an Intcode program.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Memory       Memory // Program and data memory.
	Ip           int64  // Current instruction pointer.
	RelativeBase int64  // Relative mode base register.

	State State // Current run state.
	Err   error // Fault that stopped the machine, if any.
	Ticks int   // Executed instruction counter.

	Input  io.Source // Source for input instructions.
	Output io.Sink   // Sink for output instructions.
}

// NewMachine creates a machine loaded with a copy of the program.
func NewMachine(program []int64) (m *Machine) {
	m = &Machine{}
	m.Memory.Data = slices.Clone(program)

	return
}

// Defines returns the machine constants, as assembler equates.
func Defines() iter.Seq2[string, string] {
	return maps.All(_machine_defines)
}

// String returns the current machine state as a string.
func (m *Machine) String() (text string) {
	text += fmt.Sprintf("% 6s: %d\n", "ip", m.Ip)
	text += fmt.Sprintf("% 6s: %d\n", "rb", m.RelativeBase)
	text += fmt.Sprintf("% 6s: %v\n", "state", m.State)
	text += fmt.Sprintf("% 6s: %d\n", "ticks", m.Ticks)
	text += fmt.Sprintf("% 6s: %d\n", "memory", m.Memory.Len())
	if m.Err != nil {
		text += fmt.Sprintf("% 6s: %v\n", "fault", m.Err)
	}

	return
}

// Resolve converts the 1-based parameter of the current instruction into
// the address it refers to. Immediate parameters resolve to the address of
// the parameter cell itself. Resolve is exported, so it also rejects modes
// that did not come from Code.Decode with ErrMode.
func (m *Machine) Resolve(param int, mode Mode) (addr int64, err error) {
	ptr := m.Ip + int64(param)

	switch mode {
	case MODE_POSITION:
		addr, err = m.Memory.Read(ptr)
	case MODE_IMMEDIATE:
		addr = ptr
	case MODE_RELATIVE:
		var raw int64
		raw, err = m.Memory.Read(ptr)
		addr = m.RelativeBase + raw
	default:
		code, _ := m.Memory.Read(m.Ip)
		err = ErrMode{Code: Code(code), Param: param, Digit: int(mode)}
	}
	if err != nil {
		return
	}

	if addr < 0 {
		err = ErrNegativeAddress(addr)
	}

	return
}

// load returns the value of a parameter.
func (m *Machine) load(modes Modes, param int) (value int64, err error) {
	defer func() {
		if err != nil {
			err = errors.Join(errOpcodeArg[param], err)
		}
	}()

	addr, err := m.Resolve(param, modes[param-1])
	if err != nil {
		return
	}

	value, err = m.Memory.Read(addr)
	return
}

// store writes the value to the address referred to by a parameter.
func (m *Machine) store(modes Modes, param int, value int64) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(errOpcodeArg[param], err)
		}
	}()

	addr, err := m.Resolve(param, modes[param-1])
	if err != nil {
		return
	}

	err = m.Memory.Write(addr, value)
	return
}

// Tick executes a single instruction.
// Faults stop the machine and are returned as *ErrFault.
func (m *Machine) Tick() (err error) {
	switch m.State {
	case STATE_HALTED:
		return ErrHalted
	case STATE_FAULTED:
		return m.Err
	}

	ip := m.Ip
	value, err := m.Memory.Read(ip)
	code := Code(value)

	defer func() {
		if err != nil {
			err = &ErrFault{Ip: ip, Code: code, Err: err}
			m.State = STATE_FAULTED
			m.Err = err
			if m.Verbose {
				log.Printf("machine: %v", err)
			}
		}
	}()

	if err != nil {
		return
	}

	err = m.Execute(code)
	return
}

// Execute executes a single instruction cell at the current instruction
// pointer.
func (m *Machine) Execute(code Code) (err error) {
	op, modes, err := code.Decode()
	if err != nil {
		return
	}

	if m.Verbose {
		text, _ := Disassemble(m.Memory.Data, m.Ip)
		log.Printf("%04d: %-24s rb=%d", m.Ip, text, m.RelativeBase)
	}

	// Decode only yields opcodes with a handler.
	handler, _ := op.Handler()

	flow, err := handler(m, modes)
	if err != nil {
		return
	}

	switch flow.Kind {
	case FLOW_ADVANCE:
		m.Ip += 1 + flow.Count
	case FLOW_JUMP:
		m.Ip = flow.Target
	case FLOW_HALT:
		m.State = STATE_HALTED
		if m.Verbose {
			log.Printf("machine: halt")
		}
	}

	m.Ticks += 1

	return
}

// Run executes the machine until it halts or faults.
// Input instructions pull from in, output instructions push to out.
// Returns nil on halt, and the fault otherwise.
func (m *Machine) Run(in io.Source, out io.Sink) (err error) {
	m.Input = in
	m.Output = out

	for m.State == STATE_RUNNING {
		err = m.Tick()
		if err != nil {
			return
		}
	}

	if m.State == STATE_FAULTED {
		err = m.Err
	}

	return
}
