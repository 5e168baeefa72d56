// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs assembled or loaded Intcode programs against a
// text tape.
package emulator

import (
	"errors"
	"fmt"
	goio "io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/intcode/asm"
	"github.com/ezrec/intcode/internal"
	"github.com/ezrec/intcode/io"
	"github.com/ezrec/intcode/machine"
	"github.com/ezrec/intcode/program"
)

const (
	DEFAULT_MEMORY_LIMIT = 1 << 20 // Default memory cells available to a program.
)

var _emulator_defines = map[string]string{
	"DEFAULT_MEMORY_LIMIT": fmt.Sprintf("%d", DEFAULT_MEMORY_LIMIT),
}

// Emulator state. Machine + program listing + tape.
type Emulator struct {
	Verbose          bool             // If set, enables verbose logging.
	*machine.Machine                  // Reference to the machine simulation.
	Program          *program.Program // Reference to the currently running program listing.

	Tape        io.Tape           // Tape IO channel.
	MemoryLimit int               // Memory cell limit applied on Reset.
	Predefine   map[string]string // Extra equates for Assemble.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Machine:     machine.NewMachine(nil),
		Program:     &program.Program{},
		MemoryLimit: DEFAULT_MEMORY_LIMIT,
	}

	return
}

// Configure applies a configuration to the emulator.
func (emu *Emulator) Configure(cfg *Config) {
	if cfg.MemoryLimit > 0 {
		emu.MemoryLimit = cfg.MemoryLimit
	}
	emu.Tape.Numeric = cfg.Numeric
	emu.Verbose = cfg.Verbose
	emu.Predefine = maps.Clone(cfg.Predefine)
}

// Defines returns an iterator over all of the defines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		machine.Defines(),
		maps.All(emu.Predefine),
	)
}

// Assemble replaces the program with assembled source text.
func (emu *Emulator) Assemble(input goio.Reader) (err error) {
	assembler := &asm.Assembler{Verbose: emu.Verbose}
	for equ, value := range emu.Defines() {
		assembler.Predefine(equ, value)
	}

	prog, err := assembler.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// Load replaces the program with comma separated program text.
func (emu *Emulator) Load(input goio.Reader) (err error) {
	prog, err := program.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// Reset the machine to the initial program image.
func (emu *Emulator) Reset() (err error) {
	if emu.Program == nil {
		emu.Program = &program.Program{}
	}

	if len(emu.Program.Codes) > emu.MemoryLimit && emu.MemoryLimit > 0 {
		err = machine.ErrOutOfMemory(len(emu.Program.Codes))
		return
	}

	emu.Machine = machine.NewMachine(emu.Program.Codes)
	emu.Machine.Memory.Limit = emu.MemoryLimit
	emu.Machine.Input = &emu.Tape
	emu.Machine.Output = &emu.Tape

	emu.Tape.Rewind()

	if emu.Verbose {
		log.Printf("emulator: reset, %d cells", len(emu.Program.Codes))
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Machine.Ticks
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int64 {
	return emu.Machine.Ip
}

// Code returns the current instruction code.
func (emu *Emulator) Code() machine.Code {
	value, _ := emu.Machine.Memory.Read(emu.Machine.Ip)
	return machine.Code(value)
}

// LineNo returns the current line number for the executing opcode,
// or 0 if the program has no line information.
func (emu *Emulator) LineNo() int {
	return emu.Program.Line(emu.Machine.Ip)
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Machine.Verbose = emu.Verbose

	ip := emu.Machine.Ip
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Ip: ip, LineNo: lineno, Err: err}
		}
	}()

	err = emu.Machine.Tick()
	if errors.Is(err, machine.ErrHalted) {
		err = nil
		done = true
		return
	}
	if err != nil {
		return
	}

	done = emu.Machine.State != machine.STATE_RUNNING
	return
}

// Run ticks the emulator until the program halts or faults.
func (emu *Emulator) Run() (err error) {
	var done bool
	for !done {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	if emu.Verbose {
		log.Printf("emulator: halted after %d ticks", emu.Ticks())
	}

	return
}
