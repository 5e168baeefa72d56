package emulator

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/intcode/asm"
	"github.com/ezrec/intcode/io"
	"github.com/ezrec/intcode/machine"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Machine)
	assert.Equal(DEFAULT_MEMORY_LIMIT, emu.MemoryLimit)

	// Running an empty program faults on the first (zero) cell.
	assert.NoError(emu.Reset())
	done, err := emu.Tick()
	assert.False(done)
	assert.ErrorIs(err, machine.ErrOpcode(0))
}

func doRunSingle(emu *Emulator, program []string, input []byte, t *testing.T) (output []byte) {
	assert := assert.New(t)

	assembler := &asm.Assembler{}
	prog, err := assembler.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatalf("%v", err)
	}
	emu.Program = prog

	err = emu.Reset()
	assert.NoError(err)

	emu.Tape.Input = bytes.NewReader(input)
	tape_output := &bytes.Buffer{}
	emu.Tape.Output = tape_output

	for _, op := range assembler.Opcode {
		if len(op.Words) > 0 && op.Words[0] == ".data" {
			continue
		}
		assert.Equal(op.LineNo, emu.LineNo())
		here := program[emu.LineNo()-1]
		assert.Equal(int64(op.Ip), emu.Ip(), here)
		assert.Equal(machine.Code(op.Codes[0]), emu.Code(), here)
		done, err := emu.Tick()
		if err != nil {
			t.Log(emu.Machine.String())
			t.Fatalf("%v", err)
		}
		if done {
			break
		}
	}

	output = tape_output.Bytes()
	return
}

func TestEmulatorSingle(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	output := doRunSingle(emu, []string{
		"in 100",
		"add 100 #1 100",
		"out 100",
		"hlt",
	}, []byte("64\n"), t)

	assert.Equal("A", string(output))
	assert.Equal(machine.STATE_HALTED, emu.State)
	assert.Equal(4, emu.Ticks())

	// Halted machines keep reporting done.
	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		numeric bool
		program []string
		input   string
		output  string
	}){
		{"echo", false, []string{
			"loop: in 100",
			"      jz 100 #end",
			"      out 100",
			"      jmp #loop",
			"end:  hlt",
		}, "72\n\n105\n0\n", "Hi"},
		{"numeric", true, []string{
			"in 100",
			"mul 100 #-3 100",
			"out 100",
			"hlt",
		}, "14", "-42\n"},
		{"string", false, []string{
			"      arb #msg",
			"loop: jz %0 #end",
			"      out %0",
			"      arb #1",
			"      jmp #loop",
			"end:  hlt",
			"msg:  .string \"Hello\\n\"",
			"      .data 0",
		}, "", "Hello\n"},
	}

	for _, entry := range table {
		emu := NewEmulator()
		assert.NoError(emu.Assemble(strings.NewReader(strings.Join(entry.program, "\n"))), entry.name)
		assert.NoError(emu.Reset(), entry.name)

		emu.Tape.Numeric = entry.numeric
		emu.Tape.Input = strings.NewReader(entry.input)
		out := &bytes.Buffer{}
		emu.Tape.Output = out

		err := emu.Run()
		assert.NoError(err, entry.name)
		assert.Equal(entry.output, out.String(), entry.name)
	}
}

func TestEmulatorLoad(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	err := emu.Load(strings.NewReader("3,0,4,0,99\n"))
	assert.NoError(err)
	assert.Equal([]int64{3, 0, 4, 0, 99}, emu.Program.Codes)

	assert.NoError(emu.Reset())
	emu.Tape.Numeric = true
	emu.Tape.Input = strings.NewReader("1234\n")
	out := &bytes.Buffer{}
	emu.Tape.Output = out

	assert.NoError(emu.Run())
	assert.Equal("1234\n", out.String())
	assert.Equal(0, emu.LineNo())

	err = emu.Load(strings.NewReader("1,x"))
	assert.Error(err)
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assert.NoError(emu.Assemble(strings.NewReader(strings.Join([]string{
		"out #1",
		"in 10",
		"hlt",
	}, "\n"))))
	assert.NoError(emu.Reset())

	emu.Tape.Numeric = true
	out := &bytes.Buffer{}
	emu.Tape.Output = out

	err := emu.Run()
	assert.ErrorIs(err, io.ErrInputEnd)
	assert.ErrorIs(err, machine.ErrOpcodeInput)

	var rterr *ErrRuntime
	assert.ErrorAs(err, &rterr)
	assert.Equal(2, rterr.LineNo)
	assert.Equal(int64(2), rterr.Ip)
	assert.Contains(err.Error(), "line 2")

	var fault *machine.ErrFault
	assert.ErrorAs(err, &fault)
	assert.Equal(machine.STATE_FAULTED, emu.State)
	assert.Equal("1\n", out.String())

	// Reset restores the program image.
	assert.NoError(emu.Reset())
	assert.Equal(machine.STATE_RUNNING, emu.State)
	assert.Equal(int64(0), emu.Ip())
	assert.Equal(0, emu.Ticks())
}

func TestEmulatorMemoryLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.MemoryLimit = 64
	assert.NoError(emu.Assemble(strings.NewReader(strings.Join([]string{
		"add #1 #2 63",
		"add #1 #2 64",
		"hlt",
	}, "\n"))))
	assert.NoError(emu.Reset())

	err := emu.Run()
	assert.ErrorIs(err, machine.ErrOutOfMemory(64))

	emu.MemoryLimit = 4
	err = emu.Reset()
	assert.ErrorIs(err, machine.ErrOutOfMemory(9))
}

func TestEmulatorConfigure(t *testing.T) {
	assert := assert.New(t)

	cfg, err := ParseConfig(strings.Join([]string{
		"memory_limit = 256",
		"numeric = true",
		"",
		"[predefine]",
		"ANSWER = \"42\"",
	}, "\n"))
	assert.NoError(err)
	assert.Equal(&Config{
		MemoryLimit: 256,
		Numeric:     true,
		Predefine:   map[string]string{"ANSWER": "42"},
	}, cfg)

	emu := NewEmulator()
	emu.Configure(cfg)
	assert.Equal(256, emu.MemoryLimit)
	assert.True(emu.Tape.Numeric)

	assert.NoError(emu.Assemble(strings.NewReader("out #ANSWER\nout #DEFAULT_MEMORY_LIMIT\nhlt")))
	assert.NoError(emu.Reset())
	assert.Equal(256, emu.Machine.Memory.Limit)

	out := &bytes.Buffer{}
	emu.Tape.Output = out
	assert.NoError(emu.Run())
	assert.Equal("42\n1048576\n", out.String())
}

func TestConfigErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseConfig("memory_size = 12")
	assert.ErrorIs(err, ErrConfigKey("memory_size"))

	_, err = ParseConfig("numeric = ")
	assert.Error(err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(err)
}

func TestLoadConfig(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "intcode.toml")
	err := os.WriteFile(path, []byte("verbose = true\nlanguage = \"en-US\"\n"), 0o644)
	assert.NoError(err)

	cfg, err := LoadConfig(path)
	assert.NoError(err)
	assert.True(cfg.Verbose)
	assert.Equal("en-US", cfg.Language)
	assert.Equal(0, cfg.MemoryLimit)
}

func TestErrRuntime_Error(t *testing.T) {
	assert := assert.New(t)

	err := &ErrRuntime{Ip: 1048576, LineNo: 1200, Err: machine.ErrHalted}
	assert.Equal("line 1200 ip 1048576 "+machine.ErrHalted.Error(), err.Error())

	err = &ErrRuntime{Ip: 4096, Err: machine.ErrHalted}
	assert.Equal("ip 4096 "+machine.ErrHalted.Error(), err.Error())
}
