package machine

import (
	"errors"
	"strconv"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

// itoa renders addresses and cells without locale digit grouping.
func itoa(value int64) string {
	return strconv.FormatInt(value, 10)
}

var (
	// Machine errors
	ErrHalted   = errors.New(f("machine halted"))
	ErrNoInput  = errors.New(f("no input attached"))
	ErrNoOutput = errors.New(f("no output attached"))

	// Instruction errors
	ErrOpcodeInput  = errors.New(f("in"))
	ErrOpcodeOutput = errors.New(f("out"))
	ErrOpcodeJump   = errors.New(f("jump"))
	ErrOpcodeArg1   = errors.New(f("arg1"))
	ErrOpcodeArg2   = errors.New(f("arg2"))
	ErrOpcodeArg3   = errors.New(f("arg3"))
)

// errOpcodeArg maps a 1-based parameter index to its error.
var errOpcodeArg = [...]error{nil, ErrOpcodeArg1, ErrOpcodeArg2, ErrOpcodeArg3}

// ErrOpcode is an instruction cell with an unrecognized opcode.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode %s in %s", itoa(int64(eo)%100), itoa(int64(eo)))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrMode is an instruction cell with an unrecognized parameter mode.
type ErrMode struct {
	Code  Code // Instruction cell.
	Param int  // 1-based parameter index.
	Digit int  // Offending mode digit.
}

func (err ErrMode) Error() string {
	return f("bad mode %s for parameter %s in %s", itoa(int64(err.Digit)), itoa(int64(err.Param)), itoa(int64(err.Code)))
}

func (err ErrMode) Is(target error) (ok bool) {
	_, ok = target.(ErrMode)
	return
}

// ErrNegativeAddress is an address that resolved below zero.
type ErrNegativeAddress int64

func (err ErrNegativeAddress) Error() string {
	return f("negative address %s", itoa(int64(err)))
}

func (err ErrNegativeAddress) Is(target error) (ok bool) {
	_, ok = target.(ErrNegativeAddress)
	return
}

// ErrOutOfMemory is a write beyond the memory limit.
type ErrOutOfMemory int64

func (err ErrOutOfMemory) Error() string {
	return f("address %s exceeds memory limit", itoa(int64(err)))
}

func (err ErrOutOfMemory) Is(target error) (ok bool) {
	_, ok = target.(ErrOutOfMemory)
	return
}

// ErrFault is a fatal error raised while executing the instruction at Ip.
type ErrFault struct {
	Ip   int64
	Code Code
	Err  error
}

func (err *ErrFault) Error() string {
	return f("fault at %s (%s): %v", itoa(err.Ip), itoa(int64(err.Code)), err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
