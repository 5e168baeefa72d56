// Package machine implements the Intcode virtual machine.
//
// A Machine holds a flat memory of signed 64-bit integers that is both code
// and data, an instruction pointer (Ip) and a relative base register. Each
// tick fetches the cell at Ip, splits it into an opcode and three parameter
// modes (position, immediate and relative), resolves the parameter addresses
// and runs the handler for the opcode.
//
// Memory behaves as an infinite zero filled tape: reads past the end return
// zero, and writes past the end grow the memory up to a configurable limit.
// Arithmetic wraps on signed 64-bit overflow.
//
// Every fault (unknown opcode or mode, negative address, bad input, memory
// exhaustion) stops the machine and is returned as an ErrFault carrying the
// address of the faulting instruction.
package machine
