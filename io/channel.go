// Package io provides the input and output collaborators of the Intcode
// machine. A machine pulls one integer per input instruction from a Source
// and pushes one integer per output instruction to a Sink.
//
// Tape adapts text streams, Queue is an in-memory FIFO, and Pipe is a
// blocking channel suited to wiring machines together across goroutines.
package io

// Source provides integers to an input instruction.
type Source interface {
	// Receive returns the next integer, blocking if the source requires it.
	Receive() (value int64, err error)
}

// Sink accepts integers from an output instruction.
type Sink interface {
	// Send delivers a single integer.
	Send(value int64) error
}

// Channel is both a Source and a Sink.
type Channel interface {
	Source
	Sink
	// Rewind resets the channel to its initial state.
	Rewind()
}
