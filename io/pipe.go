package io

import (
	"sync"
)

// Pipe is a blocking channel of integers, used to connect the output of one
// machine to the input of another running in its own goroutine.
type Pipe struct {
	data chan int64
	done chan struct{}
	once sync.Once
}

// NewPipe creates a pipe buffering up to size values.
func NewPipe(size int) *Pipe {
	return &Pipe{
		data: make(chan int64, size),
		done: make(chan struct{}),
	}
}

// Receive blocks until a value is available.
// Returns ErrChannelClosed once the pipe is closed and drained.
func (p *Pipe) Receive() (value int64, err error) {
	select {
	case value = <-p.data:
		return
	case <-p.done:
	}

	// Drain anything sent before the close.
	select {
	case value = <-p.data:
	default:
		err = ErrChannelClosed
	}
	return
}

// Send blocks until the value is buffered or received.
func (p *Pipe) Send(value int64) (err error) {
	select {
	case <-p.done:
		err = ErrChannelClosed
		return
	default:
	}

	select {
	case p.data <- value:
	case <-p.done:
		err = ErrChannelClosed
	}
	return
}

// Close wakes all blocked senders and receivers.
func (p *Pipe) Close() {
	p.once.Do(func() { close(p.done) })
}
