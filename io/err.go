package io

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelFull   = errors.New(f("channel full"))
	ErrChannelEmpty  = errors.New(f("channel empty"))
	ErrChannelClosed = errors.New(f("channel closed"))
	ErrInputEnd      = errors.New(f("end of input"))
)

// ErrInvalidInput is an input token that is not an integer.
type ErrInvalidInput string

func (err ErrInvalidInput) Error() string {
	return f("input '%v' is not an integer", string(err))
}
