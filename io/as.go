package io

import (
	"iter"
)

// SendAll sends each value in order, stopping at the first error.
func SendAll(sink Sink, values ...int64) (err error) {
	for _, value := range values {
		err = sink.Send(value)
		if err != nil {
			return
		}
	}
	return
}

// SendString sends the code points of a string, one value per rune.
func SendString(sink Sink, text string) (err error) {
	for _, r := range text {
		err = sink.Send(int64(r))
		if err != nil {
			return
		}
	}
	return
}

// ReceiveAll returns an iterator that yields values from the source until
// it reports an error.
func ReceiveAll(src Source) iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		for {
			value, err := src.Receive()
			if err != nil {
				return
			}
			if !yield(value) {
				return
			}
		}
	}
}
