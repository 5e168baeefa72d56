package io

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Tape provides line oriented text I/O for a machine.
//
// Each Receive consumes one non-blank line from Input and parses it as a
// base-10 integer. Each Send writes the value to Output as a single Unicode
// code point, or as a decimal line if Numeric is set.
type Tape struct {
	Input   io.Reader
	Output  io.Writer
	Numeric bool // If set, output values are written as decimal lines.

	reader *bufio.Reader
}

var _ Channel = (*Tape)(nil)

// Rewind drops any buffered input, and must be called after Input is
// replaced. Rewinding the underlying streams is not possible on a tape.
func (tc *Tape) Rewind() {
	tc.reader = nil
}

// Receive reads the next integer from the input stream.
func (tc *Tape) Receive() (value int64, err error) {
	if tc.Input == nil {
		err = ErrInputEnd
		return
	}

	if tc.reader == nil {
		tc.reader = bufio.NewReader(tc.Input)
	}

	for {
		var line string
		line, err = tc.reader.ReadString('\n')
		token := strings.TrimSpace(line)
		if len(token) == 0 {
			if errors.Is(err, io.EOF) {
				err = ErrInputEnd
				return
			}
			if err != nil {
				return
			}
			continue
		}

		value, err = strconv.ParseInt(token, 10, 64)
		if err != nil {
			err = ErrInvalidInput(token)
		}
		return
	}
}

// Send writes a value to the output stream.
func (tc *Tape) Send(value int64) (err error) {
	if tc.Output == nil {
		err = ErrChannelClosed
		return
	}

	if tc.Numeric {
		_, err = fmt.Fprintf(tc.Output, "%d\n", value)
		return
	}

	r := rune(value)
	if int64(r) != value || !utf8.ValidRune(r) {
		r = utf8.RuneError
	}

	_, err = tc.Output.Write(utf8.AppendRune(nil, r))
	return
}
