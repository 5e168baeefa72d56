// Package program loads and stores Intcode program text.
//
// The text format is a comma separated list of base-10 integers. All
// whitespace is ignored, anywhere in the text.
package program

import (
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
	"unicode"

	"github.com/ezrec/intcode/machine"
)

// Program is a loaded Intcode image.
type Program struct {
	Codes  []int64        // Initial memory image.
	LineNo map[int64]int  // Source line of each assembled instruction, if known.
	Label  map[string]int // Addresses of assembler labels, if known.
}

// Parse reads program text.
func Parse(input io.Reader) (prog *Program, err error) {
	raw, err := io.ReadAll(input)
	if err != nil {
		return
	}

	text := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, string(raw))

	prog = &Program{}
	if len(text) == 0 {
		return
	}

	tokens := strings.Split(text, ",")
	prog.Codes = make([]int64, 0, len(tokens))
	for n, token := range tokens {
		var value int64
		value, err = strconv.ParseInt(token, 10, 64)
		if err != nil {
			err = ErrMalformed{Index: n, Token: token}
			prog = nil
			return
		}
		prog.Codes = append(prog.Codes, value)
	}

	return
}

// ParseString reads program text from a string.
func ParseString(text string) (prog *Program, err error) {
	return Parse(strings.NewReader(text))
}

// String returns the canonical program text.
func (prog *Program) String() string {
	words := make([]string, len(prog.Codes))
	for n, code := range prog.Codes {
		words[n] = strconv.FormatInt(code, 10)
	}
	return strings.Join(words, ",")
}

// WriteTo writes the canonical program text, with a trailing newline.
func (prog *Program) WriteTo(w io.Writer) (n int64, err error) {
	count, err := fmt.Fprintln(w, prog.String())
	n = int64(count)
	return
}

// Listing returns an iterator over the disassembled instructions of the
// program, keyed by address.
func (prog *Program) Listing() iter.Seq2[int64, string] {
	return func(yield func(ip int64, text string) bool) {
		for ip := int64(0); ip < int64(len(prog.Codes)); {
			text, size := machine.Disassemble(prog.Codes, ip)
			if !yield(ip, text) {
				return
			}
			ip += int64(size)
		}
	}
}

// Line returns the source line of the instruction at ip, or 0 if unknown.
func (prog *Program) Line(ip int64) int {
	return prog.LineNo[ip]
}
