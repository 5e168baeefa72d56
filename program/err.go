package program

import (
	"strconv"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

// ErrMalformed is a program token that is not an integer.
type ErrMalformed struct {
	Index int    // 0-based cell index.
	Token string // Offending token.
}

func (err ErrMalformed) Error() string {
	return f("cell %s '%v' is not an integer", strconv.Itoa(err.Index), err.Token)
}
