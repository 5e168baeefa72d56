package emulator

import (
	"strconv"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Ip     int64
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("ip %s %v", strconv.FormatInt(err.Ip, 10), err.Err)
	}
	return f("line %s ip %s %v", strconv.Itoa(err.LineNo), strconv.FormatInt(err.Ip, 10), err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrConfigKey is an unrecognized configuration key.
type ErrConfigKey string

func (err ErrConfigKey) Error() string {
	return f("unknown configuration key '%v'", string(err))
}
