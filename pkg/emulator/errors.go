package emulator

import "fmt"

// Error is the single error kind every core failure and validation
// failure is wrapped into. The protocol adapter renders its message.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

func errf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// ErrNoSession is returned by any operation that needs a loaded ROM
// when none is loaded.
var ErrNoSession = &Error{Msg: "no ROM loaded"}
