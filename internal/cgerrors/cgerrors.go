// Package cgerrors contains errors that carry a message meant for a human
// operator in addition to the usual technical description.
package cgerrors

import (
	"errors"
	"fmt"
)

// ConsoleMessager is implemented by errors that have a message to show at the
// console that differs from what Error returns.
type ConsoleMessager interface {
	ConsoleMessage() string
}

// consoleError is an error whose human-readable message is distinct from its
// technical one.
type consoleError struct {
	msg   string
	human string
	wrap  error
}

func (e *consoleError) Error() string {
	return e.msg
}

// ConsoleMessage shows the message that should be displayed at the console to
// describe the error.
func (e *consoleError) ConsoleMessage() string {
	return e.human
}

// Unwrap gives the error that the consoleError wraps, if it wraps one.
func (e *consoleError) Unwrap() error {
	return e.wrap
}

// Console returns a new error that has both the message to show the operator
// and the technical description of the error.
func Console(human, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got ConsoleError(%q)", human)
	}
	return &consoleError{
		msg:   technical,
		human: human,
	}
}

// Consolef returns a new error that has a message to show to the operator and
// an automatically generated Error() description.
func Consolef(humanFormat string, a ...interface{}) error {
	return Console(fmt.Sprintf(humanFormat, a...), "")
}

// WrapConsole returns a new error that has both the message to show the
// operator and the technical description of the error, and that wraps the
// given error.
func WrapConsole(e error, human, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("%s: %v", human, e)
	}
	return &consoleError{
		msg:   technical,
		human: human,
		wrap:  e,
	}
}

// ConsoleMessage gets the message to display to the console for the given
// error. If it or any error it wraps has a console message, the first such
// message is returned. Otherwise, err.Error() is returned.
func ConsoleMessage(err error) string {
	var cm ConsoleMessager
	if errors.As(err, &cm) {
		return cm.ConsoleMessage()
	}
	return err.Error()
}
