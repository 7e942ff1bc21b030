// Package errtag implements the tagged-error contract external callers
// depend on: a closed set of error kinds that render as a "[tag] message"
// string, strip back to plain text for display, and map to process exit
// codes. Modeled on internal/sandbox's typed EnforcementError rather than
// ad-hoc errors.New("[timeout] ...") string surgery.
package errtag

import (
	"errors"
	"fmt"
)

// Tag is a closed set of error kinds.
type Tag int

const (
	// General covers spawn/IO/syscall failures, untagged on the wire.
	General Tag = iota
	ToolMissing
	Timeout
	ParseFailure
)

func (t Tag) prefix() string {
	switch t {
	case ToolMissing:
		return "[tool-missing]"
	case Timeout:
		return "[timeout]"
	case ParseFailure:
		return "[parse-failure]"
	default:
		return ""
	}
}

// Error is a tagged error wrapping an underlying cause.
type Error struct {
	Tag Tag
	Msg string
	Err error
}

func New(tag Tag, msg string) *Error {
	return &Error{Tag: tag, Msg: msg}
}

func Wrap(tag Tag, msg string, err error) *Error {
	return &Error{Tag: tag, Msg: msg, Err: err}
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg != "" {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		} else {
			msg = e.Err.Error()
		}
	}
	if prefix := e.Tag.prefix(); prefix != "" {
		return prefix + " " + msg
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// TagOf classifies err using errors.As; untagged/unwrapped errors classify
// as General.
func TagOf(err error) Tag {
	var te *Error
	if errors.As(err, &te) {
		return te.Tag
	}
	return General
}

// StripTags removes a leading "[tag] " prefix from a message, idempotently;
// text without a recognized prefix passes through unchanged.
func StripTags(msg string) string {
	for _, tag := range []Tag{ToolMissing, Timeout, ParseFailure} {
		prefix := tag.prefix() + " "
		if len(msg) >= len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return msg
}

// ExitCode maps an error to the process exit code contract:
// 0 success, 1 general, 2 tool-missing, 3 timeout, 4 parse-failure.
// Classification works even when the tagged error is wrapped with
// additional context via fmt.Errorf("...: %w", err).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch TagOf(err) {
	case ToolMissing:
		return 2
	case Timeout:
		return 3
	case ParseFailure:
		return 4
	default:
		return 1
	}
}
