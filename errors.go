// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package canonjson

import (
	"errors"
	"fmt"
)

// ErrExtraInput is reported when input contains data after the value that
// was to be canonicalized.
var ErrExtraInput = errors.New("extra input after value")

// ProtocolError is the concrete type of errors reported by an Encoder when it
// receives an event sequence that does not describe exactly one valid value,
// for example a duplicate object key or an unbalanced EndArray.
type ProtocolError struct {
	Op      string // the event that failed, e.g., "EndObject"
	Message string // a description of the problem
}

// Error satisfies the error interface.
func (p *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error in %s: %s", p.Op, p.Message)
}

func protocolErrorf(op, msg string, args ...any) *ProtocolError {
	return &ProtocolError{Op: op, Message: fmt.Sprintf(msg, args...)}
}

// UnsupportedNumberError is the concrete type of the error reported by an
// Encoder for a floating-point value. Canonical form admits only integers,
// since there is no rendering of floating-point values that every producer
// agrees on.
type UnsupportedNumberError struct {
	Text string // the text of the rejected value
}

// Error satisfies the error interface.
func (u *UnsupportedNumberError) Error() string {
	return fmt.Sprintf("unsupported number %s: floating-point values are not allowed", u.Text)
}
