// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package canonjson

import (
	"fmt"
	"io"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/creachadair/canonjson/internal/escape"
	"github.com/creachadair/mds/stack"
	"go4.org/mem"
)

// An Encoder is a Handler that renders the events for a single JSON value in
// canonical form to an io.Writer:
//
//   - Object members are sorted by key, comparing the UTF-8 bytes of the keys
//     lexicographically. Duplicate keys are not allowed.
//   - There is no whitespace outside of strings.
//   - Strings escape only the quotation mark, the reverse solidus, and the
//     C0 control characters. All other text is copied as raw UTF-8.
//   - Numbers must be integers, rendered in decimal with no leading zeroes,
//     no plus sign, and no fraction. Negative zero is rendered as 0.
//     Floating-point values are rejected.
//
// Because members are sorted, the encoder buffers the contents of each object
// and array until it is closed. The rendered value is written to the output
// in a single call once it is complete.
//
// An Encoder handles exactly one value. After the value is complete, call
// Close to check that the event sequence was well-formed. If any method
// reports an error, the encoding is abandoned and all further calls report
// the same error. An Encoder is not safe for concurrent use.
type Encoder struct {
	w    io.Writer
	stk  *stack.Stack[*frame]
	done bool  // a top-level value has been written
	err  error // sticky failure
}

// NewEncoder constructs an Encoder that writes its output to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, stk: stack.New[*frame]()}
}

type frameKind byte

const (
	objectFrame frameKind = iota + 1
	arrayFrame
)

// A frame holds the rendered contents of an open object or array.
type frame struct {
	kind    frameKind
	entries []entry

	// For objects, the pending key awaiting its value.
	key    string
	qkey   []byte
	hasKey bool
}

// An entry is one rendered member of an object (key, qkey, and text) or
// element of an array (text only).
type entry struct {
	key  string
	qkey []byte // quoted key
	text []byte
}

func (f *frame) size() int {
	n := 2 + len(f.entries) // brackets and separators
	for _, e := range f.entries {
		n += len(e.qkey) + len(e.text)
	}
	return n
}

// BeginObject implements part of the Handler interface.
func (e *Encoder) BeginObject() error { return e.begin("BeginObject", objectFrame) }

// BeginArray implements part of the Handler interface.
func (e *Encoder) BeginArray() error { return e.begin("BeginArray", arrayFrame) }

func (e *Encoder) begin(op string, kind frameKind) error {
	if err := e.checkValue(op); err != nil {
		return err
	}
	e.stk.Push(&frame{kind: kind})
	return nil
}

// Key implements part of the Handler interface. It reports an error if the
// innermost open value is not an object, or if the previous key has not yet
// received a value.
func (e *Encoder) Key(key string) error {
	if e.err != nil {
		return e.err
	}
	top, ok := e.stk.Peek(0)
	if !ok || top.kind != objectFrame {
		return e.fail(protocolErrorf("Key", "key %q outside an object", key))
	} else if top.hasKey {
		return e.fail(protocolErrorf("Key", "key %q follows key %q with no value", key, top.key))
	}
	q, err := escape.Quote(nil, mem.S(key))
	if err != nil {
		return e.fail(protocolErrorf("Key", "%v", err))
	}
	top.key, top.qkey, top.hasKey = key, q, true
	return nil
}

// EndObject implements part of the Handler interface. It reports an error if
// the innermost open value is not an object, if the last key has no value, or
// if the object has duplicate keys.
func (e *Encoder) EndObject() error {
	if e.err != nil {
		return e.err
	}
	top, ok := e.stk.Peek(0)
	if !ok || top.kind != objectFrame {
		return e.fail(protocolErrorf("EndObject", "no open object"))
	} else if top.hasKey {
		return e.fail(protocolErrorf("EndObject", "key %q has no value", top.key))
	}
	e.stk.Pop()

	slices.SortFunc(top.entries, func(a, b entry) int { return strings.Compare(a.key, b.key) })
	buf := make([]byte, 0, top.size())
	buf = append(buf, '{')
	for i, m := range top.entries {
		if i > 0 {
			if m.key == top.entries[i-1].key {
				return e.fail(protocolErrorf("EndObject", "duplicate key %q", m.key))
			}
			buf = append(buf, ',')
		}
		buf = append(buf, m.qkey...)
		buf = append(buf, ':')
		buf = append(buf, m.text...)
	}
	return e.bind("EndObject", append(buf, '}'))
}

// EndArray implements part of the Handler interface. It reports an error if
// the innermost open value is not an array.
func (e *Encoder) EndArray() error {
	if e.err != nil {
		return e.err
	}
	top, ok := e.stk.Peek(0)
	if !ok || top.kind != arrayFrame {
		return e.fail(protocolErrorf("EndArray", "no open array"))
	}
	e.stk.Pop()

	buf := make([]byte, 0, top.size())
	buf = append(buf, '[')
	for i, v := range top.entries {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, v.text...)
	}
	return e.bind("EndArray", append(buf, ']'))
}

// String implements part of the Handler interface. It reports an error if s
// is not valid UTF-8.
func (e *Encoder) String(s string) error {
	if err := e.checkValue("String"); err != nil {
		return err
	}
	q, err := escape.Quote(nil, mem.S(s))
	if err != nil {
		return e.fail(protocolErrorf("String", "%v", err))
	}
	return e.bind("String", q)
}

// Bool implements part of the Handler interface.
func (e *Encoder) Bool(b bool) error {
	if b {
		return e.literal("Bool", "true")
	}
	return e.literal("Bool", "false")
}

// Null implements part of the Handler interface.
func (e *Encoder) Null() error { return e.literal("Null", "null") }

// Int implements part of the Handler interface.
func (e *Encoder) Int(z int64) error {
	if err := e.checkValue("Int"); err != nil {
		return err
	}
	return e.bind("Int", strconv.AppendInt(nil, z, 10))
}

// Uint implements part of the Handler interface.
func (e *Encoder) Uint(z uint64) error {
	if err := e.checkValue("Uint"); err != nil {
		return err
	}
	return e.bind("Uint", strconv.AppendUint(nil, z, 10))
}

// BigInt implements part of the Handler interface.
// It reports an error if z == nil.
func (e *Encoder) BigInt(z *big.Int) error {
	if err := e.checkValue("BigInt"); err != nil {
		return err
	} else if z == nil {
		return e.fail(protocolErrorf("BigInt", "nil integer"))
	}
	return e.bind("BigInt", z.Append(nil, 10))
}

// Number implements part of the Handler interface. The text must have the
// syntax of a JSON number. If it has a fraction or exponent part, Number
// reports an *UnsupportedNumberError, even if the value is integral.
func (e *Encoder) Number(text string) error {
	if e.err != nil {
		return e.err
	}
	isInt, ok := classifyNumber(text)
	if !ok {
		return e.fail(protocolErrorf("Number", "invalid number %q", text))
	} else if !isInt {
		return e.fail(&UnsupportedNumberError{Text: text})
	}
	if text == "-0" {
		text = "0"
	}
	return e.literal("Number", text)
}

// Float implements part of the Handler interface. It always reports an
// *UnsupportedNumberError.
func (e *Encoder) Float(f float64) error {
	if e.err != nil {
		return e.err
	}
	return e.fail(&UnsupportedNumberError{Text: strconv.FormatFloat(f, 'g', -1, 64)})
}

// Close reports whether the events delivered to e described exactly one
// complete value. It does not close the underlying writer.
func (e *Encoder) Close() error {
	if e.err != nil {
		return e.err
	} else if n := e.stk.Len(); n != 0 {
		return e.fail(protocolErrorf("Close", "%d unclosed values", n))
	} else if !e.done {
		return e.fail(protocolErrorf("Close", "no value"))
	}
	return nil
}

func (e *Encoder) literal(op, text string) error {
	if err := e.checkValue(op); err != nil {
		return err
	}
	return e.bind(op, []byte(text))
}

// checkValue reports whether a value may be added at the current position:
// at the top level if no value has been written, in an array, or in an object
// with a pending key.
func (e *Encoder) checkValue(op string) error {
	if e.err != nil {
		return e.err
	}
	top, ok := e.stk.Peek(0)
	if !ok {
		if e.done {
			return e.fail(protocolErrorf(op, "extra value at top level"))
		}
	} else if top.kind == objectFrame && !top.hasKey {
		return e.fail(protocolErrorf(op, "object value without a key"))
	}
	return nil
}

// bind adds the rendered text of a complete value to the innermost open
// value, or writes it to the output if it is the top-level value.
func (e *Encoder) bind(op string, text []byte) error {
	top, ok := e.stk.Peek(0)
	if !ok {
		if e.done {
			return e.fail(protocolErrorf(op, "extra value at top level"))
		}
		e.done = true
		if _, err := e.w.Write(text); err != nil {
			return e.fail(fmt.Errorf("write output: %w", err))
		}
		return nil
	}
	switch top.kind {
	case objectFrame:
		if !top.hasKey {
			return e.fail(protocolErrorf(op, "object value without a key"))
		}
		top.entries = append(top.entries, entry{key: top.key, qkey: top.qkey, text: text})
		top.key, top.qkey, top.hasKey = "", nil, false
	case arrayFrame:
		top.entries = append(top.entries, entry{text: text})
	}
	return nil
}

func (e *Encoder) fail(err error) error {
	e.err = err
	return err
}

// classifyNumber reports whether text has the syntax of a JSON number (ok),
// and if so whether it is an integer, lacking fraction and exponent parts.
func classifyNumber(text string) (isInt, ok bool) {
	i := 0
	digits := func() int {
		j := i
		for i < len(text) && text[i] >= '0' && text[i] <= '9' {
			i++
		}
		return i - j
	}

	if i < len(text) && text[i] == '-' {
		i++
	}
	if i < len(text) && text[i] == '0' {
		i++ // a leading zero must be the only integer digit
	} else if digits() == 0 {
		return false, false
	}

	isInt = true
	if i < len(text) && text[i] == '.' {
		i++
		if digits() == 0 {
			return false, false
		}
		isInt = false
	}
	if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
		i++
		if i < len(text) && (text[i] == '+' || text[i] == '-') {
			i++
		}
		if digits() == 0 {
			return false, false
		}
		isInt = false
	}
	return isInt, i == len(text)
}

var _ Handler = (*Encoder)(nil)
