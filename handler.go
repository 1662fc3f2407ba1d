// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package canonjson

import "math/big"

// A Handler receives structural events describing a single JSON value, in
// the order a traversal visits the value. If a method reports an error, the
// traversal should stop and return that error to its caller.
//
// There is one method per kind of value, so that a Handler can reject or
// constrain particular kinds (e.g., floating-point numbers) at the boundary.
// The *Encoder type implements this interface. A Stream and the Walk function
// produce events for it.
type Handler interface {
	// Begin a new object.
	BeginObject() error

	// Report the key of the next member of the current object. The key is
	// plain (unquoted) text.
	Key(key string) error

	// End the most-recently-opened object.
	EndObject() error

	// Begin a new array.
	BeginArray() error

	// End the most-recently-opened array.
	EndArray() error

	// Report a string value. The value is plain (unquoted) text.
	String(s string) error

	// Report a Boolean value.
	Bool(b bool) error

	// Report a null value.
	Null() error

	// Report a signed integer value.
	Int(z int64) error

	// Report an unsigned integer value.
	Uint(z uint64) error

	// Report an integer value of arbitrary size.
	BigInt(z *big.Int) error

	// Report a number given as JSON number text, e.g., "-15" or "2.5e3".
	Number(text string) error

	// Report a floating-point value.
	Float(f float64) error
}
