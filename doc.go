// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package canonjson implements a canonical encoding for JSON values.
//
// Canonical form admits exactly one encoding for each logical value, so that
// two producers of equivalent data emit identical bytes. This makes the
// output suitable for content hashing, digital signatures, and diffs:
//
//   - Object members are sorted by key, comparing the UTF-8 bytes of the
//     keys. Duplicate keys are an error.
//   - There is no whitespace between tokens.
//   - Strings escape only '"', '\', and the control characters U+0000 to
//     U+001F. Everything else is written as raw UTF-8.
//   - Numbers are integers with no leading zeroes, sign, or fraction, except
//     a leading "-" for negative values. Floating-point values are rejected.
//
// For example, {"b": 2, "a": [true, null, -0]} has the canonical form
//
//	{"a":[true,null,0],"b":2}
//
// # Encoding
//
// The Encoder type renders a single value from a sequence of structural
// events delivered to the methods of the Handler interface:
//
//	JSON type  | Methods                        | Description
//	---------- | ------------------------------ | --------------------------
//	object     | BeginObject, Key, EndObject    | { "key": value, ... }
//	array      | BeginArray, EndArray           | [ ... ]
//	string     | String                         | "text"
//	number     | Int, Uint, BigInt, Number      | integers only
//	number     | Float                          | always rejected
//	constant   | Bool, Null                     | true, false, null
//
// Construct an Encoder with an io.Writer, deliver events, and call Close to
// check that they described exactly one complete value:
//
//	enc := canonjson.NewEncoder(w)
//	enc.BeginObject()
//	enc.Key("name")
//	enc.String("value")
//	enc.EndObject()
//	if err := enc.Close(); err != nil {
//	   log.Fatalf("Encode failed: %v", err)
//	}
//
// An event sequence that does not describe a valid value is reported with an
// error of concrete type *canonjson.ProtocolError. A floating-point value is
// reported with an error of type *canonjson.UnsupportedNumberError.
//
// # Sources of events
//
// Any traversal may drive a Handler. This package provides three:
//
// The Stream type is an event-driven parser for JSON source text. Construct
// a Stream from an io.Reader and call its Parse or ParseOne method with a
// Handler. The Canonicalize and Transcode functions use a Stream to rewrite
// existing JSON text in canonical form.
//
// The Walk function traverses generic values such as those produced by
// decoding JSON into an "any" with the encoding/json package. The Encode
// function uses Walk.
//
// The Marshal function encodes an arbitrary Go value with encoding/json and
// then canonicalizes the result.
package canonjson
