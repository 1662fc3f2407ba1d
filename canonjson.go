// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package canonjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tailscale/hujson"
)

// Canonicalize returns the canonical form of the single JSON value encoded in
// data. It reports an error if data does not contain exactly one value, or
// if the value cannot be rendered canonically. If data contains input after
// the value, the error wraps ErrExtraInput.
func Canonicalize(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	st := NewStream(bytes.NewReader(data))
	enc := NewEncoder(&buf)

	// If the input is empty, Close reports the missing value.
	if err := st.ParseOne(enc); err != nil && err != io.EOF {
		return nil, err
	} else if err := enc.Close(); err != nil {
		return nil, err
	} else if err := st.checkEOF(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CanonicalizeHuJSON is as Canonicalize, but data may be in the HuJSON
// format (JSON with comments and trailing commas, also called JWCC).
// Comments are discarded.
func CanonicalizeHuJSON(data []byte) ([]byte, error) {
	std, err := hujson.Standardize(bytes.Clone(data))
	if err != nil {
		return nil, err
	}
	return Canonicalize(std)
}

// Transcode reads a stream of JSON values from r and writes the canonical
// form of each to w, followed by a newline. It stops at the end of r or at
// the first error.
func Transcode(w io.Writer, r io.Reader) error {
	st := NewStream(r)
	var buf bytes.Buffer
	for {
		buf.Reset()
		if err := encodeOne(&buf, st); err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		buf.WriteByte('\n')
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}
}

// encodeOne encodes the next value from st to w. It returns io.EOF if st has
// no further values.
func encodeOne(w io.Writer, st *Stream) error {
	enc := NewEncoder(w)
	if err := st.ParseOne(enc); err != nil {
		return err
	}
	return enc.Close()
}

// Marshal returns the canonical form of the JSON encoding of v, as produced
// by the encoding/json package. Numbers are checked by their encoded text:
// a floating-point field whose value is integral is encoded without a
// fraction, and is accepted as an integer. Since encoding/json switches to
// exponent form at magnitude 1e21, floating-point values are accepted only
// below that bound.
func Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return Canonicalize(data)
}

// Encode returns the canonical form of v, which must be one of the types
// accepted by Walk.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	if err := Walk(enc, v); err != nil {
		return nil, err
	} else if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// IsCanonical reports whether data is exactly the canonical form of the
// single JSON value it contains.
func IsCanonical(data []byte) bool {
	out, err := Canonicalize(data)
	return err == nil && bytes.Equal(out, data)
}
