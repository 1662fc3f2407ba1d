// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// Unquote decodes a byte slice containing the JSON encoding of a string. The
// input must have the enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents. A \u escape
// for a high surrogate must be followed by a \u escape for a low surrogate,
// and the pair is decoded into a single rune. Unquote reports an error for an
// incomplete or invalid escape sequence, or an unpaired surrogate.
func Unquote(src mem.RO) ([]byte, error) {
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(make([]byte, 0, src.Len()), src), nil
	}

	dec := make([]byte, 0, src.Len())
	for {
		dec = mem.Append(dec, src.SliceTo(i))
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}

		c := src.At(0)
		src = src.SliceFrom(1)
		switch c {
		case '"', '\\', '/':
			dec = append(dec, c)
		case 'b':
			dec = append(dec, '\b')
		case 'f':
			dec = append(dec, '\f')
		case 'n':
			dec = append(dec, '\n')
		case 'r':
			dec = append(dec, '\r')
		case 't':
			dec = append(dec, '\t')
		case 'u':
			r, rest, err := unescapeRune(src)
			if err != nil {
				return nil, err
			}
			dec = utf8.AppendRune(dec, r)
			src = rest
		default:
			return nil, fmt.Errorf("invalid %q after escape", c)
		}

		// Look for the next escape sequence, and if one is not found we can blit
		// the rest of the input and go home.
		i = mem.IndexByte(src, '\\')
		if i < 0 {
			return mem.Append(dec, src), nil
		}
	}
}

// unescapeRune decodes the rune denoted by the hex digits of a \u escape at
// the front of src, whose "\u" prefix has already been consumed. If the digits
// denote a high surrogate, the low surrogate escape that follows is consumed
// too. It returns the decoded rune and the remainder of src.
func unescapeRune(src mem.RO) (rune, mem.RO, error) {
	if src.Len() < 4 {
		return 0, src, errors.New("incomplete Unicode escape")
	}
	hi, err := parseHex(src.SliceTo(4))
	if err != nil {
		return 0, src, err
	}
	src = src.SliceFrom(4)
	if !utf16.IsSurrogate(hi) {
		return hi, src, nil
	} else if hi >= 0xdc00 {
		return 0, src, fmt.Errorf("unpaired low surrogate %U", hi)
	}

	if src.Len() < 6 || src.At(0) != '\\' || src.At(1) != 'u' {
		return 0, src, fmt.Errorf("unpaired high surrogate %U", hi)
	}
	lo, err := parseHex(src.SliceFrom(2).SliceTo(4))
	if err != nil {
		return 0, src, err
	}
	r := utf16.DecodeRune(hi, lo)
	if r == utf8.RuneError {
		return 0, src, fmt.Errorf("invalid surrogate pair %U %U", hi, lo)
	}
	return r, src.SliceFrom(6), nil
}

func parseHex(data mem.RO) (rune, error) {
	var v rune
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += rune(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += rune(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += rune(b - 'A' + 10)
		} else {
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
	}
	return v, nil
}
