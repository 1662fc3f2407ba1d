// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

import (
	"fmt"
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// Quote appends the canonical JSON string encoding of src to buf, including
// the enclosing double quotation marks, and returns the extended slice.
//
// Only the quotation mark, the reverse solidus, and the C0 control characters
// are escaped. Controls with a short escape (\b \f \n \r \t) use it, the rest
// use a \u00xx escape with lowercase hex digits. All other characters are
// copied as raw UTF-8. Quote reports an error if src is not valid UTF-8; in
// that case the contents of the returned slice are unspecified.
func Quote(buf []byte, src mem.RO) ([]byte, error) {
	buf = append(buf, '"')
	pos := 0
	for src.Len() != 0 {
		b := src.At(0)
		if b < utf8.RuneSelf {
			if b < ' ' {
				if c := controlEsc[b]; c != 0 {
					buf = append(buf, '\\', c)
				} else {
					buf = append(buf, '\\', 'u', '0', '0', hexDigit[b>>4], hexDigit[b&15])
				}
			} else if b == '\\' || b == '"' {
				buf = append(buf, '\\', b)
			} else {
				buf = append(buf, b)
			}
			src = src.SliceFrom(1)
			pos++
			continue
		}

		r, n := mem.DecodeRune(src)
		if r == utf8.RuneError && n <= 1 {
			return buf, fmt.Errorf("invalid UTF-8 at offset %d", pos)
		}
		buf = mem.Append(buf, src.SliceTo(n))
		src = src.SliceFrom(n)
		pos += n
	}
	return append(buf, '"'), nil
}
