// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package canonjson

import (
	"errors"
	"strings"

	"github.com/creachadair/canonjson/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a canonical JSON string value. The contents are
// escaped and double quotation marks are added. Quote reports an error if src
// is not valid UTF-8.
func Quote(src string) (string, error) {
	q, err := escape.Quote(make([]byte, 0, len(src)+2), mem.S(src))
	if err != nil {
		return "", err
	}
	return string(q), nil
}

// Unquote decodes a JSON string value.  Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents.
// Unquote reports an error for an invalid or incomplete escape sequence.
func Unquote(src string) (string, error) {
	if len(src) < 2 || !strings.HasPrefix(src, `"`) || !strings.HasSuffix(src, `"`) {
		return "", errors.New("missing quotations")
	}
	dec, err := escape.Unquote(mem.S(src[1 : len(src)-1]))
	if err != nil {
		return "", err
	}
	return string(dec), nil
}
