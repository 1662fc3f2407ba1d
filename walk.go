// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package canonjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
)

// Walk delivers events describing v to h. The value must be nil, a bool,
// a string, an integer, a float, a *big.Int, a json.Number, a
// json.RawMessage, or a []any or map[string]any whose elements are also
// values of these types. Floating-point values are delivered to the Float
// method; json.Number and the contents of json.RawMessage to Number.
//
// Map keys are delivered in unspecified order.
func Walk(h Handler, v any) error {
	switch t := v.(type) {
	case nil:
		return h.Null()
	case bool:
		return h.Bool(t)
	case string:
		return h.String(t)
	case int:
		return h.Int(int64(t))
	case int8:
		return h.Int(int64(t))
	case int16:
		return h.Int(int64(t))
	case int32:
		return h.Int(int64(t))
	case int64:
		return h.Int(t)
	case uint:
		return h.Uint(uint64(t))
	case uint8:
		return h.Uint(uint64(t))
	case uint16:
		return h.Uint(uint64(t))
	case uint32:
		return h.Uint(uint64(t))
	case uint64:
		return h.Uint(t)
	case *big.Int:
		return h.BigInt(t)
	case json.Number:
		return h.Number(string(t))
	case float32:
		return h.Float(float64(t))
	case float64:
		return h.Float(t)
	case json.RawMessage:
		return walkRaw(h, t)
	case []any:
		if err := h.BeginArray(); err != nil {
			return err
		}
		for _, elt := range t {
			if err := Walk(h, elt); err != nil {
				return err
			}
		}
		return h.EndArray()
	case map[string]any:
		if err := h.BeginObject(); err != nil {
			return err
		}
		for key, elt := range t {
			if err := h.Key(key); err != nil {
				return err
			}
			if err := Walk(h, elt); err != nil {
				return err
			}
		}
		return h.EndObject()
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
}

// walkRaw delivers the events for the single JSON value in raw to h.
func walkRaw(h Handler, raw json.RawMessage) error {
	st := NewStream(bytes.NewReader(raw))
	if err := st.ParseOne(h); err == io.EOF {
		return errors.New("empty raw message")
	} else if err != nil {
		return err
	}
	return st.checkEOF()
}
